package api

import "github.com/luckypoem/ethereal/internal/domain"

// Issue is a GitHub issue as returned by the REST API.
type Issue struct {
	Number    int              `json:"number"`
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	HTMLURL   string           `json:"html_url"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
	Body      string           `json:"body"`
	Labels    []domain.Tag     `json:"labels"`
	LabelsURL string           `json:"labels_url"`
	Milestone *domain.Category `json:"milestone"`
	State     string           `json:"state"`
}

// SearchPayload is the body of /search/issues.
type SearchPayload struct {
	TotalCount int          `json:"total_count"`
	Items      []SearchItem `json:"items"`
}

// SearchItem is one search hit.
type SearchItem struct {
	ID      int64  `json:"id"`
	Number  int    `json:"number"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
}

// CountPayload is the GraphQL response for the post count query.
// Every level is optional; a missing level means the count is unknown.
type CountPayload struct {
	Data *struct {
		Repository *struct {
			Issues *struct {
				TotalCount int `json:"totalCount"`
			} `json:"issues"`
		} `json:"repository"`
	} `json:"data"`
}

// TotalCount walks the payload and returns 0 when any level is absent.
func (p CountPayload) TotalCount() int {
	if p.Data == nil || p.Data.Repository == nil || p.Data.Repository.Issues == nil {
		return 0
	}
	return p.Data.Repository.Issues.TotalCount
}
