package domain

// Post is a blog post projected from a GitHub issue.
// Hot and Comment are fixed by the projection, not read from the issue.
type Post struct {
	Number    int       `json:"number"`
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
	Body      string    `json:"body"`
	Tags      []Tag     `json:"tags"`
	TagsURL   string    `json:"tags_url"`
	Category  *Category `json:"category"`
	Hot       int       `json:"hot"`
	Comment   bool      `json:"comment"`

	// Filled in by the normalization step
	Summary string `json:"summary,omitempty"`
	Cover   string `json:"cover,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// Tag is a GitHub label attached to a post.
type Tag struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// PostSummary is the reduced post shape returned by search.
type PostSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SearchResult holds the total match count and the matching posts.
type SearchResult struct {
	SearchCount int           `json:"searchCount"`
	Posts       []PostSummary `json:"posts"`
}

// PostsQuery selects a page of posts.
type PostsQuery struct {
	Page     int
	PageSize int
	Filter   PostFilter
}

// PostFilter narrows a post listing. Zero values mean no filtering.
type PostFilter struct {
	Milestone int      // milestone number, 0 = any
	Labels    []string // all labels must match
}
