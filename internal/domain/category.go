package domain

import "encoding/json"

// Category is a GitHub milestone, passed through as the API returns it.
// The typed fields are the ones the blog reads; the original JSON is kept
// and written back unchanged, so fields not listed here survive.
type Category struct {
	ID           int64  `json:"id,omitempty"`
	Number       int    `json:"number,omitempty"`
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	State        string `json:"state,omitempty"`
	OpenIssues   int    `json:"open_issues,omitempty"`
	ClosedIssues int    `json:"closed_issues,omitempty"`
	URL          string `json:"url,omitempty"`
	HTMLURL      string `json:"html_url,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`

	raw json.RawMessage
}

// categoryFields has Category's JSON layout without its methods.
type categoryFields Category

// UnmarshalJSON decodes the typed fields and keeps the full original object.
func (c *Category) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var fields categoryFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*c = Category(fields)
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the original object when there is one.
func (c Category) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	return json.Marshal(categoryFields(c))
}

// IsZero reports whether no category is selected.
func (c Category) IsZero() bool {
	return c.ID == 0 && c.Number == 0 && c.Title == "" && len(c.raw) == 0
}
