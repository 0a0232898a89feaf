package api

import (
	"context"

	"github.com/luckypoem/ethereal/internal/domain"
)

// Client defines the remote functions the post store calls.
// Each returns the HTTP status alongside the decoded payload so callers can
// apply their own status policy. A non-nil error means the request did not
// produce a usable response (transport failure or undecodable body).
type Client interface {
	// GetPostsCount returns the total number of open post issues.
	GetPostsCount(ctx context.Context) (*Response[CountPayload], error)

	// SearchPosts runs a full-text search restricted to the blog repository.
	SearchPosts(ctx context.Context, query string) (*Response[SearchPayload], error)

	// GetCategories returns the repository milestones.
	GetCategories(ctx context.Context) (*Response[[]domain.Category], error)

	// GetPosts returns one page of open issues.
	GetPosts(ctx context.Context, query domain.PostsQuery) (*Response[[]Issue], error)

	// GetPost returns a single issue by number.
	GetPost(ctx context.Context, number int) (*Response[Issue], error)
}

// ClientConfig holds configuration for API clients.
type ClientConfig struct {
	BaseURL    string
	GraphQLURL string
	Token      string
	Owner      string
	Repo       string
	Creator    string // only issues opened by this user are posts, empty = any
}

// Response is the status-plus-data envelope returned by every Client call.
// Data is only decoded for 200 responses; Body keeps the raw payload of
// anything else.
type Response[T any] struct {
	StatusCode int
	Body       []byte
	Data       T
}

// OK reports whether the response carries a 200 status.
func (r *Response[T]) OK() bool {
	return r != nil && r.StatusCode == 200
}
