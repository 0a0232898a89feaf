// Package store holds the post store module: the session state, the
// mutations that replace it, and the actions that fetch from GitHub and
// shape remote issues into posts.
package store

import (
	"context"

	"github.com/luckypoem/ethereal/internal/api"
	"github.com/luckypoem/ethereal/internal/domain"
)

// Formatter normalizes a projected post.
type Formatter func(domain.Post) domain.Post

// Actions fetches blog data through an api.Client.
// Actions never touch State; committing results is up to the caller.
type Actions struct {
	client api.Client
	format Formatter
}

// NewActions creates the actions. A nil formatter leaves posts as projected.
func NewActions(client api.Client, format Formatter) *Actions {
	if format == nil {
		format = func(p domain.Post) domain.Post { return p }
	}
	return &Actions{client: client, format: format}
}

// GetPostsCount returns the total number of posts, 0 when the count is absent.
func (a *Actions) GetPostsCount(ctx context.Context) (int, error) {
	resp, err := a.client.GetPostsCount(ctx)
	if err := checkResponse("get posts count", resp, err); err != nil {
		return 0, err
	}
	return resp.Data.TotalCount(), nil
}

// SearchPosts returns the match count and the id, title and url of each hit.
func (a *Actions) SearchPosts(ctx context.Context, query string) (domain.SearchResult, error) {
	resp, err := a.client.SearchPosts(ctx, query)
	if err := checkResponse("search posts", resp, err); err != nil {
		return domain.SearchResult{}, err
	}

	posts := make([]domain.PostSummary, len(resp.Data.Items))
	for i, item := range resp.Data.Items {
		posts[i] = domain.PostSummary{
			ID:    item.ID,
			Title: item.Title,
			URL:   item.URL,
		}
	}

	return domain.SearchResult{SearchCount: resp.Data.TotalCount, Posts: posts}, nil
}

// GetCategories returns the categories exactly as the API sent them.
func (a *Actions) GetCategories(ctx context.Context) ([]domain.Category, error) {
	resp, err := a.client.GetCategories(ctx)
	if err := checkResponse("get categories", resp, err); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetPosts returns one page of posts, projected and normalized.
func (a *Actions) GetPosts(ctx context.Context, query domain.PostsQuery) ([]domain.Post, error) {
	resp, err := a.client.GetPosts(ctx, query)
	if err := checkResponse("get posts", resp, err); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, len(resp.Data))
	for i, issue := range resp.Data {
		posts[i] = a.format(ProjectIssue(issue))
	}
	return posts, nil
}

// GetPost returns a single post, projected and normalized.
func (a *Actions) GetPost(ctx context.Context, number int) (domain.Post, error) {
	resp, err := a.client.GetPost(ctx, number)
	if err := checkResponse("get post", resp, err); err != nil {
		return domain.Post{}, err
	}
	return a.format(ProjectIssue(resp.Data)), nil
}

// ProjectIssue maps an issue onto the post schema. Labels become tags and the
// milestone becomes the category; Hot and Comment are always 1 and true.
func ProjectIssue(issue api.Issue) domain.Post {
	return domain.Post{
		Number:    issue.Number,
		ID:        issue.ID,
		Title:     issue.Title,
		URL:       issue.URL,
		CreatedAt: issue.CreatedAt,
		UpdatedAt: issue.UpdatedAt,
		Body:      issue.Body,
		Tags:      issue.Labels,
		TagsURL:   issue.LabelsURL,
		Category:  issue.Milestone,
		Hot:       1,
		Comment:   true,
	}
}

// checkResponse applies the single status policy shared by all actions.
func checkResponse[T any](op string, resp *api.Response[T], err error) error {
	if err != nil {
		return err
	}
	if resp == nil {
		return &api.Error{Kind: api.KindHTTPStatus, Op: op, Err: api.ErrEmptyResponse}
	}
	if !resp.OK() {
		return api.StatusError(op, resp)
	}
	return nil
}
