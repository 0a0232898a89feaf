package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckypoem/ethereal/internal/api"
	"github.com/luckypoem/ethereal/internal/api/github"
	"github.com/luckypoem/ethereal/internal/domain"
)

// mockClient is a test double for api.Client.
type mockClient struct {
	getPostsCountFunc func(ctx context.Context) (*api.Response[api.CountPayload], error)
	searchPostsFunc   func(ctx context.Context, query string) (*api.Response[api.SearchPayload], error)
	getCategoriesFunc func(ctx context.Context) (*api.Response[[]domain.Category], error)
	getPostsFunc      func(ctx context.Context, query domain.PostsQuery) (*api.Response[[]api.Issue], error)
	getPostFunc       func(ctx context.Context, number int) (*api.Response[api.Issue], error)
}

func (m *mockClient) GetPostsCount(ctx context.Context) (*api.Response[api.CountPayload], error) {
	return m.getPostsCountFunc(ctx)
}

func (m *mockClient) SearchPosts(ctx context.Context, query string) (*api.Response[api.SearchPayload], error) {
	return m.searchPostsFunc(ctx, query)
}

func (m *mockClient) GetCategories(ctx context.Context) (*api.Response[[]domain.Category], error) {
	return m.getCategoriesFunc(ctx)
}

func (m *mockClient) GetPosts(ctx context.Context, query domain.PostsQuery) (*api.Response[[]api.Issue], error) {
	return m.getPostsFunc(ctx, query)
}

func (m *mockClient) GetPost(ctx context.Context, number int) (*api.Response[api.Issue], error) {
	return m.getPostFunc(ctx, number)
}

// failingClient returns the same response, with no data, from every call.
func failingClient(status int, body string) *mockClient {
	return &mockClient{
		getPostsCountFunc: func(ctx context.Context) (*api.Response[api.CountPayload], error) {
			return &api.Response[api.CountPayload]{StatusCode: status, Body: []byte(body)}, nil
		},
		searchPostsFunc: func(ctx context.Context, query string) (*api.Response[api.SearchPayload], error) {
			return &api.Response[api.SearchPayload]{StatusCode: status, Body: []byte(body)}, nil
		},
		getCategoriesFunc: func(ctx context.Context) (*api.Response[[]domain.Category], error) {
			return &api.Response[[]domain.Category]{StatusCode: status, Body: []byte(body)}, nil
		},
		getPostsFunc: func(ctx context.Context, query domain.PostsQuery) (*api.Response[[]api.Issue], error) {
			return &api.Response[[]api.Issue]{StatusCode: status, Body: []byte(body)}, nil
		},
		getPostFunc: func(ctx context.Context, number int) (*api.Response[api.Issue], error) {
			return &api.Response[api.Issue]{StatusCode: status, Body: []byte(body)}, nil
		},
	}
}

func sampleIssue() api.Issue {
	return api.Issue{
		Number:    3,
		ID:        9,
		Title:     "t",
		URL:       "u",
		CreatedAt: "2024-01-01T10:00:00Z",
		UpdatedAt: "2024-01-02T10:00:00Z",
		Body:      "body",
		Labels:    []domain.Tag{{Name: "a"}},
		LabelsURL: "lu",
		Milestone: &domain.Category{ID: 1},
	}
}

// TestProjectIssue tests the issue to post field mapping.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestProjectIssue(t *testing.T) {
	// Arrange
	issue := sampleIssue()

	// Act
	post := ProjectIssue(issue)

	// Assert
	assert.Equal(t, domain.Post{
		Number:    3,
		ID:        9,
		Title:     "t",
		URL:       "u",
		CreatedAt: "2024-01-01T10:00:00Z",
		UpdatedAt: "2024-01-02T10:00:00Z",
		Body:      "body",
		Tags:      []domain.Tag{{Name: "a"}},
		TagsURL:   "lu",
		Category:  &domain.Category{ID: 1},
		Hot:       1,
		Comment:   true,
	}, post)
}

// TestGetPostsCount tests reading the nested total count.
func TestGetPostsCount(t *testing.T) {
	// Arrange
	var payload api.CountPayload
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"repository":{"issues":{"totalCount":42}}}}`), &payload))

	client := &mockClient{
		getPostsCountFunc: func(ctx context.Context) (*api.Response[api.CountPayload], error) {
			return &api.Response[api.CountPayload]{StatusCode: http.StatusOK, Data: payload}, nil
		},
	}

	// Act
	count, err := NewActions(client, nil).GetPostsCount(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

// TestGetPostsCount_MissingField tests that an absent count yields 0.
func TestGetPostsCount_MissingField(t *testing.T) {
	// Arrange
	client := &mockClient{
		getPostsCountFunc: func(ctx context.Context) (*api.Response[api.CountPayload], error) {
			return &api.Response[api.CountPayload]{StatusCode: http.StatusOK}, nil
		},
	}

	// Act
	count, err := NewActions(client, nil).GetPostsCount(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// TestSearchPosts tests that search keeps exactly id, title and url per hit.
func TestSearchPosts(t *testing.T) {
	// Arrange
	client := &mockClient{
		searchPostsFunc: func(ctx context.Context, query string) (*api.Response[api.SearchPayload], error) {
			assert.Equal(t, "golang", query)
			return &api.Response[api.SearchPayload]{
				StatusCode: http.StatusOK,
				Data: api.SearchPayload{
					TotalCount: 7,
					Items: []api.SearchItem{
						{ID: 1, Number: 10, Title: "one", URL: "u1", HTMLURL: "h1"},
						{ID: 2, Number: 11, Title: "two", URL: "u2", HTMLURL: "h2"},
					},
				},
			}, nil
		},
	}

	// Act
	result, err := NewActions(client, nil).SearchPosts(context.Background(), "golang")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 7, result.SearchCount)
	assert.Equal(t, []domain.PostSummary{
		{ID: 1, Title: "one", URL: "u1"},
		{ID: 2, Title: "two", URL: "u2"},
	}, result.Posts)
}

// TestGetCategories tests that categories pass through unchanged.
func TestGetCategories(t *testing.T) {
	// Arrange
	categories := []domain.Category{{ID: 1, Number: 1, Title: "Go"}, {ID: 2, Number: 2, Title: "Life"}}
	client := &mockClient{
		getCategoriesFunc: func(ctx context.Context) (*api.Response[[]domain.Category], error) {
			return &api.Response[[]domain.Category]{StatusCode: http.StatusOK, Data: categories}, nil
		},
	}

	// Act
	got, err := NewActions(client, nil).GetCategories(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, categories, got)
}

// TestGetPosts tests projection plus normalization of a listing.
func TestGetPosts(t *testing.T) {
	// Arrange
	issue := sampleIssue()
	issue.Title = "x"
	var gotQuery domain.PostsQuery
	client := &mockClient{
		getPostsFunc: func(ctx context.Context, query domain.PostsQuery) (*api.Response[[]api.Issue], error) {
			gotQuery = query
			return &api.Response[[]api.Issue]{StatusCode: http.StatusOK, Data: []api.Issue{sampleIssue(), issue}}, nil
		},
	}
	formatted := 0
	format := func(p domain.Post) domain.Post {
		formatted++
		p.Summary = "formatted"
		return p
	}
	query := domain.PostsQuery{Page: 2, PageSize: 5, Filter: domain.PostFilter{Milestone: 1}}

	// Act
	posts, err := NewActions(client, format).GetPosts(context.Background(), query)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, query, gotQuery)
	require.Len(t, posts, 2)
	assert.Equal(t, 2, formatted)
	assert.Equal(t, "t", posts[0].Title)
	assert.Equal(t, "x", posts[1].Title)
	for _, p := range posts {
		assert.Equal(t, "formatted", p.Summary)
		assert.Equal(t, 1, p.Hot)
		assert.True(t, p.Comment)
		assert.Equal(t, "lu", p.TagsURL)
	}
}

// TestGetPost tests fetching one post.
func TestGetPost(t *testing.T) {
	// Arrange
	client := &mockClient{
		getPostFunc: func(ctx context.Context, number int) (*api.Response[api.Issue], error) {
			assert.Equal(t, 3, number)
			return &api.Response[api.Issue]{StatusCode: http.StatusOK, Data: sampleIssue()}, nil
		},
	}

	// Act
	post, err := NewActions(client, nil).GetPost(context.Background(), 3)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ProjectIssue(sampleIssue()), post)
}

// TestActions_NonOKStatus tests that every action fails with the upstream response.
func TestActions_NonOKStatus(t *testing.T) {
	actions := NewActions(failingClient(http.StatusForbidden, `{"message":"rate limited"}`), nil)
	ctx := context.Background()

	calls := map[string]func() error{
		"GetPostsCount": func() error { _, err := actions.GetPostsCount(ctx); return err },
		"SearchPosts":   func() error { _, err := actions.SearchPosts(ctx, "q"); return err },
		"GetCategories": func() error { _, err := actions.GetCategories(ctx); return err },
		"GetPosts":      func() error { _, err := actions.GetPosts(ctx, domain.PostsQuery{}); return err },
		"GetPost":       func() error { _, err := actions.GetPost(ctx, 1); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			// Act
			err := call()

			// Assert
			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, api.KindHTTPStatus, apiErr.Kind)
			assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
			assert.Equal(t, `{"message":"rate limited"}`, apiErr.Body)
		})
	}
}

// TestActions_NilResponse tests the empty-response failure.
func TestActions_NilResponse(t *testing.T) {
	// Arrange
	client := &mockClient{
		getPostFunc: func(ctx context.Context, number int) (*api.Response[api.Issue], error) {
			return nil, nil
		},
	}

	// Act
	_, err := NewActions(client, nil).GetPost(context.Background(), 1)

	// Assert
	assert.ErrorIs(t, err, api.ErrEmptyResponse)
}

// TestActions_ClientError tests that client errors propagate untouched.
func TestActions_ClientError(t *testing.T) {
	// Arrange
	netErr := api.NetworkError("get posts", errors.New("connection refused"))
	client := &mockClient{
		getPostsFunc: func(ctx context.Context, query domain.PostsQuery) (*api.Response[[]api.Issue], error) {
			return nil, netErr
		},
	}

	// Act
	posts, err := NewActions(client, nil).GetPosts(context.Background(), domain.PostsQuery{})

	// Assert
	assert.Nil(t, posts)
	kind, ok := api.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, api.KindNetwork, kind)
}

// rawTransport answers every request with a fixed 200 body.
type rawTransport struct {
	body string
}

func (r rawTransport) Do(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(r.body)),
	}, nil
}

func newGitHubActions(body string) *Actions {
	client := github.NewClient(api.ClientConfig{
		BaseURL: "https://api.github.test",
		Owner:   "octo",
		Repo:    "blog",
	}, rawTransport{body: body})
	return NewActions(client, nil)
}

// TestGetCategories_Verbatim tests that the upstream milestone list comes back unchanged.
func TestGetCategories_Verbatim(t *testing.T) {
	// Arrange
	body := `[
		{"id": 1, "number": 1, "title": "Go", "due_on": "2024-01-01T00:00:00Z",
		 "creator": {"login": "x"}, "open_issues": 0, "labels_url": "lu", "closed_at": null},
		{"id": 2, "number": 2, "title": "Life", "state": "closed"}
	]`
	actions := newGitHubActions(body)

	// Act
	categories, err := actions.GetCategories(context.Background())
	require.NoError(t, err)
	encoded, err := json.Marshal(categories)

	// Assert
	require.NoError(t, err)
	assert.JSONEq(t, body, string(encoded))
	assert.Equal(t, 2, categories[1].Number)
}

// TestGetPost_CategoryVerbatim tests that a post's category keeps every milestone field.
func TestGetPost_CategoryVerbatim(t *testing.T) {
	// Arrange
	milestone := `{"id": 1, "number": 4, "title": "Go", "due_on": null, "creator": {"login": "x"}, "open_issues": 0}`
	actions := newGitHubActions(`{"number": 3, "id": 9, "title": "t", "milestone": ` + milestone + `}`)

	// Act
	post, err := actions.GetPost(context.Background(), 3)
	require.NoError(t, err)
	encoded, err := json.Marshal(post.Category)

	// Assert
	require.NoError(t, err)
	assert.JSONEq(t, milestone, string(encoded))
	assert.Equal(t, 4, post.Category.Number)
}
