package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/luckypoem/ethereal/internal/api"
	"github.com/luckypoem/ethereal/internal/domain"
)

const (
	defaultBaseURL    = "https://api.github.com"
	defaultGraphQLURL = "https://api.github.com/graphql"
	apiVersion        = "2022-11-28"
)

// postsCountQuery counts open issues of the blog repository.
const postsCountQuery = `query ($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    issues(states: OPEN) {
      totalCount
    }
  }
}`

// Client implements api.Client for a GitHub repository used as a blog backend.
type Client struct {
	baseURL    string
	graphQLURL string
	token      string
	owner      string
	repo       string
	creator    string
	base       *api.BaseClient
}

// NewClient creates a new GitHub client.
// Uses dependency injection for HTTPClient so tests can stub the transport.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	graphQLURL := config.GraphQLURL
	if graphQLURL == "" {
		graphQLURL = defaultGraphQLURL
	}

	return &Client{
		baseURL:    baseURL,
		graphQLURL: graphQLURL,
		token:      config.Token,
		owner:      config.Owner,
		repo:       config.Repo,
		creator:    config.Creator,
		base:       api.NewBaseClient(httpClient),
	}
}

// GetPostsCount asks the GraphQL API for the number of open issues.
func (c *Client) GetPostsCount(ctx context.Context) (*api.Response[api.CountPayload], error) {
	payload, err := json.Marshal(map[string]interface{}{
		"query": postsCountQuery,
		"variables": map[string]string{
			"owner": c.owner,
			"name":  c.repo,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	return doRequest[api.CountPayload](ctx, c, "get posts count", http.MethodPost, c.graphQLURL, payload)
}

// SearchPosts searches open issues of the blog repository.
func (c *Client) SearchPosts(ctx context.Context, query string) (*api.Response[api.SearchPayload], error) {
	q := fmt.Sprintf("%s repo:%s/%s is:issue is:open", query, c.owner, c.repo)
	if c.creator != "" {
		q += " author:" + c.creator
	}
	u := fmt.Sprintf("%s/search/issues?q=%s", c.baseURL, url.QueryEscape(q))

	return doRequest[api.SearchPayload](ctx, c, "search posts", http.MethodGet, u, nil)
}

// GetCategories lists the repository milestones.
func (c *Client) GetCategories(ctx context.Context) (*api.Response[[]domain.Category], error) {
	u := fmt.Sprintf("%s/repos/%s/%s/milestones?state=all&per_page=100", c.baseURL, c.owner, c.repo)

	return doRequest[[]domain.Category](ctx, c, "get categories", http.MethodGet, u, nil)
}

// GetPosts lists one page of open issues.
func (c *Client) GetPosts(ctx context.Context, query domain.PostsQuery) (*api.Response[[]api.Issue], error) {
	u := fmt.Sprintf("%s/repos/%s/%s/issues?%s", c.baseURL, c.owner, c.repo, c.postsParams(query).Encode())

	return doRequest[[]api.Issue](ctx, c, "get posts", http.MethodGet, u, nil)
}

// GetPost fetches a single issue.
func (c *Client) GetPost(ctx context.Context, number int) (*api.Response[api.Issue], error) {
	u := fmt.Sprintf("%s/repos/%s/%s/issues/%d", c.baseURL, c.owner, c.repo, number)

	return doRequest[api.Issue](ctx, c, "get post", http.MethodGet, u, nil)
}

// postsParams builds the query string for an issue listing.
func (c *Client) postsParams(query domain.PostsQuery) url.Values {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}

	params := url.Values{}
	params.Set("state", "open")
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(pageSize))
	if c.creator != "" {
		params.Set("creator", c.creator)
	}
	if query.Filter.Milestone > 0 {
		params.Set("milestone", strconv.Itoa(query.Filter.Milestone))
	}
	if len(query.Filter.Labels) > 0 {
		params.Set("labels", strings.Join(query.Filter.Labels, ","))
	}
	return params
}

// doRequest performs an HTTP request to the GitHub API.
// The body is decoded into T only for 200 responses; any other status is
// returned as-is for the caller to judge.
func doRequest[T any](ctx context.Context, c *Client, op, method, u string, payload []byte) (*api.Response[T], error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	status, raw, err := c.base.Do(ctx, req)
	if err != nil {
		return nil, api.NetworkError(op, err)
	}

	resp := &api.Response[T]{StatusCode: status, Body: raw}
	if status != http.StatusOK {
		return resp, nil
	}

	if err := json.Unmarshal(raw, &resp.Data); err != nil {
		return nil, api.ParseError(op, err)
	}

	return resp, nil
}
