package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/luckypoem/ethereal/internal/domain"
)

// DefaultCacheSize bounds the number of cached responses.
const DefaultCacheSize = 256

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// CachingClient wraps a Client and keeps successful responses for a fixed TTL.
// Non-200 responses and errors are never cached.
type CachingClient struct {
	client Client
	cache  *expirable.LRU[string, any]
	logger Logger
}

// NewCachingClient creates a new caching client wrapper.
func NewCachingClient(client Client, ttl time.Duration, logger Logger) *CachingClient {
	return &CachingClient{
		client: client,
		cache:  expirable.NewLRU[string, any](DefaultCacheSize, nil, ttl),
		logger: logger,
	}
}

// GetPostsCount retrieves the post count with caching.
func (c *CachingClient) GetPostsCount(ctx context.Context) (*Response[CountPayload], error) {
	return cached(c, "GetPostsCount", func() (*Response[CountPayload], error) {
		return c.client.GetPostsCount(ctx)
	})
}

// SearchPosts retrieves search results with caching.
func (c *CachingClient) SearchPosts(ctx context.Context, query string) (*Response[SearchPayload], error) {
	key := fmt.Sprintf("SearchPosts:%s", query)
	return cached(c, key, func() (*Response[SearchPayload], error) {
		return c.client.SearchPosts(ctx, query)
	})
}

// GetCategories retrieves categories with caching.
func (c *CachingClient) GetCategories(ctx context.Context) (*Response[[]domain.Category], error) {
	return cached(c, "GetCategories", func() (*Response[[]domain.Category], error) {
		return c.client.GetCategories(ctx)
	})
}

// GetPosts retrieves a page of posts with caching.
func (c *CachingClient) GetPosts(ctx context.Context, query domain.PostsQuery) (*Response[[]Issue], error) {
	key := fmt.Sprintf("GetPosts:%d:%d:%d:%s", query.Page, query.PageSize,
		query.Filter.Milestone, strings.Join(query.Filter.Labels, ","))
	return cached(c, key, func() (*Response[[]Issue], error) {
		return c.client.GetPosts(ctx, query)
	})
}

// GetPost retrieves a single post with caching.
func (c *CachingClient) GetPost(ctx context.Context, number int) (*Response[Issue], error) {
	key := fmt.Sprintf("GetPost:%d", number)
	return cached(c, key, func() (*Response[Issue], error) {
		return c.client.GetPost(ctx, number)
	})
}

// Purge drops every cached response.
func (c *CachingClient) Purge() {
	c.cache.Purge()
}

func cached[T any](c *CachingClient, key string, fetch func() (*Response[T], error)) (*Response[T], error) {
	if v, ok := c.cache.Get(key); ok {
		if resp, ok := v.(*Response[T]); ok {
			return resp, nil
		}
	}

	resp, err := fetch()
	if err != nil {
		return nil, err
	}

	if resp.OK() {
		c.cache.Add(key, resp)
	} else if resp != nil {
		c.logger.Printf("Cache skip: %s (status %d)", key, resp.StatusCode)
	}

	return resp, nil
}
