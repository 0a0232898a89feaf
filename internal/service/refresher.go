package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/luckypoem/ethereal/internal/domain"
	"github.com/luckypoem/ethereal/internal/store"
)

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Snapshotter persists the store state.
type Snapshotter interface {
	Save(data store.StateData) error
}

// Refresher periodically dispatches the category and post actions and
// commits their results to the store state, the same way a page load would.
type Refresher struct {
	module          *store.Module
	snapshot        Snapshotter // nil disables saving
	pageSize        int
	refreshInterval time.Duration
	initialDelay    time.Duration
	logger          Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewRefresher creates a new refresher.
func NewRefresher(module *store.Module, snapshot Snapshotter, pageSize int, refreshInterval time.Duration, logger Logger) *Refresher {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &Refresher{
		module:          module,
		snapshot:        snapshot,
		pageSize:        pageSize,
		refreshInterval: refreshInterval,
		initialDelay:    2 * time.Second,
		logger:          logger,
	}
}

// Start begins periodic refreshing. Non-blocking.
func (r *Refresher) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || r.refreshInterval <= 0 {
		return
	}
	r.running = true

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.logger.Printf("Refresher: starting with %v interval", r.refreshInterval)
	r.wg.Add(1)
	go r.refreshLoop(ctx)
}

// Stop cancels any in-flight refresh and waits for the loop to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.cancel()
	r.mu.Unlock()

	r.wg.Wait()
	r.logger.Printf("Refresher: stopped")
}

func (r *Refresher) refreshLoop(ctx context.Context) {
	defer r.wg.Done()

	select {
	case <-time.After(r.initialDelay):
	case <-ctx.Done():
		return
	}
	r.refreshAndLog(ctx)

	ticker := time.NewTicker(r.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refreshAndLog(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Refresher) refreshAndLog(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil {
		r.logger.Printf("Refresher: %v", err)
	}
}

// Refresh fetches categories and the current page of posts and commits both.
// A failed fetch leaves the corresponding state field untouched.
func (r *Refresher) Refresh(ctx context.Context) error {
	startTime := time.Now()
	state := r.module.State
	actions := r.module.Actions

	categories, err := actions.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch categories: %w", err)
	}
	state.SetCategories(categories)

	current := state.Snapshot()
	query := domain.PostsQuery{
		Page:     current.CurrentPage,
		PageSize: r.pageSize,
	}
	if !current.CurrentCategory.IsZero() {
		query.Filter.Milestone = current.CurrentCategory.Number
	}

	posts, err := actions.GetPosts(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}
	state.SetAllPosts(posts)

	if r.snapshot != nil {
		if err := r.snapshot.Save(state.Snapshot()); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
	}

	r.logger.Printf("Refresher: completed in %v (categories: %d, posts: %d)",
		time.Since(startTime).Round(time.Millisecond), len(categories), len(posts))
	return nil
}
