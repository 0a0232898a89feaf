package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/luckypoem/ethereal/internal/api"
	"github.com/luckypoem/ethereal/internal/domain"
	"github.com/luckypoem/ethereal/internal/store"
)

// requestTimeout bounds each upstream call made on behalf of a request.
const requestTimeout = 30 * time.Second

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// StdLogger wraps the standard log package to implement Logger interface.
type StdLogger struct{}

// NewStdLogger creates a logger backed by the standard log package.
func NewStdLogger() *StdLogger {
	return &StdLogger{}
}

// Printf logs through log.Printf.
func (l *StdLogger) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Handler serves the post store module over HTTP. Read endpoints dispatch
// actions; listing endpoints also commit their results to the state.
type Handler struct {
	module   *store.Module
	logger   Logger
	pageSize int
	site     SiteInfo
}

// SiteInfo describes the blog for the RSS feed.
type SiteInfo struct {
	URL   string
	Title string
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	Module   *store.Module
	Logger   Logger
	PageSize int
	Site     SiteInfo
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &Handler{
		module:   cfg.Module,
		logger:   cfg.Logger,
		pageSize: pageSize,
		site:     cfg.Site,
	}
}

// NewRouter builds the chi router with middleware and all routes.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.handleHealth)
	r.Get("/feed.xml", h.handleFeed)

	r.Route("/api/"+h.module.Namespace, func(r chi.Router) {
		r.Get("/posts", h.handleGetPosts)
		r.Get("/posts/count", h.handleGetPostsCount)
		r.Get("/posts/{number}", h.handleGetPost)
		r.Get("/search", h.handleSearch)
		r.Get("/categories", h.handleGetCategories)

		r.Get("/state", h.handleGetState)
		r.Put("/state/current-category", h.handleSetCurrentCategory)
		r.Put("/state/current-page", h.handleSetCurrentPage)
		r.Put("/state/current-link", h.handleSetCurrentLink)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleGetPostsCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	count, err := h.module.Actions.GetPostsCount(ctx)
	if err != nil {
		h.writeActionError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// handleGetPosts fetches a page of posts and commits it as the current page.
func (h *Handler) handleGetPosts(w http.ResponseWriter, r *http.Request) {
	query, err := h.parsePostsQuery(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	posts, err := h.module.Actions.GetPosts(ctx, query)
	if err != nil {
		h.writeActionError(w, err)
		return
	}

	h.module.State.SetAllPosts(posts)
	h.module.State.SetCurrentPage(query.Page)

	h.writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) handleGetPost(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid post number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.module.Actions.GetPost(ctx, number)
	if err != nil {
		h.writeActionError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, post)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		h.writeError(w, http.StatusBadRequest, "missing search query")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.module.Actions.SearchPosts(ctx, q)
	if err != nil {
		h.writeActionError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// handleGetCategories fetches categories and commits them.
func (h *Handler) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	categories, err := h.module.Actions.GetCategories(ctx)
	if err != nil {
		h.writeActionError(w, err)
		return
	}

	h.module.State.SetCategories(categories)
	h.writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) handleGetState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.module.State.Snapshot())
}

func (h *Handler) handleSetCurrentCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid category")
		return
	}
	h.module.State.SetCurrentCategory(category)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetCurrentPage(w http.ResponseWriter, r *http.Request) {
	value, ok := h.decodeInt(w, r)
	if !ok {
		return
	}
	h.module.State.SetCurrentPage(value)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetCurrentLink(w http.ResponseWriter, r *http.Request) {
	value, ok := h.decodeInt(w, r)
	if !ok {
		return
	}
	h.module.State.SetCurrentLink(value)
	w.WriteHeader(http.StatusNoContent)
}

// decodeInt reads a {"value": n} body.
func (h *Handler) decodeInt(w http.ResponseWriter, r *http.Request) (int, bool) {
	var body struct {
		Value *int `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
		h.writeError(w, http.StatusBadRequest, `expected {"value": <integer>}`)
		return 0, false
	}
	return *body.Value, true
}

func (h *Handler) parsePostsQuery(r *http.Request) (domain.PostsQuery, error) {
	params := r.URL.Query()
	query := domain.PostsQuery{Page: 1, PageSize: h.pageSize}

	if v := params.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return query, errors.New("invalid page")
		}
		query.Page = page
	}
	if v := params.Get("pageSize"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 || size > 100 {
			return query, errors.New("invalid pageSize")
		}
		query.PageSize = size
	}
	if v := params.Get("milestone"); v != "" {
		milestone, err := strconv.Atoi(v)
		if err != nil || milestone < 1 {
			return query, errors.New("invalid milestone")
		}
		query.Filter.Milestone = milestone
	}
	if v := params.Get("labels"); v != "" {
		for _, label := range strings.Split(v, ",") {
			if label = strings.TrimSpace(label); label != "" {
				query.Filter.Labels = append(query.Filter.Labels, label)
			}
		}
	}
	return query, nil
}

// writeActionError maps an action failure onto an HTTP status.
func (h *Handler) writeActionError(w http.ResponseWriter, err error) {
	h.logger.Printf("action failed: %v", err)

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			h.writeError(w, http.StatusGatewayTimeout, "upstream timeout")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	switch apiErr.Kind {
	case api.KindNetwork:
		h.writeError(w, http.StatusGatewayTimeout, "upstream unreachable")
	case api.KindParse:
		h.writeError(w, http.StatusBadGateway, "malformed upstream response")
	default:
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		h.writeJSON(w, status, map[string]interface{}{
			"error":          "upstream request failed",
			"upstreamStatus": apiErr.StatusCode,
		})
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Printf("failed to encode response: %v", err)
	}
}
