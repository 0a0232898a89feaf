package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
)

// maxFeedItems caps the number of posts in the RSS feed.
const maxFeedItems = 20

// handleFeed renders the posts currently held in state as RSS.
func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	data := h.module.State.Snapshot()

	feed := &feeds.Feed{
		Title:       h.site.Title,
		Link:        &feeds.Link{Href: h.site.URL},
		Description: h.site.Title,
		Created:     time.Now(),
	}

	posts := data.AllPosts
	if len(posts) > maxFeedItems {
		posts = posts[:maxFeedItems]
	}

	for _, post := range posts {
		item := &feeds.Item{
			Id:          fmt.Sprintf("%d", post.ID),
			Title:       post.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/posts/%d", h.site.URL, post.Number)},
			Description: post.Summary,
			Content:     post.HTML,
			Created:     parseTime(post.CreatedAt),
			Updated:     parseTime(post.UpdatedAt),
		}
		feed.Items = append(feed.Items, item)
	}

	w.Header().Set("Content-Type", "application/xml")
	if err := feed.WriteRss(w); err != nil {
		h.logger.Printf("RSS error: %v", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
	}
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
