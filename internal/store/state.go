package store

import (
	"slices"
	"sync"

	"github.com/luckypoem/ethereal/internal/domain"
)

// StateData is a point-in-time copy of the store state.
type StateData struct {
	AllPosts        []domain.Post     `json:"allPosts"`
	Categories      []domain.Category `json:"categories"`
	CurrentCategory domain.Category   `json:"currentCategory"`
	CurrentPage     int               `json:"currentPage"`
	CurrentLink     int               `json:"currentLink"`
}

// State is the session-wide store state. It is only changed through the
// Set* mutations, each of which replaces one field wholesale.
type State struct {
	mu   sync.RWMutex
	data StateData
}

// NewState returns a state holding the initial values.
func NewState() *State {
	return &State{data: initialState()}
}

func initialState() StateData {
	return StateData{
		AllPosts:    []domain.Post{},
		Categories:  []domain.Category{},
		CurrentPage: 1,
		CurrentLink: 0,
	}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() StateData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := s.data
	data.AllPosts = slices.Clone(s.data.AllPosts)
	data.Categories = slices.Clone(s.data.Categories)
	return data
}

// Restore replaces the whole state, e.g. from a saved snapshot.
func (s *State) Restore(data StateData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// SetAllPosts replaces the post list.
func (s *State) SetAllPosts(posts []domain.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.AllPosts = posts
}

// SetCategories replaces the category list.
func (s *State) SetCategories(categories []domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Categories = categories
}

// SetCurrentCategory replaces the selected category.
func (s *State) SetCurrentCategory(category domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.CurrentCategory = category
}

// SetCurrentPage sets the current page number.
func (s *State) SetCurrentPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.CurrentPage = page
}

// SetCurrentLink sets the current navigation link index.
func (s *State) SetCurrentLink(link int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.CurrentLink = link
}
