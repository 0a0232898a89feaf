package domain

const (
	// Namespace is the name the post store module is registered under.
	Namespace = "github"

	// DefaultPageSize is used when a listing does not ask for a page size.
	DefaultPageSize = 10
)
