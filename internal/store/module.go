package store

import (
	"github.com/luckypoem/ethereal/internal/api"
	"github.com/luckypoem/ethereal/internal/domain"
)

// Module bundles the actions and state registered under one namespace.
type Module struct {
	Namespace string
	State     *State
	Actions   *Actions
}

// NewModule creates the post store module with fresh state.
func NewModule(client api.Client, format Formatter) *Module {
	return &Module{
		Namespace: domain.Namespace,
		State:     NewState(),
		Actions:   NewActions(client, format),
	}
}
