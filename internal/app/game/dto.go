package game

import (
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/narrative"
	"kaamos/internal/domain/survival"
)

// Resolution is what the player faces next: an event, an ending, or (only
// for an ended run) neither.
type Resolution struct {
	State   survival.GameState `json:"state"`
	Event   *content.Event     `json:"event,omitempty"`
	Ending  *survival.Ending   `json:"ending,omitempty"`
	Skipped int                `json:"skipped"`
	Reason  narrative.Reason   `json:"reason,omitempty"`
}

// Turn is the outcome of resolving one choice.
type Turn struct {
	Resolution
	Choice    *content.Choice          `json:"choice,omitempty"`
	Message   string                   `json:"message"`
	Completed []survival.CompletedTask `json:"completed,omitempty"`
}

// Result is the outcome of a guarded command such as buying or using an item.
// On failure State is the unchanged input.
type Result struct {
	State   survival.GameState `json:"state"`
	Success bool               `json:"success"`
	Message string             `json:"message"`
}
