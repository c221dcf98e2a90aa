package session

import (
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/survival"
)

type SlotRequest struct {
	SlotID string
}

type StartRequest struct {
	SlotID     string
	Difficulty survival.Difficulty
	TrialRun   bool
}

type ChooseRequest struct {
	SlotID      string
	ChoiceIndex *int
}

type ItemRequest struct {
	SlotID string
	ItemID string
}

type FlagRequest struct {
	SlotID string
	Flag   survival.Flag
	Value  bool
}

type AdjustRequest struct {
	SlotID string
	Delta  survival.Delta
	Note   string
}

type SpendRequest struct {
	SlotID        string
	Amount        float64
	Note          string
	ExhaustedNote string
}

type Response struct {
	SlotID    string                   `json:"slot_id"`
	State     survival.GameState       `json:"state"`
	Event     *content.Event           `json:"event,omitempty"`
	Ending    *survival.Ending         `json:"ending,omitempty"`
	Success   bool                     `json:"success"`
	Message   string                   `json:"message,omitempty"`
	Choice    *content.Choice          `json:"choice,omitempty"`
	Completed []survival.CompletedTask `json:"completed,omitempty"`
	Forecast  survival.Upkeep          `json:"forecast"`
}
