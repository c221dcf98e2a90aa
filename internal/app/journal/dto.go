package journal

import "kaamos/internal/domain/survival"

type Request struct {
	SlotID  string
	Limit   int
	FromDay int
	ToDay   int
}

type Response struct {
	SlotID    string                   `json:"slot_id"`
	Entries   []survival.LogEntry      `json:"entries"`
	History   []string                 `json:"history"`
	Completed []survival.CompletedTask `json:"completed"`
	Paths     survival.Paths           `json:"paths"`
}
