package shop

import (
	"context"
	"fmt"
	"strings"

	"kaamos/internal/app/ports"
	"kaamos/internal/domain/content"
)

// UnknownItemError carries close matches for a mistyped item id.
type UnknownItemError struct {
	ItemID      string
	Suggestions []string
}

func (e *UnknownItemError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown item %q", e.ItemID)
	}
	return fmt.Sprintf("unknown item %q, did you mean %s?", e.ItemID, strings.Join(e.Suggestions, ", "))
}

func (e *UnknownItemError) Unwrap() error { return ports.ErrNotFound }

type Listing struct {
	Items []content.Item `json:"items"`
}

type UseCase struct {
	Catalog *content.Catalog
}

func (u UseCase) List(_ context.Context) (Listing, error) {
	if u.Catalog == nil {
		return Listing{}, ports.ErrNotFound
	}
	return Listing{Items: u.Catalog.Items()}, nil
}

func (u UseCase) Item(_ context.Context, id string) (content.Item, error) {
	if u.Catalog == nil {
		return content.Item{}, ports.ErrNotFound
	}
	id = strings.TrimSpace(id)
	if it, ok := u.Catalog.Item(id); ok {
		return it, nil
	}
	return content.Item{}, &UnknownItemError{ItemID: id, Suggestions: u.Catalog.SuggestItems(id)}
}
