package ports

import (
	"context"
	"time"

	"kaamos/internal/domain/survival"
)

// DefaultSlotID is the save slot used by single-save frontends.
const DefaultSlotID = "kaamos_save_v1"

// SaveSnapshot is one persisted game. State is stored as an opaque JSON
// document; the other fields are bookkeeping for listing and resuming.
type SaveSnapshot struct {
	SlotID         string
	State          survival.GameState
	CurrentEventID string
	EndingID       survival.EndingID
	SavedAt        time.Time
}

type SaveRepository interface {
	// Load returns ErrNotFound when the slot holds no save.
	Load(ctx context.Context, slotID string) (SaveSnapshot, error)
	Save(ctx context.Context, snapshot SaveSnapshot) error
	Clear(ctx context.Context, slotID string) error
}

type SlotCredentialRecord struct {
	SlotID    string
	KeySalt   []byte
	KeyHash   []byte
	Status    string
	CreatedAt time.Time
}

type SlotCredentialRepository interface {
	Create(ctx context.Context, credential SlotCredentialRecord) error
	GetBySlotID(ctx context.Context, slotID string) (SlotCredentialRecord, error)
	// RotateKey replaces the salt and hash of an existing slot; ErrNotFound
	// when the slot is unknown.
	RotateKey(ctx context.Context, slotID string, salt, hash []byte, at time.Time) error
}
