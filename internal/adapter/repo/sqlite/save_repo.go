package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"kaamos/internal/app/ports"
	"kaamos/internal/domain/survival"
)

type saveRow struct {
	SlotID         string `db:"slot_id"`
	StateJSON      string `db:"state_json"`
	CurrentEventID string `db:"current_event_id"`
	EndingID       string `db:"ending_id"`
	Day            int    `db:"day"`
	Phase          string `db:"phase"`
	SavedAt        string `db:"saved_at"`
}

type SaveRepo struct {
	db *DB
}

func NewSaveRepo(db *DB) SaveRepo {
	return SaveRepo{db: db}
}

func (r SaveRepo) Load(ctx context.Context, slotID string) (ports.SaveSnapshot, error) {
	var row saveRow
	err := r.db.from(ctx).GetContext(ctx, &row, `SELECT * FROM game_saves WHERE slot_id = ?`, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.SaveSnapshot{}, ports.ErrNotFound
		}
		return ports.SaveSnapshot{}, err
	}
	var state survival.GameState
	if err := json.Unmarshal([]byte(row.StateJSON), &state); err != nil {
		return ports.SaveSnapshot{}, fmt.Errorf("decode save %s: %w", slotID, err)
	}
	savedAt, _ := time.Parse(time.RFC3339Nano, row.SavedAt)
	return ports.SaveSnapshot{
		SlotID:         row.SlotID,
		State:          state,
		CurrentEventID: row.CurrentEventID,
		EndingID:       survival.EndingID(row.EndingID),
		SavedAt:        savedAt,
	}, nil
}

func (r SaveRepo) Save(ctx context.Context, snapshot ports.SaveSnapshot) error {
	b, err := json.Marshal(snapshot.State)
	if err != nil {
		return fmt.Errorf("encode save %s: %w", snapshot.SlotID, err)
	}
	row := saveRow{
		SlotID:         snapshot.SlotID,
		StateJSON:      string(b),
		CurrentEventID: snapshot.CurrentEventID,
		EndingID:       string(snapshot.EndingID),
		Day:            snapshot.State.Time.Day,
		Phase:          string(snapshot.State.Time.Phase),
		SavedAt:        snapshot.SavedAt.UTC().Format(time.RFC3339Nano),
	}
	_, err = sqlx.NamedExecContext(ctx, r.db.from(ctx), `
		INSERT INTO game_saves (slot_id, state_json, current_event_id, ending_id, day, phase, saved_at)
		VALUES (:slot_id, :state_json, :current_event_id, :ending_id, :day, :phase, :saved_at)
		ON CONFLICT(slot_id) DO UPDATE SET
			state_json = excluded.state_json,
			current_event_id = excluded.current_event_id,
			ending_id = excluded.ending_id,
			day = excluded.day,
			phase = excluded.phase,
			saved_at = excluded.saved_at`, row)
	return err
}

func (r SaveRepo) Clear(ctx context.Context, slotID string) error {
	_, err := r.db.from(ctx).ExecContext(ctx, `DELETE FROM game_saves WHERE slot_id = ?`, slotID)
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
