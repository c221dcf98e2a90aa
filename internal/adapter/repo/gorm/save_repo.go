package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kaamos/internal/adapter/repo/gorm/model"
	"kaamos/internal/app/ports"
	"kaamos/internal/domain/survival"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveRepo keeps one row per slot. The game state is stored as a JSON
// document; day and phase are copied out so saves can be listed cheaply.
type SaveRepo struct {
	db *gorm.DB
}

func NewSaveRepo(db *gorm.DB) SaveRepo {
	return SaveRepo{db: db}
}

func (r SaveRepo) Load(ctx context.Context, slotID string) (ports.SaveSnapshot, error) {
	var row model.GameSave
	if err := getDBFromCtx(ctx, r.db).Where(&model.GameSave{SlotID: slotID}).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SaveSnapshot{}, ports.ErrNotFound
		}
		return ports.SaveSnapshot{}, err
	}
	var state survival.GameState
	if err := json.Unmarshal([]byte(row.State), &state); err != nil {
		return ports.SaveSnapshot{}, fmt.Errorf("decode save %s: %w", slotID, err)
	}
	return ports.SaveSnapshot{
		SlotID:         row.SlotID,
		State:          state,
		CurrentEventID: row.CurrentEventID,
		EndingID:       survival.EndingID(row.EndingID),
		SavedAt:        row.SavedAt,
	}, nil
}

func (r SaveRepo) Save(ctx context.Context, snapshot ports.SaveSnapshot) error {
	b, err := json.Marshal(snapshot.State)
	if err != nil {
		return fmt.Errorf("encode save %s: %w", snapshot.SlotID, err)
	}
	row := model.GameSave{
		SlotID:         snapshot.SlotID,
		State:          string(b),
		CurrentEventID: snapshot.CurrentEventID,
		EndingID:       string(snapshot.EndingID),
		Day:            int32(snapshot.State.Time.Day),
		Phase:          string(snapshot.State.Time.Phase),
		SavedAt:        snapshot.SavedAt,
		UpdatedAt:      time.Now().UTC(),
	}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "current_event_id", "ending_id", "day", "phase", "saved_at", "updated_at"}),
	}).Create(&row).Error
}

func (r SaveRepo) Clear(ctx context.Context, slotID string) error {
	return getDBFromCtx(ctx, r.db).Where("slot_id = ?", slotID).Delete(&model.GameSave{}).Error
}
