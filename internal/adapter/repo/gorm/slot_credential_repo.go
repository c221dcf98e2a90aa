package gormrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"kaamos/internal/adapter/repo/gorm/model"
	"kaamos/internal/app/ports"

	"gorm.io/gorm"
)

type SlotCredentialRepo struct {
	db *gorm.DB
}

func NewSlotCredentialRepo(db *gorm.DB) SlotCredentialRepo {
	return SlotCredentialRepo{db: db}
}

func (r SlotCredentialRepo) Create(ctx context.Context, credential ports.SlotCredentialRecord) error {
	row := model.SlotCredential{
		SlotID:    credential.SlotID,
		KeySalt:   credential.KeySalt,
		KeyHash:   credential.KeyHash,
		Status:    credential.Status,
		CreatedAt: credential.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r SlotCredentialRepo) GetBySlotID(ctx context.Context, slotID string) (ports.SlotCredentialRecord, error) {
	var row model.SlotCredential
	if err := getDBFromCtx(ctx, r.db).Where(&model.SlotCredential{SlotID: slotID}).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SlotCredentialRecord{}, ports.ErrNotFound
		}
		return ports.SlotCredentialRecord{}, err
	}
	return ports.SlotCredentialRecord{
		SlotID:    row.SlotID,
		KeySalt:   row.KeySalt,
		KeyHash:   row.KeyHash,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r SlotCredentialRepo) RotateKey(ctx context.Context, slotID string, salt, hash []byte, at time.Time) error {
	res := getDBFromCtx(ctx, r.db).Model(&model.SlotCredential{}).
		Where("slot_id = ?", slotID).
		Updates(map[string]any{"key_salt": salt, "key_hash": hash, "updated_at": at.UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
