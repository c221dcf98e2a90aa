package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"kaamos/internal/app/ports"
)

type credentialRow struct {
	SlotID    string `db:"slot_id"`
	KeySalt   []byte `db:"key_salt"`
	KeyHash   []byte `db:"key_hash"`
	Status    string `db:"status"`
	CreatedAt string `db:"created_at"`
}

type SlotCredentialRepo struct {
	db *DB
}

func NewSlotCredentialRepo(db *DB) SlotCredentialRepo {
	return SlotCredentialRepo{db: db}
}

func (r SlotCredentialRepo) Create(ctx context.Context, credential ports.SlotCredentialRecord) error {
	row := credentialRow{
		SlotID:    credential.SlotID,
		KeySalt:   credential.KeySalt,
		KeyHash:   credential.KeyHash,
		Status:    credential.Status,
		CreatedAt: credential.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	_, err := sqlx.NamedExecContext(ctx, r.db.from(ctx), `
		INSERT INTO slot_credentials (slot_id, key_salt, key_hash, status, created_at)
		VALUES (:slot_id, :key_salt, :key_hash, :status, :created_at)`, row)
	if isUniqueViolation(err) {
		return ports.ErrConflict
	}
	return err
}

func (r SlotCredentialRepo) GetBySlotID(ctx context.Context, slotID string) (ports.SlotCredentialRecord, error) {
	var row credentialRow
	err := r.db.from(ctx).GetContext(ctx, &row, `SELECT * FROM slot_credentials WHERE slot_id = ?`, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.SlotCredentialRecord{}, ports.ErrNotFound
		}
		return ports.SlotCredentialRecord{}, err
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, row.CreatedAt)
	return ports.SlotCredentialRecord{
		SlotID:    row.SlotID,
		KeySalt:   row.KeySalt,
		KeyHash:   row.KeyHash,
		Status:    row.Status,
		CreatedAt: createdAt,
	}, nil
}

func (r SlotCredentialRepo) RotateKey(ctx context.Context, slotID string, salt, hash []byte, _ time.Time) error {
	res, err := r.db.from(ctx).ExecContext(ctx,
		`UPDATE slot_credentials SET key_salt = ?, key_hash = ? WHERE slot_id = ?`, salt, hash, slotID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}
