package sqliterepo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaamos/internal/app/ports"
	"kaamos/internal/domain/survival"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "saves", "kaamos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveRepo_UpsertLoadClear(t *testing.T) {
	db := openTemp(t)
	repo := NewSaveRepo(db)
	ctx := context.Background()

	_, err := repo.Load(ctx, "slot-a")
	require.ErrorIs(t, err, ports.ErrNotFound)

	state := survival.NewGameState(survival.DifficultyNormal)
	state.Inventory = []string{"glogi"}
	savedAt := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, ports.SaveSnapshot{SlotID: "slot-a", State: state, CurrentEventID: "day_kela_queue", SavedAt: savedAt}))

	state.Resources.Money = 12
	require.NoError(t, repo.Save(ctx, ports.SaveSnapshot{SlotID: "slot-a", State: state, EndingID: survival.EndingBankrupt, SavedAt: savedAt}))

	got, err := repo.Load(ctx, "slot-a")
	require.NoError(t, err)
	assert.Equal(t, survival.EndingBankrupt, got.EndingID)
	assert.Empty(t, got.CurrentEventID)
	assert.Equal(t, 12.0, got.State.Resources.Money)
	assert.Equal(t, []string{"glogi"}, got.State.Inventory)
	assert.True(t, got.SavedAt.Equal(savedAt))

	require.NoError(t, repo.Clear(ctx, "slot-a"))
	_, err = repo.Load(ctx, "slot-a")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := openTemp(t)
	repo := NewSaveRepo(db)
	tx := NewTxManager(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repo.Save(txCtx, ports.SaveSnapshot{SlotID: "slot-a", State: survival.NewGameState(survival.DifficultyEasy)}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.Load(ctx, "slot-a")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSlotCredentialRepo_CreateGetConflict(t *testing.T) {
	db := openTemp(t)
	repo := NewSlotCredentialRepo(db)
	ctx := context.Background()
	rec := ports.SlotCredentialRecord{SlotID: "slot-a", KeySalt: []byte("salt"), KeyHash: []byte("hash"), Status: "active", CreatedAt: time.Now()}

	require.NoError(t, repo.Create(ctx, rec))
	assert.ErrorIs(t, repo.Create(ctx, rec), ports.ErrConflict)

	got, err := repo.GetBySlotID(ctx, "slot-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("hash"), got.KeyHash)
	assert.Equal(t, "active", got.Status)

	_, err = repo.GetBySlotID(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSlotCredentialRepo_RotateKey(t *testing.T) {
	db := openTemp(t)
	repo := NewSlotCredentialRepo(db)
	ctx := context.Background()
	rec := ports.SlotCredentialRecord{SlotID: "slot-r", KeySalt: []byte("s1"), KeyHash: []byte("h1"), Status: "active", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, rec))

	require.NoError(t, repo.RotateKey(ctx, "slot-r", []byte("s2"), []byte("h2"), time.Now()))
	got, err := repo.GetBySlotID(ctx, "slot-r")
	require.NoError(t, err)
	assert.Equal(t, []byte("s2"), got.KeySalt)
	assert.Equal(t, []byte("h2"), got.KeyHash)

	assert.ErrorIs(t, repo.RotateKey(ctx, "missing", []byte("s"), []byte("h"), time.Now()), ports.ErrNotFound)
}
