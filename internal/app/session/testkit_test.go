package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kaamos/internal/app/game"
	"kaamos/internal/app/ports"
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/rng"
	"kaamos/internal/domain/survival"
)

type fakeSaves struct {
	slots   map[string]ports.SaveSnapshot
	loadErr error
	saveErr error
	saves   int
}

func newFakeSaves() *fakeSaves {
	return &fakeSaves{slots: map[string]ports.SaveSnapshot{}}
}

func (f *fakeSaves) Load(_ context.Context, slotID string) (ports.SaveSnapshot, error) {
	if f.loadErr != nil {
		return ports.SaveSnapshot{}, f.loadErr
	}
	snap, ok := f.slots[slotID]
	if !ok {
		return ports.SaveSnapshot{}, ports.ErrNotFound
	}
	return snap, nil
}

func (f *fakeSaves) Save(_ context.Context, snap ports.SaveSnapshot) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.slots[snap.SlotID] = snap
	return nil
}

func (f *fakeSaves) Clear(_ context.Context, slotID string) error {
	delete(f.slots, slotID)
	return nil
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeMetrics struct {
	ops      map[string]int
	failures map[string]int
	endings  map[survival.EndingID]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{ops: map[string]int{}, failures: map[string]int{}, endings: map[survival.EndingID]int{}}
}

func (m *fakeMetrics) RecordOperation(op string) { m.ops[op]++ }
func (m *fakeMetrics) RecordFailure(op string) { m.failures[op]++ }
func (m *fakeMetrics) RecordEnding(id survival.EndingID) { m.endings[id]++ }

var (
	_ ports.SaveRepository = (*fakeSaves)(nil)
	_ ports.TxManager      = (*fakeTx)(nil)
	_ ports.GameMetrics    = (*fakeMetrics)(nil)
)

var errStorageDown = errors.New("storage down")

type fixture struct {
	uc      UseCase
	saves   *fakeSaves
	tx      *fakeTx
	metrics *fakeMetrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	catalog, err := content.LoadDefault()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := fixture{saves: newFakeSaves(), tx: &fakeTx{}, metrics: newFakeMetrics()}
	f.uc = UseCase{
		Engine:    game.New(catalog, rng.New(99), nil, logger),
		Saves:     f.saves,
		TxManager: f.tx,
		Metrics:   f.metrics,
		Logger:    logger,
		Now:       func() time.Time { return time.Unix(1700000000, 0) },
	}
	return f
}
