package memory

import (
	"context"

	"kaamos/internal/app/ports"
)

type SaveRepo struct {
	store *Store
}

func NewSaveRepo(store *Store) SaveRepo {
	return SaveRepo{store: store}
}

// inTx reports whether ctx was handed out by this store's TxManager, which
// already holds mu.
func (r SaveRepo) inTx(ctx context.Context) bool {
	held, _ := ctx.Value(inTxKey{}).(*Store)
	return held == r.store
}

func (r SaveRepo) Load(ctx context.Context, slotID string) (ports.SaveSnapshot, error) {
	if !r.inTx(ctx) {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	snap, ok := r.store.saves[slotID]
	if !ok {
		return ports.SaveSnapshot{}, ports.ErrNotFound
	}
	snap.State = snap.State.Clone()
	return snap, nil
}

func (r SaveRepo) Save(ctx context.Context, snapshot ports.SaveSnapshot) error {
	if !r.inTx(ctx) {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	snapshot.State = snapshot.State.Clone()
	r.store.saves[snapshot.SlotID] = snapshot
	return nil
}

func (r SaveRepo) Clear(ctx context.Context, slotID string) error {
	if !r.inTx(ctx) {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	delete(r.store.saves, slotID)
	return nil
}
