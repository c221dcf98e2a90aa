package memory

import "context"

type inTxKey struct{}

// TxManager serialises every transaction on the store lock. There is no
// rollback: a failing fn leaves whatever it already wrote. A nested RunInTx
// runs inside the outer one.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if held, _ := ctx.Value(inTxKey{}).(*Store); held == t.store {
		return fn(ctx)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return fn(context.WithValue(ctx, inTxKey{}, t.store))
}
