package memory

import (
	"sync"

	"kaamos/internal/app/ports"
)

// Store keeps saves and slot credentials in process memory. mu guards saves:
// TxManager.RunInTx holds it for a whole transaction and SaveRepo takes it
// per call otherwise. Credentials have their own lock because slot keys are
// verified outside any transaction.
type Store struct {
	mu    sync.RWMutex
	saves map[string]ports.SaveSnapshot

	credMu      sync.RWMutex
	credentials map[string]ports.SlotCredentialRecord
}

func NewStore() *Store {
	return &Store{
		saves:       make(map[string]ports.SaveSnapshot),
		credentials: make(map[string]ports.SlotCredentialRecord),
	}
}

// SeedSave installs a snapshot directly, for tests and fixtures.
func (s *Store) SeedSave(snapshot ports.SaveSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot.State = snapshot.State.Clone()
	s.saves[snapshot.SlotID] = snapshot
}
