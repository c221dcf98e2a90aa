package memory

import (
	"bytes"
	"context"
	"time"

	"kaamos/internal/app/ports"
)

type SlotCredentialRepo struct {
	store *Store
}

func NewSlotCredentialRepo(store *Store) SlotCredentialRepo {
	return SlotCredentialRepo{store: store}
}

func (r SlotCredentialRepo) Create(_ context.Context, credential ports.SlotCredentialRecord) error {
	r.store.credMu.Lock()
	defer r.store.credMu.Unlock()
	if _, ok := r.store.credentials[credential.SlotID]; ok {
		return ports.ErrConflict
	}
	credential.KeySalt = bytes.Clone(credential.KeySalt)
	credential.KeyHash = bytes.Clone(credential.KeyHash)
	r.store.credentials[credential.SlotID] = credential
	return nil
}

func (r SlotCredentialRepo) GetBySlotID(_ context.Context, slotID string) (ports.SlotCredentialRecord, error) {
	r.store.credMu.RLock()
	defer r.store.credMu.RUnlock()
	credential, ok := r.store.credentials[slotID]
	if !ok {
		return ports.SlotCredentialRecord{}, ports.ErrNotFound
	}
	return credential, nil
}

func (r SlotCredentialRepo) RotateKey(_ context.Context, slotID string, salt, hash []byte, _ time.Time) error {
	r.store.credMu.Lock()
	defer r.store.credMu.Unlock()
	credential, ok := r.store.credentials[slotID]
	if !ok {
		return ports.ErrNotFound
	}
	credential.KeySalt = bytes.Clone(salt)
	credential.KeyHash = bytes.Clone(hash)
	r.store.credentials[slotID] = credential
	return nil
}
