package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"kaamos/internal/app/ports"
)

const (
	CredentialStatusActive = "active"

	registerAttempts = 3
	slotKeyBytes     = 32
	saltBytes        = 16
)

var (
	ErrInvalidRequest     = errors.New("invalid auth request")
	ErrInvalidCredentials = errors.New("invalid slot credentials")
)

type RegisterRequest struct{}

// RegisterResponse carries a freshly issued key. The key is only ever
// returned here; the store keeps a salted hash.
type RegisterResponse struct {
	SlotID   string `json:"slot_id"`
	SlotKey  string `json:"slot_key"`
	IssuedAt string `json:"issued_at"`
}

type VerifyRequest struct {
	SlotID  string
	SlotKey string
}

type RotateRequest = VerifyRequest

// RegisterUseCase mints a save slot and the key that guards it.
type RegisterUseCase struct {
	Credentials ports.SlotCredentialRepository
	TxManager   ports.TxManager
	Now         func() time.Time
	NewID       func() string
}

type VerifyUseCase struct {
	Credentials ports.SlotCredentialRepository
}

// RotateUseCase swaps a slot's key for a new one. The old key stops working
// as soon as the transaction commits.
type RotateUseCase struct {
	Credentials ports.SlotCredentialRepository
	TxManager   ports.TxManager
	Now         func() time.Time
}

type issuedKey struct {
	key  string
	salt []byte
	hash []byte
}

func mintKey() (issuedKey, error) {
	key, err := randomToken(slotKeyBytes)
	if err != nil {
		return issuedKey{}, err
	}
	salt, err := randomBytes(saltBytes)
	if err != nil {
		return issuedKey{}, err
	}
	return issuedKey{key: key, salt: salt, hash: credentialHash(salt, key)}, nil
}

func nowUTC(fn func() time.Time) time.Time {
	if fn == nil {
		fn = time.Now
	}
	return fn().UTC()
}

func (u RegisterUseCase) Execute(ctx context.Context, _ RegisterRequest) (RegisterResponse, error) {
	if u.Credentials == nil || u.TxManager == nil {
		return RegisterResponse{}, ErrInvalidRequest
	}
	newID := u.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := nowUTC(u.Now)

	// A colliding id is retried with a fresh one; only slot ids supplied
	// by a custom NewID can realistically collide.
	for attempt := 0; attempt < registerAttempts; attempt++ {
		slotID := newID()
		issued, err := mintKey()
		if err != nil {
			return RegisterResponse{}, err
		}
		err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			return u.Credentials.Create(txCtx, ports.SlotCredentialRecord{
				SlotID:    slotID,
				KeySalt:   issued.salt,
				KeyHash:   issued.hash,
				Status:    CredentialStatusActive,
				CreatedAt: now,
			})
		})
		switch {
		case errors.Is(err, ports.ErrConflict):
			continue
		case err != nil:
			return RegisterResponse{}, err
		}
		return RegisterResponse{SlotID: slotID, SlotKey: issued.key, IssuedAt: now.Format(time.RFC3339)}, nil
	}
	return RegisterResponse{}, ports.ErrConflict
}

func (u VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) error {
	req, err := normalize(req)
	if err != nil || u.Credentials == nil {
		return ErrInvalidRequest
	}
	return checkSlotKey(ctx, u.Credentials, req)
}

func (u RotateUseCase) Execute(ctx context.Context, req RotateRequest) (RegisterResponse, error) {
	req, err := normalize(req)
	if err != nil || u.Credentials == nil || u.TxManager == nil {
		return RegisterResponse{}, ErrInvalidRequest
	}
	issued, err := mintKey()
	if err != nil {
		return RegisterResponse{}, err
	}
	now := nowUTC(u.Now)

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := checkSlotKey(txCtx, u.Credentials, req); err != nil {
			return err
		}
		if err := u.Credentials.RotateKey(txCtx, req.SlotID, issued.salt, issued.hash, now); err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return ErrInvalidCredentials
			}
			return err
		}
		return nil
	})
	if err != nil {
		return RegisterResponse{}, err
	}
	return RegisterResponse{SlotID: req.SlotID, SlotKey: issued.key, IssuedAt: now.Format(time.RFC3339)}, nil
}

func normalize(req VerifyRequest) (VerifyRequest, error) {
	req.SlotID = strings.TrimSpace(req.SlotID)
	req.SlotKey = strings.TrimSpace(req.SlotKey)
	if req.SlotID == "" || req.SlotKey == "" {
		return req, ErrInvalidRequest
	}
	return req, nil
}

// checkSlotKey treats unknown slots, inactive slots and wrong keys alike so
// callers cannot probe which slot ids exist.
func checkSlotKey(ctx context.Context, creds ports.SlotCredentialRepository, req VerifyRequest) error {
	cred, err := creds.GetBySlotID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if cred.Status != CredentialStatusActive {
		return ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare(credentialHash(cred.KeySalt, req.SlotKey), cred.KeyHash) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func credentialHash(salt []byte, key string) []byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(key))
	return h.Sum(nil)
}

func randomToken(n int) (string, error) {
	b, err := randomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
