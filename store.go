package authclient

import (
	"errors"
	"sync"

	"github.com/zalando/go-keyring"
)

// KeyringStore persists the bearer token in the OS keyring under a single
// service/key pair. On platforms without a keyring (headless CI, stripped
// containers) every operation degrades to a silent no-op returning empty
// results, mirroring storage access outside a browser context.
type KeyringStore struct {
	service string
	key     string
}

var _ CredentialStore = (*KeyringStore)(nil)

// NewKeyringStore returns a store scoped to the given service name and key.
func NewKeyringStore(service, key string) *KeyringStore {
	return &KeyringStore{service: service, key: key}
}

func (s *KeyringStore) Get() (string, error) {
	token, err := keyring.Get(s.service, s.key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) || errors.Is(err, keyring.ErrUnsupportedPlatform) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

func (s *KeyringStore) Set(token string) error {
	if err := keyring.Set(s.service, s.key, token); err != nil {
		if errors.Is(err, keyring.ErrUnsupportedPlatform) {
			return nil
		}
		return err
	}
	return nil
}

func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(s.service, s.key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) || errors.Is(err, keyring.ErrUnsupportedPlatform) {
			return nil
		}
		return err
	}
	return nil
}

// MemoryStore is an in-process CredentialStore for tests and headless runs.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

var _ CredentialStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
