package accounts

import (
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

const keyringService = "chanstr"

// KeyStore holds private keys at rest, addressed by hex pubkey.
type KeyStore interface {
	Set(pubkey, sk string) error
	Get(pubkey string) (string, error)
	Delete(pubkey string) error
}

// KeyringStore keeps keys in the OS keyring.
type KeyringStore struct{}

func NewKeyringStore() KeyringStore {
	return KeyringStore{}
}

func (KeyringStore) Set(pubkey, sk string) error {
	if err := keyring.Set(keyringService, pubkey, sk); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

func (KeyringStore) Get(pubkey string) (string, error) {
	sk, err := keyring.Get(keyringService, pubkey)
	if err != nil {
		return "", fmt.Errorf("keyring get: %w", err)
	}
	return sk, nil
}

func (KeyringStore) Delete(pubkey string) error {
	if err := keyring.Delete(keyringService, pubkey); err != nil {
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}

// MemoryKeyStore is the fallback when no keyring is available (headless
// sessions, tests). Keys do not survive the process.
type MemoryKeyStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[string]string)}
}

func (m *MemoryKeyStore) Set(pubkey, sk string) error {
	m.mu.Lock()
	m.keys[pubkey] = sk
	m.mu.Unlock()
	return nil
}

func (m *MemoryKeyStore) Get(pubkey string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sk, ok := m.keys[pubkey]
	if !ok {
		return "", fmt.Errorf("no key for %s", pubkey)
	}
	return sk, nil
}

func (m *MemoryKeyStore) Delete(pubkey string) error {
	m.mu.Lock()
	delete(m.keys, pubkey)
	m.mu.Unlock()
	return nil
}

// OpenKeyStore probes the OS keyring and falls back to memory when it is
// unusable.
func OpenKeyStore() KeyStore {
	probe := KeyringStore{}
	if err := probe.Set("chanstr-probe", "ok"); err != nil {
		return NewMemoryKeyStore()
	}
	_ = probe.Delete("chanstr-probe")
	return probe
}
