// Package accounts is the identity registry: which pubkeys the app knows
// about, which one is selected, and where their private keys live.
package accounts

import (
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

// Pubkey is a hex-encoded nostr public key.
type Pubkey string

// FallbackPubkey is the well-known identity used when no real account is
// selected, so the channel UI always has something to show. Injected into
// constructors, never read as a global.
const FallbackPubkey Pubkey = "0000000000000000000000000000000000000000000000000000000000000001"

// Account is one known identity. Key is empty for read-only accounts.
type Account struct {
	Pubkey Pubkey
	Key    string
}

// Accounts tracks known identities and the selection. Exclusively owned by
// the application loop.
type Accounts struct {
	fallback Pubkey
	accounts []Account
	selected int
	keys     KeyStore
}

// New builds a registry seeded with the fallback identity.
func New(fallback Pubkey, keys KeyStore) *Accounts {
	if keys == nil {
		keys = NewMemoryKeyStore()
	}
	return &Accounts{
		fallback: fallback,
		accounts: []Account{{Pubkey: fallback}},
		keys:     keys,
	}
}

// Selected returns the current identity; the fallback when nothing real is
// selected.
func (a *Accounts) Selected() Account {
	if a.selected < 0 || a.selected >= len(a.accounts) {
		return Account{Pubkey: a.fallback}
	}
	return a.accounts[a.selected]
}

func (a *Accounts) Fallback() Pubkey {
	return a.fallback
}

// AddFromNsec decodes a bech32 nsec, derives the public key, stores the
// private key and selects the new account.
func (a *Accounts) AddFromNsec(nsec string) (Pubkey, error) {
	prefix, value, err := nip19.Decode(strings.TrimSpace(nsec))
	if err != nil {
		return "", fmt.Errorf("could not decode nsec: %w", err)
	}
	if prefix != "nsec" {
		return "", fmt.Errorf("expected an nsec key, got %q", prefix)
	}
	sk, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("unexpected nsec payload type %T", value)
	}

	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		return "", fmt.Errorf("could not derive public key: %w", err)
	}

	pubkey := Pubkey(pk)
	if err := a.keys.Set(string(pubkey), sk); err != nil {
		return "", fmt.Errorf("could not store private key: %w", err)
	}

	for i, acct := range a.accounts {
		if acct.Pubkey == pubkey {
			a.selected = i
			return pubkey, nil
		}
	}
	a.accounts = append(a.accounts, Account{Pubkey: pubkey, Key: sk})
	a.selected = len(a.accounts) - 1
	return pubkey, nil
}

// Select makes pubkey the active identity; unknown keys are ignored.
func (a *Accounts) Select(pubkey Pubkey) {
	for i, acct := range a.accounts {
		if acct.Pubkey == pubkey {
			a.selected = i
			return
		}
	}
}

// Remove drops an identity. The fallback entry cannot be removed. Returns
// whether anything was removed.
func (a *Accounts) Remove(pubkey Pubkey) bool {
	if pubkey == a.fallback {
		return false
	}
	for i, acct := range a.accounts {
		if acct.Pubkey != pubkey {
			continue
		}
		a.accounts = append(a.accounts[:i], a.accounts[i+1:]...)
		_ = a.keys.Delete(string(pubkey))
		if a.selected >= len(a.accounts) {
			a.selected = len(a.accounts) - 1
		}
		return true
	}
	return false
}

func (a *Accounts) All() []Account {
	out := make([]Account, len(a.accounts))
	copy(out, a.accounts)
	return out
}

func (a *Accounts) Len() int {
	return len(a.accounts)
}
