package testing

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Account represents a test account with an ed25519 keypair.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	// Seed is the 32-byte ed25519 seed the keypair is derived from.
	Seed [32]byte

	// PrivateKey is the 64-byte ed25519 private key in Solana's layout.
	PrivateKey solana.PrivateKey
}

// NewAccount creates a new test account with a deterministic keypair derived from the name.
// Using the same name will always produce the same account, making tests reproducible.
// The seed is sha256(name).
func NewAccount(name string) *Account {
	return NewAccountFromSeed(name, sha256.Sum256([]byte(name)))
}

// NewAccountFromSeed creates a test account from a known 32-byte seed.
func NewAccountFromSeed(name string, seed [32]byte) *Account {
	priv := ed25519.NewKeyFromSeed(seed[:])
	return &Account{
		Name:       name,
		Seed:       seed,
		PrivateKey: solana.PrivateKey(priv),
	}
}

// NewAccountFromKeygenFile loads an account from a solana-keygen JSON file.
func NewAccountFromKeygenFile(name, path string) (*Account, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("load keypair %s: %w", path, err)
	}
	acc := &Account{Name: name, PrivateKey: key}
	copy(acc.Seed[:], key[:ed25519.SeedSize])
	return acc, nil
}

// PublicKey returns the account address.
func (a *Account) PublicKey() solana.PublicKey {
	return a.PrivateKey.PublicKey()
}

// Meta returns an account meta for this account, for use as a remaining account.
func (a *Account) Meta(writable, signer bool) *solana.AccountMeta {
	return solana.NewAccountMeta(a.PublicKey(), writable, signer)
}

// String implements the Stringer interface for debugging.
func (a *Account) String() string {
	return a.Name + " (" + a.PublicKey().String() + ")"
}

// signerSet resolves the private keys a transaction asks for.
type signerSet map[solana.PublicKey]*solana.PrivateKey

func newSignerSet(accounts ...*Account) signerSet {
	set := make(signerSet, len(accounts))
	for _, acc := range accounts {
		if acc == nil {
			continue
		}
		key := acc.PrivateKey
		set[acc.PublicKey()] = &key
	}
	return set
}

func (s signerSet) lookup(pk solana.PublicKey) *solana.PrivateKey {
	return s[pk]
}
