// Package discriminator computes the 8-byte type tags Anchor programs prefix
// onto instruction data, account data and event payloads.
//
// The tag is the first 8 bytes of sha256("<namespace>:<name>"). The scheme is
// fixed by the Anchor toolchain, so the derivation here must stay bit-exact:
//
//	discriminator.Derive(discriminator.Global, "make")      // 8ae3e84ddfa660c5
//	discriminator.Derive(discriminator.Account, "Escrow")
//	discriminator.Derive(discriminator.Event, "TransferEvent")
package discriminator

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
)

// Size is the length of a discriminator in bytes.
const Size = 8

// Namespace selects the prefix hashed together with the type name.
type Namespace string

// Namespaces used by the Anchor toolchain.
const (
	// Account tags the data of program-owned accounts ("account:<Struct>").
	Account Namespace = "account"

	// Event tags payloads emitted through emit! ("event:<Struct>").
	Event Namespace = "event"

	// Global tags instruction data ("global:<snake_case_name>").
	Global Namespace = "global"
)

// ErrInvalidDiscriminator is returned when a textual discriminator cannot be parsed.
var ErrInvalidDiscriminator = errors.New("invalid discriminator")

// Discriminator is the 8-byte type identifier at the head of an encoded buffer.
type Discriminator [Size]byte

// Derive returns sha256("<ns>:<name>")[:8].
func Derive(ns Namespace, name string) Discriminator {
	sum := sha256.Sum256([]byte(string(ns) + ":" + name))
	var d Discriminator
	copy(d[:], sum[:Size])
	return d
}

// Matches reports whether buf starts with expected.
// Buffers shorter than Size never match.
func Matches(buf []byte, expected Discriminator) bool {
	if len(buf) < Size {
		return false
	}
	return bytes.Equal(buf[:Size], expected[:])
}

// FromBytes reads the leading discriminator of buf.
func FromBytes(buf []byte) (Discriminator, bool) {
	var d Discriminator
	if len(buf) < Size {
		return d, false
	}
	copy(d[:], buf[:Size])
	return d, true
}

// Parse decodes a 16-character hex string, with or without a 0x prefix.
func Parse(s string) (Discriminator, error) {
	var d Discriminator
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("%w: %v", ErrInvalidDiscriminator, err)
	}
	if len(raw) != Size {
		return d, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidDiscriminator, Size, len(raw))
	}
	copy(d[:], raw)
	return d, nil
}

// Bytes returns a copy of the discriminator as a slice.
func (d Discriminator) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, d[:])
	return out
}

// String returns the lowercase hex form.
func (d Discriminator) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether all bytes are zero.
func (d Discriminator) IsZero() bool {
	return d == Discriminator{}
}

// Tagged is implemented by types that carry an explicit discriminator, for
// programs that override the derived value with #[account(discriminator = ...)].
type Tagged interface {
	Discriminator() Discriminator
}

// Named is implemented by types whose on-chain name differs from the Go type name.
type Named interface {
	AnchorName() string
}

// Of resolves the discriminator of T in namespace ns. An explicit
// Discriminator method wins, then AnchorName, then the Go type name.
func Of[T any](ns Namespace) Discriminator {
	var zero T
	if tagged, ok := any(&zero).(Tagged); ok {
		return tagged.Discriminator()
	}
	return Derive(ns, NameOf[T]())
}

// NameOf returns the name T is registered under on-chain.
func NameOf[T any]() string {
	var zero T
	if named, ok := any(&zero).(Named); ok {
		return named.AnchorName()
	}
	t := reflect.TypeOf(zero)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
