package codec

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
)

var (
	// ErrDiscriminatorMismatch indicates the buffer is tagged with a different type.
	ErrDiscriminatorMismatch = errors.New("discriminator mismatch")

	// ErrTruncatedBuffer indicates the buffer is shorter than the schema's minimum size.
	ErrTruncatedBuffer = errors.New("truncated buffer")

	// ErrDeserialization indicates the body did not decode into exactly the schema.
	ErrDeserialization = errors.New("deserialization failed")
)

// DiscriminatorMismatchError carries the expected and observed tags.
type DiscriminatorMismatchError struct {
	Type         string                      // Go type being decoded
	Expected     discriminator.Discriminator // Tag derived for Type
	Observed     discriminator.Discriminator // Leading 8 bytes of the buffer
	ObservedName string                      // Registry entry for Observed, if known
}

// Error implements the error interface.
func (e *DiscriminatorMismatchError) Error() string {
	if e.ObservedName != "" {
		return fmt.Sprintf("discriminator mismatch decoding %s: expected %s, observed %s (%s)",
			e.Type, e.Expected, e.Observed, e.ObservedName)
	}
	return fmt.Sprintf("discriminator mismatch decoding %s: expected %s, observed %s",
		e.Type, e.Expected, e.Observed)
}

// Is allows errors.Is(err, ErrDiscriminatorMismatch).
func (e *DiscriminatorMismatchError) Is(target error) bool {
	return target == ErrDiscriminatorMismatch
}

// TruncatedBufferError reports how many bytes were required and available.
type TruncatedBufferError struct {
	Type    string
	Section string // "discriminator" or "body"
	Need    int
	Have    int
}

// Error implements the error interface.
func (e *TruncatedBufferError) Error() string {
	return fmt.Sprintf("truncated buffer decoding %s: %s needs at least %d bytes, have %d",
		e.Type, e.Section, e.Need, e.Have)
}

// Is allows errors.Is(err, ErrTruncatedBuffer).
func (e *TruncatedBufferError) Is(target error) bool {
	return target == ErrTruncatedBuffer
}

// DeserializationError wraps a Borsh decode failure or a trailing-byte rejection.
type DeserializationError struct {
	Type     string
	Offset   int   // Body offset where decoding stopped
	Trailing int   // Unconsumed bytes after a successful decode
	Cause    error // Underlying decoder error, nil for trailing bytes
}

// Error implements the error interface.
func (e *DeserializationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("deserialization of %s failed: %d trailing bytes after offset %d",
			e.Type, e.Trailing, e.Offset)
	}
	return fmt.Sprintf("deserialization of %s failed at offset %d: %v", e.Type, e.Offset, e.Cause)
}

// Unwrap returns the underlying error.
func (e *DeserializationError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is(err, ErrDeserialization).
func (e *DeserializationError) Is(target error) bool {
	return target == ErrDeserialization
}
