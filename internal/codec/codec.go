// Package codec decodes discriminator-tagged account and event buffers into Go
// values and encodes Go values back into tagged buffers.
//
// Bodies are Borsh encoded. Decoding is strict: the discriminator is checked
// before any field is read, the body must be at least the schema's minimum
// size, and every byte must be consumed.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	bin "github.com/gagliardetto/binary"

	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
)

// Option configures a decode call.
type Option func(*options)

type options struct {
	registry *discriminator.Registry
}

// WithRegistry names the observed type in mismatch errors when its
// discriminator is registered.
func WithRegistry(r *discriminator.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Decode checks that buf starts with expected and decodes the remainder into a new T.
func Decode[T any](buf []byte, expected discriminator.Discriminator, opts ...Option) (*T, error) {
	out := new(T)
	if err := DecodeInto(buf, expected, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeAccount decodes an account buffer tagged with T's account discriminator.
func DecodeAccount[T any](buf []byte, opts ...Option) (*T, error) {
	return Decode[T](buf, discriminator.Of[T](discriminator.Account), opts...)
}

// DecodeUnchecked decodes buf into a new T without a discriminator, for
// layouts that are not Anchor-tagged.
func DecodeUnchecked[T any](buf []byte) (*T, error) {
	out := new(T)
	if err := decodeBody(buf, out, typeName(out)); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeInto is the non-generic form of Decode; v must be a non-nil pointer.
func DecodeInto(buf []byte, expected discriminator.Discriminator, v any, opts ...Option) error {
	o := newOptions(opts)
	name := typeName(v)

	if len(buf) < discriminator.Size {
		return &TruncatedBufferError{
			Type:    name,
			Section: "discriminator",
			Need:    discriminator.Size,
			Have:    len(buf),
		}
	}
	if !discriminator.Matches(buf, expected) {
		observed, _ := discriminator.FromBytes(buf)
		mismatch := &DiscriminatorMismatchError{
			Type:     name,
			Expected: expected,
			Observed: observed,
		}
		if entry, ok := o.registry.Lookup(observed); ok {
			mismatch.ObservedName = entry.String()
		}
		return mismatch
	}
	return decodeBody(buf[discriminator.Size:], v, name)
}

func decodeBody(body []byte, v any, name string) (err error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &DeserializationError{Type: name, Cause: errors.New("decode target must be a non-nil pointer")}
	}

	if need := MinSize(rv.Type().Elem()); len(body) < need {
		return &TruncatedBufferError{Type: name, Section: "body", Need: need, Have: len(body)}
	}

	dec := bin.NewBorshDecoder(body)

	// Corrupt length prefixes can drive the reflective decoder into a panic.
	defer func() {
		if r := recover(); r != nil {
			err = &DeserializationError{
				Type:   name,
				Offset: len(body) - dec.Remaining(),
				Cause:  fmt.Errorf("decoder panic: %v", r),
			}
		}
	}()

	if err := dec.Decode(v); err != nil {
		return &DeserializationError{Type: name, Offset: len(body) - dec.Remaining(), Cause: err}
	}
	if rem := dec.Remaining(); rem != 0 {
		return &DeserializationError{Type: name, Offset: len(body) - rem, Trailing: rem}
	}
	return nil
}

// Encode returns d || borsh(v).
func Encode(v any, d discriminator.Discriminator) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(d[:])
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", typeName(v), err)
	}
	return buf.Bytes(), nil
}

// EncodeAccount encodes v behind its account discriminator.
func EncodeAccount[T any](v *T) ([]byte, error) {
	return Encode(v, discriminator.Of[T](discriminator.Account))
}

// EncodeEvent encodes v behind its event discriminator.
func EncodeEvent[T any](v *T) ([]byte, error) {
	return Encode(v, discriminator.Of[T](discriminator.Event))
}

// Marshal returns borsh(v) with no discriminator.
func Marshal(v any) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", typeName(v), err)
	}
	return buf.Bytes(), nil
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
