// Package events recovers typed Anchor events from the data emissions in a
// transaction's log stream.
//
// Each emission of the target program is matched against the event type's
// discriminator. Emissions of other event types are skipped; an emission that
// carries the right discriminator but does not decode is an error.
package events

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/LeJamon/goAnchorSVM/internal/codec"
	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
	"github.com/LeJamon/goAnchorSVM/internal/logs"
)

// ErrNotEmitted is returned by AssertEmitted when no matching event was found.
var ErrNotEmitted = errors.New("event not emitted")

// NotEmittedError names the missing event and what was seen instead.
type NotEmittedError struct {
	Event   string
	Program solana.PublicKey
	// Emissions is the number of data emissions the program made.
	Emissions int
}

// Error implements the error interface.
func (e *NotEmittedError) Error() string {
	return fmt.Sprintf("event %s not emitted by %s (%d other emissions)", e.Event, e.Program, e.Emissions)
}

// Is allows errors.Is(err, ErrNotEmitted).
func (e *NotEmittedError) Is(target error) bool {
	return target == ErrNotEmitted
}

// Decode decodes a single emission payload as event T.
func Decode[T any](payload []byte) (*T, error) {
	return codec.Decode[T](payload, discriminator.Of[T](discriminator.Event))
}

// First returns the first T emitted by program. It reports false, with a nil
// error, when none was emitted before the stream ended.
func First[T any](lines []string, program solana.PublicKey) (*T, bool, error) {
	want := discriminator.Of[T](discriminator.Event)
	s := logs.NewScanner(lines, program)
	for s.Next() {
		payload := s.Payload()
		if !discriminator.Matches(payload, want) {
			continue
		}
		ev, err := codec.Decode[T](payload, want)
		if err != nil {
			return nil, false, err
		}
		return ev, true, nil
	}
	return nil, false, s.Err()
}

// All returns every T emitted by program, in emission order. With no matches
// it returns an empty slice and a nil error. If the stream is corrupt, the
// events found before the corruption are returned with the error.
func All[T any](lines []string, program solana.PublicKey) ([]*T, error) {
	want := discriminator.Of[T](discriminator.Event)
	out := []*T{}
	s := logs.NewScanner(lines, program)
	for s.Next() {
		payload := s.Payload()
		if !discriminator.Matches(payload, want) {
			continue
		}
		ev, err := codec.Decode[T](payload, want)
		if err != nil {
			return out, err
		}
		out = append(out, ev)
	}
	return out, s.Err()
}

// Has reports whether program emitted at least one T.
func Has[T any](lines []string, program solana.PublicKey) (bool, error) {
	_, ok, err := First[T](lines, program)
	return ok, err
}

// AssertEmitted returns the first T emitted by program, or a
// *NotEmittedError if there is none.
func AssertEmitted[T any](lines []string, program solana.PublicKey) (*T, error) {
	ev, ok, err := First[T](lines, program)
	if err != nil {
		return nil, err
	}
	if !ok {
		emissions, _ := logs.Collect(lines, program)
		return nil, &NotEmittedError{
			Event:     discriminator.NameOf[T](),
			Program:   program,
			Emissions: len(emissions),
		}
	}
	return ev, nil
}
