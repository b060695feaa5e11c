package discriminator

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrCollision indicates two different names derived the same discriminator.
var ErrCollision = errors.New("discriminator collision")

// Entry identifies the type a discriminator was registered for.
type Entry struct {
	Namespace Namespace
	Name      string
}

// String returns "namespace:name".
func (e Entry) String() string {
	return string(e.Namespace) + ":" + e.Name
}

// CollisionError is returned by Registry.Register when a new entry hashes to a
// discriminator already taken by a different entry.
type CollisionError struct {
	Discriminator Discriminator
	Existing      Entry
	Incoming      Entry
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("discriminator collision: %s and %s both derive %s",
		e.Existing, e.Incoming, e.Discriminator)
}

// Is allows errors.Is(err, ErrCollision).
func (e *CollisionError) Is(target error) bool {
	return target == ErrCollision
}

// Registry maps discriminators back to the names they were derived from.
// Decoders use it to report which type an unexpected buffer actually holds.
type Registry struct {
	mu      sync.RWMutex
	entries map[Discriminator]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[Discriminator]Entry),
	}
}

// Register derives and records the discriminator for (ns, name).
// Registering the same entry twice is a no-op.
func (r *Registry) Register(ns Namespace, name string) (Discriminator, error) {
	return r.RegisterExplicit(ns, name, Derive(ns, name))
}

// RegisterExplicit records an entry under a discriminator supplied by the
// caller, typically one read from an IDL.
func (r *Registry) RegisterExplicit(ns Namespace, name string, d Discriminator) (Discriminator, error) {
	incoming := Entry{Namespace: ns, Name: name}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[d]; ok {
		if existing == incoming {
			return d, nil
		}
		return d, &CollisionError{Discriminator: d, Existing: existing, Incoming: incoming}
	}
	r.entries[d] = incoming
	return d, nil
}

// Lookup returns the entry registered for d.
func (r *Registry) Lookup(d Discriminator) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[d]
	return e, ok
}

// Identify looks up the leading discriminator of buf.
func (r *Registry) Identify(buf []byte) (Entry, bool) {
	d, ok := FromBytes(buf)
	if !ok {
		return Entry{}, false
	}
	return r.Lookup(d)
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries returns a snapshot of all registered entries.
func (r *Registry) Entries() map[Discriminator]Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Discriminator]Entry, len(r.entries))
	for d, e := range r.entries {
		out[d] = e
	}
	return out
}

// Sorted returns the registered discriminators ordered by entry.
func (r *Registry) Sorted() []Discriminator {
	entries := r.Entries()
	keys := make([]Discriminator, 0, len(entries))
	for d := range entries {
		keys = append(keys, d)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := entries[keys[i]], entries[keys[j]]
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return a.Name < b.Name
	})
	return keys
}
