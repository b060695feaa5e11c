package discriminator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKnownVectors(t *testing.T) {
	tests := []struct {
		ns   Namespace
		name string
		want string
	}{
		{Global, "make", "8ae3e84ddfa660c5"},
		{Global, "initialize", "afaf6d1f0d989bed"},
		{Account, "Escrow", "1fd57bbbba16da9b"},
		{Event, "TransferEvent", "640a2e71081cb37d"},
	}

	for _, tc := range tests {
		t.Run(string(tc.ns)+":"+tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Derive(tc.ns, tc.name).String())
		})
	}
}

func TestDeriveMakeBytes(t *testing.T) {
	expected := Discriminator{0x8a, 0xe3, 0xe8, 0x4d, 0xdf, 0xa6, 0x60, 0xc5}
	assert.Equal(t, expected, Derive(Global, "make"))
}

func TestDeriveNamespaceMatters(t *testing.T) {
	assert.NotEqual(t, Derive(Account, "Vault"), Derive(Event, "Vault"))
	assert.NotEqual(t, Derive(Global, "vault"), Derive(Account, "vault"))
}

func TestDeriveNoCollisionsInCorpus(t *testing.T) {
	names := []string{
		"initialize", "make", "take", "refund", "deposit", "withdraw",
		"transfer", "close", "update", "Escrow", "Vault", "Config",
		"TransferEvent", "DepositEvent", "WithdrawEvent",
	}
	for _, ns := range []Namespace{Account, Event, Global} {
		seen := make(map[Discriminator]string)
		for _, n := range names {
			d := Derive(ns, n)
			prev, dup := seen[d]
			require.False(t, dup, "collision between %s and %s", prev, n)
			seen[d] = n
		}
	}
}

func TestMatches(t *testing.T) {
	d := Derive(Account, "Mine")

	buf := append(d.Bytes(), 1, 2, 3)
	assert.True(t, Matches(buf, d))
	assert.True(t, Matches(d.Bytes(), d))

	assert.False(t, Matches(Derive(Account, "Other").Bytes(), d))
	assert.False(t, Matches(nil, d))
	assert.False(t, Matches(d.Bytes()[:7], d))
}

func TestFromBytes(t *testing.T) {
	d := Derive(Event, "Ping")
	got, ok := FromBytes(append(d.Bytes(), 0xff))
	require.True(t, ok)
	assert.Equal(t, d, got)

	_, ok = FromBytes([]byte{1, 2, 3})
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	d, err := Parse("8ae3e84ddfa660c5")
	require.NoError(t, err)
	assert.Equal(t, Derive(Global, "make"), d)

	d, err = Parse("0x8AE3E84DDFA660C5")
	require.NoError(t, err)
	assert.Equal(t, Derive(Global, "make"), d)

	_, err = Parse("8ae3")
	assert.ErrorIs(t, err, ErrInvalidDiscriminator)

	_, err = Parse("zz")
	assert.ErrorIs(t, err, ErrInvalidDiscriminator)
}

func TestBytesIsCopy(t *testing.T) {
	d := Derive(Global, "make")
	b := d.Bytes()
	b[0] = 0
	assert.Equal(t, byte(0x8a), d[0])
	assert.False(t, d.IsZero())
	assert.True(t, Discriminator{}.IsZero())
}

type plainEvent struct{}

type renamedEvent struct{}

func (*renamedEvent) AnchorName() string { return "Renamed" }

type taggedAccount struct{}

func (*taggedAccount) Discriminator() Discriminator { return Discriminator{1, 2, 3, 4, 5, 6, 7, 8} }

func TestOf(t *testing.T) {
	assert.Equal(t, Derive(Event, "plainEvent"), Of[plainEvent](Event))
	assert.Equal(t, Derive(Event, "Renamed"), Of[renamedEvent](Event))
	assert.Equal(t, Discriminator{1, 2, 3, 4, 5, 6, 7, 8}, Of[taggedAccount](Account))

	assert.Equal(t, "plainEvent", NameOf[plainEvent]())
	assert.Equal(t, "plainEvent", NameOf[*plainEvent]())
	assert.Equal(t, "Renamed", NameOf[renamedEvent]())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	d, err := r.Register(Account, "Escrow")
	require.NoError(t, err)
	assert.Equal(t, Derive(Account, "Escrow"), d)

	// Same entry again is fine.
	_, err = r.Register(Account, "Escrow")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	entry, ok := r.Lookup(d)
	require.True(t, ok)
	assert.Equal(t, "account:Escrow", entry.String())

	entry, ok = r.Identify(append(d.Bytes(), 9, 9))
	require.True(t, ok)
	assert.Equal(t, "Escrow", entry.Name)

	_, ok = r.Identify([]byte{1})
	assert.False(t, ok)

	var nilRegistry *Registry
	_, ok = nilRegistry.Lookup(d)
	assert.False(t, ok)
}

func TestRegistryCollision(t *testing.T) {
	r := NewRegistry()
	forced := Discriminator{9, 9, 9, 9, 9, 9, 9, 9}

	_, err := r.RegisterExplicit(Account, "First", forced)
	require.NoError(t, err)

	_, err = r.RegisterExplicit(Account, "Second", forced)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCollision))

	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "First", collision.Existing.Name)
	assert.Equal(t, "Second", collision.Incoming.Name)
}

func TestRegistrySorted(t *testing.T) {
	r := NewRegistry()
	for i := 3; i > 0; i-- {
		_, err := r.Register(Event, fmt.Sprintf("E%d", i))
		require.NoError(t, err)
	}
	_, err := r.Register(Account, "Z")
	require.NoError(t, err)

	sorted := r.Sorted()
	require.Len(t, sorted, 4)
	entries := r.Entries()
	assert.Equal(t, "account:Z", entries[sorted[0]].String())
	assert.Equal(t, "event:E1", entries[sorted[1]].String())
	assert.Equal(t, "event:E3", entries[sorted[3]].String())
}
