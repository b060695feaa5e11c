package codec

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
)

type Escrow struct {
	Maker  solana.PublicKey
	Amount uint64
	Seed   uint64
	Bump   uint8
}

type Profile struct {
	Name  string
	Tags  []uint16
	Score *uint32 `bin:"optional"`
}

type Mine struct {
	Value uint64
}

type Other struct {
	Value uint64
}

var testMaker = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")

func TestRoundTrip(t *testing.T) {
	score := uint32(77)
	tests := []struct {
		name  string
		value any
		fresh func() any
	}{
		{
			name:  "fixed layout",
			value: &Escrow{Maker: testMaker, Amount: 1_000_000, Seed: 42, Bump: 254},
			fresh: func() any { return new(Escrow) },
		},
		{
			name:  "variable layout with option",
			value: &Profile{Name: "alice", Tags: []uint16{1, 2, 3}, Score: &score},
			fresh: func() any { return new(Profile) },
		},
		{
			name:  "variable layout without option",
			value: &Profile{Name: "", Tags: []uint16{7}},
			fresh: func() any { return new(Profile) },
		},
	}

	d := discriminator.Derive(discriminator.Account, "Whatever")
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf, err := Encode(tc.value, d)
			require.NoError(t, err)

			out := tc.fresh()
			require.NoError(t, DecodeInto(buf, d, out))
			assert.Equal(t, tc.value, out)
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	d := discriminator.Derive(discriminator.Account, "Escrow")
	v := &Escrow{Maker: testMaker, Amount: 5, Seed: 6, Bump: 7}

	buf, err := Encode(v, d)
	require.NoError(t, err)

	want := append([]byte{}, d[:]...)
	want = append(want, testMaker[:]...)
	want = binary.LittleEndian.AppendUint64(want, 5)
	want = binary.LittleEndian.AppendUint64(want, 6)
	want = append(want, 7)
	assert.Equal(t, want, buf)

	again, err := Encode(v, d)
	require.NoError(t, err)
	assert.Equal(t, buf, again, "encoding must be deterministic")
}

func TestDecodeAccountUsesTypeName(t *testing.T) {
	v := &Escrow{Maker: testMaker, Amount: 10}
	buf, err := EncodeAccount(v)
	require.NoError(t, err)
	assert.True(t, discriminator.Matches(buf, discriminator.Derive(discriminator.Account, "Escrow")))

	got, err := DecodeAccount[Escrow](buf)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestDecodeDiscriminatorMismatch(t *testing.T) {
	buf, err := Encode(&Other{Value: 1}, discriminator.Derive(discriminator.Account, "Other"))
	require.NoError(t, err)

	_, err = Decode[Mine](buf, discriminator.Derive(discriminator.Account, "Mine"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDiscriminatorMismatch))
	assert.False(t, errors.Is(err, ErrDeserialization))

	var mismatch *DiscriminatorMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, discriminator.Derive(discriminator.Account, "Mine"), mismatch.Expected)
	assert.Equal(t, discriminator.Derive(discriminator.Account, "Other"), mismatch.Observed)
	assert.Empty(t, mismatch.ObservedName)
}

func TestDecodeMismatchBeatsBodyErrors(t *testing.T) {
	// A body far too short for Escrow must still report the tag problem first.
	buf := append(discriminator.Derive(discriminator.Account, "Other").Bytes(), 1)

	_, err := DecodeAccount[Escrow](buf)
	assert.ErrorIs(t, err, ErrDiscriminatorMismatch)
}

func TestDecodeMismatchNamesObservedType(t *testing.T) {
	registry := discriminator.NewRegistry()
	_, err := registry.Register(discriminator.Account, "Other")
	require.NoError(t, err)

	buf, err := Encode(&Other{Value: 1}, discriminator.Derive(discriminator.Account, "Other"))
	require.NoError(t, err)

	_, err = DecodeAccount[Mine](buf, WithRegistry(registry))
	var mismatch *DiscriminatorMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "account:Other", mismatch.ObservedName)
	assert.Contains(t, err.Error(), "account:Other")
}

func TestDecodeTruncated(t *testing.T) {
	d := discriminator.Derive(discriminator.Account, "Escrow")

	_, err := Decode[Escrow](d.Bytes()[:5], d)
	var truncated *TruncatedBufferError
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, "discriminator", truncated.Section)
	assert.Equal(t, 5, truncated.Have)

	body := make([]byte, 20)
	_, err = Decode[Escrow](append(d.Bytes(), body...), d)
	require.ErrorAs(t, err, &truncated)
	assert.True(t, errors.Is(err, ErrTruncatedBuffer))
	assert.Equal(t, "body", truncated.Section)
	assert.Equal(t, 49, truncated.Need)
	assert.Equal(t, 20, truncated.Have)
}

func TestDecodeTrailingBytes(t *testing.T) {
	d := discriminator.Derive(discriminator.Account, "Mine")
	buf, err := Encode(&Mine{Value: 3}, d)
	require.NoError(t, err)

	_, err = Decode[Mine](append(buf, 0), d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeserialization))

	var deser *DeserializationError
	require.ErrorAs(t, err, &deser)
	assert.Equal(t, 1, deser.Trailing)
	assert.Equal(t, 8, deser.Offset)
}

func TestDecodeBadLengthPrefix(t *testing.T) {
	d := discriminator.Derive(discriminator.Account, "Profile")
	// Name claims 100 bytes but only 5 follow; the body still meets the 9-byte minimum.
	body := []byte{100, 0, 0, 0, 'a', 'b', 'c', 'd', 'e'}

	_, err := Decode[Profile](append(d.Bytes(), body...), d)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeserialization)
	assert.NotErrorIs(t, err, ErrTruncatedBuffer)
}

func TestDecodeUnchecked(t *testing.T) {
	raw, err := Marshal(&Mine{Value: 99})
	require.NoError(t, err)
	assert.Len(t, raw, 8)

	got, err := DecodeUnchecked[Mine](raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), got.Value)

	_, err = DecodeUnchecked[Mine](raw[:3])
	assert.ErrorIs(t, err, ErrTruncatedBuffer)

	_, err = DecodeUnchecked[Mine](append(raw, 1, 2))
	assert.ErrorIs(t, err, ErrDeserialization)
}

func TestDecodeIntoRequiresPointer(t *testing.T) {
	d := discriminator.Derive(discriminator.Account, "Mine")
	buf, err := Encode(&Mine{Value: 1}, d)
	require.NoError(t, err)

	err = DecodeInto(buf, d, Mine{})
	assert.ErrorIs(t, err, ErrDeserialization)
}

type withSkipped struct {
	A      uint16
	Cached uint64 `bin:"-"`
	hidden uint64
	B      [3]uint32
	C      *Mine `bin:"optional"`
	D      map[string]uint8
}

func TestMinSize(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want int
	}{
		{reflect.TypeOf(uint8(0)), 1},
		{reflect.TypeOf(int64(0)), 8},
		{reflect.TypeOf(""), 4},
		{reflect.TypeOf([]byte(nil)), 4},
		{reflect.TypeOf(solana.PublicKey{}), 32},
		{reflect.TypeOf(Escrow{}), 49},
		{reflect.TypeOf(Profile{}), 9},
		{reflect.TypeOf(withSkipped{}), 2 + 12 + 1 + 4},
	}
	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, MinSize(tc.typ))
		})
	}
}
