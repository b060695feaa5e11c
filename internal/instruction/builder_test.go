package instruction

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
	"github.com/LeJamon/goAnchorSVM/internal/idl"
)

var (
	programID = solana.MustPublicKeyFromBase58("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS")
	maker     = key(1)
	escrow    = key(2)
	mint      = key(3)
	referrer  = key(4)
)

func key(b byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = b
	pk[31] = b
	return pk
}

type Make struct {
	Seed    uint64
	Receive uint64
}

type renamedArgs struct {
	Amount uint64
}

func (renamedArgs) AnchorName() string { return "make" }

func makeDef() *idl.InstructionDef {
	return idl.NewInstruction("make",
		idl.Role("maker").AsSigner().AsWritable(),
		idl.Role("escrow").AsWritable(),
		idl.Role("mint_a"),
		idl.Role("referrer").AsOptional(),
		idl.Role("system_program").WithAddress(solana.SystemProgramID),
	)
}

func newProgram() Program {
	return NewProgram(programID, makeDef(), idl.NewInstruction("close"))
}

func fullRoles() Roles {
	return Roles{"mint_a": mint, "escrow": escrow, "maker": maker}
}

func makeData(seed, receive uint64) []byte {
	data := discriminator.Derive(discriminator.Global, "make").Bytes()
	data = binary.LittleEndian.AppendUint64(data, seed)
	return binary.LittleEndian.AppendUint64(data, receive)
}

func TestInstructionProjectsRolesInDeclaredOrder(t *testing.T) {
	ix, err := newProgram().Method("make").
		Accounts(fullRoles()).
		Args(Make{Seed: 7, Receive: 100}).
		Instruction()
	require.NoError(t, err)

	assert.Equal(t, programID, ix.ProgID)
	assert.Equal(t, makeData(7, 100), ix.DataBytes)

	want := solana.AccountMetaSlice{
		solana.NewAccountMeta(maker, true, true),
		solana.NewAccountMeta(escrow, true, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(programID, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	assert.Equal(t, want, ix.AccountValues)
}

func TestInstructionOptionalRoleSupplied(t *testing.T) {
	roles := fullRoles()
	roles["referrer"] = referrer

	ix, err := newProgram().Method("make").Accounts(roles).Args(Make{}).Instruction()
	require.NoError(t, err)
	assert.Equal(t, referrer, ix.AccountValues[3].PublicKey)
}

func TestInstructionFixedAddressCanBeOverridden(t *testing.T) {
	roles := fullRoles()
	roles["system_program"] = key(9)

	ix, err := newProgram().Method("make").Accounts(roles).Args(Make{}).Instruction()
	require.NoError(t, err)
	assert.Equal(t, key(9), ix.AccountValues[4].PublicKey)
}

func TestInstructionFlagsComeFromDefinition(t *testing.T) {
	// Whatever the caller intends, mint_a stays read-only and maker stays a signer.
	ix, err := newProgram().Method("make").Accounts(fullRoles()).Args(Make{}).Instruction()
	require.NoError(t, err)

	assert.True(t, ix.AccountValues[0].IsSigner)
	assert.False(t, ix.AccountValues[2].IsWritable)
	assert.False(t, ix.AccountValues[2].IsSigner)
}

func TestInstructionMissingRole(t *testing.T) {
	tests := []struct {
		name  string
		roles Roles
		want  string
	}{
		{"accounts never set", nil, "maker"},
		{"first absent in declared order", Roles{"mint_a": mint}, "maker"},
		{"later role absent", Roles{"maker": maker, "mint_a": mint}, "escrow"},
		{"last required role absent", Roles{"maker": maker, "escrow": escrow}, "mint_a"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newProgram().Method("make").Args(Make{})
			if tc.roles != nil {
				b.Accounts(tc.roles)
			}
			_, err := b.Instruction()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingAccountRole)

			var missing *MissingAccountRoleError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.want, missing.Role)
			assert.Equal(t, "make", missing.Instruction)
		})
	}
}

func TestInstructionRoleCheckPrecedesArgs(t *testing.T) {
	_, err := newProgram().Method("make").Instruction()
	assert.ErrorIs(t, err, ErrMissingAccountRole)
	assert.NotErrorIs(t, err, ErrArgsNotSet)

	_, err = newProgram().Method("make").Accounts(fullRoles()).Instruction()
	assert.ErrorIs(t, err, ErrArgsNotSet)
}

func TestInstructionUnexpectedRole(t *testing.T) {
	roles := fullRoles()
	roles["mint_b"] = key(7)

	_, err := newProgram().Method("make").Accounts(roles).Args(Make{}).Instruction()
	assert.ErrorIs(t, err, ErrUnexpectedRole)
	assert.Contains(t, err.Error(), "mint_b")
}

func TestInstructionUnknownMethod(t *testing.T) {
	_, err := newProgram().Method("nope").Args(NoArgs).Instruction()
	assert.ErrorIs(t, err, idl.ErrUnknownInstruction)
}

func TestInstructionNoArgs(t *testing.T) {
	ix, err := newProgram().Method("close").Args(NoArgs).Instruction()
	require.NoError(t, err)
	assert.Equal(t, discriminator.Derive(discriminator.Global, "close").Bytes(), ix.DataBytes)
	assert.Empty(t, ix.AccountValues)

	_, err = newProgram().Accounts(nil).Args(NoArgs).Instruction()
	assert.ErrorIs(t, err, ErrNoDefinition)
}

func TestInstructionInferredFromArgsType(t *testing.T) {
	ix, err := newProgram().Accounts(fullRoles()).Args(&Make{Seed: 1, Receive: 2}).Instruction()
	require.NoError(t, err)
	assert.Equal(t, makeData(1, 2), ix.DataBytes)

	ix, err = newProgram().Accounts(fullRoles()).Args(renamedArgs{Amount: 5}).Instruction()
	require.NoError(t, err)
	assert.Equal(t, discriminator.Derive(discriminator.Global, "make").Bytes(), ix.DataBytes[:8])

	_, err = newProgram().Accounts(fullRoles()).Instruction()
	assert.ErrorIs(t, err, ErrArgsNotSet)
}

func TestAccountsIdempotent(t *testing.T) {
	m := fullRoles()

	once, err := newProgram().Method("make").Accounts(m).Args(Make{Seed: 3}).Instruction()
	require.NoError(t, err)
	twice, err := newProgram().Method("make").Accounts(m).Accounts(m).Args(Make{Seed: 3}).Instruction()
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestBuilderOrderAndReuse(t *testing.T) {
	argsFirst, err := newProgram().Method("make").Args(Make{Seed: 3}).Accounts(fullRoles()).Instruction()
	require.NoError(t, err)

	b := newProgram().Method("make").Accounts(fullRoles()).Args(Make{Seed: 3})
	first, err := b.Instruction()
	require.NoError(t, err)
	again, err := b.Instruction()
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, argsFirst, first)

	second, err := b.Args(Make{Seed: 4}).Instruction()
	require.NoError(t, err)
	assert.Equal(t, makeData(3, 0), first.DataBytes)
	assert.Equal(t, makeData(4, 0), second.DataBytes)
}

func TestAccountsCopiesMapping(t *testing.T) {
	m := fullRoles()
	b := newProgram().Method("make").Accounts(m).Args(Make{})
	m["maker"] = key(42)

	ix, err := b.Instruction()
	require.NoError(t, err)
	assert.Equal(t, maker, ix.AccountValues[0].PublicKey)
}

func TestRemainingAccounts(t *testing.T) {
	extra := solana.NewAccountMeta(key(8), true, false)
	ix, err := newProgram().Method("make").
		Accounts(fullRoles()).
		RemainingAccounts(extra).
		Args(Make{}).
		Instruction()
	require.NoError(t, err)

	require.Len(t, ix.AccountValues, 6)
	assert.Equal(t, extra, ix.AccountValues[5])
	assert.NotSame(t, extra, ix.AccountValues[5])
}

func TestFromIDL(t *testing.T) {
	doc, err := idl.Load(filepath.Join("..", "idl", "testdata", "escrow.json"))
	require.NoError(t, err)

	program, err := FromIDL(doc)
	require.NoError(t, err)
	assert.Equal(t, "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS", program.ID().String())
	assert.Len(t, program.Definitions(), 2)

	ix, err := program.Method("take").Accounts(Roles{
		"taker":           maker,
		"vault.state":     key(5),
		"vault.authority": key(6),
		"escrow":          escrow,
	}).Args(NoArgs).Instruction()
	require.NoError(t, err)
	require.Len(t, ix.AccountValues, 4)
	assert.Equal(t, key(5), ix.AccountValues[1].PublicKey)
	assert.True(t, ix.AccountValues[1].IsWritable)

	rebound := program.WithID(key(10))
	assert.Equal(t, key(10), rebound.ID())
	assert.Equal(t, programID, program.ID())
}

func TestBuild(t *testing.T) {
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(maker, true, true),
		solana.NewAccountMeta(escrow, false, false),
	}
	ix, err := Build(programID, "make", metas, Make{Seed: 9, Receive: 10})
	require.NoError(t, err)

	d, ok := discriminator.FromBytes(ix.DataBytes)
	require.True(t, ok)
	assert.Equal(t, "8ae3e84ddfa660c5", d.String())
	assert.Equal(t, makeData(9, 10), ix.DataBytes)
	assert.Len(t, ix.AccountValues, 2)

	ix, err = Build(programID, "close", nil, nil)
	require.NoError(t, err)
	assert.Len(t, ix.DataBytes, 8)
}
