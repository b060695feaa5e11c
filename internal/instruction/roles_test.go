package instruction

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type makeAccounts struct {
	Maker         solana.PublicKey
	Escrow        solana.PublicKey
	Mint          solana.PublicKey `anchor:"mint_a"`
	Referrer      *solana.PublicKey
	SystemProgram *solana.PublicKey
	Note          string `anchor:"-"`
	cached        solana.PublicKey
}

func TestRolesFromStruct(t *testing.T) {
	ref := referrer
	roles, err := RolesFromStruct(&makeAccounts{
		Maker:    maker,
		Escrow:   escrow,
		Mint:     mint,
		Referrer: &ref,
		Note:     "ignored",
		cached:   key(99),
	})
	require.NoError(t, err)

	assert.Equal(t, Roles{
		"maker":    maker,
		"escrow":   escrow,
		"mint_a":   mint,
		"referrer": referrer,
	}, roles)

	ix, err := newProgram().Method("make").Accounts(roles).Args(Make{}).Instruction()
	require.NoError(t, err)
	assert.Equal(t, referrer, ix.AccountValues[3].PublicKey)
}

func TestRolesFromStructRejects(t *testing.T) {
	_, err := RolesFromStruct(42)
	assert.ErrorIs(t, err, ErrInvalidRoles)

	_, err = RolesFromStruct((*makeAccounts)(nil))
	assert.ErrorIs(t, err, ErrInvalidRoles)

	_, err = RolesFromStruct(struct{ Amount uint64 }{1})
	assert.ErrorIs(t, err, ErrInvalidRoles)
}
