package testing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goAnchorSVM/internal/events"
	"github.com/LeJamon/goAnchorSVM/internal/idl"
)

// RequireTxSuccess asserts that a transaction result indicates success.
// The logs are included in the failure message.
func RequireTxSuccess(t testing.TB, result *TxResult) {
	t.Helper()
	require.True(t, result.IsSuccess(),
		"Expected transaction success, got %s\n%s", result.Error(), strings.Join(result.logs, "\n"))
}

// RequireTxFailure asserts that a transaction result indicates failure.
func RequireTxFailure(t testing.TB, result *TxResult) {
	t.Helper()
	require.False(t, result.IsSuccess(),
		"Expected transaction failure, but transaction succeeded")
}

// RequireTxError asserts that a transaction failed with an error containing substr.
func RequireTxError(t testing.TB, result *TxResult, substr string) {
	t.Helper()
	RequireTxFailure(t, result)
	require.Contains(t, result.Error(), substr,
		"Expected transaction error containing %q, got %q", substr, result.Error())
}

// RequireErrorCode asserts that a transaction failed with the given custom
// program error code.
func RequireErrorCode(t testing.TB, result *TxResult, code uint32) {
	t.Helper()
	RequireTxError(t, result, fmt.Sprintf("custom program error: 0x%x", code))
}

// RequireAnchorError asserts that the program logged an Anchor error with
// the given error name.
func RequireAnchorError(t testing.TB, result *TxResult, name string) {
	t.Helper()
	RequireTxFailure(t, result)
	require.True(t, result.HasLog("Error Code: "+name+"."),
		"Expected Anchor error %s in logs\n%s", name, strings.Join(result.logs, "\n"))
}

// RequireIDLError asserts that a transaction failed with the error named in doc,
// checking both the custom error code and the logged error name.
func RequireIDLError(t testing.TB, result *TxResult, doc *idl.IDL, name string) {
	t.Helper()
	def, ok := doc.ErrorByName(name)
	require.True(t, ok, "IDL %s has no error %s", doc.Name, name)
	RequireErrorCode(t, result, def.Code)
	RequireAnchorError(t, result, name)
}

// RequireLog asserts that some log line contains substr.
func RequireLog(t testing.TB, result *TxResult, substr string) {
	t.Helper()
	require.True(t, result.HasLog(substr),
		"Expected a log line containing %q\n%s", substr, strings.Join(result.logs, "\n"))
}

// RequireEventEmitted asserts that program emitted an event of type T and
// returns the first one.
func RequireEventEmitted[T any](t testing.TB, result *TxResult, program solana.PublicKey) *T {
	t.Helper()
	ev, err := events.AssertEmitted[T](result.logs, program)
	require.NoError(t, err)
	return ev
}

// RequireNoEvent asserts that program did not emit an event of type T.
func RequireNoEvent[T any](t testing.TB, result *TxResult, program solana.PublicKey) {
	t.Helper()
	found, err := events.Has[T](result.logs, program)
	require.NoError(t, err)
	require.False(t, found, "Expected no %T event from %s", *new(T), program)
}

// RequireAccount fetches and decodes the account at addr, failing the test
// if it is missing or not a T.
func RequireAccount[T any](t testing.TB, c *Context, addr solana.PublicKey) *T {
	t.Helper()
	acc, err := FetchAccount[T](c, addr)
	require.NoError(t, err)
	return acc
}

// RequireAccountNotExists asserts that the VM holds no account at addr.
func RequireAccountNotExists(t testing.TB, c *Context, addr solana.PublicKey) {
	t.Helper()
	_, ok := c.AccountData(addr)
	require.False(t, ok, "Expected account %s to not exist, but it does", addr)
}

// RequireComputeUnitsBelow asserts that the transaction used fewer than max compute units.
func RequireComputeUnitsBelow(t testing.TB, result *TxResult, max uint64) {
	t.Helper()
	require.Less(t, result.ComputeUnits(), max,
		"Transaction used %d compute units, limit %d", result.ComputeUnits(), max)
}
