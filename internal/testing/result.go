package testing

import (
	"fmt"
	"io"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/LeJamon/goAnchorSVM/internal/logs"
)

// TxResult represents the result of executing a transaction. It is an
// immutable snapshot of the VM's outcome.
type TxResult struct {
	// Signature is the transaction's first signature.
	Signature solana.Signature

	err          string
	logs         []string
	computeUnits uint64

	returnProgram solana.PublicKey
	returnData    []byte
}

func newTxResult(sig solana.Signature, out *Outcome) *TxResult {
	r := &TxResult{Signature: sig}
	if out == nil {
		return r
	}
	r.err = out.Err
	r.logs = append([]string(nil), out.Logs...)
	r.computeUnits = out.ComputeUnits
	r.returnProgram = out.ReturnProgram
	r.returnData = append([]byte(nil), out.ReturnData...)
	return r
}

// IsSuccess returns true if the transaction executed without error.
func (r *TxResult) IsSuccess() bool {
	return r.err == ""
}

// Error returns the transaction error, or "" on success.
func (r *TxResult) Error() string {
	return r.err
}

// Logs returns a copy of the execution log lines.
func (r *TxResult) Logs() []string {
	return append([]string(nil), r.logs...)
}

// HasLog reports whether any log line contains substr.
func (r *TxResult) HasLog(substr string) bool {
	_, ok := r.FindLog(substr)
	return ok
}

// FindLog returns the first log line containing substr.
func (r *TxResult) FindLog(substr string) (string, bool) {
	for _, line := range r.logs {
		if strings.Contains(line, substr) {
			return line, true
		}
	}
	return "", false
}

// ComputeUnits returns the compute units the VM charged.
func (r *TxResult) ComputeUnits() uint64 {
	return r.computeUnits
}

// ReturnData returns the data set by program, preferring the VM's report
// and falling back to the "Program return:" log lines.
func (r *TxResult) ReturnData(program solana.PublicKey) ([]byte, bool) {
	if r.returnData != nil && r.returnProgram == program {
		return append([]byte(nil), r.returnData...), true
	}
	data, ok, err := logs.ReturnData(r.logs, program)
	if err != nil {
		return nil, false
	}
	return data, ok
}

// PrintLogs writes the numbered log lines to w.
func (r *TxResult) PrintLogs(w io.Writer) {
	fmt.Fprintf(w, "=== transaction %s ===\n", r.status())
	for i, line := range r.logs {
		fmt.Fprintf(w, "  %3d  %s\n", i, line)
	}
	fmt.Fprintf(w, "=== %d compute units ===\n", r.computeUnits)
}

func (r *TxResult) status() string {
	if r.IsSuccess() {
		return "succeeded"
	}
	return "failed: " + r.err
}

// String implements the Stringer interface for debugging.
func (r *TxResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TxResult{%s, %d CU, %d logs", r.status(), r.computeUnits, len(r.logs))
	if r.Signature != (solana.Signature{}) {
		fmt.Fprintf(&b, ", sig %s", r.Signature)
	}
	b.WriteString("}")
	return b.String()
}
