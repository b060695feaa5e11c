package testing

import (
	"github.com/gagliardetto/solana-go"
)

//go:generate mockgen -destination=vmmock/vm.go -package=vmmock github.com/LeJamon/goAnchorSVM/internal/testing VM

// VM is the ledger virtual machine the harness drives. Execution semantics
// (fees, compute metering, signature verification) belong to the VM.
type VM interface {
	// Process executes a signed transaction. A transaction that runs and
	// fails is reported through Outcome.Err; the error return is reserved for
	// transactions the VM could not process at all.
	Process(tx *solana.Transaction) (*Outcome, error)

	// AccountData returns the data of the account at addr.
	AccountData(addr solana.PublicKey) ([]byte, bool)

	// LatestBlockhash returns the blockhash new transactions should use.
	LatestBlockhash() solana.Hash

	// AddProgram deploys an executable at id.
	AddProgram(id solana.PublicKey, elf []byte) error
}

// Outcome is the VM's report for one transaction.
type Outcome struct {
	// Err is the transaction error, empty on success.
	Err          string
	Logs         []string
	ComputeUnits uint64
	// ReturnProgram and ReturnData carry the transaction's return data, if any.
	ReturnProgram solana.PublicKey
	ReturnData    []byte
}
