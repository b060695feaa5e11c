package testing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/LeJamon/goAnchorSVM/internal/codec"
	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
	"github.com/LeJamon/goAnchorSVM/internal/idl"
	"github.com/LeJamon/goAnchorSVM/internal/instruction"
)

var (
	// ErrAccountNotFound is returned when the VM holds no account at an address.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNoInstructions is returned when a transaction would be empty.
	ErrNoInstructions = errors.New("no instructions to execute")
)

// Context drives one program under test on a VM. It owns the payer that
// signs every transaction and knows the program's instruction definitions.
type Context struct {
	t        testing.TB
	vm       VM
	program  instruction.Program
	payer    *Account
	registry *discriminator.Registry
	log      *zap.Logger
	deployed []solana.PublicKey
}

// Option configures a Context.
type Option func(*Context)

// WithPayer sets the fee payer. It defaults to NewAccount("payer").
func WithPayer(acc *Account) Option {
	return func(c *Context) {
		c.payer = acc
	}
}

// WithLogger replaces the test logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Context) {
		c.log = log
	}
}

// WithInstructions registers instruction definitions for Program.
func WithInstructions(defs ...*idl.InstructionDef) Option {
	return func(c *Context) {
		c.program = instruction.NewProgram(c.program.ID(), append(c.program.Definitions(), defs...)...)
	}
}

// WithIDL registers the instructions of doc and names its accounts and
// events in decode errors. The program address is kept.
func WithIDL(doc *idl.IDL) Option {
	return func(c *Context) {
		c.program = instruction.NewProgram(c.program.ID(), append(c.program.Definitions(), doc.Instructions...)...)
		if r, err := doc.Registry(); err == nil {
			c.registry = r
		} else {
			c.log.Warn("IDL discriminators collide, decode errors will not name types", zap.Error(err))
		}
	}
}

// WithRegistry names known types in decode errors.
func WithRegistry(r *discriminator.Registry) Option {
	return func(c *Context) {
		c.registry = r
	}
}

// NewContext returns a Context for programID, which must already be deployed on vm.
func NewContext(t testing.TB, vm VM, programID solana.PublicKey, opts ...Option) *Context {
	t.Helper()
	c := &Context{
		t:        t,
		vm:       vm,
		program:  instruction.NewProgram(programID),
		payer:    NewAccount("payer"),
		log:      zaptest.NewLogger(t),
		deployed: []solana.PublicKey{programID},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Program returns the instruction builder entry point for the primary program.
func (c *Context) Program() instruction.Program {
	return c.program
}

// ProgramID returns the primary program address.
func (c *Context) ProgramID() solana.PublicKey {
	return c.program.ID()
}

// Deployed returns the addresses of the programs deployed for this context,
// the primary program first.
func (c *Context) Deployed() []solana.PublicKey {
	return append([]solana.PublicKey(nil), c.deployed...)
}

// Payer returns the fee payer.
func (c *Context) Payer() *Account {
	return c.payer
}

// VM returns the underlying VM.
func (c *Context) VM() VM {
	return c.vm
}

// ExecuteInstruction executes ix in its own transaction, signed by the payer
// and signers. The test fails if the VM cannot process the transaction; a
// transaction that runs and fails is reported in the result.
func (c *Context) ExecuteInstruction(ix solana.Instruction, signers ...*Account) *TxResult {
	c.t.Helper()
	return c.Execute([]solana.Instruction{ix}, signers...)
}

// Execute executes ixs in one transaction. See ExecuteInstruction.
func (c *Context) Execute(ixs []solana.Instruction, signers ...*Account) *TxResult {
	c.t.Helper()
	result, err := c.Send(ixs, signers...)
	if err != nil {
		c.t.Fatalf("Failed to execute transaction: %v", err)
	}
	return result
}

// Send is Execute without failing the test.
func (c *Context) Send(ixs []solana.Instruction, signers ...*Account) (*TxResult, error) {
	if len(ixs) == 0 {
		return nil, ErrNoInstructions
	}

	tx, err := solana.NewTransaction(ixs, c.vm.LatestBlockhash(), solana.TransactionPayer(c.payer.PublicKey()))
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}
	keys := newSignerSet(append([]*Account{c.payer}, signers...)...)
	if _, err := tx.Sign(keys.lookup); err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	out, err := c.vm.Process(tx)
	if err != nil {
		return nil, fmt.Errorf("process transaction: %w", err)
	}

	result := newTxResult(tx.Signatures[0], out)
	c.log.Debug("Transaction executed",
		zap.Stringer("signature", result.Signature),
		zap.Int("instructions", len(ixs)),
		zap.Bool("success", result.IsSuccess()),
		zap.String("error", result.Error()),
		zap.Uint64("computeUnits", result.ComputeUnits()),
		zap.Int("logLines", len(result.logs)),
	)
	return result, nil
}

// AccountData returns the raw data of the account at addr.
func (c *Context) AccountData(addr solana.PublicKey) ([]byte, bool) {
	return c.vm.AccountData(addr)
}

// FetchAccount decodes the account at addr as T, checking T's account discriminator.
func FetchAccount[T any](c *Context, addr solana.PublicKey) (*T, error) {
	data, ok := c.vm.AccountData(addr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	acc, err := codec.DecodeAccount[T](data, codec.WithRegistry(c.registry))
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", addr, err)
	}
	return acc, nil
}

// FetchAccountUnchecked decodes the account at addr as T without a
// discriminator, for accounts with a caller-defined layout.
func FetchAccountUnchecked[T any](c *Context, addr solana.PublicKey) (*T, error) {
	data, ok := c.vm.AccountData(addr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	acc, err := codec.DecodeUnchecked[T](data)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", addr, err)
	}
	return acc, nil
}
