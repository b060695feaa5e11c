package testing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
)

// ErrNoProgram is returned by ContextBuilder.Build when nothing was deployed.
var ErrNoProgram = errors.New("no program deployed")

type deployment struct {
	id  solana.PublicKey
	elf []byte
}

// ContextBuilder deploys programs on a VM and returns a Context for the
// first one.
//
//	ctx, err := testing.NewContextBuilder(vm).
//	    DeployProgramFile(programID, "target/deploy/escrow.so").
//	    WithPayer(testing.NewAccount("maker")).
//	    Build(t)
type ContextBuilder struct {
	vm       VM
	programs []deployment
	cache    *ProgramCache
	opts     []Option
	err      error
}

// NewContextBuilder starts a builder for vm.
func NewContextBuilder(vm VM) *ContextBuilder {
	return &ContextBuilder{vm: vm}
}

// DeployProgram queues elf for deployment at id.
func (b *ContextBuilder) DeployProgram(id solana.PublicKey, elf []byte) *ContextBuilder {
	b.programs = append(b.programs, deployment{id: id, elf: elf})
	return b
}

// DeployProgramFile queues the program file at path for deployment at id.
// Files are read through the program cache.
func (b *ContextBuilder) DeployProgramFile(id solana.PublicKey, path string) *ContextBuilder {
	if b.err != nil {
		return b
	}
	cache := b.cache
	if cache == nil {
		cache = SharedProgramCache()
	}
	elf, err := cache.Load(path)
	if err != nil {
		b.err = err
		return b
	}
	return b.DeployProgram(id, elf)
}

// WithProgramCache replaces the shared program cache.
func (b *ContextBuilder) WithProgramCache(cache *ProgramCache) *ContextBuilder {
	b.cache = cache
	return b
}

// WithPayer sets the fee payer of the built context.
func (b *ContextBuilder) WithPayer(acc *Account) *ContextBuilder {
	b.opts = append(b.opts, WithPayer(acc))
	return b
}

// WithOptions adds context options.
func (b *ContextBuilder) WithOptions(opts ...Option) *ContextBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build deploys the queued programs in order and returns a Context whose
// primary program is the first one deployed.
func (b *ContextBuilder) Build(t testing.TB) (*Context, error) {
	t.Helper()
	if b.err != nil {
		return nil, b.err
	}
	if len(b.programs) == 0 {
		return nil, ErrNoProgram
	}

	ids := make([]solana.PublicKey, 0, len(b.programs))
	for _, p := range b.programs {
		if err := b.vm.AddProgram(p.id, p.elf); err != nil {
			return nil, fmt.Errorf("deploy program %s: %w", p.id, err)
		}
		ids = append(ids, p.id)
	}

	ctx := NewContext(t, b.vm, ids[0], b.opts...)
	ctx.deployed = ids
	ctx.log.Debug("Context ready")
	return ctx, nil
}
