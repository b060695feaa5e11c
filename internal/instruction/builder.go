// Package instruction assembles wire instructions for Anchor programs from a
// role-to-address mapping and an argument value.
//
// The positional account list always follows the instruction definition, so
// callers name accounts by role in any order:
//
//	ix, err := program.Method("make").
//	    Accounts(instruction.Roles{"maker": maker, "escrow": escrow}).
//	    Args(MakeArgs{Seed: 1, Receive: 10}).
//	    Instruction()
package instruction

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/gagliardetto/solana-go"

	"github.com/LeJamon/goAnchorSVM/internal/codec"
	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
	"github.com/LeJamon/goAnchorSVM/internal/idl"
)

// Roles maps role names to addresses. Iteration order is irrelevant.
type Roles map[string]solana.PublicKey

// Empty is the argument type of instructions that take no arguments.
type Empty struct{}

// NoArgs is passed to Args for instructions without arguments.
var NoArgs = Empty{}

// Program builds instructions for one deployed program.
type Program struct {
	id   solana.PublicKey
	defs []*idl.InstructionDef
}

// NewProgram returns a Program for id with the given instruction definitions.
func NewProgram(id solana.PublicKey, defs ...*idl.InstructionDef) Program {
	return Program{id: id, defs: defs}
}

// FromIDL returns a Program for the address and instructions of doc.
func FromIDL(doc *idl.IDL) (Program, error) {
	id, err := doc.ProgramID()
	if err != nil {
		return Program{}, err
	}
	return NewProgram(id, doc.Instructions...), nil
}

// ID returns the program address.
func (p Program) ID() solana.PublicKey {
	return p.id
}

// WithID returns a copy of p bound to another address.
func (p Program) WithID(id solana.PublicKey) Program {
	p.id = id
	return p
}

// Definitions returns the known instruction definitions.
func (p Program) Definitions() []*idl.InstructionDef {
	return p.defs
}

// Method starts a builder for the named instruction.
func (p Program) Method(name string) *Builder {
	return &Builder{program: p, method: name}
}

// Accounts starts a builder whose instruction is inferred from the Args type.
func (p Program) Accounts(roles Roles) *Builder {
	return (&Builder{program: p}).Accounts(roles)
}

func (p Program) lookup(name string) (*idl.InstructionDef, error) {
	for _, def := range p.defs {
		if def.Name == name {
			return def, nil
		}
	}
	snake := idl.SnakeCase(name)
	for _, def := range p.defs {
		if idl.SnakeCase(def.Name) == snake {
			return def, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", idl.ErrUnknownInstruction, name)
}

// Builder collects roles and arguments for one instruction. Validation is
// deferred to Instruction, so Accounts and Args may be called in any order,
// and the builder may be reused after Instruction.
type Builder struct {
	program   Program
	method    string
	roles     Roles
	remaining []*solana.AccountMeta
	args      any
	argsSet   bool
}

// Accounts replaces the role mapping. The mapping is copied.
func (b *Builder) Accounts(roles Roles) *Builder {
	b.roles = make(Roles, len(roles))
	for name, addr := range roles {
		b.roles[name] = addr
	}
	return b
}

// Args replaces the argument value. A nil value is treated as NoArgs.
func (b *Builder) Args(v any) *Builder {
	if v == nil {
		v = NoArgs
	}
	b.args = v
	b.argsSet = true
	return b
}

// RemainingAccounts sets metas appended after the declared accounts.
func (b *Builder) RemainingAccounts(metas ...*solana.AccountMeta) *Builder {
	b.remaining = make([]*solana.AccountMeta, 0, len(metas))
	for _, m := range metas {
		cp := *m
		b.remaining = append(b.remaining, &cp)
	}
	return b
}

// Instruction validates the builder and returns the wire instruction.
// Required roles are checked in declared order before the arguments.
func (b *Builder) Instruction() (*solana.GenericInstruction, error) {
	def, err := b.definition()
	if err != nil {
		return nil, err
	}

	metas, err := b.project(def)
	if err != nil {
		return nil, err
	}

	if !b.argsSet {
		return nil, fmt.Errorf("instruction %s: %w", def.Name, ErrArgsNotSet)
	}
	body, err := codec.Marshal(b.args)
	if err != nil {
		return nil, fmt.Errorf("instruction %s: %w", def.Name, err)
	}

	data := make([]byte, 0, discriminator.Size+len(body))
	data = append(data, def.Discriminator[:]...)
	data = append(data, body...)

	for _, m := range b.remaining {
		cp := *m
		metas = append(metas, &cp)
	}
	return solana.NewInstruction(b.program.id, metas, data), nil
}

func (b *Builder) definition() (*idl.InstructionDef, error) {
	if b.method != "" {
		return b.program.lookup(b.method)
	}
	if !b.argsSet {
		return nil, ErrArgsNotSet
	}
	if _, empty := b.args.(Empty); empty {
		return nil, fmt.Errorf("%w: use Method for instructions without arguments", ErrNoDefinition)
	}
	return b.program.lookup(argsName(b.args))
}

// project orders the mapping by the definition's roles. Absent optional
// roles take the program address; roles with a fixed address are filled in.
func (b *Builder) project(def *idl.InstructionDef) (solana.AccountMetaSlice, error) {
	metas := make(solana.AccountMetaSlice, 0, len(def.Accounts)+len(b.remaining))
	for _, role := range def.Accounts {
		addr, ok := b.roles[role.Name]
		switch {
		case ok:
			metas = append(metas, solana.NewAccountMeta(addr, role.Writable, role.Signer))
		case role.Address != nil:
			metas = append(metas, solana.NewAccountMeta(*role.Address, role.Writable, role.Signer))
		case role.Optional:
			metas = append(metas, solana.NewAccountMeta(b.program.id, false, false))
		default:
			return nil, &MissingAccountRoleError{Role: role.Name, Instruction: def.Name}
		}
	}

	var unknown []string
	for name := range b.roles {
		if _, ok := def.Role(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("instruction %s: %w %q", def.Name, ErrUnexpectedRole, unknown[0])
	}
	return metas, nil
}

// argsName resolves the instruction an argument value belongs to: an
// AnchorName method wins, otherwise the Go type name.
func argsName(v any) string {
	if named, ok := v.(discriminator.Named); ok {
		return named.AnchorName()
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Build assembles an instruction from explicit metas: the data is the
// "global:<name>" discriminator followed by the Borsh encoding of args.
func Build(programID solana.PublicKey, name string, metas []*solana.AccountMeta, args any) (*solana.GenericInstruction, error) {
	if args == nil {
		args = NoArgs
	}
	data, err := codec.Encode(args, discriminator.Derive(discriminator.Global, name))
	if err != nil {
		return nil, fmt.Errorf("instruction %s: %w", name, err)
	}
	return solana.NewInstruction(programID, metas, data), nil
}
