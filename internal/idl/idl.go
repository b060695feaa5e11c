// Package idl models a program's interface definition: the ordered account
// roles of each instruction with their signer/writable flags, and the names and
// discriminators of its accounts, events and errors.
//
// Definitions are usually loaded from the JSON IDL produced by `anchor build`
// (both the current format with explicit discriminators and the legacy format
// without them), but can also be declared in Go:
//
//	def := idl.NewInstruction("make",
//	    idl.Role("maker").AsSigner().AsWritable(),
//	    idl.Role("escrow").AsWritable(),
//	    idl.Role("system_program").WithAddress(solana.SystemProgramID),
//	)
package idl

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
)

var (
	// ErrUnknownInstruction is returned when an instruction name is not defined.
	ErrUnknownInstruction = errors.New("unknown instruction")

	// ErrUnknownType is returned when an account or event name is not defined.
	ErrUnknownType = errors.New("unknown type")

	// ErrInvalidIDL is returned when an IDL document cannot be interpreted.
	ErrInvalidIDL = errors.New("invalid IDL")
)

// IDL is the interface definition of one program.
type IDL struct {
	Address      string
	Name         string
	Version      string
	Instructions []*InstructionDef
	Accounts     []TypeDef
	Events       []TypeDef
	Errors       []ErrorDef
}

// InstructionDef describes one instruction's wire shape.
type InstructionDef struct {
	Name          string
	Discriminator discriminator.Discriminator
	// Accounts is the positional account list in declaration order.
	Accounts []AccountRole
	Args     []Field
}

// AccountRole is one named slot in an instruction's account list.
type AccountRole struct {
	Name     string
	Signer   bool
	Writable bool
	Optional bool
	// Address is set for roles bound to a fixed account, such as the system program.
	Address *solana.PublicKey
}

// Field is an instruction argument; Type keeps the raw IDL type expression.
type Field struct {
	Name string
	Type string
}

// TypeDef names an account or event type and its discriminator.
type TypeDef struct {
	Name          string
	Discriminator discriminator.Discriminator
}

// ErrorDef is a custom program error.
type ErrorDef struct {
	Code uint32
	Name string
	Msg  string
}

// NewInstruction declares an instruction whose discriminator is derived
// from "global:<name>".
func NewInstruction(name string, roles ...AccountRole) *InstructionDef {
	return &InstructionDef{
		Name:          name,
		Discriminator: discriminator.Derive(discriminator.Global, name),
		Accounts:      roles,
	}
}

// Role declares a read-only, non-signing account role.
func Role(name string) AccountRole {
	return AccountRole{Name: name}
}

// AsSigner marks the role as a required signer.
func (r AccountRole) AsSigner() AccountRole {
	r.Signer = true
	return r
}

// AsWritable marks the role as writable.
func (r AccountRole) AsWritable() AccountRole {
	r.Writable = true
	return r
}

// AsOptional marks the role as optional.
func (r AccountRole) AsOptional() AccountRole {
	r.Optional = true
	return r
}

// WithAddress binds the role to a fixed account.
func (r AccountRole) WithAddress(addr solana.PublicKey) AccountRole {
	r.Address = &addr
	return r
}

// Required reports whether a caller must supply this role.
func (r AccountRole) Required() bool {
	return !r.Optional && r.Address == nil
}

// Role returns the role with the given name.
func (d *InstructionDef) Role(name string) (AccountRole, bool) {
	for _, r := range d.Accounts {
		if r.Name == name {
			return r, true
		}
	}
	return AccountRole{}, false
}

// Instruction returns the named instruction definition.
func (i *IDL) Instruction(name string) (*InstructionDef, error) {
	for _, def := range i.Instructions {
		if def.Name == name {
			return def, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownInstruction, name)
}

// Account returns the named account type.
func (i *IDL) Account(name string) (TypeDef, error) {
	return findType(i.Accounts, "account", name)
}

// Event returns the named event type.
func (i *IDL) Event(name string) (TypeDef, error) {
	return findType(i.Events, "event", name)
}

func findType(defs []TypeDef, kind, name string) (TypeDef, error) {
	for _, def := range defs {
		if def.Name == name {
			return def, nil
		}
	}
	return TypeDef{}, fmt.Errorf("%w: %s %s", ErrUnknownType, kind, name)
}

// ErrorByName returns the custom error with the given name.
func (i *IDL) ErrorByName(name string) (ErrorDef, bool) {
	for _, e := range i.Errors {
		if e.Name == name {
			return e, true
		}
	}
	return ErrorDef{}, false
}

// ProgramID parses the IDL's address.
func (i *IDL) ProgramID() (solana.PublicKey, error) {
	if i.Address == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: no program address", ErrInvalidIDL)
	}
	pk, err := solana.PublicKeyFromBase58(i.Address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: address %q: %v", ErrInvalidIDL, i.Address, err)
	}
	return pk, nil
}

// Registry registers every instruction, account and event discriminator.
// It fails if two definitions share a discriminator.
func (i *IDL) Registry() (*discriminator.Registry, error) {
	r := discriminator.NewRegistry()
	for _, def := range i.Instructions {
		if _, err := r.RegisterExplicit(discriminator.Global, def.Name, def.Discriminator); err != nil {
			return nil, err
		}
	}
	for _, def := range i.Accounts {
		if _, err := r.RegisterExplicit(discriminator.Account, def.Name, def.Discriminator); err != nil {
			return nil, err
		}
	}
	for _, def := range i.Events {
		if _, err := r.RegisterExplicit(discriminator.Event, def.Name, def.Discriminator); err != nil {
			return nil, err
		}
	}
	return r, nil
}
