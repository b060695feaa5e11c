package instruction

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAccountRole is returned when a required role has no address.
	ErrMissingAccountRole = errors.New("missing account role")

	// ErrUnexpectedRole is returned when the mapping names a role the
	// instruction does not declare.
	ErrUnexpectedRole = errors.New("unexpected account role")

	// ErrArgsNotSet is returned when Instruction is called before Args.
	ErrArgsNotSet = errors.New("no instruction data provided: call Args before Instruction")

	// ErrNoDefinition is returned when the builder cannot tell which
	// instruction it is building.
	ErrNoDefinition = errors.New("no instruction definition")

	// ErrInvalidRoles is returned by RolesFromStruct for unsupported inputs.
	ErrInvalidRoles = errors.New("invalid role struct")
)

// MissingAccountRoleError names the first required role absent from the mapping.
type MissingAccountRoleError struct {
	Role        string
	Instruction string
}

// Error implements the error interface.
func (e *MissingAccountRoleError) Error() string {
	return fmt.Sprintf("instruction %s: missing account role %q", e.Instruction, e.Role)
}

// Is allows errors.Is(err, ErrMissingAccountRole).
func (e *MissingAccountRoleError) Is(target error) bool {
	return target == ErrMissingAccountRole
}
