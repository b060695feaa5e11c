package instruction

import (
	"fmt"
	"reflect"

	"github.com/gagliardetto/solana-go"

	"github.com/LeJamon/goAnchorSVM/internal/idl"
)

var (
	publicKeyType    = reflect.TypeOf(solana.PublicKey{})
	publicKeyPtrType = reflect.TypeOf(&solana.PublicKey{})
)

// RolesFromStruct converts a struct of addresses into Roles. Each exported
// solana.PublicKey field becomes a role named by its `anchor` tag, or by the
// snake_case field name when untagged. Nil *solana.PublicKey fields are
// omitted so optional roles can be left out. Fields tagged `anchor:"-"` are
// skipped.
//
//	type MakeAccounts struct {
//	    Maker    solana.PublicKey
//	    Escrow   solana.PublicKey
//	    MintA    solana.PublicKey  `anchor:"mint_a"`
//	    Referrer *solana.PublicKey
//	}
func RolesFromStruct(v any) (Roles, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil pointer", ErrInvalidRoles)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not a struct", ErrInvalidRoles, v)
	}

	rt := rv.Type()
	roles := make(Roles, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("anchor")
		if name == "-" {
			continue
		}
		if name == "" {
			name = idl.SnakeCase(field.Name)
		}

		fv := rv.Field(i)
		switch field.Type {
		case publicKeyType:
			roles[name] = fv.Interface().(solana.PublicKey)
		case publicKeyPtrType:
			if !fv.IsNil() {
				roles[name] = *fv.Interface().(*solana.PublicKey)
			}
		default:
			return nil, fmt.Errorf("%w: field %s has type %s", ErrInvalidRoles, field.Name, field.Type)
		}
	}
	return roles, nil
}
