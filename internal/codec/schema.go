package codec

import (
	"reflect"
	"strings"

	bin "github.com/gagliardetto/binary"
)

var (
	uint128Type       = reflect.TypeOf(bin.Uint128{})
	int128Type        = reflect.TypeOf(bin.Int128{})
	borshEnumType     = reflect.TypeOf(bin.BorshEnum(0))
	customDecoderType = reflect.TypeOf((*bin.BinaryUnmarshaler)(nil)).Elem()
)

// MinSize returns the smallest Borsh encoding of a value of type t: fixed
// fields at full width, length-prefixed collections as their 4-byte prefix,
// optional fields as their tag (1 byte, 4 for COption). Types with a custom
// decoder count as zero because their layout is opaque.
func MinSize(t reflect.Type) int {
	switch t {
	case uint128Type, int128Type:
		return 16
	}

	switch t.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int, reflect.Uint, reflect.Int64, reflect.Uint64, reflect.Float64:
		return 8
	case reflect.Array:
		return t.Len() * MinSize(t.Elem())
	case reflect.Slice, reflect.String, reflect.Map:
		return 4
	case reflect.Pointer:
		return MinSize(t.Elem())
	case reflect.Struct:
		if reflect.PointerTo(t).Implements(customDecoderType) {
			return 0
		}
		return structMinSize(t)
	default:
		return 0
	}
}

func structMinSize(t reflect.Type) int {
	total := 0
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		// Complex enums carry a one-byte variant tag followed by a single variant.
		if field.Type == borshEnumType && field.Tag.Get("borsh_enum") == "true" {
			return 1
		}
		tag := field.Tag.Get("bin")
		if tag == "-" {
			continue
		}
		if hasTagOption(tag, "optional") {
			total += 1
			continue
		}
		if hasTagOption(tag, "coption") {
			total += 4
			continue
		}
		total += MinSize(field.Type)
	}
	return total
}

func hasTagOption(tag, option string) bool {
	for _, part := range strings.Split(tag, " ") {
		if part == option {
			return true
		}
	}
	return false
}
