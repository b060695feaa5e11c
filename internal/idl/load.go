package idl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/gagliardetto/solana-go"

	"github.com/LeJamon/goAnchorSVM/internal/discriminator"
)

type rawIDL struct {
	Address      string           `json:"address"`
	Name         string           `json:"name"`
	Version      string           `json:"version"`
	Metadata     rawMetadata      `json:"metadata"`
	Instructions []rawInstruction `json:"instructions"`
	Accounts     []rawTypeDef     `json:"accounts"`
	Events       []rawTypeDef     `json:"events"`
	Errors       []rawError       `json:"errors"`
}

type rawMetadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	// Legacy IDLs keep the program address here.
	Address string `json:"address"`
}

type rawInstruction struct {
	Name          string           `json:"name"`
	Discriminator []int            `json:"discriminator"`
	Accounts      []rawAccountItem `json:"accounts"`
	Args          []rawField       `json:"args"`
}

type rawAccountItem struct {
	Name     string `json:"name"`
	Writable bool   `json:"writable"`
	Signer   bool   `json:"signer"`
	Optional bool   `json:"optional"`
	Address  string `json:"address"`

	IsMut      bool `json:"isMut"`
	IsSigner   bool `json:"isSigner"`
	IsOptional bool `json:"isOptional"`

	Accounts []rawAccountItem `json:"accounts"`
}

type rawField struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type rawTypeDef struct {
	Name          string `json:"name"`
	Discriminator []int  `json:"discriminator"`
}

type rawError struct {
	Code uint32 `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

// Load reads and parses an IDL file.
func Load(path string) (*IDL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read IDL %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse interprets an Anchor IDL JSON document. Missing discriminators are
// derived from names the way the Anchor toolchain does; nested account groups
// are flattened into "group.child" roles.
func Parse(data []byte) (*IDL, error) {
	var raw rawIDL
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDL, err)
	}

	doc := &IDL{
		Address: firstNonEmpty(raw.Address, raw.Metadata.Address),
		Name:    firstNonEmpty(raw.Metadata.Name, raw.Name),
		Version: firstNonEmpty(raw.Metadata.Version, raw.Version),
	}

	for _, ri := range raw.Instructions {
		if ri.Name == "" {
			return nil, fmt.Errorf("%w: instruction without a name", ErrInvalidIDL)
		}
		d, err := resolveDiscriminator(ri.Discriminator, discriminator.Global, SnakeCase(ri.Name))
		if err != nil {
			return nil, fmt.Errorf("instruction %s: %w", ri.Name, err)
		}
		def := &InstructionDef{Name: ri.Name, Discriminator: d}
		if err := flattenAccounts(&def.Accounts, "", ri.Accounts); err != nil {
			return nil, fmt.Errorf("instruction %s: %w", ri.Name, err)
		}
		for _, arg := range ri.Args {
			def.Args = append(def.Args, Field{Name: arg.Name, Type: typeExpr(arg.Type)})
		}
		doc.Instructions = append(doc.Instructions, def)
	}

	var err error
	if doc.Accounts, err = resolveTypes(raw.Accounts, discriminator.Account); err != nil {
		return nil, err
	}
	if doc.Events, err = resolveTypes(raw.Events, discriminator.Event); err != nil {
		return nil, err
	}
	for _, e := range raw.Errors {
		doc.Errors = append(doc.Errors, ErrorDef(e))
	}
	return doc, nil
}

func flattenAccounts(out *[]AccountRole, prefix string, items []rawAccountItem) error {
	for _, item := range items {
		name := prefix + item.Name
		if len(item.Accounts) > 0 {
			if err := flattenAccounts(out, name+".", item.Accounts); err != nil {
				return err
			}
			continue
		}
		role := AccountRole{
			Name:     name,
			Signer:   item.Signer || item.IsSigner,
			Writable: item.Writable || item.IsMut,
			Optional: item.Optional || item.IsOptional,
		}
		if item.Address != "" {
			pk, err := solana.PublicKeyFromBase58(item.Address)
			if err != nil {
				return fmt.Errorf("%w: role %s address %q: %v", ErrInvalidIDL, name, item.Address, err)
			}
			role.Address = &pk
		}
		*out = append(*out, role)
	}
	return nil
}

func resolveTypes(defs []rawTypeDef, ns discriminator.Namespace) ([]TypeDef, error) {
	out := make([]TypeDef, 0, len(defs))
	for _, def := range defs {
		d, err := resolveDiscriminator(def.Discriminator, ns, def.Name)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", ns, def.Name, err)
		}
		out = append(out, TypeDef{Name: def.Name, Discriminator: d})
	}
	return out, nil
}

func resolveDiscriminator(explicit []int, ns discriminator.Namespace, name string) (discriminator.Discriminator, error) {
	if len(explicit) == 0 {
		return discriminator.Derive(ns, name), nil
	}
	var d discriminator.Discriminator
	if len(explicit) != discriminator.Size {
		return d, fmt.Errorf("%w: discriminator has %d bytes, want %d", ErrInvalidIDL, len(explicit), discriminator.Size)
	}
	for i, b := range explicit {
		if b < 0 || b > 0xff {
			return d, fmt.Errorf("%w: discriminator byte %d out of range: %d", ErrInvalidIDL, i, b)
		}
		d[i] = byte(b)
	}
	return d, nil
}

// typeExpr renders a type expression: plain names unquoted, compound types
// as compact JSON.
func typeExpr(raw json.RawMessage) string {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// SnakeCase converts a camelCase or PascalCase identifier to snake_case, the
// form Anchor derives instruction discriminators from.
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
