// Package logs interprets the log lines a Solana-compatible runtime records
// while executing a transaction, and extracts the structured data emissions
// of one program from the flat stream.
package logs

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// Runtime log prefixes, matched literally.
const (
	prefixProgram   = "Program "
	prefixLog       = "Program log: "
	prefixData      = "Program data: "
	prefixReturn    = "Program return: "
	lineTruncated   = "Log truncated"
	suffixSuccess   = "success"
	prefixFailed    = "failed: "
	prefixInvoke    = "invoke ["
	prefixConsumed  = "consumed "
	computeUnitsTag = " compute units"
)

// ErrMalformedLine is returned for lines with a recognised shape but
// unparseable contents.
var ErrMalformedLine = errors.New("malformed log line")

// Kind classifies a log line.
type Kind int

const (
	KindText Kind = iota
	KindInvoke
	KindSuccess
	KindFailure
	KindData
	KindLog
	KindConsumed
	KindReturn
	KindTruncated
)

var kindNames = [...]string{
	KindText:      "text",
	KindInvoke:    "invoke",
	KindSuccess:   "success",
	KindFailure:   "failure",
	KindData:      "data",
	KindLog:       "log",
	KindConsumed:  "consumed",
	KindReturn:    "return",
	KindTruncated: "truncated",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Line is one parsed log line.
type Line struct {
	Kind Kind
	// Program is set for invoke, success, failure, consumed and return lines.
	Program solana.PublicKey
	// Depth is the invocation depth of an invoke line, starting at 1.
	Depth int
	// Payload holds the decoded bytes of data and return lines. Multiple
	// base64 fields on one data line are concatenated.
	Payload []byte
	// Message is the text of log lines and the reason of failure lines.
	Message  string
	Consumed uint64
	Budget   uint64
	Raw      string
}

// ParseLine classifies raw. Lines that match no known shape are KindText.
func ParseLine(raw string) (Line, error) {
	line := Line{Kind: KindText, Raw: raw}

	switch {
	case raw == lineTruncated:
		line.Kind = KindTruncated
		return line, nil
	case strings.HasPrefix(raw, prefixLog):
		line.Kind = KindLog
		line.Message = raw[len(prefixLog):]
		return line, nil
	case strings.HasPrefix(raw, prefixData):
		payload, err := decodeFields(strings.Fields(raw[len(prefixData):]))
		if err != nil {
			return line, err
		}
		line.Kind = KindData
		line.Payload = payload
		return line, nil
	case strings.HasPrefix(raw, prefixReturn):
		fields := strings.Fields(raw[len(prefixReturn):])
		if len(fields) != 2 {
			return line, fmt.Errorf("%w: return line needs program and data: %q", ErrMalformedLine, raw)
		}
		program, err := parseProgram(fields[0])
		if err != nil {
			return line, err
		}
		payload, err := decodeFields(fields[1:])
		if err != nil {
			return line, err
		}
		line.Kind = KindReturn
		line.Program = program
		line.Payload = payload
		return line, nil
	case !strings.HasPrefix(raw, prefixProgram):
		return line, nil
	}

	id, tail, ok := strings.Cut(raw[len(prefixProgram):], " ")
	if !ok {
		return line, nil
	}

	switch {
	case strings.HasPrefix(tail, prefixInvoke) && strings.HasSuffix(tail, "]"):
		depth, err := strconv.Atoi(tail[len(prefixInvoke) : len(tail)-1])
		if err != nil || depth < 1 {
			return line, fmt.Errorf("%w: invoke depth in %q", ErrMalformedLine, raw)
		}
		line.Kind = KindInvoke
		line.Depth = depth
	case tail == suffixSuccess:
		line.Kind = KindSuccess
	case strings.HasPrefix(tail, prefixFailed):
		line.Kind = KindFailure
		line.Message = tail[len(prefixFailed):]
	case strings.HasPrefix(tail, prefixConsumed) && strings.HasSuffix(tail, computeUnitsTag):
		used, budget, err := parseConsumed(tail)
		if err != nil {
			return line, fmt.Errorf("%w: %q: %v", ErrMalformedLine, raw, err)
		}
		line.Kind = KindConsumed
		line.Consumed = used
		line.Budget = budget
	default:
		// "Program is not deployed", "Program consumption: ...", and similar.
		return line, nil
	}

	program, err := parseProgram(id)
	if err != nil {
		line.Kind = KindText
		return line, err
	}
	line.Program = program
	return line, nil
}

func parseProgram(s string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: program id %q: %v", ErrMalformedLine, s, err)
	}
	return pk, nil
}

// parseConsumed reads "consumed <n> of <m> compute units".
func parseConsumed(tail string) (uint64, uint64, error) {
	fields := strings.Fields(strings.TrimSuffix(tail, computeUnitsTag))
	if len(fields) != 4 || fields[2] != "of" {
		return 0, 0, fmt.Errorf("unexpected consumption format")
	}
	used, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	budget, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return used, budget, nil
}

func decodeFields(fields []string) ([]byte, error) {
	var out []byte
	for _, f := range fields {
		b, err := base64.StdEncoding.DecodeString(f)
		if err != nil {
			return nil, fmt.Errorf("%w: base64 payload %q: %v", ErrMalformedLine, f, err)
		}
		out = append(out, b...)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}
