package logs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ErrLogStreamCorrupt indicates the invocation markers of a log stream do not
// describe a well-formed call tree.
var ErrLogStreamCorrupt = errors.New("log stream corrupt")

// CorruptError locates the first inconsistency in a log stream. Line is the
// zero-based index of the offending line, or the stream length when the
// stream ends with invocations still open.
type CorruptError struct {
	Line   int
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *CorruptError) Error() string {
	return fmt.Sprintf("log stream corrupt at line %d: %s", e.Line, e.Reason)
}

// Unwrap returns the underlying parse error, if any.
func (e *CorruptError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is(err, ErrLogStreamCorrupt).
func (e *CorruptError) Is(target error) bool {
	return target == ErrLogStreamCorrupt
}

// Frame is a parsed line together with the invocation it was logged under.
type Frame struct {
	Index int
	Line  Line
	// Caller is the program on top of the stack when the line was logged,
	// after applying invoke lines and before applying success/failure lines.
	Caller solana.PublicKey
	// Depth is the stack depth at the same moment; zero outside any invocation.
	Depth int
}

// walker tracks the invocation stack across lines.
type walker struct {
	stack     []solana.PublicKey
	truncated bool
}

func (w *walker) step(index int, raw string) (Frame, error) {
	line, err := ParseLine(raw)
	if err != nil {
		return Frame{}, &CorruptError{Line: index, Reason: "undecodable line", Cause: err}
	}

	switch line.Kind {
	case KindInvoke:
		if want := len(w.stack) + 1; line.Depth != want {
			return Frame{}, &CorruptError{
				Line:   index,
				Reason: fmt.Sprintf("invoke of %s at depth %d, expected depth %d", line.Program, line.Depth, want),
			}
		}
		w.stack = append(w.stack, line.Program)
		return w.frame(index, line), nil

	case KindSuccess, KindFailure:
		if len(w.stack) == 0 {
			return Frame{}, &CorruptError{
				Line:   index,
				Reason: fmt.Sprintf("%s of %s without a matching invoke", line.Kind, line.Program),
			}
		}
		top := w.stack[len(w.stack)-1]
		if top != line.Program {
			return Frame{}, &CorruptError{
				Line:   index,
				Reason: fmt.Sprintf("%s of %s while %s is executing", line.Kind, line.Program, top),
			}
		}
		f := w.frame(index, line)
		w.stack = w.stack[:len(w.stack)-1]
		return f, nil

	case KindData:
		if len(w.stack) == 0 {
			return Frame{}, &CorruptError{Line: index, Reason: "data emission outside any invocation"}
		}

	case KindTruncated:
		w.truncated = true
	}
	return w.frame(index, line), nil
}

func (w *walker) frame(index int, line Line) Frame {
	f := Frame{Index: index, Line: line, Depth: len(w.stack)}
	if n := len(w.stack); n > 0 {
		f.Caller = w.stack[n-1]
	}
	return f
}

// finish reports invocations left open at the end of the stream. A stream
// cut short by the runtime is expected to end unbalanced.
func (w *walker) finish(end int) error {
	if w.truncated || len(w.stack) == 0 {
		return nil
	}
	return &CorruptError{
		Line:   end,
		Reason: fmt.Sprintf("stream ended with %d open invocations, innermost %s", len(w.stack), w.stack[len(w.stack)-1]),
	}
}

// Scanner yields the data emissions of one program in a single pass.
//
//	s := logs.NewScanner(result.Logs(), programID)
//	for s.Next() {
//	    handle(s.Payload())
//	}
//	if err := s.Err(); err != nil { ... }
//
// Emissions made by programs the target invokes, or by programs invoking the
// target, are not yielded. Payloads yielded before a corruption stay valid.
type Scanner struct {
	lines   []string
	target  solana.PublicKey
	pos     int
	w       walker
	payload []byte
	err     error
	done    bool
}

// NewScanner returns a scanner over lines for target.
func NewScanner(lines []string, target solana.PublicKey) *Scanner {
	return &Scanner{lines: lines, target: target}
}

// Next advances to the next emission of the target program. It returns
// false at the end of the stream or on the first inconsistency.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}
	s.payload = nil
	for s.pos < len(s.lines) {
		index := s.pos
		s.pos++

		f, err := s.w.step(index, s.lines[index])
		if err != nil {
			return s.stop(err)
		}
		if f.Line.Kind == KindTruncated {
			return s.stop(nil)
		}
		if f.Line.Kind == KindData && f.Caller == s.target {
			s.payload = f.Line.Payload
			return true
		}
	}
	return s.stop(s.w.finish(len(s.lines)))
}

func (s *Scanner) stop(err error) bool {
	s.done = true
	s.err = err
	s.payload = nil
	return false
}

// Payload returns the emission found by the last successful Next.
func (s *Scanner) Payload() []byte {
	return s.payload
}

// Err returns the corruption that stopped the scan, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Collect returns every emission of target. On corruption it returns the
// emissions found before the corrupt line together with the error.
func Collect(lines []string, target solana.PublicKey) ([][]byte, error) {
	s := NewScanner(lines, target)
	out := [][]byte{}
	for s.Next() {
		out = append(out, s.Payload())
	}
	return out, s.Err()
}

// Trace parses every line and attributes it to the invocation it was logged
// under. On corruption it returns the frames before the corrupt line.
func Trace(lines []string) ([]Frame, error) {
	var w walker
	frames := make([]Frame, 0, len(lines))
	for i, raw := range lines {
		f, err := w.step(i, raw)
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
		if f.Line.Kind == KindTruncated {
			return frames, nil
		}
	}
	return frames, w.finish(len(lines))
}

// ReturnData returns the last return data recorded for program.
func ReturnData(lines []string, program solana.PublicKey) ([]byte, bool, error) {
	var (
		data  []byte
		found bool
	)
	for i, raw := range lines {
		if !strings.HasPrefix(raw, prefixReturn) {
			continue
		}
		line, err := ParseLine(raw)
		if err != nil {
			return nil, false, &CorruptError{Line: i, Reason: "undecodable return data", Cause: err}
		}
		if line.Program == program {
			data, found = line.Payload, true
		}
	}
	return data, found, nil
}

// Consumed returns the compute units reported for the top-level invocations
// of program, summed.
func Consumed(lines []string, program solana.PublicKey) (uint64, bool) {
	frames, _ := Trace(lines)
	var (
		total uint64
		found bool
	)
	for _, f := range frames {
		if f.Line.Kind == KindConsumed && f.Line.Program == program && f.Depth == 1 {
			total += f.Line.Consumed
			found = true
		}
	}
	return total, found
}

// Truncated reports whether the runtime cut the log stream short.
func Truncated(lines []string) bool {
	for _, raw := range lines {
		if raw == lineTruncated {
			return true
		}
	}
	return false
}
