package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Refinements created with [Error.With] and [Error.Wrap] still satisfy
// errors.Is against the sentinel they were derived from.
var (
	ErrLex                   = NewError("no token matches input")
	ErrUnexpectedToken       = NewError("unexpected token")
	ErrUnterminatedConstruct = NewError("unterminated construct")
	ErrUnconsumedInput       = NewError("unconsumed input")
	ErrMaxDepthExceeded      = NewError("maximum nesting depth exceeded")
	ErrEmptyStack            = NewError("restore with no saved position")
	ErrReadInput             = NewError("failed to read input")

	ErrUndefinedVariable  = NewError("undefined variable")
	ErrTypeMismatch       = NewError("type mismatch")
	ErrConstRedeclaration = NewError("constant already declared")
	ErrVoidResult         = NewError("function returned no value")
	ErrInvalidOperator    = NewError("invalid operator")
	ErrInvalidNumber      = NewError("invalid number literal")
	ErrArgumentCount      = NewError("wrong number of arguments")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	base  *Error      // Sentinel this error was derived from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2+len(e.attrs))

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if detail := e.detail(); detail != "" {
		part = append(part, detail)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// detail renders string-valued attributes that identify the subject of the
// error, such as the offending name.
func (e *Error) detail() string {
	for _, a := range e.attrs {
		if a.Key == "name" {
			return strconv.Quote(a.Value.String())
		}
	}

	return ""
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// Attr returns the value of the attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range slices.Backward(e.attrs) {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		base:  e.root(),
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		base:  e.root(),
	}
}

// WithPosition attaches a source position to the error.
func (e *Error) WithPosition(pos Position) *Error {
	return e.With(
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
	)
}

// LexError reports input at which no token could be formed.
type LexError struct {
	Pos    Position
	Source string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return "lex error at " + e.Pos.String() + ": " + ErrLex.msg + snippet(e.Source, e.Pos)
}

// Unwrap returns [ErrLex].
func (e *LexError) Unwrap() error { return ErrLex }

// LogValue implements slog.LogValuer.
func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrLex.msg),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	)
}

// ParseError reports a failed parse of a token sequence.
type ParseError struct {
	Kind     *Error   // One of the parse sentinels
	Pos      Position // Position of the offending token (or end of input)
	Found    string   // Offending token text, empty at end of input
	Expected []string // Items that would have allowed the parse to continue
	Source   string   // The original source input, if known
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at ")
	buf.WriteString(e.Pos.String())
	buf.WriteString(": ")
	buf.WriteString(e.Kind.msg)

	if e.Found != "" {
		buf.WriteString(" ")
		buf.WriteString(strconv.Quote(e.Found))
	} else {
		buf.WriteString(" at end of input")
	}

	if exp := e.expected(); len(exp) > 0 {
		buf.WriteString(" (expected ")
		buf.WriteString(strings.Join(exp, ", "))
		buf.WriteString(")")
	}

	buf.WriteString(snippet(e.Source, e.Pos))

	return buf.String()
}

func (e *ParseError) expected() []string {
	exp := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		exp = append(exp, strconv.Quote(s))
	}

	slices.Sort(exp)

	return slices.Compact(exp)
}

// Unwrap returns the parse sentinel describing the failure.
func (e *ParseError) Unwrap() error { return e.Kind }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Kind.msg),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
		slog.String("found", e.Found),
		slog.Any("expected", e.expected()),
	)
}

// snippet renders the source line containing pos with a caret under the
// offending column. It returns an empty string if source is unknown.
func snippet(source string, pos Position) string {
	if source == "" {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	src.WriteString("\n  ")
	src.WriteString(strconv.Itoa(pos.Line))
	src.WriteString(" | ")
	src.WriteString(lines[pos.Line-1])
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(pos.Line))+5)
	if pos.Column > 0 {
		padding += strings.Repeat(" ", pos.Column-1)
	}

	src.WriteString(padding + "^")

	return src.String()
}
