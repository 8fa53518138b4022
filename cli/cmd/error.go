package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/acs/lang"
)

// Error represents a CLI command error with structured logging support.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns an Error with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		msg := e.msg
		if src, ok := e.source(); ok {
			msg += " " + strconv.Quote(src)
		}

		part = append(part, msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// source returns the most recent "source" attribute.
func (e *Error) source() (string, bool) {
	for _, a := range slices.Backward(e.attrs) {
		if a.Key == "source" {
			return a.Value.String(), true
		}
	}

	return "", false
}

// Is reports whether target is an Error with the same message, so that
// refinements made with With and Wrap match their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.msg == e.msg && t.err == nil && len(t.attrs) == 0
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

var (
	ErrOpenSource    = NewError("open source")
	ErrParseSource   = NewError("parse source")
	ErrNoSource      = NewError("no source input")
	ErrDefine        = NewError("invalid definition")
	ErrInvalidFormat = NewError("invalid format")
	ErrYAMLMarshal   = NewError("marshal YAML")
	ErrWriteConfig   = NewError("write configuration file")
	ErrFileExists    = NewError("file exists (use --force to overwrite)")

	ErrDefineSyntax = NewError("expected name=expression")
	ErrDefineName   = NewError("name is not an identifier")
	ErrDefineType   = NewError("expression is not numeric")
)

func typeOf(v any) string {
	if v == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", v)
}

// maxSuggestions bounds the number of "did you mean" candidates.
const maxSuggestions = 3

// Suggest returns names visible in scope that resemble the undefined name
// reported by err, best match first. It returns nil for any other error.
func Suggest(err error, scope *lang.Scope) []string {
	if scope == nil || !errors.Is(err, lang.ErrUndefinedVariable) {
		return nil
	}

	var le *lang.Error
	if !errors.As(err, &le) {
		return nil
	}

	name, ok := le.Attr("name")
	if !ok {
		return nil
	}

	matches := fuzzy.Find(name.String(), scope.Names())

	var out []string

	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}

// hintError appends "did you mean" candidates to an error message.
type hintError struct {
	err   error
	names []string
}

func (e *hintError) Error() string {
	return e.err.Error() + " (did you mean " + strings.Join(e.names, ", ") + "?)"
}

func (e *hintError) Unwrap() error { return e.err }

func (e *hintError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("error", e.err),
		slog.Any("suggestions", e.names),
	)
}

// withSuggestions attaches "did you mean" candidates for undefined names.
func withSuggestions(err error, scope *lang.Scope) error {
	if names := Suggest(err, scope); len(names) > 0 {
		return &hintError{err: err, names: names}
	}

	return err
}
