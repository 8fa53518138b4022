package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/acs/lang"
)

// nativeParams names the parameters of the builtin natives, which carry no
// parameter list of their own. A leading "..." marks a variadic parameter.
var nativeParams = map[string][]string{
	"sqrt":  {"x"},
	"abs":   {"x"},
	"floor": {"x"},
	"ceil":  {"x"},
	"round": {"x"},
	"pow":   {"x", "y"},
	"hypot": {"p", "q"},
	"min":   {"x", "...xs"},
	"max":   {"x", "...xs"},
	"print": {"...args"},
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the call whose argument list holds the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call surrounding cursor
// and the index of the argument being typed.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	open := -1
	depth := 0

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" || slices.Contains(lang.Keywords(), name) {
		return functionCall{}
	}

	arg := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				arg++
			}
		}
	}

	return functionCall{name: name, argIndex: arg, inCall: true}
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// signatureOf returns the parameter names of the function bound to name in
// the session, and false if name is not bound to a function.
func signatureOf(s *Session, name string) ([]string, bool) {
	b, ok := s.Lookup(name)
	if !ok {
		return nil, false
	}

	switch fn := b.Value.(type) {
	case *lang.Declared:
		params := make([]string, len(fn.Decl.Params))
		for i, p := range fn.Decl.Params {
			params[i] = p.Name
		}

		return params, true

	case *lang.Native:
		return nativeParams[fn.Name], true

	case lang.Function:
		return nil, true
	}

	return nil, false
}

// renderSignatureHint renders name(params...) with the parameter at arg
// highlighted. A variadic parameter stays highlighted for every later
// argument.
func renderSignatureHint(name string, params []string, arg int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(p, "...")
		if arg == i || (variadic && arg > i) {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
