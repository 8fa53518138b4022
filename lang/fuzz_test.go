package lang

import (
	"bytes"
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzLex tests the lexer with random inputs to find edge cases.
func FuzzLex(f *testing.F) {
	f.Add("foo")
	f.Add("0x1234")
	f.Add("0b")
	f.Add("1.2.3")
	f.Add(`"string"`)
	f.Add("// comment")
	f.Add("a+=b--")
	f.Add("let\nx")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		tokens, err := Lex(t.Context(), input)
		if err != nil {
			var le *LexError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LexError, got %T", err)
			}

			return
		}

		// Tokens are non-empty, ordered, and match the source text.
		last := -1
		for i, tok := range tokens {
			if tok.Text == "" {
				t.Errorf("token %d is empty", i)
			}

			if tok.Pos.Offset <= last {
				t.Errorf("token %d out of order", i)
			}

			last = tok.Pos.Offset

			if input[tok.Pos.Offset:tok.Pos.Offset+len(tok.Text)] != tok.Text {
				t.Errorf("token %d text %q does not match source", i, tok.Text)
			}
		}
	})
}

// FuzzParseFormat checks that parsing never panics and that formatting a
// parsed program yields source that parses to the same text again.
func FuzzParseFormat(f *testing.F) {
	f.Add(endToEnd)
	f.Add("ret 8-3-2;")
	f.Add("func f(a){ret a;} ret f(1,2);")
	f.Add("if (a>1) { }")
	f.Add("((((1")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		prog, err := ParseString(t.Context(), input, WithMaxDepth(200))
		if err != nil {
			return
		}

		var first bytes.Buffer
		if err := prog.Format(t.Context(), &first, 0); err != nil {
			t.Fatalf("format error: %v", err)
		}

		again, err := ParseString(t.Context(), first.String(), WithMaxDepth(200))
		if err != nil {
			t.Fatalf("formatted output does not parse: %v\n%s", err, first.String())
		}

		var second bytes.Buffer
		if err := again.Format(t.Context(), &second, 0); err != nil {
			t.Fatalf("format error: %v", err)
		}

		if first.String() != second.String() {
			t.Errorf("format not stable:\n%s\n%s", first.String(), second.String())
		}
	})
}
