package lang

import (
	"errors"
	"testing"
)

func TestLex_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{
			name:  "declaration",
			input: "let x = 1;",
			want:  []TokenKind{TokenLet, TokenIdentifier, TokenAssign, TokenNumber, TokenTerminator},
		},
		{
			name:  "function",
			input: "func f(a, b) { ret a; }",
			want: []TokenKind{
				TokenFunc, TokenIdentifier, TokenLeftParen, TokenIdentifier,
				TokenSeparator, TokenIdentifier, TokenRightParen, TokenLeftBrace,
				TokenReturn, TokenIdentifier, TokenTerminator, TokenRightBrace,
			},
		},
		{
			name:  "keyword prefix is identifier",
			input: "letter constant returned",
			want:  []TokenKind{TokenIdentifier, TokenIdentifier, TokenIdentifier},
		},
		{
			name:  "reserved control words",
			input: "if else for while",
			want:  []TokenKind{TokenIf, TokenElse, TokenFor, TokenWhile},
		},
		{
			name:  "comparators",
			input: "< > == !=",
			want: []TokenKind{
				TokenComparator, TokenComparator, TokenComparator, TokenComparator,
			},
		},
		{
			name:  "brackets and string",
			input: `["hi"]`,
			want:  []TokenKind{TokenLeftBracket, TokenString, TokenRightBracket},
		},
		{
			name:  "comment skipped",
			input: "1 // trailing ; words\n2",
			want:  []TokenKind{TokenNumber, TokenNumber},
		},
		{
			name:  "empty",
			input: "  \n\t ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if len(tokens) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.want), len(tokens), tokens)
			}

			for i, tok := range tokens {
				if tok.Kind != tt.want[i] {
					t.Errorf("token %d (%q): expected %v, got %v", i, tok.Text, tt.want[i], tok.Kind)
				}
			}
		})
	}
}

func TestLex_SingleCharOperators(t *testing.T) {
	tokens, err := Lex(t.Context(), "a+=b++ c>=d 8--3")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	want := []string{
		"a", "+", "=", "b", "+", "+", "c", ">", "=", "d", "8", "-", "-", "3",
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}

	for i, tok := range tokens {
		if tok.Text != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], tok.Text)
		}
	}
}

func TestLex_Numbers(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"0x1F", []string{"0x1F"}},
		{"0b101", []string{"0b101"}},
		{"3.25", []string{"3.25"}},
		{"1.2.3", []string{"1.2.3"}},
		{"0b12", []string{"0b1", "2"}},
		{"0xg", []string{"0", "xg"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Lex(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if len(tokens) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, tokens)
			}

			for i, tok := range tokens {
				if tok.Text != tt.want[i] {
					t.Errorf("token %d: expected %q, got %q", i, tt.want[i], tok.Text)
				}
			}
		})
	}
}

func TestLex_Positions(t *testing.T) {
	tokens, err := Lex(t.Context(), "let x\n  = 42;")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	want := []Position{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 4, Line: 1, Column: 5},
		{Offset: 8, Line: 2, Column: 3},
		{Offset: 10, Line: 2, Column: 5},
		{Offset: 12, Line: 2, Column: 7},
	}

	for i, tok := range tokens {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%q): expected %v, got %v", i, tok.Text, want[i], tok.Pos)
		}
	}
}

func TestLex_Error(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{"unknown character", "let x = 1 @ 2;", 1, 11},
		{"second line", "let x = 1;\nlet y = #;", 2, 9},
		{"unterminated string", `ret "abc`, 1, 5},
		{"empty string", `""`, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(t.Context(), tt.input)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, ErrLex) {
				t.Errorf("expected ErrLex, got %v", err)
			}

			var le *LexError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LexError, got %T", err)
			}

			if le.Pos.Line != tt.line || le.Pos.Column != tt.column {
				t.Errorf("expected %d:%d, got %v", tt.line, tt.column, le.Pos)
			}
		})
	}
}

func TestLexer_CustomReaders(t *testing.T) {
	l := NewLexer(
		Punct("!", TokenOperator),
		ReaderFunc(readIdentifier),
	)

	tokens, err := l.Lex(t.Context(), "a ! b")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	if len(tokens) != 3 || tokens[1].Kind != TokenOperator {
		t.Errorf("unexpected tokens: %v", tokens)
	}

	if _, err := l.Lex(t.Context(), "1"); !errors.Is(err, ErrLex) {
		t.Errorf("expected ErrLex without a number reader, got %v", err)
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords()
	if len(got) != 8 {
		t.Fatalf("expected 8 keywords, got %v", got)
	}

	for _, kw := range got {
		if !keywords[kw].IsKeyword() {
			t.Errorf("%q: kind %v is not a keyword", kw, keywords[kw])
		}
	}
}
