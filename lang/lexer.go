package lang

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/acs/log"
)

// Reader recognizes one class of token at the start of input.
// It reports the number of bytes consumed and the kind of the token.
type Reader interface {
	Read(input string) (n int, kind TokenKind, ok bool)
}

// ReaderFunc adapts a function to the [Reader] interface.
type ReaderFunc func(input string) (int, TokenKind, bool)

// Read calls f(input).
func (f ReaderFunc) Read(input string) (int, TokenKind, bool) { return f(input) }

// Lexer splits source text into tokens using an ordered table of readers.
// The first reader that matches at the current offset wins.
type Lexer struct {
	readers []Reader
	logger  log.Logger
}

// NewLexer returns a Lexer that tries readers in the given order.
// With no readers, [DefaultReaders] is used.
func NewLexer(readers ...Reader) *Lexer {
	if len(readers) == 0 {
		readers = DefaultReaders()
	}

	return &Lexer{readers: readers}
}

// DefaultReaders returns the reader table for the standard token set.
func DefaultReaders() []Reader {
	return []Reader{
		Punct(";", TokenTerminator),
		Punct(",", TokenSeparator),
		ReaderFunc(readKeyword),
		Punct("(", TokenLeftParen),
		Punct(")", TokenRightParen),
		Punct("{", TokenLeftBrace),
		Punct("}", TokenRightBrace),
		Punct("[", TokenLeftBracket),
		Punct("]", TokenRightBracket),
		Punct("==", TokenComparator),
		Punct("!=", TokenComparator),
		// Operators are single characters: "8--3" is 8, "-", -3.
		Punct("+", TokenOperator),
		Punct("-", TokenOperator),
		Punct("*", TokenOperator),
		Punct("/", TokenOperator),
		Punct("%", TokenOperator),
		Punct("^", TokenOperator),
		Punct("=", TokenAssign),
		Punct(">", TokenComparator),
		Punct("<", TokenComparator),
		ReaderFunc(readNumber),
		ReaderFunc(readString),
		ReaderFunc(readIdentifier),
	}
}

// Punct returns a Reader matching the literal text s.
func Punct(s string, kind TokenKind) Reader {
	return ReaderFunc(func(input string) (int, TokenKind, bool) {
		if strings.HasPrefix(input, s) {
			return len(s), kind, true
		}

		return 0, kind, false
	})
}

// Lex tokenizes src with the default reader table.
func Lex(ctx context.Context, src string) ([]Token, error) {
	return NewLexer().Lex(ctx, src)
}

// WithLogger returns a copy of the lexer that traces through logger.
func (l *Lexer) WithLogger(logger log.Logger) *Lexer {
	c := *l
	c.logger = logger

	return &c
}

// Lex tokenizes src. Whitespace and // line comments separate tokens.
// The returned error is a [*LexError] positioned at the first character
// where no reader matched.
func (l *Lexer) Lex(ctx context.Context, src string) ([]Token, error) {
	var (
		tokens []Token
		pos    = Position{Offset: 0, Line: 1, Column: 1}
	)

	advance := func(n int) {
		for _, r := range src[pos.Offset : pos.Offset+n] {
			if r == '\n' {
				pos.Line++
				pos.Column = 1
			} else {
				pos.Column++
			}
		}

		pos.Offset += n
	}

	for pos.Offset < len(src) {
		rest := src[pos.Offset:]

		r, size := utf8.DecodeRuneInString(rest)
		if unicode.IsSpace(r) {
			advance(size)

			continue
		}

		if strings.HasPrefix(rest, "//") {
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}

			advance(end)

			continue
		}

		tok, ok := l.next(rest)
		if !ok {
			return nil, &LexError{Pos: pos, Source: src}
		}

		tok.Pos = pos
		tokens = append(tokens, tok)
		advance(len(tok.Text))
	}

	l.logger.TraceContext(ctx, "lex complete",
		slog.Int("source_length", len(src)),
		slog.Int("token_count", len(tokens)),
	)

	return tokens, nil
}

func (l *Lexer) next(input string) (Token, bool) {
	for _, r := range l.readers {
		n, kind, ok := r.Read(input)
		if ok && n > 0 {
			return Token{Kind: kind, Text: input[:n]}, true
		}
	}

	return Token{}, false
}

// readKeyword matches a reserved word only when it is a whole word.
func readKeyword(input string) (int, TokenKind, bool) {
	n := identLen(input)
	if n == 0 {
		return 0, 0, false
	}

	kind, ok := keywords[input[:n]]

	return n, kind, ok
}

func readIdentifier(input string) (int, TokenKind, bool) {
	n := identLen(input)

	return n, TokenIdentifier, n > 0
}

// identLen returns the length of the identifier at the start of input.
// Identifiers are ASCII letters, digits, and underscores, not starting with
// a digit.
func identLen(input string) int {
	n := 0

	for n < len(input) {
		c := input[n]

		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if n == 0 {
				return 0
			}
		default:
			return n
		}

		n++
	}

	return n
}

// readNumber matches hex (0x), binary (0b), and runs of digits and dots.
func readNumber(input string) (int, TokenKind, bool) {
	prefixed := func(prefix string, digit func(byte) bool) int {
		if !strings.HasPrefix(input, prefix) {
			return 0
		}

		n := len(prefix)
		for n < len(input) && digit(input[n]) {
			n++
		}

		if n == len(prefix) {
			return 0
		}

		return n
	}

	if n := prefixed("0x", isHexDigit); n > 0 {
		return n, TokenNumber, true
	}

	if n := prefixed("0b", isBinaryDigit); n > 0 {
		return n, TokenNumber, true
	}

	n, digits := 0, 0

	for n < len(input) && (isDecimalDigit(input[n]) || input[n] == '.') {
		if input[n] != '.' {
			digits++
		}

		n++
	}

	return n, TokenNumber, digits > 0
}

// readString matches the shortest double-quoted run with at least one
// character between the quotes.
func readString(input string) (int, TokenKind, bool) {
	if len(input) < 3 || input[0] != '"' {
		return 0, TokenString, false
	}

	end := strings.IndexByte(input[2:], '"')
	if end < 0 {
		return 0, TokenString, false
	}

	return end + 3, TokenString, true
}

func isDecimalDigit(c byte) bool { return c >= '0' && c <= '9' }

func isBinaryDigit(c byte) bool { return c == '0' || c == '1' }

func isHexDigit(c byte) bool {
	return isDecimalDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
