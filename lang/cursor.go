package lang

import (
	"log/slog"
	"slices"
)

// Cursor is a backtracking read position over a token sequence.
//
// Rules that may fail after consuming tokens bracket their attempt with
// [Cursor.Save] and either [Cursor.Restore] (on failure) or [Cursor.Discard]
// (on success), so that a failed rule leaves the position unchanged.
type Cursor struct {
	tokens []Token
	pos    int
	saved  []int

	// Furthest failure, for diagnostics.
	failPos  int
	expected []string

	depth    int
	maxDepth int
	fatal    error
}

// NewCursor returns a cursor positioned at the first token.
func NewCursor(tokens []Token) *Cursor {
	return &Cursor{
		tokens:   tokens,
		failPos:  -1,
		maxDepth: DefaultMaxDepth,
	}
}

// Pos returns the index of the next token to be read.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the number of tokens in the sequence.
func (c *Cursor) Len() int { return len(c.tokens) }

// Peek returns the token at the current position plus offset.
// It reports false if that index lies outside the sequence.
func (c *Cursor) Peek(offset int) (Token, bool) {
	i := c.pos + offset
	if i < 0 || i >= len(c.tokens) {
		return Token{}, false
	}

	return c.tokens[i], true
}

// Advance returns the token at the current position, if any, and moves the
// position forward by n. The new position is not bounds checked.
func (c *Cursor) Advance(n int) (Token, bool) {
	tok, ok := c.Peek(0)
	c.pos += n

	return tok, ok
}

// Save pushes the current position onto the saved-position stack.
func (c *Cursor) Save() {
	c.saved = append(c.saved, c.pos)
}

// Restore pops the saved-position stack and rewinds to the popped position.
// It panics with [ErrEmptyStack] if nothing was saved.
func (c *Cursor) Restore() {
	pos, ok := c.pop()
	if !ok {
		panic(ErrEmptyStack.With(slog.Int("position", c.pos)))
	}

	c.pos = pos
}

// Discard pops the saved-position stack without moving the position,
// committing everything consumed since the matching [Cursor.Save].
// It panics with [ErrEmptyStack] if nothing was saved.
func (c *Cursor) Discard() {
	if _, ok := c.pop(); !ok {
		panic(ErrEmptyStack.With(slog.Int("position", c.pos)))
	}
}

// Top returns the most recently saved position without popping it.
// It reports false if nothing is saved.
func (c *Cursor) Top() (int, bool) {
	if len(c.saved) == 0 {
		return 0, false
	}

	return c.saved[len(c.saved)-1], true
}

// Clear empties the saved-position stack.
func (c *Cursor) Clear() {
	c.saved = c.saved[:0]
}

// Depth returns the number of saved positions.
func (c *Cursor) Depth() int { return len(c.saved) }

func (c *Cursor) pop() (int, bool) {
	pos, ok := c.Top()
	if ok {
		c.saved = c.saved[:len(c.saved)-1]
	}

	return pos, ok
}

// fail records that item was expected at the current position.
// Only the furthest position is retained.
func (c *Cursor) fail(item string) {
	switch {
	case c.pos > c.failPos:
		c.failPos = c.pos
		c.expected = append(c.expected[:0], item)
	case c.pos == c.failPos && !slices.Contains(c.expected, item):
		c.expected = append(c.expected, item)
	}
}

// enter increments the rule nesting depth. Once the limit is exceeded the
// cursor is poisoned and every later match fails.
func (c *Cursor) enter() bool {
	if c.fatal != nil {
		return false
	}

	if c.maxDepth > 0 && c.depth >= c.maxDepth {
		c.fatal = ErrMaxDepthExceeded.
			WithPosition(c.position(c.pos)).
			With(slog.Int("max_depth", c.maxDepth))

		return false
	}

	c.depth++

	return true
}

func (c *Cursor) leave() { c.depth-- }

// match consumes the next token if it has the given kind.
func (c *Cursor) match(kind TokenKind) (Token, bool) {
	return c.matchFunc(kind.String(), func(t Token) bool {
		return t.Kind == kind
	})
}

// matchText consumes the next token if it has the given kind and text.
func (c *Cursor) matchText(kind TokenKind, text string) (Token, bool) {
	return c.matchFunc(text, func(t Token) bool {
		return t.Kind == kind && t.Text == text
	})
}

func (c *Cursor) matchFunc(item string, pred func(Token) bool) (Token, bool) {
	if c.fatal != nil {
		return Token{}, false
	}

	tok, ok := c.Peek(0)
	if !ok || !pred(tok) {
		c.fail(item)

		return Token{}, false
	}

	c.Advance(1)

	return tok, true
}

// position returns the source position of the token at index i, or the
// position just past the last token if i is at or beyond the end.
func (c *Cursor) position(i int) Position {
	if i < len(c.tokens) {
		return c.tokens[i].Pos
	}

	if len(c.tokens) == 0 {
		return Position{Line: 1, Column: 1}
	}

	last := c.tokens[len(c.tokens)-1]
	pos := last.Pos

	for _, r := range last.Text {
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}

	pos.Offset += len(last.Text)

	return pos
}
