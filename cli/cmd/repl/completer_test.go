package repl

import (
	"slices"
	"testing"

	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/acs/log"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		word   string
		start  int
		end    int
	}{
		{"sq", 2, "sq", 0, 2},
		{"1 + ab", 6, "ab", 4, 6},
		{"max(al, 2)", 6, "al", 4, 6},
		{"max(al, 2)", 5, "al", 4, 6},
		{"x + ", 4, "", 4, 4},
		{"", 0, "", 0, 0},
		{"abc", 10, "abc", 0, 3},
	}

	for _, tt := range tests {
		word, start, end := wordBounds(tt.input, tt.cursor)
		if word != tt.word || start != tt.start || end != tt.end {
			t.Errorf("%q at %d: expected (%q, %d, %d), got (%q, %d, %d)",
				tt.input, tt.cursor, tt.word, tt.start, tt.end, word, start, end)
		}
	}
}

func typeInto(m model, s string) model {
	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return next
}

func TestModel_Completion(t *testing.T) {
	s, _ := newTestSession(t)

	if _, err := s.Eval(t.Context(), "let total = 1"); err != nil {
		t.Fatal(err)
	}

	m := newModel(t.Context(), s, nil, NewHistory(""), log.Logger{})

	m = typeInto(m, "tot")
	if len(m.matches) == 0 || m.matches[0].Str != "total" {
		t.Fatalf("expected total as best match, got %v", m.matches)
	}

	m = m.cycle(1)
	if got := m.input.Value(); got != "total" {
		t.Errorf("expected completed input, got %q", got)
	}

	m = m.switchMode(modeCtrl)
	if m.input.Value() != "" {
		t.Errorf("expected empty command input, got %q", m.input.Value())
	}

	m = typeInto(m, "li")

	if !slices.ContainsFunc(m.matches, func(match fuzzy.Match) bool { return match.Str == "list" }) {
		t.Errorf("expected list among command matches, got %v", m.matches)
	}

	m = m.switchMode(modeEval)
	if got := m.input.Value(); got != "total" {
		t.Errorf("expected eval input restored, got %q", got)
	}
}

func TestModel_KeywordCandidates(t *testing.T) {
	s, _ := newTestSession(t)
	m := newModel(t.Context(), s, nil, NewHistory(""), log.Logger{})

	cands := m.candidates()
	for _, want := range []string{"func", "ret", "sqrt"} {
		if !slices.Contains(cands, want) {
			t.Errorf("expected %q among candidates", want)
		}
	}

	if !m.isFunction("sqrt") || m.isFunction("ret") {
		t.Error("unexpected isFunction result")
	}
}
