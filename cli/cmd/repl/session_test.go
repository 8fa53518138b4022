package repl

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/acs/lang"
	"github.com/ardnew/acs/log"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	root := lang.NewScope(nil)
	if err := lang.DeclareBuiltins(root, &out); err != nil {
		t.Fatal(err)
	}

	return NewSession(root, log.Logger{}), &out
}

func TestSession_Eval(t *testing.T) {
	s, out := newTestSession(t)

	steps := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "7"},
		{"let x = 4", ""},
		{"const y = x * 2;", ""},
		{"func sq(a) { ret a * a; }", ""},
		{"sq(y) - x", "60"},
		{"print(x, y)", ""},
		{"ret sqrt(sq(3));", "3"},
		{"  ", ""},
	}

	for _, step := range steps {
		got, err := s.Eval(t.Context(), step.input)
		if err != nil {
			t.Fatalf("%q: eval error: %v", step.input, err)
		}

		if got != step.want {
			t.Errorf("%q: expected %q, got %q", step.input, step.want, got)
		}
	}

	if got := out.String(); got != "4 8\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestSession_EvalErrors(t *testing.T) {
	s, _ := newTestSession(t)

	if _, err := s.Eval(t.Context(), "const k = 1;"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		input string
		want  error
	}{
		{"missing + 1", lang.ErrUndefinedVariable},
		{"let k = 2;", lang.ErrConstRedeclaration},
		{"ret (1;", lang.ErrUnterminatedConstruct},
		{"print(1) + 1", lang.ErrVoidResult},
	}

	for _, tt := range tests {
		if _, err := s.Eval(t.Context(), tt.input); !errors.Is(err, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.want, err)
		}
	}

	if diff := cmp.Diff("const k = 1;\n", s.Source()); diff != "" {
		t.Errorf("failed inputs should not be recorded (-want +got):\n%s", diff)
	}
}

func TestSession_FailedLineDeclaresNothing(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Eval(t.Context(), "let a = 1; let b = zz;")
	if !errors.Is(err, lang.ErrUndefinedVariable) {
		t.Fatalf("expected ErrUndefinedVariable, got %v", err)
	}

	for _, name := range []string{"a", "b"} {
		if _, ok := s.Lookup(name); ok {
			t.Errorf("expected %s undeclared after failed line", name)
		}
	}

	if _, err := s.Eval(t.Context(), "const c = 1; let d = c;"); err != nil {
		t.Fatal(err)
	}

	_, err = s.Eval(t.Context(), "let e = 2; let c = 3;")
	if !errors.Is(err, lang.ErrConstRedeclaration) {
		t.Fatalf("expected ErrConstRedeclaration, got %v", err)
	}

	if _, ok := s.Lookup("e"); ok {
		t.Error("expected e undeclared after failed line")
	}

	if got, err := s.Eval(t.Context(), "c + d"); err != nil || got != "2" {
		t.Errorf("expected 2, got %q (%v)", got, err)
	}
}

func TestSession_Source(t *testing.T) {
	s, _ := newTestSession(t)

	for _, in := range []string{"let a = 1", "func f() { ret a; }", "f() + 1"} {
		if _, err := s.Eval(t.Context(), in); err != nil {
			t.Fatal(err)
		}
	}

	want := "let a = 1;\nfunc f() { ret a; }\nf() + 1;\n"
	if diff := cmp.Diff(want, s.Source()); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_Reset(t *testing.T) {
	s, _ := newTestSession(t)

	if _, err := s.Eval(t.Context(), "let a = 1;"); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(t.Context(), "let b = 2;\nconst c = b + 1;\n"); err != nil {
		t.Fatalf("reset error: %v", err)
	}

	if _, ok := s.Lookup("a"); ok {
		t.Error("expected a to be dropped by reset")
	}

	got, err := s.Eval(t.Context(), "b * c")
	if err != nil {
		t.Fatal(err)
	}

	if got != "6" {
		t.Errorf("expected 6, got %q", got)
	}

	if !strings.HasPrefix(s.Source(), "let b = 2;\nconst c = b + 1;\n") {
		t.Errorf("unexpected source %q", s.Source())
	}

	// A failing reset leaves the session alone.
	if err := s.Reset(t.Context(), "ret nope;"); !errors.Is(err, lang.ErrUndefinedVariable) {
		t.Fatalf("expected ErrUndefinedVariable, got %v", err)
	}

	if _, ok := s.Lookup("b"); !ok {
		t.Error("expected b to survive a failed reset")
	}
}

func TestSession_BuiltinsVisible(t *testing.T) {
	s, _ := newTestSession(t)

	names := s.Names()
	for _, want := range []string{"abs", "max", "print", "sqrt"} {
		if !slices.Contains(names, want) {
			t.Errorf("expected %q among %v", want, names)
		}
	}
}

func TestSession_BypassesProgramCache(t *testing.T) {
	lang.ClearCache()
	t.Cleanup(lang.ClearCache)

	s, _ := newTestSession(t)

	for _, in := range []string{"let q = 1", "func g() { ret q; }", "ret (1;"} {
		_, _ = s.Eval(t.Context(), in)
	}

	if err := s.Reset(t.Context(), s.Source()); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if n := lang.CacheSize(); n != 0 {
		t.Errorf("expected session parses to skip the cache, cache holds %d", n)
	}
}
