package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_AddAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), historyFile)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("load of missing file: %v", err)
	}

	adds := []struct {
		line string
		mode inputMode
	}{
		{"1 + 1", modeEval},
		{"list", modeCtrl},
		{"  let x = 2;  ", modeEval},
		{"let x = 2;", modeEval}, // repeat of newest entry
		{"", modeEval},
		{"1 + 1", modeEval}, // moves to newest
		{"1 + 1", modeCtrl}, // same line, other mode
	}

	for _, a := range adds {
		if err := h.Add(a.line, a.mode); err != nil {
			t.Fatalf("add %q: %v", a.line, err)
		}
	}

	want := "C:list\nE:let x = 2;\nE:1 + 1\nC:1 + 1\n"

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("history file mismatch (-want +got):\n%s", diff)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if reloaded.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", reloaded.Len())
	}

	e, err := reloaded.Entry(0)
	if err != nil {
		t.Fatal(err)
	}

	if e != (histEntry{line: "list", mode: modeCtrl}) {
		t.Errorf("unexpected oldest entry %+v", e)
	}

	if _, err := reloaded.Entry(4); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestHistory_UntaggedLinesAreEval(t *testing.T) {
	path := filepath.Join(t.TempDir(), historyFile)

	if err := os.WriteFile(path, []byte("ret 1;\n\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	got := []histEntry{}
	for i := range h.Len() {
		e, _ := h.Entry(i)
		got = append(got, e)
	}

	want := []histEntry{{"ret 1;", modeEval}, {"quit", modeCtrl}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(histEntry{})); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Seek(t *testing.T) {
	h := NewHistory("")

	for _, a := range []struct {
		line string
		mode inputMode
	}{
		{"a", modeEval},
		{"help", modeCtrl},
		{"b", modeEval},
		{"list", modeCtrl},
	} {
		if err := h.Add(a.line, a.mode); err != nil {
			t.Fatal(err)
		}
	}

	all := func(inputMode) bool { return true }
	ctrl := func(m inputMode) bool { return m == modeCtrl }

	tests := []struct {
		name   string
		from   int
		step   int
		keep   func(inputMode) bool
		want   int
		wantOK bool
	}{
		{"previous from end", 4, -1, all, 3, true},
		{"previous ctrl", 3, -1, ctrl, 1, true},
		{"next ctrl", 1, 1, ctrl, 3, true},
		{"past start", 0, -1, all, 0, false},
		{"past end", 3, 1, all, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := h.seek(tt.from, tt.step, tt.keep)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}
}
