package repl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		want   functionCall
	}{
		{"sq(", 3, functionCall{name: "sq", argIndex: 0, inCall: true}},
		{"pow(2, ", 7, functionCall{name: "pow", argIndex: 1, inCall: true}},
		{"max(1, min(2, 3), ", 18, functionCall{name: "max", argIndex: 2, inCall: true}},
		{"max(1, min(2, ", 14, functionCall{name: "min", argIndex: 1, inCall: true}},
		{"sq(2)", 5, functionCall{}},
		{"(1 + 2", 6, functionCall{}},
		{"if (x", 5, functionCall{}},
		{"1 + 2", 5, functionCall{}},
		{"sq(", 99, functionCall{name: "sq", argIndex: 0, inCall: true}},
	}

	for _, tt := range tests {
		got := detectFunctionCall(tt.input, tt.cursor)
		if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(functionCall{})); diff != "" {
			t.Errorf("%q at %d (-want +got):\n%s", tt.input, tt.cursor, diff)
		}
	}
}

func TestSignatureOf(t *testing.T) {
	s, _ := newTestSession(t)

	if _, err := s.Eval(t.Context(), "func area(w, h) { ret w * h; }"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Eval(t.Context(), "let n = 3"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		want   []string
		wantOK bool
	}{
		{"area", []string{"w", "h"}, true},
		{"pow", []string{"x", "y"}, true},
		{"print", []string{"...args"}, true},
		{"n", nil, false},
		{"nothing", nil, false},
	}

	for _, tt := range tests {
		got, ok := signatureOf(s, tt.name)
		if ok != tt.wantOK {
			t.Errorf("%s: expected ok=%v", tt.name, tt.wantOK)
		}

		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: params mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}
