package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

func TestFormat_Native(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{
			name:   "compact",
			input:  endToEnd,
			indent: 0,
			want:   "func plus(a, b) { ret a + b; } let hex = 0x10; let bin = 0b11; let dec = 5; ret plus(hex, dec) + bin;\n",
		},
		{
			name:   "indented",
			input:  "func f(x){func g(){ret 1;} ret g()*x;} const k=-2; f(k);",
			indent: 2,
			want: "func f(x) {\n" +
				"  func g() {\n" +
				"    ret 1;\n" +
				"  }\n" +
				"  ret g() * x;\n" +
				"}\n" +
				"const k = -2;\n" +
				"f(k);\n",
		},
		{
			name:   "empty body",
			input:  "func f(){}",
			indent: 4,
			want:   "func f() {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			var buf bytes.Buffer
			if err := prog.Format(t.Context(), &buf, tt.indent); err != nil {
				t.Fatalf("format error: %v", err)
			}

			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	inputs := []string{
		endToEnd,
		"ret 8-3-2;",
		"ret (8-3)-2;",
		"ret 1 - -5 * +2 % 0b1;",
		"func f(){} func g(a){ret f(a,(a));}",
		"// comment\nconst x = 1.5; ret x;",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			want, err := ParseString(t.Context(), input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			for _, indent := range []int{0, 2} {
				var buf bytes.Buffer
				if err := want.Format(t.Context(), &buf, indent); err != nil {
					t.Fatalf("format error: %v", err)
				}

				got, err := ParseString(t.Context(), buf.String())
				if err != nil {
					t.Fatalf("reparse error: %v\n%s", err, buf.String())
				}

				if diff := cmp.Diff(want, got, ignorePos); diff != "" {
					t.Errorf("indent %d: tree mismatch (-want +got):\n%s", indent, diff)
				}
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	prog, err := ParseString(t.Context(), "let x = 2 * y;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := prog.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	want := map[string]any{
		"type": "Program",
		"statements": []any{
			map[string]any{
				"type":     "VariableDecl",
				"modifier": "let",
				"name":     "x",
				"value": map[string]any{
					"type":  "BinaryTerm",
					"op":    "*",
					"left":  map[string]any{"type": "Numeric", "text": "2", "base": "decimal"},
					"right": map[string]any{"type": "Variable", "name": "y"},
				},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()

	if err := prog.FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatalf("format error: %v", err)
	}

	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected single-line JSON, got %q", buf.String())
	}
}

func TestFormatYAML(t *testing.T) {
	prog, err := ParseString(t.Context(), "func f(a) { ret a; }")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer
		if err := prog.FormatYAML(t.Context(), &buf, indent); err != nil {
			t.Fatalf("format error: %v", err)
		}

		var got map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
		}

		stmts, ok := got["statements"].([]any)
		if !ok || len(stmts) != 1 {
			t.Fatalf("expected one statement, got %v", got["statements"])
		}

		decl, _ := stmts[0].(map[string]any)
		if decl["type"] != "FunctionDecl" || decl["name"] != "f" {
			t.Errorf("unexpected statement %v", decl)
		}
	}
}

func TestPrint(t *testing.T) {
	prog, err := ParseString(t.Context(), "func f(a, b) { ret a; } let x = f(1, 2);")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := prog.Print(&buf); err != nil {
		t.Fatalf("print error: %v", err)
	}

	want := "Program\n" +
		"  FunctionDecl name=f params=(a, b)\n" +
		"    Return\n" +
		"      Variable name=a\n" +
		"  VariableDecl modifier=let name=x\n" +
		"    Call name=f\n" +
		"      Numeric text=1 base=decimal\n" +
		"      Numeric text=2 base=decimal\n"

	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}
