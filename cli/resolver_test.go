package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

func flagNamed(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func TestLoadYAML(t *testing.T) {
	const doc = `
log:
  level: debug
  pretty: false
max_depth: 200
path:
  - /opt/acs
  - /usr/share/acs
`

	res, err := loadYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-pretty", false},
		{"max-depth", "200"},
		{"path", "/opt/acs,/usr/share/acs"},
		{"log-format", nil},
	}

	for _, tt := range tests {
		got, err := res.Resolve(nil, nil, flagNamed(tt.flag))
		if err != nil {
			t.Fatalf("%s: %v", tt.flag, err)
		}

		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tt.flag, diff)
		}
	}
}

func TestLoadYAML_EmptyOrInvalid(t *testing.T) {
	for _, doc := range []string{"", "log: [unterminated"} {
		res, err := loadYAML(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("%q: %v", doc, err)
		}

		if got, _ := res.Resolve(nil, nil, flagNamed("log-level")); got != nil {
			t.Errorf("%q: expected no value, got %v", doc, got)
		}
	}
}

func TestLoadYAML_AppliesToFlags(t *testing.T) {
	res, err := loadYAML(strings.NewReader("log:\n  caller: true\nmax-depth: 42\n"))
	if err != nil {
		t.Fatal(err)
	}

	var cli struct {
		LogCaller bool
		MaxDepth  int `default:"1000"`
		Verbose   bool
	}

	parser, err := kong.New(&cli, kong.Resolvers(res))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--verbose"}); err != nil {
		t.Fatal(err)
	}

	if !cli.LogCaller || cli.MaxDepth != 42 || !cli.Verbose {
		t.Errorf("unexpected flags %+v", cli)
	}

	if _, err := parser.Parse([]string{"--max-depth=7"}); err != nil {
		t.Fatal(err)
	}

	if cli.MaxDepth != 7 {
		t.Errorf("expected command line to win, got %d", cli.MaxDepth)
	}
}
