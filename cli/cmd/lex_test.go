package cmd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/acs/lang"
)

func TestLex(t *testing.T) {
	ctx, _, out := testEnv(t, "let x = 0x1F;\nret x;")

	if err := (&Lex{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := "" +
		"1:1      let         \"let\"\n" +
		"1:5      identifier  \"x\"\n" +
		"1:7      =           \"=\"\n" +
		"1:9      number      \"0x1F\"\n" +
		"1:13     ;           \";\"\n" +
		"2:1      ret         \"ret\"\n" +
		"2:5      identifier  \"x\"\n" +
		"2:6      ;           \";\"\n"

	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("lex output (-want +got):\n%s", diff)
	}
}

func TestLex_Error(t *testing.T) {
	ctx, _, _ := testEnv(t, "let x = @;")

	err := (&Lex{}).Run(ctx)
	if !errors.Is(err, lang.ErrLex) || !errors.Is(err, ErrParseSource) {
		t.Errorf("expected lex error, got %v", err)
	}
}
