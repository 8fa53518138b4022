package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestDefault_PackageFunctions(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false)))

	tests := []struct {
		fn    func(string, ...slog.Attr)
		level string
	}{
		{Trace, `"level":"trace"`},
		{Debug, `"level":"debug"`},
		{Info, `"level":"info"`},
		{Warn, `"level":"warn"`},
		{Error, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			if !strings.Contains(out, tt.level) || !strings.Contains(out, `"key":"value"`) {
				t.Errorf("unexpected output %q", out)
			}
		})
	}
}

func TestConfig_UpdatesDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelError)))
	InfoContext(t.Context(), "hidden")

	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}

	Config(WithLevel(LevelInfo))
	InfoContext(t.Context(), "shown")

	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected output after Config, got %q", buf.String())
	}
}
