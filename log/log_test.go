package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestMake_Defaults(t *testing.T) {
	logger := Make(&bytes.Buffer{})

	if got := logger.Level(); got != DefaultLevel {
		t.Errorf("Level() = %v, want %v", got, DefaultLevel)
	}

	if got := logger.Format(); got != DefaultFormat {
		t.Errorf("Format() = %v, want %v", got, DefaultFormat)
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Info("discarded", slog.String("key", "value"))
	logger.TraceContext(t.Context(), "discarded")

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero logger should not be enabled")
	}

	if got := logger.With(slog.Int("n", 1)); got.Logger != nil {
		t.Error("With on zero logger should stay zero")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		log   func(Logger)
		want  bool
	}{
		{"trace below debug", LevelDebug, func(l Logger) { l.Trace("msg") }, false},
		{"trace at trace", LevelTrace, func(l Logger) { l.Trace("msg") }, true},
		{"info at info", LevelInfo, func(l Logger) { l.Info("msg") }, true},
		{"info below warn", LevelWarn, func(l Logger) { l.Info("msg") }, false},
		{"error at warn", LevelWarn, func(l Logger) { l.Error("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(Make(&buf, WithLevel(tt.level), WithPretty(false)))

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("logged = %v, want %v: %q", got, tt.want, buf.String())
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatJSON),
		WithLevel(LevelTrace),
		WithPretty(false),
		WithTimeLayout("none"),
	).With(slog.String("component", "lexer"))

	logger.Trace("token", slog.Int("offset", 3))

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v: %q", err, buf.String())
	}

	want := map[string]any{
		"level":     "trace",
		"msg":       "token",
		"component": "lexer",
		"offset":    float64(3),
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}

	if _, ok := got["time"]; ok {
		t.Error("time should be omitted")
	}
}

func TestLogger_PrettyJSONIndents(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON)).Info("hello", slog.Bool("ok", true))

	if !strings.Contains(buf.String(), "\n  \"msg\": \"hello\"") {
		t.Errorf("expected indented JSON, got %q", buf.String())
	}
}

func TestLogger_PrettyText(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout(""), WithLevel(LevelDebug))
	logger = logger.With(slog.String("file", "a.acs"))
	logger.Debug("parsed",
		slog.Int("statements", 2),
		slog.Group("cache", slog.Bool("hit", false)),
	)

	// Output is not a terminal, so no escape codes are written.
	want := "debug parsed file=a.acs statements=2 cache.hit=false\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithPretty(false)).Info("here")

	if !strings.Contains(buf.String(), "log_test.go:") {
		t.Errorf("expected caller in output, got %q", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug), WithFormat(FormatJSON))

	if base.Level() != LevelError {
		t.Error("Wrap modified the original logger")
	}

	if wrapped.Level() != LevelDebug || wrapped.Format() != FormatJSON {
		t.Errorf("wrapped = %v/%v", wrapped.Level(), wrapped.Format())
	}

	wrapped.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("wrapped logger should share the output")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"TRACE", LevelTrace, false},
		{"debug", LevelDebug, false},
		{" Info ", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"warn-2", LevelWarn - 2, false},
		{"trace-1", LevelTrace - 1, false},
		{"verbose", DefaultLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelInfo, "info"},
		{LevelInfo + 2, "info+2"},
		{LevelTrace - 1, "trace-1"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}

	if got := strings.Join(Levels(), ","); got != "trace,debug,info,warn,error" {
		t.Errorf("Levels() = %q", got)
	}
}

func TestFormat_UnmarshalText(t *testing.T) {
	var f Format
	if err := f.UnmarshalText([]byte("JSON")); err != nil || f != FormatJSON {
		t.Errorf("got %v, %v", f, err)
	}

	if err := f.UnmarshalText([]byte("xml")); err == nil {
		t.Error("expected error for unknown format")
	}

	if got := strings.Join(Formats(), ","); got != "text,json" {
		t.Errorf("Formats() = %q", got)
	}
}

func TestResolveLayout(t *testing.T) {
	tests := map[string]string{
		"RFC3339":       "2006-01-02T15:04:05Z07:00",
		"rfc-3339-nano": "2006-01-02T15:04:05.999999999Z07:00",
		"Kitchen":       "3:04PM",
		"none":          "",
		"":              "",
		"15:04":         "15:04",
	}

	for in, want := range tests {
		if got := resolveLayout(in); got != want {
			t.Errorf("resolveLayout(%q) = %q, want %q", in, got, want)
		}
	}
}
