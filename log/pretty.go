package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to colorize text output.
// Styles degrade to plain text when the output is not a terminal.
type palette struct {
	key, text, number, duration, timestamp lipgloss.Style
	yes, no                                lipgloss.Style
	levels                                 map[Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:       fg("8"),
		text:      fg("6"),
		number:    fg("3"),
		duration:  fg("5"),
		timestamp: fg("4"),
		yes:       fg("2"),
		no:        fg("1"),
		levels: map[Level]lipgloss.Style{
			LevelTrace: fg("8"),
			LevelDebug: fg("4"),
			LevelInfo:  fg("2"),
			LevelWarn:  fg("3"),
			LevelError: fg("1"),
		},
	}
}

func (p palette) level(l Level) lipgloss.Style {
	switch {
	case l >= LevelError:
		return p.levels[LevelError]
	case l >= LevelWarn:
		return p.levels[LevelWarn]
	case l >= LevelInfo:
		return p.levels[LevelInfo]
	case l >= LevelDebug:
		return p.levels[LevelDebug]
	default:
		return p.levels[LevelTrace]
	}
}

// prettyHandler writes colorized key=value lines.
type prettyHandler struct {
	opts   slog.HandlerOptions
	colors palette
	layout string
	mu     *sync.Mutex
	w      io.Writer
	prefix string // group path, dot-terminated
	attrs  []byte // preformatted attributes from WithAttrs
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, layout string) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		colors: newPalette(w),
		layout: layout,
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() && h.layout != "" {
		buf.WriteString(h.colors.timestamp.Render(r.Time.Format(h.layout)))
		buf.WriteByte(' ')
	}

	level := Level(r.Level)
	buf.WriteString(h.colors.level(level).Render(padRight(level.String(), 5)))
	buf.WriteByte(' ')

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			buf.WriteString(h.colors.key.Render(src.File + ":" + strconv.Itoa(src.Line)))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(r.Message)
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf bytes.Buffer
	for _, a := range attrs {
		h.appendAttr(&buf, h.prefix, a)
	}

	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], buf.Bytes()...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.appendAttr(buf, prefix, g)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.colors.key.Render(prefix + a.Key + "="))
	buf.WriteString(h.renderValue(a.Value))
}

func (h *prettyHandler) renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64:
		return h.colors.number.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return h.colors.number.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return h.colors.number.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return h.colors.yes.Render("true")
		}

		return h.colors.no.Render("false")
	case slog.KindDuration:
		return h.colors.duration.Render(v.Duration().String())
	case slog.KindTime:
		return h.colors.timestamp.Render(v.Time().Format(time.RFC3339Nano))
	default:
		return h.colors.text.Render(v.String())
	}
}

func padRight(s string, n int) string {
	for len(s) < n {
		s += " "
	}

	return s
}

// indentWriter re-indents each JSON record written by [slog.JSONHandler].
// The handler writes exactly one record per call to Write.
type indentWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (iw *indentWriter) Write(p []byte) (int, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(p), "", "  "); err != nil {
		buf.Reset()
		buf.Write(bytes.TrimSpace(p))
	}

	buf.WriteByte('\n')

	iw.mu.Lock()
	defer iw.mu.Unlock()

	if _, err := iw.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}

	return len(p), nil
}
