package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const historyFile = "history.utf8"

// histEntry is one recorded input line and the mode it was entered in.
type histEntry struct {
	line string
	mode inputMode
}

// encode returns the on-disk form of e: a mode tag, a colon, and the line.
func (e histEntry) encode() string { return e.mode.tag() + ":" + e.line }

func decodeEntry(s string) histEntry {
	if line, ok := strings.CutPrefix(s, modeCtrl.tag()+":"); ok {
		return histEntry{line: line, mode: modeCtrl}
	}

	line, _ := strings.CutPrefix(s, modeEval.tag()+":")

	return histEntry{line: line, mode: modeEval}
}

// History is the input history shared by both modes, oldest first.
// Entries are persisted to a file when a path is configured.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []histEntry
}

// NewHistory returns an empty History persisted at path.
// An empty path keeps history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those read from the history file.
// A missing file is not an error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer f.Close()

	h.entries = h.entries[:0]

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			h.entries = append(h.entries, decodeEntry(s))
		}
	}

	return sc.Err()
}

// Add records line as the newest entry for mode. An earlier identical entry
// is moved rather than repeated.
func (h *History) Add(line string, mode inputMode) error {
	e := histEntry{line: strings.TrimSpace(line), mode: mode}
	if e.line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	before := len(h.entries)
	h.entries = slices.DeleteFunc(h.entries, func(x histEntry) bool { return x == e })
	h.entries = append(h.entries, e)

	if h.path == "" {
		return nil
	}

	if len(h.entries) <= before {
		return h.rewrite()
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(e.encode() + "\n")

	return err
}

// Entry returns the entry at index i, where 0 is the oldest.
func (h *History) Entry(i int) (histEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return histEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// seek returns the index of the first entry after from, stepping by step,
// whose mode is accepted by keep.
func (h *History) seek(from, step int, keep func(inputMode) bool) (int, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := from + step; i >= 0 && i < len(h.entries); i += step {
		if keep(h.entries[i].mode) {
			return i, true
		}
	}

	return 0, false
}

// rewrite replaces the history file with the current entries.
// The caller holds h.mu.
func (h *History) rewrite() error {
	f, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range h.entries {
		if _, err := w.WriteString(e.encode() + "\n"); err != nil {
			return err
		}
	}

	return w.Flush()
}
