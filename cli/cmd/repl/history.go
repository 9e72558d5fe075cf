package repl

import (
	"bufio"
	"os"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// modePrefix maps each input mode to its line prefix in the history file.
var modePrefix = map[inputMode]string{
	modeRender: "R:",
	modeCtrl:   "C:",
}

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History manages input history with file persistence.
// An empty path keeps history in memory only.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file.
// A missing file is not an error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		for mode, prefix := range modePrefix {
			if s, ok := strings.CutPrefix(line, prefix); ok && s != "" {
				h.entries = append(h.entries, HistoryEntry{Line: s, Mode: mode})

				break
			}
		}
	}

	return scanner.Err()
}

// Write appends a new entry to the history with the specified mode.
// An existing entry with the same line and mode is moved to the end.
// Leading and trailing spaces are significant in templates, so entries are
// stored verbatim.
func (h *History) Write(entry string, mode inputMode) error {
	if strings.TrimSpace(entry) == "" || strings.ContainsAny(entry, "\r\n") {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	e := HistoryEntry{Line: entry, Mode: mode}

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	if i := slices.Index(h.entries, e); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
		h.entries = append(h.entries, e)

		return h.rewrite()
	}

	h.entries = append(h.entries, e)

	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(modePrefix[mode] + entry + "\n")

	return err
}

// Entry retrieves a historic entry by index. Index 0 is the oldest entry.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all history entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewrite replaces the history file with the current entries.
// Must be called with h.mu held.
func (h *History) rewrite() error {
	if h.path == "" {
		return nil
	}

	var b strings.Builder

	for _, e := range h.entries {
		b.WriteString(modePrefix[e.Mode])
		b.WriteString(e.Line)
		b.WriteByte('\n')
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}
