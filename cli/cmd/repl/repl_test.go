package repl

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dynfmt/format"
	"github.com/ardnew/dynfmt/log"
)

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func typeText(m model, s string) model {
	for _, r := range s {
		m, _ = m.handleKey(runes(string(r)))
	}

	return m
}

func TestModel_TabCycle(t *testing.T) {
	m := typeText(testModel("alpha", "alphabet", "beta"), "{al")

	if len(m.matches) != 2 {
		t.Fatalf("matches = %v, want 2", matchStrings(m))
	}

	m, _ = m.handleKey(key(tea.KeyTab))
	if !m.tabActive {
		t.Fatal("tab did not start cycling")
	}

	first := m.input.Value()
	if first != "{"+m.matches[0].Str {
		t.Errorf("input = %q, want first candidate", first)
	}

	m, _ = m.handleKey(key(tea.KeyTab))
	if got := m.input.Value(); got != "{"+m.matches[1].Str {
		t.Errorf("input = %q, want second candidate", got)
	}

	m, _ = m.handleKey(key(tea.KeyShiftTab))
	if got := m.input.Value(); got != first {
		t.Errorf("input = %q after shift-tab, want %q", got, first)
	}

	m, _ = m.handleKey(key(tea.KeyEsc))
	if m.tabActive || m.input.Value() != "{al" {
		t.Errorf("esc did not restore input: %q", m.input.Value())
	}

	if m.mode != modeRender {
		t.Error("esc while cycling changed mode")
	}
}

func TestModel_TabSingleCandidate(t *testing.T) {
	m := typeText(testModel("alpha", "beta"), "x {be")

	m, _ = m.handleKey(key(tea.KeyTab))
	if got := m.input.Value(); got != "x {beta" {
		t.Errorf("input = %q, want %q", got, "x {beta")
	}

	if m.tabActive || m.matches != nil {
		t.Error("single candidate left completion active")
	}

	if m.input.Position() != len("x {beta") {
		t.Errorf("cursor = %d, want end of input", m.input.Position())
	}
}

func TestModel_ToggleModePreservesInput(t *testing.T) {
	m := typeText(testModel("alpha"), "{alpha:>3")

	m, _ = m.handleKey(key(tea.KeyEsc))
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("mode = %v, input = %q; want ctrl mode with empty input", m.mode, m.input.Value())
	}

	m = typeText(m, "he")
	if got := matchStrings(m); len(got) != 1 || got[0] != "help" {
		t.Errorf("ctrl matches = %v, want [help]", got)
	}

	m, _ = m.handleKey(key(tea.KeyEsc))
	if m.mode != modeRender || m.input.Value() != "{alpha:>3" {
		t.Errorf("mode = %v, input = %q; want render mode with saved input", m.mode, m.input.Value())
	}
}

func TestModel_ExecuteRecordsHistory(t *testing.T) {
	m := typeText(testModel("alpha"), "[{alpha:^7}]")

	m, cmd := m.handleKey(key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter returned no command")
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q after enter, want empty", m.input.Value())
	}

	if m.last != "[{alpha:^7}]" {
		t.Errorf("last = %q", m.last)
	}

	e, err := m.history.Entry(0)
	if err != nil || e.Line != "[{alpha:^7}]" || e.Mode != modeRender {
		t.Errorf("history entry = %+v, %v", e, err)
	}

	// Up recalls the entry; Down past the end clears it.
	m, _ = m.handleKey(key(tea.KeyUp))
	if m.input.Value() != "[{alpha:^7}]" {
		t.Errorf("history up = %q", m.input.Value())
	}

	if hint := m.hintLine(); !strings.Contains(hint, "1/1") {
		t.Errorf("hint = %q, want position indicator", hint)
	}

	m, _ = m.handleKey(key(tea.KeyDown))
	if m.input.Value() != "" || m.historyIdx != 1 {
		t.Errorf("history down = %q at %d", m.input.Value(), m.historyIdx)
	}
}

func TestModel_HistorySwitchesMode(t *testing.T) {
	m := testModel("alpha")
	_ = m.history.Write("{alpha}", modeRender)
	_ = m.history.Write("list", modeCtrl)
	m.historyIdx = m.history.Len()

	m, _ = m.handleKey(key(tea.KeyUp))
	if m.mode != modeCtrl || m.input.Value() != "list" {
		t.Errorf("up: mode %v input %q", m.mode, m.input.Value())
	}

	m, _ = m.handleKey(key(tea.KeyUp))
	if m.mode != modeRender || m.input.Value() != "{alpha}" {
		t.Errorf("up: mode %v input %q", m.mode, m.input.Value())
	}

	// Shift+Down stays within render mode; there is nothing newer.
	m, _ = m.handleKey(key(tea.KeyShiftDown))
	if m.mode != modeRender || m.input.Value() != "" {
		t.Errorf("shift-down: mode %v input %q", m.mode, m.input.Value())
	}
}

func TestModel_CtrlCClearsThenQuits(t *testing.T) {
	m := typeText(testModel(), "abc")

	m, cmd := m.handleKey(key(tea.KeyCtrlC))
	if m.quitting || cmd != nil || m.input.Value() != "" {
		t.Fatalf("first ctrl-c: quitting %v input %q", m.quitting, m.input.Value())
	}

	m, cmd = m.handleKey(key(tea.KeyCtrlC))
	if !m.quitting || cmd == nil {
		t.Error("second ctrl-c did not quit")
	}

	if m.View() != "" {
		t.Errorf("View() = %q after quit, want empty", m.View())
	}
}

func TestModel_Preview(t *testing.T) {
	m := testModel("alpha")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"rendered", "[{alpha:>7}]", "= [  alpha]"},
		{"unknown", "{zeta}", "unknown name zeta"},
		{"compile_error", "{alpha:x}", "at column 8: expected '}'"},
		{"multiline", "{alpha}\nmore", "= alpha…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.preview(tt.input); got != tt.want {
				t.Errorf("preview(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModel_HintLine(t *testing.T) {
	m := testModel("alpha")
	if hint := m.hintLine(); !strings.Contains(hint, "Type a template") {
		t.Errorf("empty hint = %q", hint)
	}

	m = typeText(m, "{alpha:*^9")
	if hint, want := m.hintLine(), "alpha: align center, fill '*', width 9"; hint != want {
		t.Errorf("spec hint = %q, want %q", hint, want)
	}
}

func TestModel_ListNames(t *testing.T) {
	m := newModel(t.Context(), format.Map{
		"count": format.Int(3),
		"name":  format.String("x"),
	}, []string{"count", "name"}, NewHistory(""), log.Logger{})

	want := "  count  Int 3\n  name   String x"
	if got := m.listNames(); got != want {
		t.Errorf("listNames() = %q, want %q", got, want)
	}

	if got := m.listNames("nm"); got != "  name  String x" {
		t.Errorf("listNames(nm) = %q", got)
	}

	if got := testModel().listNames(); got != "  (no values)" {
		t.Errorf("empty listNames() = %q", got)
	}
}
