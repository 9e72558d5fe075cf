package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dynfmt/format"
	"github.com/ardnew/dynfmt/log"
)

// editTemplateMsg is sent when template editing completes successfully.
type editTemplateMsg struct{ tmpl *format.Template }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a compile
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-compile error.
type editErrorMsg struct{ err error }

const (
	renderPrompt = "➜ "
	ctrlPrompt   = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this help
  list     List known value names with their kinds
  edit     Edit the current template in external $EDITOR
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a template to render it, e.g. {name:*^12} or {count:+08}
  A live preview of the rendered result appears below the input
  Inside a spec, the hint line describes the requested layout
  Name completions appear while the cursor is on a placeholder name
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between render and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeRender inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hintNameStyle   = hintStyle.Bold(true)
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(renderPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	input            textinput.Model
	lookup           format.Lookup
	names            []string // sorted value names offered for completion
	last             string   // most recently rendered template source
	logger           log.Logger
	history          *History
	historyIdx       int
	matches          fuzzy.Matches // current fuzzy match results
	candidates       []string      // backing candidate list
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	tabActive        bool          // whether user is tab-cycling
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavActive     bool          // whether user is in Alt+Up/Down navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	width            int           // terminal width for ellipsization
	quitting         bool
	mode             inputMode
	renderText       string
	renderCursor     int
	ctrlText         string
	ctrlCursor       int
}

// Run starts the REPL over the values exposed by lookup. The input line is
// seeded with initial, and history persists under cacheDir unless it is
// empty.
func Run(
	ctx context.Context,
	lookup format.Lookup,
	initial string,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	names := format.Names(lookup)
	slices.Sort(names)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("name_count", len(names)),
	)

	path := ""
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, lookup, names, history, logger)
	if initial != "" {
		m.input.SetValue(initial)
		m.input.CursorEnd()
		refreshMatches(&m, false)
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	lookup format.Lookup,
	names []string,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(renderPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	if lookup == nil {
		lookup = format.Map{}
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		lookup:     lookup,
		names:      names,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeRender,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(renderPrompt) - 2

		return m, nil

	case editTemplateMsg:
		m.last = msg.tmpl.Source()
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("name_count", len(msg.tmpl.Names())),
		)

		return m, m.renderResult(msg.tmpl)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine returns the single status line shown beneath the input.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := m.historyIdx + 1

		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeRender {
			return hintStyle.Render("Type a template or press Esc for commands")
		}

		return hintStyle.Render(
			"Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)",
		)
	}

	if len(m.matches) > 0 {
		return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
	}

	if m.mode != modeRender {
		return ""
	}

	if c := contextAt(input, byteOffset(input, m.input.Position())); c.inSpec {
		return specHint(input, c)
	}

	return m.preview(input)
}

// preview renders input against the current values for the hint line. Any
// failure is summarized instead of the result.
func (m model) preview(input string) string {
	tmpl, err := format.Compile(input)
	if err != nil {
		var ce *format.CompileError
		if errors.As(err, &ce) {
			return errorStyle.Render(fmt.Sprintf(
				"at column %d: expected %s", ce.Pos.Column, ce.Expected,
			))
		}

		return errorStyle.Render(err.Error())
	}

	out, err := tmpl.RenderString(m.lookup)
	if err != nil {
		var nf *format.NotFoundError
		if errors.As(err, &nf) {
			return hintStyle.Render("unknown name ") + hintNameStyle.Render(nf.Name)
		}

		return errorStyle.Render(err.Error())
	}

	// Only the first line fits on the hint line.
	if first, _, more := strings.Cut(out, "\n"); more {
		out = first + "…"
	}

	return hintStyle.Render("= ") + resultStyle.Render(out)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNavActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			m.altNavActive = false

			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		m.altNavActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		if msg.Alt {
			return m.historyCtrl(-1)
		}

		return m.historyPrev()

	case tea.KeyDown:
		if msg.Alt {
			return m.historyCtrl(1)
		}

		return m.historyNext()

	case tea.KeyShiftUp:
		return m.historyInMode(-1)

	case tea.KeyShiftDown:
		return m.historyInMode(1)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNavActive = false

		return m.toggleMode()

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows) edits without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle advances the tab selection by step, wrapping at either end. A single
// candidate is completed and confirmed immediately.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(utf8.RuneCountInString(newInput[:newCursor]))

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly one
// candidate remains and the typed word already equals it. Deletions and
// cursor movement pass false so editing never completes unexpectedly.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := m.input.Value()

	// Ctrl commands ignore surrounding space; templates keep it.
	input := raw
	if m.mode == modeCtrl {
		input = strings.TrimSpace(raw)
	}

	if strings.TrimSpace(input) == "" {
		return m, nil
	}

	m.renderText = ""
	m.renderCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	refreshMatches(&m, false)

	if err := m.history.Write(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl render",
		slog.String("input", input),
	)

	m.last = input
	echoCmd := tea.Println(formatCommand(input))

	tmpl, err := format.CompileCached(input)
	if err != nil {
		var ce *format.CompileError

		msg := errorStyle.Render("error: " + err.Error())
		if errors.As(err, &ce) {
			msg += "\n" + hintStyle.Render(strings.TrimSuffix(ce.Snippet(), "\n"))
		}

		return m, tea.Sequence(echoCmd, tea.Println(msg))
	}

	return m, tea.Sequence(echoCmd, m.renderResult(tmpl))
}

// renderResult renders tmpl and returns a command printing the outcome.
func (m model) renderResult(tmpl *format.Template) tea.Cmd {
	out, err := tmpl.RenderString(m.lookup)
	if err != nil {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl render result",
			slog.Any("error", err),
		)

		return tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl render result",
		slog.Int("bytes", len(out)),
	)

	return tea.Println(resultStyle.Render(out))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listNames(args...)))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.handleEdit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) handleEdit() tea.Cmd {
	cmd := &editTemplateCommand{
		source:  m.last,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.tmpl == nil {
			return editCancelledMsg{}
		}

		return editTemplateMsg{tmpl: cmd.tmpl}
	})
}

// listNames describes each known value. Arguments, when given, filter the
// names by fuzzy match.
func (m model) listNames(filter ...string) string {
	names := m.names
	if len(filter) > 0 {
		names = nil
		for _, match := range fuzzy.Find(strings.Join(filter, ""), m.names) {
			names = append(names, match.Str)
		}
	}

	if len(names) == 0 {
		return hintStyle.Render("  (no values)")
	}

	pad := 0
	for _, name := range names {
		pad = max(pad, lipgloss.Width(name))
	}

	var b strings.Builder

	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}

		desc := ""
		if v, err := m.lookup.Lookup(name); err != nil {
			desc = errorStyle.Render(err.Error())
		} else {
			desc = hintStyle.Render(v.Kind().String()) + " " + v.String()
		}

		fmt.Fprintf(&b, "  %s%s  %s",
			name, strings.Repeat(" ", pad-lipgloss.Width(name)), desc)
	}

	return b.String()
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--
		m = m.loadEntry(m.historyIdx, true)
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		return m.loadEntry(m.historyIdx, true), nil
	}

	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m, false)

	return m, nil
}

// loadEntry replaces the input with history entry i, optionally switching to
// the entry's mode.
func (m model) loadEntry(i int, switchMode bool) model {
	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	if switchMode && m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.CursorEnd()
	refreshMatches(&m, false)

	return m
}

// findEntry searches history from the current index in direction dir for
// the next entry recorded in mode.
func (m model) findEntry(dir int, mode inputMode) (int, bool) {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == mode {
			return i, true
		}
	}

	return 0, false
}

func (m model) historyInMode(dir int) (model, tea.Cmd) {
	if i, ok := m.findEntry(dir, m.mode); ok {
		return m.loadEntry(i, false), nil
	}

	// Past the newest entry of this mode, clear input.
	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

func (m model) historyCtrl(dir int) (model, tea.Cmd) {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m, _ = m.switchToMode(modeCtrl)
		}
	}

	if i, ok := m.findEntry(dir, modeCtrl); ok {
		return m.loadEntry(i, false), nil
	}

	// Reached either end of command history, restore original state.
	m.altNavActive = false
	if m.altNavOrigMode != m.mode {
		m, _ = m.switchToMode(m.altNavOrigMode)
	}

	m.input.SetValue(m.altNavOrigText)
	m.input.SetCursor(m.altNavOrigCursor)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m, nil
}

// toggleMode switches between render and control modes, preserving input
// state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeRender {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeRender)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeRender {
		m.renderText = m.input.Value()
		m.renderCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeRender {
		m.input.Prompt = promptStyle.Render(renderPrompt)
		m.input.SetValue(m.renderText)
		m.input.SetCursor(m.renderCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
