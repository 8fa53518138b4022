package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/acs/log"
)

const (
	evalPrompt   = "➜ "
	ctrlPrompt   = " :"
	defaultWidth = 80
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Print this message
  list     List visible bindings
  edit     Edit session source in $EDITOR
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type an expression or statement to evaluate it
  Declarations persist for the rest of the session
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between eval and command modes
  Use Up/Down for history, Shift+Up/Shift+Down for history of this mode
  Press Ctrl+C on an empty line or Ctrl+D to exit
`

// inputMode selects whether input is evaluated or run as a command.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

func (m inputMode) tag() string {
	if m == modeCtrl {
		return "C"
	}

	return "E"
}

func (m inputMode) prompt() string {
	if m == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(evalPrompt)
}

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
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

type (
	editDoneMsg      struct{ source string }
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

// model is the Bubble Tea model of the REPL.
type model struct {
	ctx     context.Context
	session *Session
	output  *bytes.Buffer
	logger  log.Logger
	history *History
	histIdx int

	input textinput.Model
	mode  inputMode
	saved [2]struct {
		text   string
		cursor int
	}

	matches    fuzzy.Matches
	wordStart  int
	wordEnd    int
	suggIdx    int
	tabActive  bool
	preTabText string
	preTabPos  int

	width    int
	quitting bool
}

// Run starts an interactive session. Text written by evaluated code to out
// is printed after each input. History is kept under cacheDir.
func Run(
	ctx context.Context,
	session *Session,
	out *bytes.Buffer,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, historyFile)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", path),
		slog.Int("history_count", history.Len()),
		slog.Int("binding_count", len(session.Names())),
	)

	_, err = tea.NewProgram(
		newModel(ctx, session, out, history, logger),
		tea.WithContext(ctx),
	).Run()

	return err
}

func newModel(
	ctx context.Context,
	session *Session,
	out *bytes.Buffer,
	history *History,
	logger log.Logger,
) model {
	if out == nil {
		out = new(bytes.Buffer)
	}

	ti := textinput.New()
	ti.Prompt = modeEval.prompt()
	ti.CharLimit = 1024
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctx:     ctx,
		session: session,
		output:  out,
		logger:  logger,
		history: history,
		histIdx: history.Len(),
		input:   ti,
		suggIdx: -1,
		width:   defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		if err := m.session.Reset(m.ctx, msg.source); err != nil {
			return m, m.printed(tea.Println(errorStyle.Render("error: " + err.Error())))
		}

		m.logger.TraceContext(m.ctx, "repl edit complete",
			slog.Int("binding_count", len(m.session.Names())))

		return m, m.printed(tea.Println(resultStyle.Render("session reloaded")))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
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

// hintLine is shown below the input: the history position, a usage hint,
// a call signature, or completion candidates.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.histIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.histIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeCtrl {
			return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
		}

		return hintStyle.Render("Type an expression or statement, or press Esc for commands")
	}

	if m.mode == modeEval && !m.tabActive {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if params, ok := signatureOf(m.session, call.name); ok {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	return m.renderCandidateBar()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.histIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(-1, false), nil

	case tea.KeyDown:
		return m.recall(1, false), nil

	case tea.KeyShiftUp:
		return m.recall(-1, true), nil

	case tea.KeyShiftDown:
		return m.recall(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabPos)
			m.refreshMatches(false)

			return m, nil
		}

		next := modeCtrl
		if m.mode == modeCtrl {
			next = modeEval
		}

		return m.switchMode(next), nil
	}

	typed := msg.Type == tea.KeyRunes
	if typed && m.tabActive && msg.String() == " " {
		m.tabActive = false
	} else if !typed {
		m.tabActive = false
	}

	var cmd tea.Cmd

	m.histIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(typed)

	return m, cmd
}

// cycle moves the selected completion by step, starting a tab cycle if
// none is active. A single candidate is accepted immediately.
func (m model) cycle(step int) model {
	switch len(m.matches) {
	case 0:
		return m
	case 1:
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	n := len(m.matches)

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabPos = m.input.Position()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord substitutes s for the word being completed.
func (m *model) replaceWord(s string) {
	v := m.input.Value()
	m.input.SetValue(v[:m.wordStart] + s + v[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refreshMatches recomputes completions. With accept set, a word that
// already equals the only candidate is accepted.
func (m *model) refreshMatches(accept bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !accept || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
		m.suggIdx = -1
	}
}

// recall moves through history by step. Unless sameMode is set, recalling
// an entry switches to the mode it was entered in.
func (m model) recall(step int, sameMode bool) model {
	keep := func(mode inputMode) bool { return !sameMode || mode == m.mode }

	i, ok := m.history.seek(m.histIdx, step, keep)
	if !ok {
		if step > 0 && m.histIdx < m.history.Len() {
			m.histIdx = m.history.Len()
			m.input.SetValue("")
			m.refreshMatches(false)
		}

		return m
	}

	e, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	if e.mode != m.mode {
		m = m.switchMode(e.mode)
	}

	m.histIdx = i
	m.input.SetValue(e.line)
	m.input.SetCursor(len(e.line))
	m.refreshMatches(false)

	return m
}

// switchMode changes mode, keeping the unsubmitted input of each mode.
func (m model) switchMode(mode inputMode) model {
	m.saved[m.mode].text = m.input.Value()
	m.saved[m.mode].cursor = m.input.Position()

	m.mode = mode
	m.input.Prompt = mode.prompt()
	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	m.refreshMatches(false)

	return m
}

func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]struct {
		text   string
		cursor int
	}{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctx, "could not save history", slog.Any("error", err))
	}

	m.histIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.command(input)
	}

	m.logger.TraceContext(m.ctx, "repl eval", slog.String("input", input))

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	result, err := m.session.Eval(m.ctx, input)
	if err != nil {
		return m, tea.Sequence(echo, m.printed(tea.Println(errorStyle.Render("error: "+err.Error()))))
	}

	if result == "" {
		return m, tea.Sequence(echo, m.printed(nil))
	}

	return m, tea.Sequence(echo, m.printed(tea.Println(resultStyle.Render(result))))
}

// printed prepends any output written by evaluated code to then.
func (m model) printed(then tea.Cmd) tea.Cmd {
	out := strings.TrimSuffix(m.output.String(), "\n")
	m.output.Reset()

	if out == "" {
		return then
	}

	return tea.Sequence(tea.Println(out), then)
}

func (m model) command(input string) (model, tea.Cmd) {
	name, _, _ := strings.Cut(input, " ")

	m.logger.TraceContext(m.ctx, "repl command", slog.String("command", name))

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())
	}

	return m, tea.Println(errorStyle.Render("unknown command: " + name + " (try 'help')"))
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctx:    m.ctx,
		source: m.session.Source(),
		opts:   m.session.opts,
		logger: m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.edited == nil:
			return editCancelledMsg{}
		}

		return editDoneMsg{source: *cmd.edited}
	})
}

// listBindings renders every visible binding, innermost scope first.
func (m model) listBindings() string {
	var b strings.Builder

	for name, binding := range m.session.Scope().All() {
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(binding)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}
