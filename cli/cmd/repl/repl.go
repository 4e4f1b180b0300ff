package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// Messages returned by the data editor.
type (
	editDataMsg      struct{ data map[string]any }
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

const (
	renderPrompt = "» "
	ctrlPrompt   = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Print this help
  list     List top-level data names
  edit     Edit data as YAML in $EDITOR
  clear    Clear screen and parsed templates
  quit     Exit REPL

Usage:
  Type a template line to render it against the loaded data
  Names are completed inside {{ }} tags as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between render and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`

// inputMode is the interpretation of a submitted line.
type inputMode int

const (
	modeRender inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = suggestionStyle.Bold(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Session is the state a REPL renders against.
type Session struct {
	Engine   *mustache.Engine
	Data     map[string]any
	Partials mustache.Partials
	CacheDir string
	Logger   log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	engine       *mustache.Engine
	data         map[string]any
	partials     mustache.Partials
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches  // ranked completions of the current word
	scope        map[string]any // record the candidates are drawn from
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	saved        [2]struct {
		text   string
		cursor int
	}
}

// Run starts an interactive session rendering each line typed against
// s.Data. History is kept in s.CacheDir when it is not empty.
func Run(ctx context.Context, s Session) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if s.Engine == nil {
		s.Engine = mustache.New(
			mustache.WithLogger(s.Logger),
			mustache.WithCache(mustache.NewCache()),
		)
	}

	if s.Data == nil {
		s.Data = make(map[string]any)
	}

	var history *History
	if s.CacheDir != "" {
		history = NewHistory(filepath.Join(s.CacheDir, HistoryFile))
	} else {
		history = NewHistory("")
	}

	if err := history.Load(); err != nil {
		s.Logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	s.Logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", s.CacheDir),
		slog.Int("names", len(s.Data)),
		slog.Int("history", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, s, history), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, s Session, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(renderPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		engine:     s.Engine,
		data:       s.Data,
		partials:   s.Partials,
		logger:     s.Logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
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
		m.input.Width = msg.Width - lipgloss.Width(renderPrompt) - 2

		return m, nil

	case editDataMsg:
		m.data = msg.data
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("names", len(m.data)))

		return m, tea.Println(resultStyle.Render("✔ data updated"))

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

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())))

	case strings.TrimSpace(m.input.Value()) == "":
		if m.mode == modeRender {
			b.WriteString(hintStyle.Render("Type a template or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render("Type: help, list, edit, clear, quit (press Esc to return)"))
		}

	default:
		b.WriteString(renderCandidateBar(m.matches, m.scope, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
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
			return m.executeInput()
		}

		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeRender {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeRender), nil

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

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the selected candidate by step, wrapping around. A single
// candidate is accepted immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord substitutes replacement for the current word and moves
// the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes completions for the current input. With
// autoConfirm, a typed word equal to the sole candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.scope, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := m.input.Value()
	if strings.TrimSpace(input) == "" {
		return m, nil
	}

	m.saved = [2]struct {
		text   string
		cursor int
	}{}
	m.input.SetValue("")

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	if m.mode == modeCtrl {
		return m.executeCommand(strings.TrimSpace(input))
	}

	echo := tea.Println(promptStyle.Render(renderPrompt) + inputStyle.Render(input))

	out, err := m.render(input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	if out == "" {
		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("(empty)")))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

// render renders one template line against the session data.
func (m model) render(text string) (string, error) {
	ctx := m.ctxFunc()

	out, err := m.engine.Render(ctx, text, m.data, m.partials)

	m.logger.TraceContext(ctx, "repl render",
		slog.String("input", text),
		slog.Int("bytes", len(out)),
		slog.Bool("ok", err == nil),
	)

	return out, err
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(listNames(m.data)))

	case "c", "clear":
		m.clearCache()

		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(errorStyle.Render("unknown command: " + parts[0] + " (try 'help')"))
	}
}

// clearCache drops the templates parsed during the session. The shared
// [mustache.DefaultCache] is left alone.
func (m model) clearCache() {
	cache := m.engine.Cache()
	if cache == mustache.DefaultCache {
		return
	}

	m.logger.TraceContext(m.ctxFunc(), "repl cache clear",
		slog.Int("entries", cache.Len()))

	cache.Clear()
}

func (m model) edit() tea.Cmd {
	cmd := &editDataCommand{
		data:    m.data,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.newData == nil:
			return editCancelledMsg{}
		default:
			return editDataMsg{data: cmd.newData}
		}
	})
}

// listNames formats the top-level names of data with a preview of each.
func listNames(data map[string]any) string {
	var b strings.Builder

	for _, name := range slices.Sorted(maps.Keys(data)) {
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(data[name])))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (no data)")
	}

	return b.String()
}

// historyStep moves through history by dir (-1 older, 1 newer). With
// sameMode only entries of the current mode are visited; otherwise the mode
// follows the entry. Stepping past the newest entry clears the input.
func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode changes the input mode, saving the current line and
// restoring the one last typed in mode.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode].text = m.input.Value()
	m.saved[m.mode].cursor = m.input.Position()

	m.mode = mode
	if mode == modeRender {
		m.input.Prompt = promptStyle.Render(renderPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	refreshMatches(&m, false)

	return m
}
