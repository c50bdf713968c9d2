// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	chatctl "github.com/jeranaias/threadchat/internal/chat"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
	"github.com/jeranaias/threadchat/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the terminal UI.
type Options struct {
	// Theme defaults to NewTheme().
	Theme *styles.Theme

	// TerminalStyle is a resolved glamour style ("dark", "light", "notty").
	TerminalStyle string

	// RenderMode selects Markdown or legacy formatting for replies.
	RenderMode render.Mode

	// SidebarWidth in columns, border included (default 28).
	SidebarWidth int

	// ConfirmClear asks before clearing all conversations.
	ConfirmClear bool

	// ShowExamples lists the example conversations in the sidebar.
	ShowExamples bool

	// Clipboard writes copied replies; defaults to the system clipboard.
	Clipboard func(string) error
}

const (
	defaultSidebarWidth = 28
	inputHeight         = 3
	statusHeight        = 1
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctrl   Controller
	ctx    context.Context
	cancel context.CancelFunc

	opts  Options
	theme *styles.Theme
	keys  KeyMap

	// Dimensions
	width  int
	height int
	ready  bool

	// UI Components
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	renderer *render.TerminalRenderer

	// What the controller last showed
	messages     []model.Message
	threads      []chatctl.ThreadItem
	examples     []chatctl.ExampleItem
	loading      map[model.ThreadID]bool
	inputEnabled bool
	placeholder  string

	confirming bool
	status     string
	statusErr  bool
	started    bool
}

// New creates the model. The controller's display must already forward to
// the program running this model.
func New(parent context.Context, ctrl Controller, opts Options) *Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme()
	}
	if opts.SidebarWidth <= 0 {
		opts.SidebarWidth = defaultSidebarWidth
	}
	if opts.TerminalStyle == "" {
		opts.TerminalStyle = render.TerminalStyleNoTTY
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ctx, cancel := context.WithCancel(parent)

	ta := textarea.New()
	ta.Placeholder = chatctl.DefaultPlaceholder
	ta.ShowLineNumbers = false
	ta.Prompt = "> "
	ta.CharLimit = 8000
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Theme.Spinner

	return &Model{
		ctrl:         ctrl,
		ctx:          ctx,
		cancel:       cancel,
		opts:         opts,
		theme:        opts.Theme,
		keys:         DefaultKeyMap(),
		viewport:     viewport.New(0, 0),
		input:        ta,
		spinner:      sp,
		loading:      make(map[model.ThreadID]bool),
		inputEnabled: true,
		placeholder:  chatctl.DefaultPlaceholder,
	}
}

// Init starts the controller and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		startCmd(m.ctx, m.ctrl),
		textarea.Blink,
		m.spinner.Tick,
	)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.activeLoading() {
			m.refreshContent()
		}
		return m, cmd

	// Display output
	case clearMsg:
		m.messages = nil
		m.refreshContent()
		return m, nil

	case showMessageMsg:
		m.messages = append(m.messages, msg.Message)
		m.refreshContent()
		return m, nil

	case loadingMsg:
		if msg.Loading {
			m.loading[msg.Thread] = true
		} else {
			delete(m.loading, msg.Thread)
		}
		m.refreshContent()
		return m, nil

	case inputMsg:
		m.setInput(msg.Enabled, msg.Placeholder)
		return m, nil

	case threadsMsg:
		m.threads = msg.Threads
		m.examples = msg.Examples
		m.refreshContent()
		return m, nil

	// Command results
	case startedMsg:
		m.started = true
		if msg.Err != nil {
			m.setStatus("Conversations could not be loaded; changes will not be saved", true)
		}
		return m, nil

	case errMsg:
		m.setStatus(userMessage(msg.Err), true)
		return m, nil

	case statusMsg:
		m.setStatus(msg.Text, false)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.cancel()
		return m, tea.Quit
	}

	if m.confirming {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirming = false
			return m, clearAllCmd(m.ctrl)
		case key.Matches(msg, m.keys.Deny):
			m.confirming = false
			m.setStatus("Clear cancelled", false)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		return m, m.submit()

	case key.Matches(msg, m.keys.NewThread):
		return m, newThreadCmd(m.ctrl)

	case key.Matches(msg, m.keys.PrevThread):
		return m, m.stepThread(-1)

	case key.Matches(msg, m.keys.NextThread):
		return m, m.stepThread(1)

	case key.Matches(msg, m.keys.CycleExample):
		return m, m.nextExample()

	case key.Matches(msg, m.keys.ClearAll):
		if m.opts.ConfirmClear {
			m.confirming = true
			return m, nil
		}
		return m, clearAllCmd(m.ctrl)

	case key.Matches(msg, m.keys.CopyReply):
		last, ok := m.lastReply()
		if !ok {
			m.setStatus("No reply to copy", false)
			return m, nil
		}
		return m, copyCmd(m.opts.Clipboard, last)

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if !m.inputEnabled {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the typed text. Blank input and a disabled input do nothing.
func (m *Model) submit() tea.Cmd {
	if !m.inputEnabled || !m.started {
		return nil
	}
	text := m.input.Value()
	if isBlank(text) {
		return nil
	}
	m.input.Reset()
	m.status = ""
	return sendCmd(m.ctx, m.ctrl, text)
}

// stepThread selects the thread delta positions away from the active one.
// From an example, the first step lands on the first or last thread.
func (m *Model) stepThread(delta int) tea.Cmd {
	if len(m.threads) == 0 {
		return nil
	}
	current := -1
	for i, t := range m.threads {
		if t.Active {
			current = i
			break
		}
	}

	next := 0
	switch {
	case current < 0 && delta < 0:
		next = len(m.threads) - 1
	case current < 0:
		next = 0
	default:
		next = current + delta
		if next < 0 || next >= len(m.threads) {
			return nil
		}
	}
	return selectThreadCmd(m.ctrl, m.threads[next].ID)
}

// nextExample cycles through the examples, wrapping after the last.
func (m *Model) nextExample() tea.Cmd {
	if len(m.examples) == 0 {
		return nil
	}
	next := 0
	for i, e := range m.examples {
		if e.Active {
			next = (i + 1) % len(m.examples)
			break
		}
	}
	return viewExampleCmd(m.ctrl, m.examples[next].Name)
}

func (m *Model) lastReply() (model.Message, bool) {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if !m.messages[i].IsUser() {
			return m.messages[i], true
		}
	}
	return model.Message{}, false
}

func (m *Model) setInput(enabled bool, placeholder string) {
	m.inputEnabled = enabled
	m.placeholder = placeholder
	m.input.Placeholder = placeholder
	if enabled {
		m.input.Focus()
	} else {
		m.input.Reset()
		m.input.Blur()
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// activeThread returns the highlighted thread, or "" in example mode.
func (m *Model) activeThread() model.ThreadID {
	for _, t := range m.threads {
		if t.Active {
			return t.ID
		}
	}
	return ""
}

func (m *Model) activeLoading() bool {
	id := m.activeThread()
	return id != "" && m.loading[id]
}

// userMessage maps controller errors to short, non-technical text.
func userMessage(err error) string {
	switch {
	case errors.Is(err, chatctl.ErrExampleMode):
		return "Start or select a chat to send messages"
	case errors.Is(err, chatctl.ErrRequestInFlight):
		return "Still waiting for the previous reply"
	case errors.Is(err, chatctl.ErrNotStarted):
		return "Still loading conversations"
	case errors.Is(err, chatctl.ErrUnknownThread):
		return "That chat no longer exists"
	default:
		return err.Error()
	}
}

// =============================================================================
// PROGRAM
// =============================================================================

// Program bundles a model with the tea.Program running it.
type Program struct {
	*tea.Program
	model *Model
}

// NewProgram builds the program. Wire the controller's display to the
// returned program before calling Run:
//
//	p := chat.NewProgram(ctx, ctrl, opts)
//	ctrl.SetDisplay(chat.NewDisplay(p))
//	err := p.Run()
func NewProgram(ctx context.Context, ctrl Controller, opts Options, teaOpts ...tea.ProgramOption) *Program {
	m := New(ctx, ctrl, opts)
	teaOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, teaOpts...)
	return &Program{Program: tea.NewProgram(m, teaOpts...), model: m}
}

// Run runs the program until the user quits. A context cancellation is
// not reported as an error.
func (p *Program) Run() error {
	_, err := p.Program.Run()
	p.model.cancel()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
