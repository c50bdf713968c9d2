// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	chatctl "github.com/jeranaias/threadchat/internal/chat"
	"github.com/jeranaias/threadchat/internal/config"
	"github.com/jeranaias/threadchat/internal/examples"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/render"
	"github.com/jeranaias/threadchat/internal/util"
)

func newChatCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Line-based chat with input history",
		Long: `Chat one line at a time in the current terminal.

Commands during chat:
  /help, /h            Show commands
  /new, /n             Start a new thread
  /threads, /t         List threads
  /switch <n|id>       Switch to a thread by list number or ID prefix
  /example [name]      Show an example conversation (lists them without a name)
  /clear               Delete every conversation
  /quit, /q            Exit
  Ctrl+C               Cancel a pending reply
  Ctrl+D               Exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), opts)
		},
	}
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides line editing and persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads history from historyFile.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.LoadHistory()
	return c
}

// LoadHistory reads the history file, if any.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput prompts for one line. Non-blank lines go into history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Confirm implements chatctl.Confirmer with a y/N prompt.
func (c *ChatCLI) Confirm(prompt string) bool {
	answer, err := c.line.Prompt(prompt + " [y/N]: ")
	if err != nil {
		return false
	}
	return isYes(answer)
}

// SaveHistory writes history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	// SECURITY: history holds everything the user typed.
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// LINE DISPLAY
// =============================================================================

// lineDisplay prints controller output as a running transcript.
type lineDisplay struct {
	mu       sync.Mutex
	out      io.Writer
	term     *render.TerminalRenderer
	width    int
	echoUser bool
}

func newLineDisplay(out io.Writer, term *render.TerminalRenderer, width int) *lineDisplay {
	return &lineDisplay{out: out, term: term, width: width, echoUser: true}
}

// setEcho controls whether user messages are printed. The REPL turns it off
// while sending since the user just typed the text.
func (d *lineDisplay) setEcho(on bool) {
	d.mu.Lock()
	d.echoUser = on
	d.mu.Unlock()
}

func (d *lineDisplay) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, RenderSeparator(d.width))
}

func (d *lineDisplay) ShowMessage(msg model.Message, _ render.Fragment) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if msg.IsUser() && !d.echoUser {
		return
	}
	fmt.Fprintln(d.out, formatMessage(msg, d.term))
}

func (d *lineDisplay) SetLoading(_ model.ThreadID, loading bool) {
	if !loading {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, DimStyle.Render("thinking..."))
}

func (d *lineDisplay) SetInput(enabled bool, placeholder string) {
	if enabled {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, DimStyle.Render(placeholder))
}

// ShowThreads is a no-op; /threads asks the controller directly.
func (d *lineDisplay) ShowThreads([]chatctl.ThreadItem, []chatctl.ExampleItem) {}

// formatMessage renders one message with its author label. A nil renderer
// prints assistant markup as plain text and everything else verbatim.
func formatMessage(msg model.Message, term *render.TerminalRenderer) string {
	var body string
	switch {
	case term != nil:
		body = term.RenderMessage(msg)
	case !msg.IsUser() && msg.IsMarkup():
		body = render.PlainText(msg.Content)
	default:
		body = render.StripControl(msg.Content)
	}

	label := AssistantLabelStyle.Render(msg.Author.DisplayName() + ":")
	if msg.IsUser() {
		label = UserLabelStyle.Render(msg.Author.DisplayName() + ":")
	}
	return label + "\n" + strings.TrimRight(body, "\n") + "\n"
}

// =============================================================================
// SESSION
// =============================================================================

// replSession interprets REPL input against a controller.
type replSession struct {
	ctrl    *chatctl.Controller
	display *lineDisplay
	out     io.Writer
	confirm chatctl.Confirmer

	mu     sync.Mutex
	cancel context.CancelFunc
}

// handleLine processes one line of input and reports whether to exit.
func (s *replSession) handleLine(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
		return true
	}
	if strings.HasPrefix(input, "/") {
		quit, err := s.handleSlash(input)
		if err != nil {
			s.printError(err)
		}
		return quit
	}
	s.send(ctx, input)
	return false
}

// send blocks until the reply is filed. cancelRequest aborts it.
func (s *replSession) send(ctx context.Context, text string) {
	reqCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.display.setEcho(false)
	err := s.ctrl.SendMessage(reqCtx, text)
	s.display.setEcho(true)

	s.mu.Lock()
	s.cancel = nil
	s.mu.Unlock()
	cancel()

	if err != nil {
		s.printError(err)
	}
}

// cancelRequest aborts the pending reply and reports whether there was one.
func (s *replSession) cancelRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	s.cancel = nil
	return true
}

func (s *replSession) handleSlash(input string) (bool, error) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/help", "/h", "/?":
		s.printHelp()

	case "/new", "/n":
		if _, err := s.ctrl.NewThread(); err != nil {
			return false, err
		}

	case "/threads", "/t":
		printThreadList(s.out, s.ctrl.Threads())

	case "/switch", "/s":
		if len(args) != 1 {
			return false, errors.New("usage: /switch <number|id>")
		}
		id, err := resolveThread(args[0], s.ctrl.Threads())
		if err != nil {
			return false, err
		}
		return false, s.ctrl.SelectThread(id)

	case "/example", "/examples", "/e":
		if len(args) == 0 {
			printExampleList(s.out)
			return false, nil
		}
		if err := s.ctrl.ViewExample(args[0]); err != nil {
			return false, fmt.Errorf("%w %q (try /example)", err, args[0])
		}

	case "/clear":
		cleared, err := s.ctrl.ClearAll(s.confirm)
		if err != nil {
			return false, err
		}
		if !cleared {
			fmt.Fprintln(s.out, DimStyle.Render("Cancelled."))
		}

	case "/quit", "/q", "/exit":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
	return false, nil
}

func (s *replSession) printHelp() {
	fmt.Fprintln(s.out, TitleStyle.Render("Commands"))
	for _, row := range [][2]string{
		{"/new", "start a new thread"},
		{"/threads", "list threads"},
		{"/switch <n|id>", "switch thread"},
		{"/example [name]", "show an example conversation"},
		{"/clear", "delete every conversation"},
		{"/quit", "exit"},
	} {
		fmt.Fprintf(s.out, "  %s %s\n", util.PadWidth(row[0], 18), DimStyle.Render(row[1]))
	}
}

func (s *replSession) printError(err error) {
	fmt.Fprintf(s.out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
}

// resolveThread accepts a 1-based list number or a unique ID prefix.
func resolveThread(arg string, items []chatctl.ThreadItem) (model.ThreadID, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(items) {
			return "", fmt.Errorf("no thread number %d (have %d)", n, len(items))
		}
		return items[n-1].ID, nil
	}
	if !model.IsThreadID(arg) {
		return "", fmt.Errorf("%q is not a thread number or id", arg)
	}

	var match model.ThreadID
	for _, it := range items {
		if strings.HasPrefix(it.ID.String(), arg) {
			if match != "" {
				return "", fmt.Errorf("thread prefix %q is ambiguous", arg)
			}
			match = it.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", chatctl.ErrUnknownThread, arg)
	}
	return match, nil
}

// printThreadList prints numbered threads with the active one marked.
func printThreadList(w io.Writer, items []chatctl.ThreadItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No threads."))
		return
	}
	for i, it := range items {
		marker := " "
		title := util.TruncateWidth(util.SingleLine(it.Title), 48)
		if it.Active {
			marker = "*"
			title = ActiveStyle.Render(title)
		}
		busy := ""
		if it.Busy {
			busy = WarningStyle.Render(" (waiting)")
		}
		fmt.Fprintf(w, "%s %2d. %s  %s%s\n", marker, i+1, DimStyle.Render(shortID(it.ID)), title, busy)
	}
}

func printExampleList(w io.Writer) {
	for _, e := range examples.All() {
		fmt.Fprintf(w, "  %s %s\n", util.PadWidth(e.Name, 10), DimStyle.Render(e.Label))
	}
}

// shortID returns the first eight characters of an ID.
func shortID(id model.ThreadID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// =============================================================================
// COMMAND
// =============================================================================

func runChat(ctx context.Context, opts *globalOptions) error {
	a, err := newApp(opts, true)
	if err != nil {
		return err
	}
	defer a.Close()

	style := render.TerminalStyleNoTTY
	if IsStdoutTTY() && ColorsEnabled() {
		style = render.ResolveStyle(a.cfg.Render.TerminalStyle)
	}
	width := min(GetTerminalWidth()-2, a.cfg.Render.WrapWidth)
	term, err := render.NewTerminalRenderer(width, style, render.WithTerminalMode(a.cfg.RenderMode()))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	display := newLineDisplay(opts.out, term, width)
	ctrl := a.newController(display)
	defer a.flush(ctrl)

	historyFile, err := config.HistoryPath()
	if err != nil {
		historyFile = ""
	}
	input := NewChatCLI(historyFile)
	defer input.Close()

	session := &replSession{
		ctrl:    ctrl,
		display: display,
		out:     opts.out,
		confirm: input,
	}

	fmt.Fprintln(opts.out, TitleStyle.Render("threadchat")+" "+DimStyle.Render("type /help for commands, Ctrl+D to exit"))
	if err := ctrl.Start(ctx); err != nil {
		return fmt.Errorf("failed to load conversations: %w", err)
	}

	// The first Ctrl+C during a request cancels it; at the prompt liner
	// reports it as ErrPromptAborted.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if session.cancelRequest() {
				fmt.Fprintln(opts.out, WarningStyle.Render("[Cancelled]"))
			}
		}
	}()

	for {
		line, err := input.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				a.logger.Warn("input error", zap.Error(err))
			}
			fmt.Fprintln(opts.out)
			return nil
		}
		if session.handleLine(ctx, line) {
			return nil
		}
	}
}
