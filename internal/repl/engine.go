// Package repl implements the interactive loop: it reads lines, tells
// slash-commands from chat prompts, runs them against a session and renders
// replies while a busy indicator covers the wait.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Session is the conversation the engine drives. *chat.Session satisfies it.
type Session interface {
	Ask(ctx context.Context, prompt string) (string, error)
	SetModel(model string)
	Model() string
	ClearHistory()
}

// State is where the engine is in its read, dispatch, execute cycle.
type State int

const (
	StatePrompting State = iota
	StateDispatching
	StateExecutingCommand
	StateExecutingChat
	StateClosed
)

func (s State) String() string {
	switch s {
	case StatePrompting:
		return "prompting"
	case StateDispatching:
		return "dispatching"
	case StateExecutingCommand:
		return "executing-command"
	case StateExecutingChat:
		return "executing-chat"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const helpText = `Commands:
  /help            Show this help
  /model <name>    Set model (e.g. openai:gpt-4o-mini)
  /clear           Clear chat history
  /exit, /quit     Exit chat
`

// Options configures an Engine. Only Session is required.
type Options struct {
	Session Session

	// Reader defaults to a scan reader over os.Stdin.
	Reader LineReader
	// Out defaults to os.Stdout.
	Out    io.Writer
	Logger *slog.Logger
	// Renderer defaults to a lipgloss renderer detecting Out's colour support.
	Renderer *lipgloss.Renderer
	// Spinner supplies the busy indicator frames and rate.
	Spinner spinner.Spinner
}

// Engine runs one REPL over one session.
type Engine struct {
	session Session
	reader  LineReader
	out     io.Writer
	logger  *slog.Logger
	st      styles
	spinner spinner.Spinner

	mu    sync.Mutex
	state State
}

type readResult struct {
	line string
	err  error
}

// New builds an engine from opts, filling in defaults.
func New(opts Options) *Engine {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	reader := opts.Reader
	if reader == nil {
		reader = NewScanReader(os.Stdin, out)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.NewRenderer(out)
	}
	sp := opts.Spinner
	if len(sp.Frames) == 0 {
		sp = spinner.MiniDot
	}

	return &Engine{
		session: opts.Session,
		reader:  reader,
		out:     out,
		logger:  logger.With("component", "repl"),
		st:      newStyles(renderer),
		spinner: sp,
		state:   StatePrompting,
	}
}

// State reports the engine's current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Run prints the banner and processes lines until the user exits, the input
// ends or ctx is cancelled. All three print the goodbye message and return
// nil. Only a failing reader produces an error.
func (e *Engine) Run(ctx context.Context) error {
	if e.State() == StateClosed {
		return nil
	}
	defer e.close()

	e.printBanner()
	e.printFooter()

	for {
		e.setState(StatePrompting)
		line, err := e.readLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if !e.dispatch(ctx, line) {
			return nil
		}
	}
}

// readLine waits for the next line without blocking cancellation. The read
// itself runs on a helper goroutine since LineReader has no deadline.
func (e *Engine) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prompt := e.st.muted.Render("> ")
	results := make(chan readResult, 1)
	go func() {
		line, err := e.reader.ReadLine(prompt)
		results <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-results:
		return r.line, r.err
	}
}

// dispatch handles one line and reports whether the loop should go on.
func (e *Engine) dispatch(ctx context.Context, line string) bool {
	e.setState(StateDispatching)

	text := strings.TrimSpace(line)
	if text == "" {
		return true
	}

	if strings.HasPrefix(text, "/") {
		e.setState(StateExecutingCommand)
		cmd, args := parseCommand(text)
		return e.runCommand(cmd, args)
	}

	e.setState(StateExecutingChat)
	e.chatTurn(ctx, text)
	return true
}

// parseCommand splits a slash line into its command and arguments. The
// command is the text between the slash and the first whitespace, so "/ x"
// has an empty command.
func parseCommand(text string) (string, []string) {
	rest := strings.TrimPrefix(text, "/")
	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end < 0 {
		return rest, nil
	}
	return rest[:end], strings.Fields(rest[end:])
}

func (e *Engine) runCommand(cmd string, args []string) bool {
	switch cmd {
	case "help":
		e.write(helpText)
	case "model":
		if len(args) == 0 {
			e.write("Please provide a model name. Usage: /model <name>\n")
			break
		}
		e.session.SetModel(args[0])
		e.printf("Model set to %s\n", args[0])
	case "clear":
		e.session.ClearHistory()
		e.write("History cleared.\n")
	case "exit", "quit":
		return false
	default:
		e.printf("Unknown command: /%s\n", cmd)
	}
	return true
}

func (e *Engine) chatTurn(ctx context.Context, text string) {
	answer, err := e.ask(ctx, text)
	if err != nil {
		e.logger.Error("chat request failed", "model", e.session.Model(), "error", err)
		return
	}
	e.write(formatResponse(e.st, answer) + "\n\n")
}

// ask wraps the provider call in the busy indicator, which is stopped on
// every return path before anything else is written.
func (e *Engine) ask(ctx context.Context, text string) (string, error) {
	stop := startBusy(e.out, e.spinner, busyLabel, e.st)
	defer stop()
	return e.session.Ask(ctx, text)
}

func (e *Engine) printBanner() {
	title := e.st.brand.Render("✱") + " Welcome to parley!"
	e.write("\n" + e.st.banner.Render(title) + "\n\n")
	e.write("• " + e.st.bold.Render("Hi!") + " What can I help you with today?\n\n")
}

func (e *Engine) printFooter() {
	e.write(e.st.dim.Render("/ for commands  •  /help for help  •  ctrl+d to exit") + "\n")
}

func (e *Engine) close() {
	e.setState(StateClosed)
	if c, ok := e.reader.(io.Closer); ok {
		if err := c.Close(); err != nil {
			e.logger.Warn("failed to close line reader", "error", err)
		}
	}
	e.write("\n" + e.st.muted.Render("Goodbye! 👋") + "\n\n")
}

func (e *Engine) write(s string) {
	_, _ = io.WriteString(e.out, s)
}

func (e *Engine) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}
