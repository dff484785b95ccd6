package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// LineReader yields one line of user input per call. It returns io.EOF when
// the input ends or the user asks to leave (Ctrl-C or Ctrl-D at the line
// editor).
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// scanReader reads lines from a plain stream. It is used for pipes,
// redirected files and tests. Lines have no length limit.
type scanReader struct {
	br  *bufio.Reader
	out io.Writer
}

// NewScanReader reads newline-terminated lines from in and writes each
// prompt to out before blocking. A final line without a newline is still
// returned.
func NewScanReader(in io.Reader, out io.Writer) LineReader {
	return &scanReader{br: bufio.NewReader(in), out: out}
}

func (r *scanReader) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		if _, err := io.WriteString(r.out, prompt); err != nil {
			return "", fmt.Errorf("write prompt: %w", err)
		}
	}
	line, err := r.br.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && line == "":
		return "", io.EOF
	case err != nil && !errors.Is(err, io.EOF):
		return "", fmt.Errorf("read line: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// termReader drives x/term's line editor, which brings in-line editing and
// up/down history. The terminal is only in raw mode while a line is read.
type termReader struct {
	fd int
	t  *term.Terminal

	mu    sync.Mutex
	saved *term.State
}

// NewTerminalReader reads lines from the terminal behind in, echoing and
// editing through out.
func NewTerminalReader(in *os.File, out io.Writer) LineReader {
	rw := struct {
		io.Reader
		io.Writer
	}{in, out}
	return &termReader{
		fd: int(in.Fd()),
		t:  term.NewTerminal(rw, ""),
	}
}

func (r *termReader) ReadLine(prompt string) (string, error) {
	if err := r.makeRaw(); err != nil {
		return "", err
	}
	defer r.restore()

	if w, h, err := term.GetSize(r.fd); err == nil {
		_ = r.t.SetSize(w, h)
	}
	r.t.SetPrompt(prompt)

	line, err := r.t.ReadLine()
	if errors.Is(err, term.ErrPasteIndicator) {
		err = nil
	}
	return line, err
}

// Close puts the terminal back into cooked mode if a read is still pending.
func (r *termReader) Close() error {
	r.restore()
	return nil
}

func (r *termReader) makeRaw() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	r.saved = state
	return nil
}

func (r *termReader) restore() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		return
	}
	_ = term.Restore(r.fd, r.saved)
	r.saved = nil
}
