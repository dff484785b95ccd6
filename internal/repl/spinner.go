package repl

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

const busyLabel = "Thinking"

// clearWidth covers the glyph, the label and the trailing padding.
const clearWidth = 40

// busyIndicator owns one output line while a request is in flight and
// redraws a rotating glyph there on every tick.
type busyIndicator struct {
	out    io.Writer
	frames []string
	fps    time.Duration
	label  string
	st     styles

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// startBusy launches the redraw goroutine and returns the function that
// stops it. The returned stop blocks until the goroutine has exited and the
// line is blank again, and is safe to call more than once.
func startBusy(out io.Writer, sp spinner.Spinner, label string, st styles) func() {
	b := &busyIndicator{
		out:    out,
		frames: sp.Frames,
		fps:    sp.FPS,
		label:  label,
		st:     st,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if len(b.frames) == 0 {
		b.frames = spinner.MiniDot.Frames
	}
	if b.fps <= 0 {
		b.fps = spinner.MiniDot.FPS
	}
	go b.run()
	return b.halt
}

func (b *busyIndicator) run() {
	defer close(b.done)

	ticker := time.NewTicker(b.fps)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			frame := b.frames[i%len(b.frames)]
			_, _ = io.WriteString(b.out, "\r"+b.st.muted.Render(frame)+" "+b.st.dim.Render(b.label)+"...  ")
		}
	}
}

func (b *busyIndicator) halt() {
	b.once.Do(func() {
		close(b.stop)
		<-b.done
		_, _ = io.WriteString(b.out, "\r"+strings.Repeat(" ", clearWidth)+"\r")
	})
}
