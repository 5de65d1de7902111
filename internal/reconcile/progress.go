package reconcile

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// Sink receives live progress while a section is processed. Progress is
// observability only; nothing in the data contract depends on it.
type Sink interface {
	Start(section string, total int)
	Step(completed, total int, title string)
	Done()
}

// NopSink discards progress events.
type NopSink struct{}

func (NopSink) Start(string, int)     {}
func (NopSink) Step(int, int, string) {}
func (NopSink) Done()                 {}

const (
	titleLimit   = 30
	drawInterval = 100 * time.Millisecond
)

// Terminal renders a single carriage-return progress line. It stays silent
// when the writer is not an interactive terminal, so piped output only
// carries log lines.
type Terminal struct {
	writer   io.Writer
	active   bool
	section  string
	lastDraw time.Time
	width    int
}

// NewTerminal constructs a progress sink for the writer, typically stderr.
func NewTerminal(w io.Writer) *Terminal {
	active := false
	if file, ok := w.(*os.File); ok {
		active = isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
	}
	return &Terminal{writer: w, active: active}
}

func (t *Terminal) Start(section string, total int) {
	if !t.active {
		return
	}
	t.section = section
	t.lastDraw = time.Time{}
}

func (t *Terminal) Step(completed, total int, title string) {
	if !t.active {
		return
	}
	// Throttle redraws; the final step always lands.
	now := time.Now()
	if completed < total && now.Sub(t.lastDraw) < drawInterval {
		return
	}
	t.lastDraw = now

	line := fmt.Sprintf("%s: %d/%d last: %s", t.section, completed, total, truncate(title, titleLimit))
	t.draw(line)
}

func (t *Terminal) Done() {
	if !t.active {
		return
	}
	t.draw("")
	t.section = ""
}

func (t *Terminal) draw(line string) {
	// Pad with the previous line's display width so shrinking lines leave no
	// residue. Byte length miscounts multi-byte titles and the ellipsis.
	width := text.StringWidth(line)
	if pad := t.width - width; pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	t.width = width
	fmt.Fprintf(t.writer, "\r%s", line)
	if width == 0 {
		fmt.Fprint(t.writer, "\r")
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
