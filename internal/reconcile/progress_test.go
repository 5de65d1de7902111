package reconcile

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalSilentWhenNotATTY(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTerminal(&buf)

	sink.Start("Movies", 3)
	sink.Step(1, 3, "The Matrix")
	sink.Done()

	if buf.Len() != 0 {
		t.Errorf("non-terminal writer received %q, want nothing", buf.String())
	}
}

func TestTerminalDrawsFinalStep(t *testing.T) {
	var buf bytes.Buffer
	sink := &Terminal{writer: &buf, active: true}

	sink.Start("Movies", 3)
	sink.Step(1, 3, "The Matrix")
	sink.Step(2, 3, "Alien")
	sink.Step(3, 3, "Heat")
	sink.Done()

	out := buf.String()
	if !strings.Contains(out, "Movies: 1/3 last: The Matrix") {
		t.Errorf("output %q missing first draw", out)
	}
	// Intermediate steps inside the redraw interval are dropped, the final
	// one is not.
	if strings.Contains(out, "Movies: 2/3") {
		t.Errorf("output %q contains throttled intermediate draw", out)
	}
	if !strings.Contains(out, "Movies: 3/3 last: Heat") {
		t.Errorf("output %q missing final draw", out)
	}
}

func TestTerminalTruncatesLongTitles(t *testing.T) {
	var buf bytes.Buffer
	sink := &Terminal{writer: &buf, active: true}

	long := strings.Repeat("x", 80)
	sink.Start("Movies", 1)
	sink.Step(1, 1, long)

	out := buf.String()
	if strings.Contains(out, long) {
		t.Error("long title was not truncated")
	}
	if !strings.Contains(out, "…") {
		t.Errorf("output %q missing truncation marker", out)
	}
}

func TestTerminalClearsMultiByteTitles(t *testing.T) {
	var buf bytes.Buffer
	sink := &Terminal{writer: &buf, active: true}

	sink.Start("Movies", 1)
	sink.Step(1, 1, strings.Repeat("é", 40))
	sink.Done()

	// Output is "\r<line>\r<clear spaces>\r"; the clear segment must match
	// the line's display width, not its byte length.
	segments := strings.Split(buf.String(), "\r")
	if len(segments) != 4 {
		t.Fatalf("segments = %d, want 4: %q", len(segments), buf.String())
	}
	line, clear := segments[1], segments[2]
	if strings.TrimRight(clear, " ") != "" {
		t.Fatalf("clear segment contains non-spaces: %q", clear)
	}
	if want := len([]rune(line)); len(clear) != want {
		t.Errorf("clear segment = %d spaces, want %d for %q", len(clear), want, line)
	}
}

func TestTruncateKeepsShortTitles(t *testing.T) {
	if got := truncate("Heat", titleLimit); got != "Heat" {
		t.Errorf("truncate(Heat) = %q", got)
	}
	if got := truncate(strings.Repeat("é", titleLimit), titleLimit); got != strings.Repeat("é", titleLimit) {
		t.Errorf("rune-length title was truncated: %q", got)
	}
}
