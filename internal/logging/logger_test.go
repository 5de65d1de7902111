package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"synopsis/internal/logging"
)

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	log := logging.NewComponentLogger(logger, "sync")
	log.Info("section complete", logging.Int("updated", 2), logging.String("section", "Movies HD"))

	line := buf.String()
	if !strings.Contains(line, "INFO sync: section complete") {
		t.Errorf("line %q missing component prefix", line)
	}
	if !strings.Contains(line, "updated=2") {
		t.Errorf("line %q missing int attr", line)
	}
	if !strings.Contains(line, `section="Movies HD"`) {
		t.Errorf("line %q should quote values containing spaces", line)
	}
}

func TestConsoleHandlerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("info line should be suppressed at warn level: %q", out)
	}
	if !strings.Contains(out, "emitted") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hello", logging.String("k", "v"))
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("unexpected json output: %q", buf.String())
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
