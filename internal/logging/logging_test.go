package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerPrefixesEveryLine(t *testing.T) {
	t.Parallel()
	var out, errBuf bytes.Buffer
	logger := &Logger{Out: &out, Err: &errBuf}

	logger.Infof("deployed %d files", 3)
	logger.Warnf("save signal not delivered")
	logger.Errorf("download failed")

	if got := out.String(); got != "jacredctl: deployed 3 files\n" {
		t.Fatalf("unexpected stdout: %q", got)
	}
	lines := strings.Split(strings.TrimRight(errBuf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 stderr lines, got %d: %q", len(lines), errBuf.String())
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "jacredctl: ") {
			t.Fatalf("line missing prefix: %q", line)
		}
	}
}

func TestLoggerNoColorWhenDisabled(t *testing.T) {
	t.Parallel()
	var errBuf bytes.Buffer
	logger := &Logger{Out: &errBuf, Err: &errBuf, Color: false}

	logger.Errorf("plain")
	if strings.Contains(errBuf.String(), "\x1b[") {
		t.Fatalf("expected no ANSI escapes, got %q", errBuf.String())
	}
}
