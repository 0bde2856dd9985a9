package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestInitialize(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)
	t.Cleanup(func() { Initialize(LevelQuiet, os.Stderr) })

	if Verbosity() != LevelInfo {
		t.Errorf("expected verbosity %d, got %d", LevelInfo, Verbosity())
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelTrace, &buf)
	t.Cleanup(func() { Initialize(LevelQuiet, os.Stderr) })

	Info("test info", "key", "value")
	Debug("test debug", "key", "value")
	Trace("test trace", "key", "value")
	Warn("test warn", "key", "value")
	Error("test error", "key", "value")

	out := buf.String()
	for _, msg := range []string{"test info", "test debug", "test trace", "test warn", "test error"} {
		if !strings.Contains(out, msg) {
			t.Errorf("expected output to contain %q, got:\n%s", msg, out)
		}
	}
}

func TestQuietDropsInfo(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelQuiet, &buf)
	t.Cleanup(func() { Initialize(LevelQuiet, os.Stderr) })

	Info("hidden")
	Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output at quiet level, got %q", buf.String())
	}

	Warn("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected warning in output, got %q", buf.String())
	}
}

func TestLogLevelChecks(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelDebug, &buf)
	t.Cleanup(func() { Initialize(LevelQuiet, os.Stderr) })

	if !IsDebug() {
		t.Error("expected IsDebug() to be true at debug level")
	}
	if IsTrace() {
		t.Error("expected IsTrace() to be false at debug level")
	}
}
