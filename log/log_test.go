package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func jsonLogger(buf *bytes.Buffer, opts ...Option) Logger {
	base := []Option{
		WithFormat(FormatJSON),
		WithTimeLayout("none"),
	}

	return Make(buf, append(base, opts...)...)
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &record); err != nil {
		t.Fatalf("Unmarshal(%q): %v", lines[len(lines)-1], err)
	}

	return record
}

func TestLoggerWritesRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := jsonLogger(&buf)
	logger.Info("rewrote file", slog.String("path", "main.go"))

	record := lastRecord(t, &buf)

	if record["msg"] != "rewrote file" {
		t.Errorf("msg = %v", record["msg"])
	}

	if record["level"] != "INFO" {
		t.Errorf("level = %v", record["level"])
	}

	if record["path"] != "main.go" {
		t.Errorf("path = %v", record["path"])
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := jsonLogger(&buf, WithLevel(LevelWarn))
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info message written above warn level")
	}

	if !strings.Contains(out, "kept") {
		t.Error("warn message missing")
	}
}

func TestLoggerTraceLevelLabel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := jsonLogger(&buf, WithLevel(LevelTrace))
	logger.Trace("deep detail")

	record := lastRecord(t, &buf)
	if record["level"] != "TRACE" {
		t.Errorf("level = %v, expect TRACE", record["level"])
	}
}

func TestZeroLoggerDiscards(t *testing.T) {
	t.Parallel()

	var logger Logger

	// Must not panic.
	logger.Info("nothing")
	logger.Error("nothing")

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, expect %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, expect %v", logger.Format(), DefaultFormat)
	}
}

func TestWrapOverridesLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := jsonLogger(&buf)
	if logger.Level() != DefaultLevel {
		t.Fatalf("Level() = %v, expect %v", logger.Level(), DefaultLevel)
	}

	debug := logger.Wrap(WithLevel(LevelDebug))
	if debug.Level() != LevelDebug {
		t.Errorf("Wrap: Level() = %v, expect %v", debug.Level(), LevelDebug)
	}

	debug.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("Wrap: debug message missing")
	}
}

func TestWithAddsAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := jsonLogger(&buf).With(slog.String("tool", "guard"))
	logger.Info("ready")

	record := lastRecord(t, &buf)
	if record["tool"] != "guard" {
		t.Errorf("tool = %v, expect guard", record["tool"])
	}
}

func TestPrettyOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithPretty(true),
		WithTimeLayout("none"),
	)
	logger.Info("expanded", slog.Int("sites", 3))

	out := buf.String()

	for _, want := range []string{"expanded", "info", "sites", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output missing %q:\n%s", want, out)
		}
	}
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer

	prev := Default()
	defer SetDefault(prev)

	SetDefault(jsonLogger(&buf))

	Info("hello", slog.Bool("default", true))

	record := lastRecord(t, &buf)
	if record["msg"] != "hello" {
		t.Errorf("msg = %v, expect hello", record["msg"])
	}
}
