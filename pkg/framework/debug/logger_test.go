package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	t.Run("BasicLogging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "TEST", FlagLevel|FlagPrefix)

		logger.Info("Hello %s", "World")

		output := buf.String()
		if !strings.Contains(output, "[INFO]") {
			t.Error("Missing log level")
		}
		if !strings.Contains(output, "[TEST]") {
			t.Error("Missing prefix")
		}
		if !strings.HasSuffix(output, "Hello World\n") {
			t.Errorf("Missing message or newline: %q", output)
		}
	})

	t.Run("LogLevels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", FlagLevel)
		logger.SetLevel(LogLevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		if strings.Contains(output, "debug message") {
			t.Error("Debug message should not be logged")
		}
		if strings.Contains(output, "info message") {
			t.Error("Info message should not be logged")
		}
		if !strings.Contains(output, "warn message") {
			t.Error("Warn message should be logged")
		}
		if !strings.Contains(output, "error message") {
			t.Error("Error message should be logged")
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", DefaultFlags)
		logger.SetEnabled(false)

		logger.Info("should not appear")

		if buf.Len() > 0 {
			t.Error("Disabled logger should not write")
		}
	})

	t.Run("FileInfo", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", FlagShortFile|FlagLevel)

		logger.Info("test")

		output := buf.String()
		if !strings.Contains(output, "logger_test.go:") {
			t.Errorf("Missing caller file in output: %s", output)
		}
	})

	t.Run("With", func(t *testing.T) {
		var buf bytes.Buffer
		parent := New(&buf, "blackbird", FlagPrefix)
		child := parent.With("preset")

		child.Info("loaded")
		if got := buf.String(); got != "[blackbird/preset] loaded\n" {
			t.Errorf("child output = %q", got)
		}

		var other bytes.Buffer
		parent.SetOutput(&other)
		child.Info("moved")
		if !strings.Contains(other.String(), "moved") {
			t.Error("child should follow the parent's output")
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "blackbird.log")
	logger, closer, err := NewFileLogger(path, "file", FlagPrefix)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	logger.Info("to disk")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "[file] to disk\n" {
		t.Errorf("file contents = %q", data)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %s, want %s", tt.level, got, tt.expected)
		}
		if tt.expected == "UNKNOWN" {
			continue
		}
		parsed, err := ParseLevel(strings.ToLower(tt.expected))
		if err != nil || parsed != tt.level {
			t.Errorf("ParseLevel(%q) = %v, %v, want %v", tt.expected, parsed, err, tt.level)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
}

func BenchmarkLogger(b *testing.B) {
	var buf bytes.Buffer
	logger := New(&buf, "BENCH", DefaultFlags)
	for i := 0; i < b.N; i++ {
		buf.Reset()
		logger.Info("voice %d started", i)
	}
}
