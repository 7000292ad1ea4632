package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	t.Cleanup(Reset)

	logger := NewLogger("test-component")
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}

	// Verify it's a logrus.Entry with the component field
	if logger.Data["component"] != "test-component" {
		t.Errorf("Expected component to be 'test-component', got %v", logger.Data["component"])
	}
}

func TestNewLoggerIsSingletonPerComponent(t *testing.T) {
	t.Cleanup(Reset)

	first := NewLogger("locator")
	second := NewLogger("locator")
	if first != second {
		t.Error("Expected the same entry for repeated component lookups")
	}

	other := NewLogger("publisher")
	if first == other {
		t.Error("Expected distinct entries for distinct components")
	}
}

func TestLoggerOutput(t *testing.T) {
	// Create a buffer to capture output
	var buf bytes.Buffer

	// Create a new logger and redirect output to buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{PlainText: true}})

	entry := logger.WithField("component", "test")
	entry.Info("Test message")

	output := buf.String()

	// Check that output contains expected elements
	if !strings.Contains(output, "[INFO]") {
		t.Errorf("Expected output to contain [INFO], got: %s", output)
	}
	if !strings.Contains(output, "[test]") {
		t.Errorf("Expected output to contain [test], got: %s", output)
	}
	if !strings.Contains(output, "Test message") {
		t.Errorf("Expected output to contain 'Test message', got: %s", output)
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string // Parts that should be in the output
		notWant []string // Parts that should NOT be in the output
	}{
		{
			name:   "default format",
			config: FormatConfig{PlainText: true},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "published session",
				Data: logrus.Fields{
					"component": "publisher",
					"tag":       "claude-sessions-main",
				},
			},
			want:    []string{"[INFO]", "[publisher]", "published session", "tag=claude-sessions-main"},
			notWant: []string{},
		},
		{
			name: "simple format",
			config: FormatConfig{
				DisableTimestamp: true,
				DisableComponent: true,
				PlainText:        true,
			},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "no session to restore",
				Data: logrus.Fields{
					"component": "restorer",
				},
			},
			want:    []string{"[WARN]", "no session to restore"},
			notWant: []string{"[restorer]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{Config: tt.config}
			out, err := formatter.Format(tt.entry)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}

			output := string(out)
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("Expected output to contain %q, got: %s", want, output)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(output, notWant) {
					t.Errorf("Expected output to NOT contain %q, got: %s", notWant, output)
				}
			}
		})
	}
}

func TestFormatterShortensWarningLevel(t *testing.T) {
	formatter := &TextFormatter{Config: FormatConfig{DisableTimestamp: true, PlainText: true}}
	out, err := formatter.Format(&logrus.Entry{
		Level:   logrus.WarnLevel,
		Message: "tag missing",
		Data:    logrus.Fields{},
	})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	if strings.Contains(string(out), "WARNING") {
		t.Errorf("warning level should be shortened to WARN, got: %s", out)
	}
}
