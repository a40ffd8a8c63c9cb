package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/vaultline/vaultline/common/middleware"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		level  slog.Level
		format string
	}{
		{
			name:   "json format with info level",
			level:  slog.LevelInfo,
			format: "json",
		},
		{
			name:   "text format with debug level",
			level:  slog.LevelDebug,
			format: "text",
		},
		{
			name:   "default format (json) with error level",
			level:  slog.LevelError,
			format: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level, tt.format)
			if logger == nil {
				t.Fatal("expected non-nil logger")
			}
			if logger.Logger == nil {
				t.Fatal("expected non-nil underlying logger")
			}
		})
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := &Logger{Logger: slog.New(handler)}

	// Request ID from the context shows up as a field.
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "test-req-123")
	logger.WithContext(ctx).Info("test message")

	output := buf.String()
	if !strings.Contains(output, "request_id") || !strings.Contains(output, "test-req-123") {
		t.Errorf("expected request_id field in log output, got: %s", output)
	}

	// Without one, the logger passes through unchanged.
	buf.Reset()
	logger.WithContext(context.Background()).Info("plain message")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("unexpected request_id field in log output: %s", buf.String())
	}
}

func TestInfoContext(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := &Logger{Logger: slog.New(handler)}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "info-test-123")
	logger.InfoContext(ctx, "feed served", OrgID("org-a"), "count", 3)

	output := buf.String()
	if !strings.Contains(output, "feed served") {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "info-test-123") {
		t.Errorf("expected request ID in output, got: %s", output)
	}
	if !strings.Contains(output, "org-a") {
		t.Errorf("expected org field in output, got: %s", output)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := &Logger{Logger: slog.New(handler)}

	child := logger.With(Service("activity"))
	child.Info("ready")

	if !strings.Contains(buf.String(), `"service":"activity"`) {
		t.Errorf("expected service field in output, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
