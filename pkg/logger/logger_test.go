package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"}, // Invalid level
	}

	for _, test := range tests {
		if result := test.level.String(); result != test.expected {
			t.Errorf("Level.String() = %v, expected %v", result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"trace", "debug", "info", "warn", "error"} {
		l, err := ParseLevel(s)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", s, err)
		}
		if !strings.EqualFold(l.String(), s) {
			t.Errorf("ParseLevel(%q) = %v", s, l)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
}

func TestLoggerPrettyFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, Component: "generate"}, &buf)

	l.Log(InfoLevel, "adapter written", String("file", "tkl_uart.c"))

	result := buf.String()
	for _, part := range []string{"[INFO]", "generate", "adapter written", "tkl_uart.c"} {
		if !strings.Contains(result, part) {
			t.Errorf("output missing expected part: %s\nResult: %s", part, result)
		}
	}
	if strings.Contains(result, "\033[") {
		t.Errorf("color codes written with UseColor=false: %q", result)
	}
}

func TestLoggerColor(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: InfoLevel, UseColor: true}, &buf).Log(WarnLevel, "careful")
	if !strings.Contains(buf.String(), "\033[33mWARN\033[0m") {
		t.Errorf("expected colored level, got %q", buf.String())
	}
}

func TestLoggerJSONFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, JSON: true, Component: "test", NoOp: true}, &buf)

	l.Log(InfoLevel, "test message", String("key", "value"), Int("count", 3))

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed); err != nil {
		t.Fatalf("Log() produced invalid JSON: %v\nOutput: %s", err, buf.String())
	}
	if parsed["message"] != "test message" {
		t.Errorf("Parsed JSON message = %v, expected 'test message'", parsed["message"])
	}
	if parsed["level"] != "INFO" {
		t.Errorf("Parsed JSON level = %v, expected 'INFO'", parsed["level"])
	}
	if parsed["component"] != "test" {
		t.Errorf("Parsed JSON component = %v", parsed["component"])
	}
	if parsed["key"] != "value" || parsed["count"] != float64(3) || parsed["no_op"] != true {
		t.Errorf("fields missing from JSON output: %v", parsed)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: WarnLevel}, &buf)

	l.Log(TraceLevel, "trace message")
	l.Log(DebugLevel, "debug message")
	l.Log(InfoLevel, "info message")
	l.Log(WarnLevel, "warn message")
	l.Log(ErrorLevel, "error message")

	output := buf.String()
	for _, hidden := range []string{"trace message", "debug message", "info message"} {
		if strings.Contains(output, hidden) {
			t.Errorf("%q should be filtered out", hidden)
		}
	}
	for _, shown := range []string{"warn message", "error message"} {
		if !strings.Contains(output, shown) {
			t.Errorf("%q should appear", shown)
		}
	}
}

func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: TraceLevel}, &buf).Log(TraceLevel, "very verbose")
	if !strings.Contains(buf.String(), "[TRACE]") {
		t.Errorf("trace entry not rendered: %q", buf.String())
	}
}

func TestFieldConstructors(t *testing.T) {
	if f := String("key", "value"); f.Key != "key" || f.Value != "value" {
		t.Errorf("String() = %+v", f)
	}
	if f := Int("count", 42); f.Key != "count" || f.Value != 42 {
		t.Errorf("Int() = %+v", f)
	}
	if f := Bool("enabled", true); f.Key != "enabled" || f.Value != true {
		t.Errorf("Bool() = %+v", f)
	}
	if f := Err(errors.New("test error")); f.Key != "error" || f.Value != "test error" {
		t.Errorf("Err() = %+v", f)
	}
}

func TestConvenienceFunctions(t *testing.T) {
	var buf bytes.Buffer
	if err := InitializeWithWriter(Config{Level: InfoLevel}, &buf); err != nil {
		t.Fatalf("InitializeWithWriter() failed: %v", err)
	}

	Info("test info message")
	Debug("test debug message")
	Warn("test warn message")

	output := buf.String()
	if !strings.Contains(output, "test info message") || !strings.Contains(output, "test warn message") {
		t.Errorf("convenience functions did not produce expected output: %s", output)
	}
	if strings.Contains(output, "test debug message") {
		t.Errorf("debug message should be filtered: %s", output)
	}
}

func TestSetOutput(t *testing.T) {
	if err := Initialize(Config{Level: InfoLevel}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	SetOutput(&buf)

	Info("output test message")

	if !strings.Contains(buf.String(), "output test message") {
		t.Errorf("SetOutput() did not redirect output correctly: %s", buf.String())
	}
}

func TestFallbackLogging(t *testing.T) {
	mu.Lock()
	original := defaultLogger
	defaultLogger = nil
	mu.Unlock()

	// Must not panic without an initialized logger.
	Info("fallback test message")
	Debug("ignored")

	mu.Lock()
	defaultLogger = original
	mu.Unlock()
}
