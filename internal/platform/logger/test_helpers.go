package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// TestLogBuffer collects JSON log output in tests. It is safe for
// concurrent writers.
type TestLogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// GetLogEntries decodes the buffer, one JSON record per line.
func (b *TestLogBuffer) GetLogEntries() ([]map[string]any, error) {
	var entries []map[string]any

	scanner := bufio.NewScanner(strings.NewReader(b.String()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// EntriesWithMessage returns the decoded records whose msg equals msg.
func (b *TestLogBuffer) EntriesWithMessage(msg string) ([]map[string]any, error) {
	entries, err := b.GetLogEntries()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for _, entry := range entries {
		if entry["msg"] == msg {
			out = append(out, entry)
		}
	}
	return out, nil
}

// NewTestLogger returns a debug-level logger writing JSON to a buffer. The
// default logger is left alone, so tests using it can run in parallel.
func NewTestLogger(t *testing.T) (*slog.Logger, *TestLogBuffer) {
	t.Helper()

	buf := &TestLogBuffer{}
	return New(buf, "debug"), buf
}

// AssertLogContains fails the test unless the log output contains content.
func AssertLogContains(t *testing.T, buf *TestLogBuffer, content string) {
	t.Helper()

	if logs := buf.String(); !strings.Contains(logs, content) {
		t.Errorf("expected log to contain %q\nlogs:\n%s", content, logs)
	}
}

// AssertLogField fails the test unless some record has field set to
// expected. JSON numbers decode as float64.
func AssertLogField(t *testing.T, buf *TestLogBuffer, field string, expected any) {
	t.Helper()

	entries, err := buf.GetLogEntries()
	if err != nil {
		t.Fatalf("failed to parse log entries: %v", err)
	}
	for _, entry := range entries {
		if value, ok := entry[field]; ok && value == expected {
			return
		}
	}
	t.Errorf("expected a log record with %s=%v, found none in %d records", field, expected, len(entries))
}
