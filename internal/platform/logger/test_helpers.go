package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

// TestLogBuffer collects JSON log lines written concurrently by a test.
type TestLogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

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

// GetLogEntries decodes the buffered JSON records in write order.
func (b *TestLogBuffer) GetLogEntries() ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewBufferString(b.String()))

	var entries []map[string]any
	for {
		var entry map[string]any
		err := dec.Decode(&entry)
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}

// Messages returns the msg field of every record.
func (b *TestLogBuffer) Messages() ([]string, error) {
	entries, err := b.GetLogEntries()
	if err != nil {
		return nil, err
	}
	msgs := make([]string, 0, len(entries))
	for _, e := range entries {
		msg, _ := e[slog.MessageKey].(string)
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// SetupTestLogger makes a debug-level JSON logger over a fresh buffer the
// slog default for the duration of t.
func SetupTestLogger(t *testing.T) (*TestLogBuffer, *slog.Logger) {
	t.Helper()

	buf := &TestLogBuffer{}
	l := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	previous := slog.Default()
	slog.SetDefault(l)
	t.Cleanup(func() { slog.SetDefault(previous) })

	return buf, l
}
