package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newCapturedLogger(buf *bytes.Buffer) *Logger {
	return New(Config{
		Component: ComponentApp,
		Handler:   slog.NewJSONHandler(buf, nil),
	})
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return rec
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newCapturedLogger(&buf)

	l.Info("hello", FieldOwner, "u1")
	rec := lastRecord(t, &buf)
	if rec[FieldComponent] != ComponentApp {
		t.Errorf("component = %v, want %q", rec[FieldComponent], ComponentApp)
	}
	if rec[FieldOwner] != "u1" {
		t.Errorf("owner = %v, want u1", rec[FieldOwner])
	}

	buf.Reset()
	l.ErrorContext(context.Background(), "boom", FieldError, "bad")
	rec = lastRecord(t, &buf)
	if rec[FieldComponent] != ComponentApp || rec["msg"] != "boom" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestWithComponentOverrides(t *testing.T) {
	var buf bytes.Buffer
	l := newCapturedLogger(&buf).WithComponent(ComponentHTTP)

	l.Warn("slow request")
	rec := lastRecord(t, &buf)
	if rec[FieldComponent] != ComponentHTTP {
		t.Errorf("component = %v, want %q", rec[FieldComponent], ComponentHTTP)
	}
}
