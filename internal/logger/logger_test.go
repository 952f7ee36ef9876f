package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf)
	defer SetLevelString("info")

	Named("parser").Info(context.Background(), "file opened",
		String("path", "events.json"), Int("rows", 42), Error(errors.New("boom")))

	out := buf.String()
	for _, want := range []string{"file opened", "component=parser", "path=events.json", "rows=42", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf)
	defer SetLevelString("info")

	if err := SetLevelString("WARN"); err != nil {
		t.Fatalf("SetLevelString: %v", err)
	}
	Get().Info(context.Background(), "hidden")
	Get().Warn(context.Background(), "shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("info line logged at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn line missing")
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
