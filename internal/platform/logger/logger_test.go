package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLoggerEmitsMessagesVerbatim(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{
		infoLogger:  log.New(&buf, "[PULSO-INFO] ", 0),
		warnLogger:  log.New(&buf, "[PULSO-WARN] ", 0),
		errorLogger: log.New(&buf, "[PULSO-ERROR] ", 0),
	}

	// Messages often carry user data with % in it. The logger must
	// never treat the message as a format string.
	l.Info("seeded 3 cities (100% of defaults)")
	l.Warn("session s-1 at 90% stress")
	l.Error("decode failed: unexpected token %v")

	out := buf.String()
	for _, want := range []string{
		"[PULSO-INFO] seeded 3 cities (100% of defaults)",
		"[PULSO-WARN] session s-1 at 90% stress",
		"[PULSO-ERROR] decode failed: unexpected token %v",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "MISSING") || strings.Contains(out, "%!") {
		t.Errorf("message was run through a format parser:\n%s", out)
	}
}

func TestLoggerEventFormat(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{infoLogger: log.New(&buf, "[PULSO-INFO] ", 0)}

	l.Event("ADVANCE", "sess-42", "Week 3.")

	want := "[PULSO-INFO] [EVENT:ADVANCE] Session:sess-42 | Week 3.\n"
	if buf.String() != want {
		t.Errorf("Event output = %q, want %q", buf.String(), want)
	}
}
