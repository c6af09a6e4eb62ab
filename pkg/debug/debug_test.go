package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Enabled()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetEnabled(prev) })
	return &buf
}

func TestLogDisabledWritesNothing(t *testing.T) {
	buf := capture(t)
	SetEnabled(false)

	Log("hello %d", 1)
	LogTiming("x", time.Second)
	LogIf(true, "cond")
	LogEnterExit("fn")()

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogEnabled(t *testing.T) {
	buf := capture(t)
	SetEnabled(true)

	Log("loaded %d items", 3)
	LogIf(false, "skipped")
	LogIf(true, "kept")
	LogTiming("fetch", 5*time.Millisecond)
	LogEnterExit("render")()

	out := buf.String()
	for _, want := range []string{"[FAQVIEW_DEBUG]", "loaded 3 items", "kept", "fetch took 5ms", "-> render", "<- render"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "skipped") {
		t.Error("LogIf(false) should not write")
	}
}
