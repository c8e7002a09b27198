package debug

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureDebug(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevEnabled, prevLogger := enabled, logger
	t.Cleanup(func() {
		enabled, logger = prevEnabled, prevLogger
	})
	SetEnabled(true)
	SetOutput(log.New(&buf, "", 0))
	return &buf
}

func TestLog_Disabled(t *testing.T) {
	buf := captureDebug(t)
	SetEnabled(false)

	Log("hidden %d", 1)
	LogIf(true, "hidden too")
	LogEnterExit("nothing")()

	if buf.Len() != 0 {
		t.Errorf("expected no output while disabled, got %q", buf.String())
	}
}

func TestLog_Enabled(t *testing.T) {
	buf := captureDebug(t)

	Log("fit %d crumbs", 4)
	LogIf(false, "skipped")
	LogIf(true, "kept")
	LogEnterExit("layout")()

	out := buf.String()
	for _, want := range []string{"fit 4 crumbs", "kept", "-> layout", "<- layout"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "skipped") {
		t.Error("LogIf(false) should not log")
	}
}
