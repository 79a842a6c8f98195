package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestAuditFallsBackBeforeServiceStart(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	prevLogger := GlobalLogger
	GlobalLogger = nil
	defer SetGlobalLogger(prevLogger)

	AuditUpload("orders", "TIKTOK", "Main Shop", "batch-1", 42)

	got := buf.String()
	for _, want := range []string{"[AUDIT]", "rows=42", "platform=TIKTOK", "shop=Main Shop", "batch=batch-1"} {
		if !strings.Contains(got, want) {
			t.Errorf("audit line %q missing %q", got, want)
		}
	}
}
