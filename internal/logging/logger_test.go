package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_DebugWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.Debug().Str("op", "list").Msg("request sent")

	out := buf.String()
	if !strings.Contains(out, "request sent") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "op=list") {
		t.Errorf("expected field in output, got %q", out)
	}
}

func TestNew_DisabledWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Error().Msg("should not appear")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
