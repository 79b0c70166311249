package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithLevel(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}

	var _ Logger = l

	l.Infof("hidden %d", 1)
	l.Warnf("unusable read at %04X", 0xFEA0)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "level=warning msg=unusable read at FEA0") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNewWithLevel_Invalid(t *testing.T) {
	if _, err := NewWithLevel(&bytes.Buffer{}, "loud"); err == nil {
		t.Errorf("expected an error for an unknown level")
	}
}
