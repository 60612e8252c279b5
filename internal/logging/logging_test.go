package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/calvinalkan/heist/internal/logging"
)

func TestNewOffIsSilent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger, err := logging.New("off", &buf)
	if err != nil {
		t.Fatal(err)
	}

	logger.Error("nope")

	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger, err := logging.New("warn", &buf)
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hidden")
	logger.Warn("shown", zap.Int("slot", 3))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %q", out)
	}

	if !strings.Contains(out, "shown") || !strings.Contains(out, `"slot": 3`) {
		t.Errorf("output = %q, want warn entry with field", out)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := logging.New("loud", &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
}
