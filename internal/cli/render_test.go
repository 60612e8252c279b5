package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/calvinalkan/heist/pkg/workspace"
)

func TestTimerColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remaining int
		want      lipgloss.Color
	}{
		{60, colorNormal},
		{31, colorNormal},
		{30, colorWarning},
		{11, colorWarning},
		{10, colorCritical},
		{0, colorCritical},
	}

	for _, tt := range tests {
		if got := timerColor(tt.remaining); got != tt.want {
			t.Errorf("timerColor(%d) = %s, want %s", tt.remaining, got, tt.want)
		}
	}
}

func TestRendererPlainOutputWhenNotATerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	snap := workspace.Snapshot{
		Secret:        []workspace.Digit{4, 2},
		Level:         1,
		Score:         120,
		TimeRemaining: 9,
		OpsUsed:       2,
	}
	snap.Slots[0] = workspace.Filled(4)
	snap.Slots[1] = workspace.Filled(2)

	newRenderer(&buf).board(snap, "Find a 2-digit pattern", 300)

	want := strings.Join([]string{
		"Level 1/3  Find a 2-digit pattern",
		"Secret [4,2]  Time 9s  Score 120  Best 300  Ops 2",
		" 4  2  _  _  _  _  _  _  _  _ ",
		" 0  1  2  3  4  5  6  7  8  9 ",
		"",
	}, "\n")

	if got := buf.String(); got != want {
		t.Errorf("board mismatch\nwant:\n%q\ngot:\n%q", want, got)
	}

	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("plain output contains escape sequences")
	}
}

func TestRendererProbeStepShowsWindowAndVerdict(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	var snap workspace.Snapshot
	snap.Slots[1] = workspace.Filled(3)
	snap.Slots[4] = workspace.Filled(8)

	newRenderer(&buf).probeStep(snap, workspace.Probe{Start: 0, Slots: []int{1, 4}, Match: true})

	want := strings.Join([]string{
		"checking position 0: [3,8] match",
		" _  3  _  _  8  _  _  _  _  _ ",
		" 0  1  2  3  4  5  6  7  8  9 ",
		"",
	}, "\n")

	if got := buf.String(); got != want {
		t.Errorf("probe step mismatch\nwant:\n%q\ngot:\n%q", want, got)
	}
}
