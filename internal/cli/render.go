package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calvinalkan/heist/pkg/workspace"
)

const cellWidth = 3

// Timer thresholds in seconds.
const (
	timerCritical = 10
	timerWarning  = 30
)

var (
	colorCritical = lipgloss.Color("#ff6b6b")
	colorWarning  = lipgloss.Color("#ffa726")
	colorNormal   = lipgloss.Color("#00d4ff")
	colorMatch    = lipgloss.Color("#4caf50")
	colorMuted    = lipgloss.Color("#777777")
	colorInk      = lipgloss.Color("#000000")
)

// timerColor returns the colour for the remaining time.
func timerColor(remaining int) lipgloss.Color {
	switch {
	case remaining <= timerCritical:
		return colorCritical
	case remaining <= timerWarning:
		return colorWarning
	default:
		return colorNormal
	}
}

// renderer draws the board. The colour profile is detected from the output
// writer, so redirected output is plain text.
type renderer struct {
	w io.Writer

	title  lipgloss.Style
	label  lipgloss.Style
	timer  lipgloss.Style
	filled lipgloss.Style
	empty  lipgloss.Style
	index  lipgloss.Style
	probe  lipgloss.Style
	match  lipgloss.Style
}

func newRenderer(w io.Writer) *renderer {
	lr := lipgloss.NewRenderer(w)
	cell := lr.NewStyle().Width(cellWidth).Align(lipgloss.Center)

	return &renderer{
		w:      w,
		title:  lr.NewStyle().Bold(true).Foreground(colorNormal),
		label:  lr.NewStyle().Foreground(colorMuted),
		timer:  lr.NewStyle().Bold(true),
		filled: cell.Bold(true),
		empty:  cell.Foreground(colorMuted),
		index:  cell.Foreground(colorMuted),
		probe:  cell.Bold(true).Background(colorWarning).Foreground(colorInk),
		match:  cell.Bold(true).Background(colorMatch).Foreground(colorInk),
	}
}

// board draws the level header, the status line and the slot row.
func (r *renderer) board(s workspace.Snapshot, mission string, best int) {
	secret := "[" + workspace.FormatPattern(s.Secret) + "]"
	timer := r.timer.Foreground(timerColor(s.TimeRemaining)).Render(strconv.Itoa(s.TimeRemaining) + "s")

	r.println(r.title.Render(fmt.Sprintf("Level %d/%d", s.Level, workspace.MaxLevel)) + "  " + mission)
	r.println(strings.Join([]string{
		r.label.Render("Secret") + " " + secret,
		r.label.Render("Time") + " " + timer,
		r.label.Render("Score") + " " + strconv.Itoa(s.Score),
		r.label.Render("Best") + " " + strconv.Itoa(best),
		r.label.Render("Ops") + " " + strconv.Itoa(s.OpsUsed),
	}, "  "))
	r.row(s, nil, false)
}

// row draws the slots with the given raw slots highlighted, followed by
// the index line.
func (r *renderer) row(s workspace.Snapshot, highlight []int, match bool) {
	cells := make([]string, 0, workspace.Capacity)
	indices := make([]string, 0, workspace.Capacity)

	for i, slot := range s.Slots {
		style := r.filled

		switch {
		case slices.Contains(highlight, i) && match:
			style = r.match
		case slices.Contains(highlight, i):
			style = r.probe
		case slot.Empty():
			style = r.empty
		}

		cells = append(cells, style.Render(slot.String()))
		indices = append(indices, r.index.Render(strconv.Itoa(i)))
	}

	r.println(strings.Join(cells, ""))
	r.println(strings.Join(indices, ""))
}

// probeStep draws one step of a search replay.
func (r *renderer) probeStep(s workspace.Snapshot, p workspace.Probe) {
	values := make([]workspace.Digit, 0, len(p.Slots))
	for _, i := range p.Slots {
		d, _ := s.Slots[i].Digit()
		values = append(values, d)
	}

	verdict := "no match"
	if p.Match {
		verdict = "match"
	}

	r.println(fmt.Sprintf("checking position %d: [%s] %s", p.Start, workspace.FormatPattern(values), verdict))
	r.row(s, p.Slots, p.Match)
}

func (r *renderer) println(line string) {
	_, _ = fmt.Fprintln(r.w, line)
}
