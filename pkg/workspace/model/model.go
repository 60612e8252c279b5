// Package model provides a deliberately simple, in-memory model of the
// workspace's observable behavior.
//
// The model is easy to audit: slots are plain ints with -1 for empty, and
// search is a substring lookup over the digits rendered as text. Property
// tests drive the real workspace and the model with the same operations and
// compare state after every step.
package model

import (
	"strconv"
	"strings"

	"github.com/calvinalkan/heist/pkg/workspace"
)

// Empty marks an unoccupied slot.
const Empty = -1

// Workspace mirrors the observable state of a workspace.Workspace.
type Workspace struct {
	Slots         []int
	Secret        []int
	Score         int
	OpsUsed       int
	TimeRemaining int
}

// SearchResult is the part of a search outcome the model predicts.
type SearchResult struct {
	Found         bool
	Index         int
	LevelComplete bool
	ScoreDelta    int
}

// New returns an empty model at the start of a level with the given secret.
func New(secret []int) *Workspace {
	slots := make([]int, workspace.Capacity)
	for i := range slots {
		slots[i] = Empty
	}

	return &Workspace{
		Slots:         slots,
		Secret:        append([]int(nil), secret...),
		TimeRemaining: workspace.LevelSeconds,
	}
}

// Clone makes a deep copy so tests can fork the same state.
func (m *Workspace) Clone() *Workspace {
	return &Workspace{
		Slots:         append([]int(nil), m.Slots...),
		Secret:        append([]int(nil), m.Secret...),
		Score:         m.Score,
		OpsUsed:       m.OpsUsed,
		TimeRemaining: m.TimeRemaining,
	}
}

// Insert prepends value at index and truncates the row back to capacity.
func (m *Workspace) Insert(index, value int) error {
	if index < 0 || index >= len(m.Slots) {
		return workspace.ErrOutOfRange
	}

	if value < 0 || value > workspace.MaxDigit {
		return workspace.ErrInvalidValue
	}

	row := make([]int, 0, len(m.Slots)+1)
	row = append(row, m.Slots[:index]...)
	row = append(row, value)
	row = append(row, m.Slots[index:]...)
	m.Slots = row[:len(m.Slots)]
	m.OpsUsed++

	return nil
}

// Delete removes the value at index and pads the row with an empty slot.
func (m *Workspace) Delete(index int) (int, error) {
	if index < 0 || index >= len(m.Slots) {
		return 0, workspace.ErrOutOfRange
	}

	if m.Slots[index] == Empty {
		return 0, workspace.ErrEmptySlot
	}

	removed := m.Slots[index]
	row := make([]int, 0, len(m.Slots))
	row = append(row, m.Slots[:index]...)
	row = append(row, m.Slots[index+1:]...)
	m.Slots = append(row, Empty)
	m.OpsUsed++

	return removed, nil
}

// Search looks the pattern up as a substring of the occupied digits.
func (m *Workspace) Search(pattern []int) (SearchResult, error) {
	if len(pattern) == 0 {
		return SearchResult{}, workspace.ErrInvalidPattern
	}

	for _, d := range pattern {
		if d < 0 || d > workspace.MaxDigit {
			return SearchResult{}, workspace.ErrInvalidPattern
		}
	}

	m.OpsUsed++

	idx := strings.Index(digits(m.Compact()), digits(pattern))
	if idx < 0 {
		return SearchResult{}, nil
	}

	res := SearchResult{Found: true, Index: idx}

	if digits(pattern) == digits(m.Secret) {
		res.LevelComplete = true
		res.ScoreDelta = workspace.CompletionAward + workspace.TimeBonusPerTick*m.TimeRemaining
		m.Score += res.ScoreDelta
	}

	return res, nil
}

// Tick counts the timer down, stopping at zero.
func (m *Workspace) Tick() bool {
	if m.TimeRemaining > 0 {
		m.TimeRemaining--
	}

	return m.TimeRemaining == 0
}

// Compact returns the occupied values in order.
func (m *Workspace) Compact() []int {
	var out []int

	for _, v := range m.Slots {
		if v != Empty {
			out = append(out, v)
		}
	}

	return out
}

// Encode converts real slots into the model representation.
func Encode(slots [workspace.Capacity]workspace.Slot) []int {
	out := make([]int, len(slots))

	for i, slot := range slots {
		d, ok := slot.Digit()
		if !ok {
			out[i] = Empty

			continue
		}

		out[i] = int(d)
	}

	return out
}

// Ints converts digits to ints.
func Ints(ds []workspace.Digit) []int {
	out := make([]int, len(ds))
	for i, d := range ds {
		out[i] = int(d)
	}

	return out
}

func digits(values []int) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(v))
	}

	return b.String()
}
