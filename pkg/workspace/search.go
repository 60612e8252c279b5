package workspace

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Search scans the compact sequence for the first contiguous occurrence of
// pattern. Every valid search counts as one operation, found or not.
//
// If the match equals the secret, the level is complete: the score grows by
// [CompletionAward] plus [TimeBonusPerTick] per remaining tick, and the same
// amount is reported in ScoreDelta. Moving to the next level is left to the
// caller.
func (w *Workspace) Search(pattern []Digit) (SearchOutcome, error) {
	if err := validatePattern(pattern); err != nil {
		return SearchOutcome{}, err
	}

	positions := make([]int, 0, Capacity)
	values := make([]Digit, 0, Capacity)

	for i, slot := range w.slots {
		if d, ok := slot.Digit(); ok {
			positions = append(positions, i)
			values = append(values, d)
		}
	}

	w.opsUsed++

	var out SearchOutcome

	for start := 0; start+len(pattern) <= len(values); start++ {
		window := positions[start : start+len(pattern)]
		match := slices.Equal(values[start:start+len(pattern)], pattern)

		out.Probes = append(out.Probes, Probe{
			Start: start,
			Slots: slices.Clone(window),
			Match: match,
		})

		if match {
			out.Found = true
			out.Index = start
			out.MatchSlots = slices.Clone(window)

			break
		}
	}

	if out.Found && w.IsSecret(pattern) {
		out.LevelComplete = true
		out.ScoreDelta = CompletionAward + max(0, w.timeRemaining*TimeBonusPerTick)
		w.score += out.ScoreDelta
	}

	return out, nil
}

// ParsePattern parses comma-separated digits such as "1, 2,3".
func ParsePattern(text string) ([]Digit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	parts := strings.Split(text, ",")
	pattern := make([]Digit, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)

		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number (use: 1,2,3)", ErrInvalidPattern, part)
		}

		if n < 0 || n > MaxDigit {
			return nil, fmt.Errorf("%w: %d (pattern must contain numbers 0-%d)", ErrInvalidPattern, n, MaxDigit)
		}

		pattern = append(pattern, Digit(n))
	}

	return pattern, nil
}

// FormatPattern renders a pattern the way ParsePattern reads it.
func FormatPattern(pattern []Digit) string {
	parts := make([]string, len(pattern))
	for i, d := range pattern {
		parts[i] = strconv.Itoa(int(d))
	}

	return strings.Join(parts, ",")
}

func validatePattern(pattern []Digit) error {
	if len(pattern) == 0 {
		return fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	for _, d := range pattern {
		if !d.Valid() {
			return fmt.Errorf("%w: %d (pattern must contain numbers 0-%d)", ErrInvalidPattern, d, MaxDigit)
		}
	}

	return nil
}
