package workspace

import "strconv"

// Capacity is the fixed number of slots in a workspace row.
const Capacity = 10

// LevelSeconds is the time budget, in ticks, given to every level.
const LevelSeconds = 60

// Scoring for a completed level: a flat award plus a bonus per remaining tick.
const (
	CompletionAward  = 100
	TimeBonusPerTick = 10
)

// MaxDigit is the largest value a slot or pattern element may hold.
const MaxDigit = 9

// Digit is a slot or pattern value in [0, 9].
type Digit uint8

// Valid reports whether d is in [0, MaxDigit].
func (d Digit) Valid() bool {
	return d <= MaxDigit
}

// Slot is one position of the row. The zero value is empty.
type Slot struct {
	digit  Digit
	filled bool
}

// Filled returns an occupied slot holding d.
func Filled(d Digit) Slot {
	return Slot{digit: d, filled: true}
}

// Digit returns the held digit and whether the slot is occupied.
func (s Slot) Digit() (Digit, bool) {
	return s.digit, s.filled
}

// Empty reports whether the slot is unoccupied.
func (s Slot) Empty() bool {
	return !s.filled
}

// String renders the digit, or "_" for an empty slot.
func (s Slot) String() string {
	if !s.filled {
		return "_"
	}

	return strconv.Itoa(int(s.digit))
}

// TimerOutcome is the result of a [Workspace.Tick].
type TimerOutcome int

const (
	// Continuing means time remains in the level.
	Continuing TimerOutcome = iota
	// Expired means the time budget reached zero.
	Expired
)

func (t TimerOutcome) String() string {
	if t == Expired {
		return "expired"
	}

	return "continuing"
}

// Probe is one window inspected by a search, in scan order.
type Probe struct {
	// Start is the window start in compact coordinates.
	Start int
	// Slots are the raw slot indices covered by the window.
	Slots []int
	// Match reports whether this window equals the pattern.
	Match bool
}

// SearchOutcome is the result of a [Workspace.Search].
//
// Found and Index describe the first match. Probes lists every window that
// was compared, ending with the matching one when Found is true, so a front
// end can replay the scan with its own timing.
type SearchOutcome struct {
	Found bool
	Index int

	// MatchSlots are the raw slot indices of the match, nil when not found.
	MatchSlots []int

	Probes []Probe

	// LevelComplete is set when the found pattern equals the secret.
	LevelComplete bool
	// ScoreDelta is the amount added to the score on completion.
	ScoreDelta int
}

// Snapshot is a read-only copy of workspace state for rendering.
type Snapshot struct {
	Slots         [Capacity]Slot
	Secret        []Digit
	Level         int
	Score         int
	TimeRemaining int
	OpsUsed       int
}

// Compact returns the occupied digits of the snapshot in slot order.
func (s Snapshot) Compact() []Digit {
	return compact(s.Slots[:])
}

// Filled returns how many slots are occupied.
func (s Snapshot) Filled() int {
	n := 0

	for _, slot := range s.Slots {
		if !slot.Empty() {
			n++
		}
	}

	return n
}
