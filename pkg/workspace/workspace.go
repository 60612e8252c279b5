package workspace

import (
	"fmt"
	"slices"
)

// Workspace owns the slot row, the secret pattern and the level session.
type Workspace struct {
	src Source

	slots  [Capacity]Slot
	secret []Digit

	level         int
	score         int
	opsUsed       int
	timeRemaining int
}

// New returns a workspace at level 1 with a freshly generated secret.
// Panics if src is nil.
func New(src Source) *Workspace {
	if src == nil {
		panic("source is nil")
	}

	ws := &Workspace{src: src}
	ws.startLevel(levels[0])

	return ws
}

// NewLevel clears the row, resets the operation count and timer, and
// generates a new secret for level n. The score is kept.
func (w *Workspace) NewLevel(n int) error {
	cfg, err := Level(n)
	if err != nil {
		return err
	}

	w.startLevel(cfg)

	return nil
}

func (w *Workspace) startLevel(cfg LevelConfig) {
	w.slots = [Capacity]Slot{}
	w.opsUsed = 0
	w.timeRemaining = LevelSeconds
	w.level = cfg.Number
	w.secret = generateSecret(cfg, w.src)
}

// NextLevel advances to the following level, keeping the score.
func (w *Workspace) NextLevel() error {
	if w.level >= MaxLevel {
		return fmt.Errorf("%w: %d", ErrFinalLevel, w.level)
	}

	return w.NewLevel(w.level + 1)
}

// SelectLevel starts level n with the score reset to zero.
func (w *Workspace) SelectLevel(n int) error {
	cfg, err := Level(n)
	if err != nil {
		return err
	}

	w.score = 0
	w.startLevel(cfg)

	return nil
}

// Restart starts a new game from level 1 with a zero score.
func (w *Workspace) Restart() error {
	return w.SelectLevel(1)
}

// Insert shifts slots [index, Capacity-2] one position right and stores
// value at index. Whatever occupied the last slot is discarded.
func (w *Workspace) Insert(index int, value Digit) error {
	if err := checkIndex(index); err != nil {
		return err
	}

	if !value.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidValue, value)
	}

	copy(w.slots[index+1:], w.slots[index:Capacity-1])
	w.slots[index] = Filled(value)
	w.opsUsed++

	return nil
}

// Delete removes the digit at index, shifts slots [index+1, Capacity-1] one
// position left and empties the last slot. It returns the removed digit.
func (w *Workspace) Delete(index int) (Digit, error) {
	if err := checkIndex(index); err != nil {
		return 0, err
	}

	removed, ok := w.slots[index].Digit()
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrEmptySlot, index)
	}

	copy(w.slots[index:], w.slots[index+1:])
	w.slots[Capacity-1] = Slot{}
	w.opsUsed++

	return removed, nil
}

// AutoFill puts a random digit in every empty slot and returns how many
// slots were filled.
func (w *Workspace) AutoFill() int {
	filled := 0

	for i := range w.slots {
		if w.slots[i].Empty() {
			w.slots[i] = Filled(randomDigit(w.src))
			filled++
		}
	}

	return filled
}

// Reset empties every slot and zeroes the operation count. The secret,
// timer and score are untouched.
func (w *Workspace) Reset() {
	w.slots = [Capacity]Slot{}
	w.opsUsed = 0
}

// Tick consumes one unit of the level's time budget.
// Once the budget is exhausted it stays at zero and Tick keeps reporting
// [Expired].
func (w *Workspace) Tick() TimerOutcome {
	if w.timeRemaining > 0 {
		w.timeRemaining--
	}

	if w.timeRemaining == 0 {
		return Expired
	}

	return Continuing
}

// IsSecret reports whether pattern equals the secret element-wise.
func (w *Workspace) IsSecret(pattern []Digit) bool {
	return slices.Equal(pattern, w.secret)
}

// Level returns the current level number.
func (w *Workspace) Level() int { return w.level }

// Score returns the cumulative score.
func (w *Workspace) Score() int { return w.score }

// OpsUsed returns the number of operations performed this level.
func (w *Workspace) OpsUsed() int { return w.opsUsed }

// TimeRemaining returns the ticks left in the level.
func (w *Workspace) TimeRemaining() int { return w.timeRemaining }

// Elapsed returns the ticks consumed in the level.
func (w *Workspace) Elapsed() int { return LevelSeconds - w.timeRemaining }

// Secret returns a copy of the secret pattern.
func (w *Workspace) Secret() []Digit {
	return slices.Clone(w.secret)
}

// Compact returns the occupied digits in slot order.
func (w *Workspace) Compact() []Digit {
	return compact(w.slots[:])
}

// SlotIndex maps a compact coordinate to its raw slot index.
// Returns -1 if fewer than compactIndex+1 slots are occupied.
func (w *Workspace) SlotIndex(compactIndex int) int {
	if compactIndex < 0 {
		return -1
	}

	seen := 0

	for i, slot := range w.slots {
		if slot.Empty() {
			continue
		}

		if seen == compactIndex {
			return i
		}

		seen++
	}

	return -1
}

// Snapshot returns a copy of the current state.
func (w *Workspace) Snapshot() Snapshot {
	return Snapshot{
		Slots:         w.slots,
		Secret:        slices.Clone(w.secret),
		Level:         w.level,
		Score:         w.score,
		TimeRemaining: w.timeRemaining,
		OpsUsed:       w.opsUsed,
	}
}

func checkIndex(index int) error {
	if index < 0 || index >= Capacity {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrOutOfRange, index, Capacity-1)
	}

	return nil
}

func compact(slots []Slot) []Digit {
	out := make([]Digit, 0, len(slots))

	for _, slot := range slots {
		if d, ok := slot.Digit(); ok {
			out = append(out, d)
		}
	}

	return out
}
