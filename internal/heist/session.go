// Package heist runs a game session on top of a workspace: it owns the
// workspace, converts wall-clock time into timer ticks, tracks the game
// phase, keeps the operation history and persists the best score.
package heist

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/calvinalkan/heist/pkg/workspace"
)

// Errors returned by session operations.
var (
	ErrNotPlaying      = errors.New("no level in progress")
	ErrLevelIncomplete = errors.New("current level is not complete")
)

// HistorySize is the number of history entries kept.
const HistorySize = 10

// BestScoreKey is the store key holding the best cumulative score.
const BestScoreKey = "heist.best_score"

// Phase is the session's position in the game loop.
type Phase int

// Phases.
const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhaseLevelComplete
	PhaseGameOver
	PhaseVictory
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseLevelComplete:
		return "level complete"
	case PhaseGameOver:
		return "game over"
	case PhaseVictory:
		return "victory"
	default:
		return "idle"
	}
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Store persists the best score.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Entry is one line of operation history.
type Entry struct {
	At      time.Time
	Message string
}

// Options configures a session. Source and Store are required.
type Options struct {
	Source workspace.Source
	Store  Store
	Clock  Clock
	Logger *zap.Logger
}

// Session is the single owner of a workspace.
type Session struct {
	ws    *workspace.Workspace
	store Store
	clock Clock
	log   *zap.Logger

	phase    Phase
	lastSync time.Time
	history  []Entry
	best     int
}

// New returns an idle session. It reads the best score from the store.
func New(opts Options) (*Session, error) {
	if opts.Source == nil || opts.Store == nil {
		return nil, errors.New("heist: source and store are required")
	}

	s := &Session{
		ws:    workspace.New(opts.Source),
		store: opts.Store,
		clock: opts.Clock,
		log:   opts.Logger,
	}

	if s.clock == nil {
		s.clock = SystemClock{}
	}

	if s.log == nil {
		s.log = zap.NewNop()
	}

	raw, ok, err := s.store.Get(BestScoreKey)
	if err != nil {
		return nil, fmt.Errorf("reading best score: %w", err)
	}

	if ok {
		best, convErr := strconv.Atoi(raw)
		if convErr != nil {
			s.log.Warn("ignoring unreadable best score", zap.String("value", raw))
		} else {
			s.best = best
		}
	}

	return s, nil
}

// Start begins level n with a zero score.
func (s *Session) Start(n int) error {
	if err := s.ws.SelectLevel(n); err != nil {
		return err
	}

	s.begin()
	s.record(fmt.Sprintf("Level %d started", n))
	s.log.Info("level started", zap.Int("level", n))
	s.log.Debug("secret", zap.String("pattern", workspace.FormatPattern(s.ws.Secret())))

	return nil
}

// Restart starts a new game at level 1.
func (s *Session) Restart() error {
	return s.Start(1)
}

// Next advances to the following level after a level was completed,
// keeping the score. After the last level it returns
// [workspace.ErrFinalLevel].
func (s *Session) Next() error {
	if s.phase == PhaseVictory {
		return fmt.Errorf("%w: %d", workspace.ErrFinalLevel, s.ws.Level())
	}

	if s.phase != PhaseLevelComplete {
		return ErrLevelIncomplete
	}

	if err := s.ws.NextLevel(); err != nil {
		return err
	}

	s.begin()
	s.record(fmt.Sprintf("Level %d started", s.ws.Level()))
	s.log.Info("level started", zap.Int("level", s.ws.Level()), zap.Int("score", s.ws.Score()))

	return nil
}

// Sync converts the time elapsed since the last sync into ticks. It
// returns true if the level ran out of time during this call.
func (s *Session) Sync() bool {
	if s.phase != PhasePlaying {
		return false
	}

	now := s.clock.Now()
	ticks := int(now.Sub(s.lastSync) / time.Second)
	s.lastSync = s.lastSync.Add(time.Duration(ticks) * time.Second)

	for range ticks {
		if s.ws.Tick() == workspace.Expired {
			s.phase = PhaseGameOver
			s.record("Time's up")
			s.log.Info("level expired", zap.Int("level", s.ws.Level()), zap.Int("ops", s.ws.OpsUsed()))

			return true
		}
	}

	return false
}

// Insert inserts value at index.
func (s *Session) Insert(index int, value workspace.Digit) error {
	if err := s.requirePlaying(); err != nil {
		return err
	}

	if err := s.ws.Insert(index, value); err != nil {
		return err
	}

	s.record(fmt.Sprintf("Inserted %d at index %d", value, index))
	s.log.Debug("insert", zap.Int("index", index), zap.Int("value", int(value)))

	return nil
}

// Delete removes the digit at index and returns it.
func (s *Session) Delete(index int) (workspace.Digit, error) {
	if err := s.requirePlaying(); err != nil {
		return 0, err
	}

	removed, err := s.ws.Delete(index)
	if err != nil {
		return 0, err
	}

	s.record(fmt.Sprintf("Deleted element at index %d", index))
	s.log.Debug("delete", zap.Int("index", index), zap.Int("value", int(removed)))

	return removed, nil
}

// Search looks for pattern. Finding the secret completes the level, or
// the game when it was the last level.
func (s *Session) Search(pattern []workspace.Digit) (workspace.SearchOutcome, error) {
	if err := s.requirePlaying(); err != nil {
		return workspace.SearchOutcome{}, err
	}

	out, err := s.ws.Search(pattern)
	if err != nil {
		return workspace.SearchOutcome{}, err
	}

	text := workspace.FormatPattern(pattern)
	if out.Found {
		s.record(fmt.Sprintf("Found pattern [%s] at position %d", text, out.Index))
	} else {
		s.record(fmt.Sprintf("Pattern [%s] not found", text))
	}

	s.log.Debug("search",
		zap.String("pattern", text),
		zap.Bool("found", out.Found),
		zap.Int("index", out.Index),
		zap.Int("probes", len(out.Probes)))

	if out.LevelComplete {
		s.complete(out.ScoreDelta)
	}

	return out, nil
}

// AutoFill fills every empty slot with a random digit.
func (s *Session) AutoFill() (int, error) {
	if err := s.requirePlaying(); err != nil {
		return 0, err
	}

	n := s.ws.AutoFill()
	if n > 0 {
		s.record(fmt.Sprintf("Auto-filled %d positions", n))
	}

	s.log.Debug("autofill", zap.Int("filled", n))

	return n, nil
}

// Reset clears the row and the operation count.
func (s *Session) Reset() error {
	if err := s.requirePlaying(); err != nil {
		return err
	}

	s.ws.Reset()
	s.record("Array reset")
	s.log.Debug("reset")

	return nil
}

// Snapshot returns the workspace state for rendering.
func (s *Session) Snapshot() workspace.Snapshot {
	return s.ws.Snapshot()
}

// SlotIndex maps a compact coordinate to a raw slot index.
func (s *Session) SlotIndex(compactIndex int) int {
	return s.ws.SlotIndex(compactIndex)
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Mission describes the current level's goal.
func (s *Session) Mission() string {
	cfg, err := workspace.Level(s.ws.Level())
	if err != nil {
		return ""
	}

	return cfg.Description
}

// History returns the recorded operations, most recent first.
func (s *Session) History() []Entry {
	out := make([]Entry, len(s.history))
	copy(out, s.history)

	return out
}

// BestScore returns the best cumulative score seen, including this session.
func (s *Session) BestScore() int {
	return s.best
}

func (s *Session) begin() {
	s.phase = PhasePlaying
	s.lastSync = s.clock.Now()
}

func (s *Session) complete(delta int) {
	s.phase = PhaseLevelComplete
	if s.ws.Level() >= workspace.MaxLevel {
		s.phase = PhaseVictory
	}

	s.log.Info("level complete",
		zap.Int("level", s.ws.Level()),
		zap.Int("elapsed", s.ws.Elapsed()),
		zap.Int("ops", s.ws.OpsUsed()),
		zap.Int("delta", delta),
		zap.Int("score", s.ws.Score()))

	if s.ws.Score() <= s.best {
		return
	}

	s.best = s.ws.Score()

	// The score itself is already won; a failed save only loses the record.
	if err := s.store.Set(BestScoreKey, strconv.Itoa(s.best)); err != nil {
		s.log.Warn("saving best score failed", zap.Error(err))
	}
}

func (s *Session) requirePlaying() error {
	s.Sync()

	if s.phase != PhasePlaying {
		return fmt.Errorf("%w (%s)", ErrNotPlaying, s.phase)
	}

	return nil
}

func (s *Session) record(msg string) {
	entry := Entry{At: s.clock.Now(), Message: msg}
	s.history = append([]Entry{entry}, s.history...)

	if len(s.history) > HistorySize {
		s.history = s.history[:HistorySize]
	}
}
