package heist_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/heist/internal/heist"
	"github.com/calvinalkan/heist/pkg/workspace"
)

// constSource always draws the same digit, so every secret is that digit
// repeated.
type constSource int

func (c constSource) IntN(n int) int { return int(c) % n }

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type memStore struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func (m *memStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]

	return v, ok, nil
}

func (m *memStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	if m.data == nil {
		m.data = map[string]string{}
	}

	m.data[key] = value

	return nil
}

func newSession(t *testing.T, store *memStore) (*heist.Session, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	s, err := heist.New(heist.Options{
		Source: constSource(7),
		Store:  store,
		Clock:  clock,
	})
	require.NoError(t, err)

	return s, clock
}

func fillSecret(t *testing.T, s *heist.Session) []workspace.Digit {
	t.Helper()

	secret := s.Snapshot().Secret
	for i, d := range secret {
		require.NoError(t, s.Insert(i, d))
	}

	return secret
}

func Test_Session_Rejects_Operations_When_Idle(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, &memStore{})

	assert.Equal(t, heist.PhaseIdle, s.Phase())

	err := s.Insert(0, 1)
	require.ErrorIs(t, err, heist.ErrNotPlaying)

	_, err = s.Search([]workspace.Digit{1})
	require.ErrorIs(t, err, heist.ErrNotPlaying)

	_, err = s.AutoFill()
	require.ErrorIs(t, err, heist.ErrNotPlaying)

	require.ErrorIs(t, s.Reset(), heist.ErrNotPlaying)
	assert.Empty(t, s.History())
}

func Test_Session_Completes_Level_When_Secret_Found(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	s, clock := newSession(t, store)

	require.NoError(t, s.Start(1))

	secret := fillSecret(t, s)
	clock.Advance(5 * time.Second)

	out, err := s.Search(secret)
	require.NoError(t, err)

	assert.True(t, out.LevelComplete)
	assert.Equal(t, workspace.CompletionAward+55*workspace.TimeBonusPerTick, out.ScoreDelta)
	assert.Equal(t, heist.PhaseLevelComplete, s.Phase())
	assert.Equal(t, out.ScoreDelta, s.BestScore())
	assert.Equal(t, "650", store.data[heist.BestScoreKey])

	// Operations stay locked until the next level starts.
	require.ErrorIs(t, s.Insert(0, 1), heist.ErrNotPlaying)
}

func Test_Session_Reaches_Victory_When_Last_Level_Completed(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, &memStore{})

	require.NoError(t, s.Start(1))

	total := 0

	for level := 1; level <= workspace.MaxLevel; level++ {
		if level > 1 {
			require.NoError(t, s.Next())
		}

		assert.Equal(t, level, s.Snapshot().Level)

		out, err := s.Search(fillSecret(t, s))
		require.NoError(t, err)
		require.True(t, out.LevelComplete)

		total += out.ScoreDelta
	}

	assert.Equal(t, heist.PhaseVictory, s.Phase())
	assert.Equal(t, total, s.Snapshot().Score)
}

func Test_Session_Next_Reports_Final_Level_When_Game_Won(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, &memStore{})

	require.NoError(t, s.Start(workspace.MaxLevel))

	_, err := s.Search(fillSecret(t, s))
	require.NoError(t, err)
	require.Equal(t, heist.PhaseVictory, s.Phase())

	err = s.Next()
	require.ErrorIs(t, err, workspace.ErrFinalLevel)
	require.NotErrorIs(t, err, heist.ErrLevelIncomplete)
	assert.Equal(t, heist.PhaseVictory, s.Phase())
}

func Test_Session_Next_Fails_When_Level_Not_Complete(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, &memStore{})

	require.NoError(t, s.Start(1))
	require.ErrorIs(t, s.Next(), heist.ErrLevelIncomplete)
}

func Test_Session_Ticks_Once_Per_Elapsed_Second(t *testing.T) {
	t.Parallel()

	s, clock := newSession(t, &memStore{})

	require.NoError(t, s.Start(1))

	clock.Advance(2500 * time.Millisecond)
	assert.False(t, s.Sync())
	assert.Equal(t, workspace.LevelSeconds-2, s.Snapshot().TimeRemaining)

	// The half second left over carries into the next sync.
	clock.Advance(500 * time.Millisecond)
	assert.False(t, s.Sync())
	assert.Equal(t, workspace.LevelSeconds-3, s.Snapshot().TimeRemaining)
}

func Test_Session_Ends_Game_When_Time_Runs_Out(t *testing.T) {
	t.Parallel()

	s, clock := newSession(t, &memStore{})

	require.NoError(t, s.Start(2))

	clock.Advance(10 * time.Minute)

	err := s.Insert(0, 4)
	require.ErrorIs(t, err, heist.ErrNotPlaying)
	assert.Equal(t, heist.PhaseGameOver, s.Phase())
	assert.Equal(t, 0, s.Snapshot().TimeRemaining)
	assert.Equal(t, "Time's up", s.History()[0].Message)

	require.NoError(t, s.Restart())
	assert.Equal(t, heist.PhasePlaying, s.Phase())
	assert.Equal(t, 1, s.Snapshot().Level)
	assert.Equal(t, workspace.LevelSeconds, s.Snapshot().TimeRemaining)
}

func Test_Session_Records_History_Newest_First(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, &memStore{})

	require.NoError(t, s.Start(1))
	require.NoError(t, s.Insert(0, 5))
	require.NoError(t, s.Insert(1, 3))

	_, err := s.Delete(1)
	require.NoError(t, err)

	_, err = s.Search([]workspace.Digit{4})
	require.NoError(t, err)

	_, err = s.Search([]workspace.Digit{5})
	require.NoError(t, err)

	n, err := s.AutoFill()
	require.NoError(t, err)
	require.Equal(t, workspace.Capacity-1, n)

	require.NoError(t, s.Reset())

	want := []string{
		"Array reset",
		"Auto-filled 9 positions",
		"Found pattern [5] at position 0",
		"Pattern [4] not found",
		"Deleted element at index 1",
		"Inserted 3 at index 1",
		"Inserted 5 at index 0",
		"Level 1 started",
	}

	got := make([]string, 0, len(want))
	for _, e := range s.History() {
		got = append(got, e.Message)
	}

	assert.Equal(t, want, got)
}

func Test_Session_Caps_History(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, &memStore{})

	require.NoError(t, s.Start(1))

	for i := range 15 {
		require.NoError(t, s.Insert(0, workspace.Digit(i%10)))
	}

	h := s.History()
	require.Len(t, h, heist.HistorySize)
	assert.Equal(t, "Inserted 4 at index 0", h[0].Message)
}

func Test_Session_Does_Not_Record_Failed_Operations(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, &memStore{})

	require.NoError(t, s.Start(1))

	require.ErrorIs(t, s.Insert(workspace.Capacity, 1), workspace.ErrOutOfRange)

	_, err := s.Delete(0)
	require.ErrorIs(t, err, workspace.ErrEmptySlot)

	_, err = s.Search(nil)
	require.ErrorIs(t, err, workspace.ErrInvalidPattern)

	require.Len(t, s.History(), 1)
	assert.Equal(t, 0, s.Snapshot().OpsUsed)
}

func Test_Session_Keeps_Higher_Stored_Best_Score(t *testing.T) {
	t.Parallel()

	store := &memStore{data: map[string]string{heist.BestScoreKey: "5000"}}
	s, _ := newSession(t, store)

	assert.Equal(t, 5000, s.BestScore())

	require.NoError(t, s.Start(1))

	_, err := s.Search(fillSecret(t, s))
	require.NoError(t, err)

	assert.Equal(t, 5000, s.BestScore())
	assert.Equal(t, "5000", store.data[heist.BestScoreKey])
}

func Test_Session_Completes_Level_When_Best_Score_Save_Fails(t *testing.T) {
	t.Parallel()

	store := &memStore{err: errors.New("disk full")}
	s, _ := newSession(t, store)

	require.NoError(t, s.Start(1))

	out, err := s.Search(fillSecret(t, s))
	require.NoError(t, err)

	assert.True(t, out.LevelComplete)
	assert.Equal(t, out.ScoreDelta, s.BestScore())
}

func Test_Session_Start_Rejects_Unknown_Level(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, &memStore{})

	require.ErrorIs(t, s.Start(4), workspace.ErrInvalidLevel)
	assert.Equal(t, heist.PhaseIdle, s.Phase())
}
