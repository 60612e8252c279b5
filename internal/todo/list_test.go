package todo_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/heist/internal/todo"
)

var baseTime = time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

// testOptions returns a clock that advances one minute per call and
// sequential ids t1, t2, ...
func testOptions() todo.Options {
	now := baseTime
	id := 0

	return todo.Options{
		Now: func() time.Time {
			now = now.Add(time.Minute)

			return now
		},
		NewID: func() string {
			id++

			return fmt.Sprintf("t%d", id)
		},
	}
}

func newListWith(t *testing.T, texts ...string) *todo.List {
	t.Helper()

	list := todo.NewList(nil, testOptions())
	for _, text := range texts {
		_, err := list.Add(text)
		require.NoError(t, err)
	}

	return list
}

func ids(tasks []todo.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}

	return out
}

func Test_Add_Puts_Newest_First_With_Defaults(t *testing.T) {
	t.Parallel()

	list := newListWith(t, "first", "  second  ")

	want := []todo.Task{
		{ID: "t2", Text: "second", Priority: todo.PriorityMedium, CreatedAt: baseTime.Add(2 * time.Minute), UpdatedAt: baseTime.Add(2 * time.Minute)},
		{ID: "t1", Text: "first", Priority: todo.PriorityMedium, CreatedAt: baseTime.Add(time.Minute), UpdatedAt: baseTime.Add(time.Minute)},
	}

	if diff := cmp.Diff(want, list.Tasks()); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
}

func Test_Add_Rejects_Blank_Text(t *testing.T) {
	t.Parallel()

	list := newListWith(t)

	_, err := list.Add("   ")
	require.ErrorIs(t, err, todo.ErrTextEmpty)
	assert.Zero(t, list.Len())
}

func Test_Add_Uses_UUID_When_No_Generator(t *testing.T) {
	t.Parallel()

	list := todo.NewList(nil, todo.Options{})

	task, err := list.Add("x")
	require.NoError(t, err)
	assert.Len(t, task.ID, 36)
}

func Test_Toggle_Flips_Completed_And_Touches_UpdatedAt(t *testing.T) {
	t.Parallel()

	list := newListWith(t, "a")

	task, err := list.Toggle("t1")
	require.NoError(t, err)
	assert.True(t, task.Completed)
	assert.True(t, task.UpdatedAt.After(task.CreatedAt))

	task, err = list.Toggle("t1")
	require.NoError(t, err)
	assert.False(t, task.Completed)

	_, err = list.Toggle("nope")
	require.ErrorIs(t, err, todo.ErrTaskNotFound)
}

func Test_Edit_Validates_Text_And_Priority(t *testing.T) {
	t.Parallel()

	list := newListWith(t, "a")

	task, err := list.Edit("t1", " renamed ", todo.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, "renamed", task.Text)
	assert.Equal(t, todo.PriorityHigh, task.Priority)

	_, err = list.Edit("t1", "", todo.PriorityLow)
	require.ErrorIs(t, err, todo.ErrTextEmpty)

	_, err = list.Edit("t1", "x", "urgent")
	require.ErrorIs(t, err, todo.ErrInvalidPriority)

	got, err := list.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Text)
}

func Test_CyclePriority_Wraps(t *testing.T) {
	t.Parallel()

	list := newListWith(t, "a")

	var seen []todo.Priority

	for range 4 {
		task, err := list.CyclePriority("t1")
		require.NoError(t, err)

		seen = append(seen, task.Priority)
	}

	assert.Equal(t, []todo.Priority{todo.PriorityHigh, todo.PriorityLow, todo.PriorityMedium, todo.PriorityHigh}, seen)
}

func Test_SetCompleted_Counts_Only_Changes(t *testing.T) {
	t.Parallel()

	list := newListWith(t, "a", "b", "c")
	_, _ = list.Toggle("t1")

	changed, err := list.SetCompleted([]string{"t1", "t2"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	changed, err = list.SetCompleted([]string{"t3", "missing"}, true)
	require.ErrorIs(t, err, todo.ErrTaskNotFound)
	assert.Zero(t, changed)

	task, _ := list.Get("t3")
	assert.False(t, task.Completed, "partial bulk update applied")
}

func Test_Remove_Is_All_Or_Nothing(t *testing.T) {
	t.Parallel()

	list := newListWith(t, "a", "b", "c")

	_, err := list.Remove("t1", "missing")
	require.ErrorIs(t, err, todo.ErrTaskNotFound)
	assert.Equal(t, 3, list.Len())

	removed, err := list.Remove("t1", "t3")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"t2"}, ids(list.Tasks()))
}

func Test_ClearCompleted(t *testing.T) {
	t.Parallel()

	list := newListWith(t, "a", "b", "c")
	_, _ = list.SetCompleted([]string{"t1", "t3"}, true)

	assert.Equal(t, 2, list.ClearCompleted())
	assert.Equal(t, 0, list.ClearCompleted())
	assert.Equal(t, []string{"t2"}, ids(list.Tasks()))
}

func Test_Filter_By_Status_And_Search(t *testing.T) {
	t.Parallel()

	list := newListWith(t, "Buy milk", "Write report", "buy stamps")
	_, _ = list.Toggle("t3")

	testCases := []struct {
		name   string
		filter todo.Filter
		search string
		want   []string
	}{
		{name: "All", filter: todo.FilterAll, want: []string{"t3", "t2", "t1"}},
		{name: "Active", filter: todo.FilterActive, want: []string{"t2", "t1"}},
		{name: "Completed", filter: todo.FilterCompleted, want: []string{"t3"}},
		{name: "SearchCaseInsensitive", filter: todo.FilterAll, search: "BUY", want: []string{"t3", "t1"}},
		{name: "SearchAndStatus", filter: todo.FilterActive, search: "buy", want: []string{"t1"}},
		{name: "NoMatch", filter: todo.FilterAll, search: "zzz", want: []string{}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := ids(list.Filter(testCase.filter, testCase.search))
			assert.Equal(t, testCase.want, got)
		})
	}
}

func Test_Stats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, todo.Stats{}, newListWith(t).Stats())

	list := newListWith(t, "a", "b", "c")
	_, _ = list.Toggle("t1")

	assert.Equal(t, todo.Stats{Total: 3, Active: 2, Completed: 1, CompletionRate: 33}, list.Stats())

	_, _ = list.Toggle("t2")
	assert.Equal(t, 67, list.Stats().CompletionRate)
}

func Test_ParseFilter_And_Priority(t *testing.T) {
	t.Parallel()

	f, err := todo.ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, todo.FilterAll, f)

	_, err = todo.ParseFilter("done")
	assert.True(t, errors.Is(err, todo.ErrInvalidFilter))

	p, err := todo.ParsePriority("low")
	require.NoError(t, err)
	assert.Equal(t, todo.PriorityLow, p)
	assert.Equal(t, todo.PriorityLow, todo.Priority("bogus").Next())
}

func Test_FormatAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		ago  time.Duration
		want string
	}{
		{ago: 0, want: "Today"},
		{ago: 3 * time.Hour, want: "Today"},
		{ago: 30 * time.Hour, want: "Yesterday"},
		{ago: 3*24*time.Hour + time.Hour, want: "3 days ago"},
		{ago: 6*24*time.Hour + time.Hour, want: "6 days ago"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.want, todo.FormatAge(now.Add(-testCase.ago), now), "ago=%v", testCase.ago)
	}

	old := now.Add(-30 * 24 * time.Hour)
	assert.Equal(t, old.Local().Format("Jan 2, 2006"), todo.FormatAge(old, now))
}
