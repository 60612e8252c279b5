package todo

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Options supplies the clock and id generator. Zero values use time.Now
// and random UUIDs.
type Options struct {
	Now   func() time.Time
	NewID func() string
}

// List owns an ordered set of tasks, newest first.
type List struct {
	tasks []Task
	now   func() time.Time
	newID func() string
}

// NewList returns a list holding a copy of tasks.
func NewList(tasks []Task, opts Options) *List {
	l := &List{
		tasks: slices.Clone(tasks),
		now:   opts.Now,
		newID: opts.NewID,
	}

	if l.now == nil {
		l.now = time.Now
	}

	if l.newID == nil {
		l.newID = uuid.NewString
	}

	return l
}

// Tasks returns a copy of all tasks in list order.
func (l *List) Tasks() []Task {
	return slices.Clone(l.tasks)
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// Get returns the task with id.
func (l *List) Get(id string) (Task, error) {
	i := l.index(id)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	return l.tasks[i], nil
}

// Add creates a task from text and puts it at the front of the list.
func (l *List) Add(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrTextEmpty
	}

	now := l.timestamp()
	task := Task{
		ID:        l.newID(),
		Text:      text,
		Priority:  DefaultPriority,
		CreatedAt: now,
		UpdatedAt: now,
	}

	l.tasks = slices.Insert(l.tasks, 0, task)

	return task, nil
}

// Toggle flips the completed flag of a task.
func (l *List) Toggle(id string) (Task, error) {
	return l.modify(id, func(t *Task) error {
		t.Completed = !t.Completed

		return nil
	})
}

// Edit replaces a task's text and priority.
func (l *List) Edit(id, text string, priority Priority) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrTextEmpty
	}

	if _, err := ParsePriority(string(priority)); err != nil {
		return Task{}, err
	}

	return l.modify(id, func(t *Task) error {
		t.Text = text
		t.Priority = priority

		return nil
	})
}

// CyclePriority moves a task to the next priority (low, medium, high, low).
func (l *List) CyclePriority(id string) (Task, error) {
	return l.modify(id, func(t *Task) error {
		t.Priority = t.Priority.Next()

		return nil
	})
}

// SetCompleted marks every listed task completed or active and returns how
// many actually changed. If any id is unknown nothing is changed.
func (l *List) SetCompleted(ids []string, completed bool) (int, error) {
	if err := l.requireAll(ids); err != nil {
		return 0, err
	}

	now := l.timestamp()
	changed := 0

	for _, id := range ids {
		t := &l.tasks[l.index(id)]
		if t.Completed == completed {
			continue
		}

		t.Completed = completed
		t.UpdatedAt = now
		changed++
	}

	return changed, nil
}

// Remove deletes the listed tasks and returns how many were removed.
// If any id is unknown nothing is removed.
func (l *List) Remove(ids ...string) (int, error) {
	if err := l.requireAll(ids); err != nil {
		return 0, err
	}

	before := len(l.tasks)
	l.tasks = slices.DeleteFunc(l.tasks, func(t Task) bool {
		return slices.Contains(ids, t.ID)
	})

	return before - len(l.tasks), nil
}

// ClearCompleted deletes all completed tasks and returns how many.
func (l *List) ClearCompleted() int {
	before := len(l.tasks)
	l.tasks = slices.DeleteFunc(l.tasks, func(t Task) bool {
		return t.Completed
	})

	return before - len(l.tasks)
}

// Filter returns the tasks matching f whose text contains search,
// case-insensitively.
func (l *List) Filter(f Filter, search string) []Task {
	search = strings.ToLower(strings.TrimSpace(search))

	var out []Task

	for _, t := range l.tasks {
		if !f.match(t) {
			continue
		}

		if search != "" && !strings.Contains(strings.ToLower(t.Text), search) {
			continue
		}

		out = append(out, t)
	}

	return out
}

// Stats counts tasks by state.
func (l *List) Stats() Stats {
	s := Stats{Total: len(l.tasks)}

	for _, t := range l.tasks {
		if t.Completed {
			s.Completed++
		}
	}

	s.Active = s.Total - s.Completed

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}

	return s
}

func (l *List) modify(id string, fn func(t *Task) error) (Task, error) {
	i := l.index(id)
	if i < 0 {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	updated := l.tasks[i]
	if err := fn(&updated); err != nil {
		return Task{}, err
	}

	updated.UpdatedAt = l.timestamp()
	l.tasks[i] = updated

	return updated, nil
}

func (l *List) requireAll(ids []string) error {
	for _, id := range ids {
		if l.index(id) < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
	}

	return nil
}

func (l *List) index(id string) int {
	return slices.IndexFunc(l.tasks, func(t Task) bool {
		return t.ID == id
	})
}

func (l *List) timestamp() time.Time {
	return l.now().UTC()
}
