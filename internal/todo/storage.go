package todo

import (
	"encoding/json"
	"fmt"
	"time"
)

// StorageKey is the key the list is persisted under.
const StorageKey = "todos"

// Store is the flat key-value store the list persists to.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Load reads the list from store.
//
// A missing key seeds the store with [SampleTasks]. A value that does not
// parse is discarded: the list starts empty and the problem is reported in
// the returned warnings rather than as an error.
func Load(store Store, opts Options) (*List, []string, error) {
	raw, ok, err := store.Get(StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("loading todos: %w", err)
	}

	if !ok {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}

		list := NewList(SampleTasks(now().UTC()), opts)
		if err := list.Save(store); err != nil {
			return nil, nil, err
		}

		return list, nil, nil
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		warning := fmt.Sprintf("stored todos are unreadable (%v): starting with an empty list", err)

		return NewList(nil, opts), []string{warning}, nil
	}

	return NewList(tasks, opts), nil, nil
}

// Save writes the whole list to store. The last save wins.
func (l *List) Save(store Store) error {
	tasks := l.tasks
	if tasks == nil {
		tasks = []Task{}
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encoding todos: %w", err)
	}

	if err := store.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("saving todos: %w", err)
	}

	return nil
}

// SampleTasks returns the tasks a fresh store starts with.
func SampleTasks(now time.Time) []Task {
	return []Task{
		{ID: "1", Text: "Welcome to your Todo App!", Priority: PriorityHigh, CreatedAt: now, UpdatedAt: now},
		{ID: "2", Text: "Select tasks by id for bulk actions", Priority: PriorityMedium, CreatedAt: now, UpdatedAt: now},
		{
			ID: "3", Text: "Use the search and filter features to organize your tasks",
			Completed: true, Priority: PriorityLow, CreatedAt: now, UpdatedAt: now,
		},
	}
}
