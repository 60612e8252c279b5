package todo

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Format is an export encoding.
type Format string

// Export formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates s as an export format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

// ExportFileName is the default export file name for the given day.
func ExportFileName(now time.Time, format Format) string {
	return "todos-" + now.Format(time.DateOnly) + "." + string(format)
}

// Export writes the full list to w, indented by two spaces.
func (l *List) Export(w io.Writer, format Format) error {
	tasks := l.tasks
	if tasks == nil {
		tasks = []Task{}
	}

	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding export: %w", err)
		}

		data = append(data, '\n')

		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}

		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encoding export: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

// Import merges tasks read from r into the list and returns how many were
// added. The input must be a JSON array of tasks; comments and trailing
// commas are tolerated. Tasks whose id is already present, in the list or
// earlier in the same file, are skipped. New tasks are appended in file
// order. On any error the list is unchanged.
func (l *List) Import(r io.Reader) (int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("reading import: %w", err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	var tasks []Task
	if err := json.Unmarshal(standardized, &tasks); err != nil {
		return 0, fmt.Errorf("%w: expected an array of tasks: %w", ErrInvalidImport, err)
	}

	if tasks == nil {
		return 0, fmt.Errorf("%w: expected an array of tasks", ErrInvalidImport)
	}

	seen := make(map[string]bool, len(l.tasks)+len(tasks))
	for _, t := range l.tasks {
		seen[t.ID] = true
	}

	var added []Task

	for i, t := range tasks {
		if t.ID == "" {
			return 0, fmt.Errorf("%w: task %d has no id", ErrInvalidImport, i)
		}

		if seen[t.ID] {
			continue
		}

		if t.Priority == "" {
			t.Priority = DefaultPriority
		}

		if _, err := ParsePriority(string(t.Priority)); err != nil {
			return 0, fmt.Errorf("%w: task %s: %w", ErrInvalidImport, t.ID, err)
		}

		seen[t.ID] = true
		added = append(added, t)
	}

	l.tasks = append(l.tasks, added...)

	return len(added), nil
}
