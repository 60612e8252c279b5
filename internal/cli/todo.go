package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/calvinalkan/heist/internal/kv"
	"github.com/calvinalkan/heist/internal/todo"

	flag "github.com/spf13/pflag"
)

func todoCmds(a *app) []*Command {
	return []*Command{
		todoAddCmd(a),
		todoLsCmd(a),
		todoToggleCmd(a),
		todoDoneCmd(a, true),
		todoDoneCmd(a, false),
		todoEditCmd(a),
		todoPriorityCmd(a),
		todoRmCmd(a),
		todoClearCmd(a),
		todoStatsCmd(a),
		todoExportCmd(a),
		todoImportCmd(a),
	}
}

// withList loads the list and runs fn. When save is set the list is written
// back afterwards.
func withList(o *IO, a *app, save bool, fn func(l *todo.List) error) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}

	list, warnings, err := todo.Load(store, todo.Options{})
	if err != nil {
		return err
	}

	for _, w := range warnings {
		a.log.Warn("todo list reset", zap.String("reason", w))
		o.Warn(w, "re-import a backup with 'heist todo import <file>'")
	}

	if err := fn(list); err != nil {
		return err
	}

	if !save {
		return nil
	}

	return saveList(a, store, list)
}

func saveList(a *app, store *kv.Store, list *todo.List) error {
	if err := list.Save(store); err != nil {
		return err
	}

	a.log.Debug("todos saved", zap.Int("count", list.Len()), zap.String("path", store.Path()))

	return nil
}

func noFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func todoAddCmd(a *app) *Command {
	return &Command{
		Flags: noFlags("todo add"),
		Usage: "todo add <text>",
		Short: "Add a task",
		Long:  "Add a task at the top of the list with medium priority.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return withList(o, a, true, func(l *todo.List) error {
				t, err := l.Add(strings.Join(args, " "))
				if err != nil {
					return err
				}

				o.Println(t.ID)

				return nil
			})
		},
	}
}

func todoLsCmd(a *app) *Command {
	fs := flag.NewFlagSet("todo ls", flag.ContinueOnError)
	fs.StringP("filter", "f", "all", "Show all|active|completed tasks")
	fs.StringP("search", "s", "", "Only tasks whose text contains this (case-insensitive)")

	return &Command{
		Flags: fs,
		Usage: "todo ls [flags]",
		Short: "List tasks",
		Long: `List tasks, newest first.

Each line shows the completion mark, id, priority, text and age.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			rawFilter, _ := fs.GetString("filter")
			search, _ := fs.GetString("search")

			filter, err := todo.ParseFilter(rawFilter)
			if err != nil {
				return err
			}

			return withList(o, a, false, func(l *todo.List) error {
				printTasks(o, l.Filter(filter, search), time.Now())

				return nil
			})
		},
	}
}

func printTasks(o *IO, tasks []todo.Task, now time.Time) {
	if len(tasks) == 0 {
		o.Println("No tasks")

		return
	}

	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}

		o.Printf("[%s] %s  %-6s  %s  (%s)\n", mark, t.ID, t.Priority, t.Text, todo.FormatAge(t.CreatedAt, now))
	}
}

func todoToggleCmd(a *app) *Command {
	return &Command{
		Flags: noFlags("todo toggle"),
		Usage: "todo toggle <id>",
		Short: "Flip a task between active and completed",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: todo toggle <id>", errUsage)
			}

			return withList(o, a, true, func(l *todo.List) error {
				t, err := l.Toggle(args[0])
				if err != nil {
					return err
				}

				state := "active"
				if t.Completed {
					state = "completed"
				}

				o.Printf("%s %s\n", t.ID, state)

				return nil
			})
		},
	}
}

func todoDoneCmd(a *app, completed bool) *Command {
	name, short, verb := "done", "Mark tasks completed", "completed"
	if !completed {
		name, short, verb = "undone", "Mark tasks active", "active"
	}

	return &Command{
		Flags: noFlags("todo " + name),
		Usage: "todo " + name + " <id>...",
		Short: short,
		Long:  short + ". Nothing changes if any id is unknown.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: todo %s <id>...", errUsage, name)
			}

			return withList(o, a, true, func(l *todo.List) error {
				n, err := l.SetCompleted(args, completed)
				if err != nil {
					return err
				}

				o.Printf("Marked %d task(s) %s\n", n, verb)

				return nil
			})
		},
	}
}

func todoEditCmd(a *app) *Command {
	fs := flag.NewFlagSet("todo edit", flag.ContinueOnError)
	fs.StringP("text", "t", "", "New text")
	fs.StringP("priority", "p", "", "New priority (low|medium|high)")

	return &Command{
		Flags: fs,
		Usage: "todo edit <id> [flags]",
		Short: "Change a task's text or priority",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: todo edit <id> [--text T] [--priority P]", errUsage)
			}

			if !fs.Changed("text") && !fs.Changed("priority") {
				return fmt.Errorf("%w: nothing to change, pass --text or --priority", errUsage)
			}

			text, _ := fs.GetString("text")
			rawPriority, _ := fs.GetString("priority")

			return withList(o, a, true, func(l *todo.List) error {
				current, err := l.Get(args[0])
				if err != nil {
					return err
				}

				priority := current.Priority
				if fs.Changed("priority") {
					priority, err = todo.ParsePriority(rawPriority)
					if err != nil {
						return err
					}
				}

				if !fs.Changed("text") {
					text = current.Text
				}

				t, err := l.Edit(current.ID, text, priority)
				if err != nil {
					return err
				}

				o.Printf("%s  %s  %s\n", t.ID, t.Priority, t.Text)

				return nil
			})
		},
	}
}

func todoPriorityCmd(a *app) *Command {
	return &Command{
		Flags: noFlags("todo priority"),
		Usage: "todo priority <id>",
		Short: "Cycle a task's priority (low, medium, high)",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: todo priority <id>", errUsage)
			}

			return withList(o, a, true, func(l *todo.List) error {
				t, err := l.CyclePriority(args[0])
				if err != nil {
					return err
				}

				o.Println(t.Priority)

				return nil
			})
		},
	}
}

func todoRmCmd(a *app) *Command {
	return &Command{
		Flags: noFlags("todo rm"),
		Usage: "todo rm <id>...",
		Short: "Delete tasks",
		Long:  "Delete tasks. Nothing is deleted if any id is unknown.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: todo rm <id>...", errUsage)
			}

			return withList(o, a, true, func(l *todo.List) error {
				n, err := l.Remove(args...)
				if err != nil {
					return err
				}

				o.Printf("Deleted %d task(s)\n", n)

				return nil
			})
		},
	}
}

func todoClearCmd(a *app) *Command {
	return &Command{
		Flags: noFlags("todo clear"),
		Usage: "todo clear",
		Short: "Delete all completed tasks",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %s", errUnexpectedArgs, strings.Join(args, " "))
			}

			return withList(o, a, true, func(l *todo.List) error {
				o.Printf("Cleared %d completed task(s)\n", l.ClearCompleted())

				return nil
			})
		},
	}
}

func todoStatsCmd(a *app) *Command {
	return &Command{
		Flags: noFlags("todo stats"),
		Usage: "todo stats",
		Short: "Show task counts",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return withList(o, a, false, func(l *todo.List) error {
				s := l.Stats()
				o.Printf("total=%d\nactive=%d\ncompleted=%d\ncompletion_rate=%d%%\n",
					s.Total, s.Active, s.Completed, s.CompletionRate)

				return nil
			})
		},
	}
}

func todoExportCmd(a *app) *Command {
	fs := flag.NewFlagSet("todo export", flag.ContinueOnError)
	fs.String("format", "json", "Output format (json|yaml)")
	fs.StringP("output", "o", "", "Output file, - for stdout (default todos-<date>.<format>)")

	return &Command{
		Flags: fs,
		Usage: "todo export [flags]",
		Short: "Export all tasks to a file",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			rawFormat, _ := fs.GetString("format")
			output, _ := fs.GetString("output")

			format, err := todo.ParseFormat(rawFormat)
			if err != nil {
				return err
			}

			return withList(o, a, false, func(l *todo.List) error {
				if output == "-" {
					return l.Export(o.Out(), format)
				}

				if output == "" {
					output = todo.ExportFileName(time.Now(), format)
				}

				if !filepath.IsAbs(output) {
					output = filepath.Join(a.cfg.EffectiveCwd, output)
				}

				var buf bytes.Buffer
				if err := l.Export(&buf, format); err != nil {
					return err
				}

				if err := atomic.WriteFile(output, &buf); err != nil {
					return fmt.Errorf("writing export: %w", err)
				}

				o.Printf("Exported %d task(s) to %s\n", l.Len(), output)

				return nil
			})
		},
	}
}

func todoImportCmd(a *app) *Command {
	return &Command{
		Flags: noFlags("todo import"),
		Usage: "todo import <file>",
		Short: "Import tasks from a JSON file",
		Long: `Import tasks from a JSON array, as written by 'todo export'.

Comments and trailing commas are accepted. Tasks whose id already exists
are skipped. Use - to read from stdin.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: todo import <file>", errUsage)
			}

			var r io.Reader = o.In()

			if args[0] != "-" {
				path := args[0]
				if !filepath.IsAbs(path) {
					path = filepath.Join(a.cfg.EffectiveCwd, path)
				}

				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening import: %w", err)
				}
				defer func() { _ = f.Close() }()

				r = f
			}

			if r == nil {
				r = strings.NewReader("")
			}

			return withList(o, a, true, func(l *todo.List) error {
				n, err := l.Import(r)
				if err != nil {
					return err
				}

				o.Printf("Imported %d task(s)\n", n)

				return nil
			})
		},
	}
}
