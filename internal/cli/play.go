package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/calvinalkan/heist/internal/heist"
	"github.com/calvinalkan/heist/pkg/workspace"

	flag "github.com/spf13/pflag"
)

// historyFileName is the REPL history file inside the data directory.
const historyFileName = "history"

const prompt = "heist> "

var errUsage = errors.New("usage")

// replCommands lists the REPL commands for help and completion.
var replCommands = []struct {
	usage string
	short string
}{
	{"insert <index> <value>", "Insert a digit, shifting the row right"},
	{"delete <index>", "Delete a digit, shifting the row left"},
	{"search <pattern>", "Search for a comma-separated pattern, e.g. 3,7"},
	{"fill", "Fill every empty slot with a random digit"},
	{"reset", "Empty the row and reset the operation count"},
	{"next", "Continue to the next level after a win"},
	{"again", "Start a new game at level 1"},
	{"level <n>", "Start level n with a zero score"},
	{"status", "Show the board"},
	{"history", "Show recent operations"},
	{"help", "Show this help"},
	{"quit", "Exit"},
}

func playCmd(a *app) *Command {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.IntP("level", "l", 1, "Level to start at (1-3)")
	fs.Uint64("seed", 0, "Random seed (0 uses the configured seed, or a fresh one)")

	return &Command{
		Flags: fs,
		Usage: "play [flags]",
		Short: "Play the array heist",
		Long: `Play the array heist.

Each level has a secret pattern of digits. Build it in the ten-slot row
with insert and delete, then search for it before the minute runs out.
Inserting shifts the row right and drops the last slot; deleting shifts
it left. Search scans the row from the left and stops at the first match.

Finishing a level awards 100 points plus 10 per remaining second.

Levels:
` + levelsHelp() + `

Commands (in the game):
` + replHelp(),
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %s", errUnexpectedArgs, strings.Join(args, " "))
			}

			level, _ := fs.GetInt("level")
			seed, _ := fs.GetUint64("seed")

			return execPlay(ctx, o, a, level, seed)
		},
	}
}

func levelsHelp() string {
	var b strings.Builder
	for _, l := range workspace.Levels() {
		fmt.Fprintf(&b, "  %d  %s\n", l.Number, l.Description)
	}

	return strings.TrimRight(b.String(), "\n")
}

func replHelp() string {
	var b strings.Builder
	for _, c := range replCommands {
		fmt.Fprintf(&b, "  %-24s %s\n", c.usage, c.short)
	}

	return strings.TrimRight(b.String(), "\n")
}

func execPlay(ctx context.Context, o *IO, a *app, level int, seed uint64) error {
	if _, err := workspace.Level(level); err != nil {
		return err
	}

	if seed == 0 {
		seed = a.cfg.Seed
	}

	if seed == 0 {
		var err error

		seed, err = workspace.NewSeed()
		if err != nil {
			return err
		}
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}

	sess, err := heist.New(heist.Options{
		Source: workspace.NewSource(seed),
		Store:  store,
		Logger: a.log,
	})
	if err != nil {
		return err
	}

	a.log.Info("game started", zap.Uint64("seed", seed), zap.Int("level", level))

	err = sess.Start(level)
	if err != nil {
		return err
	}

	input := newLineReader(o.In(), filepath.Join(a.cfg.DataDirAbs, historyFileName), a.log)
	defer func() { _ = input.Close() }()

	r := &repl{
		ctx:    ctx,
		io:     o,
		sess:   sess,
		render: newRenderer(o.Out()),
		delay:  time.Duration(a.cfg.SearchDelayMS) * time.Millisecond,
		input:  input,
	}

	return r.run()
}

type repl struct {
	ctx    context.Context
	io     *IO
	sess   *heist.Session
	render *renderer
	delay  time.Duration
	input  lineReader
}

func (r *repl) run() error {
	r.io.Println("heist - build the secret pattern, then search for it before time runs out.")
	r.io.Println("Type 'help' for available commands.")
	r.io.Println()
	r.show()

	for {
		if r.ctx.Err() != nil {
			r.io.Println("Bye!")

			return nil
		}

		line, err := r.input.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				r.io.Println("Bye!")

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.input.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		if cmd == "quit" || cmd == "exit" || cmd == "q" {
			r.io.Println("Bye!")

			return nil
		}

		if r.sess.Sync() {
			r.announceTimeout()
		}

		err = r.dispatch(cmd, args)

		switch {
		case errors.Is(err, context.Canceled):
			r.io.Println()
			r.io.Println("Bye!")

			return nil
		case err != nil:
			r.io.ErrPrintln("error:", err)
		}
	}
}

func (r *repl) dispatch(cmd string, args []string) error {
	switch cmd {
	case "help", "?":
		r.io.Println("Commands:")
		r.io.Println(replHelp())

		return nil

	case "insert", "ins", "i":
		return r.insert(args)

	case "delete", "del", "d":
		return r.delete(args)

	case "search", "s":
		return r.search(args)

	case "fill":
		n, err := r.sess.AutoFill()
		if err != nil {
			return err
		}

		if n == 0 {
			r.io.Println("Array is already full")
		} else {
			r.io.Printf("Auto-filled %d positions\n", n)
		}

		r.show()

		return nil

	case "reset":
		if err := r.sess.Reset(); err != nil {
			return err
		}

		r.show()

		return nil

	case "next":
		if err := r.sess.Next(); err != nil {
			return err
		}

		r.show()

		return nil

	case "again", "restart":
		if err := r.sess.Restart(); err != nil {
			return err
		}

		r.show()

		return nil

	case "level":
		n, err := intArgs(args, "level <n>")
		if err != nil {
			return err
		}

		if err := r.sess.Start(n[0]); err != nil {
			return err
		}

		r.show()

		return nil

	case "status":
		r.show()

		return nil

	case "history":
		r.history()

		return nil

	default:
		return fmt.Errorf("%w: %s (type 'help' for commands)", errUnknownCommand, cmd)
	}
}

func (r *repl) insert(args []string) error {
	n, err := intArgs(args, "insert <index> <value>", "index", "value")
	if err != nil {
		return err
	}

	index, value := n[0], n[1]
	if value < 0 || value > workspace.MaxDigit {
		return fmt.Errorf("%w: %d", workspace.ErrInvalidValue, value)
	}

	if err := r.sess.Insert(index, workspace.Digit(value)); err != nil {
		return err
	}

	r.show()

	return nil
}

func (r *repl) delete(args []string) error {
	n, err := intArgs(args, "delete <index>", "index")
	if err != nil {
		return err
	}

	removed, err := r.sess.Delete(n[0])
	if err != nil {
		return err
	}

	r.io.Printf("Removed %d\n", removed)
	r.show()

	return nil
}

func (r *repl) search(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: search <pattern>", errUsage)
	}

	pattern, err := workspace.ParsePattern(strings.Join(args, ""))
	if err != nil {
		return err
	}

	out, err := r.sess.Search(pattern)
	if err != nil {
		return err
	}

	snap := r.sess.Snapshot()
	for i, p := range out.Probes {
		if i > 0 {
			if err := r.wait(); err != nil {
				return err
			}
		}

		r.render.probeStep(snap, p)
	}

	text := workspace.FormatPattern(pattern)
	if !out.Found {
		r.io.Printf("Pattern [%s] not found\n", text)
		r.show()

		return nil
	}

	r.io.Printf("Found pattern [%s] at position %d\n", text, out.Index)

	if !out.LevelComplete {
		r.show()

		return nil
	}

	r.io.Printf("Vault cracked! Level %d done in %ds with %d operations: +%d points\n",
		snap.Level, workspace.LevelSeconds-snap.TimeRemaining, snap.OpsUsed, out.ScoreDelta)
	r.show()

	if r.sess.Phase() == heist.PhaseVictory {
		r.io.Printf("You cracked every vault! Final score: %d (best %d)\n", snap.Score, r.sess.BestScore())
		r.io.Println("Type 'again' to play again.")
	} else {
		r.io.Printf("Type 'next' for level %d or 'again' to start over.\n", snap.Level+1)
	}

	return nil
}

// wait pauses between replayed probes. It returns early with the context
// error when the command is interrupted.
func (r *repl) wait() error {
	if r.delay <= 0 {
		return r.ctx.Err()
	}

	t := time.NewTimer(r.delay)
	defer t.Stop()

	select {
	case <-r.ctx.Done():
		return r.ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *repl) show() {
	r.render.board(r.sess.Snapshot(), r.sess.Mission(), r.sess.BestScore())
}

func (r *repl) history() {
	entries := r.sess.History()
	if len(entries) == 0 {
		r.io.Println("No operations yet")

		return
	}

	for _, e := range entries {
		r.io.Printf("  %s  %s\n", e.At.Format(time.TimeOnly), e.Message)
	}
}

func (r *repl) announceTimeout() {
	snap := r.sess.Snapshot()
	r.io.Printf("Time's up! The vault stays locked. Final score: %d\n", snap.Score)
	r.io.Println("Type 'again' to play again.")
}

// intArgs parses exactly one integer per name. With no names a single
// integer is expected.
func intArgs(args []string, usage string, names ...string) ([]int, error) {
	if len(names) == 0 {
		names = []string{"value"}
	}

	if len(args) != len(names) {
		return nil, fmt.Errorf("%w: %s", errUsage, usage)
	}

	out := make([]int, len(args))

	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number, got %q", errUsage, names[i], arg)
		}

		out[i] = n
	}

	return out, nil
}
