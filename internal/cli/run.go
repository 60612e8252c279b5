// Package cli implements the heist command line: global flag handling,
// configuration loading and command dispatch.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/calvinalkan/heist/internal/config"
	"github.com/calvinalkan/heist/internal/kv"
	"github.com/calvinalkan/heist/internal/logging"

	flag "github.com/spf13/pflag"
)

var (
	errUnknownCommand    = errors.New("unknown command")
	errMissingSubcommand = errors.New("missing subcommand")
	errUnexpectedArgs    = errors.New("unexpected arguments")
)

// app is the state shared by all commands. cfg and log are set after the
// global flags are parsed and the configuration is loaded.
type app struct {
	cfg config.Config
	log *zap.Logger
}

func (a *app) openStore() (*kv.Store, error) {
	return kv.Open(a.cfg.DataDirAbs)
}

func allCommands(a *app) []*Command {
	cmds := []*Command{playCmd(a)}
	cmds = append(cmds, todoCmds(a)...)
	cmds = append(cmds, printConfigCmd(a))

	return cmds
}

// Run is the main entry point. Returns exit code.
//
// Interrupt signals received on sigCh cancel the command's context. sigCh
// may be nil.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	a := &app{log: zap.NewNop()}
	cmds := allCommands(a)

	globalFlags := flag.NewFlagSet("heist", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.SetOutput(&strings.Builder{})

	workDir := globalFlags.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globalFlags.StringP("config", "c", "", "Use specified config `file`")
	dataDir := globalFlags.String("data-dir", "", "Override the data `dir`")
	searchDelay := globalFlags.Int("search-delay-ms", 0, "Override the search replay delay in `ms`")
	seed := globalFlags.Uint64("seed", 0, "Override the random `seed`")
	help := globalFlags.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	if err := globalFlags.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, cmds)

		return 1
	}

	rest := globalFlags.Args()
	if *help || len(rest) == 0 {
		printUsage(out, cmds)

		return 0
	}

	var overrides config.Overrides
	if globalFlags.Changed("data-dir") {
		overrides.DataDir = dataDir
	}

	if globalFlags.Changed("search-delay-ms") {
		overrides.SearchDelayMS = searchDelay
	}

	if globalFlags.Changed("seed") {
		overrides.Seed = seed
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		Overrides:       overrides,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	logger, err := logging.New(cfg.LogLevel, errOut)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = logger.Sync() }()

	a.cfg = cfg
	a.log = logger

	cmd, cmdArgs, err := lookup(cmds, rest)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, cmds)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case sig := <-sigCh:
				logger.Debug("signal received", zap.Stringer("signal", sig))
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	logger.Debug("running command", zap.String("command", cmd.Name()), zap.Strings("args", cmdArgs))

	return cmd.Run(ctx, NewIO(in, out, errOut), cmdArgs)
}

// lookup finds the command named by the leading words of args. Two-word
// names ("todo add") take precedence over one-word names.
func lookup(cmds []*Command, args []string) (*Command, []string, error) {
	byName := make(map[string]*Command, len(cmds))
	groups := make(map[string]bool)

	for _, c := range cmds {
		name := c.Name()
		byName[name] = c

		if group, _, ok := strings.Cut(name, " "); ok {
			groups[group] = true
		}
	}

	if len(args) >= 2 {
		if c, ok := byName[args[0]+" "+args[1]]; ok {
			return c, args[2:], nil
		}
	}

	if c, ok := byName[args[0]]; ok {
		return c, args[1:], nil
	}

	if groups[args[0]] {
		if len(args) == 1 {
			return nil, nil, fmt.Errorf("%w for %s", errMissingSubcommand, args[0])
		}

		return nil, nil, fmt.Errorf("%w: %s %s", errUnknownCommand, args[0], args[1])
	}

	return nil, nil, fmt.Errorf("%w: %s", errUnknownCommand, args[0])
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, cmds []*Command) {
	fprintln(w, `heist - array heist puzzle and todo list

Usage: heist [options] <command> [args]

Options:
  -C, --cwd <dir>               Run as if started in <dir>
  -c, --config <file>           Use specified config file
      --data-dir <dir>          Override the data directory
      --search-delay-ms <ms>    Override the search replay delay
      --seed <n>                Override the random seed (0 = fresh)
  -h, --help                    Show help

Commands:`)

	for _, c := range cmds {
		fprintln(w, c.HelpLine())
	}
}
