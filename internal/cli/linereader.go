package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	"go.uber.org/zap"
)

// lineReader reads REPL input one line at a time.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// newLineReader returns a liner-backed reader with persistent history when
// in is an interactive stdin, and a plain line scanner otherwise.
func newLineReader(in io.Reader, historyPath string, log *zap.Logger) lineReader {
	if f, ok := in.(*os.File); ok && f == os.Stdin && isTerminal(f) {
		return newLinerReader(historyPath, log)
	}

	if in == nil {
		in = strings.NewReader("")
	}

	return &scanReader{scanner: bufio.NewScanner(in)}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

type scanReader struct {
	scanner *bufio.Scanner
}

func (s *scanReader) Prompt(string) (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}

	if err := s.scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (*scanReader) AppendHistory(string) {}

func (*scanReader) Close() error { return nil }

type linerReader struct {
	state       *liner.State
	historyPath string
	log         *zap.Logger
}

func newLinerReader(historyPath string, log *zap.Logger) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completeCommand)

	f, err := os.Open(historyPath)
	switch {
	case err == nil:
		if _, err := state.ReadHistory(f); err != nil {
			log.Debug("reading history failed", zap.Error(err))
		}

		_ = f.Close()
	case !errors.Is(err, fs.ErrNotExist):
		log.Debug("opening history failed", zap.Error(err))
	}

	return &linerReader{state: state, historyPath: historyPath, log: log}
}

func (l *linerReader) Prompt(prompt string) (string, error) {
	return l.state.Prompt(prompt)
}

func (l *linerReader) AppendHistory(line string) {
	l.state.AppendHistory(line)
}

// Close saves the history and restores the terminal.
func (l *linerReader) Close() error {
	var buf bytes.Buffer
	if _, err := l.state.WriteHistory(&buf); err == nil {
		if err := atomic.WriteFile(l.historyPath, &buf); err != nil {
			l.log.Debug("saving history failed", zap.Error(err))
		}
	}

	return l.state.Close()
}

// completeCommand offers REPL command names matching the typed prefix.
func completeCommand(line string) []string {
	var completions []string

	lower := strings.ToLower(line)
	for _, c := range replCommands {
		name, _, _ := strings.Cut(c.usage, " ")
		if strings.HasPrefix(name, lower) {
			completions = append(completions, name)
		}
	}

	return completions
}
