// Package logging builds the zap logger used for diagnostics.
//
// Diagnostics are separate from command output: commands write results
// through cli.IO, while the logger traces engine and storage activity on
// stderr when log_level is not "off".
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to w at the given level.
// Level "off" returns a no-op logger.
func New(level string, w io.Writer) (*zap.Logger, error) {
	if level == "off" || level == "" {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(lvl),
	)

	return zap.New(core), nil
}
