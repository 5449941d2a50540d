// Package logging initializes the zap logger used for diagnostics.
// Operator-facing progress output goes to stdout through the ui
// package; this logger carries the verbose plumbing details.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Verbose lowers the level to debug and
// keeps caller annotations; otherwise only warnings and errors surface.
func New(verbose bool) (*zap.SugaredLogger, error) {
	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		config.DisableCaller = true
	}
	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
