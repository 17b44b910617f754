// Package logging builds zap loggers whose levels come from the environment.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var root = func() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stderr),
		zap.DebugLevel,
	)
	return zap.New(core)
}()

// New returns a logger named after pkg, writing JSON lines to stderr.
// Packages keep one at package level, next to the package doc comment.
func New(pkg string) *zap.Logger {
	return root.Named(pkg).
		WithOptions(zap.IncreaseLevel(zap.NewAtomicLevelAt(ParseLevel(GetLevel(pkg)))))
}

// GetLevel returns the first letter of the level configured for pkg, or 0 if unset.
// MICROBENCH_LOG_<pkg> takes precedence over MICROBENCH_LOG.
func GetLevel(pkg string) rune {
	lvl, ok := os.LookupEnv("MICROBENCH_LOG_" + pkg)
	if !ok {
		lvl, ok = os.LookupEnv("MICROBENCH_LOG")
	}
	if !ok || len(lvl) == 0 {
		return 0
	}
	return rune(lvl[0])
}

// ParseLevel converts a level letter to zap level.
// Unrecognized letters select warning level.
func ParseLevel(lvl rune) zapcore.Level {
	switch lvl {
	case 'V', 'D', 'v', 'd':
		return zapcore.DebugLevel
	case 'I', 'i':
		return zapcore.InfoLevel
	case 'W', 'w':
		return zapcore.WarnLevel
	case 'E', 'e':
		return zapcore.ErrorLevel
	case 'F', 'N', 'f', 'n':
		return zapcore.DPanicLevel
	}
	return zapcore.WarnLevel
}
