// Package logger holds the process-wide structured logger.
//
// Stdout carries the MCP protocol stream, so every core writes to stderr.
// Until Initialize is called the logger discards everything, which keeps the
// library packages silent when they are used outside the server binary.
package logger

import (
	"os"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	current    atomic.Pointer[zap.SugaredLogger]
	jsonOutput atomic.Bool
)

func init() {
	current.Store(zap.NewNop().Sugar())
}

// L returns the global logger. It is never nil and is safe to call while
// Initialize runs on another goroutine.
func L() *zap.SugaredLogger { return current.Load() }

// JSONOutput reports whether the last Initialize selected JSON encoding.
func JSONOutput() bool { return jsonOutput.Load() }

// Options selects the encoder and minimum level.
type Options struct {
	Level string
	JSON  bool
}

// Initialize replaces the global logger according to opts.
func Initialize(opts Options) error {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return errors.Wrapf(err, "invalid log level %q", opts.Level)
		}
	}

	var zapLogger *zap.Logger
	if opts.JSON {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}

		var err error
		zapLogger, err = cfg.Build()
		if err != nil {
			return errors.Wrap(err, "build json logger")
		}
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zapLogger = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	jsonOutput.Store(opts.JSON)
	current.Store(zapLogger.Sugar())
	return nil
}

// Named returns a child of the global logger scoped to a component.
func Named(name string) *zap.SugaredLogger {
	return L().Named(name)
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = L().Sync()
}
