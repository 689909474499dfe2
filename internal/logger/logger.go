// Package logger builds named zap loggers that tee every record to the
// console and to logs/<name>.log, each sink filtered at its own level.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls the two sinks of a named logger.
type Options struct {
	// ConsoleLevel filters the stderr sink. Defaults to LOG_CONSOLE_LEVEL or info.
	ConsoleLevel zapcore.Level
	// FileLevel filters the logs/<name>.log sink. Defaults to LOG_FILE_LEVEL or debug.
	FileLevel zapcore.Level
	// Dir is the log file directory. Defaults to "logs".
	Dir string
	// Development switches the console encoder to the human-readable form.
	Development bool
}

var (
	mu      sync.Mutex
	loggers = make(map[string]*zap.Logger)
)

// New returns the named logger, creating it on first use. Loggers are cached
// per name so repeated calls share the same file handle.
func New(name string, opts Options) (*zap.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[name]; ok {
		return l, nil
	}

	if opts.Dir == "" {
		opts.Dir = "logs"
	}
	if err := os.MkdirAll(opts.Dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(
		filepath.Join(opts.Dir, name+".log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	consoleEnc := zapcore.NewConsoleEncoder(consoleEncoderConfig(opts.Development))
	fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), opts.ConsoleLevel),
		zapcore.NewCore(fileEnc, zapcore.AddSync(logFile), opts.FileLevel),
	)

	l := zap.New(core, zap.AddCaller()).Named(name)
	loggers[name] = l
	return l, nil
}

// MustNew is New but panics on failure. Used at process startup.
func MustNew(name string) *zap.Logger {
	l, err := New(name, DefaultOptions())
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return l
}

// DefaultOptions reads sink levels from LOG_CONSOLE_LEVEL and LOG_FILE_LEVEL
// and the file directory from LOG_DIR. The file sink defaults to debug so it
// captures what the console drops.
func DefaultOptions() Options {
	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = "logs"
	}
	return Options{
		ConsoleLevel: levelFromEnv("LOG_CONSOLE_LEVEL", zapcore.InfoLevel),
		FileLevel:    levelFromEnv("LOG_FILE_LEVEL", zapcore.DebugLevel),
		Dir:          dir,
		Development:  os.Getenv("ENVIRONMENT") != "production",
	}
}

func consoleEncoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg
	}
	return zap.NewProductionEncoderConfig()
}

func levelFromEnv(key string, fallback zapcore.Level) zapcore.Level {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var lvl zapcore.Level
	if err := lvl.Set(raw); err != nil {
		return fallback
	}
	return lvl
}
