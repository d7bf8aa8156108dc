/* pkg/logger/config.go */

package logger

import (
	"os"
	"path/filepath"
	"time"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Options controls console rendering and where the run log lands.
type Options struct {
	// LogRoot is the directory that receives one subdirectory per run.
	LogRoot string
	// NoColor disables ANSI styling even on a terminal.
	NoColor bool
	// Quiet suppresses console output below error level.
	Quiet bool
	// Timestamp names the run directory; zero means now.
	Timestamp time.Time
}

const runLogName = "debug.log"

// New builds the session logger: a file core writing
// `<LogRoot>/<timestamp>/debug.log` (parent directories created) plus a
// console core on stderr. It returns the logger, the run directory, and a
// close function that flushes and releases the log file.
func New(opts Options) (*zap.Logger, string, func(), error) {
	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	runDir := filepath.Join(opts.LogRoot, ts.Format("20060102_150405"))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, "", nil, cerr.Wrapf(err, "create log directory %s", runDir)
	}

	logFile, err := os.OpenFile(filepath.Join(runDir, runLogName),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", nil, cerr.Wrapf(err, "open run log in %s", runDir)
	}

	colour := !opts.NoColor && term.IsTerminal(int(os.Stderr.Fd()))
	core := zapcore.NewTee(
		newFileCore(logFile),
		newConsoleCore(os.Stderr, colour, opts.Quiet),
	)
	log := zap.New(core)

	closer := func() {
		_ = log.Sync()
		_ = logFile.Close()
	}
	return log, runDir, closer, nil
}

// NewTest returns a logger rendering only to the given writer in the run-log
// line format, for tests that assert on output.
func NewTest(w interface {
	Write(p []byte) (int, error)
},
) *zap.Logger {
	return zap.New(newFileCore(w))
}

// Success logs an operator-facing success line. Success is an info-level
// event with a check mark prefix so the console and log file stay one
// format.
func Success(log *zap.Logger, msg string, fields ...zap.Field) {
	log.Info("✓ "+msg, fields...)
}
