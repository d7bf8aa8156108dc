// pkg/execute/execute.go

package execute

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Run executes a command, streaming combined output to the console and to
// the session log synchronously. Shell interpretation is never used; the
// command and arguments are passed verbatim.
func Run(ctx context.Context, opts Options) (string, error) {
	cmdStr := buildCommandString(opts.Command, opts.Args...)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithTimeout(ctx, defaultTimeout(opts.Timeout))
	defer cancel()

	if opts.DryRun {
		logger.Info("Dry run - command not executed", zap.String("command", cmdStr))
		return "", nil
	}

	logger.Debug("Starting execution", zap.String("command", cmdStr))

	cmd := exec.CommandContext(runCtx, opts.Command, opts.Args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	var buf bytes.Buffer
	lw := newLineWriter(logger, zapcore.DebugLevel)
	sinks := []io.Writer{&buf, lw}
	if !opts.Quiet {
		sinks = append(sinks, os.Stdout)
	}
	writer := io.MultiWriter(sinks...)
	cmd.Stdout = writer
	cmd.Stderr = writer

	err := cmd.Run()
	lw.Flush()
	output := buf.String()

	if err != nil {
		logger.Error("Execution failed",
			zap.String("command", cmdStr),
			zap.String("summary", Tail(output, 2)),
			zap.Error(err),
		)
		return output, cerr.Wrapf(err, "command %q failed", opts.Command)
	}

	logger.Debug("Execution succeeded", zap.String("command", cmdStr))
	if opts.Capture {
		return output, nil
	}
	return "", nil
}

// CaptureOutput runs a command quietly and returns its combined output.
func CaptureOutput(ctx context.Context, logger *zap.Logger, cmd string, args ...string) (string, error) {
	out, err := Run(ctx, Options{
		Command: cmd,
		Args:    args,
		Logger:  logger,
		Capture: true,
		Quiet:   true,
	})
	return strings.TrimSpace(out), err
}

// lineWriter forwards subprocess output to the session log one line at a
// time, so the run log file keeps the same event-per-line shape as the rest
// of the output.
type lineWriter struct {
	logger  *zap.Logger
	level   zapcore.Level
	partial []byte
}

func newLineWriter(logger *zap.Logger, level zapcore.Level) *lineWriter {
	return &lineWriter{logger: logger, level: level}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.partial = append(w.partial, p...)
	for {
		idx := bytes.IndexByte(w.partial, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimRight(string(w.partial[:idx]), "\r")
		w.partial = w.partial[idx+1:]
		if line != "" {
			w.logger.Log(w.level, ">> "+line)
		}
	}
	return len(p), nil
}

// Flush emits a final unterminated line once the subprocess is done, so
// output that ends without a newline still reaches the log.
func (w *lineWriter) Flush() {
	line := strings.TrimRight(string(w.partial), "\r")
	w.partial = nil
	if line != "" {
		w.logger.Log(w.level, ">> "+line)
	}
}
