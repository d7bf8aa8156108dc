// pkg/flash_io/context.go

package flash_io

import (
	"context"
	"time"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// RuntimeContext carries everything a component needs for one session:
// cancellation, the session logger, the run log directory, and per-run
// memoized state. It replaces ambient globals so tests can build isolated
// contexts per scenario.
type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Timestamp  time.Time
	LogDir     string
	Command    string
	Attributes map[string]string

	// toolPaths memoizes resolved flashing-tool binaries for the run.
	// The orchestration flow is single-threaded; no locking.
	toolPaths map[string]string

	// interruptHook registers a cleanup with the command's signal
	// handler; set by the CLI wrapper, nil in bare test contexts.
	interruptHook func(func())
}

// NewContext builds a session context around an existing logger.
func NewContext(ctx context.Context, cmdName string, log *zap.Logger, logDir string) *RuntimeContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RuntimeContext{
		Ctx:        ctx,
		Log:        log.Named(cmdName),
		Timestamp:  time.Now(),
		LogDir:     logDir,
		Command:    cmdName,
		Attributes: make(map[string]string),
		toolPaths:  make(map[string]string),
	}
}

// MemoizeTool records the resolved path of an external tool so subsequent
// lookups in the same run are free.
func (rc *RuntimeContext) MemoizeTool(name, path string) {
	rc.toolPaths[name] = path
	rc.Log.Debug("Tool path memoized", zap.String("tool", name), zap.String("path", path))
}

// ResolvedTool returns a previously memoized tool path.
func (rc *RuntimeContext) ResolvedTool(name string) (string, bool) {
	path, ok := rc.toolPaths[name]
	return path, ok
}

// SetInterruptHook wires OnInterrupt registrations into the signal
// handler's cleanup stack.
func (rc *RuntimeContext) SetInterruptHook(hook func(func())) {
	rc.interruptHook = hook
}

// OnInterrupt registers fn to run if the command is interrupted, so
// terminal state like a live spinner is restored before exit.
func (rc *RuntimeContext) OnInterrupt(fn func()) {
	if rc.interruptHook != nil {
		rc.interruptHook(fn)
	}
}

// HandlePanic recovers panics, logs them, and converts them to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = cerr.AssertionFailedf("panic: %v", r)
		rc.Log.Error("Panic recovered", zap.Any("panic", r))
	}
}

// End logs the command outcome and duration. Call with defer from the
// command boundary.
func (rc *RuntimeContext) End(errPtr *error) {
	duration := time.Since(rc.Timestamp)
	if *errPtr == nil {
		rc.Log.Info("Command completed", zap.Duration("duration", duration))
		return
	}
	rc.Log.Error("Command failed",
		zap.Duration("duration", duration),
		zap.Error(*errPtr),
	)
}
