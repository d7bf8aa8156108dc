// pkg/flash_cli/signals.go

package flash_cli

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GaspardD78/bmcuflash/pkg/flash_io"
)

const cleanupTimeout = 5 * time.Second

// SignalHandler shuts a run down cleanly on Ctrl-C: cleanup funcs run
// LIFO (spinner stop before log flush), then the process exits 130. A
// second signal forces exit immediately.
type SignalHandler struct {
	rc      *flash_io.RuntimeContext
	sigChan chan os.Signal

	mu       sync.Mutex
	cleanups []func()
	stopped  bool
}

func NewSignalHandler(rc *flash_io.RuntimeContext) *SignalHandler {
	return &SignalHandler{
		rc:      rc,
		sigChan: make(chan os.Signal, 2),
	}
}

// Start installs the handler. Stop must be called when the command
// finishes normally.
func (h *SignalHandler) Start() {
	signal.Notify(h.sigChan, os.Interrupt, syscall.SIGTERM)
	go h.wait()
}

// AddCleanup registers a function to run on interrupt, in reverse
// registration order.
func (h *SignalHandler) AddCleanup(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanups = append(h.cleanups, fn)
}

func (h *SignalHandler) wait() {
	sig, ok := <-h.sigChan
	if !ok {
		return
	}
	h.rc.Log.Warn("Interrupt received, cleaning up", zap.String("signal", sig.String()))
	fmt.Fprintf(os.Stderr, "\nReceived %v, cleaning up...\n", sig)

	go func() {
		if _, ok := <-h.sigChan; ok {
			fmt.Fprintln(os.Stderr, "Second interrupt, forcing exit")
			os.Exit(1)
		}
	}()

	h.runCleanups()
	os.Exit(130)
}

func (h *SignalHandler) runCleanups() {
	h.mu.Lock()
	cleanups := make([]func(), len(h.cleanups))
	copy(cleanups, h.cleanups)
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(cleanupTimeout):
		fmt.Fprintln(os.Stderr, "Cleanup timed out")
	}
}

// Stop uninstalls the handler after a normal finish.
func (h *SignalHandler) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	signal.Stop(h.sigChan)
	close(h.sigChan)
}
