// pkg/ui/spinner.go

package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 100 * time.Millisecond

// Spinner renders an activity indicator on stderr while a long step runs.
// On a non-terminal stream it prints the label once and stays silent.
type Spinner struct {
	label    string
	out      io.Writer
	animated bool

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// NewSpinner starts a spinner for the given label. Stop must be called
// when the step finishes; calling it more than once is safe.
func NewSpinner(label string) *Spinner {
	return startSpinner(label, os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

func startSpinner(label string, out io.Writer, animated bool) *Spinner {
	s := &Spinner{
		label:    label,
		out:      out,
		animated: animated,
		done:     make(chan struct{}),
	}
	if !animated {
		fmt.Fprintf(out, "%s...\n", label)
		return s
	}
	go s.run()
	return s
}

func (s *Spinner) run() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	frame := 0
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.stopped {
				fmt.Fprintf(s.out, "\r%s %s", spinnerFrames[frame%len(spinnerFrames)], s.label)
			}
			s.mu.Unlock()
			frame++
		}
	}
}

// Stop halts the animation and clears the spinner line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.animated {
		close(s.done)
		fmt.Fprintf(s.out, "\r%*s\r", len(s.label)+2, "")
	}
}
