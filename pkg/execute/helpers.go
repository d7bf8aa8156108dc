// pkg/execute/helpers.go

package execute

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Options configures a single subprocess invocation.
type Options struct {
	Logger  *zap.Logger
	Command string
	Dir     string
	Args    []string
	Timeout time.Duration
	Capture bool
	DryRun  bool
	// Quiet keeps output off the console; it still reaches the log.
	Quiet bool
}

const flashTimeout = 30 * time.Minute

func defaultTimeout(t time.Duration) time.Duration {
	if t > 0 {
		return t
	}
	return flashTimeout
}

func buildCommandString(command string, args ...string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}

// Tail returns the last n non-empty lines of output, for failure diagnosis.
func Tail(output string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "\n")
}

// TailLines is Tail returning the lines individually, for the session report.
func TailLines(output string, n int) []string {
	tail := Tail(output, n)
	if tail == "" {
		return nil
	}
	return strings.Split(tail, "\n")
}
