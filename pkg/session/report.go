// pkg/session/report.go

package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	cerr "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Outcome is the terminal state of a flash session.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Report is the single record a session produces: what was flashed, how,
// and how it ended. It is rendered once on the console and serialized as
// report.yaml next to the run log.
type Report struct {
	Outcome         Outcome   `yaml:"outcome"`
	Method          string    `yaml:"method,omitempty"`
	MethodRationale []string  `yaml:"method_rationale,omitempty"`
	FirmwarePath    string    `yaml:"firmware_path,omitempty"`
	FirmwareSize    int64     `yaml:"firmware_size,omitempty"`
	FirmwareSHA256  string    `yaml:"firmware_sha256,omitempty"`
	Command         string    `yaml:"command,omitempty"`
	DryRun          bool      `yaml:"dry_run"`
	StartedAt       time.Time `yaml:"started_at"`
	FinishedAt      time.Time `yaml:"finished_at"`
	Duration        string    `yaml:"duration"`
	Error           string    `yaml:"error,omitempty"`
	Remediation     []string  `yaml:"remediation,omitempty"`
	OutputTail      []string  `yaml:"output_tail,omitempty"`

	// Err carries the classified failure for exit-code mapping; it is
	// not serialized.
	Err error `yaml:"-"`
}

func (r *Report) finish(outcome Outcome) {
	r.Outcome = outcome
	r.FinishedAt = time.Now()
	r.Duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}

var (
	reportOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	reportFail = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	reportKey  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render writes the operator-facing summary.
func (r *Report) Render(w io.Writer, colour bool) {
	headline := "FLASH FAILED"
	style := reportFail
	if r.Outcome == OutcomeSucceeded {
		headline = "FLASH SUCCEEDED"
		style = reportOK
	}
	if r.DryRun {
		headline += " (dry run)"
	}
	if colour {
		headline = style.Render(headline)
	}
	fmt.Fprintf(w, "\n%s\n", headline)

	row := func(key, value string) {
		if value == "" {
			return
		}
		if colour {
			key = reportKey.Render(key)
		}
		fmt.Fprintf(w, "  %-10s %s\n", key, value)
	}
	row("method", r.Method)
	row("firmware", r.FirmwarePath)
	if r.FirmwareSize > 0 {
		row("size", fmt.Sprintf("%d bytes", r.FirmwareSize))
	}
	row("sha256", r.FirmwareSHA256)
	row("command", r.Command)
	row("duration", r.Duration)

	if r.Error != "" {
		fmt.Fprintf(w, "\n  %s\n", r.Error)
		for _, line := range r.Remediation {
			fmt.Fprintf(w, "    - %s\n", line)
		}
	}
	if len(r.OutputTail) > 0 {
		fmt.Fprintf(w, "\n  last output:\n")
		for _, line := range r.OutputTail {
			fmt.Fprintf(w, "    %s\n", strings.TrimRight(line, "\n"))
		}
	}
}

// WriteYAML serializes the report next to the run log.
func (r *Report) WriteYAML(runDir string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return cerr.Wrap(err, "encoding report")
	}
	path := filepath.Join(runDir, "report.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cerr.Wrapf(err, "writing %s", path)
	}
	return nil
}
