// pkg/checks/registry.go

// Package checks records which host commands the pipeline found or
// missed during preflight, so the doctor command and failure output can
// report a consistent picture.
package checks

import (
	"os/exec"
	"sort"
	"sync"
)

// Status describes the outcome of a single command probe.
type Status int

const (
	StatusSuccess Status = iota
	StatusMissing
)

// CommandResult is one recorded probe.
type CommandResult struct {
	Command  string
	Required bool
	Status   Status
	Detail   string
}

// severity orders results so a required-missing record is never
// overwritten by a later optional or successful probe of the same command.
func (r CommandResult) severity() int {
	switch {
	case r.Required && r.Status == StatusMissing:
		return 3
	case r.Status == StatusMissing:
		return 2
	case r.Required:
		return 1
	default:
		return 0
	}
}

// Registry accumulates probe results across the run.
type Registry struct {
	mu      sync.Mutex
	results map[string]CommandResult
}

func NewRegistry() *Registry {
	return &Registry{results: make(map[string]CommandResult)}
}

// Record stores a result, keeping the more severe record when the same
// command is probed more than once.
func (reg *Registry) Record(result CommandResult) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	existing, ok := reg.results[result.Command]
	if ok && existing.severity() > result.severity() {
		return
	}
	reg.results[result.Command] = result
}

// Probe looks a command up on PATH and records the outcome.
func (reg *Registry) Probe(command string, required bool) CommandResult {
	result := CommandResult{Command: command, Required: required}
	path, err := exec.LookPath(command)
	if err != nil {
		result.Status = StatusMissing
	} else {
		result.Status = StatusSuccess
		result.Detail = path
	}
	reg.Record(result)
	return result
}

// Results returns the recorded probes sorted by command name.
func (reg *Registry) Results() []CommandResult {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	out := make([]CommandResult, 0, len(reg.results))
	for _, r := range reg.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Command < out[j].Command })
	return out
}

// MissingRequired reports the required commands that were not found.
func (reg *Registry) MissingRequired() []string {
	var missing []string
	for _, r := range reg.Results() {
		if r.Required && r.Status == StatusMissing {
			missing = append(missing, r.Command)
		}
	}
	return missing
}
