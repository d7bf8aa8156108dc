// pkg/ui/ui_test.go

package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerNonTerminalPrintsOnce(t *testing.T) {
	out := &bytes.Buffer{}
	s := startSpinner("Downloading wchisp", out, false)
	s.Stop()
	s.Stop()
	assert.Equal(t, "Downloading wchisp...\n", out.String())
}

func TestSpinnerStopIdempotent(t *testing.T) {
	out := &bytes.Buffer{}
	s := startSpinner("Flashing", out, true)
	s.Stop()
	assert.NotPanics(t, func() { s.Stop() })
}

func TestRenderTableAlignment(t *testing.T) {
	out := &bytes.Buffer{}
	rows := []Row{
		{Label: "wchisp", OK: true, Detail: "/usr/local/bin/wchisp"},
		{Label: "dfu-util", OK: false},
		{Label: "tar", OK: false, Warn: true, Detail: "optional"},
	}
	RenderTable(out, rows, false)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "✓ wchisp")
	assert.Contains(t, lines[1], "✗ dfu-util")
	assert.Contains(t, lines[2], "! tar")
	// labels padded to the widest entry
	assert.Contains(t, lines[0], "wchisp    /usr/local/bin/wchisp")
}

func TestBannerPlain(t *testing.T) {
	out := &bytes.Buffer{}
	Banner(out, "Preflight", false)
	assert.Equal(t, "Preflight\n─────────\n", out.String())
}
