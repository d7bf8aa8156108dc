// pkg/interaction/interaction_test.go

package interaction

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
)

func TestReadLineTrims(t *testing.T) {
	r := NewReader(strings.NewReader("  hello  \n"), &bytes.Buffer{})
	got, err := r.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestReadLineEOFIsStopRequested(t *testing.T) {
	r := NewReader(strings.NewReader(""), &bytes.Buffer{})
	_, err := r.ReadLine("> ")
	require.Error(t, err)
	assert.True(t, flash_err.IsStopRequested(err))
}

func TestPromptWithDefault(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty takes default", input: "\n", want: "115200"},
		{name: "explicit value wins", input: "460800\n", want: "460800"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := r.PromptWithDefault("Baud rate", "115200")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptSelectRetriesOnInvalid(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewReader(strings.NewReader("banana\n7\n2\n"), out)
	idx, err := r.PromptSelect("Pick a method:", []string{"wchisp", "dfu", "serial"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "Invalid input")
	assert.Contains(t, out.String(), "1) wchisp")
}

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "no", input: "no\n", defaultYes: true, want: false},
		{name: "empty takes default yes", input: "\n", defaultYes: true, want: true},
		{name: "empty takes default no", input: "\n", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := r.PromptYesNo("Proceed?", tt.defaultYes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunPromptLoopStopsOnEOF(t *testing.T) {
	r := NewReader(strings.NewReader("\n\n"), &bytes.Buffer{})
	_, err := RunPromptLoop(r, "> ", NonEmpty("port"))
	require.Error(t, err)
	assert.True(t, flash_err.IsStopRequested(err))
}

func TestRunPromptLoopAcceptsAfterRetry(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewReader(strings.NewReader("\n/dev/ttyUSB0\n"), out)
	got, err := RunPromptLoop(r, "Port: ", NonEmpty("port"))
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", got)
	assert.Contains(t, out.String(), "port must not be empty")
}
