package flash_err

import (
	"fmt"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     int
	}{
		{"general", CategoryGeneral, 1},
		{"invalid_parameter", CategoryInvalidParameter, 2},
		{"internal", CategoryInternal, 3},
		{"firmware_not_found", CategoryFirmwareNotFound, 10},
		{"tool_unavailable", CategoryToolUnavailable, 11},
		{"unsupported_architecture", CategoryUnsupportedArchitecture, 12},
		{"checksum_mismatch", CategoryChecksumMismatch, 13},
		{"manifest_lookup_failed", CategoryManifestLookupFailed, 14},
		{"no_usable_method", CategoryNoUsableMethod, 15},
		{"flash_subprocess_failed", CategoryFlashSubprocessFailed, 16},
		{"stop_requested", CategoryStopRequested, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.category, "boom")
			assert.Equal(t, tt.want, err.ExitCode())
			assert.Equal(t, tt.want, GetExitCode(err))
		})
	}
}

func TestGetExitCodeUnclassified(t *testing.T) {
	assert.Equal(t, 0, GetExitCode(nil))
	assert.Equal(t, 1, GetExitCode(fmt.Errorf("plain")))
}

func TestCategorySurvivesWrapping(t *testing.T) {
	inner := New(CategoryChecksumMismatch, "archive digest does not match",
		"re-run the download, or set ALLOW_UNVERIFIED_WCHISP=true to proceed unverified")
	wrapped := cerr.Wrap(inner, "bootstrap failed")

	assert.Equal(t, CategoryChecksumMismatch, CategoryOf(wrapped))
	assert.Equal(t, 13, GetExitCode(wrapped))

	rem := RemediationOf(wrapped)
	require.Len(t, rem, 1)
	assert.Contains(t, rem[0], "ALLOW_UNVERIFIED_WCHISP")
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(fmt.Errorf("connection refused"), CategoryToolUnavailable, "wchisp download failed")
	assert.Contains(t, err.Error(), "wchisp download failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsStopRequested(t *testing.T) {
	assert.True(t, IsStopRequested(StopRequested("method prompt")))
	assert.False(t, IsStopRequested(New(CategoryGeneral, "x")))
	assert.False(t, IsStopRequested(nil))
}
