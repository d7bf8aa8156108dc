// pkg/wchisp/manifest_test.go

package wchisp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wchisp_checksums.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLookupChecksumSkipsCommentsAndBlanks(t *testing.T) {
	path := writeManifest(t, `# wchisp release checksums

aaaa1111  wchisp-v0.2.0-linux-x64.tar.gz
BBBB2222  wchisp-v0.3.0-linux-x64.tar.gz
`)
	sum, err := LookupChecksum(path, "wchisp-v0.3.0-linux-x64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "bbbb2222", sum)
}

func TestLookupChecksumFirstMatchWins(t *testing.T) {
	path := writeManifest(t, `1111  wchisp-v0.3.0-linux-x64.tar.gz
2222  wchisp-v0.3.0-linux-x64.tar.gz
`)
	sum, err := LookupChecksum(path, "wchisp-v0.3.0-linux-x64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "1111", sum)
}

func TestLookupChecksumMissingEntry(t *testing.T) {
	path := writeManifest(t, "aaaa  some-other-asset.tar.gz\n")
	_, err := LookupChecksum(path, "wchisp-v0.3.0-linux-x64.tar.gz")
	require.Error(t, err)
	assert.Equal(t, flash_err.CategoryManifestLookupFailed, flash_err.CategoryOf(err))
}

func TestLookupChecksumMissingFile(t *testing.T) {
	_, err := LookupChecksum(filepath.Join(t.TempDir(), "absent.txt"), "x.tar.gz")
	require.Error(t, err)
	assert.Equal(t, flash_err.CategoryManifestLookupFailed, flash_err.CategoryOf(err))
}

func TestLookupChecksumSkipsMalformedLines(t *testing.T) {
	path := writeManifest(t, `malformed-line-without-asset
cccc3333  wchisp-v0.3.0-linux-aarch64.tar.gz
`)
	sum, err := LookupChecksum(path, "wchisp-v0.3.0-linux-aarch64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "cccc3333", sum)
}
