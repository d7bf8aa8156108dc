// pkg/wchisp/verify_test.go

package wchisp

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
)

func writeArchiveFixture(t *testing.T, content []byte) (path, checksum string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "wchisp-v0.3.0-linux-x64.tar.gz")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	sum := sha256.Sum256(content)
	return path, hex.EncodeToString(sum[:])
}

func TestVerifyArchiveMatch(t *testing.T) {
	path, sum := writeArchiveFixture(t, []byte("archive-bytes"))
	err := VerifyArchive(zap.NewNop(), "asset.tar.gz", path, sum, VerifyOptions{})
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestVerifyArchiveMismatchDeletesArchive(t *testing.T) {
	path, _ := writeArchiveFixture(t, []byte("archive-bytes"))
	err := VerifyArchive(zap.NewNop(), "asset.tar.gz", path,
		"0000000000000000000000000000000000000000000000000000000000000000", VerifyOptions{})
	require.Error(t, err)
	assert.Equal(t, flash_err.CategoryChecksumMismatch, flash_err.CategoryOf(err))
	assert.NoFileExists(t, path)
}

func TestVerifyArchiveDegradedKeepsArchive(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	path, _ := writeArchiveFixture(t, []byte("archive-bytes"))

	err := VerifyArchive(zap.New(core), "asset.tar.gz", path,
		"0000000000000000000000000000000000000000000000000000000000000000",
		VerifyOptions{AllowUnverified: true})
	require.NoError(t, err)
	assert.FileExists(t, path)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1, "degraded mode warns exactly once")
	assert.Contains(t, warnings[0].Message, "ALLOW_UNVERIFIED_WCHISP")
}


func TestVerifyArchiveOverrideTakesPrecedence(t *testing.T) {
	path, sum := writeArchiveFixture(t, []byte("archive-bytes"))
	err := VerifyArchive(zap.NewNop(), "asset.tar.gz", path,
		"0000000000000000000000000000000000000000000000000000000000000000",
		VerifyOptions{OverrideChecksum: sum})
	require.NoError(t, err)
}

func TestVerifyArchiveNoExpectedChecksumHardFails(t *testing.T) {
	path, _ := writeArchiveFixture(t, []byte("archive-bytes"))
	err := VerifyArchive(zap.NewNop(), "asset.tar.gz", path, "", VerifyOptions{})
	require.Error(t, err)
	assert.Equal(t, flash_err.CategoryChecksumMismatch, flash_err.CategoryOf(err))
}

func TestVerifyArchiveNoExpectedChecksumDegraded(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	path, _ := writeArchiveFixture(t, []byte("archive-bytes"))

	err := VerifyArchive(zap.New(core), "asset.tar.gz", path, "",
		VerifyOptions{AllowUnverified: true})
	require.NoError(t, err)
	require.Len(t, logs.FilterLevelExact(zapcore.WarnLevel).All(), 1,
		"degraded mode warns exactly once")
}
