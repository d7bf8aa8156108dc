// pkg/wchisp/plan_test.go

package wchisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GaspardD78/bmcuflash/pkg/config"
	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
)

func baseWchispConfig() config.WchispConfig {
	return config.WchispConfig{
		Command:     "wchisp",
		AutoInstall: true,
		Release:     "v0.3.0",
		BaseURL:     "https://github.com/ch32-rs/wchisp/releases/download",
	}
}

func TestResolveDownloadOfficialAsset(t *testing.T) {
	plan, err := ResolveDownload(zap.NewNop(), baseWchispConfig(), "amd64")
	require.NoError(t, err)
	assert.Equal(t, "wchisp-v0.3.0-linux-x64.tar.gz", plan.AssetName)
	assert.Equal(t,
		"https://github.com/ch32-rs/wchisp/releases/download/v0.3.0/wchisp-v0.3.0-linux-x64.tar.gz",
		plan.URL)
	assert.False(t, plan.Fallback)
}

func TestResolveDownloadAarch64(t *testing.T) {
	plan, err := ResolveDownload(zap.NewNop(), baseWchispConfig(), "arm64")
	require.NoError(t, err)
	assert.Equal(t, "wchisp-v0.3.0-linux-aarch64.tar.gz", plan.AssetName)
}

func TestResolveDownloadUnsupportedWithoutFallback(t *testing.T) {
	_, err := ResolveDownload(zap.NewNop(), baseWchispConfig(), "armv7l")
	require.Error(t, err)
	assert.Equal(t, flash_err.CategoryUnsupportedArchitecture, flash_err.CategoryOf(err))
	assert.NotEmpty(t, flash_err.RemediationOf(err))
}

func TestResolveDownloadFallbackArchive(t *testing.T) {
	cfg := baseWchispConfig()
	cfg.FallbackArchiveURL = "https://example.com/builds/wchisp-armv7.tar.gz?token=abc"
	cfg.FallbackChecksum = "ABCDEF1234"

	plan, err := ResolveDownload(zap.NewNop(), cfg, "armv7l")
	require.NoError(t, err)
	assert.True(t, plan.Fallback)
	assert.Equal(t, "wchisp-armv7.tar.gz", plan.AssetName)
	assert.Equal(t, cfg.FallbackArchiveURL, plan.URL)
	assert.Equal(t, "abcdef1234", plan.ExpectedChecksum)
	assert.Equal(t, ChecksumFromFallback, plan.ChecksumSource)
}

func TestResolveDownloadFallbackNameOverride(t *testing.T) {
	cfg := baseWchispConfig()
	cfg.FallbackArchiveURL = "https://example.com/download?id=42"
	cfg.FallbackArchiveName = "wchisp-custom.tar.gz"

	plan, err := ResolveDownload(zap.NewNop(), cfg, "armv6l")
	require.NoError(t, err)
	assert.Equal(t, "wchisp-custom.tar.gz", plan.AssetName)
}

func TestResolveDownloadRejectsBadReleaseTag(t *testing.T) {
	cfg := baseWchispConfig()
	cfg.Release = "not-a-version"

	_, err := ResolveDownload(zap.NewNop(), cfg, "amd64")
	require.Error(t, err)
	assert.Equal(t, flash_err.CategoryInvalidParameter, flash_err.CategoryOf(err))
}
