// pkg/wchisp/bootstrap_test.go

package wchisp

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
	"github.com/GaspardD78/bmcuflash/pkg/flash_io"
	"github.com/GaspardD78/bmcuflash/pkg/logger"
)

func testContext(t *testing.T) *flash_io.RuntimeContext {
	t.Helper()
	log := logger.NewTest(&bytes.Buffer{})
	return flash_io.NewContext(context.Background(), "test", log, t.TempDir())
}

func TestEnsureToolPinnedBinary(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "wchisp")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

	cfg := baseWchispConfig()
	cfg.Bin = bin

	rc := testContext(t)
	path, err := EnsureTool(rc, cfg, BootstrapOptions{})
	require.NoError(t, err)
	assert.Equal(t, bin, path)
}

func TestEnsureToolPinnedBinaryBogus(t *testing.T) {
	cfg := baseWchispConfig()
	cfg.Bin = filepath.Join(t.TempDir(), "missing")

	_, err := EnsureTool(testContext(t), cfg, BootstrapOptions{})
	require.Error(t, err)
	assert.Equal(t, flash_err.CategoryToolUnavailable, flash_err.CategoryOf(err))
}

func TestEnsureToolPinnedBinaryNotExecutable(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "wchisp")
	require.NoError(t, os.WriteFile(bin, []byte("data"), 0o644))

	cfg := baseWchispConfig()
	cfg.Bin = bin

	_, err := EnsureTool(testContext(t), cfg, BootstrapOptions{})
	require.Error(t, err)
	assert.Equal(t, flash_err.CategoryToolUnavailable, flash_err.CategoryOf(err))
}

func TestEnsureToolPathCommandMemoized(t *testing.T) {
	cfg := baseWchispConfig()
	cfg.Command = "sh" // guaranteed on PATH

	rc := testContext(t)
	first, err := EnsureTool(rc, cfg, BootstrapOptions{})
	require.NoError(t, err)

	// Second call must come from the memo even if PATH changes.
	t.Setenv("PATH", "")
	second, err := EnsureTool(rc, cfg, BootstrapOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnsureToolAutoInstallDisabled(t *testing.T) {
	cfg := baseWchispConfig()
	cfg.Command = "wchisp-definitely-absent"
	cfg.AutoInstall = false

	_, err := EnsureTool(testContext(t), cfg, BootstrapOptions{})
	require.Error(t, err)
	assert.Equal(t, flash_err.CategoryToolUnavailable, flash_err.CategoryOf(err))
	assert.NotEmpty(t, flash_err.RemediationOf(err))
}

func TestEnsureToolReusesInstalledBinary(t *testing.T) {
	cacheDir := t.TempDir()
	cfg := baseWchispConfig()
	cfg.Command = "wchisp-definitely-absent"
	cfg.CacheDir = cacheDir

	installDir := filepath.Join(cacheDir, "wchisp", "v0.3.0-x86_64")
	require.NoError(t, os.MkdirAll(installDir, 0o755))
	installed := filepath.Join(installDir, "wchisp-definitely-absent")
	require.NoError(t, os.WriteFile(installed, []byte("bin"), 0o755))

	path, err := EnsureTool(testContext(t), cfg, BootstrapOptions{HostArch: "amd64"})
	require.NoError(t, err)
	assert.Equal(t, installed, path)
}

func TestEnsureToolUnsupportedArchBeforeDownload(t *testing.T) {
	cfg := baseWchispConfig()
	cfg.Command = "wchisp-definitely-absent"
	cfg.CacheDir = t.TempDir()

	_, err := EnsureTool(testContext(t), cfg, BootstrapOptions{HostArch: "riscv64"})
	require.Error(t, err)
	assert.Equal(t, flash_err.CategoryUnsupportedArchitecture, flash_err.CategoryOf(err))
}

func TestEnsureToolManifestMissLeavesNoBinary(t *testing.T) {
	cacheDir := t.TempDir()
	cfg := baseWchispConfig()
	cfg.Command = "wchisp-definitely-absent"
	cfg.CacheDir = cacheDir

	// A cached archive short-circuits the download, so the run reaches
	// checksum lookup without any network access.
	downloads := filepath.Join(cacheDir, "downloads")
	require.NoError(t, os.MkdirAll(downloads, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(downloads, "wchisp-v0.3.0-linux-x64.tar.gz"), []byte("archive"), 0o644))

	manifest := filepath.Join(t.TempDir(), "empty_manifest.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("# no entries\n"), 0o644))

	_, err := EnsureTool(testContext(t), cfg, BootstrapOptions{
		HostArch:     "amd64",
		ManifestPath: manifest,
	})
	require.Error(t, err)
	assert.Equal(t, flash_err.CategoryManifestLookupFailed, flash_err.CategoryOf(err))

	installDir := filepath.Join(cacheDir, "wchisp", "v0.3.0-x86_64")
	_, statErr := os.Stat(installDir)
	assert.True(t, os.IsNotExist(statErr), "nothing may be installed after a manifest miss")
}

func TestEmbeddedManifestCoversOfficialAssets(t *testing.T) {
	// The embedded copy keeps lookups independent of the working
	// directory; both official v0.3.0 assets must resolve.
	for _, asset := range []string{
		"wchisp-v0.3.0-linux-x64.tar.gz",
		"wchisp-v0.3.0-linux-aarch64.tar.gz",
	} {
		sum, err := LookupChecksumEmbedded(asset)
		require.NoError(t, err, asset)
		assert.Len(t, sum, 64, asset)
	}
}

func TestResolveChecksumSourcePrecedence(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "manifest.txt")
	require.NoError(t, os.WriteFile(manifest,
		[]byte("cccc  wchisp-v0.3.0-linux-x64.tar.gz\n"), 0o644))

	plan := DownloadPlan{AssetName: "wchisp-v0.3.0-linux-x64.tar.gz"}

	cfg := baseWchispConfig()
	cfg.ChecksumOverride = "aaaa"
	sum, source, err := resolveChecksum(cfg, plan, manifest)
	require.NoError(t, err)
	assert.Equal(t, "aaaa", sum)
	assert.Equal(t, ChecksumFromOverride, source)

	fallbackPlan := plan
	fallbackPlan.ExpectedChecksum = "bbbb"
	fallbackPlan.ChecksumSource = ChecksumFromFallback
	sum, source, err = resolveChecksum(baseWchispConfig(), fallbackPlan, manifest)
	require.NoError(t, err)
	assert.Equal(t, "bbbb", sum)
	assert.Equal(t, ChecksumFromFallback, source)

	sum, source, err = resolveChecksum(baseWchispConfig(), plan, manifest)
	require.NoError(t, err)
	assert.Equal(t, "cccc", sum)
	assert.Equal(t, ChecksumFromManifest, source)

	_, source, err = resolveChecksum(baseWchispConfig(),
		DownloadPlan{AssetName: "absent.tar.gz"}, manifest)
	require.Error(t, err)
	assert.Equal(t, ChecksumUnknown, source)
}

func makeTarGz(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.tar.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, body := range members {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o755,
			Size: int64(len(body)),
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return path
}

func TestScanArchiveMembersAccepts(t *testing.T) {
	path := makeTarGz(t, map[string]string{"wchisp-v0.3.0-linux-x64/wchisp": "bin"})
	assert.NoError(t, scanArchiveMembers(path))
}

func TestScanArchiveMembersRejectsTraversal(t *testing.T) {
	path := makeTarGz(t, map[string]string{"../escape": "bad"})
	assert.Error(t, scanArchiveMembers(path))
}

func TestScanArchiveMembersRejectsAbsolute(t *testing.T) {
	path := makeTarGz(t, map[string]string{"/etc/passwd": "bad"})
	assert.Error(t, scanArchiveMembers(path))
}
