// pkg/wchisp/bootstrap.go

package wchisp

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/GaspardD78/bmcuflash/pkg/checks"
	"github.com/GaspardD78/bmcuflash/pkg/config"
	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
	"github.com/GaspardD78/bmcuflash/pkg/flash_io"
	"github.com/GaspardD78/bmcuflash/pkg/logger"
)

const toolKey = "wchisp"

// BootstrapOptions tune EnsureTool beyond the config surface.
type BootstrapOptions struct {
	// ManifestPath points at a checksum manifest file, overriding the
	// manifest embedded in the binary.
	ManifestPath string
	// Registry receives dependency probe results; nil skips recording.
	Registry *checks.Registry
	// Force re-extracts even when an installed binary is present.
	Force bool
	// HostArch overrides runtime.GOARCH, mainly for tests.
	HostArch string
}

// EnsureTool returns a usable wchisp binary path, installing the tool
// from the official release archive when it is not already available.
// The result is memoized on the runtime context for the rest of the run.
func EnsureTool(rc *flash_io.RuntimeContext, cfg config.WchispConfig, opts BootstrapOptions) (string, error) {
	if cached, ok := rc.ResolvedTool(toolKey); ok {
		return cached, nil
	}

	// Operator-pinned binary wins outright, but a bogus pin is an error
	// rather than a silent fall-through.
	if cfg.Bin != "" {
		info, err := os.Stat(cfg.Bin)
		if err != nil || info.IsDir() || info.Mode()&0o111 == 0 {
			return "", flash_err.New(flash_err.CategoryToolUnavailable,
				"WCHISP_BIN does not point at an executable: "+cfg.Bin,
				"Fix or unset WCHISP_BIN")
		}
		rc.MemoizeTool(toolKey, cfg.Bin)
		return cfg.Bin, nil
	}

	if path, err := exec.LookPath(cfg.Command); err == nil {
		rc.Log.Debug("Found wchisp on PATH", zap.String("path", path))
		rc.MemoizeTool(toolKey, path)
		return path, nil
	}

	if !cfg.AutoInstall {
		return "", flash_err.New(flash_err.CategoryToolUnavailable,
			cfg.Command+" not found and auto-install is disabled",
			"Install wchisp manually (cargo install wchisp) or set WCHISP_BIN",
			"Or set WCHISP_AUTO_INSTALL=true to let this tool install it")
	}

	if opts.Registry != nil {
		if result := opts.Registry.Probe("tar", true); result.Status == checks.StatusMissing {
			return "", flash_err.New(flash_err.CategoryToolUnavailable,
				"tar is required to unpack the wchisp archive",
				"Install tar via your package manager")
		}
	} else if _, err := exec.LookPath("tar"); err != nil {
		return "", flash_err.New(flash_err.CategoryToolUnavailable,
			"tar is required to unpack the wchisp archive",
			"Install tar via your package manager")
	}

	hostArch := opts.HostArch
	if hostArch == "" {
		hostArch = runtime.GOARCH
	}
	if cfg.ArchOverride != "" {
		hostArch = cfg.ArchOverride
	}
	machine := NormalizeArch(hostArch)

	plan, err := ResolveDownload(rc.Log, cfg, hostArch)
	if err != nil {
		return "", err
	}

	installDir := filepath.Join(cfg.CacheDir, "wchisp", cfg.Release+"-"+machine)

	// An earlier run's extraction satisfies this one.
	if !opts.Force {
		if path, err := locateBinary(installDir, cfg.Command); err == nil {
			rc.Log.Debug("Reusing installed wchisp", zap.String("path", path))
			rc.MemoizeTool(toolKey, path)
			return path, nil
		}
	}

	archivePath, err := DownloadArchive(rc.Ctx, rc.Log, plan, filepath.Join(cfg.CacheDir, "downloads"))
	if err != nil {
		return "", flash_err.Wrap(err, flash_err.CategoryToolUnavailable,
			"could not download "+plan.AssetName,
			"Check network access to "+plan.URL,
			"Or install wchisp manually and set WCHISP_BIN")
	}

	expected, source, err := resolveChecksum(cfg, plan, opts.ManifestPath)
	if err != nil {
		if !cfg.AllowUnverified {
			return "", err
		}
		rc.Log.Warn("Checksum lookup failed, continuing unverified", zap.Error(err))
	} else if expected != "" {
		rc.Log.Debug("Expected checksum resolved",
			zap.String("asset", plan.AssetName),
			zap.String("source", string(source)))
	}

	if err := VerifyArchive(rc.Log, plan.AssetName, archivePath, expected, VerifyOptions{
		OverrideChecksum: cfg.ChecksumOverride,
		AllowUnverified:  cfg.AllowUnverified,
	}); err != nil {
		return "", err
	}

	if err := extractArchive(rc, archivePath, installDir); err != nil {
		return "", flash_err.Wrap(err, flash_err.CategoryToolUnavailable,
			"could not extract "+plan.AssetName)
	}

	binary, err := locateBinary(installDir, cfg.Command)
	if err != nil {
		return "", flash_err.Wrap(err, flash_err.CategoryToolUnavailable,
			"archive extracted but no "+cfg.Command+" binary inside",
			"Install wchisp manually and set WCHISP_BIN")
	}
	if err := os.Chmod(binary, 0o755); err != nil {
		return "", cerr.Wrapf(err, "marking %s executable", binary)
	}

	logger.Success(rc.Log, "wchisp installed", zap.String("path", binary))
	rc.MemoizeTool(toolKey, binary)
	return binary, nil
}

// resolveChecksum decides which expected checksum verification should
// use and where it came from: an operator override wins, then a
// fallback-plan checksum, then the manifest (an explicit file path
// overrides the embedded copy).
func resolveChecksum(cfg config.WchispConfig, plan DownloadPlan, manifestPath string) (string, ChecksumSource, error) {
	if cfg.ChecksumOverride != "" {
		return cfg.ChecksumOverride, ChecksumFromOverride, nil
	}
	if plan.ExpectedChecksum != "" {
		return plan.ExpectedChecksum, plan.ChecksumSource, nil
	}

	var (
		expected string
		err      error
	)
	if manifestPath != "" {
		expected, err = LookupChecksum(manifestPath, plan.AssetName)
	} else {
		expected, err = LookupChecksumEmbedded(plan.AssetName)
	}
	if err != nil {
		return "", ChecksumUnknown, err
	}
	return expected, ChecksumFromManifest, nil
}
