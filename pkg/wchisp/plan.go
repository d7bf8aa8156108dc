// pkg/wchisp/plan.go

package wchisp

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	version "github.com/hashicorp/go-version"
	"go.uber.org/zap"

	"github.com/GaspardD78/bmcuflash/pkg/config"
	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
)

// ChecksumSource records where a plan's expected checksum came from.
type ChecksumSource string

const (
	ChecksumFromManifest ChecksumSource = "manifest"
	ChecksumFromFallback ChecksumSource = "fallback-env"
	ChecksumFromOverride ChecksumSource = "override-env"
	ChecksumUnknown      ChecksumSource = "none"
)

// DownloadPlan describes the archive to fetch and how to verify it.
type DownloadPlan struct {
	AssetName        string
	URL              string
	ExpectedChecksum string
	ChecksumSource   ChecksumSource
	Fallback         bool
}

// ResolveDownload builds the download plan for the host architecture.
// Official assets exist only for a subset of machines; a configured
// fallback archive covers the rest, and with neither the architecture
// is unsupported.
func ResolveDownload(log *zap.Logger, cfg config.WchispConfig, hostArch string) (DownloadPlan, error) {
	release := cfg.Release
	if _, err := version.NewVersion(strings.TrimPrefix(release, "v")); err != nil {
		return DownloadPlan{}, flash_err.Wrap(err, flash_err.CategoryInvalidParameter,
			"invalid wchisp release tag: "+release,
			"Use a tag like v0.3.0 in WCHISP_RELEASE")
	}

	machine := NormalizeArch(hostArch)
	if suffix := officialSuffix(machine); suffix != "" {
		asset := fmt.Sprintf("wchisp-%s-%s.tar.gz", release, suffix)
		return DownloadPlan{
			AssetName:      asset,
			URL:            fmt.Sprintf("%s/%s/%s", strings.TrimRight(cfg.BaseURL, "/"), release, asset),
			ChecksumSource: ChecksumUnknown,
		}, nil
	}

	if cfg.FallbackArchiveURL != "" {
		asset := cfg.FallbackArchiveName
		if asset == "" {
			asset = assetNameFromURL(cfg.FallbackArchiveURL)
		}
		log.Warn("No official wchisp build for this architecture, using fallback archive",
			zap.String("machine", machine),
			zap.String("asset", asset))
		plan := DownloadPlan{
			AssetName:      asset,
			URL:            cfg.FallbackArchiveURL,
			ChecksumSource: ChecksumUnknown,
			Fallback:       true,
		}
		if cfg.FallbackChecksum != "" {
			plan.ExpectedChecksum = strings.ToLower(cfg.FallbackChecksum)
			plan.ChecksumSource = ChecksumFromFallback
		}
		return plan, nil
	}

	return DownloadPlan{}, flash_err.New(flash_err.CategoryUnsupportedArchitecture,
		"no official wchisp build for architecture "+machine,
		"Build wchisp from source (cargo install wchisp) and set WCHISP_BIN",
		"Or set WCHISP_FALLBACK_ARCHIVE_URL to a trusted prebuilt archive")
}

// assetNameFromURL derives an archive filename from a fallback URL,
// dropping any query string.
func assetNameFromURL(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	base := raw
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	return path.Base(base)
}
