// pkg/wchisp/verify.go

package wchisp

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
)

// VerifyOptions control archive verification behaviour.
type VerifyOptions struct {
	// OverrideChecksum, when set, replaces the expected value entirely.
	OverrideChecksum string
	// AllowUnverified keeps the archive on mismatch or missing checksum,
	// downgrading the failure to a warning.
	AllowUnverified bool
}

// VerifyArchive checks the downloaded archive against its expected
// SHA-256. On mismatch outside degraded mode the archive is deleted so
// a later run re-downloads it.
func VerifyArchive(log *zap.Logger, asset, archivePath, expected string, opts VerifyOptions) error {
	expected = strings.ToLower(strings.TrimSpace(expected))
	if override := strings.ToLower(strings.TrimSpace(opts.OverrideChecksum)); override != "" {
		if expected != "" && override != expected {
			log.Warn("Operator checksum override differs from the manifest value",
				zap.String("asset", asset),
				zap.String("manifest", expected),
				zap.String("override", override))
		}
		expected = override
	}

	if expected == "" {
		if opts.AllowUnverified {
			log.Warn("Proceeding without checksum verification (ALLOW_UNVERIFIED_WCHISP)",
				zap.String("asset", asset))
			return nil
		}
		return flash_err.New(flash_err.CategoryChecksumMismatch,
			"no expected checksum for "+asset,
			"Add the asset to checksums/wchisp_checksums.txt",
			"Or set ALLOW_UNVERIFIED_WCHISP=true to skip verification")
	}

	actual, err := fileSHA256(archivePath)
	if err != nil {
		return cerr.Wrapf(err, "hashing archive %s", archivePath)
	}

	if actual != expected {
		if opts.AllowUnverified {
			log.Warn("Archive checksum mismatch ignored (ALLOW_UNVERIFIED_WCHISP)",
				zap.String("asset", asset),
				zap.String("expected", expected),
				zap.String("actual", actual))
			return nil
		}
		if rmErr := os.Remove(archivePath); rmErr != nil {
			log.Warn("Could not remove corrupt archive", zap.Error(rmErr))
		}
		return flash_err.New(flash_err.CategoryChecksumMismatch,
			"checksum mismatch for "+asset,
			"The archive was deleted; re-run to download it again",
			"If the mismatch persists, check WCHISP_BASE_URL and the manifest entry")
	}

	log.Debug("Archive checksum verified", zap.String("asset", asset), zap.String("sha256", actual))
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
