// pkg/wchisp/manifest.go

package wchisp

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/GaspardD78/bmcuflash/checksums"
	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
)

// LookupChecksum scans a checksum manifest file for the named asset.
// Lines are `<sha256hex>  <asset>`; comments and blanks are skipped, a
// record with an empty checksum is ignored, and the first exact name
// match wins.
func LookupChecksum(manifestPath, asset string) (string, error) {
	f, err := os.Open(manifestPath)
	if err != nil {
		return "", flash_err.Wrap(err, flash_err.CategoryManifestLookupFailed,
			"checksum manifest not readable: "+manifestPath,
			"Restore checksums/wchisp_checksums.txt from the repository",
			"Or set ALLOW_UNVERIFIED_WCHISP=true to proceed without verification")
	}
	defer f.Close()
	return scanManifest(f, manifestPath, asset)
}

// LookupChecksumEmbedded scans the manifest compiled into the binary.
// This is the production path; a file path is only used when the
// operator (or a test) points at one explicitly.
func LookupChecksumEmbedded(asset string) (string, error) {
	return scanManifest(bytes.NewReader(checksums.Manifest), "embedded manifest", asset)
}

func scanManifest(r io.Reader, source, asset string) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		checksum, name := fields[0], fields[len(fields)-1]
		if checksum == "" || name != asset {
			continue
		}
		return strings.ToLower(checksum), nil
	}
	if err := scanner.Err(); err != nil {
		return "", flash_err.Wrap(err, flash_err.CategoryManifestLookupFailed,
			"reading checksum manifest "+source)
	}

	return "", flash_err.New(flash_err.CategoryManifestLookupFailed,
		"no checksum entry for "+asset,
		"Add a `<sha256>  "+asset+"` line to the manifest",
		"Or set WCHISP_ARCHIVE_CHECKSUM_OVERRIDE with the expected digest")
}
