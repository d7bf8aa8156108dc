// pkg/firmware/discover.go

package firmware

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
)

// defaultCandidatePaths are checked, relative to the user home and the
// working directory, when no firmware path is configured.
func defaultCandidatePaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".cache", "klipper", "out", "klipper.bin"))
	}
	paths = append(paths, "klipper.bin")
	return paths
}

// Discover resolves the firmware artifact to flash. A configured path
// must exist; with no configuration the default locations and any .bin
// files in the given extra directories are scanned and the most recently
// modified candidate wins.
func Discover(configured string, extraDirs ...string) (*Artifact, error) {
	if configured != "" {
		artifact, err := NewArtifact(configured)
		if err != nil {
			return nil, flash_err.Wrap(err, flash_err.CategoryFirmwareNotFound,
				"configured firmware not found: "+configured,
				"Check the --firmware path or FLASH_AUTOMATION_FIRMWARE value",
				"Build the firmware first (make menuconfig && make)")
		}
		return artifact, nil
	}

	var candidates []*Artifact
	for _, path := range defaultCandidatePaths() {
		if artifact, err := NewArtifact(path); err == nil {
			candidates = append(candidates, artifact)
		}
	}
	for _, dir := range extraDirs {
		matches, _ := filepath.Glob(filepath.Join(dir, "*.bin"))
		for _, match := range matches {
			if artifact, err := NewArtifact(match); err == nil {
				candidates = append(candidates, artifact)
			}
		}
	}

	if len(candidates) == 0 {
		return nil, flash_err.New(flash_err.CategoryFirmwareNotFound,
			"no firmware image found",
			"Pass --firmware <path> or set FLASH_AUTOMATION_FIRMWARE",
			"Expected locations: ~/.cache/klipper/out/klipper.bin or ./klipper.bin")
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ModTime.After(candidates[j].ModTime)
	})
	return candidates[0], nil
}
