// pkg/wchisp/arch.go

// Package wchisp bootstraps the wchisp flashing tool: it resolves the
// right release archive for the host architecture, downloads and
// verifies it, and extracts the binary into a per-release cache.
package wchisp

import (
	"runtime"
	"strings"
)

// archAliases folds the uname/GOARCH spellings into the canonical
// machine names the release assets are published under.
var archAliases = map[string]string{
	"amd64":   "x86_64",
	"x86_64":  "x86_64",
	"arm64":   "aarch64",
	"aarch64": "aarch64",
	"armv7":   "armv7l",
	"armv7l":  "armv7l",
	"armv8l":  "armv7l",
	"armhf":   "armv7l",
	"armel":   "armv6l",
	"i386":    "i686",
	"i486":    "i686",
	"i586":    "i686",
	"i686":    "i686",
}

// assetSuffixes maps canonical machines to the suffix used in official
// release archive names. Machines absent here have no official build.
var assetSuffixes = map[string]string{
	"x86_64":  "linux-x64",
	"aarch64": "linux-aarch64",
}

// NormalizeArch canonicalizes an architecture string. Unknown values
// pass through lowercased so the caller can report them verbatim.
func NormalizeArch(arch string) string {
	machine := strings.ToLower(strings.TrimSpace(arch))
	if canonical, ok := archAliases[machine]; ok {
		return canonical
	}
	if strings.HasPrefix(machine, "armv6") {
		return "armv6l"
	}
	return machine
}

// ResolveMachine returns the canonical machine name, preferring an
// explicit override over the build's own architecture.
func ResolveMachine(override string) string {
	if override != "" {
		return NormalizeArch(override)
	}
	return NormalizeArch(runtime.GOARCH)
}

// officialSuffix returns the release asset suffix for a canonical
// machine, or "" when no official build exists for it.
func officialSuffix(machine string) string {
	return assetSuffixes[machine]
}
