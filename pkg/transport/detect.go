// pkg/transport/detect.go

package transport

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/GaspardD78/bmcuflash/pkg/execute"
)

// Probes are the hardware detection hooks. The defaults shell out to
// lsusb/dfu-util and glob /dev; tests inject their own.
type Probes struct {
	WCHBootloader func(ctx context.Context, log *zap.Logger) bool
	DFUDevice     func(ctx context.Context, log *zap.Logger) bool
	SerialPorts   func() []string
}

// DefaultProbes returns the production probe set.
func DefaultProbes() Probes {
	return Probes{
		WCHBootloader: probeWCHBootloader,
		DFUDevice:     probeDFUDevice,
		SerialPorts:   enumerateSerialPorts,
	}
}

// probeWCHBootloader looks for a WCH device on USB. 4348:55e0 is the
// CH32 ISP bootloader; 1a86 is the vendor id of the CH34x bridges.
func probeWCHBootloader(ctx context.Context, log *zap.Logger) bool {
	out, err := execute.CaptureOutput(ctx, log, "lsusb")
	if err != nil {
		return false
	}
	lower := strings.ToLower(out)
	return strings.Contains(lower, "4348:55e0") || strings.Contains(lower, "1a86:")
}

func probeDFUDevice(ctx context.Context, log *zap.Logger) bool {
	out, err := execute.CaptureOutput(ctx, log, "dfu-util", "-l")
	if err != nil {
		return false
	}
	return strings.Contains(out, "Found DFU")
}

var serialGlobs = []string{
	"/dev/serial/by-id/*",
	"/dev/ttyUSB*",
	"/dev/ttyACM*",
	"/dev/ttyCH*",
}

func enumerateSerialPorts() []string {
	var ports []string
	for _, pattern := range serialGlobs {
		matches, _ := filepath.Glob(pattern)
		ports = append(ports, matches...)
	}
	return PrioritizeSerialPorts(ports)
}

// PrioritizeSerialPorts orders candidate ports so the most likely board
// connection comes first: WCH vendor devices, then CH32-named ones,
// then stable by-id paths, then everything else. Duplicates are dropped
// and ties break lexically.
func PrioritizeSerialPorts(ports []string) []string {
	seen := make(map[string]bool, len(ports))
	var unique []string
	for _, p := range ports {
		if !seen[p] {
			seen[p] = true
			unique = append(unique, p)
		}
	}
	rank := func(p string) int {
		lower := strings.ToLower(p)
		switch {
		case strings.Contains(lower, "1a86"):
			return 0
		case strings.Contains(lower, "wch") || strings.Contains(lower, "ch32"):
			return 1
		case strings.Contains(lower, "/dev/serial/by-id/"):
			return 2
		}
		return 3
	}
	sort.SliceStable(unique, func(i, j int) bool {
		ri, rj := rank(unique[i]), rank(unique[j])
		if ri != rj {
			return ri < rj
		}
		return unique[i] < unique[j]
	})
	return unique
}
