// pkg/transport/resolve.go

package transport

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/GaspardD78/bmcuflash/pkg/config"
	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
	"github.com/GaspardD78/bmcuflash/pkg/flash_io"
	"github.com/GaspardD78/bmcuflash/pkg/interaction"
)

// ResolveOptions carry everything the resolver needs beyond the config.
type ResolveOptions struct {
	Probes Probes
	// ToolAvailable reports whether wchisp is present or installable.
	// The resolver never installs; it only asks.
	ToolAvailable func() bool
	// Prompt drives interactive selection; nil means non-interactive.
	Prompt *interaction.Reader
	DryRun bool
}

// Resolve picks the flashing method. A pinned method (flag or env) is
// validated and used as-is; otherwise candidates are probed in
// preference order and either auto-confirmed or offered as a menu.
func Resolve(rc *flash_io.RuntimeContext, cfg *config.Config, opts ResolveOptions) (*Resolution, error) {
	if cfg.Method != "" {
		return resolvePinned(rc, cfg, opts)
	}
	return resolveAuto(rc, cfg, opts)
}

func methodFromConfig(kind Kind, cfg *config.Config) Method {
	return Method{
		Kind:        kind,
		SerialPort:  cfg.SerialPort,
		BaudRate:    cfg.BaudRate,
		USBIndex:    cfg.USBIndex,
		SDCardPath:  cfg.SDCardPath,
		FlashScript: cfg.FlashScript,
	}
}

// resolvePinned validates the operator's explicit choice. A missing
// required parameter fails fast instead of silently switching methods.
func resolvePinned(rc *flash_io.RuntimeContext, cfg *config.Config, opts ResolveOptions) (*Resolution, error) {
	kind, err := ParseKind(cfg.Method)
	if err != nil {
		return nil, flash_err.Wrap(err, flash_err.CategoryInvalidParameter,
			"invalid flash method: "+cfg.Method,
			"Valid methods: wchisp, wchisp-serial, dfu, serial, sdcard")
	}

	method := methodFromConfig(kind, cfg)
	if err := validateMethod(method, opts); err != nil {
		return nil, err
	}

	rc.Log.Info("Using pinned flash method", zap.Stringer("method", kind))
	return &Resolution{
		Method:    method,
		Rationale: []string{fmt.Sprintf("method %s pinned by flag or environment", kind)},
	}, nil
}

func validateMethod(m Method, opts ResolveOptions) error {
	switch m.Kind {
	case KindWchispUSB, KindWchispSerial:
		if opts.ToolAvailable != nil && !opts.ToolAvailable() {
			return flash_err.New(flash_err.CategoryToolUnavailable,
				"wchisp is not available for method "+m.Kind.String(),
				"Install wchisp or enable WCHISP_AUTO_INSTALL")
		}
		if m.Kind == KindWchispSerial && m.SerialPort == "" {
			return missingParameter("wchisp-serial", "serial port", "--port or FLASH_AUTOMATION_SERIAL_PORT")
		}
	case KindSerial:
		if m.SerialPort == "" {
			return missingParameter("serial", "serial port", "--port or FLASH_AUTOMATION_SERIAL_PORT")
		}
		if m.FlashScript == "" && !opts.DryRun {
			return missingParameter("serial", "flash script", "--flash-script or FLASH_AUTOMATION_FLASH_USB_SCRIPT")
		}
	case KindSDCard:
		if m.SDCardPath == "" {
			return missingParameter("sdcard", "mount path", "--sdcard-path or FLASH_AUTOMATION_SDCARD_PATH")
		}
		if info, err := os.Stat(m.SDCardPath); err != nil || !info.IsDir() {
			return flash_err.New(flash_err.CategoryInvalidParameter,
				"sdcard mount path does not exist: "+m.SDCardPath,
				"Mount the card and pass its path with --sdcard-path")
		}
	}
	return nil
}

func missingParameter(method, param, source string) error {
	return flash_err.New(flash_err.CategoryInvalidParameter,
		fmt.Sprintf("method %s requires a %s", method, param),
		"Provide it via "+source)
}

// candidate is a probed method awaiting confirmation.
type candidate struct {
	method Method
	detail string
}

func resolveAuto(rc *flash_io.RuntimeContext, cfg *config.Config, opts ResolveOptions) (*Resolution, error) {
	var (
		candidates []candidate
		rationale  []string
	)

	toolOK := opts.ToolAvailable == nil || opts.ToolAvailable()

	for _, kind := range kindOrder {
		method := methodFromConfig(kind, cfg)
		switch kind {
		case KindWchispUSB:
			if !toolOK {
				rationale = append(rationale, "wchisp skipped: tool unavailable")
				continue
			}
			if opts.Probes.WCHBootloader == nil || !opts.Probes.WCHBootloader(rc.Ctx, rc.Log) {
				rationale = append(rationale, "wchisp skipped: no WCH bootloader on USB")
				continue
			}
			candidates = append(candidates, candidate{method, "WCH bootloader detected on USB"})

		case KindWchispSerial:
			if !toolOK {
				rationale = append(rationale, "wchisp-serial skipped: tool unavailable")
				continue
			}
			ports := probeSerial(opts)
			if len(ports) == 0 {
				rationale = append(rationale, "wchisp-serial skipped: no serial ports")
				continue
			}
			method.SerialPort = firstNonEmpty(cfg.SerialPort, ports[0])
			candidates = append(candidates, candidate{method, "serial port " + method.SerialPort})

		case KindDFU:
			if opts.Probes.DFUDevice == nil || !opts.Probes.DFUDevice(rc.Ctx, rc.Log) {
				rationale = append(rationale, "dfu skipped: no DFU device")
				continue
			}
			candidates = append(candidates, candidate{method, "DFU device detected"})

		case KindSerial:
			if method.FlashScript == "" && !opts.DryRun {
				rationale = append(rationale, "serial skipped: no flash script configured")
				continue
			}
			ports := probeSerial(opts)
			if len(ports) == 0 {
				rationale = append(rationale, "serial skipped: no serial ports")
				continue
			}
			method.SerialPort = firstNonEmpty(cfg.SerialPort, ports[0])
			candidates = append(candidates, candidate{method, "serial port " + method.SerialPort})

		case KindSDCard:
			if method.SDCardPath == "" {
				rationale = append(rationale, "sdcard skipped: no mount path configured")
				continue
			}
			if info, err := os.Stat(method.SDCardPath); err != nil || !info.IsDir() {
				rationale = append(rationale, "sdcard skipped: mount path absent")
				continue
			}
			candidates = append(candidates, candidate{method, "mount " + method.SDCardPath})
		}
	}

	if len(candidates) == 0 {
		return nil, flash_err.New(flash_err.CategoryNoUsableMethod,
			"no usable flash method detected",
			"Put the board in bootloader mode (hold BOOT while plugging in USB)",
			"Or pin a method explicitly with --method").
			WithDetails(rationale...)
	}

	chosen := candidates[0]
	if cfg.AutoConfirm || opts.Prompt == nil {
		rationale = append(rationale, fmt.Sprintf("auto-selected %s (%s)", chosen.method.Kind, chosen.detail))
		rc.Log.Info("Auto-selected flash method",
			zap.Stringer("method", chosen.method.Kind),
			zap.String("detail", chosen.detail))
	} else {
		labels := make([]string, len(candidates))
		for i, c := range candidates {
			labels[i] = fmt.Sprintf("%s (%s)", c.method.Kind, c.detail)
		}
		idx, err := opts.Prompt.PromptSelect("Detected flash methods:", labels)
		if err != nil {
			return nil, err
		}
		chosen = candidates[idx]

		// When the port came from a probe rather than the operator, let
		// them confirm or correct it before flashing.
		serialKind := chosen.method.Kind == KindWchispSerial || chosen.method.Kind == KindSerial
		if serialKind && cfg.SerialPort == "" {
			port, portErr := opts.Prompt.PromptWithDefault("Serial port", chosen.method.SerialPort)
			if portErr != nil {
				return nil, portErr
			}
			chosen.method.SerialPort = port
		}
		rationale = append(rationale, fmt.Sprintf("operator selected %s (%s)", chosen.method.Kind, chosen.detail))
	}

	return &Resolution{Method: chosen.method, Rationale: rationale}, nil
}

func probeSerial(opts ResolveOptions) []string {
	if opts.Probes.SerialPorts == nil {
		return nil
	}
	return opts.Probes.SerialPorts()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
