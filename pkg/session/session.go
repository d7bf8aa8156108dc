// pkg/session/session.go

// Package session orchestrates a full flash run: pick the firmware,
// make sure the tool exists, resolve the transport, run the flashing
// command and account for the result.
package session

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/GaspardD78/bmcuflash/pkg/checks"
	"github.com/GaspardD78/bmcuflash/pkg/config"
	"github.com/GaspardD78/bmcuflash/pkg/execute"
	"github.com/GaspardD78/bmcuflash/pkg/firmware"
	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
	"github.com/GaspardD78/bmcuflash/pkg/flash_io"
	"github.com/GaspardD78/bmcuflash/pkg/interaction"
	"github.com/GaspardD78/bmcuflash/pkg/logger"
	"github.com/GaspardD78/bmcuflash/pkg/transport"
	"github.com/GaspardD78/bmcuflash/pkg/wchisp"
)

// state tracks the session's progress for transition logging.
type state string

const (
	stateIdle           state = "idle"
	stateFirmware       state = "firmware-selected"
	stateToolReady      state = "tool-ready"
	stateMethodResolved state = "method-resolved"
	stateFlashing       state = "flashing"
	stateSucceeded      state = "succeeded"
	stateFailed         state = "failed"
)

const outputTailLines = 40

// Options wires the session's collaborators. Zero values give
// production behaviour.
type Options struct {
	Probes   transport.Probes
	Registry *checks.Registry
	Prompt   *interaction.Reader
	// Bootstrap replaces wchisp.EnsureTool in tests.
	Bootstrap func(rc *flash_io.RuntimeContext, cfg config.WchispConfig, opts wchisp.BootstrapOptions) (string, error)
}

// Run executes the whole session and always returns a report; failures
// are recorded on it rather than propagated, so the caller maps
// Report.Err to an exit code in one place.
func Run(rc *flash_io.RuntimeContext, cfg *config.Config, opts Options) *Report {
	report := &Report{StartedAt: time.Now(), DryRun: cfg.DryRun}
	current := stateIdle

	advance := func(next state) {
		rc.Log.Debug("Session transition",
			zap.String("from", string(current)),
			zap.String("to", string(next)))
		current = next
	}
	fail := func(err error) *Report {
		advance(stateFailed)
		report.Err = err
		report.Error = err.Error()
		report.Remediation = flash_err.RemediationOf(err)
		report.finish(OutcomeFailed)
		return report
	}

	if opts.Probes.SerialPorts == nil && opts.Probes.WCHBootloader == nil && opts.Probes.DFUDevice == nil {
		opts.Probes = transport.DefaultProbes()
	}
	if opts.Registry == nil {
		opts.Registry = checks.NewRegistry()
	}
	bootstrap := opts.Bootstrap
	if bootstrap == nil {
		bootstrap = wchisp.EnsureTool
	}

	// Firmware first: with nothing to flash there is no point touching
	// the tool cache or the hardware.
	artifact, err := firmware.Discover(cfg.Firmware)
	if err != nil {
		return fail(err)
	}
	report.FirmwarePath = artifact.Path
	report.FirmwareSize = artifact.Size
	if sha, shaErr := artifact.SHA256(); shaErr == nil {
		report.FirmwareSHA256 = sha
	}
	rc.Log.Info("Firmware selected",
		zap.String("path", artifact.Path),
		zap.Int64("size", artifact.Size))
	advance(stateFirmware)

	// Availability here is a cheap question (pinned, on PATH, or
	// installable); the actual bootstrap runs only once a wchisp
	// method is chosen.
	resolution, err := transport.Resolve(rc, cfg, transport.ResolveOptions{
		Probes:        opts.Probes,
		ToolAvailable: func() bool { return ToolAvailableQuick(cfg.Wchisp) },
		Prompt:        opts.Prompt,
		DryRun:        cfg.DryRun,
	})
	if err != nil {
		return fail(err)
	}
	method := resolution.Method
	report.Method = method.Kind.String()
	report.MethodRationale = resolution.Rationale
	advance(stateMethodResolved)

	var toolPath string
	if method.NeedsWchisp() {
		toolPath, err = bootstrap(rc, cfg.Wchisp, wchisp.BootstrapOptions{Registry: opts.Registry})
		if err != nil {
			return fail(err)
		}
	}
	if method.Kind == transport.KindDFU {
		if result := opts.Registry.Probe("dfu-util", true); result.Status == checks.StatusMissing {
			return fail(flash_err.New(flash_err.CategoryToolUnavailable,
				"dfu-util is required for the dfu method",
				"Install dfu-util via your package manager"))
		}
	}
	advance(stateToolReady)

	if opts.Prompt != nil && !cfg.AutoConfirm {
		ok, promptErr := opts.Prompt.PromptYesNo(
			fmt.Sprintf("Flash %s via %s?", filepath.Base(artifact.Path), method.Kind), true)
		if promptErr != nil {
			return fail(promptErr)
		}
		if !ok {
			return fail(flash_err.StopRequested("flash confirmation"))
		}
	}

	advance(stateFlashing)

	if method.Kind == transport.KindSDCard {
		if err := flashSDCard(rc, artifact, method, cfg.DryRun, report); err != nil {
			return fail(err)
		}
	} else {
		cmd, args := commandFor(method, toolPath, artifact.Path)
		report.Command = cmd + " " + strings.Join(args, " ")
		if cfg.DryRun {
			rc.Log.Info("Dry run - flash command not executed",
				zap.String("command", report.Command))
		} else {
			out, runErr := execute.Run(rc.Ctx, execute.Options{
				Logger:  rc.Log,
				Command: cmd,
				Args:    args,
				Quiet:   cfg.Quiet,
			})
			if runErr != nil {
				report.OutputTail = execute.TailLines(out, outputTailLines)
				return fail(flash_err.Wrap(runErr, flash_err.CategoryFlashSubprocessFailed,
					"flash command failed",
					"Put the board in bootloader mode: hold BOOT, plug in USB, release BOOT",
					"Check the cable and try a different USB port",
					"Full output is in the run log"))
			}
		}
	}

	advance(stateSucceeded)
	logger.Success(rc.Log, "Firmware flashed",
		zap.String("method", method.Kind.String()),
		zap.String("firmware", artifact.Path))
	report.finish(OutcomeSucceeded)
	return report
}

// commandFor maps a resolved method to its flashing command line.
func commandFor(m transport.Method, toolPath, firmwarePath string) (string, []string) {
	switch m.Kind {
	case transport.KindWchispUSB:
		return toolPath, []string{"flash", firmwarePath}
	case transport.KindWchispSerial:
		return toolPath, []string{
			"--serial",
			"--port", m.SerialPort,
			"--baudrate", strconv.Itoa(m.BaudRate),
			"flash", firmwarePath,
		}
	case transport.KindDFU:
		args := []string{"-d", "4348:55e0", "-a", "0", "-s", "0x08000000:leave"}
		if m.USBIndex > 0 {
			args = append(args, "-S", strconv.Itoa(m.USBIndex))
		}
		return "dfu-util", append(args, "-D", firmwarePath)
	case transport.KindSerial:
		return "python3", []string{
			m.FlashScript,
			"-d", m.SerialPort,
			"-b", strconv.Itoa(m.BaudRate),
			firmwarePath,
		}
	}
	return "", nil
}

// flashSDCard copies the firmware onto the mounted card and syncs it so
// the card can be pulled right after.
func flashSDCard(rc *flash_io.RuntimeContext, artifact *firmware.Artifact, m transport.Method, dryRun bool, report *Report) error {
	target := filepath.Join(m.SDCardPath, "firmware.bin")
	report.Command = fmt.Sprintf("copy %s -> %s", artifact.Path, target)

	if dryRun {
		rc.Log.Info("Dry run - firmware copy not executed", zap.String("target", target))
		return nil
	}

	src, err := os.Open(artifact.Path)
	if err != nil {
		return flash_err.Wrap(err, flash_err.CategoryFlashSubprocessFailed,
			"could not read firmware for sdcard copy")
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return flash_err.Wrap(err, flash_err.CategoryFlashSubprocessFailed,
			"could not write to sdcard mount "+m.SDCardPath,
			"Check the card is mounted read-write")
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return flash_err.Wrap(err, flash_err.CategoryFlashSubprocessFailed,
			"copy to sdcard failed")
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		return cerr.Wrap(err, "syncing sdcard write")
	}
	if err := dst.Close(); err != nil {
		return cerr.Wrap(err, "closing sdcard target")
	}

	rc.Log.Info("Firmware copied to sdcard", zap.String("target", target))
	return nil
}

// ToolAvailableQuick mirrors the resolver's availability question
// without side effects: binary pinned, on PATH, or installable.
func ToolAvailableQuick(cfg config.WchispConfig) bool {
	if cfg.Bin != "" {
		info, err := os.Stat(cfg.Bin)
		return err == nil && !info.IsDir() && info.Mode()&0o111 != 0
	}
	if _, err := exec.LookPath(cfg.Command); err == nil {
		return true
	}
	return cfg.AutoInstall
}
