/* cmd/flash.go */

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/GaspardD78/bmcuflash/pkg/checks"
	"github.com/GaspardD78/bmcuflash/pkg/config"
	"github.com/GaspardD78/bmcuflash/pkg/flash_cli"
	"github.com/GaspardD78/bmcuflash/pkg/flash_io"
	"github.com/GaspardD78/bmcuflash/pkg/interaction"
	"github.com/GaspardD78/bmcuflash/pkg/session"
	"github.com/GaspardD78/bmcuflash/pkg/transport"
)

var flashCmd = &cobra.Command{
	Use:   "flash",
	Short: "Run a full flash session",
	Long: `Finds the firmware image, resolves a flash method, makes sure the
tool for it is available and flashes the board. Every run writes a
debug log and a report.yaml under the log directory.`,
	RunE: flash_cli.Wrap(runFlash),
}

func init() {
	flashCmd.Flags().String("firmware", "", "firmware image to flash (autodetected when empty)")
	flashCmd.Flags().String("method", "", "pin a flash method: wchisp, wchisp-serial, dfu, serial, sdcard")
	flashCmd.Flags().String("port", "", "serial port device")
	flashCmd.Flags().Int("baud", 115200, "serial baud rate")
	flashCmd.Flags().Int("usb-index", 0, "USB device index for dfu")
	flashCmd.Flags().String("sdcard-path", "", "mounted sdcard path")
	flashCmd.Flags().String("flash-script", "", "flashing script for the serial method")
	flashCmd.Flags().Bool("dry-run", false, "log the flash command without executing it")
	flashCmd.Flags().Bool("auto-confirm", false, "skip interactive confirmation")
}

func runFlash(rc *flash_io.RuntimeContext, cfg *config.Config, cmd *cobra.Command, args []string) error {
	var prompt *interaction.Reader
	interactive := !cfg.AutoConfirm && term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		prompt = interaction.NewReader(os.Stdin, os.Stdout)
	} else if !cfg.AutoConfirm {
		// No terminal to ask on; behave as auto-confirm so scripted
		// runs do not hang.
		cfg.AutoConfirm = true
	}

	registry := checks.NewRegistry()
	report := session.Run(rc, cfg, session.Options{
		Probes:   transport.DefaultProbes(),
		Registry: registry,
		Prompt:   prompt,
	})

	report.Render(os.Stdout, !cfg.NoColor && term.IsTerminal(int(os.Stdout.Fd())))
	if err := report.WriteYAML(rc.LogDir); err != nil {
		rc.Log.Warn("Could not write report.yaml: " + err.Error())
	}

	if report.Err == nil && interactive {
		saveProfileFromReport(rc, cfg, report)
	}
	return report.Err
}

// saveProfileFromReport remembers the interactively chosen transport so
// the next run can offer it first.
func saveProfileFromReport(rc *flash_io.RuntimeContext, cfg *config.Config, report *session.Report) {
	profile := config.Profile{
		Method:     report.Method,
		SerialPort: cfg.SerialPort,
		SDCardPath: cfg.SDCardPath,
	}
	if err := config.SaveProfile(config.ProfilePath(), profile); err != nil {
		rc.Log.Debug("Could not save profile: " + err.Error())
	}
}
