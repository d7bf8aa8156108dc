/* cmd/doctor.go */

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/GaspardD78/bmcuflash/pkg/checks"
	"github.com/GaspardD78/bmcuflash/pkg/config"
	"github.com/GaspardD78/bmcuflash/pkg/flash_cli"
	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
	"github.com/GaspardD78/bmcuflash/pkg/flash_io"
	"github.com/GaspardD78/bmcuflash/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Probe the external commands the flash pipeline depends on",
	RunE:  flash_cli.Wrap(runDoctor),
}

func runDoctor(rc *flash_io.RuntimeContext, cfg *config.Config, cmd *cobra.Command, args []string) error {
	registry := checks.NewRegistry()

	registry.Probe("tar", true)
	registry.Probe(cfg.Wchisp.Command, false)
	registry.Probe("dfu-util", false)
	registry.Probe("lsusb", false)
	registry.Probe("python3", false)

	colour := !cfg.NoColor && term.IsTerminal(int(os.Stdout.Fd()))
	ui.Banner(os.Stdout, "Dependency check", colour)

	var rows []ui.Row
	for _, result := range registry.Results() {
		row := ui.Row{
			Label:  result.Command,
			OK:     result.Status == checks.StatusSuccess,
			Detail: result.Detail,
		}
		if !row.OK && !result.Required {
			row.Warn = true
			row.Detail = "optional, not found"
		}
		rows = append(rows, row)
	}
	ui.RenderTable(os.Stdout, rows, colour)

	if missing := registry.MissingRequired(); len(missing) > 0 {
		return flash_err.New(flash_err.CategoryToolUnavailable,
			fmt.Sprintf("required commands missing: %s", strings.Join(missing, ", ")),
			"Install them via your package manager and re-run doctor")
	}
	return nil
}
