/* cmd/install.go */

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GaspardD78/bmcuflash/pkg/checks"
	"github.com/GaspardD78/bmcuflash/pkg/config"
	"github.com/GaspardD78/bmcuflash/pkg/flash_cli"
	"github.com/GaspardD78/bmcuflash/pkg/flash_io"
	"github.com/GaspardD78/bmcuflash/pkg/logger"
	"github.com/GaspardD78/bmcuflash/pkg/ui"
	"github.com/GaspardD78/bmcuflash/pkg/wchisp"
)

var installToolCmd = &cobra.Command{
	Use:   "install-tool",
	Short: "Download and install the wchisp flashing tool",
	RunE:  flash_cli.Wrap(runInstallTool),
}

func init() {
	installToolCmd.Flags().Bool("force", false, "re-extract even when a cached install exists")
}

func runInstallTool(rc *flash_io.RuntimeContext, cfg *config.Config, cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	spinner := ui.NewSpinner("Installing wchisp")
	defer spinner.Stop()
	rc.OnInterrupt(spinner.Stop)

	path, err := wchisp.EnsureTool(rc, cfg.Wchisp, wchisp.BootstrapOptions{
		Registry: checks.NewRegistry(),
		Force:    force,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	logger.Success(rc.Log, "wchisp ready", zap.String("path", path))
	return nil
}
