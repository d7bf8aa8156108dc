/* cmd/root.go */

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/GaspardD78/bmcuflash/pkg/flash_cli"
	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
)

// RootCmd is the base command for bmcuflash.
var RootCmd = &cobra.Command{
	Use:   "bmcuflash",
	Short: "Flash firmware to BMCU boards over USB, serial, DFU or sdcard",
	Long: `bmcuflash automates flashing CH32-based BMCU boards: it finds the
firmware image, bootstraps the wchisp tool when needed, picks a usable
transport and runs the flashing command, logging everything to a
run-scoped log directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	RootCmd.PersistentFlags().Bool("no-color", false, "disable coloured output")
	RootCmd.PersistentFlags().Bool("quiet", false, "only print errors on the console")
	RootCmd.PersistentFlags().String("log-dir", "logs", "root directory for run logs")

	RootCmd.AddCommand(flashCmd)
	RootCmd.AddCommand(installToolCmd)
	RootCmd.AddCommand(doctorCmd)
}

// Execute runs the CLI and exits with the classified code on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		flash_cli.RenderError(err)
		os.Exit(flash_err.GetExitCode(err))
	}
}
