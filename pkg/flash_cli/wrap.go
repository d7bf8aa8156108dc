// pkg/flash_cli/wrap.go

// Package flash_cli glues cobra commands to the runtime context:
// logger setup, panic recovery, signal cleanup and exit-code mapping.
package flash_cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GaspardD78/bmcuflash/pkg/config"
	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
	"github.com/GaspardD78/bmcuflash/pkg/flash_io"
	"github.com/GaspardD78/bmcuflash/pkg/logger"
)

// Wrap builds the RunE for a command: it loads the config, opens the
// run-scoped logger, installs panic recovery and hands the command a
// live RuntimeContext. The returned error carries the classified
// category for exit-code mapping in Execute.
func Wrap(fn func(rc *flash_io.RuntimeContext, cfg *config.Config, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return flash_err.Wrap(err, flash_err.CategoryInvalidParameter, "loading configuration")
		}

		log, runDir, closeLog, logErr := logger.New(logger.Options{
			LogRoot: cfg.LogDir,
			NoColor: cfg.NoColor,
			Quiet:   cfg.Quiet,
		})
		if logErr != nil {
			return flash_err.Wrap(logErr, flash_err.CategoryInternal,
				"could not open run log under "+cfg.LogDir)
		}
		defer closeLog()

		rc := flash_io.NewContext(context.Background(), cmd.Name(), log, runDir)
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		sig := NewSignalHandler(rc)
		sig.Start()
		defer sig.Stop()
		sig.AddCleanup(closeLog)
		rc.SetInterruptHook(sig.AddCleanup)

		rc.Log.Debug("Command starting",
			zap.String("command", cmd.Name()),
			zap.Strings("args", args),
			zap.String("run_dir", runDir))

		err = fn(rc, cfg, cmd, args)
		return err
	}
}

// RenderError prints a classified failure for the operator: the message
// plus any detail and remediation lines.
func RenderError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	for _, line := range flash_err.DetailsOf(err) {
		fmt.Fprintf(os.Stderr, "  %s\n", line)
	}
	for _, line := range flash_err.RemediationOf(err) {
		fmt.Fprintf(os.Stderr, "  - %s\n", line)
	}
}
