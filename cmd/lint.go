package cmd

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vhdl-tools/hdlflow/flow"
)

// runLint compiles the module's design sources in a fresh work dir.
func runLint(ctx context.Context, cfg *flow.ModuleConfig, tc flow.Toolchain, out io.Writer) error {
	workDir, err := flow.NewWorkspace(cfg.Root).CreateWorkDir()
	if err != nil {
		return err
	}
	return flow.NewPipeline(cfg, workDir, tc, out).Lint(ctx)
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Compile the design sources without the testbench at the strictest message level",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadModule()
		if err := runLint(commandContext(cmd), cfg, newToolchain(), cmd.OutOrStdout()); err != nil {
			fatal(err)
		}
		logrus.Infof("lint of %s complete", cfg.Name())
	},
}
