package cmd

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vhdl-tools/hdlflow/flow"
)

// runSim runs the full compile, elaborate and simulate flow in a fresh work dir.
func runSim(ctx context.Context, cfg *flow.ModuleConfig, tc flow.Toolchain, out io.Writer) (*flow.Summary, error) {
	workDir, err := flow.NewWorkspace(cfg.Root).CreateWorkDir()
	if err != nil {
		return nil, err
	}
	return flow.NewPipeline(cfg, workDir, tc, out).Run(ctx)
}

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Compile, elaborate and simulate every configured case and compare against golden patterns",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadModule()
		summary, err := runSim(commandContext(cmd), cfg, newToolchain(), cmd.OutOrStdout())
		if err != nil {
			fatal(err)
		}
		if !summary.Passed() {
			logrus.Fatalf("failing cases: %v", summary.Failed())
		}
		logrus.Infof("all %d cases of %s passed", len(summary.Cases), cfg.Name())
	},
}
