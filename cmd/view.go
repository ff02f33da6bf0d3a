package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vhdl-tools/hdlflow/flow"
)

// WaveConfigSuffix selects the waveform view configs linked into a case.
const WaveConfigSuffix = ".wcfg"

var viewCase string // Case whose waveform is opened

// runView opens the waveform of caseName from the latest work dir. Wave
// configs from the module's shared asset dir are linked into the case first.
func runView(ctx context.Context, cfg *flow.ModuleConfig, tc flow.Toolchain, caseName string) error {
	if cfg.Sim.TopName == "" {
		return fmt.Errorf("%w: sim.top_name is required", flow.ErrConfig)
	}
	ws := flow.NewWorkspace(cfg.Root)
	latest, err := ws.LatestWorkDir()
	if err != nil {
		return err
	}
	caseDir, err := flow.CaseDir(latest, caseName)
	if err != nil {
		return err
	}
	if info, err := os.Stat(caseDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: case %q was not simulated in %s", flow.ErrMissingAsset, caseName, latest)
	}
	configs, err := flow.LinkBySuffix(ws.SharedDir(), caseDir, WaveConfigSuffix)
	if err != nil && !errors.Is(err, flow.ErrMissingAsset) {
		return err
	}
	if len(configs) == 0 {
		logrus.Warnf("no %s files in %s", WaveConfigSuffix, ws.SharedDir())
	}
	return tc.View(ctx, caseDir, cfg.Sim.Snapshot()+".wdb", configs)
}

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the waveform of a simulated case from the latest work dir",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if viewCase == "" {
			logrus.Fatalf("no case given; use --case")
		}
		if err := runView(commandContext(cmd), loadModule(), newToolchain(), viewCase); err != nil {
			fatal(err)
		}
	},
}

func init() {
	viewCmd.Flags().StringVarP(&viewCase, "case", "s", "", "Case to view")
}
