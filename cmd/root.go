package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vhdl-tools/hdlflow/flow"
	"github.com/vhdl-tools/hdlflow/flow/report"

	// Registers the CORDIC pattern plugins.
	_ "github.com/vhdl-tools/hdlflow/flow/pattern/cordic"
)

var (
	logLevel        string // Log verbosity level
	moduleDir       string // Module root holding config.yml
	toolchainConfig string // Optional toolchain config file
	vivadoDir       string // Vivado install dir, overrides the toolchain config
	vivadoVersion   string // Vivado version, overrides the toolchain config
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "hdlflow",
	Short: "Compile, elaborate and simulate VHDL modules against golden patterns",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadModule loads the module the command operates on.
func loadModule() *flow.ModuleConfig {
	cfg, err := flow.LoadModuleConfig(moduleDir)
	if err != nil {
		fatal(err)
	}
	return cfg
}

// fatal prints the failure banner, unless the failing stage already did,
// and exits.
func fatal(err error) {
	if !errors.Is(err, flow.ErrToolchain) {
		report.Fail(os.Stdout)
	}
	logrus.Fatalf("%v", err)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVarP(&moduleDir, "module-dir", "C", ".", "Module root directory containing config.yml")
	rootCmd.PersistentFlags().StringVar(&toolchainConfig, "toolchain-config", "", "YAML file with Vivado install location and tool options")
	rootCmd.PersistentFlags().StringVar(&vivadoDir, "vivado-dir", "", "Vivado install directory (overrides the toolchain config)")
	rootCmd.PersistentFlags().StringVar(&vivadoVersion, "vivado-version", "", "Vivado version (overrides the toolchain config)")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(viewCmd)
}
