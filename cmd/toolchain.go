package cmd

import (
	"github.com/vhdl-tools/hdlflow/flow/vivado"
)

// loadToolchainConfig resolves the toolchain settings: defaults, then the
// config file when given, then the install flags.
func loadToolchainConfig(path, dir, version string) (vivado.Config, error) {
	cfg := vivado.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = vivado.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if dir != "" {
		cfg.InstallDir = dir
	}
	if version != "" {
		cfg.Version = version
	}
	return cfg, nil
}

// newToolchain builds the toolchain selected by the persistent flags.
func newToolchain() *vivado.Toolchain {
	cfg, err := loadToolchainConfig(toolchainConfig, vivadoDir, vivadoVersion)
	if err != nil {
		fatal(err)
	}
	return vivado.New(cfg, nil)
}
