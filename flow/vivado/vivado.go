// Package vivado runs the Vivado simulator tools xvhdl, xelab and xsim as a
// flow.Toolchain.
package vivado

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vhdl-tools/hdlflow/flow"
)

// Tool executables and the logs they write into their working directory.
const (
	CompilerName   = "xvhdl"
	ElaboratorName = "xelab"
	SimulatorName  = "xsim"

	CompileLog   = "xvhdl.log"
	ElaborateLog = "xelab.log"
	SimulateLog  = "xsim.log"

	// SnapshotDir is where xelab stores snapshots, relative to its working dir.
	SnapshotDir = "xsim.dir"
)

// Config locates the installation and holds the per-tool options.
type Config struct {
	InstallDir  string   `yaml:"install_dir"`
	Version     string   `yaml:"version"`
	CompileOpts []string `yaml:"compile_opts"`
	LintOpts    []string `yaml:"lint_opts"`
	ElabOpts    []string `yaml:"elab_opts"`
	SimOpts     []string `yaml:"sim_opts"`
}

// DefaultConfig returns the settings used when no toolchain config is given.
func DefaultConfig() Config {
	return Config{
		InstallDir:  "/tools/Xilinx/Vivado",
		Version:     "2019.1",
		CompileOpts: []string{"--2008"},
		LintOpts:    []string{"-v", "2"},
		ElabOpts:    []string{"--debug", "typical", "-v", "1", "--mt", "off", "--stat"},
	}
}

// LoadConfig reads a toolchain config file over DefaultConfig. Unknown keys
// are rejected; keys left out keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", flow.ErrMissingAsset, path)
		}
		return cfg, err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: parsing %s: %v", flow.ErrConfig, path, err)
	}
	return cfg, nil
}

// BinDir is the directory holding the tool executables. An empty InstallDir
// means the tools are looked up on PATH.
func (c Config) BinDir() string {
	if c.InstallDir == "" {
		return ""
	}
	return filepath.Join(c.InstallDir, c.Version, "bin")
}

// tool returns the executable path of name.
func (c Config) tool(name string) string {
	if bin := c.BinDir(); bin != "" {
		return filepath.Join(bin, name)
	}
	return name
}

// Runner starts one external program in dir and waits for it.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs programs with os/exec, forwarding their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner. A program that starts and exits non-zero is not
// an error: its log decides the outcome.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	logrus.Debugf("running in %s: %s %s", dir, name, strings.Join(args, " "))
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logrus.Warnf("%s exited with status %d", filepath.Base(name), exitErr.ExitCode())
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: starting %s: %v", flow.ErrToolchain, name, err)
	}
	return nil
}

// Toolchain implements flow.Toolchain with the Vivado simulator.
type Toolchain struct {
	cfg    Config
	runner Runner
}

// New returns a Toolchain that starts tools through runner. A nil runner runs
// them with os/exec, forwarding output to stdout and stderr.
func New(cfg Config, runner Runner) *Toolchain {
	if runner == nil {
		runner = ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
	}
	return &Toolchain{cfg: cfg, runner: runner}
}

var _ flow.Toolchain = (*Toolchain)(nil)

// Compile implements flow.Toolchain.
func (t *Toolchain) Compile(ctx context.Context, dir string, sources []string, opts flow.CompileOptions) (string, error) {
	args := t.cfg.CompileOpts
	if opts.Lint {
		args = t.cfg.LintOpts
	}
	args = append(append([]string{}, args...), sources...)
	if err := t.runner.Run(ctx, dir, t.cfg.tool(CompilerName), args...); err != nil {
		return "", err
	}
	return filepath.Join(dir, CompileLog), nil
}

// Elaborate implements flow.Toolchain.
func (t *Toolchain) Elaborate(ctx context.Context, dir, top, snapshot string) (string, error) {
	args := append(append([]string{}, t.cfg.ElabOpts...), top, "-s", snapshot)
	if err := t.runner.Run(ctx, dir, t.cfg.tool(ElaboratorName), args...); err != nil {
		return "", err
	}
	return filepath.Join(dir, ElaborateLog), nil
}

// Simulate implements flow.Toolchain.
func (t *Toolchain) Simulate(ctx context.Context, dir, snapshot, waveScript string) (string, error) {
	args := append(append([]string{}, t.cfg.SimOpts...), snapshot, "-t", waveScript)
	if err := t.runner.Run(ctx, dir, t.cfg.tool(SimulatorName), args...); err != nil {
		return "", err
	}
	return filepath.Join(dir, SimulateLog), nil
}

// View implements flow.Toolchain by opening the simulator GUI on waveDB.
func (t *Toolchain) View(ctx context.Context, dir, waveDB string, viewConfigs []string) error {
	args := []string{waveDB}
	for _, wcfg := range viewConfigs {
		args = append(args, "-view", wcfg)
	}
	args = append(args, "-gui")
	return t.runner.Run(ctx, dir, t.cfg.tool(SimulatorName), args...)
}

// SnapshotDir implements flow.Toolchain.
func (t *Toolchain) SnapshotDir() string {
	return SnapshotDir
}
