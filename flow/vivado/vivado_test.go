package vivado

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vhdl-tools/hdlflow/flow"
)

// mockRunner records tool invocations.
type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	return m.Called(dir, name, args).Error(0)
}

func TestToolchain_Compile_SimulationUsesDialectFlag(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Run", "/work", "/tools/Xilinx/Vivado/2019.1/bin/xvhdl",
		[]string{"--2008", "a.vhd", "b.vhd"}).Return(nil)
	tc := New(DefaultConfig(), runner)

	log, err := tc.Compile(context.Background(), "/work", []string{"a.vhd", "b.vhd"}, flow.CompileOptions{})

	require.NoError(t, err)
	assert.Equal(t, "/work/xvhdl.log", log)
	runner.AssertExpectations(t)
}

func TestToolchain_Compile_LintUsesStrictMessages(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Run", "/work", "/tools/Xilinx/Vivado/2019.1/bin/xvhdl",
		[]string{"-v", "2", "a.vhd"}).Return(nil)
	tc := New(DefaultConfig(), runner)

	_, err := tc.Compile(context.Background(), "/work", []string{"a.vhd"}, flow.CompileOptions{Lint: true})

	require.NoError(t, err)
	runner.AssertExpectations(t)
}

func TestToolchain_ElaborateSimulateView_Arguments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InstallDir = ""
	runner := new(mockRunner)
	runner.On("Run", "/work", "xelab",
		[]string{"--debug", "typical", "-v", "1", "--mt", "off", "--stat", "tb", "-s", "tb_sim"}).Return(nil)
	runner.On("Run", "/work/basic", "xsim", []string{"tb_sim", "-t", "sim.tcl"}).Return(nil)
	runner.On("Run", "/work/basic", "xsim",
		[]string{"tb_sim.wdb", "-view", "a.wcfg", "-view", "b.wcfg", "-gui"}).Return(nil)
	tc := New(cfg, runner)
	ctx := context.Background()

	log, err := tc.Elaborate(ctx, "/work", "tb", "tb_sim")
	require.NoError(t, err)
	assert.Equal(t, "/work/xelab.log", log)

	log, err = tc.Simulate(ctx, "/work/basic", "tb_sim", "sim.tcl")
	require.NoError(t, err)
	assert.Equal(t, "/work/basic/xsim.log", log)

	require.NoError(t, tc.View(ctx, "/work/basic", "tb_sim.wdb", []string{"a.wcfg", "b.wcfg"}))
	assert.Equal(t, SnapshotDir, tc.SnapshotDir())
	runner.AssertExpectations(t)
}

func TestToolchain_RunnerError_Propagates(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(flow.ErrToolchain)
	tc := New(DefaultConfig(), runner)

	_, err := tc.Simulate(context.Background(), "/work", "tb_sim", "sim.tcl")

	assert.ErrorIs(t, err, flow.ErrToolchain)
}

func TestExecRunner_RunsInDir(t *testing.T) {
	dir := t.TempDir()
	err := ExecRunner{}.Run(context.Background(), dir, "sh", "-c", "echo ran > marker")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "marker"))
}

func TestExecRunner_NonZeroExit_IsNotAnError(t *testing.T) {
	err := ExecRunner{}.Run(context.Background(), t.TempDir(), "sh", "-c", "exit 3")
	assert.NoError(t, err)
}

func TestExecRunner_MissingProgram_ReturnsToolchainError(t *testing.T) {
	err := ExecRunner{}.Run(context.Background(), t.TempDir(), "hdlflow-no-such-tool")
	assert.ErrorIs(t, err, flow.ErrToolchain)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vivado.yml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"2022.2\"\nsim_opts: [-R]\n"), 0o644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "2022.2", cfg.Version)
	assert.Equal(t, []string{"-R"}, cfg.SimOpts)
	assert.Equal(t, DefaultConfig().CompileOpts, cfg.CompileOpts)
	assert.Equal(t, "/tools/Xilinx/Vivado/2022.2/bin", cfg.BinDir())
}

func TestLoadConfig_UnknownKey_ReturnsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vivado.yml")
	require.NoError(t, os.WriteFile(path, []byte("instal_dir: /opt\n"), 0o644))

	_, err := LoadConfig(path)

	assert.ErrorIs(t, err, flow.ErrConfig)
}

func TestLoadConfig_Missing_ReturnsMissingAsset(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yml"))
	assert.ErrorIs(t, err, flow.ErrMissingAsset)
}
