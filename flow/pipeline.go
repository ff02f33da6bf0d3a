package flow

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/vhdl-tools/hdlflow/flow/report"
)

// State is the progress of a Pipeline. The -ing states hold while a stage
// runs; Compiled and Elaborated mark a stage that finished cleanly.
type State int

const (
	Idle State = iota
	Compiling
	Compiled
	Elaborating
	Elaborated
	Simulating
	Done
	Aborted
)

var stateNames = map[State]string{
	Idle:        "idle",
	Compiling:   "compiling",
	Compiled:    "compiled",
	Elaborating: "elaborating",
	Elaborated:  "elaborated",
	Simulating:  "simulating",
	Done:        "done",
	Aborted:     "aborted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Pipeline runs the compile, elaborate and simulate stages of one module in
// one work directory. Stages run synchronously and strictly in order; the
// first stage whose log reports errors aborts the pipeline.
type Pipeline struct {
	cfg       *ModuleConfig
	workDir   string
	toolchain Toolchain
	out       io.Writer
	load      ConfigLoader
	state     State
}

// NewPipeline returns an idle pipeline. Tool logs and case directories are
// written below workDir; progress is reported to out.
func NewPipeline(cfg *ModuleConfig, workDir string, toolchain Toolchain, out io.Writer) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		workDir:   workDir,
		toolchain: toolchain,
		out:       out,
		load:      LoadModuleConfig,
	}
}

// WithLoader overrides how submodule configs are loaded.
func (p *Pipeline) WithLoader(load ConfigLoader) *Pipeline {
	p.load = load
	return p
}

// State returns the current pipeline state.
func (p *Pipeline) State() State {
	return p.state
}

func (p *Pipeline) expect(stage string, want State) error {
	if p.state != want {
		return fmt.Errorf("%w: %s requires state %s, pipeline is %s", ErrStage, stage, want, p.state)
	}
	return nil
}

func (p *Pipeline) abort(err error) error {
	p.state = Aborted
	return err
}

// sources returns the dependency-flattened submodule rtl, the module's own
// rtl and, unless lint is set, the testbench.
func (p *Pipeline) sources(lint bool) ([]string, error) {
	subs, err := ResolveSubmoduleSources(p.cfg, p.load)
	if err != nil {
		return nil, err
	}
	sources := append(subs, p.cfg.SourceList(CategoryRTL)...)
	if !lint {
		sources = append(sources, p.cfg.SourceList(CategoryTB)...)
	}
	return sources, nil
}

// checkStage scans a stage's log and prints the stage verdict.
func (p *Pipeline) checkStage(stage, logPath string) error {
	n, err := CheckLog(p.out, logPath)
	if err != nil {
		return err
	}
	if n != 0 {
		report.Fail(p.out)
		return fmt.Errorf("%w: %s: %s reports %d errors", ErrToolchain, stage, filepath.Base(logPath), n)
	}
	report.Banner(p.out, stage+": "+report.PassString)
	return nil
}

func (p *Pipeline) compile(ctx context.Context, lint bool) error {
	stage := "COMPILE"
	if lint {
		stage = "LINT"
	}
	report.Banner(p.out, stage)
	sources, err := p.sources(lint)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("%w: module %s declares no sources", ErrConfig, p.cfg.Name())
	}
	logrus.Debugf("compiling %d sources in %s", len(sources), p.workDir)
	logPath, err := p.toolchain.Compile(ctx, p.workDir, sources, CompileOptions{Lint: lint})
	if err != nil {
		return err
	}
	return p.checkStage(stage, logPath)
}

// Lint compiles the design without its testbench at the strictest message
// level. It is a complete run on its own.
func (p *Pipeline) Lint(ctx context.Context) error {
	if err := p.expect("lint", Idle); err != nil {
		return err
	}
	p.state = Compiling
	if err := p.compile(ctx, true); err != nil {
		return p.abort(err)
	}
	p.state = Done
	return nil
}

// Compile validates the simulation settings and compiles the design
// together with its testbench.
func (p *Pipeline) Compile(ctx context.Context) error {
	if err := p.expect("compile", Idle); err != nil {
		return err
	}
	if err := p.cfg.ValidateSim(); err != nil {
		return p.abort(err)
	}
	p.state = Compiling
	if err := p.compile(ctx, false); err != nil {
		return p.abort(err)
	}
	p.state = Compiled
	return nil
}

// Elaborate builds the simulation snapshot of the top unit.
func (p *Pipeline) Elaborate(ctx context.Context) error {
	if err := p.expect("elaborate", Compiled); err != nil {
		return err
	}
	p.state = Elaborating
	report.Banner(p.out, "ELABORATE")
	logPath, err := p.toolchain.Elaborate(ctx, p.workDir, p.cfg.Sim.TopName, p.cfg.Sim.Snapshot())
	if err != nil {
		return p.abort(err)
	}
	if err := p.checkStage("ELABORATE", logPath); err != nil {
		return p.abort(err)
	}
	p.state = Elaborated
	return nil
}

// Simulate runs every declared case, prints the summary and saves it to the
// work dir. Case failures are reported in the summary, not as an error.
func (p *Pipeline) Simulate(ctx context.Context) (*Summary, error) {
	if err := p.expect("simulate", Elaborated); err != nil {
		return nil, err
	}
	p.state = Simulating
	report.Banner(p.out, "SIMULATE")
	orch := &Orchestrator{
		Module:    p.cfg,
		Workspace: NewWorkspace(p.cfg.Root),
		WorkDir:   p.workDir,
		Toolchain: p.toolchain,
		Out:       p.out,
	}
	summary, err := orch.Run(ctx)
	if err != nil {
		return summary, p.abort(err)
	}
	summary.Print(p.out)
	if err := summary.Save(filepath.Join(p.workDir, SummaryFileName)); err != nil {
		logrus.Warnf("%v", err)
	}
	p.state = Done
	return summary, nil
}

// Run chains Compile, Elaborate and Simulate.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if err := p.Compile(ctx); err != nil {
		return nil, err
	}
	if err := p.Elaborate(ctx); err != nil {
		return nil, err
	}
	return p.Simulate(ctx)
}
