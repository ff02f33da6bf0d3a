package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/vhdl-tools/hdlflow/flow/pattern"
	"github.com/vhdl-tools/hdlflow/flow/report"
)

// PatternSuffix selects the case assets linked from a fixed case's asset dir.
const PatternSuffix = ".txt"

// Orchestrator prepares and runs the pattern cases of one simulation build.
type Orchestrator struct {
	Module    *ModuleConfig
	Workspace *Workspace
	WorkDir   string
	Toolchain Toolchain
	Out       io.Writer
}

// preparedCase is a case directory ready for simulation.
type preparedCase struct {
	name string
	dir  string
}

// Run prepares every fixed case, then every generated case, then simulates
// and checks each of them in that order. Preparation failures abort the run.
// A case whose simulator log reports errors is recorded as failed and the
// remaining cases still run.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	var cases []preparedCase
	for _, name := range o.Module.Sim.FixedCases {
		dir, err := o.PrepareFixedCase(name)
		if err != nil {
			return nil, err
		}
		cases = append(cases, preparedCase{name: name, dir: dir})
	}
	for _, gc := range o.Module.Sim.GeneratedCases {
		dir, err := o.PrepareGeneratedCase(gc)
		if err != nil {
			return nil, err
		}
		cases = append(cases, preparedCase{name: gc.Name, dir: dir})
	}

	summary := &Summary{}
	for _, c := range cases {
		result, err := o.RunCase(ctx, c.name, c.dir)
		if err != nil {
			return summary, err
		}
		summary.Record(result)
	}
	return summary, nil
}

// PrepareFixedCase creates the case dir and links the wave-control script
// (case-specific first, then module-shared) and every pattern file of the
// case's asset dir into it.
func (o *Orchestrator) PrepareFixedCase(name string) (string, error) {
	dir, err := CreateCaseDir(o.WorkDir, name)
	if err != nil {
		return "", err
	}
	report.Banner(o.Out, "SIM CASE: "+name)

	assets := o.Workspace.CaseAssetDir(name)
	script, err := FindAsset(pattern.WaveScriptName, assets, o.Workspace.SharedDir())
	if err != nil {
		return "", fmt.Errorf("case %q: wave-control script: %w", name, err)
	}
	if err := LinkAsset(script, filepath.Join(dir, pattern.WaveScriptName)); err != nil {
		return "", fmt.Errorf("case %q: %w", name, err)
	}
	linked, err := LinkBySuffix(assets, dir, PatternSuffix)
	if err != nil {
		return "", fmt.Errorf("case %q: %w", name, err)
	}
	logrus.Debugf("case %s: linked %s and %v", name, script, linked)
	return dir, nil
}

// PrepareGeneratedCase creates the case dir, runs the configured generator in
// it and writes a wave-control script unless the generator left one.
func (o *Orchestrator) PrepareGeneratedCase(gc GeneratedCase) (string, error) {
	dir, err := CreateCaseDir(o.WorkDir, gc.Name)
	if err != nil {
		return "", err
	}
	report.Banner(o.Out, "SIM CASE: "+gc.Name)

	sim := &o.Module.Sim
	gen, err := pattern.NewGenerator(sim.Generator, pattern.GeneratorConfig{
		Case:        gc.Name,
		Params:      gc.Params,
		InputFile:   sim.PatternIn,
		GoldenFiles: sim.PatternOut,
	})
	if err != nil {
		return "", fmt.Errorf("%w: case %q: %v", ErrConfig, gc.Name, err)
	}
	if err := gen.Generate(dir); err != nil {
		return "", fmt.Errorf("case %q: generating patterns: %w", gc.Name, err)
	}

	timeout := sim.Timeout
	if t, ok := gc.Params.String("timeout"); ok && t != "" {
		timeout = t
	}
	if _, err := pattern.WriteWaveScript(dir, timeout); err != nil {
		return "", fmt.Errorf("case %q: %w", gc.Name, err)
	}
	return dir, nil
}

// RunCase simulates one prepared case and compares its output.
func (o *Orchestrator) RunCase(ctx context.Context, name, dir string) (CaseResult, error) {
	result := CaseResult{Name: name}
	snapshotDir := o.Toolchain.SnapshotDir()
	if err := LinkAsset(filepath.Join(o.WorkDir, snapshotDir), filepath.Join(dir, snapshotDir)); err != nil {
		return result, fmt.Errorf("case %q: snapshot: %w", name, err)
	}

	logPath, err := o.Toolchain.Simulate(ctx, dir, o.Module.Sim.Snapshot(), pattern.WaveScriptName)
	if err != nil {
		return result, fmt.Errorf("case %q: %w", name, err)
	}
	logErrs, err := CheckLog(o.Out, logPath)
	if err != nil {
		return result, fmt.Errorf("case %q: %w", name, err)
	}
	if logErrs != 0 {
		report.Fail(o.Out)
		logrus.Errorf("case %s: simulator log reports %d errors, skipping comparison", name, logErrs)
		result.Errors = logErrs
		result.SimFailed = true
		return result, nil
	}

	pairs, err := o.Module.Sim.Pairs()
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	cmp, err := pattern.NewComparator(o.Module.Sim.Comparator, pairs.In(dir))
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	n, err := cmp.Compare(o.Out)
	if err != nil {
		return result, fmt.Errorf("case %q: %w", name, asMissing(err))
	}
	result.Errors = n
	return result, nil
}

// asMissing re-tags a missing pattern file as a missing asset.
func asMissing(err error) error {
	if errors.Is(err, pattern.ErrMissingFile) {
		return fmt.Errorf("%w: %v", ErrMissingAsset, err)
	}
	return err
}
