package flow

import "context"

// CompileOptions selects how sources are compiled.
type CompileOptions struct {
	// Lint compiles for checking only: the testbench is left out and the
	// compiler runs at its strictest message level.
	Lint bool
}

// Toolchain runs the external compiler, elaborator and simulator. Every call
// runs synchronously in dir, writes its log there and returns the log path;
// the caller decides success from the log contents.
type Toolchain interface {
	Compile(ctx context.Context, dir string, sources []string, opts CompileOptions) (string, error)
	Elaborate(ctx context.Context, dir, top, snapshot string) (string, error)
	Simulate(ctx context.Context, dir, snapshot, waveScript string) (string, error)
	// View opens a recorded waveform database for interactive inspection.
	View(ctx context.Context, dir, waveDB string, viewConfigs []string) error
	// SnapshotDir is the directory, relative to the elaboration dir, that
	// holds elaborated snapshots.
	SnapshotDir() string
}
