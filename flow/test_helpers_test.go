package flow

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// fakeToolchain writes canned logs instead of running tools. Simulate writes
// the files in outputs[<case dir name>] into the case dir, and copies
// echo[dut] from the golden file of the same case when set.
type fakeToolchain struct {
	compileLog string
	elabLog    string
	simLogs    map[string]string
	outputs    map[string]map[string]string
	echo       map[string]string

	calls    []string
	sources  []string
	lint     bool
	snapshot string
}

func newFakeToolchain() *fakeToolchain {
	return &fakeToolchain{
		simLogs: map[string]string{},
		outputs: map[string]map[string]string{},
		echo:    map[string]string{},
	}
}

func (f *fakeToolchain) writeLog(dir, name, content string) (string, error) {
	path := filepath.Join(dir, name)
	return path, os.WriteFile(path, []byte(content), 0o644)
}

func (f *fakeToolchain) Compile(_ context.Context, dir string, sources []string, opts CompileOptions) (string, error) {
	f.calls = append(f.calls, "compile")
	f.sources = sources
	f.lint = opts.Lint
	return f.writeLog(dir, "xvhdl.log", f.compileLog)
}

func (f *fakeToolchain) Elaborate(_ context.Context, dir, top, snapshot string) (string, error) {
	f.calls = append(f.calls, "elaborate")
	f.snapshot = snapshot
	if err := os.MkdirAll(filepath.Join(dir, f.SnapshotDir(), snapshot), 0o755); err != nil {
		return "", err
	}
	return f.writeLog(dir, "xelab.log", f.elabLog)
}

func (f *fakeToolchain) Simulate(_ context.Context, dir, snapshot, waveScript string) (string, error) {
	name := filepath.Base(dir)
	f.calls = append(f.calls, "simulate "+name)
	if _, err := os.Stat(filepath.Join(dir, waveScript)); err != nil {
		return "", err
	}
	if _, err := os.Stat(filepath.Join(dir, f.SnapshotDir(), snapshot)); err != nil {
		return "", err
	}
	for file, content := range f.outputs[name] {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
			return "", err
		}
	}
	for dut, golden := range f.echo {
		data, err := os.ReadFile(filepath.Join(dir, golden))
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(dir, dut), data, 0o644); err != nil {
			return "", err
		}
	}
	return f.writeLog(dir, "xsim.log", f.simLogs[name])
}

func (f *fakeToolchain) View(context.Context, string, string, []string) error {
	f.calls = append(f.calls, "view")
	return nil
}

func (f *fakeToolchain) SnapshotDir() string { return "xsim.dir" }

// readFile fails the test if path cannot be read.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
