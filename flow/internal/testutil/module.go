// Package testutil builds on-disk module trees for tests of the flow
// packages: a parent directory holding one directory per module, each with a
// config.yml and whatever source and pattern files the test needs.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Module describes one module directory.
type Module struct {
	Name   string
	Config string            // contents of config.yml
	Files  map[string]string // path relative to the module root -> contents
}

// WriteModule creates parent/<m.Name> and returns its path.
func WriteModule(t *testing.T, parent string, m Module) string {
	t.Helper()
	root := filepath.Join(parent, m.Name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("creating module %s: %v", m.Name, err)
	}
	if m.Config != "" {
		WriteFile(t, filepath.Join(root, "config.yml"), m.Config)
	}
	for rel, content := range m.Files {
		WriteFile(t, filepath.Join(root, rel), content)
	}
	return root
}

// WriteModules creates every module under a fresh temp dir and returns the
// temp dir together with a name -> root map.
func WriteModules(t *testing.T, modules ...Module) (string, map[string]string) {
	t.Helper()
	parent := RealTempDir(t)
	roots := make(map[string]string, len(modules))
	for _, m := range modules {
		roots[m.Name] = WriteModule(t, parent, m)
	}
	return parent, roots
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// RealTempDir is t.TempDir with symlinks resolved, so that paths compare
// equal to the ones produced by filepath.EvalSymlinks (macOS /var vs /private/var).
func RealTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temp dir: %v", err)
	}
	return dir
}
