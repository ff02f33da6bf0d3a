package flow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ResolveSubmoduleSources returns the rtl sources of every module cfg depends
// on, dependencies first. Each submodule is looked up as a sibling directory
// of the module that names it and contributes its sources exactly once, after
// the sources of its own submodules. cfg's own sources are not included.
//
// A submodule that depends on itself, directly or through others, is an
// ErrSubmoduleCycle. A module reached twice over different paths is not a
// cycle and is simply included once.
func ResolveSubmoduleSources(cfg *ModuleConfig, load ConfigLoader) ([]string, error) {
	if load == nil {
		load = LoadModuleConfig
	}
	r := &resolver{
		load:    load,
		visited: map[string]bool{cfg.Name(): true},
		active:  []string{cfg.Name()},
	}
	if err := r.walk(cfg); err != nil {
		return nil, err
	}
	logrus.Debugf("resolved hierarchy of %s: %v", cfg.Name(), r.order)
	return r.sources, nil
}

type resolver struct {
	load    ConfigLoader
	visited map[string]bool // modules whose sources are already collected, seeded with the top
	active  []string        // modules on the current descent path
	order   []string
	sources []string
}

func (r *resolver) onPath(name string) bool {
	for _, n := range r.active {
		if n == name {
			return true
		}
	}
	return false
}

func (r *resolver) walk(cfg *ModuleConfig) error {
	for _, name := range cfg.Submodules {
		if r.onPath(name) {
			chain := append(append([]string{}, r.active...), name)
			return fmt.Errorf("%w: %s", ErrSubmoduleCycle, strings.Join(chain, " -> "))
		}
		if r.visited[name] {
			continue
		}
		sub, err := r.loadSibling(cfg, name)
		if err != nil {
			return err
		}
		r.active = append(r.active, name)
		if err := r.walk(sub); err != nil {
			return err
		}
		r.active = r.active[:len(r.active)-1]
		r.visited[name] = true
		r.order = append(r.order, name)
		r.sources = append(r.sources, sub.SourceList(CategoryRTL)...)
	}
	return nil
}

func (r *resolver) loadSibling(parent *ModuleConfig, name string) (*ModuleConfig, error) {
	if err := validateCaseName(name); err != nil {
		return nil, fmt.Errorf("%w: invalid submodule name %q in %s", ErrConfig, name, parent.Name())
	}
	dir := filepath.Join(filepath.Dir(parent.Root), name)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: submodule %q of %s not found at %s", ErrConfig, name, parent.Name(), dir)
	}
	sub, err := r.load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading submodule %q: %w", name, err)
	}
	return sub, nil
}
