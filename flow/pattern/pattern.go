// Package pattern defines the plugin contracts for pattern cases.
//
// A Generator produces the stimulus and golden files of a generated case. A
// Comparator checks produced simulator output against golden files and
// returns an error count. Plugins register a factory under an identifier
// (see RegisterGenerator and RegisterComparator); module configurations refer
// to them by that identifier through pat_gen_script and pat_comp_script.
//
// Sub-packages such as pattern/cordic register themselves in init(), so a
// binary only needs a blank import to make a plugin available.
package pattern

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Params is the free-form configuration of one generated case, as written
// under generated_cases.<name> in config.yml.
type Params map[string]any

// Decode converts p into out by round-tripping through YAML. Unknown keys
// are rejected so that a misspelled option fails instead of being ignored.
func (p Params) Decode(out any) error {
	data, err := yaml.Marshal(map[string]any(p))
	if err != nil {
		return fmt.Errorf("encoding params: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decoding params: %w", err)
	}
	return nil
}

// String returns p[key] if it is a string.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

// GeneratorConfig is what a generator factory receives for one case.
type GeneratorConfig struct {
	Case        string   // case name, also the case directory name
	Params      Params   // per-case configuration
	InputFile   string   // stimulus file name (sim.pat_in)
	GoldenFiles []string // expected-output file names (sim.pat_out)
}

// Generator writes the stimulus and golden files of a case into dir.
// Output must be a deterministic function of the configuration, including
// any seed it carries.
type Generator interface {
	Generate(dir string) error
}

// Comparator compares every configured golden/produced pair, writes
// diagnostics to w, and returns the total number of errors.
type Comparator interface {
	Compare(w io.Writer) (int, error)
}

// GeneratorFactory builds a Generator for one case.
type GeneratorFactory func(cfg GeneratorConfig) (Generator, error)

// ComparatorFactory builds a Comparator over the given pairs.
type ComparatorFactory func(pairs Pairs) (Comparator, error)
