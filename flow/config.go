package flow

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vhdl-tools/hdlflow/flow/pattern"
)

// ConfigFileName is the module configuration file expected in every module root.
const ConfigFileName = "config.yml"

// Source categories with a fixed role in the pipeline.
const (
	CategoryRTL = "rtl"
	CategoryTB  = "tb"
)

// ModuleConfig describes one design module.
type ModuleConfig struct {
	Root       string              // absolute module directory
	Sources    map[string][]string // category -> absolute source paths, in compile order
	Submodules []string            // sibling module names, in declared order
	Sim        SimConfig
}

// Name is the module's directory name, which is also how siblings refer to it.
func (m *ModuleConfig) Name() string {
	return filepath.Base(m.Root)
}

// SourceList returns the sources of category, nil if none are declared.
func (m *ModuleConfig) SourceList(category string) []string {
	return m.Sources[category]
}

// SimConfig is the sim section of config.yml.
type SimConfig struct {
	TopName        string
	PatternIn      string
	PatternOut     []string // golden files, paired positionally with DUTOut
	DUTOut         []string
	Generator      string // registered generator identifier, optional
	Comparator     string // registered comparator identifier, empty for the default
	FixedCases     []string
	GeneratedCases []GeneratedCase
	Timeout        string
}

// GeneratedCase is one entry of sim.generated_cases, in declared order.
type GeneratedCase struct {
	Name   string
	Params pattern.Params
}

// Snapshot is the name of the elaborated design.
func (s *SimConfig) Snapshot() string {
	return s.TopName + "_sim"
}

// Pairs returns the golden/produced file pairs compared in every case.
func (s *SimConfig) Pairs() (pattern.Pairs, error) {
	return pattern.Zip(s.PatternOut, s.DUTOut)
}

// FileList accepts either a YAML sequence of names or a single
// whitespace-separated string.
type FileList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FileList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*f = strings.Fields(value.Value)
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		*f = names
		return nil
	default:
		return fmt.Errorf("line %d: expected a file name, a list of names or null", value.Line)
	}
}

// caseList decodes sim.generated_cases keeping the declared key order.
type caseList []GeneratedCase

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *caseList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: generated_cases must be a mapping of case name to settings", value.Line)
	}
	cases := make(caseList, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, body := value.Content[i], value.Content[i+1]
		params := pattern.Params{}
		if body.ShortTag() != "!!null" {
			if err := body.Decode(&params); err != nil {
				return fmt.Errorf("generated case %q: %w", key.Value, err)
			}
		}
		cases = append(cases, GeneratedCase{Name: key.Value, Params: params})
	}
	*c = cases
	return nil
}

type rawModuleConfig struct {
	SrcList    map[string]FileList `yaml:"src_list"`
	Submodules []string            `yaml:"submodules"`
	Sim        rawSimConfig        `yaml:"sim"`
}

type rawSimConfig struct {
	TopName        string   `yaml:"top_name"`
	PatIn          string   `yaml:"pat_in"`
	PatOut         FileList `yaml:"pat_out"`
	DUTOut         FileList `yaml:"dut_out"`
	PatGenScript   string   `yaml:"pat_gen_script"`
	PatCompScript  string   `yaml:"pat_comp_script"`
	FixedCases     []string `yaml:"fixed_cases"`
	GeneratedCases caseList `yaml:"generated_cases"`
	Timeout        string   `yaml:"timeout"`
}

// ConfigLoader loads the module rooted at a directory.
type ConfigLoader func(root string) (*ModuleConfig, error)

// LoadModuleConfig reads root/config.yml. Unknown keys are rejected. Source
// entries are resolved to absolute paths under root/<category>/, with
// wildcard entries expanded against that directory.
func LoadModuleConfig(root string) (*ModuleConfig, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	path := filepath.Join(abs, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingAsset, path)
		}
		return nil, fmt.Errorf("reading module config: %w", err)
	}
	var raw rawModuleConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrConfig, path, err)
	}

	cfg := &ModuleConfig{
		Root:       abs,
		Sources:    make(map[string][]string, len(raw.SrcList)),
		Submodules: raw.Submodules,
		Sim: SimConfig{
			TopName:        raw.Sim.TopName,
			PatternIn:      raw.Sim.PatIn,
			PatternOut:     raw.Sim.PatOut,
			DUTOut:         raw.Sim.DUTOut,
			Generator:      raw.Sim.PatGenScript,
			Comparator:     raw.Sim.PatCompScript,
			FixedCases:     raw.Sim.FixedCases,
			GeneratedCases: raw.Sim.GeneratedCases,
			Timeout:        raw.Sim.Timeout,
		},
	}
	if cfg.Sim.Timeout == "" {
		cfg.Sim.Timeout = pattern.DefaultTimeout
	}
	for category, entries := range raw.SrcList {
		files, err := expandSources(filepath.Join(abs, category), entries)
		if err != nil {
			return nil, fmt.Errorf("%w: src_list.%s: %v", ErrConfig, category, err)
		}
		cfg.Sources[category] = files
	}
	logrus.Debugf("loaded module %s from %s", cfg.Name(), path)
	return cfg, nil
}

func isWildcard(entry string) bool {
	return strings.ContainsAny(entry, "*?[{")
}

// expandSources joins entries to dir, expanding wildcard entries against the
// files in dir in lexicographic order.
func expandSources(dir string, entries FileList) ([]string, error) {
	var files []string
	for _, entry := range entries {
		if !isWildcard(entry) {
			files = append(files, filepath.Join(dir, entry))
			continue
		}
		g, err := glob.Compile(entry)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %v", entry, err)
		}
		dirEntries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		var matched []string
		for _, de := range dirEntries {
			if !de.IsDir() && g.Match(de.Name()) {
				matched = append(matched, de.Name())
			}
		}
		if len(matched) == 0 {
			logrus.Warnf("pattern %q matched no files in %s", entry, dir)
		}
		sort.Strings(matched)
		for _, name := range matched {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

// ValidateSim checks everything a simulation run needs before any external
// tool is started: a top unit, consistent pattern lists, known plugins and
// usable case names.
func (m *ModuleConfig) ValidateSim() error {
	s := &m.Sim
	if s.TopName == "" {
		return fmt.Errorf("%w: sim.top_name is required", ErrConfig)
	}
	if _, err := s.Pairs(); err != nil {
		return fmt.Errorf("%w: pat_out/dut_out: %v", ErrConfig, err)
	}
	hasCases := len(s.FixedCases)+len(s.GeneratedCases) > 0
	if hasCases && len(s.PatternOut) == 0 {
		return fmt.Errorf("%w: cases are declared but pat_out/dut_out are empty", ErrConfig)
	}
	if s.Generator != "" && !pattern.HasGenerator(s.Generator) {
		return fmt.Errorf("%w: unknown pat_gen_script %q; registered: %v", ErrConfig, s.Generator, pattern.Generators())
	}
	if len(s.GeneratedCases) > 0 && s.Generator == "" {
		return fmt.Errorf("%w: generated_cases require pat_gen_script", ErrConfig)
	}
	if !pattern.HasComparator(s.Comparator) {
		return fmt.Errorf("%w: unknown pat_comp_script %q; registered: %v", ErrConfig, s.Comparator, pattern.Comparators())
	}

	seen := make(map[string]bool)
	names := append([]string{}, s.FixedCases...)
	for _, gc := range s.GeneratedCases {
		names = append(names, gc.Name)
	}
	for _, name := range names {
		if err := validateCaseName(name); err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("%w: case %q declared twice", ErrConfig, name)
		}
		seen[name] = true
	}
	return nil
}

func validateCaseName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid case name %q", ErrConfig, name)
	}
	return nil
}
