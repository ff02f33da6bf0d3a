// Package cordic provides the pattern plugins for a 16-bit CORDIC core:
// a generator for vector and rotate mode stimulus, and a comparator that
// accepts small numeric errors and phase wrap-around.
package cordic

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/vhdl-tools/hdlflow/flow/fixedpoint"
	"github.com/vhdl-tools/hdlflow/flow/pattern"
)

// DataWidth is the width of every x, y and theta word.
const DataWidth = 16

const (
	ModeVector = "vector"
	ModeRotate = "rotate"
)

// Variable configures how one per-pattern input is drawn.
type Variable struct {
	Mode  string  `yaml:"mode"`  // "random" or "fixed"
	Range []int64 `yaml:"range"` // [lo, hi) for random
	Seed  int64   `yaml:"seed"`
	Value int64   `yaml:"value"` // for fixed
}

// Config is the generated_cases entry of a CORDIC case.
type Config struct {
	NPat      int       `yaml:"n_pat"`
	Mode      string    `yaml:"cordic_mode"`
	Ampl      *Variable `yaml:"ampl"`
	ThetaInit *Variable `yaml:"theta_init"`
	Timeout   string    `yaml:"timeout"`
}

// Generator writes CORDIC stimulus and golden output.
type Generator struct {
	cfg     Config
	inFile  string
	outFile string
}

// NewGenerator decodes and validates the case parameters.
func NewGenerator(gc pattern.GeneratorConfig) (pattern.Generator, error) {
	var cfg Config
	if err := gc.Params.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("cordic case %q: %w", gc.Case, err)
	}
	if cfg.NPat <= 0 {
		return nil, fmt.Errorf("cordic case %q: n_pat must be positive, got %d", gc.Case, cfg.NPat)
	}
	if cfg.Mode != ModeVector && cfg.Mode != ModeRotate {
		return nil, fmt.Errorf("cordic case %q: unknown cordic_mode %q; valid: vector, rotate", gc.Case, cfg.Mode)
	}
	for name, v := range map[string]*Variable{"ampl": cfg.Ampl, "theta_init": cfg.ThetaInit} {
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("cordic case %q: %s: %w", gc.Case, name, err)
		}
	}
	if gc.InputFile == "" || len(gc.GoldenFiles) == 0 {
		return nil, fmt.Errorf("cordic case %q: pat_in and pat_out must be configured", gc.Case)
	}
	return &Generator{cfg: cfg, inFile: gc.InputFile, outFile: gc.GoldenFiles[0]}, nil
}

func (v *Variable) validate() error {
	if v == nil {
		return nil
	}
	switch v.Mode {
	case "random":
		if len(v.Range) != 2 || v.Range[0] >= v.Range[1] {
			return fmt.Errorf("random range must be [lo, hi) with lo < hi, got %v", v.Range)
		}
	case "fixed":
	default:
		return fmt.Errorf("unknown mode %q; valid: random, fixed", v.Mode)
	}
	return nil
}

// values draws n samples. A nil variable yields zeros. Every random variable
// is seeded on its own so one variable's draws do not shift another's.
func (v *Variable) values(n int) []int64 {
	out := make([]int64, n)
	if v == nil {
		return out
	}
	if v.Mode == "fixed" {
		for i := range out {
			out[i] = v.Value
		}
		return out
	}
	rng := rand.New(rand.NewSource(v.Seed))
	span := v.Range[1] - v.Range[0]
	for i := range out {
		out[i] = v.Range[0] + rng.Int63n(span)
	}
	return out
}

// sweep returns n integers spread evenly over [0, hi], truncated.
func sweep(n int, hi int64) []int64 {
	out := make([]int64, n)
	if n == 1 {
		return out
	}
	for i := range out {
		out[i] = int64(float64(i) * float64(hi) / float64(n-1))
	}
	return out
}

// polar returns trunc(r*cos(phase)) and trunc(r*sin(phase)) with phase in
// units of 2^DataWidth per turn.
func polar(r, phase int64) (int64, int64) {
	angle := 2 * math.Pi * float64(phase) / float64(int64(1)<<DataWidth)
	fr := float64(r)
	return int64(fr * math.Cos(angle)), int64(fr * math.Sin(angle))
}

// Generate implements pattern.Generator.
func (g *Generator) Generate(dir string) error {
	n := g.cfg.NPat
	mask := int64(1)<<DataWidth - 1
	ampl := g.cfg.Ampl.values(n)
	thetaInit := g.cfg.ThetaInit.values(n)
	theta := sweep(n, mask)

	vector := g.cfg.Mode == ModeVector
	mode := int64(0)
	if vector {
		mode = 1
	}

	in := make([][]int64, 0, n)
	out := make([][]int64, 0, n)
	for i := 0; i < n; i++ {
		phaseIn, phaseOut := thetaInit[i], (theta[i]+thetaInit[i])&mask
		thetaIn, thetaOut := theta[i], int64(0)
		if vector {
			phaseIn, phaseOut = theta[i], 0
			thetaIn, thetaOut = 0, theta[i]
		}
		x, y := polar(ampl[i], phaseIn)
		in = append(in, []int64{mode, x, y, thetaIn})

		// The RTL normalizes small vectors with a leading zero/one shifter
		// before iterating; the golden magnitude carries the same shift.
		shift := uint(0)
		if vector {
			hi := int64(1)<<(DataWidth-3) - 1
			lo := -(int64(1) << (DataWidth - 3))
			for (x != 0 || y != 0) && x >= lo && x <= hi && y >= lo && y <= hi {
				x, y = x*2, y*2
				shift++
			}
		}
		xo, yo := polar(ampl[i]<<shift, phaseOut)
		out = append(out, []int64{xo, yo, thetaOut})
	}

	if err := writeRecords(filepath.Join(dir, g.inFile), "# mode, x, y, theta", in, true); err != nil {
		return err
	}
	if err := writeRecords(filepath.Join(dir, g.outFile), "", out, false); err != nil {
		return err
	}
	logrus.Debugf("cordic: wrote %d %s patterns to %s", n, g.cfg.Mode, dir)
	return nil
}

// writeRecords writes one space-separated record per line. With leadingMode
// set, the first field is written in decimal and the rest as 16-bit hex.
func writeRecords(path, header string, records [][]int64, leadingMode bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if header != "" {
		_, _ = fmt.Fprintln(w, header)
	}
	for _, rec := range records {
		for j, v := range rec {
			if j > 0 {
				_ = w.WriteByte(' ')
			}
			if j == 0 && leadingMode {
				_, _ = fmt.Fprintf(w, "%d", v)
				continue
			}
			_, _ = w.WriteString(fixedpoint.Encode(v, DataWidth))
		}
		_ = w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
