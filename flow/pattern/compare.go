package pattern

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"

	"github.com/vhdl-tools/hdlflow/flow/report"
)

// ErrMissingFile is returned when a golden or produced pattern file does not exist.
var ErrMissingFile = errors.New("pattern file not found")

// LineFunc decides whether a produced line matches its golden line. Both
// lines arrive trimmed and lower-cased. When they do not match, detail
// describes the difference.
type LineFunc func(golden, produced string) (ok bool, detail string)

// ExactLine is the default predicate: string equality.
func ExactLine(golden, produced string) (bool, string) {
	if golden == produced {
		return true, ""
	}
	return false, fmt.Sprintf("expected %s != result %s", golden, produced)
}

// LineComparator pairs files line by line and counts mismatches with Line.
// Specialized comparators reuse it by supplying their own predicate.
type LineComparator struct {
	Pairs Pairs
	Line  LineFunc
}

// NewLineComparator returns a LineComparator over pairs.
func NewLineComparator(pairs Pairs, line LineFunc) *LineComparator {
	return &LineComparator{Pairs: pairs, Line: line}
}

// Compare implements Comparator.
func (c *LineComparator) Compare(w io.Writer) (int, error) {
	total := 0
	for _, p := range c.Pairs {
		n, err := DiffFile(w, p, c.Line)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DiffFile compares one pair. Lines are paired by position (1-based) after
// trimming and lower-casing. Every mismatching line counts one error, and a
// difference in line count adds |len(golden) - len(produced)|.
func DiffFile(w io.Writer, p Pair, line LineFunc) (int, error) {
	golden, err := readLines(p.Golden)
	if err != nil {
		return 0, fmt.Errorf("golden pattern: %w", err)
	}
	produced, err := readLines(p.Produced)
	if err != nil {
		return 0, fmt.Errorf("DUT output: %w", err)
	}

	errs := 0
	n := min(len(golden), len(produced))
	for i := 0; i < n; i++ {
		if ok, detail := line(golden[i], produced[i]); !ok {
			report.Mismatchf(w, "Mismatch at line %d: %s", i+1, detail)
			errs++
		}
	}
	if len(golden) != len(produced) {
		report.Mismatchf(w, "Mismatch at end: lines of expected %d != result %d", len(golden), len(produced))
		errs += abs(len(golden) - len(produced))
	}

	_, _ = fmt.Fprintf(w, "Checking %s: %d errors\n", filepath.Base(p.Produced), errs)
	if errs != 0 {
		report.Fail(w)
		logUnifiedDiff(p, golden, produced)
	}
	return errs, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.ToLower(strings.TrimSpace(scanner.Text())))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

// logUnifiedDiff dumps the full normalized diff at debug level.
func logUnifiedDiff(p Pair, golden, produced []string) {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	diff := difflib.UnifiedDiff{
		A:        withNewlines(golden),
		B:        withNewlines(produced),
		FromFile: p.Golden,
		ToFile:   p.Produced,
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		logrus.Debugf("diff %s: %v", p.Produced, err)
		return
	}
	logrus.Debugf("normalized diff:\n%s", text)
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
