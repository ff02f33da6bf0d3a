package cordic

import (
	"fmt"
	"strings"

	"github.com/vhdl-tools/hdlflow/flow/fixedpoint"
	"github.com/vhdl-tools/hdlflow/flow/pattern"
)

// Tolerance is the largest absolute difference accepted per field.
const Tolerance = 8

var fieldNames = []string{"x", "y", "theta"}

// NewComparator returns a line comparator using CompareLine.
func NewComparator(pairs pattern.Pairs) (pattern.Comparator, error) {
	return pattern.NewLineComparator(pairs, CompareLine), nil
}

// CompareLine decodes both lines as space-separated signed 16-bit fields and
// accepts each field within Tolerance. A difference within Tolerance of the
// full 2^16 modulus is a wrap between 0x7fff and 0x8000 and is accepted too.
func CompareLine(golden, produced string) (bool, string) {
	g, err := decodeFields(golden)
	if err != nil {
		return false, fmt.Sprintf("golden %q: %v", golden, err)
	}
	d, err := decodeFields(produced)
	if err != nil {
		return false, fmt.Sprintf("result %q: %v", produced, err)
	}

	var msg strings.Builder
	for i := 0; i < min(len(g), len(d)); i++ {
		if withinTolerance(g[i], d[i]) {
			continue
		}
		name := fmt.Sprintf("field%d", i)
		if i < len(fieldNames) {
			name = fieldNames[i]
		}
		fmt.Fprintf(&msg, "\n  %s: expected(%s) differ from result(%s) too much!",
			name, fixedpoint.Encode(g[i], DataWidth), fixedpoint.Encode(d[i], DataWidth))
	}
	if len(g) != len(d) {
		fmt.Fprintf(&msg, "\n  fields of expected %d != result %d", len(g), len(d))
	}
	if msg.Len() == 0 {
		return true, ""
	}
	return false, msg.String()
}

func withinTolerance(g, d int64) bool {
	diff := abs64(g - d)
	if diff <= Tolerance {
		return true
	}
	return abs64(diff-int64(1)<<DataWidth) < Tolerance
}

func decodeFields(line string) ([]int64, error) {
	tokens := strings.Fields(line)
	values := make([]int64, len(tokens))
	for i, tok := range tokens {
		v, err := fixedpoint.DecodeSigned(tok, DataWidth)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
