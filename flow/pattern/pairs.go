package pattern

import (
	"fmt"
	"path/filepath"
)

// Pair is one golden file and the produced file it is checked against.
type Pair struct {
	Golden   string
	Produced string
}

// Pairs is the normalized form of a comparator's input: one pair or an
// ordered sequence of pairs.
type Pairs []Pair

// One returns a single-pair set.
func One(golden, produced string) Pairs {
	return Pairs{{Golden: golden, Produced: produced}}
}

// Zip pairs golden and produced positionally. The sequences must have the
// same length.
func Zip(golden, produced []string) (Pairs, error) {
	if len(golden) != len(produced) {
		return nil, fmt.Errorf("invalid pattern settings: %d golden files vs %d produced files", len(golden), len(produced))
	}
	pairs := make(Pairs, len(golden))
	for i := range golden {
		pairs[i] = Pair{Golden: golden[i], Produced: produced[i]}
	}
	return pairs, nil
}

// In returns a copy of ps with relative paths resolved against dir.
func (ps Pairs) In(dir string) Pairs {
	out := make(Pairs, len(ps))
	for i, p := range ps {
		out[i] = Pair{Golden: join(dir, p.Golden), Produced: join(dir, p.Produced)}
	}
	return out
}

func join(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
