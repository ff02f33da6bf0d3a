package cordic

import "github.com/vhdl-tools/hdlflow/flow/pattern"

// Identifiers used in config.yml (sim.pat_gen_script / sim.pat_comp_script).
const (
	GeneratorName  = "pat_gen_cordic"
	ComparatorName = "pat_comp_cordic"
)

func init() {
	pattern.RegisterGenerator(GeneratorName, NewGenerator)
	pattern.RegisterComparator(ComparatorName, NewComparator)
}
