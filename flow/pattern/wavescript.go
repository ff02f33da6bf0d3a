package pattern

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WaveScriptName is the wave-control script the simulator runs per case.
const WaveScriptName = "sim.tcl"

// DefaultTimeout is the simulation run length used when none is configured.
const DefaultTimeout = "1 ms"

// WriteWaveScript writes dir/sim.tcl logging all waves and running for
// timeout. An existing script is left untouched; the result reports whether
// a file was written.
func WriteWaveScript(dir, timeout string) (bool, error) {
	if _, err := os.Stat(dir); err != nil {
		return false, fmt.Errorf("wave script dir: %w", err)
	}
	if timeout == "" {
		timeout = DefaultTimeout
	}
	path := filepath.Join(dir, WaveScriptName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	_, werr := fmt.Fprintf(f, "log_wave -r -v /\nrun %s\nquit\n", timeout)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return false, fmt.Errorf("writing %s: %w", path, werr)
	}
	return true, nil
}
