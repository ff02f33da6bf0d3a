package flow

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vhdl-tools/hdlflow/flow/report"
)

// SummaryFileName is written into the work dir after a simulation run.
const SummaryFileName = "summary.json"

// CaseResult is the outcome of one case. Errors is the comparator's count,
// or the simulator log's error count when SimFailed is set.
type CaseResult struct {
	Name      string `json:"name"`
	Errors    int    `json:"errors"`
	SimFailed bool   `json:"sim_failed,omitempty"`
}

// Passed reports whether the case had no errors.
func (r CaseResult) Passed() bool {
	return r.Errors == 0 && !r.SimFailed
}

// Summary collects case results in the order the cases ran.
type Summary struct {
	Cases []CaseResult `json:"cases"`
}

// Record appends one case result.
func (s *Summary) Record(r CaseResult) {
	s.Cases = append(s.Cases, r)
}

// Passed reports whether every recorded case passed.
func (s *Summary) Passed() bool {
	for _, c := range s.Cases {
		if !c.Passed() {
			return false
		}
	}
	return true
}

// Failed returns the names of failing cases.
func (s *Summary) Failed() []string {
	var names []string
	for _, c := range s.Cases {
		if !c.Passed() {
			names = append(names, c.Name)
		}
	}
	return names
}

// Print writes the per-case table and the overall verdict banner.
func (s *Summary) Print(w io.Writer) {
	report.Banner(w, "SIMULATION SUMMARY")
	for _, c := range s.Cases {
		verdict := report.Green("Pass")
		if !c.Passed() {
			verdict = report.Red("Fail")
		}
		note := ""
		if c.SimFailed {
			note = ", simulation log"
		}
		_, _ = fmt.Fprintf(w, "Case [%s]: %s (%d errors%s)\n", c.Name, verdict, c.Errors, note)
	}
	if s.Passed() {
		report.Pass(w)
	} else {
		report.Fail(w)
	}
}

// Save writes the summary as JSON to path.
func (s *Summary) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
