package flow

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_AllZero_Passes(t *testing.T) {
	var s Summary
	s.Record(CaseResult{Name: "a"})
	s.Record(CaseResult{Name: "b"})

	assert.True(t, s.Passed())
	assert.Empty(t, s.Failed())

	var buf bytes.Buffer
	s.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "SIMULATION SUMMARY")
	assert.Contains(t, out, "Case [a]: Pass (0 errors)")
	assert.Contains(t, out, "PASS ^__^")
	assert.NotContains(t, out, "FAIL")
}

func TestSummary_AnyNonZero_Fails(t *testing.T) {
	var s Summary
	s.Record(CaseResult{Name: "a"})
	s.Record(CaseResult{Name: "b", Errors: 3})
	s.Record(CaseResult{Name: "c", Errors: 1, SimFailed: true})

	assert.False(t, s.Passed())
	assert.Equal(t, []string{"b", "c"}, s.Failed())

	var buf bytes.Buffer
	s.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "Case [b]: Fail (3 errors)")
	assert.Contains(t, out, "Case [c]: Fail (1 errors, simulation log)")
	assert.Contains(t, out, "FAIL @__@")
}

func TestSummary_Empty_Passes(t *testing.T) {
	var s Summary
	assert.True(t, s.Passed())
}

func TestSummary_Save_WritesJSON(t *testing.T) {
	s := Summary{Cases: []CaseResult{{Name: "a", Errors: 2}}}
	path := filepath.Join(t.TempDir(), SummaryFileName)
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Summary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, s, got)
}
