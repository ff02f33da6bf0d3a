package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanner_FramesMessage(t *testing.T) {
	var buf bytes.Buffer
	Banner(&buf, "COMPILE")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "* COMPILE *", lines[1])
	assert.Equal(t, "***********", lines[0])
	assert.Equal(t, lines[0], lines[2])
}

func TestPassFail_WriteVerdictStrings(t *testing.T) {
	var buf bytes.Buffer
	Pass(&buf)
	Fail(&buf)
	assert.Contains(t, buf.String(), PassString)
	assert.Contains(t, buf.String(), FailString)
}

func TestMismatchf_FormatsLine(t *testing.T) {
	var buf bytes.Buffer
	Mismatchf(&buf, "Mismatch at line %d", 2)
	assert.Contains(t, buf.String(), "Mismatch at line 2")
}
