package flow

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhdl-tools/hdlflow/flow/internal/testutil"
)

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		t, err := time.Parse(workDirTimeFormat, ts)
		if err != nil {
			panic(err)
		}
		return t
	}
}

func TestCreateWorkDir_TimestampName_Reused(t *testing.T) {
	root := t.TempDir()
	ws := NewWorkspace(root)
	ws.Now = fixedClock("20260102030405")

	dir, err := ws.CreateWorkDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "work_20260102030405"), dir)
	assert.DirExists(t, dir)

	testutil.WriteFile(t, filepath.Join(dir, "keep.txt"), "x")
	again, err := ws.CreateWorkDir()
	require.NoError(t, err)
	assert.Equal(t, dir, again)
	assert.FileExists(t, filepath.Join(dir, "keep.txt"), "same-second rebuild keeps contents")
}

func TestLatestWorkDir_PicksNewest(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"work_20250101000000", "work_20261231235959", "work_20260615120000", "worker", "sim"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o755))
	}
	testutil.WriteFile(t, filepath.Join(root, "work_29991231235959"), "a file, not a dir")

	got, err := NewWorkspace(root).LatestWorkDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "work_20261231235959"), got)
}

func TestLatestWorkDir_NonTimestampSuffix_Skipped(t *testing.T) {
	// GIVEN two timestamped work dirs and a stray one sorting above both
	root := t.TempDir()
	for _, name := range []string{"work_20240101120000", "work_20250101120000", "work_backup", "work_2025010112000x"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o755))
	}

	// WHEN the latest work dir is looked up
	got, err := NewWorkspace(root).LatestWorkDir()

	// THEN only timestamped dirs are considered
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "work_20250101120000"), got)
}

func TestLatestWorkDir_OnlyStrayDirs_ReturnsMissingAsset(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "work_backup"), 0o755))

	_, err := NewWorkspace(root).LatestWorkDir()
	assert.ErrorIs(t, err, ErrMissingAsset)
}

func TestCaseDir_RejectsEscapingNames(t *testing.T) {
	dir, err := CaseDir("/work", "basic")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work", "basic"), dir)

	for _, name := range []string{"../..", "..", "a/b", ""} {
		_, err := CaseDir("/work", name)
		assert.ErrorIs(t, err, ErrConfig, "case %q", name)
	}
}

func TestLatestWorkDir_None_ReturnsMissingAsset(t *testing.T) {
	_, err := NewWorkspace(t.TempDir()).LatestWorkDir()
	assert.ErrorIs(t, err, ErrMissingAsset)
}

func TestCreateCaseDir_Idempotent(t *testing.T) {
	work := t.TempDir()
	a, err := CreateCaseDir(work, "basic")
	require.NoError(t, err)
	testutil.WriteFile(t, filepath.Join(a, "dut_out.txt"), "data")

	b, err := CreateCaseDir(work, "basic")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.FileExists(t, filepath.Join(b, "dut_out.txt"))

	_, err = CreateCaseDir(work, "../escape")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLinkAsset_Idempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "shared.txt")
	testutil.WriteFile(t, src, "golden")
	dst := filepath.Join(dir, "case", "shared.txt")
	require.NoError(t, os.Mkdir(filepath.Dir(dst), 0o755))

	require.NoError(t, LinkAsset(src, dst))
	require.NoError(t, LinkAsset(src, dst), "second link must not fail")

	target, err := os.Readlink(dst)
	require.NoError(t, err)
	assert.Equal(t, src, target)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "golden", string(data))
}

func TestLinkAsset_ExistingFile_NotOverwritten(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.tcl")
	dst := filepath.Join(dir, "dst.tcl")
	testutil.WriteFile(t, src, "new")
	testutil.WriteFile(t, dst, "mine")

	require.NoError(t, LinkAsset(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestLinkAsset_MissingSource_ReturnsMissingAsset(t *testing.T) {
	dir := t.TempDir()
	err := LinkAsset(filepath.Join(dir, "nope"), filepath.Join(dir, "link"))
	assert.ErrorIs(t, err, ErrMissingAsset)
}

func TestFindAsset_FirstMatchWins(t *testing.T) {
	root := t.TempDir()
	caseDir := filepath.Join(root, "sim", "basic")
	shared := filepath.Join(root, "sim")
	testutil.WriteFile(t, filepath.Join(shared, "sim.tcl"), "shared")

	got, err := FindAsset("sim.tcl", caseDir, shared)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(shared, "sim.tcl"), got)

	testutil.WriteFile(t, filepath.Join(caseDir, "sim.tcl"), "override")
	got, err = FindAsset("sim.tcl", caseDir, shared)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(caseDir, "sim.tcl"), got)

	_, err = FindAsset("missing.tcl", caseDir, shared)
	assert.ErrorIs(t, err, ErrMissingAsset)
}

func TestLinkBySuffix_LinksOnlyMatchingFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	testutil.WriteFile(t, filepath.Join(src, "pat_in.txt"), "in")
	testutil.WriteFile(t, filepath.Join(src, "pat_out.txt"), "out")
	testutil.WriteFile(t, filepath.Join(src, "sim.tcl"), "tcl")
	require.NoError(t, os.Mkdir(filepath.Join(src, "sub.txt"), 0o755))

	linked, err := LinkBySuffix(src, dst, ".txt")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pat_in.txt", "pat_out.txt"}, linked)
	assert.NoFileExists(t, filepath.Join(dst, "sim.tcl"))

	again, err := LinkBySuffix(src, dst, ".txt")
	require.NoError(t, err)
	assert.ElementsMatch(t, linked, again)
}
