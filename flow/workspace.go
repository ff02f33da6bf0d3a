package flow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Layout of a module root.
const (
	// WorkDirPrefix prefixes every build directory: work_YYYYMMDDHHMMSS.
	WorkDirPrefix = "work"
	// SharedAssetDir holds module-shared case assets, with one
	// subdirectory of case-specific assets per fixed case.
	SharedAssetDir = "sim"

	workDirTimeFormat = "20060102150405"
)

// Workspace creates and locates build directories under a module root.
// Work directories are never removed here.
type Workspace struct {
	Root   string
	Prefix string
	Now    func() time.Time
}

// NewWorkspace returns a Workspace for the module at root.
func NewWorkspace(root string) *Workspace {
	return &Workspace{Root: root, Prefix: WorkDirPrefix, Now: time.Now}
}

// CreateWorkDir creates root/<prefix>_<timestamp>. Two builds started within
// the same second share the directory.
func (w *Workspace) CreateWorkDir() (string, error) {
	name := fmt.Sprintf("%s_%s", w.Prefix, w.Now().Format(workDirTimeFormat))
	dir := filepath.Join(w.Root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating work dir: %w", err)
	}
	logrus.Infof("work dir: %s", dir)
	return dir, nil
}

// LatestWorkDir returns the most recent existing work directory. Only
// directories whose suffix is a work dir timestamp count; the timestamp is
// fixed-width, so lexicographic order is chronological.
func (w *Workspace) LatestWorkDir() (string, error) {
	entries, err := os.ReadDir(w.Root)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", w.Root, err)
	}
	var names []string
	for _, e := range entries {
		stamp, ok := strings.CutPrefix(e.Name(), w.Prefix+"_")
		if !e.IsDir() || !ok || len(stamp) != len(workDirTimeFormat) {
			continue
		}
		if _, err := time.Parse(workDirTimeFormat, stamp); err != nil {
			logrus.Debugf("skipping %s: not a work dir timestamp", e.Name())
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: no %s_* directory in %s", ErrMissingAsset, w.Prefix, w.Root)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return filepath.Join(w.Root, names[0]), nil
}

// SharedDir is the module-shared asset directory.
func (w *Workspace) SharedDir() string {
	return filepath.Join(w.Root, SharedAssetDir)
}

// CaseAssetDir is the case-specific asset directory of a fixed case.
func (w *Workspace) CaseAssetDir(name string) string {
	return filepath.Join(w.SharedDir(), name)
}

// CaseDir returns workDir/name after checking that name is a plain case
// name that stays inside workDir.
func CaseDir(workDir, name string) (string, error) {
	if err := validateCaseName(name); err != nil {
		return "", err
	}
	return filepath.Join(workDir, name), nil
}

// CreateCaseDir creates workDir/name if needed and returns its path.
func CreateCaseDir(workDir, name string) (string, error) {
	dir, err := CaseDir(workDir, name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating case dir: %w", err)
	}
	return dir, nil
}

// LinkAsset makes dst a symbolic link to src. An existing dst, link or
// not, is left as it is.
func LinkAsset(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		logrus.Debugf("link %s exists, keeping it", dst)
		return nil
	}
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingAsset, src)
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if err := os.Symlink(abs, dst); err != nil {
		return fmt.Errorf("linking %s -> %s: %w", dst, abs, err)
	}
	logrus.Debugf("linked %s -> %s", dst, abs)
	return nil
}

// FindAsset returns the first dirs[i]/name that exists.
func FindAsset(name string, dirs ...string) (string, error) {
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s not found in %s", ErrMissingAsset, name, strings.Join(dirs, ", "))
}

// LinkBySuffix links every regular file in srcDir whose name ends with
// suffix into dstDir under the same name, returning the linked names.
func LinkBySuffix(srcDir, dstDir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingAsset, srcDir)
		}
		return nil, err
	}
	var linked []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		if err := LinkAsset(filepath.Join(srcDir, e.Name()), filepath.Join(dstDir, e.Name())); err != nil {
			return linked, err
		}
		linked = append(linked, e.Name())
	}
	return linked, nil
}
