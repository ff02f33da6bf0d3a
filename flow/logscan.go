package flow

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

// FatalKeywords are counted in every tool log; any occurrence fails the stage.
var FatalKeywords = []string{"error", "fatal_error"}

// CountKeyword counts case-insensitive whole-word occurrences of keyword in
// the file at path.
func CountKeyword(path, keyword string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: log %s", ErrMissingAsset, path)
		}
		return 0, err
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
	if err != nil {
		return 0, err
	}
	return len(re.FindAllIndex(data, -1)), nil
}

// CheckLog counts every FatalKeywords occurrence in the log at path and
// reports the total to w.
func CheckLog(w io.Writer, path string) (int, error) {
	total := 0
	for _, kw := range FatalKeywords {
		n, err := CountKeyword(path, kw)
		if err != nil {
			return 0, err
		}
		total += n
	}
	_, _ = fmt.Fprintf(w, "Checking %s: %d errors\n", filepath.Base(path), total)
	return total, nil
}
