// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByPrefix returns the regular files directly inside dir whose names
// start with prefix, sorted by name. A missing dir is returned as an error
// matching fs.ErrNotExist.
func FindFilesByPrefix(dir string, prefix string) ([]string, error) {
	if prefix == "" {
		panic("prefix must not be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.Type()&fs.ModeType != 0 {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
