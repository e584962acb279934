package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/gridwords/internal/model"
	"github.com/stretchr/testify/require"
)

// Grid builds a grid from rows written as space separated tokens, e.g.
// Grid(t, "a b", "c d").
func Grid(t *testing.T, rows ...string) *model.Grid {
	t.Helper()
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = strings.Fields(r)
	}
	g, err := model.NewGrid(cells)
	require.NoError(t, err)
	return g
}

// WriteFiles writes name → content pairs below a fresh temporary directory
// and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}
