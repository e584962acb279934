package hcl_adapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/gridwords/internal/config"
	"github.com/specialistvlad/gridwords/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, files map[string]string, env map[string]string) (*config.Model, error) {
	t.Helper()
	dir := testutil.WriteFiles(t, files)
	return NewLoader(WithEnv(env)).Load(context.Background(), dir)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	m, err := load(t, map[string]string{
		"run.hcl": `dictionary { path = "words" }`,
	}, nil)
	require.NoError(t, err)

	want := config.Default()
	want.Dictionary.Path = "words"
	assert.Empty(t, cmp.Diff(want, m))
}

func TestLoad_AllBlocks(t *testing.T) {
	t.Parallel()

	m, err := load(t, map[string]string{
		"main.hcl": `
			run {
			  min_word_length = 2
			  max_iterations  = 6
			  filter_enabled  = false
			  partitions      = 8
			  retries         = 0
			}
			grid {
			  dice = "random"
			  size = 6
			  seed = 42
			}
			dictionary { path = env.DICT }
			filter     { path = "${env.HOME}/bloom.out" }
			store {
			  kind = "file"
			  dir  = "/tmp/gw"
			  keep = true
			}
			output   { path = "words.txt" }
			progress { url = "http://localhost:3000" }
		`,
	}, map[string]string{"DICT": "/usr/share/dict/words", "HOME": "/home/me"})
	require.NoError(t, err)

	seed := uint64(42)
	want := &config.Model{
		Run:        config.Run{MinWordLength: 2, MaxIterations: 6, FilterEnabled: false, Partitions: 8, Retries: 0},
		Grid:       config.Grid{Dice: "random", Size: 6, Seed: &seed},
		Dictionary: config.Dictionary{Path: "/usr/share/dict/words"},
		Filter:     config.Filter{Path: "/home/me/bloom.out"},
		Store:      config.Store{Kind: "file", Dir: "/tmp/gw", Keep: true},
		Output:     config.Output{Path: "words.txt"},
		Progress:   &config.Progress{URL: "http://localhost:3000", Namespace: "/"},
	}
	assert.Empty(t, cmp.Diff(want, m))
}

func TestLoad_Rows(t *testing.T) {
	t.Parallel()

	m, err := load(t, map[string]string{
		"grid.hcl": `grid { rows = [["a", "b"], ["qu", "d"]] }`,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"qu", "d"}}, m.Grid.Rows)
	assert.Nil(t, m.Grid.Seed)
}

func TestLoad_SeedFromEnvString(t *testing.T) {
	t.Parallel()

	m, err := load(t, map[string]string{
		"grid.hcl": `grid { seed = env.SEED }`,
	}, map[string]string{"SEED": "7"})
	require.NoError(t, err)
	require.NotNil(t, m.Grid.Seed)
	assert.Equal(t, uint64(7), *m.Grid.Seed)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		files       map[string]string
		errContains string
	}{
		{
			name:        "syntax",
			files:       map[string]string{"a.hcl": `run {`},
			errContains: "failed to parse",
		},
		{
			name:        "unknown attribute",
			files:       map[string]string{"a.hcl": `run { speed = 3 }`},
			errContains: "failed to decode",
		},
		{
			name:        "missing env",
			files:       map[string]string{"a.hcl": `dictionary { path = env.NOPE }`},
			errContains: "failed to decode",
		},
		{
			name:        "rows not a matrix",
			files:       map[string]string{"a.hcl": `grid { rows = "abcd" }`},
			errContains: "grid.rows",
		},
		{
			name:        "negative seed",
			files:       map[string]string{"a.hcl": `grid { seed = -1 }`},
			errContains: "grid.seed",
		},
		{
			name: "duplicate block across files",
			files: map[string]string{
				"a.hcl": `dictionary { path = "a" }`,
				"b.hcl": `dictionary { path = "b" }`,
			},
			errContains: "duplicate \"dictionary\" block",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := load(t, tc.files, map[string]string{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)

	_, err = NewLoader().Load(context.Background(), t.TempDir())
	require.ErrorContains(t, err, "no .hcl files")
}
