package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/gridwords/internal/dictionary"
	"github.com/specialistvlad/gridwords/internal/filter"
	"github.com/specialistvlad/gridwords/internal/hcl_adapter"
	"github.com/specialistvlad/gridwords/internal/model"
	"github.com/specialistvlad/gridwords/internal/testutil"
	"github.com/specialistvlad/gridwords/internal/traversal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup writes a run file plus a dictionary into a temp dir and builds the
// app. body may use %[1]s for the directory.
func setup(t *testing.T, body string, words ...string) (*App, *strings.Builder, *testutil.SafeBuffer, string) {
	t.Helper()

	dir := testutil.WriteFiles(t, map[string]string{
		"words": strings.Join(words, "\n") + "\n",
	})
	runFile := filepath.Join(dir, "run.hcl")
	require.NoError(t, os.WriteFile(runFile, []byte(fmt.Sprintf(body, dir)), 0o644))

	out := &strings.Builder{}
	logs := &testutil.SafeBuffer{}
	cfg, err := NewConfig(Config{ConfigPaths: []string{runFile}, LogLevel: "debug", LogFormat: "text", WorkerCount: 2})
	require.NoError(t, err)

	a, err := NewApp(out, logs, cfg, hcl_adapter.NewLoader(hcl_adapter.WithEnv(map[string]string{})))
	require.NoError(t, err)
	t.Cleanup(func() {
		if os.Getenv("GRIDWORDS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs, dir
}

func TestRun_FixedGridWithoutFilter(t *testing.T) {
	t.Parallel()

	a, out, logs, _ := setup(t, `
		run {
		  min_word_length = 2
		  filter_enabled  = false
		}
		grid       { rows = [["a", "b"], ["c", "d"]] }
		dictionary { path = "%[1]s/words" }
	`, "ab", "ac", "abd", "zzz")

	require.NoError(t, a.Run(context.Background()))

	r := a.Report()
	require.NotNil(t, r)
	assert.Equal(t, []string{"ab", "abd", "ac"}, r.Words)
	assert.Equal(t, traversal.ReasonExhausted, r.Reason)
	assert.Equal(t, 4, r.Iterations)
	assert.Equal(t, 64, r.Records)
	assert.Equal(t, "ab [[0,0][0,1]] true\nabd [[0,0][0,1][1,1]] true\nac [[0,0][1,0]] true\n", out.String())
	assert.Contains(t, logs.String(), "Iteration finished.")
	assert.Contains(t, logs.String(), "reason=exhausted")
}

func TestRun_FilterFileStoreAndOutputFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bloom := filepath.Join(dir, "bloom.out")
	require.NoError(t, filter.Build(dictionary.New("quit", "quiet", "tie"), 0, 0).Save(bloom))

	a, out, _, tmp := setup(t, `
		run        { max_iterations = 6 }
		grid       { path = "%[1]s/roll.txt" }
		dictionary { path = "%[1]s/words" }
		filter     { path = "`+bloom+`" }
		store {
		  kind = "file"
		  dir  = "%[1]s/stage"
		}
		output { path = "%[1]s/found.txt" }
	`, "quit", "quiet", "tie")
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "roll.txt"), []byte("2\nqu,i,\nt,e,\n"), 0o644))

	require.NoError(t, a.Run(context.Background()))
	assert.Empty(t, out.String())

	found, err := os.ReadFile(filepath.Join(tmp, "found.txt"))
	require.NoError(t, err)
	assert.Equal(t, "quiet [[0,0][0,1][1,1][1,0]] true\nquit [[0,0][0,1][1,0]] true\ntie [[1,0][0,1][1,1]] true\n", string(found))
	assert.Equal(t, []string{"quiet", "quit", "tie"}, a.Report().Words)

	entries, err := os.ReadDir(filepath.Join(tmp, "stage"))
	require.NoError(t, err)
	assert.Empty(t, entries, "the run directory is removed unless keep is set")
}

func TestRun_SeededDiceAreReproducible(t *testing.T) {
	t.Parallel()

	body := `
		run {
		  filter_enabled = false
		  max_iterations = 2
		}
		grid {
		  dice = "old"
		  seed = 99
		}
		dictionary { path = "%[1]s/words" }
	`
	a, _, _, _ := setup(t, body, "at")
	b, _, _, _ := setup(t, body, "at")
	require.NoError(t, a.Run(context.Background()))
	require.NoError(t, b.Run(context.Background()))

	assert.Equal(t, 4, a.Report().GridSize)
	assert.Equal(t, traversal.ReasonIterationLimit, a.Report().Reason)
	assert.Equal(t, a.Report().Passes[1].Paths, b.Report().Passes[1].Paths)
	assert.Equal(t, a.Report().Matches, b.Report().Matches)
}

func TestRun_MissingDictionaryFileIsConfigurationError(t *testing.T) {
	t.Parallel()

	a, _, _, _ := setup(t, `
		run        { filter_enabled = false }
		dictionary { path = "%[1]s/missing" }
	`)
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestRun_MissingFilterFileIsConfigurationError(t *testing.T) {
	t.Parallel()

	a, _, _, _ := setup(t, `
		dictionary { path = "%[1]s/words" }
		filter     { path = "%[1]s/missing" }
	`, "cat")
	err := a.Run(context.Background())
	var cfgErr *model.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "filter.path", cfgErr.Field)
}

func TestNewApp_ValidatesRunFile(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{"run.hcl": `run { filter_enabled = false }`})
	cfg, err := NewConfig(Config{ConfigPaths: []string{dir}})
	require.NoError(t, err)

	_, err = NewApp(&strings.Builder{}, &testutil.SafeBuffer{}, cfg, hcl_adapter.NewLoader())
	require.ErrorIs(t, err, model.ErrConfiguration)
	assert.Contains(t, err.Error(), "dictionary.path")

	_, err = NewApp(&strings.Builder{}, &testutil.SafeBuffer{}, &Config{ConfigPaths: []string{filepath.Join(dir, "nope.hcl")}}, hcl_adapter.NewLoader())
	require.ErrorIs(t, err, model.ErrConfiguration)
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{})
	require.Error(t, err)
	_, err = NewConfig(Config{ConfigPaths: []string{"x"}, HealthcheckPort: 70000})
	require.Error(t, err)
	_, err = NewConfig(Config{ConfigPaths: []string{"x"}, WorkerCount: -1})
	require.Error(t, err)
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	t.Parallel()

	a, _, _, _ := setup(t, `
		run {
		  filter_enabled  = false
		  min_word_length = 2
		}
		grid       { rows = [["a", "b"], ["c", "d"]] }
		dictionary { path = "%[1]s/words" }
	`, "ab")
	require.NoError(t, a.Run(context.Background()))

	srv := httptest.NewServer(a.handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gridwords_iterations_total 4")
	assert.Contains(t, string(body), `gridwords_runs_total{reason="exhausted"} 1`)
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestWriteOutput_ReportsFailures(t *testing.T) {
	t.Parallel()

	a, _, _, dir := setup(t, `
		run { filter_enabled = false }
		grid       { rows = [["a"]] }
		dictionary { path = "%[1]s/words" }
	`, "ab")

	t.Run("writer error", func(t *testing.T) {
		boom := errors.New("disk full")
		err := writeLines(failingWriter{err: boom}, []string{"abc [[0,0]] true"})
		require.ErrorIs(t, err, boom)
	})

	t.Run("output path is a directory", func(t *testing.T) {
		a.config.Output.Path = dir
		err := a.writeOutput([]string{"abc [[0,0]] true"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create output file")
	})

	t.Run("file is complete after close", func(t *testing.T) {
		a.config.Output.Path = filepath.Join(dir, "out.txt")
		require.NoError(t, a.writeOutput([]string{"abc [[0,0]] true", "abd [[0,1]] true"}))
		got, err := os.ReadFile(a.config.Output.Path)
		require.NoError(t, err)
		assert.Equal(t, "abc [[0,0]] true\nabd [[0,1]] true\n", string(got))
	})
}
