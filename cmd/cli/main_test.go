package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/gridwords/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SolvesFixedGrid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dict := filepath.Join(dir, "words")
	require.NoError(t, os.WriteFile(dict, []byte("ab\nac\nabd\n"), 0o600))
	runFile := filepath.Join(dir, "run.hcl")
	require.NoError(t, os.WriteFile(runFile, []byte(`
run {
  min_word_length = 3
  filter_enabled  = false
}
grid       { rows = [["a", "b"], ["c", "d"]] }
dictionary { path = "`+dict+`" }
`), 0o600))

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := run(context.Background(), out, errOut, []string{"-log-level", "warn", runFile})
	require.NoError(t, err, errOut.String())
	assert.Equal(t, "abd [[0,0][0,1][1,1]] true\n", out.String())
}

func TestRun_ConfigurationErrorExitsWithUsageCode(t *testing.T) {
	t.Parallel()

	invalidHCL := `
		run {
		  min_word_length = 3
		// Missing closing brace here
	`
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600))

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{filePath})
	require.Error(t, err)

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, cli.ExitUsage, exitErr.Code)
	assert.Contains(t, exitErr.Message, "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	errOut := &bytes.Buffer{}
	err := run(context.Background(), &bytes.Buffer{}, errOut, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, errOut.String(), "Usage:", "Expected help text to be printed")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
