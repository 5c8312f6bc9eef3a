package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputStdout(t *testing.T) {
	out, err := openOutput("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, out.Writer)
	assert.NoError(t, out.Close())
}

func TestOutputFileKeepsPartialResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.tsv")

	out, err := openOutput(path)
	require.NoError(t, err)
	fmt.Fprintln(out, "h1 vs human")

	// Nothing reaches the file until Close, which runs before exiting on
	// a later error as well as on success.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	require.NoError(t, out.Close())
	assert.NoError(t, out.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "h1 vs human\n", string(data))
}

func TestOutputCreateError(t *testing.T) {
	_, err := openOutput(filepath.Join(t.TempDir(), "missing", "report.tsv"))
	assert.Error(t, err)
}
