package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSetFlags(t *testing.T) {
	var sets setFlags
	require.NoError(t, sets.Set("human=h.fasta,h.tab"))
	require.NoError(t, sets.Set("llama=l.fasta,l.tab"))

	assert.Equal(t, setFlags{
		{Name: "human", FASTA: "h.fasta", Index: "h.tab"},
		{Name: "llama", FASTA: "l.fasta", Index: "l.tab"},
	}, sets)
	assert.Equal(t, "human=h.fasta,h.tab llama=l.fasta,l.tab", sets.String())

	for _, bad := range []string{"human", "=h.fasta,h.tab", "human=h.fasta", "human=,h.tab"} {
		assert.Error(t, sets.Set(bad), bad)
	}
}

func TestMetricNames(t *testing.T) {
	all, err := metricNames("all")
	require.NoError(t, err)
	assert.Equal(t, []string{"hamming", "levenshtein", "adjusted"}, all)

	edit, err := metricNames("edit")
	require.NoError(t, err)
	assert.Equal(t, []string{"levenshtein"}, edit)

	_, err = metricNames("cosine")
	assert.Error(t, err)
}

func TestRefSource(t *testing.T) {
	dir := t.TempDir()
	refs := writeFile(t, dir, "refs.fasta", ">r1\nGFTFSSYA\n>r2\ngftfsdya\n")
	fastaPath := writeFile(t, dir, "set.fasta", ">s1\nQQGFTFWWISGSLLARDYKK\n")
	indexPath := writeFile(t, dir, "set.tab", "s1\t1\t1\t3\t1\t7\t1\t9\t1\t13\t1\t15\t1\t19\t1\n")

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{"fasta file", []string{"-refs", refs}, []string{"GFTFSSYA", "GFTFSDYA"}, false},
		{"set region", []string{"-set", "s=" + fastaPath + "," + indexPath, "-region", "3"}, []string{"ARDY"}, false},
		{"default region", []string{"-set", "s=" + fastaPath + "," + indexPath}, []string{"GFTF"}, false},
		{"both", []string{"-refs", refs, "-set", "s=" + fastaPath + "," + indexPath}, nil, true},
		{"neither", nil, nil, true},
		{"bad region", []string{"-set", "s=" + fastaPath + "," + indexPath, "-region", "4"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			src := refFlags(fs)
			require.NoError(t, fs.Parse(tt.args))

			got, err := src.load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectChains(t *testing.T) {
	path := writeFile(t, t.TempDir(), "chains.fasta", ">h1\nGFTF$ISGS$AR\n>h2\nGYTF$INP$ARGY\n")

	all, err := selectChains(path, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := selectChains(path, "h2")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "ARGY", one[0].Regions[2])

	_, err = selectChains(path, "h9")
	assert.Error(t, err)
}
