package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jane.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	docs, err := readDocuments([]string{path})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "jane.pdf", docs[0].Filename)
	assert.Equal(t, []byte("%PDF-1.4"), docs[0].Data)

	_, err = readDocuments([]string{filepath.Join(dir, "missing.pdf")})
	assert.ErrorContains(t, err, "missing.pdf")
}

func TestRootCommandRequiresFiles(t *testing.T) {
	rootCmd.SetArgs([]string{})
	rootCmd.SetOut(os.Stderr)
	rootCmd.SetErr(os.Stderr)

	assert.Error(t, rootCmd.Execute())
}
