package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadilmartias/resume-ingestor/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPromptAssetLoaderCachesAfterFirstLoad(t *testing.T) {
	dir := t.TempDir()
	tpl := writeFile(t, dir, "jsonLayout.json", "{\n  \"node\": {\"resume\": {}}\n}\n")
	query := writeFile(t, dir, "query.txt", "  Extract the resume.\n")
	l := NewPromptAssetLoader(tpl, query)

	assets, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"node":{"resume":{}}}`, string(assets.Template))
	assert.Equal(t, "Extract the resume.", assets.Query)

	require.NoError(t, os.Remove(tpl))
	again, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, assets, again)
}

func TestPromptAssetLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	query := writeFile(t, dir, "query.txt", "q")
	bad := writeFile(t, dir, "bad.json", "{not json")

	_, err := NewPromptAssetLoader(filepath.Join(dir, "missing.json"), query).Load(context.Background())
	assert.Equal(t, apperror.KindTemplate, apperror.KindOf(err))

	_, err = NewPromptAssetLoader(bad, query).Load(context.Background())
	assert.Equal(t, apperror.KindTemplate, apperror.KindOf(err))
}
