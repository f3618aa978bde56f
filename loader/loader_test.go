package loader

import (
	"context"
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

func TestLoadTextFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "second file")
	writeFile(t, dir, "a.txt", "first file")
	writeFile(t, dir, "ignored.md", "wrong extension")

	docs, err := Load(context.Background(), dir, "txt")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// File-name order.
	assert.Equal(t, "first file", docs[0].Text)
	assert.Equal(t, filepath.Join(dir, "a.txt"), docs[0].Metadata.Source)
	assert.Equal(t, 0, docs[0].Metadata.Page)
	assert.Equal(t, "second file", docs[1].Text)
}

func TestLoadMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "# heading\n\nbody")

	docs, err := Load(context.Background(), dir, "md")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "# heading\n\nbody", docs[0].Text)
}

func TestLoadUnsupportedDataType(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.docx", "binary stuff")

	_, err := Load(context.Background(), dir, "docx")
	assert.ErrorIs(t, err, ErrUnsupportedDataType)

	// Enforced regardless of directory contents.
	_, err = Load(context.Background(), "/does/not/matter", "csv")
	assert.ErrorIs(t, err, ErrUnsupportedDataType)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), "txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadEmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(context.Background(), dir, "txt")
	assert.ErrorIs(t, err, ErrNotFound)

	t.Run("no matching extension", func(t *testing.T) {
		writeFile(t, dir, "only.pdf", "%PDF-1.4")
		_, err := Load(context.Background(), dir, "txt")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSupportedTypes(t *testing.T) {
	assert.Equal(t, []string{"md", "pdf", "txt"}, SupportedTypes())
}

func TestPageNumber(t *testing.T) {
	assert.Equal(t, 7, pageNumber(map[string]any{"page": 7}, 1))
	assert.Equal(t, 7, pageNumber(map[string]any{"page": float64(7)}, 1))
	assert.Equal(t, 3, pageNumber(map[string]any{}, 3))
}
