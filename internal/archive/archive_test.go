package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestOpen_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConversationsFile), []byte("[]"), 0o644))

	src, err := Open(dir, "")
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, dir, src.Root)
	p, err := src.ConversationsPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConversationsFile), p)

	require.NoError(t, src.Close())
	_, err = os.Stat(dir)
	assert.NoError(t, err, "a directory source is never removed")
}

func TestOpen_ZipIntoTempDir(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "export.ZIP")
	writeZip(t, zipPath, map[string]string{
		"export/conversations.json": "[]",
		"export/user.json":          "{}",
	})

	src, err := Open(zipPath, "")
	require.NoError(t, err)

	p, err := src.ConversationsPath()
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	root := src.Root
	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err), "temporary extraction is removed on close")
}

func TestOpen_ZipIntoExtractDir(t *testing.T) {
	base := t.TempDir()
	zipPath := filepath.Join(base, "export.zip")
	writeZip(t, zipPath, map[string]string{"conversations.json": "[]"})
	extractDir := filepath.Join(base, "out", "extracted")

	src, err := Open(zipPath, extractDir)
	require.NoError(t, err)
	require.NoError(t, src.Close())

	_, err = os.Stat(filepath.Join(extractDir, ConversationsFile))
	assert.NoError(t, err, "explicit extract dir is kept")
}

func TestOpen_RejectsZipSlip(t *testing.T) {
	base := t.TempDir()
	zipPath := filepath.Join(base, "evil.zip")
	writeZip(t, zipPath, map[string]string{"../escape.txt": "x"})

	_, err := Open(zipPath, filepath.Join(base, "extract"))
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(base, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpen_Unsupported(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "export.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))

	_, err := Open(txt, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Open(filepath.Join(dir, "missing.zip"), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversationsPath_Missing(t *testing.T) {
	src, err := Open(t.TempDir(), "")
	require.NoError(t, err)

	_, err = src.ConversationsPath()
	assert.ErrorIs(t, err, ErrNoConversations)
}
