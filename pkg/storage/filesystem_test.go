package storage

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":           "report.pdf",
		"My Syllabus (v2).pdf": "My_Syllabus_v2_.pdf",
		"../../etc/passwd":     "passwd",
		"..\\..\\boot.ini":     "boot.ini",
		"¡hola!.png":           "hola_.png",
		"...":                  "file",
		"":                     "file",
	}
	for input, want := range cases {
		assert.Equal(t, want, SanitizeFilename(input), "input %q", input)
	}
}

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	stored, err := store.SaveStream("notes.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "notes.pdf", stored)

	file, err := store.Open(stored)
	require.NoError(t, err)
	content, err := io.ReadAll(file)
	require.NoError(t, file.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	require.NoError(t, store.Delete(stored))
	_, err = store.Open(stored)
	require.Error(t, err)

	// Deleting a file that is already gone is not an error.
	require.NoError(t, store.Delete(stored))
}

func TestLocalStoragePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.pdf"), store.Path("a.pdf"))
}
