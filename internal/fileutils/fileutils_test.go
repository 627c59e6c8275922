package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bilanci/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	// Directories are not files
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	newDir := filepath.Join(tmpDir, "new", "nested", "dir")
	assert.NoError(t, fileutils.EnsureDirectoryExists(newDir))
	assert.True(t, fileutils.DirectoryExists(newDir))

	// Existing directory is fine
	assert.NoError(t, fileutils.EnsureDirectoryExists(tmpDir))
}

func TestReadFile(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "bilancio.txt")
	content := []byte("Totale ricavi 1.000,00")
	require.NoError(t, os.WriteFile(testFile, content, 0600))

	data, err := fileutils.ReadFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, content, data)

	_, err = fileutils.ReadFile(filepath.Join(tmpDir, "nonexistent.txt"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist")
}

func TestWriteFile(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "output.json")
	content := []byte(`{"totalRevenue":1000}`)
	assert.NoError(t, fileutils.WriteFile(testFile, content, 0600))

	data, err := os.ReadFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, content, data)

	nestedFile := filepath.Join(tmpDir, "a", "b", "c", "output.json")
	assert.NoError(t, fileutils.WriteFile(nestedFile, content, 0600))
	assert.True(t, fileutils.FileExists(nestedFile))
}

func TestListFilesWithExtensions(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"b.pdf", "a.CSV", "c.txt", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("test"), 0600))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "nested.pdf"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "nested.pdf", "inner.pdf"), []byte("x"), 0600))

	tests := []struct {
		name       string
		extensions []string
		expected   []string
	}{
		{name: "single extension", extensions: []string{".pdf"}, expected: []string{"b.pdf"}},
		{name: "case insensitive", extensions: []string{".csv"}, expected: []string{"a.CSV"}},
		{name: "several extensions sorted", extensions: []string{".txt", ".pdf", ".csv"}, expected: []string{"a.CSV", "b.pdf", "c.txt"}},
		{name: "no matches", extensions: []string{".xlsx"}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := fileutils.ListFilesWithExtensions(tmpDir, tt.extensions...)
			require.NoError(t, err)

			expected := make([]string, 0, len(tt.expected))
			for _, name := range tt.expected {
				expected = append(expected, filepath.Join(tmpDir, name))
			}
			assert.Equal(t, expected, files)
		})
	}

	_, err := fileutils.ListFilesWithExtensions(filepath.Join(tmpDir, "nonexistent"), ".pdf")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "directory does not exist")
}

func TestReplaceExtension(t *testing.T) {
	assert.Equal(t, "report.json", fileutils.ReplaceExtension("report.pdf", ".json"))
	assert.Equal(t, filepath.Join("dir", "a.b.xlsx"), fileutils.ReplaceExtension(filepath.Join("dir", "a.b.csv"), ".xlsx"))
	assert.Equal(t, "noext.csv", fileutils.ReplaceExtension("noext", ".csv"))
}
