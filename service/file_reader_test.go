package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pyted/domain"
)

func createTestFile(t *testing.T, dirPath, fileName, content string) string {
	t.Helper()
	filePath := filepath.Join(dirPath, fileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	return filePath
}

func TestFileReader_ReadSource(t *testing.T) {
	dir := t.TempDir()
	file := createTestFile(t, dir, "buggy.py", "x = 1\n")
	reader := NewFileReaderWithStdin(strings.NewReader("y = 2\n"))

	tests := []struct {
		name     string
		input    domain.SourceInput
		expected string
		code     string
	}{
		{name: "inline", input: domain.SourceInput{Code: "z = 3", Inline: true}, expected: "z = 3"},
		{name: "inline empty", input: domain.SourceInput{Inline: true}, expected: ""},
		{name: "file", input: domain.SourceInput{Path: file}, expected: "x = 1\n"},
		{name: "missing file", input: domain.SourceInput{Path: filepath.Join(dir, "nope.py")}, code: domain.ErrCodeFileNotFound},
		{name: "directory", input: domain.SourceInput{Path: dir}, code: domain.ErrCodeFileNotFound},
		{name: "no path", input: domain.SourceInput{}, code: domain.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reader.ReadSource(tt.input)
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, domain.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFileReader_ReadStdin(t *testing.T) {
	reader := NewFileReaderWithStdin(strings.NewReader("def f():\n    pass\n"))

	got, err := reader.ReadSource(domain.SourceInput{Path: domain.StdinPath})
	require.NoError(t, err)
	assert.Equal(t, "def f():\n    pass\n", got)

	_, err = NewFileReaderWithStdin(nil).ReadSource(domain.SourceInput{Path: domain.StdinPath})
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))
}

func TestFileReader_IsValidPythonFile(t *testing.T) {
	reader := NewFileReader()

	assert.True(t, reader.IsValidPythonFile("a.py"))
	assert.True(t, reader.IsValidPythonFile("stubs/a.PYI"))
	assert.False(t, reader.IsValidPythonFile("a.txt"))
	assert.False(t, reader.IsValidPythonFile("py"))
}
