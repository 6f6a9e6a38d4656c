package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/pyted/domain"
)

// FileReaderImpl implements the SourceReader interface
type FileReaderImpl struct {
	stdin io.Reader
}

// NewFileReader creates a new file reader service reading stdin from os.Stdin
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{stdin: os.Stdin}
}

// NewFileReaderWithStdin creates a file reader with a custom stdin
func NewFileReaderWithStdin(stdin io.Reader) *FileReaderImpl {
	return &FileReaderImpl{stdin: stdin}
}

// ReadSource resolves inline code, stdin or a file to its text
func (f *FileReaderImpl) ReadSource(input domain.SourceInput) (string, error) {
	if input.Inline {
		return input.Code, nil
	}
	if input.Path == domain.StdinPath {
		if f.stdin == nil {
			return "", domain.NewInvalidInputError("standard input is not available", nil)
		}
		data, err := io.ReadAll(f.stdin)
		if err != nil {
			return "", domain.NewInvalidInputError("failed to read standard input", err)
		}
		return string(data), nil
	}
	if input.Path == "" {
		return "", domain.NewInvalidInputError("no source given", nil)
	}

	exists, err := f.FileExists(input.Path)
	if err != nil {
		return "", domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", input.Path), err)
	}
	if !exists {
		return "", domain.NewFileNotFoundError(input.Path, nil)
	}

	content, err := f.ReadFile(input.Path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// ReadFile reads the content of a file
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// IsValidPythonFile checks if a file is a valid Python file
func (f *FileReaderImpl) IsValidPythonFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".py" || ext == ".pyi"
}

// FileExists checks if a regular file exists
func (f *FileReaderImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
