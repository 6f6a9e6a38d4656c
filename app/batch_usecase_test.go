package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pyted/domain"
)

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func samplePairSet() *domain.PairSet {
	return &domain.PairSet{
		Pairs: []domain.FilePair{
			{Name: "a.py", BuggyPath: "b/a.py", PatchPath: "p/a.py"},
			{Name: "bad.py", BuggyPath: "b/bad.py", PatchPath: "p/bad.py"},
			{Name: "same.py", BuggyPath: "b/same.py", PatchPath: "p/same.py"},
		},
		UnmatchedBuggy: []string{"gone.py"},
	}
}

func setupBatchUseCase(t *testing.T) (*BatchUseCase, *mockTEDService, *mockSourceReader, *mockPairCollector, *recordingProgress) {
	t.Helper()
	tedService := &mockTEDService{}
	reader := &mockSourceReader{}
	collector := &mockPairCollector{}
	progress := &recordingProgress{}

	uc, err := NewBatchUseCaseBuilder().
		WithService(tedService).
		WithSourceReader(reader).
		WithPairCollector(collector).
		WithFormatter(&mockFormatter{}).
		WithProgressManager(progress).
		Build()
	require.NoError(t, err)

	collector.On("CollectPairs", "b", "p", []string{"**/*.py"}, []string(nil)).Return(samplePairSet(), nil)
	reader.On("ReadSource", domain.SourceInput{Path: "b/a.py"}).Return("x = 1", nil)
	reader.On("ReadSource", domain.SourceInput{Path: "p/a.py"}).Return("x = 2", nil)
	reader.On("ReadSource", domain.SourceInput{Path: "b/bad.py"}).Return("def f(:", nil)
	reader.On("ReadSource", domain.SourceInput{Path: "p/bad.py"}).Return("x = 2", nil)
	reader.On("ReadSource", domain.SourceInput{Path: "b/same.py"}).Return("y = 1", nil)
	reader.On("ReadSource", domain.SourceInput{Path: "p/same.py"}).Return("y = 1", nil)

	tedService.On("Compare", mock.Anything, "x = 1", "x = 2", mock.Anything).
		Return(&domain.PairResult{Distance: 1, Similarity: 0.9, RelativePatchSize: 0.11}, nil)
	tedService.On("Compare", mock.Anything, "def f(:", "x = 2", mock.Anything).
		Return(nil, domain.NewParseError("buggy code", errors.New("syntax")))
	tedService.On("Compare", mock.Anything, "y = 1", "y = 1", mock.Anything).
		Return(&domain.PairResult{Distance: 0, Similarity: 1, RelativePatchSize: 0}, nil)

	return uc, tedService, reader, collector, progress
}

func batchRequest() domain.BatchRequest {
	return domain.BatchRequest{
		BuggyDir:        "b",
		PatchDir:        "p",
		IncludePatterns: []string{"**/*.py"},
		Options:         domain.DefaultTEDOptions(),
		OutputFormat:    domain.OutputFormatText,
	}
}

func TestBatchUseCase_CompareAndReturn(t *testing.T) {
	uc, _, _, _, progress := setupBatchUseCase(t)

	response, err := uc.CompareAndReturn(t.Context(), batchRequest())
	require.NoError(t, err)

	require.Len(t, response.Pairs, 3)
	assert.Equal(t, "a.py", response.Pairs[0].Name)
	assert.Equal(t, "b/a.py", response.Pairs[0].BuggyPath)
	assert.True(t, response.Pairs[1].Failed())
	assert.Contains(t, response.Pairs[1].Error, "failed to parse buggy code")

	summary := response.Summary
	assert.Equal(t, 3, summary.TotalPairs)
	assert.Equal(t, 2, summary.ComparedPairs)
	assert.Equal(t, 1, summary.FailedPairs)
	assert.Equal(t, 1, summary.IdenticalPairs)
	assert.Equal(t, 0.5, summary.MeanDistance)
	assert.InDelta(t, 0.95, summary.MeanSimilarity, 1e-12)
	assert.InDelta(t, 0.055, summary.MeanRelativePatchSize, 1e-12)
	assert.Equal(t, 1.0, summary.MaxDistance)
	assert.Equal(t, 1, summary.UnmatchedBuggyFiles)
	assert.Equal(t, []string{"no patch file for gone.py"}, response.Warnings)

	assert.Equal(t, 3, progress.initialized)
	assert.Equal(t, []int{1, 2, 3}, progress.updates)
	assert.True(t, progress.success)
	assert.True(t, progress.closed)
}

func TestBatchUseCase_FailFast(t *testing.T) {
	uc, tedService, _, _, progress := setupBatchUseCase(t)
	req := batchRequest()
	req.FailFast = true

	_, err := uc.CompareAndReturn(t.Context(), req)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeAnalysisError))
	assert.Contains(t, err.Error(), "bad.py")
	tedService.AssertNotCalled(t, "Compare", mock.Anything, "y = 1", "y = 1", mock.Anything)
	assert.True(t, progress.completed)
	assert.False(t, progress.success)
}

func TestBatchUseCase_Validation(t *testing.T) {
	uc, _, _, _, _ := setupBatchUseCase(t)

	req := batchRequest()
	req.PatchDir = ""
	_, err := uc.CompareAndReturn(t.Context(), req)
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))

	req = batchRequest()
	req.IncludePatterns = nil
	_, err = uc.CompareAndReturn(t.Context(), req)
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))

	err = uc.Execute(t.Context(), batchRequest())
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))
}

func TestBatchUseCase_EndToEnd(t *testing.T) {
	root := t.TempDir()
	buggy := filepath.Join(root, "buggy")
	patch := filepath.Join(root, "patch")
	require.NoError(t, writeFile(filepath.Join(buggy, "m.py"), "x = 1\n"))
	require.NoError(t, writeFile(filepath.Join(patch, "m.py"), "x = 2\n"))
	require.NoError(t, writeFile(filepath.Join(buggy, "pkg", "n.py"), "def f(): pass\n"))
	require.NoError(t, writeFile(filepath.Join(patch, "pkg", "n.py"), "def f():\n    return 1\n"))

	uc, err := NewBatchUseCaseBuilder().BuildWithDefaults()
	require.NoError(t, err)

	var out bytes.Buffer
	req := domain.BatchRequest{
		BuggyDir:        buggy,
		PatchDir:        patch,
		IncludePatterns: []string{"**/*.py"},
		Options:         domain.DefaultTEDOptions(),
		OutputFormat:    domain.OutputFormatCSV,
		OutputWriter:    &out,
	}
	require.NoError(t, uc.Execute(t.Context(), req))

	assert.Contains(t, out.String(), "m.py,")
	assert.Contains(t, out.String(), "pkg/n.py,")
	assert.Contains(t, out.String(), ",4,")
}
