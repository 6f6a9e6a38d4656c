package domain

import (
	"context"
	"fmt"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat validates a format name
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(name); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return f, nil
	case "":
		return OutputFormatText, nil
	default:
		return "", NewUnsupportedFormatError(name)
	}
}

// MetricKind names one of the three scalar metrics
type MetricKind string

const (
	MetricTED               MetricKind = "ted"
	MetricSimilarity        MetricKind = "sim"
	MetricRelativePatchSize MetricKind = "rps"
)

// StdinPath is the source path that reads standard input
const StdinPath = "-"

// SourceInput identifies one side of a comparison
type SourceInput struct {
	// Path is a file path, StdinPath, or a display name when Inline is set
	Path string

	// Code holds the source text when Inline is set
	Code string

	// Inline marks sources given directly on the command line
	Inline bool
}

// Name returns a label for reports and error messages
func (s SourceInput) Name() string {
	switch {
	case s.Inline && s.Path == "":
		return "<inline>"
	case s.Path == StdinPath:
		return "<stdin>"
	default:
		return s.Path
	}
}

// TEDOptions configures the tree edit distance computation
type TEDOptions struct {
	CostModel      string  `json:"cost_model" yaml:"cost_model"`
	InsertCost     float64 `json:"insert_cost" yaml:"insert_cost"`
	DeleteCost     float64 `json:"delete_cost" yaml:"delete_cost"`
	RenameCost     float64 `json:"rename_cost" yaml:"rename_cost"`
	SkipDocstrings bool    `json:"skip_docstrings" yaml:"skip_docstrings"`
	Precision      int     `json:"precision" yaml:"precision"`
}

// DefaultTEDOptions returns unit costs with two decimals
func DefaultTEDOptions() TEDOptions {
	return TEDOptions{
		CostModel:  "unit",
		InsertCost: 1,
		DeleteCost: 1,
		RenameCost: 1,
		Precision:  2,
	}
}

// PairResult holds the metrics of one buggy/patch pair
type PairResult struct {
	Name              string  `json:"name" yaml:"name"`
	BuggyPath         string  `json:"buggy_path" yaml:"buggy_path"`
	PatchPath         string  `json:"patch_path" yaml:"patch_path"`
	Distance          float64 `json:"ted" yaml:"ted"`
	Similarity        float64 `json:"similarity" yaml:"similarity"`
	RelativePatchSize float64 `json:"relative_patch_size" yaml:"relative_patch_size"`
	BuggySize         int     `json:"buggy_size" yaml:"buggy_size"`
	PatchSize         int     `json:"patch_size" yaml:"patch_size"`
	Error             string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the pair could not be compared
func (r PairResult) Failed() bool {
	return r.Error != ""
}

// CompareRequest represents a request to compare two sources
type CompareRequest struct {
	Buggy SourceInput
	Patch SourceInput

	Options TEDOptions

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
}

// CompareResponse is the result of comparing two sources
type CompareResponse struct {
	Result      PairResult `json:"result" yaml:"result"`
	Options     TEDOptions `json:"options" yaml:"options"`
	GeneratedAt string     `json:"generated_at" yaml:"generated_at"`
	Version     string     `json:"version" yaml:"version"`
}

// FilePair is a buggy file and the patch file with the same relative path
type FilePair struct {
	Name      string
	BuggyPath string
	PatchPath string
}

// PairSet is the outcome of matching two directories
type PairSet struct {
	Pairs          []FilePair
	UnmatchedBuggy []string
	UnmatchedPatch []string
}

// BatchRequest represents a request to compare every pair of two directories
type BatchRequest struct {
	BuggyDir string
	PatchDir string

	IncludePatterns []string
	ExcludePatterns []string
	FailFast        bool

	Options TEDOptions

	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
}

// BatchSummary aggregates the pairs that were compared
type BatchSummary struct {
	TotalPairs            int     `json:"total_pairs" yaml:"total_pairs"`
	ComparedPairs         int     `json:"compared_pairs" yaml:"compared_pairs"`
	FailedPairs           int     `json:"failed_pairs" yaml:"failed_pairs"`
	IdenticalPairs        int     `json:"identical_pairs" yaml:"identical_pairs"`
	MeanDistance          float64 `json:"mean_ted" yaml:"mean_ted"`
	MeanSimilarity        float64 `json:"mean_similarity" yaml:"mean_similarity"`
	MeanRelativePatchSize float64 `json:"mean_relative_patch_size" yaml:"mean_relative_patch_size"`
	MaxDistance           float64 `json:"max_ted" yaml:"max_ted"`
	UnmatchedBuggyFiles   int     `json:"unmatched_buggy_files" yaml:"unmatched_buggy_files"`
	UnmatchedPatchFiles   int     `json:"unmatched_patch_files" yaml:"unmatched_patch_files"`
}

// BatchResponse is the result of a batch comparison
type BatchResponse struct {
	Pairs       []PairResult `json:"pairs" yaml:"pairs"`
	Summary     BatchSummary `json:"summary" yaml:"summary"`
	Warnings    []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Options     TEDOptions   `json:"options" yaml:"options"`
	GeneratedAt string       `json:"generated_at" yaml:"generated_at"`
	Version     string       `json:"version" yaml:"version"`
}

// TEDService defines the core business logic of the metrics
type TEDService interface {
	// Compare computes every metric for two sources
	Compare(ctx context.Context, buggy, patch string, options TEDOptions) (*PairResult, error)

	// ComputeMetric computes a single metric
	ComputeMetric(ctx context.Context, metric MetricKind, code1, code2 string, options TEDOptions) (float64, error)
}

// SourceReader resolves a source input to its text
type SourceReader interface {
	ReadSource(input SourceInput) (string, error)
}

// PairCollector matches files of two directories by relative path
type PairCollector interface {
	CollectPairs(buggyDir, patchDir string, includePatterns, excludePatterns []string) (*PairSet, error)
}

// TEDOutputFormatter formats comparison results
type TEDOutputFormatter interface {
	WriteCompare(response *CompareResponse, format OutputFormat, writer io.Writer) error
	WriteBatch(response *BatchResponse, format OutputFormat, writer io.Writer) error
}

// FormatMetric renders a metric value the way the command line prints it
func FormatMetric(metric MetricKind, value float64) string {
	if metric == MetricTED && value == float64(int64(value)) {
		return fmt.Sprintf("%d", int64(value))
	}
	return fmt.Sprintf("%g", value)
}
