package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ludo-technologies/pyted/internal/parser"
)

// DefaultPrecision is the number of decimal places of the relative patch size
const DefaultPrecision = 2

// ErrEmptyTree is returned when the relative patch size would divide by an empty buggy tree
var ErrEmptyTree = errors.New("buggy tree is empty")

// PatchMetrics computes tree edit distance metrics between Python sources
type PatchMetrics struct {
	converter *TreeConverter
	analyzer  *TEDAnalyzer
	precision int
}

// PatchMetricsOption configures a PatchMetrics
type PatchMetricsOption func(*PatchMetrics)

// WithCostModel sets the cost model of the distance computation
func WithCostModel(costModel CostModel) PatchMetricsOption {
	return func(m *PatchMetrics) {
		m.analyzer = NewTEDAnalyzer(costModel)
	}
}

// WithSkipDocstrings drops leading docstrings before comparing
func WithSkipDocstrings(skip bool) PatchMetricsOption {
	return func(m *PatchMetrics) {
		m.converter = NewTreeConverterWithConfig(skip)
	}
}

// WithPrecision sets the decimal places of the relative patch size
func WithPrecision(precision int) PatchMetricsOption {
	return func(m *PatchMetrics) {
		m.precision = precision
	}
}

// NewPatchMetrics creates a metrics calculator with unit costs and two decimals
func NewPatchMetrics(opts ...PatchMetricsOption) *PatchMetrics {
	m := &PatchMetrics{
		converter: NewTreeConverter(),
		analyzer:  NewTEDAnalyzer(nil),
		precision: DefaultPrecision,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Comparison holds every metric of one buggy/patch pair
type Comparison struct {
	Distance          float64
	Similarity        float64
	RelativePatchSize float64
	BuggySize         int
	PatchSize         int
}

// BuildTree parses source code and converts it into a generic tree
func (m *PatchMetrics) BuildTree(ctx context.Context, code string) (*TreeNode, error) {
	module, err := parser.ParseModule(ctx, []byte(code))
	if err != nil {
		return nil, err
	}
	return m.converter.ConvertModule(module), nil
}

func (m *PatchMetrics) buildPair(ctx context.Context, code1, code2, name1, name2 string) (*TreeNode, *TreeNode, error) {
	tree1, err := m.BuildTree(ctx, code1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", name1, err)
	}
	tree2, err := m.BuildTree(ctx, code2)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", name2, err)
	}
	return tree1, tree2, nil
}

// ComputeTED returns the tree edit distance between two sources
func (m *PatchMetrics) ComputeTED(ctx context.Context, code1, code2 string) (float64, error) {
	tree1, tree2, err := m.buildPair(ctx, code1, code2, "code1", "code2")
	if err != nil {
		return 0, err
	}
	return m.analyzer.ComputeDistance(tree1, tree2), nil
}

// ComputeSim returns 1 - ted/(size1+size2)
func (m *PatchMetrics) ComputeSim(ctx context.Context, code1, code2 string) (float64, error) {
	tree1, tree2, err := m.buildPair(ctx, code1, code2, "code1", "code2")
	if err != nil {
		return 0, err
	}
	return m.analyzer.ComputeSimilarity(tree1, tree2), nil
}

// RelativePatchSize returns ted/size(buggy) rounded to the configured precision
func (m *PatchMetrics) RelativePatchSize(ctx context.Context, buggy, patch string) (float64, error) {
	result, err := m.Compare(ctx, buggy, patch)
	if err != nil {
		return 0, err
	}
	if result.BuggySize == 0 {
		return 0, ErrEmptyTree
	}
	return result.RelativePatchSize, nil
}

// Compare parses both sources once and computes every metric
func (m *PatchMetrics) Compare(ctx context.Context, buggy, patch string) (*Comparison, error) {
	tree1, tree2, err := m.buildPair(ctx, buggy, patch, "buggy code", "patch code")
	if err != nil {
		return nil, err
	}
	return m.CompareTrees(tree1, tree2), nil
}

// CompareTrees computes every metric for two converted trees. The relative
// patch size is 0 when the buggy tree is empty.
func (m *PatchMetrics) CompareTrees(buggy, patch *TreeNode) *Comparison {
	detail := m.analyzer.ComputeDetailedDistance(buggy, patch)
	result := &Comparison{
		Distance:   detail.Distance,
		Similarity: detail.Similarity,
		BuggySize:  detail.Tree1Size,
		PatchSize:  detail.Tree2Size,
	}
	if detail.Tree1Size > 0 {
		result.RelativePatchSize = RoundHalfEven(detail.Distance/float64(detail.Tree1Size), m.precision)
	}
	return result
}

// RoundHalfEven rounds x to the given number of decimals the way Python's
// round does: ties go to the even digit of the exact binary value.
func RoundHalfEven(x float64, digits int) float64 {
	if digits < 0 {
		digits = 0
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', digits, 64), 64)
	if err != nil {
		return x
	}
	return rounded
}

var defaultMetrics = NewPatchMetrics()

// ComputeTED returns the unit-cost tree edit distance between two sources
func ComputeTED(code1, code2 string) (float64, error) {
	return defaultMetrics.ComputeTED(context.Background(), code1, code2)
}

// ComputeSim returns the unit-cost similarity of two sources
func ComputeSim(code1, code2 string) (float64, error) {
	return defaultMetrics.ComputeSim(context.Background(), code1, code2)
}

// RelativePatchSize returns round(ted/size(buggy), 2)
func RelativePatchSize(buggy, patch string) (float64, error) {
	return defaultMetrics.RelativePatchSize(context.Background(), buggy, patch)
}
