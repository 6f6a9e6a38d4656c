package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/internal/analyzer"
	"github.com/ludo-technologies/pyted/internal/config"
	"github.com/ludo-technologies/pyted/internal/parser"
)

// TEDServiceImpl implements the TEDService interface
type TEDServiceImpl struct{}

// NewTEDService creates a new tree edit distance service
func NewTEDService() *TEDServiceImpl {
	return &TEDServiceImpl{}
}

// metrics builds a metrics calculator for the given options
func (s *TEDServiceImpl) metrics(options domain.TEDOptions) (*analyzer.PatchMetrics, error) {
	costModel, err := analyzer.NewCostModel(options.CostModel, options.InsertCost, options.DeleteCost, options.RenameCost)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid cost model", err)
	}
	if options.Precision < 0 || options.Precision > config.MaxPrecision {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("precision must be between 0 and %d, got %d", config.MaxPrecision, options.Precision), nil)
	}
	return analyzer.NewPatchMetrics(
		analyzer.WithCostModel(costModel),
		analyzer.WithSkipDocstrings(options.SkipDocstrings),
		analyzer.WithPrecision(options.Precision),
	), nil
}

// Compare computes every metric for two sources
func (s *TEDServiceImpl) Compare(ctx context.Context, buggy, patch string, options domain.TEDOptions) (*domain.PairResult, error) {
	metrics, err := s.metrics(options)
	if err != nil {
		return nil, err
	}

	buggyTree, err := s.buildTree(ctx, metrics, buggy, "buggy code")
	if err != nil {
		return nil, err
	}
	patchTree, err := s.buildTree(ctx, metrics, patch, "patch code")
	if err != nil {
		return nil, err
	}

	comparison := metrics.CompareTrees(buggyTree, patchTree)
	return &domain.PairResult{
		Distance:          comparison.Distance,
		Similarity:        comparison.Similarity,
		RelativePatchSize: comparison.RelativePatchSize,
		BuggySize:         comparison.BuggySize,
		PatchSize:         comparison.PatchSize,
	}, nil
}

// ComputeMetric computes a single metric
func (s *TEDServiceImpl) ComputeMetric(ctx context.Context, metric domain.MetricKind, code1, code2 string, options domain.TEDOptions) (float64, error) {
	metrics, err := s.metrics(options)
	if err != nil {
		return 0, err
	}

	var value float64
	switch metric {
	case domain.MetricTED:
		value, err = metrics.ComputeTED(ctx, code1, code2)
	case domain.MetricSimilarity:
		value, err = metrics.ComputeSim(ctx, code1, code2)
	case domain.MetricRelativePatchSize:
		value, err = metrics.RelativePatchSize(ctx, code1, code2)
	default:
		return 0, domain.NewInvalidInputError(fmt.Sprintf("unknown metric: %s", metric), nil)
	}
	if err != nil {
		return 0, classifyError(err)
	}
	return value, nil
}

// BuildTree converts source code into the generic labeled tree
func (s *TEDServiceImpl) BuildTree(ctx context.Context, code string, options domain.TEDOptions) (*analyzer.TreeNode, error) {
	metrics, err := s.metrics(options)
	if err != nil {
		return nil, err
	}
	return s.buildTree(ctx, metrics, code, "source")
}

// DumpAST renders the Python syntax tree of source code along with its node statistics
func (s *TEDServiceImpl) DumpAST(ctx context.Context, code string) (string, *parser.Statistics, error) {
	module, err := parser.ParseModule(ctx, []byte(code))
	if err != nil {
		return "", nil, domain.NewParseError("source", err)
	}
	return parser.Dump(module), parser.CollectStatistics(module), nil
}

func (s *TEDServiceImpl) buildTree(ctx context.Context, metrics *analyzer.PatchMetrics, code, name string) (*analyzer.TreeNode, error) {
	tree, err := metrics.BuildTree(ctx, code)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, domain.NewParseError(name, err)
	}
	return tree, nil
}

// classifyError maps analyzer errors onto domain error codes
func classifyError(err error) error {
	var syntaxErr *parser.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return domain.NewDomainError(domain.ErrCodeParseError, "failed to parse source", err)
	case errors.Is(err, analyzer.ErrEmptyTree):
		return domain.NewInvalidInputError("relative patch size is undefined", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return domain.NewAnalysisError("tree edit distance failed", err)
	}
}
