package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/internal/version"
	svc "github.com/ludo-technologies/pyted/service"
)

// BatchUseCase compares every buggy/patch pair of two directories
type BatchUseCase struct {
	service   domain.TEDService
	reader    domain.SourceReader
	collector domain.PairCollector
	formatter domain.TEDOutputFormatter
	output    domain.ReportWriter
	progress  domain.ProgressManager
	logger    *log.Logger
	now       func() time.Time
}

// NewBatchUseCase creates a new batch use case
func NewBatchUseCase(
	service domain.TEDService,
	reader domain.SourceReader,
	collector domain.PairCollector,
	formatter domain.TEDOutputFormatter,
) *BatchUseCase {
	return &BatchUseCase{
		service:   service,
		reader:    reader,
		collector: collector,
		formatter: formatter,
		output:    svc.NewFileOutputWriter(nil),
		progress:  svc.NewSilentProgressManager(),
		logger:    log.New(io.Discard, "", 0),
		now:       time.Now,
	}
}

// Execute compares the pairs and writes the report
func (uc *BatchUseCase) Execute(ctx context.Context, req domain.BatchRequest) error {
	if req.OutputWriter == nil && req.OutputPath == "" {
		return domain.NewInvalidInputError("invalid request", fmt.Errorf("output writer or output path is required"))
	}

	response, err := uc.CompareAndReturn(ctx, req)
	if err != nil {
		return err
	}

	var out io.Writer
	if req.OutputPath == "" {
		out = req.OutputWriter
	}
	if err := uc.output.Write(out, req.OutputPath, req.OutputFormat, func(w io.Writer) error {
		return uc.formatter.WriteBatch(response, req.OutputFormat, w)
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// CompareAndReturn compares the pairs and returns the response without formatting.
// A pair that fails is recorded with its error unless FailFast is set.
func (uc *BatchUseCase) CompareAndReturn(ctx context.Context, req domain.BatchRequest) (*domain.BatchResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	set, err := uc.collector.CollectPairs(req.BuggyDir, req.PatchDir, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	response := &domain.BatchResponse{
		Pairs:       make([]domain.PairResult, 0, len(set.Pairs)),
		Options:     req.Options,
		GeneratedAt: uc.now().Format(time.RFC3339),
		Version:     version.Short(),
	}
	for _, name := range set.UnmatchedBuggy {
		response.Warnings = append(response.Warnings, fmt.Sprintf("no patch file for %s", name))
	}
	for _, name := range set.UnmatchedPatch {
		response.Warnings = append(response.Warnings, fmt.Sprintf("no buggy file for %s", name))
	}
	for _, warning := range response.Warnings {
		uc.logger.Printf("warning: %s", warning)
	}

	uc.progress.Initialize(len(set.Pairs))
	uc.progress.Start()
	success := false
	defer func() {
		uc.progress.Complete(success)
		uc.progress.Close()
	}()

	for i, pair := range set.Pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := uc.comparePair(ctx, pair, req.Options)
		if err != nil {
			if req.FailFast {
				return nil, domain.NewAnalysisError(fmt.Sprintf("failed to compare %s", pair.Name), err)
			}
			uc.logger.Printf("failed to compare %s: %v", pair.Name, err)
			result = domain.PairResult{
				Name:      pair.Name,
				BuggyPath: pair.BuggyPath,
				PatchPath: pair.PatchPath,
				Error:     err.Error(),
			}
		}
		response.Pairs = append(response.Pairs, result)
		uc.progress.Update(i+1, len(set.Pairs))
	}

	response.Summary = summarize(response.Pairs, set)
	success = true
	return response, nil
}

func (uc *BatchUseCase) comparePair(ctx context.Context, pair domain.FilePair, options domain.TEDOptions) (domain.PairResult, error) {
	buggy, err := uc.reader.ReadSource(domain.SourceInput{Path: pair.BuggyPath})
	if err != nil {
		return domain.PairResult{}, err
	}
	patch, err := uc.reader.ReadSource(domain.SourceInput{Path: pair.PatchPath})
	if err != nil {
		return domain.PairResult{}, err
	}

	result, err := uc.service.Compare(ctx, buggy, patch, options)
	if err != nil {
		return domain.PairResult{}, err
	}
	result.Name = pair.Name
	result.BuggyPath = pair.BuggyPath
	result.PatchPath = pair.PatchPath
	return *result, nil
}

// summarize computes means over the pairs that were compared
func summarize(pairs []domain.PairResult, set *domain.PairSet) domain.BatchSummary {
	summary := domain.BatchSummary{
		TotalPairs:          len(pairs),
		UnmatchedBuggyFiles: len(set.UnmatchedBuggy),
		UnmatchedPatchFiles: len(set.UnmatchedPatch),
	}

	var distance, similarity, patchSize float64
	for _, pair := range pairs {
		if pair.Failed() {
			summary.FailedPairs++
			continue
		}
		summary.ComparedPairs++
		if pair.Distance == 0 {
			summary.IdenticalPairs++
		}
		if pair.Distance > summary.MaxDistance {
			summary.MaxDistance = pair.Distance
		}
		distance += pair.Distance
		similarity += pair.Similarity
		patchSize += pair.RelativePatchSize
	}

	if n := float64(summary.ComparedPairs); n > 0 {
		summary.MeanDistance = distance / n
		summary.MeanSimilarity = similarity / n
		summary.MeanRelativePatchSize = patchSize / n
	}
	return summary
}

// validateRequest validates the batch request
func (uc *BatchUseCase) validateRequest(req domain.BatchRequest) error {
	if req.BuggyDir == "" || req.PatchDir == "" {
		return fmt.Errorf("both buggy and patch directories are required")
	}
	if len(req.IncludePatterns) == 0 {
		return fmt.Errorf("at least one include pattern is required")
	}
	switch req.OutputFormat {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatCSV, "":
	default:
		return fmt.Errorf("unsupported output format: %s", req.OutputFormat)
	}
	return nil
}

// BatchUseCaseBuilder provides a builder pattern for creating BatchUseCase
type BatchUseCaseBuilder struct {
	service   domain.TEDService
	reader    domain.SourceReader
	collector domain.PairCollector
	formatter domain.TEDOutputFormatter
	output    domain.ReportWriter
	progress  domain.ProgressManager
	logger    *log.Logger
}

// NewBatchUseCaseBuilder creates a new builder
func NewBatchUseCaseBuilder() *BatchUseCaseBuilder {
	return &BatchUseCaseBuilder{}
}

// WithService sets the TED service
func (b *BatchUseCaseBuilder) WithService(service domain.TEDService) *BatchUseCaseBuilder {
	b.service = service
	return b
}

// WithSourceReader sets the source reader
func (b *BatchUseCaseBuilder) WithSourceReader(reader domain.SourceReader) *BatchUseCaseBuilder {
	b.reader = reader
	return b
}

// WithPairCollector sets the pair collector
func (b *BatchUseCaseBuilder) WithPairCollector(collector domain.PairCollector) *BatchUseCaseBuilder {
	b.collector = collector
	return b
}

// WithFormatter sets the output formatter
func (b *BatchUseCaseBuilder) WithFormatter(formatter domain.TEDOutputFormatter) *BatchUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithOutputWriter sets the report writer
func (b *BatchUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *BatchUseCaseBuilder {
	b.output = output
	return b
}

// WithProgressManager sets the progress manager
func (b *BatchUseCaseBuilder) WithProgressManager(progress domain.ProgressManager) *BatchUseCaseBuilder {
	b.progress = progress
	return b
}

// WithLogger sets the logger for per-pair warnings
func (b *BatchUseCaseBuilder) WithLogger(logger *log.Logger) *BatchUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the BatchUseCase with the configured dependencies
func (b *BatchUseCaseBuilder) Build() (*BatchUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("TED service is required")
	}
	if b.reader == nil {
		return nil, fmt.Errorf("source reader is required")
	}
	if b.collector == nil {
		return nil, fmt.Errorf("pair collector is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewBatchUseCase(b.service, b.reader, b.collector, b.formatter)
	if b.output != nil {
		uc.output = b.output
	}
	if b.progress != nil {
		uc.progress = b.progress
	}
	if b.logger != nil {
		uc.logger = b.logger
	}
	return uc, nil
}

// BuildWithDefaults fills missing dependencies with the service implementations
func (b *BatchUseCaseBuilder) BuildWithDefaults() (*BatchUseCase, error) {
	if b.service == nil {
		b.service = svc.NewTEDService()
	}
	if b.reader == nil {
		b.reader = svc.NewFileReader()
	}
	if b.collector == nil {
		b.collector = svc.NewPairCollector()
	}
	if b.formatter == nil {
		b.formatter = svc.NewTEDFormatter()
	}
	return b.Build()
}
