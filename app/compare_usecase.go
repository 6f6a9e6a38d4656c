package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/internal/version"
	svc "github.com/ludo-technologies/pyted/service"
)

// CompareUseCase orchestrates comparing one buggy source with its patch
type CompareUseCase struct {
	service   domain.TEDService
	reader    domain.SourceReader
	formatter domain.TEDOutputFormatter
	output    domain.ReportWriter
	now       func() time.Time
}

// NewCompareUseCase creates a new compare use case
func NewCompareUseCase(
	service domain.TEDService,
	reader domain.SourceReader,
	formatter domain.TEDOutputFormatter,
) *CompareUseCase {
	return &CompareUseCase{
		service:   service,
		reader:    reader,
		formatter: formatter,
		output:    svc.NewFileOutputWriter(nil),
		now:       time.Now,
	}
}

// Execute compares both sources and writes the report
func (uc *CompareUseCase) Execute(ctx context.Context, req domain.CompareRequest) error {
	if err := uc.validateOutput(req); err != nil {
		return domain.NewInvalidInputError("invalid request", err)
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
		return uc.formatter.WriteCompare(response, req.OutputFormat, w)
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// CompareAndReturn compares both sources and returns the response without formatting
func (uc *CompareUseCase) CompareAndReturn(ctx context.Context, req domain.CompareRequest) (*domain.CompareResponse, error) {
	if err := uc.validateFormat(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	buggy, patch, err := uc.readPair(req.Buggy, req.Patch)
	if err != nil {
		return nil, err
	}

	result, err := uc.service.Compare(ctx, buggy, patch, req.Options)
	if err != nil {
		return nil, err
	}
	result.Name = req.Patch.Name()
	result.BuggyPath = req.Buggy.Name()
	result.PatchPath = req.Patch.Name()

	return &domain.CompareResponse{
		Result:      *result,
		Options:     req.Options,
		GeneratedAt: uc.now().Format(time.RFC3339),
		Version:     version.Short(),
	}, nil
}

// Metric computes a single metric for two sources
func (uc *CompareUseCase) Metric(ctx context.Context, metric domain.MetricKind, first, second domain.SourceInput, options domain.TEDOptions) (float64, error) {
	code1, code2, err := uc.readPair(first, second)
	if err != nil {
		return 0, err
	}
	return uc.service.ComputeMetric(ctx, metric, code1, code2, options)
}

func (uc *CompareUseCase) readPair(first, second domain.SourceInput) (string, string, error) {
	if first.Path == domain.StdinPath && second.Path == domain.StdinPath {
		return "", "", domain.NewInvalidInputError("standard input can be used for only one source", nil)
	}
	code1, err := uc.reader.ReadSource(first)
	if err != nil {
		return "", "", err
	}
	code2, err := uc.reader.ReadSource(second)
	if err != nil {
		return "", "", err
	}
	return code1, code2, nil
}

// validateOutput validates output configuration
func (uc *CompareUseCase) validateOutput(req domain.CompareRequest) error {
	if req.OutputWriter == nil && req.OutputPath == "" {
		return fmt.Errorf("output writer or output path is required")
	}
	return nil
}

// validateFormat validates the output format
func (uc *CompareUseCase) validateFormat(req domain.CompareRequest) error {
	switch req.OutputFormat {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatCSV, "":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", req.OutputFormat)
	}
}

// CompareUseCaseBuilder provides a builder pattern for creating CompareUseCase
type CompareUseCaseBuilder struct {
	service   domain.TEDService
	reader    domain.SourceReader
	formatter domain.TEDOutputFormatter
	output    domain.ReportWriter
}

// NewCompareUseCaseBuilder creates a new builder
func NewCompareUseCaseBuilder() *CompareUseCaseBuilder {
	return &CompareUseCaseBuilder{}
}

// WithService sets the TED service
func (b *CompareUseCaseBuilder) WithService(service domain.TEDService) *CompareUseCaseBuilder {
	b.service = service
	return b
}

// WithSourceReader sets the source reader
func (b *CompareUseCaseBuilder) WithSourceReader(reader domain.SourceReader) *CompareUseCaseBuilder {
	b.reader = reader
	return b
}

// WithFormatter sets the output formatter
func (b *CompareUseCaseBuilder) WithFormatter(formatter domain.TEDOutputFormatter) *CompareUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithOutputWriter sets the report writer
func (b *CompareUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *CompareUseCaseBuilder {
	b.output = output
	return b
}

// Build creates the CompareUseCase with the configured dependencies
func (b *CompareUseCaseBuilder) Build() (*CompareUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("TED service is required")
	}
	if b.reader == nil {
		return nil, fmt.Errorf("source reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewCompareUseCase(b.service, b.reader, b.formatter)
	if b.output != nil {
		uc.output = b.output
	}
	return uc, nil
}

// BuildWithDefaults fills missing dependencies with the service implementations
func (b *CompareUseCaseBuilder) BuildWithDefaults() (*CompareUseCase, error) {
	if b.service == nil {
		b.service = svc.NewTEDService()
	}
	if b.reader == nil {
		b.reader = svc.NewFileReader()
	}
	if b.formatter == nil {
		b.formatter = svc.NewTEDFormatter()
	}
	return b.Build()
}
