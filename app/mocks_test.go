package app

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/ludo-technologies/pyted/domain"
)

type mockTEDService struct {
	mock.Mock
}

func (m *mockTEDService) Compare(ctx context.Context, buggy, patch string, options domain.TEDOptions) (*domain.PairResult, error) {
	args := m.Called(ctx, buggy, patch, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PairResult), args.Error(1)
}

func (m *mockTEDService) ComputeMetric(ctx context.Context, metric domain.MetricKind, code1, code2 string, options domain.TEDOptions) (float64, error) {
	args := m.Called(ctx, metric, code1, code2, options)
	return args.Get(0).(float64), args.Error(1)
}

type mockSourceReader struct {
	mock.Mock
}

func (m *mockSourceReader) ReadSource(input domain.SourceInput) (string, error) {
	args := m.Called(input)
	return args.String(0), args.Error(1)
}

type mockPairCollector struct {
	mock.Mock
}

func (m *mockPairCollector) CollectPairs(buggyDir, patchDir string, include, exclude []string) (*domain.PairSet, error) {
	args := m.Called(buggyDir, patchDir, include, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PairSet), args.Error(1)
}

type mockFormatter struct {
	mock.Mock
}

func (m *mockFormatter) WriteCompare(response *domain.CompareResponse, format domain.OutputFormat, writer io.Writer) error {
	args := m.Called(response, format, writer)
	return args.Error(0)
}

func (m *mockFormatter) WriteBatch(response *domain.BatchResponse, format domain.OutputFormat, writer io.Writer) error {
	args := m.Called(response, format, writer)
	return args.Error(0)
}

type recordingProgress struct {
	initialized int
	updates     []int
	completed   bool
	success     bool
	closed      bool
}

func (p *recordingProgress) Initialize(maxValue int)     { p.initialized = maxValue }
func (p *recordingProgress) Start()                      {}
func (p *recordingProgress) Complete(success bool)       { p.completed, p.success = true, success }
func (p *recordingProgress) Update(processed, total int) { p.updates = append(p.updates, processed) }
func (p *recordingProgress) SetWriter(writer io.Writer)  {}
func (p *recordingProgress) IsInteractive() bool         { return false }
func (p *recordingProgress) Close()                      { p.closed = true }
