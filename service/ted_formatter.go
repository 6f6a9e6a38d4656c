package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludo-technologies/pyted/domain"
)

// csvHeader lists the columns of a CSV report, one row per pair
var csvHeader = []string{
	"name",
	"buggy_path",
	"patch_path",
	"ted",
	"similarity",
	"relative_patch_size",
	"buggy_size",
	"patch_size",
	"error",
}

// TEDFormatterImpl implements the TEDOutputFormatter interface
type TEDFormatterImpl struct {
	utils *FormatUtils
}

// NewTEDFormatter creates a new formatter without colors
func NewTEDFormatter() *TEDFormatterImpl {
	return &TEDFormatterImpl{utils: NewFormatUtils()}
}

// NewTEDFormatterWithColor creates a formatter that colors change levels in text output
func NewTEDFormatterWithColor(color bool) *TEDFormatterImpl {
	return &TEDFormatterImpl{utils: NewFormatUtilsWithColor(color)}
}

// WriteCompare writes a single comparison in the requested format
func (f *TEDFormatterImpl) WriteCompare(response *domain.CompareResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("nothing to format", nil)
	}
	switch format {
	case domain.OutputFormatText, "":
		_, err := io.WriteString(writer, f.formatCompareText(response))
		return err
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeCSV(writer, []domain.PairResult{response.Result})
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteBatch writes a batch comparison in the requested format
func (f *TEDFormatterImpl) WriteBatch(response *domain.BatchResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("nothing to format", nil)
	}
	switch format {
	case domain.OutputFormatText, "":
		_, err := io.WriteString(writer, f.formatBatchText(response))
		return err
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeCSV(writer, response.Pairs)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *TEDFormatterImpl) formatCompareText(response *domain.CompareResponse) string {
	var builder strings.Builder
	result := response.Result

	builder.WriteString(f.utils.FormatMainHeader("Tree Edit Distance Report"))

	builder.WriteString(f.utils.FormatSectionHeader("Sources"))
	builder.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Buggy", result.BuggyPath))
	builder.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Patch", result.PatchPath))
	builder.WriteString(f.utils.FormatSectionSeparator())

	builder.WriteString(f.utils.FormatSectionHeader("Metrics"))
	builder.WriteString(f.utils.FormatLabel("Tree edit distance", domain.FormatMetric(domain.MetricTED, result.Distance)))
	builder.WriteString(f.utils.FormatLabel("Similarity", f.utils.FormatFloat(result.Similarity)))
	builder.WriteString(f.utils.FormatLabel("Relative patch size", f.utils.FormatFloat(result.RelativePatchSize)))
	builder.WriteString(f.utils.FormatLabel("Buggy tree size", result.BuggySize))
	builder.WriteString(f.utils.FormatLabel("Patch tree size", result.PatchSize))
	level := f.utils.ClassifyChange(result.Distance, result.RelativePatchSize)
	builder.WriteString(f.utils.FormatLabel("Change", f.utils.FormatChange(level)))
	builder.WriteString(fmt.Sprintf("%s%s\n", strings.Repeat(" ", LabelWidth+2), level.Description()))
	builder.WriteString(f.utils.FormatSectionSeparator())

	builder.WriteString(f.formatOptions(response.Options))
	return builder.String()
}

func (f *TEDFormatterImpl) formatBatchText(response *domain.BatchResponse) string {
	var builder strings.Builder
	summary := response.Summary

	builder.WriteString(f.utils.FormatMainHeader("Batch Tree Edit Distance Report"))

	builder.WriteString(f.utils.FormatSectionHeader("Summary"))
	builder.WriteString(f.utils.FormatLabel("Total pairs", summary.TotalPairs))
	builder.WriteString(f.utils.FormatLabel("Compared", summary.ComparedPairs))
	builder.WriteString(f.utils.FormatLabel("Failed", summary.FailedPairs))
	builder.WriteString(f.utils.FormatLabel("Identical", summary.IdenticalPairs))
	builder.WriteString(f.utils.FormatLabel("Mean TED", fmt.Sprintf("%.2f", summary.MeanDistance)))
	builder.WriteString(f.utils.FormatLabel("Max TED", domain.FormatMetric(domain.MetricTED, summary.MaxDistance)))
	builder.WriteString(f.utils.FormatLabel("Mean similarity", fmt.Sprintf("%.4f", summary.MeanSimilarity)))
	builder.WriteString(f.utils.FormatLabel("Mean patch size", fmt.Sprintf("%.2f", summary.MeanRelativePatchSize)))
	if summary.UnmatchedBuggyFiles > 0 || summary.UnmatchedPatchFiles > 0 {
		builder.WriteString(f.utils.FormatLabel("Unmatched buggy", summary.UnmatchedBuggyFiles))
		builder.WriteString(f.utils.FormatLabel("Unmatched patch", summary.UnmatchedPatchFiles))
	}
	builder.WriteString(f.utils.FormatSectionSeparator())

	if len(response.Pairs) > 0 {
		builder.WriteString(f.utils.FormatSectionHeader("Pairs"))
		width := len("File")
		for _, pair := range response.Pairs {
			if len(pair.Name) > width {
				width = len(pair.Name)
			}
		}
		builder.WriteString(f.utils.FormatTableHeader(
			fmt.Sprintf("%-*s", width, "File"),
			fmt.Sprintf("%8s", "TED"),
			fmt.Sprintf("%10s", "Sim"),
			fmt.Sprintf("%8s", "RPS"),
			"Change",
		))
		for _, pair := range response.Pairs {
			if pair.Failed() {
				fmt.Fprintf(&builder, "%-*s  error: %s\n", width, pair.Name, pair.Error)
				continue
			}
			fmt.Fprintf(&builder, "%-*s  %8s  %10.4f  %8.2f  %s\n",
				width, pair.Name,
				domain.FormatMetric(domain.MetricTED, pair.Distance),
				pair.Similarity,
				pair.RelativePatchSize,
				f.utils.FormatChange(f.utils.ClassifyChange(pair.Distance, pair.RelativePatchSize)))
		}
		builder.WriteString(f.utils.FormatSectionSeparator())
	}

	builder.WriteString(f.utils.FormatWarningsSection(response.Warnings))
	builder.WriteString(f.formatOptions(response.Options))
	return builder.String()
}

func (f *TEDFormatterImpl) formatOptions(options domain.TEDOptions) string {
	var builder strings.Builder
	builder.WriteString(f.utils.FormatSectionHeader("Options"))
	builder.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Cost model", options.CostModel))
	if options.CostModel == "weighted" {
		builder.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Costs (ins/del/ren)",
			fmt.Sprintf("%s/%s/%s",
				f.utils.FormatFloat(options.InsertCost),
				f.utils.FormatFloat(options.DeleteCost),
				f.utils.FormatFloat(options.RenameCost))))
	}
	builder.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Skip docstrings", options.SkipDocstrings))
	builder.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Precision", options.Precision))
	return builder.String()
}

func (f *TEDFormatterImpl) writeCSV(writer io.Writer, pairs []domain.PairResult) error {
	w := csv.NewWriter(writer)
	if err := w.Write(csvHeader); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}
	for _, pair := range pairs {
		record := []string{
			pair.Name,
			pair.BuggyPath,
			pair.PatchPath,
			domain.FormatMetric(domain.MetricTED, pair.Distance),
			strconv.FormatFloat(pair.Similarity, 'f', -1, 64),
			strconv.FormatFloat(pair.RelativePatchSize, 'f', -1, 64),
			strconv.Itoa(pair.BuggySize),
			strconv.Itoa(pair.PatchSize),
			pair.Error,
		}
		if err := w.Write(record); err != nil {
			return domain.NewOutputError("failed to write CSV record", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV", err)
	}
	return nil
}
