package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/internal/config"
	"github.com/ludo-technologies/pyted/service"
)

// generateTimestampedFileName generates a filename with timestamp suffix
func generateTimestampedFileName(command, extension string) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", command, timestamp, extension)
}

// resolveOutputDirectory returns the configured report directory or .pyted/reports under the working directory
func resolveOutputDirectory(cfg *config.Config) string {
	if cfg != nil && cfg.Output.Directory != "" {
		return cfg.Output.Directory
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".pyted", "reports")
	}
	return filepath.Join(cwd, ".pyted", "reports")
}

// generateOutputFilePath combines filename generation and directory resolution
func generateOutputFilePath(command string, format domain.OutputFormat, cfg *config.Config) (string, error) {
	outputDir := resolveOutputDirectory(cfg)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	return filepath.Join(outputDir, generateTimestampedFileName(command, string(format))), nil
}

// reportFlags select a structured report written to a file instead of text on stdout
type reportFlags struct {
	json   bool
	yaml   bool
	csv    bool
	output string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.json, "json", false, "Generate JSON report file")
	cmd.Flags().BoolVar(&f.yaml, "yaml", false, "Generate YAML report file")
	cmd.Flags().BoolVar(&f.csv, "csv", false, "Generate CSV report file")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Report file path (\"-\" for stdout)")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml", "csv")
}

// resolve picks the output format and destination. Without a format flag the
// configured format is used; text always goes to stdout.
func (f *reportFlags) resolve(command string, cfg *config.Config) (domain.OutputFormat, string, error) {
	var format domain.OutputFormat
	switch {
	case f.json:
		format = domain.OutputFormatJSON
	case f.yaml:
		format = domain.OutputFormatYAML
	case f.csv:
		format = domain.OutputFormatCSV
	default:
		parsed, err := domain.ParseOutputFormat(cfg.Output.Format)
		if err != nil {
			return "", "", err
		}
		format = parsed
	}

	if format == domain.OutputFormatText || f.output == domain.StdinPath {
		return format, "", nil
	}
	if f.output != "" {
		return format, f.output, nil
	}
	path, err := generateOutputFilePath(command, format, cfg)
	if err != nil {
		return "", "", err
	}
	return format, path, nil
}

// sourceInputs interprets positional arguments as files, "-" or inline code
func sourceInputs(args []string, inline bool) []domain.SourceInput {
	inputs := make([]domain.SourceInput, len(args))
	for i, arg := range args {
		if inline {
			inputs[i] = domain.SourceInput{Code: arg, Inline: true}
		} else {
			inputs[i] = domain.SourceInput{Path: arg}
		}
	}
	return inputs
}

// warnNonPythonFiles logs file arguments without a .py or .pyi extension under --verbose
func warnNonPythonFiles(cmd *cobra.Command, inputs ...domain.SourceInput) {
	reader := service.NewFileReader()
	logger := newLogger(cmd)
	for _, input := range inputs {
		if input.Inline || input.Path == domain.StdinPath || input.Path == "" {
			continue
		}
		if !reader.IsValidPythonFile(input.Path) {
			logger.Printf("warning: %s is not a .py or .pyi file", input.Path)
		}
	}
}

// targetPath returns the file whose directory drives configuration discovery
func targetPath(inputs ...domain.SourceInput) string {
	for _, input := range inputs {
		if !input.Inline && input.Path != "" && input.Path != domain.StdinPath {
			return input.Path
		}
	}
	return ""
}
