package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyted/app"
	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/internal/config"
	"github.com/ludo-technologies/pyted/service"
)

// BatchCommand compares every file pair of a buggy and a patch directory
type BatchCommand struct {
	buggyDir        string
	patchDir        string
	includePatterns []string
	excludePatterns []string
	failFast        bool

	ted    tedFlags
	report reportFlags
}

// NewBatchCommand creates a new batch command
func NewBatchCommand() *BatchCommand {
	return &BatchCommand{}
}

// CreateCobraCommand creates the cobra command for batch comparison
func (b *BatchCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch --buggy <dir> --patch <dir>",
		Short: "Compare every file of a buggy directory with its patch",
		Long: `Pair files with the same relative path under the buggy and patch
directories and compare each pair. Pairs that fail to parse are reported
with their error; --fail-fast stops at the first failure instead.

Files present on one side only are listed as warnings.`,
		Example: `  pyted batch --buggy bugs/ --patch fixes/
  pyted batch --buggy bugs/ --patch fixes/ --csv
  pyted batch --buggy bugs/ --patch fixes/ --exclude "tests/**"`,
		Args: cobra.NoArgs,
		RunE: b.run,
	}

	cmd.Flags().StringVar(&b.buggyDir, "buggy", "", "Directory with the buggy sources")
	cmd.Flags().StringVar(&b.patchDir, "patch", "", "Directory with the patched sources")
	cmd.Flags().StringSliceVar(&b.includePatterns, config.FlagInclude, nil, "Include glob patterns (default **/*.py)")
	cmd.Flags().StringSliceVar(&b.excludePatterns, config.FlagExclude, nil, "Exclude glob patterns")
	cmd.Flags().BoolVar(&b.failFast, config.FlagFailFast, false, "Stop at the first pair that fails")
	_ = cmd.MarkFlagRequired("buggy")
	_ = cmd.MarkFlagRequired("patch")

	b.ted.register(cmd.Flags())
	b.report.register(cmd)

	return cmd
}

func (b *BatchCommand) run(cmd *cobra.Command, args []string) error {
	overrides := b.ted.overrides()
	overrides.IncludePatterns = b.includePatterns
	overrides.ExcludePatterns = b.excludePatterns
	overrides.FailFast = b.failFast

	cfg, err := loadConfig(cmd, b.buggyDir, overrides)
	if err != nil {
		return err
	}

	format, outputPath, err := b.report.resolve("batch", cfg)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	configPath, _ := cmd.Flags().GetString("config")
	if path := service.NewConfigurationLoader().FindConfigFile(configPath, b.buggyDir); path != "" {
		logger.Printf("configuration: %s", path)
	}

	progress := service.NewProgressManager(cmd.ErrOrStderr())

	uc, err := app.NewBatchUseCaseBuilder().
		WithFormatter(service.NewTEDFormatterWithColor(service.IsInteractiveEnvironment() && outputPath == "")).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		WithProgressManager(progress).
		WithLogger(logger).
		BuildWithDefaults()
	if err != nil {
		return err
	}

	err = uc.Execute(cmd.Context(), domain.BatchRequest{
		BuggyDir:        b.buggyDir,
		PatchDir:        b.patchDir,
		IncludePatterns: cfg.Batch.IncludePatterns,
		ExcludePatterns: cfg.Batch.ExcludePatterns,
		FailFast:        cfg.Batch.FailFast,
		Options:         service.OptionsFromConfig(cfg),
		OutputFormat:    format,
		OutputWriter:    cmd.OutOrStdout(),
		OutputPath:      outputPath,
	})
	if err != nil {
		return fmt.Errorf("batch comparison failed: %w", err)
	}
	return nil
}

// NewBatchCmd creates and returns the batch cobra command
func NewBatchCmd() *cobra.Command {
	return NewBatchCommand().CreateCobraCommand()
}
