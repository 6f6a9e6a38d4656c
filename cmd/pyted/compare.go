package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyted/app"
	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/service"
)

// CompareCommand reports every metric of one buggy/patch pair
type CompareCommand struct {
	inline bool
	ted    tedFlags
	report reportFlags
}

// NewCompareCommand creates a new compare command
func NewCompareCommand() *CompareCommand {
	return &CompareCommand{}
}

// CreateCobraCommand creates the cobra command for pair comparison
func (c *CompareCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <buggy> <patch>",
		Short: "Compare a buggy source with its patch",
		Long: `Report the tree edit distance, similarity, relative patch size and
tree sizes of a buggy source and its patch.

Text goes to stdout. --json, --yaml and --csv write a report file under the
configured output directory (.pyted/reports by default) unless --output is
given.`,
		Example: `  pyted compare buggy.py fixed.py
  pyted compare --json buggy.py fixed.py
  pyted compare --yaml -o - buggy.py fixed.py
  pyted compare -e "x = 1" "x = 2"`,
		Args: cobra.ExactArgs(2),
		RunE: c.run,
	}

	cmd.Flags().BoolVarP(&c.inline, "code", "e", false, "Treat arguments as Python source instead of file paths")
	c.ted.register(cmd.Flags())
	c.report.register(cmd)

	return cmd
}

func (c *CompareCommand) run(cmd *cobra.Command, args []string) error {
	inputs := sourceInputs(args, c.inline)
	warnNonPythonFiles(cmd, inputs...)

	cfg, err := loadConfig(cmd, targetPath(inputs...), c.ted.overrides())
	if err != nil {
		return err
	}

	format, outputPath, err := c.report.resolve("compare", cfg)
	if err != nil {
		return err
	}

	uc, err := app.NewCompareUseCaseBuilder().
		WithSourceReader(service.NewFileReaderWithStdin(cmd.InOrStdin())).
		WithFormatter(service.NewTEDFormatterWithColor(service.IsInteractiveEnvironment() && outputPath == "")).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		BuildWithDefaults()
	if err != nil {
		return err
	}

	return uc.Execute(cmd.Context(), domain.CompareRequest{
		Buggy:        inputs[0],
		Patch:        inputs[1],
		Options:      service.OptionsFromConfig(cfg),
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   outputPath,
	})
}

// NewCompareCmd creates and returns the compare cobra command
func NewCompareCmd() *cobra.Command {
	return NewCompareCommand().CreateCobraCommand()
}
