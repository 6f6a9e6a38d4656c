package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyted/app"
	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/service"
)

type metricSpec struct {
	kind    domain.MetricKind
	use     string
	short   string
	long    string
	example string
}

var (
	metricTED = metricSpec{
		kind:  domain.MetricTED,
		use:   "ted <code1> <code2>",
		short: "Print the tree edit distance of two sources",
		long: `Print the Zhang-Shasha tree edit distance between the syntax trees
of two Python sources. With unit costs it counts node insertions,
deletions and renames.`,
		example: `  pyted ted before.py after.py
  pyted ted -e "x = 1" "x = 2"
  cat after.py | pyted ted before.py -`,
	}
	metricSim = metricSpec{
		kind:  domain.MetricSimilarity,
		use:   "sim <code1> <code2>",
		short: "Print the structural similarity of two sources",
		long: `Print 1 - ted / (size1 + size2), where size is the number of nodes
of each syntax tree. Identical sources score 1.`,
		example: `  pyted sim before.py after.py
  pyted sim -e "def f(): pass" "def f(): return 1"`,
	}
	metricRPS = metricSpec{
		kind:  domain.MetricRelativePatchSize,
		use:   "rps <buggy> <patch>",
		short: "Print the relative patch size",
		long: `Print ted / size of the buggy tree, rounded to --precision decimal
places with round-half-to-even. An empty buggy source counts as a
one-node tree, so its ratio equals the distance.`,
		example: `  pyted rps buggy.py fixed.py
  pyted rps --precision 4 buggy.py fixed.py`,
	}
)

// MetricCommand prints one metric for two sources
type MetricCommand struct {
	spec   metricSpec
	inline bool
	ted    tedFlags
}

// NewMetricCommand creates a command for the given metric
func NewMetricCommand(spec metricSpec) *MetricCommand {
	return &MetricCommand{spec: spec}
}

// CreateCobraCommand creates the cobra command for the metric
func (m *MetricCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     m.spec.use,
		Short:   m.spec.short,
		Long:    m.spec.long,
		Example: m.spec.example,
		Args:    cobra.ExactArgs(2),
		RunE:    m.run,
	}

	cmd.Flags().BoolVarP(&m.inline, "code", "e", false, "Treat arguments as Python source instead of file paths")
	m.ted.register(cmd.Flags())

	return cmd
}

func (m *MetricCommand) run(cmd *cobra.Command, args []string) error {
	inputs := sourceInputs(args, m.inline)
	warnNonPythonFiles(cmd, inputs...)

	cfg, err := loadConfig(cmd, targetPath(inputs...), m.ted.overrides())
	if err != nil {
		return err
	}

	uc, err := app.NewCompareUseCaseBuilder().
		WithSourceReader(service.NewFileReaderWithStdin(cmd.InOrStdin())).
		BuildWithDefaults()
	if err != nil {
		return err
	}

	value, err := uc.Metric(cmd.Context(), m.spec.kind, inputs[0], inputs[1], service.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), domain.FormatMetric(m.spec.kind, value))
	return nil
}

// NewMetricCmd creates and returns the cobra command of one metric
func NewMetricCmd(spec metricSpec) *cobra.Command {
	return NewMetricCommand(spec).CreateCobraCommand()
}
