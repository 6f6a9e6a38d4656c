package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyted/service"
)

// TreeCommand prints the tree a source is compared as
type TreeCommand struct {
	inline bool
	ast    bool
	ted    tedFlags
}

// NewTreeCommand creates a new tree command
func NewTreeCommand() *TreeCommand {
	return &TreeCommand{}
}

// CreateCobraCommand creates the cobra command for tree display
func (t *TreeCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the labeled tree of a source",
		Long: `Print the generic labeled tree the distance is computed on, one node
per line. --ast prints the Python syntax tree instead.`,
		Example: `  pyted tree module.py
  pyted tree --ast -e "x = 1"`,
		Args: cobra.ExactArgs(1),
		RunE: t.run,
	}

	cmd.Flags().BoolVarP(&t.inline, "code", "e", false, "Treat the argument as Python source instead of a file path")
	cmd.Flags().BoolVar(&t.ast, "ast", false, "Print the Python syntax tree")
	t.ted.register(cmd.Flags())

	return cmd
}

func (t *TreeCommand) run(cmd *cobra.Command, args []string) error {
	input := sourceInputs(args, t.inline)[0]
	warnNonPythonFiles(cmd, input)

	cfg, err := loadConfig(cmd, targetPath(input), t.ted.overrides())
	if err != nil {
		return err
	}

	code, err := service.NewFileReaderWithStdin(cmd.InOrStdin()).ReadSource(input)
	if err != nil {
		return err
	}

	tedService := service.NewTEDService()
	if t.ast {
		dump, stats, err := tedService.DumpAST(cmd.Context(), code)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dump)
		newLogger(cmd).Printf("%s: %d syntax nodes, depth %d, most common %v",
			input.Name(), stats.TotalNodes, stats.MaxDepth, stats.TopTypes(3))
		return nil
	}

	tree, err := tedService.BuildTree(cmd.Context(), code, service.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), tree.Format())
	newLogger(cmd).Printf("%s: %d nodes, height %d", input.Name(), tree.Size(), tree.Height())
	return nil
}

// NewTreeCmd creates and returns the tree cobra command
func NewTreeCmd() *cobra.Command {
	return NewTreeCommand().CreateCobraCommand()
}
