package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewSQLCommand creates the sql command.
func NewSQLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql <question>",
		Short: "Show the filter and SQL for a question without running it",
		Long: `Show the structured filter and the SQL a question translates to.

Nothing is executed and the dataset is not read.`,
		Example: `  rosa sql how many south vehicles
  rosa sql "max speed for north lane 1" -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(cmd, strings.Join(args, " "))
		},
	}

	return cmd
}

func runSQL(cmd *cobra.Command, question string) error {
	cmdCtx := NewCommandContextWithoutData(cmd)

	plan, err := cmdCtx.Assistant.Plan(question)
	if err != nil {
		return err
	}
	return cmdCtx.Renderer.RenderPlan(plan)
}
