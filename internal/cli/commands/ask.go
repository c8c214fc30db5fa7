package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/rosa/internal/cli/output"
)

// NewAskCommand creates the ask command.
func NewAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question about the traffic dataset",
		Long: `Answer a free-text question about the traffic dataset.

The question is turned into a filter, the filter into SQL, and the SQL is
run against a fresh in-memory copy of the dataset.

With no arguments, ask starts an interactive prompt when attached to a
terminal and otherwise reads one question per line from stdin.`,
		Example: `  # Count vehicles
  rosa ask how many south vehicles

  # List with sorting, as YAML
  rosa ask "list north vehicles faster than 55 kph sorted by speed descending" -o yaml

  # Interactive prompt
  rosa ask

  # Batch
  printf 'how many north vehicles\nmax speed in lane 2\n' | rosa ask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args)
		},
	}

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		return askOnce(cmd, cmdCtx, strings.Join(args, " "))
	}
	if output.IsTerminal(cmd.InOrStdin()) {
		return runAskREPL(cmd, cmdCtx)
	}
	return askLines(cmd, cmdCtx)
}

func askOnce(cmd *cobra.Command, cmdCtx *CommandContext, question string) error {
	ans, err := cmdCtx.Assistant.Ask(cmd.Context(), question)
	if err != nil {
		return err
	}
	return cmdCtx.Renderer.RenderAnswer(ans)
}

// askLines answers each non-blank stdin line. It stops at the first failure.
func askLines(cmd *cobra.Command, cmdCtx *CommandContext) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	asked := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		asked++
		if err := askOnce(cmd, cmdCtx, line); err != nil {
			return fmt.Errorf("question %d: %w", asked, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read questions: %w", err)
	}
	if asked == 0 {
		return fmt.Errorf("no question given\nHint: pass the question as arguments or on stdin")
	}
	return nil
}
