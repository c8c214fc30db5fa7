package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/rosa/internal/executor"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display rosa version and the registered executor backends.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rosa v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backends: %s\n", strings.Join(executor.ListBackends(), ", "))
		},
	}
}
