package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/rosa/internal/assistant"
	"github.com/leapstack-labs/rosa/internal/cli/config"
	"github.com/leapstack-labs/rosa/internal/cli/output"
	"github.com/leapstack-labs/rosa/internal/executor"
	"github.com/leapstack-labs/rosa/internal/source"

	// Register optional executor backends via init()
	_ "github.com/leapstack-labs/rosa/internal/executor/duckdb"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Executor  *executor.Executor
	Assistant *assistant.Service
	Renderer  *output.Renderer
}

// NewCommandContext creates a CommandContext with an executor over the configured dataset.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutData(cmd)
	cfg := cmdCtx.Cfg

	if _, err := os.Stat(cfg.DataPath); err != nil {
		return nil, fmt.Errorf("data file does not exist: %s\nHint: set data_path in rosa.yaml or use --data to specify a different path", cfg.DataPath)
	}

	exec, err := executor.New(executor.Config{
		Backend: cfg.Backend,
		Source:  source.NewCSV(cfg.DataPath),
		Logger:  cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create executor: %w", err)
	}

	cmdCtx.Executor = exec
	cmdCtx.Assistant = assistant.New(assistant.Config{
		Runner: exec,
		Logger: cmdCtx.Logger,
	})
	return cmdCtx, nil
}

// NewCommandContextWithoutData creates a CommandContext that cannot execute queries.
// Useful for commands that only plan.
func NewCommandContextWithoutData(cmd *cobra.Command) *CommandContext {
	cfg := getConfig(cmd)
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:       cfg,
		Logger:    logger,
		Assistant: assistant.New(assistant.Config{Logger: logger}),
		Renderer:  r,
	}
}

// getConfig returns the configuration loaded by the root command, or defaults.
func getConfig(cmd *cobra.Command) *config.Config {
	if cfg := config.GetConfig(cmd.Context()); cfg != nil {
		return cfg
	}
	return &config.Config{
		DataPath:     config.DefaultDataPath,
		Backend:      config.DefaultBackend,
		OutputFormat: config.DefaultOutput,
		Server: config.ServerConfig{
			Addr:              config.DefaultAddr,
			ReadHeaderTimeout: config.DefaultReadHeaderTimeout,
		},
	}
}
