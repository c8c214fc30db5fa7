package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/rosa/internal/executor"
)

const replPrompt = "rosa> "

func runAskREPL(cmd *cobra.Command, cmdCtx *CommandContext) error {
	ctx := cmd.Context()
	r := cmdCtx.Renderer

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     filepath.Join(cmdCtx.Cfg.ProjectRoot, ".rosa_history"),
		AutoComplete:    newQuestionCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rosa traffic assistant (data: %s, backend: %s)\n", cmdCtx.Cfg.DataPath, cmdCtx.Executor.Backend().Name())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(cmd, cmdCtx, line); quit {
				break
			}
			continue
		}

		ans, err := cmdCtx.Assistant.Ask(ctx, line)
		if err != nil {
			r.Error(err)
			continue
		}
		if err := r.RenderAnswer(ans); err != nil {
			r.Error(err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// handleDotCommand runs a REPL command and reports whether the REPL should exit.
func handleDotCommand(cmd *cobra.Command, cmdCtx *CommandContext, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	r := cmdCtx.Renderer

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".sql":
		question := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))
		plan, err := cmdCtx.Assistant.Plan(question)
		if err != nil {
			r.Error(err)
			return false
		}
		if err := r.RenderPlan(plan); err != nil {
			r.Error(err)
		}

	case ".backends":
		r.Println(strings.Join(executor.ListBackends(), "\n"))

	case ".clear":
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help             Show this help message
  .sql <question>   Show the filter and SQL for a question without running it
  .backends         List registered executor backends
  .clear            Clear the screen
  .quit / .exit     Exit

Examples:
  how many south vehicles
  average speed in lane 2
  list north vehicles faster than 55 kph sorted by speed descending
`
	_, _ = fmt.Fprintln(w, help)
}

// newQuestionCompleter completes dot-commands and common question openers.
func newQuestionCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("how many"),
		readline.PcItem("count"),
		readline.PcItem("average speed"),
		readline.PcItem("max speed"),
		readline.PcItem("list"),
		readline.PcItem("show me"),
		readline.PcItem(".help"),
		readline.PcItem(".sql"),
		readline.PcItem(".backends"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
