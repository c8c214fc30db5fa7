package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/rosa/internal/cli/config"
	"github.com/leapstack-labs/rosa/internal/cli/output"
	"github.com/leapstack-labs/rosa/internal/executor"
	"github.com/leapstack-labs/rosa/internal/source"
	"github.com/leapstack-labs/rosa/internal/translate"
	"github.com/leapstack-labs/rosa/pkg/core"
)

// probeFilter combines an aggregate with a sort, the shape dialects disagree on.
var probeFilter = core.FilterObject{
	Operation: core.OperationCountVehicles,
	SortBy:    "Speed",
}

// Check statuses.
const (
	StatusPass  = "pass"
	StatusWarn  = "warn"
	StatusError = "error"
)

// HealthCheck is the result of a single doctor check.
type HealthCheck struct {
	Name    string `json:"name" yaml:"name"`
	Status  string `json:"status" yaml:"status"`
	Details string `json:"details" yaml:"details"`
}

// DoctorOutput is the JSON/YAML output for the doctor command.
type DoctorOutput struct {
	Checks   []HealthCheck `json:"checks" yaml:"checks"`
	Problems int           `json:"problems" yaml:"problems"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, data and executor backends",
		Long: `Check that rosa can answer questions in this environment.

The doctor command verifies:
  - the configuration file that was loaded
  - the traffic dataset can be read and parsed
  - every registered executor backend can open a database
  - the configured backend can query the dataset

The command exits non-zero when any check fails.`,
		Example: `  # Run all checks
  rosa doctor

  # Output as JSON
  rosa doctor -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutData(cmd)
			report := runChecks(cmd.Context(), cmdCtx.Cfg, cmdCtx.Logger)
			if err := renderDoctor(cmdCtx.Renderer, report); err != nil {
				return err
			}
			if report.Problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", report.Problems)
			}
			return nil
		},
	}
}

func runChecks(ctx context.Context, cfg *config.Config, logger *slog.Logger) *DoctorOutput {
	report := &DoctorOutput{}
	add := func(c HealthCheck) {
		if c.Status == StatusError {
			report.Problems++
		}
		report.Checks = append(report.Checks, c)
	}

	add(checkConfig(cfg))
	data := checkData(ctx, cfg)
	add(data)
	for _, name := range executor.ListBackends() {
		add(checkBackend(ctx, name, logger))
	}
	if data.Status == StatusPass {
		add(checkQuery(ctx, cfg, logger))
	}
	return report
}

func checkConfig(cfg *config.Config) HealthCheck {
	c := HealthCheck{Name: "config"}
	if cfg.ConfigFile == "" {
		c.Status = StatusWarn
		c.Details = "no rosa.yaml found, using defaults"
		return c
	}
	if err := cfg.Validate(); err != nil {
		c.Status = StatusError
		c.Details = err.Error()
		return c
	}
	c.Status = StatusPass
	c.Details = cfg.ConfigFile
	return c
}

func checkData(ctx context.Context, cfg *config.Config) HealthCheck {
	c := HealthCheck{Name: "data"}
	records, err := source.NewCSV(cfg.DataPath).ReadAll(ctx)
	if err != nil {
		c.Status = StatusError
		c.Details = err.Error()
		return c
	}
	c.Status = StatusPass
	c.Details = fmt.Sprintf("%d records in %s", len(records), cfg.DataPath)
	if len(records) == 0 {
		c.Status = StatusWarn
		c.Details = "no records in " + cfg.DataPath
	}
	return c
}

func checkBackend(ctx context.Context, name string, logger *slog.Logger) HealthCheck {
	c := HealthCheck{Name: "backend " + name}
	b, err := executor.NewBackend(name, logger)
	if err == nil {
		err = openAndClose(ctx, b)
	}
	if err != nil {
		c.Status = StatusError
		c.Details = err.Error()
		return c
	}
	c.Status = StatusPass
	c.Details = "opens an in-memory database"
	return c
}

func openAndClose(ctx context.Context, b executor.Backend) error {
	db, err := b.Open(ctx)
	if err != nil {
		return err
	}
	return db.Close()
}

func checkQuery(ctx context.Context, cfg *config.Config, logger *slog.Logger) HealthCheck {
	c := HealthCheck{Name: "query"}
	exec, err := executor.New(executor.Config{
		Backend: cfg.Backend,
		Source:  source.NewCSV(cfg.DataPath),
		Logger:  logger,
	})
	if err == nil {
		var res *executor.Result
		res, err = exec.Execute(ctx, translate.SQL(probeFilter))
		if err == nil {
			c.Status = StatusPass
			c.Details = fmt.Sprintf("%s counted %v vehicles", cfg.Backend, res.Aggregate["count"])
			return c
		}
	}
	c.Status = StatusError
	c.Details = err.Error()
	return c
}

func renderDoctor(r *output.Renderer, report *DoctorOutput) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(report)
	case output.ModeYAML:
		return r.YAML(report)
	}

	styles := r.Styles()
	r.Header(1, "Rosa Doctor")
	for _, c := range report.Checks {
		var mark string
		switch c.Status {
		case StatusPass:
			mark = styles.Success.Render("✓")
		case StatusWarn:
			mark = styles.Warning.Render("!")
		default:
			mark = styles.Error.Render("✗")
		}
		r.Println(fmt.Sprintf("%s %-16s %s", mark, c.Name, styles.Muted.Render(c.Details)))
	}
	r.Println("")
	if report.Problems == 0 {
		r.Println(styles.Success.Render("No problems found"))
		return nil
	}
	r.Warning(fmt.Sprintf("%d check(s) failed", report.Problems))
	return nil
}
