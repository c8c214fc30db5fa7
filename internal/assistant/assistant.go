// Package assistant wires the question pipeline together:
//
//	question → Generate (extract + serialize) → validate → translate → execute
//
// Generation and validation are kept as separate stages. The serialized
// filter crosses the same boundary a language-model response would, and is
// re-validated before anything downstream trusts it.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/rosa/internal/executor"
	"github.com/leapstack-labs/rosa/internal/intent"
	"github.com/leapstack-labs/rosa/internal/translate"
	"github.com/leapstack-labs/rosa/internal/validate"
	"github.com/leapstack-labs/rosa/pkg/core"
)

// Runner executes query text. *executor.Executor satisfies it.
type Runner interface {
	Execute(ctx context.Context, query string) (*executor.Result, error)
}

// Generator produces a serialized filter payload for a question.
type Generator func(question string) ([]byte, error)

// Config holds service dependencies.
type Config struct {
	Runner Runner
	// Generator defaults to Generate.
	Generator Generator
	Logger    *slog.Logger
}

// Service answers questions.
type Service struct {
	runner   Runner
	generate Generator
	logger   *slog.Logger
	newID    func() string
}

// New creates a Service.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	gen := cfg.Generator
	if gen == nil {
		gen = Generate
	}
	return &Service{
		runner:   cfg.Runner,
		generate: gen,
		logger:   logger,
		newID:    func() string { return uuid.New().String() },
	}
}

// Plan is a validated filter and the query compiled from it.
type Plan struct {
	Filter core.FilterObject `json:"filter" yaml:"filter"`
	SQL    string            `json:"sql" yaml:"sql"`
}

// Answer is the outcome of a question.
type Answer struct {
	ID       string            `json:"id" yaml:"id"`
	Question string            `json:"question" yaml:"question"`
	Filter   core.FilterObject `json:"filter" yaml:"filter"`
	SQL      string            `json:"sql" yaml:"sql"`
	Data     *executor.Result  `json:"data" yaml:"data"`
}

// Generate is the default generator: heuristic extraction followed by
// serialization to the wire payload.
func Generate(question string) ([]byte, error) {
	f, err := intent.Extract(question)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize filter: %w", err)
	}
	return raw, nil
}

// Plan turns a question into a validated filter and SQL without executing it.
func (s *Service) Plan(question string) (*Plan, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, &core.EmptyInputError{}
	}

	raw, err := s.generate(question)
	if err != nil {
		return nil, err
	}

	f, err := validate.Filter(raw)
	if err != nil {
		return nil, err
	}

	return &Plan{Filter: f, SQL: translate.SQL(f)}, nil
}

// Ask answers question end to end.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	id := s.newID()
	logger := s.logger.With("request_id", id)
	start := time.Now()

	plan, err := s.Plan(question)
	if err != nil {
		logger.Debug("question rejected", "error", err)
		return nil, err
	}
	logger.Debug("question planned", "sql", plan.SQL, "conditions", len(plan.Filter.Conditions))

	if s.runner == nil {
		return nil, fmt.Errorf("no query runner configured")
	}
	result, err := s.runner.Execute(ctx, plan.SQL)
	if err != nil {
		logger.Error("query execution failed", "sql", plan.SQL, "error", err)
		return nil, err
	}

	logger.Info("question answered",
		"operation", plan.Filter.Operation,
		"aggregate", result.IsAggregate(),
		"duration", time.Since(start),
	)

	return &Answer{
		ID:       id,
		Question: strings.TrimSpace(question),
		Filter:   plan.Filter,
		SQL:      plan.SQL,
		Data:     result,
	}, nil
}
