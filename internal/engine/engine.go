// Package engine orchestrates the signal, persona, recommendation, and
// guardrail stages into per-user pipeline runs and records the decision
// trace for each run.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mintwell/mintwell/internal/catalog"
	"github.com/mintwell/mintwell/internal/common"
	"github.com/mintwell/mintwell/internal/guardrail"
	"github.com/mintwell/mintwell/internal/model"
	"github.com/mintwell/mintwell/internal/persona"
	"github.com/mintwell/mintwell/internal/recommend"
	"github.com/mintwell/mintwell/internal/service"
	"github.com/mintwell/mintwell/internal/signal"
	"github.com/mintwell/mintwell/internal/trace"
)

// Config holds configuration options for the pipeline engine.
type Config struct {
	WindowDays     int
	EducationCount int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		WindowDays:     model.WindowShort,
		EducationCount: 5,
	}
}

// Engine runs the recommendation pipeline. All stages are pure computations
// over a snapshot fetched at the start of a run, so one Engine may serve
// concurrent per-user runs without coordination.
type Engine struct {
	storage    service.Storage
	aggregator *signal.Aggregator
	scorer     *persona.Scorer
	composer   *recommend.Composer
	guardrails *guardrail.Engine
	logger     *slog.Logger
	config     Config
}

// New creates a pipeline engine. The catalog is shared read-only state; the
// enhancer may be the no-op passthrough.
func New(storage service.Storage, cat *catalog.Catalog, enhancer service.Enhancer, logger *slog.Logger, config Config) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if config.WindowDays == 0 {
		config.WindowDays = model.WindowShort
	}
	if config.EducationCount == 0 {
		config.EducationCount = 5
	}
	return &Engine{
		storage:    storage,
		aggregator: signal.NewAggregator(),
		scorer:     persona.NewScorer(),
		composer:   recommend.NewComposer(cat, enhancer, logger),
		guardrails: guardrail.NewEngine(storage, cat, logger),
		logger:     logger,
		config:     config,
	}
}

// RunResult is the full outcome of one user's pipeline run.
type RunResult struct {
	Trace   model.DecisionTrace
	Results []guardrail.Result
	Signals model.SignalSet
}

// ComputeSignals fetches the user's snapshot and derives the SignalSet for
// the window. Identical stored inputs yield identical SignalSets.
func (e *Engine) ComputeSignals(ctx context.Context, userID string, windowDays int) (model.SignalSet, error) {
	if windowDays != model.WindowShort && windowDays != model.WindowLong {
		return model.SignalSet{}, fmt.Errorf("%w: %d days (want %d or %d)",
			common.ErrInvalidWindow, windowDays, model.WindowShort, model.WindowLong)
	}

	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	in, err := e.fetchInputs(ctx, userID, windowDays, asOf)
	if err != nil {
		return model.SignalSet{}, err
	}

	return e.aggregator.Compute(userID, in, windowDays, asOf), nil
}

// AssignPersonas evaluates the five persona rule-sets against a SignalSet.
func (e *Engine) AssignPersonas(sig *model.SignalSet) model.PersonaDistribution {
	return e.scorer.Assign(sig)
}

// GenerateRecommendations composes drafts for a user from an existing
// distribution and SignalSet. Composer decisions are recorded in a trace
// builder that the caller may discard when only the drafts matter.
func (e *Engine) GenerateRecommendations(ctx context.Context, userID string, dist model.PersonaDistribution, sig *model.SignalSet, count int) ([]model.RecommendationDraft, error) {
	tb := trace.NewBuilder(userID)
	drafts := e.composer.Compose(ctx, userID, dist, sig, count, sig.ComputedAt, tb)
	return drafts, nil
}

// ApplyGuardrails validates drafts for a user. Signals are recomputed over
// the default window for offer eligibility thresholds.
func (e *Engine) ApplyGuardrails(ctx context.Context, drafts []model.RecommendationDraft, userID string) ([]guardrail.Result, error) {
	sig, err := e.ComputeSignals(ctx, userID, e.config.WindowDays)
	if err != nil {
		return nil, err
	}
	tb := trace.NewBuilder(userID)
	return e.guardrails.Apply(ctx, drafts, userID, &sig, tb)
}

// GetDecisionTrace returns the most recent persisted trace for a user.
// A user who has never been run through the pipeline yields ErrNotFound.
func (e *Engine) GetDecisionTrace(ctx context.Context, userID string) (*model.DecisionTrace, error) {
	tr, err := e.storage.GetLatestDecisionTrace(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: no decision trace for user %s", common.ErrNotFound, userID)
	}
	return tr, nil
}

// Run executes the full pipeline for one user: signals, personas,
// composition, guardrails, and trace persistence. Guardrail-allowed
// recommendations are saved in pending state; blocked ones only appear in
// the trace.
func (e *Engine) Run(ctx context.Context, userID string, windowDays int) (*RunResult, error) {
	if windowDays == 0 {
		windowDays = e.config.WindowDays
	}

	sig, err := e.ComputeSignals(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}

	tb := trace.NewBuilder(userID)
	tb.RecordSignals(sig)

	dist := e.scorer.Assign(&sig)
	tb.RecordPersonas(dist)

	e.logger.Info("personas assigned",
		"user_id", userID,
		"primary", dist.Primary,
		"risk", dist.Risk,
		"risk_points", dist.TotalRiskPoints)

	drafts := e.composer.Compose(ctx, userID, dist, &sig, e.config.EducationCount, sig.ComputedAt, tb)

	results, err := e.guardrails.Apply(ctx, drafts, userID, &sig, tb)
	if err != nil {
		return nil, err
	}

	var allowed []model.Recommendation
	for _, r := range results {
		if r.Allowed {
			allowed = append(allowed, r.Recommendation)
		}
	}
	if len(allowed) > 0 {
		if err := e.storage.SaveRecommendations(ctx, allowed); err != nil {
			return nil, fmt.Errorf("failed to save recommendations: %w", err)
		}
	}

	decisionTrace := tb.Finalize(time.Now().UTC())
	if err := e.storage.SaveDecisionTrace(ctx, &decisionTrace); err != nil {
		return nil, fmt.Errorf("failed to save decision trace: %w", err)
	}

	e.logger.Info("pipeline run complete",
		"user_id", userID,
		"run_id", decisionTrace.RunID,
		"drafts", len(drafts),
		"allowed", len(allowed),
		"blocked", decisionTrace.BlockedCount())

	return &RunResult{
		Trace:   decisionTrace,
		Results: results,
		Signals: sig,
	}, nil
}

// fetchInputs materializes the user's snapshot. The transaction range covers
// both the signal window and the 90-day recurrence lookback.
func (e *Engine) fetchInputs(ctx context.Context, userID string, windowDays int, asOf time.Time) (signal.Inputs, error) {
	lookback := windowDays
	if lookback < 90 {
		lookback = 90
	}
	start := asOf.AddDate(0, 0, -lookback)

	txns, err := e.storage.GetTransactionsByUser(ctx, userID, service.TransactionFilter{StartDate: &start})
	if err != nil {
		return signal.Inputs{}, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	accounts, err := e.storage.GetAccountsByUser(ctx, userID)
	if err != nil {
		return signal.Inputs{}, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	liabilities, err := e.storage.GetLiabilitiesByUser(ctx, userID)
	if err != nil {
		return signal.Inputs{}, fmt.Errorf("failed to fetch liabilities: %w", err)
	}

	return signal.Inputs{
		Transactions: txns,
		Accounts:     accounts,
		Liabilities:  liabilities,
	}, nil
}
