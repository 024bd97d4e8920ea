// Package runner implements the scheduled invocation contract: one run
// per daily trigger or manual request, with runtime dependencies and
// the sentiment lexicon provisioned before the unit executes and a
// structured outcome reported afterwards.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/Raahin414/fpl-autonomous-bot/internal/metrics"
	"github.com/Raahin414/fpl-autonomous-bot/internal/sentiment"
	"github.com/Raahin414/fpl-autonomous-bot/internal/storage"

	"github.com/rs/zerolog/log"
)

// Outcome classifies how a run ended. A provisioning failure means the
// unit was never executed.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeDependencyFailure Outcome = "dependency-failure"
	OutcomeResourceFailure   Outcome = "resource-failure"
	OutcomeUnitFailure       Outcome = "unit-failure"
)

// Trigger identifies what started a run.
type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// Result is the structured outcome of a single run.
type Result struct {
	Outcome    Outcome
	Err        error
	Trigger    Trigger
	StartedAt  time.Time
	FinishedAt time.Time
}

// Failed reports whether the run ended in any failure outcome.
func (r Result) Failed() bool { return r.Outcome != OutcomeSuccess }

// Unit is the single executable entry point invoked once per trigger.
type Unit interface {
	Run(ctx context.Context, lex sentiment.Lexicon) error
}

// LexiconSource provisions the named lexical resource before each run.
type LexiconSource interface {
	Ensure() (sentiment.Lexicon, error)
}

// Runner drives the daily schedule. Runs are strictly sequential: a
// trigger that fires while a run is in flight waits for it.
type Runner struct {
	unit    Unit
	lexicon LexiconSource
	deps    func() error // runtime dependency provisioning, may be nil
	runHour int          // UTC hour of the daily trigger
	store   *storage.Store
	metrics *metrics.Metrics
	now     func() time.Time

	mu      sync.Mutex // serializes runs
	stateMu sync.RWMutex
	last    *Result
	nextRun time.Time
}

func New(unit Unit, lexicon LexiconSource, runHour int, m *metrics.Metrics) *Runner {
	return &Runner{
		unit:    unit,
		lexicon: lexicon,
		runHour: runHour,
		metrics: m,
		now:     time.Now,
	}
}

// SetDependencyCheck installs the dependency-provisioning step executed
// before the lexicon fetch on every run.
func (r *Runner) SetDependencyCheck(deps func() error) {
	r.deps = deps
}

// SetStorage enables run history persistence.
func (r *Runner) SetStorage(s *storage.Store) {
	r.store = s
}

// RunOnce performs exactly one run: dependencies, lexicon, unit, in
// that order, aborting at the first failed stage.
func (r *Runner) RunOnce(ctx context.Context, trigger Trigger) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := r.now().UTC()
	log.Info().Str("trigger", string(trigger)).Msg("run starting")
	if r.metrics != nil {
		r.metrics.RunsTotal.Inc()
		r.metrics.LastRunUnix.Set(float64(started.Unix()))
	}

	result := r.execute(ctx)
	result.Trigger = trigger
	result.StartedAt = started
	result.FinishedAt = r.now().UTC()

	r.report(result)
	return result
}

func (r *Runner) execute(ctx context.Context) Result {
	if r.deps != nil {
		if err := r.deps(); err != nil {
			return Result{Outcome: OutcomeDependencyFailure, Err: err}
		}
	}

	lex, err := r.lexicon.Ensure()
	if err != nil {
		return Result{Outcome: OutcomeResourceFailure, Err: err}
	}

	if err := r.unit.Run(ctx, lex); err != nil {
		return Result{Outcome: OutcomeUnitFailure, Err: err}
	}
	return Result{Outcome: OutcomeSuccess}
}

func (r *Runner) report(result Result) {
	duration := result.FinishedAt.Sub(result.StartedAt)

	if r.metrics != nil {
		r.metrics.RunDuration.Observe(duration.Seconds())
		switch result.Outcome {
		case OutcomeSuccess:
			r.metrics.RunSuccesses.Inc()
		case OutcomeDependencyFailure:
			r.metrics.DependencyFailures.Inc()
			r.metrics.ErrorsTotal.Inc()
		case OutcomeResourceFailure:
			r.metrics.ResourceFailures.Inc()
			r.metrics.ErrorsTotal.Inc()
		case OutcomeUnitFailure:
			r.metrics.UnitFailures.Inc()
			r.metrics.ErrorsTotal.Inc()
		}
	}

	record := storage.RunRecord{
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Trigger:    string(result.Trigger),
		Outcome:    string(result.Outcome),
	}
	if result.Err != nil {
		record.Error = result.Err.Error()
	}
	if r.store != nil {
		if err := r.store.StoreRun(record); err != nil {
			log.Warn().Err(err).Msg("failed to persist run record")
		}
	}

	r.stateMu.Lock()
	res := result
	r.last = &res
	r.stateMu.Unlock()

	evt := log.Info()
	if result.Failed() {
		evt = log.Error().Err(result.Err)
	}
	evt.
		Str("outcome", string(result.Outcome)).
		Str("trigger", string(result.Trigger)).
		Dur("duration", duration).
		Msg("run finished")
}

// Start blocks, firing one run at the configured UTC hour every day
// until the context is canceled.
func (r *Runner) Start(ctx context.Context) error {
	for {
		next := r.nextTrigger(r.now().UTC())
		r.stateMu.Lock()
		r.nextRun = next
		r.stateMu.Unlock()

		wait := next.Sub(r.now().UTC())
		log.Info().Time("next", next).Dur("in", wait).Msg("scheduled")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			r.RunOnce(ctx, TriggerSchedule)
		}
	}
}

// nextTrigger returns the next occurrence of the configured hour,
// strictly after now.
func (r *Runner) nextTrigger(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), r.runHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// LastResult returns the most recent run result, or false before the
// first run completes.
func (r *Runner) LastResult() (Result, bool) {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	if r.last == nil {
		return Result{}, false
	}
	return *r.last, true
}

// NextRun returns the next scheduled trigger time.
func (r *Runner) NextRun() time.Time {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return r.nextRun
}
