// Package bot implements the invoked unit: the weekly FPL routine that
// fetches the game state, scores players and applies a gameweek plan.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Raahin414/fpl-autonomous-bot/internal/cfg"
	"github.com/Raahin414/fpl-autonomous-bot/internal/exec"
	"github.com/Raahin414/fpl-autonomous-bot/internal/fpl"
	"github.com/Raahin414/fpl-autonomous-bot/internal/metrics"
	"github.com/Raahin414/fpl-autonomous-bot/internal/scoring"
	"github.com/Raahin414/fpl-autonomous-bot/internal/sentiment"
	"github.com/Raahin414/fpl-autonomous-bot/internal/squad"
	"github.com/Raahin414/fpl-autonomous-bot/internal/storage"

	"github.com/rs/zerolog/log"
)

// Client is the slice of the FPL client the routine needs.
type Client interface {
	Login() error
	Bootstrap() (*fpl.Bootstrap, error)
	MyTeam() (*fpl.MyTeam, error)
}

// Snapshot is the routine's last observed state, consumed by the
// dashboard.
type Snapshot struct {
	Gameweek        int       `json:"gameweek"`
	Deadline        time.Time `json:"deadline"`
	HoursToDeadline float64   `json:"hoursToDeadline"`
	BankTenths      int       `json:"bankTenths"`
	PlanKind        string    `json:"planKind"`
	ObservedAt      time.Time `json:"observedAt"`
}

// Weekly composes the fetch → sentiment → score → plan → apply
// pipeline into one run of the invoked unit.
type Weekly struct {
	settings cfg.Settings
	client   Client
	executor *exec.Exec
	scraper  *sentiment.Scraper
	planner  *squad.Planner
	store    *storage.Store
	metrics  *metrics.MetricsWrapper

	mu   sync.RWMutex
	last Snapshot
}

func New(settings cfg.Settings, client Client, executor *exec.Exec, m *metrics.MetricsWrapper) *Weekly {
	return &Weekly{
		settings: settings,
		client:   client,
		executor: executor,
		metrics:  m,
		planner: &squad.Planner{
			BudgetTenths:   settings.BudgetTenths,
			MaxPerClub:     settings.MaxPerClub,
			TransferWindow: settings.TransferWindow,
			ChipsEnabled:   settings.ChipsEnabled,
		},
	}
}

// SetStorage enables bootstrap snapshot persistence.
func (w *Weekly) SetStorage(s *storage.Store) {
	w.store = s
}

// SetScraper enables news sentiment collection.
func (w *Weekly) SetScraper(s *sentiment.Scraper) {
	w.scraper = s
}

// Run executes one weekly routine. The lexicon comes from the runner's
// resource-provisioning stage; sentiment is skipped when it is nil or
// scraping is disabled.
func (w *Weekly) Run(ctx context.Context, lex sentiment.Lexicon) error {
	fetchStart := time.Now()
	bs, err := w.client.Bootstrap()
	if err != nil {
		return fmt.Errorf("fetch bootstrap: %w", err)
	}
	if w.metrics != nil {
		w.metrics.FetchLatency().Observe(time.Since(fetchStart).Seconds())
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	next, ok := bs.NextEvent()
	if !ok {
		log.Info().Msg("no upcoming gameweek, nothing to do")
		return nil
	}

	now := time.Now().UTC()
	hrs := next.HoursToDeadline(now)
	log.Info().
		Int("gw", next.ID).
		Str("deadline", next.DeadlineTime).
		Float64("hours", hrs).
		Msg("next gameweek")

	if err := w.client.Login(); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	team, err := w.client.MyTeam()
	if err != nil {
		return fmt.Errorf("fetch my-team: %w", err)
	}
	log.Info().
		Float64("bank_m", float64(team.Transfers.Bank)/10).
		Int("owned", len(team.Picks)).
		Msg("team state")

	if w.metrics != nil {
		w.metrics.BankTenths().Set(float64(team.Transfers.Bank))
		w.metrics.HoursToDeadline().Set(hrs)
	}
	if w.store != nil {
		if err := w.store.StoreSnapshot(bs, now); err != nil {
			log.Warn().Err(err).Msg("failed to store bootstrap snapshot")
		}
	}

	scores := w.collectSentiment(ctx, bs, lex)
	players := scoring.BuildTable(bs, scores)

	plan := w.planner.Build(bs, team, players, now)
	log.Info().
		Str("kind", string(plan.Kind)).
		Int("gw", plan.Gameweek).
		Int("transfers", len(plan.Transfers)).
		Msg("plan built")

	w.mu.Lock()
	w.last = Snapshot{
		Gameweek:        plan.Gameweek,
		Deadline:        plan.Deadline,
		HoursToDeadline: plan.HoursToDeadline,
		BankTenths:      team.Transfers.Bank,
		PlanKind:        string(plan.Kind),
		ObservedAt:      now,
	}
	w.mu.Unlock()

	if err := w.executor.Apply(plan); err != nil {
		return fmt.Errorf("apply plan: %w", err)
	}
	return nil
}

// collectSentiment scrapes news sources when enabled. Failures degrade
// to empty scores rather than failing the run.
func (w *Weekly) collectSentiment(ctx context.Context, bs *fpl.Bootstrap, lex sentiment.Lexicon) map[string]float64 {
	if !w.settings.SentimentEnabled || w.scraper == nil || lex == nil {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	scores := w.scraper.Scores(scoring.Names(bs), sentiment.NewAnalyzer(lex))
	log.Info().Int("mentioned", len(scores)).Msg("sentiment collected")
	return scores
}

// LastSnapshot returns what the last run observed.
func (w *Weekly) LastSnapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last
}
