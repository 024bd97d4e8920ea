package exec

import (
	"fmt"
	"time"

	"github.com/Raahin414/fpl-autonomous-bot/internal/common"
	"github.com/Raahin414/fpl-autonomous-bot/internal/fpl"
	"github.com/Raahin414/fpl-autonomous-bot/internal/metrics"
	"github.com/Raahin414/fpl-autonomous-bot/internal/squad"
	"github.com/Raahin414/fpl-autonomous-bot/internal/storage"

	"github.com/rs/zerolog/log"
)

// Poster is the slice of the FPL client the executor needs.
type Poster interface {
	PostTransfers(fpl.TransferPayload) error
	PostPicks(fpl.PicksPayload) error
}

// Exec applies gameweek plans against the FPL API. In dry-run mode it
// logs the payloads it would post and touches nothing remote.
type Exec struct {
	client  Poster
	teamID  int
	dryRun  bool
	metrics *metrics.MetricsWrapper
	store   *storage.Store
}

func New(client Poster, teamID int, dryRun bool, m *metrics.MetricsWrapper) *Exec {
	return &Exec{
		client:  client,
		teamID:  teamID,
		dryRun:  dryRun,
		metrics: m,
	}
}

// SetStorage enables plan persistence for applied plans.
func (e *Exec) SetStorage(s *storage.Store) {
	e.store = s
}

// Apply executes a plan: full squad submissions and free transfers go
// through the transfers endpoint, lineup refreshes through the picks
// endpoint. No-op plans are logged and skipped.
func (e *Exec) Apply(plan squad.Plan) error {
	switch plan.Kind {
	case squad.PlanNoop:
		log.Info().
			Int("gw", plan.Gameweek).
			Str("reason", plan.Reason).
			Msg("no action this run")
		return nil

	case squad.PlanFullSquad:
		if err := e.postTransfers(fpl.TransferPayload{
			Entry:       e.teamID,
			Event:       plan.Gameweek,
			Transfers:   []fpl.TransferItem{},
			Chip:        plan.Chip,
			Confirmed:   true,
			Squad:       plan.Squad,
			Captain:     plan.Captain,
			ViceCaptain: plan.ViceCaptain,
		}, "unlimited squad set"); err != nil {
			return err
		}
		if err := e.postPicks(plan); err != nil {
			return err
		}

	case squad.PlanTransfers:
		if err := e.postTransfers(fpl.TransferPayload{
			Entry:       e.teamID,
			Event:       plan.Gameweek,
			Transfers:   plan.Transfers,
			Chip:        plan.Chip,
			Confirmed:   true,
			Captain:     plan.Captain,
			ViceCaptain: plan.ViceCaptain,
		}, "free transfers"); err != nil {
			return err
		}

	case squad.PlanPicksOnly:
		if err := e.postPicks(plan); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown plan kind %q", plan.Kind)
	}

	if e.store != nil && !e.dryRun {
		if err := e.store.StorePlan(plan, time.Now().UTC()); err != nil {
			log.Warn().Err(err).Msg("failed to persist applied plan")
		}
	}
	return nil
}

func (e *Exec) postTransfers(p fpl.TransferPayload, note string) error {
	if e.dryRun {
		log.Info().
			Str("note", note).
			Int("gw", p.Event).
			Int("transfers", len(p.Transfers)).
			Interface("squad", p.Squad).
			Msg("dry run: transfers not posted")
		return nil
	}

	if err := e.client.PostTransfers(p); err != nil {
		return fmt.Errorf("post transfers (%s): %w", note, err)
	}
	if e.metrics != nil {
		e.metrics.TransfersTotal().Inc()
	}
	return nil
}

func (e *Exec) postPicks(plan squad.Plan) error {
	if len(plan.XI) != common.XISize {
		return fmt.Errorf("plan has %d starters, want %d", len(plan.XI), common.XISize)
	}

	payload := fpl.PicksPayload{
		Picks: make([]fpl.PickItem, 0, len(plan.XI)),
		Chips: []string{},
	}
	payload.EntryHistory.Event = plan.Gameweek
	for idx, id := range plan.XI {
		payload.Picks = append(payload.Picks, fpl.PickItem{
			Element:       id,
			Position:      idx + 1,
			IsCaptain:     id == plan.Captain,
			IsViceCaptain: id == plan.ViceCaptain,
		})
	}

	if e.dryRun {
		log.Info().
			Int("gw", plan.Gameweek).
			Int("captain", plan.Captain).
			Int("vice", plan.ViceCaptain).
			Msg("dry run: picks not posted")
		return nil
	}

	if err := e.client.PostPicks(payload); err != nil {
		return fmt.Errorf("post picks: %w", err)
	}
	if e.metrics != nil {
		e.metrics.PicksPosted().Inc()
	}
	return nil
}
