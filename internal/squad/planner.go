package squad

import (
	"time"

	"github.com/Raahin414/fpl-autonomous-bot/internal/common"
	"github.com/Raahin414/fpl-autonomous-bot/internal/fpl"
	"github.com/Raahin414/fpl-autonomous-bot/internal/scoring"

	"github.com/rs/zerolog/log"
)

// PlanKind distinguishes what a weekly plan will post.
type PlanKind string

const (
	PlanFullSquad PlanKind = "FULL_SQUAD" // unlimited window: set the whole 15
	PlanTransfers PlanKind = "TRANSFERS"  // free transfers within the action window
	PlanPicksOnly PlanKind = "PICKS_ONLY" // no transfers available, lineup refresh only
	PlanNoop      PlanKind = "NOOP"       // outside the action window
)

// Plan is one gameweek's intended action, built offline and applied by
// the executor.
type Plan struct {
	Kind            PlanKind           `json:"kind"`
	Gameweek        int                `json:"gameweek"`
	Deadline        time.Time          `json:"deadline"`
	HoursToDeadline float64            `json:"hoursToDeadline"`
	Squad           []int              `json:"squad,omitempty"`
	XI              []int              `json:"xi,omitempty"`
	Captain         int                `json:"captain,omitempty"`
	ViceCaptain     int                `json:"viceCaptain,omitempty"`
	Transfers       []fpl.TransferItem `json:"transfers,omitempty"`
	Chip            *string            `json:"chip,omitempty"`
	Reason          string             `json:"reason,omitempty"`
	BankTenths      int                `json:"bankTenths"`
}

// Planner builds weekly plans from a scored player table and the
// current team state.
type Planner struct {
	BudgetTenths   int
	MaxPerClub     int
	TransferWindow float64 // hours
	ChipsEnabled   bool
}

// Build decides the gameweek action: a full squad set during the GW1
// unlimited window, free transfers inside the action window, and a
// no-op otherwise. Chip scaffolding is wired but stays off unless
// explicitly enabled.
func (pl *Planner) Build(bs *fpl.Bootstrap, team *fpl.MyTeam, players []scoring.Player, now time.Time) Plan {
	next, ok := bs.NextEvent()
	if !ok {
		return Plan{Kind: PlanNoop, Reason: "no upcoming gameweek"}
	}

	hrs := next.HoursToDeadline(now)
	plan := Plan{
		Gameweek:        next.ID,
		Deadline:        next.Deadline(),
		HoursToDeadline: hrs,
		BankTenths:      team.Transfers.Bank,
	}

	// GW1: unlimited transfers, set the optimal 15 outright.
	if next.ID == 1 && hrs > 0 {
		plan.Kind = PlanFullSquad
		plan.Squad = PickSquad(players, pl.BudgetTenths, pl.MaxPerClub)
		plan.XI, plan.Captain, plan.ViceCaptain = PickXI(players, plan.Squad)
		plan.Chip = pl.chipFor(team, next.ID)
		return plan
	}

	if hrs <= 0 || hrs > pl.TransferWindow {
		plan.Kind = PlanNoop
		plan.Reason = "outside action window"
		return plan
	}

	// GW2+ inside the window: free transfers only.
	owned := make([]int, 0, len(team.Picks))
	ownedSet := make(map[int]bool, len(team.Picks))
	sellPrice := make(map[int]int, len(team.Picks))
	for _, p := range team.Picks {
		owned = append(owned, p.Element)
		ownedSet[p.Element] = true
		sellPrice[p.Element] = p.SellingPrice
	}

	target := PickSquad(players, pl.BudgetTenths, pl.MaxPerClub)

	// kept players first, then the strongest newcomers
	desired := make([]int, 0, common.SquadSize)
	for _, id := range target {
		if ownedSet[id] {
			desired = append(desired, id)
		}
	}
	for _, id := range target {
		if len(desired) >= common.SquadSize {
			break
		}
		if !contains(desired, id) {
			desired = append(desired, id)
		}
	}

	freeLeft := team.Transfers.FreeLeft()
	if freeLeft < 0 {
		// unlimited outside GW1, e.g. an active wildcard set manually
		freeLeft = common.SquadSize
	}

	desiredSet := make(map[int]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}

	cost := make(map[int]int, len(players))
	for _, p := range players {
		cost[p.ID] = p.Cost
	}

	var outs, ins []int
	for _, id := range owned {
		if !desiredSet[id] && len(outs) < freeLeft {
			outs = append(outs, id)
		}
	}
	for _, id := range desired {
		if !ownedSet[id] && len(ins) < freeLeft {
			ins = append(ins, id)
		}
	}

	if len(outs) == len(ins) && len(ins) > 0 {
		plan.Kind = PlanTransfers
		for i := range outs {
			plan.Transfers = append(plan.Transfers, fpl.TransferItem{
				ElementOut:    outs[i],
				ElementIn:     ins[i],
				PurchasePrice: cost[ins[i]],
				SellingPrice:  sellPrice[outs[i]],
			})
		}
	} else {
		plan.Kind = PlanPicksOnly
	}

	xiSource := owned
	if len(desired) == common.SquadSize && plan.Kind == PlanTransfers {
		xiSource = desired
	}
	plan.XI, plan.Captain, plan.ViceCaptain = PickXI(players, xiSource)
	plan.Chip = pl.chipFor(team, next.ID)
	return plan
}

// chipFor is the chip-timing hook. Disabled by default: it only ever
// returns nil until ChipsEnabled is set, and even then plays nothing
// until a timing rule is added here.
func (pl *Planner) chipFor(team *fpl.MyTeam, gw int) *string {
	if !pl.ChipsEnabled {
		return nil
	}
	for _, c := range team.Chips {
		if c.StatusForEntry == "available" {
			log.Debug().Str("chip", c.Name).Int("gw", gw).Msg("chip available but no timing rule")
		}
	}
	return nil
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
