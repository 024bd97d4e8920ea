// Package squad turns scored player tables into legal 15-man squads,
// starting elevens and weekly transfer plans.
package squad

import (
	"sort"

	"github.com/Raahin414/fpl-autonomous-bot/internal/common"
	"github.com/Raahin414/fpl-autonomous-bot/internal/scoring"
)

// squadShape is the required 15-man composition per position.
var squadShape = map[int]int{
	common.PositionGKP: 2,
	common.PositionDEF: 5,
	common.PositionMID: 5,
	common.PositionFWD: 3,
}

// xiMinima are the formation floor per position for the starting XI.
var xiMinima = map[int]int{
	common.PositionGKP: 1,
	common.PositionDEF: 3,
	common.PositionMID: 2,
	common.PositionFWD: 1,
}

// PickSquad greedily selects a 15-man squad by descending score within
// each position, respecting the budget and the per-club cap. The input
// must be sorted by descending score.
func PickSquad(players []scoring.Player, budgetTenths, maxPerClub int) []int {
	selected := make([]int, 0, common.SquadSize)
	clubCount := make(map[int]int)
	remaining := budgetTenths

	for _, pos := range []int{common.PositionGKP, common.PositionDEF, common.PositionMID, common.PositionFWD} {
		need := squadShape[pos]
		for _, p := range players {
			if need == 0 {
				break
			}
			if p.Position != pos {
				continue
			}
			if clubCount[p.Club] >= maxPerClub {
				continue
			}
			if p.Cost > remaining {
				continue
			}
			selected = append(selected, p.ID)
			clubCount[p.Club]++
			remaining -= p.Cost
			need--
		}
	}
	return selected
}

// PickXI selects the starting eleven from a squad, fills positional
// minima first, then tops up by score while keeping at most one
// goalkeeper and three forwards. Returns the XI in descending score
// order plus captain and vice captain.
func PickXI(players []scoring.Player, squadIDs []int) (xi []int, captain, vice int) {
	inSquad := make(map[int]bool, len(squadIDs))
	for _, id := range squadIDs {
		inSquad[id] = true
	}

	pool := make([]scoring.Player, 0, len(squadIDs))
	for _, p := range players {
		if inSquad[p.ID] {
			pool = append(pool, p)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Score > pool[j].Score })

	taken := make(map[int]bool, common.XISize)
	posCount := make(map[int]int)

	for _, pos := range []int{common.PositionGKP, common.PositionDEF, common.PositionMID, common.PositionFWD} {
		need := xiMinima[pos]
		for _, p := range pool {
			if need == 0 {
				break
			}
			if p.Position != pos || taken[p.ID] {
				continue
			}
			xi = append(xi, p.ID)
			taken[p.ID] = true
			posCount[pos]++
			need--
		}
	}

	for _, p := range pool {
		if len(xi) == common.XISize {
			break
		}
		if taken[p.ID] {
			continue
		}
		if p.Position == common.PositionGKP && posCount[common.PositionGKP] >= 1 {
			continue
		}
		if p.Position == common.PositionFWD && posCount[common.PositionFWD] >= 3 {
			continue
		}
		xi = append(xi, p.ID)
		taken[p.ID] = true
		posCount[p.Position]++
	}

	// highest scorers in the XI wear the armbands
	for _, p := range pool {
		if !taken[p.ID] {
			continue
		}
		if captain == 0 {
			captain = p.ID
			continue
		}
		vice = p.ID
		break
	}
	return xi, captain, vice
}
