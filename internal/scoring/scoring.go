package scoring

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Raahin414/fpl-autonomous-bot/internal/common"
	"github.com/Raahin414/fpl-autonomous-bot/internal/fpl"
)

// injuryPattern flags news text that lowers a player's availability.
var injuryPattern = regexp.MustCompile(`(?i)injury|doubt|knock|illness|suspend`)

// posMultipliers nudge scores toward the positions that historically
// return more points per cost.
var posMultipliers = map[int]float64{
	common.PositionGKP: 0.9,
	common.PositionDEF: 1.05,
	common.PositionMID: 1.1,
	common.PositionFWD: 1.0,
}

// Player is a scored element ready for squad selection.
type Player struct {
	ID       int
	Name     string
	Club     int
	ClubName string
	Position int
	Cost     int // tenths of a million
	Score    float64
}

// AvailabilityMult maps an element's status and news to a multiplier:
// fully available 1.0, injury-flagged 0.3, anything else 0.6.
func AvailabilityMult(e fpl.Element) float64 {
	injured := injuryPattern.MatchString(e.News)
	switch {
	case injured:
		return 0.3
	case e.Status == "a":
		return 1.0
	default:
		return 0.6
	}
}

// Score computes the selection score for a single element given its
// accumulated news sentiment.
func Score(e fpl.Element, sentiment float64) float64 {
	base := (e.EPNextF()*10 + e.FormF()*2 + e.ICTF()*0.8) * AvailabilityMult(e)
	return base*posMultipliers[e.ElementType] + sentiment
}

// BuildTable scores every element in the bootstrap and returns players
// sorted by descending score. Sentiment is keyed by lowercase web name
// and may be nil.
func BuildTable(bs *fpl.Bootstrap, sentiment map[string]float64) []Player {
	clubNames := make(map[int]string, len(bs.Teams))
	for _, t := range bs.Teams {
		clubNames[t.ID] = t.Name
	}

	players := make([]Player, 0, len(bs.Elements))
	for _, e := range bs.Elements {
		if _, ok := posMultipliers[e.ElementType]; !ok {
			continue // manager cards and other non-squad element types
		}
		players = append(players, Player{
			ID:       e.ID,
			Name:     e.WebName,
			Club:     e.Team,
			ClubName: clubNames[e.Team],
			Position: e.ElementType,
			Cost:     e.NowCost,
			Score:    Score(e, sentiment[strings.ToLower(e.WebName)]),
		})
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})
	return players
}

// Names returns the lowercase web names of all scoreable elements,
// the mention targets for the news scraper.
func Names(bs *fpl.Bootstrap) []string {
	names := make([]string, 0, len(bs.Elements))
	seen := make(map[string]bool, len(bs.Elements))
	for _, e := range bs.Elements {
		n := strings.ToLower(e.WebName)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	return names
}
