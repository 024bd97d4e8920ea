package exec

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raahin414/fpl-autonomous-bot/internal/fpl"
	"github.com/Raahin414/fpl-autonomous-bot/internal/squad"
)

type mockPoster struct {
	transfers []fpl.TransferPayload
	picks     []fpl.PicksPayload
	fail      error
}

func (m *mockPoster) PostTransfers(p fpl.TransferPayload) error {
	if m.fail != nil {
		return m.fail
	}
	m.transfers = append(m.transfers, p)
	return nil
}

func (m *mockPoster) PostPicks(p fpl.PicksPayload) error {
	if m.fail != nil {
		return m.fail
	}
	m.picks = append(m.picks, p)
	return nil
}

func fullXI() []int {
	xi := make([]int, 11)
	for i := range xi {
		xi[i] = i + 1
	}
	return xi
}

func TestApplyNoop(t *testing.T) {
	poster := &mockPoster{}
	e := New(poster, 42, false, nil)

	err := e.Apply(squad.Plan{Kind: squad.PlanNoop, Reason: "outside action window"})
	require.NoError(t, err)
	assert.Empty(t, poster.transfers)
	assert.Empty(t, poster.picks)
}

func TestApplyFullSquad(t *testing.T) {
	poster := &mockPoster{}
	e := New(poster, 42, false, nil)

	plan := squad.Plan{
		Kind:        squad.PlanFullSquad,
		Gameweek:    1,
		Squad:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		XI:          fullXI(),
		Captain:     2,
		ViceCaptain: 3,
	}
	require.NoError(t, e.Apply(plan))

	require.Len(t, poster.transfers, 1)
	tp := poster.transfers[0]
	assert.Equal(t, 42, tp.Entry)
	assert.Equal(t, 1, tp.Event)
	assert.Empty(t, tp.Transfers)
	assert.Len(t, tp.Squad, 15)
	assert.Equal(t, 2, tp.Captain)
	assert.True(t, tp.Confirmed)

	require.Len(t, poster.picks, 1)
	pp := poster.picks[0]
	require.Len(t, pp.Picks, 11)
	assert.Equal(t, 1, pp.EntryHistory.Event)
	// Slot positions are 1-based in XI order, armbands on the right slots.
	for i, pick := range pp.Picks {
		assert.Equal(t, i+1, pick.Position)
		assert.Equal(t, pick.Element == 2, pick.IsCaptain)
		assert.Equal(t, pick.Element == 3, pick.IsViceCaptain)
	}
}

func TestApplyTransfers(t *testing.T) {
	poster := &mockPoster{}
	e := New(poster, 42, false, nil)

	plan := squad.Plan{
		Kind:     squad.PlanTransfers,
		Gameweek: 5,
		Transfers: []fpl.TransferItem{
			{ElementOut: 10, ElementIn: 20, PurchasePrice: 55, SellingPrice: 50},
		},
	}
	require.NoError(t, e.Apply(plan))

	require.Len(t, poster.transfers, 1)
	assert.Len(t, poster.transfers[0].Transfers, 1)
	assert.Empty(t, poster.transfers[0].Squad, "weekly transfers must not resubmit the squad")
	assert.Empty(t, poster.picks, "transfer plans do not post picks")
}

func TestApplyPicksOnly(t *testing.T) {
	poster := &mockPoster{}
	e := New(poster, 42, false, nil)

	plan := squad.Plan{
		Kind:        squad.PlanPicksOnly,
		Gameweek:    5,
		XI:          fullXI(),
		Captain:     1,
		ViceCaptain: 2,
	}
	require.NoError(t, e.Apply(plan))

	assert.Empty(t, poster.transfers)
	require.Len(t, poster.picks, 1)
}

func TestApplyPicksRejectsShortXI(t *testing.T) {
	poster := &mockPoster{}
	e := New(poster, 42, false, nil)

	err := e.Apply(squad.Plan{
		Kind:     squad.PlanPicksOnly,
		Gameweek: 5,
		XI:       []int{1, 2, 3},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starters")
	assert.Empty(t, poster.picks)
}

func TestApplyDryRun(t *testing.T) {
	poster := &mockPoster{}
	e := New(poster, 42, true, nil)

	plan := squad.Plan{
		Kind:     squad.PlanTransfers,
		Gameweek: 5,
		Transfers: []fpl.TransferItem{
			{ElementOut: 10, ElementIn: 20},
		},
		XI: fullXI(),
	}
	require.NoError(t, e.Apply(plan))
	assert.Empty(t, poster.transfers, "dry run must not post transfers")

	plan.Kind = squad.PlanPicksOnly
	require.NoError(t, e.Apply(plan))
	assert.Empty(t, poster.picks, "dry run must not post picks")
}

func TestApplyPosterFailure(t *testing.T) {
	poster := &mockPoster{fail: fmt.Errorf("deadline passed")}
	e := New(poster, 42, false, nil)

	err := e.Apply(squad.Plan{
		Kind:      squad.PlanTransfers,
		Gameweek:  5,
		Transfers: []fpl.TransferItem{{ElementOut: 10, ElementIn: 20}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline passed")
}

func TestApplyUnknownKind(t *testing.T) {
	e := New(&mockPoster{}, 42, false, nil)
	err := e.Apply(squad.Plan{Kind: squad.PlanKind("WILDCARD")})
	require.Error(t, err)
}
