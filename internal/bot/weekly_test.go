package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raahin414/fpl-autonomous-bot/internal/cfg"
	"github.com/Raahin414/fpl-autonomous-bot/internal/common"
	"github.com/Raahin414/fpl-autonomous-bot/internal/exec"
	"github.com/Raahin414/fpl-autonomous-bot/internal/fpl"
)

type mockClient struct {
	bootstrap    *fpl.Bootstrap
	team         *fpl.MyTeam
	bootstrapErr error
	loginErr     error
	teamErr      error
	logins       int
}

func (m *mockClient) Login() error {
	m.logins++
	return m.loginErr
}

func (m *mockClient) Bootstrap() (*fpl.Bootstrap, error) {
	if m.bootstrapErr != nil {
		return nil, m.bootstrapErr
	}
	return m.bootstrap, nil
}

func (m *mockClient) MyTeam() (*fpl.MyTeam, error) {
	if m.teamErr != nil {
		return nil, m.teamErr
	}
	return m.team, nil
}

type recordingPoster struct {
	transfers []fpl.TransferPayload
	picks     []fpl.PicksPayload
}

func (p *recordingPoster) PostTransfers(t fpl.TransferPayload) error {
	p.transfers = append(p.transfers, t)
	return nil
}

func (p *recordingPoster) PostPicks(t fpl.PicksPayload) error {
	p.picks = append(p.picks, t)
	return nil
}

func testSettings() cfg.Settings {
	return cfg.Settings{
		TeamID:         42,
		BudgetTenths:   1000,
		MaxPerClub:     3,
		TransferWindow: 24,
	}
}

// testBootstrap builds a bootstrap with a deep enough player pool to
// fill a legal squad inside the budget.
func testBootstrap(gw int, deadline time.Time) *fpl.Bootstrap {
	bs := &fpl.Bootstrap{
		Events: []fpl.Event{{ID: gw, IsNext: true, DeadlineTime: deadline.UTC().Format(time.RFC3339)}},
	}
	for i := 1; i <= 8; i++ {
		bs.Teams = append(bs.Teams, fpl.Team{ID: i, Name: fmt.Sprintf("Club %d", i)})
	}

	id := 0
	add := func(pos, count, cost int, ep string) {
		for i := 0; i < count; i++ {
			id++
			bs.Elements = append(bs.Elements, fpl.Element{
				ID:          id,
				WebName:     fmt.Sprintf("Player%d", id),
				Team:        (id % 8) + 1,
				ElementType: pos,
				NowCost:     cost,
				Status:      "a",
				EPNext:      ep,
			})
		}
	}
	add(common.PositionGKP, 3, 45, "4.0")
	add(common.PositionDEF, 6, 50, "4.5")
	add(common.PositionMID, 6, 60, "6.0")
	add(common.PositionFWD, 4, 60, "5.5")
	return bs
}

func TestRunGameweekOnePostsFullSquad(t *testing.T) {
	client := &mockClient{
		bootstrap: testBootstrap(1, time.Now().Add(12*time.Hour)),
		team:      &fpl.MyTeam{},
	}
	poster := &recordingPoster{}
	settings := testSettings()
	w := New(settings, client, exec.New(poster, settings.TeamID, false, nil), nil)

	require.NoError(t, w.Run(context.Background(), nil))

	assert.Equal(t, 1, client.logins, "routine must authenticate before acting")
	require.Len(t, poster.transfers, 1, "unlimited window posts one squad submission")
	assert.Len(t, poster.transfers[0].Squad, common.SquadSize)
	require.Len(t, poster.picks, 1)
	assert.Len(t, poster.picks[0].Picks, common.XISize)

	snap := w.LastSnapshot()
	assert.Equal(t, 1, snap.Gameweek)
	assert.Equal(t, "FULL_SQUAD", snap.PlanKind)
}

func TestRunOutsideWindowDoesNothing(t *testing.T) {
	client := &mockClient{
		bootstrap: testBootstrap(5, time.Now().Add(96*time.Hour)),
		team:      &fpl.MyTeam{},
	}
	poster := &recordingPoster{}
	settings := testSettings()
	w := New(settings, client, exec.New(poster, settings.TeamID, false, nil), nil)

	require.NoError(t, w.Run(context.Background(), nil))

	assert.Empty(t, poster.transfers)
	assert.Empty(t, poster.picks)
	assert.Equal(t, "NOOP", w.LastSnapshot().PlanKind)
}

func TestRunNoNextGameweek(t *testing.T) {
	client := &mockClient{
		bootstrap: &fpl.Bootstrap{Events: []fpl.Event{{ID: 38, Finished: true}}},
	}
	poster := &recordingPoster{}
	settings := testSettings()
	w := New(settings, client, exec.New(poster, settings.TeamID, false, nil), nil)

	require.NoError(t, w.Run(context.Background(), nil))
	assert.Zero(t, client.logins, "no login needed when the season is over")
	assert.Empty(t, poster.transfers)
}

func TestRunBootstrapFailure(t *testing.T) {
	client := &mockClient{bootstrapErr: fmt.Errorf("api down")}
	settings := testSettings()
	w := New(settings, client, exec.New(&recordingPoster{}, settings.TeamID, false, nil), nil)

	err := w.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap")
}

func TestRunLoginFailure(t *testing.T) {
	client := &mockClient{
		bootstrap: testBootstrap(5, time.Now().Add(12*time.Hour)),
		loginErr:  fmt.Errorf("credentials rejected"),
	}
	settings := testSettings()
	w := New(settings, client, exec.New(&recordingPoster{}, settings.TeamID, false, nil), nil)

	err := w.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login")
}

func TestRunCanceledContext(t *testing.T) {
	client := &mockClient{
		bootstrap: testBootstrap(5, time.Now().Add(12*time.Hour)),
		team:      &fpl.MyTeam{},
	}
	settings := testSettings()
	w := New(settings, client, exec.New(&recordingPoster{}, settings.TeamID, false, nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Run(ctx, nil)
	require.Error(t, err)
	assert.Zero(t, client.logins, "canceled run must stop before authenticating")
}
