package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Raahin414/fpl-autonomous-bot/internal/cfg"
	"github.com/Raahin414/fpl-autonomous-bot/internal/fpl"
	"github.com/Raahin414/fpl-autonomous-bot/internal/scoring"
	"github.com/Raahin414/fpl-autonomous-bot/internal/squad"
	"github.com/Raahin414/fpl-autonomous-bot/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// The planner never posts anything: it builds and prints the plan the
// bot would apply, from a stored bootstrap snapshot or a live fetch.
func main() {
	var (
		live     = flag.Bool("live", false, "fetch live data instead of the stored snapshot")
		top      = flag.Int("top", 20, "how many top-scored players to print")
		logLevel = flag.String("log-level", "warn", "log level: debug, info, warn, error")
	)
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err == nil {
		log.Debug().Msg(".env loaded")
	}

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	client := fpl.NewClient(c.Email, c.Password, c.LoginURL, c.BaseURL, c.TeamID, c.RESTTimeout)

	bs, team := loadState(c, client, *live)
	players := scoring.BuildTable(bs, nil)

	planner := &squad.Planner{
		BudgetTenths:   c.BudgetTenths,
		MaxPerClub:     c.MaxPerClub,
		TransferWindow: c.TransferWindow,
		ChipsEnabled:   c.ChipsEnabled,
	}
	plan := planner.Build(bs, team, players, time.Now().UTC())

	printPlan(plan, players, *top)
}

// loadState prefers the stored snapshot; -live or an empty store falls
// back to the API. Team state requires a live authenticated fetch and
// degrades to an empty team otherwise.
func loadState(c cfg.Settings, client *fpl.Client, live bool) (*fpl.Bootstrap, *fpl.MyTeam) {
	team := &fpl.MyTeam{}

	if !live {
		store, err := storage.New(c.DataPath)
		if err == nil {
			defer store.Close()
			if bs, err := store.LatestSnapshot(); err == nil && bs != nil {
				fmt.Println("planning from stored snapshot")
				return bs, team
			}
		}
		fmt.Println("no stored snapshot, fetching live")
	}

	bs, err := client.Bootstrap()
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap fetch failed")
	}

	if err := client.Login(); err == nil {
		if t, err := client.MyTeam(); err == nil {
			team = t
		} else {
			log.Warn().Err(err).Msg("my-team unavailable, planning without team state")
		}
	} else {
		log.Warn().Err(err).Msg("login failed, planning without team state")
	}
	return bs, team
}

func printPlan(plan squad.Plan, players []scoring.Player, top int) {
	byID := make(map[int]scoring.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	fmt.Println("=== Plan ===")
	fmt.Printf("Kind:     %s\n", plan.Kind)
	fmt.Printf("Gameweek: %d\n", plan.Gameweek)
	if !plan.Deadline.IsZero() {
		fmt.Printf("Deadline: %s (%.1fh)\n", plan.Deadline.Format(time.RFC3339), plan.HoursToDeadline)
	}
	if plan.Reason != "" {
		fmt.Printf("Reason:   %s\n", plan.Reason)
	}

	if len(plan.Squad) > 0 {
		fmt.Println("\nSquad:")
		for _, id := range plan.Squad {
			p := byID[id]
			fmt.Printf("  %-20s %-16s £%.1fm score=%.1f\n", p.Name, p.ClubName, float64(p.Cost)/10, p.Score)
		}
	}
	if len(plan.Transfers) > 0 {
		fmt.Println("\nTransfers:")
		for _, t := range plan.Transfers {
			fmt.Printf("  OUT %-20s IN %-20s\n", byID[t.ElementOut].Name, byID[t.ElementIn].Name)
		}
	}
	if len(plan.XI) > 0 {
		fmt.Println("\nStarting XI:")
		for _, id := range plan.XI {
			p := byID[id]
			marker := ""
			if id == plan.Captain {
				marker = " (C)"
			} else if id == plan.ViceCaptain {
				marker = " (V)"
			}
			fmt.Printf("  %-20s score=%.1f%s\n", p.Name, p.Score, marker)
		}
	}

	fmt.Printf("\nTop %d by score:\n", top)
	for i, p := range players {
		if i >= top {
			break
		}
		fmt.Printf("  %2d. %-20s %-16s £%.1fm score=%.1f\n", i+1, p.Name, p.ClubName, float64(p.Cost)/10, p.Score)
	}
}
