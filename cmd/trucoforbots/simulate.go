package main

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/lox/trucoforbots/cmd/trucoforbots/shared"
	"github.com/lox/trucoforbots/internal/deck"
	"github.com/lox/trucoforbots/internal/game"
	"github.com/lox/trucoforbots/internal/randutil"
)

// SimulateCmd plays strategy-vs-strategy matches without a server
type SimulateCmd struct {
	Matches   int    `kong:"default='100',help='Number of matches to play'"`
	StrategyA string `kong:"default='random',help='Strategy for team A (random, calling, cautious, aggressive)'"`
	StrategyB string `kong:"default='random',help='Strategy for team B'"`
	Target    int    `kong:"default='30',help='Target score'"`
	Flor      bool   `kong:"help='Enable flor'"`
	Seed      int64  `kong:"help='Deterministic base seed (0 seeds from the clock)'"`
	Parallel  int    `kong:"default='0',help='Worker count, 0 uses all CPUs'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
}

type simResults struct {
	mu         sync.Mutex
	wins       [2]int
	totalHands int
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	parallel := c.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	logger.Info("starting simulation",
		"matches", c.Matches,
		"team_a", c.StrategyA,
		"team_b", c.StrategyB,
		"target", c.Target,
		"flor", c.Flor,
		"seed", seed,
		"parallel", parallel)

	results := &simResults{}
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(parallel)
	for i := 0; i < c.Matches; i++ {
		matchSeed := seed + int64(i)*1000003
		g.Go(func() error {
			winner, hands, err := c.runMatch(matchSeed)
			if err != nil {
				return err
			}
			results.mu.Lock()
			results.wins[winner]++
			results.totalHands += hands
			results.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.render(results, time.Since(start))
	return nil
}

func (c *SimulateCmd) runMatch(seed int64) (game.Team, int, error) {
	m, err := game.NewMatch(game.Config{
		Seats: []game.SeatConfig{
			{ID: "a", Name: c.StrategyA, Team: game.TeamA},
			{ID: "b", Name: c.StrategyB, Team: game.TeamB},
		},
		TargetScore: c.Target,
		FlorEnabled: c.Flor,
		Seed:        seed,
	}, nil)
	if err != nil {
		return 0, 0, err
	}

	agents := map[string]game.Agent{
		"a": game.ResolveAgent(c.StrategyA),
		"b": game.ResolveAgent(c.StrategyB),
	}
	rng := randutil.New(seed)

	for steps := 0; m.State() != game.StateFinished; steps++ {
		if steps > 100000 {
			return 0, 0, fmt.Errorf("match with seed %d did not terminate", seed)
		}

		if m.State() == game.StateAwaitingDeal {
			if _, _, err := m.DealNewHand(); err != nil {
				return 0, 0, err
			}
			continue
		}

		for _, seat := range m.Seats() {
			legal := m.LegalActions(seat.ID)
			if len(legal) == 0 {
				continue
			}
			view := agentView(m, seat.ID, legal)
			if _, _, err := m.ApplyCommand(seat.ID, agents[seat.ID].Decide(view, rng)); err != nil {
				return 0, 0, err
			}
			break
		}
	}

	winner, _ := m.Winner()
	hands := 0
	if snap := m.CurrentState(); snap.Hand != nil {
		hands = snap.Hand.Number
	}
	return winner, hands, nil
}

func agentView(m *game.Match, seatID string, legal []game.Action) game.AgentView {
	snap := m.CurrentState().RedactFor(seatID)
	cards := []deck.Card{}
	for _, s := range snap.Seats {
		if s.ID != seatID {
			continue
		}
		for _, code := range s.Cards {
			if card, err := deck.ParseCard(code); err == nil {
				cards = append(cards, card)
			}
		}
	}
	return game.AgentView{Snapshot: snap, SeatID: seatID, Cards: cards, Legal: legal}
}

var (
	simTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginTop(1)
	simLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(14)
	simWinnerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

func (c *SimulateCmd) render(results *simResults, elapsed time.Duration) {
	results.mu.Lock()
	defer results.mu.Unlock()

	fmt.Println(simTitleStyle.Render("simulation results"))

	row := func(label, value string) {
		fmt.Printf("%s %s\n", simLabelStyle.Render(label), value)
	}

	pct := func(wins int) float64 {
		if c.Matches == 0 {
			return 0
		}
		return float64(wins) * 100 / float64(c.Matches)
	}

	lineA := fmt.Sprintf("%d wins (%.1f%%)", results.wins[game.TeamA], pct(results.wins[game.TeamA]))
	lineB := fmt.Sprintf("%d wins (%.1f%%)", results.wins[game.TeamB], pct(results.wins[game.TeamB]))
	if results.wins[game.TeamA] > results.wins[game.TeamB] {
		lineA = simWinnerStyle.Render(lineA)
	} else if results.wins[game.TeamB] > results.wins[game.TeamA] {
		lineB = simWinnerStyle.Render(lineB)
	}

	row("team A", fmt.Sprintf("%s: %s", c.StrategyA, lineA))
	row("team B", fmt.Sprintf("%s: %s", c.StrategyB, lineB))
	row("matches", fmt.Sprintf("%d", c.Matches))
	if c.Matches > 0 {
		row("avg hands", fmt.Sprintf("%.1f", float64(results.totalHands)/float64(c.Matches)))
	}
	row("elapsed", elapsed.Round(time.Millisecond).String())
}
