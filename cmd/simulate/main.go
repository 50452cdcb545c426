// Command simulate plays headless Dark Candy Land games for each ruleset in
// the configs directory and prints turn-count statistics, seat win rates and
// the number of games that never reach the castle within the turn cap.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/dark-candy-land/game/config"
	"github.com/wricardo/dark-candy-land/game/engine"
)

// Stats aggregates the outcome of many games of one ruleset
type Stats struct {
	Ruleset    string
	Games      int
	Finished   int
	Unfinished int
	SeatWins   [engine.PlayerCount]int
	Turns      []int // turns to victory, finished games only
	Collapses  int
	Skips      int
}

// Mean returns the average turns to victory
func (s Stats) Mean() float64 {
	if len(s.Turns) == 0 {
		return 0
	}
	total := 0
	for _, n := range s.Turns {
		total += n
	}
	return float64(total) / float64(len(s.Turns))
}

// Percentile returns the p-th percentile (0-100) of turns to victory
func (s Stats) Percentile(p int) int {
	if len(s.Turns) == 0 {
		return 0
	}
	sorted := append([]int(nil), s.Turns...)
	sort.Ints(sorted)
	idx := p * (len(sorted) - 1) / 100
	return sorted[idx]
}

// WinRate returns the share of finished games won by seat
func (s Stats) WinRate(seat int) float64 {
	if s.Finished == 0 {
		return 0
	}
	return 100 * float64(s.SeatWins[seat]) / float64(s.Finished)
}

// playGame plays one game to victory or maxTurns and returns the final state
func playGame(cfg *engine.GameConfig, seed uint64, maxTurns int) (*engine.GameState, error) {
	rng := engine.NewRand(seed)
	state, err := engine.NewGameState(cfg, rng)
	if err != nil {
		return nil, err
	}

	for len(state.History) < maxTurns {
		engine.ResolveTurn(state, rng)
		if _, won := engine.Winner(state); won {
			break
		}
	}
	return state, nil
}

// simulate plays games of cfg. Game i uses seed+i, so runs are reproducible.
func simulate(cfg *engine.GameConfig, games int, seed uint64, maxTurns int) (Stats, error) {
	stats := Stats{Ruleset: cfg.Name, Games: games}

	for i := 0; i < games; i++ {
		state, err := playGame(cfg, seed+uint64(i), maxTurns)
		if err != nil {
			return stats, err
		}

		for _, rec := range state.History {
			if rec.Collapsed {
				stats.Collapses++
			}
			if rec.Skipped {
				stats.Skips++
			}
		}

		if winner, won := engine.Winner(state); won {
			stats.Finished++
			stats.SeatWins[winner]++
			stats.Turns = append(stats.Turns, len(state.History))
		} else {
			stats.Unfinished++
			log.Debug().Str("ruleset", cfg.Name).Uint64("seed", seed+uint64(i)).Msg("game hit the turn cap")
		}
	}

	return stats, nil
}

func printStats(w io.Writer, cfg *engine.GameConfig, stats Stats) {
	fmt.Fprintf(w, "\n=== %s ===\n", stats.Ruleset)
	fmt.Fprintf(w, "Board: %d tiles | Teeth: %d | Deck: %d cards\n", cfg.BoardLength, cfg.StartingTeeth, cfg.Deck.Size())
	fmt.Fprintf(w, "Games: %d | Finished: %d | Unfinished: %d\n", stats.Games, stats.Finished, stats.Unfinished)

	if stats.Finished > 0 {
		fmt.Fprintf(w, "Turns to victory: mean %.1f | median %d | p90 %d | max %d\n",
			stats.Mean(), stats.Percentile(50), stats.Percentile(90), stats.Percentile(100))
		for seat, name := range cfg.Players {
			fmt.Fprintf(w, "Seat %d (%s): %.1f%% of wins\n", seat+1, name, stats.WinRate(seat))
		}
	}

	fmt.Fprintf(w, "Collapses: %.2f per game | Snared skips: %.2f per game\n",
		float64(stats.Collapses)/float64(stats.Games), float64(stats.Skips)/float64(stats.Games))

	if stats.Unfinished > 0 {
		fmt.Fprintf(w, "⚠️  %d games never reached the castle\n", stats.Unfinished)
	} else {
		fmt.Fprintln(w, "✅ Every game finished")
	}
}

// selectRulesets resolves the requested ruleset ids, or every valid ruleset
func selectRulesets(manager *config.Manager, ids []string) ([]*engine.GameConfig, error) {
	if len(ids) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			ids = append(ids, info.ConfigID)
		}
	}

	rulesets := make([]*engine.GameConfig, 0, len(ids))
	for _, id := range ids {
		cfg, err := manager.LoadConfig(id)
		if err != nil {
			return nil, err
		}
		rulesets = append(rulesets, cfg)
	}
	return rulesets, nil
}

func newCommand(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "simulate",
		Usage:     "play headless games and report ruleset balance",
		ArgsUsage: "[ruleset ...]",
		Writer:    w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Value: "configs",
				Usage: "directory containing rulesets",
			},
			&cli.IntFlag{
				Name:    "games",
				Aliases: []string{"n"},
				Value:   1000,
				Usage:   "games to play per ruleset",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Value: 1,
				Usage: "seed of the first game",
			},
			&cli.IntFlag{
				Name:  "max-turns",
				Value: 2000,
				Usage: "turn cap after which a game counts as unfinished",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log every game that hits the turn cap",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("debug") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			games := cmd.Int("games")
			maxTurns := cmd.Int("max-turns")
			if games < 1 || maxTurns < 1 {
				return fmt.Errorf("--games and --max-turns must be positive")
			}

			manager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}

			rulesets, err := selectRulesets(manager, cmd.Args().Slice())
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "Simulating %d games per ruleset (seed %d, cap %d turns): %s\n",
				games, cmd.Uint64("seed"), maxTurns, strings.Join(names(rulesets), ", "))

			for _, cfg := range rulesets {
				if err := ctx.Err(); err != nil {
					return err
				}
				stats, err := simulate(cfg, games, cmd.Uint64("seed"), maxTurns)
				if err != nil {
					return fmt.Errorf("ruleset %s: %w", cfg.Name, err)
				}
				printStats(w, cfg, stats)
			}
			return nil
		},
	}
}

func names(rulesets []*engine.GameConfig) []string {
	out := make([]string, len(rulesets))
	for i, cfg := range rulesets {
		out[i] = cfg.Name
	}
	return out
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
}
