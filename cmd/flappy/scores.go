package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagScoresPlayer string
	flagScoresLimit  int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top finished rounds and a summary.

By default every player's rounds are listed; use --player to narrow it down.

Examples:
  flappy scores
  flappy scores --player alice
  flappy scores --store file --db ./scores.yaml`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Only show rounds of this player")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of rounds to show")
}

func runScores(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, storage.DefaultTimeout)
	defer cancel()

	// Open score storage
	store, err := storage.Open(ctx, flagStore, flagDB)
	if err != nil {
		fail("opening %s score store: %v", flagStore, err)
	}

	out, err := scoresReport(ctx, store, flagScoresPlayer, flagScoresLimit)
	store.Close()
	if err != nil {
		fail("retrieving scores: %v", err)
	}
	fmt.Print(out)
}

// scoresReport renders the top rounds and stats of player ("" for everyone).
func scoresReport(ctx context.Context, store storage.Backend, player string, limit int) (string, error) {
	rounds, err := store.TopRounds(ctx, player, limit)
	if err != nil {
		return "", err
	}
	stats, err := store.Stats(ctx, player)
	if err != nil {
		return "", err
	}
	return tui.FormatScores(rounds, stats), nil
}
