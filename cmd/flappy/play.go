package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/audio"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/spectate"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagSpectate string
	flagPlayer   string
	flagVolume   float64
	flagMuted    bool
	flagLight    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the game in this terminal.

Controls:
  Space/Up/W/Enter/Click - Start, flap, continue after game over
  R                      - Reset to the start screen
  M                      - Mute/unmute
  T                      - Toggle light/dark theme
  S                      - High scores (not during a round)
  Ctrl+S                 - Save a text screenshot
  Q/Ctrl+C               - Quit

Examples:
  flappy play
  flappy play --difficulty easy
  flappy play --config ./my-flappy.yaml
  flappy play --store file --db ./scores.yaml
  flappy play --spectate :8090`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a websocket spectator stream on this address (e.g. :8090)")
	playCmd.Flags().StringVar(&flagPlayer, "player", storage.LocalPlayer, "Player name the best score is kept under")
	playCmd.Flags().Float64Var(&flagVolume, "volume", 0.5, "Sound volume from 0 to 1")
	playCmd.Flags().BoolVar(&flagMuted, "mute", false, "Start with sound muted")
	playCmd.Flags().BoolVar(&flagLight, "light", false, "Start with the light theme")
}

func runPlay(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := play(ctx); err != nil {
		fail("%v", err)
	}
}

// play wires the simulation to its collaborators and runs the TUI until the
// player quits. Deferred cleanup flushes the pending best score.
func play(ctx context.Context) error {
	logger, closer, err := fileLogger(flagLogFile, flagLogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg, err := config.Load(flagConfig, config.ParsePreset(flagDifficulty))
	if err != nil {
		return err
	}

	opts := []flappy.Option{flappy.WithLogger(logger)}
	if flagSeed != 0 {
		opts = append(opts, flappy.WithSeed(flagSeed))
	}

	// Open score storage; the game still works without it
	openCtx, cancel := context.WithTimeout(ctx, storage.DefaultTimeout)
	backend, err := storage.Open(openCtx, flagStore, flagDB)
	cancel()
	var player *storage.PlayerStore
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open %s score store: %v\n", flagStore, err)
		logger.Warn("score store unavailable", "store", flagStore, "err", err)
		backend = nil
	} else {
		defer backend.Close()
		player = storage.ForPlayer(backend, flagPlayer)
		async := storage.NewAsync(player, logger)
		defer async.Close()
		opts = append(opts, flappy.WithStore(async))
	}

	sim, err := flappy.New(cfg, opts...)
	if err != nil {
		return err
	}

	sound := audio.NewPlayer(flagVolume, logger)
	if err := sound.Start(); err == nil {
		defer sound.Close()
	}
	if flagMuted {
		sound.ToggleMute()
	}
	sim.Subscribe(sound)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	uiOpts := tui.Options{
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
		},
		Sound:  sound,
		Logger: logger,
	}
	if flagLight {
		uiOpts.Theme = tui.LightTheme
	}
	if backend != nil {
		uiOpts.Recorder = player
		uiOpts.History = backend
	}

	if flagSpectate != "" {
		watch := spectate.NewServer(flagSpectate, flagPlayer, logger)
		if err := watch.Start(ctx); err != nil {
			return fmt.Errorf("cannot start spectator server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := watch.Shutdown(shutdownCtx); err != nil {
				logger.Warn("spectator shutdown", "err", err)
			}
		}()
		sim.Subscribe(watch)
		uiOpts.Publisher = watch
		fmt.Fprintf(os.Stderr, "Spectators can watch at ws://%s/ws\n", watch.Addr())
	}

	logger.Info("starting game", "store", flagStore, "player", flagPlayer, "seed", flagSeed)
	if err := tui.Run(sim, uiOpts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
