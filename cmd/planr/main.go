package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muhammad-salman-webdev/planr/internal/app"
	"github.com/muhammad-salman-webdev/planr/internal/credential"
	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/notify"
	"github.com/muhammad-salman-webdev/planr/internal/sched"
	"github.com/muhammad-salman-webdev/planr/internal/store"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "auth" {
		if err := runAuth(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "planr auth: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "planr failed: %v\n", err)
		os.Exit(1)
	}
}

// runAuth stores a provider secret in the system keyring:
// planr auth google <access-token> | planr auth email <password>.
func runAuth(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: planr auth <google|email> <secret>")
	}

	provider := model.ProviderType(args[0])
	switch provider {
	case model.ProviderGoogle, model.ProviderEmail:
	default:
		return fmt.Errorf("unknown provider %q", args[0])
	}

	if err := credential.Set(credential.Key(provider), args[1]); err != nil {
		return err
	}
	fmt.Printf("stored %s credential\n", provider)
	return nil
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	dispatcher := notify.NewDispatcher(
		&notify.DesktopNotifier{},
		soundPlayer(cfg),
		cfg.Notify.QueueSize,
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evaluator := sched.NewEvaluator(s, notify.AllowAll{}, dispatcher, nil, nil)
	go evaluator.Run(ctx, time.Duration(cfg.Scheduler.TickSeconds)*time.Second)

	program := tea.NewProgram(
		app.New(s, cfg, dispatcher),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// soundPlayer picks the configured clip player, falling back to the
// platform beep when no clip is configured or playable.
func soundPlayer(cfg *model.AppConfig) notify.SoundPlayer {
	if cfg.Notify.SoundFile == "" {
		return notify.BeepPlayer{}
	}
	player, err := notify.NewClipPlayer(cfg.Notify.SoundFile)
	if err != nil {
		log.Printf("sound clip unavailable, using default tone: %v", err)
		return notify.BeepPlayer{}
	}
	return player
}
