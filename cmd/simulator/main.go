package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/db"
	"github.com/udisondev/skirmish/internal/game/combat"
	"github.com/udisondev/skirmish/internal/game/rogue"
	"github.com/udisondev/skirmish/internal/game/sim"
	"github.com/udisondev/skirmish/internal/scene"
)

// ConfigPath is the default config file, overridable with SKIRMISH_CONFIG.
const ConfigPath = "config/simulator.yaml"

// finalSaveTimeout bounds the save written on shutdown.
const finalSaveTimeout = 5 * time.Second

type flags struct {
	saveName string
	resume   bool
}

func main() {
	var f flags
	flag.StringVar(&f.saveName, "save", "default", "save slot name used by autosave and -resume")
	flag.BoolVar(&f.resume, "resume", false, "restore the latest save of -save instead of loading the scene")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, f); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	cfgPath := ConfigPath
	if p := os.Getenv("SKIRMISH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulator(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("skirmish simulator starting",
		"log_level", cfg.LogLevel,
		"tick_rate", cfg.TickRate,
		"database", cfg.Database.Driver)

	s := sim.New(sim.Options{
		Combat: combat.Options{
			CritChance:     cfg.Combat.CritChance,
			CritMultiplier: cfg.Combat.CritMultiplier,
		},
		Paused: cfg.Paused,
	})
	aiMgr := ai.NewTickManager(s, cfg.AIInterval)

	var store db.SnapshotStore
	if cfg.Database.Enabled() {
		store, err = db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("opening snapshot store: %w", err)
		}
		defer store.Close()
		slog.Info("snapshot store opened", "driver", cfg.Database.Driver)
	}

	sc, err := scene.Load(cfg.ScenePath)
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}
	if err := populate(ctx, s, aiMgr, sc, store, f); err != nil {
		return err
	}
	game, err := attachRogue(s, aiMgr, sc)
	if err != nil {
		return err
	}
	observe(s, aiMgr, game)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.Run(gctx, cfg.TickInterval()); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("simulation: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := aiMgr.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("AI tick manager: %w", err)
		}
		return nil
	})

	if store != nil && cfg.AutosaveInterval > 0 {
		saver := newAutosaver(s, store, f.saveName, cfg.AutosaveInterval)
		g.Go(func() error {
			slog.Info("starting autosave loop", "interval", cfg.AutosaveInterval, "save", f.saveName)
			if err := saver.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("autosave: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulator error: %w", err)
	}

	// the tick goroutine is gone, the state can be read directly
	if store != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), finalSaveTimeout)
		defer cancel()
		id, err := store.SaveSnapshot(saveCtx, f.saveName, s.Ticks(), s.Snapshot())
		if err != nil {
			return fmt.Errorf("final save: %w", err)
		}
		slog.Info("final save stored", "save", id, "ticks", s.Ticks())
	}
	return nil
}

// populate restores the latest save when asked to, otherwise applies the scene.
// Monster controllers always come from the scene.
func populate(ctx context.Context, s *sim.Simulation, aiMgr *ai.TickManager, sc *scene.Scene, store db.SnapshotStore, f flags) error {
	if f.resume && store != nil {
		save, err := store.LoadLatest(ctx, f.saveName)
		switch {
		case err == nil:
			if err := s.Restore(save.Units); err != nil {
				return fmt.Errorf("restoring save %s: %w", save.ID, err)
			}
			n := sc.RegisterControllers(s, aiMgr)
			slog.Info("save restored", "save", save.ID, "tick", save.Tick, "units", len(save.Units), "controllers", n)
			return nil
		case errors.Is(err, db.ErrSaveNotFound):
			slog.Warn("no save to resume, loading scene", "save", f.saveName)
		default:
			return fmt.Errorf("loading save: %w", err)
		}
	}
	if _, err := sc.Apply(s, aiMgr); err != nil {
		return fmt.Errorf("applying scene: %w", err)
	}
	return nil
}

// attachRogue starts the wave mode when the scene asks for it. Wave progress
// is not saved: a resumed run starts again from the first wave.
func attachRogue(s *sim.Simulation, aiMgr *ai.TickManager, sc *scene.Scene) (*rogue.Game, error) {
	if sc.Rogue == nil {
		return nil, nil
	}
	game := rogue.New(sc.Rogue.Config(), aiMgr)
	if err := game.Attach(s); err != nil {
		return nil, fmt.Errorf("starting wave mode: %w", err)
	}
	return game, nil
}

// observe logs combat outcomes, feeds damage to monster controllers and
// deaths to the wave mode (game may be nil).
func observe(s *sim.Simulation, aiMgr *ai.TickManager, game *rogue.Game) {
	s.SetDamageFunc(func(ev combat.DamageEvent) {
		aiMgr.NotifyDamage(ev.Unit, ev.Source, ev.Damage)
		slog.Debug("damage", "unit", ev.Unit, "source", ev.Source, "damage", ev.Damage)
	})
	s.SetHealFunc(func(ev combat.HealEvent) {
		slog.Debug("heal", "unit", ev.Unit, "source", ev.Source, "heal", ev.Heal)
	})
	s.SetDieFunc(func(ev combat.UnitDieEvent) {
		slog.Info("unit died", "unit", ev.Unit, "killer", ev.Killer)
		if game != nil {
			game.OnDie(ev)
		}
	})
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
