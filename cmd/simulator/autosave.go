package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/skirmish/internal/game/sim"
	"github.com/udisondev/skirmish/internal/model"
)

type snapshotSaver interface {
	SaveSnapshot(ctx context.Context, name string, tick uint64, units []model.UnitSnapshot) (uuid.UUID, error)
}

// autosaver periodically snapshots the simulation into a store.
// A failed save is logged and retried on the next interval.
type autosaver struct {
	sim      *sim.Simulation
	store    snapshotSaver
	name     string
	interval time.Duration
}

func newAutosaver(s *sim.Simulation, store snapshotSaver, name string, interval time.Duration) *autosaver {
	return &autosaver{sim: s, store: store, name: name, interval: interval}
}

// Run saves every interval until ctx is done.
func (a *autosaver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := a.save(ctx); err != nil {
				slog.Error("autosave failed", "save", a.name, "err", err)
			}
		}
	}
}

// save snapshots on the tick goroutine and writes outside of it.
func (a *autosaver) save(ctx context.Context) (uuid.UUID, error) {
	var (
		units []model.UnitSnapshot
		tick  uint64
	)
	if err := a.sim.Query(ctx, func(s *sim.Simulation) {
		units = s.Snapshot()
		tick = s.Ticks()
	}); err != nil {
		return uuid.Nil, err
	}
	id, err := a.store.SaveSnapshot(ctx, a.name, tick, units)
	if err != nil {
		return uuid.Nil, err
	}
	slog.Info("autosave stored", "save", id, "tick", tick, "units", len(units))
	return id, nil
}
