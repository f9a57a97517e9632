package sim

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

// Snapshot returns the persistent state of every unit in id order.
// Spawned volumes and pending events are not part of a save.
func (s *Simulation) Snapshot() []model.UnitSnapshot {
	units := s.world.Units()
	out := make([]model.UnitSnapshot, 0, len(units))
	for _, u := range units {
		out = append(out, u.Snapshot())
	}
	return out
}

// Restore replaces the world with units rebuilt from snapshots. Units keep
// their action, phase timers and command snapshot; aura sensors are
// re-attached and dead units stay non-interactive.
func (s *Simulation) Restore(snaps []model.UnitSnapshot) error {
	w := world.New()
	for _, snap := range snaps {
		if err := w.Add(model.RestoreUnit(snap)); err != nil {
			return fmt.Errorf("restoring snapshot: %w", err)
		}
	}
	s.build(w)
	for _, u := range w.Units() {
		if u.State.Action == data.ActionDead || !u.IsAlive() {
			s.physics.Disable(u.ID)
			continue
		}
		s.dispatcher.AttachAll(u)
	}
	slog.Info("simulation restored", "units", w.Count())
	return nil
}
