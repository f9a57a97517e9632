package ai

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/skirmish/internal/game/sim"
	"github.com/udisondev/skirmish/internal/model"
)

// Executor runs fn on the simulation goroutine at the next tick boundary.
type Executor interface {
	Do(fn func(*sim.Simulation))
}

// TickManager manages AI ticks for all registered units
type TickManager struct {
	exec     Executor
	interval time.Duration

	controllers     sync.Map // model.UnitID → Controller
	controllerCount atomic.Int32
	stopCh          chan struct{}
	stopOnce        sync.Once
}

// NewTickManager creates new AI tick manager. Controllers are evaluated every
// interval on the goroutine running the simulation.
func NewTickManager(exec Executor, interval time.Duration) *TickManager {
	return &TickManager{
		exec:     exec,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Register registers AI controller for a unit
func (m *TickManager) Register(id model.UnitID, controller Controller) {
	if _, loaded := m.controllers.Swap(id, controller); !loaded {
		m.controllerCount.Add(1)
	}
	controller.Start()

	slog.Debug("AI controller registered",
		"unit", id,
		"intention", controller.CurrentIntention())
}

// Unregister unregisters AI controller
func (m *TickManager) Unregister(id model.UnitID) {
	value, ok := m.controllers.LoadAndDelete(id)
	if !ok {
		return
	}
	m.controllerCount.Add(-1)
	value.(Controller).Stop()

	slog.Debug("AI controller unregistered", "unit", id)
}

// Start starts AI tick loop (blocks until context is canceled)
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval, "controllers", m.Count())

	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case <-ticker.C:
			m.exec.Do(m.TickAll)
		}
	}
}

// Stop stops AI tick loop
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// TickAll ticks every registered controller in unit id order.
// Must run on the simulation goroutine.
func (m *TickManager) TickAll(s *sim.Simulation) {
	type entry struct {
		id model.UnitID
		c  Controller
	}
	var entries []entry
	m.controllers.Range(func(key, value any) bool {
		entries = append(entries, entry{id: key.(model.UnitID), c: value.(Controller)})
		return true
	})
	slices.SortFunc(entries, func(a, b entry) int { return int(a.id) - int(b.id) })

	for _, e := range entries {
		e.c.Tick(s)
	}

	if len(entries) > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", len(entries))
	}
}

// DamageNotifier is implemented by controllers that track attackers.
type DamageNotifier interface {
	NotifyDamage(attacker model.UnitID, damage int32)
}

// NotifyDamage forwards a damage observation to the victim's controller.
// Must run on the simulation goroutine (it is wired to Simulation.SetDamageFunc).
func (m *TickManager) NotifyDamage(victim, attacker model.UnitID, damage int32) {
	value, ok := m.controllers.Load(victim)
	if !ok {
		return
	}
	if n, ok := value.(DamageNotifier); ok {
		n.NotifyDamage(attacker, damage)
	}
}

// Count returns number of registered controllers
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns controller for a unit
func (m *TickManager) GetController(id model.UnitID) (Controller, error) {
	value, ok := m.controllers.Load(id)
	if !ok {
		return nil, fmt.Errorf("controller not found for unit %d", id)
	}
	return value.(Controller), nil
}
