// Package sim runs the simulation tick: planner, transition engine, skill
// handlers, physics, combat and modifiers, in that order.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/action"
	"github.com/udisondev/skirmish/internal/game/attribute"
	"github.com/udisondev/skirmish/internal/game/combat"
	"github.com/udisondev/skirmish/internal/game/planner"
	"github.com/udisondev/skirmish/internal/game/skill"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

var (
	// ErrUnitNotFound is returned for operations on a unit that does not exist.
	ErrUnitNotFound = errors.New("unit not found")
	// ErrUnknownAction is returned for actions outside the catalog or not
	// usable in the requested way.
	ErrUnknownAction = errors.New("unknown action")
)

// Options configure a simulation.
type Options struct {
	Combat combat.Options
	Paused bool
}

// DefaultOptions returns options with default combat rolls.
func DefaultOptions() Options {
	return Options{Combat: combat.DefaultOptions()}
}

// Simulation — владелец всего мутабельного состояния симуляции.
//
// All methods except Submit, Do, Query, SetPaused and Paused must be called
// from the goroutine running Tick (or before Run starts). Other goroutines
// reach the state through Do and Query, which run at the next tick boundary.
type Simulation struct {
	opts Options

	world      *world.World
	physics    *world.Physics
	anim       *world.Animations
	engine     *action.Engine
	dispatcher *skill.Dispatcher
	resolver   *combat.Resolver
	attrs      *attribute.System

	requests action.Queue
	combatQ  combat.Queue
	attrQ    attribute.Queue
	log      action.Log

	listeners     []action.Listener
	damageFunc    func(combat.DamageEvent)
	healFunc      func(combat.HealEvent)
	dieFunc       func(combat.UnitDieEvent)
	collisionFunc func(world.Collision)
	tickFunc      func(*Simulation, time.Duration)
	roll          func(n int) int

	paused atomic.Bool
	ticks  atomic.Uint64

	mu    sync.Mutex
	inbox []func(*Simulation)
}

// New creates an empty simulation.
func New(opts Options) *Simulation {
	s := &Simulation{opts: opts}
	s.paused.Store(opts.Paused)
	s.build(world.New())
	return s
}

// build wires every subsystem around w.
func (s *Simulation) build(w *world.World) {
	s.world = w
	s.physics = world.NewPhysics(w)
	s.anim = world.NewAnimations()
	s.engine = action.NewEngine()
	s.requests = action.Queue{}
	s.combatQ = combat.Queue{}
	s.attrQ = attribute.Queue{}
	s.log.Reset()

	s.resolver = combat.NewResolver(w, &s.requests, s.opts.Combat)
	if s.roll != nil {
		s.resolver.SetRoll(s.roll)
	}
	s.resolver.SetDamageFunc(func(ev combat.DamageEvent) {
		if s.damageFunc != nil {
			s.damageFunc(ev)
		}
	})
	s.resolver.SetHealFunc(func(ev combat.HealEvent) {
		if s.healFunc != nil {
			s.healFunc(ev)
		}
	})
	s.resolver.SetDieFunc(func(ev combat.UnitDieEvent) {
		if s.dieFunc != nil {
			s.dieFunc(ev)
		}
	})
	s.attrs = attribute.NewSystem(w)
	s.dispatcher = skill.NewDispatcher(w, s.physics, s.anim, skill.Queues{
		Requests:   &s.requests,
		Combat:     &s.combatQ,
		Attributes: &s.attrQ,
	})
}

// World returns the unit registry.
func (s *Simulation) World() *world.World { return s.world }

// Physics returns the physics collaborator.
func (s *Simulation) Physics() *world.Physics { return s.physics }

// Animations returns the animation store.
func (s *Simulation) Animations() *world.Animations { return s.anim }

// Engine returns the transition engine.
func (s *Simulation) Engine() *action.Engine { return s.engine }

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() uint64 { return s.ticks.Load() }

// SetPaused pauses or resumes phase timers, handler updates and physics.
func (s *Simulation) SetPaused(paused bool) {
	s.paused.Store(paused)
	slog.Info("simulation pause changed", "paused", paused)
}

// Paused reports whether the simulation is paused.
func (s *Simulation) Paused() bool { return s.paused.Load() }

// SetDamageFunc sets the subscriber for applied damage.
func (s *Simulation) SetDamageFunc(fn func(combat.DamageEvent)) { s.damageFunc = fn }

// SetHealFunc sets the subscriber for applied heals.
func (s *Simulation) SetHealFunc(fn func(combat.HealEvent)) { s.healFunc = fn }

// SetDieFunc sets the subscriber for deaths.
func (s *Simulation) SetDieFunc(fn func(combat.UnitDieEvent)) { s.dieFunc = fn }

// SetCollisionFunc sets the subscriber for raw contacts, trigger areas included.
func (s *Simulation) SetCollisionFunc(fn func(world.Collision)) { s.collisionFunc = fn }

// SetTickFunc sets a hook run at the end of every tick on the tick goroutine.
// It may call any Simulation method.
func (s *Simulation) SetTickFunc(fn func(*Simulation, time.Duration)) { s.tickFunc = fn }

// AddListener subscribes l to lifecycle events. Listeners receive every pass
// after the skill handlers.
func (s *Simulation) AddListener(l action.Listener) { s.listeners = append(s.listeners, l) }

// SetRoll replaces the random source of combat rolls. It survives Restore.
func (s *Simulation) SetRoll(roll func(n int) int) {
	s.roll = roll
	s.resolver.SetRoll(roll)
}

// Spawn creates a unit and attaches its passive skills.
func (s *Simulation) Spawn(p model.UnitParams) *model.Unit {
	u := s.world.Spawn(p)
	s.dispatcher.AttachAll(u)
	return u
}

// Despawn removes a unit from the world and from physics. Modifiers its
// auras gave to other units are dropped at once.
func (s *Simulation) Despawn(id model.UnitID) error {
	if _, ok := s.world.Unit(id); !ok {
		return fmt.Errorf("despawning unit %d: %w", id, ErrUnitNotFound)
	}
	for _, src := range s.dispatcher.Detach(id) {
		s.attrs.RemoveSource(s.world.Units(), src)
	}
	s.physics.Disable(id)
	s.world.Despawn(id)
	return nil
}

// SetCommand replaces the unit's Command. The planner picks it up on the next tick.
func (s *Simulation) SetCommand(id model.UnitID, cmd model.Command) error {
	u, ok := s.world.Unit(id)
	if !ok {
		return fmt.Errorf("setting command of unit %d: %w", id, ErrUnitNotFound)
	}
	if err := validateCommand(u, cmd); err != nil {
		return fmt.Errorf("setting command of unit %d: %w", id, err)
	}
	u.Command = cmd
	return nil
}

// Submit queues a command from any goroutine; it is applied at the next tick
// boundary. Validation against the unit happens then and failures are logged.
func (s *Simulation) Submit(id model.UnitID, cmd model.Command) error {
	if !cmd.Action.Valid() {
		return fmt.Errorf("submitting command for unit %d: %w: %d", id, ErrUnknownAction, cmd.Action)
	}
	s.Do(func(s *Simulation) {
		if err := s.SetCommand(id, cmd); err != nil {
			slog.Warn("command rejected", "unit", id, "action", cmd.Action, "err", err)
		}
	})
	return nil
}

// Do runs fn on the tick goroutine before the next tick.
func (s *Simulation) Do(fn func(*Simulation)) {
	s.mu.Lock()
	s.inbox = append(s.inbox, fn)
	s.mu.Unlock()
}

// Query runs fn before the next tick and waits for it.
func (s *Simulation) Query(ctx context.Context, fn func(*Simulation)) error {
	done := make(chan struct{})
	s.Do(func(s *Simulation) {
		fn(s)
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GrantSkill teaches a skill or levels it up when already known, then
// (re)attaches its passive part.
func (s *Simulation) GrantSkill(id model.UnitID, act data.ActionID) error {
	u, ok := s.world.Unit(id)
	if !ok {
		return fmt.Errorf("granting skill to unit %d: %w", id, ErrUnitNotFound)
	}
	if !act.Valid() || !grantable(act) {
		return fmt.Errorf("granting skill to unit %d: %w: %s", id, ErrUnknownAction, act)
	}
	idx, learned := u.Skills.Grant(act)
	s.dispatcher.Attach(u, act)
	slog.Debug("skill granted", "unit", id, "action", act, "level", u.Skills.At(idx).Level, "new", learned)
	return nil
}

// Run ticks every interval until ctx is done.
func (s *Simulation) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("simulation started", "interval", interval, "units", s.world.Count())
	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping", "ticks", s.Ticks())
			return ctx.Err()
		case <-ticker.C:
			s.Tick(interval)
		}
	}
}

// Tick advances the simulation by dt:
//
//  1. external commands and command completions are applied, stun timers decay;
//  2. the planner turns commands into change-requests;
//  3. deferred and planned requests are consolidated;
//  4. the engine advances phases and records lifecycle events;
//  5. handlers receive the events pass by pass, passives update;
//  6. physics steps, combat resolves this tick's events and hits;
//  7. modifier events are applied, then the tick hook runs.
//
// Change-requests raised in steps 5 and 6 apply on the next tick.
func (s *Simulation) Tick(dt time.Duration) {
	paused := s.paused.Load()
	s.drainInbox()
	s.applyCompletions()

	units := s.world.Units()
	if !paused {
		s.resolver.Decay(units, dt)
	}

	planned := planner.PlanAll(units, s.world)
	requests := action.Consolidate(s.requests.Drain(), planned)

	s.log.Reset()
	s.engine.Step(units, dt, paused, requests, &s.log)

	s.dispatcher.SetDelta(dt)
	listeners := append([]action.Listener{s.dispatcher}, s.listeners...)
	s.log.DispatchPass(action.EventActiveUpdate, listeners...)
	if !paused {
		s.dispatcher.PassiveUpdate(units)
	}
	for _, kind := range action.PassOrder[1:] {
		s.log.DispatchPass(kind, listeners...)
	}

	var (
		collisions []world.Collision
		hits       []combat.HitEvent
	)
	if !paused {
		collisions = s.physics.Step(dt)
		hits = s.resolver.DetectHits(collisions, s.physics)
	}
	s.resolver.Resolve(&s.combatQ, hits)
	s.dispatcher.OnCollisions(collisions)
	if s.collisionFunc != nil {
		for _, c := range collisions {
			s.collisionFunc(c)
		}
	}

	s.attrs.Apply(&s.attrQ)
	if s.tickFunc != nil {
		s.tickFunc(s, dt)
	}
	s.ticks.Add(1)
}

func (s *Simulation) drainInbox() {
	s.mu.Lock()
	inbox := s.inbox
	s.inbox = nil
	s.mu.Unlock()
	for _, fn := range inbox {
		fn(s)
	}
}

func (s *Simulation) applyCompletions() {
	for _, c := range s.dispatcher.Completions() {
		u, ok := s.world.Unit(c.Unit)
		if !ok || u.Command != c.Command {
			continue
		}
		u.Command = model.IdleCommand()
		slog.Debug("command completed", "unit", u.ID, "action", c.Command.Action)
	}
}

// validateCommand rejects passive skills and skills the unit never learned.
func validateCommand(u *model.Unit, cmd model.Command) error {
	if !cmd.Action.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownAction, cmd.Action)
	}
	desc := data.Describe(cmd.Action)
	if desc.IsPassive() {
		return fmt.Errorf("%w: %s is passive", ErrUnknownAction, cmd.Action)
	}
	if grantable(cmd.Action) && u.Skills.Index(cmd.Action) == model.NoSkill {
		return fmt.Errorf("%w: %s not learned", ErrUnknownAction, cmd.Action)
	}
	return nil
}

// grantable reports whether act is a skill rather than a built-in action.
func grantable(act data.ActionID) bool {
	switch data.Describe(act).Behavior {
	case data.BehaviorIdle, data.BehaviorStop, data.BehaviorStun,
		data.BehaviorDead, data.BehaviorMoveTo, data.BehaviorAttack:
		return false
	default:
		return true
	}
}
