package ai

import (
	"cmp"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/sim"
	"github.com/udisondev/skirmish/internal/model"
)

// Default ranges in world units.
const (
	DefaultAggroRange = 6 * data.Scale
	DefaultChaseRange = 12 * data.Scale
)

// Band selects Action while the target is at most MaxRange away (world units).
type Band struct {
	MaxRange float64
	Action   data.ActionID
}

// MonsterConfig tunes a MonsterAI.
type MonsterConfig struct {
	AggroRange float64       // radius scanned for a new target
	ChaseRange float64       // the target is forgotten beyond this distance
	Attack     data.ActionID // action issued against the target when Bands is empty

	// Bands choose the action by distance to the target, nearest band first.
	// Beyond the last band the monster walks toward the target.
	Bands []Band
}

// Pick returns the action for a target dist world units away.
func (c MonsterConfig) Pick(dist float64) data.ActionID {
	if len(c.Bands) == 0 {
		return c.Attack
	}
	for _, b := range c.Bands {
		if dist <= b.MaxRange {
			return b.Action
		}
	}
	return data.ActionMoveTo
}

// DefaultMonsterConfig returns a config using the basic attack.
func DefaultMonsterConfig() MonsterConfig {
	return MonsterConfig{
		AggroRange: DefaultAggroRange,
		ChaseRange: DefaultChaseRange,
		Attack:     data.ActionAttack,
	}
}

// MonsterAI attacks the nearest living enemy in aggro range and keeps
// chasing it until it dies or runs out of chase range.
// State machine: IDLE → ACTIVE (scan) → ATTACK.
type MonsterAI struct {
	unit      model.UnitID
	cfg       MonsterConfig
	isRunning atomic.Bool
	intention atomic.Uint32
	forget    atomic.Bool // set by Stop, served on the simulation goroutine

	// accessed only on the simulation goroutine
	target model.UnitID
	aggro  *AggroList
}

// NewMonsterAI creates a controller for unit.
func NewMonsterAI(unit model.UnitID, cfg MonsterConfig) *MonsterAI {
	if cfg.ChaseRange < cfg.AggroRange {
		cfg.ChaseRange = cfg.AggroRange
	}
	cfg.Bands = slices.Clone(cfg.Bands)
	slices.SortStableFunc(cfg.Bands, func(a, b Band) int { return cmp.Compare(a.MaxRange, b.MaxRange) })
	return &MonsterAI{unit: unit, cfg: cfg, aggro: NewAggroList()}
}

// Start starts the AI controller.
func (ai *MonsterAI) Start() {
	ai.isRunning.Store(true)
	ai.setIntention(IntentionActive)
}

// Stop stops the AI controller. Safe from any goroutine: the hate list and
// target are dropped by the next Tick.
func (ai *MonsterAI) Stop() {
	ai.isRunning.Store(false)
	ai.forget.Store(true)
	ai.setIntention(IntentionIdle)
}

// CurrentIntention returns current AI intention.
func (ai *MonsterAI) CurrentIntention() Intention {
	return Intention(ai.intention.Load())
}

// Target returns the unit being attacked, 0 if none.
func (ai *MonsterAI) Target() model.UnitID { return ai.target }

func (ai *MonsterAI) setIntention(i Intention) {
	old := Intention(ai.intention.Swap(uint32(i)))
	if old != i && IsDebugEnabled() {
		slog.Debug("monster AI intention changed", "unit", ai.unit, "from", old, "to", i)
	}
}

// Config returns the effective config, bands sorted nearest first.
func (ai *MonsterAI) Config() MonsterConfig { return ai.cfg }

// Aggro returns the hate list.
func (ai *MonsterAI) Aggro() *AggroList { return ai.aggro }

// NotifyDamage adds the attacker to the hate list. The most hated attacker
// becomes the target on the next tick, even outside aggro range.
func (ai *MonsterAI) NotifyDamage(attacker model.UnitID, damage int32) {
	if !ai.isRunning.Load() || attacker == ai.unit || attacker == 0 {
		return
	}
	ai.aggro.AddDamage(attacker, damage)
}

// Tick performs AI tick.
func (ai *MonsterAI) Tick(s *sim.Simulation) {
	if ai.forget.Swap(false) {
		ai.aggro.Clear()
		ai.target = 0
	}
	if !ai.isRunning.Load() {
		ai.setIntention(IntentionIdle)
		return
	}
	w := s.World()
	u, ok := w.Unit(ai.unit)
	if !ok || !u.IsAlive() {
		ai.target = 0
		ai.setIntention(IntentionIdle)
		return
	}

	if ai.target != 0 && !ai.reachable(s, u, ai.target) {
		if IsDebugEnabled() {
			slog.Debug("monster AI forgot target", "unit", u.ID, "target", ai.target)
		}
		ai.aggro.Remove(ai.target)
		ai.target = 0
	}
	if hated := ai.aggro.MostHated(func(id model.UnitID) bool { return ai.reachable(s, u, id) }); hated != 0 {
		ai.target = hated
	}
	if ai.target == 0 {
		ai.target = ai.scan(s, u)
	}

	if ai.target == 0 {
		if ai.CurrentIntention() == IntentionAttack {
			if err := s.SetCommand(u.ID, model.IdleCommand()); err != nil {
				slog.Warn("monster AI command rejected", "unit", u.ID, "err", err)
			}
		}
		ai.setIntention(IntentionActive)
		return
	}

	cmd, ok := ai.command(s, u)
	if !ok {
		return
	}
	if u.Command != cmd {
		if err := s.SetCommand(u.ID, cmd); err != nil {
			slog.Warn("monster AI command rejected", "unit", u.ID, "action", cmd.Action, "err", err)
			return
		}
	}
	ai.setIntention(IntentionAttack)
}

// reachable reports whether id is a living unit within chase range.
func (ai *MonsterAI) reachable(s *sim.Simulation, u *model.Unit, id model.UnitID) bool {
	t, ok := s.World().Unit(id)
	if !ok || !t.IsAlive() {
		return false
	}
	return u.Position.DistSq(t.Position) <= ai.cfg.ChaseRange*ai.cfg.ChaseRange
}

// scan returns the nearest living enemy within aggro range (lowest id on ties).
func (ai *MonsterAI) scan(s *sim.Simulation, u *model.Unit) model.UnitID {
	var (
		best   model.UnitID
		bestSq float64
	)
	s.World().InRadius(u.Position, ai.cfg.AggroRange, func(o *model.Unit) bool {
		if o.ID == u.ID || !o.IsAlive() || !u.Team().IsEnemy(o.Team()) {
			return true
		}
		d := u.Position.DistSq(o.Position)
		if best == 0 || d < bestSq || (d == bestSq && o.ID < best) {
			best, bestSq = o.ID, d
		}
		return true
	})
	return best
}

// command builds the command for the action picked by distance to the target.
func (ai *MonsterAI) command(s *sim.Simulation, u *model.Unit) (model.Command, bool) {
	t, ok := s.World().Unit(ai.target)
	if !ok {
		return model.Command{}, false
	}
	act := ai.cfg.Pick(u.Position.Dist(t.Position))
	switch data.Describe(act).Target {
	case data.TargetPosition:
		return model.PositionCommand(act, t.Position), true
	case data.TargetNone:
		return model.Command{Action: act}, true
	default:
		return model.AttackCommand(act, ai.target), true
	}
}
