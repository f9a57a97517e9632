// Package rogue runs the wave mode: entering a start area teleports the hero
// into the arena where enemies spawn one by one, the wave ends when the last
// of them dies and the hero is sent back with gold to spend in the shop.
package rogue

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/combat"
	"github.com/udisondev/skirmish/internal/game/sim"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

var (
	ErrNoHero      = errors.New("hero not found")
	ErrUnknownUnit = errors.New("unknown unit")
)

// Defaults.
const (
	DefaultRewardGold    = 100
	DefaultSpawnInterval = time.Second
	DefaultSpawnDistance = 4 * data.Scale
)

// Enemy is the template of spawned wave enemies.
type Enemy struct {
	Params model.UnitParams
	AI     ai.MonsterConfig
}

// Config describes a rogue level. Positions and distances are in world units.
type Config struct {
	Hero          string
	StartGold     int
	RewardGold    int
	Price         int
	Slots         int
	AutoBuy       bool // spend gold on the first affordable slot after each wave
	SpawnInterval time.Duration
	SpawnDistance float64
	Start         model.Vec2 // arena entry point
	Back          model.Vec2 // where the hero returns after a wave
	Enemy         Enemy

	Areas         []Area
	Blockers      []Blocker
	DeathTriggers []DeathTrigger
}

// Validate checks names referenced by triggers.
func (c Config) Validate() error {
	var errs []error
	if c.Hero == "" {
		errs = append(errs, errors.New("rogue: empty hero name"))
	}
	if c.Slots < 0 || c.Price < 0 {
		errs = append(errs, errors.New("rogue: negative slots or price"))
	}
	if c.Enemy.AI.Attack == data.ActionIdle && len(c.Enemy.AI.Bands) == 0 {
		errs = append(errs, errors.New("rogue: enemy has no attack"))
	}
	areas := make(map[string]bool, len(c.Areas))
	blockers := make(map[string]bool, len(c.Blockers))
	for _, a := range c.Areas {
		areas[a.Name] = true
	}
	for _, b := range c.Blockers {
		blockers[b.Name] = true
	}
	check := func(owner string, acts []TriggerAction) {
		for _, act := range acts {
			known := blockers[act.Target]
			if act.Kind == DisableArea {
				known = areas[act.Target]
			}
			if !known {
				errs = append(errs, fmt.Errorf("rogue: %s: %s target %q not found", owner, act.Kind, act.Target))
			}
		}
	}
	for _, a := range c.Areas {
		check("area "+a.Name, a.Triggers)
	}
	for _, d := range c.DeathTriggers {
		check("death of "+d.Unit, d.Triggers)
	}
	return errors.Join(errs...)
}

// Game — состояние волнового режима. Все методы, кроме конструктора,
// вызываются на горутине симуляции.
type Game struct {
	cfg  Config
	mgr  *ai.TickManager
	roll func(n int) int

	hero    model.UnitID
	level   int
	counter int // enemies still to spawn
	remain  int // enemies of the wave still alive
	started bool
	timer   time.Duration
	gold    int
	spawned int

	enemies  map[model.UnitID]struct{}
	shop     *Shop
	triggers *triggers

	// collected from observers, served by Update
	entered []world.VolumeID
	died    []model.UnitID
}

// New creates a game. mgr receives the controllers of spawned enemies and may be nil.
func New(cfg Config, mgr *ai.TickManager) *Game {
	if cfg.RewardGold == 0 {
		cfg.RewardGold = DefaultRewardGold
	}
	if cfg.SpawnInterval <= 0 {
		cfg.SpawnInterval = DefaultSpawnInterval
	}
	if cfg.SpawnDistance <= 0 {
		cfg.SpawnDistance = DefaultSpawnDistance
	}
	return &Game{
		cfg:      cfg,
		mgr:      mgr,
		roll:     rand.IntN,
		gold:     cfg.StartGold,
		enemies:  make(map[model.UnitID]struct{}),
		shop:     NewShop(cfg.Slots, cfg.Price),
		triggers: newTriggers(),
	}
}

// SetRoll replaces the random source (tests). roll(n) returns [0, n).
func (g *Game) SetRoll(roll func(n int) int) { g.roll = roll }

// Attach finds the hero, places areas and blockers and subscribes to
// collisions and ticks. Deaths are delivered by the caller through OnDie.
func (g *Game) Attach(s *sim.Simulation) error {
	names := make(map[string]model.UnitID)
	for _, u := range s.World().Units() {
		if _, seen := names[u.Name]; !seen {
			names[u.Name] = u.ID
		}
	}
	hero, ok := names[g.cfg.Hero]
	if !ok {
		return fmt.Errorf("attaching rogue mode: %w: %q", ErrNoHero, g.cfg.Hero)
	}
	g.hero = hero
	if err := g.triggers.spawn(s, g.cfg, names); err != nil {
		return fmt.Errorf("attaching rogue mode: %w", err)
	}
	g.shop.Refresh(g.roll)
	s.SetCollisionFunc(g.OnCollision)
	s.SetTickFunc(g.Update)

	slog.Info("rogue mode attached", "hero", hero, "areas", len(g.cfg.Areas), "blockers", len(g.cfg.Blockers))
	return nil
}

// OnCollision records the hero walking into an area.
func (g *Game) OnCollision(c world.Collision) {
	if c.Started && c.Unit == g.hero {
		g.entered = append(g.entered, c.Volume)
	}
}

// OnDie records a death.
func (g *Game) OnDie(ev combat.UnitDieEvent) {
	g.died = append(g.died, ev.Unit)
}

// Update serves recorded events and spawns the wave.
func (g *Game) Update(s *sim.Simulation, dt time.Duration) {
	entered := g.entered
	g.entered = nil
	for _, id := range entered {
		a, ok := g.triggers.area(id)
		if !ok {
			continue
		}
		g.triggers.fire(s, a.Triggers)
		if a.Start && !g.started {
			g.teleport(s, g.cfg.Start)
			g.StartNextLevel()
		}
	}

	died := g.died
	g.died = nil
	for _, id := range died {
		g.triggers.fire(s, g.triggers.onDeath[id])
		switch {
		case id == g.hero:
			g.started = false
			g.counter = 0
			slog.Info("hero fell", "level", g.level)
		case g.isEnemy(id):
			if g.mgr != nil {
				g.mgr.Unregister(id)
			}
			g.remain--
			if g.remain <= 0 && g.started {
				g.finish(s)
			}
		}
	}

	if !g.started || g.counter == 0 || s.Paused() {
		return
	}
	g.timer -= dt
	if g.timer > 0 {
		return
	}
	g.timer += g.cfg.SpawnInterval
	g.spawn(s)
}

// StartNextLevel begins a wave of level enemies.
func (g *Game) StartNextLevel() {
	g.level++
	g.counter = g.level
	g.remain = g.level
	g.started = true
	g.timer = g.cfg.SpawnInterval
	slog.Info("wave started", "level", g.level)
}

// Buy grants the skill of slot to the hero for the shop price.
func (g *Game) Buy(s *sim.Simulation, slot int) (data.ActionID, error) {
	act, err := g.shop.offer(slot, g.gold)
	if err != nil {
		return 0, fmt.Errorf("buying slot %d: %w", slot, err)
	}
	if err := s.GrantSkill(g.hero, act); err != nil {
		return 0, fmt.Errorf("buying slot %d: %w", slot, err)
	}
	g.gold -= g.shop.Price()
	g.shop.take(slot)
	slog.Info("skill bought", "action", act, "gold", g.gold)
	return act, nil
}

func (g *Game) isEnemy(id model.UnitID) bool {
	_, ok := g.enemies[id]
	return ok
}

func (g *Game) spawn(s *sim.Simulation) {
	hero, ok := s.World().Unit(g.hero)
	if !ok {
		return
	}
	dir := model.FromAngle(float64(g.roll(360)) * math.Pi / 180)

	g.spawned++
	p := g.cfg.Enemy.Params
	p.Name = fmt.Sprintf("%s-%d", p.Name, g.spawned)
	p.Team = hero.Team().EnemyTarget()
	p.Position = hero.Position.Add(dir.Scale(g.cfg.SpawnDistance))
	u := s.Spawn(p)
	g.enemies[u.ID] = struct{}{}
	g.counter--
	if g.mgr != nil {
		g.mgr.Register(u.ID, ai.NewMonsterAI(u.ID, g.cfg.Enemy.AI))
	}
	slog.Debug("wave enemy spawned", "unit", u.ID, "level", g.level, "left", g.counter)
}

// finish clears the arena and pays the hero.
func (g *Game) finish(s *sim.Simulation) {
	for id := range g.enemies {
		if g.mgr != nil {
			g.mgr.Unregister(id)
		}
		if err := s.Despawn(id); err != nil {
			slog.Warn("wave enemy already gone", "unit", id, "err", err)
		}
	}
	clear(g.enemies)
	g.started = false
	g.counter = 0
	g.remain = 0
	g.gold += g.cfg.RewardGold
	g.teleport(s, g.cfg.Back)
	g.shop.Refresh(g.roll)
	slog.Info("wave cleared", "level", g.level, "gold", g.gold)

	if g.cfg.AutoBuy {
		for slot := range g.shop.Slots() {
			if _, err := g.Buy(s, slot); err == nil {
				break
			}
		}
	}
}

// teleport moves a living hero to pos, stops it and restores its HP.
func (g *Game) teleport(s *sim.Simulation, pos model.Vec2) {
	u, ok := s.World().Unit(g.hero)
	if !ok || !u.IsAlive() {
		return
	}
	u.Position = pos
	u.Pushes = nil
	u.Hook = nil
	u.Record.HP = u.Record.HPMax
	if err := s.SetCommand(g.hero, model.IdleCommand()); err != nil {
		slog.Warn("hero not stopped", "err", err)
	}
	s.World().Reindex()
}

// Level returns the current (or last) wave number.
func (g *Game) Level() int { return g.level }

// Remaining returns enemies of the wave not yet killed.
func (g *Game) Remaining() int { return g.remain }

// Started reports whether a wave is running.
func (g *Game) Started() bool { return g.started }

// Gold returns the hero's purse.
func (g *Game) Gold() int { return g.gold }

// Enemies returns the number of wave enemies in the world, corpses included.
func (g *Game) Enemies() int { return len(g.enemies) }

// Hero returns the hero id, zero before Attach.
func (g *Game) Hero() model.UnitID { return g.hero }

// Blocker returns the current state of a named blocker.
func (g *Game) Blocker(s *sim.Simulation, name string) (world.Obstacle, bool) {
	id, ok := g.triggers.blockers[name]
	if !ok {
		return world.Obstacle{}, false
	}
	return s.Physics().Obstacle(id)
}

// Shop returns the shop.
func (g *Game) Shop() *Shop { return g.shop }
