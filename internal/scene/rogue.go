package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/rogue"
	"github.com/udisondev/skirmish/internal/model"
)

// BandSpec picks Action while the target is within Range metres.
type BandSpec struct {
	Range  float64       `yaml:"range"`
	Action data.ActionID `yaml:"action"`
}

// ShapeSpec is a ball when Radius is set, a box otherwise. Metres.
type ShapeSpec struct {
	Radius float64 `yaml:"radius,omitempty"`
	HalfX  float64 `yaml:"half_x,omitempty"`
	HalfY  float64 `yaml:"half_y,omitempty"`
}

func (s ShapeSpec) shape() data.Shape {
	if s.Radius > 0 {
		return data.Ball(s.Radius)
	}
	return data.Box(s.HalfX, s.HalfY)
}

func (s ShapeSpec) empty() bool { return s.Radius <= 0 && (s.HalfX <= 0 || s.HalfY <= 0) }

// RogueSpec enables the wave mode. Positions are world units, distances metres.
type RogueSpec struct {
	Hero          string        `yaml:"hero"`
	StartGold     int           `yaml:"start_gold"`
	RewardGold    int           `yaml:"reward_gold"`
	Price         int           `yaml:"price"`
	Slots         int           `yaml:"slots"`
	AutoBuy       bool          `yaml:"auto_buy"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	SpawnDistance float64       `yaml:"spawn_distance"`
	Start         model.Vec2    `yaml:"start"`
	Back          model.Vec2    `yaml:"back"`
	Enemy         UnitSpec      `yaml:"enemy"`
	Areas         []AreaSpec    `yaml:"areas"`
	Blockers      []BlockerSpec `yaml:"blockers"`
	DeathTriggers []DeathSpec   `yaml:"death_triggers"`
}

type AreaSpec struct {
	Name     string                `yaml:"name"`
	Position model.Vec2            `yaml:"position"`
	Shape    ShapeSpec             `yaml:"shape"`
	Start    bool                  `yaml:"start"`
	Triggers []rogue.TriggerAction `yaml:"triggers"`
}

type BlockerSpec struct {
	Name     string     `yaml:"name"`
	Position model.Vec2 `yaml:"position"`
	Shape    ShapeSpec  `yaml:"shape"`
	Solid    bool       `yaml:"solid"`
}

type DeathSpec struct {
	Unit     string                `yaml:"unit"`
	Triggers []rogue.TriggerAction `yaml:"triggers"`
}

// Config converts the section into a rogue config.
func (r *RogueSpec) Config() rogue.Config {
	enemy := r.Enemy
	speed := enemy.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}
	aiCfg := ai.DefaultMonsterConfig()
	if enemy.AI != nil {
		aiCfg = enemy.AI.config()
	}
	cfg := rogue.Config{
		Hero:          r.Hero,
		StartGold:     r.StartGold,
		RewardGold:    r.RewardGold,
		Price:         r.Price,
		Slots:         r.Slots,
		AutoBuy:       r.AutoBuy,
		SpawnInterval: r.SpawnInterval,
		SpawnDistance: r.SpawnDistance * data.Scale,
		Start:         r.Start,
		Back:          r.Back,
		Enemy: rogue.Enemy{
			Params: model.UnitParams{
				Name:   enemy.Name,
				Team:   enemy.Team,
				HP:     enemy.HP,
				Attack: enemy.Attack,
				Speed:  speed,
				Skills: enemy.Skills,
			},
			AI: aiCfg,
		},
	}
	for _, a := range r.Areas {
		cfg.Areas = append(cfg.Areas, rogue.Area{
			Name: a.Name, Center: a.Position, Shape: a.Shape.shape(), Start: a.Start, Triggers: a.Triggers,
		})
	}
	for _, b := range r.Blockers {
		cfg.Blockers = append(cfg.Blockers, rogue.Blocker{
			Name: b.Name, Center: b.Position, Shape: b.Shape.shape(), Solid: b.Solid,
		})
	}
	for _, d := range r.DeathTriggers {
		cfg.DeathTriggers = append(cfg.DeathTriggers, rogue.DeathTrigger{Unit: d.Unit, Triggers: d.Triggers})
	}
	return cfg
}

func (r *RogueSpec) validate(names map[string]struct{}) error {
	var errs []error
	if _, ok := names[r.Hero]; !ok {
		errs = append(errs, fmt.Errorf("rogue: hero %q not in scene", r.Hero))
	}
	if r.Enemy.Name == "" || r.Enemy.HP <= 0 {
		errs = append(errs, errors.New("rogue: enemy needs a name and positive hp"))
	}
	for _, d := range r.DeathTriggers {
		if _, ok := names[d.Unit]; !ok {
			errs = append(errs, fmt.Errorf("rogue: death trigger unit %q not in scene", d.Unit))
		}
	}
	for _, a := range r.Areas {
		if a.Shape.empty() {
			errs = append(errs, fmt.Errorf("rogue: area %q has no shape", a.Name))
		}
	}
	for _, b := range r.Blockers {
		if b.Shape.empty() {
			errs = append(errs, fmt.Errorf("rogue: blocker %q has no shape", b.Name))
		}
	}
	errs = append(errs, r.Config().Validate())
	return errors.Join(errs...)
}
