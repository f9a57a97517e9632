package model

import (
	"time"

	"github.com/udisondev/skirmish/internal/data"
)

// UnitID — идентификатор юнита в мире. 0 означает «нет юнита».
type UnitID uint32

// UnitRecord — боевые характеристики юнита.
// Attack и MovementSpeed производные: их пересчитывает система модификаторов.
type UnitRecord struct {
	HP            int32         `json:"hp"`
	HPMax         int32         `json:"hp_max"`
	Attack        int32         `json:"attack"`
	MovementSpeed float64       `json:"movement_speed"`
	Alive         bool          `json:"alive"`
	Stun          time.Duration `json:"stun"`
	Team          Team          `json:"team"`
}

// Movement — желаемое движение юнита, которое интегрирует физика.
type Movement struct {
	Direction Vec2    `json:"direction"`
	Speed     float64 `json:"speed"`
	Face      Vec2    `json:"face"`
}

// Velocity returns Direction scaled by Speed.
func (m Movement) Velocity() Vec2 { return m.Direction.Normalize().Scale(m.Speed) }

// Push is a transient displacement applied by a knockback.
type Push struct {
	Velocity  Vec2          `json:"velocity"`
	Remaining time.Duration `json:"remaining"`
}

// Hooked pulls the unit from From toward To.
type Hooked struct {
	From      Vec2          `json:"from"`
	To        Vec2          `json:"to"`
	Remaining time.Duration `json:"remaining"`
}

// Unit — юнит симуляции: запись характеристик, состояние действия,
// команда, скиллы и пространственные данные.
//
// Ownership: State is written only by the transition engine, Record by combat
// resolution and the modifier system, Command by external producers and the
// planner. Skill handlers touch only Movement and their own SkillRecord.
type Unit struct {
	ID   UnitID
	Name string

	Record  UnitRecord
	State   UnitState
	Command Command
	Skills  SkillSet

	Attack AttackAttribute
	Speed  SpeedAttribute

	Position Vec2
	Movement Movement
	Pushes   []Push
	Hook     *Hooked
}

// UnitParams — стартовые параметры юнита.
type UnitParams struct {
	Name     string
	Team     Team
	HP       int32
	Attack   int32
	Speed    float64
	Position Vec2
	Skills   []data.ActionID
}

// NewUnit creates a living unit at full HP in the initial Idle state.
func NewUnit(id UnitID, p UnitParams) *Unit {
	u := &Unit{
		ID:   id,
		Name: p.Name,
		Record: UnitRecord{
			HP:            p.HP,
			HPMax:         p.HP,
			Attack:        p.Attack,
			MovementSpeed: p.Speed,
			Alive:         true,
			Team:          p.Team,
		},
		State:    InitialState(),
		Command:  IdleCommand(),
		Skills:   NewSkillSet(p.Skills...),
		Attack:   AttackAttribute{Base: p.Attack},
		Speed:    SpeedAttribute{Base: p.Speed},
		Position: p.Position,
		Movement: Movement{Face: V(1, 0)},
	}
	return u
}

// IsAlive reports whether the unit is alive.
func (u *Unit) IsAlive() bool { return u.Record.Alive }

// Team returns the unit team.
func (u *Unit) Team() Team { return u.Record.Team }

// CurrentSkill returns the skill record of the executing action, or nil.
func (u *Unit) CurrentSkill() *SkillRecord { return u.Skills.At(u.State.Skill) }

// SetHP sets HP clamped to HPMax. Values below zero are kept: they are the
// trigger for the death transition, not an error.
func (r *UnitRecord) SetHP(hp int32) {
	if hp > r.HPMax {
		hp = r.HPMax
	}
	r.HP = hp
}
