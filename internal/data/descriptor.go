package data

import "time"

// Phase — фаза выполнения действия.
type Phase uint8

const (
	PhaseStartup Phase = iota
	PhaseActive
	PhaseRecover
)

func (p Phase) String() string {
	switch p {
	case PhaseStartup:
		return "Startup"
	case PhaseActive:
		return "Active"
	case PhaseRecover:
		return "Recover"
	default:
		return "Phase(?)"
	}
}

// PhaseTime is an optional phase duration. An unset PhaseTime means the
// phase has no timer and only ends on an explicit change-request.
type PhaseTime struct {
	d   time.Duration
	set bool
}

// Timed returns a phase duration of d.
func Timed(d time.Duration) PhaseTime { return PhaseTime{d: d, set: true} }

// Untimed returns an unset phase duration.
func Untimed() PhaseTime { return PhaseTime{} }

// Get returns the duration and whether it is set.
func (p PhaseTime) Get() (time.Duration, bool) { return p.d, p.set }

// IsSet reports whether the phase has a timer.
func (p PhaseTime) IsSet() bool { return p.set }

// TargetKind определяет, какую цель требует действие.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetUnit
	TargetPosition
)

func (t TargetKind) String() string {
	switch t {
	case TargetUnit:
		return "Unit"
	case TargetPosition:
		return "Position"
	default:
		return "None"
	}
}

// SkillType разделяет активные и пассивные скиллы.
type SkillType uint8

const (
	SkillActive SkillType = iota
	SkillPassive
)

// BehaviorKind selects the effect handler family owning an action.
type BehaviorKind uint8

const (
	BehaviorIdle BehaviorKind = iota
	BehaviorStop
	BehaviorStun
	BehaviorDead
	BehaviorMoveTo
	BehaviorAttack
	BehaviorMelee      // hit-volume in front of the caster
	BehaviorDash       // melee hit-volume plus a forward dash
	BehaviorProjectile // single projectile toward the target
	BehaviorNova       // ring of projectiles around the caster
	BehaviorBurstFire  // several projectiles over the active window
	BehaviorHook       // projectile that pulls the victim
	BehaviorBlast      // instant hit-volume at the target position
	BehaviorSummon     // slow long-living projectile
	BehaviorChannel    // untimed active phase spawning sub-effects on thresholds
	BehaviorDeadFinger // direct damage to the target unit
	BehaviorAreaDenial // lingering zone with periodic damage
	BehaviorOnAttack   // passive triggered by basic attacks
	BehaviorAura       // passive sensor/periodic effect around the owner

	behaviorCount
)

var behaviorNames = [behaviorCount]string{
	"Idle", "Stop", "Stun", "Dead", "MoveTo", "Attack", "Melee", "Dash",
	"Projectile", "Nova", "BurstFire", "Hook", "Blast", "Summon", "Channel",
	"DeadFinger", "AreaDenial", "OnAttack", "Aura",
}

// BehaviorCount returns the number of behaviour kinds.
func BehaviorCount() int { return int(behaviorCount) }

func (b BehaviorKind) String() string {
	if b >= behaviorCount {
		return "Behavior(?)"
	}
	return behaviorNames[b]
}

// ShapeKind — форма хит-объёма.
type ShapeKind uint8

const (
	ShapeBall ShapeKind = iota
	ShapeBox
)

// Shape describes a collision shape in metres.
// Ball uses Radius, Box uses HalfX/HalfY (half extents along the facing axis and its normal).
type Shape struct {
	Kind   ShapeKind
	Radius float64
	HalfX  float64
	HalfY  float64
}

// Ball returns a circle shape.
func Ball(r float64) Shape { return Shape{Kind: ShapeBall, Radius: r} }

// Box returns an oriented box shape.
func Box(hx, hy float64) Shape { return Shape{Kind: ShapeBox, HalfX: hx, HalfY: hy} }

// KnockbackKind — направление отбрасывания.
type KnockbackKind uint8

const (
	KnockbackNone KnockbackKind = iota
	KnockbackCenter
	KnockbackDirection
)

// Knockback pushes the victim away from the hit-volume centre (Center) or
// along the hit-volume facing (Direction). Force is in metres.
type Knockback struct {
	Kind  KnockbackKind
	Force float64
}

// KnockbackDuration is how long a single knockback push lasts.
const KnockbackDuration = 100 * time.Millisecond

// HookDuration is how long a hooked unit is pulled toward the hook origin.
const HookDuration = 200 * time.Millisecond

// Scale converts metres used by skill geometry to world units.
const Scale = 50.0

// HitSpec описывает хит-объём, создаваемый скиллом.
type HitSpec struct {
	Shape     Shape
	Offset    float64       // metres in front of the caster
	Lifespan  time.Duration //
	Speed     float64       // metres per second, 0 for melee
	Damage    Value
	HitStun   time.Duration
	Knockback Knockback
	Count     int     // projectiles per cast (nova, burst)
	DashSpeed float64 // multiplier of the caster movement speed, 0 = no dash
	Homing    time.Duration
}

// ActionDescriptor — неизменяемое описание действия.
type ActionDescriptor struct {
	ID   ActionID
	Name string

	Startup      PhaseTime
	Active       PhaseTime
	Recover      PhaseTime
	InitialPhase Phase

	Cancelable  bool
	Target      TargetKind
	TargetRange float64 // world units, 0 = unlimited
	Type        SkillType
	Behavior    BehaviorKind
	Priority    int // order of OnAttack passives, higher first

	Hit *HitSpec

	// Level-scaled parameters used by passives, auras and zones.
	Damage     Value
	Percentage Value
	Chance     int32         // percent
	Radius     float64       // metres
	Duration   time.Duration // zone lifetime
	Interval   time.Duration // periodic effect interval
	Drain      bool          // zone damage heals the caster
}

// HasRange reports whether the planner must check distance before starting the action.
func (d ActionDescriptor) HasRange() bool { return d.TargetRange > 0 }

// IsPassive reports whether the action is a passive skill.
func (d ActionDescriptor) IsPassive() bool { return d.Type == SkillPassive }
