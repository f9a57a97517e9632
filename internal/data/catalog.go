package data

import (
	"fmt"
	"time"
)

func ms(n int) PhaseTime { return Timed(time.Duration(n) * time.Millisecond) }

// catalog is indexed by ActionID; every id in the closed set has an entry.
var catalog = [actionCount]ActionDescriptor{
	ActionIdle: {
		Startup: ms(100), Recover: ms(200),
		InitialPhase: PhaseStartup, Cancelable: true, Behavior: BehaviorIdle,
	},
	ActionStop: {
		InitialPhase: PhaseActive, Cancelable: true, Behavior: BehaviorStop,
	},
	ActionStun: {
		InitialPhase: PhaseActive, Behavior: BehaviorStun,
	},
	ActionDead: {
		InitialPhase: PhaseActive, Behavior: BehaviorDead,
	},
	ActionMoveTo: {
		InitialPhase: PhaseActive, Cancelable: true,
		Target: TargetPosition, Behavior: BehaviorMoveTo,
	},
	ActionAttack: {
		Startup: ms(200), Active: ms(200), Recover: ms(200),
		InitialPhase: PhaseStartup, Cancelable: true,
		Target: TargetUnit, TargetRange: 100, Behavior: BehaviorAttack,
	},

	ActionSlash: {
		Startup: ms(100), Active: ms(50), Recover: ms(200),
		Target: TargetUnit, Behavior: BehaviorMelee,
		Hit: &HitSpec{
			Shape: Box(0.5, 0.5), Offset: 1.0, Lifespan: 100 * time.Millisecond,
			Damage: Fixed(1), HitStun: 300 * time.Millisecond,
			Knockback: Knockback{Kind: KnockbackDirection, Force: 0.2},
		},
	},
	ActionStab: {
		Startup: ms(100), Active: ms(50), Recover: ms(200),
		Target: TargetPosition, Behavior: BehaviorDash,
		Hit: &HitSpec{
			Shape: Box(1.0, 0.3), Offset: 1.5, Lifespan: 100 * time.Millisecond,
			Damage: Fixed(1), HitStun: 300 * time.Millisecond,
			Knockback: Knockback{Kind: KnockbackDirection, Force: 0.2},
			DashSpeed: 1,
		},
	},
	ActionForbiddenArray: {
		Startup: ms(100), Active: ms(50), Recover: ms(200),
		Behavior: BehaviorNova,
		Hit: &HitSpec{
			Shape: Box(0.2, 0.1), Offset: 1.0, Lifespan: time.Second, Speed: 20,
			Damage: Fixed(1), HitStun: 300 * time.Millisecond,
			Knockback: Knockback{Kind: KnockbackCenter, Force: 0.1},
			Count:     72,
		},
	},
	ActionIceSpear: {
		Startup: ms(100), Active: ms(50), Recover: ms(200),
		Target: TargetPosition, Behavior: BehaviorProjectile,
		Hit: &HitSpec{
			Shape: Ball(0.25), Offset: 1.0, Lifespan: 3 * time.Second, Speed: 10,
			Damage: Fixed(1), HitStun: 300 * time.Millisecond,
			Knockback: Knockback{Kind: KnockbackCenter, Force: 1.0},
		},
	},
	ActionBurstFire: {
		Startup: ms(100), Active: ms(150), Recover: ms(0),
		Target: TargetPosition, Behavior: BehaviorBurstFire,
		Hit: &HitSpec{
			Shape: Ball(0.25), Offset: 1.0, Lifespan: 3 * time.Second, Speed: 10,
			Damage: Fixed(1), HitStun: 300 * time.Millisecond,
			Knockback: Knockback{Kind: KnockbackCenter, Force: 0.1},
			Count:     3,
		},
	},
	ActionHook: {
		Startup: ms(200), Active: ms(200), Recover: ms(0),
		Target: TargetPosition, Behavior: BehaviorHook,
		Hit: &HitSpec{
			Shape: Ball(0.25), Offset: 1.0, Lifespan: time.Second, Speed: 10,
			Damage: Fixed(1), HitStun: 300 * time.Millisecond,
			Knockback: Knockback{Kind: KnockbackCenter},
		},
	},
	ActionFireball: {
		Startup: ms(100), Active: ms(50), Recover: ms(100),
		Target: TargetPosition, Behavior: BehaviorProjectile,
		Hit: &HitSpec{
			Shape: Ball(0.4), Offset: 1.0, Lifespan: 2 * time.Second, Speed: 8,
			Damage: Multiply(3), HitStun: 200 * time.Millisecond,
			Knockback: Knockback{Kind: KnockbackCenter, Force: 0.5},
		},
	},
	ActionExplosion: {
		Startup: ms(100), Active: ms(50), Recover: ms(100),
		Target: TargetPosition, Behavior: BehaviorBlast,
		Hit: &HitSpec{
			Shape: Ball(1.5), Lifespan: 100 * time.Millisecond,
			Damage: Multiply(4), HitStun: 300 * time.Millisecond,
			Knockback: Knockback{Kind: KnockbackCenter, Force: 1.0},
		},
	},
	ActionBurning: {
		Startup: ms(500), Active: ms(50), Recover: ms(1500),
		Target: TargetPosition, Behavior: BehaviorMelee,
		Hit: &HitSpec{
			Shape: Ball(1.5), Lifespan: 500 * time.Millisecond,
			Damage: Fixed(1), HitStun: 300 * time.Millisecond,
			Knockback: Knockback{Kind: KnockbackCenter, Force: 0.3},
		},
	},
	ActionDrone: {
		Startup: ms(100), Active: ms(50), Recover: ms(100),
		Target: TargetPosition, Behavior: BehaviorSummon,
		Hit: &HitSpec{
			Shape: Ball(0.3), Offset: 1.0, Lifespan: 5 * time.Second, Speed: 2,
			Damage: Fixed(1), HitStun: 100 * time.Millisecond,
		},
	},
	ActionGhostLight: {
		Startup: ms(100), Active: Untimed(), Recover: ms(1000),
		Behavior: BehaviorChannel,
		Hit: &HitSpec{
			Shape: Ball(0.25), Offset: 1.5, Lifespan: 5 * time.Second, Speed: 5,
			Damage: Fixed(1), HitStun: 300 * time.Millisecond,
			Knockback: Knockback{Kind: KnockbackCenter, Force: 0.1},
			Count:     8, Homing: 2 * time.Second,
		},
		Duration: time.Second,
	},
	ActionSpiderAttack: {
		Startup: ms(500), Active: ms(50), Recover: ms(500),
		Target: TargetUnit, Behavior: BehaviorProjectile,
		Hit: &HitSpec{
			Shape: Ball(0.25), Offset: 0.5, Lifespan: 5 * time.Second, Speed: 5,
			Damage: Fixed(5),
		},
	},
	ActionWolfAttack: {
		Startup: ms(500), Active: ms(500), Recover: ms(500),
		Target: TargetUnit, Behavior: BehaviorDash,
		Hit: &HitSpec{
			Shape: Ball(0.5), Offset: 0.5, Lifespan: 500 * time.Millisecond,
			Damage: Fixed(1), HitStun: 300 * time.Millisecond,
			Knockback: Knockback{Kind: KnockbackDirection, Force: 0.2},
			DashSpeed: 3,
		},
	},
	ActionDeadFinger: {
		Startup: ms(200), Active: ms(200), Recover: ms(0),
		Target: TargetUnit, Behavior: BehaviorDeadFinger,
		Damage: Multiply(100),
	},
	ActionThunder: {
		Startup: ms(200), Active: ms(200), Recover: ms(0),
		Target: TargetPosition, Behavior: BehaviorAreaDenial,
		Damage: Multiply(5), Radius: 3, Duration: 5 * time.Second, Interval: time.Second,
	},
	ActionLifeDrain: {
		Startup: ms(200), Active: ms(200), Recover: ms(0),
		Target: TargetPosition, Behavior: BehaviorAreaDenial,
		Damage: Multiply(5), Radius: 3, Duration: 5 * time.Second, Interval: time.Second,
		Drain: true,
	},

	ActionLifeSteal: {
		InitialPhase: PhaseActive, Type: SkillPassive, Behavior: BehaviorOnAttack,
		Percentage: Multiply(10), Priority: 1,
	},
	ActionCriticalHit: {
		InitialPhase: PhaseActive, Type: SkillPassive, Behavior: BehaviorOnAttack,
		Chance: 5, Priority: 10,
	},
	ActionDiffusion: {
		InitialPhase: PhaseActive, Type: SkillPassive, Behavior: BehaviorOnAttack,
		Percentage: Multiply(20), Radius: 2, Priority: 5,
	},
	ActionFrostBall: {
		InitialPhase: PhaseActive, Type: SkillPassive, Behavior: BehaviorOnAttack,
		Chance: 20, Damage: Multiply(5), Radius: 1, Priority: 4,
	},
	ActionSmashWave: {
		InitialPhase: PhaseActive, Type: SkillPassive, Behavior: BehaviorOnAttack,
		Chance: 20, Damage: Multiply(5), Radius: 2, Priority: 3,
	},
	ActionHealAura: {
		InitialPhase: PhaseActive, Type: SkillPassive, Behavior: BehaviorAura,
		Percentage: Multiply(1), Radius: 5, Interval: time.Second,
	},
	ActionAttackAura: {
		InitialPhase: PhaseActive, Type: SkillPassive, Behavior: BehaviorAura,
		Percentage: Multiply(20), Radius: 5,
	},
	ActionSpeedAura: {
		InitialPhase: PhaseActive, Type: SkillPassive, Behavior: BehaviorAura,
		Percentage: Multiply(20), Radius: 2,
	},
}

func init() {
	for i := range catalog {
		catalog[i].ID = ActionID(i)
		catalog[i].Name = actionNames[i]
	}
}

// Describe returns the descriptor of an action.
// Looking up an id outside the closed set is a programming error and panics.
func Describe(id ActionID) ActionDescriptor {
	if !id.Valid() {
		panic(fmt.Sprintf("data: describe unknown action %d", uint8(id)))
	}
	return catalog[id]
}
