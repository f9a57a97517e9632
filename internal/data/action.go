package data

import "fmt"

// ActionID идентифицирует действие (скилл) юнита.
// Набор закрыт: каждому значению соответствует ровно один дескриптор в каталоге.
type ActionID uint8

const (
	ActionIdle ActionID = iota
	ActionStop
	ActionStun
	ActionDead
	ActionMoveTo
	ActionAttack

	ActionSlash
	ActionStab
	ActionForbiddenArray
	ActionIceSpear
	ActionBurstFire
	ActionHook
	ActionFireball
	ActionExplosion
	ActionBurning
	ActionDrone
	ActionGhostLight
	ActionSpiderAttack
	ActionWolfAttack
	ActionDeadFinger
	ActionThunder
	ActionLifeDrain

	// Passives
	ActionLifeSteal
	ActionCriticalHit
	ActionDiffusion
	ActionFrostBall
	ActionSmashWave
	ActionHealAura
	ActionAttackAura
	ActionSpeedAura

	actionCount
)

var actionNames = [actionCount]string{
	ActionIdle:           "Idle",
	ActionStop:           "Stop",
	ActionStun:           "Stun",
	ActionDead:           "Dead",
	ActionMoveTo:         "MoveTo",
	ActionAttack:         "Attack",
	ActionSlash:          "Slash",
	ActionStab:           "Stab",
	ActionForbiddenArray: "ForbiddenArray",
	ActionIceSpear:       "IceSpear",
	ActionBurstFire:      "BurstFire",
	ActionHook:           "Hook",
	ActionFireball:       "Fireball",
	ActionExplosion:      "Explosion",
	ActionBurning:        "Burning",
	ActionDrone:          "Drone",
	ActionGhostLight:     "GhostLight",
	ActionSpiderAttack:   "SpiderAttack",
	ActionWolfAttack:     "WolfAttack",
	ActionDeadFinger:     "DeadFinger",
	ActionThunder:        "Thunder",
	ActionLifeDrain:      "LifeDrain",
	ActionLifeSteal:      "LifeSteal",
	ActionCriticalHit:    "CriticalHit",
	ActionDiffusion:      "Diffusion",
	ActionFrostBall:      "FrostBall",
	ActionSmashWave:      "SmashWave",
	ActionHealAura:       "HealAura",
	ActionAttackAura:     "AttackAura",
	ActionSpeedAura:      "SpeedAura",
}

// ActionCount returns the number of defined actions.
func ActionCount() int { return int(actionCount) }

// AllActions returns every defined ActionID in declaration order.
func AllActions() []ActionID {
	ids := make([]ActionID, actionCount)
	for i := range ids {
		ids[i] = ActionID(i)
	}
	return ids
}

// Valid reports whether id belongs to the closed action set.
func (id ActionID) Valid() bool { return id < actionCount }

func (id ActionID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("ActionID(%d)", uint8(id))
	}
	return actionNames[id]
}

// ParseAction looks up an action by its name.
func ParseAction(name string) (ActionID, error) {
	for i, n := range actionNames {
		if n == name {
			return ActionID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// MarshalText implements encoding.TextMarshaler (used by YAML scenes and JSON snapshots).
func (id ActionID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("marshal action: invalid id %d", uint8(id))
	}
	return []byte(actionNames[id]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ActionID) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
