package model

import "fmt"

// Team — сторона юнита. Закрытый набор из двух значений.
type Team uint8

const (
	TeamPlayer Team = iota
	TeamEnemy
)

func (t Team) String() string {
	if t == TeamEnemy {
		return "Enemy"
	}
	return "Player"
}

// EnemyTarget returns the team this team's hit-volumes are aimed at.
func (t Team) EnemyTarget() Team {
	if t == TeamPlayer {
		return TeamEnemy
	}
	return TeamPlayer
}

// IsEnemy reports whether other is hostile to t.
func (t Team) IsEnemy(other Team) bool { return t != other }

// IsAlly reports whether other is on the same side as t.
func (t Team) IsAlly(other Team) bool { return t == other }

// MarshalText implements encoding.TextMarshaler.
func (t Team) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Team) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Player", "player":
		*t = TeamPlayer
	case "Enemy", "enemy":
		*t = TeamEnemy
	default:
		return fmt.Errorf("unknown team %q", text)
	}
	return nil
}
