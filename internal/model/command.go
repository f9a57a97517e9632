package model

import "github.com/udisondev/skirmish/internal/data"

// Command — желаемое действие юнита и его цель.
// Пишется извне (AI, ввод игрока); ядро только читает его,
// за исключением подмены на MoveTo/Idle планировщиком.
//
// Command is comparable with == so the planner can detect resubmission.
type Command struct {
	Action  data.ActionID `json:"action"`
	MoveDir Vec2          `json:"move_dir"`

	// Target is the target unit, 0 when absent.
	Target UnitID `json:"target,omitempty"`

	Position    Vec2 `json:"position"`
	HasPosition bool `json:"has_position,omitempty"`

	Direction    Vec2 `json:"direction"`
	HasDirection bool `json:"has_direction,omitempty"`
}

// IdleCommand is the rest command every unit falls back to.
func IdleCommand() Command { return Command{Action: data.ActionIdle} }

// AttackCommand targets a unit with the given action.
func AttackCommand(action data.ActionID, target UnitID) Command {
	return Command{Action: action, Target: target}
}

// PositionCommand targets a point with the given action.
func PositionCommand(action data.ActionID, pos Vec2) Command {
	return Command{Action: action, Position: pos, HasPosition: true}
}

// MoveToCommand returns a MoveTo toward pos.
func MoveToCommand(pos Vec2) Command {
	return PositionCommand(data.ActionMoveTo, pos)
}

// HasTarget reports whether a target unit is set.
func (c Command) HasTarget() bool { return c.Target != 0 }
