package model

import (
	"time"

	"github.com/udisondev/skirmish/internal/data"
)

// NoSkill marks a UnitState executing an action the unit has not learned (Idle, MoveTo, ...).
const NoSkill = -1

// UnitState — текущее действие юнита и его фаза.
// Изменяется только движком переходов (internal/game/action).
type UnitState struct {
	Action data.ActionID `json:"action"`
	Phase  data.Phase    `json:"phase"`

	// Remaining is valid only when Timed is set; an untimed phase waits for a change-request.
	Remaining time.Duration `json:"remaining"`
	Timed     bool          `json:"timed"`

	// Skill is an index into the unit's SkillSet, NoSkill when the action is not learned.
	Skill int `json:"skill"`

	// Command is the snapshot of the command that triggered entry.
	Command    Command `json:"command"`
	HasCommand bool    `json:"has_command"`
}

// InitialState is the state of a freshly spawned unit: Idle with no submitted command.
func InitialState() UnitState {
	return UnitState{Action: data.ActionIdle, Phase: data.PhaseActive, Skill: NoSkill}
}

// Submitted reports whether cmd is the command the current action was entered with.
func (s UnitState) Submitted(cmd Command) bool {
	return s.HasCommand && s.Command == cmd
}

// SetTimer sets the phase timer from an optional catalog duration.
func (s *UnitState) SetTimer(t data.PhaseTime) {
	s.Remaining, s.Timed = t.Get()
}

// IsTerminal reports whether the unit refuses change-requests (Dead or Stun).
func (s UnitState) IsTerminal() bool {
	return s.Action == data.ActionDead || s.Action == data.ActionStun
}
