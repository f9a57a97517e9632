// Package planner reconciles a unit's desired Command with what it can
// legally start right now and turns it into a change-request.
package planner

import (
	"log/slog"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/action"
	"github.com/udisondev/skirmish/internal/model"
)

// Positions is a read-only view of other units.
type Positions interface {
	Lookup(id model.UnitID) (pos model.Vec2, alive bool, ok bool)
}

// Plan evaluates one unit and returns at most one change-request.
//
// A unit whose target vanished or died gets its Command reset to Idle; the
// Idle request itself is produced on the next evaluation.
func Plan(u *model.Unit, others Positions) (action.ChangeRequest, bool) {
	if !data.Describe(u.State.Action).Cancelable {
		return action.ChangeRequest{}, false
	}
	cmd := u.Command
	if u.State.Submitted(cmd) {
		return action.ChangeRequest{}, false
	}

	desc := data.Describe(cmd.Action)
	var target model.Vec2
	switch desc.Target {
	case data.TargetNone:
		return request(u.ID, cmd), true
	case data.TargetUnit:
		pos, alive, ok := others.Lookup(cmd.Target)
		if !cmd.HasTarget() || !ok || !alive {
			slog.Debug("command target vanished", "unit", u.ID, "action", cmd.Action, "target", cmd.Target)
			u.Command = model.IdleCommand()
			return action.ChangeRequest{}, false
		}
		target = pos
	case data.TargetPosition:
		if !cmd.HasPosition {
			if !desc.HasRange() {
				return request(u.ID, cmd), true
			}
			u.Command = model.IdleCommand()
			return action.ChangeRequest{}, false
		}
		target = cmd.Position
	}

	if !desc.HasRange() {
		return request(u.ID, cmd), true
	}
	if u.Position.DistSq(target) <= desc.TargetRange*desc.TargetRange {
		return request(u.ID, cmd), true
	}

	// out of range: walk toward the target, keep the original command
	move := model.MoveToCommand(target)
	if u.State.Submitted(move) {
		return action.ChangeRequest{}, false
	}
	return request(u.ID, move), true
}

func request(id model.UnitID, cmd model.Command) action.ChangeRequest {
	return action.ChangeRequest{Unit: id, Action: cmd.Action, Command: cmd, Source: action.SourcePlanner}
}

// PlanAll evaluates every unit and returns the requests in unit order.
func PlanAll(units []*model.Unit, others Positions) []action.ChangeRequest {
	var out []action.ChangeRequest
	for _, u := range units {
		if r, ok := Plan(u, others); ok {
			out = append(out, r)
		}
	}
	return out
}
