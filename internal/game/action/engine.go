package action

import (
	"log/slog"
	"time"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/model"
)

// Engine — машина состояний действий юнитов.
// Единственный компонент, который пишет model.UnitState.
type Engine struct {
	transitions uint64
	refused     uint64
}

// NewEngine creates a transition engine.
func NewEngine() *Engine { return &Engine{} }

// Stats returns counters of performed and refused transitions.
func (e *Engine) Stats() (transitions, refused uint64) { return e.transitions, e.refused }

// Step advances every unit by dt and applies consolidated change-requests,
// appending lifecycle events to log. When paused, timers do not run and no
// ActiveUpdate is emitted, but requests are still applied.
func (e *Engine) Step(units []*model.Unit, dt time.Duration, paused bool, requests map[model.UnitID]ChangeRequest, log *Log) {
	for _, u := range units {
		req, has := requests[u.ID]
		e.advance(u, dt, paused, req, has, log)
	}
}

func (e *Engine) advance(u *model.Unit, dt time.Duration, paused bool, req ChangeRequest, has bool, log *Log) {
	s := &u.State

	if !paused {
		if s.Timed {
			s.Remaining -= dt
		}
		if s.Phase == data.PhaseActive {
			log.emit(e.event(u, EventActiveUpdate))
		}
	}

	if s.Action == data.ActionStun && u.Record.Stun <= 0 {
		next := data.ActionIdle
		if !u.Record.Alive {
			next = data.ActionDead
		}
		e.transition(u, next, model.IdleCommand(), log)
		return
	}

	if has {
		// death interrupts stun; the corpse must stop colliding right away
		if !s.IsTerminal() || (s.Action == data.ActionStun && req.Action == data.ActionDead) {
			e.transition(u, req.Action, req.Command, log)
			return
		}
		e.refused++
		slog.Debug("change-request refused", "unit", u.ID, "current", s.Action, "requested", req.Action, "source", req.Source)
	}

	if paused || !s.Timed || s.Remaining > 0 {
		return
	}

	desc := data.Describe(s.Action)
	switch s.Phase {
	case data.PhaseStartup:
		s.Phase = data.PhaseActive
		s.SetTimer(desc.Active)
		log.emit(e.event(u, EventEnterActive))
	case data.PhaseActive:
		log.emit(e.event(u, EventExitActive))
		s.Phase = data.PhaseRecover
		s.SetTimer(desc.Recover)
	case data.PhaseRecover:
		e.transition(u, data.ActionIdle, model.IdleCommand(), log)
	}
}

// transition exits the current action and enters the requested one.
func (e *Engine) transition(u *model.Unit, next data.ActionID, cmd model.Command, log *Log) {
	s := &u.State
	prev := s.Action

	if s.Phase == data.PhaseActive {
		log.emit(e.event(u, EventExitActive))
	}
	log.emit(e.event(u, EventExit))

	desc := data.Describe(next)
	s.Action = next
	s.Command = cmd
	s.HasCommand = true
	s.Skill = u.Skills.Index(next)

	switch desc.InitialPhase {
	case data.PhaseActive:
		s.Phase = data.PhaseActive
		s.SetTimer(desc.Active)
		log.emit(e.event(u, EventEnter))
		log.emit(e.event(u, EventEnterActive))
	case data.PhaseRecover:
		s.Phase = data.PhaseRecover
		s.SetTimer(desc.Recover)
		log.emit(e.event(u, EventEnter))
	default:
		s.Phase = data.PhaseStartup
		s.SetTimer(desc.Startup)
		log.emit(e.event(u, EventEnter))
	}

	e.transitions++
	slog.Debug("action transition", "unit", u.ID, "from", prev, "to", next, "phase", s.Phase)
}

func (e *Engine) event(u *model.Unit, kind EventKind) Event {
	ev := Event{
		Kind:    kind,
		Unit:    u.ID,
		Action:  u.State.Action,
		Skill:   u.State.Skill,
		Command: u.State.Command,
	}
	if rec := u.CurrentSkill(); rec != nil {
		ev.Level = rec.Level
	}
	return ev
}
