package skill

import (
	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/action"
	"github.com/udisondev/skirmish/internal/model"
)

// hooks — набор обработчиков одного BehaviorKind. Все поля опциональны.
type hooks struct {
	// learned hooks run only for units that know the action as a skill.
	learned bool

	enter        func(c *call)
	enterActive  func(c *call)
	activeUpdate func(c *call)
	exitActive   func(c *call)
	exit         func(c *call)

	passive func(d *Dispatcher, u *model.Unit, rec *model.SkillRecord, desc data.ActionDescriptor)
	attach  func(d *Dispatcher, u *model.Unit, rec *model.SkillRecord, desc data.ActionDescriptor)
}

func (h hooks) hook(kind action.EventKind) func(c *call) {
	switch kind {
	case action.EventEnter:
		return h.enter
	case action.EventEnterActive:
		return h.enterActive
	case action.EventActiveUpdate:
		return h.activeUpdate
	case action.EventExitActive:
		return h.exitActive
	case action.EventExit:
		return h.exit
	default:
		return nil
	}
}

// registry maps behaviour kind → hooks.
// Populated by init() functions in individual behaviour files.
var registry = map[data.BehaviorKind]hooks{}

func register(kind data.BehaviorKind, h hooks) {
	if _, dup := registry[kind]; dup {
		panic("skill: behaviour registered twice: " + kind.String())
	}
	registry[kind] = h
}

// Registered reports whether a behaviour kind has hooks.
func Registered(kind data.BehaviorKind) bool {
	_, ok := registry[kind]
	return ok
}
