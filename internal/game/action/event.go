package action

import (
	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/model"
)

// EventKind — тип события жизненного цикла действия.
// Значения упорядочены так же, как проходы диспетчеризации внутри тика.
type EventKind uint8

const (
	EventActiveUpdate EventKind = iota
	EventExitActive
	EventExit
	EventEnter
	EventEnterActive

	eventKindCount
)

// PassOrder lists event kinds in the order they are delivered within a tick.
var PassOrder = [eventKindCount]EventKind{
	EventActiveUpdate, EventExitActive, EventExit, EventEnter, EventEnterActive,
}

func (k EventKind) String() string {
	switch k {
	case EventActiveUpdate:
		return "ActiveUpdate"
	case EventExitActive:
		return "ExitActive"
	case EventExit:
		return "Exit"
	case EventEnter:
		return "Enter"
	case EventEnterActive:
		return "EnterActive"
	default:
		return "EventKind(?)"
	}
}

// Event is a lifecycle signal. Command is the command snapshot of the action
// the event belongs to, captured at emission time, so handlers never read a
// state that has already moved on.
type Event struct {
	Kind    EventKind
	Unit    model.UnitID
	Action  data.ActionID
	Skill   int // index into the unit's SkillSet, model.NoSkill if not learned
	Level   int32
	Command model.Command
}

// Listener receives lifecycle events.
type Listener interface {
	OnEvent(ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev Event)

func (f ListenerFunc) OnEvent(ev Event) { f(ev) }

// Log — журнал событий одного тика, разложенный по проходам.
// Только дописывается; сбрасывается в начале следующего тика.
type Log struct {
	passes [eventKindCount][]Event
}

func (l *Log) emit(ev Event) {
	l.passes[ev.Kind] = append(l.passes[ev.Kind], ev)
}

// Reset clears the log for reuse.
func (l *Log) Reset() {
	for i := range l.passes {
		l.passes[i] = l.passes[i][:0]
	}
}

// Pass returns the events of one kind in emission order.
func (l *Log) Pass(kind EventKind) []Event {
	return l.passes[kind]
}

// Len returns the total number of events.
func (l *Log) Len() int {
	n := 0
	for _, p := range l.passes {
		n += len(p)
	}
	return n
}

// Events returns all events in delivery order.
func (l *Log) Events() []Event {
	out := make([]Event, 0, l.Len())
	for _, kind := range PassOrder {
		out = append(out, l.passes[kind]...)
	}
	return out
}

// ForUnit returns the events of one unit in delivery order.
func (l *Log) ForUnit(id model.UnitID) []Event {
	var out []Event
	for _, kind := range PassOrder {
		for _, ev := range l.passes[kind] {
			if ev.Unit == id {
				out = append(out, ev)
			}
		}
	}
	return out
}

// DispatchPass delivers every event of one kind to every listener.
func (l *Log) DispatchPass(kind EventKind, listeners ...Listener) {
	for _, ev := range l.passes[kind] {
		for _, ls := range listeners {
			ls.OnEvent(ev)
		}
	}
}

// Dispatch runs all passes in order. A pass completes for every unit before
// the next one starts.
func (l *Log) Dispatch(listeners ...Listener) {
	for _, kind := range PassOrder {
		l.DispatchPass(kind, listeners...)
	}
}

// Recorder is a Listener capturing everything it receives.
type Recorder struct {
	Events []Event
}

func (r *Recorder) OnEvent(ev Event) { r.Events = append(r.Events, ev) }

// Kinds returns the captured kinds for one unit.
func (r *Recorder) Kinds(unit model.UnitID) []EventKind {
	var out []EventKind
	for _, ev := range r.Events {
		if ev.Unit == unit {
			out = append(out, ev.Kind)
		}
	}
	return out
}
