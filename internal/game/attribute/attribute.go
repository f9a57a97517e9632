// Package attribute keeps effective unit attributes in sync with the
// modifiers applied by auras.
package attribute

import (
	"log/slog"

	"github.com/udisondev/skirmish/internal/model"
)

// Attr selects the modified attribute.
type Attr uint8

const (
	AttrAttack Attr = iota
	AttrSpeed
)

func (a Attr) String() string {
	switch a {
	case AttrAttack:
		return "attack"
	case AttrSpeed:
		return "speed"
	default:
		return "unknown"
	}
}

// Kind — добавление или снятие модификатора.
type Kind uint8

const (
	KindAdd Kind = iota
	KindRemove
)

// Event is a modifier change raised by skill handlers.
// For KindRemove only Modifier.Source is used.
type Event struct {
	Kind     Kind
	Unit     model.UnitID
	Attr     Attr
	Modifier model.AttributeModifier
}

// Queue collects modifier events during a tick.
type Queue struct {
	events []Event
}

// Add queues a modifier for unit.
func (q *Queue) Add(unit model.UnitID, attr Attr, m model.AttributeModifier) {
	q.events = append(q.events, Event{Kind: KindAdd, Unit: unit, Attr: attr, Modifier: m})
}

// Remove queues removal of the modifier applied by src.
func (q *Queue) Remove(unit model.UnitID, attr Attr, src model.ModifierSource) {
	q.events = append(q.events, Event{Kind: KindRemove, Unit: unit, Attr: attr, Modifier: model.AttributeModifier{Source: src}})
}

// Len returns the number of queued events.
func (q *Queue) Len() int { return len(q.events) }

func (q *Queue) drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// Units looks units up by id.
type Units interface {
	Unit(id model.UnitID) (*model.Unit, bool)
}

// System applies modifier events and writes effective values back to
// UnitRecord. Together with combat it is the only writer of UnitRecord stats.
type System struct {
	units Units
}

// NewSystem creates an attribute system over units.
func NewSystem(units Units) *System {
	return &System{units: units}
}

// Apply drains q in order.
func (s *System) Apply(q *Queue) {
	for _, ev := range q.drain() {
		switch ev.Kind {
		case KindAdd:
			s.Add(ev.Unit, ev.Attr, ev.Modifier)
		case KindRemove:
			s.Remove(ev.Unit, ev.Attr, ev.Modifier.Source)
		}
	}
}

// Add sets the modifier, replacing one from the same source, and recomputes.
// Returns false when the unit is gone.
func (s *System) Add(unit model.UnitID, attr Attr, m model.AttributeModifier) bool {
	u, ok := s.units.Unit(unit)
	if !ok {
		return false
	}
	switch attr {
	case AttrAttack:
		u.Attack.Modifiers.Set(m)
	case AttrSpeed:
		u.Speed.Modifiers.Set(m)
	}
	Recompute(u)
	slog.Debug("modifier added", "unit", unit, "attr", attr, "source", m.Source.Unit, "action", m.Source.Action,
		"attack", u.Record.Attack, "speed", u.Record.MovementSpeed)
	return true
}

// Remove drops the modifier from src and recomputes.
// Returns false when the unit is gone or had no such modifier.
func (s *System) Remove(unit model.UnitID, attr Attr, src model.ModifierSource) bool {
	u, ok := s.units.Unit(unit)
	if !ok {
		return false
	}
	var removed bool
	switch attr {
	case AttrAttack:
		removed = u.Attack.Modifiers.Remove(src)
	case AttrSpeed:
		removed = u.Speed.Modifiers.Remove(src)
	}
	if !removed {
		return false
	}
	Recompute(u)
	slog.Debug("modifier removed", "unit", unit, "attr", attr, "source", src.Unit, "action", src.Action,
		"attack", u.Record.Attack, "speed", u.Record.MovementSpeed)
	return true
}

// RemoveSource drops every modifier applied by src from every unit.
// Used when the source stops existing (death, despawn).
func (s *System) RemoveSource(units []*model.Unit, src model.ModifierSource) {
	for _, u := range units {
		a := u.Attack.Modifiers.Remove(src)
		b := u.Speed.Modifiers.Remove(src)
		if a || b {
			Recompute(u)
		}
	}
}

// Recompute writes effective attack and movement speed into the record.
func Recompute(u *model.Unit) {
	u.Record.Attack = u.Attack.Value()
	u.Record.MovementSpeed = u.Speed.Value()
}
