// Package skill implements the effect handlers reacting to action lifecycle
// events. Each behaviour kind owns a set of optional hooks; the dispatcher
// routes every event to the hooks of the action's behaviour.
//
// Handlers never write another unit's record: damage and healing go through
// the combat queue, modifiers through the attribute queue and state changes
// through deferred change-requests.
package skill

import (
	"log/slog"
	"time"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/action"
	"github.com/udisondev/skirmish/internal/game/attribute"
	"github.com/udisondev/skirmish/internal/game/combat"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

// Spawner is the world/physics collaborator handlers spawn volumes through.
type Spawner interface {
	SpawnMelee(m world.Melee) world.VolumeID
	SpawnProjectile(p world.Projectile) world.VolumeID
	SpawnZone(z world.Zone) world.VolumeID
	AttachSensor(s world.Sensor) world.VolumeID
	AttachHook(id world.VolumeID, target model.Vec2) bool
	AttachHoming(id world.VolumeID, h world.Homing) bool
	Volume(id world.VolumeID) (*world.Volume, bool)
	Despawn(id world.VolumeID)
	Disable(unit model.UnitID)
}

// Animator accepts fire-and-forget animation requests.
type Animator interface {
	ChangeAnimation(unit model.UnitID, name string)
}

// Units is the unit registry view handlers need.
type Units interface {
	Unit(id model.UnitID) (*model.Unit, bool)
	Units() []*model.Unit
	InRadius(center model.Vec2, radius float64, fn func(*model.Unit) bool)
}

// Completion marks a command that reached its goal (MoveTo arrival).
// It is applied at the next tick boundary: the unit's Command is reset to
// Idle if it still equals Command.
type Completion struct {
	Unit    model.UnitID
	Command model.Command
}

// Queues are the deferred outputs of handlers.
type Queues struct {
	Requests   *action.Queue
	Combat     *combat.Queue
	Attributes *attribute.Queue
}

type sensorRef struct {
	source model.ModifierSource
	attr   attribute.Attr
	pct    int32
	team   model.Team
}

// Dispatcher routes lifecycle events to behaviour hooks.
type Dispatcher struct {
	units   Units
	spawner Spawner
	anim    Animator
	queues  Queues

	dt          time.Duration
	completions []Completion

	sensors map[world.VolumeID]sensorRef
	auras   map[model.ModifierSource]world.VolumeID
}

// NewDispatcher creates a dispatcher writing to queues.
func NewDispatcher(units Units, spawner Spawner, anim Animator, queues Queues) *Dispatcher {
	return &Dispatcher{
		units:   units,
		spawner: spawner,
		anim:    anim,
		queues:  queues,
		sensors: make(map[world.VolumeID]sensorRef),
		auras:   make(map[model.ModifierSource]world.VolumeID),
	}
}

// SetDelta sets the duration of the tick being dispatched.
func (d *Dispatcher) SetDelta(dt time.Duration) { d.dt = dt }

// OnEvent implements action.Listener.
func (d *Dispatcher) OnEvent(ev action.Event) {
	desc := data.Describe(ev.Action)
	h, ok := registry[desc.Behavior]
	if !ok {
		return
	}
	fn := h.hook(ev.Kind)
	if fn == nil {
		return
	}
	u, ok := d.units.Unit(ev.Unit)
	if !ok {
		return
	}
	c := &call{d: d, ev: ev, unit: u, desc: desc}
	if h.learned {
		c.skill = u.Skills.At(ev.Skill)
		if c.skill == nil {
			slog.Debug("skill not learned, event skipped", "unit", u.ID, "action", ev.Action, "event", ev.Kind)
			return
		}
	}
	fn(c)
}

// PassiveUpdate runs the periodic hooks of passive skills of every living unit.
func (d *Dispatcher) PassiveUpdate(units []*model.Unit) {
	for _, u := range units {
		if !u.IsAlive() {
			continue
		}
		for i := range u.Skills.Len() {
			rec := u.Skills.At(i)
			desc := data.Describe(rec.Action)
			if !desc.IsPassive() {
				continue
			}
			if h := registry[desc.Behavior]; h.passive != nil {
				h.passive(d, u, rec, desc)
			}
		}
	}
}

// Attach runs the attach hook of one learned skill (aura sensors). Calling it
// again after a level-up replaces what was attached before.
func (d *Dispatcher) Attach(u *model.Unit, act data.ActionID) {
	rec := u.Skills.At(u.Skills.Index(act))
	if rec == nil {
		return
	}
	desc := data.Describe(act)
	if h := registry[desc.Behavior]; h.attach != nil {
		h.attach(d, u, rec, desc)
	}
}

// AttachAll attaches every learned skill of u.
func (d *Dispatcher) AttachAll(u *model.Unit) {
	for _, rec := range u.Skills.All() {
		d.Attach(u, rec.Action)
	}
}

// Completions returns and clears completed commands.
func (d *Dispatcher) Completions() []Completion {
	out := d.completions
	d.completions = nil
	return out
}

func (d *Dispatcher) complete(u *model.Unit, cmd model.Command) {
	d.completions = append(d.completions, Completion{Unit: u.ID, Command: cmd})
}

// request queues a deferred change-request for the next tick.
func (d *Dispatcher) request(u *model.Unit, act data.ActionID, cmd model.Command) {
	d.queues.Requests.Push(action.ChangeRequest{Unit: u.ID, Action: act, Command: cmd, Source: action.SourceHandler})
}
