package world

import (
	"log/slog"
	"slices"
	"time"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/model"
)

// UnitRadius is the collision radius of every unit body, in world units.
const UnitRadius = 0.4 * data.Scale

// VolumeKind — тип объёма.
type VolumeKind uint8

const (
	VolumeMelee VolumeKind = iota
	VolumeProjectile
	VolumeZone
	VolumeSensor
	VolumeArea
)

// HitPayload — что хит-объём делает с жертвой.
type HitPayload struct {
	Damage     int32
	HitStun    time.Duration
	Knockback  data.Knockback
	TargetTeam model.Team
}

// Melee is a short-lived hit-volume placed Offset metres in front of Origin.
// With Follow set it stays attached to the owner.
type Melee struct {
	Owner    model.UnitID
	Action   data.ActionID
	Origin   model.Vec2
	Facing   model.Vec2
	Offset   float64
	Shape    data.Shape
	Lifespan time.Duration
	Follow   bool
	Hit      HitPayload
}

// Projectile is a hit-volume moving with Velocity (world units per second).
// It is consumed by the first unit of its target team it touches.
type Projectile struct {
	Melee
	Velocity model.Vec2
}

// Zone is a stationary area that re-triggers on every unit inside it each Interval.
// Drain zones heal their owner by the damage dealt.
type Zone struct {
	Owner    model.UnitID
	Action   data.ActionID
	Center   model.Vec2
	Shape    data.Shape
	Lifespan time.Duration
	Interval time.Duration
	Drain    bool
	Hit      HitPayload
}

// Sensor is a permanent volume following its owner; it only reports
// started/stopped contacts (auras).
type Sensor struct {
	Owner  model.UnitID
	Action data.ActionID
	Level  int32
	Shape  data.Shape
}

// Area is a static trigger volume reporting units walking in and out.
type Area struct {
	Center model.Vec2
	Shape  data.Shape
}

// Obstacle is a static shape units cannot walk into while Solid.
type Obstacle struct {
	Center model.Vec2
	Shape  data.Shape
	Solid  bool
}

// Homing makes a volume fly toward Target once Delay has elapsed.
type Homing struct {
	Target model.UnitID
	Delay  time.Duration
	Speed  float64
}

// Volume — заспавненный объём в физическом мире.
type Volume struct {
	ID     VolumeID
	Kind   VolumeKind
	Owner  model.UnitID
	Action data.ActionID
	Level  int32

	Shape     data.Shape
	Position  model.Vec2
	Facing    model.Vec2
	Velocity  model.Vec2
	Offset    float64
	Follow    bool
	Remaining time.Duration
	Permanent bool

	Hit    HitPayload
	HookTo *model.Vec2
	Homing *Homing
	Drain  bool

	interval time.Duration
	cooldown time.Duration
	contacts map[model.UnitID]struct{}
}

// Harmful reports whether contacts with the volume produce hits.
func (v *Volume) Harmful() bool {
	return v.Kind != VolumeSensor && v.Kind != VolumeArea
}

// Collision is a started/stopped contact notification between a volume and a unit.
type Collision struct {
	Volume  VolumeID
	Unit    model.UnitID
	Started bool
}

// Physics — минимальная физика: интеграция движения юнитов, жизненный цикл
// объёмов и уведомления о контактах. Стоит на месте внешнего физического движка.
type Physics struct {
	world     *World
	volumes   map[VolumeID]*Volume
	order     []VolumeID
	disabled  map[model.UnitID]bool
	pending   []Collision
	obstacles map[VolumeID]*Obstacle
}

// NewPhysics creates physics bound to w.
func NewPhysics(w *World) *Physics {
	return &Physics{
		world:     w,
		volumes:   make(map[VolumeID]*Volume),
		disabled:  make(map[model.UnitID]bool),
		obstacles: make(map[VolumeID]*Obstacle),
	}
}

func (p *Physics) add(v *Volume) VolumeID {
	v.ID = p.world.ids.NextVolumeID()
	v.contacts = make(map[model.UnitID]struct{})
	if v.Facing.IsZero() {
		v.Facing = model.V(1, 0)
	}
	p.volumes[v.ID] = v
	p.order = append(p.order, v.ID)
	return v.ID
}

// SpawnMelee spawns a melee hit-volume.
func (p *Physics) SpawnMelee(m Melee) VolumeID {
	facing := m.Facing.Normalize()
	return p.add(&Volume{
		Kind:      VolumeMelee,
		Owner:     m.Owner,
		Action:    m.Action,
		Shape:     m.Shape,
		Position:  m.Origin.Add(facing.Scale(m.Offset * data.Scale)),
		Facing:    facing,
		Offset:    m.Offset,
		Follow:    m.Follow,
		Remaining: m.Lifespan,
		Hit:       m.Hit,
	})
}

// SpawnProjectile spawns a projectile.
func (p *Physics) SpawnProjectile(pr Projectile) VolumeID {
	id := p.SpawnMelee(pr.Melee)
	v := p.volumes[id]
	v.Kind = VolumeProjectile
	v.Follow = false
	v.Velocity = pr.Velocity
	if !pr.Velocity.IsZero() {
		v.Facing = pr.Velocity.Normalize()
	}
	return id
}

// SpawnZone spawns a lingering area.
func (p *Physics) SpawnZone(z Zone) VolumeID {
	return p.add(&Volume{
		Kind:      VolumeZone,
		Owner:     z.Owner,
		Action:    z.Action,
		Shape:     z.Shape,
		Position:  z.Center,
		Remaining: z.Lifespan,
		Hit:       z.Hit,
		Drain:     z.Drain,
		interval:  z.Interval,
	})
}

// AttachSensor attaches a permanent sensor to its owner.
func (p *Physics) AttachSensor(s Sensor) VolumeID {
	pos := model.Vec2{}
	if u, ok := p.world.Unit(s.Owner); ok {
		pos = u.Position
	}
	return p.add(&Volume{
		Kind:      VolumeSensor,
		Owner:     s.Owner,
		Action:    s.Action,
		Level:     s.Level,
		Shape:     s.Shape,
		Position:  pos,
		Follow:    true,
		Permanent: true,
	})
}

// SpawnArea places a permanent trigger area.
func (p *Physics) SpawnArea(a Area) VolumeID {
	return p.add(&Volume{
		Kind:      VolumeArea,
		Shape:     a.Shape,
		Position:  a.Center,
		Permanent: true,
	})
}

// AddObstacle places a blocker.
func (p *Physics) AddObstacle(o Obstacle) VolumeID {
	id := p.world.ids.NextVolumeID()
	p.obstacles[id] = &o
	return id
}

// SetSolid switches a blocker on or off. Reports whether it exists.
func (p *Physics) SetSolid(id VolumeID, solid bool) bool {
	o, ok := p.obstacles[id]
	if !ok {
		return false
	}
	o.Solid = solid
	slog.Debug("obstacle changed", "obstacle", id, "solid", solid)
	return true
}

// Obstacle returns a blocker.
func (p *Physics) Obstacle(id VolumeID) (Obstacle, bool) {
	o, ok := p.obstacles[id]
	if !ok {
		return Obstacle{}, false
	}
	return *o, true
}

// blocked reports whether a unit body at pos overlaps a solid obstacle.
func (p *Physics) blocked(pos model.Vec2) bool {
	for _, o := range p.obstacles {
		if o.Solid && Overlaps(o.Shape, o.Center, model.V(1, 0), pos, UnitRadius) {
			return true
		}
	}
	return false
}

// AttachHook makes the volume pull its victim toward target on hit.
func (p *Physics) AttachHook(id VolumeID, target model.Vec2) bool {
	v, ok := p.volumes[id]
	if !ok {
		return false
	}
	v.HookTo = &target
	return true
}

// AttachHoming makes the volume chase a unit after a delay.
func (p *Physics) AttachHoming(id VolumeID, h Homing) bool {
	v, ok := p.volumes[id]
	if !ok {
		return false
	}
	v.Homing = &h
	return true
}

// SetLevel records the skill level of the volume owner.
func (p *Physics) SetLevel(id VolumeID, level int32) {
	if v, ok := p.volumes[id]; ok {
		v.Level = level
	}
}

// Volume returns a live volume.
func (p *Physics) Volume(id VolumeID) (*Volume, bool) {
	v, ok := p.volumes[id]
	return v, ok
}

// Volumes returns live volumes in spawn order.
func (p *Physics) Volumes() []*Volume {
	out := make([]*Volume, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.volumes[id])
	}
	return out
}

// Count returns the number of live volumes.
func (p *Physics) Count() int { return len(p.volumes) }

// Despawn removes a volume, reporting stopped contacts on the next step.
func (p *Physics) Despawn(id VolumeID) {
	v, ok := p.volumes[id]
	if !ok {
		return
	}
	for _, u := range sortedContacts(v) {
		p.pending = append(p.pending, Collision{Volume: id, Unit: u, Started: false})
	}
	p.remove(id)
}

func (p *Physics) remove(id VolumeID) {
	delete(p.volumes, id)
	if i := slices.Index(p.order, id); i >= 0 {
		p.order = slices.Delete(p.order, i, i+1)
	}
}

// Disable makes a unit non-interactive: it stops colliding and loses its sensors.
func (p *Physics) Disable(unit model.UnitID) {
	if p.disabled[unit] {
		return
	}
	p.disabled[unit] = true
	for _, id := range slices.Clone(p.order) {
		v := p.volumes[id]
		if v.Kind == VolumeSensor && v.Owner == unit {
			p.Despawn(id)
			continue
		}
		if _, touching := v.contacts[unit]; touching {
			delete(v.contacts, unit)
			p.pending = append(p.pending, Collision{Volume: id, Unit: unit, Started: false})
		}
	}
	slog.Debug("unit collision disabled", "unit", unit)
}

// Enabled reports whether the unit takes part in collisions.
func (p *Physics) Enabled(unit model.UnitID) bool { return !p.disabled[unit] }

// Step integrates unit movement, ages and moves volumes and returns contact
// notifications produced by this step.
func (p *Physics) Step(dt time.Duration) []Collision {
	out := p.pending
	p.pending = nil

	p.moveUnits(dt)

	for _, id := range slices.Clone(p.order) {
		v, ok := p.volumes[id]
		if !ok {
			continue
		}
		if !v.Permanent {
			v.Remaining -= dt
			if v.Remaining <= 0 {
				for _, u := range sortedContacts(v) {
					out = append(out, Collision{Volume: id, Unit: u, Started: false})
				}
				p.remove(id)
				continue
			}
		}
		if !p.moveVolume(v, dt) {
			for _, u := range sortedContacts(v) {
				out = append(out, Collision{Volume: id, Unit: u, Started: false})
			}
			p.remove(id)
			continue
		}
		out = p.contacts(v, dt, out)
	}
	return out
}

func (p *Physics) moveUnits(dt time.Duration) {
	secs := dt.Seconds()
	for _, u := range p.world.Units() {
		vel := u.Movement.Velocity()
		kept := u.Pushes[:0]
		for _, push := range u.Pushes {
			vel = vel.Add(push.Velocity)
			push.Remaining -= dt
			if push.Remaining > 0 {
				kept = append(kept, push)
			}
		}
		u.Pushes = kept
		if u.Hook != nil {
			vel = u.Hook.To.Sub(u.Hook.From).Scale(1 / data.HookDuration.Seconds())
			u.Hook.Remaining -= dt
			if u.Hook.Remaining <= 0 {
				u.Hook = nil
			}
		}
		if vel.IsZero() {
			continue
		}
		// a unit already inside a blocker may walk out of it
		next := u.Position.Add(vel.Scale(secs))
		if p.blocked(next) && !p.blocked(u.Position) {
			continue
		}
		u.Position = next
	}
	p.world.Reindex()
}

// moveVolume reports false when the volume lost its anchor and must go.
func (p *Physics) moveVolume(v *Volume, dt time.Duration) bool {
	if v.Follow {
		owner, ok := p.world.Unit(v.Owner)
		if !ok {
			return false
		}
		if v.Kind == VolumeMelee && !owner.Movement.Face.IsZero() {
			v.Facing = owner.Movement.Face.Normalize()
		}
		v.Position = owner.Position.Add(v.Facing.Scale(v.Offset * data.Scale))
		return true
	}
	if v.Homing != nil {
		v.Homing.Delay -= dt
		if v.Homing.Delay <= 0 {
			if target, ok := p.world.Unit(v.Homing.Target); ok && target.IsAlive() {
				v.Velocity = target.Position.Sub(v.Position).Normalize().Scale(v.Homing.Speed)
			}
		}
	}
	if !v.Velocity.IsZero() {
		v.Position = v.Position.Add(v.Velocity.Scale(dt.Seconds()))
		v.Facing = v.Velocity.Normalize()
	}
	return true
}

func (p *Physics) contacts(v *Volume, dt time.Duration, out []Collision) []Collision {
	if v.Kind == VolumeZone {
		v.cooldown -= dt
		if v.cooldown <= 0 {
			clear(v.contacts)
			v.cooldown += v.interval
		}
	}

	current := make(map[model.UnitID]struct{})
	consumed := false
	p.world.InRadius(v.Position, boundingRadius(v.Shape)+UnitRadius, func(u *model.Unit) bool {
		if u.ID == v.Owner || p.disabled[u.ID] || !Overlaps(v.Shape, v.Position, v.Facing, u.Position, UnitRadius) {
			return true
		}
		current[u.ID] = struct{}{}
		if _, known := v.contacts[u.ID]; known {
			return true
		}
		v.contacts[u.ID] = struct{}{}
		out = append(out, Collision{Volume: v.ID, Unit: u.ID, Started: true})
		if v.Kind == VolumeProjectile && u.Team() == v.Hit.TargetTeam {
			consumed = true
			return false
		}
		return true
	})
	if consumed {
		// the collision above still references the volume; drop it next step
		v.Remaining = 0
		v.Velocity = model.Vec2{}
		v.Homing = nil
		return out
	}
	for _, u := range sortedContacts(v) {
		if _, still := current[u]; !still {
			delete(v.contacts, u)
			out = append(out, Collision{Volume: v.ID, Unit: u, Started: false})
		}
	}
	return out
}

func sortedContacts(v *Volume) []model.UnitID {
	ids := make([]model.UnitID, 0, len(v.contacts))
	for id := range v.contacts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func boundingRadius(s data.Shape) float64 {
	if s.Kind == data.ShapeBall {
		return s.Radius * data.Scale
	}
	return (s.HalfX + s.HalfY) * data.Scale
}

// Overlaps tests a volume shape (metres) at pos, oriented along facing, against
// a circle of radius r (world units) at point.
func Overlaps(s data.Shape, pos, facing, point model.Vec2, r float64) bool {
	d := point.Sub(pos)
	if s.Kind == data.ShapeBall {
		reach := s.Radius*data.Scale + r
		return d.LenSq() <= reach*reach
	}
	f := facing.Normalize()
	if f.IsZero() {
		f = model.V(1, 0)
	}
	lx, ly := d.Dot(f), d.Dot(f.Perp())
	hx, hy := s.HalfX*data.Scale, s.HalfY*data.Scale
	cx := max(-hx, min(hx, lx))
	cy := max(-hy, min(hy, ly))
	dx, dy := lx-cx, ly-cy
	return dx*dx+dy*dy <= r*r
}
