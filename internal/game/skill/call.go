package skill

import (
	"math"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/action"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

// call — контекст одного вызова обработчика.
type call struct {
	d     *Dispatcher
	ev    action.Event
	unit  *model.Unit
	desc  data.ActionDescriptor
	skill *model.SkillRecord // nil for actions that are not learned skills
}

func (c *call) level() int32 { return c.ev.Level }

func (c *call) stop() {
	c.unit.Movement.Speed = 0
	c.unit.Movement.Direction = model.Vec2{}
}

func (c *call) animate(name string) {
	c.d.anim.ChangeAnimation(c.unit.ID, name)
}

// aim resolves the direction the action points to from the command snapshot:
// explicit direction, then target unit, then target position, then facing.
func (c *call) aim() model.Vec2 {
	cmd := c.ev.Command
	pos := c.unit.Position
	switch {
	case cmd.HasDirection && !cmd.Direction.IsZero():
		return cmd.Direction.Normalize()
	case cmd.HasTarget():
		if t, ok := c.d.units.Unit(cmd.Target); ok {
			if dir := t.Position.Sub(pos); !dir.IsZero() {
				return dir.Normalize()
			}
		}
	case cmd.HasPosition:
		if dir := cmd.Position.Sub(pos); !dir.IsZero() {
			return dir.Normalize()
		}
	}
	if face := c.unit.Movement.Face; !face.IsZero() {
		return face.Normalize()
	}
	return model.V(1, 0)
}

// face turns the unit toward aim() and returns the facing.
func (c *call) face() model.Vec2 {
	f := c.aim()
	c.unit.Movement.Face = f
	return f
}

// targetPoint is the point the command refers to, falling back to the caster.
func (c *call) targetPoint() model.Vec2 {
	cmd := c.ev.Command
	if cmd.HasPosition {
		return cmd.Position
	}
	if cmd.HasTarget() {
		if t, ok := c.d.units.Unit(cmd.Target); ok {
			return t.Position
		}
	}
	return c.unit.Position
}

func (c *call) payload() world.HitPayload {
	h := c.desc.Hit
	return world.HitPayload{
		Damage:     h.Damage.Get(c.level()),
		HitStun:    h.HitStun,
		Knockback:  h.Knockback,
		TargetTeam: c.unit.Team().EnemyTarget(),
	}
}

func (c *call) melee(origin, facing model.Vec2, offset float64, follow bool) world.VolumeID {
	h := c.desc.Hit
	return c.d.spawner.SpawnMelee(world.Melee{
		Owner:    c.unit.ID,
		Action:   c.ev.Action,
		Origin:   origin,
		Facing:   facing,
		Offset:   offset,
		Shape:    h.Shape,
		Lifespan: h.Lifespan,
		Follow:   follow,
		Hit:      c.payload(),
	})
}

// projectile spawns a projectile Offset metres from the caster along dir,
// flying at Hit.Speed metres per second (scaled by speedFactor).
func (c *call) projectile(dir model.Vec2, speedFactor float64) world.VolumeID {
	h := c.desc.Hit
	dir = dir.Normalize()
	return c.d.spawner.SpawnProjectile(world.Projectile{
		Melee: world.Melee{
			Owner:    c.unit.ID,
			Action:   c.ev.Action,
			Origin:   c.unit.Position,
			Facing:   dir,
			Offset:   h.Offset,
			Shape:    h.Shape,
			Lifespan: h.Lifespan,
			Hit:      c.payload(),
		},
		Velocity: dir.Scale(h.Speed * data.Scale * speedFactor),
	})
}

// nearestEnemy returns the closest living enemy within radius world units.
func (c *call) nearestEnemy(radius float64) (model.UnitID, bool) {
	var (
		best   model.UnitID
		bestSq = math.Inf(1)
	)
	c.d.units.InRadius(c.unit.Position, radius, func(u *model.Unit) bool {
		if u.ID == c.unit.ID || !u.IsAlive() || !c.unit.Team().IsEnemy(u.Team()) {
			return true
		}
		if d := u.Position.DistSq(c.unit.Position); d < bestSq || (d == bestSq && u.ID < best) {
			best, bestSq = u.ID, d
		}
		return true
	})
	return best, best != 0
}
