package skill

import (
	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/world"
)

func init() {
	register(data.BehaviorMelee, hooks{learned: true, enter: enterCast(world.AnimAttack), enterActive: strikeMelee})
	register(data.BehaviorDash, hooks{
		learned:     true,
		enter:       enterCast(world.AnimStab),
		enterActive: strikeDash,
		exitActive:  func(c *call) { c.stop() },
	})
	register(data.BehaviorBlast, hooks{learned: true, enter: enterCast(world.AnimCast), enterActive: strikeBlast})
}

// enterCast roots the caster, turns it toward the target and plays anim.
func enterCast(anim string) func(c *call) {
	return func(c *call) {
		c.stop()
		c.face()
		c.animate(anim)
	}
}

// strikeMelee places a hit-volume in front of the caster that follows it.
func strikeMelee(c *call) {
	c.melee(c.unit.Position, c.unit.Movement.Face, c.desc.Hit.Offset, true)
}

// strikeDash launches the caster forward while its hit-volume travels along.
func strikeDash(c *call) {
	face := c.unit.Movement.Face
	c.unit.Movement.Direction = face
	c.unit.Movement.Speed = c.unit.Record.MovementSpeed * c.desc.Hit.DashSpeed
	c.melee(c.unit.Position, face, c.desc.Hit.Offset, true)
}

// strikeBlast detonates at the command point.
func strikeBlast(c *call) {
	c.melee(c.targetPoint(), c.unit.Movement.Face, 0, false)
}
