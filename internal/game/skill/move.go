package skill

import (
	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/world"
)

// ArriveDistanceSq is the squared distance (world units) at which MoveTo
// considers its target position reached.
const ArriveDistanceSq = 100.0

func init() {
	register(data.BehaviorMoveTo, hooks{
		enter:        enterMoveTo,
		activeUpdate: updateMoveTo,
		exit:         func(c *call) { c.stop() },
	})
}

func enterMoveTo(c *call) {
	c.unit.Movement.Speed = c.unit.Record.MovementSpeed
	c.animate(world.AnimMove)
}

// updateMoveTo steers toward the command position every tick and completes
// the command on arrival.
func updateMoveTo(c *call) {
	cmd := c.ev.Command
	if !cmd.HasPosition {
		return
	}
	dir := cmd.Position.Sub(c.unit.Position)
	if dir.LenSq() > ArriveDistanceSq {
		c.unit.Movement.Face = dir.Normalize()
		c.unit.Movement.Direction = dir
		c.unit.Movement.Speed = c.unit.Record.MovementSpeed
		return
	}
	c.stop()
	c.d.complete(c.unit, cmd)
}
