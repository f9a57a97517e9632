package skill

import (
	"log/slog"
	"math"
	"time"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

// GhostSeekRadius is how far (world units) ghosts look for a target when the
// command names none.
const GhostSeekRadius = 10 * data.Scale

// wave is a set of ghosts released once the channel time left drops to at.
type wave struct {
	at     time.Duration
	angles []float64 // relative to the caster's facing
}

var ghostWaves = []wave{
	{at: 800 * time.Millisecond, angles: []float64{0}},
	{at: 600 * time.Millisecond, angles: []float64{math.Pi / 4, math.Pi * 7 / 4}},
	{at: 400 * time.Millisecond, angles: []float64{math.Pi / 2, math.Pi * 3 / 2}},
	{at: 200 * time.Millisecond, angles: []float64{math.Pi * 3 / 4, math.Pi * 5 / 4}},
	{at: 0, angles: []float64{math.Pi}},
}

func init() {
	register(data.BehaviorChannel, hooks{
		learned:      true,
		enter:        enterCast(world.AnimAttack),
		enterActive:  startChannel,
		activeUpdate: updateChannel,
	})
}

// startChannel arms the channel: Timer counts the time left, Stage the waves released.
func startChannel(c *call) {
	c.skill.ResetCounters()
	c.skill.Timer = c.desc.Duration
	slog.Debug("channel started", "unit", c.unit.ID, "action", c.ev.Action)
}

// updateChannel releases ghost waves on their thresholds. The active phase has
// no timer; after the last wave the handler asks for Idle itself.
func updateChannel(c *call) {
	rec := c.skill
	if rec.Stage > len(ghostWaves) {
		return // Idle already requested
	}
	rec.Timer -= c.d.dt

	for rec.Stage < len(ghostWaves) && rec.Timer <= ghostWaves[rec.Stage].at {
		target := c.ghostTarget()
		for _, angle := range ghostWaves[rec.Stage].angles {
			c.spawnGhost(angle, target)
		}
		rec.Stage++
	}

	if rec.Stage == len(ghostWaves) {
		rec.Stage++
		c.d.request(c.unit, data.ActionIdle, model.IdleCommand())
		slog.Debug("channel finished", "unit", c.unit.ID, "action", c.ev.Action)
	}
}

func (c *call) ghostTarget() model.UnitID {
	if t := c.ev.Command.Target; t != 0 {
		return t
	}
	id, _ := c.nearestEnemy(GhostSeekRadius)
	return id
}

// spawnGhost places a resting ghost next to the caster that homes on target
// once Hit.Homing has elapsed.
func (c *call) spawnGhost(angle float64, target model.UnitID) {
	h := c.desc.Hit
	dir := c.unit.Movement.Face.Rotate(angle)
	id := c.d.spawner.SpawnProjectile(world.Projectile{
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
	})
	if target != 0 {
		c.d.spawner.AttachHoming(id, world.Homing{Target: target, Delay: h.Homing, Speed: h.Speed * data.Scale})
	}
}
