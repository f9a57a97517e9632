package skill

import (
	"math"
	"time"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/world"
)

// SummonSeekRadius is how far (world units) a summoned drone looks for prey.
const SummonSeekRadius = 10 * data.Scale

func init() {
	register(data.BehaviorProjectile, hooks{learned: true, enter: enterCast(world.AnimCast), enterActive: fireProjectile})
	register(data.BehaviorNova, hooks{learned: true, enter: enterCast(world.AnimIdle), enterActive: fireNova})
	register(data.BehaviorSummon, hooks{learned: true, enter: enterCast(world.AnimCast), enterActive: fireSummon})
	register(data.BehaviorHook, hooks{learned: true, enter: enterCast(world.AnimHook), enterActive: fireHook})
	register(data.BehaviorBurstFire, hooks{
		learned:      true,
		enter:        enterCast(world.AnimBurstFire),
		enterActive:  startBurst,
		activeUpdate: updateBurst,
	})
}

func fireProjectile(c *call) {
	c.projectile(c.unit.Movement.Face, 1)
}

// fireNova fires Hit.Count projectiles evenly spread around the caster.
func fireNova(c *call) {
	n := max(c.desc.Hit.Count, 1)
	face := c.unit.Movement.Face
	for i := range n {
		c.projectile(face.Rotate(2*math.Pi*float64(i)/float64(n)), 1)
	}
}

// fireSummon releases a slow drone that seeks the nearest enemy.
func fireSummon(c *call) {
	id := c.projectile(c.unit.Movement.Face, 1)
	if target, ok := c.nearestEnemy(SummonSeekRadius); ok {
		c.d.spawner.AttachHoming(id, world.Homing{Target: target, Speed: c.desc.Hit.Speed * data.Scale})
	}
}

// fireHook throws a projectile that pulls its victim back to the caster.
func fireHook(c *call) {
	id := c.projectile(c.unit.Movement.Face, 1)
	c.d.spawner.AttachHook(id, c.unit.Position)
}

// startBurst fires the first shot and resets the burst counters.
func startBurst(c *call) {
	c.skill.ResetCounters()
	c.skill.Stage = 1
	c.projectile(c.unit.Movement.Face, 1)
}

// updateBurst spreads the remaining shots evenly over the active window.
func updateBurst(c *call) {
	count := c.desc.Hit.Count
	active, ok := c.desc.Active.Get()
	if !ok || count <= 1 {
		return
	}
	interval := active / time.Duration(count)
	c.skill.Timer += c.d.dt
	for c.skill.Stage < count && c.skill.Timer >= interval*time.Duration(c.skill.Stage) {
		c.skill.Stage++
		c.projectile(c.unit.Movement.Face, 1)
	}
}
