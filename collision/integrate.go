package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/collider/common"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
	"github.com/milk9111/collider/geom"
)

// integrate applies and clears every accumulator.
func (c *Context) integrate(w *ecs.World) {
	for _, e := range w.Characters() {
		ch := w.Character(e)
		if ch == nil {
			continue
		}
		if ch.Active() && !ch.Accum.IsZero() {
			c.applyBody(&ch.Pos, &ch.Vel, ch.Bump, &ch.Accum, ch.EffectiveFloor(), ch.Dampen)
			c.stats.Integrated++
		}
		ch.Accum.Reset()
	}
	for _, e := range w.Particles() {
		p := w.Particle(e)
		if p == nil {
			continue
		}
		if p.Active() && !p.Accum.IsZero() {
			c.applyBody(&p.Pos, &p.Vel, p.MaxBump, &p.Accum, math32.Inf(-1), p.Dampen)
			c.stats.Integrated++
		}
		p.Accum.Reset()
	}
}

// applyBody moves one body axis by axis, keeping only the axes that do not
// run it into a wall.
func (c *Context) applyBody(pos, vel *mgl32.Vec3, bump geom.AABB, acc *component.PhysicsAccumulator, floor, dampen float32) {
	*vel = vel.Add(acc.DVel)

	d := acc.Position()
	limit := c.tuning.MaxCorrection
	next := *pos
	for i := 0; i < 3; i++ {
		step := common.Clamp(d[i], -limit, limit)
		if step == 0 {
			continue
		}
		trial := next
		trial[i] += step
		if c.walls != nil && c.walls.TestWall(bump.Translate(trial)) != 0 {
			continue
		}
		next = trial
	}

	if d.Z() < 0 && next.Z() < floor {
		next[2] = floor
		if vel.Z() < 0 {
			vel[2] = -vel.Z() * common.Clamp(dampen, 0, 1)
		}
	}
	*pos = next
}
