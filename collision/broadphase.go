package collision

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
	"github.com/milk9111/collider/geom"
)

func (c *Context) broadPhase(w *ecs.World) {
	tol := mgl32.Vec3{0, 0, c.tuning.PlatformTolerance}

	for _, ea := range w.ActiveCharacters() {
		a := w.Character(ea)
		swept := a.BumpBox().Swept(a.Vel)
		query := geom.AABB{Min: swept.Min.Sub(tol), Max: swept.Max.Add(tol)}
		c.leaves = c.index.Query(query, LeafCharacters|LeafParticles, c.leaves[:0])
		for _, leaf := range c.leaves {
			switch {
			case leaf.Entity.IsCharacter():
				c.sweepChrChr(w, ea, a, leaf.Entity)
			case leaf.Entity.IsParticle():
				c.sweepChrPrt(w, ea, a, leaf.Entity)
			}
		}
	}

	// lingering particles look for characters on their own
	for _, ep := range w.ActiveParticles() {
		p := w.Particle(ep)
		if !p.Lingering() {
			continue
		}
		c.leaves = c.index.Query(p.HitBox().Swept(p.Vel), LeafCharacters, c.leaves[:0])
		for _, leaf := range c.leaves {
			ch := w.Character(leaf.Entity)
			if !ch.Active() {
				continue
			}
			c.sweepChrPrt(w, leaf.Entity, ch, ep)
		}
	}
}

func (c *Context) sweepChrChr(w *ecs.World, ea ecs.Entity, a *component.Character, eb ecs.Entity) {
	b := w.Character(eb)
	if !c.chrChrValid(ea, a, eb, b) {
		return
	}
	boxA := c.broadBox(a, b)
	boxB := c.broadBox(b, a)
	tmin, tmax, ok := geom.SweepIntersect(boxA, a.Vel, boxB, b.Vel)
	if !ok {
		return
	}
	overlap, _ := boxA.Swept(a.Vel).Intersect(boxB.Swept(b.Vel))
	c.insert(Candidate{A: ea, B: eb, TileB: NoTile, TMin: tmin, TMax: tmax, Overlap: overlap})
}

func (c *Context) sweepChrPrt(w *ecs.World, ea ecs.Entity, a *component.Character, ep ecs.Entity) {
	p := w.Particle(ep)
	if !chrPrtValid(ea, a, p) {
		return
	}
	boxA := a.BumpBox()
	boxP := p.HitBox()
	tmin, tmax, ok := geom.SweepIntersect(boxA, a.Vel, boxP, p.Vel)
	if !ok {
		return
	}
	overlap, _ := boxA.Swept(a.Vel).Intersect(boxP.Swept(p.Vel))
	c.insert(Candidate{A: ea, B: ep, TileB: NoTile, TMin: tmin, TMax: tmax, Overlap: overlap})
}

// broadBox stretches a platform's box up by the platform tolerance when the
// other side could stand on it, so resting riders still produce a pair.
func (c *Context) broadBox(ch, other *component.Character) geom.AABB {
	box := ch.BumpBox()
	if ch.Platform && other.CanUsePlatforms {
		box.Max[2] += c.tuning.PlatformTolerance
	}
	return box
}

func (c *Context) chrChrValid(ea ecs.Entity, a *component.Character, eb ecs.Entity, b *component.Character) bool {
	if ea == eb || !a.Active() || !b.Active() {
		return false
	}
	if a.AttachedTo == eb || b.AttachedTo == ea {
		return false
	}
	if c.ghosted(a, eb) || c.ghosted(b, ea) {
		return false
	}
	if !a.HasBump() && !b.HasBump() && !a.Platform && !b.Platform {
		return false
	}
	return true
}

func chrPrtValid(ea ecs.Entity, a *component.Character, p *component.Particle) bool {
	if !a.Active() || !p.Active() {
		return false
	}
	if p.AttachedTo == ea {
		return false
	}
	return p.HasBump()
}

// ghosted is the first half of the dismount grace, during which rider and
// mount pass through each other. The second half fades the push back in.
func (c *Context) ghosted(rider *component.Character, mount ecs.Entity) bool {
	return rider.DismountTimer > 0 && rider.DismountObject == mount && rider.DismountTimer*2 > c.tuning.DismountTicks
}
