package collision

import (
	"github.com/milk9111/collider/common"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
)

func (c *Context) resolveChrChr(w *ecs.World, cand Candidate) {
	a, b := w.Character(cand.A), w.Character(cand.B)
	if !a.Active() || !b.Active() {
		return
	}
	if inert(a) || inert(b) || a.AttachedTo.Valid() || b.AttachedTo.Valid() {
		return
	}
	if !a.HasBump() || !b.HasBump() {
		return
	}

	strength := c.interactionStrength(cand.A, a, cand.B, b)
	if strength <= 0 {
		return
	}

	zWeight := float32(1)
	if (a.Platform && b.CanUsePlatforms) || (b.Platform && a.CanUsePlatforms) {
		zWeight += c.tuning.PlatformExponent
	}

	ov, ok := c.estimate(a.BumpBox(), a.Vel, b.BumpBox(), b.Vel, cand.TMin, cand.TMax, zWeight)
	if !ok {
		return
	}

	ra, rb, ok := RecoilFactors(CharacterMass(a), CharacterMass(b))
	if !ok {
		return
	}

	// positive while a closes on b
	vn := a.Vel.Sub(b.Vel).Dot(ov.normal)

	if ov.collision {
		if vn <= 0 {
			return
		}
		e := common.Clamp(min(a.Dampen, b.Dampen), 0, 1)
		imp := ov.normal.Mul(vn * (1 + e) * strength)
		a.Accum.AddVelocity(imp.Mul(-ra))
		b.Accum.AddVelocity(imp.Mul(rb))
		c.bumped(w, cand.A, a, cand.B, b)
		return
	}

	push := ov.normal.Mul(ov.depth * c.tuning.PressureStrength * strength)
	a.Accum.AddCollision(push.Mul(-ra))
	b.Accum.AddCollision(push.Mul(rb))
	if vn > 0 {
		damp := ov.normal.Mul(vn * strength)
		a.Accum.AddVelocity(damp.Mul(-ra))
		b.Accum.AddVelocity(damp.Mul(rb))
	}
	c.stats.Pressures++
}

// inert items lie around and do not push or get pushed.
func inert(ch *component.Character) bool {
	return ch.IsItem && !ch.Platform && !ch.IsMount
}

// interactionStrength is how hard two characters push each other, in [0,1].
func (c *Context) interactionStrength(ea ecs.Entity, a *component.Character, eb ecs.Entity, b *component.Character) float32 {
	s := common.Clamp(a.Opacity, 0, 1) * common.Clamp(b.Opacity, 0, 1)

	if grace := c.tuning.DismountTicks; grace > 0 {
		if a.DismountTimer > 0 && a.DismountObject == eb {
			s *= 1 - common.Clamp(float32(a.DismountTimer)/float32(grace), 0, 1)
		}
		if b.DismountTimer > 0 && b.DismountObject == ea {
			s *= 1 - common.Clamp(float32(b.DismountTimer)/float32(grace), 0, 1)
		}
	}

	if (a.IsMount && b.CanRide) || (b.IsMount && a.CanRide) {
		s *= c.tuning.MountStrength
	}
	if a.OnPlatform == eb || b.OnPlatform == ea {
		s *= c.tuning.PlatformStrength
	}
	return s
}

func (c *Context) bumped(w *ecs.World, ea ecs.Entity, a *component.Character, eb ecs.Entity, b *component.Character) {
	a.AI.Alerts.Set(component.AlertBumped)
	a.AI.LastBumpedBy = eb
	b.AI.Alerts.Set(component.AlertBumped)
	b.AI.LastBumpedBy = ea
	w.Events().PushCollision(ecs.CollisionEvent{Entity: ea, Other: eb, Kind: ecs.CollisionEventBumped})
	c.stats.Bumps++
}
