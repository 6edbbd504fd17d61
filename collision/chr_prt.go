package collision

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/collider/common"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
	"github.com/milk9111/collider/geom"
)

// ParticleHit is the working state of one character/particle contact.
type ParticleHit struct {
	Character ecs.Entity
	Particle  ecs.Entity
	Owner     ecs.Entity

	// Normal points from the character toward the particle.
	Normal    mgl32.Vec3
	DepthMin  float32
	DepthMax  float32
	HitMin    bool
	HitMax    bool
	Collision bool

	VDiff mgl32.Vec3
	VPara mgl32.Vec3
	VPerp mgl32.Vec3

	Damage      component.DamageRange
	MaxDamage   float32
	Dealt       float32
	BlockFactor float32

	Impulse  mgl32.Vec3
	Pressure mgl32.Vec3

	RecoilChr float32
	RecoilPrt float32

	Damages   bool
	Deflected bool
	Bumps     bool
	Terminate bool
}

func (c *Context) resolveChrPrt(w *ecs.World, hooks Hooks, cand Candidate) {
	chrE, prtE := cand.A, cand.B
	if chrE.IsParticle() {
		chrE, prtE = prtE, chrE
	}
	chr, prt := w.Character(chrE), w.Particle(prtE)
	if chr == nil || prt == nil || !prt.Active() {
		return
	}
	if prt.AttachedTo == chrE || !chr.Alive || chr.Packed {
		return
	}

	hit, ok := c.measureHit(w, chrE, chr, prtE, prt, cand)
	if !ok {
		return
	}

	c.deflect(w, hooks, &hit, chr, prt)
	if !hit.Deflected {
		hit.Bumps = c.particleBumps(w, chrE, chr, prtE, prt)
	}
	if hit.Bumps && hit.HitMin {
		c.damage(w, hooks, &hit, chr, prt)
	}
	c.terminal(hooks, &hit, chr, prt)
	if prt.AllowPush {
		c.impulse(&hit)
	}
	c.recoil(w, &hit, chr, prt)

	if hit.Terminate {
		hooks.TerminateParticle(prtE)
		c.stats.Terminations++
	}
}

// measureHit estimates both particle volumes against the character and
// decomposes the relative velocity along the contact normal.
func (c *Context) measureHit(w *ecs.World, chrE ecs.Entity, chr *component.Character, prtE ecs.Entity, prt *component.Particle, cand Candidate) (ParticleHit, bool) {
	hit := ParticleHit{Character: chrE, Particle: prtE, Owner: c.particleOwner(w, prtE)}
	box := chr.BumpBox()

	var inner, outer overlap
	if !prt.MinBump.FlatXY() {
		inner, hit.HitMin = c.estimate(box, chr.Vel, prt.MinBump.Translate(prt.Pos), prt.Vel, cand.TMin, cand.TMax, 1)
		hit.DepthMin = inner.depth
	}
	if !prt.MaxBump.FlatXY() {
		outer, hit.HitMax = c.estimate(box, chr.Vel, prt.MaxBump.Translate(prt.Pos), prt.Vel, cand.TMin, cand.TMax, 1)
		hit.DepthMax = outer.depth
	}
	switch {
	case hit.HitMin:
		hit.Normal, hit.Collision = inner.normal, inner.collision
	case hit.HitMax:
		hit.Normal, hit.Collision = outer.normal, outer.collision
	default:
		return hit, false
	}

	hit.VDiff = prt.Vel.Sub(chr.Vel)
	hit.VPerp = hit.Normal.Mul(hit.VDiff.Dot(hit.Normal))
	hit.VPara = hit.VDiff.Sub(hit.VPerp)

	var ok bool
	hit.RecoilChr, hit.RecoilPrt, ok = RecoilFactors(CharacterMass(chr), ParticleMass(prt))
	if !ok {
		hit.RecoilChr, hit.RecoilPrt = 0, 0
	}
	return hit, true
}

// deflect handles shields facing the hit and magical missile treatment.
func (c *Context) deflect(w *ecs.World, hooks Hooks, hit *ParticleHit, chr *component.Character, prt *component.Particle) {
	if hit.Owner == hit.Character {
		return
	}
	damaging := prt.Damage.Max() > 0
	blocked := chr.Block.Active && damaging &&
		geom.WithinArc(chr.Facing, prt.Pos.Sub(chr.Pos), chr.Block.Arc)
	treated := prt.Missile && chr.Missile != component.MissileNormal

	if !blocked && !treated {
		return
	}
	if treated && !blocked {
		payer := chr.MissileHandler
		if w.Character(payer) == nil {
			payer = hit.Character
		}
		if !hooks.SpendMana(payer, chr.MissileCost) {
			return
		}
	}

	vel := prt.Vel
	if treated && !blocked && chr.Missile == component.MissileReflect {
		vel = prt.Vel.Mul(-1)
		prt.Owner = hit.Character
		prt.Team = chr.Team
	} else if vn := hit.VDiff.Dot(hit.Normal); vn < 0 {
		vel = prt.Vel.Sub(hit.Normal.Mul(2 * vn))
	}
	prt.Accum.AddVelocity(vel.Sub(prt.Vel))

	hit.Deflected = true
	chr.AI.Alerts.Set(component.AlertBlocked)
	w.Events().PushCollision(ecs.CollisionEvent{Entity: hit.Character, Other: hit.Particle, Kind: ecs.CollisionEventDeflected})
	c.stats.Deflections++
}

func (c *Context) damage(w *ecs.World, hooks Hooks, hit *ParticleHit, chr *component.Character, prt *component.Particle) {
	if hit.Deflected || chr.DamageTime > 0 {
		return
	}
	dmg := prt.Damage
	if dmg.Max() <= 0 {
		return
	}

	owner := w.Character(hit.Owner)
	if owner != nil {
		if prt.IntBonus {
			dmg = dmg.Scale(c.scaler.Scale(StatIntelligence, owner.Intelligence))
		}
		if prt.WisBonus {
			dmg = dmg.Scale(c.scaler.Scale(StatWisdom, owner.Wisdom))
		}
	}
	if chr.Vulnerability != "" && chr.Vulnerability == prt.Tag {
		dmg = dmg.Scale(2)
		chr.AI.Alerts.Set(component.AlertHitVulnerable)
	}
	hit.Damage = dmg
	hit.MaxDamage = dmg.Max()

	dir := prt.Vel
	if dir.LenSqr() > 0 {
		dir = dir.Normalize()
	}
	hit.Dealt = hooks.ApplyDamage(hit.Character, component.DamageRequest{
		Amount:    dmg,
		Type:      prt.DamageType,
		Team:      prt.Team,
		Attacker:  hit.Owner,
		Particle:  hit.Particle,
		Direction: dir,
		LifeDrain: prt.LifeDrain,
		ManaDrain: prt.ManaDrain,
	})
	if hit.Dealt <= 0 {
		return
	}

	hit.Damages = true
	c.stats.Hits++
	c.stats.Damage += hit.Dealt
	if owner != nil {
		owner.AI.Alerts.Set(component.AlertScoredHit)
		for _, held := range owner.Holdings {
			if item := w.Character(held); item != nil {
				item.AI.Alerts.Set(component.AlertScoredHit)
			}
		}
	}
}

func (c *Context) terminal(hooks Hooks, hit *ParticleHit, chr *component.Character, prt *component.Particle) {
	if hit.Deflected {
		return
	}
	if prt.Money > 0 && chr.CanGrabMoney && hit.HitMin {
		hooks.GiveMoney(hit.Character, prt.Money)
		hit.Terminate = true
	}
	if prt.EndOnBump && hit.Bumps {
		hit.Terminate = true
	}
	// the particle came down on top of the character
	if prt.EndOnGround && hit.Normal.Z() >= c.tuning.GroundNormal && hit.VDiff.Z() <= 0 {
		hit.Terminate = true
	}
	if prt.DamageType != component.DamageNone && prt.DamageType == chr.ReaffirmType {
		hooks.ReaffirmAttached(hit.Character)
	}
}

// impulse works out the velocity change of the particle relative to the
// character. Blocked damage bounces the particle harder.
func (c *Context) impulse(hit *ParticleHit) {
	if hit.Deflected {
		return
	}
	if hit.MaxDamage > 0 {
		hit.BlockFactor = common.Clamp(hit.Dealt/hit.MaxDamage, 0, 1)
	}
	if hit.VDiff.Dot(hit.Normal) < 0 {
		if hit.Terminate {
			hit.Impulse = hit.VDiff.Mul(-1)
		} else {
			hit.Impulse = hit.VPerp.Mul(-(2 - hit.BlockFactor))
		}
	}

	if hit.Collision || hit.Owner == hit.Character {
		return
	}
	depth := hit.DepthMax
	if hit.HitMin {
		depth = hit.DepthMin
	}
	if depth > 0 {
		hit.Pressure = hit.Normal.Mul(depth * c.tuning.ParticlePressure)
	}
}

func (c *Context) recoil(w *ecs.World, hit *ParticleHit, chr *component.Character, prt *component.Particle) {
	if hit.Impulse != (mgl32.Vec3{}) {
		if !hit.Deflected {
			chr.Accum.AddVelocity(hit.Impulse.Mul(-hit.RecoilChr))
		}
		prt.Accum.AddVelocity(hit.Impulse.Mul(hit.RecoilPrt))
		if weapon := w.Character(prt.AttachedTo); weapon != nil {
			if holder := w.Character(weapon.AttachedTo); holder != nil {
				holder.Accum.AddVelocity(hit.Impulse.Mul(hit.RecoilPrt * c.tuning.HolderRecoil))
			}
		}
	}
	if hit.Pressure != (mgl32.Vec3{}) {
		chr.Accum.AddCollision(hit.Pressure.Mul(-hit.RecoilChr))
		prt.Accum.AddCollision(hit.Pressure.Mul(hit.RecoilPrt))
	}
}
