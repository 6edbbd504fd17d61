package collision

import (
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
)

// BumpRule is everything the friend/foe decision looks at.
type BumpRule struct {
	Hates              bool
	Belongs            bool
	ParticleTeam       component.TeamID
	CharacterTeam      component.TeamID
	OnlyDamageFriendly bool
	FriendlyFire       bool
	HateOnly           bool
}

// Bumps decides whether a particle interacts with a character at all.
func (r BumpRule) Bumps() bool {
	if r.HateOnly && !r.Hates {
		return false
	}
	mayDamage := r.Hates || (r.CharacterTeam != component.TeamNull && r.ParticleTeam == component.TeamNull)
	onlyFriendly := (r.OnlyDamageFriendly && r.ParticleTeam == r.CharacterTeam) || (!r.OnlyDamageFriendly && mayDamage)
	friendlyFire := r.FriendlyFire && !r.Hates && !r.Belongs
	return friendlyFire || onlyFriendly
}

func (c *Context) particleBumps(w *ecs.World, chrE ecs.Entity, chr *component.Character, prtE ecs.Entity, prt *component.Particle) bool {
	return BumpRule{
		Hates:              w.Teams().Hates(prt.Team, chr.Team),
		Belongs:            c.belongsTo(w, prtE, chrE),
		ParticleTeam:       prt.Team,
		CharacterTeam:      chr.Team,
		OnlyDamageFriendly: prt.OnlyDamageFriendly,
		FriendlyFire:       prt.FriendlyFire,
		HateOnly:           prt.HateOnly,
	}.Bumps()
}

// particleOwner follows parent particles until one names a live character.
func (c *Context) particleOwner(w *ecs.World, prtE ecs.Entity) ecs.Entity {
	for depth := 0; depth <= c.tuning.OwnerDepth; depth++ {
		p := w.Particle(prtE)
		if p == nil {
			return ecs.None
		}
		if w.Character(p.Owner) != nil {
			return p.Owner
		}
		if !p.Parent.IsParticle() || p.Parent == prtE {
			return ecs.None
		}
		prtE = p.Parent
	}
	return ecs.None
}

// belongsTo reports whether the particle was made by chrE or by something
// wielded by the same character, like a sword held by it.
func (c *Context) belongsTo(w *ecs.World, prtE, chrE ecs.Entity) bool {
	owner := c.particleOwner(w, prtE)
	if !owner.Valid() {
		return false
	}
	if owner == chrE {
		return true
	}
	return c.wielder(w, owner) == c.wielder(w, chrE)
}

// wielder walks up the holding chain and stops below the first mount, so a
// rider's weapon belongs to the rider and not the horse.
func (c *Context) wielder(w *ecs.World, e ecs.Entity) ecs.Entity {
	cur := e
	for depth := 0; depth <= c.tuning.OwnerDepth; depth++ {
		ch := w.Character(cur)
		if ch == nil {
			break
		}
		holder := w.Character(ch.AttachedTo)
		if holder == nil || holder.IsMount {
			break
		}
		cur = ch.AttachedTo
	}
	return cur
}
