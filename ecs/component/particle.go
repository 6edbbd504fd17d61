package component

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/collider/geom"
)

// Particle is a projectile, spell effect, pickup or attack volume.
type Particle struct {
	Name string

	Pos mgl32.Vec3
	Vel mgl32.Vec3

	// MinBump is the inner hit volume used for damage. MaxBump is the outer
	// volume used for grazing contacts. Both are relative to Pos.
	MinBump geom.AABB
	MaxBump geom.AABB

	Owner      Entity
	Parent     Entity
	AttachedTo Entity
	Team       TeamID

	Alive  bool
	Hidden bool

	Weight     float32
	BumpDampen float32
	Dampen     float32

	Damage     DamageRange
	DamageType DamageType
	Tag        string
	IntBonus   bool
	WisBonus   bool
	LifeDrain  float32
	ManaDrain  float32

	OnlyDamageFriendly bool
	FriendlyFire       bool
	HateOnly           bool

	EndOnBump   bool
	EndOnGround bool
	AllowPush   bool
	Missile     bool
	Money       int

	Terminated bool
	Accum      PhysicsAccumulator
}

func (p *Particle) Active() bool {
	return p != nil && p.Alive && !p.Hidden && !p.Terminated
}

// HitBox is the outer volume in world space; it bounds the inner one.
func (p *Particle) HitBox() geom.AABB {
	return p.MaxBump.Union(p.MinBump).Translate(p.Pos)
}

func (p *Particle) HasBump() bool {
	return !p.MaxBump.FlatXY() || !p.MinBump.FlatXY()
}

// Lingering particles keep looking for characters on their own sweep.
func (p *Particle) Lingering() bool {
	return p.EndOnBump || p.EndOnGround || p.DamageType != DamageNone
}
