package collision

import "github.com/milk9111/collider/ecs/component"

// InfiniteMass marks an object that is never pushed.
const InfiniteMass float32 = -1

func IsInfinite(m float32) bool {
	return m < 0
}

// CharacterMass is weight over bump dampening.
func CharacterMass(c *component.Character) float32 {
	if c == nil || c.Immovable || c.Weight < 0 || c.BumpDampen <= 0 {
		return InfiniteMass
	}
	return c.Weight / c.BumpDampen
}

func ParticleMass(p *component.Particle) float32 {
	if p == nil || p.Weight < 0 || p.BumpDampen <= 0 {
		return InfiniteMass
	}
	return p.Weight / p.BumpDampen
}

// RecoilFactors splits a reaction between two bodies. Finite masses share it
// inversely to their mass; an infinite or zero mass side takes none or all of
// it. ok is false when both are infinite and the pair cannot be resolved.
func RecoilFactors(ma, mb float32) (ra, rb float32, ok bool) {
	switch {
	case IsInfinite(ma) && IsInfinite(mb):
		return 0.5, 0.5, false
	case IsInfinite(ma):
		return 0, 1, true
	case IsInfinite(mb):
		return 1, 0, true
	}
	total := ma + mb
	if total <= 0 {
		return 0.5, 0.5, true
	}
	return mb / total, ma / total, true
}
