package component

import "github.com/go-gl/mathgl/mgl32"

// DamageType is the element of an attack.
type DamageType uint8

const (
	DamageNone DamageType = iota
	DamageSlash
	DamageCrush
	DamagePoke
	DamageHoly
	DamageEvil
	DamageFire
	DamageIce
	DamageZap
)

var damageTypeNames = map[string]DamageType{
	"":      DamageNone,
	"none":  DamageNone,
	"slash": DamageSlash,
	"crush": DamageCrush,
	"poke":  DamagePoke,
	"holy":  DamageHoly,
	"evil":  DamageEvil,
	"fire":  DamageFire,
	"ice":   DamageIce,
	"zap":   DamageZap,
}

// ParseDamageType maps a prefab name to a DamageType.
func ParseDamageType(name string) (DamageType, bool) {
	t, ok := damageTypeNames[name]
	return t, ok
}

// DamageRange is a base amount plus a random spread.
type DamageRange struct {
	Base float32
	Rand float32
}

func (d DamageRange) Max() float32 {
	return abs32(d.Base) + abs32(d.Rand)
}

func (d DamageRange) Scale(f float32) DamageRange {
	return DamageRange{Base: d.Base * f, Rand: d.Rand * f}
}

// DamageRequest is handed to the damage subsystem when a particle hits.
type DamageRequest struct {
	Amount    DamageRange
	Type      DamageType
	Team      TeamID
	Attacker  Entity
	Particle  Entity
	Direction mgl32.Vec3
	LifeDrain float32
	ManaDrain float32
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
