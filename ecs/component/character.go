package component

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/collider/geom"
)

// MissileTreatment is how a character handles incoming missiles.
type MissileTreatment uint8

const (
	MissileNormal MissileTreatment = iota
	// MissileDeflect mirrors the missile about the contact normal.
	MissileDeflect
	// MissileReflect sends the missile straight back and takes it over.
	MissileReflect
)

// Seat is the saddle of a mount, relative to the mount origin and facing.
type Seat struct {
	Offset mgl32.Vec3
	Half   mgl32.Vec3
}

// Block is a directional shield: hits arriving within Arc radians of the
// character facing are blocked while Active.
type Block struct {
	Active bool
	Arc    float32
}

// Character is anything with a body: players, monsters, items, mounts and
// moving platforms. Pos is the feet origin.
type Character struct {
	Name string

	Pos    mgl32.Vec3
	Vel    mgl32.Vec3
	Facing float32

	// Bump is the collision box relative to Pos.
	Bump    geom.AABB
	Opacity float32

	Weight     float32
	BumpDampen float32
	Dampen     float32
	Immovable  bool

	Team   TeamID
	Alive  bool
	Hidden bool
	Packed bool
	IsItem bool

	IsMount    bool
	CanRide    bool
	Seat       Seat
	Rider      Entity
	AttachedTo Entity
	Holdings   [2]Entity

	DismountTimer  int
	DismountObject Entity

	Platform        bool
	CanUsePlatforms bool
	OnPlatform      Entity
	PlatformLevel   float32
	FloorLevel      float32

	Life         float32
	MaxLife      float32
	Mana         float32
	Intelligence float32
	Wisdom       float32
	Money        int
	CanGrabMoney bool
	DamageTime   int

	Block          Block
	Missile        MissileTreatment
	MissileCost    float32
	MissileHandler Entity

	Vulnerability string
	ReaffirmType  DamageType

	AI    AIState
	Accum PhysicsAccumulator
}

// Active reports whether the character takes part in collisions at all.
func (c *Character) Active() bool {
	return c != nil && c.Alive && !c.Hidden && !c.Packed
}

// BumpBox is the collision box in world space.
func (c *Character) BumpBox() geom.AABB {
	return c.Bump.Translate(c.Pos)
}

// BumpBoxAt is the collision box at normalized tick time t.
func (c *Character) BumpBoxAt(t float32) geom.AABB {
	return c.Bump.Translate(c.Pos.Add(c.Vel.Mul(t)))
}

func (c *Character) HasBump() bool {
	return !c.Bump.FlatXY()
}

// Top is the world height of the top of the bump box.
func (c *Character) Top() float32 {
	return c.Pos.Z() + c.Bump.Max.Z()
}

// EffectiveFloor is the highest surface the character can rest on.
func (c *Character) EffectiveFloor() float32 {
	if c.OnPlatform.Valid() && c.PlatformLevel > c.FloorLevel {
		return c.PlatformLevel
	}
	return c.FloorLevel
}

// SeatBox is the oriented saddle volume in world space.
func (c *Character) SeatBox() geom.OrientedBox {
	offset := mgl32.Rotate3DZ(c.Facing).Mul3x1(c.Seat.Offset)
	return geom.OrientedBox{Center: c.Pos.Add(offset), Half: c.Seat.Half, Yaw: c.Facing}
}
