package collision

import (
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
	"github.com/milk9111/collider/geom"
)

// LeafMask selects which kinds of leaves a spatial query returns.
type LeafMask uint8

const (
	LeafCharacters LeafMask = 1 << iota
	LeafParticles
)

// Leaf is one entry of the spatial index: an entity and the box it was
// indexed with.
type Leaf struct {
	Entity ecs.Entity
	Box    geom.AABB
}

// SpatialIndex answers box queries over the entities of a world. Rebuild is
// called once at the start of every pass.
type SpatialIndex interface {
	Rebuild(w *ecs.World)
	Query(box geom.AABB, mask LeafMask, dst []Leaf) []Leaf
}

// WallFlags describes what a box ran into in the static world.
type WallFlags uint8

const (
	WallSolid WallFlags = 1 << iota
	WallImpassable
)

// WallTester reports whether a box intersects static geometry. Zero means free.
type WallTester interface {
	TestWall(box geom.AABB) WallFlags
}

// Hooks are the game-side effects a pass asks for. *ecs.World implements all
// of them.
type Hooks interface {
	ApplyDamage(target ecs.Entity, req component.DamageRequest) float32
	SpendMana(payer ecs.Entity, cost float32) bool
	GiveMoney(e ecs.Entity, amount int)
	AttachToMount(rider, mount ecs.Entity) error
	AttachToPlatform(rider, platform ecs.Entity, level float32)
	DetachFromPlatform(rider ecs.Entity)
	TerminateParticle(e ecs.Entity)
	ReaffirmAttached(e ecs.Entity)
}

var _ Hooks = (*ecs.World)(nil)
