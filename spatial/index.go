// Package spatial backs the collision pass with chipmunk bounding box trees:
// one over the moving entities, rebuilt every tick, and one over the static
// terrain.
package spatial

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/collider/collision"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/geom"
)

const (
	categoryCharacter uint = 1 << iota
	categoryParticle
)

// Index is a collision.SpatialIndex over the xy footprint of every active
// entity's swept box. The z extent is checked after the tree query.
// Shapes are pooled across rebuilds, each on its own static body so that
// removing one never scans a shared shape list.
type Index struct {
	space  *cp.Space
	shapes []*cp.Shape
	active int
	leaves []collision.Leaf
}

var _ collision.SpatialIndex = (*Index)(nil)

func NewIndex() *Index {
	return &Index{space: cp.NewSpace()}
}

// Rebuild replaces the indexed leaves with the active entities of w.
func (x *Index) Rebuild(w *ecs.World) {
	if x == nil {
		return
	}
	for _, shape := range x.shapes[:x.active] {
		x.space.RemoveShape(shape)
	}
	x.active = 0
	x.leaves = x.leaves[:0]
	if w == nil {
		return
	}

	for _, e := range w.ActiveCharacters() {
		c := w.Character(e)
		if !c.HasBump() {
			continue
		}
		x.add(e, c.BumpBox().Swept(c.Vel), categoryCharacter)
	}
	for _, e := range w.ActiveParticles() {
		p := w.Particle(e)
		if !p.HasBump() {
			continue
		}
		x.add(e, p.HitBox().Swept(p.Vel), categoryParticle)
	}
}

func (x *Index) add(e ecs.Entity, box geom.AABB, category uint) {
	bb := bbOf(box)
	var shape *cp.Shape
	if x.active < len(x.shapes) {
		shape = x.shapes[x.active]
		shape.Class.(*cp.PolyShape).SetVerts(4, boxVerts(bb))
	} else {
		shape = cp.NewBox2(cp.NewStaticBody(), bb, 0)
		x.shapes = append(x.shapes, shape)
	}
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, category, cp.ALL_CATEGORIES))
	shape.UserData = len(x.leaves)
	x.space.AddShape(shape)
	x.active++
	x.leaves = append(x.leaves, collision.Leaf{Entity: e, Box: box})
}

// Query appends to dst every leaf of the selected kinds whose box overlaps
// box, touching faces excluded.
func (x *Index) Query(box geom.AABB, mask collision.LeafMask, dst []collision.Leaf) []collision.Leaf {
	if x == nil || len(x.leaves) == 0 {
		return dst
	}
	var categories uint
	if mask&collision.LeafCharacters != 0 {
		categories |= categoryCharacter
	}
	if mask&collision.LeafParticles != 0 {
		categories |= categoryParticle
	}
	if categories == 0 {
		return dst
	}

	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categories)
	x.space.BBQuery(bbOf(box), filter, func(shape *cp.Shape, _ interface{}) {
		i, ok := shape.UserData.(int)
		if !ok || i < 0 || i >= len(x.leaves) {
			return
		}
		if leaf := x.leaves[i]; leaf.Box.Overlaps(box) {
			dst = append(dst, leaf)
		}
	}, nil)
	return dst
}

// Len is the number of leaves indexed by the last Rebuild.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.leaves)
}

// boxVerts winds bb the same way cp.NewBox2 does.
func boxVerts(bb cp.BB) []cp.Vector {
	return []cp.Vector{
		{X: bb.R, Y: bb.B},
		{X: bb.R, Y: bb.T},
		{X: bb.L, Y: bb.T},
		{X: bb.L, Y: bb.B},
	}
}

func bbOf(box geom.AABB) cp.BB {
	return cp.BB{
		L: float64(box.Min.X()),
		B: float64(box.Min.Y()),
		R: float64(box.Max.X()),
		T: float64(box.Max.Y()),
	}
}
