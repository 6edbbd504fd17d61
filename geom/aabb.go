// Package geom holds the box math shared by the broad and narrow phases.
package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis aligned box in world units.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func NewAABB(min, max mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	return AABB{Min: min, Max: max}
}

// Translate returns the box moved by v.
func (b AABB) Translate(v mgl32.Vec3) AABB {
	return AABB{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

func (b AABB) Union(o AABB) AABB {
	var out AABB
	for i := 0; i < 3; i++ {
		out.Min[i] = math32.Min(b.Min[i], o.Min[i])
		out.Max[i] = math32.Max(b.Max[i], o.Max[i])
	}
	return out
}

// Intersect returns the overlap of both boxes. ok is false when they are
// disjoint on any axis; touching faces count as disjoint.
func (b AABB) Intersect(o AABB) (AABB, bool) {
	var out AABB
	for i := 0; i < 3; i++ {
		out.Min[i] = math32.Max(b.Min[i], o.Min[i])
		out.Max[i] = math32.Min(b.Max[i], o.Max[i])
		if out.Min[i] >= out.Max[i] {
			return AABB{}, false
		}
	}
	return out, true
}

func (b AABB) Overlaps(o AABB) bool {
	_, ok := b.Intersect(o)
	return ok
}

// OverlapsXY ignores the vertical axis.
func (b AABB) OverlapsXY(o AABB) bool {
	return b.Min.X() < o.Max.X() && b.Max.X() > o.Min.X() &&
		b.Min.Y() < o.Max.Y() && b.Max.Y() > o.Min.Y()
}

func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// FlatXY reports a box with no horizontal footprint.
func (b AABB) FlatXY() bool {
	s := b.Size()
	return s.X() <= 0 || s.Y() <= 0
}

func (b AABB) ContainsPoint(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// ContainsPointXY ignores the vertical axis.
func (b AABB) ContainsPointXY(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y()
}

// Swept is the volume covered by b while it travels by vel over one tick.
func (b AABB) Swept(vel mgl32.Vec3) AABB {
	return b.Union(b.Translate(vel))
}
