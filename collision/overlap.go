package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/collider/common"
	"github.com/milk9111/collider/geom"
)

// overlap is the narrow phase verdict for one pair of boxes.
type overlap struct {
	normal mgl32.Vec3
	depth  float32
	// collision is true for a fresh contact inside this tick, false for
	// boxes that already overlapped (pressure).
	collision bool
}

// physical reports a window that can be trusted as contact times.
func (c *Context) physical(tmin, tmax float32) bool {
	if math32.IsInf(tmin, 0) || math32.IsInf(tmax, 0) {
		return false
	}
	if math32.Abs(tmin) > c.tuning.DegenerateTime || math32.Abs(tmax) > c.tuning.DegenerateTime {
		return false
	}
	return tmax > tmin
}

// estimate measures a against b. The normal points from a to b.
func (c *Context) estimate(a geom.AABB, va mgl32.Vec3, b geom.AABB, vb mgl32.Vec3, tmin, tmax, zWeight float32) (overlap, bool) {
	if c.physical(tmin, tmax) {
		t := common.Clamp(tmin+c.tuning.RefineFraction*(tmax-tmin), 0, 1)
		n, d, ok := geom.Estimate(a.Translate(va.Mul(t)), b.Translate(vb.Mul(t)), zWeight)
		if ok && d > 0 {
			return overlap{normal: n, depth: d, collision: tmin > 0}, true
		}
	}
	n, d, ok := geom.Estimate(a, b, zWeight)
	if ok && d > 0 {
		return overlap{normal: n, depth: d}, true
	}
	return overlap{}, false
}
