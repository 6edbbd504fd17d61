package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const axisEpsilon = 1e-6

// SweepIntersect finds the window of normalized tick time during which box a
// moving by va overlaps box b moving by vb. The window is not clipped to
// [0,1]; it is rejected only when it does not reach into the tick at all.
// Boxes that overlap and do not move relative to each other on an axis get an
// unbounded window on that axis.
func SweepIntersect(a AABB, va mgl32.Vec3, b AABB, vb mgl32.Vec3) (tmin, tmax float32, ok bool) {
	v := va.Sub(vb)
	tmin = math32.Inf(-1)
	tmax = math32.Inf(1)
	for i := 0; i < 3; i++ {
		if math32.Abs(v[i]) < axisEpsilon {
			if a.Max[i] <= b.Min[i] || a.Min[i] >= b.Max[i] {
				return 0, 0, false
			}
			continue
		}
		t0 := (b.Min[i] - a.Max[i]) / v[i]
		t1 := (b.Max[i] - a.Min[i]) / v[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = math32.Max(tmin, t0)
		tmax = math32.Min(tmax, t1)
		if tmin > tmax {
			return 0, 0, false
		}
	}
	if tmax < 0 || tmin > 1 {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// Estimate returns the unit normal pointing from a toward b and the distance
// b must travel along it to stop overlapping a. zWeight scales how strongly
// the vertical axis pulls the normal; values above 1 make thin vertical
// overlaps resolve upward like a table top. ok is false without overlap.
func Estimate(a, b AABB, zWeight float32) (normal mgl32.Vec3, depth float32, ok bool) {
	var depths mgl32.Vec3
	for i := 0; i < 3; i++ {
		depths[i] = math32.Min(a.Max[i], b.Max[i]) - math32.Max(a.Min[i], b.Min[i])
		if depths[i] <= 0 {
			return mgl32.Vec3{}, 0, false
		}
	}

	diff := b.Center().Sub(a.Center())
	var n mgl32.Vec3
	for i := 0; i < 3; i++ {
		if math32.Abs(diff[i]) < axisEpsilon {
			continue
		}
		w := float32(1) / depths[i]
		if i == 2 {
			w *= zWeight
		}
		if diff[i] < 0 {
			w = -w
		}
		n[i] = w
	}

	if n.LenSqr() == 0 {
		// concentric boxes: push b up
		return mgl32.Vec3{0, 0, 1}, depths[2], true
	}
	n = n.Normalize()

	depth = math32.Inf(1)
	for i := 0; i < 3; i++ {
		if math32.Abs(n[i]) < axisEpsilon {
			continue
		}
		depth = math32.Min(depth, depths[i]/math32.Abs(n[i]))
	}
	return n, depth, true
}
