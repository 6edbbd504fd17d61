package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OrientedBox is a box rotated about the vertical axis by Yaw radians.
type OrientedBox struct {
	Center mgl32.Vec3
	Half   mgl32.Vec3
	Yaw    float32
}

// Contains reports whether p lies inside the box.
func (o OrientedBox) Contains(p mgl32.Vec3) bool {
	local := mgl32.Rotate3DZ(-o.Yaw).Mul3x1(p.Sub(o.Center))
	for i := 0; i < 3; i++ {
		if math32.Abs(local[i]) > o.Half[i] {
			return false
		}
	}
	return true
}

// Facing returns the horizontal unit vector for a yaw angle.
func Facing(yaw float32) mgl32.Vec3 {
	return mgl32.Vec3{math32.Cos(yaw), math32.Sin(yaw), 0}
}

// WithinArc reports whether the horizontal direction dir is within half of
// arc radians from the yaw facing. A zero dir or a non-finite yaw is never
// within the arc.
func WithinArc(yaw float32, dir mgl32.Vec3, arc float32) bool {
	if dir.X() == 0 && dir.Y() == 0 {
		return false
	}
	delta := math32.Atan2(dir.Y(), dir.X()) - yaw
	if math32.IsNaN(delta) || math32.IsInf(delta, 0) {
		return false
	}
	delta = math32.Mod(delta+math32.Pi, 2*math32.Pi)
	if delta < 0 {
		delta += 2 * math32.Pi
	}
	return math32.Abs(delta-math32.Pi) <= arc/2
}
