package component

import "github.com/go-gl/mathgl/mgl32"

// PhysicsAccumulator collects the corrections resolvers make to one entity
// during a tick. Resolvers only add to it; the integrator applies and clears it.
type PhysicsAccumulator struct {
	DPosPlatform  mgl32.Vec3
	DPosCollision mgl32.Vec3
	DVel          mgl32.Vec3
}

func (a *PhysicsAccumulator) AddPlatform(v mgl32.Vec3) {
	a.DPosPlatform = a.DPosPlatform.Add(v)
}

func (a *PhysicsAccumulator) AddCollision(v mgl32.Vec3) {
	a.DPosCollision = a.DPosCollision.Add(v)
}

func (a *PhysicsAccumulator) AddVelocity(v mgl32.Vec3) {
	a.DVel = a.DVel.Add(v)
}

// Position is the combined positional correction.
func (a *PhysicsAccumulator) Position() mgl32.Vec3 {
	return a.DPosPlatform.Add(a.DPosCollision)
}

func (a *PhysicsAccumulator) IsZero() bool {
	return a.DPosPlatform == (mgl32.Vec3{}) && a.DPosCollision == (mgl32.Vec3{}) && a.DVel == (mgl32.Vec3{})
}

func (a *PhysicsAccumulator) Reset() {
	*a = PhysicsAccumulator{}
}
