package collision

import (
	"github.com/milk9111/collider/common"
	"github.com/milk9111/collider/prefabs"
)

// Tuning holds the knobs of a collision pass.
type Tuning struct {
	ArenaCapacity int
	Buckets       int

	// RefineFraction picks the instant inside a contact window at which the
	// overlap is measured.
	RefineFraction float32
	// DegenerateTime is the largest window bound still treated as a real
	// contact time. Beyond it the static overlap at t=0 is used.
	DegenerateTime float32

	PlatformTolerance float32
	PlatformStrength  float32
	PlatformExponent  float32
	MountStrength     float32

	PressureStrength float32
	ParticlePressure float32
	HolderRecoil     float32
	// GroundNormal is the minimum upward normal component for a particle
	// to count as landing on a character.
	GroundNormal float32

	DismountTicks int
	OwnerDepth    int
	MaxCorrection float32
}

func DefaultTuning() Tuning {
	return Tuning{
		ArenaCapacity:     4096,
		Buckets:           1024,
		RefineFraction:    0.1,
		DegenerateTime:    1e6,
		PlatformTolerance: 20,
		PlatformStrength:  0.01,
		PlatformExponent:  2,
		MountStrength:     0.5,
		PressureStrength:  0.5,
		ParticlePressure:  0.25,
		HolderRecoil:      0.5,
		GroundNormal:      0.7,
		DismountTicks:     20,
		OwnerDepth:        8,
		MaxCorrection:     common.GridSize,
	}
}

// TuningFromSpec overlays the non-zero fields of a loaded spec on the
// defaults.
func TuningFromSpec(s prefabs.TuningSpec) Tuning {
	t := DefaultTuning()
	setInt(&t.ArenaCapacity, s.ArenaCapacity)
	setInt(&t.Buckets, s.Buckets)
	setFloat(&t.RefineFraction, s.RefineFraction)
	setFloat(&t.DegenerateTime, s.DegenerateTime)
	setFloat(&t.PlatformTolerance, s.PlatformTolerance)
	setFloat(&t.PlatformStrength, s.PlatformStrength)
	setFloat(&t.PlatformExponent, s.PlatformExponent)
	setFloat(&t.MountStrength, s.MountStrength)
	setFloat(&t.PressureStrength, s.PressureStrength)
	setFloat(&t.ParticlePressure, s.ParticlePressure)
	setFloat(&t.HolderRecoil, s.HolderRecoil)
	setFloat(&t.GroundNormal, s.GroundNormal)
	setInt(&t.DismountTicks, s.DismountTicks)
	setInt(&t.OwnerDepth, s.OwnerDepth)
	setFloat(&t.MaxCorrection, s.MaxCorrection)
	t.RefineFraction = common.Clamp(t.RefineFraction, 0, 1)
	return t
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setFloat(dst *float32, v float32) {
	if v != 0 {
		*dst = v
	}
}
