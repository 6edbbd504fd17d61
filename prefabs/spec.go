package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// TuningFile is the collision tuning prefab.
const TuningFile = "collision.yaml"

// TuningSpec mirrors collision.yaml. Zero fields keep the built-in default.
type TuningSpec struct {
	ArenaCapacity     int     `yaml:"arena_capacity"`
	Buckets           int     `yaml:"buckets"`
	RefineFraction    float32 `yaml:"refine_fraction"`
	DegenerateTime    float32 `yaml:"degenerate_time"`
	PlatformTolerance float32 `yaml:"platform_tolerance"`
	PlatformStrength  float32 `yaml:"platform_strength"`
	PlatformExponent  float32 `yaml:"platform_exponent"`
	MountStrength     float32 `yaml:"mount_strength"`
	PressureStrength  float32 `yaml:"pressure_strength"`
	ParticlePressure  float32 `yaml:"particle_pressure"`
	HolderRecoil      float32 `yaml:"holder_recoil"`
	GroundNormal      float32 `yaml:"ground_normal"`
	DismountTicks     int     `yaml:"dismount_ticks"`
	DamageInvulnTicks int     `yaml:"damage_invuln_ticks"`
	OwnerDepth        int     `yaml:"owner_depth"`
	MaxCorrection     float32 `yaml:"max_correction"`
	StatPivot         float32 `yaml:"stat_pivot"`
	StatPerPoint      float32 `yaml:"stat_per_point"`
	DamageScript      string  `yaml:"damage_script"`
}

func LoadTuning() (TuningSpec, error) {
	return LoadSpec[TuningSpec](TuningFile)
}

// Vec3Spec is written as [x, y, z].
type Vec3Spec [3]float32

// ScenarioSpec places prefabs in a small test world.
type ScenarioSpec struct {
	Name    string      `yaml:"name"`
	Ticks   int         `yaml:"ticks"`
	Terrain TerrainSpec `yaml:"terrain"`
	Spawns  []SpawnSpec `yaml:"spawns"`
}

// TerrainSpec is a top down tile grid. '#' is a solid wall, '~' is
// impassable, anything else is open floor.
type TerrainSpec struct {
	TileSize float32  `yaml:"tile_size"`
	Height   float32  `yaml:"height"`
	Rows     []string `yaml:"rows"`
}

// SpawnSpec places one prefab. Owner, Parent, AttachTo and Holds refer to
// other spawns by Name.
type SpawnSpec struct {
	Prefab   string   `yaml:"prefab"`
	Name     string   `yaml:"name"`
	Pos      Vec3Spec `yaml:"pos"`
	Vel      Vec3Spec `yaml:"vel"`
	Facing   float32  `yaml:"facing"`
	Team     *int     `yaml:"team"`
	Owner    string   `yaml:"owner"`
	Parent   string   `yaml:"parent"`
	AttachTo string   `yaml:"attach_to"`
	Holds    []string `yaml:"holds"`
}

func LoadScenario(filename string) (ScenarioSpec, error) {
	spec, err := LoadSpec[ScenarioSpec](filename)
	if err != nil {
		return spec, err
	}
	if len(spec.Spawns) == 0 {
		return spec, fmt.Errorf("prefabs: scenario %s has no spawns", filename)
	}
	return spec, nil
}
