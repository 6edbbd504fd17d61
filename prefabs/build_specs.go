package prefabs

import "gopkg.in/yaml.v3"

// Entity kinds a prefab can build.
const (
	KindCharacter = "character"
	KindParticle  = "particle"
)

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Kind       string         `yaml:"kind"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type BodyComponentSpec struct {
	Min     Vec3Spec `yaml:"min"`
	Max     Vec3Spec `yaml:"max"`
	Opacity *float32 `yaml:"opacity"`
}

type MassComponentSpec struct {
	Weight     float32 `yaml:"weight"`
	BumpDampen float32 `yaml:"bump_dampen"`
	Dampen     float32 `yaml:"dampen"`
	Immovable  bool    `yaml:"immovable"`
}

type TeamComponentSpec struct {
	Team int `yaml:"team"`
}

type MountComponentSpec struct {
	SeatOffset Vec3Spec `yaml:"seat_offset"`
	SeatHalf   Vec3Spec `yaml:"seat_half"`
}

type RiderComponentSpec struct {
	CanRide         bool `yaml:"can_ride"`
	CanUsePlatforms bool `yaml:"can_use_platforms"`
}

type PlatformComponentSpec struct {
	Enabled bool `yaml:"enabled"`
}

type ItemComponentSpec struct {
	Enabled bool `yaml:"enabled"`
}

type StatsComponentSpec struct {
	Life          float32 `yaml:"life"`
	Mana          float32 `yaml:"mana"`
	Intelligence  float32 `yaml:"intelligence"`
	Wisdom        float32 `yaml:"wisdom"`
	CanGrabMoney  bool    `yaml:"can_grab_money"`
	Vulnerability string  `yaml:"vulnerability"`
	Reaffirm      string  `yaml:"reaffirm"`
	FloorLevel    float32 `yaml:"floor_level"`
}

type ShieldComponentSpec struct {
	Active     bool    `yaml:"active"`
	ArcDegrees float32 `yaml:"arc_degrees"`
}

type MissileComponentSpec struct {
	Treatment string  `yaml:"treatment"`
	Cost      float32 `yaml:"cost"`
}

type HitComponentSpec struct {
	InnerMin Vec3Spec `yaml:"inner_min"`
	InnerMax Vec3Spec `yaml:"inner_max"`
	OuterMin Vec3Spec `yaml:"outer_min"`
	OuterMax Vec3Spec `yaml:"outer_max"`
}

type DamageComponentSpec struct {
	Base      float32 `yaml:"base"`
	Rand      float32 `yaml:"rand"`
	Type      string  `yaml:"type"`
	Tag       string  `yaml:"tag"`
	IntBonus  bool    `yaml:"int_bonus"`
	WisBonus  bool    `yaml:"wis_bonus"`
	LifeDrain float32 `yaml:"life_drain"`
	ManaDrain float32 `yaml:"mana_drain"`
}

type TargetingComponentSpec struct {
	OnlyDamageFriendly bool `yaml:"only_damage_friendly"`
	FriendlyFire       bool `yaml:"friendly_fire"`
	HateOnly           bool `yaml:"hate_only"`
}

type LifetimeComponentSpec struct {
	EndOnBump   bool `yaml:"end_on_bump"`
	EndOnGround bool `yaml:"end_on_ground"`
}

type PushComponentSpec struct {
	Enabled bool `yaml:"enabled"`
}

type ProjectileComponentSpec struct {
	Missile bool `yaml:"missile"`
}

type MoneyComponentSpec struct {
	Amount int `yaml:"amount"`
}
