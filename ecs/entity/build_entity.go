package entity

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
	"github.com/milk9111/collider/geom"
	"github.com/milk9111/collider/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	PrefabPath string
}

type characterBuildFn func(c *component.Character, raw any, ctx *buildContext) error

type particleBuildFn func(p *component.Particle, raw any, ctx *buildContext) error

var characterRegistry = map[string]characterBuildFn{
	"body":     addBody,
	"mass":     addCharacterMass,
	"team":     addCharacterTeam,
	"mount":    addMount,
	"rider":    addRider,
	"platform": addPlatform,
	"item":     addItem,
	"stats":    addStats,
	"shield":   addShield,
	"missile":  addMissile,
}

var characterBuildOrder = []string{
	"body",
	"mass",
	"team",
	"stats",
	"mount",
	"rider",
	"platform",
	"item",
	"shield",
	"missile",
}

var particleRegistry = map[string]particleBuildFn{
	"hit":        addHit,
	"mass":       addParticleMass,
	"team":       addParticleTeam,
	"damage":     addDamage,
	"targeting":  addTargeting,
	"lifetime":   addLifetime,
	"push":       addPush,
	"projectile": addProjectile,
	"money":      addMoney,
}

var particleBuildOrder = []string{
	"hit",
	"mass",
	"team",
	"damage",
	"targeting",
	"lifetime",
	"push",
	"projectile",
	"money",
}

// BuildCharacter spawns the character prefab at prefabPath.
func BuildCharacter(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	spec, err := loadPrefab(w, prefabPath, prefabs.KindCharacter)
	if err != nil {
		return ecs.None, err
	}

	c := &component.Character{Name: spec.Name, Opacity: 1, Alive: true, BumpDampen: 1}
	ctx := &buildContext{PrefabPath: prefabPath}
	if err := applyComponents(spec, characterBuildOrder, characterRegistry, c, ctx); err != nil {
		return ecs.None, err
	}

	e, err := w.SpawnCharacter(c)
	if err != nil {
		return ecs.None, fmt.Errorf("build entity: %q: %w", prefabPath, err)
	}
	return e, nil
}

// BuildParticle spawns the particle prefab at prefabPath.
func BuildParticle(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	spec, err := loadPrefab(w, prefabPath, prefabs.KindParticle)
	if err != nil {
		return ecs.None, err
	}

	p := &component.Particle{Name: spec.Name, Alive: true, BumpDampen: 1}
	ctx := &buildContext{PrefabPath: prefabPath}
	if err := applyComponents(spec, particleBuildOrder, particleRegistry, p, ctx); err != nil {
		return ecs.None, err
	}

	e, err := w.SpawnParticle(p)
	if err != nil {
		return ecs.None, fmt.Errorf("build entity: %q: %w", prefabPath, err)
	}
	return e, nil
}

// BuildEntity spawns whichever kind the prefab declares.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return ecs.None, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	switch spec.Kind {
	case prefabs.KindCharacter:
		return BuildCharacter(w, prefabPath)
	case prefabs.KindParticle:
		return BuildParticle(w, prefabPath)
	}
	return ecs.None, fmt.Errorf("build entity: %q: unknown kind %q", prefabPath, spec.Kind)
}

func loadPrefab(w *ecs.World, prefabPath, kind string) (entityPrefabSpec, error) {
	if w == nil {
		return entityPrefabSpec{}, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return spec, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if spec.Kind != kind {
		return spec, fmt.Errorf("build entity: prefab %q is a %q, not a %q", prefabPath, spec.Kind, kind)
	}
	if len(spec.Components) == 0 {
		return spec, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}
	return spec, nil
}

func applyComponents[T any, F ~func(T, any, *buildContext) error](spec entityPrefabSpec, order []string, registry map[string]F, target T, ctx *buildContext) error {
	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	apply := func(name string) error {
		builder, ok := registry[name]
		if !ok {
			return fmt.Errorf("build entity: %q: no builder for component %q", ctx.PrefabPath, name)
		}
		if err := builder(target, remaining[name], ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", ctx.PrefabPath, name, err)
		}
		delete(remaining, name)
		return nil
	}

	for _, name := range order {
		if _, ok := remaining[name]; !ok {
			continue
		}
		if err := apply(name); err != nil {
			return err
		}
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := apply(name); err != nil {
				return err
			}
		}
	}
	return nil
}

func vec3(v prefabs.Vec3Spec) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func addBody(c *component.Character, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode body spec: %w", err)
	}
	c.Bump = geom.NewAABB(vec3(spec.Min), vec3(spec.Max))
	if spec.Opacity != nil {
		c.Opacity = *spec.Opacity
	}
	return nil
}

func addCharacterMass(c *component.Character, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MassComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode mass spec: %w", err)
	}
	c.Weight = spec.Weight
	c.BumpDampen = spec.BumpDampen
	c.Dampen = spec.Dampen
	c.Immovable = spec.Immovable
	return nil
}

func addCharacterTeam(c *component.Character, raw any, _ *buildContext) error {
	team, err := decodeTeam(raw)
	if err != nil {
		return err
	}
	c.Team = team
	return nil
}

func addMount(c *component.Character, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MountComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode mount spec: %w", err)
	}
	c.IsMount = true
	c.Seat = component.Seat{Offset: vec3(spec.SeatOffset), Half: vec3(spec.SeatHalf)}
	return nil
}

func addRider(c *component.Character, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RiderComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode rider spec: %w", err)
	}
	c.CanRide = spec.CanRide
	c.CanUsePlatforms = spec.CanUsePlatforms
	return nil
}

func addPlatform(c *component.Character, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlatformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode platform spec: %w", err)
	}
	c.Platform = spec.Enabled
	return nil
}

func addItem(c *component.Character, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ItemComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode item spec: %w", err)
	}
	c.IsItem = spec.Enabled
	return nil
}

func addStats(c *component.Character, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.StatsComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode stats spec: %w", err)
	}
	if spec.Life <= 0 {
		return fmt.Errorf("stats: life must be positive, got %v", spec.Life)
	}
	c.Life = spec.Life
	c.MaxLife = spec.Life
	c.Mana = spec.Mana
	c.Intelligence = spec.Intelligence
	c.Wisdom = spec.Wisdom
	c.CanGrabMoney = spec.CanGrabMoney
	c.Vulnerability = spec.Vulnerability
	c.FloorLevel = spec.FloorLevel

	reaffirm, ok := component.ParseDamageType(spec.Reaffirm)
	if !ok {
		return fmt.Errorf("stats: unknown reaffirm damage type %q", spec.Reaffirm)
	}
	c.ReaffirmType = reaffirm
	return nil
}

func addShield(c *component.Character, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ShieldComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode shield spec: %w", err)
	}
	c.Block = component.Block{Active: spec.Active, Arc: spec.ArcDegrees * math32.Pi / 180}
	return nil
}

func addMissile(c *component.Character, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MissileComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode missile spec: %w", err)
	}
	switch spec.Treatment {
	case "", "normal":
		c.Missile = component.MissileNormal
	case "deflect":
		c.Missile = component.MissileDeflect
	case "reflect":
		c.Missile = component.MissileReflect
	default:
		return fmt.Errorf("missile: unknown treatment %q", spec.Treatment)
	}
	if spec.Cost < 0 {
		return fmt.Errorf("missile: negative cost %v", spec.Cost)
	}
	c.MissileCost = spec.Cost
	return nil
}

func addHit(p *component.Particle, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HitComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode hit spec: %w", err)
	}
	p.MinBump = geom.NewAABB(vec3(spec.InnerMin), vec3(spec.InnerMax))
	p.MaxBump = geom.NewAABB(vec3(spec.OuterMin), vec3(spec.OuterMax))
	if p.MaxBump.FlatXY() {
		p.MaxBump = p.MinBump
	}
	return nil
}

func addParticleMass(p *component.Particle, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MassComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode mass spec: %w", err)
	}
	p.Weight = spec.Weight
	p.BumpDampen = spec.BumpDampen
	p.Dampen = spec.Dampen
	return nil
}

func addParticleTeam(p *component.Particle, raw any, _ *buildContext) error {
	team, err := decodeTeam(raw)
	if err != nil {
		return err
	}
	p.Team = team
	return nil
}

func addDamage(p *component.Particle, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.DamageComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode damage spec: %w", err)
	}
	kind, ok := component.ParseDamageType(spec.Type)
	if !ok {
		return fmt.Errorf("damage: unknown type %q", spec.Type)
	}
	p.Damage = component.DamageRange{Base: spec.Base, Rand: spec.Rand}
	p.DamageType = kind
	p.Tag = spec.Tag
	p.IntBonus = spec.IntBonus
	p.WisBonus = spec.WisBonus
	p.LifeDrain = spec.LifeDrain
	p.ManaDrain = spec.ManaDrain
	return nil
}

func addTargeting(p *component.Particle, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TargetingComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode targeting spec: %w", err)
	}
	p.OnlyDamageFriendly = spec.OnlyDamageFriendly
	p.FriendlyFire = spec.FriendlyFire
	p.HateOnly = spec.HateOnly
	return nil
}

func addLifetime(p *component.Particle, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.LifetimeComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode lifetime spec: %w", err)
	}
	p.EndOnBump = spec.EndOnBump
	p.EndOnGround = spec.EndOnGround
	return nil
}

func addPush(p *component.Particle, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PushComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode push spec: %w", err)
	}
	p.AllowPush = spec.Enabled
	return nil
}

func addProjectile(p *component.Particle, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ProjectileComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode projectile spec: %w", err)
	}
	p.Missile = spec.Missile
	return nil
}

func addMoney(p *component.Particle, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MoneyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode money spec: %w", err)
	}
	if spec.Amount < 0 {
		return fmt.Errorf("money: negative amount %d", spec.Amount)
	}
	p.Money = spec.Amount
	return nil
}

func decodeTeam(raw any) (component.TeamID, error) {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TeamComponentSpec](raw)
	if err != nil {
		return 0, fmt.Errorf("decode team spec: %w", err)
	}
	if spec.Team < 0 || spec.Team >= component.MaxTeams {
		return 0, fmt.Errorf("team: %d out of range", spec.Team)
	}
	return component.TeamID(spec.Team), nil
}
