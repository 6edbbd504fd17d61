package entity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
	"github.com/milk9111/collider/prefabs"
)

func prefabDir(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	old := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = old })

	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBuildCharacterFromPrefab(t *testing.T) {
	prefabDir(t, nil)
	w := ecs.NewWorld()

	cases := []struct {
		name  string
		check func(t *testing.T, c *component.Character)
	}{
		{"knight.yaml", func(t *testing.T, c *component.Character) {
			if c.Bump.Max != (mgl32.Vec3{20, 20, 60}) || c.Weight != 80 {
				t.Fatalf("knight body/mass wrong: %+v", c)
			}
			if !c.CanRide || !c.CanUsePlatforms || !c.CanGrabMoney {
				t.Fatalf("knight flags wrong: %+v", c)
			}
			if c.Life != 100 || c.MaxLife != 100 || c.Team != 1 {
				t.Fatalf("knight stats wrong: %+v", c)
			}
		}},
		{"horse.yaml", func(t *testing.T, c *component.Character) {
			if !c.IsMount || c.Seat.Offset != (mgl32.Vec3{0, 0, 55}) {
				t.Fatalf("horse seat wrong: %+v", c.Seat)
			}
		}},
		{"lift.yaml", func(t *testing.T, c *component.Character) {
			if !c.Platform || !c.Immovable {
				t.Fatalf("lift should be an immovable platform: %+v", c)
			}
		}},
		{"mage.yaml", func(t *testing.T, c *component.Character) {
			if c.Missile != component.MissileReflect || c.MissileCost != 10 {
				t.Fatalf("mage missile treatment wrong: %v %v", c.Missile, c.MissileCost)
			}
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := BuildCharacter(w, c.name)
			if err != nil {
				t.Fatalf("BuildCharacter: %v", err)
			}
			chr := w.Character(e)
			if chr == nil || !chr.Active() || chr.Opacity != 1 {
				t.Fatalf("built character not active: %+v", chr)
			}
			c.check(t, chr)
		})
	}
}

func TestBuildParticleFromPrefab(t *testing.T) {
	prefabDir(t, nil)
	w := ecs.NewWorld()

	e, err := BuildParticle(w, "arrow.yaml")
	if err != nil {
		t.Fatalf("BuildParticle: %v", err)
	}
	p := w.Particle(e)
	if p.DamageType != component.DamagePoke || p.Tag != "silver" || !p.Missile || !p.EndOnBump {
		t.Fatalf("arrow fields wrong: %+v", p)
	}
	if p.MaxBump.Max != (mgl32.Vec3{6, 6, 6}) {
		t.Fatalf("arrow outer volume wrong: %+v", p.MaxBump)
	}

	e, err = BuildParticle(w, "slash.yaml")
	if err != nil {
		t.Fatalf("BuildParticle: %v", err)
	}
	if p := w.Particle(e); p.MaxBump != p.MinBump {
		t.Fatalf("missing outer volume should copy the inner one")
	}
}

func TestBuildEntityErrors(t *testing.T) {
	prefabDir(t, map[string]string{
		"empty.yaml":      "name: empty\nkind: character\n",
		"odd.yaml":        "name: odd\nkind: ghost\ncomponents:\n  body: {}\n",
		"unknown.yaml":    "name: unknown\nkind: character\ncomponents:\n  wings: {}\n",
		"badteam.yaml":    "name: badteam\nkind: particle\ncomponents:\n  team:\n    team: 99\n",
		"badmissile.yaml": "name: badmissile\nkind: character\ncomponents:\n  missile:\n    treatment: juggle\n",
	})
	w := ecs.NewWorld()

	cases := []struct {
		name  string
		build func(*ecs.World, string) (ecs.Entity, error)
		want  string
	}{
		{"empty.yaml", BuildCharacter, "does not define components"},
		{"odd.yaml", BuildEntity, "unknown kind"},
		{"unknown.yaml", BuildCharacter, `no builder for component "wings"`},
		{"badteam.yaml", BuildParticle, "out of range"},
		{"badmissile.yaml", BuildCharacter, "unknown treatment"},
		{"arrow.yaml", BuildCharacter, "not a"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.build(w, c.name)
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("err = %v, want %q", err, c.want)
			}
		})
	}

	if n := len(w.Characters()) + len(w.Particles()); n != 0 {
		t.Fatalf("failed builds should not spawn anything, got %d entities", n)
	}
}

func TestSpawnScenarioLinksReferences(t *testing.T) {
	prefabDir(t, nil)
	w := ecs.NewWorld()

	spec, err := prefabs.LoadScenario("scenarios/arena.yaml")
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	spawned, err := SpawnScenario(w, spec)
	if err != nil {
		t.Fatalf("SpawnScenario: %v", err)
	}

	knight := w.Character(spawned["knight"])
	if knight == nil || knight.Pos != (mgl32.Vec3{300, 300, 0}) || knight.Name != "knight" {
		t.Fatalf("knight not placed: %+v", knight)
	}
	if knight.Holdings[0] != spawned["sword"] {
		t.Fatalf("knight should hold the sword")
	}
	if sword := w.Character(spawned["sword"]); sword.AttachedTo != spawned["knight"] {
		t.Fatalf("sword should be attached to the knight")
	}

	swing := w.Particle(spawned["swing"])
	if swing.Owner != spawned["knight"] || swing.AttachedTo != spawned["sword"] {
		t.Fatalf("swing links wrong: owner %v attached %v", swing.Owner, swing.AttachedTo)
	}
	if swing.Team != knight.Team {
		t.Fatalf("unteamed particle should inherit its owner's team")
	}
}

func TestSpawnScenarioMountsRider(t *testing.T) {
	prefabDir(t, nil)
	w := ecs.NewWorld()

	spec := prefabs.ScenarioSpec{
		Name: "ride",
		Spawns: []prefabs.SpawnSpec{
			{Prefab: "horse.yaml", Name: "horse"},
			{Prefab: "knight.yaml", Name: "knight", AttachTo: "horse"},
		},
	}
	spawned, err := SpawnScenario(w, spec)
	if err != nil {
		t.Fatalf("SpawnScenario: %v", err)
	}
	if w.Character(spawned["horse"]).Rider != spawned["knight"] {
		t.Fatalf("knight should be seated on the horse")
	}
}

func TestSpawnScenarioErrors(t *testing.T) {
	prefabDir(t, nil)

	cases := []struct {
		name   string
		spawns []prefabs.SpawnSpec
		want   string
	}{
		{"unknown_owner", []prefabs.SpawnSpec{{Prefab: "arrow.yaml", Owner: "ghost"}}, `unknown spawn "ghost"`},
		{"duplicate_name", []prefabs.SpawnSpec{{Prefab: "coin.yaml", Name: "a"}, {Prefab: "coin.yaml", Name: "a"}}, "duplicate spawn name"},
		{"particle_owner", []prefabs.SpawnSpec{{Prefab: "coin.yaml", Name: "c"}, {Prefab: "arrow.yaml", Owner: "c"}}, "not a character"},
		{"too_many_holds", []prefabs.SpawnSpec{
			{Prefab: "sword.yaml", Name: "a"},
			{Prefab: "knight.yaml", Holds: []string{"a", "a", "a"}},
		}, "at most 2 items"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := SpawnScenario(ecs.NewWorld(), prefabs.ScenarioSpec{Name: c.name, Spawns: c.spawns})
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("err = %v, want %q", err, c.want)
			}
		})
	}
}
