package collision

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
	"github.com/milk9111/collider/geom"
)

// listIndex is a brute force SpatialIndex over swept boxes.
type listIndex struct {
	leaves []Leaf
}

func (l *listIndex) Rebuild(w *ecs.World) {
	l.leaves = l.leaves[:0]
	for _, e := range w.ActiveCharacters() {
		c := w.Character(e)
		l.leaves = append(l.leaves, Leaf{Entity: e, Box: c.BumpBox().Swept(c.Vel)})
	}
	for _, e := range w.ActiveParticles() {
		p := w.Particle(e)
		l.leaves = append(l.leaves, Leaf{Entity: e, Box: p.HitBox().Swept(p.Vel)})
	}
}

func (l *listIndex) Query(box geom.AABB, mask LeafMask, dst []Leaf) []Leaf {
	for _, leaf := range l.leaves {
		if leaf.Entity.IsCharacter() && mask&LeafCharacters == 0 {
			continue
		}
		if leaf.Entity.IsParticle() && mask&LeafParticles == 0 {
			continue
		}
		if leaf.Box.Overlaps(box) {
			dst = append(dst, leaf)
		}
	}
	return dst
}

func box(half float32, height float32) geom.AABB {
	return geom.NewAABB(mgl32.Vec3{-half, -half, 0}, mgl32.Vec3{half, half, height})
}

func body(pos, vel mgl32.Vec3) *component.Character {
	return &component.Character{
		Pos:        pos,
		Vel:        vel,
		Bump:       box(1, 2),
		Opacity:    1,
		Weight:     10,
		BumpDampen: 1,
		Alive:      true,
		Life:       100,
		MaxLife:    100,
		FloorLevel: -1000,
	}
}

func newContext(t *testing.T) *Context {
	t.Helper()
	c, err := New(DefaultTuning(), &listIndex{}, nil)
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	return c
}

func spawn(t *testing.T, w *ecs.World, c *component.Character) ecs.Entity {
	t.Helper()
	e, err := w.SpawnCharacter(c)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	return e
}

func TestNewInvalidCapacity(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ArenaCapacity = 0
	if _, err := New(tuning, nil, nil); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity, got %v", err)
	}
	var c *Context
	if _, err := c.Run(ecs.NewWorld()); !errors.Is(err, ErrUnusable) {
		t.Fatalf("expected ErrUnusable, got %v", err)
	}
}

func TestHeadOnResolverSplitsImpulse(t *testing.T) {
	w := ecs.NewWorld()
	a := body(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0})
	b := body(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{-1, 0, 0})
	a.Bump, b.Bump = box(0.5, 1), box(0.5, 1)
	ea, eb := spawn(t, w, a), spawn(t, w, b)

	c := newContext(t)
	c.resolveChrChr(w, Candidate{A: ea, B: eb, TileB: NoTile, TMin: 0.2, TMax: 0.3})

	da, db := a.Accum.DVel, b.Accum.DVel
	if !da.Add(db).ApproxEqual(mgl32.Vec3{}) {
		t.Fatalf("velocity changes not opposite: %v %v", da, db)
	}
	if da.X() >= 0 || da.Y() != 0 || da.Z() != 0 {
		t.Fatalf("a should be pushed back along x, got %v", da)
	}
	if c.stats.Bumps != 1 || !a.AI.Alerts.Has(component.AlertBumped) || b.AI.LastBumpedBy != ea {
		t.Fatalf("bump not reported")
	}
	if a.Accum.DPosCollision != (mgl32.Vec3{}) {
		t.Fatalf("fresh collision should not push positions: %v", a.Accum.DPosCollision)
	}
}

func TestHeadOnRun(t *testing.T) {
	w := ecs.NewWorld()
	a := body(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0})
	b := body(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{-1, 0, 0})
	a.Bump, b.Bump = box(0.3, 1), box(0.3, 1)
	spawn(t, w, a)
	spawn(t, w, b)

	c := newContext(t)
	stats, err := c.Run(w)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Candidates != 1 || stats.Bumps != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if !a.Vel.ApproxEqual(mgl32.Vec3{}) || !b.Vel.ApproxEqual(mgl32.Vec3{}) {
		t.Fatalf("inelastic head-on should stop both: %v %v", a.Vel, b.Vel)
	}
	if !a.Accum.IsZero() || !b.Accum.IsZero() {
		t.Fatalf("accumulators not cleared")
	}
}

func TestImmovablePairIsNoop(t *testing.T) {
	w := ecs.NewWorld()
	a := body(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{})
	b := body(mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{})
	a.Immovable, b.Immovable = true, true
	spawn(t, w, a)
	spawn(t, w, b)

	c := newContext(t)
	stats, err := c.Run(w)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Candidates != 1 {
		t.Fatalf("expected the pair to be found, got %+v", stats)
	}
	if a.Pos != (mgl32.Vec3{}) || b.Pos != (mgl32.Vec3{0.5, 0, 0}) || a.Vel != (mgl32.Vec3{}) || b.Vel != (mgl32.Vec3{}) {
		t.Fatalf("immovable pair moved: %v %v", a.Pos, b.Pos)
	}
}

func TestPressureSeparatesOverlap(t *testing.T) {
	w := ecs.NewWorld()
	a := body(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{})
	b := body(mgl32.Vec3{1.5, 0, 0}, mgl32.Vec3{})
	spawn(t, w, a)
	spawn(t, w, b)

	c := newContext(t)
	stats, _ := c.Run(w)
	if stats.Pressures != 1 {
		t.Fatalf("expected one pressure contact, got %+v", stats)
	}
	if a.Pos.X() >= 0 || b.Pos.X() <= 1.5 {
		t.Fatalf("overlap not pushed apart: %v %v", a.Pos, b.Pos)
	}
	if math32.Abs(a.Pos.X()+(b.Pos.X()-1.5)) > 1e-5 {
		t.Fatalf("equal masses should move equally: %v %v", a.Pos, b.Pos)
	}
}

func TestPlatformPicksHighestTop(t *testing.T) {
	heights := [][]float32{
		{10, 25, 18}, {10, 18, 25}, {25, 10, 18},
		{25, 18, 10}, {18, 10, 25}, {18, 25, 10},
	}
	for _, order := range heights {
		w := ecs.NewWorld()
		var top ecs.Entity
		for _, h := range order {
			p := body(mgl32.Vec3{}, mgl32.Vec3{})
			p.Bump = box(5, h)
			p.Platform = true
			p.Immovable = true
			e := spawn(t, w, p)
			if h == 25 {
				top = e
			}
		}
		rider := body(mgl32.Vec3{0, 0, 24}, mgl32.Vec3{})
		rider.CanUsePlatforms = true
		spawn(t, w, rider)

		c := newContext(t)
		if _, err := c.Run(w); err != nil {
			t.Fatalf("run: %v", err)
		}
		if rider.OnPlatform != top || rider.PlatformLevel != 25 {
			t.Fatalf("order %v: rider on %v at %v, want %v at 25", order, rider.OnPlatform, rider.PlatformLevel, top)
		}
		if rider.Pos.Z() < 25 {
			t.Fatalf("order %v: rider not lifted onto platform: %v", order, rider.Pos)
		}
	}
}

func TestPlatformDetachWhenWalkedOff(t *testing.T) {
	w := ecs.NewWorld()
	p := body(mgl32.Vec3{}, mgl32.Vec3{})
	p.Bump = box(5, 10)
	p.Platform = true
	p.Immovable = true
	pe := spawn(t, w, p)
	rider := body(mgl32.Vec3{100, 0, 10}, mgl32.Vec3{})
	rider.CanUsePlatforms = true
	re := spawn(t, w, rider)
	w.AttachToPlatform(re, pe, 10)

	c := newContext(t)
	stats, _ := c.Run(w)
	if rider.OnPlatform.Valid() || stats.PlatformDetach != 1 {
		t.Fatalf("rider should have been detached: %v %+v", rider.OnPlatform, stats)
	}
}

func TestMountIntoSaddle(t *testing.T) {
	w := ecs.NewWorld()
	mount := body(mgl32.Vec3{}, mgl32.Vec3{})
	mount.IsMount = true
	mount.Seat = component.Seat{Offset: mgl32.Vec3{0, 0, 2}, Half: mgl32.Vec3{1, 1, 1}}
	me := spawn(t, w, mount)
	rider := body(mgl32.Vec3{0, 0, 1.5}, mgl32.Vec3{0, 0, 0.5})
	rider.CanRide = true
	re := spawn(t, w, rider)

	c := newContext(t)
	stats, _ := c.Run(w)
	if stats.Mounts != 1 || rider.AttachedTo != me || mount.Rider != re {
		t.Fatalf("rider not mounted: %+v", stats)
	}
	if stats.Bumps != 0 || stats.Pressures != 0 {
		t.Fatalf("mounted pair should not also collide: %+v", stats)
	}
}

func TestMountRejectedWhenLeavingSeat(t *testing.T) {
	w := ecs.NewWorld()
	mount := body(mgl32.Vec3{}, mgl32.Vec3{})
	mount.IsMount = true
	mount.Seat = component.Seat{Offset: mgl32.Vec3{0, 0, 2}, Half: mgl32.Vec3{1, 1, 1}}
	spawn(t, w, mount)
	rider := body(mgl32.Vec3{0, 0, 1.5}, mgl32.Vec3{0, 0, -1})
	rider.CanRide = true
	spawn(t, w, rider)

	c := newContext(t)
	stats, _ := c.Run(w)
	if stats.Mounts != 0 || rider.AttachedTo.Valid() {
		t.Fatalf("rider moving away from the seat was mounted")
	}
}

type missileCase struct {
	mana       float32
	wantLife   float32
	wantMana   float32
	wantVel    mgl32.Vec3
	deflected  int
	hits       int
	vulnerable bool
}

func runMissile(t *testing.T, mc missileCase) (*component.Character, *component.Particle, Stats) {
	t.Helper()
	w := ecs.NewWorld()
	target := body(mgl32.Vec3{}, mgl32.Vec3{})
	target.Team = 1
	target.Mana = mc.mana
	target.Missile = component.MissileReflect
	target.MissileCost = 5
	if mc.vulnerable {
		target.Vulnerability = "silver"
	}
	te := spawn(t, w, target)

	p := &component.Particle{
		Pos:        mgl32.Vec3{1.4, 0, 0.5},
		Vel:        mgl32.Vec3{-1, 0, 0},
		MinBump:    geom.NewAABB(mgl32.Vec3{-0.5, -0.5, 0}, mgl32.Vec3{0.5, 0.5, 1}),
		MaxBump:    geom.NewAABB(mgl32.Vec3{-0.5, -0.5, 0}, mgl32.Vec3{0.5, 0.5, 1}),
		Team:       2,
		Alive:      true,
		Missile:    true,
		Damage:     component.DamageRange{Base: 10},
		Tag:        "silver",
		AllowPush:  true,
		Weight:     1,
		BumpDampen: 1,
	}
	if _, err := w.SpawnParticle(p); err != nil {
		t.Fatalf("spawn particle: %v", err)
	}

	c := newContext(t)
	stats, err := c.Run(w)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if p.Owner.Valid() && p.Owner != te {
		t.Fatalf("reflected particle owned by %v", p.Owner)
	}
	return target, p, stats
}

func TestDeflectionSuppressesDamage(t *testing.T) {
	cases := []struct {
		name string
		mc   missileCase
	}{
		{"reflected", missileCase{mana: 10, wantLife: 100, wantMana: 5, wantVel: mgl32.Vec3{1, 0, 0}, deflected: 1}},
		{"no_mana", missileCase{mana: 0, wantLife: 90, wantMana: 0, hits: 1}},
		{"vulnerable", missileCase{mana: 0, wantLife: 80, wantMana: 0, hits: 1, vulnerable: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			target, p, stats := runMissile(t, c.mc)
			if target.Life != c.mc.wantLife || target.Mana != c.mc.wantMana {
				t.Fatalf("life %v mana %v, want %v %v", target.Life, target.Mana, c.mc.wantLife, c.mc.wantMana)
			}
			if stats.Deflections != c.mc.deflected || stats.Hits != c.mc.hits {
				t.Fatalf("unexpected stats %+v", stats)
			}
			if c.mc.deflected > 0 {
				if !p.Vel.ApproxEqual(c.mc.wantVel) {
					t.Fatalf("particle velocity %v, want %v", p.Vel, c.mc.wantVel)
				}
				if p.Team != target.Team {
					t.Fatalf("reflected particle kept team %v", p.Team)
				}
			}
			if c.mc.vulnerable && !target.AI.Alerts.Has(component.AlertHitVulnerable) {
				t.Fatalf("vulnerable hit not flagged")
			}
		})
	}
}

func TestAlliedParticleDoesNotDamage(t *testing.T) {
	w := ecs.NewWorld()
	target := body(mgl32.Vec3{}, mgl32.Vec3{})
	target.Team = 1
	spawn(t, w, target)
	w.SpawnParticle(&component.Particle{
		Pos:     mgl32.Vec3{0.5, 0, 0.5},
		MinBump: geom.NewAABB(mgl32.Vec3{-0.5, -0.5, 0}, mgl32.Vec3{0.5, 0.5, 1}),
		Team:    1,
		Alive:   true,
		Damage:  component.DamageRange{Base: 10},
	})

	c := newContext(t)
	stats, _ := c.Run(w)
	if target.Life != 100 || stats.Hits != 0 {
		t.Fatalf("ally took damage: life %v %+v", target.Life, stats)
	}
}

func TestScoredHitAlertsOwnerAndHeldItems(t *testing.T) {
	w := ecs.NewWorld()
	target := body(mgl32.Vec3{}, mgl32.Vec3{})
	target.Team = 1
	spawn(t, w, target)

	archer := body(mgl32.Vec3{50, 0, 0}, mgl32.Vec3{})
	archer.Team = 2
	ae := spawn(t, w, archer)
	bow := body(mgl32.Vec3{50, 0, 0}, mgl32.Vec3{})
	bow.IsItem = true
	bow.AttachedTo = ae
	be := spawn(t, w, bow)
	archer.Holdings[0] = be

	arrow, _ := w.SpawnParticle(&component.Particle{
		Pos:       mgl32.Vec3{0.5, 0, 0.5},
		MinBump:   geom.NewAABB(mgl32.Vec3{-0.5, -0.5, 0}, mgl32.Vec3{0.5, 0.5, 1}),
		Team:      2,
		Owner:     ae,
		Alive:     true,
		Damage:    component.DamageRange{Base: 10},
		EndOnBump: true,
	})

	c := newContext(t)
	stats, _ := c.Run(w)
	if stats.Hits != 1 || stats.Terminations != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if !archer.AI.Alerts.Has(component.AlertScoredHit) || !bow.AI.Alerts.Has(component.AlertScoredHit) {
		t.Fatalf("scored hit alerts missing")
	}
	if target.AI.LastAttacker != ae {
		t.Fatalf("last attacker %v, want %v", target.AI.LastAttacker, ae)
	}
	if p := w.Particle(arrow); p == nil || !p.Terminated {
		t.Fatalf("arrow not terminated")
	}
}

func TestMoneyPickup(t *testing.T) {
	w := ecs.NewWorld()
	hero := body(mgl32.Vec3{}, mgl32.Vec3{})
	hero.CanGrabMoney = true
	spawn(t, w, hero)
	coin, _ := w.SpawnParticle(&component.Particle{
		Pos:     mgl32.Vec3{0.5, 0, 0.5},
		MinBump: geom.NewAABB(mgl32.Vec3{-0.25, -0.25, 0}, mgl32.Vec3{0.25, 0.25, 0.5}),
		Alive:   true,
		Money:   5,
	})

	c := newContext(t)
	c.Run(w)
	if hero.Money != 5 || !w.Particle(coin).Terminated {
		t.Fatalf("coin not picked up: money %d", hero.Money)
	}
}

func TestArenaFullDegrades(t *testing.T) {
	w := ecs.NewWorld()
	for i := 0; i < 3; i++ {
		spawn(t, w, body(mgl32.Vec3{float32(i) * 0.5, 0, 0}, mgl32.Vec3{}))
	}
	tuning := DefaultTuning()
	tuning.ArenaCapacity = 1
	c, err := New(tuning, &listIndex{}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	stats, err := c.Run(w)
	if err != nil {
		t.Fatalf("run should degrade, not fail: %v", err)
	}
	if stats.Candidates != 1 || stats.Dropped == 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

type wallAt struct{ x float32 }

func (w wallAt) TestWall(b geom.AABB) WallFlags {
	if b.Max.X() > w.x {
		return WallSolid
	}
	return 0
}

func TestIntegratorRollsBackBlockedAxis(t *testing.T) {
	c, _ := New(DefaultTuning(), nil, wallAt{x: 2})
	pos := mgl32.Vec3{0, 0, 0}
	vel := mgl32.Vec3{}
	acc := component.PhysicsAccumulator{DPosCollision: mgl32.Vec3{3, 1, 0}}

	c.applyBody(&pos, &vel, box(1, 2), &acc, -100, 0)
	if pos != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("expected x rolled back and y applied, got %v", pos)
	}
}

func TestIntegratorClampsAndBounces(t *testing.T) {
	c, _ := New(DefaultTuning(), nil, nil)
	pos := mgl32.Vec3{0, 0, 1}
	vel := mgl32.Vec3{0, 0, -4}
	acc := component.PhysicsAccumulator{DPosCollision: mgl32.Vec3{1000, 0, -3}}

	c.applyBody(&pos, &vel, box(1, 2), &acc, 0, 0.5)
	if pos.X() != c.tuning.MaxCorrection {
		t.Fatalf("correction not clamped: %v", pos)
	}
	if pos.Z() != 0 || vel.Z() != 2 {
		t.Fatalf("expected floor bounce, got pos %v vel %v", pos, vel)
	}
}
