package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
)

type platformChoice struct {
	rider    ecs.Entity
	platform ecs.Entity
	level    float32
}

// platformScratch keeps the best platform per rider for the current tick.
// Choices stay in first-seen order so commits are deterministic.
type platformScratch struct {
	choices []platformChoice
	byRider map[ecs.Entity]int
}

func newPlatformScratch() platformScratch {
	return platformScratch{byRider: make(map[ecs.Entity]int)}
}

func (s *platformScratch) reset() {
	s.choices = s.choices[:0]
	clear(s.byRider)
}

// offer records platform as rider's target if it is higher than the current
// choice.
func (s *platformScratch) offer(rider, platform ecs.Entity, level float32) {
	if i, ok := s.byRider[rider]; ok {
		if level > s.choices[i].level {
			s.choices[i].platform = platform
			s.choices[i].level = level
		}
		return
	}
	s.byRider[rider] = len(s.choices)
	s.choices = append(s.choices, platformChoice{rider: rider, platform: platform, level: level})
}

func (s *platformScratch) chosen(rider ecs.Entity) (platformChoice, bool) {
	i, ok := s.byRider[rider]
	if !ok {
		return platformChoice{}, false
	}
	return s.choices[i], true
}

func (c *Context) resolvePlatforms(w *ecs.World, hooks Hooks) {
	// detect
	for i, cand := range c.list {
		if c.handled[i] || !cand.A.IsCharacter() || !cand.B.IsCharacter() {
			continue
		}
		a, b := w.Character(cand.A), w.Character(cand.B)
		if a == nil || b == nil {
			continue
		}
		if b.Platform && a.CanUsePlatforms {
			c.detectPlatform(cand.A, a, cand.B, b)
		}
		if a.Platform && b.CanUsePlatforms {
			c.detectPlatform(cand.B, b, cand.A, a)
		}
	}

	// commit
	for _, choice := range c.platforms.choices {
		rider := w.Character(choice.rider)
		platform := w.Character(choice.platform)
		if rider == nil || platform == nil {
			continue
		}
		if rider.OnPlatform != choice.platform || rider.PlatformLevel != choice.level {
			hooks.AttachToPlatform(choice.rider, choice.platform, choice.level)
			c.stats.PlatformAttach++
		}
		if feet := rider.Pos.Z(); feet < choice.level {
			rider.Accum.AddPlatform(mgl32.Vec3{0, 0, choice.level - feet})
		}
		if dv := platform.Vel.Z() - rider.Vel.Z(); dv > 0 {
			rider.Accum.AddVelocity(mgl32.Vec3{0, 0, dv})
		}
	}

	// riders that walked off
	for _, e := range w.Characters() {
		ch := w.Character(e)
		if ch == nil || !ch.OnPlatform.Valid() {
			continue
		}
		if _, ok := c.platforms.chosen(e); ok {
			continue
		}
		hooks.DetachFromPlatform(e)
		c.stats.PlatformDetach++
	}
}

func (c *Context) detectPlatform(riderE ecs.Entity, rider *component.Character, platE ecs.Entity, plat *component.Character) {
	if riderE == platE || !rider.Active() || !plat.Active() || rider.AttachedTo.Valid() {
		return
	}
	if !plat.BumpBox().ContainsPointXY(rider.Pos) {
		return
	}
	top := plat.Top()
	if math32.Abs(rider.Pos.Z()-top) > c.tuning.PlatformTolerance {
		return
	}
	c.platforms.offer(riderE, platE, top)
}
