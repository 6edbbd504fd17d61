package collision

import (
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
)

func (c *Context) resolveMounts(w *ecs.World, hooks Hooks) {
	for i, cand := range c.list {
		if !cand.A.IsCharacter() || !cand.B.IsCharacter() {
			continue
		}
		a, b := w.Character(cand.A), w.Character(cand.B)
		if a == nil || b == nil {
			continue
		}
		switch {
		case canMount(w, cand.A, a, cand.B, b):
			c.handled[i] = c.tryMount(hooks, cand.A, cand.B)
		case canMount(w, cand.B, b, cand.A, a):
			c.handled[i] = c.tryMount(hooks, cand.B, cand.A)
		}
	}
}

// canMount reports whether rider is in the saddle of mount and heading into
// it rather than away.
func canMount(w *ecs.World, riderE ecs.Entity, rider *component.Character, mountE ecs.Entity, mount *component.Character) bool {
	if !rider.CanRide || rider.IsMount || rider.IsItem || rider.AttachedTo.Valid() {
		return false
	}
	if !mount.IsMount || mount.IsItem {
		return false
	}
	if mount.Rider.Valid() && w.IsAlive(mount.Rider) {
		return false
	}
	if rider.DismountTimer > 0 && rider.DismountObject == mountE {
		return false
	}
	seat := mount.SeatBox()
	if !seat.Contains(rider.Pos) {
		return false
	}
	toSeat := seat.Center.Sub(rider.Pos)
	return toSeat.Dot(rider.Vel.Sub(mount.Vel)) >= 0
}

func (c *Context) tryMount(hooks Hooks, rider, mount ecs.Entity) bool {
	if err := hooks.AttachToMount(rider, mount); err != nil {
		return false
	}
	c.stats.Mounts++
	return true
}
