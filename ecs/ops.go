package ecs

import (
	"fmt"

	"github.com/milk9111/collider/ecs/component"
)

// The methods in this file are the default game-side answers to the
// requests the collision pass makes. They keep the rules deliberately plain.

// ApplyDamage subtracts the midpoint of the damage range from the target's
// life and returns the amount dealt.
func (w *World) ApplyDamage(target Entity, req component.DamageRequest) float32 {
	c := w.Character(target)
	if !c.Active() || c.DamageTime > 0 {
		return 0
	}
	amount := req.Amount.Base + req.Amount.Rand*0.5
	if amount <= 0 {
		return 0
	}
	if amount > c.Life {
		amount = c.Life
	}
	c.Life -= amount
	c.DamageTime = w.DamageInvulnTicks
	c.AI.Alerts.Set(component.AlertAttacked)
	c.AI.LastAttacker = req.Attacker
	if c.Life <= 0 {
		c.Alive = false
	}

	if attacker := w.Character(req.Attacker); attacker != nil {
		if req.LifeDrain > 0 {
			attacker.Life = min(attacker.MaxLife, attacker.Life+req.LifeDrain)
		}
		if req.ManaDrain > 0 {
			drained := min(c.Mana, req.ManaDrain)
			c.Mana -= drained
			attacker.Mana += drained
		}
	}

	w.events.PushCollision(CollisionEvent{Entity: target, Other: req.Attacker, Kind: CollisionEventDamaged, Amount: amount})
	return amount
}

// SpendMana takes cost from payer if it can afford it.
func (w *World) SpendMana(payer Entity, cost float32) bool {
	c := w.Character(payer)
	if c == nil || !c.Alive {
		return false
	}
	if cost <= 0 {
		return true
	}
	if c.Mana < cost {
		return false
	}
	c.Mana -= cost
	return true
}

func (w *World) GiveMoney(e Entity, amount int) {
	c := w.Character(e)
	if c == nil || amount <= 0 {
		return
	}
	c.Money += amount
	w.events.PushCollision(CollisionEvent{Entity: e, Kind: CollisionEventMoneyGrabbed, Amount: float32(amount)})
}

// AttachToMount seats rider on mount.
func (w *World) AttachToMount(rider, mount Entity) error {
	r := w.Character(rider)
	m := w.Character(mount)
	if !r.Active() || !m.Active() {
		return ErrEntityNotAlive
	}
	if !m.IsMount || m.IsItem {
		return fmt.Errorf("attach %s: %w", mount, ErrNotMountable)
	}
	if !r.CanRide || r.IsMount || r.AttachedTo.Valid() {
		return fmt.Errorf("attach %s: %w", rider, ErrCannotRide)
	}
	if m.Rider.Valid() && w.IsAlive(m.Rider) {
		return fmt.Errorf("attach %s to %s: %w", rider, mount, ErrSaddleTaken)
	}

	r.AttachedTo = mount
	m.Rider = rider
	r.Pos = m.SeatBox().Center
	r.Vel = m.Vel
	r.OnPlatform = None
	r.AI.Alerts.Set(component.AlertMounted)
	w.events.PushCollision(CollisionEvent{Entity: rider, Other: mount, Kind: CollisionEventMounted})
	return nil
}

// Dismount removes rider from its mount and starts the grace period during
// which the two do not collide.
func (w *World) Dismount(rider Entity) error {
	r := w.Character(rider)
	if r == nil {
		return ErrEntityNotAlive
	}
	mount := r.AttachedTo
	if m := w.Character(mount); m != nil && m.Rider == rider {
		m.Rider = None
	}
	r.AttachedTo = None
	r.DismountTimer = w.DismountTicks
	r.DismountObject = mount
	w.events.PushCollision(CollisionEvent{Entity: rider, Other: mount, Kind: CollisionEventDismounted})
	return nil
}

// AttachToPlatform makes rider stand on platform at the given surface level.
func (w *World) AttachToPlatform(rider, platform Entity, level float32) {
	r := w.Character(rider)
	if r == nil || w.Character(platform) == nil {
		return
	}
	r.OnPlatform = platform
	r.PlatformLevel = level
	w.events.PushCollision(CollisionEvent{Entity: rider, Other: platform, Kind: CollisionEventPlatformOn, Amount: level})
}

func (w *World) DetachFromPlatform(rider Entity) {
	r := w.Character(rider)
	if r == nil || !r.OnPlatform.Valid() {
		return
	}
	platform := r.OnPlatform
	r.OnPlatform = None
	r.PlatformLevel = 0
	w.events.PushCollision(CollisionEvent{Entity: rider, Other: platform, Kind: CollisionEventPlatformOff})
}

// TerminateParticle flags p for removal; the particle system reaps it.
func (w *World) TerminateParticle(e Entity) {
	p := w.Particle(e)
	if p == nil || p.Terminated {
		return
	}
	p.Terminated = true
	w.events.PushCollision(CollisionEvent{Entity: e, Kind: CollisionEventTerminated})
}

// ReaffirmAttached relights the particles attached to character e, hidden
// ones included.
func (w *World) ReaffirmAttached(e Entity) {
	if w == nil || !e.Valid() {
		return
	}
	n := 0
	for _, p := range w.prts.Values() {
		if p.AttachedTo == e && p.Alive && !p.Terminated {
			p.Hidden = false
			n++
		}
	}
	w.events.PushCollision(CollisionEvent{Entity: e, Kind: CollisionEventReaffirmed, Amount: float32(n)})
}

// ReapParticles destroys every terminated particle and returns how many.
func (w *World) ReapParticles() int {
	var dead []Entity
	ents := w.prts.Entities()
	for i, p := range w.prts.Values() {
		if p.Terminated {
			dead = append(dead, ents[i])
		}
	}
	for _, e := range dead {
		w.DestroyEntity(e)
	}
	return len(dead)
}
