package ecs

import (
	"errors"

	"github.com/milk9111/collider/ecs/component"
)

var (
	ErrEntityNotAlive = errors.New("ecs: entity not alive")
	ErrNilComponent   = errors.New("ecs: component is nil")
	ErrNotMountable   = errors.New("ecs: entity cannot be mounted")
	ErrCannotRide     = errors.New("ecs: entity cannot ride")
	ErrSaddleTaken    = errors.New("ecs: saddle already taken")
)

const (
	defaultDamageInvulnTicks = 30
	defaultDismountTicks     = 20
)

// World owns characters, particles, teams and system order.
type World struct {
	characters entityStore
	particles  entityStore

	chars SparseSet[*component.Character]
	prts  SparseSet[*component.Particle]

	teams     *component.TeamTable
	scheduler *Scheduler
	events    EventQueue
	tick      uint64

	// DamageInvulnTicks is how long a character ignores further hits after
	// taking damage.
	DamageInvulnTicks int
	// DismountTicks is the grace period after leaving a mount.
	DismountTicks int
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		characters:        entityStore{kind: component.KindCharacter},
		particles:         entityStore{kind: component.KindParticle},
		teams:             component.NewTeamTable(),
		scheduler:         NewScheduler(),
		DamageInvulnTicks: defaultDamageInvulnTicks,
		DismountTicks:     defaultDismountTicks,
	}
}

// SpawnCharacter stores c and returns its handle.
func (w *World) SpawnCharacter(c *component.Character) (Entity, error) {
	if c == nil {
		return None, ErrNilComponent
	}
	e := w.characters.create()
	w.chars.Set(e, c)
	return e, nil
}

// SpawnParticle stores p and returns its handle.
func (w *World) SpawnParticle(p *component.Particle) (Entity, error) {
	if p == nil {
		return None, ErrNilComponent
	}
	e := w.particles.create()
	w.prts.Set(e, p)
	return e, nil
}

// DestroyEntity frees the slot of e. Handles to it go stale.
func (w *World) DestroyEntity(e Entity) bool {
	switch e.Kind() {
	case component.KindCharacter:
		w.chars.Remove(e)
		return w.characters.destroy(e)
	case component.KindParticle:
		w.prts.Remove(e)
		return w.particles.destroy(e)
	}
	return false
}

// IsAlive reports whether a handle is current.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	switch e.Kind() {
	case component.KindCharacter:
		return w.characters.isAlive(e)
	case component.KindParticle:
		return w.particles.isAlive(e)
	}
	return false
}

// Character resolves a character handle; stale or foreign handles give nil.
func (w *World) Character(e Entity) *component.Character {
	if w == nil || !e.IsCharacter() {
		return nil
	}
	c, _ := w.chars.Get(e)
	return c
}

// Particle resolves a particle handle; stale or foreign handles give nil.
func (w *World) Particle(e Entity) *component.Particle {
	if w == nil || !e.IsParticle() {
		return nil
	}
	p, _ := w.prts.Get(e)
	return p
}

// Characters returns all character handles in storage order.
func (w *World) Characters() []Entity {
	if w == nil {
		return nil
	}
	return w.chars.Entities()
}

// Particles returns all particle handles in storage order.
func (w *World) Particles() []Entity {
	if w == nil {
		return nil
	}
	return w.prts.Entities()
}

// Teams returns the team hatred table.
func (w *World) Teams() *component.TeamTable {
	if w == nil {
		return nil
	}
	return w.teams
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Update runs all systems once and advances per-tick timers. Events raised
// during the update stay readable until the next Update.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.events.flush()
	w.scheduler.Update(w)
	w.advanceTimers()
	w.tick++
}

// Tick is the number of completed updates.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) advanceTimers() {
	for _, c := range w.chars.Values() {
		if c.DamageTime > 0 {
			c.DamageTime--
		}
		if c.DismountTimer > 0 {
			c.DismountTimer--
			if c.DismountTimer == 0 {
				c.DismountObject = None
			}
		}
	}
}
