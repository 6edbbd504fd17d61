package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/collider/collision"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/geom"
)

const maxAttachDepth = 4

// MotionSystem advances every free body by its velocity after the collision
// pass. Riders, held items and attached particles follow whatever they are
// attached to.
type MotionSystem struct {
	walls collision.WallTester
	moved map[ecs.Entity]mgl32.Vec3
}

func NewMotionSystem(walls collision.WallTester) *MotionSystem {
	return &MotionSystem{walls: walls, moved: make(map[ecs.Entity]mgl32.Vec3)}
}

func (s *MotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	clear(s.moved)
	s.throwRiders(w)

	for _, e := range w.ActiveCharacters() {
		c := w.Character(e)
		if c.AttachedTo.Valid() {
			continue
		}
		if c.Immovable {
			s.moved[e] = mgl32.Vec3{}
			continue
		}
		before := c.Pos
		s.step(&c.Pos, &c.Vel, c.Bump)
		if floor := c.EffectiveFloor(); c.Pos.Z() < floor {
			c.Pos[2] = floor
			if c.Vel.Z() < 0 {
				c.Vel[2] = 0
			}
		}
		s.moved[e] = c.Pos.Sub(before)
	}

	for _, e := range w.ActiveCharacters() {
		if w.Character(e).AttachedTo.Valid() {
			s.follow(w, e, 0)
		}
	}

	for _, e := range w.ActiveParticles() {
		p := w.Particle(e)
		if p.AttachedTo.Valid() {
			p.Pos = p.Pos.Add(s.follow(w, p.AttachedTo, 0))
			continue
		}
		if s.step(&p.Pos, &p.Vel, p.MaxBump.Union(p.MinBump)) && (p.EndOnBump || p.EndOnGround) {
			w.TerminateParticle(e)
		}
	}
}

// throwRiders dismounts every rider whose mount died or no longer exists.
func (s *MotionSystem) throwRiders(w *ecs.World) {
	for _, e := range w.ActiveCharacters() {
		c := w.Character(e)
		if !c.AttachedTo.Valid() {
			continue
		}
		m := w.Character(c.AttachedTo)
		if m == nil || (m.IsMount && m.Rider == e && !m.Active()) {
			if err := w.Dismount(e); err != nil {
				log.Printf("motion: dismount %s: %v", e, err)
			}
		}
	}
}

// follow moves an attached character along with what it is attached to and
// returns how far e moved this update.
func (s *MotionSystem) follow(w *ecs.World, e ecs.Entity, depth int) mgl32.Vec3 {
	if d, ok := s.moved[e]; ok {
		return d
	}
	c := w.Character(e)
	if c == nil || depth >= maxAttachDepth {
		return mgl32.Vec3{}
	}
	holder := w.Character(c.AttachedTo)
	if holder == nil {
		s.moved[e] = mgl32.Vec3{}
		return mgl32.Vec3{}
	}

	before := c.Pos
	if holder.IsMount && holder.Rider == e {
		s.follow(w, c.AttachedTo, depth+1)
		c.Pos = holder.SeatBox().Center
	} else {
		c.Pos = c.Pos.Add(s.follow(w, c.AttachedTo, depth+1))
	}
	c.Vel = holder.Vel
	s.moved[e] = c.Pos.Sub(before)
	return s.moved[e]
}

// step moves pos by vel one axis at a time, zeroing the axes that would run
// into a wall. It reports whether any axis was blocked.
func (s *MotionSystem) step(pos, vel *mgl32.Vec3, bump geom.AABB) bool {
	blocked := false
	for i := 0; i < 3; i++ {
		if vel[i] == 0 {
			continue
		}
		trial := *pos
		trial[i] += vel[i]
		if s.walls != nil && s.walls.TestWall(bump.Translate(trial)) != 0 {
			vel[i] = 0
			blocked = true
			continue
		}
		*pos = trial
	}
	return blocked
}
