package main

import (
	"fmt"
	"log"

	"github.com/milk9111/collider/collision"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/entity"
	"github.com/milk9111/collider/ecs/system"
	"github.com/milk9111/collider/prefabs"
	"github.com/milk9111/collider/spatial"
)

// Sim steps one scenario world.
type Sim struct {
	frames int
	ticks  int

	world     *ecs.World
	collision *system.CollisionSystem
	spawned   entity.Spawned
	totals    collision.Stats
}

func NewSim(scenarioPath string) (*Sim, error) {
	spec, err := prefabs.LoadScenario(scenarioPath)
	if err != nil {
		return nil, err
	}
	settings, err := system.LoadSettings()
	if err != nil {
		return nil, err
	}
	terrain, err := spatial.NewTerrain(spec.Terrain)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenarioPath, err)
	}
	ctx, err := collision.New(settings.Tuning, spatial.NewIndex(), terrain)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	spawned, err := entity.SpawnScenario(world, spec)
	if err != nil {
		return nil, err
	}

	sys := system.NewCollisionSystem(ctx)
	sys.Apply(world, settings)
	world.AddSystem(sys)
	world.AddSystem(system.NewMotionSystem(terrain))

	log.Printf("scenario %s: %d spawns, %d wall boxes", spec.Name, len(spawned), terrain.Walls())
	return &Sim{
		ticks:     spec.Ticks,
		world:     world,
		collision: sys,
		spawned:   spawned,
	}, nil
}

func (s *Sim) Update() error {
	s.frames++
	s.world.Update()
	if err := s.collision.Err(); err != nil {
		return err
	}

	st := s.collision.Stats()
	s.totals.Candidates += st.Candidates
	s.totals.Dropped += st.Dropped
	s.totals.Mounts += st.Mounts
	s.totals.PlatformAttach += st.PlatformAttach
	s.totals.PlatformDetach += st.PlatformDetach
	s.totals.Bumps += st.Bumps
	s.totals.Pressures += st.Pressures
	s.totals.Hits += st.Hits
	s.totals.Damage += st.Damage
	s.totals.Deflections += st.Deflections
	s.totals.Terminations += st.Terminations
	s.totals.Integrated += st.Integrated
	return nil
}

// Run steps the world n times, or the scenario's own tick count when n is
// not positive.
func (s *Sim) Run(n int) error {
	if n <= 0 {
		n = s.ticks
	}
	for i := 0; i < n; i++ {
		if err := s.Update(); err != nil {
			return fmt.Errorf("tick %d: %w", s.frames, err)
		}
	}
	return nil
}

func (s *Sim) Totals() collision.Stats {
	return s.totals
}

func (s *Sim) Collision() *system.CollisionSystem {
	return s.collision
}

func (s *Sim) World() *ecs.World {
	return s.world
}
