package entity

import (
	"fmt"

	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/ecs/component"
	"github.com/milk9111/collider/prefabs"
)

// Spawned maps scenario spawn names to their handles.
type Spawned map[string]ecs.Entity

// SpawnScenario builds every spawn of spec and then wires the references
// between them. Unnamed spawns can not be referenced.
func SpawnScenario(w *ecs.World, spec prefabs.ScenarioSpec) (Spawned, error) {
	if w == nil {
		return nil, fmt.Errorf("spawn scenario: world is nil")
	}

	spawned := make(Spawned, len(spec.Spawns))
	handles := make([]ecs.Entity, len(spec.Spawns))
	for i, s := range spec.Spawns {
		e, err := BuildEntity(w, s.Prefab)
		if err != nil {
			return nil, fmt.Errorf("spawn scenario %q: %w", spec.Name, err)
		}
		if s.Name != "" {
			if _, dup := spawned[s.Name]; dup {
				return nil, fmt.Errorf("spawn scenario %q: duplicate spawn name %q", spec.Name, s.Name)
			}
			spawned[s.Name] = e
		}
		handles[i] = e
		place(w, e, s)
	}

	for i, s := range spec.Spawns {
		if err := link(w, spawned, handles[i], s); err != nil {
			return nil, fmt.Errorf("spawn scenario %q: %s: %w", spec.Name, s.Prefab, err)
		}
	}
	return spawned, nil
}

func place(w *ecs.World, e ecs.Entity, s prefabs.SpawnSpec) {
	if c := w.Character(e); c != nil {
		c.Pos = vec3(s.Pos)
		c.Vel = vec3(s.Vel)
		c.Facing = s.Facing
		if s.Team != nil {
			c.Team = component.TeamID(*s.Team)
		}
		if s.Name != "" {
			c.Name = s.Name
		}
		return
	}
	if p := w.Particle(e); p != nil {
		p.Pos = vec3(s.Pos)
		p.Vel = vec3(s.Vel)
		if s.Team != nil {
			p.Team = component.TeamID(*s.Team)
		}
		if s.Name != "" {
			p.Name = s.Name
		}
	}
}

func link(w *ecs.World, spawned Spawned, e ecs.Entity, s prefabs.SpawnSpec) error {
	lookup := func(field, name string) (ecs.Entity, error) {
		if name == "" {
			return ecs.None, nil
		}
		ref, ok := spawned[name]
		if !ok {
			return ecs.None, fmt.Errorf("%s: unknown spawn %q", field, name)
		}
		return ref, nil
	}

	attach, err := lookup("attach_to", s.AttachTo)
	if err != nil {
		return err
	}

	if c := w.Character(e); c != nil {
		if len(s.Holds) > len(c.Holdings) {
			return fmt.Errorf("holds: at most %d items, got %d", len(c.Holdings), len(s.Holds))
		}
		for i, name := range s.Holds {
			item, err := lookup("holds", name)
			if err != nil {
				return err
			}
			c.Holdings[i] = item
		}
		if !attach.Valid() {
			return nil
		}
		if m := w.Character(attach); m != nil && m.IsMount && c.CanRide {
			return w.AttachToMount(e, attach)
		}
		c.AttachedTo = attach
		return nil
	}

	p := w.Particle(e)
	if p == nil {
		return nil
	}
	owner, err := lookup("owner", s.Owner)
	if err != nil {
		return err
	}
	parent, err := lookup("parent", s.Parent)
	if err != nil {
		return err
	}
	if owner.Valid() && !owner.IsCharacter() {
		return fmt.Errorf("owner: %q is not a character", s.Owner)
	}
	if parent.Valid() && !parent.IsParticle() {
		return fmt.Errorf("parent: %q is not a particle", s.Parent)
	}
	if attach.Valid() && !attach.IsCharacter() {
		return fmt.Errorf("attach_to: %q is not a character", s.AttachTo)
	}
	p.Owner = owner
	p.Parent = parent
	p.AttachedTo = attach
	if s.Team == nil && p.Team == component.TeamNull {
		if oc := w.Character(owner); oc != nil {
			p.Team = oc.Team
		}
	}
	return nil
}
