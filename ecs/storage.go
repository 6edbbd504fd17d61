package ecs

import "github.com/milk9111/collider/ecs/component"

// entityStore tracks slot generations and free slots for one entity kind.
type entityStore struct {
	kind   component.Kind
	nextID uint32
	gen    []uint32
	free   []uint32
}

func (s *entityStore) create() Entity {
	if s == nil {
		return None
	}
	var id uint32
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.nextID++
		id = s.nextID
		for int(id) > len(s.gen) {
			s.gen = append(s.gen, 0)
		}
	}
	return component.MakeEntity(s.kind, id, s.gen[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.Index() - 1
	s.gen[idx]++
	s.free = append(s.free, e.Index())
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || e.Kind() != s.kind || e.Index() == 0 || int(e.Index()) > len(s.gen) {
		return false
	}
	return s.gen[e.Index()-1]&0xFFFFFF == e.Generation()
}
