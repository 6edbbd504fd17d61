package ecs

// ActiveCharacters returns the characters that take part in collisions.
func (w *World) ActiveCharacters() []Entity {
	if w == nil {
		return nil
	}
	ents := w.chars.Entities()
	vals := w.chars.Values()
	out := make([]Entity, 0, len(ents))
	for i, e := range ents {
		if vals[i].Active() {
			out = append(out, e)
		}
	}
	return out
}

// ActiveParticles returns the particles that take part in collisions.
func (w *World) ActiveParticles() []Entity {
	if w == nil {
		return nil
	}
	ents := w.prts.Entities()
	vals := w.prts.Values()
	out := make([]Entity, 0, len(ents))
	for i, e := range ents {
		if vals[i].Active() {
			out = append(out, e)
		}
	}
	return out
}

// ParticlesAttachedTo returns the particles riding on character e.
func (w *World) ParticlesAttachedTo(e Entity) []Entity {
	if w == nil || !e.Valid() {
		return nil
	}
	var out []Entity
	ents := w.prts.Entities()
	for i, p := range w.prts.Values() {
		if p.AttachedTo == e && p.Active() {
			out = append(out, ents[i])
		}
	}
	return out
}
