package ecs

import "github.com/milk9111/collider/ecs/component"

// Entity is the generational handle used everywhere in the simulation.
type Entity = component.Entity

// None is the invalid handle.
const None = component.None
