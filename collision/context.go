// Package collision finds which characters and particles touch during a tick
// and works out how they react.
package collision

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/collider/ecs"
)

var (
	ErrUnusable = errors.New("collision: context not initialized")
	ErrNilWorld = errors.New("collision: nil world")
)

// Stats counts what one pass did.
type Stats struct {
	Candidates     int
	Dropped        int
	Mounts         int
	PlatformAttach int
	PlatformDetach int
	Bumps          int
	Pressures      int
	Hits           int
	Damage         float32
	Deflections    int
	Terminations   int
	Integrated     int
}

// Context owns the per-tick scratch of the collision pass. It is reused
// across ticks and is not safe for concurrent use.
type Context struct {
	tuning Tuning
	index  SpatialIndex
	walls  WallTester
	hooks  Hooks
	scaler DamageScaler

	table   *PairTable
	list    PairList
	handled []bool
	leaves  []Leaf

	platforms platformScratch
	stats     Stats
}

// New creates a context. A nil index disables the broad phase and a nil
// walls tester lets every correction through.
func New(t Tuning, index SpatialIndex, walls WallTester) (*Context, error) {
	table, err := NewPairTable(t.ArenaCapacity, t.Buckets)
	if err != nil {
		log.Printf("collision: pair table %dx%d: %v", t.ArenaCapacity, t.Buckets, err)
		return nil, fmt.Errorf("collision: new: %w", err)
	}
	return &Context{
		tuning:    t,
		index:     index,
		walls:     walls,
		scaler:    DefaultScaler(),
		table:     table,
		platforms: newPlatformScratch(),
	}, nil
}

// SetHooks routes game effects somewhere other than the world being run.
func (c *Context) SetHooks(h Hooks) {
	if c == nil {
		return
	}
	c.hooks = h
}

func (c *Context) SetScaler(s DamageScaler) {
	if c == nil {
		return
	}
	if s == nil {
		s = DefaultScaler()
	}
	c.scaler = s
}

// SetTuning swaps the tuning between ticks. The pair table is resized when
// its dimensions change.
func (c *Context) SetTuning(t Tuning) error {
	if c == nil {
		return ErrUnusable
	}
	if t.ArenaCapacity != c.tuning.ArenaCapacity || t.Buckets != c.tuning.Buckets {
		table, err := NewPairTable(t.ArenaCapacity, t.Buckets)
		if err != nil {
			return fmt.Errorf("collision: set tuning: %w", err)
		}
		c.table = table
	}
	c.tuning = t
	return nil
}

func (c *Context) Tuning() Tuning {
	if c == nil {
		return Tuning{}
	}
	return c.tuning
}

// Pairs is the sorted pair list of the last pass. It is overwritten by the
// next Run.
func (c *Context) Pairs() PairList {
	if c == nil {
		return nil
	}
	return c.list
}

// Run performs one full pass over w.
func (c *Context) Run(w *ecs.World) (Stats, error) {
	if c == nil || c.table == nil {
		return Stats{}, ErrUnusable
	}
	if w == nil {
		return Stats{}, ErrNilWorld
	}
	hooks := c.hooks
	if hooks == nil {
		hooks = w
	}

	c.begin(w)
	if c.index != nil {
		c.index.Rebuild(w)
		c.broadPhase(w)
	}

	c.list = BuildPairList(c.table, c.list)
	c.stats.Candidates = len(c.list)
	c.handled = c.handled[:0]
	for range c.list {
		c.handled = append(c.handled, false)
	}

	c.resolveMounts(w, hooks)
	c.resolvePlatforms(w, hooks)
	for i, cand := range c.list {
		if c.handled[i] {
			continue
		}
		if cand.A.IsCharacter() && cand.B.IsCharacter() {
			c.resolveChrChr(w, cand)
		} else {
			c.resolveChrPrt(w, hooks, cand)
		}
	}
	c.integrate(w)

	return c.stats, nil
}

func (c *Context) begin(w *ecs.World) {
	c.table.Reset()
	c.stats = Stats{}
	c.platforms.reset()
	for _, e := range w.Characters() {
		if ch := w.Character(e); ch != nil {
			ch.Accum.Reset()
		}
	}
	for _, e := range w.Particles() {
		if p := w.Particle(e); p != nil {
			p.Accum.Reset()
		}
	}
}

func (c *Context) insert(cand Candidate) {
	if _, err := c.table.InsertUnique(cand); err != nil {
		// logged once per tick
		if c.stats.Dropped == 0 {
			log.Printf("collision: dropping %s/%s: %v", cand.A, cand.B, err)
		}
		c.stats.Dropped++
	}
}
