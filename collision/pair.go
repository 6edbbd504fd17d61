package collision

import (
	"errors"

	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/geom"
)

var (
	ErrArenaFull       = errors.New("collision: pair arena full")
	ErrInvalidCapacity = errors.New("collision: invalid pair table capacity")
)

// TileID names a static map tile taking part in a pair.
type TileID int32

// NoTile marks a candidate between two entities.
const NoTile TileID = -1

// Candidate is a possible contact found by the broad phase. TMin and TMax
// bound the window of normalized tick time during which the boxes overlap;
// the window may reach outside [0,1].
type Candidate struct {
	A, B       ecs.Entity
	TileB      TileID
	TMin, TMax float32
	Overlap    geom.AABB
}

// Reversed swaps the two entities.
func (c Candidate) Reversed() Candidate {
	c.A, c.B = c.B, c.A
	return c
}

// SamePair reports whether both candidates name the same contact in either
// orientation.
func (c Candidate) SamePair(o Candidate) bool {
	if c.TileB != o.TileB {
		return false
	}
	return (c.A == o.A && c.B == o.B) || (c.A == o.B && c.B == o.A)
}

// PairKey is an order independent hash of a candidate's participants.
type PairKey uint64

// KeyOf hashes a pair so that KeyOf(a, b, t) == KeyOf(b, a, t).
func KeyOf(a, b ecs.Entity, tile TileID) PairKey {
	lo, hi := uint64(a), uint64(b)
	if lo > hi {
		lo, hi = hi, lo
	}
	h := mix64(lo ^ mix64(hi))
	if tile != NoTile {
		h ^= mix64(uint64(uint32(tile)) | 1<<63)
	}
	return PairKey(h)
}

func (c Candidate) Key() PairKey {
	return KeyOf(c.A, c.B, c.TileB)
}

// splitmix64 finalizer
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

type pairNode struct {
	cand Candidate
	key  PairKey
	next int32
}

// PairTable deduplicates candidates within one tick. Nodes come from a fixed
// arena and are chained per bucket by index, so Reset never allocates.
type PairTable struct {
	buckets []int32
	nodes   []pairNode
	used    int
}

// NewPairTable sizes the arena for capacity candidates spread over buckets.
func NewPairTable(capacity, buckets int) (*PairTable, error) {
	if capacity <= 0 || buckets <= 0 {
		return nil, ErrInvalidCapacity
	}
	t := &PairTable{
		buckets: make([]int32, buckets),
		nodes:   make([]pairNode, capacity),
	}
	t.Reset()
	return t, nil
}

// Reset empties every bucket and hands all nodes back to the arena.
func (t *PairTable) Reset() {
	if t == nil {
		return
	}
	for i := range t.buckets {
		t.buckets[i] = -1
	}
	t.used = 0
}

// InsertUnique adds c unless the same pair, in either orientation, is
// already present. It returns true when c was added.
func (t *PairTable) InsertUnique(c Candidate) (bool, error) {
	if t == nil || len(t.buckets) == 0 {
		return false, ErrInvalidCapacity
	}
	key := c.Key()
	bucket := int(uint64(key) % uint64(len(t.buckets)))
	for i := t.buckets[bucket]; i >= 0; i = t.nodes[i].next {
		n := &t.nodes[i]
		if n.key == key && n.cand.SamePair(c) {
			return false, nil
		}
	}
	if t.used >= len(t.nodes) {
		return false, ErrArenaFull
	}
	idx := int32(t.used)
	t.used++
	t.nodes[idx] = pairNode{cand: c, key: key, next: t.buckets[bucket]}
	t.buckets[bucket] = idx
	return true, nil
}

// Contains reports whether the pair is present in either orientation.
func (t *PairTable) Contains(c Candidate) bool {
	if t == nil || len(t.buckets) == 0 {
		return false
	}
	key := c.Key()
	bucket := int(uint64(key) % uint64(len(t.buckets)))
	for i := t.buckets[bucket]; i >= 0; i = t.nodes[i].next {
		if t.nodes[i].key == key && t.nodes[i].cand.SamePair(c) {
			return true
		}
	}
	return false
}

func (t *PairTable) Len() int {
	if t == nil {
		return 0
	}
	return t.used
}

func (t *PairTable) Capacity() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// AppendTo appends every stored candidate to dst in insertion order.
func (t *PairTable) AppendTo(dst []Candidate) []Candidate {
	if t == nil {
		return dst
	}
	for i := 0; i < t.used; i++ {
		dst = append(dst, t.nodes[i].cand)
	}
	return dst
}
