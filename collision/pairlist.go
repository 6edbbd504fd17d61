package collision

import (
	"cmp"
	"slices"
)

// PairList is the deduplicated candidate list of one tick, earliest contact
// first. Every resolver walks it in this order.
type PairList []Candidate

// BuildPairList drains t into dst and sorts it.
func BuildPairList(t *PairTable, dst PairList) PairList {
	dst = t.AppendTo(dst[:0])
	SortPairs(dst)
	return dst
}

// SortPairs orders by (TMin, TMax, A, B, TileB).
func SortPairs(list PairList) {
	slices.SortStableFunc(list, comparePairs)
}

func comparePairs(a, b Candidate) int {
	if c := cmp.Compare(a.TMin, b.TMin); c != 0 {
		return c
	}
	if c := cmp.Compare(a.TMax, b.TMax); c != 0 {
		return c
	}
	if c := cmp.Compare(a.A, b.A); c != 0 {
		return c
	}
	if c := cmp.Compare(a.B, b.B); c != 0 {
		return c
	}
	return cmp.Compare(a.TileB, b.TileB)
}
