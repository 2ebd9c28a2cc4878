package aggregator

import (
	"math"
	"sort"
)

// grouper accumulates values by key and remembers the order in which keys
// were first seen.
type grouper[A any] struct {
	keys []string
	acc  map[string]*A
}

func newGrouper[A any](seed ...string) *grouper[A] {
	g := &grouper[A]{acc: make(map[string]*A)}
	for _, k := range seed {
		g.add(k)
	}
	return g
}

// add returns the accumulator for key, creating a zero one if needed.
func (g *grouper[A]) add(key string) *A {
	if a, ok := g.acc[key]; ok {
		return a
	}
	a := new(A)
	g.acc[key] = a
	g.keys = append(g.keys, key)
	return a
}

func (g *grouper[A]) len() int { return len(g.keys) }

// rank finalizes every group in first-seen order, stable sorts the result
// with less (nil keeps first-seen order) and keeps at most limit entries
// (limit <= 0 keeps all).
func rank[A, R any](g *grouper[A], finalize func(key string, a *A) R, less func(a, b R) bool, limit int) []R {
	out := make([]R, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, finalize(k, g.acc[k]))
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// bucket is the accumulator shared by time buckets and cuisines.
type bucket struct {
	orders int
	amount float64
}

// roundMoney rounds a summed amount to whole currency units.
func roundMoney(v float64) int64 { return int64(math.Round(v)) }

func average(total float64, n int) int64 {
	if n == 0 {
		return 0
	}
	return roundMoney(total / float64(n))
}
