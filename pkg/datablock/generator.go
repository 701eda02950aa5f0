package datablock

import (
	"iter"
	"sort"
	"spectra/pkg/common"
)

// Generator walks a set of disjoint intervals in increasing order, one
// spectrum number at a time. It is single use; build a new one to restart.
type Generator struct {
	intervals []common.ClosedInterval
	pos       int
	value     int64
	active    bool
}

// NewGenerator copies and sorts intervals by Start.
func NewGenerator(intervals []common.ClosedInterval) *Generator {
	g := &Generator{
		intervals: make([]common.ClosedInterval, len(intervals)),
	}
	copy(g.intervals, intervals)
	sort.Slice(g.intervals, func(i, j int) bool {
		return g.intervals[i].Start < g.intervals[j].Start
	})
	if len(g.intervals) > 0 {
		g.active = true
		g.value = g.intervals[0].Start
	}
	return g
}

func (g *Generator) Done() bool {
	return !g.active
}

// Value is meaningless once Done reports true.
func (g *Generator) Value() int64 {
	return g.value
}

func (g *Generator) Next() {
	if !g.active {
		return
	}
	if g.value < g.intervals[g.pos].End {
		g.value++
		return
	}
	g.pos++
	if g.pos >= len(g.intervals) {
		g.active = false
		return
	}
	g.value = g.intervals[g.pos].Start
}

// All drains the generator.
func (g *Generator) All() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for !g.Done() {
			v := g.Value()
			g.Next()
			if !yield(v) {
				return
			}
		}
	}
}
