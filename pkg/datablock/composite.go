package datablock

import (
	"fmt"
	"sort"
	"spectra/pkg/common"
	"strings"
)

// Composite is a possibly disjoint set of spectrum numbers held as a list
// of DataBlocks. Blocks are kept in insertion order and sorted on demand.
//
// Blocks whose interval is unset take part in counts but never in range
// operations.
type Composite struct {
	blocks []DataBlock
}

func NewComposite() *Composite {
	return &Composite{
		blocks: make([]DataBlock, 0),
	}
}

func sortBlocks(blocks []DataBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].MinSpectrumID() != blocks[j].MinSpectrumID() {
			return blocks[i].MinSpectrumID() < blocks[j].MinSpectrumID()
		}
		return blocks[i].MaxSpectrumID() < blocks[j].MaxSpectrumID()
	})
}

// AddDataBlock appends b. Callers keep periods and channels uniform across
// the blocks of one composite.
func (c *Composite) AddDataBlock(b DataBlock) {
	c.blocks = append(c.blocks, b)
}

// DataBlocks returns a sorted copy of the blocks.
func (c *Composite) DataBlocks() []DataBlock {
	blocks := make([]DataBlock, len(c.blocks))
	copy(blocks, c.blocks)
	sortBlocks(blocks)
	return blocks
}

// Intervals returns the sorted intervals of all bound blocks.
func (c *Composite) Intervals() []common.ClosedInterval {
	intervals := make([]common.ClosedInterval, 0, len(c.blocks))
	for _, b := range c.blocks {
		if ids, ok := b.Interval(); ok {
			intervals = append(intervals, ids)
		}
	}
	sort.SliceStable(intervals, func(i, j int) bool {
		if intervals[i].Start != intervals[j].Start {
			return intervals[i].Start < intervals[j].Start
		}
		return intervals[i].End < intervals[j].End
	})
	return intervals
}

// MinSpectrumID is undefined for a composite without bound blocks, in
// which case ok is false.
func (c *Composite) MinSpectrumID() (id int64, ok bool) {
	for _, b := range c.blocks {
		ids, bound := b.Interval()
		if !bound {
			continue
		}
		if !ok || ids.Start < id {
			id, ok = ids.Start, true
		}
	}
	return
}

func (c *Composite) MaxSpectrumID() (id int64, ok bool) {
	for _, b := range c.blocks {
		ids, bound := b.Interval()
		if !bound {
			continue
		}
		if !ok || ids.End > id {
			id, ok = ids.End, true
		}
	}
	return
}

func (c *Composite) NumberOfSpectra() int {
	total := 0
	for _, b := range c.blocks {
		total += b.NumberOfSpectra()
	}
	return total
}

func (c *Composite) NumberOfChannels() int {
	if len(c.blocks) == 0 {
		return 0
	}
	return c.DataBlocks()[0].NumberOfChannels()
}

func (c *Composite) NumberOfPeriods() int {
	if len(c.blocks) == 0 {
		return 0
	}
	return c.DataBlocks()[0].NumberOfPeriods()
}

func (c *Composite) IsEmpty() bool {
	return len(c.blocks) == 0
}

// Union concatenates the blocks of c and o into a new composite. Adjacent
// or overlapping blocks are not merged.
func (c *Composite) Union(o *Composite) *Composite {
	u := NewComposite()
	for _, b := range c.blocks {
		u.AddDataBlock(b)
	}
	for _, b := range o.blocks {
		u.AddDataBlock(b)
	}
	return u
}

func (c *Composite) Clone() *Composite {
	clone := &Composite{
		blocks: make([]DataBlock, len(c.blocks)),
	}
	copy(clone.blocks, c.blocks)
	return clone
}

func (c *Composite) Generator() *Generator {
	return NewGenerator(c.Intervals())
}

// AllSpectrumNumbers materializes every spectrum number in ascending order.
// Meant for small composites such as monitor sets.
func (c *Composite) AllSpectrumNumbers() []int64 {
	numbers := make([]int64, 0, c.NumberOfSpectra())
	for id := range c.Generator().All() {
		numbers = append(numbers, id)
	}
	return numbers
}

// RemoveSpectra subtracts toRemove from c. Both composites must consist of
// pairwise disjoint blocks; otherwise an error is returned and c is left
// untouched.
func (c *Composite) RemoveSpectra(toRemove *Composite) error {
	if c.IsEmpty() || toRemove.IsEmpty() {
		return nil
	}
	removals := toRemove.Intervals()
	if err := common.CheckDisjoint(removals); err != nil {
		return err
	}
	if err := common.CheckDisjoint(c.Intervals()); err != nil {
		return err
	}

	blocks := make([]DataBlock, 0, len(c.blocks))
	for _, b := range c.DataBlocks() {
		ids, ok := b.Interval()
		if !ok {
			blocks = append(blocks, b)
			continue
		}
		pieces, err := subtract(ids, overlapping(ids, removals))
		if err != nil {
			return err
		}
		for _, piece := range pieces {
			if piece == ids {
				blocks = append(blocks, b)
				continue
			}
			blocks = append(blocks, newBoundBlock(piece, b.NumberOfPeriods(), b.NumberOfChannels()))
		}
	}
	c.blocks = blocks
	return nil
}

// overlapping narrows sorted, disjoint removals to those touching ids.
func overlapping(ids common.ClosedInterval, removals []common.ClosedInterval) []common.ClosedInterval {
	lo := sort.Search(len(removals), func(i int) bool {
		return removals[i].End >= ids.Start
	})
	hi := sort.Search(len(removals), func(i int) bool {
		return removals[i].Start > ids.End
	})
	if lo >= hi {
		return nil
	}
	return removals[lo:hi]
}

// subtract folds the removals, in ascending order, over the part of
// original not yet consumed and returns the surviving pieces.
func subtract(original common.ClosedInterval, removals []common.ClosedInterval) ([]common.ClosedInterval, error) {
	var pieces []common.ClosedInterval
	remaining := original
	for _, r := range removals {
		a, b, c, d := remaining.Start, remaining.End, r.Start, r.End
		switch {
		case c <= a && b <= d:
			// everything left is removed
			return pieces, nil
		case a < c && c <= b && b <= d:
			// tail removed
			return append(pieces, common.ClosedInterval{Start: a, End: c - 1}), nil
		case c <= a && a <= d && d < b:
			// head removed
			remaining = common.ClosedInterval{Start: d + 1, End: b}
		case a < c && d < b:
			// hole punched
			pieces = append(pieces, common.ClosedInterval{Start: a, End: c - 1})
			remaining = common.ClosedInterval{Start: d + 1, End: b}
		default:
			return nil, fmt.Errorf("%w: removing %s from %s", OverlapUnclassifiedErr, r, remaining)
		}
	}
	return append(pieces, remaining), nil
}

// Truncate keeps only the spectra within [specMin, specMax]. A range that
// misses every block leaves the composite empty.
func (c *Composite) Truncate(specMin, specMax int64) {
	sortBlocks(c.blocks)
	first, last := -1, -1
	for i, b := range c.blocks {
		if ids, ok := b.Interval(); ok && ids.End >= specMin {
			first = i
			break
		}
	}
	for i := len(c.blocks) - 1; i >= 0; i-- {
		if ids, ok := c.blocks[i].Interval(); ok && ids.Start <= specMax {
			last = i
			break
		}
	}
	if specMin > specMax || first < 0 || last < 0 || first > last {
		c.blocks = c.blocks[:0]
		return
	}

	kept := make([]DataBlock, 0, last-first+1)
	for _, b := range c.blocks[first : last+1] {
		ids, ok := b.Interval()
		if !ok {
			continue
		}
		clipped, ok := ids.Clip(specMin, specMax)
		if !ok {
			continue
		}
		if clipped != ids {
			b.SetMinSpectrumID(clipped.Start)
			b.SetMaxSpectrumID(clipped.End)
			b.SetNumberOfSpectra(clipped.Len())
		}
		kept = append(kept, b)
	}
	c.blocks = kept
}

// Equal compares the sorted blocks of both composites.
func (c *Composite) Equal(o *Composite) bool {
	if len(c.blocks) != len(o.blocks) {
		return false
	}
	mine, theirs := c.DataBlocks(), o.DataBlocks()
	for i := range mine {
		if !mine[i].Equal(theirs[i]) {
			return false
		}
	}
	return true
}

func (c *Composite) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, b := range c.DataBlocks() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(b.String())
	}
	sb.WriteString("}")
	return sb.String()
}
