package common

import (
	"errors"
	"fmt"
	"math"
)

var (
	IntervalNotContinousErr = errors.New("interval not continous")
	IntervalOverlapErr      = errors.New("intervals overlap")
)

// ClosedInterval is an inclusive range of spectrum numbers. Start <= End
// for every interval handed out by this module.
type ClosedInterval struct {
	Start, End int64
}

func (i ClosedInterval) String() string {
	return fmt.Sprintf("[%d,%d]", i.Start, i.End)
}

// Len saturates at math.MaxInt for spans wider than an int can count.
func (i ClosedInterval) Len() int {
	if i.End < i.Start {
		return 0
	}
	n := uint64(i.End-i.Start) + 1
	if n == 0 || n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// Append extends the interval by id if id directly follows End.
func (i *ClosedInterval) Append(id int64) error {
	if i.End == math.MaxInt64 || id != i.End+1 {
		return IntervalNotContinousErr
	}
	i.End = id
	return nil
}

func (i *ClosedInterval) Contains(o ClosedInterval) bool {
	if i == nil {
		return false
	}
	return i.Start <= o.Start && i.End >= o.End
}

// Clip returns the part of i inside [lo,hi].
func (i ClosedInterval) Clip(lo, hi int64) (ClosedInterval, bool) {
	if lo > i.Start {
		i.Start = lo
	}
	if hi < i.End {
		i.End = hi
	}
	return i, i.Start <= i.End
}

func (i *ClosedInterval) TryMerge(o ClosedInterval) bool {
	if (i.End < math.MaxInt64 && o.Start > i.End+1) || (o.End < math.MaxInt64 && i.Start > o.End+1) {
		return false
	}
	if i.Start > o.Start {
		i.Start = o.Start
	}
	if i.End < o.End {
		i.End = o.End
	}

	return true
}

// CheckDisjoint reports the first pair of overlapping intervals in a list
// sorted by Start.
func CheckDisjoint(sorted []ClosedInterval) error {
	for idx := 1; idx < len(sorted); idx++ {
		if sorted[idx].Start <= sorted[idx-1].End {
			return fmt.Errorf("%w: %s and %s", IntervalOverlapErr, sorted[idx-1], sorted[idx])
		}
	}
	return nil
}
