package datablock

import (
	"spectra/pkg/common"

	"golang.org/x/exp/constraints"
)

// Index is an integer type whose every value is a valid spectrum number.
// uint64 and uint are left out since they do not fit int64.
type Index interface {
	constraints.Signed | ~uint8 | ~uint16 | ~uint32
}

// Populate scans spectrum numbers in file order and adds one block per
// maximal contiguous run to dst. Every monitor gets a single-spectrum block
// of its own, even when its neighbours are numerically contiguous.
func Populate[T Index](dst *Composite, indices []T, periods, channels int, monitors []int64) {
	if len(indices) == 0 {
		return
	}
	isMonitor := make(map[int64]struct{}, len(monitors))
	for _, m := range monitors {
		isMonitor[m] = struct{}{}
	}

	flush := func(run common.ClosedInterval) {
		last := run.End
		if _, ok := isMonitor[last]; !ok {
			dst.AddDataBlock(newBoundBlock(run, periods, channels))
			return
		}
		if run.Start < last {
			dst.AddDataBlock(newBoundBlock(common.ClosedInterval{Start: run.Start, End: last - 1}, periods, channels))
		}
		dst.AddDataBlock(newBoundBlock(common.ClosedInterval{Start: last, End: last}, periods, channels))
	}

	first := int64(indices[0])
	run := common.ClosedInterval{Start: first, End: first}
	for _, index := range indices[1:] {
		id := int64(index)
		if _, ok := isMonitor[run.End]; ok {
			flush(run)
			run = common.ClosedInterval{Start: id, End: id}
			continue
		}
		if err := run.Append(id); err != nil {
			flush(run)
			run = common.ClosedInterval{Start: id, End: id}
		}
	}
	flush(run)
}
