package datablock

import (
	"errors"
	"fmt"
	"spectra/pkg/common"
)

var (
	ShapeInvalidErr        = errors.New("invalid data shape")
	OverlapUnclassifiedErr = errors.New("overlap not classifiable")
)

// DataBlock is one contiguous run of spectrum numbers sharing the same
// number of periods and channels. The run itself is optional until both
// ends have been set.
type DataBlock struct {
	periods  int
	spectra  int
	channels int

	ids            common.ClosedInterval
	hasMin, hasMax bool
}

func NewDataBlock(periods, spectra, channels int) DataBlock {
	return DataBlock{
		periods:  periods,
		spectra:  spectra,
		channels: channels,
	}
}

// NewDataBlockFromDims builds a block from a periods x spectra x channels
// shape as read from a counts dataset.
func NewDataBlockFromDims(dims []uint64) (DataBlock, error) {
	if len(dims) != 3 {
		return DataBlock{}, fmt.Errorf("%w: expected 3 dimensions, got %d", ShapeInvalidErr, len(dims))
	}
	return NewDataBlock(int(dims[0]), int(dims[1]), int(dims[2])), nil
}

func newBoundBlock(ids common.ClosedInterval, periods, channels int) DataBlock {
	b := NewDataBlock(periods, ids.Len(), channels)
	b.ids = ids
	b.hasMin, b.hasMax = true, true
	return b
}

func (b DataBlock) MinSpectrumID() int64 { return b.ids.Start }

func (b *DataBlock) SetMinSpectrumID(id int64) {
	b.ids.Start = id
	b.hasMin = true
}

func (b DataBlock) MaxSpectrumID() int64 { return b.ids.End }

func (b *DataBlock) SetMaxSpectrumID(id int64) {
	b.ids.End = id
	b.hasMax = true
}

// Interval returns the spectrum range, or false while either end is unset.
func (b DataBlock) Interval() (common.ClosedInterval, bool) {
	if !b.hasMin || !b.hasMax {
		return common.ClosedInterval{}, false
	}
	return b.ids, true
}

func (b DataBlock) NumberOfSpectra() int { return b.spectra }

func (b *DataBlock) SetNumberOfSpectra(n int) { b.spectra = n }

func (b DataBlock) NumberOfPeriods() int { return b.periods }

func (b DataBlock) NumberOfChannels() int { return b.channels }

func (b DataBlock) Equal(o DataBlock) bool {
	return b.periods == o.periods &&
		b.channels == o.channels &&
		b.spectra == o.spectra &&
		b.hasMin == o.hasMin &&
		b.hasMax == o.hasMax &&
		b.ids == o.ids
}

func (b DataBlock) Generator() *Generator {
	ids, ok := b.Interval()
	if !ok {
		return NewGenerator(nil)
	}
	return NewGenerator([]common.ClosedInterval{ids})
}

func (b DataBlock) String() string {
	ids := "[unset]"
	if i, ok := b.Interval(); ok {
		ids = i.String()
	}
	return fmt.Sprintf("%sx(%d,%d,%d)", ids, b.periods, b.spectra, b.channels)
}
