package datablock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataBlock(t *testing.T) {
	b := NewDataBlock(2, 5, 100)
	_, ok := b.Interval()
	assert.False(t, ok)
	assert.True(t, b.Generator().Done())

	b.SetMinSpectrumID(10)
	_, ok = b.Interval()
	assert.False(t, ok)
	b.SetMaxSpectrumID(14)
	ids, ok := b.Interval()
	assert.True(t, ok)
	assert.Equal(t, int64(10), ids.Start)
	assert.Equal(t, int64(14), ids.End)
	assert.Equal(t, int64(10), b.MinSpectrumID())
	assert.Equal(t, int64(14), b.MaxSpectrumID())
	assert.Equal(t, 2, b.NumberOfPeriods())
	assert.Equal(t, 5, b.NumberOfSpectra())
	assert.Equal(t, 100, b.NumberOfChannels())
	assert.Equal(t, "[10,14]x(2,5,100)", b.String())
}

func TestDataBlockFromDims(t *testing.T) {
	b, err := NewDataBlockFromDims([]uint64{1, 64, 2000})
	assert.Nil(t, err)
	assert.Equal(t, 1, b.NumberOfPeriods())
	assert.Equal(t, 64, b.NumberOfSpectra())
	assert.Equal(t, 2000, b.NumberOfChannels())

	_, err = NewDataBlockFromDims([]uint64{64, 2000})
	assert.True(t, errors.Is(err, ShapeInvalidErr))
}

func TestDataBlockEqual(t *testing.T) {
	mk := func(min, max int64, periods, channels int) DataBlock {
		b := NewDataBlock(periods, int(max-min+1), channels)
		b.SetMinSpectrumID(min)
		b.SetMaxSpectrumID(max)
		return b
	}
	assert.True(t, mk(1, 4, 1, 10).Equal(mk(1, 4, 1, 10)))
	assert.False(t, mk(1, 4, 1, 10).Equal(mk(1, 5, 1, 10)))
	assert.False(t, mk(1, 4, 1, 10).Equal(mk(0, 4, 1, 10)))
	assert.False(t, mk(1, 4, 1, 10).Equal(mk(1, 4, 2, 10)))
	assert.False(t, mk(1, 4, 1, 10).Equal(mk(1, 4, 1, 11)))
	assert.False(t, mk(1, 4, 1, 10).Equal(NewDataBlock(1, 4, 10)))
}

func TestDataBlockGenerator(t *testing.T) {
	b := NewDataBlock(1, 3, 1)
	b.SetMinSpectrumID(7)
	b.SetMaxSpectrumID(9)
	var got []int64
	for id := range b.Generator().All() {
		got = append(got, id)
	}
	assert.Equal(t, []int64{7, 8, 9}, got)
}
