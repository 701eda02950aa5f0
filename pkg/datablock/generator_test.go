package datablock

import (
	"math"
	"spectra/pkg/common"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratorDisjointIntervals(t *testing.T) {
	g := NewGenerator([]common.ClosedInterval{{2, 8}, {45, 49}, {23, 27}})
	expected := []int64{2, 3, 4, 5, 6, 7, 8, 23, 24, 25, 26, 27, 45, 46, 47, 48, 49}
	var got []int64
	for ; !g.Done(); g.Next() {
		got = append(got, g.Value())
	}
	assert.Equal(t, expected, got)

	g.Next()
	assert.True(t, g.Done())
}

func TestGeneratorEmpty(t *testing.T) {
	g := NewGenerator(nil)
	assert.True(t, g.Done())
	for range g.All() {
		t.Fatal("empty generator yielded a value")
	}
}

func TestGeneratorSingleSpectrum(t *testing.T) {
	g := NewGenerator([]common.ClosedInterval{{4, 4}, {6, 6}})
	assert.False(t, g.Done())
	assert.Equal(t, int64(4), g.Value())
	g.Next()
	assert.Equal(t, int64(6), g.Value())
	g.Next()
	assert.True(t, g.Done())
}

func TestGeneratorDoesNotAliasInput(t *testing.T) {
	intervals := []common.ClosedInterval{{10, 11}, {1, 2}}
	g := NewGenerator(intervals)
	assert.Equal(t, common.ClosedInterval{Start: 10, End: 11}, intervals[0])
	assert.Equal(t, int64(1), g.Value())
}

func TestGeneratorAllStopsEarly(t *testing.T) {
	g := NewGenerator([]common.ClosedInterval{{1, 5}})
	var got []int64
	for id := range g.All() {
		got = append(got, id)
		if id == 2 {
			break
		}
	}
	assert.Equal(t, []int64{1, 2}, got)

	got = got[:0]
	for id := range g.All() {
		got = append(got, id)
	}
	assert.Equal(t, []int64{3, 4, 5}, got)
}

func TestGeneratorEndsAtMaxInt64(t *testing.T) {
	g := NewGenerator([]common.ClosedInterval{{math.MinInt64, math.MinInt64 + 1}, {math.MaxInt64 - 1, math.MaxInt64}})
	var got []int64
	for id := range g.All() {
		got = append(got, id)
		if len(got) > 4 {
			break
		}
	}
	assert.Equal(t, []int64{math.MinInt64, math.MinInt64 + 1, math.MaxInt64 - 1, math.MaxInt64}, got)
	assert.True(t, g.Done())
}
