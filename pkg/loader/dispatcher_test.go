package loader

import (
	"context"
	"errors"
	"sort"
	"spectra/pkg/common"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReader struct {
	mu     sync.Mutex
	read   []LoadBlock
	failOn int64
}

var errMockRead = errors.New("mock read failure")

func (r *mockReader) ReadBlock(ctx context.Context, b LoadBlock) error {
	if r.failOn != 0 && b.Spectra.Start == r.failOn {
		return errMockRead
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.read = append(r.read, b)
	return nil
}

func mockBlocks(n int) []LoadBlock {
	blocks := make([]LoadBlock, 0, n)
	for i := 0; i < n; i++ {
		start := int64(i*10 + 1)
		blocks = append(blocks, LoadBlock{
			WorkspaceIndex: i * 5,
			FileIndex:      i * 5,
			Spectra:        common.ClosedInterval{Start: start, End: start + 4},
			Periods:        1,
			Channels:       100,
		})
	}
	return blocks
}

func TestDispatcherReadsAllBlocks(t *testing.T) {
	d, err := NewDispatcher(3)
	require.Nil(t, err)
	defer d.Close()

	blocks := mockBlocks(50)
	reader := &mockReader{}
	err = d.Dispatch(context.Background(), blocks, reader)
	assert.Nil(t, err)

	sort.Slice(reader.read, func(i, j int) bool {
		return reader.read[i].WorkspaceIndex < reader.read[j].WorkspaceIndex
	})
	assert.Equal(t, blocks, reader.read)
}

func TestDispatcherReturnsReadError(t *testing.T) {
	d, err := NewDispatcher(0)
	require.Nil(t, err)
	defer d.Close()

	reader := &mockReader{failOn: 31}
	err = d.Dispatch(context.Background(), mockBlocks(10), reader)
	assert.True(t, errors.Is(err, errMockRead))
	t.Log(err)
}

func TestDispatcherCanceled(t *testing.T) {
	d, err := NewDispatcher(2)
	require.Nil(t, err)
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reader := &mockReader{}
	err = d.Dispatch(ctx, mockBlocks(10), reader)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, reader.read)
}

func TestDispatcherClosed(t *testing.T) {
	d, err := NewDispatcher(2)
	require.Nil(t, err)
	assert.Nil(t, d.Close())
	assert.Nil(t, d.Close())

	err = d.Dispatch(context.Background(), mockBlocks(1), &mockReader{})
	assert.Equal(t, common.ClosedErr, err)
}
