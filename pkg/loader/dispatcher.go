package loader

import (
	"context"
	"fmt"
	"spectra/pkg/common"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// Dispatcher fans load blocks out to a BlockReader over a fixed pool of
// goroutines.
type Dispatcher struct {
	common.Closable
	pool *ants.Pool
}

func NewDispatcher(workers int) (*Dispatcher, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{pool: pool}, nil
}

// Dispatch reads every block and returns the first error. Blocks not yet
// started when an error occurs or ctx is done are skipped.
func (d *Dispatcher) Dispatch(ctx context.Context, blocks []LoadBlock, reader BlockReader) error {
	if d.Closed() {
		return common.ClosedErr
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	logrus.WithField("blocks", len(blocks)).Debug("dispatching load blocks")
	for _, block := range blocks {
		if runCtx.Err() != nil {
			break
		}
		wg.Add(1)
		err := d.pool.Submit(func() {
			defer wg.Done()
			if runCtx.Err() != nil {
				return
			}
			if err := reader.ReadBlock(runCtx, block); err != nil {
				fail(fmt.Errorf("read block %s: %w", block, err))
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

func (d *Dispatcher) Close() error {
	if !d.TryClose() {
		return nil
	}
	d.pool.Release()
	return nil
}
