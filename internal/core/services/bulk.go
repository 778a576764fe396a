package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

// itemFunc handles one item of a bulk operation. It reports skipped for
// items that needed no request.
type itemFunc func(ctx context.Context, id int) (skipped bool, err error)

// fanOut runs fn for every id with at most limit calls in flight and
// returns once all of them have settled. A failing item never stops the
// others.
func fanOut(ctx context.Context, limit int, ids []int, fn itemFunc) domain.BulkResult {
	var (
		mu     sync.Mutex
		merr   *multierror.Error
		result = domain.BulkResult{Failed: make(map[int]error)}
	)

	g := new(errgroup.Group)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, id := range ids {
		g.Go(func() error {
			skipped, err := fn(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case skipped:
				result.Skipped++
			case err != nil:
				result.Attempted++
				result.Failed[id] = err
				merr = multierror.Append(merr, fmt.Errorf("item %d: %w", id, err))
			default:
				result.Attempted++
				result.Succeeded++
			}
			return nil
		})
	}

	_ = g.Wait()
	result.Err = merr.ErrorOrNil()
	return result
}
