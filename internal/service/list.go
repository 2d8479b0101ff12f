package service

import (
	"context"
	"fmt"

	"github.com/phrazzld/taskr-api/internal/listquery"
	"golang.org/x/sync/errgroup"
)

// pageSource is the read side shared by the account and task stores.
type pageSource[T any] interface {
	Count(ctx context.Context, q listquery.Query) (int, error)
	Find(ctx context.Context, q listquery.Query) ([]T, error)
}

// fetchPage runs the count and the page read concurrently. The first
// failure cancels the other and is returned wrapped in ErrListFailed.
func fetchPage[T any](ctx context.Context, src pageSource[T], q listquery.Query) (listquery.Page[T], error) {
	g, ctx := errgroup.WithContext(ctx)

	var (
		total int
		items []T
	)

	g.Go(func() error {
		n, err := src.Count(ctx, q)
		if err != nil {
			return err
		}
		total = n
		return nil
	})

	g.Go(func() error {
		rows, err := src.Find(ctx, q)
		if err != nil {
			return err
		}
		items = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return listquery.Page[T]{}, fmt.Errorf("%w: %w", ErrListFailed, err)
	}

	return listquery.NewPage(q, items, total), nil
}
