package harvest

import (
	"context"
	"fmt"
)

// CountedPage is a page from a connection-style endpoint that reports the
// total number of items alongside the page.
type CountedPage[T any] struct {
	Items []T
	Total int
}

// CountedFetchFunc requests the counted page starting at offset.
type CountedFetchFunc[T any] func(ctx context.Context, offset int) (CountedPage[T], error)

// ScanCounted fetches pages while the offset is below the largest total reported
// so far. It stops early on an empty page, since the dataset may shrink while
// it is being walked. It returns the collected items, the final total and the
// number of requests issued.
func ScanCounted[T any](ctx context.Context, c Cursor, fetch CountedFetchFunc[T]) ([]T, int, int, error) {
	if c.PageSize <= 0 {
		return nil, 0, 0, ErrInvalidPageSize
	}

	var items []T
	offset := c.Start
	total := 0
	requests := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, total, requests, c.wrap(offset, err)
		}

		page, err := fetch(ctx, offset)
		requests++
		if err != nil {
			return nil, total, requests, c.wrap(offset, err)
		}

		items = append(items, page.Items...)
		total = max(total, page.Total)
		if c.OnPage != nil {
			c.OnPage(offset, len(page.Items))
		}

		offset += c.PageSize
		if offset >= total || len(page.Items) == 0 {
			return items, total, requests, nil
		}
	}
}

// CheckCount returns ErrCountMismatch when got differs from the reported total.
func CheckCount(family string, got, total int) error {
	if got != total {
		return fmt.Errorf("%w: %s collected %d, service reported %d", ErrCountMismatch, family, got, total)
	}
	return nil
}
