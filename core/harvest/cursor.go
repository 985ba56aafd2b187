package harvest

import (
	"context"
	"errors"
)

// Page is one bounded response from the remote service.
type Page[T any] struct {
	Items []T
}

// Len returns the number of items in the page.
func (p Page[T]) Len() int {
	return len(p.Items)
}

// FetchFunc requests the page starting at offset.
type FetchFunc[T any] func(ctx context.Context, offset int) (Page[T], error)

// Cursor drives a single "fetch until short page" loop.
type Cursor struct {
	// Family names the query family in errors and logs.
	Family string
	// Stage is StageOuter for top-level scans and StageNested for continuations.
	Stage Stage
	// ParentID scopes a nested scan.
	ParentID string
	// PageSize is both the offset step and the full-page threshold.
	PageSize int
	// Start is the first offset requested.
	Start int
	// OnPage, if set, is called after each page has been consumed.
	OnPage func(offset, n int)
}

// Scan fetches pages in increasing offset order, handing each to visit, until a
// page shorter than PageSize is returned. When the remote size is an exact
// multiple of PageSize the final request returns an empty page, which is
// visited like any other. Scan returns the number of requests issued.
func Scan[T any](ctx context.Context, c Cursor, fetch FetchFunc[T], visit func(offset int, page Page[T]) error) (int, error) {
	if c.PageSize <= 0 {
		return 0, ErrInvalidPageSize
	}

	offset := c.Start
	requests := 0
	for {
		if err := ctx.Err(); err != nil {
			return requests, c.wrap(offset, err)
		}

		page, err := fetch(ctx, offset)
		requests++
		if err != nil {
			return requests, c.wrap(offset, err)
		}

		if visit != nil {
			if err := visit(offset, page); err != nil {
				return requests, c.wrap(offset, err)
			}
		}
		if c.OnPage != nil {
			c.OnPage(offset, page.Len())
		}

		if page.Len() < c.PageSize {
			return requests, nil
		}
		offset += c.PageSize
	}
}

// ScanAll collects every page of a scan in offset order.
func ScanAll[T any](ctx context.Context, c Cursor, fetch FetchFunc[T]) ([]Page[T], error) {
	var pages []Page[T]
	_, err := Scan(ctx, c, fetch, func(_ int, page Page[T]) error {
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// Items flattens pages into a single slice, preserving page order.
func Items[T any](pages []Page[T]) []T {
	n := 0
	for _, p := range pages {
		n += p.Len()
	}
	out := make([]T, 0, n)
	for _, p := range pages {
		out = append(out, p.Items...)
	}
	return out
}

// wrap attaches the cursor's context unless err already carries a stage.
func (c Cursor) wrap(offset int, err error) error {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return err
	}
	stage := c.Stage
	if stage == "" {
		stage = StageOuter
	}
	return &StageError{
		Family:   c.Family,
		Stage:    stage,
		Offset:   offset,
		ParentID: c.ParentID,
		Err:      err,
	}
}
