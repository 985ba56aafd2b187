package harvest

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Parent is a parent entity as fetched, with its possibly truncated embedded children.
type Parent[C any] struct {
	ID       string
	Children []C
}

// ChildFetchFunc requests the page of a parent's children starting at offset.
type ChildFetchFunc[C any] func(ctx context.Context, parentID string, offset int) (Page[C], error)

// Nested completes truncated child collections.
type Nested[C any] struct {
	family Family
	fetch  ChildFetchFunc[C]
	flight singleflight.Group

	// OnScan, if set, is called after every continuation scan with the number of requests it issued.
	OnScan func(parentID string, requests int)
}

// NewNested creates a nested harvester for the given family.
func NewNested[C any](family Family, fetch ChildFetchFunc[C]) *Nested[C] {
	return &Nested[C]{family: family, fetch: fetch}
}

// Triggered reports whether the parent's embedded children may be truncated.
func (n *Nested[C]) Triggered(p Parent[C]) bool {
	return n.family.CompletionThreshold > 0 && len(p.Children) == n.family.CompletionThreshold
}

// Complete returns the parent's full child list: the embedded children followed
// by the results of one continuation scan when the embedded list hit the
// completion threshold. A parent that vanished remotely contributes no extra
// children.
func (n *Nested[C]) Complete(ctx context.Context, p Parent[C]) ([]C, error) {
	if !n.Triggered(p) {
		return p.Children, nil
	}

	// Concurrent completions of the same parent share one scan.
	v, err, _ := n.flight.Do(p.ID, func() (any, error) {
		return n.scan(ctx, p.ID)
	})
	if err != nil {
		return nil, err
	}
	extra := v.([]C)

	out := make([]C, 0, len(p.Children)+len(extra))
	out = append(out, p.Children...)
	out = append(out, extra...)
	return out, nil
}

// CompleteAll completes every parent, running up to Family.Concurrency
// continuation scans at a time. Results are returned in input order.
func (n *Nested[C]) CompleteAll(ctx context.Context, parents []Parent[C]) ([][]C, error) {
	out := make([][]C, len(parents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.family.Workers())
	for i, p := range parents {
		g.Go(func() error {
			children, err := n.Complete(gctx, p)
			if err != nil {
				return err
			}
			out[i] = children
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (n *Nested[C]) scan(ctx context.Context, parentID string) ([]C, error) {
	cursor := Cursor{
		Family:   n.family.Name,
		Stage:    StageNested,
		ParentID: parentID,
		PageSize: n.family.ChildPageSize,
		Start:    n.family.Continuation(),
	}

	var extra []C
	requests, err := Scan(ctx, cursor,
		func(ctx context.Context, offset int) (Page[C], error) {
			return n.fetch(ctx, parentID, offset)
		},
		func(_ int, page Page[C]) error {
			extra = append(extra, page.Items...)
			return nil
		},
	)
	if n.OnScan != nil {
		n.OnScan(parentID, requests)
	}
	if err != nil {
		return nil, err
	}
	return extra, nil
}
