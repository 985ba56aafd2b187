package harvest

import "fmt"

// Family bundles the pagination settings of one query family. Observed
// families disagree on these numbers, so none of them is a package constant.
type Family struct {
	// Name is used in errors, logs and metrics.
	Name string
	// PageSize is the outer page size and offset step.
	PageSize int
	// EmbeddedLimit is the number of children requested inline with each parent.
	EmbeddedLimit int
	// CompletionThreshold is the embedded child count that triggers a continuation scan.
	CompletionThreshold int
	// ChildPageSize is the page size of continuation scans.
	ChildPageSize int
	// ContinuationOffset is where continuation scans start. Zero means EmbeddedLimit.
	ContinuationOffset int
	// Concurrency caps how many continuation scans run at once. Values below 1 mean 1.
	Concurrency int
}

// Validate checks that the family can drive a scan.
func (f Family) Validate() error {
	if f.PageSize <= 0 {
		return fmt.Errorf("%w: family %s page_size=%d", ErrInvalidPageSize, f.Name, f.PageSize)
	}
	if f.CompletionThreshold > 0 && f.ChildPageSize <= 0 {
		return fmt.Errorf("%w: family %s child_page_size=%d", ErrInvalidPageSize, f.Name, f.ChildPageSize)
	}
	return nil
}

// Outer returns the cursor for the family's top-level scan.
func (f Family) Outer() Cursor {
	return Cursor{
		Family:   f.Name,
		Stage:    StageOuter,
		PageSize: f.PageSize,
	}
}

// Continuation returns the first offset of a continuation scan.
func (f Family) Continuation() int {
	if f.ContinuationOffset > 0 {
		return f.ContinuationOffset
	}
	return f.EmbeddedLimit
}

// Workers returns the effective worker pool size.
func (f Family) Workers() int {
	if f.Concurrency < 1 {
		return 1
	}
	return f.Concurrency
}
