package harvest

// Observer receives progress notifications from harvesters. Implementations
// must be safe for concurrent use when nested completion runs in parallel.
type Observer interface {
	// PageDone is called after a page has been consumed. ParentID is empty for outer pages.
	PageDone(family string, stage Stage, parentID string, offset, n int)
	// NestedDone is called after a continuation scan finished.
	NestedDone(family, parentID string, requests int)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) PageDone(string, Stage, string, int, int) {}
func (NopObserver) NestedDone(string, string, int)           {}
