package harvest

// Bucket is the classification of a child record by creation time.
type Bucket int

const (
	// BucketExcluded records are created after the upper cutoff.
	BucketExcluded Bucket = iota
	// BucketOld records are created at or before the old cutoff.
	BucketOld
	// BucketNew records are created after the old cutoff and at or before the upper cutoff.
	BucketNew
)

func (b Bucket) String() string {
	switch b {
	case BucketOld:
		return "old"
	case BucketNew:
		return "new"
	default:
		return "excluded"
	}
}

// ChildRecord is a child as returned by the service, after decoding.
type ChildRecord struct {
	Name         string
	CreatedAt    int64
	HasCreatedAt bool
}

// Window holds the creation-time cutoffs of a family. The zero value includes everything.
// Both cutoffs are inclusive: a record created exactly at a cutoff is on the lower side of it.
type Window struct {
	Old      int64
	HasOld   bool
	Upper    int64
	HasUpper bool
}

// NewWindow returns a window with a single upper cutoff. A non-positive
// cutoff leaves the window unbounded.
func NewWindow(upper int64) Window {
	return NewBucketWindow(0, upper)
}

// NewBucketWindow returns a window with old and upper cutoffs. Non-positive
// cutoffs are unset.
func NewBucketWindow(old, upper int64) Window {
	var w Window
	if old > 0 {
		w.Old, w.HasOld = old, true
	}
	if upper > 0 {
		w.Upper, w.HasUpper = upper, true
	}
	return w
}

// Classify buckets a creation timestamp.
func (w Window) Classify(createdAt int64) Bucket {
	if w.HasUpper && createdAt > w.Upper {
		return BucketExcluded
	}
	if w.HasOld && createdAt <= w.Old {
		return BucketOld
	}
	return BucketNew
}

// ClassifyRecord buckets a record. Records without a timestamp are never excluded.
func (w Window) ClassifyRecord(r ChildRecord) Bucket {
	if !r.HasCreatedAt {
		return BucketNew
	}
	return w.Classify(r.CreatedAt)
}

// Includes reports whether the record is inside the window.
func (w Window) Includes(r ChildRecord) bool {
	return w.ClassifyRecord(r) != BucketExcluded
}

// Filter returns the records inside the window, preserving order.
func (w Window) Filter(records []ChildRecord) []ChildRecord {
	out := make([]ChildRecord, 0, len(records))
	for _, r := range records {
		if w.Includes(r) {
			out = append(out, r)
		}
	}
	return out
}
