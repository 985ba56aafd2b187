package harvest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func children(prefix string, from, to int) []string {
	out := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, fmt.Sprintf("%s-%d", prefix, i))
	}
	return out
}

// childSource serves the children of each parent in pages.
type childSource struct {
	mu       sync.Mutex
	total    map[string]int
	pageSize int
	calls    map[string][]int
}

func (s *childSource) fetch(ctx context.Context, parentID string, offset int) (Page[string], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string][]int{}
	}
	s.calls[parentID] = append(s.calls[parentID], offset)
	end := min(offset+s.pageSize, s.total[parentID])
	if offset >= end {
		return Page[string]{}, nil
	}
	return Page[string]{Items: children(parentID, offset, end)}, nil
}

func testFamily() Family {
	return Family{
		Name:                "test",
		PageSize:            2,
		EmbeddedLimit:       3,
		CompletionThreshold: 3,
		ChildPageSize:       2,
	}
}

func TestNested_TriggersExactlyOneScanAtThreshold(t *testing.T) {
	src := &childSource{total: map[string]int{"p": 8}, pageSize: 2}
	n := NewNested(testFamily(), src.fetch)

	parent := Parent[string]{ID: "p", Children: children("p", 0, 3)}
	require.True(t, n.Triggered(parent))

	var scans int
	n.OnScan = func(string, int) { scans++ }

	got, err := n.Complete(context.Background(), parent)
	require.NoError(t, err)
	assert.Equal(t, 1, scans)
	assert.Equal(t, []int{3, 5, 7}, src.calls["p"])
	assert.Equal(t, children("p", 0, 8), got)
}

func TestNested_BelowThresholdNoScan(t *testing.T) {
	src := &childSource{total: map[string]int{"p": 2}, pageSize: 2}
	n := NewNested(testFamily(), src.fetch)

	parent := Parent[string]{ID: "p", Children: children("p", 0, 2)}
	assert.False(t, n.Triggered(parent))

	got, err := n.Complete(context.Background(), parent)
	require.NoError(t, err)
	assert.Empty(t, src.calls)
	assert.Equal(t, parent.Children, got)
}

func TestNested_VanishedParentContributesNothing(t *testing.T) {
	src := &childSource{total: map[string]int{}, pageSize: 2}
	n := NewNested(testFamily(), src.fetch)

	parent := Parent[string]{ID: "gone", Children: children("gone", 0, 3)}
	got, err := n.Complete(context.Background(), parent)
	require.NoError(t, err)
	assert.Equal(t, parent.Children, got)
	assert.Equal(t, []int{3}, src.calls["gone"])
}

func TestNested_ContinuationOffsetOverride(t *testing.T) {
	family := testFamily()
	family.ContinuationOffset = 2
	src := &childSource{total: map[string]int{"p": 4}, pageSize: 2}
	n := NewNested(family, src.fetch)

	_, err := n.Complete(context.Background(), Parent[string]{ID: "p", Children: children("p", 0, 3)})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, src.calls["p"])
}

func TestNested_ErrorCarriesParent(t *testing.T) {
	boom := errors.New("502 bad gateway")
	n := NewNested(testFamily(), func(ctx context.Context, parentID string, offset int) (Page[string], error) {
		return Page[string]{}, boom
	})

	_, err := n.Complete(context.Background(), Parent[string]{ID: "0xabc", Children: children("x", 0, 3)})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	stageErr, ok := StageOf(err)
	require.True(t, ok)
	assert.Equal(t, StageNested, stageErr.Stage)
	assert.Equal(t, "0xabc", stageErr.ParentID)
	assert.Equal(t, 3, stageErr.Offset)
}

func TestNested_CompleteAllPreservesOrder(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			family := testFamily()
			family.Concurrency = workers
			src := &childSource{total: map[string]int{"a": 5, "b": 1, "c": 3}, pageSize: 2}
			n := NewNested(family, src.fetch)

			parents := []Parent[string]{
				{ID: "a", Children: children("a", 0, 3)},
				{ID: "b", Children: children("b", 0, 1)},
				{ID: "c", Children: children("c", 0, 3)},
			}
			got, err := n.CompleteAll(context.Background(), parents)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, children("a", 0, 5), got[0])
			assert.Equal(t, children("b", 0, 1), got[1])
			assert.Equal(t, children("c", 0, 3), got[2])
			assert.Nil(t, src.calls["b"])
		})
	}
}

func TestNested_ConcurrencyCeiling(t *testing.T) {
	family := testFamily()
	family.Concurrency = 2

	var inFlight, peak int32
	release := make(chan struct{})
	fetch := func(ctx context.Context, parentID string, offset int) (Page[string], error) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		<-release
		atomic.AddInt32(&inFlight, -1)
		return Page[string]{}, nil
	}
	n := NewNested(family, fetch)

	parents := make([]Parent[string], 6)
	for i := range parents {
		id := fmt.Sprintf("p%d", i)
		parents[i] = Parent[string]{ID: id, Children: children(id, 0, 3)}
	}

	done := make(chan error, 1)
	go func() {
		_, err := n.CompleteAll(context.Background(), parents)
		done <- err
	}()
	close(release)
	require.NoError(t, <-done)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}
