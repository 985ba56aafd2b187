package harvest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves n sequential integers in pages and records requested offsets.
type fakeSource struct {
	n       int
	offsets []int
	failAt  int
	err     error
}

func (f *fakeSource) fetch(pageSize int) FetchFunc[int] {
	return func(ctx context.Context, offset int) (Page[int], error) {
		f.offsets = append(f.offsets, offset)
		if f.err != nil && offset == f.failAt {
			return Page[int]{}, f.err
		}
		var items []int
		for i := offset; i < offset+pageSize && i < f.n; i++ {
			items = append(items, i)
		}
		return Page[int]{Items: items}, nil
	}
}

func TestScanAll_RequestCount(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		pageSize int
		requests int
	}{
		{"Empty", 0, 500, 1},
		{"SinglePartialPage", 10, 500, 1},
		{"ExactMultiple", 1000, 500, 3},
		{"Remainder", 1001, 500, 3},
		{"ExactSingle", 1000, 1000, 2},
		{"LargePageSize", 2500, 1000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{n: tt.n}
			pages, err := ScanAll(context.Background(), Cursor{PageSize: tt.pageSize}, src.fetch(tt.pageSize))
			require.NoError(t, err)

			want := (tt.n + tt.pageSize - 1) / tt.pageSize
			if tt.n%tt.pageSize == 0 {
				want++
			}
			assert.Equal(t, want, tt.requests)
			assert.Len(t, src.offsets, tt.requests)
			assert.Len(t, pages, tt.requests)
			assert.Len(t, Items(pages), tt.n)
		})
	}
}

func TestScanAll_TwoFullPagesThenShort(t *testing.T) {
	src := &fakeSource{n: 5}
	pages, err := ScanAll(context.Background(), Cursor{PageSize: 2}, src.fetch(2))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 4}, src.offsets)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, Items(pages))
}

func TestScan_StartOffsetAndHook(t *testing.T) {
	src := &fakeSource{n: 7}
	var seen []int
	cursor := Cursor{PageSize: 2, Start: 2, OnPage: func(offset, n int) { seen = append(seen, offset, n) }}

	requests, err := Scan(context.Background(), cursor, src.fetch(2), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, requests)
	assert.Equal(t, []int{2, 2, 4, 2, 6, 1}, seen)
}

func TestScan_FetchErrorAborts(t *testing.T) {
	boom := errors.New("connection reset")
	src := &fakeSource{n: 10, failAt: 4, err: boom}

	_, err := ScanAll(context.Background(), Cursor{Family: "accounts", PageSize: 2}, src.fetch(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	stageErr, ok := StageOf(err)
	require.True(t, ok)
	assert.Equal(t, StageOuter, stageErr.Stage)
	assert.Equal(t, 4, stageErr.Offset)
	assert.Equal(t, "accounts", stageErr.Family)
	assert.Equal(t, []int{0, 2, 4}, src.offsets)
}

func TestScan_InvalidPageSize(t *testing.T) {
	src := &fakeSource{n: 1}
	_, err := ScanAll(context.Background(), Cursor{}, src.fetch(1))
	assert.ErrorIs(t, err, ErrInvalidPageSize)
	assert.Empty(t, src.offsets)
}

func TestScan_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{n: 10}
	_, err := ScanAll(ctx, Cursor{PageSize: 2}, src.fetch(2))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, src.offsets)
}

func TestScan_VisitErrorKeepsInnerStage(t *testing.T) {
	inner := &StageError{Family: "accounts", Stage: StageNested, ParentID: "0x1", Offset: 600, Err: errors.New("timeout")}
	src := &fakeSource{n: 10}

	_, err := Scan(context.Background(), Cursor{PageSize: 2}, src.fetch(2), func(int, Page[int]) error {
		return inner
	})
	stageErr, ok := StageOf(err)
	require.True(t, ok)
	assert.Equal(t, StageNested, stageErr.Stage)
	assert.Equal(t, "0x1", stageErr.ParentID)
}

func TestScanCounted(t *testing.T) {
	const total = 250
	var offsets []int
	fetch := func(ctx context.Context, offset int) (CountedPage[int], error) {
		offsets = append(offsets, offset)
		var items []int
		for i := offset; i < offset+100 && i < total; i++ {
			items = append(items, i)
		}
		return CountedPage[int]{Items: items, Total: total}, nil
	}

	items, got, requests, err := ScanCounted(context.Background(), Cursor{PageSize: 100}, fetch)
	require.NoError(t, err)
	assert.Equal(t, total, got)
	assert.Equal(t, 3, requests)
	assert.Equal(t, []int{0, 100, 200}, offsets)
	assert.Len(t, items, total)
	assert.NoError(t, CheckCount("domains", len(items), got))
}

func TestScanCounted_StopsOnEmptyPage(t *testing.T) {
	fetch := func(ctx context.Context, offset int) (CountedPage[int], error) {
		if offset == 0 {
			return CountedPage[int]{Items: []int{1, 2}, Total: 10}, nil
		}
		return CountedPage[int]{Total: 10}, nil
	}

	items, total, requests, err := ScanCounted(context.Background(), Cursor{PageSize: 2}, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	assert.Len(t, items, 2)
	assert.ErrorIs(t, CheckCount("domains", len(items), total), ErrCountMismatch)
}
