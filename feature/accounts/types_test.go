package accounts

import (
	"testing"
	"time"

	"pns-snapshot/core/snapshot"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestFromSnapshot_WireShape(t *testing.T) {
	snap := snapshot.New(time.Unix(1669365039, 0),
		snapshot.NewEntity("0x02", "b.dot"),
		snapshot.NewEntity("0x01", "c.dot", "a.dot"),
	)

	data, err := snapshot.Encode(FromSnapshot(snap))
	require.NoError(t, err)
	newGoldie(t).Assert(t, KindAll, data)
}

func TestClear_WireShape(t *testing.T) {
	all := &AllAccounts{
		AccountsNum: 3,
		Accounts: []Account{
			{ID: "0x02", DomainsNum: 1, Domains: []string{"b.dot"}},
			{ID: "0x03", DomainsNum: 0},
			{ID: "0x01", DomainsNum: 2, Domains: []string{"a.dot", "c.dot"}},
		},
	}

	data, err := snapshot.Encode(all.Clear())
	require.NoError(t, err)
	newGoldie(t).Assert(t, KindClear, data)
}

func TestSurplus_WireShape(t *testing.T) {
	data, err := snapshot.Encode(SurplusAccounts{"b.dot", "d.dot"})
	require.NoError(t, err)
	newGoldie(t).Assert(t, KindSurplus, data)
}

func TestAllAccounts_SnapshotRoundTrip(t *testing.T) {
	takenAt := time.Unix(1669365039, 0).UTC()
	orig := snapshot.New(takenAt,
		snapshot.NewEntity("0x01", "a.dot", "c.dot"),
		snapshot.NewEntity("0x02", "b.dot"),
	)

	back := FromSnapshot(orig).Snapshot(takenAt)
	assert.Equal(t, orig.IDs(), back.IDs())
	for _, id := range orig.IDs() {
		want, _ := orig.Get(id)
		got, _ := back.Get(id)
		assert.Equal(t, want.Names(), got.Names())
	}
}

func TestAllAccounts_SnapshotRecomputesCounts(t *testing.T) {
	doc := &AllAccounts{Accounts: []Account{{ID: "0x01", DomainsNum: 99, Domains: []string{"a.dot"}}}}
	e, ok := doc.Snapshot(time.Time{}).Get("0x01")
	require.True(t, ok)
	assert.Equal(t, 1, e.ChildCount())
}
