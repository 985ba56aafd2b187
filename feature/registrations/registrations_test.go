package registrations

import (
	"context"
	"testing"

	"pns-snapshot/core/graph"
	"pns-snapshot/core/graph/graphtest"
	"pns-snapshot/core/harvest"
	"pns-snapshot/core/ident"
	"pns-snapshot/core/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(regs ...map[string]any) *graphtest.Querier {
	return graphtest.New(func(req graph.Request) (any, error) {
		page := graphtest.Window(regs, graphtest.IntVar(req, "offset"), graphtest.IntVar(req, "limit"))
		return map[string]any{"registrations": page}, nil
	})
}

func reg(id string, origin any, expiry, capacity any, children int) map[string]any {
	r := map[string]any{
		"expiryDate": expiry,
		"capacity":   capacity,
		"origin":     nil,
		"domain":     map[string]any{"id": id, "subdomainCount": children},
	}
	if origin != nil {
		r["origin"] = map[string]any{"id": origin}
	}
	return r
}

func TestService_Harvest(t *testing.T) {
	q := serve(
		reg("0x01", "0x0a", "1700000000", "250", 3),
		reg("0x02", nil, nil, nil, 0),
		reg("0x03", nil, "not-a-date", "7", 1),
	)
	svc := NewService(q, Config{PageSize: 2, DefaultCapacity: 100}, zap.NewNop())

	records, requests, err := svc.Harvest(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	require.Len(t, records, 3)

	d1, _ := ident.Domain("0x01")
	d2, _ := ident.Domain("0x02")
	d3, _ := ident.Domain("0x03")
	origin, _ := ident.Domain("0x0a")
	expire := int64(1700000000)

	assert.Equal(t, Record{Origin: origin, Expire: &expire, Capacity: 250, Children: 3}, records[d1])
	assert.Equal(t, Record{Origin: d2, Capacity: 100}, records[d2])
	assert.Equal(t, Record{Origin: d3, Capacity: 7, Children: 1}, records[d3])
}

func TestService_Harvest_LaterRecordWins(t *testing.T) {
	q := serve(
		reg("0x01", nil, nil, "1", 0),
		reg("0x0001", nil, nil, "2", 0),
	)
	records, _, err := NewService(q, Config{PageSize: 10, DefaultCapacity: 100}, zap.NewNop()).Harvest(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	for _, r := range records {
		assert.Equal(t, int64(2), r.Capacity)
	}
}

func TestService_Harvest_MalformedCapacityAborts(t *testing.T) {
	q := serve(reg("0x01", nil, nil, "lots", 0))
	_, _, err := NewService(q, Config{PageSize: 10, DefaultCapacity: 100}, zap.NewNop()).Harvest(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, harvest.IsMalformed(err))
	assert.Contains(t, err.Error(), "capacity")
}

func TestService_Harvest_InvalidDomainWidth(t *testing.T) {
	q := serve(reg("0", nil, nil, nil, 0))
	_, _, err := NewService(q, Config{PageSize: 10}, zap.NewNop()).Harvest(context.Background(), nil)
	assert.ErrorIs(t, err, ident.ErrIdentifierWidth)
}

func TestRecords_WireShape(t *testing.T) {
	expire := int64(1700000000)
	data, err := snapshot.Encode(Records{
		"0x01": {Origin: "0x0a", Expire: &expire, Capacity: 250, Children: 3},
		"0x02": {Origin: "0x02", Capacity: 100},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"0x01": {"origin": "0x0a", "expire": 1700000000, "capacity": 250, "children": 3},
		"0x02": {"origin": "0x02", "expire": null, "capacity": 100, "children": 0}
	}`, string(data))
}
