package pnsinfo

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

func newSubdomain(name, to, parent, domain string) map[string]any {
	return map[string]any{
		"__typename": "NewSubdomain",
		"name":       name,
		"to":         map[string]any{"id": to},
		"parentId":   map[string]any{"id": parent},
		"domain":     map[string]any{"id": domain},
	}
}

func serve(tokens []map[string]any, events []map[string]any) *graphtest.Querier {
	return graphtest.New(func(req graph.Request) (any, error) {
		offset, limit := graphtest.IntVar(req, "offset"), graphtest.IntVar(req, "limit")
		if req.OperationName == "QueryTokenList" {
			return map[string]any{"domains": graphtest.Window(tokens, offset, limit)}, nil
		}
		return map[string]any{"domainEvents": graphtest.Window(events, offset, limit)}, nil
	})
}

func TestService_Harvest(t *testing.T) {
	tokens := []map[string]any{{"id": "0x01"}, {"id": "0x02"}, {"id": "0x03"}}
	events := []map[string]any{
		newSubdomain("sub.a.dot", "0xaa", "0x01", "0x11"),
		{"__typename": "NameRenewed"},
		{"__typename": "Transfer"},
		newSubdomain("sub.b.dot", "0xbb", "0x02", "0x22"),
	}
	q := serve(tokens, events)

	info, requests, err := NewService(q, Config{TokenPageSize: 2, EventPageSize: 2}, zap.NewNop()).Harvest(context.Background(), nil)
	require.NoError(t, err)

	// Tokens: 2 + 1. Events: 2 + 2 + 0; unknown events still fill pages.
	assert.Equal(t, 2, q.Count("QueryTokenList"))
	assert.Equal(t, 3, q.Count("QueryNewSubdomains"))
	assert.Equal(t, 5, requests)

	t1, _ := ident.Domain("0x01")
	t2, _ := ident.Domain("0x02")
	t3, _ := ident.Domain("0x03")
	assert.Equal(t, []string{t1, t2, t3}, info.TokenList)

	require.Len(t, info.NewSubdomain, 2)
	to, _ := ident.Account("0xaa")
	sub, _ := ident.Domain("0x11")
	assert.Equal(t, NewSubdomain{To: to, TokenID: t1, SubtokenID: sub, Name: "sub.a.dot"}, info.NewSubdomain[0])
	assert.Equal(t, "sub.b.dot", info.NewSubdomain[1].Name)
	assert.Len(t, info.NewSubdomain[1].To, ident.AccountWidth)
}

func TestService_Harvest_IncompleteEventAborts(t *testing.T) {
	events := []map[string]any{{"__typename": "NewSubdomain", "name": "x.dot"}}
	_, _, err := NewService(serve(nil, events), Config{TokenPageSize: 10, EventPageSize: 10}, zap.NewNop()).
		Harvest(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, harvest.IsMalformed(err))
	stage, ok := harvest.StageOf(err)
	require.True(t, ok)
	assert.Equal(t, EventFamily, stage.Family)
}

func TestDecodeEvent(t *testing.T) {
	name := "a.dot"
	e, err := decodeEvent(wireEvent{Typename: "NewSubdomain", Name: &name, To: &wireRef{ID: "0x1"}, ParentID: &wireRef{ID: "0x2"}, Domain: &wireRef{ID: "0x3"}})
	require.NoError(t, err)
	assert.Equal(t, NewSubdomainEvent{To: "0x1", ParentID: "0x2", SubtokenID: "0x3", Name: "a.dot"}, e)

	e, err = decodeEvent(wireEvent{Typename: "Transfer"})
	require.NoError(t, err)
	assert.Equal(t, UnknownEvent{Typename: "Transfer"}, e)
	assert.Equal(t, "Transfer", e.eventType())
}

func TestPnsInfo_WireShape(t *testing.T) {
	data, err := snapshot.Encode(&PnsInfo{
		TokenList:    []string{"0x01"},
		NewSubdomain: []NewSubdomain{{To: "0xaa", TokenID: "0x01", SubtokenID: "0x11", Name: "sub.a.dot"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"token_list": ["0x01"],
		"new_subdomain": [{"to": "0xaa", "tokenId": "0x01", "subtokenId": "0x11", "name": "sub.a.dot"}]
	}`, string(data))
}
