// Package graphtest provides an in-memory graph.Querier for harvester tests.
package graphtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pns-snapshot/core/graph"
)

// Responder returns the data for one request. It may return any value that
// encodes to the JSON shape of the GraphQL data field.
type Responder func(req graph.Request) (any, error)

// Querier serves requests from a Responder and records them.
type Querier struct {
	mu       sync.Mutex
	respond  Responder
	requests []graph.Request
}

// New creates a Querier backed by respond.
func New(respond Responder) *Querier {
	return &Querier{respond: respond}
}

// Query encodes the responder's value and decodes it into out the way the
// HTTP client does, with numbers kept as json.Number.
func (q *Querier) Query(ctx context.Context, req graph.Request, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	q.requests = append(q.requests, req)
	q.mu.Unlock()

	data, err := q.respond(req)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("graphtest: encode response: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(out)
}

// Requests returns a copy of every request received so far.
func (q *Querier) Requests() []graph.Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]graph.Request(nil), q.requests...)
}

// Count returns how many requests used operation.
func (q *Querier) Count(operation string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, r := range q.requests {
		if r.OperationName == operation {
			n++
		}
	}
	return n
}

// IntVar reads an integer variable from a request.
func IntVar(req graph.Request, name string) int {
	switch v := req.Variables[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Window returns items[offset:offset+limit], clamped to the slice bounds.
func Window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
