package ownership

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"pns-snapshot/core/graph"
	"pns-snapshot/core/harvest"
	"pns-snapshot/core/ident"
	"pns-snapshot/core/snapshot"

	"go.uber.org/zap"
)

// Documents are the two GraphQL operations of an ownership family.
//
// The accounts document receives $limit, $offset, $childLimit and $parent and
// must return `accounts { id domains { name createdAt } }`. The domains document
// receives $id, $limit, $offset and $parent and must alias the account field to
// `owner`, returning `owner { domains { name createdAt } }`.
type Documents struct {
	AccountsOperation string
	Accounts          string
	DomainsOperation  string
	Domains           string
}

// Options configures one harvest.
type Options struct {
	Family    harvest.Family
	Window    harvest.Window
	Documents Documents
	// ParentDomain restricts children to direct subdomains of this domain.
	// The filter is sent with outer and continuation queries alike.
	ParentDomain string
	Observer     harvest.Observer
	Now          func() time.Time
}

// Result is a completed harvest.
type Result struct {
	Snapshot    *snapshot.Snapshot
	Requests    int
	Skipped     int
	NestedScans int
}

// Harvester walks an ownership family.
type Harvester struct {
	querier graph.Querier
	opts    Options
	logger  *zap.Logger

	requests atomic.Int64
	skipped  atomic.Int64
	scans    atomic.Int64
}

// NewHarvester creates a harvester. It validates the family up front so that a
// bad page size never reaches the remote service.
func NewHarvester(querier graph.Querier, opts Options, logger *zap.Logger) (*Harvester, error) {
	if err := opts.Family.Validate(); err != nil {
		return nil, err
	}
	if opts.Observer == nil {
		opts.Observer = harvest.NopObserver{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Harvester{querier: querier, opts: opts, logger: logger}, nil
}

// Run harvests every account and returns the assembled snapshot. The snapshot
// timestamp is taken when the run starts.
func (h *Harvester) Run(ctx context.Context) (*Result, error) {
	takenAt := h.opts.Now().UTC()
	family := h.opts.Family
	builder := snapshot.NewBuilder()

	nested := harvest.NewNested(family, h.fetchDomains)
	nested.OnScan = func(parentID string, requests int) {
		h.scans.Add(1)
		h.opts.Observer.NestedDone(family.Name, parentID, requests)
	}

	cursor := family.Outer()
	cursor.OnPage = func(offset, n int) {
		h.opts.Observer.PageDone(family.Name, harvest.StageOuter, "", offset, n)
	}

	_, err := harvest.Scan(ctx, cursor, h.fetchAccounts, func(offset int, page harvest.Page[harvest.Parent[child]]) error {
		completed, err := nested.CompleteAll(ctx, page.Items)
		if err != nil {
			return err
		}
		for i, parent := range page.Items {
			records := h.records(parent.ID, offset, completed[i])
			entity, ok, err := snapshot.Assemble(parent.ID, ident.AccountWidth, records, h.opts.Window)
			if err != nil {
				return fmt.Errorf("account %q: %w", parent.ID, err)
			}
			if ok {
				builder.Put(entity)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	snap := builder.Build(takenAt)
	h.logger.Info("Ownership harvest completed",
		zap.String("family", family.Name),
		zap.Int("entities", snap.Len()),
		zap.Int64("requests", h.requests.Load()),
		zap.Int64("nested_scans", h.scans.Load()),
		zap.Int64("skipped", h.skipped.Load()),
	)
	return &Result{
		Snapshot:    snap,
		Requests:    int(h.requests.Load()),
		Skipped:     int(h.skipped.Load()),
		NestedScans: int(h.scans.Load()),
	}, nil
}

// records drops skip-flagged children, logging each one.
func (h *Harvester) records(parentID string, offset int, children []child) []harvest.ChildRecord {
	out := make([]harvest.ChildRecord, 0, len(children))
	for _, c := range children {
		if c.Skip {
			h.skipped.Add(1)
			h.logger.Warn("Skipping domain without name",
				zap.String("family", h.opts.Family.Name),
				zap.String("parent_id", parentID),
				zap.Int("offset", offset),
			)
			continue
		}
		out = append(out, c.Record)
	}
	return out
}

func (h *Harvester) fetchAccounts(ctx context.Context, offset int) (harvest.Page[harvest.Parent[child]], error) {
	var data accountsData
	err := h.query(ctx, h.opts.Documents.AccountsOperation, h.opts.Documents.Accounts, map[string]any{
		"limit":      h.opts.Family.PageSize,
		"offset":     offset,
		"childLimit": h.opts.Family.EmbeddedLimit,
		"parent":     h.opts.ParentDomain,
	}, &data)
	if err != nil {
		return harvest.Page[harvest.Parent[child]]{}, err
	}

	parents := make([]harvest.Parent[child], 0, len(data.Accounts))
	for _, a := range data.Accounts {
		children, err := decodeChildren(h.opts.Family.Name, a.ID, offset, a.Domains)
		if err != nil {
			return harvest.Page[harvest.Parent[child]]{}, err
		}
		parents = append(parents, harvest.Parent[child]{ID: a.ID, Children: children})
	}
	return harvest.Page[harvest.Parent[child]]{Items: parents}, nil
}

func (h *Harvester) fetchDomains(ctx context.Context, parentID string, offset int) (harvest.Page[child], error) {
	var data domainsData
	err := h.query(ctx, h.opts.Documents.DomainsOperation, h.opts.Documents.Domains, map[string]any{
		"id":     parentID,
		"limit":  h.opts.Family.ChildPageSize,
		"offset": offset,
		"parent": h.opts.ParentDomain,
	}, &data)
	if err != nil {
		return harvest.Page[child]{}, err
	}

	// A vanished account yields an empty page.
	if data.Owner == nil {
		h.opts.Observer.PageDone(h.opts.Family.Name, harvest.StageNested, parentID, offset, 0)
		return harvest.Page[child]{}, nil
	}
	children, err := decodeChildren(h.opts.Family.Name, parentID, offset, data.Owner.Domains)
	if err != nil {
		return harvest.Page[child]{}, err
	}
	h.opts.Observer.PageDone(h.opts.Family.Name, harvest.StageNested, parentID, offset, len(children))
	return harvest.Page[child]{Items: children}, nil
}

func (h *Harvester) query(ctx context.Context, op, doc string, vars map[string]any, out any) error {
	h.requests.Add(1)
	return h.querier.Query(ctx, graph.Request{OperationName: op, Query: doc, Variables: vars}, out)
}
