package subdomains

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"pns-snapshot/core/graph"
	"pns-snapshot/core/harvest"

	"go.uber.org/zap"
)

// Kind is the artifact kind written by this feature.
const Kind = "domains"

// ErrNoConnection indicates a response without a subdomains connection.
var ErrNoConnection = errors.New("subdomains: response has no connection")

const querySubdomains = `query Domains($first: Int!, $offset: Int!) {
  subdomains(first: $first, offset: $offset) {
    totalCount
    nodes {
      id
      name
      owner
      parent
    }
  }
}`

// Subdomain is one node of the dump. Identifiers are kept as served.
type Subdomain struct {
	ID     string  `json:"id"`
	Name   *string `json:"name"`
	Owner  *string `json:"owner"`
	Parent *string `json:"parent"`
}

type connectionData struct {
	Subdomains *struct {
		TotalCount int          `json:"totalCount"`
		Nodes      []*Subdomain `json:"nodes"`
	} `json:"subdomains"`
}

// Service dumps subdomains.
type Service struct {
	querier graph.Querier
	cfg     Config
	logger  *zap.Logger
}

// NewService creates a subdomains service.
func NewService(querier graph.Querier, cfg Config, logger *zap.Logger) *Service {
	return &Service{querier: querier, cfg: cfg, logger: logger}
}

// Harvest walks the connection until the offset passes the largest reported
// total, drops null nodes and checks the result against that total.
func (s *Service) Harvest(ctx context.Context, observer harvest.Observer) ([]Subdomain, int, error) {
	if observer == nil {
		observer = harvest.NopObserver{}
	}
	cursor := harvest.Cursor{
		Family:   FamilyName,
		Stage:    harvest.StageOuter,
		PageSize: s.cfg.PageSize,
		OnPage: func(offset, n int) {
			observer.PageDone(FamilyName, harvest.StageOuter, "", offset, n)
		},
	}

	var nulls atomic.Int64
	nodes, total, requests, err := harvest.ScanCounted(ctx, cursor,
		func(ctx context.Context, offset int) (harvest.CountedPage[Subdomain], error) {
			var data connectionData
			err := s.querier.Query(ctx, graph.Request{
				OperationName: "Domains",
				Query:         querySubdomains,
				Variables:     map[string]any{"first": s.cfg.PageSize, "offset": offset},
			}, &data)
			if err != nil {
				return harvest.CountedPage[Subdomain]{}, err
			}
			if data.Subdomains == nil {
				return harvest.CountedPage[Subdomain]{}, ErrNoConnection
			}
			page := harvest.CountedPage[Subdomain]{Total: data.Subdomains.TotalCount}
			for _, n := range data.Subdomains.Nodes {
				if n == nil {
					nulls.Add(1)
					continue
				}
				page.Items = append(page.Items, *n)
			}
			return page, nil
		},
	)
	if err != nil {
		return nil, requests, err
	}

	s.logger.Info("Subdomains dumped",
		zap.Int("subdomains", len(nodes)),
		zap.Int("total", total),
		zap.Int64("null_nodes", nulls.Load()),
		zap.Int("requests", requests),
	)
	if err := harvest.CheckCount(FamilyName, len(nodes), total); err != nil {
		return nil, requests, fmt.Errorf("subdomain dump incomplete: %w", err)
	}
	if nodes == nil {
		nodes = []Subdomain{}
	}
	return nodes, requests, nil
}
