package pnsinfo

import (
	"context"
	"sync/atomic"

	"pns-snapshot/core/graph"
	"pns-snapshot/core/harvest"
	"pns-snapshot/core/ident"

	"go.uber.org/zap"
)

// Kind is the artifact kind written by this feature.
const Kind = "pns_info"

const queryTokenList = `query QueryTokenList($limit: Int!, $offset: Int!) {
  domains(skip: $offset, first: $limit) {
    id
  }
}`

const queryNewSubdomains = `query QueryNewSubdomains($limit: Int!, $offset: Int!) {
  domainEvents(first: $limit, skip: $offset) {
    __typename
    ... on NewSubdomain {
      name
      to {
        id
      }
      parentId {
        id
      }
      domain {
        id
      }
    }
  }
}`

// PnsInfo is the pns_info artifact.
type PnsInfo struct {
	TokenList    []string       `json:"token_list"`
	NewSubdomain []NewSubdomain `json:"new_subdomain"`
}

type tokenListData struct {
	Domains []wireRef `json:"domains"`
}

type eventsData struct {
	DomainEvents []wireEvent `json:"domainEvents"`
}

// Service harvests pns_info.
type Service struct {
	querier  graph.Querier
	cfg      Config
	logger   *zap.Logger
	requests atomic.Int64
}

// NewService creates a pns_info service.
func NewService(querier graph.Querier, cfg Config, logger *zap.Logger) *Service {
	return &Service{querier: querier, cfg: cfg, logger: logger}
}

// Harvest runs the token list scan followed by the event scan. It returns the
// document and the number of requests issued.
func (s *Service) Harvest(ctx context.Context, observer harvest.Observer) (*PnsInfo, int, error) {
	if observer == nil {
		observer = harvest.NopObserver{}
	}
	s.requests.Store(0)

	tokens, err := s.tokenList(ctx, observer)
	if err != nil {
		return nil, int(s.requests.Load()), err
	}
	events, err := s.newSubdomains(ctx, observer)
	if err != nil {
		return nil, int(s.requests.Load()), err
	}

	s.logger.Info("PNS info harvested",
		zap.Int("tokens", len(tokens)),
		zap.Int("new_subdomains", len(events)),
		zap.Int64("requests", s.requests.Load()),
	)
	return &PnsInfo{TokenList: tokens, NewSubdomain: events}, int(s.requests.Load()), nil
}

func (s *Service) tokenList(ctx context.Context, observer harvest.Observer) ([]string, error) {
	cursor := s.cursor(TokenFamily, s.cfg.TokenPageSize, observer)
	tokens := []string{}
	_, err := harvest.Scan(ctx, cursor,
		func(ctx context.Context, offset int) (harvest.Page[wireRef], error) {
			var data tokenListData
			err := s.query(ctx, "QueryTokenList", queryTokenList, s.cfg.TokenPageSize, offset, &data)
			return harvest.Page[wireRef]{Items: data.Domains}, err
		},
		func(_ int, page harvest.Page[wireRef]) error {
			for _, d := range page.Items {
				id, err := ident.Domain(d.ID)
				if err != nil {
					return err
				}
				tokens = append(tokens, id)
			}
			return nil
		},
	)
	return tokens, err
}

func (s *Service) newSubdomains(ctx context.Context, observer harvest.Observer) ([]NewSubdomain, error) {
	cursor := s.cursor(EventFamily, s.cfg.EventPageSize, observer)
	out := []NewSubdomain{}
	unknown := 0
	_, err := harvest.Scan(ctx, cursor,
		func(ctx context.Context, offset int) (harvest.Page[Event], error) {
			var data eventsData
			if err := s.query(ctx, "QueryNewSubdomains", queryNewSubdomains, s.cfg.EventPageSize, offset, &data); err != nil {
				return harvest.Page[Event]{}, err
			}
			events := make([]Event, 0, len(data.DomainEvents))
			for _, w := range data.DomainEvents {
				e, err := decodeEvent(w)
				if err != nil {
					return harvest.Page[Event]{}, &harvest.MalformedRecordError{
						Family: EventFamily,
						Offset: offset,
						Field:  "NewSubdomain",
						Err:    err,
					}
				}
				events = append(events, e)
			}
			return harvest.Page[Event]{Items: events}, nil
		},
		func(_ int, page harvest.Page[Event]) error {
			for _, e := range page.Items {
				switch ev := e.(type) {
				case NewSubdomainEvent:
					n, err := ev.normalize()
					if err != nil {
						return err
					}
					out = append(out, n)
				case UnknownEvent:
					unknown++
				}
			}
			return nil
		},
	)
	if unknown > 0 {
		s.logger.Debug("Dropped unknown domain events", zap.Int("count", unknown))
	}
	return out, err
}

func (s *Service) cursor(family string, pageSize int, observer harvest.Observer) harvest.Cursor {
	return harvest.Cursor{
		Family:   family,
		Stage:    harvest.StageOuter,
		PageSize: pageSize,
		OnPage: func(offset, n int) {
			observer.PageDone(family, harvest.StageOuter, "", offset, n)
		},
	}
}

func (s *Service) query(ctx context.Context, op, doc string, limit, offset int, out any) error {
	s.requests.Add(1)
	return s.querier.Query(ctx, graph.Request{
		OperationName: op,
		Query:         doc,
		Variables:     map[string]any{"limit": limit, "offset": offset},
	}, out)
}
