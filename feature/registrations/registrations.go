package registrations

import (
	"context"
	"fmt"
	"sync/atomic"

	"pns-snapshot/core/graph"
	"pns-snapshot/core/harvest"
	"pns-snapshot/core/ident"
	"pns-snapshot/core/utils"

	"go.uber.org/zap"
)

// Kind is the artifact kind written by this feature.
const Kind = "records"

const operation = "QueryRegistrations"

const queryRegistrations = `query QueryRegistrations($limit: Int!, $offset: Int!) {
  registrations(skip: $offset, first: $limit) {
    expiryDate
    origin {
      id
    }
    capacity
    domain {
      subdomainCount
      id
    }
  }
}`

// Record is the registration state of one domain.
type Record struct {
	// Origin is the normalised id of the originating domain, the domain itself when unset.
	Origin string `json:"origin"`
	// Expire is the expiry timestamp, nil when absent or unparsable.
	Expire   *int64 `json:"expire"`
	Capacity int64  `json:"capacity"`
	Children int32  `json:"children"`
}

// Records is the records artifact.
type Records map[string]Record

type wireRegistration struct {
	ExpiryDate any `json:"expiryDate"`
	Origin     *struct {
		ID string `json:"id"`
	} `json:"origin"`
	Capacity any `json:"capacity"`
	Domain   struct {
		SubdomainCount int32  `json:"subdomainCount"`
		ID             string `json:"id"`
	} `json:"domain"`
}

type registrationsData struct {
	Registrations []wireRegistration `json:"registrations"`
}

// Service harvests registrations.
type Service struct {
	querier graph.Querier
	cfg     Config
	logger  *zap.Logger
}

// NewService creates a registrations service.
func NewService(querier graph.Querier, cfg Config, logger *zap.Logger) *Service {
	return &Service{querier: querier, cfg: cfg, logger: logger}
}

// Harvest scans every registration. A later record for the same domain
// replaces an earlier one. It returns the records and the request count.
func (s *Service) Harvest(ctx context.Context, observer harvest.Observer) (Records, int, error) {
	if observer == nil {
		observer = harvest.NopObserver{}
	}
	cursor := harvest.Cursor{Family: FamilyName, Stage: harvest.StageOuter, PageSize: s.cfg.PageSize}
	cursor.OnPage = func(offset, n int) {
		observer.PageDone(FamilyName, harvest.StageOuter, "", offset, n)
	}

	var requests atomic.Int64
	records := make(Records)
	_, err := harvest.Scan(ctx, cursor,
		func(ctx context.Context, offset int) (harvest.Page[wireRegistration], error) {
			requests.Add(1)
			var data registrationsData
			err := s.querier.Query(ctx, graph.Request{
				OperationName: operation,
				Query:         queryRegistrations,
				Variables:     map[string]any{"limit": s.cfg.PageSize, "offset": offset},
			}, &data)
			return harvest.Page[wireRegistration]{Items: data.Registrations}, err
		},
		func(offset int, page harvest.Page[wireRegistration]) error {
			for _, w := range page.Items {
				id, rec, err := s.record(offset, w)
				if err != nil {
					return err
				}
				records[id] = rec
			}
			return nil
		},
	)
	if err != nil {
		return nil, int(requests.Load()), err
	}

	s.logger.Info("Registrations harvested", zap.Int("records", len(records)), zap.Int64("requests", requests.Load()))
	return records, int(requests.Load()), nil
}

func (s *Service) record(offset int, w wireRegistration) (string, Record, error) {
	id, err := ident.Domain(w.Domain.ID)
	if err != nil {
		return "", Record{}, fmt.Errorf("domain %q: %w", w.Domain.ID, err)
	}

	origin := id
	if w.Origin != nil {
		if origin, err = ident.Domain(w.Origin.ID); err != nil {
			return "", Record{}, fmt.Errorf("origin of %s: %w", id, err)
		}
	}

	capacity, ok, err := utils.OptionalInt64(w.Capacity)
	if err != nil {
		return "", Record{}, &harvest.MalformedRecordError{
			Family:   FamilyName,
			ParentID: id,
			Offset:   offset,
			Field:    "capacity",
			Value:    utils.ToString(w.Capacity),
			Err:      err,
		}
	}
	if !ok {
		capacity = s.cfg.DefaultCapacity
	}

	rec := Record{Origin: origin, Capacity: capacity, Children: w.Domain.SubdomainCount}
	if expire, ok, err := utils.OptionalInt64(w.ExpiryDate); err == nil && ok {
		rec.Expire = &expire
	} else if err != nil {
		s.logger.Debug("Ignoring unparsable expiry date",
			zap.String("domain", id),
			zap.String("value", utils.ToString(w.ExpiryDate)),
		)
	}
	return id, rec, nil
}
