package newaccounts

import (
	"context"

	"pns-snapshot/core/graph"
	"pns-snapshot/core/harvest"
	"pns-snapshot/feature/ownership"

	"go.uber.org/zap"
)

// Service harvests the new-accounts family.
type Service struct {
	querier graph.Querier
	cfg     Config
	logger  *zap.Logger
}

// NewService creates a new-accounts service.
func NewService(querier graph.Querier, cfg Config, logger *zap.Logger) *Service {
	return &Service{querier: querier, cfg: cfg, logger: logger}
}

// Harvest walks every account and returns the bucketed document. Domains
// created after the new cutoff are dropped at both pagination levels before
// bucketing.
func (s *Service) Harvest(ctx context.Context, observer harvest.Observer) (*AllAccounts, *ownership.Result, error) {
	window := s.cfg.Window()
	h, err := ownership.NewHarvester(s.querier, ownership.Options{
		Family:       s.cfg.Family(),
		Window:       window,
		Documents:    Documents,
		ParentDomain: s.cfg.ParentDomain,
		Observer:     observer,
	}, s.logger)
	if err != nil {
		return nil, nil, err
	}
	res, err := h.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	out := FromSnapshot(res.Snapshot, window)
	s.logger.Info("New accounts bucketed",
		zap.Int("old_accounts", out.OldAccountsNum),
		zap.Int("new_accounts", out.NewAccountsNum),
	)
	return out, res, nil
}
