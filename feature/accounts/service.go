package accounts

import (
	"context"

	"pns-snapshot/core/graph"
	"pns-snapshot/core/harvest"
	"pns-snapshot/core/reconcile"
	"pns-snapshot/feature/ownership"

	"go.uber.org/zap"
)

// Service harvests the accounts family.
type Service struct {
	querier graph.Querier
	cfg     Config
	logger  *zap.Logger
}

// NewService creates a new accounts service.
func NewService(querier graph.Querier, cfg Config, logger *zap.Logger) *Service {
	return &Service{querier: querier, cfg: cfg, logger: logger}
}

// Harvest walks every account and returns the all_accounts document together
// with the run statistics.
func (s *Service) Harvest(ctx context.Context, observer harvest.Observer) (*AllAccounts, *ownership.Result, error) {
	h, err := ownership.NewHarvester(s.querier, ownership.Options{
		Family:       s.cfg.Family(),
		Window:       s.cfg.Window(),
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
	return FromSnapshot(res.Snapshot), res, nil
}

// Surplus diffs two stored all_accounts artifacts and returns the toggled
// domain names with the full report.
func Surplus(ctx context.Context, spec *reconcile.Spec, before, after string) (SurplusAccounts, *reconcile.Report, error) {
	report, err := reconcile.ReconcileRefs(ctx, spec, before, after)
	if err != nil {
		return nil, nil, err
	}
	return SurplusAccounts(report.Toggled), report, nil
}
