package snapshots

import (
	"context"
	"encoding/json"
	"time"

	"pns-snapshot/core/ledger"
	"pns-snapshot/core/reconcile"
	"pns-snapshot/core/snapshot"
	"pns-snapshot/feature/accounts"

	"go.uber.org/zap"
)

// Service reads artifacts and runs.
type Service struct {
	store  snapshot.Store
	ledger *ledger.Ledger
	spec   *reconcile.Spec
	logger *zap.Logger
}

// NewService creates a snapshots service. Diffs reuse decoded snapshots for cacheTTL.
func NewService(store snapshot.Store, l *ledger.Ledger, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		ledger: l,
		spec:   &reconcile.Spec{Source: accounts.NewSource(store), CacheTTL: cacheTTL},
		logger: logger,
	}
}

// List returns the artifacts of kind, oldest first.
func (s *Service) List(ctx context.Context, kind string) ([]snapshot.Artifact, error) {
	list, err := s.store.List(ctx, kind)
	if list == nil {
		list = []snapshot.Artifact{}
	}
	return list, err
}

// Latest returns the newest artifact of kind and its document.
func (s *Service) Latest(ctx context.Context, kind string) (snapshot.Artifact, json.RawMessage, error) {
	art, err := s.store.Latest(ctx, kind)
	if err != nil {
		return snapshot.Artifact{}, nil, err
	}
	doc, err := s.Document(ctx, art.Name)
	return art, doc, err
}

// Document returns the raw document of the named artifact.
func (s *Service) Document(ctx context.Context, name string) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := s.store.Load(ctx, name, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DiffResult is the response of a diff between two all_accounts artifacts.
type DiffResult struct {
	Before string            `json:"before"`
	After  string            `json:"after"`
	Report *reconcile.Report `json:"report"`
}

// Diff compares two all_accounts artifacts. Empty names default to the two newest.
func (s *Service) Diff(ctx context.Context, before, after string) (*DiffResult, error) {
	if before == "" || after == "" {
		older, newer, err := accounts.LatestPair(ctx, s.store)
		if err != nil {
			return nil, err
		}
		if before == "" {
			before = older
		}
		if after == "" {
			after = newer
		}
	}
	_, report, err := accounts.Surplus(ctx, s.spec, before, after)
	if err != nil {
		return nil, err
	}
	return &DiffResult{Before: before, After: after, Report: report}, nil
}

// Runs lists recent harvest runs.
func (s *Service) Runs(ctx context.Context, kind string, limit int) ([]ledger.Run, error) {
	runs, err := s.ledger.List(ctx, kind, limit)
	if runs == nil {
		runs = []ledger.Run{}
	}
	return runs, err
}

// Run returns one harvest run.
func (s *Service) Run(ctx context.Context, id string) (*ledger.Run, error) {
	return s.ledger.Get(ctx, id)
}
