package ledger

import (
	"context"
	"sync/atomic"
	"time"

	"pns-snapshot/core/harvest"
	"pns-snapshot/core/metrics"

	"go.uber.org/zap"
)

// Tracker follows one harvest run. It is the harvest.Observer handed to
// harvesters and records progress in the ledger, metrics and the log.
type Tracker struct {
	ledger  *Ledger
	metrics *metrics.Metrics
	logger  *zap.Logger
	ctx     context.Context
	run     *Run
	started time.Time

	pages atomic.Int64
}

var _ harvest.Observer = (*Tracker)(nil)

// Track starts a run of kind. A nil ledger still tracks metrics and logs.
func (l *Ledger) Track(ctx context.Context, kind string, m *metrics.Metrics, logger *zap.Logger) (*Tracker, error) {
	run, err := l.Start(ctx, kind)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.Nop()
	}
	logger.Info("Harvest run started", zap.String("kind", kind), zap.String("run_id", run.ID))
	return &Tracker{
		ledger:  l,
		metrics: m,
		logger:  logger.With(zap.String("run_id", run.ID)),
		ctx:     ctx,
		run:     run,
		started: time.Now(),
	}, nil
}

// Run returns the tracked run.
func (t *Tracker) Run() *Run {
	return t.run
}

// Pages returns the number of pages consumed so far.
func (t *Tracker) Pages() int {
	return int(t.pages.Load())
}

// PageDone implements harvest.Observer. Outer pages advance the run's last
// completed offset.
func (t *Tracker) PageDone(family string, stage harvest.Stage, parentID string, offset, n int) {
	pages := t.pages.Add(1)
	t.metrics.ObservePage(family, string(stage))
	if stage != harvest.StageOuter {
		t.logger.Debug("Nested page consumed",
			zap.String("family", family),
			zap.String("parent_id", parentID),
			zap.Int("offset", offset),
			zap.Int("items", n),
		)
		return
	}
	t.logger.Debug("Outer page consumed",
		zap.String("family", family),
		zap.Int("offset", offset),
		zap.Int("items", n),
	)
	t.ledger.Progress(t.ctx, t.run, offset, int(pages))
}

// NestedDone implements harvest.Observer.
func (t *Tracker) NestedDone(family, parentID string, requests int) {
	t.metrics.NestedScans.WithLabelValues(family).Inc()
	t.logger.Debug("Continuation scan finished",
		zap.String("family", family),
		zap.String("parent_id", parentID),
		zap.Int("requests", requests),
	)
}

// Succeed closes the run with the written artifact.
func (t *Tracker) Succeed(artifact string, entities, requests int) error {
	t.run.Pages = t.Pages()
	if err := t.ledger.Finish(context.WithoutCancel(t.ctx), t.run, artifact, entities, requests); err != nil {
		return err
	}
	t.metrics.ObserveRun(t.run.Kind, string(StatusSucceeded), entities, time.Since(t.started))
	t.logger.Info("Harvest run succeeded",
		zap.String("kind", t.run.Kind),
		zap.String("artifact", artifact),
		zap.Int("entities", entities),
		zap.Int("requests", requests),
	)
	return nil
}

// Fail closes the run with cause and returns cause.
func (t *Tracker) Fail(cause error) error {
	t.run.Pages = t.Pages()
	t.metrics.ObserveRun(t.run.Kind, string(StatusFailed), 0, time.Since(t.started))
	fields := []zap.Field{zap.String("kind", t.run.Kind), zap.Error(cause)}
	if stageErr, ok := harvest.StageOf(cause); ok {
		fields = append(fields,
			zap.String("stage", string(stageErr.Stage)),
			zap.Int("offset", stageErr.Offset),
			zap.String("parent_id", stageErr.ParentID),
			zap.Int("last_offset", t.run.LastOffset),
		)
	}
	t.logger.Error("Harvest run failed", fields...)
	if err := t.ledger.Fail(t.ctx, t.run, cause); err != nil {
		t.logger.Warn("Failed to record run failure", zap.Error(err))
	}
	return cause
}
