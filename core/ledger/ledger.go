package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pns-snapshot/core/database"
	"pns-snapshot/core/harvest"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrRunNotFound indicates an unknown run id.
var ErrRunNotFound = errors.New("ledger: run not found")

// Ledger persists Run records.
type Ledger struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

// New prepares the ledger table. With autoMigrate unset the table must
// already have every column the ledger uses.
func New(db *gorm.DB, autoMigrate bool, log *zap.Logger) (*Ledger, error) {
	if autoMigrate {
		if err := db.AutoMigrate(&Run{}); err != nil {
			return nil, fmt.Errorf("failed to migrate ledger: %w", err)
		}
	} else {
		missing, err := database.MissingColumns(db, Run{}.TableName(), columns)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("ledger table %s is missing columns: %s", Run{}.TableName(), strings.Join(missing, ", "))
		}
	}
	return &Ledger{db: db, log: log, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Start records a new running run of kind.
func (l *Ledger) Start(ctx context.Context, kind string) (*Run, error) {
	run := &Run{ID: uuid.NewString(), Kind: kind, Status: StatusRunning}
	if l == nil {
		run.StartedAt = time.Now().UTC()
		return run, nil
	}
	run.StartedAt = l.now()
	if err := l.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("failed to record run start: %w", err)
	}
	return run, nil
}

// Progress stores the last completed outer offset and the pages consumed so far.
// Failures are logged, not returned, so a flaky ledger never aborts a harvest.
func (l *Ledger) Progress(ctx context.Context, run *Run, lastOffset, pages int) {
	run.LastOffset = lastOffset
	run.Pages = pages
	if l == nil {
		return
	}
	err := l.db.WithContext(ctx).Model(run).Updates(map[string]any{
		"last_offset": lastOffset,
		"pages":       pages,
	}).Error
	if err != nil {
		l.log.Warn("Failed to record run progress", zap.String("run_id", run.ID), zap.Error(err))
	}
}

// Finish marks the run succeeded.
func (l *Ledger) Finish(ctx context.Context, run *Run, artifact string, entities, requests int) error {
	finished := time.Now().UTC()
	if l != nil {
		finished = l.now()
	}
	run.Status = StatusSucceeded
	run.FinishedAt = &finished
	run.Artifact = artifact
	run.Entities = entities
	run.Requests = requests
	if l == nil {
		return nil
	}
	return l.save(ctx, run)
}

// Fail marks the run failed and records where the failure happened.
func (l *Ledger) Fail(ctx context.Context, run *Run, cause error) error {
	finished := time.Now().UTC()
	if l != nil {
		finished = l.now()
	}
	run.Status = StatusFailed
	run.FinishedAt = &finished
	run.Error = cause.Error()
	if stageErr, ok := harvest.StageOf(cause); ok {
		run.FailedStage = string(stageErr.Stage)
		run.FailedOffset = stageErr.Offset
		run.FailedParent = stageErr.ParentID
	}
	if l == nil {
		return nil
	}
	// The harvest context may already be cancelled; the failure must still be recorded.
	return l.save(context.WithoutCancel(ctx), run)
}

// List returns the most recent runs, newest first. An empty kind lists all kinds.
func (l *Ledger) List(ctx context.Context, kind string, limit int) ([]Run, error) {
	if l == nil {
		return nil, nil
	}
	q := l.db.WithContext(ctx).Order("started_at DESC")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var runs []Run
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with id.
func (l *Ledger) Get(ctx context.Context, id string) (*Run, error) {
	if l == nil {
		return nil, ErrRunNotFound
	}
	var run Run
	err := l.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (l *Ledger) save(ctx context.Context, run *Run) error {
	if err := l.db.WithContext(ctx).Save(run).Error; err != nil {
		l.log.Error("Failed to record run", zap.String("run_id", run.ID), zap.String("status", string(run.Status)), zap.Error(err))
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}
