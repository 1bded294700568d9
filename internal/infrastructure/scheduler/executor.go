package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clube/backend/internal/application/collection"
	"github.com/clube/backend/internal/application/dues"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAlreadyRan means the club's day is locked by a previous or concurrent run
var ErrAlreadyRan = errors.New("job already ran for this club and day")

// DuesRunner is the part of the dues engine the daily job drives
type DuesRunner interface {
	RefreshOverdue(ctx context.Context, tenantID uuid.UUID) (*dues.RefreshOverdueResponse, error)
	Generate(ctx context.Context, tenantID uuid.UUID, req dues.GenerateDuesRequest) (*dues.GenerateDuesResponse, error)
}

// CampaignRunner runs the collection campaigns of a club
type CampaignRunner interface {
	RunActive(ctx context.Context, tenantID uuid.UUID) ([]collection.RunResult, error)
}

// MaintenanceExecutor runs the daily jobs, one lock per club, kind and day
type MaintenanceExecutor struct {
	dues      DuesRunner
	campaigns CampaignRunner
	locker    Locker
	lockTTL   time.Duration
	lookahead int
	logger    *zap.Logger
}

// NewMaintenanceExecutor creates the executor. campaigns may be nil.
func NewMaintenanceExecutor(
	duesRunner DuesRunner,
	campaigns CampaignRunner,
	locker Locker,
	lockTTL time.Duration,
	lookahead int,
	logger *zap.Logger,
) *MaintenanceExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = NewInMemoryLocker()
	}
	return &MaintenanceExecutor{
		dues:      duesRunner,
		campaigns: campaigns,
		locker:    locker,
		lockTTL:   lockTTL,
		lookahead: lookahead,
		logger:    logger.Named("maintenance"),
	}
}

// LockKey is the key guarding one kind of work for one club on one day
func LockKey(job *Job) string {
	return fmt.Sprintf("%s:%s:%s", job.Kind, job.TenantID, job.Day)
}

// Execute takes the day lock and runs the job. The lock is kept after a
// success so no instance repeats the day, and released after a failure so
// the retry can take it again.
func (e *MaintenanceExecutor) Execute(ctx context.Context, job *Job) error {
	key := LockKey(job)
	ok, err := e.locker.Acquire(ctx, key, e.lockTTL)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyRan
	}

	if err := e.run(ctx, job); err != nil {
		if releaseErr := e.locker.Release(context.WithoutCancel(ctx), key); releaseErr != nil {
			e.logger.Warn("Failed to release job lock", zap.String("key", key), zap.Error(releaseErr))
		}
		return err
	}
	return nil
}

func (e *MaintenanceExecutor) run(ctx context.Context, job *Job) error {
	log := e.logger.With(zap.String("tenant_id", job.TenantID.String()), zap.String("day", job.Day))
	switch job.Kind {
	case JobDuesMaintenance:
		refreshed, err := e.dues.RefreshOverdue(ctx, job.TenantID)
		if err != nil {
			return fmt.Errorf("refresh overdue: %w", err)
		}
		generated, err := e.dues.Generate(ctx, job.TenantID, dues.GenerateDuesRequest{Months: e.lookahead})
		if err != nil {
			return fmt.Errorf("generate dues: %w", err)
		}
		log.Info("Dues maintenance finished",
			zap.Int64("overdue_updated", refreshed.Updated),
			zap.Int("created", generated.Created),
			zap.Int("ignored", generated.Ignored))
		return nil
	case JobCollectionCampaigns:
		if e.campaigns == nil {
			return nil
		}
		results, err := e.campaigns.RunActive(ctx, job.TenantID)
		if err != nil {
			return fmt.Errorf("run campaigns: %w", err)
		}
		log.Info("Collection campaigns finished", zap.Int("campaigns", len(results)))
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJobKind, job.Kind)
	}
}
