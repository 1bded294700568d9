package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/clube/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the trigger checks for execution
const cronTickerInterval = time.Minute

// TenantSource lists the clubs that get daily jobs
type TenantSource interface {
	FindActive(ctx context.Context) ([]identity.Tenant, error)
}

// ParseCronSchedule extracts hour and minute from "minute hour * * *".
// An empty expression means 03:00.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	parts := strings.Fields(cronExpr)
	if len(parts) == 0 {
		return 3, 0, nil
	}
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%w: cron %q needs minute and hour", ErrInvalidConfig, cronExpr)
	}
	if minute, err = strconv.Atoi(parts[0]); err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute must be 0-59 in %q", ErrInvalidConfig, cronExpr)
	}
	if hour, err = strconv.Atoi(parts[1]); err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour must be 0-23 in %q", ErrInvalidConfig, cronExpr)
	}
	return hour, minute, nil
}

// DailyTrigger submits the daily jobs of every active club once a day,
// at hour:minute of each club's own timezone.
type DailyTrigger struct {
	hour, minute int
	maxRetries   int
	scheduler    *Scheduler
	tenants      TenantSource
	logger       *zap.Logger
	now          func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	// lastDay maps a club to the last civil day it was triggered for
	lastDay map[string]string
	lastRun *time.Time
}

// NewDailyTrigger parses cronExpr and creates a trigger
func NewDailyTrigger(cronExpr string, maxRetries int, scheduler *Scheduler, tenants TenantSource, logger *zap.Logger) (*DailyTrigger, error) {
	hour, minute, err := ParseCronSchedule(cronExpr)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyTrigger{
		hour:       hour,
		minute:     minute,
		maxRetries: maxRetries,
		scheduler:  scheduler,
		tenants:    tenants,
		logger:     logger.Named("daily_trigger"),
		now:        time.Now,
		lastDay:    make(map[string]string),
	}, nil
}

// Start starts the minute ticker
func (t *DailyTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Daily trigger started", zap.Int("hour", t.hour), zap.Int("minute", t.minute))
	return nil
}

// Stop stops the ticker and waits for an in-flight tick
func (t *DailyTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
	t.logger.Info("Daily trigger stopped")
}

func (t *DailyTrigger) loop(ctx context.Context) {
	defer t.wg.Done()
	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := t.Tick(ctx); err != nil {
				t.logger.Error("Daily trigger tick failed", zap.Error(err))
			}
		}
	}
}

// Tick submits jobs for every club whose local time has reached the
// schedule today and that has not been triggered for that day yet.
// It returns how many jobs were submitted.
func (t *DailyTrigger) Tick(ctx context.Context) (int, error) {
	tenants, err := t.tenants.FindActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active clubs: %w", err)
	}

	now := t.now()
	submitted := 0
	for i := range tenants {
		tenant := &tenants[i]
		local := now.In(tenant.Location())
		if !t.due(local) {
			continue
		}
		day := tenant.Today(now).Format(time.DateOnly)

		t.mu.Lock()
		already := t.lastDay[tenant.ID.String()] == day
		t.mu.Unlock()
		if already {
			continue
		}

		ok := true
		for _, kind := range DailyJobKinds() {
			if err := t.scheduler.SubmitJob(NewJob(tenant.ID, kind, day, t.maxRetries)); err != nil {
				t.logger.Error("Failed to submit daily job",
					zap.String("tenant_id", tenant.ID.String()),
					zap.String("kind", string(kind)),
					zap.Error(err))
				ok = false
				continue
			}
			submitted++
		}
		if ok {
			t.mu.Lock()
			t.lastDay[tenant.ID.String()] = day
			t.mu.Unlock()
		}
	}

	if submitted > 0 {
		t.mu.Lock()
		t.lastRun = &now
		t.mu.Unlock()
		t.logger.Info("Daily jobs submitted", zap.Int("jobs", submitted))
	}
	return submitted, nil
}

// due reports whether local time is at or past the schedule
func (t *DailyTrigger) due(local time.Time) bool {
	return local.Hour() > t.hour || (local.Hour() == t.hour && local.Minute() >= t.minute)
}

// NextRunAt returns the next scheduled time in loc
func (t *DailyTrigger) NextRunAt(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), t.hour, t.minute, 0, 0, loc)
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// LastRun returns when jobs were last submitted
func (t *DailyTrigger) LastRun() *time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastRun
}
