package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/seatbook-api/internal/dto"
	appErrors "github.com/noah-isme/seatbook-api/pkg/errors"
	"github.com/noah-isme/seatbook-api/pkg/jobs"
	"github.com/noah-isme/seatbook-api/pkg/workweek"
)

const ensureJobType = "auto_booking.ensure_user"

type weekRunner interface {
	RunWeek(ctx context.Context, monday time.Time, userIDs []string, actorID string) (*dto.AutoBookingResult, error)
}

// AutoBookingSchedulerConfig governs the background triggers of the engine.
type AutoBookingSchedulerConfig struct {
	PeriodicEnabled bool
	Interval        time.Duration
	HorizonWeeks    int
	Workers         int
	Retries         int
	RetryDelay      time.Duration
}

// AutoBookingScheduler runs the engine periodically for everyone and on demand for single users
// through a job queue. Both paths go through the engine's run lock.
type AutoBookingScheduler struct {
	runner weekRunner
	queue  *jobs.Queue
	cfg    AutoBookingSchedulerConfig
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

type ensurePayload struct {
	UserID string
	Monday time.Time
}

// NewAutoBookingScheduler constructs a scheduler around runner.
func NewAutoBookingScheduler(runner weekRunner, cfg AutoBookingSchedulerConfig, logger *zap.Logger) *AutoBookingScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.HorizonWeeks <= 0 {
		cfg.HorizonWeeks = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	s := &AutoBookingScheduler{runner: runner, cfg: cfg, logger: logger, now: time.Now}
	s.queue = jobs.NewQueue("auto-booking", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the job workers and, when enabled, the periodic loop.
func (s *AutoBookingScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.queue.Start(ctx)
	s.started = true

	if !s.cfg.PeriodicEnabled {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunHorizon(ctx)
			}
		}
	}()
	s.logger.Info("auto-booking schedule started", zap.Duration("interval", s.cfg.Interval), zap.Int("horizon_weeks", s.cfg.HorizonWeeks))
}

// Stop cancels the periodic loop and drains the workers.
func (s *AutoBookingScheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.started = false
	s.mu.Unlock()

	s.wg.Wait()
	s.queue.Stop()
}

// RunHorizon books every upcoming week of the horizon for all users. Weeks that collide with
// another run are skipped until the next tick.
func (s *AutoBookingScheduler) RunHorizon(ctx context.Context) {
	for _, monday := range workweek.Upcoming(s.now(), s.cfg.HorizonWeeks) {
		if ctx.Err() != nil {
			return
		}
		week := workweek.Format(monday)
		result, err := s.runner.RunWeek(ctx, monday, nil, "")
		switch {
		case errors.Is(err, appErrors.ErrRunInProgress):
			s.logger.Info("scheduled auto-booking skipped, run in progress", zap.String("week", week))
		case err != nil:
			s.logger.Error("scheduled auto-booking failed", zap.String("week", week), zap.Error(err))
		default:
			s.logger.Info("scheduled auto-booking completed",
				zap.String("week", week),
				zap.Int("successful", result.Successful),
				zap.Int("failed", result.Failed),
				zap.Int("skipped", result.Skipped))
		}
	}
}

// EnsureUser queues a run restricted to userID for each week of the horizon. Weeks already queued
// for the user are reported in Weeks but not in Queued.
func (s *AutoBookingScheduler) EnsureUser(userID string) (*dto.EnsureAutoBookingResponse, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}
	resp := &dto.EnsureAutoBookingResponse{UserID: userID, Weeks: []string{}, Queued: []string{}}
	for _, monday := range workweek.Upcoming(s.now(), s.cfg.HorizonWeeks) {
		week := workweek.Format(monday)
		resp.Weeks = append(resp.Weeks, week)

		err := s.queue.Enqueue(jobs.Job{
			ID:      uuid.NewString(),
			Type:    ensureJobType,
			Key:     fmt.Sprintf("%s:%s", userID, week),
			Payload: ensurePayload{UserID: userID, Monday: monday},
		})
		switch {
		case err == nil:
			resp.Queued = append(resp.Queued, week)
		case errors.Is(err, jobs.ErrDuplicate):
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, "failed to queue auto-booking")
		}
	}
	return resp, nil
}

func (s *AutoBookingScheduler) handleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(ensurePayload)
	if !ok {
		s.logger.Error("unexpected auto-booking job payload", zap.String("job_id", job.ID))
		return nil
	}
	result, err := s.runner.RunWeek(ctx, payload.Monday, []string{payload.UserID}, "")
	if err != nil {
		return err
	}
	s.logger.Debug("user auto-booking completed",
		zap.String("user_id", payload.UserID),
		zap.String("week", workweek.Format(payload.Monday)),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))
	return nil
}
