package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/seatbook-api/internal/dto"
	"github.com/noah-isme/seatbook-api/internal/models"
	appErrors "github.com/noah-isme/seatbook-api/pkg/errors"
	"github.com/noah-isme/seatbook-api/pkg/workweek"
)

const (
	previewCacheKey     = "auto-booking:preview:all"
	previewCachePattern = "auto-booking:preview:*"

	reasonUserNotFound = "user not found"
)

type autoBookingUserReader interface {
	ListForAutoBooking(ctx context.Context) ([]models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type activeSeatLister interface {
	ListActive(ctx context.Context) ([]models.Seat, error)
}

type autoBookingStore interface {
	ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)
	CreateConfirmed(ctx context.Context, booking *models.Booking) error
}

type auditRecorder interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AutoBookingConfig governs engine behaviour.
type AutoBookingConfig struct {
	PreviewTTL time.Duration
}

// AutoBookingService assigns seats for a target week from each user's preferred work days.
type AutoBookingService struct {
	users       autoBookingUserReader
	seats       activeSeatLister
	bookings    autoBookingStore
	audit       auditRecorder
	lock        RunLocker
	eligibility *EligibilityFilter
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         AutoBookingConfig
}

// NewAutoBookingService wires engine dependencies. A nil lock falls back to an in-process lock.
func NewAutoBookingService(
	users autoBookingUserReader,
	seats activeSeatLister,
	bookings autoBookingStore,
	audit auditRecorder,
	lock RunLocker,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg AutoBookingConfig,
) *AutoBookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if lock == nil {
		lock = NewLocalRunLock()
	}
	if cfg.PreviewTTL <= 0 {
		cfg.PreviewTTL = time.Minute
	}
	return &AutoBookingService{
		users:       users,
		seats:       seats,
		bookings:    bookings,
		audit:       audit,
		lock:        lock,
		eligibility: NewEligibilityFilter(),
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// Run validates an admin request and books the requested week. actorID is recorded on audit rows.
func (s *AutoBookingService) Run(ctx context.Context, req dto.RunAutoBookingRequest, actorID string) (*dto.AutoBookingResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid auto-booking payload")
	}
	week, err := workweek.ParseMonday(req.WeekStartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return s.RunWeek(ctx, week, req.UserIDs, actorID)
}

// RunWeek books the week starting at monday for userIDs, or for every user when userIDs is empty.
// Per-user and per-date problems are reported in the result; only a failure to read the store
// snapshot, or a concurrent run, returns an error. Cancelling ctx stops the run between users and
// returns the partial result with Interrupted set.
func (s *AutoBookingService) RunWeek(ctx context.Context, monday time.Time, userIDs []string, actorID string) (*dto.AutoBookingResult, error) {
	monday = workweek.Date(monday)
	if monday.Weekday() != time.Monday {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("week must start on a Monday, got %s", monday.Weekday()))
	}

	start := time.Now()
	release, ok, err := s.lock.TryAcquire(ctx, AutoBookingLockName)
	if err != nil {
		s.metrics.ObserveAutoBookingRun(RunOutcomeError, time.Since(start), 0, 0, 0, 0)
		return nil, appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, "failed to acquire auto-booking lock")
	}
	if !ok {
		s.metrics.ObserveAutoBookingRun(RunOutcomeRejected, 0, 0, 0, 0, 0)
		return nil, appErrors.ErrRunInProgress
	}
	defer release()

	runID := uuid.NewString()
	run := &autoBookingRun{
		id:      runID,
		monday:  monday,
		actorID: actorID,
		logger:  s.logger.With(zap.String("run_id", runID), zap.String("week", workweek.Format(monday))),
	}
	run.logger.Info("auto-booking run started", zap.Int("requested_users", len(userIDs)))

	users, seats, existing, err := s.loadSnapshot(ctx, monday, userIDs)
	if err != nil {
		s.metrics.ObserveAutoBookingRun(RunOutcomeError, time.Since(start), 0, 0, 0, 0)
		run.logger.Error("auto-booking snapshot failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load auto-booking data")
	}
	run.seats = seats
	run.overlay = newBookingOverlay(existing)

	missing := missingUserIDs(userIDs, users)
	result := dto.NewAutoBookingResult(run.id, monday)
	result.Total = len(users) + len(missing)
	for _, id := range missing {
		result.AddSkipped(dto.AutoBookingFailure{UserID: id, Reason: reasonUserNotFound})
	}
	created := 0

	for _, user := range users {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}
		if ok, reason := s.eligibility.Evaluate(user); !ok {
			result.AddSkipped(dto.AutoBookingFailure{UserID: user.ID, Username: user.Username, Reason: reason})
			continue
		}

		outcome := s.bookUser(context.WithoutCancel(ctx), run, user)
		created += outcome.created
		if outcome.created == 0 && len(outcome.failures) > 0 {
			result.AddFailure(dto.AutoBookingFailure{UserID: user.ID, Username: user.Username, Reason: outcome.failures[0]})
			continue
		}
		result.AddSuccess(dto.AutoBookingSuccess{
			UserID:          user.ID,
			Username:        user.Username,
			BookingsCreated: outcome.created,
			Notes:           outcome.failures,
		})
	}

	if created > 0 {
		_ = s.cache.Invalidate(context.WithoutCancel(ctx), previewCachePattern)
	}

	outcome := RunOutcomeCompleted
	if result.Interrupted {
		outcome = RunOutcomeInterrupted
	}
	duration := time.Since(start)
	s.metrics.ObserveAutoBookingRun(outcome, duration, result.Successful, result.Failed, result.Skipped, created)
	run.logger.Info("auto-booking run finished",
		zap.String("outcome", outcome),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
		zap.Int("processed", result.Processed),
		zap.Int("total", result.Total),
		zap.Int("bookings_created", created),
		zap.Duration("duration", duration),
	)

	return result, nil
}

func (s *AutoBookingService) loadSnapshot(ctx context.Context, monday time.Time, userIDs []string) ([]models.User, []models.Seat, []models.Booking, error) {
	var (
		users []models.User
		err   error
	)
	if len(userIDs) > 0 {
		users, err = s.users.FindByIDs(ctx, userIDs)
	} else {
		users, err = s.users.ListForAutoBooking(ctx)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	all, err := s.seats.ListActive(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	seats := make([]models.Seat, 0, len(all))
	for _, seat := range all {
		if seat.IsActive {
			seats = append(seats, seat)
		}
	}
	sort.SliceStable(seats, func(i, j int) bool { return seatIDLess(seats[i].ID, seats[j].ID) })

	existing, err := s.bookings.ListConfirmedBetween(ctx, monday, monday.AddDate(0, 0, 4))
	if err != nil {
		return nil, nil, nil, err
	}
	return users, seats, existing, nil
}

// missingUserIDs returns the distinct requested ids with no matching user, in ascending order.
func missingUserIDs(requested []string, found []models.User) []string {
	if len(requested) == 0 {
		return nil
	}
	known := make(map[string]struct{}, len(found))
	for _, u := range found {
		known[u.ID] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := known[id]; ok {
			continue
		}
		known[id] = struct{}{}
		missing = append(missing, id)
	}
	sort.Strings(missing)
	return missing
}

type autoBookingRun struct {
	id      string
	monday  time.Time
	actorID string
	seats   []models.Seat
	overlay *bookingOverlay
	logger  *zap.Logger
}

type userOutcome struct {
	created  int
	failures []string
}

// bookUser assigns seats for the first DaysToBook preferred weekdays of the run's week.
func (s *AutoBookingService) bookUser(ctx context.Context, run *autoBookingRun, user models.User) userOutcome {
	var outcome userOutcome
	for _, date := range candidateDates(run.monday, user) {
		if run.overlay.userBooked(user.ID, date) {
			continue
		}
		if reason := s.bookDate(ctx, run, user, date); reason != "" {
			run.logger.Warn("auto-booking date failed",
				zap.String("user_id", user.ID), zap.String("date", workweek.Format(date)), zap.String("reason", reason))
			outcome.failures = append(outcome.failures, reason)
			continue
		}
		outcome.created++
	}
	return outcome
}

// bookDate reserves the first free seat on date and returns a failure reason, or "" on success.
func (s *AutoBookingService) bookDate(ctx context.Context, run *autoBookingRun, user models.User, date time.Time) string {
	day := workweek.Format(date)
	for _, seat := range run.seats {
		if run.overlay.seatTaken(seat.ID, date) {
			continue
		}

		booking := &models.Booking{UserID: user.ID, SeatID: seat.ID, BookingDate: date, IsAutoBooked: true}
		err := s.bookings.CreateConfirmed(ctx, booking)
		switch {
		case err == nil:
			run.overlay.mark(user.ID, seat.ID, date)
			s.recordAudit(ctx, run, booking)
			return ""
		case errors.Is(err, appErrors.ErrUserAlreadyBooked):
			run.overlay.markUser(user.ID, date)
			run.logger.Warn("user booked concurrently", zap.String("user_id", user.ID), zap.String("date", day), zap.Error(err))
			return fmt.Sprintf("booking conflict on %s", day)
		case appErrors.IsConflict(err):
			run.overlay.markSeat(seat.ID, date)
			run.logger.Warn("seat booked concurrently", zap.String("seat_id", seat.ID), zap.String("date", day), zap.Error(err))
			return fmt.Sprintf("booking conflict on %s", day)
		default:
			run.logger.Error("failed to create booking",
				zap.String("user_id", user.ID), zap.String("seat_id", seat.ID), zap.String("date", day), zap.Error(err))
			return fmt.Sprintf("failed to create booking on %s", day)
		}
	}
	return fmt.Sprintf("no seats available on %s", day)
}

func (s *AutoBookingService) recordAudit(ctx context.Context, run *autoBookingRun, booking *models.Booking) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"userId":       booking.UserID,
		"seatId":       booking.SeatID,
		"bookingDate":  workweek.Format(booking.BookingDate),
		"isAutoBooked": true,
		"runId":        run.id,
	})
	entry := &models.AuditLog{
		Action:     models.AuditActionAutoCreate,
		Resource:   models.AuditResourceBooking,
		ResourceID: &booking.ID,
		NewValues:  payload,
	}
	if run.actorID != "" {
		actor := run.actorID
		entry.UserID = &actor
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		run.logger.Warn("failed to record auto-booking audit", zap.String("booking_id", booking.ID), zap.Error(err))
	}
}

// candidateDates returns the user's preferred weekdays of the week in date order, capped at DaysToBook.
func candidateDates(monday time.Time, user models.User) []time.Time {
	days := user.DefaultWorkDays.Normalize()
	limit := DaysToBook(user)
	dates := make([]time.Time, 0, limit)
	for _, date := range workweek.Weekdays(monday) {
		if len(dates) == limit {
			break
		}
		if days.Contains(date.Weekday()) {
			dates = append(dates, date)
		}
	}
	return dates
}

// Preview reports every user's scheduling attributes and derived eligibility. The second return value
// is true when the report was served from cache.
func (s *AutoBookingService) Preview(ctx context.Context) (*dto.AutoBookingPreview, bool, error) {
	var cached dto.AutoBookingPreview
	if hit, err := s.cache.Get(ctx, previewCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	users, err := s.users.ListForAutoBooking(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	preview := &dto.AutoBookingPreview{
		TotalUsers:      len(users),
		UserPreferences: make([]dto.UserPreferencePreview, 0, len(users)),
	}
	for _, user := range users {
		eligible, reason := s.eligibility.Evaluate(user)
		if eligible {
			preview.EligibleForAutoBooking++
		}
		days := user.DefaultWorkDays.Normalize()
		ints := make([]int, len(days))
		for i, d := range days {
			ints[i] = int(d)
		}
		preview.UserPreferences = append(preview.UserPreferences, dto.UserPreferencePreview{
			ID:                  user.ID,
			Username:            user.Username,
			FullName:            user.FullName,
			Role:                user.Role,
			IsActive:            user.IsActive,
			DefaultWorkDays:     ints,
			RequiredDaysPerWeek: user.RequiredDaysPerWeek,
			Preferences: dto.PreferenceSummary{
				HasValidDefaultWorkDays:  len(days) > 0,
				HasValidRequiredDays:     user.RequiredDaysPerWeek > 0,
				DaysToBook:               DaysToBook(user),
				IsEligibleForAutoBooking: eligible,
				Reason:                   reason,
			},
		})
	}

	_ = s.cache.Set(ctx, previewCacheKey, preview, s.cfg.PreviewTTL)
	return preview, false, nil
}

// bookingOverlay tracks confirmed (seat, date) and (user, date) pairs for the duration of a run,
// including bookings the run itself created.
type bookingOverlay struct {
	seats map[string]map[string]struct{}
	users map[string]map[string]struct{}
}

func newBookingOverlay(existing []models.Booking) *bookingOverlay {
	o := &bookingOverlay{
		seats: make(map[string]map[string]struct{}),
		users: make(map[string]map[string]struct{}),
	}
	for _, b := range existing {
		if b.Status != "" && b.Status != models.BookingStatusConfirmed {
			continue
		}
		o.mark(b.UserID, b.SeatID, b.BookingDate)
	}
	return o
}

func (o *bookingOverlay) seatTaken(seatID string, date time.Time) bool {
	_, ok := o.seats[workweek.Format(date)][seatID]
	return ok
}

func (o *bookingOverlay) userBooked(userID string, date time.Time) bool {
	_, ok := o.users[workweek.Format(date)][userID]
	return ok
}

func (o *bookingOverlay) mark(userID, seatID string, date time.Time) {
	o.markSeat(seatID, date)
	o.markUser(userID, date)
}

func (o *bookingOverlay) markSeat(seatID string, date time.Time) {
	addToSet(o.seats, workweek.Format(date), seatID)
}

func (o *bookingOverlay) markUser(userID string, date time.Time) {
	addToSet(o.users, workweek.Format(date), userID)
}

func addToSet(set map[string]map[string]struct{}, date, id string) {
	inner, ok := set[date]
	if !ok {
		inner = make(map[string]struct{})
		set[date] = inner
	}
	inner[id] = struct{}{}
}
