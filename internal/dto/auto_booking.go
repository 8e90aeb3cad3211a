package dto

import (
	"time"

	"github.com/noah-isme/seatbook-api/internal/models"
)

// RunAutoBookingRequest triggers the engine for one Monday-anchored week.
type RunAutoBookingRequest struct {
	WeekStartDate string   `json:"weekStartDate" validate:"required,datetime=2006-01-02"`
	UserIDs       []string `json:"userIds,omitempty" validate:"omitempty,dive,required"`
}

// AutoBookingResult aggregates per-user outcomes of one engine run.
type AutoBookingResult struct {
	RunID         string             `json:"runId"`
	WeekStartDate string             `json:"weekStartDate"`
	Successful    int                `json:"successful"`
	Failed        int                `json:"failed"`
	Skipped       int                `json:"skipped"`
	Processed     int                `json:"processed"`
	Total         int                `json:"total"`
	Interrupted   bool               `json:"interrupted"`
	Details       AutoBookingDetails `json:"details"`
}

// AutoBookingDetails lists the users behind each aggregate count.
type AutoBookingDetails struct {
	Success []AutoBookingSuccess `json:"success"`
	Failed  []AutoBookingFailure `json:"failed"`
	Skipped []AutoBookingFailure `json:"skipped"`
}

// AutoBookingSuccess reports how many bookings a run created for a user. Notes carries per-date
// failures for partially booked weeks.
type AutoBookingSuccess struct {
	UserID          string   `json:"userId"`
	Username        string   `json:"username"`
	BookingsCreated int      `json:"bookingsCreated"`
	Notes           []string `json:"notes,omitempty"`
}

// AutoBookingFailure explains why a user received no bookings or was excluded.
type AutoBookingFailure struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

// NewAutoBookingResult returns a result with empty, non-nil detail lists.
func NewAutoBookingResult(runID string, week time.Time) *AutoBookingResult {
	return &AutoBookingResult{
		RunID:         runID,
		WeekStartDate: week.Format("2006-01-02"),
		Details: AutoBookingDetails{
			Success: []AutoBookingSuccess{},
			Failed:  []AutoBookingFailure{},
			Skipped: []AutoBookingFailure{},
		},
	}
}

// AddSuccess records a successful user.
func (r *AutoBookingResult) AddSuccess(entry AutoBookingSuccess) {
	r.Successful++
	r.Processed++
	r.Details.Success = append(r.Details.Success, entry)
}

// AddFailure records a user for whom no booking could be created.
func (r *AutoBookingResult) AddFailure(entry AutoBookingFailure) {
	r.Failed++
	r.Processed++
	r.Details.Failed = append(r.Details.Failed, entry)
}

// AddSkipped records a user excluded by eligibility.
func (r *AutoBookingResult) AddSkipped(entry AutoBookingFailure) {
	r.Skipped++
	r.Processed++
	r.Details.Skipped = append(r.Details.Skipped, entry)
}

// AutoBookingPreview is the read-only eligibility report shown before triggering a run.
type AutoBookingPreview struct {
	TotalUsers             int                     `json:"totalUsers"`
	EligibleForAutoBooking int                     `json:"eligibleForAutoBooking"`
	UserPreferences        []UserPreferencePreview `json:"userPreferences"`
}

// UserPreferencePreview describes one user's scheduling attributes and derived eligibility.
type UserPreferencePreview struct {
	ID                  string            `json:"id"`
	Username            string            `json:"username"`
	FullName            string            `json:"fullName"`
	Role                models.UserRole   `json:"role"`
	IsActive            bool              `json:"isActive"`
	DefaultWorkDays     []int             `json:"defaultWorkDays"`
	RequiredDaysPerWeek int               `json:"requiredDaysPerWeek"`
	Preferences         PreferenceSummary `json:"preferences"`
}

// PreferenceSummary holds the derived checks for a user.
type PreferenceSummary struct {
	HasValidDefaultWorkDays  bool   `json:"hasValidDefaultWorkDays"`
	HasValidRequiredDays     bool   `json:"hasValidRequiredDays"`
	DaysToBook               int    `json:"daysToBook"`
	IsEligibleForAutoBooking bool   `json:"isEligibleForAutoBooking"`
	Reason                   string `json:"reason,omitempty"`
}

// EnsureAutoBookingResponse lists the weeks queued for the caller.
type EnsureAutoBookingResponse struct {
	UserID string   `json:"userId"`
	Weeks  []string `json:"weeks"`
	Queued []string `json:"queued"`
}
