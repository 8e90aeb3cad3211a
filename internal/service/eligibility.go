package service

import (
	"github.com/noah-isme/seatbook-api/internal/models"
)

const (
	reasonAdminExcluded = "admin users excluded from auto-booking"
	reasonInactive      = "inactive user"
	reasonNoPreferences = "no preferences configured"
)

// eligibilityRule returns a non-empty reason when the user must be excluded.
type eligibilityRule func(user models.User) string

// defaultEligibilityRules are evaluated in order; the first rule that rejects a user wins.
var defaultEligibilityRules = []eligibilityRule{
	excludeAdmins,
	excludeInactive,
	requirePreferences,
}

func excludeAdmins(user models.User) string {
	if user.Role == models.RoleAdmin {
		return reasonAdminExcluded
	}
	return ""
}

func excludeInactive(user models.User) string {
	if !user.IsActive {
		return reasonInactive
	}
	return ""
}

func requirePreferences(user models.User) string {
	if len(user.DefaultWorkDays.Normalize()) == 0 || user.RequiredDaysPerWeek <= 0 {
		return reasonNoPreferences
	}
	return ""
}

// EligibilityFilter decides which users take part in auto-booking.
type EligibilityFilter struct {
	rules []eligibilityRule
}

// NewEligibilityFilter returns a filter with the standard rule order: admins, inactive users, missing preferences.
func NewEligibilityFilter() *EligibilityFilter {
	return &EligibilityFilter{rules: defaultEligibilityRules}
}

// Evaluate reports whether user is eligible, and the exclusion reason when it is not.
func (f *EligibilityFilter) Evaluate(user models.User) (bool, string) {
	for _, rule := range f.rules {
		if reason := rule(user); reason != "" {
			return false, reason
		}
	}
	return true, ""
}

// DaysToBook is the number of bookings the engine aims for in a full week: the required day count
// capped by the number of distinct preferred weekdays.
func DaysToBook(user models.User) int {
	preferred := len(user.DefaultWorkDays.Normalize())
	if user.RequiredDaysPerWeek < preferred {
		if user.RequiredDaysPerWeek < 0 {
			return 0
		}
		return user.RequiredDaysPerWeek
	}
	return preferred
}
