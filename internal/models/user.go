package models

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleEmployee UserRole = "employee"
)

// User represents an application user together with their office-attendance preferences.
type User struct {
	ID                  string    `db:"id" json:"id"`
	Username            string    `db:"username" json:"username"`
	Email               string    `db:"email" json:"email"`
	FullName            string    `db:"full_name" json:"fullName"`
	Department          *string   `db:"department" json:"department,omitempty"`
	Role                UserRole  `db:"role" json:"role"`
	IsActive            bool      `db:"is_active" json:"isActive"`
	DefaultWorkDays     WorkDays  `db:"default_work_days" json:"defaultWorkDays"`
	RequiredDaysPerWeek int       `db:"required_days_per_week" json:"requiredDaysPerWeek"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

// WorkDays is a set of preferred office weekdays stored as an INTEGER[] column (1 = Monday .. 5 = Friday).
type WorkDays []time.Weekday

// Normalize returns the Monday..Friday subset of d, sorted and without duplicates.
func (d WorkDays) Normalize() WorkDays {
	seen := make(map[time.Weekday]struct{}, len(d))
	out := make(WorkDays, 0, len(d))
	for _, day := range d {
		if day < time.Monday || day > time.Friday {
			continue
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Contains reports whether day is part of the set.
func (d WorkDays) Contains(day time.Weekday) bool {
	for _, candidate := range d {
		if candidate == day {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (d WorkDays) Value() (driver.Value, error) {
	ints := make(pq.Int64Array, len(d))
	for i, day := range d {
		ints[i] = int64(day)
	}
	return ints.Value()
}

// Scan implements sql.Scanner.
func (d *WorkDays) Scan(src interface{}) error {
	var ints pq.Int64Array
	if err := ints.Scan(src); err != nil {
		return fmt.Errorf("scan work days: %w", err)
	}
	days := make(WorkDays, len(ints))
	for i, v := range ints {
		days[i] = time.Weekday(v)
	}
	*d = days
	return nil
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
