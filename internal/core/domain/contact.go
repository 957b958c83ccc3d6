package domain

import (
	"time"
)

type Contact struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UserID    int64      `json:"-"`
}

// BirthdayWindow converts a lookahead in days into a pair of day-of-year
// bounds. When the window crosses the year boundary the end bound is smaller
// than the start bound and callers must match doy >= start OR doy <= end
// instead of the plain inclusive range.
func BirthdayWindow(today time.Time, days int) (start, end int) {
	return today.YearDay(), today.AddDate(0, 0, days).YearDay()
}

// InBirthdayWindow reports whether a day-of-year falls inside the window
// produced by BirthdayWindow, handling the wraparound case.
func InBirthdayWindow(doy, start, end int) bool {
	if start <= end {
		return doy >= start && doy <= end
	}
	return doy >= start || doy <= end
}
