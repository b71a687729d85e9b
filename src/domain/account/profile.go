package account

import (
	"fmt"
	"time"
)

// Profile is the per-account record keyed by the user id. The id is immutable
// and always equals the identity row's id. Photo URL is replaced wholesale on
// every upload; previously referenced blobs are not deleted.
type Profile struct {
	UserID      string     `json:"userId" db:"user_id"`
	Email       string     `json:"email" db:"email"`
	DisplayName string     `json:"displayName" db:"display_name"`
	Birthdate   *time.Time `json:"birthdate,omitempty" db:"birthdate"`
	Gender      *string    `json:"gender,omitempty" db:"gender"`
	PhotoURL    *string    `json:"photoURL,omitempty" db:"photo_url"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// ComposeBirthdate combines the day/month/year registration components into a
// single UTC date. All three components must be present and form a real
// calendar date.
func ComposeBirthdate(day, month, year int) (time.Time, error) {
	if year < 1900 || year > time.Now().Year() {
		return time.Time{}, fmt.Errorf("birth year %d out of range", year)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("birth month %d out of range", month)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("birth day %d out of range", day)
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow (Feb 30 -> Mar 2); reject that
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return time.Time{}, fmt.Errorf("%04d-%02d-%02d is not a valid date", year, month, day)
	}
	return d, nil
}
