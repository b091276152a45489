package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TargetKind is what a payment enrolls into. Events and programs share one
// workflow and differ only in the table they live in.
type TargetKind string

const (
	KindEvent   TargetKind = "event"
	KindProgram TargetKind = "program"
)

func ParseTargetKind(s string) (TargetKind, error) {
	switch TargetKind(s) {
	case KindEvent, KindProgram:
		return TargetKind(s), nil
	default:
		return "", ErrInvalidTargetKind
	}
}

// Table is the SQL table holding targets of this kind. The value is a fixed
// identifier and is safe to format into queries.
func (k TargetKind) Table() string {
	switch k {
	case KindProgram:
		return "programs"
	default:
		return "events"
	}
}

func (k TargetKind) Title() string {
	if k == KindProgram {
		return "Program"
	}
	return "Event"
}

type Target struct {
	ID                int64           `json:"id" db:"id"`
	Kind              TargetKind      `json:"kind"`
	Title             string          `json:"title" db:"title"`
	Description       string          `json:"description" db:"description"`
	Date              CustomTime      `json:"date" db:"date"`
	RegistrationStart CustomTime      `json:"start_registration" db:"start_registration"`
	RegistrationEnd   CustomTime      `json:"end_registration" db:"end_registration"`
	Fee               decimal.Decimal `json:"fee" db:"fee"`
	AttendanceLimit   int             `json:"attendance_limit" db:"attendance_limit"`
	Attendees         int             `json:"attendees" db:"attendees"`
	Completed         bool            `json:"completed" db:"completed"`
	Image             string          `json:"image,omitempty" db:"image"`
	QRCode            string          `json:"qr_code,omitempty" db:"qr_code"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

type TargetWithAvailability struct {
	Target
	AvailableSeats int `json:"available_seats"`
}

func (t *Target) WithAvailability() *TargetWithAvailability {
	available := t.AttendanceLimit - t.Attendees
	if available < 0 {
		available = 0
	}
	return &TargetWithAvailability{Target: *t, AvailableSeats: available}
}

// RegistrationOpen reports whether now falls inside the registration window.
// Unset bounds are treated as open.
func (t *Target) RegistrationOpen(now time.Time) bool {
	if t.Completed {
		return false
	}
	if !t.RegistrationStart.IsZero() && now.Before(t.RegistrationStart.Time) {
		return false
	}
	if !t.RegistrationEnd.IsZero() && now.After(t.RegistrationEnd.Time) {
		return false
	}
	return true
}
