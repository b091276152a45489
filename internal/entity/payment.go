package entity

import (
	"regexp"
	"strings"
	"time"
)

// PaymentStatus is the lifecycle state of a payment request.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Approve returns the state reached by approving a request in status s.
// Only pending requests can be approved; approved and rejected are terminal.
func (s PaymentStatus) Approve() (PaymentStatus, error) {
	switch s {
	case PaymentStatusPending:
		return PaymentStatusApproved, nil
	case PaymentStatusApproved, PaymentStatusRejected:
		return s, ErrInvalidTransition
	default:
		return s, ErrInvalidPaymentStatus
	}
}

// Reject returns the state reached by rejecting a request in status s.
func (s PaymentStatus) Reject() (PaymentStatus, error) {
	switch s {
	case PaymentStatusPending:
		return PaymentStatusRejected, nil
	case PaymentStatusApproved, PaymentStatusRejected:
		return s, ErrInvalidTransition
	default:
		return s, ErrInvalidPaymentStatus
	}
}

// SubmissionType tells whether a request was made by a registered user or a guest.
type SubmissionType string

const (
	SubmissionUser  SubmissionType = "user"
	SubmissionGuest SubmissionType = "guest"
)

// Identity is who a payment request or attendance belongs to. For users the
// UserID (MMK_U_<n>) is the key, for guests the email is.
type Identity struct {
	Type   SubmissionType `json:"submission_type"`
	UserID string         `json:"user_id,omitempty"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
}

func UserIdentity(userID, name, email string) Identity {
	return Identity{Type: SubmissionUser, UserID: strings.TrimSpace(userID), Name: strings.TrimSpace(name), Email: normalizeEmail(email)}
}

func GuestIdentity(name, email string) Identity {
	return Identity{Type: SubmissionGuest, Name: strings.TrimSpace(name), Email: normalizeEmail(email)}
}

func (i Identity) Validate() error {
	switch i.Type {
	case SubmissionUser:
		if i.UserID == "" || i.Name == "" || i.Email == "" {
			return ErrInvalidInput
		}
	case SubmissionGuest:
		if i.Name == "" || i.Email == "" {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var transactionIDPattern = regexp.MustCompile(`^[A-Z0-9]{12}$`)

// ValidTransactionID reports whether id is exactly 12 uppercase letters or digits.
func ValidTransactionID(id string) bool {
	return transactionIDPattern.MatchString(id)
}

type PaymentRequest struct {
	ID            int64         `json:"id" db:"id"`
	TargetKind    TargetKind    `json:"target_kind" db:"target_kind"`
	TargetID      int64         `json:"target_id" db:"target_id"`
	TargetTitle   string        `json:"target_title,omitempty" db:"target_title"`
	Identity                    // submission_type, user_id, name, email
	TransactionID string        `json:"transaction_id" db:"transaction_id"`
	Image         string        `json:"image" db:"image"`
	Status        PaymentStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// Approval is everything committed by one approval transaction plus what the
// confirmation mail needs.
type Approval struct {
	Request       *PaymentRequest `json:"request"`
	Attendee      *Attendee       `json:"attendee"`
	TargetTitle   string          `json:"target_title"`
	AttendeeCount int             `json:"attendee_count"`
	Recipient     string          `json:"-"`
}
