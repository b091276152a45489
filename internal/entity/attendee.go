package entity

import "time"

type Attendee struct {
	ID            int64      `json:"id" db:"id"`
	TargetKind    TargetKind `json:"target_kind" db:"target_kind"`
	TargetID      int64      `json:"target_id" db:"target_id"`
	Identity                 // submission_type, user_id, name, email
	TransactionID string     `json:"transaction_id" db:"transaction_id"`
	Participated  bool       `json:"participated" db:"participated"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// AttendeeFromRequest builds the attendee row an approved request turns into.
// Guest rows carry no user id; user rows carry the email resolved from the
// users table.
func AttendeeFromRequest(req *PaymentRequest, recipient string) *Attendee {
	a := &Attendee{
		TargetKind:    req.TargetKind,
		TargetID:      req.TargetID,
		Identity:      req.Identity,
		TransactionID: req.TransactionID,
	}
	if req.Type == SubmissionUser {
		a.Email = recipient
	} else {
		a.UserID = ""
	}
	return a
}

// Enrollment is an attendee row joined with its target, as shown to the user.
type Enrollment struct {
	Attendee
	TargetTitle string `json:"target_title"`
	Completed   bool   `json:"completed"`
}
