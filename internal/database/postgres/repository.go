package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/lib/pq"
)

type PaymentRepository interface {
	Create(ctx context.Context, req *entity.PaymentRequest) error
	HasPending(ctx context.Context, kind entity.TargetKind, targetID int64, identity entity.Identity) (bool, error)
	ListPending(ctx context.Context, kind entity.TargetKind) ([]*entity.PaymentRequest, error)
	ReferencedFiles(ctx context.Context) ([]string, error)

	// State transitions, each in its own transaction with the request row locked
	Approve(ctx context.Context, kind entity.TargetKind, id int64) (*entity.Approval, error)
	Reject(ctx context.Context, kind entity.TargetKind, id int64) (*entity.PaymentRequest, error)
}

type AttendeeRepository interface {
	Exists(ctx context.Context, kind entity.TargetKind, targetID int64, identity entity.Identity) (bool, error)
	ListByTarget(ctx context.Context, kind entity.TargetKind, targetID int64) ([]*entity.Attendee, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Enrollment, error)
	SetParticipation(ctx context.Context, id int64, participated bool) (*entity.Attendee, error)
}

type TargetRepository interface {
	Create(ctx context.Context, target *entity.Target) error
	GetByID(ctx context.Context, kind entity.TargetKind, id int64) (*entity.Target, error)
	GetAll(ctx context.Context, kind entity.TargetKind) ([]*entity.Target, error)
	MarkCompleted(ctx context.Context, kind entity.TargetKind, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

const uniqueViolation = "23505"

// uniqueConstraint returns the violated constraint name when err is a unique violation.
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// identityFilter matches rows belonging to identity. User rows are keyed by
// user_id, guest rows by case-insensitive email.
func identityFilter(identity entity.Identity, argPos string) (string, any) {
	if identity.Type == entity.SubmissionUser {
		return "user_id = " + argPos, identity.UserID
	}
	return "submission_type = 'guest' AND lower(email) = lower(" + argPos + ")", identity.Email
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
