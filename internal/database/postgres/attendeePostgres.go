package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
)

type attendeeRepository struct {
	db *sql.DB
}

func NewAttendeeRepository(db *sql.DB) AttendeeRepository {
	return &attendeeRepository{db: db}
}

const attendeeColumns = `a.id, a.target_kind, a.target_id, a.submission_type, a.user_id,
	a.name, a.email, a.transaction_id, a.participated, a.created_at`

func scanAttendee(row scanner, extra ...any) (*entity.Attendee, error) {
	var (
		a      entity.Attendee
		userID sql.NullString
	)
	dest := []any{
		&a.ID,
		&a.TargetKind,
		&a.TargetID,
		&a.Type,
		&userID,
		&a.Name,
		&a.Email,
		&a.TransactionID,
		&a.Participated,
		&a.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	a.UserID = userID.String
	return &a, nil
}

func attendeeExists(ctx context.Context, q querier, kind entity.TargetKind, targetID int64, identity entity.Identity) (bool, error) {
	filter, arg := identityFilter(identity, "$3")
	query := `SELECT EXISTS (
		SELECT 1 FROM attendees
		WHERE target_kind = $1 AND target_id = $2 AND ` + filter + `)`

	var exists bool
	if err := q.QueryRowContext(ctx, query, kind, targetID, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check attendees: %w", err)
	}
	return exists, nil
}

func insertAttendee(ctx context.Context, q querier, a *entity.Attendee) error {
	query := `
		INSERT INTO attendees (
			target_kind, target_id, submission_type, user_id, name, email, transaction_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, participated, created_at
	`

	err := q.QueryRowContext(ctx, query,
		a.TargetKind,
		a.TargetID,
		a.Type,
		nullString(a.UserID),
		a.Name,
		a.Email,
		a.TransactionID,
	).Scan(&a.ID, &a.Participated, &a.CreatedAt)

	if _, ok := uniqueConstraint(err); ok {
		return entity.ErrAlreadyJoined
	}
	if err != nil {
		return fmt.Errorf("failed to insert attendee: %w", err)
	}
	return nil
}

func (r *attendeeRepository) Exists(ctx context.Context, kind entity.TargetKind, targetID int64, identity entity.Identity) (bool, error) {
	return attendeeExists(ctx, r.db, kind, targetID, identity)
}

func (r *attendeeRepository) ListByTarget(ctx context.Context, kind entity.TargetKind, targetID int64) ([]*entity.Attendee, error) {
	query := `SELECT ` + attendeeColumns + `
		FROM attendees a
		WHERE a.target_kind = $1 AND a.target_id = $2
		ORDER BY a.created_at, a.id`

	rows, err := r.db.QueryContext(ctx, query, kind, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	defer rows.Close()

	attendees := make([]*entity.Attendee, 0)
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendees: %w", err)
	}

	return attendees, nil
}

// ListByUser returns every attendance of a registered user across events
// and programs.
func (r *attendeeRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Enrollment, error) {
	query := `SELECT ` + attendeeColumns + `,
			COALESCE(e.title, p.title, ''),
			COALESCE(e.completed, p.completed, FALSE)
		FROM attendees a
		LEFT JOIN events e ON a.target_kind = 'event' AND e.id = a.target_id
		LEFT JOIN programs p ON a.target_kind = 'program' AND p.id = a.target_id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*entity.Enrollment, 0)
	for rows.Next() {
		var e entity.Enrollment
		a, err := scanAttendee(rows, &e.TargetTitle, &e.Completed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		e.Attendee = *a
		enrollments = append(enrollments, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate enrollments: %w", err)
	}

	return enrollments, nil
}

func (r *attendeeRepository) SetParticipation(ctx context.Context, id int64, participated bool) (*entity.Attendee, error) {
	query := `UPDATE attendees a SET participated = $1 WHERE a.id = $2
		RETURNING ` + attendeeColumns

	a, err := scanAttendee(r.db.QueryRowContext(ctx, query, participated, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrAttendeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update participation: %w", err)
	}
	return a, nil
}
