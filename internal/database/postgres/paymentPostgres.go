package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `pr.id, pr.target_kind, pr.target_id, pr.submission_type, pr.user_id,
	pr.name, pr.email, pr.transaction_id, pr.image, pr.status, pr.created_at, pr.updated_at`

func scanPaymentRequest(row scanner, extra ...any) (*entity.PaymentRequest, error) {
	var (
		req    entity.PaymentRequest
		userID sql.NullString
	)
	dest := []any{
		&req.ID,
		&req.TargetKind,
		&req.TargetID,
		&req.Type,
		&userID,
		&req.Name,
		&req.Email,
		&req.TransactionID,
		&req.Image,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	req.UserID = userID.String
	return &req, nil
}

// Create inserts a pending request. The unique transaction id and the
// partial pending indexes surface as conflict errors.
func (r *paymentRepository) Create(ctx context.Context, req *entity.PaymentRequest) error {
	query := `
		INSERT INTO payment_requests (
			target_kind, target_id, submission_type, user_id, name, email,
			transaction_id, image, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	req.Status = entity.PaymentStatusPending
	err := r.db.QueryRowContext(ctx, query,
		req.TargetKind,
		req.TargetID,
		req.Type,
		nullString(req.UserID),
		req.Name,
		req.Email,
		req.TransactionID,
		req.Image,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if constraint, ok := uniqueConstraint(err); ok {
		if strings.Contains(constraint, "transaction_id") {
			return entity.ErrTransactionIDExists
		}
		return entity.ErrAlreadySubmitted
	}
	if err != nil {
		return fmt.Errorf("failed to create payment request: %w", err)
	}

	return nil
}

func (r *paymentRepository) HasPending(ctx context.Context, kind entity.TargetKind, targetID int64, identity entity.Identity) (bool, error) {
	filter, arg := identityFilter(identity, "$3")
	query := `SELECT EXISTS (
		SELECT 1 FROM payment_requests
		WHERE target_kind = $1 AND target_id = $2 AND status = 'pending' AND ` + filter + `)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, kind, targetID, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending requests: %w", err)
	}
	return exists, nil
}

// ListPending returns pending requests of one kind, newest first, with the
// target title joined in.
func (r *paymentRepository) ListPending(ctx context.Context, kind entity.TargetKind) ([]*entity.PaymentRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s, COALESCE(t.title, '')
		FROM payment_requests pr
		LEFT JOIN %s t ON t.id = pr.target_id
		WHERE pr.target_kind = $1 AND pr.status = 'pending'
		ORDER BY pr.created_at DESC, pr.id DESC
	`, paymentColumns, kind.Table())

	rows, err := r.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*entity.PaymentRequest, 0)
	for rows.Next() {
		var title string
		req, err := scanPaymentRequest(rows, &title)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment request: %w", err)
		}
		req.TargetTitle = title
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment requests: %w", err)
	}

	return requests, nil
}

// ReferencedFiles lists every upload something still points at: screenshots
// of pending requests plus event and program images and QR codes.
func (r *paymentRepository) ReferencedFiles(ctx context.Context) ([]string, error) {
	query := `
		SELECT image FROM payment_requests WHERE status = 'pending'
		UNION SELECT image FROM events WHERE image <> ''
		UNION SELECT qr_code FROM events WHERE qr_code <> ''
		UNION SELECT image FROM programs WHERE image <> ''
		UNION SELECT qr_code FROM programs WHERE qr_code <> ''
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list referenced files: %w", err)
	}
	defer rows.Close()

	var images []string
	for rows.Next() {
		var image string
		if err := rows.Scan(&image); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func lockRequest(ctx context.Context, q querier, kind entity.TargetKind, id int64) (*entity.PaymentRequest, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payment_requests pr
		WHERE pr.id = $1 AND pr.target_kind = $2
		FOR UPDATE`

	req, err := scanPaymentRequest(q.QueryRowContext(ctx, query, id, kind))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrPaymentRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock payment request: %w", err)
	}
	return req, nil
}

func setStatus(ctx context.Context, q querier, id int64, status entity.PaymentStatus) error {
	_, err := q.ExecContext(ctx,
		`UPDATE payment_requests SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	return nil
}

// recipientEmail is the address the confirmation goes to: the guest email,
// or the email stored for the user.
func recipientEmail(ctx context.Context, q querier, req *entity.PaymentRequest) (string, error) {
	if req.Type == entity.SubmissionGuest {
		if req.Email == "" {
			return "", entity.ErrMissingRecipientEmail
		}
		return req.Email, nil
	}

	var email sql.NullString
	err := q.QueryRowContext(ctx, `SELECT email FROM users WHERE user_id = $1`, req.UserID).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && email.String == "") {
		return "", entity.ErrMissingRecipientEmail
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve recipient email: %w", err)
	}
	return email.String, nil
}

// Approve turns a pending request into an attendee in one transaction:
// lock the request, re-check attendance, insert the attendee, recount the
// target's attendees and mark the request approved. Any failure rolls
// everything back.
func (r *paymentRepository) Approve(ctx context.Context, kind entity.TargetKind, id int64) (*entity.Approval, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	req, err := lockRequest(ctx, tx, kind, id)
	if err != nil {
		return nil, err
	}

	next, err := req.Status.Approve()
	if err != nil {
		return nil, err
	}

	joined, err := attendeeExists(ctx, tx, kind, req.TargetID, req.Identity)
	if err != nil {
		return nil, err
	}
	if joined {
		return nil, entity.ErrAlreadyJoined
	}

	var title string
	query := fmt.Sprintf(`SELECT title FROM %s WHERE id = $1 FOR UPDATE`, kind.Table())
	err = tx.QueryRowContext(ctx, query, req.TargetID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock target: %w", err)
	}

	recipient, err := recipientEmail(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	attendee := entity.AttendeeFromRequest(req, recipient)
	if err := insertAttendee(ctx, tx, attendee); err != nil {
		return nil, err
	}

	var count int
	query = fmt.Sprintf(`
		UPDATE %s SET
			attendees = (SELECT COUNT(*) FROM attendees WHERE target_kind = $1 AND target_id = $2),
			updated_at = NOW()
		WHERE id = $2
		RETURNING attendees
	`, kind.Table())
	if err := tx.QueryRowContext(ctx, query, kind, req.TargetID).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to recount attendees: %w", err)
	}

	if err := setStatus(ctx, tx, req.ID, next); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	req.Status = next
	req.TargetTitle = title
	return &entity.Approval{
		Request:       req,
		Attendee:      attendee,
		TargetTitle:   title,
		AttendeeCount: count,
		Recipient:     recipient,
	}, nil
}

// Reject marks a pending request rejected. Attendees are not touched.
func (r *paymentRepository) Reject(ctx context.Context, kind entity.TargetKind, id int64) (*entity.PaymentRequest, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	req, err := lockRequest(ctx, tx, kind, id)
	if err != nil {
		return nil, err
	}

	next, err := req.Status.Reject()
	if err != nil {
		return nil, err
	}

	if err := setStatus(ctx, tx, req.ID, next); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	req.Status = next
	return req, nil
}
