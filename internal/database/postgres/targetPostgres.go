package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
)

type targetRepository struct {
	db *sql.DB
}

func NewTargetRepository(db *sql.DB) TargetRepository {
	return &targetRepository{db: db}
}

const targetColumns = `id, title, description, date, start_registration, end_registration,
	fee, attendance_limit, attendees, completed, image, qr_code, created_at, updated_at`

func scanTarget(row scanner, kind entity.TargetKind) (*entity.Target, error) {
	t := entity.Target{Kind: kind}
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Date,
		&t.RegistrationStart,
		&t.RegistrationEnd,
		&t.Fee,
		&t.AttendanceLimit,
		&t.Attendees,
		&t.Completed,
		&t.Image,
		&t.QRCode,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *targetRepository) Create(ctx context.Context, target *entity.Target) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			title, description, date, start_registration, end_registration,
			fee, attendance_limit, image, qr_code
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, attendees, completed, created_at, updated_at
	`, target.Kind.Table())

	err := r.db.QueryRowContext(ctx, query,
		target.Title,
		target.Description,
		target.Date,
		target.RegistrationStart,
		target.RegistrationEnd,
		target.Fee,
		target.AttendanceLimit,
		target.Image,
		target.QRCode,
	).Scan(&target.ID, &target.Attendees, &target.Completed, &target.CreatedAt, &target.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target.Kind, err)
	}

	return nil
}

func (r *targetRepository) GetByID(ctx context.Context, kind entity.TargetKind, id int64) (*entity.Target, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, targetColumns, kind.Table())

	t, err := scanTarget(r.db.QueryRowContext(ctx, query, id), kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", kind, err)
	}
	return t, nil
}

func (r *targetRepository) GetAll(ctx context.Context, kind entity.TargetKind) ([]*entity.Target, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY date DESC NULLS LAST, id DESC`, targetColumns, kind.Table())

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind.Table(), err)
	}
	defer rows.Close()

	targets := make([]*entity.Target, 0)
	for rows.Next() {
		t, err := scanTarget(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", kind.Table(), err)
	}

	return targets, nil
}

func (r *targetRepository) MarkCompleted(ctx context.Context, kind entity.TargetKind, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET completed = TRUE, updated_at = NOW() WHERE id = $1`, kind.Table())

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to complete %s: %w", kind, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return entity.ErrTargetNotFound
	}
	return nil
}
