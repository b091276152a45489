package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requestCols = []string{
	"id", "target_kind", "target_id", "submission_type", "user_id", "name", "email",
	"transaction_id", "image", "status", "created_at", "updated_at",
}

const lockQuery = `FROM payment_requests pr WHERE pr.id = \$1 AND pr.target_kind = \$2 FOR UPDATE`

func guestRow(status entity.PaymentStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(requestCols).AddRow(
		int64(7), "event", int64(3), "guest", nil, "Jane", "jane@x.com",
		"ABC123XYZ987", "proof.png", string(status), now, now,
	)
}

func userRow(status entity.PaymentStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(requestCols).AddRow(
		int64(8), "program", int64(2), "user", "MMK_U_4", "Ravi", "typed@x.com",
		"ZZZ123XYZ987", "proof.jpg", string(status), now, now,
	)
}

func newMock(t *testing.T) (*paymentRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &paymentRepository{db: db}, mock
}

func TestApproveGuest(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).WithArgs(int64(7), "event").WillReturnRows(guestRow(entity.PaymentStatusPending))
	mock.ExpectQuery(`SELECT EXISTS \( SELECT 1 FROM attendees`).
		WithArgs("event", int64(3), "jane@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT title FROM events WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Tech Talk"))
	mock.ExpectQuery(`INSERT INTO attendees`).
		WithArgs("event", int64(3), "guest", nil, "Jane", "jane@x.com", "ABC123XYZ987").
		WillReturnRows(sqlmock.NewRows([]string{"id", "participated", "created_at"}).AddRow(int64(11), false, time.Now()))
	mock.ExpectQuery(`UPDATE events SET attendees = \(SELECT COUNT\(\*\) FROM attendees`).
		WithArgs("event", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"attendees"}).AddRow(5))
	mock.ExpectExec(`UPDATE payment_requests SET status = \$1`).
		WithArgs("approved", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	approval, err := repo.Approve(context.Background(), entity.KindEvent, 7)
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusApproved, approval.Request.Status)
	assert.Equal(t, "Tech Talk", approval.TargetTitle)
	assert.Equal(t, 5, approval.AttendeeCount)
	assert.Equal(t, "jane@x.com", approval.Recipient)
	assert.Equal(t, int64(11), approval.Attendee.ID)
	assert.Empty(t, approval.Attendee.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveUserUsesStoredEmail(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).WithArgs(int64(8), "program").WillReturnRows(userRow(entity.PaymentStatusPending))
	mock.ExpectQuery(`SELECT EXISTS \( SELECT 1 FROM attendees`).
		WithArgs("program", int64(2), "MMK_U_4").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT title FROM programs WHERE id = \$1 FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Robotics"))
	mock.ExpectQuery(`SELECT email FROM users WHERE user_id = \$1`).
		WithArgs("MMK_U_4").
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("stored@x.com"))
	mock.ExpectQuery(`INSERT INTO attendees`).
		WithArgs("program", int64(2), "user", "MMK_U_4", "Ravi", "stored@x.com", "ZZZ123XYZ987").
		WillReturnRows(sqlmock.NewRows([]string{"id", "participated", "created_at"}).AddRow(int64(12), false, time.Now()))
	mock.ExpectQuery(`UPDATE programs SET attendees`).
		WillReturnRows(sqlmock.NewRows([]string{"attendees"}).AddRow(1))
	mock.ExpectExec(`UPDATE payment_requests SET status = \$1`).
		WithArgs("approved", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	approval, err := repo.Approve(context.Background(), entity.KindProgram, 8)
	require.NoError(t, err)
	assert.Equal(t, "stored@x.com", approval.Recipient)
	assert.Equal(t, "MMK_U_4", approval.Attendee.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WillReturnRows(sqlmock.NewRows(requestCols))
		mock.ExpectRollback()

		_, err := repo.Approve(context.Background(), entity.KindEvent, 99)
		assert.ErrorIs(t, err, entity.ErrPaymentRequestNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already processed", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WillReturnRows(guestRow(entity.PaymentStatusApproved))
		mock.ExpectRollback()

		_, err := repo.Approve(context.Background(), entity.KindEvent, 7)
		assert.ErrorIs(t, err, entity.ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already joined keeps request pending", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WillReturnRows(guestRow(entity.PaymentStatusPending))
		mock.ExpectQuery(`SELECT EXISTS \( SELECT 1 FROM attendees`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := repo.Approve(context.Background(), entity.KindEvent, 7)
		assert.ErrorIs(t, err, entity.ErrAlreadyJoined)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing recipient rolls back", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WillReturnRows(userRow(entity.PaymentStatusPending))
		mock.ExpectQuery(`SELECT EXISTS \( SELECT 1 FROM attendees`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(`SELECT title FROM programs`).
			WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Robotics"))
		mock.ExpectQuery(`SELECT email FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"email"}))
		mock.ExpectRollback()

		_, err := repo.Approve(context.Background(), entity.KindProgram, 8)
		assert.ErrorIs(t, err, entity.ErrMissingRecipientEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent insert hits unique index", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WillReturnRows(guestRow(entity.PaymentStatusPending))
		mock.ExpectQuery(`SELECT EXISTS \( SELECT 1 FROM attendees`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(`SELECT title FROM events`).
			WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Tech Talk"))
		mock.ExpectQuery(`INSERT INTO attendees`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_attendees_guest"})
		mock.ExpectRollback()

		_, err := repo.Approve(context.Background(), entity.KindEvent, 7)
		assert.ErrorIs(t, err, entity.ErrAlreadyJoined)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReject(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).WithArgs(int64(7), "event").WillReturnRows(guestRow(entity.PaymentStatusPending))
	mock.ExpectExec(`UPDATE payment_requests SET status = \$1`).
		WithArgs("rejected", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, err := repo.Reject(context.Background(), entity.KindEvent, 7)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusRejected, req.Status)
	assert.Equal(t, "proof.png", req.Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectAlreadyRejected(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).WillReturnRows(guestRow(entity.PaymentStatusRejected))
	mock.ExpectRollback()

	_, err := repo.Reject(context.Background(), entity.KindEvent, 7)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConflicts(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{name: "duplicate transaction id", constraint: "uq_payment_requests_transaction_id", want: entity.ErrTransactionIDExists},
		{name: "duplicate pending", constraint: "uq_payment_requests_pending_guest", want: entity.ErrAlreadySubmitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			mock.ExpectQuery(`INSERT INTO payment_requests`).
				WillReturnError(&pq.Error{Code: "23505", Constraint: tt.constraint})

			err := repo.Create(context.Background(), &entity.PaymentRequest{
				TargetKind:    entity.KindEvent,
				TargetID:      3,
				Identity:      entity.GuestIdentity("Jane", "jane@x.com"),
				TransactionID: "ABC123XYZ987",
				Image:         "proof.png",
			})
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListPending(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	rows := sqlmock.NewRows(append(requestCols, "title")).
		AddRow(int64(2), "event", int64(3), "user", "MMK_U_1", "Ravi", "r@x.com", "BBB123XYZ987", "b.png", "pending", now, now, "Tech Talk").
		AddRow(int64(1), "event", int64(3), "guest", nil, "Jane", "j@x.com", "AAA123XYZ987", "a.png", "pending", now, now, "Tech Talk")
	mock.ExpectQuery(`LEFT JOIN events t ON t.id = pr.target_id WHERE pr.target_kind = \$1 AND pr.status = 'pending' ORDER BY pr.created_at DESC`).
		WithArgs("event").
		WillReturnRows(rows)

	requests, err := repo.ListPending(context.Background(), entity.KindEvent)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "MMK_U_1", requests[0].UserID)
	assert.Equal(t, "Tech Talk", requests[1].TargetTitle)
	assert.Equal(t, entity.SubmissionGuest, requests[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferencedFilesIncludesTargetImages(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT image FROM payment_requests WHERE status = 'pending' ` +
		`UNION SELECT image FROM events WHERE image <> '' UNION SELECT qr_code FROM events WHERE qr_code <> '' ` +
		`UNION SELECT image FROM programs WHERE image <> '' UNION SELECT qr_code FROM programs WHERE qr_code <> ''`).
		WillReturnRows(sqlmock.NewRows([]string{"image"}).AddRow("proof.png").AddRow("event5.png").AddRow("program2-qr.png"))

	files, err := repo.ReferencedFiles(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"proof.png", "event5.png", "program2-qr.png"}, files)
	assert.NoError(t, mock.ExpectationsWereMet())
}
