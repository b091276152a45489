package service

import (
	"context"
	"time"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/stretchr/testify/mock"
)

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) Create(ctx context.Context, req *entity.PaymentRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockPaymentRepo) HasPending(ctx context.Context, kind entity.TargetKind, targetID int64, identity entity.Identity) (bool, error) {
	args := m.Called(ctx, kind, targetID, identity)
	return args.Bool(0), args.Error(1)
}

func (m *mockPaymentRepo) ListPending(ctx context.Context, kind entity.TargetKind) ([]*entity.PaymentRequest, error) {
	args := m.Called(ctx, kind)
	requests, _ := args.Get(0).([]*entity.PaymentRequest)
	return requests, args.Error(1)
}

func (m *mockPaymentRepo) ReferencedFiles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	images, _ := args.Get(0).([]string)
	return images, args.Error(1)
}

func (m *mockPaymentRepo) Approve(ctx context.Context, kind entity.TargetKind, id int64) (*entity.Approval, error) {
	args := m.Called(ctx, kind, id)
	approval, _ := args.Get(0).(*entity.Approval)
	return approval, args.Error(1)
}

func (m *mockPaymentRepo) Reject(ctx context.Context, kind entity.TargetKind, id int64) (*entity.PaymentRequest, error) {
	args := m.Called(ctx, kind, id)
	req, _ := args.Get(0).(*entity.PaymentRequest)
	return req, args.Error(1)
}

type mockAttendeeRepo struct {
	mock.Mock
}

func (m *mockAttendeeRepo) Exists(ctx context.Context, kind entity.TargetKind, targetID int64, identity entity.Identity) (bool, error) {
	args := m.Called(ctx, kind, targetID, identity)
	return args.Bool(0), args.Error(1)
}

func (m *mockAttendeeRepo) ListByTarget(ctx context.Context, kind entity.TargetKind, targetID int64) ([]*entity.Attendee, error) {
	args := m.Called(ctx, kind, targetID)
	attendees, _ := args.Get(0).([]*entity.Attendee)
	return attendees, args.Error(1)
}

func (m *mockAttendeeRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Enrollment, error) {
	args := m.Called(ctx, userID)
	enrollments, _ := args.Get(0).([]*entity.Enrollment)
	return enrollments, args.Error(1)
}

func (m *mockAttendeeRepo) SetParticipation(ctx context.Context, id int64, participated bool) (*entity.Attendee, error) {
	args := m.Called(ctx, id, participated)
	a, _ := args.Get(0).(*entity.Attendee)
	return a, args.Error(1)
}

type mockTargetRepo struct {
	mock.Mock
}

func (m *mockTargetRepo) Create(ctx context.Context, target *entity.Target) error {
	return m.Called(ctx, target).Error(0)
}

func (m *mockTargetRepo) GetByID(ctx context.Context, kind entity.TargetKind, id int64) (*entity.Target, error) {
	args := m.Called(ctx, kind, id)
	t, _ := args.Get(0).(*entity.Target)
	return t, args.Error(1)
}

func (m *mockTargetRepo) GetAll(ctx context.Context, kind entity.TargetKind) ([]*entity.Target, error) {
	args := m.Called(ctx, kind)
	targets, _ := args.Get(0).([]*entity.Target)
	return targets, args.Error(1)
}

func (m *mockTargetRepo) MarkCompleted(ctx context.Context, kind entity.TargetKind, id int64) error {
	return m.Called(ctx, kind, id).Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return m.Called(ctx, email, passwordHash).Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendMessage(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

type mockOTPStore struct {
	mock.Mock
}

func (m *mockOTPStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	return m.Called(ctx, email, code, ttl).Error(0)
}

func (m *mockOTPStore) Get(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockOTPStore) Fail(ctx context.Context, email string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, email, ttl)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOTPStore) Delete(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type stubIssuer struct{}

func (stubIssuer) Issue(user *entity.User) (string, error) {
	return "token-for-" + user.UserID, nil
}
