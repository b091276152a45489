package transport

import (
	"context"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/ds124wfegd/mmk_universe/internal/service"
	"github.com/stretchr/testify/mock"
)

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) Submit(ctx context.Context, req *service.SubmitPaymentRequest) (*entity.PaymentRequest, error) {
	args := m.Called(ctx, req)
	pr, _ := args.Get(0).(*entity.PaymentRequest)
	return pr, args.Error(1)
}

func (m *mockPaymentService) ListPending(ctx context.Context, kind entity.TargetKind) ([]*entity.PaymentRequest, error) {
	args := m.Called(ctx, kind)
	requests, _ := args.Get(0).([]*entity.PaymentRequest)
	return requests, args.Error(1)
}

func (m *mockPaymentService) Approve(ctx context.Context, kind entity.TargetKind, id int64) (*entity.Approval, error) {
	args := m.Called(ctx, kind, id)
	approval, _ := args.Get(0).(*entity.Approval)
	return approval, args.Error(1)
}

func (m *mockPaymentService) Reject(ctx context.Context, kind entity.TargetKind, id int64) (*entity.PaymentRequest, error) {
	args := m.Called(ctx, kind, id)
	pr, _ := args.Get(0).(*entity.PaymentRequest)
	return pr, args.Error(1)
}

type mockTargetService struct {
	mock.Mock
}

func (m *mockTargetService) Create(ctx context.Context, kind entity.TargetKind, req *service.CreateTargetRequest) (*entity.Target, error) {
	args := m.Called(ctx, kind, req)
	t, _ := args.Get(0).(*entity.Target)
	return t, args.Error(1)
}

func (m *mockTargetService) Get(ctx context.Context, kind entity.TargetKind, id int64) (*entity.TargetWithAvailability, error) {
	args := m.Called(ctx, kind, id)
	t, _ := args.Get(0).(*entity.TargetWithAvailability)
	return t, args.Error(1)
}

func (m *mockTargetService) List(ctx context.Context, kind entity.TargetKind) ([]*entity.TargetWithAvailability, error) {
	args := m.Called(ctx, kind)
	list, _ := args.Get(0).([]*entity.TargetWithAvailability)
	return list, args.Error(1)
}

func (m *mockTargetService) Complete(ctx context.Context, kind entity.TargetKind, id int64) error {
	return m.Called(ctx, kind, id).Error(0)
}

func (m *mockTargetService) Attendees(ctx context.Context, kind entity.TargetKind, id int64) ([]*entity.Attendee, error) {
	args := m.Called(ctx, kind, id)
	list, _ := args.Get(0).([]*entity.Attendee)
	return list, args.Error(1)
}

func (m *mockTargetService) SetParticipation(ctx context.Context, attendeeID int64, participated bool) (*entity.Attendee, error) {
	args := m.Called(ctx, attendeeID, participated)
	a, _ := args.Get(0).(*entity.Attendee)
	return a, args.Error(1)
}

func (m *mockTargetService) Enrollments(ctx context.Context, userID string) ([]*entity.Enrollment, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]*entity.Enrollment)
	return list, args.Error(1)
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) SignUp(ctx context.Context, req *service.SignUpRequest) (*entity.User, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *service.LoginRequest) (*service.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*service.LoginResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, req *service.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}
