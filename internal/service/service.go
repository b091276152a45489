package service

import (
	"context"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
)

// PaymentService runs the manual payment verification workflow for both
// events and programs.
type PaymentService interface {
	Submit(ctx context.Context, req *SubmitPaymentRequest) (*entity.PaymentRequest, error)
	ListPending(ctx context.Context, kind entity.TargetKind) ([]*entity.PaymentRequest, error)
	Approve(ctx context.Context, kind entity.TargetKind, id int64) (*entity.Approval, error)
	Reject(ctx context.Context, kind entity.TargetKind, id int64) (*entity.PaymentRequest, error)
}

type TargetService interface {
	Create(ctx context.Context, kind entity.TargetKind, req *CreateTargetRequest) (*entity.Target, error)
	Get(ctx context.Context, kind entity.TargetKind, id int64) (*entity.TargetWithAvailability, error)
	List(ctx context.Context, kind entity.TargetKind) ([]*entity.TargetWithAvailability, error)
	Complete(ctx context.Context, kind entity.TargetKind, id int64) error
	Attendees(ctx context.Context, kind entity.TargetKind, id int64) ([]*entity.Attendee, error)
	SetParticipation(ctx context.Context, attendeeID int64, participated bool) (*entity.Attendee, error)
	Enrollments(ctx context.Context, userID string) ([]*entity.Enrollment, error)
}

type AuthService interface {
	SignUp(ctx context.Context, req *SignUpRequest) (*entity.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
}

// AdminNotifier receives short alerts for the admin team. Implemented by
// the Telegram bot.
type AdminNotifier interface {
	SendMessage(ctx context.Context, text string) error
}
