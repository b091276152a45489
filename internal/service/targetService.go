package service

import (
	"context"

	repository "github.com/ds124wfegd/mmk_universe/internal/database/postgres"
	"github.com/ds124wfegd/mmk_universe/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CreateTargetRequest struct {
	Title             string            `json:"title" binding:"required,max=255"`
	Description       string            `json:"description"`
	Date              entity.CustomTime `json:"date"`
	RegistrationStart entity.CustomTime `json:"start_registration"`
	RegistrationEnd   entity.CustomTime `json:"end_registration"`
	Fee               decimal.Decimal   `json:"fee"`
	AttendanceLimit   int               `json:"attendance_limit" binding:"required,gt=0"`
	Image             string            `json:"image"`
	QRCode            string            `json:"qr_code"`
}

type targetService struct {
	targetRepo   repository.TargetRepository
	attendeeRepo repository.AttendeeRepository
}

func NewTargetService(targetRepo repository.TargetRepository, attendeeRepo repository.AttendeeRepository) TargetService {
	return &targetService{targetRepo: targetRepo, attendeeRepo: attendeeRepo}
}

func (s *targetService) Create(ctx context.Context, kind entity.TargetKind, req *CreateTargetRequest) (*entity.Target, error) {
	if req.Title == "" || req.AttendanceLimit <= 0 || req.Fee.IsNegative() {
		return nil, entity.ErrInvalidInput
	}
	if !req.RegistrationStart.IsZero() && !req.RegistrationEnd.IsZero() &&
		req.RegistrationEnd.Before(req.RegistrationStart.Time) {
		return nil, entity.ErrInvalidInput
	}

	target := &entity.Target{
		Kind:              kind,
		Title:             req.Title,
		Description:       req.Description,
		Date:              req.Date,
		RegistrationStart: req.RegistrationStart,
		RegistrationEnd:   req.RegistrationEnd,
		Fee:               req.Fee,
		AttendanceLimit:   req.AttendanceLimit,
		Image:             req.Image,
		QRCode:            req.QRCode,
	}
	if err := s.targetRepo.Create(ctx, target); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"kind": kind, "id": target.ID, "title": target.Title}).Info("target created")
	return target, nil
}

func (s *targetService) Get(ctx context.Context, kind entity.TargetKind, id int64) (*entity.TargetWithAvailability, error) {
	target, err := s.targetRepo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return target.WithAvailability(), nil
}

func (s *targetService) List(ctx context.Context, kind entity.TargetKind) ([]*entity.TargetWithAvailability, error) {
	targets, err := s.targetRepo.GetAll(ctx, kind)
	if err != nil {
		return nil, err
	}

	result := make([]*entity.TargetWithAvailability, 0, len(targets))
	for _, t := range targets {
		result = append(result, t.WithAvailability())
	}
	return result, nil
}

func (s *targetService) Complete(ctx context.Context, kind entity.TargetKind, id int64) error {
	return s.targetRepo.MarkCompleted(ctx, kind, id)
}

func (s *targetService) Attendees(ctx context.Context, kind entity.TargetKind, id int64) ([]*entity.Attendee, error) {
	if _, err := s.targetRepo.GetByID(ctx, kind, id); err != nil {
		return nil, err
	}
	return s.attendeeRepo.ListByTarget(ctx, kind, id)
}

func (s *targetService) SetParticipation(ctx context.Context, attendeeID int64, participated bool) (*entity.Attendee, error) {
	return s.attendeeRepo.SetParticipation(ctx, attendeeID, participated)
}

func (s *targetService) Enrollments(ctx context.Context, userID string) ([]*entity.Enrollment, error) {
	if userID == "" {
		return nil, entity.ErrUnauthorized
	}
	return s.attendeeRepo.ListByUser(ctx, userID)
}
