package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	repository "github.com/ds124wfegd/mmk_universe/internal/database/postgres"
	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/ds124wfegd/mmk_universe/internal/monitoring"
	"github.com/ds124wfegd/mmk_universe/internal/pkg/mailer"
	"github.com/ds124wfegd/mmk_universe/internal/pkg/processor"
	"github.com/ds124wfegd/mmk_universe/internal/pkg/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SubmitPaymentRequest is one payment proof upload.
type SubmitPaymentRequest struct {
	Kind          entity.TargetKind
	TargetID      int64
	Identity      entity.Identity
	TransactionID string
	Image         []byte
}

type paymentService struct {
	paymentRepo  repository.PaymentRepository
	attendeeRepo repository.AttendeeRepository
	targetRepo   repository.TargetRepository
	files        storage.FileStorage
	images       processor.ScreenshotProcessor
	mail         mailer.Mailer
	notifier     AdminNotifier
	now          func() time.Time
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	attendeeRepo repository.AttendeeRepository,
	targetRepo repository.TargetRepository,
	files storage.FileStorage,
	images processor.ScreenshotProcessor,
	mail mailer.Mailer,
	notifier AdminNotifier,
) PaymentService {
	return &paymentService{
		paymentRepo:  paymentRepo,
		attendeeRepo: attendeeRepo,
		targetRepo:   targetRepo,
		files:        files,
		images:       images,
		mail:         mail,
		notifier:     notifier,
		now:          time.Now,
	}
}

// Submit validates a payment proof, stores the screenshot and records a
// pending request. The stored file is removed again if the insert fails.
func (s *paymentService) Submit(ctx context.Context, req *SubmitPaymentRequest) (*entity.PaymentRequest, error) {
	pr, err := s.submit(ctx, req)
	outcome := "ok"
	if err != nil {
		outcome = outcomeOf(err)
	}
	monitoring.TrackSubmission(string(req.Kind), string(req.Identity.Type), outcome)
	return pr, err
}

func (s *paymentService) submit(ctx context.Context, req *SubmitPaymentRequest) (*entity.PaymentRequest, error) {
	if !entity.ValidTransactionID(req.TransactionID) {
		return nil, entity.ErrInvalidTransactionID
	}
	if err := req.Identity.Validate(); err != nil {
		return nil, err
	}
	if len(req.Image) == 0 {
		return nil, entity.ErrInvalidImage
	}

	target, err := s.targetRepo.GetByID(ctx, req.Kind, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !target.RegistrationOpen(s.now()) {
		return nil, entity.ErrRegistrationClosed
	}

	pending, err := s.paymentRepo.HasPending(ctx, req.Kind, req.TargetID, req.Identity)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, entity.ErrAlreadySubmitted
	}

	joined, err := s.attendeeRepo.Exists(ctx, req.Kind, req.TargetID, req.Identity)
	if err != nil {
		return nil, err
	}
	if joined {
		return nil, entity.ErrAlreadyJoined
	}

	shot, err := s.images.Process(req.Image)
	if err != nil {
		return nil, err
	}

	name := uuid.NewString() + shot.Extension
	if err := s.files.Save(name, bytes.NewReader(shot.Data)); err != nil {
		return nil, fmt.Errorf("failed to store screenshot: %w", err)
	}

	pr := &entity.PaymentRequest{
		TargetKind:    req.Kind,
		TargetID:      req.TargetID,
		TargetTitle:   target.Title,
		Identity:      req.Identity,
		TransactionID: req.TransactionID,
		Image:         name,
	}
	if err := s.paymentRepo.Create(ctx, pr); err != nil {
		s.removeImage(name)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"request_id": pr.ID,
		"kind":       pr.TargetKind,
		"target_id":  pr.TargetID,
		"type":       pr.Type,
		"resized":    shot.Resized,
	}).Info("payment proof submitted")

	s.alertAdmins(pr)
	return pr, nil
}

func (s *paymentService) ListPending(ctx context.Context, kind entity.TargetKind) ([]*entity.PaymentRequest, error) {
	return s.paymentRepo.ListPending(ctx, kind)
}

// Approve commits the approval, then removes the screenshot and sends the
// confirmation email. Failures after commit are logged only.
func (s *paymentService) Approve(ctx context.Context, kind entity.TargetKind, id int64) (*entity.Approval, error) {
	approval, err := s.paymentRepo.Approve(ctx, kind, id)
	if err != nil {
		monitoring.TrackDecision(string(kind), "approve", outcomeOf(err))
		return nil, err
	}
	monitoring.TrackDecision(string(kind), "approve", "ok")

	logrus.WithFields(logrus.Fields{
		"request_id": id,
		"kind":       kind,
		"target_id":  approval.Request.TargetID,
		"attendees":  approval.AttendeeCount,
	}).Info("payment request approved")

	s.removeImage(approval.Request.Image)

	subject, body := mailer.RegistrationConfirmed(approval.Request.Name, string(kind), approval.TargetTitle)
	if err := s.mail.Send(ctx, approval.Recipient, subject, body); err != nil {
		monitoring.TrackSideEffectFailure("email")
		logrus.WithError(err).WithField("request_id", id).Warn("failed to send confirmation email")
	}

	return approval, nil
}

func (s *paymentService) Reject(ctx context.Context, kind entity.TargetKind, id int64) (*entity.PaymentRequest, error) {
	req, err := s.paymentRepo.Reject(ctx, kind, id)
	if err != nil {
		monitoring.TrackDecision(string(kind), "reject", outcomeOf(err))
		return nil, err
	}
	monitoring.TrackDecision(string(kind), "reject", "ok")

	logrus.WithFields(logrus.Fields{"request_id": id, "kind": kind}).Info("payment request rejected")

	s.removeImage(req.Image)
	return req, nil
}

func (s *paymentService) removeImage(name string) {
	if name == "" {
		return
	}
	if err := s.files.Delete(name); err != nil {
		monitoring.TrackSideEffectFailure("image_delete")
		logrus.WithError(err).WithField("image", name).Warn("failed to delete payment screenshot")
	}
}

func (s *paymentService) alertAdmins(pr *entity.PaymentRequest) {
	if s.notifier == nil {
		return
	}

	text := fmt.Sprintf("New payment proof #%d\n%s: %s\nFrom: %s <%s>\nTransaction: %s",
		pr.ID, pr.TargetKind.Title(), pr.TargetTitle, pr.Name, pr.Email, pr.TransactionID)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.SendMessage(ctx, text); err != nil {
			monitoring.TrackSideEffectFailure("admin_alert")
			logrus.WithError(err).WithField("request_id", pr.ID).Warn("failed to alert admins")
		}
	}()
}
