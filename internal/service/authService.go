package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ds124wfegd/mmk_universe/internal/database/otp"
	repository "github.com/ds124wfegd/mmk_universe/internal/database/postgres"
	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/ds124wfegd/mmk_universe/internal/pkg/mailer"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// maxOTPAttempts is how many wrong codes a reset OTP survives.
const maxOTPAttempts = 5

type TokenIssuer interface {
	Issue(user *entity.User) (string, error)
}

type authService struct {
	userRepo    repository.UserRepository
	otps        otp.Store
	mail        mailer.Mailer
	tokens      TokenIssuer
	otpTTL      time.Duration
	adminEmails map[string]struct{}
}

func NewAuthService(
	userRepo repository.UserRepository,
	otps otp.Store,
	mail mailer.Mailer,
	tokens TokenIssuer,
	otpTTL time.Duration,
	adminEmails []string,
) AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &authService{
		userRepo:    userRepo,
		otps:        otps,
		mail:        mail,
		tokens:      tokens,
		otpTTL:      otpTTL,
		adminEmails: admins,
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a user. Emails listed in auth.admin_emails get the admin role.
func (s *authService) SignUp(ctx context.Context, req *SignUpRequest) (*entity.User, error) {
	email := normalize(req.Email)
	if email == "" || len(req.Password) < 6 {
		return nil, entity.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := entity.RoleUser
	if _, ok := s.adminEmails[email]; ok {
		role = entity.RoleAdmin
	}

	user := &entity.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.UserID, "role": user.Role}).Info("user registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalize(req.Email))
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, entity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: user}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalize(email)
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.otps.Set(ctx, email, code, s.otpTTL); err != nil {
		return err
	}

	subject, body := mailer.PasswordResetOTP(code, int(s.otpTTL.Minutes()))
	if err := s.mail.Send(ctx, email, subject, body); err != nil {
		return err
	}
	return nil
}

// ResetPassword consumes the OTP; a used code cannot be replayed.
func (s *authService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	email := normalize(req.Email)

	stored, err := s.otps.Get(ctx, email)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(req.OTP)) != 1 {
		s.recordMiss(ctx, email)
		return entity.ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, email, string(hash)); err != nil {
		return err
	}

	if err := s.otps.Delete(ctx, email); err != nil {
		logrus.WithError(err).Warn("failed to delete used otp")
	}
	return nil
}

// recordMiss burns the code once maxOTPAttempts wrong guesses were made
// against it.
func (s *authService) recordMiss(ctx context.Context, email string) {
	misses, err := s.otps.Fail(ctx, email, s.otpTTL)
	if err != nil {
		logrus.WithError(err).Warn("failed to count otp attempt")
	}
	if err == nil && misses < maxOTPAttempts {
		return
	}
	if err := s.otps.Delete(ctx, email); err != nil {
		logrus.WithError(err).Warn("failed to discard otp")
		return
	}
	logrus.WithField("attempts", misses).Warn("otp discarded after repeated wrong guesses")
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
