package entity

import "errors"

var (
	// Target errors
	ErrTargetNotFound     = errors.New("target not found")
	ErrInvalidTargetKind  = errors.New("invalid target kind")
	ErrRegistrationClosed = errors.New("registration is closed")

	// Payment request errors
	ErrPaymentRequestNotFound = errors.New("payment request not found")
	ErrInvalidTransactionID   = errors.New("transaction id must be exactly 12 uppercase letters or digits")
	ErrInvalidImage           = errors.New("payment screenshot must be an image")
	ErrAlreadySubmitted       = errors.New("already submitted. awaiting approval")
	ErrAlreadyJoined          = errors.New("user already joined")
	ErrTransactionIDExists    = errors.New("transaction id already existed")
	ErrMissingRecipientEmail  = errors.New("missing recipient email")
	ErrInvalidTransition      = errors.New("request already processed")
	ErrInvalidPaymentStatus   = errors.New("invalid payment status")

	// Attendee errors
	ErrAttendeeNotFound = errors.New("attendee not found")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("invalid or expired otp")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden operation")
)
