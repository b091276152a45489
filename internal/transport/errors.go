package transport

import (
	"errors"
	"net/http"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// Order matters only for wrapped errors; sentinels are distinct.
var errorMappings = []errorMapping{
	{entity.ErrInvalidTransactionID, http.StatusBadRequest, "Transaction ID must be exactly 12 uppercase letters or numbers"},
	{entity.ErrInvalidImage, http.StatusBadRequest, "Payment screenshot must be an image"},
	{entity.ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{entity.ErrInvalidTargetKind, http.StatusBadRequest, "Invalid target"},
	{entity.ErrRegistrationClosed, http.StatusBadRequest, "Registration is closed"},
	{entity.ErrAlreadySubmitted, http.StatusBadRequest, "Already submitted. Awaiting approval"},
	{entity.ErrAlreadyJoined, http.StatusBadRequest, "User already joined"},
	{entity.ErrTransactionIDExists, http.StatusBadRequest, "Transaction Id already existed"},
	{entity.ErrInvalidTransition, http.StatusBadRequest, "Request already processed"},
	{entity.ErrInvalidPaymentStatus, http.StatusBadRequest, "Request already processed"},
	{entity.ErrUserAlreadyExists, http.StatusBadRequest, "User already exists"},
	{entity.ErrInvalidOTP, http.StatusBadRequest, "Invalid or expired OTP"},
	{entity.ErrTargetNotFound, http.StatusNotFound, "Not found"},
	{entity.ErrPaymentRequestNotFound, http.StatusNotFound, "Request not found"},
	{entity.ErrAttendeeNotFound, http.StatusNotFound, "Attendee not found"},
	{entity.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{entity.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{entity.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{entity.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{entity.ErrMissingRecipientEmail, http.StatusInternalServerError, "Missing recipient email"},
}

// respondTargetError names the target kind in not-found responses.
func respondTargetError(c *gin.Context, kind entity.TargetKind, err error) {
	if errors.Is(err, entity.ErrTargetNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": kind.Title() + " not found"})
		return
	}
	respondError(c, err)
}

// respondError writes {"error": ...} with the status matching err. Unknown
// errors are logged and reported as a generic server error.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			if m.status >= http.StatusInternalServerError {
				logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
			}
			c.JSON(m.status, gin.H{"error": m.message})
			return
		}
	}

	logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
