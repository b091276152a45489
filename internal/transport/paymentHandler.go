package transport

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/ds124wfegd/mmk_universe/internal/service"
	"github.com/gin-gonic/gin"
)

const paymentImageField = "paymentImage"

type userPaymentForm struct {
	UserID        string `form:"userId" binding:"required"`
	Name          string `form:"name" binding:"required"`
	Email         string `form:"email" binding:"required,email"`
	TransactionID string `form:"transactionId" binding:"required,txnid"`
}

type guestPaymentForm struct {
	GuestName     string `form:"guest_name" binding:"required"`
	GuestEmail    string `form:"guest_email" binding:"required,email"`
	TransactionID string `form:"transaction_id" binding:"required,txnid"`
}

// PaymentHandler serves the payment workflow of one target kind. Events
// and programs each get their own instance.
type PaymentHandler struct {
	paymentService service.PaymentService
	kind           entity.TargetKind
	maxImageBytes  int64
}

func NewPaymentHandler(paymentService service.PaymentService, kind entity.TargetKind, maxImageBytes int64) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, kind: kind, maxImageBytes: maxImageBytes}
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var form userPaymentForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}
	h.submit(c, entity.UserIdentity(form.UserID, form.Name, form.Email), form.TransactionID)
}

func (h *PaymentHandler) GuestVerifyPayment(c *gin.Context) {
	var form guestPaymentForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}
	h.submit(c, entity.GuestIdentity(form.GuestName, form.GuestEmail), form.TransactionID)
}

func (h *PaymentHandler) submit(c *gin.Context, identity entity.Identity, transactionID string) {
	targetID, ok := parseID(c, h.kind.Title()+" id")
	if !ok {
		return
	}

	file, err := c.FormFile(paymentImageField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment screenshot is required"})
		return
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment screenshot must be an image"})
		return
	}
	if h.maxImageBytes > 0 && file.Size > h.maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment screenshot is too large"})
		return
	}

	data, err := readUpload(file, h.maxImageBytes)
	if err != nil {
		respondTargetError(c, h.kind, err)
		return
	}

	_, err = h.paymentService.Submit(c.Request.Context(), &service.SubmitPaymentRequest{
		Kind:          h.kind,
		TargetID:      targetID,
		Identity:      identity,
		TransactionID: transactionID,
		Image:         data,
	})
	if err != nil {
		respondTargetError(c, h.kind, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment submitted. Awaiting admin approval"})
}

func readUpload(file *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if limit <= 0 {
		return io.ReadAll(f)
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, entity.ErrInvalidImage
	}
	return data, nil
}

func (h *PaymentHandler) ListPending(c *gin.Context) {
	requests, err := h.paymentService.ListPending(c.Request.Context(), h.kind)
	if err != nil {
		respondTargetError(c, h.kind, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *PaymentHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "request id")
	if !ok {
		return
	}

	if _, err := h.paymentService.Approve(c.Request.Context(), h.kind, id); err != nil {
		respondTargetError(c, h.kind, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment approved and user added to " + string(h.kind)})
}

func (h *PaymentHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "request id")
	if !ok {
		return
	}

	if _, err := h.paymentService.Reject(c.Request.Context(), h.kind, id); err != nil {
		respondTargetError(c, h.kind, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment rejected"})
}

func parseID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what})
		return 0, false
	}
	return id, true
}
