package transport

import (
	"net/http"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/ds124wfegd/mmk_universe/internal/service"
	"github.com/ds124wfegd/mmk_universe/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

type TargetHandler struct {
	targetService service.TargetService
	kind          entity.TargetKind
}

func NewTargetHandler(targetService service.TargetService, kind entity.TargetKind) *TargetHandler {
	return &TargetHandler{targetService: targetService, kind: kind}
}

func (h *TargetHandler) Create(c *gin.Context) {
	var req service.CreateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	target, err := h.targetService.Create(c.Request.Context(), h.kind, &req)
	if err != nil {
		respondTargetError(c, h.kind, err)
		return
	}

	c.JSON(http.StatusCreated, target)
}

func (h *TargetHandler) List(c *gin.Context) {
	targets, err := h.targetService.List(c.Request.Context(), h.kind)
	if err != nil {
		respondTargetError(c, h.kind, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

func (h *TargetHandler) Get(c *gin.Context) {
	id, ok := parseID(c, string(h.kind)+" id")
	if !ok {
		return
	}

	target, err := h.targetService.Get(c.Request.Context(), h.kind, id)
	if err != nil {
		respondTargetError(c, h.kind, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

func (h *TargetHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, string(h.kind)+" id")
	if !ok {
		return
	}

	if err := h.targetService.Complete(c.Request.Context(), h.kind, id); err != nil {
		respondTargetError(c, h.kind, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.kind.Title() + " marked as completed"})
}

func (h *TargetHandler) Attendees(c *gin.Context) {
	id, ok := parseID(c, string(h.kind)+" id")
	if !ok {
		return
	}

	attendees, err := h.targetService.Attendees(c.Request.Context(), h.kind, id)
	if err != nil {
		respondTargetError(c, h.kind, err)
		return
	}
	c.JSON(http.StatusOK, attendees)
}

// AttendeeHandler serves attendee routes that are not scoped to one kind.
type AttendeeHandler struct {
	targetService service.TargetService
}

func NewAttendeeHandler(targetService service.TargetService) *AttendeeHandler {
	return &AttendeeHandler{targetService: targetService}
}

type participationRequest struct {
	Participated *bool `json:"participated" binding:"required"`
}

func (h *AttendeeHandler) SetParticipation(c *gin.Context) {
	id, ok := parseID(c, "attendee id")
	if !ok {
		return
	}

	var req participationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	attendee, err := h.targetService.SetParticipation(c.Request.Context(), id, *req.Participated)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendee)
}

func (h *AttendeeHandler) MyEnrollments(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		respondError(c, entity.ErrUnauthorized)
		return
	}

	enrollments, err := h.targetService.Enrollments(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollments)
}
