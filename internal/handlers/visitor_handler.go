package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/securegate/visitor-pass-backend/internal/models"
	"github.com/securegate/visitor-pass-backend/internal/services"
)

// VisitorHandler handles per-visitor workflow actions
type VisitorHandler struct {
	passService *services.PassService
}

// NewVisitorHandler creates a new visitor handler
func NewVisitorHandler(passService *services.PassService) *VisitorHandler {
	return &VisitorHandler{passService: passService}
}

// UpdateStatus handles POST /api/v1/visitors/:id/status
func (h *VisitorHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateVisitorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if errs := req.Validate(); errs.Any() {
		c.JSON(http.StatusBadRequest, validationFailed(errs))
		return
	}

	visitor, err := h.passService.UpdateVisitorStatus(c.Param("id"), &req, actorFrom(c))
	if err != nil {
		h.writeActionError(c, err, "Failed to update visitor status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Visitor status updated",
		"visitor": visitor,
	})
}

// Suspend handles POST /api/v1/visitors/:id/suspend
func (h *VisitorHandler) Suspend(c *gin.Context) {
	var req models.SuspendVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if errs := req.Validate(); errs.Any() {
		c.JSON(http.StatusBadRequest, validationFailed(errs))
		return
	}

	visitor, err := h.passService.SuspendVisitor(c.Param("id"), &req, actorFrom(c))
	if err != nil {
		h.writeActionError(c, err, "Failed to suspend visitor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Visitor pass suspended",
		"visitor": visitor,
	})
}

// Activate handles POST /api/v1/visitors/:id/activate
func (h *VisitorHandler) Activate(c *gin.Context) {
	var req models.ActivateVisitorRequest
	// The body is optional for activation
	_ = c.ShouldBindJSON(&req)

	visitor, err := h.passService.ActivateVisitor(c.Param("id"), &req, actorFrom(c))
	if err != nil {
		h.writeActionError(c, err, "Failed to activate visitor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Visitor pass re-activated",
		"visitor": visitor,
	})
}

// writeActionError maps workflow guard failures to HTTP statuses
func (h *VisitorHandler) writeActionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Visitor not found",
		})
	case errors.Is(err, services.ErrVisitorSuspended),
		errors.Is(err, services.ErrPassAlreadyGenerated),
		errors.Is(err, services.ErrNoPassToSuspend),
		errors.Is(err, services.ErrNotSuspended):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "not_eligible",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: fallback,
		})
	}
}
