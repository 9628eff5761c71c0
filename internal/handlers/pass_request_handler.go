package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/securegate/visitor-pass-backend/internal/database"
	"github.com/securegate/visitor-pass-backend/internal/middleware"
	"github.com/securegate/visitor-pass-backend/internal/models"
	"github.com/securegate/visitor-pass-backend/internal/services"
	"github.com/securegate/visitor-pass-backend/internal/utils"
)

// PassRequestHandler handles pass request HTTP requests
type PassRequestHandler struct {
	passService *services.PassService
	requestRepo *database.PassRequestRepository
}

// NewPassRequestHandler creates a new pass request handler
func NewPassRequestHandler(passService *services.PassService, requestRepo *database.PassRequestRepository) *PassRequestHandler {
	return &PassRequestHandler{passService: passService, requestRepo: requestRepo}
}

// actorFrom builds the acting-user record handed to the service layer
func actorFrom(c *gin.Context) services.Actor {
	actor := services.Actor{
		IPAddress: utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
	}
	if userCtx, exists := middleware.GetUserContext(c); exists {
		actor.UserID = userCtx.UserID
	}
	return actor
}

// List handles GET /api/v1/pass-requests
func (h *PassRequestHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	requests, err := h.requestRepo.GetAll(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch pass requests",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

// GetByRef handles GET /api/v1/pass-requests/:id. The id may be either
// the internal id or the human-facing reference.
func (h *PassRequestHandler) GetByRef(c *gin.Context) {
	id := c.Param("id")

	request, err := h.requestRepo.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		request, err = h.requestRepo.GetByRequestRef(id)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Pass request not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch pass request",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": request})
}

// Create handles POST /api/v1/pass-requests
func (h *PassRequestHandler) Create(c *gin.Context) {
	var req models.CreatePassRequest
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

	request, err := h.passService.CreateRequest(&req, actorFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create pass request",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Pass request created",
		"request": request,
	})
}

// Route handles POST /api/v1/pass-requests/:id/route
func (h *PassRequestHandler) Route(c *gin.Context) {
	var req models.RouteRequest
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

	request, err := h.passService.RouteRequest(c.Param("id"), &req, actorFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Pass request not found",
			})
		case errors.Is(err, services.ErrRequestNotRoutable):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "not_routable",
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrVisitorNotInRequest):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_visitor",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to route pass request",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Request routed for approval",
		"request": request,
	})
}

// GeneratePass handles POST /api/v1/pass-requests/:id/generate-pass
func (h *PassRequestHandler) GeneratePass(c *gin.Context) {
	var req models.GeneratePassRequest
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

	visitors, err := h.passService.GeneratePasses(c.Param("id"), &req, actorFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Pass request not found",
			})
		case errors.Is(err, services.ErrVisitorSuspended),
			errors.Is(err, services.ErrVisitorRejected),
			errors.Is(err, services.ErrPassAlreadyGenerated):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "not_eligible",
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrVisitorNotInRequest):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_visitor",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to generate passes",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Passes generated",
		"visitors": visitors,
	})
}

// ResendWhatsApp handles POST /api/v1/pass-requests/:id/visitors/:visitor_id/resend-whatsapp
func (h *PassRequestHandler) ResendWhatsApp(c *gin.Context) {
	err := h.passService.ResendWhatsApp(c.Param("id"), c.Param("visitor_id"), actorFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Visitor not found",
			})
		case errors.Is(err, services.ErrVisitorNotInRequest):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_visitor",
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrNoPassToSend), errors.Is(err, services.ErrVisitorSuspended):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "not_eligible",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to resend pass",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pass re-sent over WhatsApp"})
}
