package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/securegate/visitor-pass-backend/internal/middleware"
	"github.com/securegate/visitor-pass-backend/internal/services"
)

// PortalHandler serves the admin portal visitor list
type PortalHandler struct {
	portalService *services.PortalService
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(portalService *services.PortalService) *PortalHandler {
	return &PortalHandler{portalService: portalService}
}

// GetVisitors handles GET /api/v1/portal/visitors.
//
// Query parameters: pass_type_id, status, category_id, date (YYYY-MM-DD),
// search, and count (the number of rows revealed by load-more).
func (h *PortalHandler) GetVisitors(c *gin.Context) {
	query := services.PortalQuery{
		PassTypeID: c.Query("pass_type_id"),
		Status:     c.Query("status"),
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
	}

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "date must be in YYYY-MM-DD format",
			})
			return
		}
		query.Date = &date
	}

	if countStr := c.Query("count"); countStr != "" {
		count, err := strconv.Atoi(countStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "count must be an integer",
			})
			return
		}
		query.Count = count
	}

	if userCtx, exists := middleware.GetUserContext(c); exists {
		query.CurrentUserID = userCtx.UserID
	}

	c.JSON(http.StatusOK, h.portalService.VisitorView(query))
}
