package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/securegate/visitor-pass-backend/internal/database"
	"github.com/securegate/visitor-pass-backend/internal/models"
)

// UserHandler serves the user lists the portal routes passes to
type UserHandler struct {
	userRepo *database.UserRepository
}

// NewUserHandler creates a new user handler
func NewUserHandler(userRepo *database.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// GetUsersByRole handles GET /api/v1/users?role=peshi
func (h *UserHandler) GetUsersByRole(c *gin.Context) {
	role := c.Query("role")
	if !models.IsValidRole(role) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_role",
			Message: "role must be one of: department, legislative, peshi, admin",
		})
		return
	}

	users, err := h.userRepo.GetByRole(models.UserRole(role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}
