package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/securegate/visitor-pass-backend/internal/database"
)

// ReferenceHandler serves the dictionaries behind the portal dropdowns:
// categories, sub categories, pass types, and assembly sessions.
type ReferenceHandler struct {
	categoryRepo *database.CategoryRepository
	sessionRepo  *database.SessionRepository
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(categoryRepo *database.CategoryRepository, sessionRepo *database.SessionRepository) *ReferenceHandler {
	return &ReferenceHandler{categoryRepo: categoryRepo, sessionRepo: sessionRepo}
}

// GetCategories handles GET /api/v1/categories
func (h *ReferenceHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryRepo.GetMainCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetSubCategories handles GET /api/v1/categories/:id/sub-categories
func (h *ReferenceHandler) GetSubCategories(c *gin.Context) {
	subCategories, err := h.categoryRepo.GetSubCategoriesByCategory(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch sub categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sub_categories": subCategories})
}

// GetCategoryPassTypes handles GET /api/v1/categories/:id/pass-types.
// It returns the pass type ids reachable through the category's sub
// categories.
func (h *ReferenceHandler) GetCategoryPassTypes(c *gin.Context) {
	passTypeIDs, err := h.categoryRepo.GetCategoryPassTypes(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch category pass types",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pass_type_ids": passTypeIDs})
}

// GetPassTypes handles GET /api/v1/pass-types
func (h *ReferenceHandler) GetPassTypes(c *gin.Context) {
	passTypes, err := h.categoryRepo.GetAllPassTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch pass types",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pass_types": passTypes})
}

// GetSessions handles GET /api/v1/sessions
func (h *ReferenceHandler) GetSessions(c *gin.Context) {
	sessions, err := h.sessionRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to fetch sessions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
