package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securegate/visitor-pass-backend/internal/middleware"
	"github.com/securegate/visitor-pass-backend/internal/models"
	"github.com/securegate/visitor-pass-backend/internal/services"
)

// fakePortalRequests serves a fixed request list to the portal service
type fakePortalRequests struct {
	requests []models.PassRequest
}

func (s *fakePortalRequests) GetAll(limit int) ([]models.PassRequest, error) {
	return s.requests, nil
}

// fakeReferences serves fixed dictionaries
type fakeReferences struct {
	categories []models.MainCategory
	passTypes  []models.PassTypeItem
}

func (s *fakeReferences) GetMainCategories() ([]models.MainCategory, error) { return s.categories, nil }
func (s *fakeReferences) GetSubCategories() ([]models.SubCategory, error)   { return nil, nil }
func (s *fakeReferences) GetAllPassTypes() ([]models.PassTypeItem, error)   { return s.passTypes, nil }

// fakeUsers serves no users
type fakeUsers struct{}

func (fakeUsers) GetByRole(role models.UserRole) ([]models.User, error) { return nil, nil }

func portalTestRouter(requests []models.PassRequest, userID string) *gin.Engine {
	service := services.NewPortalService(&fakePortalRequests{requests: requests}, &fakeReferences{
		categories: []models.MainCategory{{ID: "cat-1", Name: "Department"}},
	}, fakeUsers{}, testLogger())
	handler := NewPortalHandler(service)

	router := gin.New()
	router.GET("/portal/visitors", func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.UserContextKey, middleware.UserContext{UserID: userID, Role: "admin"})
		}
		handler.GetVisitors(c)
	})
	return router
}

func portalTestRequests() []models.PassRequest {
	categoryID := "cat-1"
	generatedAt := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	passNumber := "VP-2024-000001"
	routedTo := "AB-12-CD"
	routedBy := "hod-1"

	return []models.PassRequest{
		{
			ID:             "req-1",
			RequestID:      "REQ-001",
			MainCategoryID: &categoryID,
			Status:         models.RequestStatusApproved,
			Purpose:        "Committee hearing",
			RequestedBy:    "dept-1",
			ValidFrom:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			Visitors: []models.Visitor{{
				ID:              "vis-1",
				RequestID:       "req-1",
				FirstName:       "Asha",
				LastName:        "Verma",
				VisitorStatus:   models.VisitorStatusApproved,
				PassGeneratedAt: &generatedAt,
				PassNumber:      &passNumber,
			}},
		},
		{
			ID:          "req-2",
			RequestID:   "REQ-002",
			Status:      models.RequestStatusRouted,
			RoutedTo:    &routedTo,
			RoutedBy:    &routedBy,
			Purpose:     "Budget session gallery",
			RequestedBy: "dept-1",
			ValidFrom:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			Visitors: []models.Visitor{{
				ID:            "vis-2",
				RequestID:     "req-2",
				FirstName:     "Meena",
				LastName:      "Iyer",
				VisitorStatus: models.VisitorStatusPending,
			}},
		},
	}
}

func getPortal(t *testing.T, router *gin.Engine, path string) *services.PortalView {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view services.PortalView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return &view
}

func TestGetPortalVisitors(t *testing.T) {
	router := portalTestRouter(portalTestRequests(), "admin-1")

	view := getPortal(t, router, "/portal/visitors")

	assert.Equal(t, 2, view.TotalMatched)
	assert.Equal(t, 2, view.Stats.Total)
	assert.Equal(t, 1, view.Stats.Approved)
	assert.Equal(t, 1, view.Stats.Routed)
	assert.Len(t, view.Requests, 2)
}

func TestGetPortalVisitors_StatusFilter(t *testing.T) {
	router := portalTestRouter(portalTestRequests(), "admin-1")

	view := getPortal(t, router, "/portal/visitors?status=approved")

	assert.Equal(t, 1, view.TotalMatched)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Asha Verma", view.Rows[0].VisitorName)
}

func TestGetPortalVisitors_AssignedToMe(t *testing.T) {
	// The routed_to value carries hyphens; the JWT user id does not
	router := portalTestRouter(portalTestRequests(), "ab12cd")

	view := getPortal(t, router, "/portal/visitors?status=assigned_to_me")

	assert.Equal(t, 1, view.TotalMatched)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Meena Iyer", view.Rows[0].VisitorName)
}

func TestGetPortalVisitors_Search(t *testing.T) {
	router := portalTestRouter(portalTestRequests(), "admin-1")

	view := getPortal(t, router, "/portal/visitors?search=req-002")

	assert.Equal(t, 1, view.TotalMatched)
	require.Len(t, view.Requests, 1)
	assert.Equal(t, "REQ-002", view.Requests[0].Request.RequestID)
}

func TestGetPortalVisitors_DateFilter(t *testing.T) {
	router := portalTestRouter(portalTestRequests(), "admin-1")

	view := getPortal(t, router, "/portal/visitors?date=2024-03-10")

	assert.Equal(t, 1, view.TotalMatched)
}

func TestGetPortalVisitors_BadDate(t *testing.T) {
	router := portalTestRouter(portalTestRequests(), "admin-1")

	req := httptest.NewRequest("GET", "/portal/visitors?date=10-03-2024", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPortalVisitors_BadCount(t *testing.T) {
	router := portalTestRouter(portalTestRequests(), "admin-1")

	req := httptest.NewRequest("GET", "/portal/visitors?count=lots", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
