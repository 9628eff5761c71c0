package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/securegate/visitor-pass-backend/internal/models"
	"github.com/securegate/visitor-pass-backend/internal/services"
)

// setupTestDB creates a mock database for testing
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// fakeRequestStore is an in-memory pass request store for handler tests
type fakeRequestStore struct {
	requests map[string]*models.PassRequest
}

func newFakeRequestStore(requests ...*models.PassRequest) *fakeRequestStore {
	store := &fakeRequestStore{requests: map[string]*models.PassRequest{}}
	for _, r := range requests {
		store.requests[r.ID] = r
	}
	return store
}

func (s *fakeRequestStore) Create(request *models.PassRequest) error {
	if request.ID == "" {
		request.ID = fmt.Sprintf("req-%d", len(s.requests)+1)
	}
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	s.requests[request.ID] = request
	return nil
}

func (s *fakeRequestStore) GetByID(id string) (*models.PassRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("pass request not found: %s", id)
	}
	copied := *request
	return &copied, nil
}

func (s *fakeRequestStore) UpdateStatus(id string, status models.RequestStatus) error {
	request, ok := s.requests[id]
	if !ok {
		return fmt.Errorf("pass request not found: %s", id)
	}
	request.Status = status
	return nil
}

func (s *fakeRequestStore) Route(id string, routedTo string, routedBy *string, routedAt time.Time) error {
	request, ok := s.requests[id]
	if !ok {
		return fmt.Errorf("pass request not found: %s", id)
	}
	request.Status = models.RequestStatusRouted
	request.RoutedTo = &routedTo
	request.RoutedBy = routedBy
	request.RoutedAt = &routedAt
	return nil
}

// fakeVisitorStore is an in-memory visitor store for handler tests
type fakeVisitorStore struct {
	visitors map[string]*models.Visitor
}

func newFakeVisitorStore(visitors ...*models.Visitor) *fakeVisitorStore {
	store := &fakeVisitorStore{visitors: map[string]*models.Visitor{}}
	for _, v := range visitors {
		store.visitors[v.ID] = v
	}
	return store
}

func (s *fakeVisitorStore) get(id string) (*models.Visitor, error) {
	visitor, ok := s.visitors[id]
	if !ok {
		return nil, fmt.Errorf("visitor not found: %s", id)
	}
	return visitor, nil
}

func (s *fakeVisitorStore) GetByID(id string) (*models.Visitor, error) {
	visitor, err := s.get(id)
	if err != nil {
		return nil, err
	}
	copied := *visitor
	return &copied, nil
}

func (s *fakeVisitorStore) UpdateStatus(id string, status models.VisitorStatus, reason *string) error {
	visitor, err := s.get(id)
	if err != nil {
		return err
	}
	visitor.VisitorStatus = status
	if status == models.VisitorStatusRejected {
		visitor.RejectionReason = reason
	} else {
		visitor.RejectionReason = nil
	}
	return nil
}

func (s *fakeVisitorStore) Route(id string, routedTo string) error {
	visitor, err := s.get(id)
	if err != nil {
		return err
	}
	visitor.VisitorRoutedTo = &routedTo
	return nil
}

func (s *fakeVisitorStore) GeneratePass(id string, passNumber, qrString string, generatedAt time.Time, categoryID, subCategoryID, passTypeID *string) error {
	visitor, err := s.get(id)
	if err != nil {
		return err
	}
	visitor.PassNumber = &passNumber
	visitor.PassQRString = &qrString
	visitor.PassGeneratedAt = &generatedAt
	visitor.PassCategoryID = categoryID
	visitor.PassSubCategoryID = subCategoryID
	visitor.PassTypeID = passTypeID
	visitor.VisitorStatus = models.VisitorStatusApproved
	return nil
}

func (s *fakeVisitorStore) AddCarPass(visitorID string, carPass *models.CarPass) error {
	visitor, err := s.get(visitorID)
	if err != nil {
		return err
	}
	carPass.VisitorID = visitorID
	visitor.CarPasses = append(visitor.CarPasses, *carPass)
	return nil
}

func (s *fakeVisitorStore) Suspend(id string, reason string, suspendedAt time.Time) error {
	visitor, err := s.get(id)
	if err != nil {
		return err
	}
	visitor.IsSuspended = true
	visitor.SuspendedAt = &suspendedAt
	visitor.SuspensionReason = &reason
	return nil
}

func (s *fakeVisitorStore) Activate(id string) error {
	visitor, err := s.get(id)
	if err != nil {
		return err
	}
	visitor.IsSuspended = false
	visitor.SuspendedAt = nil
	visitor.SuspensionReason = nil
	return nil
}

// fakeAudit satisfies the audit interfaces without writing anywhere
type fakeAudit struct{}

func (fakeAudit) LogVisitorAction(actorID, visitorID, action, ipAddress, userAgent string, details map[string]interface{}) error {
	return nil
}

func (fakeAudit) LogRequestAction(actorID, requestID, action, ipAddress, userAgent string, details map[string]interface{}) error {
	return nil
}

func (fakeAudit) LogLogin(userID *string, email, ipAddress, userAgent string, success bool) error {
	return nil
}

// fakeGateway records WhatsApp sends
type fakeGateway struct {
	passSends int
}

func (g *fakeGateway) SendPassIssued(phone, visitorName, passNumber, qrString string) (string, error) {
	g.passSends++
	return "msg-1", nil
}

func (g *fakeGateway) SendStatusUpdate(phone, visitorName, message string) (string, error) {
	return "msg-2", nil
}

func (g *fakeGateway) GetName() string { return "fake" }

func newTestPassService(requests *fakeRequestStore, visitors *fakeVisitorStore) (*services.PassService, *fakeGateway) {
	gateway := &fakeGateway{}
	return services.NewPassService(requests, visitors, fakeAudit{}, gateway, testLogger()), gateway
}
