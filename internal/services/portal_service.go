package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/securegate/visitor-pass-backend/internal/models"
	"github.com/securegate/visitor-pass-backend/internal/portal"
)

// requestLimit caps how many recent requests one portal view loads
const requestLimit = 500

// portalRequestStore loads the requests the portal view is built from
type portalRequestStore interface {
	GetAll(limit int) ([]models.PassRequest, error)
}

// referenceStore loads the dictionaries used to denormalize rows
type referenceStore interface {
	GetMainCategories() ([]models.MainCategory, error)
	GetSubCategories() ([]models.SubCategory, error)
	GetAllPassTypes() ([]models.PassTypeItem, error)
}

// userDirectory resolves the approver users shown in routing dropdowns
// and referenced by the requested-by search.
type userDirectory interface {
	GetByRole(role models.UserRole) ([]models.User, error)
}

// PortalQuery carries the filter parameters of one portal page load
type PortalQuery struct {
	PassTypeID    string
	Status        string
	CategoryID    string
	Date          *time.Time
	Search        string
	CurrentUserID string

	// Count is the number of rows currently revealed by load-more.
	// Non-positive values fall back to the first page.
	Count int
}

// PortalView is the assembled response for the portal visitor list
type PortalView struct {
	Rows         []portal.VisitorRow   `json:"rows"`
	Requests     []portal.RequestGroup `json:"requests"`
	Stats        portal.Stats          `json:"stats"`
	TotalMatched int                   `json:"total_matched"`
	HasMore      bool                  `json:"has_more"`
}

// PortalService assembles the admin portal visitor list: it loads the
// requests and dictionaries, builds the denormalized rows, and applies
// the requested filters.
type PortalService struct {
	requests   portalRequestStore
	references referenceStore
	users      userDirectory
	logger     *logrus.Logger
}

// NewPortalService creates a new portal service
func NewPortalService(requests portalRequestStore, references referenceStore, users userDirectory, logger *logrus.Logger) *PortalService {
	return &PortalService{
		requests:   requests,
		references: references,
		users:      users,
		logger:     logger,
	}
}

// VisitorView builds the filtered visitor list for one portal page load.
// Every fetch is independently wrapped: a failing dictionary degrades its
// column to placeholders instead of failing the page.
func (s *PortalService) VisitorView(query PortalQuery) *PortalView {
	requests, err := s.requests.GetAll(requestLimit)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load pass requests for portal view")
		requests = nil
	}

	ref := s.loadReference()
	userNames := s.loadUserNames()

	rows := portal.BuildVisitorRows(requests, ref)
	filtered := portal.FilterRows(rows, portal.FilterSpec{
		PassTypeID:    query.PassTypeID,
		Status:        query.Status,
		CategoryID:    query.CategoryID,
		Date:          query.Date,
		Search:        query.Search,
		CurrentUserID: query.CurrentUserID,
		UserNames:     userNames,
	})

	stats := portal.ComputeStats(filtered)
	visible := portal.Truncate(filtered, query.Count)

	return &PortalView{
		Rows:         visible,
		Requests:     portal.FilterRequests(visible),
		Stats:        stats,
		TotalMatched: len(filtered),
		HasMore:      len(visible) < len(filtered),
	}
}

// ApproverNames returns the id to display-name map for all approver roles.
// The portal search uses it to match against resolved requester names.
func (s *PortalService) ApproverNames() map[string]string {
	return s.loadUserNames()
}

// loadReference loads the category and pass type dictionaries. Failures
// leave that dictionary empty, so lookups degrade to placeholders.
func (s *PortalService) loadReference() portal.Reference {
	categories, err := s.references.GetMainCategories()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load main categories")
	}
	subCategories, err := s.references.GetSubCategories()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load sub categories")
	}
	passTypes, err := s.references.GetAllPassTypes()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load pass types")
	}
	return portal.NewReference(categories, subCategories, passTypes)
}

// loadUserNames fetches the users of every approver role concurrently and
// merges them into one id to full-name map.
func (s *PortalService) loadUserNames() map[string]string {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		names = make(map[string]string)
	)

	for _, role := range models.ValidRoles {
		wg.Add(1)
		go func(role models.UserRole) {
			defer wg.Done()

			users, err := s.users.GetByRole(role)
			if err != nil {
				s.logger.WithError(err).WithField("role", role).Warn("Failed to load users for role")
				return
			}

			mu.Lock()
			defer mu.Unlock()
			for _, u := range users {
				names[u.ID] = u.FullName()
			}
		}(role)
	}

	wg.Wait()
	return names
}
