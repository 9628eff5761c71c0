package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/securegate/visitor-pass-backend/internal/models"
)

// PassRequestRepository handles database operations for the pass_requests
// table. It takes *sqlx.DB directly because submission creates the request
// and its visitors in one transaction.
type PassRequestRepository struct {
	db *sqlx.DB
}

// NewPassRequestRepository creates a new PassRequestRepository
func NewPassRequestRepository(db *sqlx.DB) *PassRequestRepository {
	return &PassRequestRepository{db: db}
}

const passRequestColumns = `
	id, request_id, main_category_id, sub_category_id, status,
	routed_to, routed_by, routed_at, purpose, requested_by,
	valid_from, valid_to, season, created_at, updated_at
`

// Create creates a pass request together with its visitors (and any car
// passes) in a single transaction. Either everything is stored or nothing is.
func (r *PassRequestRepository) Create(request *models.PassRequest) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if request.Status == "" {
		request.Status = models.RequestStatusPending
	}

	err = tx.QueryRow(`
		INSERT INTO pass_requests (
			id, request_id, main_category_id, sub_category_id, status,
			routed_to, routed_by, routed_at, purpose, requested_by,
			valid_from, valid_to, season
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`,
		request.ID, request.RequestID, request.MainCategoryID, request.SubCategoryID,
		request.Status, request.RoutedTo, request.RoutedBy, request.RoutedAt,
		request.Purpose, request.RequestedBy, request.ValidFrom, request.ValidTo,
		request.Season,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create pass request: %w", err)
	}

	for i := range request.Visitors {
		visitor := &request.Visitors[i]
		if visitor.ID == "" {
			visitor.ID = uuid.New().String()
		}
		visitor.RequestID = request.ID
		if visitor.VisitorStatus == "" {
			visitor.VisitorStatus = models.VisitorStatusPending
		}

		err = tx.QueryRow(`
			INSERT INTO visitors (
				id, request_id, first_name, last_name, email, phone,
				identification_type, identification_number, visitor_status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at, updated_at
		`,
			visitor.ID, visitor.RequestID, visitor.FirstName, visitor.LastName,
			visitor.Email, visitor.Phone, visitor.IdentificationType,
			visitor.IdentificationNumber, visitor.VisitorStatus,
		).Scan(&visitor.CreatedAt, &visitor.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create visitor: %w", err)
		}

		for j := range visitor.CarPasses {
			carPass := &visitor.CarPasses[j]
			if carPass.ID == "" {
				carPass.ID = uuid.New().String()
			}
			carPass.VisitorID = visitor.ID

			_, err = tx.Exec(`
				INSERT INTO car_passes (id, visitor_id, car_make, car_model, car_color, car_number, car_tag)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`,
				carPass.ID, carPass.VisitorID, carPass.CarMake, carPass.CarModel,
				carPass.CarColor, carPass.CarNumber, carPass.CarTag,
			)
			if err != nil {
				return fmt.Errorf("failed to create car pass: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetAll retrieves the most recent pass requests with their visitors attached
func (r *PassRequestRepository) GetAll(limit int) ([]models.PassRequest, error) {
	if limit <= 0 {
		limit = 100
	}

	var requests []models.PassRequest
	err := r.db.Select(&requests, `
		SELECT `+passRequestColumns+`
		FROM pass_requests
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pass requests: %w", err)
	}

	if err := r.attachVisitors(requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// GetByID retrieves a pass request by its internal id
func (r *PassRequestRepository) GetByID(id string) (*models.PassRequest, error) {
	var request models.PassRequest
	err := r.db.Get(&request, `
		SELECT `+passRequestColumns+`
		FROM pass_requests
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}

	requests := []models.PassRequest{request}
	if err := r.attachVisitors(requests); err != nil {
		return nil, err
	}
	return &requests[0], nil
}

// GetByRequestRef retrieves a pass request by its human-facing reference
func (r *PassRequestRepository) GetByRequestRef(requestRef string) (*models.PassRequest, error) {
	var request models.PassRequest
	err := r.db.Get(&request, `
		SELECT `+passRequestColumns+`
		FROM pass_requests
		WHERE request_id = $1
	`, requestRef)
	if err != nil {
		return nil, err
	}

	requests := []models.PassRequest{request}
	if err := r.attachVisitors(requests); err != nil {
		return nil, err
	}
	return &requests[0], nil
}

// UpdateStatus updates the workflow status of a request
func (r *PassRequestRepository) UpdateStatus(id string, status models.RequestStatus) error {
	result, err := r.db.Exec(`
		UPDATE pass_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("pass request not found: %s", id)
	}
	return nil
}

// Route marks the request as routed for superior approval. A nil routedBy
// records an automatic (weblink) routing.
func (r *PassRequestRepository) Route(id string, routedTo string, routedBy *string, routedAt time.Time) error {
	result, err := r.db.Exec(`
		UPDATE pass_requests
		SET status = $1, routed_to = $2, routed_by = $3, routed_at = $4, updated_at = NOW()
		WHERE id = $5
	`, models.RequestStatusRouted, routedTo, routedBy, routedAt, id)
	if err != nil {
		return fmt.Errorf("failed to route pass request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("pass request not found: %s", id)
	}
	return nil
}

// attachVisitors loads the visitors (with car passes) for a batch of
// requests with one query per table.
func (r *PassRequestRepository) attachVisitors(requests []models.PassRequest) error {
	if len(requests) == 0 {
		return nil
	}

	ids := make([]string, len(requests))
	index := make(map[string]int, len(requests))
	for i := range requests {
		ids[i] = requests[i].ID
		index[requests[i].ID] = i
	}

	query, args, err := sqlx.In(`
		SELECT `+visitorColumns+`
		FROM visitors
		WHERE request_id IN (?)
		ORDER BY created_at
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build visitor query: %w", err)
	}

	var visitors []models.Visitor
	if err := r.db.Select(&visitors, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to fetch visitors: %w", err)
	}

	if err := attachCarPasses(r.db, visitors); err != nil {
		return err
	}

	for i := range visitors {
		ri, ok := index[visitors[i].RequestID]
		if !ok {
			continue
		}
		requests[ri].Visitors = append(requests[ri].Visitors, visitors[i])
	}
	return nil
}

// attachCarPasses loads car passes for a batch of visitors
func attachCarPasses(db *sqlx.DB, visitors []models.Visitor) error {
	if len(visitors) == 0 {
		return nil
	}

	ids := make([]string, len(visitors))
	index := make(map[string]int, len(visitors))
	for i := range visitors {
		ids[i] = visitors[i].ID
		index[visitors[i].ID] = i
	}

	query, args, err := sqlx.In(`
		SELECT id, visitor_id, car_make, car_model, car_color, car_number, car_tag
		FROM car_passes
		WHERE visitor_id IN (?)
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build car pass query: %w", err)
	}

	var carPasses []models.CarPass
	if err := db.Select(&carPasses, db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to fetch car passes: %w", err)
	}

	for i := range carPasses {
		vi, ok := index[carPasses[i].VisitorID]
		if !ok {
			continue
		}
		visitors[vi].CarPasses = append(visitors[vi].CarPasses, carPasses[i])
	}
	return nil
}
