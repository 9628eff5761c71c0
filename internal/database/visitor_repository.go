package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/securegate/visitor-pass-backend/internal/models"
)

const visitorColumns = `
	id, request_id, first_name, last_name, email, phone,
	identification_type, identification_number, visitor_status,
	visitor_routed_to, is_suspended, suspended_at, suspension_reason,
	rejection_reason, pass_generated_at, pass_number, pass_qr_string,
	pass_category_id, pass_sub_category_id, pass_type_id,
	created_at, updated_at
`

// VisitorRepository handles database operations for the visitors table
type VisitorRepository struct {
	db *sqlx.DB
}

// NewVisitorRepository creates a new VisitorRepository
func NewVisitorRepository(db *sqlx.DB) *VisitorRepository {
	return &VisitorRepository{db: db}
}

// GetByID retrieves a visitor by id, with any car passes attached
func (r *VisitorRepository) GetByID(id string) (*models.Visitor, error) {
	var visitor models.Visitor
	err := r.db.Get(&visitor, `
		SELECT `+visitorColumns+`
		FROM visitors
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}

	visitors := []models.Visitor{visitor}
	if err := attachCarPasses(r.db, visitors); err != nil {
		return nil, err
	}
	return &visitors[0], nil
}

// GetByRequestID retrieves all visitors of a request
func (r *VisitorRepository) GetByRequestID(requestID string) ([]models.Visitor, error) {
	var visitors []models.Visitor
	err := r.db.Select(&visitors, `
		SELECT `+visitorColumns+`
		FROM visitors
		WHERE request_id = $1
		ORDER BY created_at
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch visitors: %w", err)
	}

	if err := attachCarPasses(r.db, visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

// UpdateStatus sets the visitor-level status. The rejection reason is
// stored alongside a rejection and cleared on approval.
func (r *VisitorRepository) UpdateStatus(id string, status models.VisitorStatus, reason *string) error {
	if status != models.VisitorStatusRejected {
		reason = nil
	}

	result, err := r.db.Exec(`
		UPDATE visitors
		SET visitor_status = $1, rejection_reason = $2, updated_at = NOW()
		WHERE id = $3
	`, status, reason, id)
	if err != nil {
		return fmt.Errorf("failed to update visitor status: %w", err)
	}
	return requireVisitor(result, id)
}

// Route delegates a single visitor to a named approver
func (r *VisitorRepository) Route(id string, routedTo string) error {
	result, err := r.db.Exec(`
		UPDATE visitors
		SET visitor_routed_to = $1, updated_at = NOW()
		WHERE id = $2
	`, routedTo, id)
	if err != nil {
		return fmt.Errorf("failed to route visitor: %w", err)
	}
	return requireVisitor(result, id)
}

// GeneratePass stamps the visitor with an issued pass. The non-null
// pass_generated_at is the authoritative signal that the pass exists.
func (r *VisitorRepository) GeneratePass(id string, passNumber, qrString string, generatedAt time.Time, categoryID, subCategoryID, passTypeID *string) error {
	result, err := r.db.Exec(`
		UPDATE visitors
		SET pass_number = $1,
		    pass_qr_string = $2,
		    pass_generated_at = $3,
		    pass_category_id = $4,
		    pass_sub_category_id = $5,
		    pass_type_id = $6,
		    visitor_status = $7,
		    updated_at = NOW()
		WHERE id = $8
	`, passNumber, qrString, generatedAt, categoryID, subCategoryID, passTypeID,
		models.VisitorStatusApproved, id)
	if err != nil {
		return fmt.Errorf("failed to generate pass: %w", err)
	}
	return requireVisitor(result, id)
}

// AddCarPass attaches a car pass to a visitor at pass generation time
func (r *VisitorRepository) AddCarPass(visitorID string, carPass *models.CarPass) error {
	if carPass.ID == "" {
		carPass.ID = uuid.New().String()
	}
	carPass.VisitorID = visitorID

	_, err := r.db.Exec(`
		INSERT INTO car_passes (id, visitor_id, car_make, car_model, car_color, car_number, car_tag)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, carPass.ID, carPass.VisitorID, carPass.CarMake, carPass.CarModel,
		carPass.CarColor, carPass.CarNumber, carPass.CarTag)
	if err != nil {
		return fmt.Errorf("failed to create car pass: %w", err)
	}
	return nil
}

// Suspend suspends an issued pass without deleting it
func (r *VisitorRepository) Suspend(id string, reason string, suspendedAt time.Time) error {
	result, err := r.db.Exec(`
		UPDATE visitors
		SET is_suspended = TRUE,
		    suspended_at = $1,
		    suspension_reason = $2,
		    updated_at = NOW()
		WHERE id = $3
	`, suspendedAt, reason, id)
	if err != nil {
		return fmt.Errorf("failed to suspend visitor: %w", err)
	}
	return requireVisitor(result, id)
}

// Activate reverses a suspension
func (r *VisitorRepository) Activate(id string) error {
	result, err := r.db.Exec(`
		UPDATE visitors
		SET is_suspended = FALSE,
		    suspended_at = NULL,
		    suspension_reason = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to activate visitor: %w", err)
	}
	return requireVisitor(result, id)
}

// requireVisitor converts a zero-row update into a not-found error
func requireVisitor(result interface{ RowsAffected() (int64, error) }, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("visitor not found: %s", id)
	}
	return nil
}
