package database

import (
	"fmt"

	"github.com/securegate/visitor-pass-backend/internal/models"
)

// CategoryRepository handles database operations for the category taxonomy
// and pass types. All of these are read-only reference dictionaries.
type CategoryRepository struct {
	db DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetMainCategories retrieves all main categories
func (r *CategoryRepository) GetMainCategories() ([]models.MainCategory, error) {
	var categories []models.MainCategory
	err := r.db.Select(&categories, `
		SELECT id, name, created_at
		FROM main_categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch main categories: %w", err)
	}
	return categories, nil
}

// GetSubCategories retrieves all sub-categories
func (r *CategoryRepository) GetSubCategories() ([]models.SubCategory, error) {
	var subCategories []models.SubCategory
	err := r.db.Select(&subCategories, `
		SELECT id, main_category_id, name, pass_type_id, created_at
		FROM sub_categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sub categories: %w", err)
	}
	return subCategories, nil
}

// GetSubCategoriesByCategory retrieves the sub-categories of one main category
func (r *CategoryRepository) GetSubCategoriesByCategory(mainCategoryID string) ([]models.SubCategory, error) {
	var subCategories []models.SubCategory
	err := r.db.Select(&subCategories, `
		SELECT id, main_category_id, name, pass_type_id, created_at
		FROM sub_categories
		WHERE main_category_id = $1
		ORDER BY name
	`, mainCategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sub categories: %w", err)
	}
	return subCategories, nil
}

// GetAllPassTypes retrieves all pass types
func (r *CategoryRepository) GetAllPassTypes() ([]models.PassTypeItem, error) {
	var passTypes []models.PassTypeItem
	err := r.db.Select(&passTypes, `
		SELECT id, name, created_at
		FROM pass_types
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pass types: %w", err)
	}
	return passTypes, nil
}

// GetCategoryPassTypes retrieves the pass type ids reachable from a main
// category through its sub-categories.
func (r *CategoryRepository) GetCategoryPassTypes(mainCategoryID string) ([]string, error) {
	var passTypeIDs []string
	err := r.db.Select(&passTypeIDs, `
		SELECT DISTINCT pass_type_id
		FROM sub_categories
		WHERE main_category_id = $1
		  AND pass_type_id IS NOT NULL
	`, mainCategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category pass types: %w", err)
	}
	return passTypeIDs, nil
}
