package models

import "time"

// MainCategory represents a top-level pass category (e.g. Department, Peshi)
type MainCategory struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SubCategory belongs to exactly one MainCategory and optionally maps to
// one pass type.
type SubCategory struct {
	ID             string    `json:"id" db:"id"`
	MainCategoryID string    `json:"main_category_id" db:"main_category_id"`
	Name           string    `json:"name" db:"name"`
	PassTypeID     *string   `json:"pass_type_id,omitempty" db:"pass_type_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// PassTypeItem represents a type of pass that can be issued
// (e.g. Daily, Sessional, Car)
type PassTypeItem struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Session represents an assembly session during which passes are valid
type Session struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	StartsOn  time.Time  `json:"starts_on" db:"starts_on"`
	EndsOn    *time.Time `json:"ends_on,omitempty" db:"ends_on"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// IsActive checks if the session covers the given date
func (s *Session) IsActive(at time.Time) bool {
	if at.Before(s.StartsOn) {
		return false
	}
	return s.EndsOn == nil || !at.After(*s.EndsOn)
}
