package models

import (
	"time"
)

// RequestStatus represents the workflow status of a pass request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusRouted   RequestStatus = "routed_for_approval"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// PassRequest represents one submitted visitor pass application.
// A request owns its visitors; they are created together at submission time.
type PassRequest struct {
	ID             string        `json:"id" db:"id"`
	RequestID      string        `json:"request_id" db:"request_id"` // human-facing reference, e.g. REQ-0042
	MainCategoryID *string       `json:"main_category_id,omitempty" db:"main_category_id"`
	SubCategoryID  *string       `json:"sub_category_id,omitempty" db:"sub_category_id"`
	Status         RequestStatus `json:"status" db:"status"`
	RoutedTo       *string       `json:"routed_to,omitempty" db:"routed_to"`
	RoutedBy       *string       `json:"routed_by,omitempty" db:"routed_by"` // nil means the routing was automatic, not done by a HOD
	RoutedAt       *time.Time    `json:"routed_at,omitempty" db:"routed_at"`
	Purpose        string        `json:"purpose" db:"purpose"`
	RequestedBy    string        `json:"requested_by" db:"requested_by"` // user id or free text
	ValidFrom      time.Time     `json:"valid_from" db:"valid_from"`
	ValidTo        *time.Time    `json:"valid_to,omitempty" db:"valid_to"`
	Season         *string       `json:"season,omitempty" db:"season"` // session name, free text
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`

	Visitors []Visitor `json:"visitors" db:"-"`
}

// IsRouted checks if the request is currently routed for superior approval
func (r *PassRequest) IsRouted() bool {
	return r.Status == RequestStatusRouted
}

// IsManuallyRouted checks if the routing was performed by a named user (HOD)
// rather than by the automatic weblink flow.
func (r *PassRequest) IsManuallyRouted() bool {
	return r.Status == RequestStatusRouted && r.RoutedBy != nil
}

// CanBeRouted checks if the request can still be routed to a superior
func (r *PassRequest) CanBeRouted() bool {
	return r.Status == RequestStatusPending || r.Status == RequestStatusRouted
}

// CreatePassRequest represents the request body for submitting a pass application
type CreatePassRequest struct {
	MainCategoryID *string              `json:"main_category_id,omitempty"`
	SubCategoryID  *string              `json:"sub_category_id,omitempty"`
	Purpose        string               `json:"purpose" binding:"required"`
	RequestedBy    string               `json:"requested_by" binding:"required"`
	ValidFrom      string               `json:"valid_from" binding:"required"` // Date format: YYYY-MM-DD
	ValidTo        *string              `json:"valid_to,omitempty"`            // Date format: YYYY-MM-DD
	Season         *string              `json:"season,omitempty"`
	Visitors       []CreateVisitorInput `json:"visitors" binding:"required"`
}

// Validate validates the submission. Failures are field-scoped messages,
// never errors that abort processing of the remaining fields.
func (r *CreatePassRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if r.Purpose == "" {
		errs["purpose"] = "purpose is required"
	}
	if r.RequestedBy == "" {
		errs["requested_by"] = "requested_by is required"
	}
	if _, err := time.Parse("2006-01-02", r.ValidFrom); err != nil {
		errs["valid_from"] = "valid_from must be a date in YYYY-MM-DD format"
	}
	if r.ValidTo != nil {
		if _, err := time.Parse("2006-01-02", *r.ValidTo); err != nil {
			errs["valid_to"] = "valid_to must be a date in YYYY-MM-DD format"
		}
	}
	if len(r.Visitors) == 0 {
		errs["visitors"] = "at least one visitor is required"
	}
	for i, v := range r.Visitors {
		v.validateInto(errs, i)
	}

	return errs
}

// RouteRequest represents the request body for routing a pass request
// (or individual visitors of it) to a superior for approval.
type RouteRequest struct {
	RoutedTo   string   `json:"routed_to" binding:"required"` // target user id
	VisitorIDs []string `json:"visitor_ids,omitempty"`        // empty means the whole request is routed
	Comment    *string  `json:"comment,omitempty"`
}

// Validate validates the route request
func (r *RouteRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if r.RoutedTo == "" {
		errs["routed_to"] = "routed_to is required"
	}
	return errs
}

// GeneratePassRequest represents the request body for generating passes
// for one or more visitors of an approved request.
type GeneratePassRequest struct {
	VisitorIDs        []string      `json:"visitor_ids" binding:"required"`
	PassCategoryID    *string       `json:"pass_category_id,omitempty"`
	PassSubCategoryID *string       `json:"pass_sub_category_id,omitempty"`
	PassTypeID        *string       `json:"pass_type_id,omitempty"`
	CarPass           *CarPassInput `json:"car_pass,omitempty"`
}

// Validate validates the generate pass request
func (r *GeneratePassRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if len(r.VisitorIDs) == 0 {
		errs["visitor_ids"] = "at least one visitor id is required"
	}
	if r.CarPass != nil {
		r.CarPass.validateInto(errs)
	}
	return errs
}
