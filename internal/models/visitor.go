package models

import (
	"strings"
	"time"

	"github.com/securegate/visitor-pass-backend/pkg/validator"
)

var phoneValidator = validator.NewPhoneValidator()

// VisitorStatus represents the per-visitor workflow status, independent of
// the request-level status. A request can have visitors in different states.
type VisitorStatus string

const (
	VisitorStatusPending  VisitorStatus = "pending"
	VisitorStatusApproved VisitorStatus = "approved"
	VisitorStatusRejected VisitorStatus = "rejected"
)

// Visitor represents one person covered by a pass request
type Visitor struct {
	ID                   string        `json:"id" db:"id"`
	RequestID            string        `json:"request_id" db:"request_id"`
	FirstName            string        `json:"first_name" db:"first_name"`
	LastName             string        `json:"last_name" db:"last_name"`
	Email                string        `json:"email" db:"email"`
	Phone                string        `json:"phone" db:"phone"`
	IdentificationType   string        `json:"identification_type" db:"identification_type"`
	IdentificationNumber string        `json:"identification_number" db:"identification_number"`
	VisitorStatus        VisitorStatus `json:"visitor_status" db:"visitor_status"`
	VisitorRoutedTo      *string       `json:"visitor_routed_to,omitempty" db:"visitor_routed_to"` // individual routing overrides request-level routing
	IsSuspended          bool          `json:"is_suspended" db:"is_suspended"`
	SuspendedAt          *time.Time    `json:"suspended_at,omitempty" db:"suspended_at"`
	SuspensionReason     *string       `json:"suspension_reason,omitempty" db:"suspension_reason"`
	RejectionReason      *string       `json:"visitor_rejection_reason,omitempty" db:"rejection_reason"`
	PassGeneratedAt      *time.Time    `json:"pass_generated_at,omitempty" db:"pass_generated_at"` // presence is the authoritative signal that a pass exists
	PassNumber           *string       `json:"pass_number,omitempty" db:"pass_number"`
	PassQRString         *string       `json:"pass_qr_string,omitempty" db:"pass_qr_string"`
	PassCategoryID       *string       `json:"pass_category_id,omitempty" db:"pass_category_id"`
	PassSubCategoryID    *string       `json:"pass_sub_category_id,omitempty" db:"pass_sub_category_id"`
	PassTypeID           *string       `json:"pass_type_id,omitempty" db:"pass_type_id"`
	CreatedAt            time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at" db:"updated_at"`

	// Max length 1 by business rule, though the data model permits a list
	CarPasses []CarPass `json:"car_passes" db:"-"`
}

// FullName returns the visitor's display name
func (v *Visitor) FullName() string {
	return strings.TrimSpace(v.FirstName + " " + v.LastName)
}

// HasPass checks if a pass has been generated for this visitor
func (v *Visitor) HasPass() bool {
	return v.PassGeneratedAt != nil
}

// IsIndividuallyRouted checks if this visitor has been delegated to a
// specific approver, which makes it no longer actionable by the current one.
func (v *Visitor) IsIndividuallyRouted() bool {
	return v.VisitorRoutedTo != nil
}

// CanGeneratePass checks if a pass can be issued for this visitor
func (v *Visitor) CanGeneratePass() bool {
	return !v.IsSuspended && v.VisitorStatus != VisitorStatusRejected && !v.HasPass()
}

// CanBeSuspended checks if the visitor's pass can be suspended.
// Suspension only applies to an already-issued pass.
func (v *Visitor) CanBeSuspended() bool {
	return v.HasPass() && !v.IsSuspended
}

// CanBeActivated checks if the visitor can be re-activated
func (v *Visitor) CanBeActivated() bool {
	return v.IsSuspended
}

// CarPass represents a vehicle pass attached to a visitor
type CarPass struct {
	ID        string  `json:"id" db:"id"`
	VisitorID string  `json:"visitor_id" db:"visitor_id"`
	CarMake   string  `json:"car_make" db:"car_make"`
	CarModel  string  `json:"car_model" db:"car_model"`
	CarColor  string  `json:"car_color" db:"car_color"`
	CarNumber string  `json:"car_number" db:"car_number"`
	CarTag    *string `json:"car_tag,omitempty" db:"car_tag"`
}

// CreateVisitorInput represents one visitor in a pass request submission
type CreateVisitorInput struct {
	FirstName            string        `json:"first_name" binding:"required"`
	LastName             string        `json:"last_name"`
	Email                string        `json:"email"`
	Phone                string        `json:"phone" binding:"required"`
	IdentificationType   string        `json:"identification_type" binding:"required"`
	IdentificationNumber string        `json:"identification_number" binding:"required"`
	CarPass              *CarPassInput `json:"car_pass,omitempty"`
}

// validateInto records field-scoped errors for visitor i of a submission
func (v *CreateVisitorInput) validateInto(errs ValidationErrors, i int) {
	if v.FirstName == "" {
		errs.Field("visitors", i, "first_name", "first name is required")
	}
	if v.Phone == "" {
		errs.Field("visitors", i, "phone", "phone is required")
	} else if _, err := phoneValidator.Validate(v.Phone); err != nil {
		errs.Field("visitors", i, "phone", err.Error())
	}
	if v.IdentificationType == "" {
		errs.Field("visitors", i, "identification_type", "identification type is required")
	}
	if v.IdentificationNumber == "" {
		errs.Field("visitors", i, "identification_number", "identification number is required")
	}
}

// CarPassInput represents the car pass details in a submission.
// All fields except the tag are required once a car pass is present.
type CarPassInput struct {
	CarMake   string  `json:"car_make"`
	CarModel  string  `json:"car_model"`
	CarColor  string  `json:"car_color"`
	CarNumber string  `json:"car_number"`
	CarTag    *string `json:"car_tag,omitempty"`
}

func (c *CarPassInput) validateInto(errs ValidationErrors) {
	if c.CarMake == "" {
		errs["car_pass.car_make"] = "car make is required"
	}
	if c.CarModel == "" {
		errs["car_pass.car_model"] = "car model is required"
	}
	if c.CarColor == "" {
		errs["car_pass.car_color"] = "car color is required"
	}
	if c.CarNumber == "" {
		errs["car_pass.car_number"] = "car number is required"
	}
}

// UpdateVisitorStatusRequest represents an approve/reject action on a visitor
type UpdateVisitorStatusRequest struct {
	Status  VisitorStatus `json:"status" binding:"required"`
	Comment *string       `json:"comment,omitempty"`
}

// Validate validates the status update request
func (r *UpdateVisitorStatusRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	switch r.Status {
	case VisitorStatusApproved:
	case VisitorStatusRejected:
		if r.Comment == nil || *r.Comment == "" {
			errs["comment"] = "a reason is required when rejecting a visitor"
		}
	default:
		errs["status"] = "status must be 'approved' or 'rejected'"
	}
	return errs
}

// SuspendVisitorRequest represents a suspension action
type SuspendVisitorRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Validate validates the suspension request
func (r *SuspendVisitorRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if r.Reason == "" {
		errs["reason"] = "a suspension reason is required"
	}
	return errs
}

// ActivateVisitorRequest represents the reversal of a suspension
type ActivateVisitorRequest struct {
	Comment *string `json:"comment,omitempty"`
}
