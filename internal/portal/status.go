// Package portal implements the pure data rules behind the legislative
// visitor portal: deriving a single display status per visitor, flattening
// requests into display rows, and filtering/searching/windowing those rows.
// Nothing in this package performs I/O.
package portal

import (
	"github.com/securegate/visitor-pass-backend/internal/models"
)

// Status is the single display-safe status derived for a visitor.
// It reconciles the two approval tiers (department/HOD, then legislative)
// with the orthogonal suspend/activate toggle.
type Status string

const (
	StatusSuspended Status = "suspended"
	StatusApproved  Status = "approved"
	StatusRouted    Status = "routed_for_approval"
	StatusRejected  Status = "rejected"
	StatusPending   Status = "pending"
)

// StatusAssignedToMe is a virtual filter value, not a resolvable status:
// it selects rows delegated to the current user.
const StatusAssignedToMe = "assigned_to_me"

// Label returns the human-readable form shown in the portal
func (s Status) Label() string {
	switch s {
	case StatusSuspended:
		return "Suspended"
	case StatusApproved:
		return "Approved"
	case StatusRouted:
		return "Routed for Approval"
	case StatusRejected:
		return "Rejected"
	default:
		return "Pending"
	}
}

// statusRule is one row of the resolution decision table
type statusRule struct {
	name    string
	applies func(v *models.Visitor, r *models.PassRequest) bool
	result  func(v *models.Visitor, r *models.PassRequest) Status
}

func fixed(s Status) func(*models.Visitor, *models.PassRequest) Status {
	return func(*models.Visitor, *models.PassRequest) Status { return s }
}

// statusRules is evaluated top to bottom; the first rule that applies wins.
// The order encodes the workflow priorities: suspension outranks an issued
// pass, an issued pass outranks everything below it, and individual visitor
// state outranks request-level state.
var statusRules = []statusRule{
	{
		name: "visitor suspended",
		applies: func(v *models.Visitor, _ *models.PassRequest) bool {
			return v.IsSuspended
		},
		result: fixed(StatusSuspended),
	},
	{
		name: "pass generated",
		applies: func(v *models.Visitor, _ *models.PassRequest) bool {
			return v.HasPass()
		},
		result: fixed(StatusApproved),
	},
	{
		name: "visitor individually routed",
		applies: func(v *models.Visitor, _ *models.PassRequest) bool {
			return v.VisitorRoutedTo != nil
		},
		result: fixed(StatusRouted),
	},
	{
		name: "visitor rejected",
		applies: func(v *models.Visitor, _ *models.PassRequest) bool {
			return v.VisitorStatus == models.VisitorStatusRejected
		},
		result: fixed(StatusRejected),
	},
	{
		name: "request approved",
		applies: func(_ *models.Visitor, r *models.PassRequest) bool {
			return r.Status == models.RequestStatusApproved
		},
		result: func(v *models.Visitor, _ *models.PassRequest) Status {
			// An earlier rule already maps generated passes to approved;
			// an approved request whose visitor has no pass yet still
			// awaits issuance.
			if v.HasPass() {
				return StatusApproved
			}
			return StatusPending
		},
	},
	{
		name: "request routed",
		applies: func(_ *models.Visitor, r *models.PassRequest) bool {
			return r.Status == models.RequestStatusRouted
		},
		result: func(_ *models.Visitor, r *models.PassRequest) Status {
			// routed_by is nil when the weblink flow routed the request
			// automatically; from the operator's perspective that request
			// has not been acted on yet.
			if r.RoutedBy == nil {
				return StatusPending
			}
			return StatusRouted
		},
	},
	{
		name: "request routed directly while pending",
		applies: func(_ *models.Visitor, r *models.PassRequest) bool {
			return r.RoutedTo != nil && r.Status == models.RequestStatusPending
		},
		result: fixed(StatusPending),
	},
	{
		name: "visitor approved awaiting pass issuance",
		applies: func(v *models.Visitor, _ *models.PassRequest) bool {
			return v.VisitorStatus == models.VisitorStatusApproved && !v.HasPass()
		},
		result: fixed(StatusPending),
	},
}

// ResolveVisitorStatus derives the one display status for a visitor from
// its own fields plus its parent request's fields. It is total: every
// combination of inputs resolves to exactly one of the five statuses.
func ResolveVisitorStatus(v *models.Visitor, r *models.PassRequest) Status {
	for _, rule := range statusRules {
		if rule.applies(v, r) {
			return rule.result(v, r)
		}
	}

	// Fall back to the visitor's own stored status when nothing above applies
	switch v.VisitorStatus {
	case models.VisitorStatusApproved:
		return StatusApproved
	case models.VisitorStatusRejected:
		return StatusRejected
	case models.VisitorStatusPending:
		return StatusPending
	}
	return StatusPending
}
