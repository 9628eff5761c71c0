package portal

import (
	"time"

	"github.com/securegate/visitor-pass-backend/internal/models"
)

// Placeholder values for unresolvable reference lookups. A missing category
// or pass type is a data-integrity gap, never an error.
const (
	placeholderUnknown = "Unknown"
	placeholderDash    = "—"
)

// Reference holds the read-only lookup dictionaries used to denormalize rows
type Reference struct {
	categories    map[string]models.MainCategory
	subCategories map[string]models.SubCategory
	passTypes     map[string]models.PassTypeItem
}

// NewReference builds lookup dictionaries from the reference lists
func NewReference(categories []models.MainCategory, subCategories []models.SubCategory, passTypes []models.PassTypeItem) Reference {
	ref := Reference{
		categories:    make(map[string]models.MainCategory, len(categories)),
		subCategories: make(map[string]models.SubCategory, len(subCategories)),
		passTypes:     make(map[string]models.PassTypeItem, len(passTypes)),
	}
	for _, c := range categories {
		ref.categories[c.ID] = c
	}
	for _, s := range subCategories {
		ref.subCategories[s.ID] = s
	}
	for _, p := range passTypes {
		ref.passTypes[p.ID] = p
	}
	return ref
}

// CategoryName resolves a main category id to its display name
func (r Reference) CategoryName(id *string) string {
	if id == nil {
		return placeholderDash
	}
	if c, ok := r.categories[*id]; ok {
		return c.Name
	}
	return placeholderUnknown
}

// SubCategoryName resolves a sub-category id to its display name
func (r Reference) SubCategoryName(id *string) string {
	if id == nil {
		return placeholderDash
	}
	if s, ok := r.subCategories[*id]; ok {
		return s.Name
	}
	return placeholderUnknown
}

// PassTypeName resolves a pass type id to its display name
func (r Reference) PassTypeName(id *string) string {
	if id == nil {
		return placeholderDash
	}
	if p, ok := r.passTypes[*id]; ok {
		return p.Name
	}
	return placeholderUnknown
}

// VisitorRow is one flattened (request, visitor) pair as shown in the
// portal list. Rows are immutable snapshots: they carry value copies of
// the source request and visitor and do not observe later mutation.
type VisitorRow struct {
	Request models.PassRequest `json:"request"`
	Visitor models.Visitor     `json:"visitor"`
	Status  Status             `json:"status"`

	RequestRef      string     `json:"request_ref"`
	VisitorName     string     `json:"visitor_name"`
	CategoryName    string     `json:"category_name"`
	SubCategoryName string     `json:"sub_category_name"`
	PassTypeName    string     `json:"pass_type_name"`
	PassNumber      string     `json:"pass_number"`
	ValidFrom       time.Time  `json:"valid_from"`
	ValidTo         *time.Time `json:"valid_to,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// shouldShow is the visibility gate for the legislative-facing list: a
// visitor still awaiting first-tier (department/HOD) approval never appears.
// This is intentionally a gate, not a status value.
func shouldShow(v *models.Visitor, r *models.PassRequest) bool {
	if r.Status == models.RequestStatusPending && r.RoutedTo != nil {
		return true
	}
	if r.Status == models.RequestStatusRouted || r.Status == models.RequestStatusApproved {
		return true
	}
	if v.HasPass() {
		return true
	}
	if v.VisitorStatus == models.VisitorStatusApproved || v.VisitorStatus == models.VisitorStatusRejected {
		return true
	}
	return v.VisitorRoutedTo != nil
}

// BuildVisitorRows flattens (request, visitor) pairs into portal rows.
// A request with zero qualifying visitors contributes zero rows.
func BuildVisitorRows(requests []models.PassRequest, ref Reference) []VisitorRow {
	rows := make([]VisitorRow, 0, len(requests))

	for ri := range requests {
		req := requests[ri]
		for vi := range req.Visitors {
			visitor := req.Visitors[vi]
			if !shouldShow(&visitor, &req) {
				continue
			}

			row := VisitorRow{
				Request:         req,
				Visitor:         visitor,
				Status:          ResolveVisitorStatus(&visitor, &req),
				RequestRef:      req.RequestID,
				VisitorName:     visitor.FullName(),
				CategoryName:    ref.CategoryName(req.MainCategoryID),
				SubCategoryName: ref.SubCategoryName(req.SubCategoryID),
				PassTypeName:    ref.PassTypeName(visitor.PassTypeID),
				PassNumber:      placeholderDash,
				ValidFrom:       req.ValidFrom,
				ValidTo:         req.ValidTo,
				CreatedAt:       req.CreatedAt,
			}
			if visitor.PassNumber != nil {
				row.PassNumber = *visitor.PassNumber
			}
			rows = append(rows, row)
		}
	}

	return rows
}
