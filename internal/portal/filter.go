package portal

import (
	"strings"
	"time"

	"github.com/securegate/visitor-pass-backend/internal/models"
)

// displayDateFormat is how dates are rendered in the portal list, and
// therefore how the text search sees them.
const displayDateFormat = "02 Jan 2006"

// FilterSpec describes one filtering pass over the visitor rows. All
// fields are optional; empty values match everything. Categories combine
// with AND semantics; the text search ORs across its field union.
type FilterSpec struct {
	PassTypeID string
	Status     string // a resolved status value, or StatusAssignedToMe
	CategoryID string
	Date       *time.Time // matches the date-only portion of valid_from or valid_to
	Search     string

	// CurrentUserID is required for the assigned_to_me status filter
	CurrentUserID string

	// UserNames maps user ids to display names so the text search can
	// match the resolved requested-by name as well as the raw value.
	UserNames map[string]string
}

// normalizeID strips hyphens and lower-cases an identifier so that UUIDs
// formatted differently by client and server still compare equal.
func normalizeID(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}

// sameID compares two identifiers ignoring case and hyphens
func sameID(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return normalizeID(a) == normalizeID(b)
}

// sameDay compares the date-only portion (year/month/day) of two times
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// assignedToMe reports whether a row is delegated to the given user,
// either individually or via request-level routing awaiting action.
func assignedToMe(row *VisitorRow, userID string) bool {
	if userID == "" {
		return false
	}
	if row.Visitor.VisitorRoutedTo != nil && sameID(*row.Visitor.VisitorRoutedTo, userID) {
		return true
	}
	return row.Request.RoutedTo != nil &&
		sameID(*row.Request.RoutedTo, userID) &&
		row.Request.Status == models.RequestStatusRouted
}

// matchesRow applies the row-scoped predicates (everything except text search)
func (f *FilterSpec) matchesRow(row *VisitorRow) bool {
	if f.PassTypeID != "" {
		if row.Visitor.PassTypeID == nil || *row.Visitor.PassTypeID != f.PassTypeID {
			return false
		}
	}

	if f.Status != "" {
		if f.Status == StatusAssignedToMe {
			if !assignedToMe(row, f.CurrentUserID) {
				return false
			}
		} else if string(row.Status) != f.Status {
			return false
		}
	}

	if f.CategoryID != "" {
		if row.Request.MainCategoryID == nil || *row.Request.MainCategoryID != f.CategoryID {
			return false
		}
	}

	if f.Date != nil {
		matched := sameDay(row.Request.ValidFrom, *f.Date)
		if !matched && row.Request.ValidTo != nil {
			matched = sameDay(*row.Request.ValidTo, *f.Date)
		}
		if !matched {
			return false
		}
	}

	return true
}

// searchFields collects every searchable string for a row's request plus
// the row itself. The search is request-scoped: a hit on any visitor of a
// request keeps every row of that request.
func (f *FilterSpec) searchFields(row *VisitorRow) []string {
	req := &row.Request
	visitor := &row.Visitor

	fields := []string{
		req.RequestID,
		req.RequestedBy,
		req.Purpose,
		row.CategoryName,
		row.SubCategoryName,
		visitor.FullName(),
		visitor.Email,
		visitor.Phone,
		visitor.IdentificationNumber,
		req.ValidFrom.Format(displayDateFormat),
		req.CreatedAt.Format(displayDateFormat),
		row.Status.Label(),
	}
	if name, ok := f.UserNames[req.RequestedBy]; ok {
		fields = append(fields, name)
	}
	if req.ValidTo != nil {
		fields = append(fields, req.ValidTo.Format(displayDateFormat))
	}
	return fields
}

// matchingRequestIDs returns the internal ids of requests where any
// searchable field of any row contains the search text.
func (f *FilterSpec) matchingRequestIDs(rows []VisitorRow) map[string]bool {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	matched := make(map[string]bool)
	if needle == "" {
		return matched
	}

	for i := range rows {
		row := &rows[i]
		if matched[row.Request.ID] {
			continue
		}
		for _, field := range f.searchFields(row) {
			if strings.Contains(strings.ToLower(field), needle) {
				matched[row.Request.ID] = true
				break
			}
		}
	}
	return matched
}

// FilterRows applies the spec to the rows and returns the matching subset
// in the original order. Applying the same spec twice yields the same
// result as applying it once.
func FilterRows(rows []VisitorRow, spec FilterSpec) []VisitorRow {
	searching := strings.TrimSpace(spec.Search) != ""
	var searchHits map[string]bool
	if searching {
		searchHits = spec.matchingRequestIDs(rows)
	}

	out := make([]VisitorRow, 0, len(rows))
	for i := range rows {
		row := rows[i]
		if !spec.matchesRow(&row) {
			continue
		}
		if searching && !searchHits[row.Request.ID] {
			continue
		}
		out = append(out, row)
	}
	return out
}

// RequestGroup re-groups filtered rows under their parent request
type RequestGroup struct {
	Request models.PassRequest `json:"request"`
	Rows    []VisitorRow       `json:"rows"`
}

// FilterRequests groups rows by request, preserving first-seen order.
// A request with zero rows after filtering does not appear at all.
func FilterRequests(rows []VisitorRow) []RequestGroup {
	groups := make([]RequestGroup, 0)
	index := make(map[string]int)

	for i := range rows {
		row := rows[i]
		gi, ok := index[row.Request.ID]
		if !ok {
			gi = len(groups)
			index[row.Request.ID] = gi
			groups = append(groups, RequestGroup{Request: row.Request})
		}
		groups[gi].Rows = append(groups[gi].Rows, row)
	}
	return groups
}
