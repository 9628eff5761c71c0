package portal

// Stats holds the per-status aggregate counts shown above the portal list.
// Total always equals the sum of the five buckets, which in turn equals
// the number of rows, since every row resolves to one of the five statuses.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Routed    int `json:"routed"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Suspended int `json:"suspended"`
}

// ComputeStats counts rows per resolved status in a single pass
func ComputeStats(rows []VisitorRow) Stats {
	var s Stats
	for i := range rows {
		switch rows[i].Status {
		case StatusPending:
			s.Pending++
		case StatusRouted:
			s.Routed++
		case StatusApproved:
			s.Approved++
		case StatusRejected:
			s.Rejected++
		case StatusSuspended:
			s.Suspended++
		}
	}
	s.Total = s.Pending + s.Routed + s.Approved + s.Rejected + s.Suspended
	return s
}
