package portal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/securegate/visitor-pass-backend/internal/models"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func testRequest(status models.RequestStatus) models.PassRequest {
	return models.PassRequest{
		ID:          "req-internal-1",
		RequestID:   "REQ-001",
		Status:      status,
		Purpose:     "Committee hearing",
		RequestedBy: "user-1",
		ValidFrom:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func testVisitor(status models.VisitorStatus) models.Visitor {
	return models.Visitor{
		ID:                   "vis-1",
		RequestID:            "req-internal-1",
		FirstName:            "Asha",
		LastName:             "Verma",
		Email:                "asha@example.com",
		Phone:                "9876543210",
		IdentificationType:   "aadhaar",
		IdentificationNumber: "123412341234",
		VisitorStatus:        status,
	}
}

func TestResolveVisitorStatus_SuspensionAlwaysWins(t *testing.T) {
	visitor := testVisitor(models.VisitorStatusApproved)
	visitor.IsSuspended = true
	visitor.PassGeneratedAt = timePtr(time.Now())
	visitor.VisitorRoutedTo = strPtr("user-9")

	for _, reqStatus := range []models.RequestStatus{
		models.RequestStatusPending,
		models.RequestStatusRouted,
		models.RequestStatusApproved,
		models.RequestStatusRejected,
	} {
		request := testRequest(reqStatus)
		assert.Equal(t, StatusSuspended, ResolveVisitorStatus(&visitor, &request),
			"suspension must outrank everything for request status %s", reqStatus)
	}
}

func TestResolveVisitorStatus_GeneratedPassYieldsApproved(t *testing.T) {
	visitor := testVisitor(models.VisitorStatusPending)
	visitor.PassGeneratedAt = timePtr(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	request := testRequest(models.RequestStatusPending)
	assert.Equal(t, StatusApproved, ResolveVisitorStatus(&visitor, &request))

	// Even a rejected visitor status cannot undo an issued pass
	visitor.VisitorStatus = models.VisitorStatusRejected
	assert.Equal(t, StatusApproved, ResolveVisitorStatus(&visitor, &request))
}

func TestResolveVisitorStatus_IndividualRouting(t *testing.T) {
	visitor := testVisitor(models.VisitorStatusPending)
	visitor.VisitorRoutedTo = strPtr("legislative-1")

	request := testRequest(models.RequestStatusPending)
	assert.Equal(t, StatusRouted, ResolveVisitorStatus(&visitor, &request))
}

func TestResolveVisitorStatus_VisitorRejected(t *testing.T) {
	visitor := testVisitor(models.VisitorStatusRejected)
	request := testRequest(models.RequestStatusRouted)
	request.RoutedBy = strPtr("hod-1")

	assert.Equal(t, StatusRejected, ResolveVisitorStatus(&visitor, &request))
}

func TestResolveVisitorStatus_ScenarioA_PendingUnrouted(t *testing.T) {
	visitor := testVisitor(models.VisitorStatusPending)
	request := testRequest(models.RequestStatusPending)

	assert.Equal(t, StatusPending, ResolveVisitorStatus(&visitor, &request))
	assert.False(t, shouldShow(&visitor, &request),
		"visitor awaiting first-tier approval must not appear in the portal")
}

func TestResolveVisitorStatus_ScenarioB_HODRouted(t *testing.T) {
	visitor := testVisitor(models.VisitorStatusApproved)
	request := testRequest(models.RequestStatusRouted)
	request.RoutedBy = strPtr("hod-1")

	assert.Equal(t, StatusRouted, ResolveVisitorStatus(&visitor, &request))
}

func TestResolveVisitorStatus_ScenarioC_AutoRoutedShowsPending(t *testing.T) {
	visitor := testVisitor(models.VisitorStatusPending)
	request := testRequest(models.RequestStatusRouted)
	request.RoutedBy = nil

	assert.Equal(t, StatusPending, ResolveVisitorStatus(&visitor, &request),
		"auto-routed requests are still awaiting action from the operator's perspective")
}

func TestResolveVisitorStatus_ScenarioD_SuspendToggle(t *testing.T) {
	visitor := testVisitor(models.VisitorStatusApproved)
	visitor.PassGeneratedAt = timePtr(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	request := testRequest(models.RequestStatusApproved)

	assert.Equal(t, StatusApproved, ResolveVisitorStatus(&visitor, &request))

	visitor.IsSuspended = true
	assert.Equal(t, StatusSuspended, ResolveVisitorStatus(&visitor, &request))

	// Activation reverses the suspension
	visitor.IsSuspended = false
	assert.Equal(t, StatusApproved, ResolveVisitorStatus(&visitor, &request))
}

func TestResolveVisitorStatus_RequestApprovedAwaitingIssuance(t *testing.T) {
	visitor := testVisitor(models.VisitorStatusPending)
	request := testRequest(models.RequestStatusApproved)

	assert.Equal(t, StatusPending, ResolveVisitorStatus(&visitor, &request),
		"approved request without an issued pass still shows pending")
}

func TestResolveVisitorStatus_DirectlyRoutedPendingRequest(t *testing.T) {
	visitor := testVisitor(models.VisitorStatusPending)
	request := testRequest(models.RequestStatusPending)
	request.RoutedTo = strPtr("legislative-1")

	assert.Equal(t, StatusPending, ResolveVisitorStatus(&visitor, &request))
	assert.True(t, shouldShow(&visitor, &request),
		"direct-to-legislative routing makes the visitor visible")
}

func TestResolveVisitorStatus_ApprovedTierAwaitingPass(t *testing.T) {
	visitor := testVisitor(models.VisitorStatusApproved)
	request := testRequest(models.RequestStatusPending)

	assert.Equal(t, StatusPending, ResolveVisitorStatus(&visitor, &request),
		"approved at a lower tier but awaiting final pass issuance")
}

func TestResolveVisitorStatus_Totality(t *testing.T) {
	valid := map[Status]bool{
		StatusSuspended: true,
		StatusApproved:  true,
		StatusRouted:    true,
		StatusRejected:  true,
		StatusPending:   true,
	}

	visitorStatuses := []models.VisitorStatus{
		models.VisitorStatusPending,
		models.VisitorStatusApproved,
		models.VisitorStatusRejected,
		models.VisitorStatus(""), // unset
	}
	requestStatuses := []models.RequestStatus{
		models.RequestStatusPending,
		models.RequestStatusRouted,
		models.RequestStatusApproved,
		models.RequestStatusRejected,
	}

	// Sweep every combination of the workflow toggles
	count := 0
	for _, vs := range visitorStatuses {
		for _, rs := range requestStatuses {
			for _, suspended := range []bool{false, true} {
				for _, hasPass := range []bool{false, true} {
					for _, visitorRouted := range []bool{false, true} {
						for _, reqRoutedTo := range []bool{false, true} {
							for _, reqRoutedBy := range []bool{false, true} {
								visitor := testVisitor(vs)
								visitor.IsSuspended = suspended
								if hasPass {
									visitor.PassGeneratedAt = timePtr(time.Now())
								}
								if visitorRouted {
									visitor.VisitorRoutedTo = strPtr("user-9")
								}
								request := testRequest(rs)
								if reqRoutedTo {
									request.RoutedTo = strPtr("user-2")
								}
								if reqRoutedBy {
									request.RoutedBy = strPtr("hod-1")
								}

								status := ResolveVisitorStatus(&visitor, &request)
								assert.True(t, valid[status],
									"resolver returned unknown status %q", status)
								count++
							}
						}
					}
				}
			}
		}
	}
	assert.Equal(t, 1024, count)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Suspended", StatusSuspended.Label())
	assert.Equal(t, "Approved", StatusApproved.Label())
	assert.Equal(t, "Routed for Approval", StatusRouted.Label())
	assert.Equal(t, "Rejected", StatusRejected.Label())
	assert.Equal(t, "Pending", StatusPending.Label())
}
