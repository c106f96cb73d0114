package models

import "strings"

const (
	TestDrivePending   = "Pending"
	TestDriveScheduled = "Scheduled"
	TestDriveCompleted = "Completed"
	TestDriveCancelled = "Cancelled"
	TestDriveNoShow    = "NoShow"
)

type TestDrive struct {
	ID                int64  `json:"id"`
	AgencyID          int64  `json:"agencyId"`
	VehicleInstanceID int64  `json:"vehicleInstanceId"`
	CustomerID        int64  `json:"customerId"`
	AppointmentDate   Date   `json:"appointmentDate"`
	Status            string `json:"status"`
}

func (d TestDrive) HasStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(d.Status), status)
}

// Holds reports whether the drive keeps its vehicle instance booked.
func (d TestDrive) Holds() bool {
	return d.HasStatus(TestDrivePending) || d.HasStatus(TestDriveScheduled)
}

const (
	FeedbackPending    = "pending"
	FeedbackProcessing = "processing"
	FeedbackResolved   = "resolved"
	FeedbackClosed     = "closed"
)

type Feedback struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customerId"`
	AgencyID   int64  `json:"agencyId"`
	Type       string `json:"type"`
	Content    string `json:"content"`
	Reply      string `json:"reply,omitempty"`
	Status     string `json:"status"`
}

func (f Feedback) HasStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(f.Status), status)
}

// Done reports whether the feedback reached resolved or closed.
func (f Feedback) Done() bool {
	return f.HasStatus(FeedbackResolved) || f.HasStatus(FeedbackClosed)
}
