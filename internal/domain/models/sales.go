package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusCompleted = "completed"
	OrderStatusDelivered = "delivered"
)

type Order struct {
	ID          int64           `json:"id"`
	AgencyID    int64           `json:"agencyId"`
	StaffID     int64           `json:"staffId,omitempty"`
	CustomerID  int64           `json:"customerId,omitempty"`
	OrderDate   Date            `json:"orderDate"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Details     []OrderDetail   `json:"details"`
}

type OrderDetail struct {
	VehicleID int64           `json:"vehicleId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// IsSale reports whether the order counts as a sale (completed or delivered).
func (o Order) IsSale() bool {
	s := strings.ToLower(strings.TrimSpace(o.Status))
	return s == OrderStatusCompleted || s == OrderStatusDelivered
}

// Units sums detail quantities; an order without details counts as one unit.
func (o Order) Units() int {
	if len(o.Details) == 0 {
		return 1
	}
	n := 0
	for _, d := range o.Details {
		n += d.Quantity
	}
	return n
}

const (
	QuotationPending   = "Pending"
	QuotationAccepted  = "Accepted"
	QuotationConverted = "Converted"
	QuotationRejected  = "Rejected"
)

type Quotation struct {
	ID          int64           `json:"id"`
	AgencyID    int64           `json:"agencyId"`
	CustomerID  int64           `json:"customerId"`
	VehicleID   int64           `json:"vehicleId"`
	StaffID     int64           `json:"staffId,omitempty"`
	QuotedPrice decimal.Decimal `json:"quotedPrice"`
	Status      string          `json:"status"`
	CreatedAt   Date            `json:"createdAt"`
}

// HasStatus compares case-insensitively; the services are not consistent.
func (q Quotation) HasStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(q.Status), status)
}

// AgencyDebt is an outstanding contract balance owed by an agency.
type AgencyDebt struct {
	ID              int64           `json:"id"`
	AgencyID        int64           `json:"agencyId"`
	ContractID      int64           `json:"contractId"`
	DebtAmount      decimal.Decimal `json:"debt_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	DueDate         Date            `json:"due_date"`
}

// SalesTarget is a staff member's target for one calendar month.
// TargetRevenue is zero when the store has no revenue column.
type SalesTarget struct {
	StaffID       int64           `json:"staffId"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TargetUnits   int             `json:"targetUnits"`
	TargetRevenue decimal.Decimal `json:"targetRevenue"`
}
