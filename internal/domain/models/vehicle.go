package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// VehicleOption is a model family; Vehicle is a concrete variant of it.
type VehicleOption struct {
	ID          int64  `json:"id"`
	ModelName   string `json:"modelName"`
	Description string `json:"description,omitempty"`
}

type Vehicle struct {
	ID              int64           `json:"id"`
	VehicleOptionID int64           `json:"vehicleOptionId,omitempty"`
	ModelName       string          `json:"modelName"`
	VariantName     string          `json:"variantName,omitempty"`
	Color           string          `json:"color,omitempty"`
	BatteryCapacity float64         `json:"batteryCapacity,omitempty"`
	Range           float64         `json:"range,omitempty"`
	Price           decimal.Decimal `json:"price"`
}

// DisplayName joins model and variant, e.g. "VF 8 Plus".
func (v Vehicle) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(v.ModelName) + " " + strings.TrimSpace(v.VariantName))
	if name == "" {
		return fmt.Sprintf("ID: %d", v.ID)
	}
	return name
}

// VehicleInstance is a physical car (demo or stock) identified by VIN.
type VehicleInstance struct {
	ID        int64  `json:"id"`
	VehicleID int64  `json:"vehicleId"`
	AgencyID  *int64 `json:"agencyId"`
	VIN       string `json:"vin,omitempty"`
	Status    string `json:"status,omitempty"`
}

// InventoryRecord counts stock of a vehicle at an agency.
// A nil AgencyID is the central warehouse.
type InventoryRecord struct {
	ID        int64  `json:"id"`
	VehicleID int64  `json:"vehicle_id"`
	AgencyID  *int64 `json:"agency_id"`
	Quantity  int    `json:"quantity"`
}

// SalesRollup is the analytics service's monthly unit sales for a vehicle,
// optionally scoped to one agency. MonthlySales runs oldest to newest.
type SalesRollup struct {
	VehicleID         int64     `json:"vehicleId"`
	AgencyID          *int64    `json:"agencyId"`
	MonthlySales      []float64 `json:"monthlySales"`
	RollingAvg3Months float64   `json:"rollingAvg3Months"`
	RollingAvg6Months float64   `json:"rollingAvg6Months"`
}
