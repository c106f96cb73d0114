package models

import "time"

// ForecastRequest is one (year, month, vehicle, agency) tuple to predict.
type ForecastRequest struct {
	Year      int   `json:"year"`
	Month     int   `json:"month"`
	VehicleID int64 `json:"vehicleId"`
	AgencyID  int64 `json:"agencyId"`
}

// ForecastResult is one row returned by the prediction service.
type ForecastResult struct {
	Year              int      `json:"year"`
	Month             int      `json:"month"`
	VehicleID         int64    `json:"vehicleId"`
	AgencyID          int64    `json:"agencyId"`
	PredictedQuantity float64  `json:"predictedQuantity"`
	Confidence        *float64 `json:"confidence,omitempty"`

	VehicleLabel string `json:"vehicleLabel,omitempty"`
	AgencyLabel  string `json:"agencyLabel,omitempty"`
}

// ForecastRun is one submitted batch together with the service's answer.
type ForecastRun struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"createdAt"`
	Requests  []ForecastRequest `json:"requests"`
	Results   []ForecastResult  `json:"results"`
	Warnings  []string          `json:"warnings"`
}
