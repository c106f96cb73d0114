package upstream

import (
	"context"
	"fmt"
	"io"
	"time"

	"dealerhub/internal/domain/models"
)

// Paths of the collections on their owning services.
const (
	PathVehicles         = "/vehicles"
	PathVehicleOptions   = "/vehicle-options"
	PathVehicleInstances = "/vehicle-instances"
	PathInventory        = "/inventory"
	PathAgencies         = "/agencies"
	PathStaff            = "/staff"
	PathAgencyDebts      = "/agency-debts"
	PathOrders           = "/orders"
	PathQuotations       = "/quotations"
	PathTestDrives       = "/test-drives"
	PathFeedbacks        = "/feedbacks"
	PathSalesRollups     = "/sales/rollups"
	PathPredict          = "/predict"
)

// Services bundles one client per remote service.
type Services struct {
	VehicleAPI   *Client
	AgencyAPI    *Client
	OrderAPI     *Client
	AnalyticsAPI *Client
	ForecastAPI  *Client
}

type Config struct {
	VehicleURL   string
	AgencyURL    string
	OrderURL     string
	AnalyticsURL string
	ForecastURL  string
	Tokens       TokenSource
	Timeout      time.Duration
}

func NewServices(cfg Config) *Services {
	return &Services{
		VehicleAPI:   NewClient("vehicle-service", cfg.VehicleURL, cfg.Tokens, cfg.Timeout),
		AgencyAPI:    NewClient("agency-service", cfg.AgencyURL, cfg.Tokens, cfg.Timeout),
		OrderAPI:     NewClient("order-service", cfg.OrderURL, cfg.Tokens, cfg.Timeout),
		AnalyticsAPI: NewClient("analytics-service", cfg.AnalyticsURL, cfg.Tokens, cfg.Timeout),
		ForecastAPI:  NewClient("forecast-service", cfg.ForecastURL, cfg.Tokens, cfg.Timeout),
	}
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	out := []T{}
	if err := c.GetJSON(ctx, path, &out); err != nil {
		return []T{}, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (s *Services) Agencies(ctx context.Context) ([]models.Agency, error) {
	return list[models.Agency](ctx, s.AgencyAPI, PathAgencies)
}

func (s *Services) Staff(ctx context.Context) ([]models.Staff, error) {
	return list[models.Staff](ctx, s.AgencyAPI, PathStaff)
}

func (s *Services) AgencyDebts(ctx context.Context) ([]models.AgencyDebt, error) {
	return list[models.AgencyDebt](ctx, s.AgencyAPI, PathAgencyDebts)
}

func (s *Services) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	return list[models.Vehicle](ctx, s.VehicleAPI, PathVehicles)
}

func (s *Services) VehicleOptions(ctx context.Context) ([]models.VehicleOption, error) {
	return list[models.VehicleOption](ctx, s.VehicleAPI, PathVehicleOptions)
}

func (s *Services) VehicleInstances(ctx context.Context) ([]models.VehicleInstance, error) {
	return list[models.VehicleInstance](ctx, s.VehicleAPI, PathVehicleInstances)
}

func (s *Services) Inventory(ctx context.Context) ([]models.InventoryRecord, error) {
	return list[models.InventoryRecord](ctx, s.VehicleAPI, PathInventory)
}

func (s *Services) Orders(ctx context.Context) ([]models.Order, error) {
	return list[models.Order](ctx, s.OrderAPI, PathOrders)
}

func (s *Services) Quotations(ctx context.Context) ([]models.Quotation, error) {
	return list[models.Quotation](ctx, s.OrderAPI, PathQuotations)
}

func (s *Services) TestDrives(ctx context.Context) ([]models.TestDrive, error) {
	return list[models.TestDrive](ctx, s.OrderAPI, PathTestDrives)
}

func (s *Services) Feedbacks(ctx context.Context) ([]models.Feedback, error) {
	return list[models.Feedback](ctx, s.OrderAPI, PathFeedbacks)
}

func (s *Services) SalesRollups(ctx context.Context) ([]models.SalesRollup, error) {
	return list[models.SalesRollup](ctx, s.AnalyticsAPI, PathSalesRollups)
}

// Predict submits the whole batch in one call and returns the full response.
func (s *Services) Predict(ctx context.Context, batch []models.ForecastRequest) ([]models.ForecastResult, error) {
	out := []models.ForecastResult{}
	body := map[string]any{"requests": batch}
	if err := s.ForecastAPI.PostJSON(ctx, PathPredict, body, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.ForecastResult{}
	}
	return out, nil
}

// ReplyFeedback writes a reply on a feedback record.
func (s *Services) ReplyFeedback(ctx context.Context, id int64, reply, status string) error {
	body := map[string]string{"reply": reply, "status": status}
	return s.OrderAPI.PutJSON(ctx, fmt.Sprintf("%s/%d", PathFeedbacks, id), body, nil)
}

// UploadVehicleImage sends a vehicle picture as multipart form data.
func (s *Services) UploadVehicleImage(ctx context.Context, vehicleID int64, filename string, image io.Reader) error {
	fields := map[string]string{"vehicleId": fmt.Sprintf("%d", vehicleID)}
	return s.VehicleAPI.PostMultipart(ctx, fmt.Sprintf("%s/%d/image", PathVehicles, vehicleID), fields, "image", filename, image, nil)
}
