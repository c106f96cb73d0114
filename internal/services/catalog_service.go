package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain"
	"dealerhub/internal/domain/models"
	"dealerhub/internal/utils"
)

// ImageUploader stores a picture for a vehicle in the vehicle service.
type ImageUploader interface {
	UploadVehicleImage(ctx context.Context, vehicleID int64, filename string, image io.Reader) error
}

type CatalogRow struct {
	VehicleID       int64           `json:"vehicleId"`
	Name            string          `json:"name"`
	OptionName      string          `json:"optionName"`
	Color           string          `json:"color"`
	BatteryCapacity float64         `json:"batteryCapacity"`
	Range           float64         `json:"range"`
	Price           decimal.Decimal `json:"price"`
	PriceLabel      string          `json:"priceLabel"`
	Stock           int             `json:"stock"`
	Instances       int             `json:"instances"`
}

type CatalogSummary struct {
	Vehicles   int `json:"vehicles"`
	Options    int `json:"options"`
	TotalStock int `json:"totalStock"`
}

type CatalogService struct {
	Loader   Loader
	Uploader ImageUploader
	Now      func() time.Time
}

// Catalog lists vehicles with their model family and network stock,
// sorted by name.
func (s CatalogService) Catalog(ctx context.Context, q Query) Report[CatalogRow, CatalogSummary] {
	snap := s.Loader.Load(ctx, CollVehicles, CollVehicleOptions, CollInventory, CollVehicleInstances)
	rows := CatalogRows(snap)
	summary := CatalogSummary{
		Vehicles: len(rows),
		Options:  aggregate.Distinct(snap.Vehicles, func(v models.Vehicle) int64 { return v.VehicleOptionID }),
	}
	for _, r := range rows {
		summary.TotalStock += r.Stock
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return finish(rows, summary, q, snap.Warnings, now)
}

func CatalogRows(snap Snapshot) []CatalogRow {
	option := aggregate.Lookup(snap.VehicleOptions, func(o models.VehicleOption) int64 { return o.ID })

	stock := map[int64]int{}
	for _, r := range snap.Inventory {
		stock[r.VehicleID] += r.Quantity
	}
	instances := map[int64]int{}
	for _, inst := range snap.VehicleInstances {
		instances[inst.VehicleID]++
	}

	rows := make([]CatalogRow, 0, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		o, ok := option(v.VehicleOptionID)
		rows = append(rows, CatalogRow{
			VehicleID:       v.ID,
			Name:            v.DisplayName(),
			OptionName:      aggregate.NameOr(ok, o.ModelName),
			Color:           v.Color,
			BatteryCapacity: v.BatteryCapacity,
			Range:           v.Range,
			Price:           v.Price,
			PriceLabel:      utils.FormatVND(v.Price),
			Stock:           stock[v.ID],
			Instances:       instances[v.ID],
		})
	}
	aggregate.StableSortBy(rows, func(a, b CatalogRow) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return rows
}

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// UploadImage checks the file name and forwards the upload as multipart.
func (s CatalogService) UploadImage(ctx context.Context, vehicleID int64, filename string, image io.Reader) error {
	if vehicleID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	if image == nil || strings.TrimSpace(filename) == "" {
		return domain.ValidationError{Field: "image", Msg: "required"}
	}
	if !imageExtensions[strings.ToLower(filepath.Ext(filename))] {
		return domain.ValidationError{Field: "image", Msg: "must be jpg, png or webp"}
	}
	if s.Uploader == nil {
		return domain.InternalError{Msg: "image uploader not configured"}
	}
	if err := s.Uploader.UploadVehicleImage(ctx, vehicleID, filepath.Base(filename), image); err != nil {
		utils.LogFailure(s.Loader.RequestID, "catalog", "upload_image", err)
		return writeFailure("vehicle service", "vehicle", err)
	}
	utils.LogEvent(s.Loader.RequestID, "catalog", "upload_image", "vehicle image uploaded")
	return nil
}
