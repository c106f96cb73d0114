package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dealerhub/internal/domain/models"
	"dealerhub/internal/utils"
)

// Collection names one remote collection a report depends on.
type Collection string

const (
	CollAgencies         Collection = "agencies"
	CollStaff            Collection = "staff"
	CollAgencyDebts      Collection = "agency_debts"
	CollVehicles         Collection = "vehicles"
	CollVehicleOptions   Collection = "vehicle_options"
	CollVehicleInstances Collection = "vehicle_instances"
	CollInventory        Collection = "inventory"
	CollOrders           Collection = "orders"
	CollQuotations       Collection = "quotations"
	CollTestDrives       Collection = "test_drives"
	CollFeedbacks        Collection = "feedbacks"
	CollSalesRollups     Collection = "sales_rollups"
)

// Source reads full collections from the remote services.
type Source interface {
	Agencies(ctx context.Context) ([]models.Agency, error)
	Staff(ctx context.Context) ([]models.Staff, error)
	AgencyDebts(ctx context.Context) ([]models.AgencyDebt, error)
	Vehicles(ctx context.Context) ([]models.Vehicle, error)
	VehicleOptions(ctx context.Context) ([]models.VehicleOption, error)
	VehicleInstances(ctx context.Context) ([]models.VehicleInstance, error)
	Inventory(ctx context.Context) ([]models.InventoryRecord, error)
	Orders(ctx context.Context) ([]models.Order, error)
	Quotations(ctx context.Context) ([]models.Quotation, error)
	TestDrives(ctx context.Context) ([]models.TestDrive, error)
	Feedbacks(ctx context.Context) ([]models.Feedback, error)
	SalesRollups(ctx context.Context) ([]models.SalesRollup, error)
}

// Snapshot is one request's in-memory copy of the collections it loaded.
// Collections that failed to load are empty, never nil.
type Snapshot struct {
	Agencies         []models.Agency
	Staff            []models.Staff
	AgencyDebts      []models.AgencyDebt
	Vehicles         []models.Vehicle
	VehicleOptions   []models.VehicleOption
	VehicleInstances []models.VehicleInstance
	Inventory        []models.InventoryRecord
	Orders           []models.Order
	Quotations       []models.Quotation
	TestDrives       []models.TestDrive
	Feedbacks        []models.Feedback
	SalesRollups     []models.SalesRollup

	Warnings []string
	Failed   map[Collection]error
}

func newSnapshot() Snapshot {
	return Snapshot{
		Agencies:         []models.Agency{},
		Staff:            []models.Staff{},
		AgencyDebts:      []models.AgencyDebt{},
		Vehicles:         []models.Vehicle{},
		VehicleOptions:   []models.VehicleOption{},
		VehicleInstances: []models.VehicleInstance{},
		Inventory:        []models.InventoryRecord{},
		Orders:           []models.Order{},
		Quotations:       []models.Quotation{},
		TestDrives:       []models.TestDrive{},
		Feedbacks:        []models.Feedback{},
		SalesRollups:     []models.SalesRollup{},
		Warnings:         []string{},
		Failed:           map[Collection]error{},
	}
}

// Loader fetches collections concurrently and joins once all have settled.
type Loader struct {
	Source    Source
	RequestID string
}

// Load never fails: each failed fetch becomes a warning and an empty collection.
func (l Loader) Load(ctx context.Context, kinds ...Collection) Snapshot {
	snap := newSnapshot()
	if l.Source == nil {
		for _, k := range kinds {
			snap.Failed[k] = fmt.Errorf("no data source")
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("%s: no data source", k))
		}
		return snap
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, kind := range uniqueKinds(kinds) {
		wg.Add(1)
		go func(kind Collection) {
			defer wg.Done()
			if err := l.fetch(ctx, kind, &snap, &mu); err != nil {
				utils.LogFailure(l.RequestID, "loader", "fetch_"+string(kind), err)
				mu.Lock()
				snap.Failed[kind] = err
				snap.Warnings = append(snap.Warnings, fmt.Sprintf("%s: %v", kind, err))
				mu.Unlock()
			}
		}(kind)
	}
	wg.Wait()

	sort.Strings(snap.Warnings)
	return snap
}

func (l Loader) fetch(ctx context.Context, kind Collection, snap *Snapshot, mu *sync.Mutex) error {
	src := l.Source
	switch kind {
	case CollAgencies:
		return store(ctx, mu, &snap.Agencies, src.Agencies)
	case CollStaff:
		return store(ctx, mu, &snap.Staff, src.Staff)
	case CollAgencyDebts:
		return store(ctx, mu, &snap.AgencyDebts, src.AgencyDebts)
	case CollVehicles:
		return store(ctx, mu, &snap.Vehicles, src.Vehicles)
	case CollVehicleOptions:
		return store(ctx, mu, &snap.VehicleOptions, src.VehicleOptions)
	case CollVehicleInstances:
		return store(ctx, mu, &snap.VehicleInstances, src.VehicleInstances)
	case CollInventory:
		return store(ctx, mu, &snap.Inventory, src.Inventory)
	case CollOrders:
		return store(ctx, mu, &snap.Orders, src.Orders)
	case CollQuotations:
		return store(ctx, mu, &snap.Quotations, src.Quotations)
	case CollTestDrives:
		return store(ctx, mu, &snap.TestDrives, src.TestDrives)
	case CollFeedbacks:
		return store(ctx, mu, &snap.Feedbacks, src.Feedbacks)
	case CollSalesRollups:
		return store(ctx, mu, &snap.SalesRollups, src.SalesRollups)
	default:
		return fmt.Errorf("unknown collection %q", kind)
	}
}

func store[T any](ctx context.Context, mu *sync.Mutex, dst *[]T, fetch func(context.Context) ([]T, error)) error {
	v, err := fetch(ctx)
	if err != nil {
		return err
	}
	if v == nil {
		v = []T{}
	}
	mu.Lock()
	*dst = v
	mu.Unlock()
	return nil
}

func uniqueKinds(kinds []Collection) []Collection {
	seen := map[Collection]bool{}
	out := make([]Collection, 0, len(kinds))
	for _, k := range kinds {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
