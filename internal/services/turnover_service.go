package services

import (
	"context"
	"strings"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain/models"
)

type SpeedClass string

const (
	SpeedFast   SpeedClass = "fast"
	SpeedNormal SpeedClass = "normal"
	SpeedSlow   SpeedClass = "slow"
)

// Annual turnover thresholds for the speed classes.
const (
	FastTurnover   = 12.0
	NormalTurnover = 6.0
)

func SpeedOf(turnover float64) SpeedClass {
	switch {
	case turnover >= FastTurnover:
		return SpeedFast
	case turnover >= NormalTurnover:
		return SpeedNormal
	default:
		return SpeedSlow
	}
}

// TurnoverRow is one (vehicle, owner) stock position.
type TurnoverRow struct {
	VehicleID         int64                    `json:"vehicleId"`
	VehicleName       string                   `json:"vehicleName"`
	OwnerKey          string                   `json:"ownerKey"`
	AgencyID          *int64                   `json:"agencyId"`
	AgencyName        string                   `json:"agencyName"`
	Stock             int                      `json:"stock"`
	RollingAvg3Months float64                  `json:"rollingAvg3Months"`
	RollingAvg6Months float64                  `json:"rollingAvg6Months"`
	AvgDaysToSell     int                      `json:"avgDaysToSell"`
	TurnoverRate      float64                  `json:"turnoverRate"`
	Trend             aggregate.TrendDirection `json:"trend"`
	TrendPercent      int                      `json:"trendPercent"`
	Speed             SpeedClass               `json:"speed"`
}

type TurnoverSummary struct {
	Positions    int     `json:"positions"`
	TotalStock   int     `json:"totalStock"`
	AvgTurnover  float64 `json:"avgTurnover"`
	FastCount    int     `json:"fastCount"`
	NormalCount  int     `json:"normalCount"`
	SlowCount    int     `json:"slowCount"`
	CentralStock int     `json:"centralStock"`
}

// TurnoverQuery narrows the report to one owner ("central" or an agency id).
type TurnoverQuery struct {
	Query
	Owner string
}

type ownerVehicle struct {
	vehicleID int64
	owner     string
}

// Turnover reports stock consumption speed, slowest first.
func (s ReportsService) Turnover(ctx context.Context, q TurnoverQuery) Report[TurnoverRow, TurnoverSummary] {
	snap := s.Loader.Load(ctx, CollInventory, CollVehicles, CollAgencies, CollSalesRollups)
	rows := TurnoverRows(snap, s.daysFallback())

	owner := strings.TrimSpace(q.Owner)
	if owner != "" {
		rows = aggregate.Filter(rows, func(r TurnoverRow) bool { return r.OwnerKey == owner })
	}
	return finish(rows, summarizeTurnover(rows), q.Query, snap.Warnings, s.now())
}

// TurnoverRows joins inventory with vehicles, owners and sales rollups and
// sorts by turnover ascending.
func TurnoverRows(snap Snapshot, fallbackDays int) []TurnoverRow {
	vehicle := aggregate.Lookup(snap.Vehicles, func(v models.Vehicle) int64 { return v.ID })
	agency := agencyResolver(snap.Agencies)
	rollup := aggregate.Lookup(snap.SalesRollups, func(r models.SalesRollup) ownerVehicle {
		return ownerVehicle{vehicleID: r.VehicleID, owner: aggregate.OwnerKey(r.AgencyID)}
	})

	groups := aggregate.GroupBy(snap.Inventory, func(r models.InventoryRecord) ownerVehicle {
		return ownerVehicle{vehicleID: r.VehicleID, owner: aggregate.OwnerKey(r.AgencyID)}
	})

	rows := make([]TurnoverRow, 0, len(groups))
	for _, g := range groups {
		row := TurnoverRow{
			VehicleID: g.Key.vehicleID,
			OwnerKey:  g.Key.owner,
			AgencyID:  g.Items[0].AgencyID,
		}
		for _, rec := range g.Items {
			row.Stock += rec.Quantity
		}

		if v, ok := vehicle(row.VehicleID); ok {
			row.VehicleName = v.DisplayName()
		} else {
			row.VehicleName = aggregate.NotAvailable
		}
		if row.OwnerKey == aggregate.CentralKey {
			row.AgencyID = nil
			row.AgencyName = aggregate.CentralLabel
		} else {
			_, row.AgencyName = agency(*row.AgencyID)
		}

		var series []float64
		if r, ok := rollup(g.Key); ok {
			row.RollingAvg3Months = r.RollingAvg3Months
			row.RollingAvg6Months = r.RollingAvg6Months
			series = r.MonthlySales
		}
		row.AvgDaysToSell = aggregate.AvgDaysToSell(row.RollingAvg3Months, fallbackDays)
		row.TurnoverRate = aggregate.TurnoverRate(row.AvgDaysToSell)
		trend := aggregate.TrendOf(series)
		row.Trend = trend.Direction
		row.TrendPercent = trend.Percent
		row.Speed = SpeedOf(row.TurnoverRate)

		rows = append(rows, row)
	}

	aggregate.StableSortBy(rows, func(a, b TurnoverRow) bool { return a.TurnoverRate < b.TurnoverRate })
	return rows
}

func summarizeTurnover(rows []TurnoverRow) TurnoverSummary {
	sum := TurnoverSummary{Positions: len(rows)}
	for _, r := range rows {
		sum.TotalStock += r.Stock
		if r.OwnerKey == aggregate.CentralKey {
			sum.CentralStock += r.Stock
		}
		switch r.Speed {
		case SpeedFast:
			sum.FastCount++
		case SpeedNormal:
			sum.NormalCount++
		default:
			sum.SlowCount++
		}
	}
	if len(rows) > 0 {
		total := aggregate.SumFloat(rows, func(r TurnoverRow) float64 { return r.TurnoverRate })
		sum.AvgTurnover = aggregate.RoundHalfUp(total/float64(len(rows))*10) / 10
	}
	return sum
}
