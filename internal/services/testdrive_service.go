package services

import (
	"context"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain/models"
)

type TestDriveRow struct {
	AgencyID       int64  `json:"agencyId"`
	AgencyName     string `json:"agencyName"`
	Total          int    `json:"total"`
	Pending        int    `json:"pending"`
	Scheduled      int    `json:"scheduled"`
	Completed      int    `json:"completed"`
	Cancelled      int    `json:"cancelled"`
	NoShow         int    `json:"noShow"`
	CompletionRate int    `json:"completionRate"`
	NoShowRate     int    `json:"noShowRate"`
}

// InstanceAvailability tells whether a demo car can take a new booking.
type InstanceAvailability struct {
	InstanceID   int64  `json:"instanceId"`
	VehicleID    int64  `json:"vehicleId"`
	VehicleName  string `json:"vehicleName"`
	VIN          string `json:"vin"`
	AgencyName   string `json:"agencyName"`
	ActiveDrives int    `json:"activeDrives"`
	Available    bool   `json:"available"`
}

type TestDriveSummary struct {
	Total          int                    `json:"total"`
	Completed      int                    `json:"completed"`
	NoShow         int                    `json:"noShow"`
	Upcoming       int                    `json:"upcoming"`
	CompletionRate int                    `json:"completionRate"`
	NoShowRate     int                    `json:"noShowRate"`
	Instances      []InstanceAvailability `json:"instances"`
}

// TestDrives ranks agencies by booking volume.
func (s ReportsService) TestDrives(ctx context.Context, q Query) Report[TestDriveRow, TestDriveSummary] {
	snap := s.Loader.Load(ctx, CollTestDrives, CollAgencies, CollVehicleInstances, CollVehicles)
	rows, summary := TestDriveRows(snap)
	return finish(rows, summary, q, snap.Warnings, s.now())
}

func TestDriveRows(snap Snapshot) ([]TestDriveRow, TestDriveSummary) {
	agency := agencyResolver(snap.Agencies)

	groups := aggregate.GroupBy(snap.TestDrives, func(d models.TestDrive) int64 { return d.AgencyID })
	rows := make([]TestDriveRow, 0, len(groups))
	for _, g := range groups {
		_, name := agency(g.Key)
		row := TestDriveRow{AgencyID: g.Key, AgencyName: name}
		tallyDrives(&row, g.Items)
		rows = append(rows, row)
	}
	aggregate.StableSortBy(rows, func(a, b TestDriveRow) bool { return a.Total > b.Total })

	var all TestDriveRow
	tallyDrives(&all, snap.TestDrives)
	summary := TestDriveSummary{
		Total:          all.Total,
		Completed:      all.Completed,
		NoShow:         all.NoShow,
		Upcoming:       all.Pending + all.Scheduled,
		CompletionRate: all.CompletionRate,
		NoShowRate:     all.NoShowRate,
		Instances:      InstanceAvailabilities(snap),
	}
	return rows, summary
}

func tallyDrives(row *TestDriveRow, drives []models.TestDrive) {
	row.Total = len(drives)
	for _, d := range drives {
		switch {
		case d.HasStatus(models.TestDrivePending):
			row.Pending++
		case d.HasStatus(models.TestDriveScheduled):
			row.Scheduled++
		case d.HasStatus(models.TestDriveCompleted):
			row.Completed++
		case d.HasStatus(models.TestDriveCancelled):
			row.Cancelled++
		case d.HasStatus(models.TestDriveNoShow):
			row.NoShow++
		}
	}
	row.CompletionRate = aggregate.Percent(float64(row.Completed), float64(row.Total))
	row.NoShowRate = aggregate.Percent(float64(row.NoShow), float64(row.Total))
}

// InstanceAvailabilities marks an instance unavailable while any of its
// drives is Pending or Scheduled.
func InstanceAvailabilities(snap Snapshot) []InstanceAvailability {
	vehicle := aggregate.Lookup(snap.Vehicles, func(v models.Vehicle) int64 { return v.ID })
	agency := agencyResolver(snap.Agencies)

	active := map[int64]int{}
	for _, d := range snap.TestDrives {
		if d.Holds() {
			active[d.VehicleInstanceID]++
		}
	}

	out := make([]InstanceAvailability, 0, len(snap.VehicleInstances))
	for _, inst := range snap.VehicleInstances {
		item := InstanceAvailability{
			InstanceID:   inst.ID,
			VehicleID:    inst.VehicleID,
			VIN:          inst.VIN,
			ActiveDrives: active[inst.ID],
		}
		item.Available = item.ActiveDrives == 0
		if v, ok := vehicle(inst.VehicleID); ok {
			item.VehicleName = v.DisplayName()
		} else {
			item.VehicleName = aggregate.NotAvailable
		}
		if aggregate.OwnerKey(inst.AgencyID) == aggregate.CentralKey {
			item.AgencyName = aggregate.CentralLabel
		} else {
			_, item.AgencyName = agency(*inst.AgencyID)
		}
		out = append(out, item)
	}
	return out
}
