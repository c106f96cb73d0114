package services

import (
	"context"
	"strings"
	"testing"
)

func TestLoaderFetchesEachCollectionOnce(t *testing.T) {
	src := newFakeSource()
	snap := Loader{Source: src, RequestID: "t"}.Load(context.Background(), CollOrders, CollAgencies, CollOrders)

	if src.callCount(CollOrders) != 1 || src.callCount(CollAgencies) != 1 {
		t.Fatalf("calls = %v", src.calls)
	}
	if src.callCount(CollVehicles) != 0 {
		t.Fatalf("vehicles should not be fetched")
	}
	if len(snap.Orders) != 5 || len(snap.Agencies) != 3 {
		t.Fatalf("snapshot = %d orders, %d agencies", len(snap.Orders), len(snap.Agencies))
	}
	if len(snap.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", snap.Warnings)
	}
}

func TestLoaderPartialFailure(t *testing.T) {
	src := newFakeSource()
	src.fail[CollAgencies] = true

	snap := Loader{Source: src}.Load(context.Background(), CollOrders, CollAgencies)
	if snap.Agencies == nil || len(snap.Agencies) != 0 {
		t.Fatalf("failed collection should be empty, got %v", snap.Agencies)
	}
	if len(snap.Orders) != 5 {
		t.Fatalf("orders should still load, got %d", len(snap.Orders))
	}
	if len(snap.Warnings) != 1 || !strings.HasPrefix(snap.Warnings[0], "agencies: ") {
		t.Fatalf("warnings = %v", snap.Warnings)
	}
	if snap.Failed[CollAgencies] == nil {
		t.Fatalf("failure should be recorded")
	}
}

func TestLoaderAllFailed(t *testing.T) {
	src := newFakeSource()
	for _, k := range []Collection{CollAgencyDebts, CollAgencies} {
		src.fail[k] = true
	}
	snap := Loader{Source: src}.Load(context.Background(), CollAgencyDebts, CollAgencies)
	if len(snap.Warnings) != 2 {
		t.Fatalf("warnings = %v", snap.Warnings)
	}
	if snap.Warnings[0] > snap.Warnings[1] {
		t.Fatalf("warnings should be sorted: %v", snap.Warnings)
	}
}

func TestLoaderWithoutSource(t *testing.T) {
	snap := Loader{}.Load(context.Background(), CollVehicles)
	if len(snap.Vehicles) != 0 || len(snap.Warnings) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}
