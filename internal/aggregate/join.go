// Package aggregate holds the fetch-all, join-in-memory, derive pipeline
// shared by every report: joins, grouping, derived metrics, sort and paging.
package aggregate

import "fmt"

// NotAvailable is shown when a foreign key has no match.
const NotAvailable = "N/A"

// Central bucket for records without an owning agency (central warehouse).
const (
	CentralKey   = "central"
	CentralLabel = "Kho trung tâm"
)

// Find returns the first item matching pred.
func Find[T any](items []T, pred func(T) bool) (T, bool) {
	for _, it := range items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Lookup returns a resolver doing a linear scan of items per call.
// Collections are bounded by one dealer network, so no index is built.
func Lookup[T any, K comparable](items []T, id func(T) K) func(K) (T, bool) {
	return func(key K) (T, bool) {
		return Find(items, func(it T) bool { return id(it) == key })
	}
}

// Joined pairs a record with its resolved foreign record.
type Joined[A, B any] struct {
	Left  A
	Right B
	Found bool
}

// Join resolves fk of every element of left against right by id.
func Join[A, B any, K comparable](left []A, fk func(A) K, right []B, id func(B) K) []Joined[A, B] {
	resolve := Lookup(right, id)
	out := make([]Joined[A, B], 0, len(left))
	for _, a := range left {
		b, ok := resolve(fk(a))
		out = append(out, Joined[A, B]{Left: a, Right: b, Found: ok})
	}
	return out
}

// NameOr gives the resolved name, or NotAvailable when the join missed.
func NameOr(found bool, name string) string {
	if !found || name == "" {
		return NotAvailable
	}
	return name
}

// OwnerKey buckets a nullable agency id; nil means the central warehouse.
func OwnerKey(agencyID *int64) string {
	if agencyID == nil || *agencyID == 0 {
		return CentralKey
	}
	return fmt.Sprintf("%d", *agencyID)
}

// IDLabel is the fallback display for an id that could not be resolved.
func IDLabel(id int64) string {
	return fmt.Sprintf("ID: %d", id)
}
