package aggregate

import (
	"sort"

	"dealerhub/internal/domain"

	"github.com/shopspring/decimal"
)

// Group is one distinct key with its records in source order.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupBy buckets items by key; groups come out in first-seen key order.
func GroupBy[T any, K comparable](items []T, key func(T) K) []Group[K, T] {
	index := map[K]int{}
	out := []Group[K, T]{}
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Group[K, T]{Key: k})
		}
		out[i].Items = append(out[i].Items, it)
	}
	return out
}

// SummaryRow is the count and sum for one key.
type SummaryRow[K comparable] struct {
	Key   K               `json:"key"`
	Count int             `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

// Summarize produces one row per distinct key with count and sum of value.
func Summarize[T any, K comparable](items []T, key func(T) K, value func(T) decimal.Decimal) []SummaryRow[K] {
	groups := GroupBy(items, key)
	out := make([]SummaryRow[K], 0, len(groups))
	for _, g := range groups {
		out = append(out, SummaryRow[K]{
			Key:   g.Key,
			Count: len(g.Items),
			Sum:   SumBy(g.Items, value),
		})
	}
	return out
}

func SumBy[T any](items []T, value func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(value(it))
	}
	return total
}

func SumFloat[T any](items []T, value func(T) float64) float64 {
	total := 0.0
	for _, it := range items {
		total += value(it)
	}
	return total
}

func CountBy[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}

// Filter keeps matching items; the result is never nil.
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// Distinct counts distinct keys.
func Distinct[T any, K comparable](items []T, key func(T) K) int {
	seen := map[K]struct{}{}
	for _, it := range items {
		seen[key(it)] = struct{}{}
	}
	return len(seen)
}

// StableSortBy sorts in place; ties keep source order.
func StableSortBy[T any](rows []T, less func(a, b T) bool) {
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 200
)

// Paginate slices already-sorted rows. page starts at 1; size 0 means default.
func Paginate[T any](rows []T, page, size int) ([]T, domain.Pagination) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	total := len(rows)
	pages := (total + size - 1) / size
	p := domain.Pagination{Page: page, PageSize: size, Total: total, TotalPages: pages}

	start := (page - 1) * size
	if start >= total {
		return []T{}, p
	}
	end := start + size
	if end > total {
		end = total
	}
	return rows[start:end], p
}

// Metric names one numeric selector for Rollup.
type Metric[T any] struct {
	Name  string
	Value func(T) decimal.Decimal
}

// RollupRow carries the count plus one sum per metric for a key.
type RollupRow[K comparable] struct {
	Key   K                          `json:"key"`
	Count int                        `json:"count"`
	Sums  map[string]decimal.Decimal `json:"sums"`
}

// Rollup is the parametrized form of Summarize: key selector plus any
// number of metric selectors.
func Rollup[T any, K comparable](items []T, key func(T) K, metrics ...Metric[T]) []RollupRow[K] {
	groups := GroupBy(items, key)
	out := make([]RollupRow[K], 0, len(groups))
	for _, g := range groups {
		row := RollupRow[K]{Key: g.Key, Count: len(g.Items), Sums: make(map[string]decimal.Decimal, len(metrics))}
		for _, m := range metrics {
			row.Sums[m.Name] = SumBy(g.Items, m.Value)
		}
		out = append(out, row)
	}
	return out
}
