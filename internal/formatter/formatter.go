package formatter

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// StatisticsPageSize is the number of entries of a statistics page.
	StatisticsPageSize = 50
	// PartnersPageSize is the number of entries of a partners page.
	PartnersPageSize = 25
)

// Fixed3 renders an ether amount with exactly three decimals.
func Fixed3(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(3)
}

// Fixed3Decimal renders a decimal ether amount with exactly three decimals.
func Fixed3Decimal(v decimal.Decimal) string {
	return v.StringFixed(3)
}

// Page is the window of a result set selected by a 1-based page number.
type Page struct {
	Start      int
	End        int
	TotalPages int
}

// Paginate computes the window of page for total items split in pages of size.
// Pages past the end select an empty window.
func Paginate(total, page, size int) Page {
	totalPages := (total + size - 1) / size
	start := (page - 1) * size
	if start > total {
		start = total
	}
	if start < 0 {
		start = 0
	}
	end := start + size
	if end > total {
		end = total
	}
	return Page{Start: start, End: end, TotalPages: totalPages}
}

// PaginateSlice returns the items of page along with the pagination totals.
func PaginateSlice[T any](items []T, page, size int) ([]T, Page) {
	p := Paginate(len(items), page, size)
	out := make([]T, 0, p.End-p.Start)
	out = append(out, items[p.Start:p.End]...)
	return out, p
}

// SortByTimestampDesc sorts items from newest to oldest. Items with equal
// timestamps keep their relative order.
func SortByTimestampDesc[T any](items []T, timestamp func(T) uint64) {
	sort.SliceStable(items, func(i, j int) bool {
		return timestamp(items[i]) > timestamp(items[j])
	})
}
