package formatter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFixed3(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in  float64
		exp string
	}{
		{0, "0.000"},
		{0.025, "0.025"},
		{0.025 + 0.05 + 0.1, "0.175"},
		{51.2, "51.200"},
		{0.0004, "0.000"},
		{-0.1, "-0.100"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.exp, Fixed3(tc.in), "%v", tc.in)
	}

	require.Equal(t, "1.235", Fixed3Decimal(decimal.RequireFromString("1.23456")))
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		total, page, size int
		exp               Page
	}{
		{"empty", 0, 1, 50, Page{0, 0, 0}},
		{"single page", 10, 1, 50, Page{0, 10, 1}},
		{"exact pages", 100, 2, 50, Page{50, 100, 2}},
		{"partial last page", 60, 3, 25, Page{50, 60, 3}},
		{"past the end", 60, 4, 25, Page{60, 60, 3}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.exp, Paginate(tc.total, tc.page, tc.size))
		})
	}
}

func TestPaginateSlice(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}
	out, p := PaginateSlice(items, 2, 2)
	require.Equal(t, []int{3, 4}, out)
	require.Equal(t, 3, p.TotalPages)

	out, _ = PaginateSlice(items, 9, 2)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestSortByTimestampDesc(t *testing.T) {
	t.Parallel()

	type item struct {
		name string
		ts   uint64
	}
	items := []item{{"a", 1}, {"b", 3}, {"c", 2}, {"d", 3}}
	SortByTimestampDesc(items, func(i item) uint64 { return i.ts })
	require.Equal(t, []item{{"b", 3}, {"d", 3}, {"c", 2}, {"a", 1}}, items)
}
