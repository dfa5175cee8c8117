package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

var (
	windowStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	inWindow    = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
)

func newBook(price string) *catalog.Book {
	return &catalog.Book{
		ID:    1,
		Title: "The Go Programming Language",
		Price: decimal.RequireFromString(price),
	}
}

func withDiscount(b *catalog.Book, minQty int, pct string) *catalog.Book {
	b.Discount = &catalog.BulkDiscount{
		BookID:      b.ID,
		MinQuantity: minQty,
		Percentage:  decimal.RequireFromString(pct),
		StartDate:   windowStart,
		EndDate:     windowEnd,
	}
	return b
}

func TestResolve_NoDiscount(t *testing.T) {
	var r Resolver
	book := newBook("9.99")

	for _, qty := range []int{1, 5, 100} {
		assert.Nil(t, r.Resolve(book, qty, inWindow))
		assert.True(t, r.Amount(book, qty, inWindow).IsZero())
	}
}

func TestResolve_QuantityThreshold(t *testing.T) {
	var r Resolver
	book := withDiscount(newBook("10.00"), 5, "10")

	assert.Nil(t, r.Resolve(book, 4, inWindow), "one below min_quantity must not match")
	require.NotNil(t, r.Resolve(book, 5, inWindow))
	require.NotNil(t, r.Resolve(book, 6, inWindow))
}

func TestResolve_TimeWindow(t *testing.T) {
	var r Resolver
	book := withDiscount(newBook("10.00"), 1, "10")

	tests := []struct {
		name   string
		at     time.Time
		active bool
	}{
		{"before start", windowStart.Add(-time.Second), false},
		{"at start", windowStart, true},
		{"inside window", inWindow, true},
		{"at end", windowEnd, true},
		{"after end", windowEnd.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(book, 1, tt.at)
			if tt.active {
				assert.NotNil(t, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestAmount_PercentageOfLineSubtotal(t *testing.T) {
	var r Resolver
	book := withDiscount(newBook("10.00"), 2, "10")

	// 10% of 10.00 × 3
	amount := r.Amount(book, 3, inWindow)
	assert.True(t, amount.Equal(decimal.RequireFromString("3.00")), "got %s", amount)
}

func TestAmount_RoundsOnceOnFinalAmount(t *testing.T) {
	var r Resolver

	// 10% of 0.33 × 3 = 0.099. Rounding once half-up gives 0.10; rounding each
	// unit first would give 0.03 × 3 = 0.09.
	book := withDiscount(newBook("0.33"), 1, "10")
	amount := r.Amount(book, 3, inWindow)
	assert.True(t, amount.Equal(decimal.RequireFromString("0.10")), "got %s", amount)

	// 10% of 9.995 × 1 = 0.9995, half-up at 2 decimals → 1.00.
	book = withDiscount(newBook("9.995"), 1, "10")
	amount = r.Amount(book, 1, inWindow)
	assert.True(t, amount.Equal(decimal.RequireFromString("1.00")), "got %s", amount)
}

func TestAmount_BelowThresholdIsZero(t *testing.T) {
	var r Resolver
	book := withDiscount(newBook("10.00"), 10, "50")

	amount := r.Amount(book, 9, inWindow)
	assert.True(t, amount.IsZero())
}
