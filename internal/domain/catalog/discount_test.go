package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDiscountDates(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ValidateDiscountDates(start, start.AddDate(0, 1, 0)))
	require.NoError(t, ValidateDiscountDates(start, start), "single-instant window is allowed")

	err := ValidateDiscountDates(start, start.Add(-time.Second))
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestBulkDiscount_ActiveAt(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	d := &BulkDiscount{
		MinQuantity: 3,
		Percentage:  decimal.RequireFromString("15"),
		StartDate:   start,
		EndDate:     end,
	}

	mid := start.AddDate(0, 0, 7)

	assert.True(t, d.ActiveAt(3, mid))
	assert.True(t, d.ActiveAt(10, start))
	assert.True(t, d.ActiveAt(3, end))

	assert.False(t, d.ActiveAt(2, mid), "quantity below minimum")
	assert.False(t, d.ActiveAt(3, start.Add(-time.Second)), "before window")
	assert.False(t, d.ActiveAt(3, end.Add(time.Second)), "after window")
}

func TestBook_AverageRating(t *testing.T) {
	book := &Book{Reviews: []Review{{Rating: 5}, {Rating: 4}, {Rating: 2}}}
	assert.InDelta(t, 3.6667, book.AverageRating(), 0.001)

	assert.Zero(t, (&Book{}).AverageRating())
}
