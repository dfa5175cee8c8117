package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineTotal_NoDiscount(t *testing.T) {
	engine := NewEngine()
	book := newBook("5.00")

	line := engine.LineTotal(book, 3, inWindow)
	assert.True(t, line.Price.Equal(dec("5.00")))
	assert.True(t, line.Discount.IsZero())
	assert.True(t, line.Total.Equal(dec("15.00")), "got %s", line.Total)
}

func TestLineTotal_WithDiscount(t *testing.T) {
	engine := NewEngine()
	book := withDiscount(newBook("10.00"), 2, "10")

	line := engine.LineTotal(book, 2, inWindow)
	assert.True(t, line.Discount.Equal(dec("2.00")), "got %s", line.Discount)
	assert.True(t, line.Total.Equal(dec("18.00")), "got %s", line.Total)
}

func TestLineTotal_NoLowerBound(t *testing.T) {
	// Percentages above 100 are not rejected by the data model; the line total
	// goes negative rather than being clamped.
	engine := NewEngine()
	book := withDiscount(newBook("10.00"), 1, "150")

	line := engine.LineTotal(book, 1, inWindow)
	assert.True(t, line.Total.Equal(dec("-5.00")), "got %s", line.Total)
}

func TestAggregate_CartSemantics(t *testing.T) {
	engine := NewEngine()
	book1 := withDiscount(newBook("10.00"), 2, "10")
	book2 := newBook("5.00")
	book2.ID = 2

	lines := []Line{
		engine.LineTotal(book1, 2, inWindow),
		engine.LineTotal(book2, 1, inWindow),
	}
	totals := engine.Aggregate(lines)

	// Cart total_price is pre-discount.
	assert.True(t, totals.TotalPrice.Equal(dec("25.00")), "got %s", totals.TotalPrice)
	assert.True(t, totals.TotalDiscount.Equal(dec("2.00")), "got %s", totals.TotalDiscount)
	assert.True(t, totals.TotalDiscountedPrice.Equal(dec("23.00")), "got %s", totals.TotalDiscountedPrice)
}

func TestAggregate_Empty(t *testing.T) {
	engine := NewEngine()
	totals := engine.Aggregate(nil)

	assert.True(t, totals.TotalPrice.IsZero())
	assert.True(t, totals.TotalDiscount.IsZero())
	assert.True(t, totals.TotalDiscountedPrice.IsZero())
}
