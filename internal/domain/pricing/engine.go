// internal/domain/pricing/engine.go
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

// Line holds the computed pricing for a single cart or order line.
type Line struct {
	BookID   uint            `json:"book_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`    // unit price snapshot
	Discount decimal.Decimal `json:"discount"` // discount on the whole line
	Total    decimal.Decimal `json:"total"`    // round2(price×qty) − discount
}

// Totals holds cart-level aggregates. TotalPrice is the PRE-discount sum of
// line subtotals; TotalDiscountedPrice = TotalPrice − TotalDiscount. Order
// records use a different aggregation (sum of post-discount line totals),
// computed by the order package from its own items.
type Totals struct {
	TotalPrice           decimal.Decimal `json:"total_price"`
	TotalDiscount        decimal.Decimal `json:"total_discount"`
	TotalDiscountedPrice decimal.Decimal `json:"total_discounted_price"`
}

// Engine computes line and aggregate pricing. It is a pure function of its
// inputs; callers persist the results.
type Engine struct {
	resolver Resolver
}

// NewEngine creates a pricing engine.
func NewEngine() *Engine {
	return &Engine{}
}

// LineTotal snapshots the book's unit price, resolves the active discount and
// computes the line total. Total is not clamped at zero: a percentage above
// 100 produces a negative total.
func (e *Engine) LineTotal(book *catalog.Book, quantity int, at time.Time) Line {
	price := book.Price
	discount := e.resolver.Amount(book, quantity, at)
	subtotal := price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

	return Line{
		BookID:   book.ID,
		Quantity: quantity,
		Price:    price,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}
}

// Aggregate sums line subtotals and discounts into cart-level totals.
func (e *Engine) Aggregate(lines []Line) Totals {
	totalPrice := decimal.Zero
	totalDiscount := decimal.Zero

	for _, line := range lines {
		subtotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		totalPrice = totalPrice.Add(subtotal)
		totalDiscount = totalDiscount.Add(line.Discount)
	}

	return Totals{
		TotalPrice:           totalPrice,
		TotalDiscount:        totalDiscount,
		TotalDiscountedPrice: totalPrice.Sub(totalDiscount),
	}
}
