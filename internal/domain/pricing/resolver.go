// internal/domain/pricing/resolver.go
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

var hundred = decimal.NewFromInt(100)

// Resolver decides which bulk discount, if any, applies to a book for a given
// quantity at a given time, and computes the resulting discount amount.
type Resolver struct{}

// Resolve returns the book's discount when it is active for the quantity at
// the given time, or nil otherwise. A book holds at most one discount.
func (Resolver) Resolve(book *catalog.Book, quantity int, at time.Time) *catalog.BulkDiscount {
	if book.Discount == nil {
		return nil
	}
	if !book.Discount.ActiveAt(quantity, at) {
		return nil
	}
	return book.Discount
}

// Amount computes the discount amount for a line. It returns 0.00 when no
// discount is active. The percentage is applied to price × quantity and the
// result is rounded half-up to 2 decimal places exactly once, so per-unit
// rounding drift cannot accumulate.
func (r Resolver) Amount(book *catalog.Book, quantity int, at time.Time) decimal.Decimal {
	discount := r.Resolve(book, quantity, at)
	if discount == nil {
		return decimal.Zero.Round(2)
	}
	return DiscountAmount(discount, book.Price, quantity)
}

// DiscountAmount computes round2(percentage/100 × price × quantity) for an
// already-resolved discount.
func DiscountAmount(d *catalog.BulkDiscount, price decimal.Decimal, quantity int) decimal.Decimal {
	qty := decimal.NewFromInt(int64(quantity))
	return d.Percentage.Div(hundred).Mul(price.Mul(qty)).Round(2)
}
