// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status represents the order status
type Status string

const (
	StatusPending     Status = "Pending"
	StatusOrderPlaced Status = "Order Placed"
	StatusPacked      Status = "Packed"
	StatusInTransit   Status = "In Transit"
	StatusDelivered   Status = "Delivered"
	StatusCompleted   Status = "Completed"
	StatusCancelled   Status = "Cancelled"
)

// Order represents a placed order. TotalPrice and TotalDiscount are derived
// from the order items and recomputed on every item write, never patched
// incrementally.
type Order struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"uniqueIndex;not null;size:50" json:"reference"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	Status    Status `gorm:"not null;default:'Pending';size:20" json:"status"`

	PaymentMade bool       `gorm:"default:false" json:"payment_made"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`

	Packed        bool       `gorm:"default:false" json:"packed"`
	PackedDate    *time.Time `json:"packed_date,omitempty"`
	InTransit     bool       `gorm:"default:false" json:"in_transit"`
	InTransitDate *time.Time `json:"in_transit_date,omitempty"`
	Delivered     bool       `gorm:"default:false" json:"delivered"`
	DeliveredDate *time.Time `json:"delivered_date,omitempty"`

	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"total_price"`
	TotalDiscount decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"total_discount"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items           []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	ShippingAddress *ShippingAddress `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"shipping_address,omitempty"`
	Note            *Note            `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"note,omitempty"`
}

// OrderItem is an immutable snapshot of a cart line at order time. Price is
// the book's unit price when the item was saved; Discount and Total were
// computed from the discount active at that moment.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	BookID    uint            `gorm:"not null;index" json:"book_id"`
	Title     string          `gorm:"not null;size:255" json:"title"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"discount"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2)" json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ShippingAddress is the order's delivery address (1:1)
type ShippingAddress struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	FirstName  string    `gorm:"size:100" json:"first_name"`
	LastName   string    `gorm:"size:100" json:"last_name"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Line1      string    `gorm:"not null;size:255" json:"line1"`
	Line2      string    `gorm:"size:255" json:"line2"`
	City       string    `gorm:"not null;size:100" json:"city"`
	State      string    `gorm:"size:100" json:"state"`
	PostalCode string    `gorm:"size:20" json:"postal_code"`
	Country    string    `gorm:"size:2" json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Note is an optional customer note attached to an order (1:1)
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Order) TableName() string           { return "orders" }
func (OrderItem) TableName() string       { return "order_items" }
func (ShippingAddress) TableName() string { return "shipping_addresses" }
func (Note) TableName() string            { return "order_notes" }

// SumItems aggregates order items with order-level semantics: total price is
// the sum of post-discount line totals, total discount the sum of line
// discounts.
func SumItems(items []OrderItem) (totalPrice, totalDiscount decimal.Decimal) {
	totalPrice = decimal.Zero
	totalDiscount = decimal.Zero
	for _, item := range items {
		totalPrice = totalPrice.Add(item.Total)
		totalDiscount = totalDiscount.Add(item.Discount)
	}
	return totalPrice, totalDiscount
}

// IsTerminal reports whether no further status transitions are modeled for
// the order.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCompleted
}
