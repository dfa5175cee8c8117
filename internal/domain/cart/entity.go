// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/domain/pricing"
)

// Cart represents a per-user shopping cart. Guest carts live in Redis as
// SessionCart and are merged into the user cart on login.
type Cart struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// CartItem represents one (cart, book) line. The composite unique index backs
// the atomic quantity-accumulating upsert.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_book" json:"cart_id"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_book" json:"book_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// SessionCart represents a guest cart stored in Redis
type SessionCart struct {
	SessionID string            `json:"session_id"`
	Items     []SessionCartItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// SessionCartItem represents a cart line for guest users
type SessionCartItem struct {
	BookID   uint      `json:"book_id"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// AddItem accumulates quantity on an existing line or appends a new one.
func (c *SessionCart) AddItem(bookID uint, quantity int, now time.Time) {
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items[i].Quantity += quantity
			c.UpdatedAt = now
			return
		}
	}
	c.Items = append(c.Items, SessionCartItem{
		BookID:   bookID,
		Quantity: quantity,
		AddedAt:  now,
	})
	c.UpdatedAt = now
}

// RemoveItem deletes a line and reports whether it was present.
func (c *SessionCart) RemoveItem(bookID uint, now time.Time) bool {
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = now
			return true
		}
	}
	return false
}

// LineView is a priced cart line with book details for presentation.
type LineView struct {
	pricing.Line
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
}

// View is a priced snapshot of a cart at a point in time.
type View struct {
	SessionID string         `json:"session_id,omitempty"`
	UserID    *uint          `json:"user_id,omitempty"`
	Items     []LineView     `json:"items"`
	Totals    pricing.Totals `json:"totals"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
