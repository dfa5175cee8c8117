// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Book represents a book in the catalog
type Book struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ISBN            string          `gorm:"uniqueIndex;not null;size:13" json:"isbn"`
	Title           string          `gorm:"not null;size:255" json:"title"`
	Slug            string          `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description     string          `gorm:"type:text" json:"description"`
	PublicationDate time.Time       `json:"publication_date"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StockQuantity   int             `gorm:"default:0" json:"stock_quantity"`
	CategoryID      *uint           `gorm:"index" json:"category_id"`
	PublisherID     *uint           `gorm:"index" json:"publisher_id"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category  *Category     `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Publisher *Publisher    `gorm:"foreignKey:PublisherID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"publisher,omitempty"`
	Authors   []Author      `gorm:"many2many:book_authors;" json:"authors,omitempty"`
	Tags      []Tag         `gorm:"many2many:book_tags;" json:"tags,omitempty"`
	Images    []BookImage   `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
	Reviews   []Review      `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reviews,omitempty"`
	Discount  *BulkDiscount `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"discount,omitempty"`
}

// Author represents a book author
type Author struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Biography   string         `gorm:"type:text" json:"biography"`
	DateOfBirth *time.Time     `json:"date_of_birth,omitempty"`
	PhotoURL    string         `gorm:"size:500" json:"photo_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Books []Book `gorm:"many2many:book_authors;" json:"books,omitempty"`
}

// Category represents a book category
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Books []Book `gorm:"foreignKey:CategoryID" json:"books,omitempty"`
}

// Publisher represents a book publisher
type Publisher struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Website   string         `gorm:"size:255" json:"website"`
	Address   string         `gorm:"type:text" json:"address"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Books []Book `gorm:"foreignKey:PublisherID" json:"books,omitempty"`
}

// Tag represents a book tag
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Books []Book `gorm:"many2many:book_tags;" json:"books,omitempty"`
}

// BookImage represents a book cover or gallery image
type BookImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"not null;index" json:"book_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	IsMain    bool      `gorm:"default:false" json:"is_main"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Review represents a customer rating and review for a book
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BookID    uint           `gorm:"not null;index:idx_reviews_book_user,unique" json:"book_id"`
	UserID    uint           `gorm:"not null;index:idx_reviews_book_user,unique" json:"user_id"`
	Rating    int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title     string         `gorm:"size:255" json:"title"`
	Content   string         `gorm:"type:text" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BulkDiscount represents a time-bounded quantity discount for a single book.
// The unique index on BookID makes "at most one discount per book" structural.
type BulkDiscount struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	BookID     uint            `gorm:"uniqueIndex;not null" json:"book_id"`
	MinQuantity int            `gorm:"not null;default:1" json:"min_quantity"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percentage"`
	StartDate  time.Time       `gorm:"not null" json:"start_date"`
	EndDate    time.Time       `gorm:"not null" json:"end_date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName overrides
func (Book) TableName() string         { return "books" }
func (Author) TableName() string       { return "authors" }
func (Category) TableName() string     { return "categories" }
func (Publisher) TableName() string    { return "publishers" }
func (Tag) TableName() string          { return "tags" }
func (BookImage) TableName() string    { return "book_images" }
func (Review) TableName() string       { return "reviews" }
func (BulkDiscount) TableName() string { return "bulk_discounts" }

// Business methods for Book

func (b *Book) IsInStock() bool {
	return b.StockQuantity > 0
}

// ActiveAt reports whether the discount applies to the given quantity at the
// given time: the time falls inside [StartDate, EndDate] and the quantity
// meets the minimum.
func (d *BulkDiscount) ActiveAt(quantity int, at time.Time) bool {
	if quantity < d.MinQuantity {
		return false
	}
	return !at.Before(d.StartDate) && !at.After(d.EndDate)
}

// MainImage returns the primary image URL, or the first image as fallback.
func (b *Book) MainImage() string {
	for _, img := range b.Images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(b.Images) > 0 {
		return b.Images[0].URL
	}
	return ""
}

// AverageRating computes the mean rating over the loaded reviews.
func (b *Book) AverageRating() float64 {
	if len(b.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range b.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(b.Reviews))
}
