// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/bookstore-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// BookListRequest represents book list query parameters
type BookListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
}

// BookListResponse represents a paginated book listing
type BookListResponse struct {
	Books      []Book     `json:"books"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// CreateDiscountRequest represents bulk discount creation data
type CreateDiscountRequest struct {
	BookID      uint            `json:"book_id" binding:"required"`
	MinQuantity int             `json:"min_quantity" binding:"required,min=1"`
	Percentage  decimal.Decimal `json:"percentage" binding:"required"`
	StartDate   time.Time       `json:"start_date" binding:"required"`
	EndDate     time.Time       `json:"end_date" binding:"required"`
}

// GetBook retrieves a single book by ID with its relations preloaded.
func (s *Service) GetBook(id uint) (*Book, error) {
	var book Book
	result := s.db.
		Preload("Category").
		Preload("Publisher").
		Preload("Authors").
		Preload("Tags").
		Preload("Images").
		Preload("Reviews").
		Preload("Discount").
		Where("id = ? AND is_active = ?", id, true).
		First(&book)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &BookNotFoundError{BookID: id}
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", result.Error)
	}

	return &book, nil
}

// GetBookBySlug retrieves a single book by slug
func (s *Service) GetBookBySlug(slug string) (*Book, error) {
	var book Book
	result := s.db.
		Preload("Category").
		Preload("Publisher").
		Preload("Authors").
		Preload("Tags").
		Preload("Images").
		Preload("Discount").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&book)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book not found")
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", result.Error)
	}

	return &book, nil
}

// ListBooks retrieves books with pagination
func (s *Service) ListBooks(req *BookListRequest) (*BookListResponse, error) {
	var books []Book
	var total int64

	query := s.db.Model(&Book{}).
		Preload("Category").
		Preload("Authors").
		Preload("Images").
		Preload("Discount").
		Where("is_active = ?", true)

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve books: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &BookListResponse{
		Books: books,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// ListCategories retrieves all active categories
func (s *Service) ListCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// ListAuthors retrieves all authors
func (s *Service) ListAuthors() ([]Author, error) {
	var authors []Author
	if err := s.db.Order("name asc").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve authors: %w", err)
	}
	return authors, nil
}

// ListPublishers retrieves all publishers
func (s *Service) ListPublishers() ([]Publisher, error) {
	var publishers []Publisher
	if err := s.db.Order("name asc").Find(&publishers).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve publishers: %w", err)
	}
	return publishers, nil
}

// ValidateDiscountDates checks the temporal invariant for a discount window.
func ValidateDiscountDates(start, end time.Time) error {
	if start.After(end) {
		return ErrInvalidDateRange
	}
	return nil
}

// CreateDiscount creates a bulk discount for a book. A book may hold at most
// one discount at a time; a second create attempt is rejected.
func (s *Service) CreateDiscount(req *CreateDiscountRequest) (*BulkDiscount, error) {
	if err := ValidateDiscountDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if req.Percentage.IsNegative() {
		return nil, fmt.Errorf("discount percentage must not be negative")
	}

	var discount *BulkDiscount
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var book Book
		if err := tx.Where("id = ?", req.BookID).First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &BookNotFoundError{BookID: req.BookID}
			}
			return fmt.Errorf("failed to retrieve book: %w", err)
		}

		var count int64
		if err := tx.Model(&BulkDiscount{}).Where("book_id = ?", req.BookID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing discount: %w", err)
		}
		if count > 0 {
			return ErrDuplicateDiscount
		}

		discount = &BulkDiscount{
			BookID:      req.BookID,
			MinQuantity: req.MinQuantity,
			Percentage:  req.Percentage,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		}
		if err := tx.Create(discount).Error; err != nil {
			return fmt.Errorf("failed to create discount: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return discount, nil
}

// DeleteDiscount removes the discount attached to a book, if any.
func (s *Service) DeleteDiscount(bookID uint) error {
	result := s.db.Where("book_id = ?", bookID).Delete(&BulkDiscount{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete discount: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no discount found for book %d", bookID)
	}
	return nil
}

// GetDiscountForBook returns the book's discount or nil when none exists.
func (s *Service) GetDiscountForBook(bookID uint) (*BulkDiscount, error) {
	var discount BulkDiscount
	result := s.db.Where("book_id = ?", bookID).First(&discount)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve discount: %w", result.Error)
	}
	return &discount, nil
}

// CreateReview stores a rating and review for a book.
func (s *Service) CreateReview(userID, bookID uint, rating int, title, content string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	var book Book
	if err := s.db.Where("id = ?", bookID).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &BookNotFoundError{BookID: bookID}
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", err)
	}

	review := Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		Title:   title,
		Content: content,
	}
	if err := s.db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at":       true,
		"title":            true,
		"price":            true,
		"publication_date": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
