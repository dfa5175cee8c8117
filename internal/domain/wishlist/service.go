// internal/domain/wishlist/service.go
package wishlist

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

// Service handles wishlist business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ItemResponse represents a wishlist item with book details
type ItemResponse struct {
	ID      uint          `json:"id"`
	BookID  uint          `json:"book_id"`
	Book    *catalog.Book `json:"book,omitempty"`
	AddedAt time.Time     `json:"added_at"`
}

// Add puts a book on the user's wishlist; adding the same book twice is a
// no-op.
func (s *Service) Add(userID, bookID uint) error {
	var book catalog.Book
	if err := s.db.Where("id = ? AND is_active = ?", bookID, true).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &catalog.BookNotFoundError{BookID: bookID}
		}
		return fmt.Errorf("failed to retrieve book: %w", err)
	}

	item := WishlistItem{UserID: userID, BookID: bookID}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoNothing: true,
	}).Create(&item).Error
}

// Remove deletes a book from the user's wishlist.
func (s *Service) Remove(userID, bookID uint) error {
	result := s.db.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&WishlistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("wishlist item not found")
	}
	return nil
}

// List returns the user's wishlist with book details.
func (s *Service) List(userID uint) ([]ItemResponse, error) {
	var items []WishlistItem
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist: %w", err)
	}

	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		var book catalog.Book
		err := s.db.Preload("Images").Preload("Discount").
			Where("id = ?", item.BookID).First(&book).Error
		if err != nil {
			continue
		}
		responses = append(responses, ItemResponse{
			ID:      item.ID,
			BookID:  item.BookID,
			Book:    &book,
			AddedAt: item.CreatedAt,
		})
	}
	return responses, nil
}
