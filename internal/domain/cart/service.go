// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/pricing"
)

// ErrItemNotFound is returned when a removal targets a line that is not in
// the cart. Callers treat it as a reportable condition, not a hard failure.
var ErrItemNotFound = errors.New("cart item not found")

// Service handles cart business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	engine      *pricing.Engine
	logger      *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		engine:      pricing.NewEngine(),
		logger:      logger,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// SyncLine is a client-supplied cart line used by cart sync and guest pricing.
type SyncLine struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// GetCart retrieves the priced cart view for a user or guest session.
func (s *Service) GetCart(ctx context.Context, userID *uint, sessionID string) (*View, error) {
	now := time.Now().UTC()

	if userID != nil {
		cart, err := s.ensureCart(s.db, *userID)
		if err != nil {
			return nil, err
		}
		view, err := s.buildUserView(cart, now)
		if err != nil {
			return nil, err
		}
		return view, nil
	}

	sessionCart, err := s.getSessionCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view, err := s.buildSessionView(sessionCart, now)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// AddToCart adds a book to the cart, accumulating quantity when the line
// already exists.
func (s *Service) AddToCart(ctx context.Context, userID *uint, sessionID string, req *AddToCartRequest) (*View, error) {
	book, err := s.lookupBook(s.db, req.BookID)
	if err != nil {
		return nil, err
	}

	if book.StockQuantity < req.Quantity {
		return nil, fmt.Errorf("insufficient stock for %q. Available: %d", book.Title, book.StockQuantity)
	}

	if userID != nil {
		if err := s.db.Transaction(func(tx *gorm.DB) error {
			cart, err := s.ensureCart(tx, *userID)
			if err != nil {
				return err
			}
			return upsertLine(tx, cart.ID, req.BookID, req.Quantity)
		}); err != nil {
			return nil, err
		}
	} else {
		sessionCart, err := s.getSessionCart(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		sessionCart.AddItem(req.BookID, req.Quantity, time.Now().UTC())
		if err := s.saveSessionCart(ctx, sessionID, sessionCart); err != nil {
			return nil, err
		}
	}

	return s.GetCart(ctx, userID, sessionID)
}

// UpdateCartItem sets the quantity of a cart line; zero removes the line.
func (s *Service) UpdateCartItem(ctx context.Context, userID *uint, sessionID string, bookID uint, req *UpdateCartItemRequest) (*View, error) {
	if req.Quantity == 0 {
		if err := s.RemoveFromCart(ctx, userID, sessionID, bookID); err != nil {
			return nil, err
		}
		return s.GetCart(ctx, userID, sessionID)
	}

	if userID != nil {
		cart, err := s.ensureCart(s.db, *userID)
		if err != nil {
			return nil, err
		}
		result := s.db.Model(&CartItem{}).
			Where("cart_id = ? AND book_id = ?", cart.ID, bookID).
			Update("quantity", req.Quantity)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrItemNotFound
		}
	} else {
		sessionCart, err := s.getSessionCart(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		found := false
		for i := range sessionCart.Items {
			if sessionCart.Items[i].BookID == bookID {
				sessionCart.Items[i].Quantity = req.Quantity
				found = true
				break
			}
		}
		if !found {
			return nil, ErrItemNotFound
		}
		sessionCart.UpdatedAt = time.Now().UTC()
		if err := s.saveSessionCart(ctx, sessionID, sessionCart); err != nil {
			return nil, err
		}
	}

	return s.GetCart(ctx, userID, sessionID)
}

// RemoveFromCart deletes a line. A missing line yields ErrItemNotFound so
// callers can distinguish it from success.
func (s *Service) RemoveFromCart(ctx context.Context, userID *uint, sessionID string, bookID uint) error {
	if userID != nil {
		cart, err := s.ensureCart(s.db, *userID)
		if err != nil {
			return err
		}
		result := s.db.Where("cart_id = ? AND book_id = ?", cart.ID, bookID).Delete(&CartItem{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove cart item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return nil
	}

	sessionCart, err := s.getSessionCart(ctx, sessionID)
	if err != nil {
		return err
	}
	if !sessionCart.RemoveItem(bookID, time.Now().UTC()) {
		return ErrItemNotFound
	}
	return s.saveSessionCart(ctx, sessionID, sessionCart)
}

// ClearCart removes all lines from the user cart or drops the guest cart key.
func (s *Service) ClearCart(ctx context.Context, userID *uint, sessionID string) error {
	if userID != nil {
		cart, err := s.ensureCart(s.db, *userID)
		if err != nil {
			return err
		}
		return s.db.Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error
	}
	return s.redisClient.Del(ctx, sessionCartKey(sessionID)).Err()
}

// ClearCartTx removes all user cart lines within an existing transaction.
// Used by order creation so cart clearing participates in its atomicity.
func (s *Service) ClearCartTx(tx *gorm.DB, userID uint) error {
	cart, err := s.ensureCart(tx, userID)
	if err != nil {
		return err
	}
	return tx.Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error
}

// MergeSessionIntoUser folds the guest session cart into the user cart when a
// user logs in. Matching lines accumulate quantity; lines whose book no
// longer exists are skipped without aborting the merge. The DB side runs in
// one transaction; the session cart is cleared afterwards.
func (s *Service) MergeSessionIntoUser(ctx context.Context, userID uint, sessionID string) error {
	sessionCart, err := s.getSessionCart(ctx, sessionID)
	if err != nil {
		// An unreadable session cart must not block login, but it is an
		// infrastructure failure, not an empty cart.
		s.logger.WithError(err).WithField("session_id", sessionID).
			Warn("failed to load session cart for merge")
		return nil
	}
	if len(sessionCart.Items) == 0 {
		return nil
	}

	lines := make([]SyncLine, len(sessionCart.Items))
	for i, item := range sessionCart.Items {
		lines[i] = SyncLine{BookID: item.BookID, Quantity: item.Quantity}
	}

	if err := s.mergeLines(userID, lines); err != nil {
		return err
	}

	return s.ClearCart(ctx, nil, sessionID)
}

// SyncCart merges a client-posted line list into the user cart, skipping
// unknown books.
func (s *Service) SyncCart(userID uint, lines []SyncLine) error {
	return s.mergeLines(userID, lines)
}

// PriceLines prices a list of (book, quantity) pairs without persisting
// anything. Unknown books are skipped.
func (s *Service) PriceLines(lines []SyncLine, at time.Time) (*View, error) {
	items := make([]LineView, 0, len(lines))
	priced := make([]pricing.Line, 0, len(lines))

	for _, line := range lines {
		book, err := s.lookupBook(s.db, line.BookID)
		if err != nil {
			var notFound *catalog.BookNotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}
		pl := s.engine.LineTotal(book, line.Quantity, at)
		priced = append(priced, pl)
		items = append(items, LineView{
			Line:     pl,
			Title:    book.Title,
			ImageURL: book.MainImage(),
		})
	}

	return &View{
		Items:  items,
		Totals: s.engine.Aggregate(priced),
	}, nil
}

// Private helper methods

func (s *Service) mergeLines(userID uint, lines []SyncLine) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.ensureCart(tx, userID)
		if err != nil {
			return err
		}

		for _, line := range lines {
			if line.Quantity < 1 {
				continue
			}
			if _, err := s.lookupBook(tx, line.BookID); err != nil {
				var notFound *catalog.BookNotFoundError
				if errors.As(err, &notFound) {
					// Book disappeared since the line was added; skip
					// just this line, keep the merge going.
					s.logger.WithFields(logrus.Fields{
						"book_id": line.BookID,
						"cart_id": cart.ID,
					}).Warn("skipping cart line for missing book during merge")
					continue
				}
				return err
			}
			if err := upsertLine(tx, cart.ID, line.BookID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// upsertLine inserts a cart line or atomically accumulates quantity on
// conflict. The increment happens in SQL so concurrent adds to the same line
// cannot lose updates.
func upsertLine(tx *gorm.DB, cartID, bookID uint, quantity int) error {
	item := CartItem{
		CartID:   cartID,
		BookID:   bookID,
		Quantity: quantity,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&item).Error
}

func (s *Service) ensureCart(tx *gorm.DB, userID uint) (*Cart, error) {
	var cart Cart
	err := tx.Where(Cart{UserID: userID}).FirstOrCreate(&cart).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return &cart, nil
}

func (s *Service) lookupBook(tx *gorm.DB, bookID uint) (*catalog.Book, error) {
	var book catalog.Book
	err := tx.Preload("Images").Preload("Discount").
		Where("id = ? AND is_active = ?", bookID, true).
		First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &catalog.BookNotFoundError{BookID: bookID}
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", err)
	}
	return &book, nil
}

func (s *Service) buildUserView(cart *Cart, at time.Time) (*View, error) {
	var items []CartItem
	if err := s.db.Where("cart_id = ?", cart.ID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve cart items: %w", err)
	}

	lines := make([]SyncLine, len(items))
	for i, item := range items {
		lines[i] = SyncLine{BookID: item.BookID, Quantity: item.Quantity}
	}

	view, err := s.PriceLines(lines, at)
	if err != nil {
		return nil, err
	}
	view.UserID = &cart.UserID
	view.CreatedAt = cart.CreatedAt
	view.UpdatedAt = cart.UpdatedAt
	return view, nil
}

func (s *Service) buildSessionView(sessionCart *SessionCart, at time.Time) (*View, error) {
	lines := make([]SyncLine, len(sessionCart.Items))
	for i, item := range sessionCart.Items {
		lines[i] = SyncLine{BookID: item.BookID, Quantity: item.Quantity}
	}

	view, err := s.PriceLines(lines, at)
	if err != nil {
		return nil, err
	}
	view.SessionID = sessionCart.SessionID
	view.CreatedAt = sessionCart.CreatedAt
	view.UpdatedAt = sessionCart.UpdatedAt
	return view, nil
}

func sessionCartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *Service) getSessionCart(ctx context.Context, sessionID string) (*SessionCart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for guest cart")
	}

	data, err := s.redisClient.Get(ctx, sessionCartKey(sessionID)).Result()
	if err == redis.Nil {
		now := time.Now().UTC()
		return &SessionCart{
			SessionID: sessionID,
			Items:     []SessionCartItem{},
			CreatedAt: now,
			UpdatedAt: now,
			ExpiresAt: now.Add(s.config.Cart.SessionTTL),
		}, nil
	} else if err != nil {
		return nil, err
	}

	var sessionCart SessionCart
	if err := json.Unmarshal([]byte(data), &sessionCart); err != nil {
		return nil, err
	}
	return &sessionCart, nil
}

func (s *Service) saveSessionCart(ctx context.Context, sessionID string, sessionCart *SessionCart) error {
	data, err := json.Marshal(sessionCart)
	if err != nil {
		return err
	}
	return s.redisClient.Set(ctx, sessionCartKey(sessionID), data, s.config.Cart.SessionTTL).Err()
}
