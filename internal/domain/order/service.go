// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/pricing"
)

// NotificationGateway receives order events. Implementations are best-effort:
// the service logs delivery failures and never lets them roll back the
// operation that triggered them.
type NotificationGateway interface {
	NotifyOrderCreated(ctx context.Context, o *Order) error
	NotifyStatusChange(ctx context.Context, o *Order, from, to Status) error
}

// Service handles order business logic
type Service struct {
	db          *gorm.DB
	config      *config.Config
	cartService *cart.Service
	engine      *pricing.Engine
	notifier    NotificationGateway
	logger      *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, notifier NotificationGateway, logger *logrus.Logger) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		cartService: cartService,
		engine:      pricing.NewEngine(),
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	ShippingAddress ShippingAddress `json:"shipping_address" binding:"required"`
	Note            string          `json:"note,omitempty"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Status    Status `form:"status"`
	UserID    uint   `form:"user_id"`
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
}

// OrderListResponse represents orders with pagination
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
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

// CreateOrder creates a new order from the user's cart in a single
// transaction: the order starts Pending, every cart line is snapshotted into
// an order item priced at the current time, the shipping address and optional
// note are attached, order totals are recomputed from the created items, and
// the cart is cleared. Any failure rolls the whole operation back.
func (s *Service) CreateOrder(ctx context.Context, userID uint, req *CreateOrderRequest) (*Order, error) {
	now := time.Now().UTC()
	var orderID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lines []cart.CartItem
		if err := tx.Joins("JOIN carts ON carts.id = cart_items.cart_id").
			Where("carts.user_id = ?", userID).
			Order("cart_items.created_at asc").
			Find(&lines).Error; err != nil {
			return fmt.Errorf("failed to retrieve cart items: %w", err)
		}
		if len(lines) == 0 {
			return fmt.Errorf("cart is empty")
		}

		o := Order{
			Reference: s.generateReference(now),
			UserID:    userID,
			Status:    StatusPending,
		}
		if err := tx.Create(&o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		orderID = o.ID

		for _, line := range lines {
			var book catalog.Book
			err := tx.Preload("Discount").Where("id = ?", line.BookID).First(&book).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &catalog.BookNotFoundError{BookID: line.BookID}
				}
				return fmt.Errorf("failed to retrieve book: %w", err)
			}

			priced := s.engine.LineTotal(&book, line.Quantity, now)
			item := OrderItem{
				OrderID:  o.ID,
				BookID:   book.ID,
				Title:    book.Title,
				Quantity: line.Quantity,
				Price:    priced.Price,
				Discount: priced.Discount,
				Total:    priced.Total,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		address := req.ShippingAddress
		address.OrderID = o.ID
		if err := tx.Create(&address).Error; err != nil {
			return fmt.Errorf("failed to create shipping address: %w", err)
		}

		if req.Note != "" {
			note := Note{OrderID: o.ID, Text: req.Note}
			if err := tx.Create(&note).Error; err != nil {
				return fmt.Errorf("failed to create order note: %w", err)
			}
		}

		if err := s.recomputeTotals(tx, o.ID); err != nil {
			return err
		}

		return s.cartService.ClearCartTx(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	o, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	s.dispatchConfirmation(ctx, o)

	return o, nil
}

// UpdateStatus transitions an order to the target status. The previously
// persisted state is fetched inside the transaction so a re-save of the same
// status is detected as unchanged and does not notify. On a real change the
// notification gateway is invoked after commit; delivery failures are logged
// and never propagated.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, target Status) (*Order, error) {
	now := time.Now().UTC()
	var result TransitionResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.First(&o, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order not found")
			}
			return fmt.Errorf("failed to retrieve order: %w", err)
		}

		res, err := Transition(&o, target, now)
		if err != nil {
			return err
		}
		result = res

		updates := map[string]interface{}{
			"status":          o.Status,
			"packed":          o.Packed,
			"packed_date":     o.PackedDate,
			"in_transit":      o.InTransit,
			"in_transit_date": o.InTransitDate,
			"delivered":       o.Delivered,
			"delivered_date":  o.DeliveredDate,
		}
		if err := tx.Model(&Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if result.Changed {
		s.dispatchNotification(ctx, o, result)
	}

	return o, nil
}

// ConfirmPayment records an externally confirmed payment on the order. The
// payment date is set only on the first confirmation.
func (s *Service) ConfirmPayment(ctx context.Context, orderID uint) (*Order, error) {
	now := time.Now().UTC()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.First(&o, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order not found")
			}
			return fmt.Errorf("failed to retrieve order: %w", err)
		}

		if !MarkPaid(&o, now) {
			return nil
		}

		return tx.Model(&Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
			"payment_made": o.PaymentMade,
			"payment_date": o.PaymentDate,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(orderID)
}

// GetOrder retrieves a single order by ID with relations preloaded.
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	result := s.db.
		Preload("Items").
		Preload("ShippingAddress").
		Preload("Note").
		First(&o, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// GetOrderByReference retrieves a single order by its reference.
func (s *Service) GetOrderByReference(reference string) (*Order, error) {
	var o Order
	result := s.db.
		Preload("Items").
		Preload("ShippingAddress").
		Preload("Note").
		Where("reference = ?", reference).
		First(&o)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// GetOrders retrieves orders with filtering and pagination
func (s *Service) GetOrders(req *OrderListRequest) (*OrderListResponse, error) {
	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).Preload("Items")

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.UserID > 0 {
		query = query.Where("user_id = ?", req.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderListResponse{
		Orders: orders,
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

// GetUserOrders retrieves orders for a specific user
func (s *Service) GetUserOrders(userID uint, page, limit int) (*OrderListResponse, error) {
	return s.GetOrders(&OrderListRequest{
		Page:   page,
		Limit:  limit,
		UserID: userID,
	})
}

// Private helper methods

// recomputeTotals rereads the order's items inside the transaction and
// overwrites the derived totals. Totals are always recomputed from source
// rows so they can never drift from the items.
func (s *Service) recomputeTotals(tx *gorm.DB, orderID uint) error {
	var items []OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to retrieve order items: %w", err)
	}

	totalPrice, totalDiscount := SumItems(items)
	if err := tx.Model(&Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"total_price":    totalPrice,
		"total_discount": totalDiscount,
	}).Error; err != nil {
		return fmt.Errorf("failed to update order totals: %w", err)
	}
	return nil
}

// dispatchConfirmation sends the order confirmation after the creating
// transaction has committed. A failed email never undoes the order.
func (s *Service) dispatchConfirmation(ctx context.Context, o *Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyOrderCreated(ctx, o); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id":  o.ID,
			"reference": o.Reference,
		}).Warn("order confirmation notification failed")
	}
}

func (s *Service) dispatchNotification(ctx context.Context, o *Order, result TransitionResult) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyStatusChange(ctx, o, result.From, result.To); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id":  o.ID,
			"reference": o.Reference,
			"from":      result.From,
			"to":        result.To,
		}).Warn("order status notification failed")
	}
}

func (s *Service) generateReference(now time.Time) string {
	// Format: ORD-YYYYMMDD-XXXXXXXX
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at":  true,
		"updated_at":  true,
		"total_price": true,
		"status":      true,
		"reference":   true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
