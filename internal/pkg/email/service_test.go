// internal/pkg/email/service_test.go
package email

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/order"
)

var _ order.NotificationGateway = (*Service)(nil)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := logrus.New()
	cfg := &config.Config{}
	cfg.App.Name = "Bookstore"
	cfg.App.BaseURL = "https://bookstore.example.com"
	return NewService(cfg, nil, logger)
}

func TestRenderOrderConfirmation(t *testing.T) {
	s := newTestService(t)

	data := OrderConfirmationData{
		TemplateData: baseTemplateData("Bookstore", "https://bookstore.example.com", "Jane", "jane@example.com"),
		OrderReference: "ORD-20260831-ABCD1234",
		OrderDate:      "August 31, 2026",
		TotalPrice:     "38.00",
		TotalDiscount:  "2.00",
		OrderURL:       "https://bookstore.example.com/orders/ORD-20260831-ABCD1234",
		Items: []OrderItemLine{
			{Title: "The Go Programming Language", Quantity: 2, Price: "10.00", Total: "18.00"},
			{Title: "A Short History", Quantity: 1, Price: "20.00", Total: "20.00"},
		},
	}

	html, err := s.renderTemplate("order_confirmation", data)
	require.NoError(t, err)
	assert.Contains(t, html, "ORD-20260831-ABCD1234")
	assert.Contains(t, html, "The Go Programming Language")
	assert.Contains(t, html, "A Short History")
	assert.Contains(t, html, "Total discount: 2.00")
	assert.Contains(t, html, "<strong>Total: 38.00</strong>")
}

func TestRenderOrderStatusUpdate(t *testing.T) {
	s := newTestService(t)

	data := OrderStatusUpdateData{
		TemplateData:   baseTemplateData("Bookstore", "https://bookstore.example.com", "Jane", "jane@example.com"),
		OrderReference: "ORD-20260831-ABCD1234",
		PreviousStatus: string(order.StatusOrderPlaced),
		Status:         string(order.StatusPacked),
		StatusMessage:  statusMessages[order.StatusPacked],
		OrderURL:       "https://bookstore.example.com/orders/ORD-20260831-ABCD1234",
		RecommendedBooks: []RecommendedBook{
			{Title: "Another Book", Slug: "another-book", Price: "9.99"},
		},
	}

	html, err := s.renderTemplate("order_status_update", data)
	require.NoError(t, err)
	assert.Contains(t, html, "Packed")
	assert.Contains(t, html, "You might also like")
	assert.Contains(t, html, "https://bookstore.example.com/books/another-book")
}

func TestRenderOrderStatusUpdate_NoRecommendations(t *testing.T) {
	s := newTestService(t)

	data := OrderStatusUpdateData{
		TemplateData:   baseTemplateData("Bookstore", "https://bookstore.example.com", "Jane", "jane@example.com"),
		OrderReference: "ORD-20260831-ABCD1234",
		Status:         string(order.StatusDelivered),
		StatusMessage:  statusMessages[order.StatusDelivered],
	}

	html, err := s.renderTemplate("order_status_update", data)
	require.NoError(t, err)
	assert.NotContains(t, html, "You might also like")
}

func TestStatusMessagesCoverNonPendingStatuses(t *testing.T) {
	for _, status := range []order.Status{
		order.StatusOrderPlaced,
		order.StatusPacked,
		order.StatusInTransit,
		order.StatusDelivered,
		order.StatusCompleted,
		order.StatusCancelled,
	} {
		assert.NotEmpty(t, statusMessages[status], "missing message for %s", status)
	}
}
