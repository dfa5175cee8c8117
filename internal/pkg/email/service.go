// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Service handles all email operations. It implements order.NotificationGateway
// so that order status changes can be delivered to customers.
type Service struct {
	config    *config.Config
	db        *gorm.DB
	logger    *logrus.Logger
	templates map[string]*template.Template
}

// NewService creates a new email service
func NewService(cfg *config.Config, db *gorm.DB, logger *logrus.Logger) *Service {
	service := &Service{
		config:    cfg,
		db:        db,
		logger:    logger,
		templates: make(map[string]*template.Template),
	}

	service.loadTemplates()

	return service
}

// statusMessages maps an order status to the line shown in the update email.
var statusMessages = map[order.Status]string{
	order.StatusOrderPlaced: "We have received your order and will start preparing it shortly.",
	order.StatusPacked:      "Your order has been packed and is ready to ship.",
	order.StatusInTransit:   "Your order is on its way.",
	order.StatusDelivered:   "Your order has been delivered. Enjoy your books!",
	order.StatusCompleted:   "Your order is complete. Thank you for shopping with us.",
	order.StatusCancelled:   "Your order has been cancelled.",
}

// NotifyStatusChange sends an order status update email to the order's owner,
// including a short list of recommended books.
func (s *Service) NotifyStatusChange(ctx context.Context, o *order.Order, from, to order.Status) error {
	var u user.User
	if err := s.db.WithContext(ctx).First(&u, o.UserID).Error; err != nil {
		return fmt.Errorf("failed to load order owner: %w", err)
	}

	message := statusMessages[to]
	if message == "" {
		message = fmt.Sprintf("Your order status is now %s.", to)
	}

	data := OrderStatusUpdateData{
		TemplateData: baseTemplateData(
			s.config.App.Name,
			s.config.App.BaseURL,
			u.GetDisplayName(),
			u.Email,
		),
		OrderReference:   o.Reference,
		PreviousStatus:   string(from),
		Status:           string(to),
		StatusMessage:    message,
		OrderURL:         fmt.Sprintf("%s/orders/%s", s.config.App.BaseURL, o.Reference),
		RecommendedBooks: s.recommendedBooks(ctx, o),
	}

	htmlContent, err := s.renderTemplate("order_status_update", data)
	if err != nil {
		return fmt.Errorf("failed to render order status update template: %w", err)
	}

	email := &Email{
		To:          []string{u.Email},
		Subject:     fmt.Sprintf("Order %s - %s", o.Reference, to),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderStatusUpdate,
		Data: map[string]interface{}{
			"order_reference": o.Reference,
			"status":          string(to),
		},
	}

	return s.SendEmail(ctx, email)
}

// NotifyOrderCreated sends an order confirmation email to the order's owner
// with a line-by-line summary of the order.
func (s *Service) NotifyOrderCreated(ctx context.Context, o *order.Order) error {
	var u user.User
	if err := s.db.WithContext(ctx).First(&u, o.UserID).Error; err != nil {
		return fmt.Errorf("failed to load order owner: %w", err)
	}

	items := make([]OrderItemLine, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemLine{
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(2),
			Total:    item.Total.StringFixed(2),
		})
	}

	data := OrderConfirmationData{
		TemplateData: baseTemplateData(
			s.config.App.Name,
			s.config.App.BaseURL,
			u.GetDisplayName(),
			u.Email,
		),
		OrderReference: o.Reference,
		OrderDate:      o.CreatedAt.Format("January 2, 2006"),
		TotalPrice:     o.TotalPrice.StringFixed(2),
		TotalDiscount:  o.TotalDiscount.StringFixed(2),
		OrderURL:       fmt.Sprintf("%s/orders/%s", s.config.App.BaseURL, o.Reference),
		Items:          items,
	}

	htmlContent, err := s.renderTemplate("order_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	email := &Email{
		To:          []string{u.Email},
		Subject:     fmt.Sprintf("Order Confirmation - %s", o.Reference),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
		Data: map[string]interface{}{
			"order_reference": o.Reference,
			"total_price":     o.TotalPrice.StringFixed(2),
		},
	}

	return s.SendEmail(ctx, email)
}

// SendEmail sends an email using the configured provider
func (s *Service) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.Email.Provider {
	case "smtp":
		return s.sendSMTPEmail(email)
	case "log":
		// Development provider: log the message instead of delivering it.
		s.logger.WithFields(logrus.Fields{
			"to":      email.To,
			"subject": email.Subject,
			"type":    email.Type,
		}).Info("Email (log provider)")
		return nil
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.Email.Provider)
	}
}

// recommendedBooks picks up to three books from the same categories as the
// ordered books, excluding the books already in the order. Recommendation
// failures are logged and the email is sent without the block.
func (s *Service) recommendedBooks(ctx context.Context, o *order.Order) []RecommendedBook {
	if len(o.Items) == 0 {
		return nil
	}

	orderedIDs := make([]uint, 0, len(o.Items))
	for _, item := range o.Items {
		orderedIDs = append(orderedIDs, item.BookID)
	}

	var books []catalog.Book
	err := s.db.WithContext(ctx).
		Preload("Images").
		Where("category_id IN (?)",
			s.db.Model(&catalog.Book{}).Select("category_id").Where("id IN ?", orderedIDs),
		).
		Where("id NOT IN ?", orderedIDs).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(3).
		Find(&books).Error
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load recommended books for email")
		return nil
	}

	recommended := make([]RecommendedBook, 0, len(books))
	for _, b := range books {
		recommended = append(recommended, RecommendedBook{
			Title:    b.Title,
			Slug:     b.Slug,
			ImageURL: b.MainImage(),
			Price:    b.Price.StringFixed(2),
		})
	}
	return recommended
}

// renderTemplate renders an email template with data
func (s *Service) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

// loadTemplates parses the built-in email templates.
func (s *Service) loadTemplates() {
	for name, body := range map[string]string{
		"order_status_update": orderStatusUpdateTemplate,
		"order_confirmation":  orderConfirmationTemplate,
	} {
		tmpl, err := template.New(name).Parse(body)
		if err != nil {
			s.logger.WithError(err).WithField("template", name).Error("Failed to parse email template")
			continue
		}
		s.templates[name] = tmpl
	}
}

const orderStatusUpdateTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">{{.SiteName}}</h1>
        <p>Hello {{.UserName}},</p>
        <p>Your order <strong>{{.OrderReference}}</strong> is now <strong>{{.Status}}</strong>.</p>
        <p>{{.StatusMessage}}</p>
        <p><a href="{{.OrderURL}}">View your order</a></p>
        {{if .RecommendedBooks}}
        <h3 style="color: #333;">You might also like</h3>
        <ul>
            {{range .RecommendedBooks}}
            <li><a href="{{$.SiteURL}}/books/{{.Slug}}">{{.Title}}</a> - {{.Price}}</li>
            {{end}}
        </ul>
        {{end}}
        <p>Best regards,<br>{{.SiteName}} Team</p>
        <hr>
        <p style="font-size: 12px; color: #666;">
            &copy; {{.Year}} {{.SiteName}}. All rights reserved.
        </p>
    </div>
</body>
</html>`

const orderConfirmationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">{{.SiteName}}</h1>
        <p>Hello {{.UserName}},</p>
        <p>Thank you for your order <strong>{{.OrderReference}}</strong> placed on {{.OrderDate}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            <tr><th align="left">Book</th><th align="right">Qty</th><th align="right">Price</th><th align="right">Total</th></tr>
            {{range .Items}}
            <tr><td>{{.Title}}</td><td align="right">{{.Quantity}}</td><td align="right">{{.Price}}</td><td align="right">{{.Total}}</td></tr>
            {{end}}
        </table>
        <p>Total discount: {{.TotalDiscount}}<br><strong>Total: {{.TotalPrice}}</strong></p>
        <p><a href="{{.OrderURL}}">View your order</a></p>
        <p>Best regards,<br>{{.SiteName}} Team</p>
        <hr>
        <p style="font-size: 12px; color: #666;">
            &copy; {{.Year}} {{.SiteName}}. All rights reserved.
        </p>
    </div>
</body>
</html>`
