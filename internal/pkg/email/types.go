// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeOrderStatusUpdate EmailType = "order_status_update"
)

// Email represents an email message
type Email struct {
	To          []string               `json:"to"`
	Subject     string                 `json:"subject"`
	HTMLContent string                 `json:"html_content"`
	TextContent string                 `json:"text_content,omitempty"`
	Type        EmailType              `json:"type"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// TemplateData contains common data for all email templates
type TemplateData struct {
	SiteName  string `json:"site_name"`
	SiteURL   string `json:"site_url"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Year      int    `json:"year"`
}

// RecommendedBook is a suggestion rendered at the bottom of order emails.
type RecommendedBook struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	ImageURL string `json:"image_url"`
	Price    string `json:"price"`
}

// OrderStatusUpdateData contains data for order status update emails
type OrderStatusUpdateData struct {
	TemplateData
	OrderReference   string            `json:"order_reference"`
	PreviousStatus   string            `json:"previous_status"`
	Status           string            `json:"status"`
	StatusMessage    string            `json:"status_message"`
	OrderURL         string            `json:"order_url"`
	RecommendedBooks []RecommendedBook `json:"recommended_books,omitempty"`
}

// OrderConfirmationData contains data for order confirmation emails
type OrderConfirmationData struct {
	TemplateData
	OrderReference string          `json:"order_reference"`
	OrderDate      string          `json:"order_date"`
	TotalPrice     string          `json:"total_price"`
	TotalDiscount  string          `json:"total_discount"`
	OrderURL       string          `json:"order_url"`
	Items          []OrderItemLine `json:"items"`
}

// OrderItemLine represents one line of an order in a confirmation email.
type OrderItemLine struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Total    string `json:"total"`
}

// baseTemplateData returns common template data
func baseTemplateData(siteName, siteURL, userName, userEmail string) TemplateData {
	return TemplateData{
		SiteName:  siteName,
		SiteURL:   siteURL,
		UserName:  userName,
		UserEmail: userEmail,
		Year:      time.Now().Year(),
	}
}
