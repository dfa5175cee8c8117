// internal/pkg/invoice/service.go
package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/order"
)

// Service handles invoice PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new invoice service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// Generate renders a PDF invoice for an order.
func (s *Service) Generate(o *order.Order) (*bytes.Buffer, error) {
	data := invoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.Reference),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		SiteName:      s.config.App.Name,
		SiteURL:       s.config.App.BaseURL,
		Order:         o,
		TotalPrice:    o.TotalPrice.StringFixed(2),
		TotalDiscount: o.TotalDiscount.StringFixed(2),
	}

	for _, item := range o.Items {
		data.Items = append(data.Items, invoiceItem{
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(2),
			Discount: item.Discount.StringFixed(2),
			Total:    item.Total.StringFixed(2),
		})
	}

	htmlContent, err := s.renderHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) renderHTML(data invoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

type invoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	SiteName      string
	SiteURL       string
	Order         *order.Order
	Items         []invoiceItem
	TotalPrice    string
	TotalDiscount string
}

type invoiceItem struct {
	Title    string
	Quantity int
	Price    string
	Discount string
	Total    string
}

const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { display: flex; justify-content: space-between; margin-bottom: 30px; }
        .header h1 { margin: 0; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th { background-color: #f4f4f4; text-align: left; padding: 8px; border-bottom: 2px solid #ddd; }
        td { padding: 8px; border-bottom: 1px solid #eee; }
        .amount { text-align: right; }
        .totals { margin-top: 20px; width: 40%; margin-left: auto; }
        .totals td { border: none; }
        .totals .grand td { font-weight: bold; border-top: 2px solid #333; }
        .address { margin-top: 20px; }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.SiteName}}</h1>
            <p>{{.SiteURL}}</p>
        </div>
        <div>
            <h2>Invoice {{.InvoiceNumber}}</h2>
            <p>Date: {{.InvoiceDate}}</p>
            <p>Order: {{.Order.Reference}}</p>
        </div>
    </div>

    {{if .Order.ShippingAddress}}
    <div class="address">
        <strong>Ship to:</strong><br>
        {{.Order.ShippingAddress.FirstName}} {{.Order.ShippingAddress.LastName}}<br>
        {{.Order.ShippingAddress.Line1}}<br>
        {{if .Order.ShippingAddress.Line2}}{{.Order.ShippingAddress.Line2}}<br>{{end}}
        {{.Order.ShippingAddress.City}}, {{.Order.ShippingAddress.PostalCode}}<br>
        {{.Order.ShippingAddress.Country}}
    </div>
    {{end}}

    <table>
        <tr>
            <th>Book</th>
            <th class="amount">Qty</th>
            <th class="amount">Price</th>
            <th class="amount">Discount</th>
            <th class="amount">Total</th>
        </tr>
        {{range .Items}}
        <tr>
            <td>{{.Title}}</td>
            <td class="amount">{{.Quantity}}</td>
            <td class="amount">{{.Price}}</td>
            <td class="amount">{{.Discount}}</td>
            <td class="amount">{{.Total}}</td>
        </tr>
        {{end}}
    </table>

    <table class="totals">
        <tr><td>Discount</td><td class="amount">{{.TotalDiscount}}</td></tr>
        <tr class="grand"><td>Total</td><td class="amount">{{.TotalPrice}}</td></tr>
    </table>
</body>
</html>`
