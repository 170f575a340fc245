package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"

	"github.com/NetraTech/netra_api/internal/cache"
	"github.com/NetraTech/netra_api/internal/config"
	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
)

var emailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "netra_emails_total",
	Help: "Operational emails by outcome",
}, []string{"status"})

// EmailService sends operational emails (stock alerts, daily sales reports)
// through Resend.
type EmailService struct {
	client   *resend.Client
	from     string
	reportTo []string
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	var to []string
	for _, addr := range strings.Split(cfg.ReportTo, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}

	return &EmailService{
		client:   resend.NewClient(cfg.APIKey),
		from:     cfg.From,
		reportTo: to,
	}
}

// SendLowStockAlert emails the purchasing team a list of SKUs at or below
// their reorder level.
func (s *EmailService) SendLowStockAlert(rows []repository.LowStockRow) error {
	if len(rows) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Low stock alert: %d SKUs below reorder level", len(rows))
	html, err := renderTemplate("lowstock", lowStockEmailTemplate, map[string]interface{}{
		"Rows": rows,
	})
	if err != nil {
		return err
	}

	return s.send(subject, html)
}

// SendReceipt emails a copy of the bill to the patient.
func (s *EmailService) SendReceipt(to string, sale *models.Sale, footer string) error {
	if to == "" {
		return nil
	}

	subject := fmt.Sprintf("Your Netra Optical receipt - %s", sale.SaleNumber)
	html, err := renderTemplate("receipt", receiptEmailTemplate, map[string]interface{}{
		"Sale":   sale,
		"Footer": footer,
	})
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := s.client.Emails.Send(params); err != nil {
		emailsSent.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("saleNumber", sale.SaleNumber).Msg("Failed to send receipt email")
		return fmt.Errorf("email send failed: %w", err)
	}
	emailsSent.WithLabelValues("sent").Inc()
	return nil
}

// SendDailyReport emails the end-of-day numbers to management.
func (s *EmailService) SendDailyReport(date string, stats *cache.DashboardStats) error {
	subject := fmt.Sprintf("Daily sales report - %s", date)
	html, err := renderTemplate("report", dailyReportEmailTemplate, map[string]interface{}{
		"Date":  date,
		"Stats": stats,
	})
	if err != nil {
		return err
	}

	return s.send(subject, html)
}

// send dispatches one email to the configured report recipients.
func (s *EmailService) send(subject, html string) error {
	// Skipped when no recipients are configured so local development works
	// without a Resend account.
	if len(s.reportTo) == 0 {
		log.Warn().Str("subject", subject).Msg("no email recipients configured - skipping send")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      s.reportTo,
		Subject: subject,
		Html:    html,
	}

	start := time.Now()
	if _, err := s.client.Emails.Send(params); err != nil {
		emailsSent.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("subject", subject).Msg("Failed to send email")
		return fmt.Errorf("email send failed: %w", err)
	}

	emailsSent.WithLabelValues("sent").Inc()
	log.Info().
		Str("subject", subject).
		Int("recipients", len(s.reportTo)).
		Dur("took", time.Since(start)).
		Msg("Email sent successfully")

	return nil
}

// renderTemplate parses and executes an HTML email template.
func renderTemplate(name, body string, data map[string]interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// Template constants
const lowStockEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>Low Stock Alert</h2>
  <p>The following SKUs are at or below their reorder level:</p>
  <table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr style="background-color: #f0f0f0;">
      <th>SKU</th><th>Product</th><th>Variant</th><th>Stock</th><th>Reorder Level</th>
    </tr>
    {{range .Rows}}
    <tr>
      <td>{{.SKUCode}}</td>
      <td>{{.ProductName}}</td>
      <td>{{.VariantName}}</td>
      <td align="right">{{.Stock}}</td>
      <td align="right">{{.ReorderLevel}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>`

const receiptEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>Receipt {{.Sale.SaleNumber}}</h2>
  <table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr style="background-color: #f0f0f0;">
      <th>Item</th><th>Qty</th><th>Unit Price</th><th>Amount</th>
    </tr>
    {{range .Sale.Items}}
    <tr>
      <td>{{.Description}}</td>
      <td align="right">{{.Quantity}}</td>
      <td align="right">{{.UnitPrice}}</td>
      <td align="right">{{.LineTotal}}</td>
    </tr>
    {{end}}
    <tr><td colspan="3" align="right">Subtotal</td><td align="right">{{.Sale.Subtotal}}</td></tr>
    {{if .Sale.Discount}}<tr><td colspan="3" align="right">Discount</td><td align="right">-{{.Sale.Discount}}</td></tr>{{end}}
    <tr><td colspan="3" align="right">Tax</td><td align="right">{{.Sale.Tax}}</td></tr>
    <tr><td colspan="3" align="right"><b>Total (INR)</b></td><td align="right"><b>{{.Sale.Total}}</b></td></tr>
  </table>
  <p>Paid by {{.Sale.Payment}}.</p>
  {{if .Footer}}<p>{{.Footer}}</p>{{end}}
</body>
</html>`

const dailyReportEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>Daily Sales Report - {{.Date}}</h2>
  <table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr><td>Completed sales</td><td align="right">{{.Stats.SalesToday}}</td></tr>
    <tr><td>Revenue (INR)</td><td align="right">{{.Stats.RevenueToday}}</td></tr>
    <tr><td>Eye tests</td><td align="right">{{.Stats.EyeTestsToday}}</td></tr>
    <tr><td>New patients</td><td align="right">{{.Stats.NewPatientsToday}}</td></tr>
    <tr><td>Pending lab orders</td><td align="right">{{.Stats.PendingLabOrders}}</td></tr>
    <tr><td>Low stock SKUs</td><td align="right">{{.Stats.LowStockSKUs}}</td></tr>
    {{if .Stats.TopSellingSKU}}<tr><td>Top selling SKU</td><td align="right">{{.Stats.TopSellingSKU}}</td></tr>{{end}}
  </table>
</body>
</html>`
