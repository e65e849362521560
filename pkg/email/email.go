package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// ReceiptData holds the fields rendered into a payment receipt email
type ReceiptData struct {
	CustomerName string
	OrderNumber  string
	ServiceName  string
	GrandTotal   string
	AmountPaid   string
	Remaining    string
	PaidAt       string
}

// Enabled reports whether SMTP is configured; sending is skipped when it is not
func (s *EmailService) Enabled() bool {
	return s.config.SMTPHost != "" && s.config.FromEmail != ""
}

// SendPaymentReceipt sends a payment confirmation email for a settled order
func (s *EmailService) SendPaymentReceipt(toEmail string, data ReceiptData) error {
	htmlContent, err := s.renderReceipt(data)
	if err != nil {
		return fmt.Errorf("failed to render receipt template: %w", err)
	}

	subject := fmt.Sprintf("Payment received for order %s", data.OrderNumber)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)
	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)
	return []byte(headers + htmlBody)
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thank you, {{.CustomerName}}!</h2>
  <p>We have received your payment for order <strong>{{.OrderNumber}}</strong>.</p>
  <table cellpadding="6">
    <tr><td>Service</td><td><strong>{{.ServiceName}}</strong></td></tr>
    <tr><td>Order total</td><td>{{.GrandTotal}}</td></tr>
    <tr><td>Amount paid</td><td>{{.AmountPaid}}</td></tr>
    {{if .Remaining}}<tr><td>Remaining balance</td><td>{{.Remaining}}</td></tr>{{end}}
    <tr><td>Paid at</td><td>{{.PaidAt}}</td></tr>
  </table>
  <p>Our team will contact you on WhatsApp to follow up on the work schedule.</p>
</body>
</html>`

// renderReceipt renders the payment receipt HTML body
func (s *EmailService) renderReceipt(data ReceiptData) (string, error) {
	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
