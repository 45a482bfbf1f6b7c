package email

import (
	"bytes"
	"errors"
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

// LowStockItem is one row of the low-stock email table.
type LowStockItem struct {
	ProductID string
	Name      string
	Current   int
	Minimum   int
	Order     int
	Level     string
}

// LowStockAlert is everything the low-stock email shows.
type LowStockAlert struct {
	StoreName     string
	Items         []LowStockItem
	PurchaseOrder string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// Configured reports whether enough SMTP settings are present to send mail.
func (s *EmailService) Configured() bool {
	return s.config.SMTPHost != "" && s.config.FromEmail != ""
}

// SendLowStockAlert emails the alert table and purchase order to toEmail.
func (s *EmailService) SendLowStockAlert(toEmail string, alert LowStockAlert) error {
	if toEmail == "" {
		return errors.New("no recipient configured for low stock alerts")
	}
	if !s.Configured() {
		return errors.New("smtp is not configured")
	}

	htmlContent, err := s.renderLowStockEmail(alert)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Low Stock Alert - Purchase Order Required"
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
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

func (s *EmailService) renderLowStockEmail(alert LowStockAlert) (string, error) {
	tmpl, err := template.New("low_stock").Parse(lowStockTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		LowStockAlert
		AppName string
	}{
		LowStockAlert: alert,
		AppName:       s.config.FromName,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const lowStockTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Low Stock Alert</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 640px; margin: 0 auto; background-color: #ffffff; border-collapse: collapse;">
        <tr>
            <td style="background-color: #c53030; padding: 24px 30px; text-align: center;">
                <h1 style="color: #ffffff; margin: 0; font-size: 24px;">{{.StoreName}}</h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 30px;">
                <p style="color: #4a5568; font-size: 16px;">Dear Manager,</p>
                <p style="color: #4a5568; font-size: 16px;">The following items are running low on stock and need to be reordered:</p>
                <table style="width: 100%; border-collapse: collapse; font-size: 14px;">
                    <tr style="background-color: #edf2f7;">
                        <th align="left" style="padding: 8px;">Item</th>
                        <th align="right" style="padding: 8px;">Current</th>
                        <th align="right" style="padding: 8px;">Minimum</th>
                        <th align="right" style="padding: 8px;">Order</th>
                        <th align="left" style="padding: 8px;">Level</th>
                    </tr>
                    {{range .Items}}
                    <tr>
                        <td style="padding: 8px; border-top: 1px solid #e2e8f0;">{{.Name}} ({{.ProductID}})</td>
                        <td align="right" style="padding: 8px; border-top: 1px solid #e2e8f0;">{{.Current}}</td>
                        <td align="right" style="padding: 8px; border-top: 1px solid #e2e8f0;">{{.Minimum}}</td>
                        <td align="right" style="padding: 8px; border-top: 1px solid #e2e8f0;">{{.Order}}</td>
                        <td style="padding: 8px; border-top: 1px solid #e2e8f0;">{{.Level}}</td>
                    </tr>
                    {{end}}
                </table>
                <pre style="background-color: #f8fafc; padding: 16px; font-size: 12px;">{{.PurchaseOrder}}</pre>
                <p style="color: #4a5568; font-size: 16px;">Please process this order as soon as possible to avoid stockouts.</p>
            </td>
        </tr>
        <tr>
            <td style="background-color: #f8fafc; padding: 20px; text-align: center; border-top: 1px solid #e2e8f0;">
                <p style="color: #a0aec0; font-size: 13px; margin: 0;">Sent by {{.AppName}}</p>
            </td>
        </tr>
    </table>
</body>
</html>
`
