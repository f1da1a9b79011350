package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/Hansraja/MegaMarket/internal/config"
	"github.com/Hansraja/MegaMarket/internal/utils/metrics"
)

// Sender is the outbound mail boundary consumed by the verification flows.
type Sender interface {
	SendVerificationOTP(ctx context.Context, to, otp string) error
}

// Client sends email over SMTP.
type Client struct {
	config config.SMTPConfig
	logger *zap.Logger
}

// NewClient creates an SMTP mail client.
func NewClient(cfg config.SMTPConfig, logger *zap.Logger) *Client {
	return &Client{
		config: cfg,
		logger: logger.Named("email"),
	}
}

// SendEmail sends a single HTML email.
func (c *Client) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	headers := map[string]string{
		"From":         c.config.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
		"Date":         time.Now().Format(time.RFC1123Z),
	}

	var message bytes.Buffer
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	if err := c.send(to, message.Bytes()); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.EmailsSentTotal.WithLabelValues("success").Inc()
	c.logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (c *Client) send(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)
	auth := smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)

	if !c.config.UseTLS {
		return smtp.SendMail(addr, auth, c.config.From, []string{to}, message)
	}

	tlsConfig := &tls.Config{ServerName: c.config.Host}
	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err := client.Mail(c.config.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("failed to quit SMTP session: %w", err)
	}
	return nil
}

var otpTemplate = template.Must(template.New("otp").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Email Verification</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="text-align: center; margin-bottom: 20px;">
        <h2>MegaMarket</h2>
    </div>
    <div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
        <p>Hello {{.ReceiverName}},</p>
        <p>Use the following code to verify your email address. It expires in 10 minutes.</p>
        <p style="font-size: 28px; letter-spacing: 6px; text-align: center; font-weight: bold;">{{.OTPCode}}</p>
        <p>If you did not request this code, you can safely ignore this email.</p>
    </div>
</body>
</html>
`))

// SendVerificationOTP renders the OTP template and emails it.
func (c *Client) SendVerificationOTP(ctx context.Context, to, otp string) error {
	var body bytes.Buffer
	err := otpTemplate.Execute(&body, struct {
		ReceiverName string
		OTPCode      string
	}{
		ReceiverName: "User",
		OTPCode:      otp,
	})
	if err != nil {
		return fmt.Errorf("failed to render OTP template: %w", err)
	}
	return c.SendEmail(ctx, to, "Email Verification OTP", body.String())
}

var _ Sender = (*Client)(nil)
