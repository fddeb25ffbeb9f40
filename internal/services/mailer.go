package services

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional email. Delivery is awaited but never retried.
type Mailer interface {
	Send(toName, toEmail, subject, htmlBody string) error
}

// SendGridMailer delivers mail through the SendGrid API.
type SendGridMailer struct {
	apiKey    string
	fromName  string
	fromEmail string
}

// NewSendGridMailer creates a SendGridMailer.
func NewSendGridMailer(apiKey, fromName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:    apiKey,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send delivers a single HTML email.
func (m *SendGridMailer) Send(toName, toEmail, subject, htmlBody string) error {
	if m.apiKey == "" {
		log.Println("[Mail] SendGrid API key not configured, skipping send")
		return nil
	}

	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[Mail] Failed to send to %s: %v", toEmail, err)
		return err
	}

	if resp.StatusCode >= 400 {
		log.Printf("[Mail] SendGrid status %d: %s", resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	return nil
}

// VerificationEmail builds the OTP verification message body.
func VerificationEmail(username, otp, verifyLink string) (subject, body string) {
	subject = "Verify Your Email"
	body = fmt.Sprintf(`<h2>Hi %s</h2>
<p>Thank you for registering with us! To complete your registration, please verify
your email using the OTP below:</p>
<p><b>OTP: %s</b></p>
<p>This OTP will expire in 10 minutes. Alternatively, you can click the link below
to verify your email address:</p>
<p><a href="%s">Verify your Email</a></p>
<p>Thank you!</p>`, username, otp, verifyLink)
	return subject, body
}

// ResendOTPEmail builds the body for a re-issued OTP.
func ResendOTPEmail(username, otp, verifyLink string) (subject, body string) {
	subject = "Your New OTP"
	body = fmt.Sprintf(`<h2>Hi %s</h2>
<p>You requested a new OTP for email verification. Please use the following OTP:</p>
<p><b>OTP: %s</b></p>
<p>This OTP will expire in 10 minutes. Alternatively, you can click the link below
to verify your email address:</p>
<p><a href="%s">Verify your Email</a></p>
<p>Thank you!</p>`, username, otp, verifyLink)
	return subject, body
}

// PasswordResetEmail builds the reset-link message body.
func PasswordResetEmail(username, resetLink string) (subject, body string) {
	subject = "Password Reset Request"
	body = fmt.Sprintf(`<h2>Hi %s</h2>
<p>You requested a password reset. Click the link below to reset your password:</p>
<p><a href="%s">Reset your password</a></p>
<p>This link expires in 1 hour. If you did not request this, please ignore this email.</p>`,
		username, resetLink)
	return subject, body
}

// NewOrderEmail builds the admin notification for a freshly placed order.
func NewOrderEmail(orderNumber, username string, total float64) (subject, body string) {
	subject = fmt.Sprintf("New Order %s", orderNumber)
	body = fmt.Sprintf(`<h2>New order placed</h2>
<p>Order <b>%s</b> was placed by <b>%s</b>.</p>
<p>Total: <b>%.2f</b></p>`, orderNumber, username, total)
	return subject, body
}

// OrderStatusEmail builds the owner notification for an order transition.
func OrderStatusEmail(username, orderNumber, status string) (subject, body string) {
	subject = fmt.Sprintf("Order %s is now %s", orderNumber, status)
	body = fmt.Sprintf(`<h2>Hi %s</h2>
<p>Your order <b>%s</b> has been moved to <b>%s</b>.</p>
<p>Thank you for shopping with us!</p>`, username, orderNumber, status)
	return subject, body
}
