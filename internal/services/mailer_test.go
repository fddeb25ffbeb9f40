package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/newera/internal/services"
)

func TestVerificationEmail(t *testing.T) {
	subject, body := services.VerificationEmail("ada", "123456", "http://localhost/verify-email?otp=123456")
	assert.Equal(t, "Verify Your Email", subject)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "ada")
	assert.Contains(t, body, "http://localhost/verify-email?otp=123456")
}

func TestOrderStatusEmail(t *testing.T) {
	subject, body := services.OrderStatusEmail("ada", "ord-1", "Pending")
	assert.Contains(t, subject, "ord-1")
	assert.Contains(t, subject, "Pending")
	assert.Contains(t, body, "ord-1")
}

func TestSendSkipsWithoutAPIKey(t *testing.T) {
	mailer := services.NewSendGridMailer("", "Shop", "noreply@example.com")
	assert.NoError(t, mailer.Send("ada", "ada@example.com", "Hi", "<p>hello</p>"))
}
