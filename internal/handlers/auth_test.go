package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/newera/internal/models"
)

func registerBody(email, username, phone string) map[string]interface{} {
	return map[string]interface{}{
		"fullname":    "Ada Obi",
		"username":    username,
		"email":       email,
		"phoneNumber": phone,
		"state":       "Lagos",
		"password":    "secret123",
	}
}

func TestUserRegister(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/user-auth/register", "", registerBody("ada@example.com", "ada", "07011111111"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "ada@example.com").First(&user).Error)
	assert.False(t, user.IsVerified)
	require.NotNil(t, user.OTP)
	assert.Len(t, *user.OTP, 6)
	assert.Equal(t, "customer", user.Role)

	require.Equal(t, 1, env.mailer.count())
	assert.Equal(t, "ada@example.com", env.mailer.last().ToEmail)
	assert.Contains(t, env.mailer.last().Body, *user.OTP)
}

func TestUserRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "ada@example.com", "ada", "secret123", true)

	resp := env.request(t, http.MethodPost, "/user-auth/register", "", registerBody("ada@example.com", "other", "07099999999"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/user-auth/register", "", registerBody("other@example.com", "ada", "07099999999"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUserRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	body := registerBody("not-an-email", "ada", "07011111111")
	resp := env.request(t, http.MethodPost, "/user-auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body = registerBody("ada@example.com", "ada", "07011111111")
	body["password"] = "short"
	resp = env.request(t, http.MethodPost, "/user-auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUserLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "ada@example.com", "ada", "secret123", true)

	resp := env.request(t, http.MethodPost, "/user-auth/login", "", map[string]interface{}{
		"email":    "Ada@Example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "customer", body["role"])
	assert.NotZero(t, body["expirationTime"])
}

func TestUserLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "ada@example.com", "ada", "secret123", true)

	resp := env.request(t, http.MethodPost, "/user-auth/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/user-auth/login", "", map[string]interface{}{
		"email":    "ghost@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserLoginUnverified(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "ada@example.com", "ada", "secret123", false)

	resp := env.request(t, http.MethodPost, "/user-auth/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestForgotAndResetPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "ada@example.com", "ada", "secret123", true)

	resp := env.request(t, http.MethodPost, "/user-auth/forgot-password", "", map[string]interface{}{
		"email": "ada@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, env.mailer.count())

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "ada@example.com").First(&user).Error)
	require.NotNil(t, user.ResetToken)
	token := *user.ResetToken

	resp = env.request(t, http.MethodPost, "/user-auth/reset-password", "", map[string]interface{}{
		"resetToken":  token,
		"newPassword": "newsecret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// old password no longer works, new one does
	resp = env.request(t, http.MethodPost, "/user-auth/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/user-auth/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "newsecret1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the token is single use
	resp = env.request(t, http.MethodPost, "/user-auth/reset-password", "", map[string]interface{}{
		"resetToken":  token,
		"newPassword": "anothersecret",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/user-auth/forgot-password", "", map[string]interface{}{
		"email": "ghost@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
