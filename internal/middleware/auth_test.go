package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/newera/internal/config"
	"github.com/example/newera/internal/database"
	"github.com/example/newera/internal/middleware"
	"github.com/example/newera/internal/models"
	"github.com/example/newera/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", TokenExpires: time.Hour}
}

func doRequest(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthRequired(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Get("/protected", middleware.AuthRequired(cfg), func(c *fiber.Ctx) error {
		claims, ok := middleware.GetClaims(c)
		require.True(t, ok)
		return c.SendString(claims.Email)
	})

	resp := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, _, err := utils.GenerateToken(cfg.JWTSecret, "ada@example.com", "ada", cfg.TokenExpires)
	require.NoError(t, err)
	resp = doRequest(t, app, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Get("/protected", middleware.AuthRequired(cfg), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	token, _, err := utils.GenerateToken(cfg.JWTSecret, "ada@example.com", "ada", -time.Minute)
	require.NoError(t, err)

	resp := doRequest(t, app, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRequired(t *testing.T) {
	cfg := testConfig()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, db.Create(&models.Admin{Email: "admin@example.com", PasswordHash: "x"}).Error)

	app := fiber.New()
	app.Get("/protected", middleware.AdminRequired(db, cfg), func(c *fiber.Ctx) error {
		admin, ok := middleware.GetAdmin(c)
		require.True(t, ok)
		return c.SendString(admin.Email)
	})

	adminToken, _, err := utils.GenerateToken(cfg.JWTSecret, "admin@example.com", "admin", cfg.TokenExpires)
	require.NoError(t, err)
	resp := doRequest(t, app, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// a valid token for a non-admin principal is rejected
	userToken, _, err := utils.GenerateToken(cfg.JWTSecret, "ada@example.com", "ada", cfg.TokenExpires)
	require.NoError(t, err)
	resp = doRequest(t, app, userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
