package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/newera/internal/config"
	"github.com/example/newera/internal/database"
	"github.com/example/newera/internal/models"
	"github.com/example/newera/internal/routes"
	"github.com/example/newera/internal/utils"
)

// sentMail captures one delivered message.
type sentMail struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// mockMailer records sent mail instead of delivering it.
type mockMailer struct {
	mtx  sync.Mutex
	sent []sentMail
	fail bool
}

func (m *mockMailer) Send(toName, toEmail, subject, htmlBody string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.fail {
		return io.ErrUnexpectedEOF
	}
	m.sent = append(m.sent, sentMail{ToName: toName, ToEmail: toEmail, Subject: subject, Body: htmlBody})
	return nil
}

func (m *mockMailer) count() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return len(m.sent)
}

func (m *mockMailer) last() sentMail {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.sent[len(m.sent)-1]
}

// testEnv bundles everything a handler test needs.
type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	cfg    *config.Config
	mailer *mockMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		TokenExpires:     time.Hour,
		SiteURL:          "http://localhost:5173",
		AdminNotifyEmail: "orders@newera.example",
		PaystackBaseURL:  "http://paystack.invalid",
	}

	mailer := &mockMailer{}

	app := fiber.New(fiber.Config{ErrorHandler: routes.ErrorHandler})
	routes.Register(app, db, cfg, mailer)

	return &testEnv{app: app, db: db, cfg: cfg, mailer: mailer}
}

// newTestEnvWithPaystack points the gateway client at a stub server.
func newTestEnvWithPaystack(t *testing.T, stub http.Handler) (*testEnv, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		TokenExpires:      time.Hour,
		SiteURL:           "http://localhost:5173",
		PaystackSecretKey: "sk_test",
		PaystackBaseURL:   server.URL,
	}

	mailer := &mockMailer{}

	app := fiber.New(fiber.Config{ErrorHandler: routes.ErrorHandler})
	routes.Register(app, db, cfg, mailer)

	return &testEnv{app: app, db: db, cfg: cfg, mailer: mailer}, server
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("x-access-token", token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	return body
}

func (e *testEnv) tokenFor(t *testing.T, email, username string) string {
	t.Helper()

	token, _, err := utils.GenerateToken(e.cfg.JWTSecret, email, username, e.cfg.TokenExpires)
	require.NoError(t, err)
	return token
}

func (e *testEnv) createUser(t *testing.T, email, username, password string, verified bool) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		FullName:     "Test User",
		Username:     username,
		Email:        email,
		PhoneNumber:  "070" + username,
		State:        "Lagos",
		PasswordHash: hash,
		Role:         "customer",
		IsVerified:   verified,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createContestant(t *testing.T, email, username, password string, verified bool) *models.Contestant {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	contestant := &models.Contestant{
		FullName:     "Test Contestant",
		Username:     username,
		Email:        email,
		PhoneNumber:  "080" + username,
		State:        "Abuja",
		PasswordHash: hash,
		Role:         "contestant",
		IsVerified:   verified,
	}
	require.NoError(t, e.db.Create(contestant).Error)
	return contestant
}

func (e *testEnv) createAdmin(t *testing.T, email, password string) *models.Admin {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	admin := &models.Admin{Email: email, PasswordHash: hash}
	require.NoError(t, e.db.Create(admin).Error)
	return admin
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	e.createAdmin(t, "admin@newera.example", "adminpass")
	return e.tokenFor(t, "admin@newera.example", "admin")
}
