package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/signalement-service/internal/api/http/handlers"
	"github.com/spec-kit/signalement-service/internal/auth"
	"github.com/spec-kit/signalement-service/internal/config"
	"github.com/spec-kit/signalement-service/internal/observability"
	"github.com/spec-kit/signalement-service/internal/repository/memory"
	"github.com/spec-kit/signalement-service/internal/service"
)

type testServer struct {
	app  *fiber.App
	auth *service.AuthService
}

func newTestServer(t *testing.T, appCfg config.AppConfig) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost, false, logger)
	tokens := auth.NewTokenManager("test-secret", 0)
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(service.AuthDependencies{
		CitizenRepo:  store.Citizens(),
		AdminRepo:    store.Admins(),
		Hasher:       hasher,
		TokenManager: tokens,
		Metrics:      metrics,
		Logger:       logger,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:  store.Reports(),
		CitizenRepo: store.Citizens(),
		Logger:      logger,
	})

	app := NewServer(appCfg, logger, metrics, RouteConfig{
		Health:         handlers.NewHealthHandler("signalement-service", "test"),
		Auth:           handlers.NewAuthHandler(authService),
		Citizens:       handlers.NewCitizensHandler(service.NewCitizenService(store.Citizens(), hasher, logger)),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, authService),
	})
	return &testServer{app: app, auth: authService}
}

func defaultAppConfig() config.AppConfig {
	return config.AppConfig{Name: "signalement-service", ReportsPath: "/signalements"}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type loginData struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
}

type reportData struct {
	ID        int64  `json:"id"`
	CitizenID int64  `json:"citizen_id"`
	Title     string `json:"title"`
	City      string `json:"city"`
	Category  string `json:"category"`
	Severity  string `json:"severity"`
	Status    string `json:"status"`
}

func (s *testServer) register(t *testing.T, email, password string) int64 {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/citizens", "", map[string]any{
		"email": email, "password": password, "first_name": "Jean", "last_name": "Dupont",
	})
	require.Equal(t, http.StatusCreated, status)
	return decode[struct {
		ID int64 `json:"id"`
	}](t, env).ID
}

func (s *testServer) login(t *testing.T, email, password string) loginData {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status)
	return decode[loginData](t, env)
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t, defaultAppConfig())
	id := s.register(t, "jean@example.com", "pw")

	login := s.login(t, "jean@example.com", "pw")
	assert.Equal(t, "bearer", login.TokenType)
	assert.Equal(t, "citizen", login.Role)
	assert.Equal(t, id, login.UserID)
	assert.Equal(t, "jean@example.com", login.Email)

	status, env := s.do(t, http.MethodGet, "/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	me := decode[struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}](t, env)
	assert.Equal(t, id, me.ID)
	assert.Equal(t, "citizen", me.Role)

	status, env = s.do(t, http.MethodGet, "/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t, defaultAppConfig())
	s.register(t, "jean@example.com", "pw")

	status, env := s.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": "jean@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)

	status, _ = s.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": "ghost@example.com", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLoginWithPasswordForm(t *testing.T) {
	s := newTestServer(t, defaultAppConfig())
	s.register(t, "jean@example.com", "pw")

	form := url.Values{"username": {"jean@example.com"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, env := s.send(t, req)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decode[loginData](t, env).AccessToken)
}

func TestAdminLoginTakesPrecedence(t *testing.T) {
	s := newTestServer(t, defaultAppConfig())
	s.register(t, "root@example.com", "pw")
	_, err := s.auth.ProvisionAdmin(context.Background(), "root@example.com", "pw")
	require.NoError(t, err)

	login := s.login(t, "root@example.com", "pw")
	assert.Equal(t, "admin", login.Role)

	status, _ := s.do(t, http.MethodGet, "/citizens", login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t, defaultAppConfig())
	s.register(t, "jean@example.com", "pw")

	status, env := s.do(t, http.MethodPost, "/citizens", "", map[string]any{"email": "jean@example.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "email already registered", env.Error.Message)

	status, env = s.do(t, http.MethodPost, "/citizens", "", map[string]any{"email": "not-an-email", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestCitizenListIsAdminOnly(t *testing.T) {
	s := newTestServer(t, defaultAppConfig())
	s.register(t, "jean@example.com", "pw")
	login := s.login(t, "jean@example.com", "pw")

	status, _ := s.do(t, http.MethodGet, "/citizens", login.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodGet, "/citizens", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestReportLifecycle(t *testing.T) {
	s := newTestServer(t, defaultAppConfig())
	id := s.register(t, "jean@example.com", "pw")
	token := s.login(t, "jean@example.com", "pw").AccessToken

	status, _ := s.do(t, http.MethodGet, "/signalements", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := s.do(t, http.MethodPost, "/signalements", token, map[string]any{
		"citizen_id":  id,
		"title":       "Lampadaire cassé",
		"location":    "Place de la République",
		"city":        "Paris",
		"description": "Le lampadaire ne s'allume plus.",
		"category":    "admin",
	})
	require.Equal(t, http.StatusCreated, status)
	created := decode[reportData](t, env)
	assert.Equal(t, "minor", created.Severity)
	assert.Equal(t, "new", created.Status)

	status, env = s.do(t, http.MethodPut, "/signalements/"+itoa(created.ID), token, map[string]any{"status": "in_progress"})
	require.Equal(t, http.StatusOK, status)
	updated := decode[reportData](t, env)
	assert.Equal(t, "in_progress", updated.Status)
	assert.Equal(t, "Lampadaire cassé", updated.Title)

	status, env = s.do(t, http.MethodGet, "/signalements/"+itoa(created.ID), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, decode[reportData](t, env).ID)

	status, _ = s.do(t, http.MethodDelete, "/signalements/"+itoa(created.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, env = s.do(t, http.MethodDelete, "/signalements/"+itoa(created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)

	status, _ = s.do(t, http.MethodPut, "/signalements/999", token, map[string]any{"status": "resolved"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestReportUnknownIDs(t *testing.T) {
	s := newTestServer(t, defaultAppConfig())
	s.register(t, "jean@example.com", "pw")
	token := s.login(t, "jean@example.com", "pw").AccessToken

	for _, path := range []string{"/signalements/0", "/signalements/-1", "/signalements/999"} {
		status, _ := s.do(t, http.MethodDelete, path, token, nil)
		assert.Equal(t, http.StatusNotFound, status, "DELETE %s", path)

		status, _ = s.do(t, http.MethodPut, path, token, map[string]any{"status": "resolved"})
		assert.Equal(t, http.StatusNotFound, status, "PUT %s", path)

		status, _ = s.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, status, "GET %s", path)
	}

	status, _ := s.do(t, http.MethodDelete, "/signalements/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReportCreateRejectsBadCitizen(t *testing.T) {
	s := newTestServer(t, defaultAppConfig())
	s.register(t, "jean@example.com", "pw")
	token := s.login(t, "jean@example.com", "pw").AccessToken

	for _, citizenID := range []int64{0, -1, 999} {
		status, env := s.do(t, http.MethodPost, "/signalements", token, map[string]any{
			"citizen_id":  citizenID,
			"title":       "Vol",
			"location":    "Gare",
			"city":        "Lyon",
			"description": "Vol de vélo",
			"category":    "police",
		})
		assert.Equal(t, http.StatusBadRequest, status, "citizen_id=%d", citizenID)
		require.NotNil(t, env.Error)
		assert.Equal(t, "citizen_id", env.Error.Details["field"])
	}
}

func TestReportSearch(t *testing.T) {
	s := newTestServer(t, defaultAppConfig())
	id := s.register(t, "jean@example.com", "pw")
	token := s.login(t, "jean@example.com", "pw").AccessToken

	seed := []map[string]any{
		{"title": "Lampadaire cassé", "city": "Paris", "category": "admin", "severity": "minor"},
		{"title": "Vol de vélo", "city": "Lyon", "category": "police", "severity": "major"},
		{"title": "Malaise", "city": "Paris", "category": "hospital", "severity": "urgent"},
	}
	for _, r := range seed {
		r["citizen_id"] = id
		r["location"] = "Centre"
		r["description"] = r["title"]
		status, _ := s.do(t, http.MethodPost, "/signalements", token, r)
		require.Equal(t, http.StatusCreated, status)
	}

	search := func(query string) []reportData {
		status, env := s.do(t, http.MethodGet, "/signalements/search?"+query, token, nil)
		require.Equal(t, http.StatusOK, status, query)
		return decode[[]reportData](t, env)
	}

	assert.Len(t, search(""), 3)
	assert.Len(t, search("city=par"), 2)
	assert.Len(t, search("category=police,hospital"), 2)
	assert.Len(t, search("category=police&category=admin"), 2)
	assert.Len(t, search("city=Paris&severity=urgent"), 1)
	assert.Len(t, search("q=v%C3%A9lo"), 1)
	assert.Len(t, search("citizen_id=0"), 3)
	assert.Empty(t, search("city=Marseille"))

	all := search("")
	assert.Equal(t, "Malaise", all[0].Title)

	status, _ := s.do(t, http.MethodGet, "/signalements/search?status=closed", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReportsPathIsConfigurable(t *testing.T) {
	cfg := defaultAppConfig()
	cfg.ReportsPath = "/api/signalements"
	s := newTestServer(t, cfg)
	s.register(t, "jean@example.com", "pw")
	token := s.login(t, "jean@example.com", "pw").AccessToken

	status, _ := s.do(t, http.MethodGet, "/api/signalements", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/signalements", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, defaultAppConfig())

	status, _ := s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "signalements_http_requests_total")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
