package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/dto"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/handler"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/service"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/config"
	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/middleware/ratelimit"
)

type bachelorServiceStub struct {
	listCalled bool
	findCalled bool
}

func (s *bachelorServiceStub) Find(ctx context.Context, studentID string) (*dto.BachelorView, error) {
	s.findCalled = true
	return &dto.BachelorView{StudentID: studentID}, nil
}

func (s *bachelorServiceStub) EnsureExists(ctx context.Context, studentID string) error { return nil }

func (s *bachelorServiceStub) SubmitImageRequest(ctx context.Context, req dto.ImageRequest) error {
	return nil
}

func (s *bachelorServiceStub) ResolveRequest(ctx context.Context, req dto.ResolveRequest) error {
	return nil
}

func (s *bachelorServiceStub) SubmitMissingInformation(ctx context.Context, req dto.MissingInformationRequest) error {
	return nil
}

func (s *bachelorServiceStub) RequestStatus(ctx context.Context, studentID string) (*dto.RequestStatusView, error) {
	return &dto.RequestStatusView{StudentID: studentID}, nil
}

func (s *bachelorServiceStub) ListRequests(ctx context.Context, query dto.RequestListQuery) (*dto.RequestListResult, error) {
	s.listCalled = true
	return &dto.RequestListResult{Page: 1, Limit: 20}, nil
}

type pingerStub struct{ err error }

func (p pingerStub) Ping(ctx context.Context) error { return p.err }

func newTestEngine(t *testing.T, requireAuth bool, svc *bachelorServiceStub) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api",
		Approval:  config.ApprovalConfig{RequireAuth: requireAuth},
	}
	auth := service.NewAuthService(nil, nil, nil, service.AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "test"})
	return New(Dependencies{
		Config:          cfg,
		Auth:            auth,
		BachelorHandler: handler.NewBachelorHandler(svc, nil, nil),
		MetricsHandler:  handler.NewMetricsHandler(service.NewMetricsService(), pingerStub{}),
	})
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestNoRouteRendersNotFoundEnvelope(t *testing.T) {
	r := newTestEngine(t, false, &bachelorServiceStub{})

	w := serve(r, http.MethodGet, "/api/unknown")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Endpoint '/api/unknown' not found.", body["message"])
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, appErrors.NameNotFound, errBody["name"])
	assert.Empty(t, errBody["details"])
}

func TestStaticRequestRoutesTakePrecedence(t *testing.T) {
	svc := &bachelorServiceStub{}
	r := newTestEngine(t, false, svc)

	w := serve(r, http.MethodGet, "/api/bachelor/requests")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.listCalled)
	assert.False(t, svc.findCalled)

	w = serve(r, http.MethodGet, "/api/bachelor/SE170001")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.findCalled)
}

func TestStaffRoutesRequireTokenWhenEnabled(t *testing.T) {
	r := newTestEngine(t, true, &bachelorServiceStub{})

	w := serve(r, http.MethodGet, "/api/bachelor/requests")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodPut, "/api/bachelor/approve/SE170001")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/api/bachelor/SE170001")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryRendersInternalError(t *testing.T) {
	r := newTestEngine(t, false, &bachelorServiceStub{})
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, appErrors.NameInternal, body["error"].(map[string]interface{})["name"])
}

func TestHealthAndReady(t *testing.T) {
	r := newTestEngine(t, false, &bachelorServiceStub{})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ready").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/metrics").Code)
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "/api", normalizePrefix("api/"))
	assert.Equal(t, "/", normalizePrefix(""))
	assert.Equal(t, "/v1/api", normalizePrefix("/v1/api"))
}

func newRateLimitedEngine(t *testing.T, trustedProxies []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	limiter, err := ratelimit.New("1-M", nil)
	require.NoError(t, err)
	return New(Dependencies{
		Config:          &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api", TrustedProxies: trustedProxies},
		RateLimit:       limiter,
		BachelorHandler: handler.NewBachelorHandler(&bachelorServiceStub{}, nil, nil),
	})
}

func forwardedCodes(r *gin.Engine, n int) []int {
	codes := make([]int, 0, n)
	for i := 0; i < n; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/bachelor/SE170001", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	return codes
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	r := newRateLimitedEngine(t, nil)

	codes := forwardedCodes(r, 5)
	assert.Equal(t, http.StatusOK, codes[0])
	for _, code := range codes[1:] {
		assert.Equal(t, http.StatusTooManyRequests, code)
	}
}

func TestRateLimitHonoursForwardedForFromTrustedProxy(t *testing.T) {
	r := newRateLimitedEngine(t, []string{"192.0.2.1"})

	for _, code := range forwardedCodes(r, 3) {
		assert.Equal(t, http.StatusOK, code)
	}
}

func TestRequestStatusAttributesStaffInAudit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	auth := service.NewAuthService(nil, nil, nil, service.AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "test"})
	r := New(Dependencies{
		Config:          &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api"},
		Auth:            auth,
		Audit:           service.NewAuditService(nil, zap.New(core)),
		BachelorHandler: handler.NewBachelorHandler(&bachelorServiceStub{}, nil, nil),
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		Email: "staff@fpt.edu.vn",
		Role:  models.RoleEmployee,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/bachelor/SE170001/request-status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/bachelor/SE170001/request-status")
	require.Equal(t, http.StatusOK, w.Code)

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "staff@fpt.edu.vn", entries[0].ContextMap()["actor"])
	assert.NotContains(t, entries[1].ContextMap(), "actor")
	assert.Equal(t, "SE170001", entries[1].ContextMap()["resource_id"])
}
