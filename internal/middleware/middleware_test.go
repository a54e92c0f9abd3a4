package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
)

type tokenValidatorStub struct {
	claims *models.JWTClaims
	err    error
	token  string
}

func (s *tokenValidatorStub) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	s.token = tokenString
	return s.claims, s.err
}

type auditRecorderStub struct {
	entries  []*models.AuditLog
	statuses []int
}

func (s *auditRecorderStub) Record(ctx context.Context, entry *models.AuditLog, status int) {
	s.entries = append(s.entries, entry)
	s.statuses = append(s.statuses, status)
}

func perform(r *gin.Engine, method, path, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(&tokenValidatorStub{}), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/protected", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, appErrors.NameUnauthorized, body["error"].(map[string]interface{})["name"])
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(&tokenValidatorStub{}), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/protected", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTPropagatesValidatorError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &tokenValidatorStub{err: appErrors.Clone(appErrors.ErrUnauthorized, "token expired")}
	r := gin.New()
	r.GET("/protected", JWT(stub), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/protected", "Bearer abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "abc", stub.token)
}

func TestJWTStoresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &tokenValidatorStub{claims: &models.JWTClaims{Email: "staff@fpt.edu.vn", Role: models.RoleEmployee}}
	r := gin.New()
	var seen *models.JWTClaims
	r.GET("/protected", JWT(stub), func(c *gin.Context) {
		seen = Claims(c)
		c.Status(http.StatusOK)
	})

	w := perform(r, http.MethodGet, "/protected", "bearer abc")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "staff@fpt.edu.vn", seen.Email)
}

func TestOptionalJWTIgnoresInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &tokenValidatorStub{err: appErrors.ErrUnauthorized}
	r := gin.New()
	r.GET("/open", OptionalJWT(stub), func(c *gin.Context) {
		assert.Nil(t, Claims(c))
		c.Status(http.StatusOK)
	})

	w := perform(r, http.MethodGet, "/open", "Bearer abc")
	assert.Equal(t, http.StatusOK, w.Code)
}

func withClaims(claims *models.JWTClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	}
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		claims *models.JWTClaims
		want   int
	}{
		{name: "anonymous", claims: nil, want: http.StatusUnauthorized},
		{name: "student", claims: &models.JWTClaims{Role: models.RoleStudent}, want: http.StatusForbidden},
		{name: "employee", claims: &models.JWTClaims{Role: models.RoleEmployee}, want: http.StatusOK},
		{name: "admin", claims: &models.JWTClaims{Role: models.RoleAdmin}, want: http.StatusOK},
		{name: "missing role", claims: &models.JWTClaims{}, want: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/staff", withClaims(tc.claims), RequireRoles(models.RoleEmployee, models.RoleAdmin), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			w := perform(r, http.MethodGet, "/staff", "")
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAuditRecordsFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := &auditRecorderStub{}
	r := gin.New()
	claims := &models.JWTClaims{Email: "staff@fpt.edu.vn", Role: models.RoleAdmin}
	r.PUT("/bachelor/approve/:studentId", withClaims(claims), Audit(recorder, models.AuditActionUpdate, models.AuditResourceImageRequest), func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := perform(r, http.MethodPut, "/bachelor/approve/SE170001", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Len(t, recorder.entries, 1)

	entry := recorder.entries[0]
	assert.Equal(t, http.StatusNotFound, recorder.statuses[0])
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "SE170001", *entry.ResourceID)
	require.NotNil(t, entry.ActorEmail)
	assert.Equal(t, "staff@fpt.edu.vn", *entry.ActorEmail)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Details, &details))
	assert.Equal(t, "/bachelor/approve/:studentId", details["path"])
}

func TestAuditSkipsNilRecorder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", Audit(nil, models.AuditActionView, models.AuditResourceBachelor), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/x", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
