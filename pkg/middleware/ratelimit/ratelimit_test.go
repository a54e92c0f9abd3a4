package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
)

func TestRateLimitRejectsOverBudget(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mw, err := New("2-M", nil)
	require.NoError(t, err)

	r := gin.New()
	r.Use(mw)
	r.GET("/bachelor/:studentId", func(c *gin.Context) { c.Status(http.StatusOK) })

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/bachelor/SE170001", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		r.ServeHTTP(last, req)
		if i < 2 {
			require.Equal(t, http.StatusOK, last.Code)
		}
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Name string `json:"name"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, appErrors.NameTooManyRequests, body.Error.Name)
}

func TestRateLimitRejectsBadFormat(t *testing.T) {
	_, err := New("lots", nil)
	assert.Error(t, err)
}
