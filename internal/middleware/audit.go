package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/middleware/requestid"
)

type auditRecorder interface {
	Record(ctx context.Context, entry *models.AuditLog, status int)
}

// Audit records every outcome of the wrapped route, successful or not.
func Audit(recorder auditRecorder, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if recorder == nil {
			c.Next()
			return
		}
		start := time.Now().UTC()
		c.Next()

		status := c.Writer.Status()
		entry := &models.AuditLog{
			Action:    action,
			Resource:  resource,
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			CreatedAt: start,
		}
		if id := c.Param("studentId"); id != "" {
			entry.ResourceID = &id
		}
		if claims := Claims(c); claims != nil && claims.Email != "" {
			email := claims.Email
			entry.ActorEmail = &email
		}

		details := map[string]interface{}{
			"path":       c.FullPath(),
			"method":     c.Request.Method,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": requestid.Value(c),
		}
		if len(c.Errors) > 0 {
			details["error"] = c.Errors.Last().Error()
		}
		entry.Details, _ = json.Marshal(details)

		recorder.Record(c.Request.Context(), entry, status)
	}
}
