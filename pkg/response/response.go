package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
)

const genericInternalDetail = "An unexpected error occurred."

// Metadata carries pagination information for list responses.
type Metadata struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Limit       int `json:"limit"`
}

// Envelope is the success contract shared by every endpoint.
type Envelope struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Metadata   *Metadata   `json:"metadata,omitempty"`
}

// ErrorBody is the error object nested in failure envelopes.
type ErrorBody struct {
	Name    string             `json:"name"`
	Details []appErrors.Detail `json:"details"`
}

// ErrorEnvelope is the failure contract shared by every endpoint.
type ErrorEnvelope struct {
	Success    bool      `json:"success"`
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Error      ErrorBody `json:"error"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, message string, data interface{}, metadata *Metadata) {
	noStore(c)
	c.JSON(status, Envelope{
		Success:    status < http.StatusBadRequest,
		StatusCode: status,
		Message:    message,
		Data:       data,
		Metadata:   metadata,
	})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data, nil)
}

// Error renders any error into the failure envelope. Unknown errors become
// InternalServerError and only expose their cause outside release mode.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	details := appErr.Details
	if details == nil {
		details = []appErrors.Detail{}
	}
	if appErr.Status >= http.StatusInternalServerError {
		details = []appErrors.Detail{{Field: "server", Message: internalDetail(appErr)}}
	}

	noStore(c)
	c.JSON(appErr.Status, ErrorEnvelope{
		Success:    appErr.Status < http.StatusBadRequest,
		StatusCode: appErr.Status,
		Message:    appErr.Message,
		Error: ErrorBody{
			Name:    appErr.Name,
			Details: details,
		},
	})
}

// Abort renders the error and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// File streams a generated document as an attachment.
func File(c *gin.Context, filename, contentType string, body []byte) {
	noStore(c)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, body)
}

func internalDetail(appErr *appErrors.Error) string {
	if gin.Mode() == gin.ReleaseMode {
		return genericInternalDetail
	}
	if appErr.Err != nil {
		return appErr.Err.Error()
	}
	return appErr.Message
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
