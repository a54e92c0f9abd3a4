package handler

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/middleware"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/validation"
	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
)

const maxBodyBytes = 1 << 20

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// inputFromContext collects path params, first query values and the decoded
// JSON body. A malformed body is reported as a validation error on "body".
func inputFromContext(c *gin.Context) (validation.Input, error) {
	input := validation.Input{
		Params: make(map[string]string, len(c.Params)),
		Query:  make(map[string]string),
		Body:   map[string]interface{}{},
	}
	for _, p := range c.Params {
		input.Params[p.Key] = p.Value
	}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			input.Query[key] = values[0]
		}
	}

	if c.Request.Body == nil {
		return input, nil
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return input, bodyError("Request body could not be read")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return input, nil
	}
	if err := json.Unmarshal(raw, &input.Body); err != nil {
		return input, bodyError("Request body must be a JSON object")
	}
	return input, nil
}

func bodyError(message string) error {
	return appErrors.NewValidation([]appErrors.Detail{{Field: "body", Message: message}})
}
