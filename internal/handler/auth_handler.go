package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/dto"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/validation"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/response"
)

type authService interface {
	GoogleLogin(ctx context.Context, req dto.GoogleLoginRequest) (*dto.GoogleLoginResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service   authService
	validator *validation.Validator
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, validator *validation.Validator) *AuthHandler {
	if validator == nil {
		validator = validation.New()
	}
	return &AuthHandler{service: svc, validator: validator}
}

// GoogleLogin godoc
// @Summary Sign in with Google
// @Description Exchanges a Google ID token for a session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} response.Envelope{data=dto.GoogleLoginResponse}
// @Failure 401 {object} response.ErrorEnvelope
// @Failure 404 {object} response.ErrorEnvelope
// @Failure 422 {object} response.ErrorEnvelope
// @Router /user/google-login [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	input, err := inputFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	values, err := h.validator.Run(c.Request.Context(), validation.GoogleLoginSchema(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.GoogleLogin(c.Request.Context(), dto.GoogleLoginRequest{
		GoogleToken: values.Get("googleToken"),
		IP:          c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Đăng nhập thành công", res)
}
