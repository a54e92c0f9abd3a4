package router

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/handler"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/middleware"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/service"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/config"
	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/logger"
	corsmiddleware "github.com/MaiNhanKiet/look-up-convocation2025/pkg/middleware/cors"
	reqidmiddleware "github.com/MaiNhanKiet/look-up-convocation2025/pkg/middleware/requestid"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/response"
)

// Dependencies groups everything the HTTP surface needs.
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *service.MetricsService
	Audit     *service.AuditService
	Auth      *service.AuthService
	RateLimit gin.HandlerFunc

	BachelorHandler *handler.BachelorHandler
	AuthHandler     *handler.AuthHandler
	MetricsHandler  *handler.MetricsHandler
}

// New builds the gin engine with middleware and routes registered.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api"}
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Warn("invalid trusted proxies, trusting none", zap.Strings("proxies", cfg.TrustedProxies), zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		response.Abort(c, appErrors.Wrap(fmt.Errorf("panic: %v", recovered), appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message))
	}))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Endpoint '%s' not found.", c.Request.URL.Path)))
	})

	if deps.MetricsHandler != nil {
		r.GET("/health", deps.MetricsHandler.Health)
		r.GET("/ready", deps.MetricsHandler.Ready)
		r.GET("/metrics", deps.MetricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(normalizePrefix(cfg.APIPrefix))
	if deps.RateLimit != nil {
		api.Use(deps.RateLimit)
	}

	if deps.AuthHandler != nil {
		api.POST("/user/google-login",
			middleware.Audit(deps.Audit, models.AuditActionLogin, models.AuditResourceAuthentication),
			deps.AuthHandler.GoogleLogin,
		)
	}

	if h := deps.BachelorHandler; h != nil {
		bachelor := api.Group("/bachelor")

		staff := []gin.HandlerFunc{}
		if cfg.Approval.RequireAuth && deps.Auth != nil {
			staff = append(staff, middleware.JWT(deps.Auth), middleware.RequireRoles(models.RoleEmployee, models.RoleAdmin))
		}

		exportAudit := middleware.Audit(deps.Audit, models.AuditActionExport, models.AuditResourceImageRequest)
		approveAudit := middleware.Audit(deps.Audit, models.AuditActionUpdate, models.AuditResourceImageRequest)

		bachelor.GET("/requests", chain(staff, h.ListRequests)...)
		bachelor.GET("/requests/export", chain(append([]gin.HandlerFunc{exportAudit}, staff...), h.ExportRequests)...)
		bachelor.PUT("/approve/:studentId", chain(append([]gin.HandlerFunc{approveAudit}, staff...), h.Approve)...)

		bachelor.GET("/:studentId", h.Get)
		// Staff checking a status are attributed in the audit trail; students stay anonymous.
		status := []gin.HandlerFunc{middleware.Audit(deps.Audit, models.AuditActionView, models.AuditResourceImageRequest)}
		if deps.Auth != nil {
			status = append(status, middleware.OptionalJWT(deps.Auth))
		}
		bachelor.GET("/:studentId/request-status", chain(status, h.RequestStatus)...)
		bachelor.POST("/:studentId/request-image",
			middleware.Audit(deps.Audit, models.AuditActionCreate, models.AuditResourceImageRequest),
			h.RequestImage,
		)
		bachelor.POST("/:studentId/missing-information",
			middleware.Audit(deps.Audit, models.AuditActionCreate, models.AuditResourceMissingInformation),
			h.MissingInformation,
		)
	}

	return r
}

func chain(base []gin.HandlerFunc, handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(base)+len(handlers))
	out = append(out, base...)
	return append(out, handlers...)
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || prefix == "/" {
		return "/"
	}
	return "/" + strings.Trim(prefix, "/")
}
