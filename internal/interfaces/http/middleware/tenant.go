package middleware

import (
	"net/http"
	"strings"

	"github.com/factoryerp/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tenant context keys.
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantMiddlewareConfig configures tenant resolution. JWT claims win
// over the X-Tenant-ID header when both are present.
type TenantMiddlewareConfig struct {
	HeaderEnabled bool
	JWTEnabled    bool
	SkipPaths     []string
	Required      bool
	Logger        *zap.Logger
}

// TenantMiddlewareWithConfig resolves the tenant for the request and
// rejects it when Required is set and no tenant can be found.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		var tenantID, source string

		if cfg.JWTEnabled {
			if tid := c.GetString(JWTTenantIDKey); tid != "" {
				tenantID, source = tid, "jwt"
			}
		}
		if tenantID == "" && cfg.HeaderEnabled {
			if tid := c.GetHeader(TenantHeaderKey); tid != "" {
				tenantID, source = tid, "header"
			}
		}

		if tenantID != "" {
			if _, err := uuid.Parse(tenantID); err != nil {
				rejectTenant(c, "Invalid tenant ID format")
				return
			}
		}
		if tenantID == "" {
			if cfg.Required {
				rejectTenant(c, "Tenant identification required")
				return
			}
			c.Next()
			return
		}

		c.Set(TenantIDKey, tenantID)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithTenantID(ctx, log, tenantID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("tenant resolved",
				zap.String("tenant_id", tenantID),
				zap.String("source", source),
			)
		}

		c.Next()
	}
}

func rejectTenant(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": message},
	})
}

// GetTenantID reads the tenant ID stored by the tenant middleware.
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}
