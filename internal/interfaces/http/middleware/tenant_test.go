package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantRouter(cfg TenantMiddlewareConfig) (*gin.Engine, *string) {
	var seen string
	r := gin.New()
	r.Use(TenantMiddlewareWithConfig(cfg))
	r.GET("/api/v1/billing/payments", func(c *gin.Context) {
		seen = GetTenantID(c)
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, &seen
}

func requiredConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		Required:      true,
	}
}

func TestTenantFromHeader(t *testing.T) {
	tenantID := uuid.NewString()
	r, seen := tenantRouter(requiredConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/billing/payments", nil)
	req.Header.Set(TenantHeaderKey, tenantID)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tenantID, *seen)
}

func TestTenantJWTClaimWinsOverHeader(t *testing.T) {
	jwtTenant := uuid.NewString()
	headerTenant := uuid.NewString()

	var seen string
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(JWTTenantIDKey, jwtTenant) })
	r.Use(TenantMiddlewareWithConfig(requiredConfig()))
	r.GET("/api/v1/billing/payments", func(c *gin.Context) {
		seen = GetTenantID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/billing/payments", nil)
	req.Header.Set(TenantHeaderKey, headerTenant)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, jwtTenant, seen)
}

func TestTenantRequiredButMissing(t *testing.T) {
	r, _ := tenantRouter(requiredConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/billing/payments", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Tenant identification required")
}

func TestTenantMalformedID(t *testing.T) {
	r, _ := tenantRouter(requiredConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/billing/payments", nil)
	req.Header.Set(TenantHeaderKey, "not-a-uuid")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid tenant ID format")
}

func TestTenantOptional(t *testing.T) {
	cfg := requiredConfig()
	cfg.Required = false
	r, seen := tenantRouter(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/billing/payments", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, *seen)
}

func TestTenantSkipPaths(t *testing.T) {
	cfg := requiredConfig()
	cfg.SkipPaths = []string{"/health"}
	r, _ := tenantRouter(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantHeaderDisabled(t *testing.T) {
	cfg := requiredConfig()
	cfg.HeaderEnabled = false
	r, _ := tenantRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/billing/payments", nil)
	req.Header.Set(TenantHeaderKey, uuid.NewString())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
