package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/factoryerp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRouterMountsUnderVersionPrefix(t *testing.T) {
	engine := newEngine()
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	billing := router.NewDomainGroup("billing", "/billing")
	billing.GET("/cheques", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"total": 0})
	})
	r.Register(billing)
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/cheques", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/billing/cheques", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterDefaultVersion(t *testing.T) {
	engine := newEngine()
	r := router.NewRouter(engine)

	system := router.NewDomainGroup("system", "/system")
	system.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(system)
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterMiddlewareAppliesToAllGroups(t *testing.T) {
	engine := newEngine()
	r := router.NewRouter(engine)

	var seen []string
	r.Use(func(c *gin.Context) {
		seen = append(seen, c.Request.URL.Path)
		c.Next()
	})

	billing := router.NewDomainGroup("billing", "/billing")
	billing.POST("/invoices", func(c *gin.Context) { c.Status(http.StatusCreated) })
	partner := router.NewDomainGroup("partner", "/partner")
	partner.GET("/customers", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.Register(billing).Register(partner)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/billing/invoices", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/partner/customers", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"/api/v1/billing/invoices", "/api/v1/partner/customers"}, seen)
}

func TestDomainGroupMethods(t *testing.T) {
	engine := newEngine()
	r := router.NewRouter(engine)

	group := router.NewDomainGroup("partner", "/partner")
	group.PUT("/customers/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	group.DELETE("/customers/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, "partner", group.Name())

	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/partner/customers/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/partner/customers/42", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
