package logger_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/factoryerp/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestEngine(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(logger.GinMiddleware(log))
	return engine
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	engine := newTestEngine(zap.New(core))
	engine.GET("/invoices", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices?status=UNPAID", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "/invoices", fields["path"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "status=UNPAID", fields["query"])
}

func TestGinMiddlewareWarnsOnClientError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	engine := newTestEngine(zap.New(core))
	engine.POST("/payments", func(c *gin.Context) {
		c.Status(http.StatusUnprocessableEntity)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payments", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
}

func TestGinMiddlewareErrorsOnServerError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	engine := newTestEngine(zap.New(core))
	engine.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
}

func TestGetGinLoggerInsideHandler(t *testing.T) {
	core, _ := observer.New(zap.InfoLevel)
	engine := newTestEngine(zap.New(core))

	var handlerLog *zap.Logger
	engine.GET("/cheques", func(c *gin.Context) {
		handlerLog = logger.GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cheques", nil))
	require.NotNil(t, handlerLog)
}

func TestGetGinLoggerWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	log := logger.GetGinLogger(c)
	require.NotNil(t, log)
	log.Info("ignored")
}

func TestRecoveryLogsPanicAndReturns500(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(logger.Recovery(zap.New(core)))
	engine.GET("/panic", func(c *gin.Context) {
		panic("settlement drift")
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Equal(t, "settlement drift", entries[0].ContextMap()["error"])
}
