package logger_test

import (
	"context"
	"testing"
	"time"

	"github.com/factoryerp/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newGormLogger(level gormlogger.LogLevel) (*logger.GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return logger.NewGormLogger(zap.New(core), level), logs
}

func sqlFunc(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLoggerTraceLogsQuery(t *testing.T) {
	gl, logs := newGormLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), sqlFunc("SELECT * FROM invoices", 3), nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "SQL Query", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "SELECT * FROM invoices", fields["sql"])
	assert.Equal(t, int64(3), fields["rows"])
}

func TestGormLoggerTraceSilent(t *testing.T) {
	gl, logs := newGormLogger(gormlogger.Silent)
	gl.Trace(context.Background(), time.Now(), sqlFunc("SELECT 1", 1), nil)
	assert.Empty(t, logs.All())
}

func TestGormLoggerTraceError(t *testing.T) {
	gl, logs := newGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), sqlFunc("INSERT INTO payments", 0), assert.AnError)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "SQL Error", entries[0].Message)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
}

func TestGormLoggerTraceSkipsRecordNotFound(t *testing.T) {
	gl, logs := newGormLogger(gormlogger.Error)
	gl.Trace(context.Background(), time.Now(), sqlFunc("SELECT * FROM customers", 0), gormlogger.ErrRecordNotFound)
	assert.Empty(t, logs.All())
}

func TestGormLoggerTraceSlowQuery(t *testing.T) {
	gl, logs := newGormLogger(gormlogger.Warn)

	// begin far enough in the past to cross the slow threshold
	begin := time.Now().Add(-time.Second)
	gl.Trace(context.Background(), begin, sqlFunc("SELECT * FROM payments", 100), nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "SLOW SQL")
}

func TestGormLoggerTraceIncludesRequestID(t *testing.T) {
	gl, logs := newGormLogger(gormlogger.Info)

	ctx, _ := logger.WithRequestID(context.Background(), zap.NewNop(), "req-99")
	gl.Trace(ctx, time.Now(), sqlFunc("SELECT 1", 1), nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-99", entries[0].ContextMap()["request_id"])
}

func TestGormLoggerLogMode(t *testing.T) {
	gl, logs := newGormLogger(gormlogger.Silent)

	verbose := gl.LogMode(gormlogger.Info)
	verbose.Info(context.Background(), "migrating %s", "payments")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "payments")

	// original stays silent
	gl.Info(context.Background(), "ignored")
	assert.Len(t, logs.All(), 1)
}
