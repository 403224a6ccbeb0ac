package database

import (
	"context"
	"errors"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/time"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestExtractQueryType(t *testing.T) {
	assert.Equal(t, "SELECT", extractQueryType(`  select * from users`))
	assert.Equal(t, "INSERT", extractQueryType(`INSERT INTO "users" ("id") VALUES ('1')`))
	assert.Equal(t, "UPDATE", extractQueryType(`UPDATE upload_status SET owner = ''`))
	assert.Equal(t, "DELETE", extractQueryType(`DELETE FROM users`))
	assert.Equal(t, "", extractQueryType(`BEGIN`))
}

func TestExtractTableName(t *testing.T) {
	assert.Equal(t, "users", extractTableName(`SELECT * FROM "users" WHERE id = 1`))
	assert.Equal(t, "users", extractTableName("INSERT INTO `users` (`id`) VALUES (1)"))
	assert.Equal(t, "upload_status", extractTableName(`UPDATE "upload_status" SET "owner"=''`))
	assert.Equal(t, "", extractTableName(`BEGIN`))
}

func TestParseGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, ParseGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, ParseGormLogLevel("ERROR"))
	assert.Equal(t, gormlogger.Warn, ParseGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, ParseGormLogLevel("debug"))
}

func TestDatabaseLoggerTrace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dbLogger := NewDatabaseLogger(logger.NewZapLoggerFromCore(core), timeprovider.NewRealTimeProvider(), "info")

	ctx := coreport.WithRequestID(context.Background(), "req-1")
	dbLogger.Trace(ctx, time.Now(), func() (string, int64) {
		return `SELECT * FROM "users"`, 2
	}, nil)
	dbLogger.Trace(ctx, time.Now(), func() (string, int64) {
		return `INSERT INTO "users"`, 0
	}, errors.New("UNIQUE constraint failed: users.login"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, "SQL Query", entries[0].Message)
	assert.Equal(t, "users", entries[0].ContextMap()["table"])
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "database", entries[0].ContextMap()["source"])

	assert.Equal(t, "SQL Error", entries[1].Message)
	assert.Equal(t, "INSERT", entries[1].ContextMap()["type"])
}

func TestDatabaseLoggerSilent(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dbLogger := NewDatabaseLogger(logger.NewZapLoggerFromCore(core), nil, "silent")

	dbLogger.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, errors.New("boom"))
	dbLogger.Error(context.Background(), "failed %s", "x")

	assert.Zero(t, logs.Len())
}

func TestDatabaseLoggerSlowQuery(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dbLogger := NewDatabaseLogger(logger.NewZapLoggerFromCore(core), timeprovider.NewRealTimeProvider(), "warn").(*DatabaseLogger).
		WithSlowThreshold(time.Millisecond)

	dbLogger.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return `SELECT * FROM "users"`, 30
	}, nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "Slow SQL Query", entries[0].Message)
	assert.Equal(t, int64(30), entries[0].ContextMap()["rows"])
}
