package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_TraceError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO order_results", 0
	}, errors.New("disk I/O error"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "SQL Error", entries[0].Message)
	assert.Equal(t, "INSERT INTO order_results", entries[0].ContextMap()["sql"])
}

func TestGormLogger_IgnoresRecordNotFound(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM passes", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Empty(t, logs.All())
}

func TestGormLogger_SlowQuery(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn,
		WithSlowThreshold(time.Nanosecond))

	gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT * FROM order_results", 10
	}, nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
}

func TestGormLogger_CarriesPassID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Error)

	ctx, _ := WithPassID(context.Background(), zap.NewNop(), "pass-9")
	gl.Trace(ctx, time.Now(), func() (string, int64) {
		return "INSERT INTO passes", 0
	}, errors.New("locked"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pass-9", entries[0].ContextMap()["pass_id"])
}

func TestGormLogger_Silent(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, errors.New("ignored"))

	assert.Empty(t, logs.All())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}
