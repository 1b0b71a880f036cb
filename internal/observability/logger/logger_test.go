package logger

import (
	"context"
	"testing"

	obscontext "github.com/smallbiznis/labelworks/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuildConfigRejectsUnknownLevel(t *testing.T) {
	_, err := buildConfig(Config{Level: "loud"})
	require.Error(t, err)
}

func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := buildConfig(Config{Format: "CONSOLE"})
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
	assert.Nil(t, cfg.Sampling)
}

func TestBuildOptionsSkipsSamplingInDebug(t *testing.T) {
	assert.Empty(t, buildOptions(Config{Debug: true}))
	assert.Len(t, buildOptions(Config{}), 1)
	assert.Len(t, buildOptions(Config{IncludeCaller: true, IncludeStackOnError: true}), 3)
}

func TestWithContextAddsActor(t *testing.T) {
	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = obscontext.WithActor(ctx, "sato")

	log := WithContext(ctx, zap.NewNop())
	assert.NotNil(t, log)
	assert.Equal(t, "sato", obscontext.ActorFromContext(ctx))
}
