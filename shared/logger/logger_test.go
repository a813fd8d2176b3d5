package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofcoz/config"
	"ofcoz/shared/logger"
)

func restoreGlobals(t *testing.T) {
	t.Helper()

	original := log.Logger
	level := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})
}

func TestInitLogger(t *testing.T) {
	restoreGlobals(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestSetLogLevel(t *testing.T) {
	restoreGlobals(t)

	tests := []struct {
		logLevel string
		want     zerolog.Level
	}{
		{logLevel: "debug", want: zerolog.DebugLevel},
		{logLevel: "info", want: zerolog.InfoLevel},
		{logLevel: "warn", want: zerolog.WarnLevel},
		{logLevel: "error", want: zerolog.ErrorLevel},
		{logLevel: "", want: zerolog.TraceLevel},
		{logLevel: "loud", want: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.logLevel

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestNew_TagsServiceIdentity(t *testing.T) {
	restoreGlobals(t)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	cfg := &config.Config{}
	cfg.App.Name = "ofcoz"
	cfg.Server.Env = "production"

	var buf bytes.Buffer

	l := logger.New(&buf, cfg)
	l.Info().Str("booking_id", "b-1").Msg("booking confirmed")

	line := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "ofcoz", line["app"])
	assert.Equal(t, "production", line["env"])
	assert.Equal(t, "b-1", line["booking_id"])
	assert.Equal(t, "booking confirmed", line["message"])
}

func TestComponent(t *testing.T) {
	restoreGlobals(t)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	l := logger.Component("worker")
	l.Info().Msg("started")

	assert.Contains(t, buf.String(), `"component":"worker"`)
}

func TestErrorWithStack(t *testing.T) {
	restoreGlobals(t)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger.ErrorWithStack(errors.New("refund_br15_hours failed"))

	assert.Contains(t, buf.String(), "refund_br15_hours failed")
	assert.Contains(t, buf.String(), `"level":"error"`)
}
