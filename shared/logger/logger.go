package logger

import (
	"io"
	"ofcoz/config"
	"ofcoz/shared/constant"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a console logger at trace level so config loading can log before Setup runs.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// Setup applies the configured level and, outside development, switches to JSON lines tagged with the app and env.
func Setup(cfg *config.Config) {
	SetLogLevel(cfg)

	if cfg.Server.Env == constant.ServerEnvDevelopment || cfg.Server.Env == "" {
		return
	}

	log.Logger = New(os.Stdout, cfg)
}

// New builds a JSON logger carrying the service identity.
func New(w io.Writer, cfg *config.Config) zerolog.Logger {
	return zerolog.New(w).With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("env", cfg.Server.Env).
		Logger()
}

// Component scopes the global logger to one part of the process, e.g. "worker".
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
