package logger

import (
	"os"
	"strings"
	"time"

	"splitledger-backend/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger handed to every component. The global
// zerolog logger is pointed at the same writer so startup logs match.
func New(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Logging.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	logger = logger.Level(level).With().Timestamp().Logger()

	log.Logger = logger
	return logger
}
