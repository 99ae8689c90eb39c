package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}).
	With().Timestamp().Logger().Level(zerolog.InfoLevel)

func SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		log = log.Level(zerolog.DebugLevel)
	case "warn":
		log = log.Level(zerolog.WarnLevel)
	case "error":
		log = log.Level(zerolog.ErrorLevel)
	default:
		log = log.Level(zerolog.InfoLevel)
	}
}

func IsDebugEnabled() bool {
	return log.GetLevel() <= zerolog.DebugLevel
}

// L returns the root logger for call sites that want structured fields.
func L() *zerolog.Logger {
	return &log
}

func Debugf(format string, v ...any) {
	log.Debug().Msgf(format, v...)
}

func Infof(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func Warnf(format string, v ...any) {
	log.Warn().Msgf(format, v...)
}

func Errorf(format string, v ...any) {
	log.Error().Msgf(format, v...)
}

// Fatalf logs and exits; startup-only.
func Fatalf(format string, v ...any) {
	log.Fatal().Msgf(format, v...)
}
