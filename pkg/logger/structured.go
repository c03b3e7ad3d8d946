package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitStructured initializes the structured zerolog logger
func InitStructured(env string) {
	InitWithWriter(env, nil)
}

// InitWithWriter initializes the logger with an explicit writer (nil means stdout)
func InitWithWriter(env string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}

	var w io.Writer
	if isDevelopment(env) {
		// Pretty console output for development
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	} else {
		w = out
	}

	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", "whisperbox-backend").
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
}

// GetLogger returns the global zerolog logger
func GetLogger() *zerolog.Logger {
	return &zlog
}

// WithRequestID returns a logger with request_id field
func WithRequestID(requestID string) zerolog.Logger {
	return zlog.With().Str("request_id", requestID).Logger()
}

func isDevelopment(env string) bool {
	return env == "development" || env == "dev" || env == "local"
}
