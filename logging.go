package swiftcc

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogLevel overrides the log level picked from the verbosity.
const EnvLogLevel = "SWIFTCC_LOG_LEVEL"

// LogLevel maps a verbosity count to a log level.
func LogLevel(verbose int) zerolog.Level {
	switch {
	case verbose <= 0:
		return zerolog.InfoLevel
	case verbose == 1:
		return zerolog.DebugLevel
	}
	return zerolog.TraceLevel
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	}
	return zerolog.InfoLevel, false
}

// InitLogger sets up the global logger to print human readable lines to
// w. A nil w logs to stderr.
func InitLogger(w io.Writer, verbose int) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := LogLevel(verbose)
	if l, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		level = l
	}

	output := zerolog.ConsoleWriter{
		Out:         w,
		NoColor:     true,
		PartsOrder:  []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: formatLevel,
	}
	logger := zerolog.New(output).Level(level)
	log.Logger = logger
	return logger
}

func formatLevel(i interface{}) string {
	s, _ := i.(string)
	switch s {
	case "", zerolog.LevelInfoValue:
		return ""
	}
	return strings.ToUpper(s) + ":"
}
