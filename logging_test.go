package swiftcc

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, LogLevel(0))
	assert.Equal(t, zerolog.DebugLevel, LogLevel(1))
	assert.Equal(t, zerolog.TraceLevel, LogLevel(3))
}

func TestInitLogger(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	buf := new(bytes.Buffer)
	logger := InitLogger(buf, 0)
	logger.Info().Msg("skipping stage 1")
	logger.Debug().Msg("hidden")
	logger.Warn().Msg("careful")

	out := buf.String()
	assert.Contains(t, out, "skipping stage 1")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN: careful")

	t.Setenv(EnvLogLevel, "error")
	buf.Reset()
	logger = InitLogger(buf, 2)
	logger.Warn().Msg("careful")
	assert.Empty(t, buf.String())
}
