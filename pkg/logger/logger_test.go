package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gst-billing-api/pkg/logger"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &line))
	return line
}

func TestNew_JSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "gst-billing", Out: &buf})

	log.Info().Str("invoice_number", "GST-7").Msg("invoice created")
	log.Debug().Msg("dropped below level")

	line := lastLine(t, &buf)
	assert.Equal(t, "invoice created", line["message"])
	assert.Equal(t, "GST-7", line["invoice_number"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "gst-billing", line["service"])
	assert.Contains(t, line, "time")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestNew_ConsoleInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "development", Level: "debug", Out: &buf})

	log.Debug().Msg("schema up to date")

	out := buf.String()
	assert.Contains(t, out, "schema up to date")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))), "console output is not JSON")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Service: "gst-billing", Out: &buf})

	log.Component("cache").Warn().Msg("discarding corrupt cache entry")

	line := lastLine(t, &buf)
	assert.Equal(t, "cache", line["component"])
	assert.Equal(t, "gst-billing", line["service"])
	assert.Equal(t, "warn", line["level"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, logger.ParseLevel(in), "%q", in)
	}
}

func TestNop_Discards(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Component("http").Error().Msg("ignored") })
}
