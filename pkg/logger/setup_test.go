package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/raywall/fast-aws-toolkit/pkg/config"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	t.Run("Default Level Info", func(t *testing.T) {
		_ = Configure(config.LoggingConf{Enabled: true})
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("Custom Level Debug", func(t *testing.T) {
		_ = Configure(config.LoggingConf{Enabled: true, Level: "DEBUG"})
		assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("Invalid Level falls back to Info", func(t *testing.T) {
		_ = Configure(config.LoggingConf{Enabled: true, Level: "loud"})
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})
}

func TestNew(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	t.Run("JSON output", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.LoggingConf{Enabled: true, Format: "json"}, &buf)
		log.Info().Str("client", "sqs").Msg("start")

		assert.Contains(t, buf.String(), `"client":"sqs"`)
		assert.Contains(t, buf.String(), `"message":"start"`)
		assert.Contains(t, buf.String(), `"time"`)
	})

	t.Run("Disabled Logger", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.LoggingConf{Enabled: false}, &buf)
		log.Info().Msg("teste")
		assert.Empty(t, buf.String())
	})

	t.Run("Console output", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.LoggingConf{Enabled: true, Format: "console"}, &buf)
		log.Info().Msg("end")
		assert.Contains(t, buf.String(), "end")
		assert.NotContains(t, buf.String(), `"message"`)
	})
}
