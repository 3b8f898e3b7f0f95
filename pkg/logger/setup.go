package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/raywall/fast-aws-toolkit/pkg/config"
)

// Configure monta o logger base dos clientes a partir da configuração do YAML.
// O nível vale para o processo inteiro (zerolog.SetGlobalLevel).
func Configure(cfg config.LoggingConf) zerolog.Logger {
	return New(cfg, os.Stdout)
}

// New é a versão de Configure com destino explícito.
func New(cfg config.LoggingConf, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	switch {
	case !cfg.Enabled:
		out = io.Discard
	case cfg.Format == "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Logger()
}
