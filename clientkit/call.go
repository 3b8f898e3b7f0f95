package clientkit

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/raywall/fast-aws-toolkit/pkg/metrics"
)

type fieldsKey struct{}

// ContextWithFields adiciona campos de log que serão anexados a toda chamada
// feita com o contexto devolvido. Campos de camadas externas são preservados
// e os novos prevalecem.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	merged := make(map[string]any, len(fields))
	for k, v := range FieldsFromContext(ctx) {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// FieldsFromContext devolve os campos acumulados por ContextWithFields.
func FieldsFromContext(ctx context.Context) map[string]any {
	fields, _ := ctx.Value(fieldsKey{}).(map[string]any)
	return fields
}

// Base guarda o logger e o provider de métricas de um wrapper já construído.
type Base struct {
	name      string
	requestID string
	log       zerolog.Logger
	metrics   metrics.Provider
}

// NewBase cria o contexto de log do wrapper com os campos client, class e reqId.
func NewBase[API, O any](class string, s *Settings[API, O], fields map[string]any) Base {
	lc := s.Logger.With().
		Str("client", s.Name).
		Str("class", class).
		Str("reqId", s.RequestID)
	if len(fields) > 0 {
		lc = lc.Fields(fields)
	}

	return Base{
		name:      s.Name,
		requestID: s.RequestID,
		log:       lc.Logger(),
		metrics:   s.Metrics,
	}
}

func (b Base) Name() string      { return b.name }
func (b Base) RequestID() string { return b.requestID }

func (b Base) Logger() *zerolog.Logger { return &b.log }

// Begin abre uma chamada. O logger filho vai para o contexto devolvido, de
// modo que zerolog.Ctx(ctx) dentro da chamada já carrega method e meta.
func (b Base) Begin(ctx context.Context, method string, meta map[string]any) (context.Context, *Call) {
	lc := b.log.With().Str("method", method)
	if fields := FieldsFromContext(ctx); len(fields) > 0 {
		lc = lc.Fields(fields)
	}
	if len(meta) > 0 {
		lc = lc.Interface("meta", meta)
	}

	call := &Call{
		log:     lc.Logger(),
		metrics: b.metrics,
		tags:    []string{"client:" + b.name, "method:" + method},
		started: time.Now(),
	}
	return call.log.WithContext(ctx), call
}

// Call acompanha uma única operação: start, data, end ou fail.
type Call struct {
	log     zerolog.Logger
	metrics metrics.Provider
	tags    []string
	started time.Time
}

func (c *Call) Logger() *zerolog.Logger { return &c.log }

// Start registra o início da chamada com a requisição já montada.
func (c *Call) Start(req any) {
	ev := c.log.Info()
	if req != nil {
		ev = ev.Interface("data", req)
	}
	ev.Msg("start")
	c.emit(c.metrics.Count(metrics.RequestCount, 1, c.tags))
}

// Data registra a resposta já normalizada em debug.
func (c *Call) Data(res any) {
	c.log.Debug().Interface("data", res).Msg("data")
}

// End fecha a chamada com sucesso.
func (c *Call) End() {
	c.log.Info().Msg("end")
	c.observeLatency()
}

// Fail registra o erro e o devolve sem alteração.
func (c *Call) Fail(err error) error {
	ev := c.log.Error().Err(err)
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		ev = ev.Str("code", coded.Code())
	}
	ev.Msg("fail")

	c.emit(c.metrics.Count(metrics.ErrorCount, 1, c.tags))
	c.observeLatency()
	return err
}

func (c *Call) observeLatency() {
	elapsed := float64(time.Since(c.started).Microseconds()) / 1000
	c.emit(c.metrics.Histogram(metrics.LatencyMs, elapsed, c.tags))
}

func (c *Call) emit(err error) {
	if err != nil {
		c.log.Debug().Err(err).Msg("metric not sent")
	}
}
