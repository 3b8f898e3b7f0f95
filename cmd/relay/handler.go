package main

import (
	"bytes"
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/raywall/fast-aws-toolkit/clientkit"
	"github.com/raywall/fast-aws-toolkit/eventbus"
	"github.com/raywall/fast-aws-toolkit/failure"
	"github.com/raywall/fast-aws-toolkit/pkg/config"
	"github.com/raywall/fast-aws-toolkit/pkg/metrics"
	"github.com/raywall/fast-aws-toolkit/registry"
)

// limite de entradas por PutEvents
const maxEntries = 10

// atributo SQS que sobrescreve o detail-type padrão
const detailTypeAttribute = "detailType"

// chave usada para corpos que não são objetos JSON
const detailBodyKey = "body"

type Config struct {
	Bus        eventbus.BusConfig
	Source     string `env:"RELAY_SOURCE" envDefault:"fast-aws-toolkit.relay"`
	DetailType string `env:"RELAY_DETAIL_TYPE" envDefault:"sqs.message"`

	AWS     config.AWSConf
	Logging config.LoggingConf
	Metrics config.MetricsConf
}

type handler struct {
	cfg      Config
	log      zerolog.Logger
	metrics  metrics.Provider
	registry *registry.Registry
	awsCfg   *aws.Config
}

func newHandler(cfg Config, log zerolog.Logger, provider metrics.Provider) *handler {
	return &handler{
		cfg:      cfg,
		log:      log,
		metrics:  provider,
		registry: registry.New(),
	}
}

// Handle publica as mensagens em lotes. Um erro de transporte devolve todas
// as mensagens do lote como falha; entradas rejeitadas pelo EventBridge
// devolvem apenas as mensagens correspondentes.
func (h *handler) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var res events.SQSEventResponse

	opts := []eventbus.Option{
		eventbus.WithRegistry(h.registry),
		eventbus.WithLogger(h.log),
		eventbus.WithMetrics(h.metrics),
	}
	if h.awsCfg != nil {
		opts = append(opts, eventbus.WithAWSConfig(*h.awsCfg))
	}

	// request id vem do contexto da invocação
	bus, err := eventbus.New(ctx, h.cfg.Bus, opts...)
	if err != nil {
		return res, err
	}
	ctx = clientkit.ContextWithFields(ctx, map[string]any{"messages": len(ev.Records)})

	for start := 0; start < len(ev.Records); start += maxEntries {
		end := min(start+maxEntries, len(ev.Records))
		batch := ev.Records[start:end]

		entries := make([]eventbus.Event, len(batch))
		for i, msg := range batch {
			entries[i] = h.event(msg)
		}

		_, err := bus.PutEvents(ctx, entries, nil)

		var failed *failure.FailedEntriesError
		switch {
		case err == nil:
		case errors.As(err, &failed):
			for i, record := range failed.Records {
				if _, rejected := record["errorCode"]; rejected && i < len(batch) {
					res.BatchItemFailures = append(res.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: batch[i].MessageId})
				}
			}
		default:
			for _, msg := range batch {
				res.BatchItemFailures = append(res.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: msg.MessageId})
			}
		}
	}

	return res, nil
}

func (h *handler) event(msg events.SQSMessage) eventbus.Event {
	ev := eventbus.Event{
		Source:     h.cfg.Source,
		DetailType: h.cfg.DetailType,
	}
	if msg.EventSourceARN != "" {
		ev.Resources = []string{msg.EventSourceARN}
	}
	if attr, ok := msg.MessageAttributes[detailTypeAttribute]; ok && attr.StringValue != nil {
		ev.DetailType = *attr.StringValue
	}

	ev.Detail = detail(msg.Body)
	return ev
}

// detail devolve o corpo como está quando ele é um objeto JSON; o EventBridge
// rejeita qualquer outro detail, então os demais vão embrulhados em {"body": ...}.
func detail(body string) any {
	trimmed := bytes.TrimSpace([]byte(body))
	if len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return map[string]any{detailBodyKey: body}
}
