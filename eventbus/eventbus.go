// Package eventbus publica eventos em um barramento do EventBridge.
package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"github.com/raywall/fast-aws-toolkit/clientkit"
	"github.com/raywall/fast-aws-toolkit/envelope"
	"github.com/raywall/fast-aws-toolkit/failure"
)

// DefaultName é o nome do cliente no registry quando WithName não é usado.
const DefaultName = "eventbridge"

// API é o subconjunto do *eventbridge.Client usado pelo wrapper.
type API interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Option configura o Client na construção.
type Option = clientkit.Option[API, eventbridge.Options]

var (
	WithName          = clientkit.WithName[API, eventbridge.Options]
	WithRequestID     = clientkit.WithRequestID[API, eventbridge.Options]
	WithLogger        = clientkit.WithLogger[API, eventbridge.Options]
	WithMetrics       = clientkit.WithMetrics[API, eventbridge.Options]
	WithRegistry      = clientkit.WithRegistry[API, eventbridge.Options]
	WithAWSConfig     = clientkit.WithAWSConfig[API, eventbridge.Options]
	WithAPI           = clientkit.WithAPI[API, eventbridge.Options]
	WithClientOptions = clientkit.WithClientOptions[API, eventbridge.Options]
)

// BusConfig identifica o barramento de destino.
type BusConfig struct {
	EventBusName string `env:"EVENT_BUS_NAME,required" validate:"required"`
}

// Client publica eventos sempre no mesmo barramento. É seguro para uso
// concorrente.
type Client struct {
	clientkit.Base
	api          API
	eventBusName string
}

// New valida cfg e resolve o cliente do SDK (injetado, do registry ou criado
// a partir do aws.Config).
func New(ctx context.Context, cfg BusConfig, opts ...Option) (*Client, error) {
	if err := clientkit.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("eventbus: %w", err)
	}

	s := clientkit.Apply(ctx, DefaultName, opts)
	api, err := s.Client(ctx, newAPI)
	if err != nil {
		return nil, fmt.Errorf("eventbus: %w", err)
	}

	return &Client{
		Base:         clientkit.NewBase("EventbridgeClient", s, map[string]any{"eventBusName": cfg.EventBusName}),
		api:          api,
		eventBusName: cfg.EventBusName,
	}, nil
}

func newAPI(cfg aws.Config, fns ...func(*eventbridge.Options)) API {
	return eventbridge.NewFromConfig(cfg, fns...)
}

// PutEvents envia os eventos para o barramento do cliente e devolve um
// resultado por evento, na mesma ordem (eventId ou errorCode/errorMessage).
// Se algum evento falhar, devolve *failure.FailedEntriesError com todos os
// resultados.
func (c *Client) PutEvents(ctx context.Context, events []Event, params map[string]any) ([]map[string]any, error) {
	ctx, call := c.Begin(ctx, "putEvents", params)
	call.Start(events)

	entries := make([]types.PutEventsRequestEntry, 0, len(events))
	for i, ev := range events {
		entry, err := ev.entry(c.eventBusName)
		if err != nil {
			return nil, call.Fail(fmt.Errorf("eventbus: event %d: %w", i, err))
		}
		entries = append(entries, entry)
	}

	req := envelope.Build(nil, params, nil)
	delete(req, "Entries")

	var in eventbridge.PutEventsInput
	if err := envelope.Decode(req, &in); err != nil {
		return nil, call.Fail(err)
	}
	in.Entries = entries

	out, err := c.api.PutEvents(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	data := envelope.NormalizeEach(out.Entries)
	if err := failure.CheckFailedEntries(out.FailedEntryCount, data); err != nil {
		return nil, call.Fail(err)
	}

	call.Data(data)
	call.End()
	return data, nil
}

// ParseTime aceita datas ISO-8601 parciais ("2020", "2020-01",
// "2020-01-02") ou completas e devolve o instante em UTC.
func ParseTime(s string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02", "2006-01", "2006"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("eventbus: invalid time %q", s)
}
