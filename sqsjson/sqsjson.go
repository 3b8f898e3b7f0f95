// Package sqsjson publica mensagens JSON em uma fila SQS, com o request id
// propagado como atributo da mensagem.
package sqsjson

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/goccy/go-json"

	"github.com/raywall/fast-aws-toolkit/casing"
	"github.com/raywall/fast-aws-toolkit/clientkit"
	"github.com/raywall/fast-aws-toolkit/envelope"
)

// DefaultName é o nome do cliente no registry quando WithName não é usado.
const DefaultName = "sqs"

// API é o subconjunto do *sqs.Client usado pelo wrapper.
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type Option = clientkit.Option[API, sqs.Options]

var (
	WithName          = clientkit.WithName[API, sqs.Options]
	WithRequestID     = clientkit.WithRequestID[API, sqs.Options]
	WithLogger        = clientkit.WithLogger[API, sqs.Options]
	WithMetrics       = clientkit.WithMetrics[API, sqs.Options]
	WithRegistry      = clientkit.WithRegistry[API, sqs.Options]
	WithAWSConfig     = clientkit.WithAWSConfig[API, sqs.Options]
	WithAPI           = clientkit.WithAPI[API, sqs.Options]
	WithClientOptions = clientkit.WithClientOptions[API, sqs.Options]
)

// QueueConfig identifica a fila de destino pela URL.
type QueueConfig struct {
	QueueURL string `env:"SQS_QUEUE_URL,required" validate:"required"`
}

// nomes de atributos são definidos pelo usuário e não mudam de casing
var attributeRules = []casing.Rule{
	casing.KeepKeys("messageAttributes"),
	casing.KeepKeys("messageSystemAttributes"),
}

// Client envia mensagens JSON para uma fila.
type Client struct {
	clientkit.Base
	api      API
	queueURL string
}

// New valida cfg e resolve o cliente do SDK.
func New(ctx context.Context, cfg QueueConfig, opts ...Option) (*Client, error) {
	if err := clientkit.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("sqsjson: %w", err)
	}

	s := clientkit.Apply(ctx, DefaultName, opts)
	api, err := s.Client(ctx, newAPI)
	if err != nil {
		return nil, fmt.Errorf("sqsjson: %w", err)
	}

	return &Client{
		Base:     clientkit.NewBase("SqsClient", s, map[string]any{"queueUrl": cfg.QueueURL}),
		api:      api,
		queueURL: cfg.QueueURL,
	}, nil
}

func newAPI(cfg aws.Config, fns ...func(*sqs.Options)) API {
	return sqs.NewFromConfig(cfg, fns...)
}

// SendMessageJSON serializa input como corpo da mensagem. O atributo reqId é
// sempre adicionado; outros atributos vêm de params["messageAttributes"].
// Devolve o recibo com md5OfMessageBody, messageId e sequenceNumber.
func (c *Client) SendMessageJSON(ctx context.Context, input any, params map[string]any) (map[string]any, error) {
	ctx, call := c.Begin(ctx, "sendMessageJson", params)
	call.Start(input)

	body, err := json.Marshal(input)
	if err != nil {
		return nil, call.Fail(err)
	}

	req := envelope.Build(
		map[string]any{"messageBody": string(body)},
		params,
		map[string]any{"queueUrl": c.queueURL},
		attributeRules...,
	)
	envelope.Merge(req, "MessageAttributes", map[string]any{
		"reqId": map[string]any{
			"DataType":    "String",
			"StringValue": c.RequestID(),
		},
	})

	var in sqs.SendMessageInput
	if err := envelope.Decode(req, &in); err != nil {
		return nil, call.Fail(err)
	}

	out, err := c.api.SendMessage(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	data := envelope.Normalize(out)
	call.Data(data)
	call.End()
	return data, nil
}
