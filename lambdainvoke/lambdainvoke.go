// Package lambdainvoke invoca funções Lambda com payload JSON e classifica as
// respostas de erro (status fora de 2xx e erro da função).
package lambdainvoke

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/goccy/go-json"

	"github.com/raywall/fast-aws-toolkit/clientkit"
	"github.com/raywall/fast-aws-toolkit/envelope"
	"github.com/raywall/fast-aws-toolkit/failure"
)

// DefaultName é o nome do cliente no registry quando WithName não é usado.
const DefaultName = "lambda"

// API é o subconjunto do *lambda.Client usado pelo wrapper.
type API interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

type Option = clientkit.Option[API, lambda.Options]

var (
	WithName          = clientkit.WithName[API, lambda.Options]
	WithRequestID     = clientkit.WithRequestID[API, lambda.Options]
	WithLogger        = clientkit.WithLogger[API, lambda.Options]
	WithMetrics       = clientkit.WithMetrics[API, lambda.Options]
	WithRegistry      = clientkit.WithRegistry[API, lambda.Options]
	WithAWSConfig     = clientkit.WithAWSConfig[API, lambda.Options]
	WithAPI           = clientkit.WithAPI[API, lambda.Options]
	WithClientOptions = clientkit.WithClientOptions[API, lambda.Options]
)

// FunctionConfig identifica a função invocada (nome, ARN ou ARN parcial).
type FunctionConfig struct {
	FunctionName string `env:"LAMBDA_FUNCTION_NAME,required" validate:"required"`
}

// Client invoca uma única função com payloads JSON.
type Client struct {
	clientkit.Base
	api          API
	functionName string
}

// New valida cfg e resolve o cliente do SDK.
func New(ctx context.Context, cfg FunctionConfig, opts ...Option) (*Client, error) {
	if err := clientkit.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("lambdainvoke: %w", err)
	}

	s := clientkit.Apply(ctx, DefaultName, opts)
	api, err := s.Client(ctx, newAPI)
	if err != nil {
		return nil, fmt.Errorf("lambdainvoke: %w", err)
	}

	return &Client{
		Base:         clientkit.NewBase("LambdaClient", s, map[string]any{"clientFunctionName": cfg.FunctionName}),
		api:          api,
		functionName: cfg.FunctionName,
	}, nil
}

func newAPI(cfg aws.Config, fns ...func(*lambda.Options)) API {
	return lambda.NewFromConfig(cfg, fns...)
}

// InvokeJSON envia input acrescido de reqId como payload e devolve o payload
// de resposta decodificado (nil quando vazio). Params aceita, por exemplo,
// invocationType e qualifier.
func (c *Client) InvokeJSON(ctx context.Context, input map[string]any, params map[string]any) (any, error) {
	ctx, call := c.Begin(ctx, "invokeJson", params)
	call.Start(input)

	body := make(map[string]any, len(input)+1)
	for k, v := range input {
		body[k] = v
	}
	body["reqId"] = c.RequestID()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, call.Fail(err)
	}

	req := envelope.Build(nil, params, map[string]any{"functionName": c.functionName})
	delete(req, "Payload")

	var in lambda.InvokeInput
	if err := envelope.Decode(req, &in); err != nil {
		return nil, call.Fail(err)
	}
	in.Payload = payload

	out, err := c.api.Invoke(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	if err := failure.CheckStatusCode(statusCode(out.StatusCode)); err != nil {
		return nil, call.Fail(err)
	}
	if err := failure.CheckFunctionError(out.FunctionError, out.Payload); err != nil {
		return nil, call.Fail(err)
	}

	var data any
	if len(out.Payload) > 0 {
		if err := json.Unmarshal(out.Payload, &data); err != nil {
			return nil, call.Fail(fmt.Errorf("lambdainvoke: decode payload: %w", err))
		}
	}

	call.Data(map[string]any{"statusCode": out.StatusCode, "payload": data})
	call.End()
	return data, nil
}

// o SDK usa zero quando a resposta não traz status
func statusCode(code int32) *int32 {
	if code == 0 {
		return nil
	}
	return &code
}
