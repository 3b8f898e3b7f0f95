// Package clientkit reúne o que os wrappers de serviço têm em comum: opções
// funcionais, resolução do cliente do SDK (injetado, em cache no registry ou
// criado a partir do aws.Config) e o ciclo de log e métricas de cada chamada.
package clientkit

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/raywall/fast-aws-toolkit/pkg/awsconfig"
	"github.com/raywall/fast-aws-toolkit/pkg/config"
	"github.com/raywall/fast-aws-toolkit/pkg/metrics"
	"github.com/raywall/fast-aws-toolkit/registry"
)

// Settings é o resultado das opções de um wrapper. API é a interface do SDK
// usada pelo wrapper e O o tipo Options do serviço.
type Settings[API, O any] struct {
	Name          string
	RequestID     string
	Logger        zerolog.Logger
	Metrics       metrics.Provider
	Registry      *registry.Registry
	AWSConfig     *aws.Config
	ClientOptions []func(*O)

	api    API
	hasAPI bool
}

type Option[API, O any] func(*Settings[API, O])

// WithName define o nome lógico do cliente (log e chave no registry).
func WithName[API, O any](name string) Option[API, O] {
	return func(s *Settings[API, O]) { s.Name = name }
}

// WithRequestID fixa o id de correlação em vez de derivá-lo do contexto.
func WithRequestID[API, O any](id string) Option[API, O] {
	return func(s *Settings[API, O]) { s.RequestID = id }
}

func WithLogger[API, O any](l zerolog.Logger) Option[API, O] {
	return func(s *Settings[API, O]) { s.Logger = l }
}

func WithMetrics[API, O any](p metrics.Provider) Option[API, O] {
	return func(s *Settings[API, O]) {
		if p != nil {
			s.Metrics = p
		}
	}
}

// WithRegistry compartilha o cliente do SDK entre wrappers com o mesmo nome.
func WithRegistry[API, O any](r *registry.Registry) Option[API, O] {
	return func(s *Settings[API, O]) { s.Registry = r }
}

func WithAWSConfig[API, O any](cfg aws.Config) Option[API, O] {
	return func(s *Settings[API, O]) { s.AWSConfig = &cfg }
}

// WithAPI injeta o cliente do SDK (ou um mock). Ignora registry e aws.Config.
func WithAPI[API, O any](api API) Option[API, O] {
	return func(s *Settings[API, O]) {
		s.api = api
		s.hasAPI = true
	}
}

// WithClientOptions repassa funções de opção ao NewFromConfig do serviço.
func WithClientOptions[API, O any](fns ...func(*O)) Option[API, O] {
	return func(s *Settings[API, O]) { s.ClientOptions = append(s.ClientOptions, fns...) }
}

// Apply resolve as opções sobre os padrões do wrapper.
func Apply[API, O any](ctx context.Context, defaultName string, opts []Option[API, O]) *Settings[API, O] {
	s := &Settings[API, O]{
		Name:    defaultName,
		Logger:  log.Logger,
		Metrics: &metrics.NoopProvider{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.RequestID == "" {
		s.RequestID = RequestIDFromContext(ctx)
	}
	return s
}

// Client devolve o cliente do SDK: o injetado, o do registry ou um novo.
func (s *Settings[API, O]) Client(ctx context.Context, newClient func(aws.Config, ...func(*O)) API) (API, error) {
	if s.hasAPI {
		return s.api, nil
	}

	return registry.Load(s.Registry, s.Name, func() (API, error) {
		cfg := s.AWSConfig
		if cfg == nil {
			loaded, err := awsconfig.Load(ctx, config.AWSConf{})
			if err != nil {
				var zero API
				return zero, err
			}
			cfg = &loaded
		}
		return newClient(*cfg, s.ClientOptions...), nil
	})
}

// RequestIDFromContext usa o AwsRequestID da invocação Lambda quando presente
// e gera um UUID caso contrário.
func RequestIDFromContext(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}
