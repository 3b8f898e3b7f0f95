package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/raywall/fast-aws-toolkit/pkg/awsconfig"
	"github.com/raywall/fast-aws-toolkit/pkg/config"
	"github.com/raywall/fast-aws-toolkit/pkg/logger"
	"github.com/raywall/fast-aws-toolkit/pkg/metrics"
	"github.com/raywall/fast-aws-toolkit/registry"
)

var errUsage = errors.New("invalid usage")

// app é a raiz de composição: configuração, aws.Config e registry
// compartilhados por todos os clientes criados nos comandos.
type app struct {
	cfg      *config.Config
	awsCfg   aws.Config
	registry *registry.Registry
	log      zerolog.Logger
	metrics  metrics.Provider
	out      io.Writer
}

func loadApp(ctx context.Context, source string, out io.Writer) (*app, error) {
	// credenciais do ambiente servem para buscar a própria configuração
	bootstrap, err := awsconfig.Load(ctx, config.AWSConf{})
	if err != nil {
		return nil, err
	}

	loader := config.NewLoader(
		config.WithResolver(awsconfig.NewResolver(bootstrap)),
		config.WithS3(s3.NewFromConfig(bootstrap)),
		config.WithDynamoDB(dynamodb.NewFromConfig(bootstrap)),
	)
	cfg, err := loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	awsCfg := bootstrap
	if cfg.AWS.Region != "" || cfg.AWS.Profile != "" {
		if awsCfg, err = awsconfig.Load(ctx, cfg.AWS); err != nil {
			return nil, err
		}
	}

	provider, err := metrics.Setup(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	return newApp(cfg, awsCfg, logger.Configure(cfg.Logging), provider, out), nil
}

func newApp(cfg *config.Config, awsCfg aws.Config, log zerolog.Logger, provider metrics.Provider, out io.Writer) *app {
	return &app{
		cfg:      cfg,
		awsCfg:   awsCfg,
		registry: registry.New(),
		log:      log,
		metrics:  provider,
		out:      out,
	}
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "validate":
		return a.validate()
	case "invoke":
		return a.invoke(ctx, args)
	case "schedule":
		return a.schedule(ctx, args)
	case "events":
		return a.events(ctx, args)
	case "sqs":
		return a.sqs(ctx, args)
	case "s3":
		return a.s3(ctx, args)
	case "dynamodb":
		return a.dynamodb(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) validate() error {
	names := a.cfg.Clients.Names()
	sort.Strings(names)
	return a.print(map[string]any{"valid": true, "clients": names})
}

func (a *app) print(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(raw))
	return err
}

// pick escolhe o cliente pelo nome ou, sem nome, o único configurado.
func pick[C any](kind string, clients map[string]C, name string) (string, C, error) {
	var zero C
	if name != "" {
		c, ok := clients[name]
		if !ok {
			return "", zero, fmt.Errorf("no %s client named %q", kind, name)
		}
		return name, c, nil
	}
	if len(clients) != 1 {
		return "", zero, fmt.Errorf("%w: -client is required, %d %s clients configured", errUsage, len(clients), kind)
	}
	for n, c := range clients {
		return n, c, nil
	}
	return "", zero, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// commonFlags são aceitas por todos os comandos de cliente.
type commonFlags struct {
	client string
	data   string
	params string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.client, "client", "", "nome lógico do cliente na configuração")
	fs.StringVar(&c.data, "data", "", "entrada JSON (ou @arquivo)")
	fs.StringVar(&c.params, "params", "", "params JSON repassados ao SDK (ou @arquivo)")
}

func (c *commonFlags) paramsMap() (map[string]any, error) {
	if c.params == "" {
		return nil, nil
	}
	var params map[string]any
	if err := readJSON(c.params, &params); err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}
	return params, nil
}

func (c *commonFlags) decodeData(v any) error {
	if c.data == "" {
		return fmt.Errorf("%w: -data is required", errUsage)
	}
	if err := readJSON(c.data, v); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	return nil
}
