// Comando relay é uma função Lambda que encaminha mensagens de uma fila SQS
// para um barramento do EventBridge. Mensagens cujo evento falhou voltam
// como falhas parciais do lote e são reentregues pela fila.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/raywall/fast-aws-toolkit/envloader"
	"github.com/raywall/fast-aws-toolkit/pkg/awsconfig"
	"github.com/raywall/fast-aws-toolkit/pkg/logger"
	"github.com/raywall/fast-aws-toolkit/pkg/metrics"
)

// Injetável para testes
var lambdaStarter = lambda.Start

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("relay: init")
	}
}

func run(ctx context.Context) error {
	var cfg Config
	if err := envloader.Load(&cfg); err != nil {
		return err
	}

	awsCfg, err := awsconfig.Load(ctx, cfg.AWS)
	if err != nil {
		return err
	}
	provider, err := metrics.Setup(cfg.Metrics)
	if err != nil {
		return err
	}

	h := newHandler(cfg, logger.Configure(cfg.Logging), provider)
	h.awsCfg = &awsCfg

	lambdaStarter(h.Handle)
	return nil
}
