// Package fast_aws_toolkit reúne wrappers finos sobre os serviços gerenciados
// da AWS (DynamoDB, S3, SQS, EventBridge, Lambda e EventBridge Scheduler).
//
// Todos os wrappers seguem o mesmo contrato:
//   - pedidos e respostas em camelCase (map[string]any), convertidos para o
//     formato do SDK apenas no envio;
//   - log estruturado (zerolog) por chamada: start, data, end ou fail;
//   - um request id por cliente, vindo do contexto Lambda ou gerado (uuid),
//     propagado no payload, na mensagem ou nos metadados do objeto;
//   - erros tipados para sinais de falha do serviço (chave ausente, entradas
//     rejeitadas, status fora de 2xx, erro da função).
//
// Sub-Pacotes Principais:
//
// 1. Clientes:
//   - dyndb: itens como documentos, transações, QueryBuilder e UpdateBuilder.
//   - s3json: objetos JSON, com gzip opcional.
//   - sqsjson, eventbus, lambdainvoke, scheduler.
//
// 2. Infraestrutura comum:
//   - casing, envelope, keyschema, failure: tradução de chaves, montagem de
//     pedidos, validação de chaves e classificação de falhas.
//   - clientkit: opções funcionais, registry de clientes do SDK, log e métricas
//     por chamada.
//   - envloader e pkg/config: configuração por variáveis de ambiente ou YAML.
//
// Exemplo de Início Rápido:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/raywall/fast-aws-toolkit/envloader"
//		"github.com/raywall/fast-aws-toolkit/lambdainvoke"
//		"github.com/raywall/fast-aws-toolkit/registry"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		// LAMBDA_FUNCTION_NAME é obrigatória
//		var cfg lambdainvoke.FunctionConfig
//		envloader.MustLoad(&cfg)
//
//		reg := registry.New()
//		pricing, err := lambdainvoke.New(ctx, cfg, lambdainvoke.WithRegistry(reg))
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		res, err := pricing.InvokeJSON(ctx, map[string]any{"sku": "a-1"}, nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("preço: %v", res)
//	}
package fast_aws_toolkit
