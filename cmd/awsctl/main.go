package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `uso: awsctl [-config arquivo] <comando> [flags]

comandos:
  validate                          valida o arquivo de configuração
  invoke   -client -data -params    invoca uma função Lambda
  schedule get|create|update|delete agenda no EventBridge Scheduler
  events   -client -data -params    publica eventos no EventBridge
  sqs      -client -data -params    envia mensagem JSON para a fila
  s3       put|get -key             grava ou lê objetos JSON
  dynamodb get|put|update|delete|query
`

// Injetável para testes
var appLoader = loadApp

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "awsctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := newFlagSet("awsctl")
	configPath := global.String("config", envOr("AWSCTL_CONFIG", "awsctl.yaml"), "arquivo YAML, s3:// ou dynamodb://")
	if err := global.Parse(args); err != nil {
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprint(out, usage)
		return errUsage
	}

	a, err := appLoader(ctx, *configPath, out)
	if err != nil {
		return err
	}
	return a.dispatch(ctx, rest[0], rest[1:])
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
