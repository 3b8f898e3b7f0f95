// Package awsconfig carrega o aws.Config compartilhado pelos clientes e resolve
// valores guardados no SSM Parameter Store e no Secrets Manager.
package awsconfig

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/goccy/go-json"

	"github.com/raywall/fast-aws-toolkit/pkg/config"
)

// Load carrega a configuração da AWS (env vars, profile, IAM role).
// Região e profile vazios ficam a cargo da cadeia padrão do SDK.
func Load(ctx context.Context, conf config.AWSConf) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{}
	if conf.Region != "" {
		opts = append(opts, awscfg.WithRegion(conf.Region))
	}
	if conf.Profile != "" {
		opts = append(opts, awscfg.WithSharedConfigProfile(conf.Profile))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("awsconfig: load default config: %w", err)
	}
	return cfg, nil
}

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Resolver busca parâmetros e segredos. Satisfaz injector.Resolver.
type Resolver struct {
	ssm     SSMClient
	secrets SecretsClient
}

// NewResolver cria um Resolver com clientes reais a partir do aws.Config.
func NewResolver(cfg aws.Config) *Resolver {
	return &Resolver{
		ssm:     ssm.NewFromConfig(cfg),
		secrets: secretsmanager.NewFromConfig(cfg),
	}
}

// NewResolverWithClients permite injetar clientes (testes).
func NewResolverWithClients(ssmClient SSMClient, secretsClient SecretsClient) *Resolver {
	return &Resolver{ssm: ssmClient, secrets: secretsClient}
}

// Parameter lê um parâmetro do SSM, sempre com decriptação.
func (r *Resolver) Parameter(ctx context.Context, path string) (string, error) {
	out, err := r.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(path),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("awsconfig: ssm get parameter %s: %w", path, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("awsconfig: ssm parameter %s has no value", path)
	}
	return *out.Parameter.Value, nil
}

// Secret lê um segredo. O formato "id#campo" extrai um campo de um segredo JSON.
func (r *Resolver) Secret(ctx context.Context, ref string) (string, error) {
	secretID, field, hasField := strings.Cut(ref, "#")

	out, err := r.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", fmt.Errorf("awsconfig: secrets manager get %s: %w", secretID, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("awsconfig: secret %s has no string value", secretID)
	}
	if !hasField {
		return *out.SecretString, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(*out.SecretString), &data); err != nil {
		return "", fmt.Errorf("awsconfig: secret %s is not a json object: %w", secretID, err)
	}
	val, ok := data[field]
	if !ok {
		return "", fmt.Errorf("awsconfig: secret %s has no field %s", secretID, field)
	}
	return fmt.Sprintf("%v", val), nil
}
