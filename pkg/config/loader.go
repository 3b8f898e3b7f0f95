package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/yaml.v3"

	"github.com/raywall/fast-aws-toolkit/pkg/config/injector"
)

// --- Interfaces para Mocking ---

type S3Downloader interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type DynamoGetter interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// ErrSourceUnavailable indica um esquema remoto sem cliente configurado.
var ErrSourceUnavailable = errors.New("config: no client configured for source")

// Loader lê a configuração de arquivo local, s3:// ou dynamodb://,
// resolve interpolações e valida o resultado.
type Loader struct {
	validator *ConfigValidator
	resolver  injector.Resolver
	s3        S3Downloader
	dynamo    DynamoGetter
}

type LoaderOption func(*Loader)

// WithResolver habilita ${ssm.} e ${secret.}.
func WithResolver(r injector.Resolver) LoaderOption {
	return func(l *Loader) { l.resolver = r }
}

// WithS3 habilita fontes s3://bucket/chave.
func WithS3(client S3Downloader) LoaderOption {
	return func(l *Loader) { l.s3 = client }
}

// WithDynamoDB habilita fontes dynamodb://tabela/chave?pk=id&col=config.
func WithDynamoDB(client DynamoGetter) LoaderOption {
	return func(l *Loader) { l.dynamo = client }
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{validator: NewValidator()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load detecta o esquema da fonte e carrega a configuração.
func (l *Loader) Load(ctx context.Context, source string) (*Config, error) {
	var (
		raw []byte
		err error
	)

	switch {
	case strings.HasPrefix(source, "s3://"):
		raw, err = l.loadFromS3(ctx, source)
	case strings.HasPrefix(source, "dynamodb://"):
		raw, err = l.loadFromDynamoDB(ctx, source)
	default:
		raw, err = os.ReadFile(strings.TrimPrefix(source, "file://"))
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", source, err)
	}

	return l.Parse(ctx, raw)
}

// Parse decodifica o YAML, aplica o injector e valida.
func (l *Loader) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: malformed yaml: %w", err)
	}

	if err := injector.New(l.resolver).Inject(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: injection failed: %w", err)
	}

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) loadFromS3(ctx context.Context, uri string) ([]byte, error) {
	if l.s3 == nil {
		return nil, ErrSourceUnavailable
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid s3 url: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (l *Loader) loadFromDynamoDB(ctx context.Context, uri string) ([]byte, error) {
	if l.dynamo == nil {
		return nil, ErrSourceUnavailable
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid dynamodb url: %w", err)
	}

	tableName := u.Host
	pkValue := strings.TrimPrefix(u.Path, "/")

	colName := u.Query().Get("col")
	if colName == "" {
		colName = "config"
	}
	pkName := u.Query().Get("pk")
	if pkName == "" {
		pkName = "id"
	}

	out, err := l.dynamo.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key: map[string]types.AttributeValue{
			pkName: &types.AttributeValueMemberS{Value: pkValue},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("item %s not found in %s", pkValue, tableName)
	}

	var item map[string]any
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	content, ok := item[colName].(string)
	if !ok {
		return nil, fmt.Errorf("column '%s' missing or not a string", colName)
	}
	return []byte(content), nil
}
