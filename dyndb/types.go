package dyndb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/raywall/fast-aws-toolkit/casing"
	"github.com/raywall/fast-aws-toolkit/clientkit"
)

const DefaultName = "dynamodb-document"

// API interface para abstrair o cliente DynamoDB
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactGetItems(ctx context.Context, params *dynamodb.TransactGetItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactGetItemsOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

type Option = clientkit.Option[API, dynamodb.Options]

var (
	WithName          = clientkit.WithName[API, dynamodb.Options]
	WithRequestID     = clientkit.WithRequestID[API, dynamodb.Options]
	WithLogger        = clientkit.WithLogger[API, dynamodb.Options]
	WithMetrics       = clientkit.WithMetrics[API, dynamodb.Options]
	WithRegistry      = clientkit.WithRegistry[API, dynamodb.Options]
	WithAWSConfig     = clientkit.WithAWSConfig[API, dynamodb.Options]
	WithAPI           = clientkit.WithAPI[API, dynamodb.Options]
	WithClientOptions = clientkit.WithClientOptions[API, dynamodb.Options]
)

// TableConfig descreve a tabela e o schema de chaves.
type TableConfig struct {
	TableName string `env:"DYNAMODB_TABLE_NAME,required" validate:"required"`
	HashKey   string `env:"DYNAMODB_HASH_KEY,required"`
	RangeKey  string `env:"DYNAMODB_RANGE_KEY"` // opcional

	// Com TTLAttribute e TTL definidos, Put preenche o atributo (epoch em
	// segundos) nos itens que não o trazem.
	TTLAttribute string        `env:"DYNAMODB_TTL_ATTRIBUTE"`
	TTL          time.Duration `env:"DYNAMODB_TTL"`
}

// TransactWriteOp é uma ação de TransactWrite. Exatamente um entre Put,
// Delete, Update e ConditionCheck deve ser informado; Put recebe o item e os
// demais a chave. Params leva expressões e valores da ação.
type TransactWriteOp struct {
	Put            map[string]any
	Delete         map[string]any
	Update         map[string]any
	ConditionCheck map[string]any
	Params         map[string]any
}

// atributos de item nunca mudam de casing, em nenhuma direção
var (
	requestRules = []casing.Rule{
		casing.Keep("item"),
		casing.Keep("key"),
		casing.Keep("exclusiveStartKey"),
		casing.Keep("expressionAttributeValues"),
		casing.Keep("expressionAttributeNames"),
	}
	responseRules = []casing.Rule{
		casing.Keep("item"),
		casing.Keep("items"),
		casing.Keep("attributes"),
		casing.Keep("lastEvaluatedKey"),
		casing.Keep("itemCollectionKey"),
	}
)
