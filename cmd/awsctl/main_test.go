package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/raywall/fast-aws-toolkit/dyndb"
	"github.com/raywall/fast-aws-toolkit/eventbus"
	"github.com/raywall/fast-aws-toolkit/lambdainvoke"
	"github.com/raywall/fast-aws-toolkit/pkg/config"
	"github.com/raywall/fast-aws-toolkit/pkg/metrics"
	"github.com/raywall/fast-aws-toolkit/registry"
)

// --- Mocks ---

type MockLambda struct {
	mock.Mock
}

func (m *MockLambda) Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*lambda.InvokeOutput)
	return out, args.Error(1)
}

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*eventbridge.PutEventsOutput)
	return out, args.Error(1)
}

// MockTable implementa dyndb.API; apenas GetItem e Query são usados aqui.
type MockTable struct {
	mock.Mock
	dyndb.API
}

func (m *MockTable) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *MockTable) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.QueryOutput)
	return out, args.Error(1)
}

// --- Helpers ---

func testConfig() *config.Config {
	return &config.Config{
		Clients: config.ClientsConf{
			Lambda:      map[string]config.LambdaConf{"pricing": {FunctionName: "pricing-fn"}},
			EventBridge: map[string]config.EventBridgeConf{"orders-bus": {EventBusName: "orders"}},
			DynamoDB: map[string]config.DynamoDBConf{
				"orders":   {TableName: "orders", HashKey: "customerId", RangeKey: "orderId"},
				"sessions": {TableName: "sessions", HashKey: "id"},
			},
		},
	}
}

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	out := new(bytes.Buffer)
	return newApp(testConfig(), aws.Config{Region: "us-east-1"}, zerolog.Nop(), &metrics.NoopProvider{}, out), out
}

// register coloca o mock no registry sob o nome lógico do cliente.
func register[C any](t *testing.T, r *registry.Registry, name string, api C) {
	t.Helper()
	_, err := registry.Load(r, name, func() (C, error) { return api, nil })
	require.NoError(t, err)
}

// --- Testes ---

func TestRun_Usage(t *testing.T) {
	err := run(context.Background(), nil, io.Discard)
	assert.ErrorIs(t, err, errUsage)
}

func TestRun_LoadsConfig(t *testing.T) {
	original := appLoader
	defer func() { appLoader = original }()

	var source string
	appLoader = func(ctx context.Context, path string, out io.Writer) (*app, error) {
		source = path
		return newApp(testConfig(), aws.Config{}, zerolog.Nop(), &metrics.NoopProvider{}, out), nil
	}

	out := new(bytes.Buffer)
	err := run(context.Background(), []string{"-config", "s3://cfg/app.yaml", "validate"}, out)
	require.NoError(t, err)
	assert.Equal(t, "s3://cfg/app.yaml", source)

	var report map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, true, report["valid"])
	assert.Equal(t, []any{"orders", "orders-bus", "pricing", "sessions"}, report["clients"])
}

func TestLoadApp_LocalFile(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")
	path := filepath.Join(t.TempDir(), "awsctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging: {enabled: false}
clients:
  lambda:
    pricing: {function_name: pricing-fn}
`), 0o600))

	a, err := loadApp(context.Background(), path, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "pricing-fn", a.cfg.Clients.Lambda["pricing"].FunctionName)
	assert.Equal(t, "us-east-1", a.awsCfg.Region)
}

func TestDispatch_Invoke(t *testing.T) {
	a, out := newTestApp(t)
	api := new(MockLambda)
	register[lambdainvoke.API](t, a.registry, "pricing", api)

	api.On("Invoke", mock.Anything, mock.MatchedBy(func(in *lambda.InvokeInput) bool {
		return aws.ToString(in.FunctionName) == "pricing-fn"
	})).Return(&lambda.InvokeOutput{StatusCode: 200, Payload: []byte(`{"price":10}`)}, nil)

	err := a.dispatch(context.Background(), "invoke", []string{"-data", `{"sku":"a"}`})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":10}`, out.String())
	api.AssertExpectations(t)
}

func TestDispatch_Events(t *testing.T) {
	a, out := newTestApp(t)
	api := new(MockEvents)
	register[eventbus.API](t, a.registry, "orders-bus", api)

	var sent *eventbridge.PutEventsInput
	api.On("PutEvents", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*eventbridge.PutEventsInput) }).
		Return(&eventbridge.PutEventsOutput{}, nil)

	err := a.dispatch(context.Background(), "events", []string{
		"-data", `[{"source":"app","detailType":"created","time":"2024-01-02T03:04","detail":{"id":1}}]`,
	})
	require.NoError(t, err)
	require.Len(t, sent.Entries, 1)
	assert.Equal(t, "orders", aws.ToString(sent.Entries[0].EventBusName))
	assert.Equal(t, "2024-01-02T03:04:00Z", sent.Entries[0].Time.Format("2006-01-02T15:04:05Z07:00"))
	assert.JSONEq(t, `[]`, out.String())
}

func TestDispatch_DynamoDB(t *testing.T) {
	ctx := context.Background()

	t.Run("Get", func(t *testing.T) {
		a, out := newTestApp(t)
		api := new(MockTable)
		register[dyndb.API](t, a.registry, "orders", api)

		api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{
			Item: map[string]ddbtypes.AttributeValue{"customerId": &ddbtypes.AttributeValueMemberS{Value: "c1"}},
		}, nil)

		err := a.dispatch(ctx, "dynamodb", []string{"get", "-client", "orders", "-key", `{"customerId":"c1","orderId":"o1"}`})
		require.NoError(t, err)
		assert.JSONEq(t, `{"item":{"customerId":"c1"},"meta":{}}`, out.String())
	})

	t.Run("Query por hash", func(t *testing.T) {
		a, out := newTestApp(t)
		api := new(MockTable)
		register[dyndb.API](t, a.registry, "sessions", api)

		var sent *dynamodb.QueryInput
		api.On("Query", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(1).(*dynamodb.QueryInput) }).
			Return(&dynamodb.QueryOutput{Items: []map[string]ddbtypes.AttributeValue{}}, nil)

		err := a.dispatch(ctx, "dynamodb", []string{"query", "-client", "sessions", "-hash", "s1", "-limit", "5"})
		require.NoError(t, err)
		assert.Equal(t, int32(5), aws.ToInt32(sent.Limit))
		assert.Equal(t, "sessions", aws.ToString(sent.TableName))
		assert.JSONEq(t, `{"items":[],"nextPage":""}`, out.String())
	})

	t.Run("Cliente ambíguo", func(t *testing.T) {
		a, _ := newTestApp(t)
		err := a.dispatch(ctx, "dynamodb", []string{"get", "-key", `{"id":"1"}`})
		assert.ErrorIs(t, err, errUsage)
	})

	t.Run("Chave ausente", func(t *testing.T) {
		a, _ := newTestApp(t)
		register[dyndb.API](t, a.registry, "orders", new(MockTable))
		err := a.dispatch(ctx, "dynamodb", []string{"get", "-client", "orders", "-key", `{"customerId":"c1"}`})
		assert.EqualError(t, err, "Input missing rangeKey orderId")
	})
}

func TestDispatch_Errors(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	assert.ErrorIs(t, a.dispatch(ctx, "nope", nil), errUsage)
	assert.ErrorIs(t, a.dispatch(ctx, "s3", nil), errUsage)
	assert.ErrorIs(t, a.dispatch(ctx, "schedule", []string{"get"}), errUsage)
	assert.ErrorContains(t, a.dispatch(ctx, "sqs", []string{"-data", `{}`}), "-client is required")
	assert.ErrorContains(t, a.dispatch(ctx, "invoke", []string{"-client", "other", "-data", `{}`}), `no lambda client named "other"`)
}
