package sqsjson

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSQS struct {
	mock.Mock
}

func (m *MockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*sqs.SendMessageOutput)
	return out, args.Error(1)
}

const (
	queueURL = "mock-queue-url"
	reqID    = "mock-req-id"
)

var receipt = &sqs.SendMessageOutput{
	MD5OfMessageBody:             aws.String("mock-md5-of-message-body"),
	MD5OfMessageAttributes:       aws.String("mock-md5-of-message-attributes"),
	MD5OfMessageSystemAttributes: aws.String("mock-md5-of-message-system-attributes"),
	MessageId:                    aws.String("mock-message-id"),
	SequenceNumber:               aws.String("mock-sequence-number"),
}

var receiptFormatted = map[string]any{
	"md5OfMessageBody":             "mock-md5-of-message-body",
	"md5OfMessageAttributes":       "mock-md5-of-message-attributes",
	"md5OfMessageSystemAttributes": "mock-md5-of-message-system-attributes",
	"messageId":                    "mock-message-id",
	"sequenceNumber":               "mock-sequence-number",
}

func newClient(t *testing.T, api API) *Client {
	t.Helper()
	client, err := New(context.Background(), QueueConfig{QueueURL: queueURL},
		WithAPI(api),
		WithRequestID(reqID),
		WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	return client
}

func TestNew(t *testing.T) {
	t.Run("Config inválida", func(t *testing.T) {
		_, err := New(context.Background(), QueueConfig{}, WithAPI(new(MockSQS)))
		assert.ErrorContains(t, err, "QueueURL")
	})

	t.Run("Nome padrão", func(t *testing.T) {
		client := newClient(t, new(MockSQS))
		assert.Equal(t, DefaultName, client.Name())
		assert.Equal(t, reqID, client.RequestID())
	})
}

func TestSendMessageJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("Retorna o recibo", func(t *testing.T) {
		api := new(MockSQS)
		api.On("SendMessage", mock.Anything, &sqs.SendMessageInput{
			QueueUrl:    aws.String(queueURL),
			MessageBody: aws.String(`{"foo":2}`),
			MessageAttributes: map[string]types.MessageAttributeValue{
				"reqId": {DataType: aws.String("String"), StringValue: aws.String(reqID)},
			},
		}).Return(receipt, nil)

		data, err := newClient(t, api).SendMessageJSON(ctx, map[string]any{"foo": 2}, nil)
		require.NoError(t, err)
		assert.Equal(t, receiptFormatted, data)
		api.AssertExpectations(t)
	})

	t.Run("Repassa params", func(t *testing.T) {
		api := new(MockSQS)
		api.On("SendMessage", mock.Anything, &sqs.SendMessageInput{
			QueueUrl:     aws.String(queueURL),
			MessageBody:  aws.String(`{"foo":2}`),
			DelaySeconds: 3,
			MessageAttributes: map[string]types.MessageAttributeValue{
				"reqId":  {DataType: aws.String("String"), StringValue: aws.String(reqID)},
				"baz_ID": {DataType: aws.String("String"), StringValue: aws.String("4")},
			},
		}).Return(receipt, nil)

		data, err := newClient(t, api).SendMessageJSON(ctx, map[string]any{"foo": 2}, map[string]any{
			"delaySeconds": 3,
			"unknownField": true,
			"messageAttributes": map[string]any{
				"baz_ID": map[string]any{"dataType": "String", "stringValue": "4"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, receiptFormatted, data)
		api.AssertExpectations(t)
	})

	t.Run("Identidade prevalece sobre params", func(t *testing.T) {
		api := new(MockSQS)
		api.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			return *in.QueueUrl == queueURL && *in.MessageAttributes["reqId"].StringValue == reqID
		})).Return(receipt, nil)

		_, err := newClient(t, api).SendMessageJSON(ctx, map[string]any{}, map[string]any{
			"queueUrl": "other-queue",
			"messageAttributes": map[string]any{
				"reqId": map[string]any{"dataType": "String", "stringValue": "spoofed"},
			},
		})
		require.NoError(t, err)
		api.AssertExpectations(t)
	})

	t.Run("Erro do cliente é devolvido sem alteração", func(t *testing.T) {
		api := new(MockSQS)
		sdkErr := errors.New("foo")
		api.On("SendMessage", mock.Anything, mock.Anything).Return(nil, sdkErr)

		_, err := newClient(t, api).SendMessageJSON(ctx, map[string]any{}, nil)
		assert.Same(t, sdkErr, err)
	})

	t.Run("Input não serializável", func(t *testing.T) {
		api := new(MockSQS)
		_, err := newClient(t, api).SendMessageJSON(ctx, make(chan int), nil)
		assert.Error(t, err)
		api.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})
}
