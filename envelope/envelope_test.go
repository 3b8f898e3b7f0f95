package envelope

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/raywall/fast-aws-toolkit/casing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Precedence(t *testing.T) {
	defaults := map[string]any{"contentType": "application/json", "body": "{}"}
	params := map[string]any{"contentType": "text/plain", "Bucket": "other", "bar": 2}
	identity := map[string]any{"bucket": "mine"}

	req := Build(defaults, params, identity)

	assert.Equal(t, map[string]any{
		"ContentType": "text/plain",
		"Body":        "{}",
		"Bucket":      "mine",
		"Bar":         2,
	}, req)
}

func TestBuild_Rules(t *testing.T) {
	req := Build(nil, map[string]any{
		"metadata": map[string]string{"request-id": "abc"},
	}, nil, casing.Keep("Metadata"))

	assert.Equal(t, map[string]string{"request-id": "abc"}, req["Metadata"])
}

func TestMerge(t *testing.T) {
	req := map[string]any{"Metadata": map[string]string{"baz": "5", "request-id": "caller"}}
	Merge(req, "Metadata", map[string]any{"request-id": "req-1"})
	assert.Equal(t, map[string]any{"baz": "5", "request-id": "req-1"}, req["Metadata"])

	empty := map[string]any{}
	Merge(empty, "MessageAttributes", map[string]any{"reqId": 1})
	assert.Equal(t, map[string]any{"reqId": 1}, empty["MessageAttributes"])
}

func TestDecode(t *testing.T) {
	wire := map[string]any{
		"QueueUrl":     "https://queue",
		"MessageBody":  `{"foo":2}`,
		"DelaySeconds": 3,
		"MessageAttributes": map[string]any{
			"reqId": map[string]any{"DataType": "String", "StringValue": "req-1"},
		},
		"Unknown": true,
	}

	var in sqs.SendMessageInput
	require.NoError(t, Decode(wire, &in))

	assert.Equal(t, "https://queue", aws.ToString(in.QueueUrl))
	assert.Equal(t, `{"foo":2}`, aws.ToString(in.MessageBody))
	assert.Equal(t, int32(3), in.DelaySeconds)
	assert.Equal(t, "req-1", aws.ToString(in.MessageAttributes["reqId"].StringValue))
}

func TestDecode_FieldNamesIgnoreCase(t *testing.T) {
	wire := Build(nil, map[string]any{
		"queueUrl": "https://queue",
		"messageAttributes": map[string]any{
			"traceId": map[string]any{"dataType": "String", "stringValue": "t-1"},
		},
		"messageSystemAttributes": map[string]any{
			"AWSTraceHeader": map[string]any{"dataType": "String", "stringValue": "root=1"},
		},
	}, nil, casing.KeepKeys("messageAttributes"), casing.KeepKeys("messageSystemAttributes"))

	var in sqs.SendMessageInput
	require.NoError(t, Decode(wire, &in))

	assert.Equal(t, "https://queue", aws.ToString(in.QueueUrl))
	require.Contains(t, in.MessageAttributes, "traceId", "nomes definidos pelo usuário não mudam")
	assert.Equal(t, "String", aws.ToString(in.MessageAttributes["traceId"].DataType))
	assert.Equal(t, "t-1", aws.ToString(in.MessageAttributes["traceId"].StringValue))
	attr := in.MessageSystemAttributes[string(sqstypes.MessageSystemAttributeNameForSendsAWSTraceHeader)]
	assert.Equal(t, "root=1", aws.ToString(attr.StringValue))
}

func TestNormalize(t *testing.T) {
	now := time.Unix(100, 0).UTC()
	out := &sqs.SendMessageOutput{
		MD5OfMessageBody: aws.String("md5-body"),
		MessageId:        aws.String("id-1"),
	}

	got := Normalize(out)
	assert.Equal(t, map[string]any{
		"md5OfMessageBody": "md5-body",
		"messageId":        "id-1",
	}, got)

	type withSpecial struct {
		Body         io.ReadCloser
		LastModified *time.Time
		Payload      []byte
		Metadata     map[string]string
		Status       sqstypes.MessageSystemAttributeName
		Unset        sqstypes.MessageSystemAttributeName
		Plain        string
		Count        int32
		Missing      *string
		Entries      []*sqstypes.Message
	}

	got = Normalize(withSpecial{
		Body:         io.NopCloser(strings.NewReader("x")),
		LastModified: &now,
		Payload:      []byte("abc"),
		Metadata:     map[string]string{"request-id": "r"},
		Status:       sqstypes.MessageSystemAttributeNameSenderId,
		Count:        4,
		Entries:      []*sqstypes.Message{{MessageId: aws.String("m1")}, nil},
	}, WithRules(casing.Keep("Metadata")))

	assert.Equal(t, map[string]any{
		"lastModified": now,
		"payload":      []byte("abc"),
		"metadata":     map[string]any{"request-id": "r"},
		"status":       "SenderId",
		"plain":        "",
		"count":        int32(4),
		"entries":      []any{map[string]any{"messageId": "m1"}, nil},
	}, got)
}

func TestNormalize_Hook(t *testing.T) {
	type marker struct{ V string }
	type output struct {
		Value marker
		Other string
	}

	got := Normalize(output{Value: marker{V: "x"}, Other: "y"}, WithValueHook(func(v any) (any, bool) {
		if m, ok := v.(marker); ok {
			return "hooked:" + m.V, true
		}
		return nil, false
	}))

	assert.Equal(t, map[string]any{"value": "hooked:x", "other": "y"}, got)
}

func TestSplit(t *testing.T) {
	data, meta := Split(map[string]any{"item": map[string]any{"a": 1}, "consumedCapacity": 3}, "item")
	assert.Equal(t, map[string]any{"a": 1}, data)
	assert.Equal(t, map[string]any{"consumedCapacity": 3}, meta)
}

func TestNormalizeEach_KeepsOrder(t *testing.T) {
	items := []sqstypes.Message{{MessageId: aws.String("1")}, {MessageId: aws.String("2")}}
	got := NormalizeEach(items)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0]["messageId"])
	assert.Equal(t, "2", got[1]["messageId"])
}
