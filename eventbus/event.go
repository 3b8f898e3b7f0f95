package eventbus

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/goccy/go-json"
)

// Event é a forma lógica de uma entrada do PutEvents. Campos vazios são
// omitidos da requisição; Detail é serializado em JSON (json.RawMessage é
// enviado como está).
type Event struct {
	Time        time.Time `json:"time,omitempty"`
	Source      string    `json:"source"`
	Resources   []string  `json:"resources,omitempty"`
	DetailType  string    `json:"detailType"`
	Detail      any       `json:"detail,omitempty"`
	TraceHeader string    `json:"traceHeader,omitempty"`
}

func (e Event) entry(eventBusName string) (types.PutEventsRequestEntry, error) {
	entry := types.PutEventsRequestEntry{
		EventBusName: aws.String(eventBusName),
		Resources:    e.Resources,
	}
	if e.Source != "" {
		entry.Source = aws.String(e.Source)
	}
	if e.DetailType != "" {
		entry.DetailType = aws.String(e.DetailType)
	}
	if e.TraceHeader != "" {
		entry.TraceHeader = aws.String(e.TraceHeader)
	}
	if !e.Time.IsZero() {
		entry.Time = aws.Time(e.Time.UTC())
	}

	switch detail := e.Detail.(type) {
	case nil:
	case json.RawMessage:
		entry.Detail = aws.String(string(detail))
	default:
		raw, err := json.Marshal(detail)
		if err != nil {
			return entry, err
		}
		entry.Detail = aws.String(string(raw))
	}
	return entry, nil
}
