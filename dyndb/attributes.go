package dyndb

import (
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/raywall/fast-aws-toolkit/envelope"
)

// campos de requisição que carregam AttributeValue e não passam por JSON
var attributeFields = []string{"Key", "Item", "ExpressionAttributeValues", "ExclusiveStartKey"}

var attributeMapType = reflect.TypeOf(map[string]types.AttributeValue{})

// decodeRequest preenche out (ponteiro para input do SDK) a partir do pedido
// em formato de wire, convertendo os campos de atributo com attributevalue.
func decodeRequest(req map[string]any, out any) error {
	avs := make(map[string]map[string]types.AttributeValue, len(attributeFields))
	for _, field := range attributeFields {
		raw, ok := req[field]
		if !ok {
			continue
		}
		delete(req, field)

		av, err := toAttributeMap(raw)
		if err != nil {
			return fmt.Errorf("dyndb: marshal %s: %w", field, err)
		}
		avs[field] = av
	}

	if err := envelope.Decode(req, out); err != nil {
		return err
	}

	v := reflect.ValueOf(out).Elem()
	for field, av := range avs {
		f := v.FieldByName(field)
		if f.IsValid() && f.CanSet() && f.Type() == attributeMapType {
			f.Set(reflect.ValueOf(av))
		}
	}
	return nil
}

func toAttributeMap(v any) (map[string]types.AttributeValue, error) {
	switch m := v.(type) {
	case nil:
		return nil, nil
	case map[string]types.AttributeValue:
		return m, nil
	default:
		return attributevalue.MarshalMap(v)
	}
}

// attributeHook converte AttributeValue em valores Go durante a normalização.
func attributeHook(v any) (any, bool) {
	av, ok := v.(types.AttributeValue)
	if !ok {
		return nil, false
	}
	var out any
	if err := attributevalue.Unmarshal(av, &out); err != nil {
		return nil, false
	}
	return out, true
}

func normalize(v any) map[string]any {
	return envelope.Normalize(v,
		envelope.WithRules(responseRules...),
		envelope.WithValueHook(attributeHook),
	)
}

func asItem(v any) map[string]any {
	item, _ := v.(map[string]any)
	return item
}

func asItems(v any) []map[string]any {
	list, _ := v.([]any)
	items := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		items = append(items, asItem(entry))
	}
	return items
}
