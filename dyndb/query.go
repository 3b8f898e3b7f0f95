package dyndb

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	json "github.com/goccy/go-json"
)

var errNoClient = errors.New("dyndb: query builder without client")

// QueryBuilder monta os params de Query com o pacote expression do SDK.
type QueryBuilder struct {
	client      *Client
	indexName   string
	keyCond     *expression.KeyConditionBuilder
	filterCond  *expression.ConditionBuilder
	projection  *expression.ProjectionBuilder
	limit       int32
	scanForward *bool
	lastKey     map[string]any
	err         error
}

// NewQuery inicia uma consulta ligada ao client. Sem client, Exec não pode
// ser chamado, mas Params funciona.
func NewQuery() *QueryBuilder {
	return &QueryBuilder{}
}

// NewQuery inicia uma consulta na tabela do client.
func (c *Client) NewQuery() *QueryBuilder {
	return &QueryBuilder{client: c}
}

func (qb *QueryBuilder) Index(name string) *QueryBuilder {
	qb.indexName = name
	return qb
}

func (qb *QueryBuilder) KeyEqual(key string, value any) *QueryBuilder {
	return qb.andKey(expression.KeyEqual(expression.Key(key), expression.Value(value)))
}

func (qb *QueryBuilder) KeyBeginsWith(key, prefix string) *QueryBuilder {
	return qb.andKey(expression.Key(key).BeginsWith(prefix))
}

func (qb *QueryBuilder) KeyBetween(key string, lower, upper any) *QueryBuilder {
	return qb.andKey(expression.Key(key).Between(expression.Value(lower), expression.Value(upper)))
}

func (qb *QueryBuilder) FilterEqual(field string, value any) *QueryBuilder {
	return qb.andFilter(expression.Equal(expression.Name(field), expression.Value(value)))
}

func (qb *QueryBuilder) FilterContains(field, substr string) *QueryBuilder {
	return qb.andFilter(expression.Contains(expression.Name(field), substr))
}

func (qb *QueryBuilder) FilterExists(field string) *QueryBuilder {
	return qb.andFilter(expression.AttributeExists(expression.Name(field)))
}

// Project limita os atributos devolvidos.
func (qb *QueryBuilder) Project(fields ...string) *QueryBuilder {
	for _, f := range fields {
		if qb.projection == nil {
			p := expression.NamesList(expression.Name(f))
			qb.projection = &p
			continue
		}
		p := qb.projection.AddNames(expression.Name(f))
		qb.projection = &p
	}
	return qb
}

func (qb *QueryBuilder) Limit(n int32) *QueryBuilder {
	qb.limit = n
	return qb
}

func (qb *QueryBuilder) ScanForward(forward bool) *QueryBuilder {
	qb.scanForward = &forward
	return qb
}

// LastKey continua a partir de um token devolvido por PageToken. Token vazio
// é ignorado; token inválido faz Params falhar.
func (qb *QueryBuilder) LastKey(token string) *QueryBuilder {
	if token == "" {
		return qb
	}
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		qb.err = err
		return qb
	}
	qb.err = json.Unmarshal(data, &qb.lastKey)
	return qb
}

func (qb *QueryBuilder) andKey(cond expression.KeyConditionBuilder) *QueryBuilder {
	if qb.keyCond == nil {
		qb.keyCond = &cond
	} else {
		tmp := qb.keyCond.And(cond)
		qb.keyCond = &tmp
	}
	return qb
}

func (qb *QueryBuilder) andFilter(cond expression.ConditionBuilder) *QueryBuilder {
	if qb.filterCond == nil {
		qb.filterCond = &cond
	} else {
		tmp := qb.filterCond.And(cond)
		qb.filterCond = &tmp
	}
	return qb
}

// Params devolve os params lógicos aceitos por Client.Query.
func (qb *QueryBuilder) Params() (map[string]any, error) {
	if qb.err != nil {
		return nil, qb.err
	}

	params := map[string]any{}
	if qb.keyCond == nil && qb.filterCond == nil && qb.projection == nil {
		return qb.options(params), nil
	}

	builder := expression.NewBuilder()
	if qb.keyCond != nil {
		builder = builder.WithKeyCondition(*qb.keyCond)
	}
	if qb.filterCond != nil {
		builder = builder.WithFilter(*qb.filterCond)
	}
	if qb.projection != nil {
		builder = builder.WithProjection(*qb.projection)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, err
	}

	setString(params, "keyConditionExpression", expr.KeyCondition())
	setString(params, "filterExpression", expr.Filter())
	setString(params, "projectionExpression", expr.Projection())
	if names := expr.Names(); len(names) > 0 {
		params["expressionAttributeNames"] = names
	}
	if values := expr.Values(); len(values) > 0 {
		params["expressionAttributeValues"] = values
	}
	return qb.options(params), nil
}

func (qb *QueryBuilder) options(params map[string]any) map[string]any {
	if qb.indexName != "" {
		params["indexName"] = qb.indexName
	}
	if qb.limit > 0 {
		params["limit"] = qb.limit
	}
	if qb.scanForward != nil {
		params["scanIndexForward"] = *qb.scanForward
	}
	if qb.lastKey != nil {
		params["exclusiveStartKey"] = qb.lastKey
	}
	return params
}

// Exec executa a consulta e devolve os itens e o token da próxima página
// ("" na última).
func (qb *QueryBuilder) Exec(ctx context.Context) ([]map[string]any, string, error) {
	if qb.client == nil {
		return nil, "", errNoClient
	}
	params, err := qb.Params()
	if err != nil {
		return nil, "", err
	}

	items, meta, err := qb.client.Query(ctx, params)
	if err != nil {
		return nil, "", err
	}
	token, err := PageToken(meta)
	if err != nil {
		return nil, "", err
	}
	return items, token, nil
}

// PageToken codifica o lastEvaluatedKey dos metadados de Query num token
// opaco para LastKey. Sem lastEvaluatedKey devolve "".
func PageToken(meta map[string]any) (string, error) {
	last, ok := meta["lastEvaluatedKey"]
	if !ok || last == nil {
		return "", nil
	}
	b, err := json.Marshal(last)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func setString(m map[string]any, key string, v *string) {
	if v != nil && *v != "" {
		m[key] = *v
	}
}
