package dyndb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/raywall/fast-aws-toolkit/clientkit"
	"github.com/raywall/fast-aws-toolkit/envelope"
	"github.com/raywall/fast-aws-toolkit/keyschema"
)

// Client opera sobre uma única tabela. É imutável após New e pode ser usado
// por várias goroutines.
type Client struct {
	clientkit.Base
	api    API
	cfg    TableConfig
	schema keyschema.Schema
	now    func() time.Time
}

// New valida a configuração da tabela e obtém o cliente do SDK (injetado,
// do registry ou criado a partir do aws.Config).
func New(ctx context.Context, cfg TableConfig, opts ...Option) (*Client, error) {
	if err := clientkit.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("dyndb: %w", err)
	}
	schema, err := keyschema.New(cfg.HashKey, cfg.RangeKey)
	if err != nil {
		return nil, err
	}

	s := clientkit.Apply(ctx, DefaultName, opts)
	api, err := s.Client(ctx, newAPI)
	if err != nil {
		return nil, fmt.Errorf("dyndb: %w", err)
	}

	fields := map[string]any{"tableName": cfg.TableName, "hashKey": cfg.HashKey}
	if cfg.RangeKey != "" {
		fields["rangeKey"] = cfg.RangeKey
	}

	return &Client{
		Base:   clientkit.NewBase("DynamodbDocumentClient", s, fields),
		api:    api,
		cfg:    cfg,
		schema: schema,
		now:    time.Now,
	}, nil
}

func newAPI(cfg aws.Config, fns ...func(*dynamodb.Options)) API {
	return dynamodb.NewFromConfig(cfg, fns...)
}

// TableName retorna o nome da tabela configurada.
func (c *Client) TableName() string { return c.cfg.TableName }

// Schema retorna o esquema de chaves da tabela.
func (c *Client) Schema() keyschema.Schema { return c.schema }

func (c *Client) identity() map[string]any {
	return map[string]any{"tableName": c.cfg.TableName}
}

// Get busca o item pela chave. Devolve o item (nil quando não existe) e os
// metadados da resposta, como consumedCapacity.
func (c *Client) Get(ctx context.Context, key map[string]any, params map[string]any) (map[string]any, map[string]any, error) {
	ctx, call := c.Begin(ctx, "get", map[string]any{"key": key})
	call.Start(params)

	if err := c.schema.Validate(key); err != nil {
		return nil, nil, call.Fail(err)
	}

	req := envelope.Build(nil, params, withKey(c.identity(), key), requestRules...)
	var in dynamodb.GetItemInput
	if err := decodeRequest(req, &in); err != nil {
		return nil, nil, call.Fail(err)
	}

	out, err := c.api.GetItem(ctx, &in)
	if err != nil {
		return nil, nil, call.Fail(err)
	}

	item, meta := envelope.Split(normalize(out), "item")
	call.Data(item)
	call.End()
	return asItem(item), meta, nil
}

// Put grava o item inteiro. O item precisa conter os atributos de chave.
// Quando a tabela tem TTL configurado e o item não traz o atributo, ele é
// preenchido com agora + TTL em epoch seconds.
func (c *Client) Put(ctx context.Context, item map[string]any, params map[string]any) (map[string]any, error) {
	ctx, call := c.Begin(ctx, "put", nil)
	call.Start(item)

	if err := c.schema.Validate(item); err != nil {
		return nil, call.Fail(err)
	}

	identity := c.identity()
	identity["item"] = c.withTTL(item)

	req := envelope.Build(nil, params, identity, requestRules...)
	var in dynamodb.PutItemInput
	if err := decodeRequest(req, &in); err != nil {
		return nil, call.Fail(err)
	}

	out, err := c.api.PutItem(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	data := normalize(out)
	call.Data(data)
	call.End()
	return data, nil
}

// Update aplica updateExpression (e demais params) ao item da chave. Use
// UpdateBuilder para montar os params.
func (c *Client) Update(ctx context.Context, key map[string]any, params map[string]any) (map[string]any, error) {
	ctx, call := c.Begin(ctx, "update", map[string]any{"key": key})
	call.Start(params)

	if err := c.schema.Validate(key); err != nil {
		return nil, call.Fail(err)
	}

	req := envelope.Build(nil, params, withKey(c.identity(), key), requestRules...)
	var in dynamodb.UpdateItemInput
	if err := decodeRequest(req, &in); err != nil {
		return nil, call.Fail(err)
	}

	out, err := c.api.UpdateItem(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	data := normalize(out)
	call.Data(data)
	call.End()
	return data, nil
}

// Delete remove o item da chave.
func (c *Client) Delete(ctx context.Context, key map[string]any, params map[string]any) (map[string]any, error) {
	ctx, call := c.Begin(ctx, "delete", map[string]any{"key": key})
	call.Start(params)

	if err := c.schema.Validate(key); err != nil {
		return nil, call.Fail(err)
	}

	req := envelope.Build(nil, params, withKey(c.identity(), key), requestRules...)
	var in dynamodb.DeleteItemInput
	if err := decodeRequest(req, &in); err != nil {
		return nil, call.Fail(err)
	}

	out, err := c.api.DeleteItem(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	data := normalize(out)
	call.Data(data)
	call.End()
	return data, nil
}

// Query executa uma consulta com os params informados (keyConditionExpression,
// expressionAttributeValues, indexName, ...). A paginação fica com o chamador:
// lastEvaluatedKey volta nos metadados.
func (c *Client) Query(ctx context.Context, params map[string]any) ([]map[string]any, map[string]any, error) {
	ctx, call := c.Begin(ctx, "query", nil)
	call.Start(params)

	req := envelope.Build(nil, params, c.identity(), requestRules...)
	var in dynamodb.QueryInput
	if err := decodeRequest(req, &in); err != nil {
		return nil, nil, call.Fail(err)
	}

	out, err := c.api.Query(ctx, &in)
	if err != nil {
		return nil, nil, call.Fail(err)
	}

	items, meta := envelope.Split(normalize(out), "items")
	call.Data(meta)
	call.End()
	return asItems(items), meta, nil
}

func (c *Client) withTTL(item map[string]any) map[string]any {
	if c.cfg.TTLAttribute == "" || c.cfg.TTL <= 0 {
		return item
	}
	if _, ok := item[c.cfg.TTLAttribute]; ok {
		return item
	}

	out := make(map[string]any, len(item)+1)
	for k, v := range item {
		out[k] = v
	}
	out[c.cfg.TTLAttribute] = c.now().Add(c.cfg.TTL).Unix()
	return out
}

func withKey(identity, key map[string]any) map[string]any {
	identity["key"] = key
	return identity
}
