package dyndb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/raywall/fast-aws-toolkit/envelope"
)

// ErrInvalidTransactOp indica uma ação de TransactWrite sem exatamente um
// entre Put, Delete, Update e ConditionCheck.
var ErrInvalidTransactOp = errors.New("dyndb: transact operation must set exactly one action")

// TransactGet lê vários itens da tabela numa transação. Todas as chaves são
// validadas antes do envio; os itens voltam na ordem das chaves (nil para os
// inexistentes).
func (c *Client) TransactGet(ctx context.Context, keys []map[string]any, params map[string]any) ([]map[string]any, map[string]any, error) {
	ctx, call := c.Begin(ctx, "transactGet", map[string]any{"keys": len(keys)})
	call.Start(keys)

	for _, key := range keys {
		if err := c.schema.Validate(key); err != nil {
			return nil, nil, call.Fail(err)
		}
	}

	in := dynamodb.TransactGetItemsInput{TransactItems: make([]types.TransactGetItem, 0, len(keys))}
	for _, key := range keys {
		var get types.Get
		if err := decodeRequest(envelope.Build(nil, nil, withKey(c.identity(), key), requestRules...), &get); err != nil {
			return nil, nil, call.Fail(err)
		}
		in.TransactItems = append(in.TransactItems, types.TransactGetItem{Get: &get})
	}
	if err := decodeTop(params, &in); err != nil {
		return nil, nil, call.Fail(err)
	}

	out, err := c.api.TransactGetItems(ctx, &in)
	if err != nil {
		return nil, nil, call.Fail(err)
	}

	items := make([]map[string]any, len(out.Responses))
	for i, res := range out.Responses {
		items[i] = asItem(normalize(res)["item"])
	}
	meta := normalize(out)
	delete(meta, "responses")

	call.Data(meta)
	call.End()
	return items, meta, nil
}

// TransactWrite executa as ações atomicamente. Todas são validadas antes do
// envio; qualquer chave ausente aborta a transação sem chamar a AWS.
func (c *Client) TransactWrite(ctx context.Context, ops []TransactWriteOp, params map[string]any) (map[string]any, error) {
	ctx, call := c.Begin(ctx, "transactWrite", map[string]any{"ops": len(ops)})
	call.Start(ops)

	for _, op := range ops {
		if err := c.validateOp(op); err != nil {
			return nil, call.Fail(err)
		}
	}

	in := dynamodb.TransactWriteItemsInput{TransactItems: make([]types.TransactWriteItem, 0, len(ops))}
	for _, op := range ops {
		item, err := c.writeItem(op)
		if err != nil {
			return nil, call.Fail(err)
		}
		in.TransactItems = append(in.TransactItems, item)
	}
	if err := decodeTop(params, &in); err != nil {
		return nil, call.Fail(err)
	}

	out, err := c.api.TransactWriteItems(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	data := normalize(out)
	call.Data(data)
	call.End()
	return data, nil
}

func (c *Client) validateOp(op TransactWriteOp) error {
	set := 0
	var target map[string]any
	for _, m := range []map[string]any{op.Put, op.Delete, op.Update, op.ConditionCheck} {
		if m != nil {
			set++
			target = m
		}
	}
	if set != 1 {
		return ErrInvalidTransactOp
	}
	return c.schema.Validate(target)
}

func (c *Client) writeItem(op TransactWriteOp) (types.TransactWriteItem, error) {
	identity := c.identity()

	switch {
	case op.Put != nil:
		identity["item"] = c.withTTL(op.Put)
		var put types.Put
		err := decodeRequest(envelope.Build(nil, op.Params, identity, requestRules...), &put)
		return types.TransactWriteItem{Put: &put}, err

	case op.Delete != nil:
		var del types.Delete
		err := decodeRequest(envelope.Build(nil, op.Params, withKey(identity, op.Delete), requestRules...), &del)
		return types.TransactWriteItem{Delete: &del}, err

	case op.Update != nil:
		var upd types.Update
		err := decodeRequest(envelope.Build(nil, op.Params, withKey(identity, op.Update), requestRules...), &upd)
		return types.TransactWriteItem{Update: &upd}, err

	default:
		var check types.ConditionCheck
		err := decodeRequest(envelope.Build(nil, op.Params, withKey(identity, op.ConditionCheck), requestRules...), &check)
		return types.TransactWriteItem{ConditionCheck: &check}, err
	}
}

// decodeTop aplica params de nível superior (clientRequestToken,
// returnConsumedCapacity, ...) sem tocar na lista de ações já montada.
func decodeTop(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	req := envelope.Build(nil, params, nil)
	delete(req, "TransactItems")
	if err := envelope.Decode(req, out); err != nil {
		return fmt.Errorf("dyndb: %w", err)
	}
	return nil
}
