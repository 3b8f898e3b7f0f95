package dyndb

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
)

var errEmptyUpdate = errors.New("dyndb: update builder without actions")

// UpdateBuilder monta updateExpression, conditionExpression e os mapas de
// nomes e valores para Client.Update ou TransactWriteOp.Params.
type UpdateBuilder struct {
	update    expression.UpdateBuilder
	hasUpdate bool
	cond      *expression.ConditionBuilder
	returns   string
}

func NewUpdate() *UpdateBuilder {
	return &UpdateBuilder{}
}

func (ub *UpdateBuilder) Set(field string, value any) *UpdateBuilder {
	ub.update = ub.update.Set(expression.Name(field), expression.Value(value))
	ub.hasUpdate = true
	return ub
}

// SetIfMissing só grava value quando o atributo ainda não existe.
func (ub *UpdateBuilder) SetIfMissing(field string, value any) *UpdateBuilder {
	name := expression.Name(field)
	ub.update = ub.update.Set(name, expression.IfNotExists(name, expression.Value(value)))
	ub.hasUpdate = true
	return ub
}

func (ub *UpdateBuilder) Add(field string, value any) *UpdateBuilder {
	ub.update = ub.update.Add(expression.Name(field), expression.Value(value))
	ub.hasUpdate = true
	return ub
}

func (ub *UpdateBuilder) Remove(field string) *UpdateBuilder {
	ub.update = ub.update.Remove(expression.Name(field))
	ub.hasUpdate = true
	return ub
}

// Delete remove value de um atributo do tipo set.
func (ub *UpdateBuilder) Delete(field string, value any) *UpdateBuilder {
	ub.update = ub.update.Delete(expression.Name(field), expression.Value(value))
	ub.hasUpdate = true
	return ub
}

func (ub *UpdateBuilder) Condition(cond expression.ConditionBuilder) *UpdateBuilder {
	if ub.cond == nil {
		ub.cond = &cond
	} else {
		tmp := ub.cond.And(cond)
		ub.cond = &tmp
	}
	return ub
}

// IfExists exige que o item já exista (atributo de chave presente).
func (ub *UpdateBuilder) IfExists(keyAttr string) *UpdateBuilder {
	return ub.Condition(expression.AttributeExists(expression.Name(keyAttr)))
}

// ReturnValues define o returnValues do pedido (ALL_NEW, UPDATED_OLD, ...).
func (ub *UpdateBuilder) ReturnValues(v string) *UpdateBuilder {
	ub.returns = v
	return ub
}

// Params devolve os params lógicos. Um builder sem ações de update produz
// apenas a condição, útil para ConditionCheck em transações.
func (ub *UpdateBuilder) Params() (map[string]any, error) {
	if !ub.hasUpdate && ub.cond == nil {
		return nil, errEmptyUpdate
	}

	builder := expression.NewBuilder()
	if ub.hasUpdate {
		builder = builder.WithUpdate(ub.update)
	}
	if ub.cond != nil {
		builder = builder.WithCondition(*ub.cond)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, err
	}

	params := map[string]any{}
	setString(params, "updateExpression", expr.Update())
	setString(params, "conditionExpression", expr.Condition())
	if names := expr.Names(); len(names) > 0 {
		params["expressionAttributeNames"] = names
	}
	if values := expr.Values(); len(values) > 0 {
		params["expressionAttributeValues"] = values
	}
	if ub.returns != "" {
		params["returnValues"] = ub.returns
	}
	return params, nil
}
