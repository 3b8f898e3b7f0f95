// Package envelope monta os pedidos enviados aos SDKs da AWS e normaliza as
// respostas de volta para o formato lógico (camelCase).
//
// Um pedido é montado em três camadas, da menor para a maior precedência:
// defaults calculados pelo cliente, params do chamador e campos de identidade
// do cliente (nome do recurso, request id). Campos de identidade nunca podem
// ser sobrescritos pelo chamador.
package envelope

import (
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"
	"github.com/raywall/fast-aws-toolkit/casing"
)

// Build retorna o pedido em formato de wire.
func Build(defaults, params, identity map[string]any, rules ...casing.Rule) map[string]any {
	out := make(map[string]any, len(defaults)+len(params)+len(identity))
	for _, layer := range []map[string]any{defaults, params, identity} {
		for k, v := range casing.MapToWire(layer, rules...) {
			out[k] = v
		}
	}
	return out
}

// Merge combina values dentro do objeto req[key], preservando o que o chamador
// já tinha enviado. Em caso de conflito, values vence.
func Merge(req map[string]any, key string, values map[string]any) {
	merged := make(map[string]any, len(values))
	switch existing := req[key].(type) {
	case map[string]any:
		for k, v := range existing {
			merged[k] = v
		}
	case map[string]string:
		for k, v := range existing {
			merged[k] = v
		}
	}
	for k, v := range values {
		merged[k] = v
	}
	req[key] = merged
}

// Decode preenche out (normalmente *<Service>Input do SDK) a partir do pedido em
// formato de wire. Os nomes são casados sem diferenciar caixa (acl → ACL);
// chaves desconhecidas pelo SDK são ignoradas.
func Decode(wire map[string]any, out any) error {
	var aligned any = wire
	if t := reflect.TypeOf(out); t != nil {
		aligned = alignKeys(wire, t)
	}
	raw, err := json.Marshal(aligned)
	if err != nil {
		return fmt.Errorf("envelope: encode request: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("envelope: decode request into %T: %w", out, err)
	}
	return nil
}
