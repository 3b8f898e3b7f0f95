package envelope

import (
	"io"
	"reflect"
	"time"

	"github.com/raywall/fast-aws-toolkit/casing"
)

// Option ajusta a normalização de uma resposta.
type Option func(*normalizer)

// WithRules repassa regras de preservação ao tradutor de casing.
func WithRules(rules ...casing.Rule) Option {
	return func(n *normalizer) {
		n.rules = append(n.rules, rules...)
	}
}

// WithValueHook permite converter valores específicos do SDK (ex.: attribute
// values do DynamoDB) antes do percurso genérico. O hook devolve ok=false
// para os valores que não reconhece.
func WithValueHook(hook func(v any) (out any, ok bool)) Option {
	return func(n *normalizer) {
		n.hook = hook
	}
}

type normalizer struct {
	rules []casing.Rule
	hook  func(any) (any, bool)
}

var timeType = reflect.TypeOf(time.Time{})

// Normalize converte uma struct de saída do SDK em um mapa em camelCase.
// Ponteiros nil, slices nil, enums vazios, streams e ResultMetadata são omitidos; time.Time
// e []byte são mantidos como estão.
func Normalize(v any, opts ...Option) map[string]any {
	n := &normalizer{}
	for _, opt := range opts {
		opt(n)
	}

	out, ok := n.walk(reflect.ValueOf(v))
	m, isMap := out.(map[string]any)
	if !ok || !isMap {
		return map[string]any{}
	}
	return casing.MapToLogical(m, n.rules...)
}

// NormalizeEach normaliza uma lista preservando a ordem.
func NormalizeEach[T any](items []T, opts ...Option) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, item := range items {
		out[i] = Normalize(item, opts...)
	}
	return out
}

func (n *normalizer) walk(v reflect.Value) (any, bool) {
	if !v.IsValid() {
		return nil, false
	}
	if (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer || v.Kind() == reflect.Map) && v.IsNil() {
		return nil, false
	}

	if v.CanInterface() {
		iface := v.Interface()
		if n.hook != nil {
			if out, ok := n.hook(iface); ok {
				return out, true
			}
		}
		if _, ok := iface.(io.Reader); ok {
			return nil, false
		}
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		return n.walk(v.Elem())

	case reflect.Struct:
		if v.Type() == timeType {
			return v.Interface(), true
		}
		t := v.Type()
		m := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Name == "ResultMetadata" {
				continue
			}
			if val, ok := n.walk(v.Field(i)); ok {
				m[f.Name] = val
			}
		}
		return m, true

	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface(), true
		}
		m := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			if val, ok := n.walk(iter.Value()); ok {
				m[iter.Key().String()] = val
			}
		}
		return m, true

	case reflect.Slice:
		if v.IsNil() {
			return nil, false
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return append([]byte(nil), v.Bytes()...), true
		}
		fallthrough

	case reflect.Array:
		list := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			val, _ := n.walk(v.Index(i))
			list = append(list, val)
		}
		return list, true

	case reflect.String:
		// enums do SDK (type X string) viram string simples; o valor vazio
		// de um enum significa campo ausente
		if v.Len() == 0 && v.Type().PkgPath() != "" {
			return nil, false
		}
		return v.String(), true

	default:
		return v.Interface(), true
	}
}

// Split separa o valor principal (ex.: Item) do restante dos metadados.
func Split(m map[string]any, key string) (any, map[string]any) {
	meta := make(map[string]any, len(m))
	for k, v := range m {
		if k != key {
			meta[k] = v
		}
	}
	return m[key], meta
}
