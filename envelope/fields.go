package envelope

import (
	"reflect"
	"strings"
)

// alignKeys renomeia as chaves de v para os nomes de campo de t. O codec JSON
// só casa nomes exatos, então "Acl" precisa virar "ACL" e "SseKmsKeyId" virar
// "SSEKMSKeyId" antes de chegar ao input do SDK. Chaves sem campo
// correspondente ficam como estão.
func alignKeys(v any, t reflect.Type) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			return v
		}
		out := make(map[string]any, len(m))
		for k, val := range m {
			if f, ok := fieldFor(t, k); ok {
				out[jsonName(f)] = alignKeys(val, f.Type)
				continue
			}
			out[k] = val
		}
		return out

	case reflect.Slice, reflect.Array:
		list, ok := v.([]any)
		if !ok {
			return v
		}
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = alignKeys(item, t.Elem())
		}
		return out

	case reflect.Map:
		m, ok := v.(map[string]any)
		if !ok || t.Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = alignKeys(val, t.Elem())
		}
		return out
	}
	return v
}

// fieldFor prefere o nome exato e cai para a comparação sem caixa.
func fieldFor(t reflect.Type, key string) (reflect.StructField, bool) {
	var fold reflect.StructField
	found := false
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := jsonName(f)
		if !f.IsExported() || name == "-" {
			continue
		}
		if name == key {
			return f, true
		}
		if !found && strings.EqualFold(name, key) {
			fold, found = f, true
		}
	}
	return fold, found
}

func jsonName(f reflect.StructField) string {
	if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" {
		return tag
	}
	return f.Name
}
