package casing

import (
	"unicode"
	"unicode/utf8"
)

// Rule altera a conversão para uma chave específica, em qualquer profundidade.
type Rule struct {
	name  string
	whole bool
}

// Keep preserva a subárvore inteira sob a chave informada. O nome da própria
// chave continua sendo convertido.
func Keep(name string) Rule {
	return Rule{name: name, whole: true}
}

// KeepKeys preserva os nomes dos filhos diretos da chave informada, mas
// converte recursivamente os valores desses filhos.
func KeepKeys(name string) Rule {
	return Rule{name: name}
}

// Pascal converte uma chave lógica para o formato de wire (primeira runa
// maiúscula). Chaves que não começam com letra minúscula não mudam.
func Pascal(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Camel converte uma chave de wire para o formato lógico. A sequência inicial
// de maiúsculas (e dígitos) é reduzida, preservando a última maiúscula quando
// ela inicia a próxima palavra: ETag -> eTag, MD5OfMessageBody -> md5OfMessageBody.
func Camel(s string) string {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return s
	}

	n := 0
	for n < len(runes) && (unicode.IsUpper(runes[n]) || unicode.IsDigit(runes[n])) {
		n++
	}
	if n > 1 && n < len(runes) && unicode.IsLower(runes[n]) && unicode.IsUpper(runes[n-1]) {
		n--
	}

	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// ToWire converte recursivamente as chaves de v para PascalCase.
func ToWire(v any, rules ...Rule) any {
	return newTranslator(Pascal, rules).value(v)
}

// ToLogical converte recursivamente as chaves de v para camelCase.
func ToLogical(v any, rules ...Rule) any {
	return newTranslator(Camel, rules).value(v)
}

// MapToWire é o atalho tipado de ToWire para mapas.
func MapToWire(m map[string]any, rules ...Rule) map[string]any {
	if m == nil {
		return nil
	}
	return newTranslator(Pascal, rules).object(m)
}

// MapToLogical é o atalho tipado de ToLogical para mapas.
func MapToLogical(m map[string]any, rules ...Rule) map[string]any {
	if m == nil {
		return nil
	}
	return newTranslator(Camel, rules).object(m)
}

type translator struct {
	convert func(string) string
	rules   map[string]Rule
}

func newTranslator(convert func(string) string, rules []Rule) *translator {
	t := &translator{convert: convert, rules: make(map[string]Rule, len(rules)*2)}
	for _, r := range rules {
		// a regra vale para a chave nas duas convenções
		t.rules[Pascal(r.name)] = r
		t.rules[Camel(r.name)] = r
	}
	return t
}

func (t *translator) value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return t.object(val)
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, m := range val {
			out[i] = t.object(m)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = t.value(item)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, s := range val {
			out[t.convert(k)] = s
		}
		return out
	default:
		return v
	}
}

func (t *translator) object(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		key := t.convert(k)
		rule, ok := t.rules[k]
		if !ok {
			rule, ok = t.rules[key]
		}

		switch {
		case !ok:
			out[key] = t.value(v)
		case rule.whole:
			out[key] = v
		default:
			out[key] = t.children(v)
		}
	}
	return out
}

// children mantém os nomes dos filhos e converte apenas os valores.
func (t *translator) children(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, child := range m {
		out[k] = t.value(child)
	}
	return out
}
