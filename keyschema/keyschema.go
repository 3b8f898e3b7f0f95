// Package keyschema valida a configuração de chaves de um recurso (hash key e
// range key opcional) e a presença dessas chaves em itens antes de qualquer
// chamada de rede.
package keyschema

import "fmt"

// Tipos de chave reportados em MissingKeyError.
const (
	HashKey  = "hashKey"
	RangeKey = "rangeKey"
)

// ConfigurationError é retornado na construção quando os nomes de chave são inválidos.
type ConfigurationError struct {
	KeyType string
	Value   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Expected %s to be non-empty string, got %q", e.KeyType, e.Value)
}

// Code identifica o erro para quem não quer depender do tipo.
func (e *ConfigurationError) Code() string { return "err_invalid_key_schema" }

// MissingKeyError é retornado quando o item não contém um atributo de chave.
type MissingKeyError struct {
	KeyType string
	KeyName string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("Input missing %s %s", e.KeyType, e.KeyName)
}

func (e *MissingKeyError) Code() string { return "err_missing_key" }

// Schema descreve a chave primária de um recurso.
type Schema struct {
	hashKey  string
	rangeKey string
}

// New valida os nomes de chave. hashKey precisa ser não vazio; rangeKey vazio
// significa que o recurso não possui sort key. Qualquer outro nome é aceito
// como está, inclusive espaços.
func New(hashKey, rangeKey string) (Schema, error) {
	if hashKey == "" {
		return Schema{}, &ConfigurationError{KeyType: HashKey, Value: hashKey}
	}
	return Schema{hashKey: hashKey, rangeKey: rangeKey}, nil
}

// HashKey retorna o nome da partition key.
func (s Schema) HashKey() string { return s.hashKey }

// RangeKey retorna o nome da sort key ou "" quando não configurada.
func (s Schema) RangeKey() string { return s.rangeKey }

// Validate garante que item contém a hash key e, se configurada, a range key.
func (s Schema) Validate(item map[string]any) error {
	if _, ok := item[s.hashKey]; !ok {
		return &MissingKeyError{KeyType: HashKey, KeyName: s.hashKey}
	}
	if s.rangeKey == "" {
		return nil
	}
	if _, ok := item[s.rangeKey]; !ok {
		return &MissingKeyError{KeyType: RangeKey, KeyName: s.rangeKey}
	}
	return nil
}

// Key extrai apenas os atributos de chave de um item completo.
func (s Schema) Key(item map[string]any) (map[string]any, error) {
	if err := s.Validate(item); err != nil {
		return nil, err
	}
	key := map[string]any{s.hashKey: item[s.hashKey]}
	if s.rangeKey != "" {
		key[s.rangeKey] = item[s.rangeKey]
	}
	return key, nil
}
