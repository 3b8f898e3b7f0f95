package injector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.QUEUE_URL}, ${ssm./app/table}, ${secret.app-creds#user}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// Resolver busca valores remotos. Implementado por awsconfig.Resolver.
type Resolver interface {
	Parameter(ctx context.Context, path string) (string, error)
	Secret(ctx context.Context, ref string) (string, error)
}

// ErrNoResolver é devolvido quando há referência ${ssm.} ou ${secret.} sem Resolver.
var ErrNoResolver = errors.New("injector: no resolver configured for remote reference")

type Injector struct {
	resolver Resolver
}

// New cria um Injector. resolver pode ser nil quando só ${env.} é usado.
func New(resolver Resolver) *Injector {
	return &Injector{resolver: resolver}
}

func (i *Injector) Inject(ctx context.Context, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("injector: target must be a non-nil pointer")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for k := 0; k < t.NumField(); k++ {
			field := t.Field(k)
			value := v.Field(k)
			if !field.IsExported() {
				continue
			}

			// tag env tem precedência sobre o valor do arquivo
			if tag := field.Tag.Get("env"); tag != "" && value.CanSet() {
				if raw, ok := os.LookupEnv(tag); ok {
					if err := setField(value, raw); err != nil {
						return fmt.Errorf("injector: field %s: %w", field.Name, err)
					}
				}
			}

			if err := i.injectRecursive(ctx, value); err != nil {
				return err
			}
		}

	case reflect.String:
		if !v.CanSet() {
			return nil
		}
		out, err := i.interpolate(ctx, v.String())
		if err != nil {
			return err
		}
		v.SetString(out)

	case reflect.Map:
		if v.IsNil() || v.Type().Key().Kind() != reflect.String {
			return nil
		}
		return i.injectMap(ctx, v)

	case reflect.Ptr:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			if err := i.injectRecursive(ctx, v.Index(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// injectMap trata mapas de structs (clientes por nome) e mapas dinâmicos.
// Valores de mapa não são endereçáveis, então cada um é copiado, injetado e regravado.
func (i *Injector) injectMap(ctx context.Context, v reflect.Value) error {
	iter := v.MapRange()
	for iter.Next() {
		key := iter.Key()
		elem := iter.Value()
		if elem.Kind() == reflect.Interface {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}

		cp := reflect.New(elem.Type()).Elem()
		cp.Set(elem)
		if err := i.injectRecursive(ctx, cp); err != nil {
			return err
		}
		v.SetMapIndex(key, cp)
	}
	return nil
}

// interpolate substitui cada ${tipo.chave} pelo valor resolvido.
func (i *Injector) interpolate(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var firstErr error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := pattern.FindStringSubmatch(match)
		val, err := i.fetch(ctx, groups[1], groups[2])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return val
	})
	return result, firstErr
}

func (i *Injector) fetch(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		// variável ausente vira string vazia
		return os.Getenv(key), nil
	case "ssm":
		if i.resolver == nil {
			return "", ErrNoResolver
		}
		return i.resolver.Parameter(ctx, key)
	case "secret":
		if i.resolver == nil {
			return "", ErrNoResolver
		}
		return i.resolver.Secret(ctx, key)
	}
	return "", fmt.Errorf("injector: unknown source %q", sourceType)
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		field.SetBool(raw == "true" || raw == "1")
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		parts := strings.Split(raw, ",")
		for k := range parts {
			parts[k] = strings.TrimSpace(parts[k])
		}
		field.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported type %s", field.Type())
	}
	return nil
}
