package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas
func (cv *ConfigValidator) Validate(cfg *Config) error {
	if err := cv.validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("field '%s' failed on '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("config: structural validation failed:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("config: structural validation failed: %w", err)
	}

	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("config: semantic validation failed: %w", err)
	}
	return nil
}

// Struct expõe a validação por tags para as configs de cada cliente.
func (cv *ConfigValidator) Struct(v any) error {
	return cv.validate.Struct(v)
}

func (cv *ConfigValidator) validateSemantics(cfg *Config) error {
	// o registry indexa clientes só pelo nome, então nomes repetidos entre
	// serviços diferentes colidiriam
	seen := make(map[string]bool)
	for _, name := range cfg.Clients.Names() {
		if name == "" {
			return errors.New("client name must not be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicated client name: '%s'", name)
		}
		seen[name] = true
	}
	return nil
}
