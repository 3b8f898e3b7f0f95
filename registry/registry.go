// Package registry mantém os clientes do SDK da AWS indexados por nome lógico,
// permitindo que vários wrappers compartilhem a mesma conexão e credenciais.
//
// O Registry pertence à raiz de composição da aplicação: os clientes são
// criados uma vez, na primeira solicitação, e nunca são removidos.
package registry

import (
	"fmt"
	"sync"
)

// Registry é seguro para uso concorrente.
type Registry struct {
	mu      sync.Mutex
	clients map[string]any
}

// New cria um registry vazio.
func New() *Registry {
	return &Registry{clients: make(map[string]any)}
}

// Load devolve o cliente registrado sob name ou o cria com create. Um registry
// nil desativa o compartilhamento e sempre chama create.
func Load[C any](r *Registry, name string, create func() (C, error)) (C, error) {
	if r == nil {
		return create()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.clients[name]; ok {
		client, ok := existing.(C)
		if !ok {
			var zero C
			return zero, fmt.Errorf("registry: client %q is %T, not the requested type", name, existing)
		}
		return client, nil
	}

	client, err := create()
	if err != nil {
		var zero C
		return zero, fmt.Errorf("registry: create client %q: %w", name, err)
	}
	r.clients[name] = client
	return client, nil
}

// Names lista os clientes já criados.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}
