package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"taller/internal/infra"
	"taller/internal/model"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrForbidden          = errors.New("operación no permitida para este usuario")
	ErrInvalidCredentials = errors.New("credenciales invalidas")
)

// RenderWarning is a non-fatal document rendering problem.
type RenderWarning = infra.RenderWarning

// ValidationError reports missing or malformed input, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "datos inválidos: " + strings.Join(parts, ", ")
}

func requerido(fields map[string]string, campo, valor string) {
	if strings.TrimSpace(valor) == "" {
		fields[campo] = "es requerido"
	}
}

// DependencyError means a related entity the operation needs does not exist.
type DependencyError struct {
	Entidad string
	Detalle string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entidad, e.Detalle)
}

// BackendError wraps a storage or auth backend failure. The message is shown
// to the user unchanged.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string { return e.Err.Error() }
func (e *BackendError) Unwrap() error { return e.Err }

func backend(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Err: err}
}

// TransitionError is an illegal order state change.
type TransitionError struct {
	Desde model.EstadoOrden
	Hacia model.EstadoOrden
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no se puede pasar de %q a %q", e.Desde, e.Hacia)
}

// storeErr maps a repository error: missing rows become ErrNotFound, anything
// else is a BackendError.
func storeErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return backend(op, err)
}
