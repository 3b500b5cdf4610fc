package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrPersonNotFound    = errors.New("persona no encontrada")
	ErrDocumentNotFound  = errors.New("documento no encontrado")
	ErrInvalidEntity     = errors.New("entidad inválida")
	ErrDuplicateUsername = errors.New("ya existe una persona con ese username")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrBadFilterOperator = errors.New("operador de filtro inválido")
	ErrBadFilterValue    = errors.New("valor de filtro inválido")
	ErrUnknownField      = errors.New("campo de filtro desconocido")
	ErrUnknownSortKey    = errors.New("tipo de orden desconocido")
	ErrInvalidPage       = errors.New("paginación inválida")
)

// ValidationError resultado estructurado de la validación de una entidad.
// Fields lista los campos requeridos que faltan o están vacíos.
type ValidationError struct {
	Entity string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s inválido: campos requeridos %s", e.Entity, strings.Join(e.Fields, ", "))
}

// Is permite errors.Is(err, ErrInvalidEntity).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidEntity
}

// NotFoundError identifica la entidad y el id que no se encontraron.
type NotFoundError struct {
	Kind error // ErrPersonNotFound o ErrDocumentNotFound
	ID   any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: id=%v", e.Kind, e.ID)
}

// Unwrap devuelve el sentinel específico; Is cubre además ErrNotFound.
func (e *NotFoundError) Unwrap() error { return e.Kind }

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
