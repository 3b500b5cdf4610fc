package criteria

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Documentos-api/internal/domain"
)

// DeletedPath campo de borrado lógico presente en todas las entidades.
const DeletedPath = "isDeleted"

// Sort orden por una ruta, siempre ascendente.
type Sort struct {
	Path string
}

// SortKeys tokens de orden aceptados por entidad (ej. "CUSTOMERLASTNAME" -> "customer.lastName").
type SortKeys map[string]string

// Lookup traduce el token; cualquier otro valor es ErrUnknownSortKey.
func (k SortKeys) Lookup(token string) (Sort, error) {
	path, ok := k[strings.ToUpper(strings.TrimSpace(token))]
	if !ok {
		return Sort{}, fmt.Errorf("%w: %q", domain.ErrUnknownSortKey, token)
	}
	return Sort{Path: path}, nil
}

// Check verifica al arrancar que todas las rutas de orden existen en la entidad.
func (k SortKeys) Check(e *Entity) SortKeys {
	for _, path := range k {
		e.MustResolve(path)
	}
	return k
}

// DeleteVisibility política de visibilidad de registros borrados lógicamente.
type DeleteVisibility int

const (
	// ExcludeDeleted solo registros no borrados (valor por defecto).
	ExcludeDeleted DeleteVisibility = iota
	// OnlyDeleted solo registros borrados.
	OnlyDeleted
	// IncludeAll borrados y no borrados.
	IncludeAll
)

func (v DeleteVisibility) String() string {
	switch v {
	case OnlyDeleted:
		return "only"
	case IncludeAll:
		return "include"
	}
	return "exclude"
}

// ParseVisibility acepta "", "exclude", "only" e "include".
func ParseVisibility(s string) (DeleteVisibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exclude":
		return ExcludeDeleted, nil
	case "only":
		return OnlyDeleted, nil
	case "include", "all":
		return IncludeAll, nil
	}
	return ExcludeDeleted, fmt.Errorf("%w: deleted=%q", domain.ErrBadFilterValue, s)
}

// Apply inyecta el criterio implícito isDeleted según la política.
func (v DeleteVisibility) Apply(f *FilterSet) {
	switch v {
	case ExcludeDeleted:
		f.With(DeletedPath, Equals, false)
	case OnlyDeleted:
		f.With(DeletedPath, Equals, true)
	}
}
