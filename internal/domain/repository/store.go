package repository

import (
	"context"
	"math"

	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
)

// Query consulta de lectura: predicado (nil = todo) y orden opcional.
// El orden es siempre ascendente por Sort.Path y luego por id.
type Query struct {
	Where criteria.Predicate
	Sort  *criteria.Sort
}

// PageRequest página solicitada (Number base 0).
type PageRequest struct {
	Number int
	Size   int
}

// Offset posición del primer registro de la página. Si Number*Size no cabe
// en int devuelve math.MaxInt, una posición siempre fuera del resultado.
func (p PageRequest) Offset() int {
	if p.Size > 0 && p.Number > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Number * p.Size
}

// Page una página de resultados con totales.
type Page[T any] struct {
	Content       []*T
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
}

// NewPage calcula TotalPages a partir del total y el tamaño.
func NewPage[T any](content []*T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []*T{}
	}
	pages := 0
	if req.Size > 0 {
		size := int64(req.Size)
		pages = int(total / size)
		if total%size != 0 {
			pages++
		}
	}
	return &Page[T]{
		Content:       content,
		Number:        req.Number,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// EntityStore puerto genérico de persistencia con borrado lógico (DIP).
// FindByID devuelve (nil, nil) si no existe; los borrados lógicos siguen siendo visibles por id.
type EntityStore[T any, ID comparable] interface {
	FindByID(ctx context.Context, id ID) (*T, error)
	FindAllByID(ctx context.Context, ids []ID) ([]*T, error)
	ExistsByID(ctx context.Context, id ID) (bool, error)
	FindAll(ctx context.Context, q Query) ([]*T, error)
	FindPage(ctx context.Context, q Query, page PageRequest) (*Page[T], error)
	Count(ctx context.Context, where criteria.Predicate) (int64, error)
	// Save inserta si el id es cero (y lo asigna), si no reemplaza el registro completo.
	Save(ctx context.Context, e *T) error
	// SoftDelete marca isDeleted=true; false si no existe la fila.
	SoftDelete(ctx context.Context, id ID) (bool, error)
	// SoftDeleteWhere marca todas las filas que cumplen el predicado y devuelve cuántas.
	SoftDeleteWhere(ctx context.Context, where criteria.Predicate) (int64, error)
}
