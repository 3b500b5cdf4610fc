// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y con STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
)

// codec describe cómo guardar y leer un tipo en la tabla.
type codec[T any] struct {
	id         func(*T) int
	setID      func(*T, int)
	deleted    func(*T) bool
	setDeleted func(*T, bool)
	// in copia la entidad al formato guardado; out la copia hacia el llamador con relaciones cargadas.
	in  func(*T) *T
	out func(*T) *T
	// conflict opcional: error si la fila guardada choca con la entidad a escribir (restricción única).
	conflict func(stored, e *T) error
}

// table almacenamiento genérico con ids enteros autoincrementales.
type table[T any] struct {
	mu     sync.RWMutex
	rows   map[int]*T
	seq    int
	schema *criteria.Entity
	c      codec[T]
}

func newTable[T any](schema *criteria.Entity, c codec[T]) *table[T] {
	return &table[T]{rows: make(map[int]*T), schema: schema, c: c}
}

// FindByID devuelve (nil, nil) si no existe.
func (t *table[T]) FindByID(_ context.Context, id int) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, nil
	}
	return t.c.out(row), nil
}

// FindAllByID devuelve las filas existentes en el orden de ids; los ausentes se omiten.
func (t *table[T]) FindAllByID(_ context.Context, ids []int) ([]*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if row, ok := t.rows[id]; ok {
			out = append(out, t.c.out(row))
		}
	}
	return out, nil
}

func (t *table[T]) ExistsByID(_ context.Context, id int) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rows[id]
	return ok, nil
}

func (t *table[T]) FindAll(_ context.Context, q repository.Query) ([]*T, error) {
	t.mu.RLock()
	rows := t.selectRows(q.Where)
	t.mu.RUnlock()
	if err := t.sortRows(rows, q.Sort); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t *table[T]) FindPage(ctx context.Context, q repository.Query, page repository.PageRequest) (*repository.Page[T], error) {
	if page.Size <= 0 || page.Number < 0 {
		return nil, fmt.Errorf("%w: page=%d size=%d", domain.ErrInvalidPage, page.Number, page.Size)
	}
	rows, err := t.FindAll(ctx, q)
	if err != nil {
		return nil, err
	}
	total := int64(len(rows))
	from := min(page.Offset(), len(rows))
	to := from + min(page.Size, len(rows)-from)
	return repository.NewPage(rows[from:to], page, total), nil
}

func (t *table[T]) Count(_ context.Context, where criteria.Predicate) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int64(len(t.selectRows(where))), nil
}

// Save inserta con id nuevo cuando el id es cero; si no, reemplaza la fila existente.
func (t *table[T]) Save(_ context.Context, e *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.c.id(e)
	if _, ok := t.rows[id]; id != 0 && !ok {
		return fmt.Errorf("%w: %s id=%d", domain.ErrNotFound, t.schema.Name, id)
	}
	if t.c.conflict != nil {
		for rowID, row := range t.rows {
			if rowID == id {
				continue
			}
			if err := t.c.conflict(row, e); err != nil {
				return err
			}
		}
	}
	if id == 0 {
		t.seq++
		t.c.setID(e, t.seq)
		t.rows[t.seq] = t.c.in(e)
		return nil
	}
	t.rows[id] = t.c.in(e)
	return nil
}

func (t *table[T]) SoftDelete(_ context.Context, id int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return false, nil
	}
	t.c.setDeleted(row, true)
	return true, nil
}

func (t *table[T]) SoftDeleteWhere(_ context.Context, where criteria.Predicate) (int64, error) {
	matched, _ := t.softDeleteWhere(where)
	return matched, nil
}

// softDeleteWhere devuelve las filas que cumplen y los ids que pasaron de activos a borrados.
func (t *table[T]) softDeleteWhere(where criteria.Predicate) (int64, []int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var matched int64
	var changed []int
	for id, row := range t.rows {
		if where == nil || where.Match(t.c.out(row)) {
			matched++
			if !t.c.deleted(row) {
				t.c.setDeleted(row, true)
				changed = append(changed, id)
			}
		}
	}
	return matched, changed
}

// snapshot copia de una fila guardada; nil si no existe. Para deshacer cambios en transacciones.
func (t *table[T]) snapshot(id int) *T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if row, ok := t.rows[id]; ok {
		return t.c.in(row)
	}
	return nil
}

func (t *table[T]) restore(id int, row *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if row == nil {
		delete(t.rows, id)
		return
	}
	t.rows[id] = row
}

// selectRows requiere el lock de lectura tomado.
func (t *table[T]) selectRows(where criteria.Predicate) []*T {
	out := make([]*T, 0, len(t.rows))
	for _, row := range t.rows {
		rec := t.c.out(row)
		if where == nil || where.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// sortRows ordena ascendente por la ruta (nulos al final, como PostgreSQL) y luego por id.
func (t *table[T]) sortRows(rows []*T, s *criteria.Sort) error {
	var path *criteria.Path
	if s != nil {
		p, err := t.schema.Resolve(s.Path)
		if err != nil {
			return err
		}
		path = &p
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if path != nil {
			a, aok := path.Value(rows[i])
			b, bok := path.Value(rows[j])
			switch {
			case aok && bok:
				if c := criteria.Compare(path.Kind(), a, b); c != 0 {
					return c < 0
				}
			case aok != bok:
				return aok
			}
		}
		return t.c.id(rows[i]) < t.c.id(rows[j])
	})
	return nil
}
