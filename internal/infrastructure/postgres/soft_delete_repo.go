package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
)

// rowMapper describe cómo leer y escribir un tipo en su tabla.
type rowMapper[T any] struct {
	schema  *criteria.Entity
	columns string
	// preload relaciones unidas siempre en el SELECT (nombre -> alias).
	preload [][2]string
	scan    func(row pgx.Row) (*T, error)
	id      func(*T) int
	insert  func(ctx context.Context, q Querier, e *T) error
	update  func(ctx context.Context, q Querier, e *T) (int64, error)
}

// softDeleteRepo implementación genérica de repository.EntityStore sobre PostgreSQL.
type softDeleteRepo[T any] struct {
	q Querier
	m rowMapper[T]
}

func (r *softDeleteRepo[T]) statement() *statement {
	st := newStatement(r.m.schema)
	for _, p := range r.m.preload {
		st.join(p[0], p[1])
	}
	return st
}

// FindByID devuelve (nil, nil) si no existe.
func (r *softDeleteRepo[T]) FindByID(ctx context.Context, id int) (*T, error) {
	st := r.statement()
	query := "SELECT " + r.m.columns + st.from() + " WHERE " + baseAlias + ".id = " + st.arg(id)
	e, err := r.m.scan(r.q.QueryRow(ctx, query, st.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s by id: %w", r.m.schema.Name, err)
	}
	return e, nil
}

// FindAllByID conserva el orden de ids y omite los inexistentes.
func (r *softDeleteRepo[T]) FindAllByID(ctx context.Context, ids []int) ([]*T, error) {
	if len(ids) == 0 {
		return []*T{}, nil
	}
	st := r.statement()
	query := "SELECT " + r.m.columns + st.from() + " WHERE " + baseAlias + ".id = ANY(" + st.arg(ids) + ")"
	rows, err := r.list(ctx, query, st.args)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*T, len(rows))
	for _, e := range rows {
		byID[r.m.id(e)] = e
	}
	out := make([]*T, 0, len(rows))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *softDeleteRepo[T]) ExistsByID(ctx context.Context, id int) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM " + r.m.schema.Table + " WHERE id = $1)"
	if err := r.q.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists %s: %w", r.m.schema.Name, err)
	}
	return exists, nil
}

func (r *softDeleteRepo[T]) FindAll(ctx context.Context, q repository.Query) ([]*T, error) {
	st := r.statement()
	query, err := st.selectSQL(r.m.columns, q, nil)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, query, st.args)
}

func (r *softDeleteRepo[T]) FindPage(ctx context.Context, q repository.Query, page repository.PageRequest) (*repository.Page[T], error) {
	if page.Size <= 0 || page.Number < 0 {
		return nil, fmt.Errorf("%w: page=%d size=%d", domain.ErrInvalidPage, page.Number, page.Size)
	}
	total, err := r.Count(ctx, q.Where)
	if err != nil {
		return nil, err
	}
	st := r.statement()
	query, err := st.selectSQL(r.m.columns, q, &page)
	if err != nil {
		return nil, err
	}
	content, err := r.list(ctx, query, st.args)
	if err != nil {
		return nil, err
	}
	return repository.NewPage(content, page, total), nil
}

func (r *softDeleteRepo[T]) Count(ctx context.Context, where criteria.Predicate) (int64, error) {
	st := newStatement(r.m.schema)
	query, err := st.countSQL(where)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.q.QueryRow(ctx, query, st.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.m.schema.Name, err)
	}
	return n, nil
}

// Save inserta cuando el id es cero; si no, reemplaza la fila (ErrNotFound si no existe).
func (r *softDeleteRepo[T]) Save(ctx context.Context, e *T) error {
	id := r.m.id(e)
	if id == 0 {
		return r.m.insert(ctx, r.q, e)
	}
	n, err := r.m.update(ctx, r.q, e)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s id=%d", domain.ErrNotFound, r.m.schema.Name, id)
	}
	return nil
}

func (r *softDeleteRepo[T]) SoftDelete(ctx context.Context, id int) (bool, error) {
	tag, err := r.q.Exec(ctx, "UPDATE "+r.m.schema.Table+" SET is_deleted = TRUE WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("soft delete %s: %w", r.m.schema.Name, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *softDeleteRepo[T]) SoftDeleteWhere(ctx context.Context, where criteria.Predicate) (int64, error) {
	st := newStatement(r.m.schema)
	query, err := st.softDeleteSQL(where)
	if err != nil {
		return 0, err
	}
	tag, err := r.q.Exec(ctx, query, st.args...)
	if err != nil {
		return 0, fmt.Errorf("soft delete %s: %w", r.m.schema.Name, err)
	}
	return tag.RowsAffected(), nil
}

func (r *softDeleteRepo[T]) list(ctx context.Context, query string, args []any) ([]*T, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.m.schema.Name, err)
	}
	defer rows.Close()
	list := []*T{}
	for rows.Next() {
		e, err := r.m.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.m.schema.Name, err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
