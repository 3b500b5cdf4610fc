// Package crud implementa el núcleo CRUD genérico con filtros, orden, paginación y borrado lógico.
package crud

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
	"github.com/jhoicas/Documentos-api/pkg/logger"
)

// Observer recibe el resultado y la duración de cada operación (métricas).
type Observer interface {
	ObserveOperation(entity, operation string, err error, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveOperation(string, string, error, time.Duration) {}

// Spec describe una entidad para el núcleo genérico.
type Spec[T any, ID comparable] struct {
	Schema *criteria.Entity
	Store  repository.EntityStore[T, ID]
	// Validate devuelve los campos requeridos que faltan; vacío = válido.
	Validate   func(*T) []string
	NotFound   error // sentinel de la entidad, ej. domain.ErrPersonNotFound
	ID         func(*T) ID
	SetID      func(*T, ID)
	IsDeleted  func(*T) bool
	SetDeleted func(*T, bool)
}

// Core núcleo CRUD de una entidad. Guarda filtros, orden y visibilidad hasta la siguiente
// operación terminal (FindAll, Count, ToPage, DeleteAllMatching), que siempre los reinicia.
// Un Core pertenece a una sola petición: no es seguro para uso concurrente.
type Core[T any, ID comparable] struct {
	spec       Spec[T, ID]
	filter     *criteria.FilterSet
	sort       *criteria.Sort
	sortErr    error
	visibility criteria.DeleteVisibility
	log        *logger.Logger
	obs        Observer
}

// NewCore construye el núcleo. log y obs pueden ser nil.
func NewCore[T any, ID comparable](spec Spec[T, ID], log *logger.Logger, obs Observer) *Core[T, ID] {
	if log == nil {
		log = logger.Nop()
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Core[T, ID]{
		spec:   spec,
		filter: criteria.NewFilterSet(spec.Schema),
		log:    log,
		obs:    obs,
	}
}

// track mide la operación; uso: defer c.track("op")(&err).
func (c *Core[T, ID]) track(op string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		err := *errp
		c.obs.ObserveOperation(c.spec.Schema.Name, op, err, time.Since(start))
		if err != nil {
			c.log.Debug().Str("entity", c.spec.Schema.Name).Str("op", op).Err(err).Msg("operación fallida")
		}
	}
}

func (c *Core[T, ID]) notFound(id ID) error {
	return &domain.NotFoundError{Kind: c.spec.NotFound, ID: id}
}

// With agrega (o reemplaza) el criterio de la ruta. No interpreta valores vacíos.
func (c *Core[T, ID]) With(path string, op criteria.Operator, value any) *Core[T, ID] {
	c.filter.With(path, op, value)
	return c
}

// WithToken igual que With con el token del operador; un token inválido falla en la operación terminal.
func (c *Core[T, ID]) WithToken(path, token string, value any) *Core[T, ID] {
	c.filter.WithToken(path, token, value)
	return c
}

// SetSortPath ordena ascendente por la ruta.
func (c *Core[T, ID]) SetSortPath(path string) *Core[T, ID] {
	if _, err := c.spec.Schema.Resolve(path); err != nil {
		c.sortErr = err
		return c
	}
	c.sort = &criteria.Sort{Path: path}
	c.sortErr = nil
	return c
}

// setSortToken traduce el token con las claves de la entidad; el error se informa en la operación terminal.
func (c *Core[T, ID]) setSortToken(keys criteria.SortKeys, token string) {
	s, err := keys.Lookup(token)
	if err != nil {
		c.sortErr = err
		return
	}
	c.sort = &s
	c.sortErr = nil
}

// SearchOnlyInDeleted limita la próxima consulta a registros borrados.
func (c *Core[T, ID]) SearchOnlyInDeleted() *Core[T, ID] {
	c.visibility = criteria.OnlyDeleted
	return c
}

// IncludeDeleted incluye borrados y no borrados en la próxima consulta.
func (c *Core[T, ID]) IncludeDeleted() *Core[T, ID] {
	c.visibility = criteria.IncludeAll
	return c
}

// SetVisibility fija la política de borrados directamente.
func (c *Core[T, ID]) SetVisibility(v criteria.DeleteVisibility) *Core[T, ID] {
	c.visibility = v
	return c
}

// ClearFilter vuelve filtros, orden y visibilidad a su estado inicial.
func (c *Core[T, ID]) ClearFilter() {
	c.filter.Reset()
	c.sort = nil
	c.sortErr = nil
	c.visibility = criteria.ExcludeDeleted
}

// query arma la consulta con la visibilidad inyectada. No reinicia el estado.
func (c *Core[T, ID]) query() (repository.Query, error) {
	if c.sortErr != nil {
		return repository.Query{}, c.sortErr
	}
	c.visibility.Apply(c.filter)
	where, err := c.filter.Build()
	if err != nil {
		return repository.Query{}, err
	}
	return repository.Query{Where: where, Sort: c.sort}, nil
}

// Violations campos requeridos que faltan en la entidad.
func (c *Core[T, ID]) Violations(e *T) []string {
	if e == nil {
		return []string{"entity"}
	}
	return c.spec.Validate(e)
}

// VerifyEntity true si la entidad es inválida.
func (c *Core[T, ID]) VerifyEntity(e *T) bool {
	return len(c.Violations(e)) > 0
}

func (c *Core[T, ID]) validate(e *T) error {
	if fields := c.Violations(e); len(fields) > 0 {
		return &domain.ValidationError{Entity: c.spec.Schema.Name, Fields: fields}
	}
	return nil
}

// Save valida e inserta la entidad como nueva (id asignado por el almacenamiento, isDeleted=false).
func (c *Core[T, ID]) Save(ctx context.Context, e *T) (_ *T, err error) {
	defer c.track("save")(&err)
	if err := c.validate(e); err != nil {
		return nil, err
	}
	c.prepareInsert(e)
	if err := c.spec.Store.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("save %s: %w", c.spec.Schema.Name, err)
	}
	c.log.Debug().Str("entity", c.spec.Schema.Name).Any("id", c.spec.ID(e)).Msg("entidad creada")
	return e, nil
}

func (c *Core[T, ID]) prepareInsert(e *T) {
	var zero ID
	c.spec.SetID(e, zero)
	c.spec.SetDeleted(e, false)
}

// SaveAll valida todas las entidades antes de escribir alguna; si una es inválida no se persiste ninguna.
func (c *Core[T, ID]) SaveAll(ctx context.Context, es []*T) (_ []*T, err error) {
	defer c.track("save_all")(&err)
	for i, e := range es {
		if err := c.validate(e); err != nil {
			return nil, fmt.Errorf("elemento %d: %w", i, err)
		}
	}
	out := make([]*T, 0, len(es))
	for _, e := range es {
		c.prepareInsert(e)
		if err := c.spec.Store.Save(ctx, e); err != nil {
			return out, fmt.Errorf("save %s: %w", c.spec.Schema.Name, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// FindByID busca por id sin filtro de borrado. Inexistente = error NotFound de la entidad.
func (c *Core[T, ID]) FindByID(ctx context.Context, id ID) (*T, error) {
	e, err := c.spec.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, c.notFound(id)
	}
	return e, nil
}

// ExistsByID indica si existe la fila, borrada o no.
func (c *Core[T, ID]) ExistsByID(ctx context.Context, id ID) (bool, error) {
	return c.spec.Store.ExistsByID(ctx, id)
}

// FindAllByID devuelve las entidades existentes, sin filtro de borrado.
func (c *Core[T, ID]) FindAllByID(ctx context.Context, ids []ID) ([]*T, error) {
	return c.spec.Store.FindAllByID(ctx, ids)
}

// FindAll aplica filtros, visibilidad y orden acumulados y reinicia el estado.
func (c *Core[T, ID]) FindAll(ctx context.Context) (_ []*T, err error) {
	defer c.track("find_all")(&err)
	defer c.ClearFilter()
	q, err := c.query()
	if err != nil {
		return nil, err
	}
	return c.spec.Store.FindAll(ctx, q)
}

// Count cuenta con los filtros y la visibilidad acumulados y reinicia el estado.
func (c *Core[T, ID]) Count(ctx context.Context) (_ int64, err error) {
	defer c.track("count")(&err)
	defer c.ClearFilter()
	q, err := c.query()
	if err != nil {
		return 0, err
	}
	return c.spec.Store.Count(ctx, q.Where)
}

// ToPage devuelve la página number (base 0) de tamaño size y reinicia el estado.
// Una página más allá del final vuelve vacía con los totales completos.
func (c *Core[T, ID]) ToPage(ctx context.Context, number, size int) (_ *repository.Page[T], err error) {
	defer c.track("to_page")(&err)
	defer c.ClearFilter()
	if size <= 0 || number < 0 {
		return nil, fmt.Errorf("%w: page=%d size=%d", domain.ErrInvalidPage, number, size)
	}
	q, err := c.query()
	if err != nil {
		return nil, err
	}
	return c.spec.Store.FindPage(ctx, q, repository.PageRequest{Number: number, Size: size})
}

// DeleteByID borrado lógico por id; NotFound si no existe. No afecta entidades relacionadas.
func (c *Core[T, ID]) DeleteByID(ctx context.Context, id ID) (err error) {
	defer c.track("delete")(&err)
	ok, err := c.spec.Store.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", c.spec.Schema.Name, err)
	}
	if !ok {
		return c.notFound(id)
	}
	c.log.Debug().Str("entity", c.spec.Schema.Name).Any("id", id).Msg("entidad borrada")
	return nil
}

// Delete borrado lógico de la entidad por su id.
func (c *Core[T, ID]) Delete(ctx context.Context, e *T) error {
	if e == nil {
		return fmt.Errorf("%w: entidad nula", domain.ErrInvalidEntity)
	}
	return c.DeleteByID(ctx, c.spec.ID(e))
}

// DeleteAll borrado lógico de cada entidad; se detiene en el primer error.
func (c *Core[T, ID]) DeleteAll(ctx context.Context, es []*T) error {
	for _, e := range es {
		if err := c.Delete(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAllMatching borrado lógico de las filas que cumplen los filtros acumulados
// (todas si no hay filtros) y reinicia el estado. La visibilidad no se aplica.
func (c *Core[T, ID]) DeleteAllMatching(ctx context.Context) (_ int64, err error) {
	defer c.track("delete_all")(&err)
	defer c.ClearFilter()
	where, err := c.filter.Build()
	if err != nil {
		return 0, err
	}
	n, err := c.spec.Store.SoftDeleteWhere(ctx, where)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", c.spec.Schema.Name, err)
	}
	c.log.Debug().Str("entity", c.spec.Schema.Name).Int64("rows", n).Msg("entidades borradas")
	return n, nil
}

// Update reemplaza la fila id con la entidad recibida. Conserva el id y el
// estado de borrado guardados: actualizar una fila borrada no la restaura y
// el isDeleted recibido se ignora.
func (c *Core[T, ID]) Update(ctx context.Context, e *T, id ID) (_ *T, err error) {
	defer c.track("update")(&err)
	if _, err := c.prepareUpdate(ctx, e, id); err != nil {
		return nil, err
	}
	if err := c.spec.Store.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("update %s: %w", c.spec.Schema.Name, err)
	}
	return e, nil
}

// prepareUpdate valida, comprueba que exista y copia id y borrado. Devuelve la fila previa.
func (c *Core[T, ID]) prepareUpdate(ctx context.Context, e *T, id ID) (*T, error) {
	if err := c.validate(e); err != nil {
		return nil, err
	}
	prev, err := c.spec.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, c.notFound(id)
	}
	c.spec.SetID(e, id)
	c.spec.SetDeleted(e, c.spec.IsDeleted(prev))
	return prev, nil
}
