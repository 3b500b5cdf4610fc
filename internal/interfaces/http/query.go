package http

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Documentos-api/internal/application/crud"
	"github.com/jhoicas/Documentos-api/internal/application/dto"
	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/pkg/config"
)

// listParams lee los parámetros de listado; el primer error se conserva.
type listParams struct {
	c   *fiber.Ctx
	err error
}

func (p *listParams) fail(key, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s=%q", domain.ErrBadFilterValue, key, value)
	}
}

func (p *listParams) str(key string) string {
	return p.c.Query(key)
}

func (p *listParams) date(key string) *time.Time {
	v := p.c.Query(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(dto.DateLayout, v)
	if err != nil {
		p.fail(key, v)
		return nil
	}
	return &t
}

// id "" => crud.NoID.
func (p *listParams) id(key string) int {
	v := p.c.Query(key)
	if v == "" {
		return crud.NoID
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v)
		return crud.NoID
	}
	return n
}

func (p *listParams) integer(key string, def int) int {
	v := p.c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("%w: %s=%q", domain.ErrInvalidPage, key, v)
		}
		return def
	}
	return n
}

func (p *listParams) visibility() criteria.DeleteVisibility {
	v, err := criteria.ParseVisibility(p.c.Query("deleted"))
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

// paging devuelve page y count; count se limita a MaxSize.
func (p *listParams) paging(cfg config.PagingConfig) (int, int) {
	page := p.integer("page", 0)
	count := p.integer("count", cfg.DefaultSize)
	if count > cfg.MaxSize {
		count = cfg.MaxSize
	}
	return page, count
}

// listPage ejecuta el listado paginado; page negativo o count <= 0 es ErrInvalidPage.
func listPage[T, R any](ctx context.Context, core *crud.Core[T, int], page, count int, mapFn func(*T) R) (dto.PageResponse[R], error) {
	var out dto.PageResponse[R]
	pg, err := core.ToPage(ctx, page, count)
	if err != nil {
		return out, err
	}
	out.Content = mapAll(pg.Content, mapFn)
	out.Number = pg.Number
	out.Size = pg.Size
	out.TotalElements = pg.TotalElements
	out.TotalPages = pg.TotalPages
	return out, nil
}

func mapAll[T, R any](in []*T, mapFn func(*T) R) []R {
	out := make([]R, 0, len(in))
	for _, e := range in {
		out = append(out, mapFn(e))
	}
	return out
}
