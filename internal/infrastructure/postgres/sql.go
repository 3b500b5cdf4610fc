package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
)

// baseAlias alias de la tabla principal en todas las consultas.
const baseAlias = "t"

// statement construye SQL a partir de predicados del dominio.
// Cada relación recorrida se resuelve con un LEFT JOIN; una relación nula nunca cumple la condición.
type statement struct {
	schema *criteria.Entity
	joins  map[string]string
	order  []string
	args   []any
}

func newStatement(schema *criteria.Entity) *statement {
	return &statement{schema: schema, joins: make(map[string]string)}
}

// join registra un LEFT JOIN con alias fijo para la relación (precargas del SELECT).
func (s *statement) join(rel, alias string) *statement {
	r, ok := s.schema.Relation(rel)
	if !ok {
		panic(fmt.Sprintf("postgres: relación %q desconocida en %s", rel, s.schema.Name))
	}
	s.addJoin(rel+".", alias, r, baseAlias)
	return s
}

func (s *statement) addJoin(key, alias string, r *criteria.Relation, owner string) {
	s.joins[key] = alias
	s.order = append(s.order, fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = %s.%s",
		r.Target.Table, alias, alias, r.Target.IDColumn, owner, r.Column))
}

func (s *statement) arg(v any) string {
	s.args = append(s.args, v)
	return "$" + strconv.Itoa(len(s.args))
}

// column devuelve alias.columna para la ruta, agregando los joins que falten.
func (s *statement) column(p criteria.Path) string {
	alias := baseAlias
	key := ""
	for _, rel := range p.Relations {
		key += rel.Name + "."
		next, ok := s.joins[key]
		if !ok {
			next = "j" + strconv.Itoa(len(s.order)+1)
			s.addJoin(key, next, rel, alias)
		}
		alias = next
	}
	return alias + "." + p.Field.Column
}

// where renderiza el predicado; cadena vacía cuando es nil.
func (s *statement) where(pred criteria.Predicate) (string, error) {
	switch n := pred.(type) {
	case nil:
		return "", nil
	case *criteria.Condition:
		return s.condition(n)
	case *criteria.Conjunction:
		parts := make([]string, 0, len(n.Terms))
		for _, t := range n.Terms {
			sql, err := s.where(t)
			if err != nil {
				return "", err
			}
			if sql != "" {
				parts = append(parts, "("+sql+")")
			}
		}
		return strings.Join(parts, " AND "), nil
	}
	return "", fmt.Errorf("postgres: predicado no soportado %T", pred)
}

func (s *statement) condition(c *criteria.Condition) (string, error) {
	col := s.column(c.Path)
	switch c.Op {
	case criteria.Equals:
		return col + " = " + s.arg(c.Value), nil
	case criteria.NotEquals:
		return col + " <> " + s.arg(c.Value), nil
	case criteria.GreaterOrEqual:
		return col + " >= " + s.arg(c.Value), nil
	case criteria.LessOrEqual:
		return col + " <= " + s.arg(c.Value), nil
	case criteria.Like:
		v, ok := c.Value.(string)
		if !ok {
			return "", fmt.Errorf("postgres: LIKE requiere texto en %s", c.Path.Raw)
		}
		return col + " LIKE " + s.arg(likePattern(v)), nil
	}
	return "", fmt.Errorf("postgres: operador no soportado %v", c.Op)
}

// orderBy ascendente por la ruta y luego por id para páginas estables.
func (s *statement) orderBy(sort *criteria.Sort) (string, error) {
	id := baseAlias + "." + s.schema.IDColumn
	if sort == nil {
		return " ORDER BY " + id + " ASC", nil
	}
	p, err := s.schema.Resolve(sort.Path)
	if err != nil {
		return "", err
	}
	return " ORDER BY " + s.column(p) + " ASC NULLS LAST, " + id + " ASC", nil
}

// from FROM con alias y todos los joins registrados hasta ahora.
func (s *statement) from() string {
	var b strings.Builder
	b.WriteString(" FROM ")
	b.WriteString(s.schema.Table)
	b.WriteString(" ")
	b.WriteString(baseAlias)
	for _, j := range s.order {
		b.WriteString(" ")
		b.WriteString(j)
	}
	return b.String()
}

// selectSQL arma SELECT completo; page nil = sin límite.
func (s *statement) selectSQL(cols string, q repository.Query, page *repository.PageRequest) (string, error) {
	where, err := s.where(q.Where)
	if err != nil {
		return "", err
	}
	order, err := s.orderBy(q.Sort)
	if err != nil {
		return "", err
	}
	sql := "SELECT " + cols + s.from()
	if where != "" {
		sql += " WHERE " + where
	}
	sql += order
	if page != nil {
		sql += " LIMIT " + s.arg(page.Size) + " OFFSET " + s.arg(page.Offset())
	}
	return sql, nil
}

// countSQL cuenta filas que cumplen el predicado.
func (s *statement) countSQL(pred criteria.Predicate) (string, error) {
	where, err := s.where(pred)
	if err != nil {
		return "", err
	}
	sql := "SELECT COUNT(*)" + s.from()
	if where != "" {
		sql += " WHERE " + where
	}
	return sql, nil
}

// softDeleteSQL marca como borradas las filas que cumplen el predicado.
func (s *statement) softDeleteSQL(pred criteria.Predicate) (string, error) {
	where, err := s.where(pred)
	if err != nil {
		return "", err
	}
	sql := "UPDATE " + s.schema.Table + " SET is_deleted = TRUE"
	if where == "" {
		return sql, nil
	}
	return sql + " WHERE " + s.schema.IDColumn + " IN (SELECT " + baseAlias + "." + s.schema.IDColumn + s.from() + " WHERE " + where + ")", nil
}
