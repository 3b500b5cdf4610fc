package criteria

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Documentos-api/internal/domain"
)

// DateLayout formato de fecha aceptado en filtros ("yyyy-MM-dd").
const DateLayout = "2006-01-02"

// Kind tipo declarado de un campo escalar; define cómo se compara.
type Kind int

const (
	KindString Kind = iota + 1
	KindInt
	KindDate
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	}
	return "unknown"
}

type accessor func(rec any) (any, bool)

// Field campo escalar de una entidad con su columna y accesor tipado.
type Field struct {
	Name   string
	Column string
	Kind   Kind
	get    accessor
}

// Relation relación a-uno hacia otra entidad (FK en la tabla dueña).
type Relation struct {
	Name   string
	Column string
	Target *Entity
	get    accessor
}

// Member es un Field o una Relation registrable en una Entity.
type Member interface {
	register(e *Entity)
}

func (f *Field) register(e *Entity)    { e.fields[f.Name] = f }
func (r *Relation) register(e *Entity) { e.relations[r.Name] = r }

// Entity esquema de una entidad: rutas aceptadas en filtros y orden.
// Se declara una sola vez por tipo al iniciar el paquete que la usa.
type Entity struct {
	Name      string
	Table     string
	IDColumn  string
	fields    map[string]*Field
	relations map[string]*Relation
}

// NewEntity registra un esquema. Nombres duplicados provocan panic (error de programación).
func NewEntity(name, table string, members ...Member) *Entity {
	e := &Entity{
		Name:      name,
		Table:     table,
		IDColumn:  "id",
		fields:    make(map[string]*Field),
		relations: make(map[string]*Relation),
	}
	for _, m := range members {
		before := len(e.fields) + len(e.relations)
		m.register(e)
		if len(e.fields)+len(e.relations) == before {
			panic(fmt.Sprintf("criteria: miembro duplicado en %s", name))
		}
	}
	return e
}

// Field busca un campo escalar directo.
func (e *Entity) Field(name string) (*Field, bool) {
	f, ok := e.fields[name]
	return f, ok
}

// Relation busca una relación directa.
func (e *Entity) Relation(name string) (*Relation, bool) {
	r, ok := e.relations[name]
	return r, ok
}

// Columns devuelve las columnas escalares ordenadas por nombre de campo.
func (e *Entity) Columns() []string {
	names := make([]string, 0, len(e.fields))
	for n := range e.fields {
		names = append(names, n)
	}
	sort.Strings(names)
	cols := make([]string, 0, len(names))
	for _, n := range names {
		cols = append(cols, e.fields[n].Column)
	}
	return cols
}

// Path ruta resuelta: relaciones recorridas y campo final.
type Path struct {
	Raw       string
	Relations []*Relation
	Field     *Field
}

// Resolve valida una ruta con puntos ("customer.lastName") contra el esquema.
func (e *Entity) Resolve(path string) (Path, error) {
	if path == "" {
		return Path{}, fmt.Errorf("%w: ruta vacía", domain.ErrUnknownField)
	}
	segments := strings.Split(path, ".")
	cur := e
	p := Path{Raw: path}
	for _, seg := range segments[:len(segments)-1] {
		rel, ok := cur.relations[seg]
		if !ok {
			return Path{}, fmt.Errorf("%w: %q no es relación de %s", domain.ErrUnknownField, seg, cur.Name)
		}
		p.Relations = append(p.Relations, rel)
		cur = rel.Target
	}
	last := segments[len(segments)-1]
	f, ok := cur.fields[last]
	if !ok {
		return Path{}, fmt.Errorf("%w: %q no es campo de %s", domain.ErrUnknownField, last, cur.Name)
	}
	p.Field = f
	return p, nil
}

// MustResolve verifica rutas al arrancar; una ruta inválida es un error de configuración.
func (e *Entity) MustResolve(paths ...string) {
	for _, path := range paths {
		if _, err := e.Resolve(path); err != nil {
			panic(fmt.Sprintf("criteria: %v", err))
		}
	}
}

// Value recorre las relaciones y lee el campo. Relación nula => (nil, false).
func (p Path) Value(rec any) (any, bool) {
	cur := rec
	for _, rel := range p.Relations {
		next, ok := rel.get(cur)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return p.Field.get(cur)
}

// Kind tipo del campo final.
func (p Path) Kind() Kind { return p.Field.Kind }

func typed[T any](fn func(*T) (any, bool)) accessor {
	return func(rec any) (any, bool) {
		t, ok := rec.(*T)
		if !ok || t == nil {
			return nil, false
		}
		return fn(t)
	}
}

// String campo de texto.
func String[T any](name, column string, get func(*T) string) *Field {
	return &Field{Name: name, Column: column, Kind: KindString, get: typed(func(t *T) (any, bool) {
		return get(t), true
	})}
}

// Int campo entero (se normaliza a int64).
func Int[T any](name, column string, get func(*T) int) *Field {
	return &Field{Name: name, Column: column, Kind: KindInt, get: typed(func(t *T) (any, bool) {
		return int64(get(t)), true
	})}
}

// Date campo fecha opcional; se compara solo por día.
func Date[T any](name, column string, get func(*T) *time.Time) *Field {
	return &Field{Name: name, Column: column, Kind: KindDate, get: typed(func(t *T) (any, bool) {
		d := get(t)
		if d == nil {
			return nil, false
		}
		return dateOnly(*d), true
	})}
}

// Bool campo booleano.
func Bool[T any](name, column string, get func(*T) bool) *Field {
	return &Field{Name: name, Column: column, Kind: KindBool, get: typed(func(t *T) (any, bool) {
		return get(t), true
	})}
}

// HasOne relación a-uno de T hacia U.
func HasOne[T, U any](name, column string, target *Entity, get func(*T) *U) *Relation {
	return &Relation{Name: name, Column: column, Target: target, get: typed(func(t *T) (any, bool) {
		u := get(t)
		if u == nil {
			return nil, false
		}
		return u, true
	})}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Coerce convierte un valor de filtro al tipo del campo.
func Coerce(k Kind, v any) (any, error) {
	switch k {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case string:
			if i, err := strconv.ParseInt(n, 10, 64); err == nil {
				return i, nil
			}
		}
	case KindDate:
		switch d := v.(type) {
		case time.Time:
			return dateOnly(d), nil
		case *time.Time:
			if d != nil {
				return dateOnly(*d), nil
			}
		case string:
			if t, err := time.Parse(DateLayout, d); err == nil {
				return t, nil
			}
		}
	case KindBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			if p, err := strconv.ParseBool(b); err == nil {
				return p, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %v no es %s", domain.ErrBadFilterValue, v, k)
}

// Compare orden natural de dos valores ya normalizados del mismo Kind.
func Compare(k Kind, a, b any) int {
	switch k {
	case KindString:
		return strings.Compare(a.(string), b.(string))
	case KindInt:
		x, y := a.(int64), b.(int64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case KindDate:
		return a.(time.Time).Compare(b.(time.Time))
	case KindBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
	return 0
}
