package criteria

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Documentos-api/internal/domain"
)

// Predicate condición booleana sobre una entidad. Nil significa "todo coincide".
// Los adaptadores de almacenamiento recorren *Condition y *Conjunction para generar su consulta.
type Predicate interface {
	Match(rec any) bool
}

// Condition criterio traducido: ruta resuelta y valor ya convertido al tipo del campo.
type Condition struct {
	Path  Path
	Op    Operator
	Value any
}

// Match evalúa la condición en memoria. Una relación nula nunca coincide.
func (c *Condition) Match(rec any) bool {
	v, ok := c.Path.Value(rec)
	if !ok {
		return false
	}
	k := c.Path.Kind()
	switch c.Op {
	case Equals:
		return Compare(k, v, c.Value) == 0
	case NotEquals:
		return Compare(k, v, c.Value) != 0
	case GreaterOrEqual:
		return Compare(k, v, c.Value) >= 0
	case LessOrEqual:
		return Compare(k, v, c.Value) <= 0
	case Like:
		return strings.Contains(v.(string), c.Value.(string))
	}
	return false
}

func (c *Condition) String() string {
	return fmt.Sprintf("%s %s %v", c.Path.Raw, c.Op, c.Value)
}

// Conjunction AND de varios predicados.
type Conjunction struct {
	Terms []Predicate
}

func (a *Conjunction) Match(rec any) bool {
	for _, t := range a.Terms {
		if !t.Match(rec) {
			return false
		}
	}
	return true
}

// And combina predicados ignorando los nil. Cero => nil; uno => el mismo predicado.
func And(preds ...Predicate) Predicate {
	terms := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			terms = append(terms, p)
		}
	}
	switch len(terms) {
	case 0:
		return nil
	case 1:
		return terms[0]
	}
	return &Conjunction{Terms: terms}
}

// Translate convierte un Criterion en una Condition sobre la entidad.
func Translate(e *Entity, c Criterion) (*Condition, error) {
	if !c.Op.Valid() {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadFilterOperator, c.Op)
	}
	path, err := e.Resolve(c.Path)
	if err != nil {
		return nil, err
	}
	if !c.Op.appliesTo(path.Kind()) {
		return nil, fmt.Errorf("%w: %s no aplica a %s (%s)", domain.ErrBadFilterOperator, c.Op, c.Path, path.Kind())
	}
	v, err := Coerce(path.Kind(), c.Value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Path, err)
	}
	return &Condition{Path: path, Op: c.Op, Value: v}, nil
}
