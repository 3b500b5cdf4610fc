package criteria

import (
	"sort"
)

// FilterSet acumula criterios por ruta (el último gana) y los combina con AND.
// No es seguro para uso concurrente: vive dentro de un Core por petición.
type FilterSet struct {
	entity   *Entity
	criteria map[string]Criterion
	err      error
}

// NewFilterSet crea un FilterSet vacío para la entidad.
func NewFilterSet(e *Entity) *FilterSet {
	return &FilterSet{entity: e, criteria: make(map[string]Criterion)}
}

// With agrega o reemplaza el criterio de la ruta.
func (f *FilterSet) With(path string, op Operator, value any) *FilterSet {
	f.criteria[path] = Criterion{Path: path, Op: op, Value: value}
	return f
}

// WithToken igual que With pero con el token del operador (":", "!", ">", "<", "~").
// Un token inválido se conserva como error hasta Build.
func (f *FilterSet) WithToken(path, token string, value any) *FilterSet {
	op, err := ParseOperator(token)
	if err != nil {
		if f.err == nil {
			f.err = err
		}
		return f
	}
	return f.With(path, op, value)
}

// Len número de criterios activos.
func (f *FilterSet) Len() int { return len(f.criteria) }

// Has indica si hay criterio para la ruta.
func (f *FilterSet) Has(path string) bool {
	_, ok := f.criteria[path]
	return ok
}

// Criteria criterios activos ordenados por ruta.
func (f *FilterSet) Criteria() []Criterion {
	paths := make([]string, 0, len(f.criteria))
	for p := range f.criteria {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]Criterion, 0, len(paths))
	for _, p := range paths {
		out = append(out, f.criteria[p])
	}
	return out
}

// Build traduce todos los criterios y devuelve su conjunción.
// Sin criterios devuelve (nil, nil): el almacenamiento lo trata como "todo coincide".
func (f *FilterSet) Build() (Predicate, error) {
	if f.err != nil {
		return nil, f.err
	}
	crit := f.Criteria()
	preds := make([]Predicate, 0, len(crit))
	for _, c := range crit {
		cond, err := Translate(f.entity, c)
		if err != nil {
			return nil, err
		}
		preds = append(preds, cond)
	}
	return And(preds...), nil
}

// Reset elimina criterios y errores pendientes.
func (f *FilterSet) Reset() {
	f.criteria = make(map[string]Criterion)
	f.err = nil
}
