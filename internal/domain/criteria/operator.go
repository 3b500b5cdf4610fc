package criteria

import (
	"fmt"

	"github.com/jhoicas/Documentos-api/internal/domain"
)

// Operator tipo de comparación de un criterio de búsqueda.
type Operator int

// Operadores soportados. Los tokens son los que recibe la API (":", "!", ">", "<", "~").
const (
	Equals Operator = iota + 1
	NotEquals
	GreaterOrEqual
	LessOrEqual
	Like
)

var operatorTokens = map[Operator]string{
	Equals:         ":",
	NotEquals:      "!",
	GreaterOrEqual: ">",
	LessOrEqual:    "<",
	Like:           "~",
}

// ParseOperator convierte un token en Operator. Token desconocido => ErrBadFilterOperator.
func ParseOperator(token string) (Operator, error) {
	for op, t := range operatorTokens {
		if t == token {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrBadFilterOperator, token)
}

// String devuelve el token del operador.
func (o Operator) String() string {
	if t, ok := operatorTokens[o]; ok {
		return t
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Valid indica si el operador pertenece al conjunto cerrado.
func (o Operator) Valid() bool {
	_, ok := operatorTokens[o]
	return ok
}

// appliesTo indica si el operador tiene sentido para el tipo del campo.
func (o Operator) appliesTo(k Kind) bool {
	switch o {
	case Like:
		return k == KindString
	case GreaterOrEqual, LessOrEqual:
		return k != KindBool
	default:
		return o.Valid()
	}
}

// Criterion criterio inmutable: ruta del campo, operador y valor.
type Criterion struct {
	Path  string
	Op    Operator
	Value any
}

func (c Criterion) String() string {
	return fmt.Sprintf("%s%s%v", c.Path, c.Op, c.Value)
}
