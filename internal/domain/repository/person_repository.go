package repository

import (
	"context"

	"github.com/jhoicas/Documentos-api/internal/domain/entity"
)

// PersonStore define el puerto de persistencia para Person.
type PersonStore interface {
	EntityStore[entity.Person, int]
	// FindByUsername busca sin filtro de borrado; (nil, nil) si no existe.
	FindByUsername(ctx context.Context, username string) (*entity.Person, error)
}

// RoleStore define el puerto de persistencia para los roles de una persona.
type RoleStore interface {
	Create(ctx context.Context, role *entity.Role) error
	ListByPerson(ctx context.Context, personID int) ([]entity.Role, error)
}

// PersonTxRunner ejecuta el alta de persona y rol en una misma transacción.
type PersonTxRunner interface {
	RunPersonRegistration(ctx context.Context, fn func(persons PersonStore, roles RoleStore) error) error
}
