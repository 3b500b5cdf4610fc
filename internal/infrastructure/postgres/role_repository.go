package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
)

var _ repository.RoleStore = (*RoleRepo)(nil)

// RoleRepo implementación del puerto RoleStore sobre PostgreSQL.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador de roles.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// Create persiste el rol y asigna su id.
func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	query := `INSERT INTO roles (person_id, role) VALUES ($1, $2) RETURNING id`
	if err := r.q.QueryRow(ctx, query, role.PersonID, role.Role).Scan(&role.ID); err != nil {
		if isForeignKeyViolation(err) {
			return &domain.NotFoundError{Kind: domain.ErrPersonNotFound, ID: role.PersonID}
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: rol %s ya asignado", domain.ErrDuplicate, role.Role)
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

// ListByPerson roles de la persona en orden de creación.
func (r *RoleRepo) ListByPerson(ctx context.Context, personID int) ([]entity.Role, error) {
	rows, err := r.q.Query(ctx, `SELECT id, person_id, role FROM roles WHERE person_id = $1 ORDER BY id`, personID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	list := []entity.Role{}
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.PersonID, &role.Role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, role)
	}
	return list, rows.Err()
}
