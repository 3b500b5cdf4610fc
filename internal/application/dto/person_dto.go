package dto

import (
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
)

// PersonRequest entrada para crear o reemplazar una persona (password en texto, se cifra en el núcleo).
type PersonRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
}

// ToEntity construye la entidad; solo falla si birthDate no tiene formato válido.
func (r PersonRequest) ToEntity() (*entity.Person, error) {
	birth, err := ParseDate(r.BirthDate)
	if err != nil {
		return nil, err
	}
	return &entity.Person{
		Username:  r.Username,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthDate: birth,
	}, nil
}

// PersonResponse salida de una persona (sin password).
type PersonResponse struct {
	ID        int      `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	BirthDate string   `json:"birthDate,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	IsDeleted bool     `json:"isDeleted"`
}

// NewPersonResponse mapea la entidad.
func NewPersonResponse(p *entity.Person) PersonResponse {
	out := PersonResponse{
		ID:        p.ID,
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		BirthDate: FormatDate(p.BirthDate),
		IsDeleted: p.IsDeleted,
	}
	for _, r := range p.Roles {
		out.Roles = append(out.Roles, r.Role)
	}
	return out
}

// PersonRef persona embebida en un documento.
type PersonRef struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func newPersonRef(p *entity.Person) *PersonRef {
	if p == nil {
		return nil
	}
	return &PersonRef{ID: p.ID, Username: p.Username, FirstName: p.FirstName, LastName: p.LastName}
}

// AssignRoleRequest entrada para asignar un rol.
type AssignRoleRequest struct {
	Role string `json:"role"`
}

// RoleResponse salida de un rol asignado.
type RoleResponse struct {
	ID       int    `json:"id"`
	PersonID int    `json:"personId"`
	Role     string `json:"role"`
}

// NewRoleResponse mapea la entidad.
func NewRoleResponse(r entity.Role) RoleResponse {
	return RoleResponse{ID: r.ID, PersonID: r.PersonID, Role: r.Role}
}
