package entity

import "time"

// Person representa una persona: cliente o ejecutor de documentos y usuario del sistema.
type Person struct {
	ID        int
	Username  string
	Password  string // hash bcrypt una vez persistido
	FirstName string
	LastName  string
	BirthDate *time.Time
	Roles     []Role
	IsDeleted bool
}

// SameAs compara por identidad y clave natural (id, nombre, apellido).
func (p *Person) SameAs(o *Person) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.ID == o.ID && p.FirstName == o.FirstName && p.LastName == o.LastName
}

// HasRole indica si la persona tiene asignado el rol.
func (p *Person) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}
