package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
)

var _ repository.PersonStore = (*PersonStore)(nil)
var _ repository.RoleStore = (*RoleStore)(nil)

// PersonStore personas en memoria. Los roles se consultan en RoleStore.
// El username es único entre todas las filas, borradas incluidas, como en PostgreSQL.
type PersonStore struct {
	*table[entity.Person]
}

// NewPersonStore crea el almacén vacío.
func NewPersonStore() *PersonStore {
	return &PersonStore{table: newTable(entity.PersonSchema, codec[entity.Person]{
		id:         func(p *entity.Person) int { return p.ID },
		setID:      func(p *entity.Person, id int) { p.ID = id },
		deleted:    func(p *entity.Person) bool { return p.IsDeleted },
		setDeleted: func(p *entity.Person, d bool) { p.IsDeleted = d },
		in:         clonePerson,
		out:        clonePerson,
		conflict: func(stored, p *entity.Person) error {
			if stored.Username == p.Username {
				return domain.ErrDuplicateUsername
			}
			return nil
		},
	})}
}

// FindByUsername busca también entre los borrados.
func (s *PersonStore) FindByUsername(_ context.Context, username string) (*entity.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *entity.Person
	for _, p := range s.rows {
		if p.Username == username && (found == nil || p.ID < found.ID) {
			found = p
		}
	}
	if found == nil {
		return nil, nil
	}
	return clonePerson(found), nil
}

func clonePerson(p *entity.Person) *entity.Person {
	c := *p
	if p.BirthDate != nil {
		d := *p.BirthDate
		c.BirthDate = &d
	}
	c.Roles = append([]entity.Role(nil), p.Roles...)
	return &c
}

// RoleStore roles en memoria.
type RoleStore struct {
	mu   sync.RWMutex
	rows []entity.Role
	seq  int
}

// NewRoleStore crea el almacén vacío.
func NewRoleStore() *RoleStore {
	return &RoleStore{}
}

// Create asigna id y guarda el rol.
func (s *RoleStore) Create(_ context.Context, role *entity.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	role.ID = s.seq
	s.rows = append(s.rows, *role)
	return nil
}

// ListByPerson roles de la persona en orden de creación.
func (s *RoleStore) ListByPerson(_ context.Context, personID int) ([]entity.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []entity.Role{}
	for _, r := range s.rows {
		if r.PersonID == personID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *RoleStore) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return
		}
	}
}
