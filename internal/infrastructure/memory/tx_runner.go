package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
)

var _ repository.PersonTxRunner = (*TxRunner)(nil)

// TxRunner simula transacciones con un registro de deshacer.
// Las transacciones se serializan entre sí; las escrituras fuera de ellas no se bloquean.
type TxRunner struct {
	mu      sync.Mutex
	persons *PersonStore
	roles   *RoleStore
}

// NewTxRunner construye el runner con los almacenes compartidos.
func NewTxRunner(persons *PersonStore, roles *RoleStore) *TxRunner {
	return &TxRunner{persons: persons, roles: roles}
}

// RunPersonRegistration ejecuta fn y deshace sus escrituras si devuelve error.
func (r *TxRunner) RunPersonRegistration(ctx context.Context, fn func(repository.PersonStore, repository.RoleStore) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := &journal{}
	ps := &txPersonStore{PersonStore: r.persons, j: j}
	rs := &txRoleStore{RoleStore: r.roles, j: j}
	if err := fn(ps, rs); err != nil {
		j.rollback()
		return err
	}
	return nil
}

type journal struct {
	undo []func()
}

func (j *journal) add(f func()) { j.undo = append(j.undo, f) }

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
}

type txPersonStore struct {
	*PersonStore
	j *journal
}

func (s *txPersonStore) Save(ctx context.Context, p *entity.Person) error {
	prev := s.snapshot(p.ID)
	if err := s.PersonStore.Save(ctx, p); err != nil {
		return err
	}
	id := p.ID
	s.j.add(func() { s.restore(id, prev) })
	return nil
}

func (s *txPersonStore) SoftDelete(ctx context.Context, id int) (bool, error) {
	prev := s.snapshot(id)
	ok, err := s.PersonStore.SoftDelete(ctx, id)
	if ok {
		s.j.add(func() { s.restore(id, prev) })
	}
	return ok, err
}

func (s *txPersonStore) SoftDeleteWhere(_ context.Context, where criteria.Predicate) (int64, error) {
	matched, ids := s.softDeleteWhere(where)
	s.j.add(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, id := range ids {
			if row, ok := s.rows[id]; ok {
				row.IsDeleted = false
			}
		}
	})
	return matched, nil
}

type txRoleStore struct {
	*RoleStore
	j *journal
}

func (s *txRoleStore) Create(ctx context.Context, role *entity.Role) error {
	if err := s.RoleStore.Create(ctx, role); err != nil {
		return err
	}
	id := role.ID
	s.j.add(func() { s.remove(id) })
	return nil
}
