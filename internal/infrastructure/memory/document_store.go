package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DocumentStore documentos en memoria; cliente y ejecutor se cargan desde PersonStore al leer.
type DocumentStore struct {
	*table[entity.Document]
	persons *PersonStore
}

// NewDocumentStore crea el almacén vacío sobre las personas dadas.
func NewDocumentStore(persons *PersonStore) *DocumentStore {
	s := &DocumentStore{persons: persons}
	s.table = newTable(entity.DocumentSchema, codec[entity.Document]{
		id:         func(d *entity.Document) int { return d.ID },
		setID:      func(d *entity.Document, id int) { d.ID = id },
		deleted:    func(d *entity.Document) bool { return d.IsDeleted },
		setDeleted: func(d *entity.Document, v bool) { d.IsDeleted = v },
		in:         storedDocument,
		out:        s.loadDocument,
	})
	return s
}

// Save verifica que cliente y ejecutor existan, como la FK en PostgreSQL.
func (s *DocumentStore) Save(ctx context.Context, d *entity.Document) error {
	for _, id := range []int{d.CustomerRef(), d.ExecutorRef()} {
		if id == 0 {
			continue
		}
		ok, _ := s.persons.ExistsByID(ctx, id)
		if !ok {
			return fmt.Errorf("%w: cliente %d o ejecutor %d", domain.ErrPersonNotFound, d.CustomerRef(), d.ExecutorRef())
		}
	}
	return s.table.Save(ctx, d)
}

// storedDocument guarda solo las FKs, sin las personas relacionadas.
func storedDocument(d *entity.Document) *entity.Document {
	c := *d
	c.CustomerID = d.CustomerRef()
	c.ExecutorID = d.ExecutorRef()
	c.Customer, c.Executor = nil, nil
	c.CreationDate = copyTime(d.CreationDate)
	c.ExecutionPeriod = copyTime(d.ExecutionPeriod)
	return &c
}

// loadDocument toma el lock de lectura de personas; el orden de locks es documentos -> personas.
func (s *DocumentStore) loadDocument(d *entity.Document) *entity.Document {
	c := storedDocument(d)
	s.persons.mu.RLock()
	defer s.persons.mu.RUnlock()
	if p, ok := s.persons.rows[c.CustomerID]; ok {
		c.Customer = clonePerson(p)
	}
	if p, ok := s.persons.rows[c.ExecutorID]; ok {
		c.Executor = clonePerson(p)
	}
	return c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
