package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func cond(s *criteria.Entity, path string, op criteria.Operator, v any) criteria.Predicate {
	c, err := criteria.Translate(s, criteria.Criterion{Path: path, Op: op, Value: v})
	if err != nil {
		panic(err)
	}
	return c
}

type StoreSuite struct {
	suite.Suite
	ctx       context.Context
	persons   *PersonStore
	roles     *RoleStore
	documents *DocumentStore
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.persons = NewPersonStore()
	s.roles = NewRoleStore()
	s.documents = NewDocumentStore(s.persons)
}

func (s *StoreSuite) person(first, last string, birth *time.Time) *entity.Person {
	p := &entity.Person{Username: first, Password: "x", FirstName: first, LastName: last, BirthDate: birth}
	s.Require().NoError(s.persons.Save(s.ctx, p))
	return p
}

func (s *StoreSuite) TestSave() {
	s.Run("asigna ids consecutivos", func() {
		a := s.person("ana", "diaz", nil)
		b := s.person("bob", "diaz", nil)
		s.Equal(1, a.ID)
		s.Equal(2, b.ID)
	})

	s.Run("reemplaza una fila existente", func() {
		p, err := s.persons.FindByID(s.ctx, 1)
		s.Require().NoError(err)
		p.LastName = "perez"
		s.Require().NoError(s.persons.Save(s.ctx, p))

		got, err := s.persons.FindByID(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal("perez", got.LastName)
	})

	s.Run("id inexistente devuelve ErrNotFound", func() {
		err := s.persons.Save(s.ctx, &entity.Person{ID: 99, Username: "z"})
		s.ErrorIs(err, domain.ErrNotFound)
	})
}

func (s *StoreSuite) TestUsernameUnico() {
	ana := s.person("ana", "diaz", nil)
	bob := s.person("bob", "diaz", nil)
	_, err := s.persons.SoftDelete(s.ctx, ana.ID)
	s.Require().NoError(err)

	err = s.persons.Save(s.ctx, &entity.Person{Username: "ana", FirstName: "otra"})
	s.ErrorIs(err, domain.ErrDuplicateUsername, "el username de un borrado sigue ocupado")

	bob.Username = "ana"
	s.ErrorIs(s.persons.Save(s.ctx, bob), domain.ErrDuplicateUsername)
	got, err := s.persons.FindByID(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Equal("bob", got.Username)

	got.LastName = "perez"
	s.NoError(s.persons.Save(s.ctx, got), "conservar el propio username no es conflicto")

	n, err := s.persons.Count(s.ctx, nil)
	s.Require().NoError(err)
	s.EqualValues(2, n)
}

func (s *StoreSuite) TestFindPageNumeroEnorme() {
	s.person("ana", "diaz", nil)
	for _, size := range []int{2, 4} {
		page, err := s.persons.FindPage(s.ctx, repository.Query{}, repository.PageRequest{Number: math.MaxInt/size + 1, Size: size})
		s.Require().NoError(err)
		s.Empty(page.Content)
		s.EqualValues(1, page.TotalElements)
	}
	page, err := s.persons.FindPage(s.ctx, repository.Query{}, repository.PageRequest{Size: math.MaxInt})
	s.Require().NoError(err)
	s.Len(page.Content, 1)
	s.Equal(1, page.TotalPages)
}

func (s *StoreSuite) TestLecturasDevuelvenCopias() {
	p := s.person("ana", "diaz", date(2000, 1, 1))

	got, err := s.persons.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	got.FirstName = "otra"
	*got.BirthDate = time.Time{}

	again, err := s.persons.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("ana", again.FirstName)
	s.Equal(2000, again.BirthDate.Year())
}

func (s *StoreSuite) TestFindByIDInexistente() {
	got, err := s.persons.FindByID(s.ctx, 42)
	s.NoError(err)
	s.Nil(got)

	ok, err := s.persons.ExistsByID(s.ctx, 42)
	s.NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestFindAllByIDOmiteInexistentes() {
	a := s.person("ana", "diaz", nil)
	b := s.person("bob", "diaz", nil)

	got, err := s.persons.FindAllByID(s.ctx, []int{b.ID, 77, a.ID})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(b.ID, got[0].ID)
	s.Equal(a.ID, got[1].ID)
}

func (s *StoreSuite) TestFindAllOrdenaConNulosAlFinal() {
	s.person("c", "x", date(1990, 1, 1))
	s.person("a", "x", nil)
	s.person("b", "x", date(1980, 1, 1))

	got, err := s.persons.FindAll(s.ctx, repository.Query{Sort: &criteria.Sort{Path: entity.PersonBirthDate}})
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal([]string{"b", "c", "a"}, []string{got[0].FirstName, got[1].FirstName, got[2].FirstName})

	_, err = s.persons.FindAll(s.ctx, repository.Query{Sort: &criteria.Sort{Path: "age"}})
	s.ErrorIs(err, domain.ErrUnknownField)
}

func (s *StoreSuite) TestFindPage() {
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		s.person(n, "x", nil)
	}

	page, err := s.persons.FindPage(s.ctx, repository.Query{Sort: &criteria.Sort{Path: entity.PersonFirstName}}, repository.PageRequest{Number: 2, Size: 2})
	s.Require().NoError(err)
	s.Len(page.Content, 1)
	s.Equal("e", page.Content[0].FirstName)
	s.EqualValues(5, page.TotalElements)
	s.Equal(3, page.TotalPages)

	page, err = s.persons.FindPage(s.ctx, repository.Query{}, repository.PageRequest{Number: 9, Size: 2})
	s.Require().NoError(err)
	s.Empty(page.Content)

	_, err = s.persons.FindPage(s.ctx, repository.Query{}, repository.PageRequest{Size: 0})
	s.ErrorIs(err, domain.ErrInvalidPage)
}

func (s *StoreSuite) TestSoftDelete() {
	p := s.person("ana", "diaz", nil)

	ok, err := s.persons.SoftDelete(s.ctx, p.ID)
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.persons.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.True(got.IsDeleted)

	ok, err = s.persons.SoftDelete(s.ctx, 99)
	s.NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestSoftDeleteWhere() {
	s.person("ana", "diaz", nil)
	s.person("bob", "diaz", nil)
	s.person("eva", "lopez", nil)

	n, err := s.persons.SoftDeleteWhere(s.ctx, cond(entity.PersonSchema, entity.PersonLastName, criteria.Equals, "diaz"))
	s.Require().NoError(err)
	s.EqualValues(2, n)

	alive, err := s.persons.Count(s.ctx, cond(entity.PersonSchema, criteria.DeletedPath, criteria.Equals, false))
	s.Require().NoError(err)
	s.EqualValues(1, alive)
}

func (s *StoreSuite) TestDocumentosCarganPersonas() {
	alex := s.person("alex", "smith", nil)
	bob := s.person("bob", "jones", nil)
	doc := &entity.Document{Title: "t", Status: "s", Customer: alex, ExecutorID: bob.ID}
	s.Require().NoError(s.documents.Save(s.ctx, doc))

	got, err := s.documents.FindByID(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Customer)
	s.Require().NotNil(got.Executor)
	s.Equal("alex", got.Customer.FirstName)
	s.Equal(bob.ID, got.ExecutorID)

	n, err := s.documents.Count(s.ctx, cond(entity.DocumentSchema, entity.DocumentExecutorLastName, criteria.Like, "jon"))
	s.Require().NoError(err)
	s.EqualValues(1, n)
}

func (s *StoreSuite) TestDocumentoConPersonaInexistente() {
	err := s.documents.Save(s.ctx, &entity.Document{Title: "t", CustomerID: 5, ExecutorID: 6})
	s.ErrorIs(err, domain.ErrPersonNotFound)
}

func (s *StoreSuite) TestTxRunnerDeshaceSiFalla() {
	runner := NewTxRunner(s.persons, s.roles)
	boom := errors.New("boom")

	err := runner.RunPersonRegistration(s.ctx, func(persons repository.PersonStore, roles repository.RoleStore) error {
		p := &entity.Person{Username: "ana", FirstName: "ana"}
		if err := persons.Save(s.ctx, p); err != nil {
			return err
		}
		if err := roles.Create(s.ctx, &entity.Role{PersonID: p.ID, Role: entity.RoleUser}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	n, err := s.persons.Count(s.ctx, nil)
	s.Require().NoError(err)
	s.Zero(n)
	roles, err := s.roles.ListByPerson(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(roles)
}

func (s *StoreSuite) TestTxRunnerConfirmaSiTermina() {
	runner := NewTxRunner(s.persons, s.roles)

	err := runner.RunPersonRegistration(s.ctx, func(persons repository.PersonStore, roles repository.RoleStore) error {
		p := &entity.Person{Username: "ana"}
		if err := persons.Save(s.ctx, p); err != nil {
			return err
		}
		return roles.Create(s.ctx, &entity.Role{PersonID: p.ID, Role: entity.RoleUser})
	})
	s.Require().NoError(err)

	p, err := s.persons.FindByUsername(s.ctx, "ana")
	s.Require().NoError(err)
	s.Require().NotNil(p)
	roles, err := s.roles.ListByPerson(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Len(roles, 1)
}
