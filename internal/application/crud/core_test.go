package crud

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
)

func ids(docs []*entity.Document) []int {
	out := make([]int, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestSave_LuegoFindByID(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p := e.mustPerson(t, "u1", "ana", "diaz")

	in := newDocument("contrato", p, p)
	in.ID = 77
	in.IsDeleted = true
	saved, err := e.factory.Documents(nil).Save(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, 77, saved.ID, "el id lo asigna el almacenamiento")

	got, err := e.factory.Documents(nil).FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, saved.SameAs(got))
	assert.Equal(t, "open", got.Status)
	assert.True(t, got.ExecutionPeriod.Equal(*saved.ExecutionPeriod))
	assert.Equal(t, p.ID, got.CustomerRef())
	assert.False(t, got.IsDeleted)
}

func TestSave_EntidadInvalida(t *testing.T) {
	e := newEnv()
	core := e.factory.Documents(nil)

	_, err := core.Save(context.Background(), &entity.Document{Title: "t"})
	require.ErrorIs(t, err, domain.ErrInvalidEntity)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"status", "creationDate", "executionPeriod", "customer", "executor"}, verr.Fields)
	assert.True(t, core.VerifyEntity(&entity.Document{}))
	assert.True(t, core.VerifyEntity(nil))

	n, err := core.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSaveAll_ValidaTodoAntesDeEscribir(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p := e.mustPerson(t, "u1", "ana", "diaz")

	_, err := e.factory.Documents(nil).SaveAll(ctx, []*entity.Document{
		newDocument("a", p, p),
		{Title: "sin estado"},
	})
	require.ErrorIs(t, err, domain.ErrInvalidEntity)

	n, err := e.factory.Documents(nil).IncludeDeleted().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	saved, err := e.factory.Documents(nil).SaveAll(ctx, []*entity.Document{newDocument("a", p, p), newDocument("b", p, p)})
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestFiltroPorNombreDelCliente(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	people := e.seedCross(t)
	alex := people[0]

	docs, err := e.factory.Documents(nil).With("customer.firstName", criteria.Equals, "alex").FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for _, d := range docs {
		assert.Equal(t, alex.ID, d.CustomerRef())
	}

	docs, err = e.factory.Documents(nil).FilterByCustomerFirstName("alex").FilterByExecutorID(NoID).FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	docs, err = e.factory.Documents(nil).FilterByExecutorFirstName("alex").FilterByCustomerLastName("jones").FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "bob-alex", docs[0].Title)
}

func TestBorradoLogico(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedCross(t)

	docs := e.factory.Documents(nil)
	require.NoError(t, docs.DeleteByID(ctx, 2))
	require.NoError(t, docs.DeleteByID(ctx, 5))

	got, err := docs.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	alive, err := docs.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, alive, 7)
	assert.NotContains(t, ids(alive), 2)

	deleted, err := docs.SearchOnlyInDeleted().FindAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2, 5}, ids(deleted))

	all, err := docs.IncludeDeleted().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 9, all)

	err = docs.DeleteByID(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBorradoNoEnCascada(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	people := e.seedCross(t)

	require.NoError(t, e.factory.Persons(nil).Delete(ctx, people[0]))

	n, err := e.factory.Documents(nil).FilterByCustomerID(people[0].ID).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	roles, err := e.factory.Persons(nil).Roles(ctx, people[0].ID)
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	persons, err := e.factory.Persons(nil).FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, persons, 2)
}

func TestDeleteAll(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedCross(t)
	docs := e.factory.Documents(nil)

	first, err := docs.FindAllByID(ctx, []int{1, 2})
	require.NoError(t, err)
	require.NoError(t, docs.DeleteAll(ctx, first))

	n, err := docs.FilterByExecutorLastName("brown").DeleteAllMatching(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	left, err := docs.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, left, 4)

	n, err = docs.DeleteAllMatching(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 9, n)
	left, err = docs.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestClearFilterLuegoFindAll(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedCross(t)
	docs := e.factory.Documents(nil)
	require.NoError(t, docs.DeleteByID(ctx, 9))

	docs.FilterByTitle("alex").SetSort("TITLE").SearchOnlyInDeleted()
	docs.ClearFilter()

	got, err := docs.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestEstadoSeReiniciaTrasErrores(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedCross(t)
	docs := e.factory.Documents(nil)

	_, err := docs.FilterByTitle("alex").SetSort("AUTHOR").FindAll(ctx)
	assert.ErrorIs(t, err, domain.ErrUnknownSortKey)

	_, err = docs.FilterByTitle("alex").WithToken("status", "=", "open").Count(ctx)
	assert.ErrorIs(t, err, domain.ErrBadFilterOperator)

	_, err = docs.FilterByTitle("alex").ToPage(ctx, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)

	_, err = docs.With("creationDate", criteria.Like, "2024").FindAll(ctx)
	assert.ErrorIs(t, err, domain.ErrBadFilterOperator)

	_, err = docs.With("author.name", criteria.Equals, "x").FindAll(ctx)
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	got, err := docs.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 9)
}

func TestOrdenPorRelacion(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedCross(t)

	docs, err := e.factory.Documents(nil).FilterByExecutorFirstName("bob").SetSort("customerLastName").FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"carl-bob", "bob-bob", "alex-bob"}, []string{docs[0].Title, docs[1].Title, docs[2].Title})
}

func TestUpdateDocumentoInvalidoNoCambiaNada(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	people := e.seedCross(t)
	docs := e.factory.Documents(nil)

	before, err := docs.FindByID(ctx, 5)
	require.NoError(t, err)

	bad := newDocument("", people[0], people[1])
	_, err = docs.Update(ctx, bad, 5)
	require.ErrorIs(t, err, domain.ErrInvalidEntity)

	after, err := docs.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, before.Title, after.Title)
}

func TestUpdateDocumento(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	people := e.seedCross(t)
	docs := e.factory.Documents(nil)
	require.NoError(t, docs.DeleteByID(ctx, 4))

	in := newDocument("renovado", people[2], people[2])
	in.ID = 999
	out, err := docs.Update(ctx, in, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, out.ID)

	got, err := docs.FindByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "renovado", got.Title)
	assert.Equal(t, people[2].ID, got.CustomerRef())
	assert.True(t, got.IsDeleted, "se conserva el borrado lógico")

	_, err = docs.Update(ctx, newDocument("x", people[0], people[0]), 404)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

// El isDeleted recibido en Update no restaura ni borra la fila.
func TestUpdateIgnoraIsDeletedRecibido(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	people := e.seedCross(t)
	docs := e.factory.Documents(nil)
	require.NoError(t, docs.DeleteByID(ctx, 1))

	restaurar := newDocument("restaurado", people[0], people[0])
	restaurar.IsDeleted = false
	_, err := docs.Update(ctx, restaurar, 1)
	require.NoError(t, err)

	borrar := newDocument("activo", people[1], people[1])
	borrar.IsDeleted = true
	_, err = docs.Update(ctx, borrar, 2)
	require.NoError(t, err)

	deleted, err := docs.SearchOnlyInDeleted().FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(deleted))
}

func TestFindByIDInexistente(t *testing.T) {
	e := newEnv()
	_, err := e.factory.Documents(nil).FindByID(context.Background(), 1)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 1, nf.ID)

	ok, err := e.factory.Documents(nil).ExistsByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToPage(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedCross(t)

	page, err := e.factory.Documents(nil).SetSort("TITLE").ToPage(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 4, page.Size)
	assert.EqualValues(t, 9, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Content, 4)
	assert.Equal(t, "bob-bob", page.Content[0].Title)

	_, err = e.factory.Documents(nil).ToPage(ctx, -1, 4)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)
}

// Números de página o tamaños enormes no desbordan: la página queda vacía o contiene todo.
func TestToPage_ValoresExtremos(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.seedCross(t)

	for _, size := range []int{2, 4} {
		page, err := e.factory.Documents(nil).ToPage(ctx, math.MaxInt/size+1, size)
		require.NoError(t, err)
		assert.Empty(t, page.Content, "size=%d", size)
		assert.EqualValues(t, 9, page.TotalElements)
		assert.Equal(t, (9+size-1)/size, page.TotalPages)
	}

	page, err := e.factory.Documents(nil).ToPage(ctx, 0, math.MaxInt)
	require.NoError(t, err)
	assert.Len(t, page.Content, 9)
	assert.Equal(t, 1, page.TotalPages)

	page, err = e.factory.Documents(nil).ToPage(ctx, 1, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
}

// La concatenación de todas las páginas reconstruye el resultado completo, sin duplicados ni faltantes.
func TestToPage_ReconstruyeResultado(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	lastNames := []string{"diaz", "lopez", "perez", "ruiz"}
	sorts := []string{"", "FIRSTNAME", "LASTNAME", "BIRTHDATE", "USERNAME"}

	properties.Property("páginas concatenadas = FindAll", prop.ForAll(
		func(n, size, sortIdx, deleteEvery int) bool {
			e := newEnv()
			ctx := context.Background()
			for i := 0; i < n; i++ {
				p := newPerson("u"+string(rune('a'+i)), string(rune('z'-i%5)), lastNames[i%len(lastNames)])
				p.BirthDate = day(1980+i%3, 1, 1)
				if _, err := e.factory.Persons(nil).Save(ctx, p); err != nil {
					return false
				}
				if deleteEvery > 0 && i%deleteEvery == 0 {
					if err := e.factory.Persons(nil).DeleteByID(ctx, p.ID); err != nil {
						return false
					}
				}
			}
			token := sorts[sortIdx]

			all, err := e.factory.Persons(nil).FilterByLastName("e").SetSort(token).FindAll(ctx)
			if err != nil {
				return false
			}
			var joined []int
			pages := (len(all) + size - 1) / size
			for p := 0; p < pages; p++ {
				page, err := e.factory.Persons(nil).FilterByLastName("e").SetSort(token).ToPage(ctx, p, size)
				if err != nil || len(page.Content) > size || page.TotalElements != int64(len(all)) {
					return false
				}
				for _, x := range page.Content {
					joined = append(joined, x.ID)
				}
			}
			want := make([]int, 0, len(all))
			for _, x := range all {
				want = append(want, x.ID)
			}
			if len(want) != len(joined) {
				return false
			}
			for i := range want {
				if want[i] != joined[i] {
					return false
				}
			}
			unique := append([]int(nil), joined...)
			sort.Ints(unique)
			for i := 1; i < len(unique); i++ {
				if unique[i] == unique[i-1] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 20),
		gen.IntRange(1, 6),
		gen.IntRange(0, len(sorts)-1),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}

func TestObserverRegistraOperaciones(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	docs := e.factory.Documents(nil)

	_, _ = docs.FindAll(ctx)
	_, _ = docs.SetSort("NOPE").Count(ctx)

	assert.Equal(t, []string{"document.find_all", "document.count"}, e.obs.ops)
	assert.Equal(t, 1, e.obs.errs)
}
