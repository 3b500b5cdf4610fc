package crud

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/internal/infrastructure/memory"
)

type env struct {
	persons   *memory.PersonStore
	roles     *memory.RoleStore
	documents *memory.DocumentStore
	factory   *Factory
	obs       *recordingObserver
}

func newEnv() *env {
	persons := memory.NewPersonStore()
	roles := memory.NewRoleStore()
	documents := memory.NewDocumentStore(persons)
	obs := &recordingObserver{}
	deps := PersonDeps{Persons: persons, Roles: roles, Tx: memory.NewTxRunner(persons, roles), BcryptCost: bcrypt.MinCost}
	return &env{
		persons:   persons,
		roles:     roles,
		documents: documents,
		factory:   NewFactory(deps, documents, nil, obs),
		obs:       obs,
	}
}

type recordingObserver struct {
	mu   sync.Mutex
	ops  []string
	errs int
}

func (o *recordingObserver) ObserveOperation(entity, op string, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, entity+"."+op)
	if err != nil {
		o.errs++
	}
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newPerson(username, first, last string) *entity.Person {
	return &entity.Person{
		Username:  username,
		Password:  "secret",
		FirstName: first,
		LastName:  last,
		BirthDate: day(1990, 6, 15),
	}
}

func (e *env) mustPerson(t *testing.T, username, first, last string) *entity.Person {
	t.Helper()
	p, err := e.factory.Persons(nil).Save(context.Background(), newPerson(username, first, last))
	require.NoError(t, err)
	return p
}

func newDocument(title string, customer, executor *entity.Person) *entity.Document {
	return &entity.Document{
		Title:           title,
		Status:          "open",
		CreationDate:    day(2024, 1, 10),
		ExecutionPeriod: day(2024, 2, 10),
		Customer:        customer,
		Executor:        executor,
	}
}

// seedCross crea 3 personas y 9 documentos: cada persona como cliente con cada persona como ejecutor.
func (e *env) seedCross(t *testing.T) []*entity.Person {
	t.Helper()
	people := []*entity.Person{
		e.mustPerson(t, "alex", "alex", "smith"),
		e.mustPerson(t, "bob", "bob", "jones"),
		e.mustPerson(t, "carl", "carl", "brown"),
	}
	for _, c := range people {
		for _, x := range people {
			_, err := e.factory.Documents(nil).Save(context.Background(), newDocument(fmt.Sprintf("%s-%s", c.FirstName, x.FirstName), c, x))
			require.NoError(t, err)
		}
	}
	return people
}
