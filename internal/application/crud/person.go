package crud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
	"github.com/jhoicas/Documentos-api/pkg/logger"
)

// PersonDeps puertos que necesita PersonCore.
type PersonDeps struct {
	Persons    repository.PersonStore
	Roles      repository.RoleStore
	Tx         repository.PersonTxRunner
	BcryptCost int
}

// PersonCore especialización de Core para personas: filtros tipados, alta con rol y contraseña cifrada.
type PersonCore struct {
	*Core[entity.Person, int]
	deps PersonDeps
}

// NewPersonCore construye el núcleo de personas para una petición.
func NewPersonCore(deps PersonDeps, log *logger.Logger, obs Observer) *PersonCore {
	if deps.BcryptCost == 0 {
		deps.BcryptCost = bcrypt.DefaultCost
	}
	spec := Spec[entity.Person, int]{
		Schema:     entity.PersonSchema,
		Store:      deps.Persons,
		Validate:   validatePerson,
		NotFound:   domain.ErrPersonNotFound,
		ID:         func(p *entity.Person) int { return p.ID },
		SetID:      func(p *entity.Person, id int) { p.ID = id },
		IsDeleted:  func(p *entity.Person) bool { return p.IsDeleted },
		SetDeleted: func(p *entity.Person, d bool) { p.IsDeleted = d },
	}
	return &PersonCore{Core: NewCore(spec, log, obs), deps: deps}
}

func validatePerson(p *entity.Person) []string {
	var missing []string
	if p.Username == "" {
		missing = append(missing, entity.PersonUsername)
	}
	if p.Password == "" {
		missing = append(missing, "password")
	}
	if p.FirstName == "" {
		missing = append(missing, entity.PersonFirstName)
	}
	if p.LastName == "" {
		missing = append(missing, entity.PersonLastName)
	}
	if p.BirthDate == nil {
		missing = append(missing, entity.PersonBirthDate)
	}
	return missing
}

// FilterByUsername coincidencia exacta. Vacío = sin filtro.
func (c *PersonCore) FilterByUsername(username string) *PersonCore {
	if username != "" {
		c.With(entity.PersonUsername, criteria.Equals, username)
	}
	return c
}

// FilterByFirstName contiene el texto. Vacío = sin filtro.
func (c *PersonCore) FilterByFirstName(firstName string) *PersonCore {
	if firstName != "" {
		c.With(entity.PersonFirstName, criteria.Like, firstName)
	}
	return c
}

// FilterByLastName contiene el texto. Vacío = sin filtro.
func (c *PersonCore) FilterByLastName(lastName string) *PersonCore {
	if lastName != "" {
		c.With(entity.PersonLastName, criteria.Like, lastName)
	}
	return c
}

// FilterByBirthDate fecha exacta. nil = sin filtro.
func (c *PersonCore) FilterByBirthDate(d *time.Time) *PersonCore {
	return c.date(criteria.Equals, d)
}

// FilterByBirthDateMoreThan nacidos en la fecha o después.
func (c *PersonCore) FilterByBirthDateMoreThan(d *time.Time) *PersonCore {
	return c.date(criteria.GreaterOrEqual, d)
}

// FilterByBirthDateLessThan nacidos en la fecha o antes.
func (c *PersonCore) FilterByBirthDateLessThan(d *time.Time) *PersonCore {
	return c.date(criteria.LessOrEqual, d)
}

func (c *PersonCore) date(op criteria.Operator, d *time.Time) *PersonCore {
	if d != nil {
		c.With(entity.PersonBirthDate, op, *d)
	}
	return c
}

// SetSort acepta FIRSTNAME, LASTNAME, BIRTHDATE o USERNAME. Vacío = sin orden.
func (c *PersonCore) SetSort(token string) *PersonCore {
	if token != "" {
		c.setSortToken(entity.PersonSortKeys, token)
	}
	return c
}

// FindByID busca por id (incluye borrados) y carga sus roles.
func (c *PersonCore) FindByID(ctx context.Context, id int) (*entity.Person, error) {
	p, err := c.Core.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.withRoles(ctx, p)
}

// FindByUsername busca por username (incluye borrados) y carga sus roles.
func (c *PersonCore) FindByUsername(ctx context.Context, username string) (*entity.Person, error) {
	p, err := c.deps.Persons.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.NotFoundError{Kind: domain.ErrPersonNotFound, ID: username}
	}
	return c.withRoles(ctx, p)
}

func (c *PersonCore) withRoles(ctx context.Context, p *entity.Person) (*entity.Person, error) {
	roles, err := c.deps.Roles.ListByPerson(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Roles = roles
	return p, nil
}

// Save valida, rechaza usernames repetidos, cifra la contraseña y crea la persona
// con su rol ROLE_USER en una sola transacción.
func (c *PersonCore) Save(ctx context.Context, p *entity.Person) (_ *entity.Person, err error) {
	defer c.track("save")(&err)
	if err := c.validate(p); err != nil {
		return nil, err
	}
	hash, err := c.hash(p.Password)
	if err != nil {
		return nil, err
	}
	c.prepareInsert(p)
	err = c.deps.Tx.RunPersonRegistration(ctx, func(persons repository.PersonStore, roles repository.RoleStore) error {
		return register(ctx, persons, roles, p, hash)
	})
	if err != nil {
		p.ID = 0
		return nil, err
	}
	c.log.Debug().Int("id", p.ID).Str("username", p.Username).Msg("persona registrada")
	return p, nil
}

// SaveAll valida todas antes de registrar alguna; cada alta es atómica por separado.
func (c *PersonCore) SaveAll(ctx context.Context, ps []*entity.Person) (_ []*entity.Person, err error) {
	defer c.track("save_all")(&err)
	seen := make(map[string]bool, len(ps))
	for i, p := range ps {
		if err := c.validate(p); err != nil {
			return nil, fmt.Errorf("elemento %d: %w", i, err)
		}
		if seen[p.Username] {
			return nil, fmt.Errorf("elemento %d: %w", i, domain.ErrDuplicateUsername)
		}
		seen[p.Username] = true
	}
	out := make([]*entity.Person, 0, len(ps))
	for _, p := range ps {
		saved, err := c.Save(ctx, p)
		if err != nil {
			return out, err
		}
		out = append(out, saved)
	}
	return out, nil
}

func register(ctx context.Context, persons repository.PersonStore, roles repository.RoleStore, p *entity.Person, hash string) error {
	existing, err := persons.FindByUsername(ctx, p.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrDuplicateUsername
	}
	raw := p.Password
	p.Password = hash
	if err := persons.Save(ctx, p); err != nil {
		p.Password = raw
		return fmt.Errorf("save person: %w", err)
	}
	role := entity.Role{PersonID: p.ID, Role: entity.RoleUser}
	if err := roles.Create(ctx, &role); err != nil {
		p.Password = raw
		return fmt.Errorf("create role: %w", err)
	}
	p.Roles = []entity.Role{role}
	return nil
}

// Update reemplaza la persona id. Cifra la contraseña recibida y rechaza un
// username de otra persona; el almacén repite esa comprobación al escribir.
// Como Core.Update, conserva el estado de borrado guardado.
func (c *PersonCore) Update(ctx context.Context, p *entity.Person, id int) (_ *entity.Person, err error) {
	defer c.track("update")(&err)
	if _, err := c.prepareUpdate(ctx, p, id); err != nil {
		return nil, err
	}
	other, err := c.deps.Persons.FindByUsername(ctx, p.Username)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, domain.ErrDuplicateUsername
	}
	hash, err := c.hash(p.Password)
	if err != nil {
		return nil, err
	}
	p.Password = hash
	if err := c.deps.Persons.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	return c.withRoles(ctx, p)
}

// AssignRole agrega un rol a una persona existente.
func (c *PersonCore) AssignRole(ctx context.Context, personID int, role string) (_ *entity.Role, err error) {
	defer c.track("assign_role")(&err)
	if !entity.ValidRole(role) {
		return nil, &domain.ValidationError{Entity: "role", Fields: []string{"role"}}
	}
	ok, err := c.deps.Persons.ExistsByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.NotFoundError{Kind: domain.ErrPersonNotFound, ID: personID}
	}
	current, err := c.deps.Roles.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	for _, r := range current {
		if r.Role == role {
			return nil, fmt.Errorf("%w: rol %s ya asignado", domain.ErrDuplicate, role)
		}
	}
	r := entity.Role{PersonID: personID, Role: role}
	if err := c.deps.Roles.Create(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Roles de la persona; NotFound si no existe.
func (c *PersonCore) Roles(ctx context.Context, personID int) ([]entity.Role, error) {
	ok, err := c.deps.Persons.ExistsByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.NotFoundError{Kind: domain.ErrPersonNotFound, ID: personID}
	}
	return c.deps.Roles.ListByPerson(ctx, personID)
}

// CheckPassword compara la contraseña en claro con el hash guardado.
func CheckPassword(p *entity.Person, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(raw)) == nil
}

func (c *PersonCore) hash(raw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), c.deps.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", &domain.ValidationError{Entity: "person", Fields: []string{"password"}}
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
