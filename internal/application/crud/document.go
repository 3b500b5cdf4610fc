package crud

import (
	"time"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
	"github.com/jhoicas/Documentos-api/pkg/logger"
)

// NoID valor de id que los filtros por cliente/ejecutor interpretan como "sin filtro".
const NoID = -1

// DocumentCore especialización de Core para documentos.
type DocumentCore struct {
	*Core[entity.Document, int]
}

// NewDocumentCore construye el núcleo de documentos para una petición.
func NewDocumentCore(store repository.DocumentStore, log *logger.Logger, obs Observer) *DocumentCore {
	spec := Spec[entity.Document, int]{
		Schema:     entity.DocumentSchema,
		Store:      store,
		Validate:   validateDocument,
		NotFound:   domain.ErrDocumentNotFound,
		ID:         func(d *entity.Document) int { return d.ID },
		SetID:      func(d *entity.Document, id int) { d.ID = id },
		IsDeleted:  func(d *entity.Document) bool { return d.IsDeleted },
		SetDeleted: func(d *entity.Document, v bool) { d.IsDeleted = v },
	}
	return &DocumentCore{Core: NewCore(spec, log, obs)}
}

func validateDocument(d *entity.Document) []string {
	var missing []string
	if d.Title == "" {
		missing = append(missing, entity.DocumentTitle)
	}
	if d.Status == "" {
		missing = append(missing, entity.DocumentStatus)
	}
	if d.CreationDate == nil {
		missing = append(missing, entity.DocumentCreationDate)
	}
	if d.ExecutionPeriod == nil {
		missing = append(missing, entity.DocumentExecutionPeriod)
	}
	if d.CustomerRef() == 0 {
		missing = append(missing, "customer")
	}
	if d.ExecutorRef() == 0 {
		missing = append(missing, "executor")
	}
	return missing
}

func (c *DocumentCore) like(path, v string) *DocumentCore {
	if v != "" {
		c.With(path, criteria.Like, v)
	}
	return c
}

func (c *DocumentCore) date(path string, op criteria.Operator, d *time.Time) *DocumentCore {
	if d != nil {
		c.With(path, op, *d)
	}
	return c
}

func (c *DocumentCore) ref(path string, id int) *DocumentCore {
	if id != NoID {
		c.With(path, criteria.Equals, id)
	}
	return c
}

// FilterByTitle contiene el texto. Vacío = sin filtro.
func (c *DocumentCore) FilterByTitle(title string) *DocumentCore {
	return c.like(entity.DocumentTitle, title)
}

// FilterByStatus contiene el texto. Vacío = sin filtro.
func (c *DocumentCore) FilterByStatus(status string) *DocumentCore {
	return c.like(entity.DocumentStatus, status)
}

// FilterByCreationDate fecha exacta. nil = sin filtro.
func (c *DocumentCore) FilterByCreationDate(d *time.Time) *DocumentCore {
	return c.date(entity.DocumentCreationDate, criteria.Equals, d)
}

// FilterByCreationDateMoreThan creados en la fecha o después.
func (c *DocumentCore) FilterByCreationDateMoreThan(d *time.Time) *DocumentCore {
	return c.date(entity.DocumentCreationDate, criteria.GreaterOrEqual, d)
}

// FilterByCreationDateLessThan creados en la fecha o antes.
func (c *DocumentCore) FilterByCreationDateLessThan(d *time.Time) *DocumentCore {
	return c.date(entity.DocumentCreationDate, criteria.LessOrEqual, d)
}

// FilterByExecutionPeriod fecha límite exacta.
func (c *DocumentCore) FilterByExecutionPeriod(d *time.Time) *DocumentCore {
	return c.date(entity.DocumentExecutionPeriod, criteria.Equals, d)
}

func (c *DocumentCore) FilterByExecutionPeriodMoreThan(d *time.Time) *DocumentCore {
	return c.date(entity.DocumentExecutionPeriod, criteria.GreaterOrEqual, d)
}

func (c *DocumentCore) FilterByExecutionPeriodLessThan(d *time.Time) *DocumentCore {
	return c.date(entity.DocumentExecutionPeriod, criteria.LessOrEqual, d)
}

// FilterByCustomerID NoID (-1) = sin filtro.
func (c *DocumentCore) FilterByCustomerID(id int) *DocumentCore {
	return c.ref(entity.DocumentCustomerID, id)
}

func (c *DocumentCore) FilterByCustomerFirstName(firstName string) *DocumentCore {
	return c.like(entity.DocumentCustomerFirstName, firstName)
}

func (c *DocumentCore) FilterByCustomerLastName(lastName string) *DocumentCore {
	return c.like(entity.DocumentCustomerLastName, lastName)
}

// FilterByExecutorID NoID (-1) = sin filtro.
func (c *DocumentCore) FilterByExecutorID(id int) *DocumentCore {
	return c.ref(entity.DocumentExecutorID, id)
}

func (c *DocumentCore) FilterByExecutorFirstName(firstName string) *DocumentCore {
	return c.like(entity.DocumentExecutorFirstName, firstName)
}

func (c *DocumentCore) FilterByExecutorLastName(lastName string) *DocumentCore {
	return c.like(entity.DocumentExecutorLastName, lastName)
}

// SetSort acepta TITLE, STATUS, CREATIONDATE, EXECUTIONPERIOD, CUSTOMERFIRSTNAME,
// CUSTOMERLASTNAME, EXECUTORFIRSTNAME o EXECUTORLASTNAME. Vacío = sin orden.
func (c *DocumentCore) SetSort(token string) *DocumentCore {
	if token != "" {
		c.setSortToken(entity.DocumentSortKeys, token)
	}
	return c
}
