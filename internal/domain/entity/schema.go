package entity

import (
	"time"

	"github.com/jhoicas/Documentos-api/internal/domain/criteria"
)

// Rutas de filtro de Person.
const (
	PersonID        = "id"
	PersonUsername  = "username"
	PersonFirstName = "firstName"
	PersonLastName  = "lastName"
	PersonBirthDate = "birthDate"
)

// Rutas de filtro de Document.
const (
	DocumentID                = "id"
	DocumentTitle             = "title"
	DocumentStatus            = "status"
	DocumentCreationDate      = "creationDate"
	DocumentExecutionPeriod   = "executionPeriod"
	DocumentCustomerID        = "customer.id"
	DocumentCustomerFirstName = "customer.firstName"
	DocumentCustomerLastName  = "customer.lastName"
	DocumentExecutorID        = "executor.id"
	DocumentExecutorFirstName = "executor.firstName"
	DocumentExecutorLastName  = "executor.lastName"
)

// PersonSchema esquema de la tabla persons.
var PersonSchema = criteria.NewEntity("person", "persons",
	criteria.Int(PersonID, "id", func(p *Person) int { return p.ID }),
	criteria.String(PersonUsername, "username", func(p *Person) string { return p.Username }),
	criteria.String(PersonFirstName, "first_name", func(p *Person) string { return p.FirstName }),
	criteria.String(PersonLastName, "last_name", func(p *Person) string { return p.LastName }),
	criteria.Date(PersonBirthDate, "birth_date", func(p *Person) *time.Time { return p.BirthDate }),
	criteria.Bool(criteria.DeletedPath, "is_deleted", func(p *Person) bool { return p.IsDeleted }),
)

// DocumentSchema esquema de la tabla documents; customer y executor apuntan a persons.
var DocumentSchema = criteria.NewEntity("document", "documents",
	criteria.Int(DocumentID, "id", func(d *Document) int { return d.ID }),
	criteria.String(DocumentTitle, "title", func(d *Document) string { return d.Title }),
	criteria.String(DocumentStatus, "status", func(d *Document) string { return d.Status }),
	criteria.Date(DocumentCreationDate, "creation_date", func(d *Document) *time.Time { return d.CreationDate }),
	criteria.Date(DocumentExecutionPeriod, "execution_period", func(d *Document) *time.Time { return d.ExecutionPeriod }),
	criteria.Bool(criteria.DeletedPath, "is_deleted", func(d *Document) bool { return d.IsDeleted }),
	criteria.HasOne("customer", "customer_id", PersonSchema, func(d *Document) *Person { return d.Customer }),
	criteria.HasOne("executor", "executor_id", PersonSchema, func(d *Document) *Person { return d.Executor }),
)

// PersonSortKeys tokens de orden de Person.
var PersonSortKeys = criteria.SortKeys{
	"FIRSTNAME": PersonFirstName,
	"LASTNAME":  PersonLastName,
	"BIRTHDATE": PersonBirthDate,
	"USERNAME":  PersonUsername,
}.Check(PersonSchema)

// DocumentSortKeys tokens de orden de Document.
var DocumentSortKeys = criteria.SortKeys{
	"TITLE":             DocumentTitle,
	"STATUS":            DocumentStatus,
	"CREATIONDATE":      DocumentCreationDate,
	"EXECUTIONPERIOD":   DocumentExecutionPeriod,
	"CUSTOMERFIRSTNAME": DocumentCustomerFirstName,
	"CUSTOMERLASTNAME":  DocumentCustomerLastName,
	"EXECUTORFIRSTNAME": DocumentExecutorFirstName,
	"EXECUTORLASTNAME":  DocumentExecutorLastName,
}.Check(DocumentSchema)
