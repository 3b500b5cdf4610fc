package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentRepo)(nil)

// Cliente (c) y ejecutor (e) se cargan siempre; la contraseña no se lee.
const documentColumns = `t.id, t.title, t.status, t.creation_date, t.execution_period, t.customer_id, t.executor_id, t.is_deleted,
	c.id, c.username, c.first_name, c.last_name, c.birth_date, c.is_deleted,
	e.id, e.username, e.first_name, e.last_name, e.birth_date, e.is_deleted`

// DocumentRepo implementación del puerto DocumentStore sobre PostgreSQL.
type DocumentRepo struct {
	softDeleteRepo[entity.Document]
}

// NewDocumentRepository construye el adaptador de documentos.
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{softDeleteRepo[entity.Document]{q: q, m: rowMapper[entity.Document]{
		schema:  entity.DocumentSchema,
		columns: documentColumns,
		preload: [][2]string{{"customer", "c"}, {"executor", "e"}},
		scan:    scanDocument,
		id:      func(d *entity.Document) int { return d.ID },
		insert:  insertDocument,
		update:  updateDocument,
	}}}
}

// personRef columnas de una persona unida con LEFT JOIN (todas pueden ser NULL).
type personRef struct {
	id        *int
	username  *string
	firstName *string
	lastName  *string
	birthDate *time.Time
	deleted   *bool
}

func (p *personRef) dest() []any {
	return []any{&p.id, &p.username, &p.firstName, &p.lastName, &p.birthDate, &p.deleted}
}

func (p *personRef) person() *entity.Person {
	if p.id == nil {
		return nil
	}
	return &entity.Person{
		ID:        *p.id,
		Username:  deref(p.username),
		FirstName: deref(p.firstName),
		LastName:  deref(p.lastName),
		BirthDate: p.birthDate,
		IsDeleted: p.deleted != nil && *p.deleted,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var customerID, executorID *int
	var customer, executor personRef
	dest := []any{&d.ID, &d.Title, &d.Status, &d.CreationDate, &d.ExecutionPeriod, &customerID, &executorID, &d.IsDeleted}
	dest = append(dest, customer.dest()...)
	dest = append(dest, executor.dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if customerID != nil {
		d.CustomerID = *customerID
	}
	if executorID != nil {
		d.ExecutorID = *executorID
	}
	d.Customer = customer.person()
	d.Executor = executor.person()
	return &d, nil
}

// nullableID 0 se guarda como NULL.
func nullableID(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}

func insertDocument(ctx context.Context, q Querier, d *entity.Document) error {
	query := `
		INSERT INTO documents (title, status, creation_date, execution_period, customer_id, executor_id, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := q.QueryRow(ctx, query, d.Title, d.Status, d.CreationDate, d.ExecutionPeriod,
		nullableID(d.CustomerRef()), nullableID(d.ExecutorRef()), d.IsDeleted).Scan(&d.ID)
	if err != nil {
		return documentWriteError("insert document", d, err)
	}
	return nil
}

func updateDocument(ctx context.Context, q Querier, d *entity.Document) (int64, error) {
	query := `
		UPDATE documents SET title = $2, status = $3, creation_date = $4, execution_period = $5,
			customer_id = $6, executor_id = $7, is_deleted = $8
		WHERE id = $1`
	tag, err := q.Exec(ctx, query, d.ID, d.Title, d.Status, d.CreationDate, d.ExecutionPeriod,
		nullableID(d.CustomerRef()), nullableID(d.ExecutorRef()), d.IsDeleted)
	if err != nil {
		return 0, documentWriteError("update document", d, err)
	}
	return tag.RowsAffected(), nil
}

func documentWriteError(op string, d *entity.Document, err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: cliente %d o ejecutor %d", domain.ErrPersonNotFound, d.CustomerRef(), d.ExecutorRef())
	}
	return fmt.Errorf("%s: %w", op, err)
}
