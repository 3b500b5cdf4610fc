package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Documentos-api/internal/domain"
	"github.com/jhoicas/Documentos-api/internal/domain/entity"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
)

var _ repository.PersonStore = (*PersonRepo)(nil)

const personColumns = `t.id, t.username, t.password, t.first_name, t.last_name, t.birth_date, t.is_deleted`

// PersonRepo implementación del puerto PersonStore sobre PostgreSQL.
type PersonRepo struct {
	softDeleteRepo[entity.Person]
}

// NewPersonRepository construye el adaptador; q puede ser el pool o una transacción.
func NewPersonRepository(q Querier) *PersonRepo {
	return &PersonRepo{softDeleteRepo[entity.Person]{q: q, m: rowMapper[entity.Person]{
		schema:  entity.PersonSchema,
		columns: personColumns,
		scan:    scanPerson,
		id:      func(p *entity.Person) int { return p.ID },
		insert:  insertPerson,
		update:  updatePerson,
	}}}
}

// FindByUsername busca también entre los borrados.
func (r *PersonRepo) FindByUsername(ctx context.Context, username string) (*entity.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons t WHERE t.username = $1 ORDER BY t.id LIMIT 1`
	p, err := scanPerson(r.q.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get person by username: %w", err)
	}
	return p, nil
}

func scanPerson(row pgx.Row) (*entity.Person, error) {
	var p entity.Person
	if err := row.Scan(&p.ID, &p.Username, &p.Password, &p.FirstName, &p.LastName, &p.BirthDate, &p.IsDeleted); err != nil {
		return nil, err
	}
	return &p, nil
}

func insertPerson(ctx context.Context, q Querier, p *entity.Person) error {
	query := `
		INSERT INTO persons (username, password, first_name, last_name, birth_date, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := q.QueryRow(ctx, query, p.Username, p.Password, p.FirstName, p.LastName, p.BirthDate, p.IsDeleted).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func updatePerson(ctx context.Context, q Querier, p *entity.Person) (int64, error) {
	query := `
		UPDATE persons SET username = $2, password = $3, first_name = $4, last_name = $5, birth_date = $6, is_deleted = $7
		WHERE id = $1`
	tag, err := q.Exec(ctx, query, p.ID, p.Username, p.Password, p.FirstName, p.LastName, p.BirthDate, p.IsDeleted)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateUsername
		}
		return 0, fmt.Errorf("update person: %w", err)
	}
	return tag.RowsAffected(), nil
}
