package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

var _ repository.CountSessionRepository = (*CountSessionRepo)(nil)

const sessionColumns = `id, company_id, name, effective_date, location_id,
	status, created_at, created_by, completed_at, completed_by`

// CountSessionRepo implementación PostgreSQL de las sesiones de conteo.
type CountSessionRepo struct {
	q Querier
}

func NewCountSessionRepository(q Querier) *CountSessionRepo {
	return &CountSessionRepo{q: q}
}

// Create inserta la sesión con el estado que ya trae la entidad.
func (r *CountSessionRepo) Create(session *entity.CountSession) error {
	query := `
		INSERT INTO count_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.CompanyID, session.Name, session.EffectiveDate,
		session.LocationID, session.Status, session.CreatedAt, session.CreatedBy,
		session.CompletedAt, session.CompletedBy,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID; nil si no existe.
func (r *CountSessionRepo) GetByID(id string) (*entity.CountSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM count_sessions WHERE id = $1`
	s, err := scanSession(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// List devuelve las sesiones de la empresa, más reciente primero.
func (r *CountSessionRepo) List(companyID string, f repository.SessionFilter) ([]*entity.CountSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM count_sessions WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if f.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, *f.Status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var list []*entity.CountSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// MarkCompleted cierra la sesión solo si sigue en curso (compare-and-set
// sobre status). Devuelve false cuando otra transacción ganó la carrera.
func (r *CountSessionRepo) MarkCompleted(id, completedBy string, completedAt time.Time) (bool, error) {
	query := `
		UPDATE count_sessions
		SET status = $2, completed_by = $3, completed_at = $4
		WHERE id = $1 AND status = $5`
	tag, err := r.q.Exec(context.Background(), query,
		id, entity.StatusCompleted, completedBy, completedAt, entity.StatusInProgress)
	if err != nil {
		return false, fmt.Errorf("complete session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkCancelled cancela la sesión solo si aún no terminó.
func (r *CountSessionRepo) MarkCancelled(id string) (bool, error) {
	query := `
		UPDATE count_sessions
		SET status = $2
		WHERE id = $1 AND status IN ($3, $4)`
	tag, err := r.q.Exec(context.Background(), query,
		id, entity.StatusCancelled, entity.StatusPlanned, entity.StatusInProgress)
	if err != nil {
		return false, fmt.Errorf("cancel session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanSession(row pgx.Row) (*entity.CountSession, error) {
	var s entity.CountSession
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.EffectiveDate, &s.LocationID,
		&s.Status, &s.CreatedAt, &s.CreatedBy, &s.CompletedAt, &s.CompletedBy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
