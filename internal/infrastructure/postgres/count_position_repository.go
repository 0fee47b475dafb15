package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

var _ repository.CountPositionRepository = (*CountPositionRepo)(nil)

const positionColumns = `id, session_id, item_id, location_id, expected_qty,
	counted_qty, counted_by, counted_at, comment, created_at`

// CountPositionRepo implementación PostgreSQL de las posiciones de conteo.
type CountPositionRepo struct {
	q Querier
}

func NewCountPositionRepository(q Querier) *CountPositionRepo {
	return &CountPositionRepo{q: q}
}

// BulkCreate inserta todas las posiciones de una sesión en un solo batch.
func (r *CountPositionRepo) BulkCreate(positions []*entity.CountPosition) error {
	if len(positions) == 0 {
		return nil
	}
	query := `
		INSERT INTO count_positions (` + positionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	batch := &pgx.Batch{}
	for _, p := range positions {
		batch.Queue(query,
			p.ID, p.SessionID, p.ItemID, p.LocationID, p.ExpectedQty,
			p.CountedQty, p.CountedBy, p.CountedAt, p.Comment, p.CreatedAt,
		)
	}
	results := r.q.SendBatch(context.Background(), batch)
	defer results.Close()
	for range positions {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("bulk create positions: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una posición por ID; nil si no existe.
func (r *CountPositionRepo) GetByID(id string) (*entity.CountPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM count_positions WHERE id = $1`
	p, err := scanPosition(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get position: %w", err)
	}
	return p, nil
}

// GetDetailed obtiene una posición con datos de artículo y ubicación.
func (r *CountPositionRepo) GetDetailed(id string) (*repository.PositionDetail, error) {
	query := detailedQuery + ` WHERE p.id = $1`
	d, err := scanPositionDetail(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get position detail: %w", err)
	}
	return d, nil
}

// ListBySession devuelve las posiciones crudas de una sesión.
func (r *CountPositionRepo) ListBySession(sessionID string) ([]*entity.CountPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM count_positions WHERE session_id = $1`
	rows, err := r.q.Query(context.Background(), query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var list []*entity.CountPosition
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListBySessionDetailed devuelve las posiciones con datos de catálogo,
// ordenadas por número de artículo y ubicación para listas y hojas de conteo.
func (r *CountPositionRepo) ListBySessionDetailed(sessionID string) ([]repository.PositionDetail, error) {
	query := detailedQuery + ` WHERE p.session_id = $1 ORDER BY i.item_number, l.name`
	rows, err := r.q.Query(context.Background(), query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list positions detailed: %w", err)
	}
	defer rows.Close()

	var list []repository.PositionDetail
	for rows.Next() {
		d, err := scanPositionDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position detail: %w", err)
		}
		list = append(list, *d)
	}
	return list, rows.Err()
}

// RecordCount escribe la cantidad contada solo si la sesión dueña sigue en
// curso; el último registro pisa al anterior. Devuelve false si la sesión
// ya cerró (la subconsulta EXISTS decide dentro del mismo statement).
func (r *CountPositionRepo) RecordCount(positionID string, countedQty decimal.Decimal, comment *string, countedBy string, countedAt time.Time) (bool, error) {
	query := `
		UPDATE count_positions p
		SET counted_qty = $2, comment = COALESCE($3, p.comment),
			counted_by = $4, counted_at = $5
		WHERE p.id = $1 AND EXISTS (
			SELECT 1 FROM count_sessions s
			WHERE s.id = p.session_id AND s.status = $6
		)`
	tag, err := r.q.Exec(context.Background(), query,
		positionID, countedQty, comment, countedBy, countedAt, entity.StatusInProgress)
	if err != nil {
		return false, fmt.Errorf("record count: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

const detailedQuery = `
	SELECT p.id, p.session_id, p.item_id, p.location_id, p.expected_qty,
		p.counted_qty, p.counted_by, p.counted_at, p.comment, p.created_at,
		i.item_number, i.name, i.unit, l.name
	FROM count_positions p
	JOIN items i ON i.id = p.item_id
	JOIN locations l ON l.id = p.location_id`

func scanPosition(row pgx.Row) (*entity.CountPosition, error) {
	var p entity.CountPosition
	err := row.Scan(
		&p.ID, &p.SessionID, &p.ItemID, &p.LocationID, &p.ExpectedQty,
		&p.CountedQty, &p.CountedBy, &p.CountedAt, &p.Comment, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPositionDetail(row pgx.Row) (*repository.PositionDetail, error) {
	var d repository.PositionDetail
	p := &d.Position
	err := row.Scan(
		&p.ID, &p.SessionID, &p.ItemID, &p.LocationID, &p.ExpectedQty,
		&p.CountedQty, &p.CountedBy, &p.CountedAt, &p.Comment, &p.CreatedAt,
		&d.ItemNumber, &d.ItemName, &d.Unit, &d.LocationName,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
