package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/contalibre/conteo-api/internal/domain"
	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, company_id, item_id, location_id, quantity_delta,
	reason, source_session_id, note, created_at, created_by`

// StockMovementRepo implementación del libro de existencias sobre PostgreSQL.
// Solo inserta y consulta: el libro es append-only y la tabla no tiene UPDATE
// ni DELETE en ninguna ruta del código.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append inserta un movimiento. Delta cero se rechaza (el esquema también lo
// impide con un CHECK); no hay validación de saldo resultante.
func (r *StockMovementRepo) Append(movement *entity.StockMovement) error {
	if movement.QuantityDelta.IsZero() {
		return domain.ErrInvalidInput
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.ItemID, movement.LocationID,
		movement.QuantityDelta, movement.Reason, movement.SourceSessionID,
		movement.Note, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List devuelve el historial de la empresa con filtros, más reciente primero.
func (r *StockMovementRepo) List(companyID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if f.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, f.ItemID)
		pos++
	}
	if f.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.Reason != nil {
		query += fmt.Sprintf(" AND reason = $%d", pos)
		args = append(args, *f.Reason)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListBySession devuelve las correcciones generadas por un conteo.
func (r *StockMovementRepo) ListBySession(sessionID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE source_session_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// OnHand devuelve la suma de deltas para un par (artículo, ubicación).
func (r *StockMovementRepo) OnHand(companyID, itemID, locationID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity_delta), 0)
		FROM stock_movements
		WHERE company_id = $1 AND item_id = $2 AND location_id = $3`
	var onHand decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, companyID, itemID, locationID).Scan(&onHand)
	if err != nil {
		return decimal.Zero, fmt.Errorf("on hand: %w", err)
	}
	return onHand, nil
}

// OnHandAll devuelve la suma de deltas por par para toda la empresa
// (opcionalmente una sola ubicación). Dentro de una transacción REPEATABLE
// READ esta lectura es el snapshot que congelan los conteos.
func (r *StockMovementRepo) OnHandAll(companyID string, locationID *string) (map[repository.PairKey]decimal.Decimal, error) {
	query := `
		SELECT item_id, location_id, COALESCE(SUM(quantity_delta), 0)
		FROM stock_movements
		WHERE company_id = $1`
	args := []any{companyID}
	if locationID != nil {
		query += " AND location_id = $2"
		args = append(args, *locationID)
	}
	query += " GROUP BY item_id, location_id"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("on hand all: %w", err)
	}
	defer rows.Close()

	out := make(map[repository.PairKey]decimal.Decimal)
	for rows.Next() {
		var key repository.PairKey
		var qty decimal.Decimal
		if err := rows.Scan(&key.ItemID, &key.LocationID, &qty); err != nil {
			return nil, fmt.Errorf("scan on hand: %w", err)
		}
		out[key] = qty
	}
	return out, rows.Err()
}

// Levels devuelve el stock derivado con datos de catálogo para listados.
func (r *StockMovementRepo) Levels(companyID string, locationID *string, category *entity.ItemCategory) ([]repository.StockLevelRow, error) {
	query := `
		SELECT i.id, i.item_number, i.name, i.unit, i.category, l.id, l.name,
			COALESCE(SUM(m.quantity_delta), 0)
		FROM stock_movements m
		JOIN items i ON i.id = m.item_id
		JOIN locations l ON l.id = m.location_id
		WHERE m.company_id = $1`
	args := []any{companyID}
	pos := 2
	if locationID != nil {
		query += fmt.Sprintf(" AND m.location_id = $%d", pos)
		args = append(args, *locationID)
		pos++
	}
	if category != nil {
		query += fmt.Sprintf(" AND i.category = $%d", pos)
		args = append(args, *category)
		pos++
	}
	query += `
		GROUP BY i.id, i.item_number, i.name, i.unit, i.category, l.id, l.name
		ORDER BY i.item_number, l.name`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("stock levels: %w", err)
	}
	defer rows.Close()

	var list []repository.StockLevelRow
	for rows.Next() {
		var row repository.StockLevelRow
		if err := rows.Scan(&row.ItemID, &row.ItemNumber, &row.ItemName, &row.Unit,
			&row.Category, &row.LocationID, &row.LocationName, &row.OnHand); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// LowStock devuelve los pares activos con historial cuyo stock está bajo el
// mínimo del artículo, ordenados por faltante descendente y número de artículo.
func (r *StockMovementRepo) LowStock(companyID string, limit int) ([]repository.LowStockRow, error) {
	query := `
		SELECT i.id, i.item_number, i.name, i.unit, i.min_stock, i.purchase_price,
			l.id, l.name, COALESCE(SUM(m.quantity_delta), 0) AS on_hand
		FROM stock_movements m
		JOIN items i ON i.id = m.item_id
		JOIN locations l ON l.id = m.location_id
		WHERE m.company_id = $1 AND i.active
		GROUP BY i.id, i.item_number, i.name, i.unit, i.min_stock, i.purchase_price, l.id, l.name
		HAVING COALESCE(SUM(m.quantity_delta), 0) < i.min_stock
		ORDER BY i.min_stock - COALESCE(SUM(m.quantity_delta), 0) DESC, i.item_number
		LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()

	var list []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ItemID, &row.ItemNumber, &row.ItemName, &row.Unit,
			&row.MinStock, &row.PurchasePrice, &row.LocationID, &row.LocationName,
			&row.OnHand); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.ItemID, &m.LocationID, &m.QuantityDelta,
		&m.Reason, &m.SourceSessionID, &m.Note, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
