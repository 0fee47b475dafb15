package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/contalibre/conteo-api/internal/domain"
	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, company_id, item_number, name, description, category, unit,
	purchase_price, sale_price, min_stock, target_stock, active, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un artículo nuevo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.ItemNumber, item.Name, item.Description,
		item.Category, item.Unit, item.PurchasePrice, item.SalePrice,
		item.MinStock, item.TargetStock, item.Active, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID; nil si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Update persiste los campos mutables del artículo.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items
		SET item_number = $2, name = $3, description = $4, category = $5, unit = $6,
			purchase_price = $7, sale_price = $8, min_stock = $9, target_stock = $10,
			active = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ItemNumber, item.Name, item.Description, item.Category, item.Unit,
		item.PurchasePrice, item.SalePrice, item.MinStock, item.TargetStock,
		item.Active, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// ListByCompany lista artículos de la empresa con filtros opcionales.
func (r *ItemRepo) ListByCompany(companyID string, f repository.ItemFilter) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if f.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, *f.Category)
		pos++
	}
	if f.Active != nil {
		query += fmt.Sprintf(" AND active = $%d", pos)
		args = append(args, *f.Active)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY item_number LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListActive lista los artículos activos de la empresa (alcance de conteos).
func (r *ItemRepo) ListActive(companyID string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE company_id = $1 AND active ORDER BY item_number`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// Search busca artículos activos por número o nombre (ILIKE, autocompletado).
func (r *ItemRepo) Search(companyID, search string, limit int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE company_id = $1 AND active
		  AND (item_number ILIKE '%' || $2 || '%' OR name ILIKE '%' || $2 || '%')
		ORDER BY item_number LIMIT $3`
	rows, err := r.q.Query(context.Background(), query, companyID, search, limit)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// Deactivate marca el artículo como inactivo (borrado lógico).
func (r *ItemRepo) Deactivate(id string) error {
	query := `UPDATE items SET active = false, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("deactivate item: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var item entity.Item
	err := row.Scan(
		&item.ID, &item.CompanyID, &item.ItemNumber, &item.Name, &item.Description,
		&item.Category, &item.Unit, &item.PurchasePrice, &item.SalePrice,
		&item.MinStock, &item.TargetStock, &item.Active, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func collectItems(rows pgx.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
