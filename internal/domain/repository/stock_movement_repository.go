package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contalibre/conteo-api/internal/domain/entity"
)

// MovementFilter filtros para el historial de movimientos.
type MovementFilter struct {
	ItemID     string
	LocationID string
	Reason     *entity.MovementReason
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// StockLevelRow stock actual derivado para un par (artículo, ubicación),
// con los datos del catálogo necesarios para mostrarlo.
type StockLevelRow struct {
	ItemID       string
	ItemNumber   string
	ItemName     string
	Unit         entity.ItemUnit
	Category     entity.ItemCategory
	LocationID   string
	LocationName string
	OnHand       decimal.Decimal
}

// LowStockRow par (artículo, ubicación) por debajo del mínimo configurado.
type LowStockRow struct {
	ItemID        string
	ItemNumber    string
	ItemName      string
	Unit          entity.ItemUnit
	MinStock      decimal.Decimal
	PurchasePrice decimal.Decimal
	LocationID    string
	LocationName  string
	OnHand        decimal.Decimal
}

// StockMovementRepository define el puerto del libro de existencias (DIP).
// El libro es append-only: no hay Update ni Delete. OnHand y los agregados
// se calculan sumando deltas dentro de la transacción del Querier en uso,
// de modo que un snapshot lea un único punto consistente.
type StockMovementRepository interface {
	Append(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(companyID string, f MovementFilter) ([]*entity.StockMovement, error)
	ListBySession(sessionID string) ([]*entity.StockMovement, error)

	// OnHand devuelve la suma de deltas para un par (artículo, ubicación).
	OnHand(companyID, itemID, locationID string) (decimal.Decimal, error)
	// OnHandAll devuelve la suma de deltas por par para artículos activos de
	// la empresa; locationID restringe a una ubicación si no es nil.
	OnHandAll(companyID string, locationID *string) (map[PairKey]decimal.Decimal, error)
	// Levels devuelve el stock derivado con datos de catálogo para listados.
	Levels(companyID string, locationID *string, category *entity.ItemCategory) ([]StockLevelRow, error)
	// LowStock devuelve los pares con historial cuyo stock está bajo el mínimo,
	// ordenados por faltante descendente y número de artículo.
	LowStock(companyID string, limit int) ([]LowStockRow, error)
}

// PairKey clave de un par (artículo, ubicación).
type PairKey struct {
	ItemID     string
	LocationID string
}
