package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppendMovementRequest registro directo en el libro de existencias
// (entrada por compra, salida por venta o ajuste manual).
type AppendMovementRequest struct {
	ItemID        string          `json:"item_id"`
	LocationID    string          `json:"location_id"`
	QuantityDelta decimal.Decimal `json:"quantity_delta"` // con signo; cero se rechaza
	Reason        string          `json:"reason"`         // manual | sale | purchase
	Note          string          `json:"note"`
}

// TransferRequest traslado de cantidad entre dos ubicaciones.
type TransferRequest struct {
	ItemID         string          `json:"item_id"`
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	Quantity       decimal.Decimal `json:"quantity"` // positiva
	Note           string          `json:"note"`
}

// MovementResponse movimiento del libro en respuestas.
type MovementResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	LocationID      string          `json:"location_id"`
	QuantityDelta   decimal.Decimal `json:"quantity_delta"`
	Reason          string          `json:"reason"`
	SourceSessionID *string         `json:"source_session_id,omitempty"`
	Note            string          `json:"note,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	CreatedBy       string          `json:"created_by"`
}

// MovementListRequest filtros del historial de movimientos.
type MovementListRequest struct {
	ItemID     string `query:"item_id"`
	LocationID string `query:"location_id"`
	Reason     string `query:"reason"`
	From       string `query:"from"` // RFC 3339 o YYYY-MM-DD
	To         string `query:"to"`
	PageRequest
}

// StockLevelResponse stock derivado de un par (artículo, ubicación).
type StockLevelResponse struct {
	ItemID       string          `json:"item_id"`
	ItemNumber   string          `json:"item_number"`
	ItemName     string          `json:"item_name"`
	Unit         string          `json:"unit"`
	Category     string          `json:"category"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	OnHand       decimal.Decimal `json:"on_hand"`
}

// LowStockEntry par bajo mínimo con faltante y valor estimado de reposición.
type LowStockEntry struct {
	ItemID                string          `json:"item_id"`
	ItemNumber            string          `json:"item_number"`
	ItemName              string          `json:"item_name"`
	Unit                  string          `json:"unit"`
	LocationID            string          `json:"location_id"`
	LocationName          string          `json:"location_name"`
	OnHand                decimal.Decimal `json:"on_hand"`
	MinStock              decimal.Decimal `json:"min_stock"`
	Shortfall             decimal.Decimal `json:"shortfall"`
	EstimatedReorderValue decimal.Decimal `json:"estimated_reorder_value"`
}
