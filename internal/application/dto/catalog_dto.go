package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest alta de artículo en el catálogo.
type CreateItemRequest struct {
	ItemNumber    string          `json:"item_number"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"` // raw_material | semi_finished | finished_goods | trade_goods | consumable
	Unit          string          `json:"unit"`     // piece | kg | liter | meter | carton
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStock      decimal.Decimal `json:"min_stock"`
	TargetStock   decimal.Decimal `json:"target_stock"`
}

// UpdateItemRequest actualización parcial de artículo (campos nil no cambian).
type UpdateItemRequest struct {
	ItemNumber    *string          `json:"item_number"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	Unit          *string          `json:"unit"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	MinStock      *decimal.Decimal `json:"min_stock"`
	TargetStock   *decimal.Decimal `json:"target_stock"`
	Active        *bool            `json:"active"`
}

// ItemResponse representación de un artículo en respuestas.
type ItemResponse struct {
	ID            string          `json:"id"`
	ItemNumber    string          `json:"item_number"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStock      decimal.Decimal `json:"min_stock"`
	TargetStock   decimal.Decimal `json:"target_stock"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemListResponse listado paginado de artículos.
type ItemListResponse struct {
	Total int            `json:"total"`
	Items []ItemResponse `json:"items"`
}

// CreateLocationRequest alta de ubicación.
type CreateLocationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	IsMain      bool   `json:"is_main"`
}

// UpdateLocationRequest actualización parcial de ubicación.
type UpdateLocationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	IsMain      *bool   `json:"is_main"`
}

// LocationResponse representación de una ubicación en respuestas.
type LocationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	IsMain      bool      `json:"is_main"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
