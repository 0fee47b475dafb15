package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSessionRequest apertura de un conteo físico.
// LocationID vacío significa todas las ubicaciones de la empresa.
type CreateSessionRequest struct {
	Name          string  `json:"name"`
	EffectiveDate string  `json:"effective_date"` // YYYY-MM-DD
	LocationID    *string `json:"location_id"`
}

// SessionResponse conteo físico en respuestas.
type SessionResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	EffectiveDate time.Time  `json:"effective_date"`
	LocationID    *string    `json:"location_id,omitempty"`
	Status        string     `json:"status"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedBy   *string    `json:"completed_by,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	PositionCount int        `json:"position_count,omitempty"`
}

// SessionListRequest filtros para listar conteos.
type SessionListRequest struct {
	Status string `query:"status"`
	PageRequest
}

// RecordCountRequest registro de cantidad contada para una posición.
type RecordCountRequest struct {
	CountedQty decimal.Decimal `json:"counted_qty"` // no negativa, precisión arbitraria
	Comment    *string         `json:"comment"`
}

// PositionResponse posición de conteo con datos de catálogo y diferencia viva.
type PositionResponse struct {
	ID           string           `json:"id"`
	SessionID    string           `json:"session_id"`
	ItemID       string           `json:"item_id"`
	ItemNumber   string           `json:"item_number"`
	ItemName     string           `json:"item_name"`
	Unit         string           `json:"unit"`
	LocationID   string           `json:"location_id"`
	LocationName string           `json:"location_name"`
	ExpectedQty  decimal.Decimal  `json:"expected_qty"`
	CountedQty   *decimal.Decimal `json:"counted_qty,omitempty"`
	Difference   *decimal.Decimal `json:"difference,omitempty"`
	CountedBy    *string          `json:"counted_by,omitempty"`
	CountedAt    *time.Time       `json:"counted_at,omitempty"`
	Comment      string           `json:"comment,omitempty"`
}

// CompleteSessionResponse resultado del cierre de un conteo.
type CompleteSessionResponse struct {
	Session            SessionResponse `json:"session"`
	CorrectionsCreated int             `json:"corrections_created"`
}
