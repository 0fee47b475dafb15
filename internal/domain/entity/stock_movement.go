package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementReason motivo de un movimiento del libro de existencias.
type MovementReason string

const (
	ReasonManual          MovementReason = "manual"           // ajuste manual
	ReasonSale            MovementReason = "sale"             // salida por venta
	ReasonPurchase        MovementReason = "purchase"         // entrada por compra
	ReasonCountCorrection MovementReason = "count_correction" // corrección generada por un conteo físico
)

// Valid indica si el motivo es uno de los conocidos.
func (r MovementReason) Valid() bool {
	switch r {
	case ReasonManual, ReasonSale, ReasonPurchase, ReasonCountCorrection:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del libro de existencias.
// El stock actual de un par (artículo, ubicación) es la suma de sus deltas;
// las correcciones son movimientos nuevos, nunca ediciones retroactivas.
type StockMovement struct {
	ID              string
	CompanyID       string
	ItemID          string
	LocationID      string
	QuantityDelta   decimal.Decimal // con signo; nunca cero
	Reason          MovementReason
	SourceSessionID *string // solo para count_correction: el conteo que lo generó
	Note            string
	CreatedAt       time.Time
	CreatedBy       string
}
