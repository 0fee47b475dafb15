package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CountPosition es una línea de un conteo físico: un par (artículo, ubicación)
// con la cantidad esperada congelada al crear la sesión. ExpectedQty es un
// snapshot inmutable; solo CountedQty, CountedBy, CountedAt y Comment cambian
// mientras la sesión está en curso.
type CountPosition struct {
	ID          string
	SessionID   string
	ItemID      string
	LocationID  string
	ExpectedQty decimal.Decimal
	CountedQty  *decimal.Decimal // nil hasta que alguien cuenta
	CountedBy   *string
	CountedAt   *time.Time
	Comment     string
	CreatedAt   time.Time
}

// Counted indica si la posición ya tiene cantidad contada.
func (p *CountPosition) Counted() bool {
	return p.CountedQty != nil
}

// Difference devuelve contado − esperado. Solo está definida cuando la
// posición fue contada; ok es false en caso contrario.
func (p *CountPosition) Difference() (diff decimal.Decimal, ok bool) {
	if p.CountedQty == nil {
		return decimal.Zero, false
	}
	return p.CountedQty.Sub(p.ExpectedQty), true
}
