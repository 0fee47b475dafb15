package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemCategory categoría de un artículo del catálogo maestro.
type ItemCategory string

const (
	CategoryRawMaterial   ItemCategory = "raw_material"
	CategorySemiFinished  ItemCategory = "semi_finished"
	CategoryFinishedGoods ItemCategory = "finished_goods"
	CategoryTradeGoods    ItemCategory = "trade_goods"
	CategoryConsumable    ItemCategory = "consumable"
)

// Valid indica si la categoría es una de las conocidas.
func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryRawMaterial, CategorySemiFinished, CategoryFinishedGoods,
		CategoryTradeGoods, CategoryConsumable:
		return true
	}
	return false
}

// ItemUnit unidad de medida del artículo.
type ItemUnit string

const (
	UnitPiece  ItemUnit = "piece"
	UnitKg     ItemUnit = "kg"
	UnitLiter  ItemUnit = "liter"
	UnitMeter  ItemUnit = "meter"
	UnitCarton ItemUnit = "carton"
)

// Valid indica si la unidad es una de las conocidas.
func (u ItemUnit) Valid() bool {
	switch u {
	case UnitPiece, UnitKg, UnitLiter, UnitMeter, UnitCarton:
		return true
	}
	return false
}

// Item representa un artículo del catálogo (multi-empresa).
// MinStock nunca es negativo; un artículo inactivo conserva su historial
// pero no entra en conteos nuevos.
type Item struct {
	ID            string
	CompanyID     string
	ItemNumber    string // código único por empresa
	Name          string
	Description   string
	Category      ItemCategory
	Unit          ItemUnit
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MinStock      decimal.Decimal
	TargetStock   decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
