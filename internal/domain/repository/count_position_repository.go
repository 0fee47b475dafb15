package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contalibre/conteo-api/internal/domain/entity"
)

// PositionDetail posición de conteo con los datos de artículo y ubicación
// que necesitan los listados y los exportes.
type PositionDetail struct {
	Position     entity.CountPosition
	ItemNumber   string
	ItemName     string
	Unit         entity.ItemUnit
	LocationName string
}

// CountPositionRepository define el puerto de persistencia de posiciones (DIP).
//
// Las posiciones se crean todas juntas al abrir el conteo y nunca se agregan
// ni eliminan después; ExpectedQty jamás se modifica. RecordCount solo escribe
// si la sesión dueña sigue en curso (garantía a nivel de SQL contra carreras
// con el cierre) y devuelve false si la guarda no se cumple.
type CountPositionRepository interface {
	BulkCreate(positions []*entity.CountPosition) error
	GetByID(id string) (*entity.CountPosition, error)
	GetDetailed(id string) (*PositionDetail, error)
	ListBySession(sessionID string) ([]*entity.CountPosition, error)
	ListBySessionDetailed(sessionID string) ([]PositionDetail, error)
	RecordCount(positionID string, countedQty decimal.Decimal, comment *string, countedBy string, countedAt time.Time) (bool, error)
}
