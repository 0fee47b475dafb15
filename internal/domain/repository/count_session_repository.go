package repository

import (
	"time"

	"github.com/contalibre/conteo-api/internal/domain/entity"
)

// SessionFilter filtros para listar conteos.
type SessionFilter struct {
	Status *entity.SessionStatus
	Limit  int
	Offset int
}

// CountSessionRepository define el puerto de persistencia de conteos físicos (DIP).
//
// MarkCompleted y MarkCancelled son compare-and-swap sobre el estado: solo
// escriben si la fila sigue en un estado que permite la transición y devuelven
// false en caso contrario. Ejecutados dentro de una transacción, un CAS fallido
// revierte todo lo escrito junto a él (exactamente-una-vez en el cierre).
type CountSessionRepository interface {
	Create(session *entity.CountSession) error
	GetByID(id string) (*entity.CountSession, error)
	List(companyID string, f SessionFilter) ([]*entity.CountSession, error)
	MarkCompleted(id, completedBy string, completedAt time.Time) (bool, error)
	MarkCancelled(id string) (bool, error)
}
