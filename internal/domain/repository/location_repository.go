package repository

import "github.com/contalibre/conteo-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia de ubicaciones (DIP).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	Update(location *entity.Location) error
	ListByCompany(companyID string) ([]*entity.Location, error)
}
