package repository

import "github.com/contalibre/conteo-api/internal/domain/entity"

// ItemFilter filtros opcionales para listar artículos.
type ItemFilter struct {
	Category *entity.ItemCategory
	Active   *bool
	Limit    int
	Offset   int
}

// ItemRepository define el puerto de persistencia del catálogo de artículos (DIP).
// Deactivate reemplaza al borrado físico: los artículos con historial se conservan.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	ListByCompany(companyID string, f ItemFilter) ([]*entity.Item, error)
	ListActive(companyID string) ([]*entity.Item, error)
	Search(companyID, query string, limit int) ([]*entity.Item, error)
	Deactivate(id string) error
}
